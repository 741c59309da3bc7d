package repository

import (
	"context"
	"fmt"
	"time"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type GroupRequestRepository struct {
	DB    *gorm.DB
	Redis *redis.Client
	ctx   context.Context
}

func NewGroupRequestRepository(db *gorm.DB, rdb *redis.Client) *GroupRequestRepository {
	return &GroupRequestRepository{
		DB:    db,
		Redis: rdb,
		ctx:   context.Background(),
	}
}

func (r *GroupRequestRepository) Create(req *model.GroupRequest) error {
	return r.DB.Create(req).Error
}

func (r *GroupRequestRepository) FindByID(id string) (*model.GroupRequest, error) {
	var req model.GroupRequest
	err := r.DB.First(&req, "id = ?", id).Error
	return &req, err
}

// HasPendingPair treats the pair as unordered: a pending request in either
// direction blocks a new one, so two students cannot hold mutual pending
// requests that would later race to approval.
func (r *GroupRequestRepository) HasPendingPair(fromID, toID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.GroupRequest{}).
		Where("((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?)) AND status = ?",
			fromID, toID, toID, fromID, model.RequestPending).
		Count(&count).Error
	return count > 0, err
}

func (r *GroupRequestRepository) ListPendingFor(toID uint) ([]model.GroupRequest, error) {
	var reqs []model.GroupRequest
	err := r.DB.Preload("From").
		Where("to_id = ? AND status = ?", toID, model.RequestPending).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

// Reject flips a pending request to rejected. The WHERE status='pending'
// clause serializes concurrent resolutions: the loser sees zero rows.
func (r *GroupRequestRepository) Reject(id string) error {
	res := r.DB.Model(&model.GroupRequest{}).
		Where("id = ? AND status = ?", id, model.RequestPending).
		Update("status", model.RequestRejected)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrAlreadyResolved
	}
	return nil
}

// Approve persists both membership updates and the status flip in one
// transaction. Either everything lands or the request stays pending.
//
// Each user update is guarded on the group id observed when the caller read
// the user: ungrouped then, or already in the group being joined. A
// concurrent approval of a different request that grouped the user in the
// meantime makes the guard miss, and the whole transaction rolls back with
// ErrAlreadyGrouped instead of overwriting the earlier membership.
func (r *GroupRequestRepository) Approve(id string, from, to *model.User) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, u := range []*model.User{from, to} {
			res := tx.Model(&model.User{}).
				Where("id = ? AND (group_id IS NULL OR group_id = ?)", u.ID, u.GroupID).
				Select("GroupID", "TeamMembers", "UpdatedAt").
				Updates(u)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return util.ErrAlreadyGrouped
			}
		}

		res := tx.Model(&model.GroupRequest{}).
			Where("id = ? AND status = ?", id, model.RequestPending).
			Update("status", model.RequestApproved)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return util.ErrAlreadyResolved
		}
		return nil
	})

	if err == nil && r.Redis != nil && from.GroupID != nil {
		r.Redis.Del(r.ctx, groupMembersKey(*from.GroupID))
	}
	return err
}

func groupMembersKey(groupID string) string {
	return fmt.Sprintf("fyp:group:members:%s", groupID)
}

// GroupMemberIDsCached resolves the member ids of a group, serving from
// redis when possible. Falls back to the users table on a miss.
func (r *GroupRequestRepository) GroupMemberIDsCached(groupID string) ([]uint, error) {
	if r.Redis == nil {
		return r.groupMemberIDs(groupID)
	}

	key := groupMembersKey(groupID)
	cached, err := r.Redis.SMembers(r.ctx, key).Result()
	if err == nil && len(cached) > 0 {
		var ids []uint
		for _, s := range cached {
			var id uint
			fmt.Sscanf(s, "%d", &id)
			if id > 0 {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	ids, err := r.groupMemberIDs(groupID)
	if err == nil && len(ids) > 0 {
		pipe := r.Redis.Pipeline()
		for _, id := range ids {
			pipe.SAdd(r.ctx, key, id)
		}
		pipe.Expire(r.ctx, key, 24*time.Hour)
		pipe.Exec(r.ctx)
	}
	return ids, err
}

func (r *GroupRequestRepository) groupMemberIDs(groupID string) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.User{}).
		Where("group_id = ?", groupID).
		Pluck("id", &ids).Error
	return ids, err
}
