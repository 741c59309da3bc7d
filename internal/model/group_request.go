package model

type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// GroupRequest is one row of the group formation ledger. Rows transition
// pending -> approved|rejected exactly once and are never deleted.
type GroupRequest struct {
	UUIDBase
	FromID uint          `gorm:"index;not null" json:"fromId"`
	From   User          `gorm:"foreignKey:FromID;references:ID;constraint:false" json:"from,omitempty"`
	ToID   uint          `gorm:"index;not null" json:"toId"`
	To     User          `gorm:"foreignKey:ToID;references:ID;constraint:false" json:"to,omitempty"`
	Status RequestStatus `gorm:"type:enum('pending','approved','rejected');default:'pending'" json:"status"`
}

func (GroupRequest) TableName() string {
	return "group_requests"
}
