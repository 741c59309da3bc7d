package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"

	"gorm.io/gorm"
)

// The fakes below mirror the repository contracts: conditional transitions
// fail with util.ErrAlreadyResolved once a row has left pending, and Approve
// persists its user updates together with the flip.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uint]*model.User
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[uint]*model.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) FindByID(id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *fakeUserStore) FindByEmail(email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *fakeUserStore) put(u *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.users[u.ID] = &cp
}

type fakeGroupRequestStore struct {
	mu       sync.Mutex
	requests map[string]*model.GroupRequest
	users    *fakeUserStore
	seq      int
}

func newFakeGroupRequestStore(users *fakeUserStore) *fakeGroupRequestStore {
	return &fakeGroupRequestStore{requests: make(map[string]*model.GroupRequest), users: users}
}

func (s *fakeGroupRequestStore) Create(req *model.GroupRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if req.ID == "" {
		req.ID = fmt.Sprintf("greq-%d", s.seq)
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *fakeGroupRequestStore) FindByID(id string) (*model.GroupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *fakeGroupRequestStore) HasPendingPair(fromID, toID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.Status != model.RequestPending {
			continue
		}
		if (r.FromID == fromID && r.ToID == toID) || (r.FromID == toID && r.ToID == fromID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeGroupRequestStore) ListPendingFor(toID uint) ([]model.GroupRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.GroupRequest
	for _, r := range s.requests {
		if r.ToID == toID && r.Status == model.RequestPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeGroupRequestStore) Reject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if req.Status != model.RequestPending {
		return util.ErrAlreadyResolved
	}
	req.Status = model.RequestRejected
	return nil
}

func (s *fakeGroupRequestStore) Approve(id string, from, to *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if req.Status != model.RequestPending {
		return util.ErrAlreadyResolved
	}

	// Same guard as the production transaction: a user grouped since the
	// caller read them fails the whole approval and the request stays pending.
	for _, u := range []*model.User{from, to} {
		current, err := s.users.FindByID(u.ID)
		if err != nil {
			return err
		}
		if current.GroupID != nil && (u.GroupID == nil || *current.GroupID != *u.GroupID) {
			return util.ErrAlreadyGrouped
		}
	}

	req.Status = model.RequestApproved
	s.users.put(from)
	s.users.put(to)
	return nil
}

type fakeSupervisorRequestStore struct {
	mu       sync.Mutex
	requests map[string]*model.SupervisorRequest
	users    *fakeUserStore
	seq      int
}

func newFakeSupervisorRequestStore(users *fakeUserStore) *fakeSupervisorRequestStore {
	return &fakeSupervisorRequestStore{requests: make(map[string]*model.SupervisorRequest), users: users}
}

func (s *fakeSupervisorRequestStore) Create(req *model.SupervisorRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	if req.ID == "" {
		req.ID = fmt.Sprintf("sreq-%d", s.seq)
	}
	cp := *req
	s.requests[req.ID] = &cp
	return nil
}

func (s *fakeSupervisorRequestStore) FindByID(id string) (*model.SupervisorRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *req
	return &cp, nil
}

func (s *fakeSupervisorRequestStore) HasActiveForStudent(studentID uint) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.requests {
		if r.StudentID == studentID && (r.Status == model.RequestPending || r.Status == model.RequestApproved) {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeSupervisorRequestStore) ListPendingForSupervisor(supervisorID uint) ([]model.SupervisorRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.SupervisorRequest
	for _, r := range s.requests {
		if r.SupervisorID == supervisorID && r.Status == model.RequestPending {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeSupervisorRequestStore) Reject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	req, ok := s.requests[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if req.Status != model.RequestPending {
		return util.ErrAlreadyResolved
	}
	req.Status = model.RequestRejected
	return nil
}

func (s *fakeSupervisorRequestStore) Approve(id string, student, supervisor *model.User) error {
	s.mu.Lock()
	req, ok := s.requests[id]
	if !ok {
		s.mu.Unlock()
		return gorm.ErrRecordNotFound
	}
	if req.Status != model.RequestPending {
		s.mu.Unlock()
		return util.ErrAlreadyResolved
	}
	req.Status = model.RequestApproved
	s.mu.Unlock()

	s.users.put(student)
	s.users.put(supervisor)
	return nil
}

func (s *fakeSupervisorRequestStore) ResyncSnapshots(supervisor *model.User) (int, error) {
	n := 0
	for _, id := range supervisor.Roster {
		student, err := s.users.FindByID(id)
		if err != nil {
			continue
		}
		if student.SupervisorID == nil || *student.SupervisorID != supervisor.ID {
			continue
		}
		student.SupervisorName = supervisor.Name
		student.SupervisorDepartment = supervisor.Department
		student.SupervisorEmail = supervisor.Email
		s.users.put(student)
		n++
	}
	return n, nil
}

type fakeDocumentStore struct {
	mu         sync.Mutex
	docs       map[string]*model.Document
	seq        int
	failCreate bool
}

func newFakeDocumentStore() *fakeDocumentStore {
	return &fakeDocumentStore{docs: make(map[string]*model.Document)}
}

func (s *fakeDocumentStore) Create(doc *model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCreate {
		return fmt.Errorf("insert failed")
	}
	s.seq++
	if doc.ID == "" {
		doc.ID = fmt.Sprintf("doc-%d", s.seq)
	}
	cp := *doc
	s.docs[doc.ID] = &cp
	return nil
}

func (s *fakeDocumentStore) FindByID(id string) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *doc
	return &cp, nil
}

func (s *fakeDocumentStore) LatestForSlot(studentID uint, fileType model.FileType) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var latest *model.Document
	for _, d := range s.docs {
		if d.UploadedBy != studentID || d.FileType != fileType {
			continue
		}
		if latest == nil || d.ID > latest.ID {
			latest = d
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *fakeDocumentStore) ListByStudent(studentID uint) ([]model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Document
	for _, d := range s.docs {
		if d.UploadedBy == studentID {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeDocumentStore) SetStatus(id string, status model.DocumentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok || doc.Status == model.DocApproved {
		return gorm.ErrRecordNotFound
	}
	doc.Status = status
	return nil
}

func (s *fakeDocumentStore) SetFeedback(id string, feedback string, status model.DocumentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[id]
	if !ok || doc.Status == model.DocApproved {
		return gorm.ErrRecordNotFound
	}
	doc.Feedback = feedback
	doc.Status = status
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: make(map[string][]byte)}
}

func (s *fakeBlobStore) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if s.failPut {
		return "", fmt.Errorf("blob backend unavailable")
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, reader); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[filename] = buf.Bytes()
	return s.GetURL(filename), nil
}

func (s *fakeBlobStore) Delete(ctx context.Context, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, filename)
	s.deleted = append(s.deleted, filename)
	return nil
}

func (s *fakeBlobStore) GetURL(filename string) string {
	return "/uploads/" + filename
}

func (s *fakeBlobStore) has(filename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[filename]
	return ok
}

type fakeEvaluationStore struct {
	mu      sync.Mutex
	records map[uint]*model.Evaluation
}

func newFakeEvaluationStore() *fakeEvaluationStore {
	return &fakeEvaluationStore{records: make(map[uint]*model.Evaluation)}
}

func (s *fakeEvaluationStore) FindByStudent(studentID uint) (*model.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[studentID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *fakeEvaluationStore) FindOrCreate(studentID uint) (*model.Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.records[studentID]; ok {
		cp := *e
		return &cp, nil
	}
	e := &model.Evaluation{StudentID: studentID, Status: model.EvalPending}
	s.records[studentID] = e
	cp := *e
	return &cp, nil
}

func (s *fakeEvaluationStore) UpdateSlot(studentID uint, role model.EvaluatorRole, slot model.MarkSlot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.records[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	target := e.Slot(role)
	if target == nil {
		return fmt.Errorf("no slot for role %q", role)
	}
	*target = slot
	e.Status = model.EvalEvaluated
	return nil
}

type fakeMilestoneStore struct {
	mu   sync.Mutex
	seq  uint
	byID map[uint]*model.Milestone
}

func newFakeMilestoneStore() *fakeMilestoneStore {
	return &fakeMilestoneStore{byID: make(map[uint]*model.Milestone)}
}

func (s *fakeMilestoneStore) Create(m *model.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Name == m.Name {
			return util.ErrConflict
		}
	}
	s.seq++
	m.ID = s.seq
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *fakeMilestoneStore) FindByID(id uint) (*model.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *fakeMilestoneStore) List() ([]model.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ms []model.Milestone
	for _, m := range s.byID {
		ms = append(ms, *m)
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i].Order < ms[j].Order })
	return ms, nil
}

func (s *fakeMilestoneStore) Update(m *model.Milestone) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[m.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *m
	s.byID[m.ID] = &cp
	return nil
}

func (s *fakeMilestoneStore) Delete(id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, id)
	return nil
}
