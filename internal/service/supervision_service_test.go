package service

import (
	"errors"
	"sync"
	"testing"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"
)

func supervisorUser(id uint, name string, maxGroups int) *model.User {
	return &model.User{
		BaseModel:  model.BaseModel{ID: id},
		Name:       name,
		Email:      name + "@university.edu",
		Role:       model.Supervisor,
		Department: "CS",
		MaxGroups:  maxGroups,
	}
}

func newSupervisionFixture(users ...*model.User) (*SupervisionService, *fakeUserStore, *fakeSupervisorRequestStore) {
	us := newFakeUserStore(users...)
	rs := newFakeSupervisorRequestStore(us)
	return NewSupervisionService(rs, us), us, rs
}

func TestSupervisionSubmit(t *testing.T) {
	tests := []struct {
		name         string
		supervisorID uint
		title        string
		wantErr      error
	}{
		{"ok", 10, "Compiler for a toy language", nil},
		{"missing title", 10, "", util.ErrValidation},
		{"unknown supervisor", 99, "Some project", util.ErrNotFound},
		{"target is a student", 2, "Some project", util.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newSupervisionFixture(
				student(1, "alice@university.edu"),
				student(2, "bob@university.edu"),
				supervisorUser(10, "drsmith", 5),
			)

			req, err := svc.Submit(1, tt.supervisorID, tt.title, "details")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Submit() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit() unexpected error: %v", err)
			}
			if req.Status != model.RequestPending {
				t.Errorf("status = %q, want pending", req.Status)
			}
		})
	}
}

func TestSupervisionOneActiveRequestPerStudent(t *testing.T) {
	svc, _, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
		supervisorUser(11, "drjones", 5),
	)

	req, err := svc.Submit(1, 10, "Project A", "")
	if err != nil {
		t.Fatal(err)
	}

	// Pending blocks a second submission, even to a different supervisor.
	if _, err := svc.Submit(1, 11, "Project B", ""); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("second Submit() error = %v, want ErrConflict", err)
	}

	// Approved keeps blocking.
	if err := svc.Decide(req.ID, 10, DecisionApprove); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(1, 11, "Project B", ""); !errors.Is(err, util.ErrConflict) {
		t.Fatalf("Submit() after approval error = %v, want ErrConflict", err)
	}
}

func TestSupervisionResubmitAfterRejection(t *testing.T) {
	svc, _, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
	)

	req, _ := svc.Submit(1, 10, "Project A", "")
	if err := svc.Decide(req.ID, 10, DecisionReject); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(1, 10, "Project A, revised", ""); err != nil {
		t.Fatalf("Submit() after rejection: %v", err)
	}
}

func TestSupervisionApproveSnapshotsAndExtendsRoster(t *testing.T) {
	svc, users, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
	)

	req, _ := svc.Submit(1, 10, "Project A", "")
	if err := svc.Decide(req.ID, 10, DecisionApprove); err != nil {
		t.Fatal(err)
	}

	alice, _ := users.FindByID(1)
	if alice.SupervisorID == nil || *alice.SupervisorID != 10 {
		t.Fatalf("supervisor id not snapshotted: %v", alice.SupervisorID)
	}
	if alice.SupervisorName != "drsmith" || alice.SupervisorDepartment != "CS" {
		t.Errorf("snapshot fields = %q/%q", alice.SupervisorName, alice.SupervisorDepartment)
	}
	if alice.ProjectStatus != model.ProjectApproved {
		t.Errorf("project status = %q, want Approved", alice.ProjectStatus)
	}

	sup, _ := users.FindByID(10)
	if !sup.Roster.Contains(1) {
		t.Errorf("roster = %v, want it to contain student 1", sup.Roster)
	}
}

func TestSupervisionCapacity(t *testing.T) {
	sup := supervisorUser(10, "drsmith", 1)
	svc, users, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		student(2, "bob@university.edu"),
		sup,
	)

	reqA, _ := svc.Submit(1, 10, "Project A", "")
	reqB, _ := svc.Submit(2, 10, "Project B", "")

	if err := svc.Decide(reqA.ID, 10, DecisionApprove); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(reqB.ID, 10, DecisionApprove); !errors.Is(err, util.ErrCapacityExceeded) {
		t.Fatalf("over-capacity approve error = %v, want ErrCapacityExceeded", err)
	}

	// The blocked request stays pending: it can still be rejected, or approved
	// once capacity frees up.
	if err := svc.Decide(reqB.ID, 10, DecisionReject); err != nil {
		t.Fatalf("rejecting the blocked request: %v", err)
	}

	bob, _ := users.FindByID(2)
	if bob.SupervisorID != nil {
		t.Error("blocked approval must not assign a supervisor")
	}
}

func TestSupervisionCapacityZeroIsUnlimited(t *testing.T) {
	svc, _, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		student(2, "bob@university.edu"),
		student(3, "carol@university.edu"),
		supervisorUser(10, "drsmith", 0),
	)

	for _, sid := range []uint{1, 2, 3} {
		req, err := svc.Submit(sid, 10, "Project", "")
		if err != nil {
			t.Fatal(err)
		}
		if err := svc.Decide(req.ID, 10, DecisionApprove); err != nil {
			t.Fatalf("approve for student %d: %v", sid, err)
		}
	}
}

func TestSupervisionDecideGuards(t *testing.T) {
	svc, _, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
		supervisorUser(11, "drjones", 5),
	)

	req, _ := svc.Submit(1, 10, "Project A", "")

	if err := svc.Decide("missing", 10, DecisionApprove); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unknown id: error = %v, want ErrNotFound", err)
	}
	if err := svc.Decide(req.ID, 11, DecisionApprove); !errors.Is(err, util.ErrForbidden) {
		t.Errorf("wrong supervisor: error = %v, want ErrForbidden", err)
	}

	if err := svc.Decide(req.ID, 10, DecisionApprove); err != nil {
		t.Fatal(err)
	}
	if err := svc.Decide(req.ID, 10, DecisionReject); !errors.Is(err, util.ErrAlreadyResolved) {
		t.Errorf("second decision: error = %v, want ErrAlreadyResolved", err)
	}
}

func TestSupervisionConcurrentDoubleDecide(t *testing.T) {
	svc, _, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
	)

	req, _ := svc.Submit(1, 10, "Project A", "")

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = svc.Decide(req.ID, 10, DecisionApprove)
		}(i)
	}
	wg.Wait()

	won := 0
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, util.ErrAlreadyResolved):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 {
		t.Fatalf("exactly one decision must win, got %d", won)
	}
}

func TestSupervisionResyncSnapshots(t *testing.T) {
	svc, users, _ := newSupervisionFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
	)

	req, _ := svc.Submit(1, 10, "Project A", "")
	if err := svc.Decide(req.ID, 10, DecisionApprove); err != nil {
		t.Fatal(err)
	}

	// Profile edit after approval: the student's copy goes stale.
	sup, _ := users.FindByID(10)
	sup.Department = "Software Engineering"
	users.put(sup)

	n, err := svc.ResyncSnapshots(10)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("refreshed %d rows, want 1", n)
	}

	alice, _ := users.FindByID(1)
	if alice.SupervisorDepartment != "Software Engineering" {
		t.Errorf("snapshot department = %q after resync", alice.SupervisorDepartment)
	}
}
