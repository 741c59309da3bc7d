package service

import (
	"errors"
	"sync"
	"testing"

	"fyp_portal_backend/internal/model"
	"fyp_portal_backend/internal/util"
)

func newEvaluationFixture(users ...*model.User) (*EvaluationService, *fakeEvaluationStore) {
	es := newFakeEvaluationStore()
	return NewEvaluationService(es, newFakeUserStore(users...)), es
}

func TestEvaluationSubmitBounds(t *testing.T) {
	tests := []struct {
		name    string
		role    model.EvaluatorRole
		marks   int
		wantErr bool
	}{
		{"supervisor at bound", model.EvalSupervisor, 50, false},
		{"supervisor over bound", model.EvalSupervisor, 51, true},
		{"internal at bound", model.EvalInternal, 50, false},
		{"internal over bound", model.EvalInternal, 51, true},
		{"external at bound", model.EvalExternal, 100, false},
		{"external over bound", model.EvalExternal, 101, true},
		{"zero marks", model.EvalSupervisor, 0, false},
		{"negative marks", model.EvalSupervisor, -1, true},
		{"not an evaluator role", model.EvaluatorRole("student"), 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newEvaluationFixture(student(1, "alice@university.edu"))

			_, err := svc.Submit(1, tt.role, tt.marks, "notes")
			if tt.wantErr {
				if !errors.Is(err, util.ErrValidation) {
					t.Fatalf("Submit() error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Submit() unexpected error: %v", err)
			}
		})
	}
}

func TestEvaluationSubmitUnknownStudent(t *testing.T) {
	svc, _ := newEvaluationFixture(
		student(1, "alice@university.edu"),
		supervisorUser(10, "drsmith", 5),
	)

	if _, err := svc.Submit(99, model.EvalSupervisor, 40, ""); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("unknown student: error = %v, want ErrNotFound", err)
	}
	// Evaluating a non-student account is also NotFound.
	if _, err := svc.Submit(10, model.EvalSupervisor, 40, ""); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("non-student target: error = %v, want ErrNotFound", err)
	}
}

func TestEvaluationSlotsAreIndependent(t *testing.T) {
	svc, _ := newEvaluationFixture(student(1, "alice@university.edu"))

	if _, err := svc.Submit(1, model.EvalSupervisor, 40, "solid work"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(1, model.EvalInternal, 35, ""); err != nil {
		t.Fatal(err)
	}
	eval, err := svc.Submit(1, model.EvalExternal, 80, "")
	if err != nil {
		t.Fatal(err)
	}

	if got := eval.SupervisorMarks.Value(); got != 40 {
		t.Errorf("supervisor slot = %d, want 40", got)
	}
	if got := eval.InternalMarks.Value(); got != 35 {
		t.Errorf("internal slot = %d, want 35", got)
	}
	if got := eval.ExternalMarks.Value(); got != 80 {
		t.Errorf("external slot = %d, want 80", got)
	}
	if eval.Total() != 155 {
		t.Errorf("total = %d, want 155", eval.Total())
	}
	if eval.SupervisorMarks.EvaluatedAt == nil {
		t.Error("populated slot should carry a timestamp")
	}
}

func TestEvaluationResubmitOverwritesOwnSlotOnly(t *testing.T) {
	svc, _ := newEvaluationFixture(student(1, "alice@university.edu"))

	if _, err := svc.Submit(1, model.EvalSupervisor, 40, "first pass"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Submit(1, model.EvalInternal, 30, ""); err != nil {
		t.Fatal(err)
	}

	eval, err := svc.Submit(1, model.EvalSupervisor, 45, "revised")
	if err != nil {
		t.Fatal(err)
	}
	if got := eval.SupervisorMarks.Value(); got != 45 {
		t.Errorf("supervisor slot = %d, want 45 after resubmission", got)
	}
	if eval.SupervisorMarks.Feedback != "revised" {
		t.Errorf("supervisor feedback = %q", eval.SupervisorMarks.Feedback)
	}
	if got := eval.InternalMarks.Value(); got != 30 {
		t.Errorf("internal slot = %d, resubmission must not touch other slots", got)
	}
}

func TestEvaluationPartialTotal(t *testing.T) {
	svc, _ := newEvaluationFixture(student(1, "alice@university.edu"))

	// No record at all: total is 0, not an error.
	total, err := svc.Total(1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 0 {
		t.Errorf("total before any submission = %d, want 0", total)
	}

	if _, err := svc.Submit(1, model.EvalExternal, 70, ""); err != nil {
		t.Fatal(err)
	}
	total, err = svc.Total(1)
	if err != nil {
		t.Fatal(err)
	}
	if total != 70 {
		t.Errorf("partial total = %d, want 70", total)
	}
}

func TestEvaluationGetMissingRecord(t *testing.T) {
	svc, _ := newEvaluationFixture(student(1, "alice@university.edu"))

	if _, err := svc.Get(1); !errors.Is(err, util.ErrNotFound) {
		t.Fatalf("Get() before any submission: error = %v, want ErrNotFound", err)
	}
}

func TestEvaluationConcurrentDistinctRoles(t *testing.T) {
	svc, _ := newEvaluationFixture(student(1, "alice@university.edu"))

	var wg sync.WaitGroup
	submissions := []struct {
		role  model.EvaluatorRole
		marks int
	}{
		{model.EvalSupervisor, 42},
		{model.EvalInternal, 38},
		{model.EvalExternal, 77},
	}
	errs := make([]error, len(submissions))
	for i, sub := range submissions {
		wg.Add(1)
		go func(i int, role model.EvaluatorRole, marks int) {
			defer wg.Done()
			_, errs[i] = svc.Submit(1, role, marks, "")
		}(i, sub.role, sub.marks)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("submission %d failed: %v", i, err)
		}
	}

	eval, err := svc.Get(1)
	if err != nil {
		t.Fatal(err)
	}
	if eval.Total() != 42+38+77 {
		t.Errorf("total = %d, all three slots must survive concurrent submission", eval.Total())
	}
	if eval.Status != model.EvalEvaluated {
		t.Errorf("status = %q, want evaluated", eval.Status)
	}
}
