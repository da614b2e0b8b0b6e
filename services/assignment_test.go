package services

import (
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"submission-portal-api/models"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func makeSnapshot(loads map[string]int, unassigned int) []models.Submission {
	var snapshot []models.Submission
	id := 1
	base := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	for rater, load := range loads {
		for i := 0; i < load; i++ {
			snapshot = append(snapshot, models.Submission{
				SubmissionID:  id,
				AssignedRater: strPtr(rater),
				SubmittedAt:   base.Add(time.Duration(id) * time.Minute),
			})
			id++
		}
	}
	for i := 0; i < unassigned; i++ {
		snapshot = append(snapshot, models.Submission{
			SubmissionID: id,
			SubmittedAt:  base.Add(time.Duration(id) * time.Minute),
		})
		id++
	}
	return snapshot
}

func TestPlanAssignmentsBalancesExistingLoad(t *testing.T) {
	roster := []string{"A", "B", "C", "D", "E", "F"}
	loads := map[string]int{"A": 3, "B": 1, "C": 4, "D": 1, "E": 5, "F": 9}

	snapshot := makeSnapshot(loads, 4)
	plan := PlanAssignments(snapshot, roster)

	if len(plan) != 4 {
		t.Fatalf("expected 4 assignments, got %d", len(plan))
	}

	// Least loaded first, roster order breaking the B/D tie, then the two
	// lowest of the remainder.
	wantRaters := []string{"B", "D", "A", "C"}
	for i, a := range plan {
		if a.Rater != wantRaters[i] {
			t.Fatalf("assignment %d: got rater %s, want %s", i, a.Rater, wantRaters[i])
		}
	}

	// Resulting spread must not exceed the pre-batch spread by more than 1.
	after := map[string]int{}
	for k, v := range loads {
		after[k] = v
	}
	for _, a := range plan {
		after[a.Rater]++
	}
	min, max := after["A"], after["A"]
	for _, v := range after {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	preSpread := 9 - 1
	if max-min > preSpread+1 {
		t.Fatalf("load spread grew from %d to %d", preSpread, max-min)
	}
}

func TestPlanAssignmentsWalksSubmissionOrder(t *testing.T) {
	roster := []string{"A", "B"}
	snapshot := makeSnapshot(nil, 3)

	plan := PlanAssignments(snapshot, roster)
	if len(plan) != 3 {
		t.Fatalf("expected 3 assignments, got %d", len(plan))
	}

	// Oldest submission goes first, cycling back after the last rater.
	for i := 1; i < len(plan); i++ {
		if plan[i].SubmissionID <= plan[i-1].SubmissionID {
			t.Fatalf("assignments out of submission order: %v", plan)
		}
	}
	if plan[0].Rater != "A" || plan[1].Rater != "B" || plan[2].Rater != "A" {
		t.Fatalf("unexpected round-robin order: %v", plan)
	}
}

func TestPlanAssignmentsEqualLoadsKeepRosterOrder(t *testing.T) {
	roster := []string{"X", "Y", "Z"}
	snapshot := makeSnapshot(map[string]int{"X": 2, "Y": 2, "Z": 2}, 3)

	plan := PlanAssignments(snapshot, roster)
	want := []string{"X", "Y", "Z"}
	for i, a := range plan {
		if a.Rater != want[i] {
			t.Fatalf("assignment %d: got %s, want %s", i, a.Rater, want[i])
		}
	}
}

func TestPlanAssignmentsEmptyBatch(t *testing.T) {
	roster := []string{"A", "B"}
	snapshot := makeSnapshot(map[string]int{"A": 2, "B": 1}, 0)

	if plan := PlanAssignments(snapshot, roster); plan != nil {
		t.Fatalf("expected no plan, got %v", plan)
	}
	if plan := PlanAssignments(nil, roster); plan != nil {
		t.Fatalf("expected no plan for empty snapshot, got %v", plan)
	}
}

func TestPlanAssignmentsDoesNotMutateRoster(t *testing.T) {
	roster := []string{"A", "B", "C"}
	snapshot := makeSnapshot(map[string]int{"A": 5, "C": 1}, 2)

	PlanAssignments(snapshot, roster)

	if roster[0] != "A" || roster[1] != "B" || roster[2] != "C" {
		t.Fatalf("roster was mutated: %v", roster)
	}
}

func TestAssignNewEmptyRoster(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewAssignmentService(db)
	_, err := svc.AssignNew(nil)
	if !errors.Is(err, ErrEmptyRoster) {
		t.Fatalf("expected ErrEmptyRoster, got %v", err)
	}
	state.verifyComplete(t)
}

func TestAssignNewNothingToDo(t *testing.T) {
	submitted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .submissions. ORDER BY submitted_at ASC`),
			columns: submissionColumns,
			rows: [][]driver.Value{
				submissionRow(1, "Alpha", "SS-101", "A", int64(7), submitted),
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	_, err := svc.AssignNew([]string{"A", "B"})
	if !errors.Is(err, ErrNothingToAssign) {
		t.Fatalf("expected ErrNothingToAssign, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestAssignNewPersistsAssignment(t *testing.T) {
	submitted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .submissions. ORDER BY submitted_at ASC`),
			columns: submissionColumns,
			rows: [][]driver.Value{
				submissionRow(1, "Alpha", "SS-101", "A", int64(7), submitted),
				submissionRow(2, "Beta", "SS-102", nil, nil, submitted.Add(time.Minute)),
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .submissions. SET .assigned_rater.=\?`),
			args:    []driver.Value{"B", int64(2)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	result, err := svc.AssignNew([]string{"A", "B"})
	if err != nil {
		t.Fatalf("AssignNew returned error: %v", err)
	}
	if result.Planned != 1 || result.Assigned != 1 || result.Failed != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestAssignNewReportsPartialFailure(t *testing.T) {
	submitted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .submissions.`),
			columns: submissionColumns,
			rows: [][]driver.Value{
				submissionRow(2, "Beta", "SS-102", nil, nil, submitted),
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .submissions.`),
			err:     errors.New("connection lost"),
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	result, err := svc.AssignNew([]string{"A"})
	if err != nil {
		t.Fatalf("AssignNew returned error: %v", err)
	}
	if result.Assigned != 0 || result.Failed != 1 {
		t.Fatalf("expected failed count 1, got %+v", result)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRatingRejectsOutOfRange(t *testing.T) {
	db, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()

	svc := NewAssignmentService(db)
	for _, rating := range []int{0, 11, -3, 100} {
		if _, err := svc.SaveRating(1, rating); !errors.Is(err, ErrRatingOutOfRange) {
			t.Fatalf("rating %d: expected ErrRatingOutOfRange, got %v", rating, err)
		}
	}

	// No store mutation may happen on a rejected rating.
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRatingSkipsEqualValue(t *testing.T) {
	submitted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .submissions. WHERE submission_id = \?`),
			columns: submissionColumns,
			rows: [][]driver.Value{
				submissionRow(1, "Alpha", "SS-101", "A", int64(7), submitted),
			},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	updated, err := svc.SaveRating(1, 7)
	if err != nil {
		t.Fatalf("SaveRating returned error: %v", err)
	}
	if updated {
		t.Fatal("expected no-op save, got a write")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRatingWritesNewValue(t *testing.T) {
	submitted := time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .submissions. WHERE submission_id = \?`),
			columns: submissionColumns,
			rows: [][]driver.Value{
				submissionRow(1, "Alpha", "SS-101", "A", nil, submitted),
			},
		},
		{
			kind:    kindExec,
			pattern: regexp.MustCompile(`UPDATE .submissions. SET .rating.=\?`),
			args:    []driver.Value{int64(9), int64(1)},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	updated, err := svc.SaveRating(1, 9)
	if err != nil {
		t.Fatalf("SaveRating returned error: %v", err)
	}
	if !updated {
		t.Fatal("expected a write")
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}

func TestSaveRatingMissingSubmission(t *testing.T) {
	steps := []*queryStep{
		{
			kind:    kindQuery,
			pattern: regexp.MustCompile(`SELECT \* FROM .submissions. WHERE submission_id = \?`),
			columns: submissionColumns,
			rows:    [][]driver.Value{},
		},
	}

	db, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()

	svc := NewAssignmentService(db)
	if _, err := svc.SaveRating(99, 5); !errors.Is(err, ErrSubmissionMissing) {
		t.Fatalf("expected ErrSubmissionMissing, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatal(err)
	}
}
