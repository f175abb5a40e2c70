package registry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

// -- Mock Repositories --

type mockPatientRepo struct {
	patients map[uuid.UUID]*Patient
	failNext bool
}

func newMockPatientRepo() *mockPatientRepo {
	return &mockPatientRepo{patients: make(map[uuid.UUID]*Patient)}
}

func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	if m.failNext {
		return fmt.Errorf("storage unavailable")
	}
	p.ID = uuid.New()
	p.RegisteredAt = time.Now()
	m.patients[p.ID] = p
	return nil
}

func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.patients[id]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

func (m *mockPatientRepo) List(_ context.Context) ([]*Patient, error) {
	var result []*Patient
	for _, p := range m.patients {
		result = append(result, p)
	}
	return result, nil
}

type mockTestRepo struct {
	tests        map[uuid.UUID]*Test
	analyteNames map[uuid.UUID]string
	failNext     bool
}

func newMockTestRepo() *mockTestRepo {
	return &mockTestRepo{
		tests:        make(map[uuid.UUID]*Test),
		analyteNames: make(map[uuid.UUID]string),
	}
}

func (m *mockTestRepo) Create(_ context.Context, t *Test) error {
	if m.failNext {
		return fmt.Errorf("storage unavailable")
	}
	t.ID = uuid.New()
	t.ResultDate = time.Now()
	m.tests[t.ID] = t
	return nil
}

func (m *mockTestRepo) ListByPatients(_ context.Context, patientIDs []uuid.UUID) (map[uuid.UUID][]*TestWithAnalyte, error) {
	wanted := make(map[uuid.UUID]bool, len(patientIDs))
	for _, id := range patientIDs {
		wanted[id] = true
	}
	result := make(map[uuid.UUID][]*TestWithAnalyte)
	for _, t := range m.tests {
		if !wanted[t.PatientID] {
			continue
		}
		result[t.PatientID] = append(result[t.PatientID], &TestWithAnalyte{
			Test:        *t,
			AnalyteName: m.analyteNames[t.AnalyteID],
		})
	}
	return result, nil
}

type mockAnalyteChecker struct {
	known map[uuid.UUID]bool
}

func newMockAnalyteChecker(ids ...uuid.UUID) *mockAnalyteChecker {
	known := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		known[id] = true
	}
	return &mockAnalyteChecker{known: known}
}

func (m *mockAnalyteChecker) AnalyteExists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

// mockTxRunner records whether the unit of work committed or rolled back.
type mockTxRunner struct {
	commits   int
	rollbacks int
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

type testFixture struct {
	svc      *Service
	patients *mockPatientRepo
	tests    *mockTestRepo
	checker  *mockAnalyteChecker
	tx       *mockTxRunner
}

func newTestFixture(knownAnalytes ...uuid.UUID) *testFixture {
	f := &testFixture{
		patients: newMockPatientRepo(),
		tests:    newMockTestRepo(),
		checker:  newMockAnalyteChecker(knownAnalytes...),
		tx:       &mockTxRunner{},
	}
	f.svc = NewService(f.patients, f.tests, f.checker, f.tx)
	return f
}

// -- Tests --

func TestRegisterPatient_NoAnalytes(t *testing.T) {
	f := newTestFixture()
	p, err := f.svc.RegisterPatient(context.Background(), Registration{Name: "Jane Doe", Gender: "F"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.patients.patients) != 1 {
		t.Errorf("expected exactly 1 patient, got %d", len(f.patients.patients))
	}
	if len(f.tests.tests) != 0 {
		t.Errorf("expected 0 tests, got %d", len(f.tests.tests))
	}
	if p.RegisteredAt.IsZero() {
		t.Error("expected registration timestamp")
	}
	if f.tx.commits != 1 {
		t.Errorf("expected 1 commit, got %d", f.tx.commits)
	}
}

func TestRegisterPatient_WithAnalytes(t *testing.T) {
	a1, a2, a3 := uuid.New(), uuid.New(), uuid.New()
	f := newTestFixture(a1, a2, a3)

	age := 34
	p, err := f.svc.RegisterPatient(context.Background(), Registration{
		Name:       "Jane Doe",
		Age:        &age,
		Gender:     "F",
		AnalyteIDs: []uuid.UUID{a1, a2, a3},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.tests.tests) != 3 {
		t.Fatalf("expected 3 tests, got %d", len(f.tests.tests))
	}
	selected := map[uuid.UUID]bool{a1: true, a2: true, a3: true}
	for _, test := range f.tests.tests {
		if test.PatientID != p.ID {
			t.Errorf("test owned by %s, expected %s", test.PatientID, p.ID)
		}
		if !selected[test.AnalyteID] {
			t.Errorf("test references unselected analyte %s", test.AnalyteID)
		}
		if test.Result != nil {
			t.Error("expected new test result to be pending")
		}
	}
}

func TestRegisterPatient_SkipsUnknownAnalytes(t *testing.T) {
	known := uuid.New()
	f := newTestFixture(known)

	_, err := f.svc.RegisterPatient(context.Background(), Registration{
		Name:       "Jane Doe",
		Gender:     "F",
		AnalyteIDs: []uuid.UUID{known, uuid.New(), uuid.New()},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.tests.tests) != 1 {
		t.Errorf("expected 1 test for the resolvable analyte, got %d", len(f.tests.tests))
	}
}

func TestRegisterPatient_NameRequired(t *testing.T) {
	f := newTestFixture()
	if _, err := f.svc.RegisterPatient(context.Background(), Registration{Gender: "F"}); err == nil {
		t.Error("expected error for missing name")
	}
	if _, err := f.svc.RegisterPatient(context.Background(), Registration{Name: "  ", Gender: "F"}); err == nil {
		t.Error("expected error for blank name")
	}
	if len(f.patients.patients) != 0 {
		t.Error("expected no patient rows after validation failure")
	}
}

func TestRegisterPatient_NegativeAge(t *testing.T) {
	f := newTestFixture()
	age := -1
	if _, err := f.svc.RegisterPatient(context.Background(), Registration{Name: "Jane", Age: &age}); err == nil {
		t.Error("expected error for negative age")
	}
}

func TestRegisterPatient_RollsBackOnTestFailure(t *testing.T) {
	a := uuid.New()
	f := newTestFixture(a)
	f.tests.failNext = true

	_, err := f.svc.RegisterPatient(context.Background(), Registration{
		Name:       "Jane Doe",
		AnalyteIDs: []uuid.UUID{a},
	})
	if err == nil {
		t.Fatal("expected error from failing test insert")
	}
	if f.tx.commits != 0 {
		t.Errorf("expected no commit, got %d", f.tx.commits)
	}
	if f.tx.rollbacks != 1 {
		t.Errorf("expected 1 rollback, got %d", f.tx.rollbacks)
	}
}

func TestGetPatient(t *testing.T) {
	a := uuid.New()
	f := newTestFixture(a)
	f.tests.analyteNames[a] = "Glucose"

	p, err := f.svc.RegisterPatient(context.Background(), Registration{Name: "Jane", AnalyteIDs: []uuid.UUID{a}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := f.svc.GetPatient(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Patient.Name != "Jane" {
		t.Errorf("expected 'Jane', got %s", got.Patient.Name)
	}
	if len(got.Tests) != 1 {
		t.Fatalf("expected 1 test, got %d", len(got.Tests))
	}
	if got.Tests[0].AnalyteName != "Glucose" {
		t.Errorf("expected analyte name 'Glucose', got %s", got.Tests[0].AnalyteName)
	}
}

func TestGetPatient_NotFound(t *testing.T) {
	f := newTestFixture()
	if _, err := f.svc.GetPatient(context.Background(), uuid.New()); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPatients_Empty(t *testing.T) {
	f := newTestFixture()
	items, err := f.svc.ListPatients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected empty registry, got %d items", len(items))
	}
}

func TestListPatients_AttachesTests(t *testing.T) {
	a := uuid.New()
	f := newTestFixture(a)
	f.tests.analyteNames[a] = "Glucose"

	p1, _ := f.svc.RegisterPatient(context.Background(), Registration{Name: "Jane", AnalyteIDs: []uuid.UUID{a}})
	p2, _ := f.svc.RegisterPatient(context.Background(), Registration{Name: "John"})

	items, err := f.svc.ListPatients(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 patients, got %d", len(items))
	}
	byID := make(map[uuid.UUID]*PatientWithTests)
	for _, item := range items {
		byID[item.Patient.ID] = item
	}
	if len(byID[p1.ID].Tests) != 1 {
		t.Errorf("expected 1 test for first patient, got %d", len(byID[p1.ID].Tests))
	}
	if len(byID[p2.ID].Tests) != 0 {
		t.Errorf("expected 0 tests for second patient, got %d", len(byID[p2.ID].Tests))
	}
}
