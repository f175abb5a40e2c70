package results

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/labworks/lims/internal/domain/registry"
)

type storedResult struct {
	value      string
	resultDate time.Time
}

type mockResultRepo struct {
	results map[uuid.UUID]*storedResult
	writes  int
}

func newMockResultRepo(testIDs ...uuid.UUID) *mockResultRepo {
	m := &mockResultRepo{results: make(map[uuid.UUID]*storedResult)}
	for _, id := range testIDs {
		m.results[id] = &storedResult{}
	}
	return m
}

func (m *mockResultRepo) SetResult(_ context.Context, testID uuid.UUID, result string) (bool, error) {
	r, ok := m.results[testID]
	if !ok {
		return false, nil
	}
	r.value = result
	r.resultDate = time.Now()
	m.writes++
	return true, nil
}

type stubDirectory struct {
	patients map[uuid.UUID]*registry.PatientWithTests
}

func (s *stubDirectory) GetPatient(_ context.Context, id uuid.UUID) (*registry.PatientWithTests, error) {
	p, ok := s.patients[id]
	if !ok {
		return nil, registry.ErrNotFound
	}
	return p, nil
}

type recordingTxRunner struct {
	commits   int
	rollbacks int
}

func (m *recordingTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		m.rollbacks++
		return err
	}
	m.commits++
	return nil
}

func newResultsFixture(testIDs ...uuid.UUID) (*Service, uuid.UUID, *mockResultRepo, *recordingTxRunner) {
	patientID := uuid.New()
	p := &registry.PatientWithTests{
		Patient: &registry.Patient{ID: patientID, Name: "Jane Doe", RegisteredAt: time.Now()},
	}
	for _, id := range testIDs {
		p.Tests = append(p.Tests, &registry.TestWithAnalyte{
			Test:        registry.Test{ID: id, PatientID: patientID},
			AnalyteName: "Glucose",
		})
	}
	dir := &stubDirectory{patients: map[uuid.UUID]*registry.PatientWithTests{patientID: p}}
	repo := newMockResultRepo(testIDs...)
	tx := &recordingTxRunner{}
	return NewService(dir, repo, tx), patientID, repo, tx
}

func TestUpdateResults(t *testing.T) {
	t1, t2 := uuid.New(), uuid.New()
	svc, patientID, repo, tx := newResultsFixture(t1, t2)

	err := svc.UpdateResults(context.Background(), patientID, map[uuid.UUID]string{
		t1: "99",
		t2: "Negative",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.results[t1].value != "99" {
		t.Errorf("expected result 99, got %q", repo.results[t1].value)
	}
	if repo.results[t2].value != "Negative" {
		t.Errorf("expected result Negative, got %q", repo.results[t2].value)
	}
	if repo.results[t1].resultDate.IsZero() {
		t.Error("expected result timestamp to be set")
	}
	if tx.commits != 1 {
		t.Errorf("expected 1 commit, got %d", tx.commits)
	}
}

func TestUpdateResults_Overwrite(t *testing.T) {
	testID := uuid.New()
	svc, patientID, repo, _ := newResultsFixture(testID)

	if err := svc.UpdateResults(context.Background(), patientID, map[uuid.UUID]string{testID: "98"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first := repo.results[testID].resultDate

	if err := svc.UpdateResults(context.Background(), patientID, map[uuid.UUID]string{testID: "101"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.results[testID].value != "101" {
		t.Errorf("expected latest value 101, got %q", repo.results[testID].value)
	}
	if repo.results[testID].resultDate.Before(first) {
		t.Error("expected result timestamp to refresh on overwrite")
	}
}

func TestUpdateResults_SkipsUnknownTestIDs(t *testing.T) {
	testID := uuid.New()
	svc, patientID, repo, _ := newResultsFixture(testID)

	err := svc.UpdateResults(context.Background(), patientID, map[uuid.UUID]string{
		testID:     "99",
		uuid.New(): "lost",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.writes != 1 {
		t.Errorf("expected 1 write, got %d", repo.writes)
	}
	if repo.results[testID].value != "99" {
		t.Errorf("expected resolvable entry applied, got %q", repo.results[testID].value)
	}
}

func TestUpdateResults_PatientNotFound(t *testing.T) {
	svc, _, repo, _ := newResultsFixture(uuid.New())

	err := svc.UpdateResults(context.Background(), uuid.New(), map[uuid.UUID]string{uuid.New(): "99"})
	if err != registry.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if repo.writes != 0 {
		t.Errorf("expected no writes, got %d", repo.writes)
	}
}

func TestUpdateResults_EmptyBatch(t *testing.T) {
	svc, patientID, _, tx := newResultsFixture(uuid.New())

	if err := svc.UpdateResults(context.Background(), patientID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.commits != 0 {
		t.Errorf("expected no transaction for an empty batch, got %d commits", tx.commits)
	}
}

func TestGetPatientForEdit(t *testing.T) {
	testID := uuid.New()
	svc, patientID, _, _ := newResultsFixture(testID)

	p, err := svc.GetPatientForEdit(context.Background(), patientID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Patient.Name != "Jane Doe" {
		t.Errorf("expected 'Jane Doe', got %s", p.Patient.Name)
	}
	if len(p.Tests) != 1 || p.Tests[0].ID != testID {
		t.Error("expected the patient's test to be loaded")
	}
}

func TestGetPatientForEdit_NotFound(t *testing.T) {
	svc, _, _, _ := newResultsFixture()
	if _, err := svc.GetPatientForEdit(context.Background(), uuid.New()); err != registry.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
