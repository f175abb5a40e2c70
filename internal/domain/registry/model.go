package registry

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patient table.
type Patient struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Age          *int      `db:"age" json:"age,omitempty"`
	Gender       string    `db:"gender" json:"gender"`
	RegisteredAt time.Time `db:"registered_at" json:"registered_at"`
}

// Test maps to the patient_test table: one analyte ordered for one
// patient. A nil Result means the test is still pending. ResultDate is
// set at creation and refreshed whenever a result is written.
type Test struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	AnalyteID  uuid.UUID `db:"analyte_id" json:"analyte_id"`
	Result     *string   `db:"result" json:"result,omitempty"`
	ResultDate time.Time `db:"result_date" json:"result_date"`
}

// TestWithAnalyte is a Test joined with its analyte's name for display.
type TestWithAnalyte struct {
	Test
	AnalyteName string `db:"analyte_name" json:"analyte_name"`
}

// PatientWithTests is a Patient with all of its tests eagerly loaded.
type PatientWithTests struct {
	Patient *Patient           `json:"patient"`
	Tests   []*TestWithAnalyte `json:"tests"`
}
