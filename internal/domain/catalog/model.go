package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Analyte maps to the analyte table. A lab test type that can be ordered
// for a patient; created once, never updated or deleted.
type Analyte struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
