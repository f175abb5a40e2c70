package catalog

import (
	"context"

	"github.com/google/uuid"
)

type AnalyteRepository interface {
	Create(ctx context.Context, a *Analyte) error
	GetByID(ctx context.Context, id uuid.UUID) (*Analyte, error)
	List(ctx context.Context) ([]*Analyte, error)
}
