package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labworks/lims/internal/platform/db"
)

type analyteRepoPG struct{ pool *pgxpool.Pool }

func NewAnalyteRepoPG(pool *pgxpool.Pool) AnalyteRepository {
	return &analyteRepoPG{pool: pool}
}

func (r *analyteRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const analyteCols = `id, name, description, created_at`

func (r *analyteRepoPG) scanAnalyte(row pgx.Row) (*Analyte, error) {
	var a Analyte
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.CreatedAt)
	return &a, err
}

func (r *analyteRepoPG) Create(ctx context.Context, a *Analyte) error {
	a.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO analyte (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		a.ID, a.Name, a.Description).Scan(&a.CreatedAt)
}

func (r *analyteRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Analyte, error) {
	return r.scanAnalyte(r.conn(ctx).QueryRow(ctx, `SELECT `+analyteCols+` FROM analyte WHERE id = $1`, id))
}

func (r *analyteRepoPG) List(ctx context.Context) ([]*Analyte, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+analyteCols+` FROM analyte ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Analyte
	for rows.Next() {
		a, err := r.scanAnalyte(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, rows.Err()
}
