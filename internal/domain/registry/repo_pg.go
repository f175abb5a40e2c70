package registry

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labworks/lims/internal/platform/db"
)

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, name, age, gender, registered_at`

func (r *patientRepoPG) scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.RegisteredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &p, err
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (id, name, age, gender)
		VALUES ($1, $2, $3, $4)
		RETURNING registered_at`,
		p.ID, p.Name, p.Age, p.Gender).Scan(&p.RegisteredAt)
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return r.scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) List(ctx context.Context) ([]*Patient, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY registered_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := r.scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

// =========== Test Repository ===========

type testRepoPG struct{ pool *pgxpool.Pool }

func NewTestRepoPG(pool *pgxpool.Pool) TestRepository {
	return &testRepoPG{pool: pool}
}

func (r *testRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *testRepoPG) Create(ctx context.Context, t *Test) error {
	t.ID = uuid.New()
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient_test (id, patient_id, analyte_id)
		VALUES ($1, $2, $3)
		RETURNING result_date`,
		t.ID, t.PatientID, t.AnalyteID).Scan(&t.ResultDate)
}

func (r *testRepoPG) ListByPatients(ctx context.Context, patientIDs []uuid.UUID) (map[uuid.UUID][]*TestWithAnalyte, error) {
	result := make(map[uuid.UUID][]*TestWithAnalyte, len(patientIDs))
	if len(patientIDs) == 0 {
		return result, nil
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT t.id, t.patient_id, t.analyte_id, t.result, t.result_date, a.name
		FROM patient_test t
		JOIN analyte a ON a.id = t.analyte_id
		WHERE t.patient_id = ANY($1)
		ORDER BY a.name`, patientIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var t TestWithAnalyte
		if err := rows.Scan(&t.ID, &t.PatientID, &t.AnalyteID, &t.Result, &t.ResultDate, &t.AnalyteName); err != nil {
			return nil, err
		}
		result[t.PatientID] = append(result[t.PatientID], &t)
	}
	return result, rows.Err()
}

// =========== Analyte Checker ===========

type analyteCheckerPG struct{ pool *pgxpool.Pool }

func NewAnalyteCheckerPG(pool *pgxpool.Pool) AnalyteChecker {
	return &analyteCheckerPG{pool: pool}
}

func (r *analyteCheckerPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *analyteCheckerPG) AnalyteExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM analyte WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}
