package results

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/labworks/lims/internal/platform/db"
)

type testResultRepoPG struct{ pool *pgxpool.Pool }

func NewTestResultRepoPG(pool *pgxpool.Pool) TestResultRepository {
	return &testResultRepoPG{pool: pool}
}

func (r *testResultRepoPG) conn(ctx context.Context) db.Conn {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

func (r *testResultRepoPG) SetResult(ctx context.Context, testID uuid.UUID, result string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_test SET result = $2, result_date = NOW()
		WHERE id = $1`, testID, result)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
