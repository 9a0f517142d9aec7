package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) EnquiryStats(ctx context.Context, clinicIDs []uuid.UUID) (*EnquiryStats, error) {
	where := ``
	args := []interface{}{}
	if len(clinicIDs) > 0 {
		args = append(args, clinicIDs)
		where = ` WHERE clinic_id = ANY($1)`
	}

	stats := &EnquiryStats{ByStatus: map[string]int{}}

	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM enquiries`+where+` GROUP BY status`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
		stats.Total += count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	recentWhere := ` WHERE created_at > NOW() - INTERVAL '30 days'`
	if len(clinicIDs) > 0 {
		recentWhere += ` AND clinic_id = ANY($1)`
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM enquiries`+recentWhere, args...).Scan(&stats.Last30Days); err != nil {
		return nil, err
	}

	// updated_at only moves on status transitions, so for rows that have left
	// submitted it marks the first clinic action.
	actionWhere := ` WHERE status <> 'submitted'`
	if len(clinicIDs) > 0 {
		actionWhere += ` AND clinic_id = ANY($1)`
	}
	if err := r.pool.QueryRow(ctx, `
		SELECT AVG(EXTRACT(EPOCH FROM (updated_at - created_at)) / 3600.0)
		FROM enquiries`+actionWhere, args...).Scan(&stats.AvgHoursToFirstAction); err != nil {
		return nil, err
	}

	return stats, nil
}
