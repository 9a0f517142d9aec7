package enquiry

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct {
	pool   *pgxpool.Pool
	writer *AdaptiveWriter
}

func NewRepoPG(pool *pgxpool.Pool, writer *AdaptiveWriter) Repository {
	return &repoPG{pool: pool, writer: writer}
}

func (r *repoPG) conn(ctx context.Context) queryable { return r.pool }

const enquiryCols = `id, patient_user_id, clinic_id, full_name, email, phone,
	procedure_interest, willing_to_travel, preferred_destinations, budget_range,
	timeline, message, status, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Enquiry, error) {
	var e Enquiry
	err := row.Scan(&e.ID, &e.PatientUserID, &e.ClinicID, &e.FullName, &e.Email,
		&e.Phone, &e.ProcedureInterest, &e.WillingToTravel, &e.PreferredDestinations,
		&e.BudgetRange, &e.Timeline, &e.Message, &e.Status, &e.CreatedAt, &e.UpdatedAt)
	return &e, err
}

func (r *repoPG) Insert(ctx context.Context, e *Enquiry) (*InsertResult, error) {
	return r.writer.Insert(ctx, e)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Enquiry, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+enquiryCols+` FROM enquiries WHERE id = $1`, id))
}

func (r *repoPG) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Enquiry, int, error) {
	var conds []string
	var args []interface{}

	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.PatientUserID != "" {
		args = append(args, f.PatientUserID)
		conds = append(conds, fmt.Sprintf("patient_user_id = $%d", len(args)))
	}
	if len(f.ClinicIDs) > 0 {
		args = append(args, f.ClinicIDs)
		conds = append(conds, fmt.Sprintf("clinic_id = ANY($%d)", len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM enquiries`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+enquiryCols+` FROM enquiries`+where+
		` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Enquiry
	for rows.Next() {
		e, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE enquiries SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2`,
		id, from, to)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
