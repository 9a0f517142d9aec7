package clinic

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable { return r.pool }

const clinicCols = `id, slug, name, city, destination_code, description, procedures,
	accreditations, email, phone, owner_user_id, verified, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Clinic, error) {
	var cl Clinic
	err := row.Scan(&cl.ID, &cl.Slug, &cl.Name, &cl.City, &cl.DestinationCode,
		&cl.Description, &cl.Procedures, &cl.Accreditations, &cl.Email, &cl.Phone,
		&cl.OwnerUserID, &cl.Verified, &cl.CreatedAt, &cl.UpdatedAt)
	return &cl, err
}

func (r *repoPG) Create(ctx context.Context, cl *Clinic) error {
	cl.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO clinics (id, slug, name, city, destination_code, description,
			procedures, accreditations, email, phone, verified)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		cl.ID, cl.Slug, cl.Name, cl.City, cl.DestinationCode, cl.Description,
		cl.Procedures, cl.Accreditations, cl.Email, cl.Phone, cl.Verified)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE id = $1`, id))
}

func (r *repoPG) GetBySlug(ctx context.Context, slug string) (*Clinic, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+clinicCols+` FROM clinics WHERE slug = $1`, slug))
}

func (r *repoPG) Update(ctx context.Context, cl *Clinic) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinics SET name=$2, city=$3, destination_code=$4, description=$5,
			procedures=$6, accreditations=$7, email=$8, phone=$9, verified=$10,
			updated_at=NOW()
		WHERE id = $1`,
		cl.ID, cl.Name, cl.City, cl.DestinationCode, cl.Description,
		cl.Procedures, cl.Accreditations, cl.Email, cl.Phone, cl.Verified)
	return err
}

func (r *repoPG) Search(ctx context.Context, f SearchFilter, limit, offset int) ([]*Clinic, int, error) {
	var conds []string
	var args []interface{}

	if f.DestinationCode != "" {
		args = append(args, strings.ToUpper(f.DestinationCode))
		conds = append(conds, fmt.Sprintf("destination_code = $%d", len(args)))
	}
	if f.Procedure != "" {
		args = append(args, f.Procedure)
		conds = append(conds, fmt.Sprintf("$%d = ANY(procedures)", len(args)))
	}
	if f.Query != "" {
		args = append(args, "%"+f.Query+"%")
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR city ILIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM clinics`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+clinicCols+` FROM clinics`+where+
		` ORDER BY verified DESC, name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Clinic
	for rows.Next() {
		cl, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, cl)
	}
	return items, total, nil
}

func (r *repoPG) Claim(ctx context.Context, id uuid.UUID, ownerUserID string) (bool, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE clinics SET owner_user_id = $2, updated_at = NOW()
		WHERE id = $1 AND owner_user_id IS NULL`,
		id, ownerUserID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *repoPG) ListIDsByOwner(ctx context.Context, ownerUserID string) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT id FROM clinics WHERE owner_user_id = $1`, ownerUserID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
