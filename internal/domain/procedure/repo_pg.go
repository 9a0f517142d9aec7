package procedure

import (
	"context"
	"fmt"

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

const procCols = `id, slug, name, category, description, price_min_usd, price_max_usd,
	recovery_days, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Category, &p.Description,
		&p.PriceMinUSD, &p.PriceMaxUSD, &p.RecoveryDays, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *repoPG) Create(ctx context.Context, p *Procedure) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO procedures (id, slug, name, category, description,
			price_min_usd, price_max_usd, recovery_days)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.Slug, p.Name, p.Category, p.Description,
		p.PriceMinUSD, p.PriceMaxUSD, p.RecoveryDays)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Procedure, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+procCols+` FROM procedures WHERE id = $1`, id))
}

func (r *repoPG) GetBySlug(ctx context.Context, slug string) (*Procedure, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+procCols+` FROM procedures WHERE slug = $1`, slug))
}

func (r *repoPG) Update(ctx context.Context, p *Procedure) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE procedures SET name=$2, category=$3, description=$4,
			price_min_usd=$5, price_max_usd=$6, recovery_days=$7, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Category, p.Description,
		p.PriceMinUSD, p.PriceMaxUSD, p.RecoveryDays)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM procedures WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, category string, limit, offset int) ([]*Procedure, int, error) {
	where := ``
	args := []interface{}{}
	if category != "" {
		where = ` WHERE category = $1`
		args = append(args, category)
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM procedures`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT `+procCols+` FROM procedures`+where+
		` ORDER BY name LIMIT $%d OFFSET $%d`, n+1, n+2)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}
