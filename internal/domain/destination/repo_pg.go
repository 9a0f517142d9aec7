package destination

import (
	"context"
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

const destCols = `id, code, name, country, summary, highlights, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Destination, error) {
	var d Destination
	err := row.Scan(&d.ID, &d.Code, &d.Name, &d.Country, &d.Summary, &d.Highlights,
		&d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Destination) error {
	d.ID = uuid.New()
	d.Code = strings.ToUpper(d.Code)
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO destinations (id, code, name, country, summary, highlights)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		d.ID, d.Code, d.Name, d.Country, d.Summary, d.Highlights)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Destination, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+destCols+` FROM destinations WHERE id = $1`, id))
}

func (r *repoPG) GetByCode(ctx context.Context, code string) (*Destination, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+destCols+` FROM destinations WHERE code = $1`, strings.ToUpper(code)))
}

func (r *repoPG) Update(ctx context.Context, d *Destination) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE destinations SET name=$2, country=$3, summary=$4, highlights=$5, updated_at=NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Country, d.Summary, d.Highlights)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM destinations WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Destination, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM destinations`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+destCols+` FROM destinations ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Destination
	for rows.Next() {
		d, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, d)
	}
	return items, total, nil
}
