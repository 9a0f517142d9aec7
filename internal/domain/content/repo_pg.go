package content

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

const contentCols = `id, slug, title, kind, body, excerpt, tags, published,
	published_at, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Item, error) {
	var it Item
	err := row.Scan(&it.ID, &it.Slug, &it.Title, &it.Kind, &it.Body, &it.Excerpt,
		&it.Tags, &it.Published, &it.PublishedAt, &it.CreatedAt, &it.UpdatedAt)
	return &it, err
}

func (r *repoPG) Create(ctx context.Context, it *Item) error {
	it.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO content_items (id, slug, title, kind, body, excerpt, tags,
			published, published_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		it.ID, it.Slug, it.Title, it.Kind, it.Body, it.Excerpt, it.Tags,
		it.Published, it.PublishedAt)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Item, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+contentCols+` FROM content_items WHERE id = $1`, id))
}

func (r *repoPG) GetBySlug(ctx context.Context, slug string) (*Item, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `SELECT `+contentCols+` FROM content_items WHERE slug = $1`, slug))
}

func (r *repoPG) Update(ctx context.Context, it *Item) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE content_items SET title=$2, kind=$3, body=$4, excerpt=$5, tags=$6,
			published=$7, published_at=$8, updated_at=NOW()
		WHERE id = $1`,
		it.ID, it.Title, it.Kind, it.Body, it.Excerpt, it.Tags,
		it.Published, it.PublishedAt)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListPublished(ctx context.Context, kind string, limit, offset int) ([]*Item, int, error) {
	where := ` WHERE published = true`
	args := []interface{}{}
	if kind != "" {
		args = append(args, kind)
		where += fmt.Sprintf(` AND kind = $%d`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM content_items`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+contentCols+` FROM content_items`+where+
		` ORDER BY published_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.queryItems(ctx, query, args, total)
}

func (r *repoPG) ListAll(ctx context.Context, limit, offset int) ([]*Item, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM content_items`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + contentCols + ` FROM content_items ORDER BY updated_at DESC LIMIT $1 OFFSET $2`
	return r.queryItems(ctx, query, []interface{}{limit, offset}, total)
}

func (r *repoPG) queryItems(ctx context.Context, query string, args []interface{}, total int) ([]*Item, int, error) {
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Item
	for rows.Next() {
		it, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, it)
	}
	return items, total, nil
}
