package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightpixel/studiosite/internal/telemetry/tracing"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// manual caching of prepared statements not needed:
// https://github.com/jackc/pgx/wiki/Automatic-Prepared-Statement-Caching

const postColumns = `id, slug, title, excerpt, content, author, published, created_at, updated_at`

var _ blogRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) AddPost(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.AddPost")
	defer span.End()

	if err := post.Normalize(); err != nil {
		return err
	}

	err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO blog_post (slug, title, excerpt, content, author, published)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, updated_at;
		`,
		post.Slug, post.Title, post.Excerpt, post.Content, post.Author, post.Published,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("insert blog post: %w", err)
	}

	return nil
}

// UpdatePost overwrites every editable field of the post. created_at is kept.
func (r *Repo) UpdatePost(ctx context.Context, post *Post) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.UpdatePost")
	span.SetAttributes(attribute.Int("id", post.ID))
	defer span.End()

	if err := post.Normalize(); err != nil {
		return err
	}

	err := r.db.QueryRow(
		ctx,
		`
			UPDATE blog_post
			SET slug = $1, title = $2, excerpt = $3, content = $4, author = $5, published = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING created_at, updated_at;
		`,
		post.Slug, post.Title, post.Excerpt, post.Content, post.Author, post.Published, post.ID,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPostNotFound
		}
		if pkg.IsUniqueViolationError(err) {
			return ErrSlugTaken
		}
		return fmt.Errorf("update blog post %d: %w", post.ID, err)
	}

	return nil
}

func (r *Repo) DeletePost(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog_post WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) GetPost(ctx context.Context, id int) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetPost")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	return r.getOne(ctx, `SELECT `+postColumns+` FROM blog_post WHERE id = $1;`, id)
}

func (r *Repo) GetPostBySlug(ctx context.Context, slug string) (*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetPostBySlug")
	span.SetAttributes(attribute.String("slug", slug))
	defer span.End()

	return r.getOne(ctx, `SELECT `+postColumns+` FROM blog_post WHERE slug = $1;`, slug)
}

func (r *Repo) getOne(ctx context.Context, query string, arg any) (*Post, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := rows2posts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrPostNotFound
	}
	return posts[0], nil
}

func (r *Repo) All(ctx context.Context, includeDrafts bool) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.All")
	span.SetAttributes(attribute.Bool("drafts", includeDrafts))
	defer span.End()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+postColumns+` FROM blog_post
			WHERE published OR $1
			ORDER BY created_at DESC, id DESC;
		`,
		includeDrafts,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func (r *Repo) PostsCount(ctx context.Context, publishedOnly bool) (int, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.PostsCount")
	defer span.End()

	var count int
	if err := r.db.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM blog_post WHERE published OR NOT $1`,
		publishedOnly,
	).Scan(&count); err != nil {
		return -1, err
	}
	return count, nil
}

// GetPostsPage returns a page of published posts, newest first. Pages start at 1.
func (r *Repo) GetPostsPage(ctx context.Context, page, size int) ([]*Post, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "blogRepo.GetPostsPage")
	span.SetAttributes(attribute.Int("page", page))
	span.SetAttributes(attribute.Int("size", size))
	defer span.End()

	if page < 1 || size < 1 {
		return nil, fmt.Errorf("invalid page %d / size %d", page, size)
	}

	offset := (page - 1) * size
	log.Tracef("getting blog posts, limit %d, offset %d", size, offset)

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+postColumns+` FROM blog_post
			WHERE published
			ORDER BY created_at DESC, id DESC
			LIMIT $1
			OFFSET $2;
		`,
		size,
		offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2posts(rows)
}

func rows2posts(rows pgx.Rows) ([]*Post, error) {
	posts := []*Post{}
	for rows.Next() {
		p := &Post{}
		if err := rows.Scan(
			&p.ID, &p.Slug, &p.Title, &p.Excerpt, &p.Content,
			&p.Author, &p.Published, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}
