package customers

import (
	"context"
	"errors"
	"fmt"

	"github.com/brightpixel/studiosite/internal/telemetry/tracing"
	"github.com/brightpixel/studiosite/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const customerColumns = `id, name, email, phone, company, notes, created_at, updated_at`

var _ customerRepo = (*Repo)(nil)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, c *Customer) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "customersRepo.Add")
	defer span.End()

	if err := c.Normalize(); err != nil {
		return err
	}

	if err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO customer (name, email, phone, company, notes)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at, updated_at;
		`,
		c.Name, c.Email, c.Phone, c.Company, c.Notes,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}

	return nil
}

func (r *Repo) Update(ctx context.Context, c *Customer) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "customersRepo.Update")
	span.SetAttributes(attribute.Int("id", c.ID))
	defer span.End()

	if err := c.Normalize(); err != nil {
		return err
	}

	err := r.db.QueryRow(
		ctx,
		`
			UPDATE customer
			SET name = $1, email = $2, phone = $3, company = $4, notes = $5, updated_at = NOW()
			WHERE id = $6
			RETURNING created_at, updated_at;
		`,
		c.Name, c.Email, c.Phone, c.Company, c.Notes, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrCustomerNotFound
		}
		return fmt.Errorf("update customer %d: %w", c.ID, err)
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) error {
	ctx, span := tracing.GlobalTracer.Start(ctx, "customersRepo.Delete")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	tag, err := r.db.Exec(ctx, `DELETE FROM customer WHERE id = $1`, id)
	if err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrCustomerHasInvoices
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (*Customer, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "customersRepo.Get")
	span.SetAttributes(attribute.Int("id", id))
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customer WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	customers, err := rows2customers(rows)
	if err != nil {
		return nil, err
	}
	if len(customers) == 0 {
		return nil, ErrCustomerNotFound
	}
	return customers[0], nil
}

func (r *Repo) List(ctx context.Context) ([]*Customer, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "customersRepo.List")
	defer span.End()

	rows, err := r.db.Query(ctx, `SELECT `+customerColumns+` FROM customer ORDER BY name, id;`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2customers(rows)
}

func rows2customers(rows pgx.Rows) ([]*Customer, error) {
	customers := []*Customer{}
	for rows.Next() {
		c := &Customer{}
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company,
			&c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return customers, nil
}
