package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/storefront-api/internal/model"
	"github.com/fairyhunter13/storefront-api/internal/service"
)

// IntakeRepository covers the small write-mostly tables: career
// applications, newsletter signups and product reviews.
type IntakeRepository struct {
	pool PoolInterface
}

// NewIntakeRepository creates a new IntakeRepository with the given pool.
func NewIntakeRepository(pool *pgxpool.Pool) *IntakeRepository {
	return &IntakeRepository{pool: pool}
}

// NewIntakeRepositoryWithPool creates a new IntakeRepository with a custom pool interface.
// This is primarily used for testing.
func NewIntakeRepositoryWithPool(pool PoolInterface) *IntakeRepository {
	return &IntakeRepository{pool: pool}
}

// InsertApplication records a career application and fills in its id and timestamp.
func (r *IntakeRepository) InsertApplication(ctx context.Context, app *model.CareerApplication) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO career_applications (name, email, phone, position, portfolio, message)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
		app.Name, app.Email, app.Phone, app.Position, app.Portfolio, app.Message).
		Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert career application: %w", err)
	}
	return nil
}

// Subscribe adds an email to the newsletter list.
// Returns service.ErrAlreadySubscribed on a duplicate email.
func (r *IntakeRepository) Subscribe(ctx context.Context, email string) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO newsletter_subscribers (email) VALUES (lower($1))`, email)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrAlreadySubscribed
		}
		return fmt.Errorf("subscribe %s: %w", email, err)
	}
	return nil
}

// InsertReview records a product review and fills in its id and timestamp.
func (r *IntakeRepository) InsertReview(ctx context.Context, review *model.Review) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reviews (product_id, author, rating, comment)
		 VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		review.ProductID, review.Author, review.Rating, review.Comment).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert review for product %d: %w", review.ProductID, err)
	}
	return nil
}

// ListReviews returns the reviews for a product, newest first.
func (r *IntakeRepository) ListReviews(ctx context.Context, productID int64) ([]model.Review, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, author, rating, comment, created_at
		 FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %d: %w", productID, err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var rv model.Review
		if err := rows.Scan(&rv.ID, &rv.ProductID, &rv.Author, &rv.Rating, &rv.Comment, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}
