package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/conley21p/alpine-outdoor-living/internal/models"
)

type ReviewStore struct {
	db *sql.DB
}

func NewReviewStore(db *sql.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

func (s *ReviewStore) CreateReview(ctx context.Context, r models.Review) (*models.Review, error) {
	review := r
	review.PublicID = uuid.New()
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO reviews (public_id, customer_name, service, quote, rating, review_date, source, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		review.PublicID, review.CustomerName, review.Service, review.Quote, review.Rating,
		review.ReviewDate, review.Source, review.Published,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) ListPublishedReviews(ctx context.Context) ([]models.Review, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, public_id, customer_name, service, quote, rating, review_date, source, published, created_at, updated_at
		 FROM reviews WHERE published = TRUE ORDER BY review_date DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.PublicID, &r.CustomerName, &r.Service, &r.Quote,
			&r.Rating, &r.ReviewDate, &r.Source, &r.Published, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
