package postgres

import (
	"context"
	"database/sql"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"github.com/google/uuid"
)

const reviewColumns = `id, volunteer_id, opportunity_id, organization_id, rating, comment, created_on, updated_on`

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func scanReview(row rowScanner) (*domain.Review, error) {
	rv := &domain.Review{}
	err := row.Scan(&rv.ID, &rv.VolunteerID, &rv.OpportunityID, &rv.OrganizationID, &rv.Rating, &rv.Comment, &rv.CreatedOn, &rv.UpdatedOn)
	if err != nil {
		return nil, translate(err)
	}
	return rv, nil
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	rv.CreatedOn = now
	rv.UpdatedOn = now
	query := `INSERT INTO reviews (` + reviewColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	logger.DatabaseCall("INSERT", "reviews", "volunteerID", rv.VolunteerID, "opportunityID", rv.OpportunityID)
	_, err := r.db.ExecContext(ctx, query, rv.ID, rv.VolunteerID, rv.OpportunityID, rv.OrganizationID, rv.Rating, rv.Comment, rv.CreatedOn, rv.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "reviewID", rv.ID)
	return translate(err)
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	return scanReview(r.db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
}

func (r *reviewRepository) GetByVolunteerAndOpportunity(ctx context.Context, volunteerID, opportunityID string) (*domain.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE volunteer_id = $1 AND opportunity_id = $2`
	return scanReview(r.db.QueryRowContext(ctx, query, volunteerID, opportunityID))
}

func (r *reviewRepository) Update(ctx context.Context, rv *domain.Review) error {
	rv.UpdatedOn = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `UPDATE reviews SET rating = $1, comment = $2, updated_on = $3 WHERE id = $4`,
		rv.Rating, rv.Comment, rv.UpdatedOn, rv.ID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *reviewRepository) ListByOrganization(ctx context.Context, organizationID string, limit, offset int) ([]domain.Review, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reviews WHERE organization_id = $1`, organizationID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE organization_id = $1 ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	reviews, err := r.query(ctx, query, organizationID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE opportunity_id = $1 ORDER BY created_on DESC`, opportunityID)
}

func (r *reviewRepository) ListByVolunteer(ctx context.Context, volunteerID string) ([]domain.Review, error) {
	return r.query(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE volunteer_id = $1 ORDER BY created_on DESC`, volunteerID)
}

func (r *reviewRepository) RatingsByOrganization(ctx context.Context, organizationID string) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT rating FROM reviews WHERE organization_id = $1`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

func (r *reviewRepository) query(ctx context.Context, query string, args ...any) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rv)
	}
	return out, rows.Err()
}
