package postgres

import (
	"context"
	"database/sql"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const volunteerColumns = `id, account_id, display_name, about_me, profile_picture_url, total_hours, completed, created_on, updated_on`

type volunteerRepository struct {
	db *sql.DB
}

func NewVolunteerRepository(db *sql.DB) repository.VolunteerRepository {
	return &volunteerRepository{db: db}
}

func scanVolunteer(row rowScanner) (*domain.VolunteerProfile, error) {
	p := &domain.VolunteerProfile{}
	err := row.Scan(&p.ID, &p.AccountID, &p.DisplayName, &p.AboutMe, &p.ProfilePictureURL, &p.TotalHours, &p.Completed, &p.CreatedOn, &p.UpdatedOn)
	if err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (r *volunteerRepository) Create(ctx context.Context, p *domain.VolunteerProfile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	query := `INSERT INTO volunteer_profiles (` + volunteerColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	logger.DatabaseCall("INSERT", "volunteer_profiles", "accountID", p.AccountID)
	_, err := r.db.ExecContext(ctx, query, p.ID, p.AccountID, p.DisplayName, p.AboutMe, p.ProfilePictureURL, p.TotalHours, p.Completed, p.CreatedOn, p.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "profileID", p.ID)
	return translate(err)
}

func (r *volunteerRepository) GetByID(ctx context.Context, id string) (*domain.VolunteerProfile, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteer_profiles WHERE id = $1`
	return scanVolunteer(r.db.QueryRowContext(ctx, query, id))
}

func (r *volunteerRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.VolunteerProfile, error) {
	query := `SELECT ` + volunteerColumns + ` FROM volunteer_profiles WHERE account_id = $1`
	return scanVolunteer(r.db.QueryRowContext(ctx, query, accountID))
}

func (r *volunteerRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.VolunteerProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + volunteerColumns + ` FROM volunteer_profiles WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VolunteerProfile
	for rows.Next() {
		p, err := scanVolunteer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *volunteerRepository) Update(ctx context.Context, p *domain.VolunteerProfile) error {
	p.UpdatedOn = time.Now().UTC()
	query := `UPDATE volunteer_profiles SET display_name = $1, about_me = $2, profile_picture_url = $3, updated_on = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, p.DisplayName, p.AboutMe, p.ProfilePictureURL, p.UpdatedOn, p.ID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *volunteerRepository) AddHours(ctx context.Context, id string, hours float64) (*domain.VolunteerProfile, error) {
	logger.EnterMethod("volunteerRepository.AddHours", "profileID", id, "hours", hours)
	query := `UPDATE volunteer_profiles SET total_hours = total_hours + $1, completed = completed + 1, updated_on = $2
	          WHERE id = $3 RETURNING ` + volunteerColumns
	logger.DatabaseCall("UPDATE", "volunteer_profiles", "profileID", id)
	p, err := scanVolunteer(r.db.QueryRowContext(ctx, query, hours, time.Now().UTC(), id))
	if err != nil {
		logger.ExitMethodWithError("volunteerRepository.AddHours", err, "profileID", id)
		return nil, err
	}
	logger.ExitMethod("volunteerRepository.AddHours", "profileID", id, "totalHours", p.TotalHours)
	return p, nil
}

func (r *volunteerRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM volunteer_profiles WHERE account_id = $1`, accountID)
	return translate(err)
}

const organizationColumns = `id, account_id, organization_name, mission, logo_url, contact_email, contact_phone, website, address, average_rating, total_reviews, created_on, updated_on`

type organizationRepository struct {
	db *sql.DB
}

func NewOrganizationRepository(db *sql.DB) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func scanOrganization(row rowScanner) (*domain.OrganizationProfile, error) {
	o := &domain.OrganizationProfile{}
	err := row.Scan(&o.ID, &o.AccountID, &o.OrganizationName, &o.Mission, &o.LogoURL, &o.ContactEmail, &o.ContactPhone,
		&o.Website, &o.Address, &o.AverageRating, &o.TotalReviews, &o.CreatedOn, &o.UpdatedOn)
	if err != nil {
		return nil, translate(err)
	}
	return o, nil
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.OrganizationProfile) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	o.CreatedOn = now
	o.UpdatedOn = now
	query := `INSERT INTO organization_profiles (` + organizationColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	logger.DatabaseCall("INSERT", "organization_profiles", "accountID", o.AccountID)
	_, err := r.db.ExecContext(ctx, query, o.ID, o.AccountID, o.OrganizationName, o.Mission, o.LogoURL, o.ContactEmail,
		o.ContactPhone, o.Website, o.Address, o.AverageRating, o.TotalReviews, o.CreatedOn, o.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "profileID", o.ID)
	return translate(err)
}

func (r *organizationRepository) GetByID(ctx context.Context, id string) (*domain.OrganizationProfile, error) {
	query := `SELECT ` + organizationColumns + ` FROM organization_profiles WHERE id = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, query, id))
}

func (r *organizationRepository) GetByAccountID(ctx context.Context, accountID string) (*domain.OrganizationProfile, error) {
	query := `SELECT ` + organizationColumns + ` FROM organization_profiles WHERE account_id = $1`
	return scanOrganization(r.db.QueryRowContext(ctx, query, accountID))
}

func (r *organizationRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.OrganizationProfile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + organizationColumns + ` FROM organization_profiles WHERE id = ANY($1)`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.OrganizationProfile
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	return out, rows.Err()
}

func (r *organizationRepository) Update(ctx context.Context, o *domain.OrganizationProfile) error {
	o.UpdatedOn = time.Now().UTC()
	query := `UPDATE organization_profiles SET organization_name = $1, mission = $2, logo_url = $3, contact_email = $4,
	          contact_phone = $5, website = $6, address = $7, updated_on = $8 WHERE id = $9`
	res, err := r.db.ExecContext(ctx, query, o.OrganizationName, o.Mission, o.LogoURL, o.ContactEmail, o.ContactPhone,
		o.Website, o.Address, o.UpdatedOn, o.ID)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *organizationRepository) UpdateRating(ctx context.Context, id string, average float64, total int) error {
	query := `UPDATE organization_profiles SET average_rating = $1, total_reviews = $2, updated_on = $3 WHERE id = $4`
	logger.DatabaseCall("UPDATE", "organization_profiles", "profileID", id, "average", average, "total", total)
	res, err := r.db.ExecContext(ctx, query, average, total, time.Now().UTC(), id)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	return requireAffected(res)
}

func (r *organizationRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM organization_profiles WHERE account_id = $1`, accountID)
	return translate(err)
}
