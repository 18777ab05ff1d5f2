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

const signupColumns = `id, volunteer_id, opportunity_id, status, signed_up_at, confirmed_at, rejected_at, attended, hours_awarded, created_on, updated_on`

// transitionSet leaves a column untouched when its parameter is NULL.
// $7 clears attended.
const transitionSet = `status = $1, confirmed_at = COALESCE($2, confirmed_at), rejected_at = COALESCE($3, rejected_at),
	attended = CASE WHEN $7 THEN NULL ELSE COALESCE($4, attended) END, hours_awarded = COALESCE($5, hours_awarded),
	updated_on = $6`

type signupRepository struct {
	db *sql.DB
}

func NewSignupRepository(db *sql.DB) repository.SignupRepository {
	return &signupRepository{db: db}
}

func scanSignup(row rowScanner) (*domain.Signup, error) {
	s := &domain.Signup{}
	var status string
	var confirmedAt, rejectedAt sql.NullTime
	var attended sql.NullBool
	err := row.Scan(&s.ID, &s.VolunteerID, &s.OpportunityID, &status, &s.SignedUpAt, &confirmedAt, &rejectedAt,
		&attended, &s.HoursAwarded, &s.CreatedOn, &s.UpdatedOn)
	if err != nil {
		return nil, translate(err)
	}
	s.Status = domain.SignupStatus(status)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		s.ConfirmedAt = &t
	}
	if rejectedAt.Valid {
		t := rejectedAt.Time
		s.RejectedAt = &t
	}
	if attended.Valid {
		b := attended.Bool
		s.Attended = &b
	}
	return s, nil
}

func transitionArgs(p domain.SignupTransition) []any {
	return []any{string(p.Status), p.ConfirmedAt, p.RejectedAt, p.Attended, p.HoursAwarded, time.Now().UTC(), p.ClearAttended}
}

func (r *signupRepository) Create(ctx context.Context, s *domain.Signup) error {
	logger.EnterMethod("signupRepository.Create", "volunteerID", s.VolunteerID, "opportunityID", s.OpportunityID)
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.SignedUpAt.IsZero() {
		s.SignedUpAt = now
	}
	s.CreatedOn = now
	s.UpdatedOn = now
	query := `INSERT INTO signups (` + signupColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	logger.DatabaseCall("INSERT", "signups", "volunteerID", s.VolunteerID, "opportunityID", s.OpportunityID)
	_, err := r.db.ExecContext(ctx, query, s.ID, s.VolunteerID, s.OpportunityID, string(s.Status), s.SignedUpAt,
		s.ConfirmedAt, s.RejectedAt, s.Attended, s.HoursAwarded, s.CreatedOn, s.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "signupID", s.ID)
	if err != nil {
		logger.ExitMethodWithError("signupRepository.Create", err)
		return translate(err)
	}
	logger.ExitMethod("signupRepository.Create", "signupID", s.ID)
	return nil
}

func (r *signupRepository) GetByID(ctx context.Context, id string) (*domain.Signup, error) {
	query := `SELECT ` + signupColumns + ` FROM signups WHERE id = $1`
	return scanSignup(r.db.QueryRowContext(ctx, query, id))
}

func (r *signupRepository) FindOne(ctx context.Context, volunteerID, opportunityID string, statuses ...domain.SignupStatus) (*domain.Signup, error) {
	if len(statuses) == 0 {
		query := `SELECT ` + signupColumns + ` FROM signups WHERE volunteer_id = $1 AND opportunity_id = $2
		          ORDER BY created_on DESC LIMIT 1`
		return scanSignup(r.db.QueryRowContext(ctx, query, volunteerID, opportunityID))
	}
	query := `SELECT ` + signupColumns + ` FROM signups WHERE volunteer_id = $1 AND opportunity_id = $2 AND status = ANY($3)
	          ORDER BY created_on DESC LIMIT 1`
	return scanSignup(r.db.QueryRowContext(ctx, query, volunteerID, opportunityID, pq.Array(statusStrings(statuses))))
}

func (r *signupRepository) CountByOpportunity(ctx context.Context, opportunityID string, statuses ...domain.SignupStatus) (int, error) {
	var n int
	var err error
	if len(statuses) == 0 {
		err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM signups WHERE opportunity_id = $1`, opportunityID).Scan(&n)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT count(*) FROM signups WHERE opportunity_id = $1 AND status = ANY($2)`,
			opportunityID, pq.Array(statusStrings(statuses))).Scan(&n)
	}
	return n, err
}

func (r *signupRepository) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.Signup, error) {
	query := `SELECT ` + signupColumns + ` FROM signups WHERE opportunity_id = $1 ORDER BY signed_up_at`
	return r.query(ctx, query, opportunityID)
}

func (r *signupRepository) ListByVolunteer(ctx context.Context, volunteerID string, status domain.SignupStatus, limit, offset int) ([]domain.Signup, int64, error) {
	where := ` WHERE volunteer_id = $1`
	args := []any{volunteerID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, string(status))
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM signups`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + signupColumns + ` FROM signups` + where + ` ORDER BY signed_up_at DESC`
	if len(args) == 1 {
		query += ` LIMIT $2 OFFSET $3`
	} else {
		query += ` LIMIT $3 OFFSET $4`
	}
	args = append(args, limit, offset)
	signups, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return signups, total, nil
}

func (r *signupRepository) Transition(ctx context.Context, id string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error) {
	query := `UPDATE signups SET ` + transitionSet + ` WHERE id = $8 AND status = $9 RETURNING ` + signupColumns
	args := append(transitionArgs(patch), id, string(from))
	logger.DatabaseCall("UPDATE", "signups", "signupID", id, "from", from, "to", patch.Status)
	s, err := scanSignup(r.db.QueryRowContext(ctx, query, args...))
	logger.DatabaseResult("UPDATE", 1, err, "signupID", id)
	return s, err
}

func (r *signupRepository) TransitionByPair(ctx context.Context, opportunityID, volunteerID string, from domain.SignupStatus, patch domain.SignupTransition) (*domain.Signup, error) {
	query := `UPDATE signups SET ` + transitionSet + ` WHERE opportunity_id = $8 AND volunteer_id = $9 AND status = $10
	          RETURNING ` + signupColumns
	args := append(transitionArgs(patch), opportunityID, volunteerID, string(from))
	logger.DatabaseCall("UPDATE", "signups", "opportunityID", opportunityID, "volunteerID", volunteerID, "to", patch.Status)
	s, err := scanSignup(r.db.QueryRowContext(ctx, query, args...))
	logger.DatabaseResult("UPDATE", 1, err)
	return s, err
}

func (r *signupRepository) TransitionAll(ctx context.Context, opportunityID string, from domain.SignupStatus, patch domain.SignupTransition) ([]domain.Signup, error) {
	query := `UPDATE signups SET ` + transitionSet + ` WHERE opportunity_id = $8 AND status = $9 RETURNING ` + signupColumns
	args := append(transitionArgs(patch), opportunityID, string(from))
	logger.DatabaseCall("UPDATE", "signups", "opportunityID", opportunityID, "from", from, "to", patch.Status)
	signups, err := r.query(ctx, query, args...)
	logger.DatabaseResult("UPDATE", int64(len(signups)), err)
	return signups, err
}

func (r *signupRepository) query(ctx context.Context, query string, args ...any) ([]domain.Signup, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Signup
	for rows.Next() {
		s, err := scanSignup(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, rows.Err()
}
