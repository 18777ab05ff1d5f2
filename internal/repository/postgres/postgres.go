package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schema string

const uniqueViolation = "23505"

type Store struct {
	db            *sql.DB
	accounts      repository.AccountRepository
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
	opportunities repository.OpportunityRepository
	signups       repository.SignupRepository
	notifications repository.NotificationRepository
	reviews       repository.ReviewRepository
}

var _ repository.Store = (*Store)(nil)

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		accounts:      NewAccountRepository(db),
		volunteers:    NewVolunteerRepository(db),
		organizations: NewOrganizationRepository(db),
		opportunities: NewOpportunityRepository(db),
		signups:       NewSignupRepository(db),
		notifications: NewNotificationRepository(db),
		reviews:       NewReviewRepository(db),
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string, maxOpen, maxIdle int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
	}
	if maxIdle > 0 {
		db.SetMaxIdleConns(maxIdle)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func (s *Store) Accounts() repository.AccountRepository           { return s.accounts }
func (s *Store) Volunteers() repository.VolunteerRepository       { return s.volunteers }
func (s *Store) Organizations() repository.OrganizationRepository { return s.organizations }
func (s *Store) Opportunities() repository.OpportunityRepository  { return s.opportunities }
func (s *Store) Signups() repository.SignupRepository             { return s.signups }
func (s *Store) Notifications() repository.NotificationRepository { return s.notifications }
func (s *Store) Reviews() repository.ReviewRepository             { return s.reviews }

// Migrate applies the embedded schema. Every statement is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	logger.DatabaseCall("MIGRATE", "schema")
	_, err := s.db.ExecContext(ctx, schema)
	logger.DatabaseResult("MIGRATE", 0, err)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close(context.Context) error {
	return s.db.Close()
}

// translate maps driver errors onto the repository sentinels.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func statusStrings[S ~string](in []S) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}
