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

const accountColumns = `id, email, password_hash, google_id, kind, is_active, reset_token_hash, reset_token_expires_on, created_on, updated_on`

type accountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	a := &domain.Account{}
	var passwordHash, googleID, resetHash sql.NullString
	var resetExpires sql.NullTime
	var kind string
	err := row.Scan(&a.ID, &a.Email, &passwordHash, &googleID, &kind, &a.IsActive, &resetHash, &resetExpires, &a.CreatedOn, &a.UpdatedOn)
	if err != nil {
		return nil, translate(err)
	}
	a.PasswordHash = passwordHash.String
	a.GoogleID = googleID.String
	a.Kind = domain.AccountKind(kind)
	a.ResetTokenHash = resetHash.String
	if resetExpires.Valid {
		t := resetExpires.Time
		a.ResetTokenExpiresOn = &t
	}
	return a, nil
}

func (r *accountRepository) Create(ctx context.Context, a *domain.Account) error {
	logger.EnterMethod("accountRepository.Create", "email", a.Email, "kind", a.Kind)
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedOn = now
	a.UpdatedOn = now
	query := `INSERT INTO accounts (` + accountColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	logger.DatabaseCall("INSERT", "accounts", "email", a.Email)
	_, err := r.db.ExecContext(ctx, query, a.ID, a.Email, nullString(a.PasswordHash), nullString(a.GoogleID),
		string(a.Kind), a.IsActive, nullString(a.ResetTokenHash), a.ResetTokenExpiresOn, a.CreatedOn, a.UpdatedOn)
	logger.DatabaseResult("INSERT", 1, err, "accountID", a.ID)
	if err != nil {
		logger.ExitMethodWithError("accountRepository.Create", err, "email", a.Email)
		return translate(err)
	}
	logger.ExitMethod("accountRepository.Create", "accountID", a.ID)
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE LOWER(email) = LOWER($1)`
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *accountRepository) GetByGoogleID(ctx context.Context, googleID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE google_id = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, googleID))
}

func (r *accountRepository) LinkGoogleID(ctx context.Context, id, googleID string) error {
	query := `UPDATE accounts SET google_id = $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, googleID, time.Now().UTC(), id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedOn = time.Now().UTC()
	query := `UPDATE accounts SET email = $1, password_hash = $2, google_id = $3, is_active = $4,
	          reset_token_hash = $5, reset_token_expires_on = $6, updated_on = $7 WHERE id = $8`
	logger.DatabaseCall("UPDATE", "accounts", "accountID", a.ID)
	res, err := r.db.ExecContext(ctx, query, a.Email, nullString(a.PasswordHash), nullString(a.GoogleID), a.IsActive,
		nullString(a.ResetTokenHash), a.ResetTokenExpiresOn, a.UpdatedOn, a.ID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return translate(err)
	}
	return requireAffected(res)
}

func (r *accountRepository) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE reset_token_hash = $1 AND reset_token_expires_on > $2`
	return scanAccount(r.db.QueryRowContext(ctx, query, tokenHash, now))
}

func (r *accountRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE accounts SET reset_token_hash = NULL, reset_token_expires_on = NULL
	          WHERE reset_token_expires_on IS NOT NULL AND reset_token_expires_on <= $1`
	logger.DatabaseCall("UPDATE", "accounts", "op", "clearExpiredResetTokens")
	res, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return 0, err
	}
	n, err := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, err)
	return n, err
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}
