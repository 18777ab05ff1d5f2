package postgres_test

import (
	"context"
	"testing"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var signupCols = []string{"id", "volunteer_id", "opportunity_id", "status", "signed_up_at", "confirmed_at", "rejected_at", "attended", "hours_awarded", "created_on", "updated_on"}

func TestSignupRepository_Transition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewSignupRepository(db)
	ctx := context.Background()
	now := time.Now()

	t.Run("Matched", func(t *testing.T) {
		rows := sqlmock.NewRows(signupCols).
			AddRow("s-1", "v-1", "o-1", "attended", now, now, nil, true, 4.0, now, now)
		mock.ExpectQuery("UPDATE signups SET (.+) WHERE id = \\$8 AND status = \\$9 RETURNING").
			WithArgs("attended", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, "s-1", "confirmed").
			WillReturnRows(rows)

		s, err := repo.Transition(ctx, "s-1", domain.SignupConfirmed, domain.AttendedTransition(now, 4))
		require.NoError(t, err)
		assert.Equal(t, domain.SignupAttended, s.Status)
		require.NotNil(t, s.Attended)
		assert.True(t, *s.Attended)
		assert.Equal(t, 4.0, s.HoursAwarded)
		assert.Nil(t, s.RejectedAt)
	})

	t.Run("StatusMismatch", func(t *testing.T) {
		mock.ExpectQuery("UPDATE signups SET").
			WithArgs("attended", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, "s-2", "confirmed").
			WillReturnRows(sqlmock.NewRows(signupCols))

		s, err := repo.Transition(ctx, "s-2", domain.SignupConfirmed, domain.AttendedTransition(now, 4))
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, s)
	})

	t.Run("RevertAttended", func(t *testing.T) {
		acceptedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(signupCols).
			AddRow("s-3", "v-1", "o-1", "confirmed", now, acceptedAt, nil, nil, 0.0, now, now)
		mock.ExpectQuery("UPDATE signups SET (.+)attended = CASE WHEN \\$7 THEN NULL(.+) WHERE id = \\$8 AND status = \\$9 RETURNING").
			WithArgs("confirmed", acceptedAt, nil, nil, 0.0, sqlmock.AnyArg(), true, "s-3", "attended").
			WillReturnRows(rows)

		s, err := repo.Transition(ctx, "s-3", domain.SignupAttended, domain.RevertAttendedTransition(&acceptedAt))
		require.NoError(t, err)
		assert.Equal(t, domain.SignupConfirmed, s.Status)
		assert.Nil(t, s.Attended)
		assert.Equal(t, 0.0, s.HoursAwarded)
		require.NotNil(t, s.ConfirmedAt)
		assert.True(t, acceptedAt.Equal(*s.ConfirmedAt))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRepository_TransitionAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewSignupRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows(signupCols).
		AddRow("s-1", "v-1", "o-1", "confirmed", now, now, nil, nil, 0.0, now, now).
		AddRow("s-2", "v-2", "o-1", "confirmed", now, now, nil, nil, 0.0, now, now)
	mock.ExpectQuery("UPDATE signups SET (.+) WHERE opportunity_id = \\$8 AND status = \\$9").
		WithArgs("confirmed", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), false, "o-1", "pending").
		WillReturnRows(rows)

	signups, err := repo.TransitionAll(context.Background(), "o-1", domain.SignupPending, domain.ConfirmTransition(now))
	require.NoError(t, err)
	assert.Len(t, signups, 2)
	assert.Equal(t, "v-2", signups[1].VolunteerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRepository_CountByOpportunity(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewSignupRepository(db)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM signups WHERE opportunity_id = \\$1 AND status = ANY\\(\\$2\\)").
		WithArgs("o-1", pq.Array([]string{"pending", "confirmed"})).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountByOpportunity(context.Background(), "o-1", domain.ActiveSignupStatuses...)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSignupRepository_CreateDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := postgres.NewSignupRepository(db)

	mock.ExpectExec("INSERT INTO signups").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_signups_pair_active"})

	err = repo.Create(context.Background(), &domain.Signup{VolunteerID: "v-1", OpportunityID: "o-1", Status: domain.SignupPending})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
