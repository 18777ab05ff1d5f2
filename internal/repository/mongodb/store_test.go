package mongodb

import (
	"context"
	"testing"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestVolunteerRepository_AddHours(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ReturnsUpdatedProfile", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "account_id", Value: primitive.NewObjectID()},
				{Key: "display_name", Value: "Jane"},
				{Key: "total_hours", Value: 12.0},
				{Key: "completed", Value: 3},
			}},
		})

		repo := NewVolunteerRepository(mt.DB)
		p, err := repo.AddHours(context.Background(), id.Hex(), 3)
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), p.ID)
		assert.Equal(mt, 12.0, p.TotalHours)
		assert.Equal(mt, 3, p.Completed)
	})

	mt.Run("MalformedID", func(mt *mtest.T) {
		repo := NewVolunteerRepository(mt.DB)
		_, err := repo.AddHours(context.Background(), "not-an-id", 3)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestSignupRepository_Transition(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("Matched", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		confirmed := time.Now().UTC().Truncate(time.Millisecond)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "volunteer_id", Value: primitive.NewObjectID()},
				{Key: "opportunity_id", Value: primitive.NewObjectID()},
				{Key: "status", Value: "confirmed"},
				{Key: "confirmed_at", Value: confirmed},
				{Key: "hours_awarded", Value: 0.0},
			}},
		})

		repo := NewSignupRepository(mt.DB)
		s, err := repo.Transition(context.Background(), id.Hex(), domain.SignupPending, domain.ConfirmTransition(confirmed))
		require.NoError(mt, err)
		assert.Equal(mt, domain.SignupConfirmed, s.Status)
		require.NotNil(mt, s.ConfirmedAt)
		assert.True(mt, confirmed.Equal(*s.ConfirmedAt))
	})

	mt.Run("NoMatch", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "value", Value: nil}})

		repo := NewSignupRepository(mt.DB)
		s, err := repo.Transition(context.Background(), primitive.NewObjectID().Hex(), domain.SignupPending, domain.ConfirmTransition(time.Now()))
		assert.ErrorIs(mt, err, repository.ErrNotFound)
		assert.Nil(mt, s)
	})
}

func TestTransitionUpdate(t *testing.T) {
	t.Run("Attended", func(t *testing.T) {
		now := time.Now()
		update := transitionUpdate(domain.AttendedTransition(now, 3), "tx-1")
		set := update["$set"].(bson.M)
		assert.Equal(t, true, set["attended"])
		assert.Equal(t, 3.0, set["hours_awarded"])
		_, hasUnset := update["$unset"]
		assert.False(t, hasUnset)
	})

	t.Run("RevertClearsAttended", func(t *testing.T) {
		acceptedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		update := transitionUpdate(domain.RevertAttendedTransition(&acceptedAt), "tx-2")
		set := update["$set"].(bson.M)
		assert.Equal(t, "confirmed", set["status"])
		assert.Equal(t, acceptedAt, set["confirmed_at"])
		assert.Equal(t, 0.0, set["hours_awarded"])
		_, setsAttended := set["attended"]
		assert.False(t, setsAttended)
		assert.Equal(t, bson.M{"attended": ""}, update["$unset"])
	})
}

func TestSignupRepository_RevertAttended(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("RestoresConfirmedState", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		acceptedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		mt.AddMockResponses(bson.D{
			{Key: "ok", Value: 1},
			{Key: "value", Value: bson.D{
				{Key: "_id", Value: id},
				{Key: "volunteer_id", Value: primitive.NewObjectID()},
				{Key: "opportunity_id", Value: primitive.NewObjectID()},
				{Key: "status", Value: "confirmed"},
				{Key: "confirmed_at", Value: acceptedAt},
				{Key: "hours_awarded", Value: 0.0},
			}},
		})

		repo := NewSignupRepository(mt.DB)
		s, err := repo.Transition(context.Background(), id.Hex(), domain.SignupAttended, domain.RevertAttendedTransition(&acceptedAt))
		require.NoError(mt, err)
		assert.Equal(mt, domain.SignupConfirmed, s.Status)
		assert.Nil(mt, s.Attended)
		require.NotNil(mt, s.ConfirmedAt)
		assert.True(mt, acceptedAt.Equal(*s.ConfirmedAt))

		sent := mt.GetStartedEvent().Command
		_, err = sent.LookupErr("update", "$unset", "attended")
		assert.NoError(mt, err)
	})
}

func TestSignupRepository_MalformedIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ReadAsNotFound", func(mt *mtest.T) {
		ctx := context.Background()
		signups := NewSignupRepository(mt.DB)
		_, err := signups.CountByOpportunity(ctx, "bad-id")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
		_, err = signups.ListByOpportunity(ctx, "bad-id")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
		_, _, err = signups.ListByVolunteer(ctx, "bad-id", "", 10, 0)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
		_, err = signups.TransitionAll(ctx, "bad-id", domain.SignupPending, domain.ConfirmTransition(time.Now()))
		assert.ErrorIs(mt, err, repository.ErrNotFound)

		reviews := NewReviewRepository(mt.DB)
		_, err = reviews.RatingsByOrganization(ctx, "bad-id")
		assert.ErrorIs(mt, err, repository.ErrNotFound)

		notifications := NewNotificationRepository(mt.DB)
		_, err = notifications.CountUnread(ctx, "bad-id")
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}

func TestSignupRepository_CreateDuplicate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("DuplicateKey", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		repo := NewSignupRepository(mt.DB)
		err := repo.Create(context.Background(), &domain.Signup{
			VolunteerID:   primitive.NewObjectID().Hex(),
			OpportunityID: primitive.NewObjectID().Hex(),
			Status:        domain.SignupPending,
		})
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})
}

func TestSignupRepository_CountByOpportunity(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("CountsActive", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "test.signups", mtest.FirstBatch, bson.D{{Key: "n", Value: int32(2)}}))

		repo := NewSignupRepository(mt.DB)
		n, err := repo.CountByOpportunity(context.Background(), primitive.NewObjectID().Hex(), domain.ActiveSignupStatuses...)
		require.NoError(mt, err)
		assert.Equal(mt, 2, n)
	})
}

func TestReviewRepository_RatingsByOrganization(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("CollectsRatings", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(1, "test.reviews", mtest.FirstBatch,
			bson.D{{Key: "rating", Value: 4}},
			bson.D{{Key: "rating", Value: 5}})
		last := mtest.CreateCursorResponse(0, "test.reviews", mtest.NextBatch,
			bson.D{{Key: "rating", Value: 3}})
		mt.AddMockResponses(first, last)

		repo := NewReviewRepository(mt.DB)
		ratings, err := repo.RatingsByOrganization(context.Background(), primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		assert.Equal(mt, []int{4, 5, 3}, ratings)
		assert.Equal(mt, 4.0, domain.AverageRating(ratings))
	})
}

func TestNotificationRepository_MarkAsRead(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("NotOwned", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}, {Key: "nModified", Value: 0}})

		repo := NewNotificationRepository(mt.DB)
		err := repo.MarkAsRead(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})

	mt.Run("Owned", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}, {Key: "nModified", Value: 1}})

		repo := NewNotificationRepository(mt.DB)
		err := repo.MarkAsRead(context.Background(), primitive.NewObjectID().Hex(), primitive.NewObjectID().Hex())
		assert.NoError(mt, err)
	})
}

func TestOpportunityFilter(t *testing.T) {
	t.Run("ActiveOnlyByDefault", func(t *testing.T) {
		f := opportunityFilter(domain.OpportunityFilter{})
		assert.Equal(t, true, f["is_active"])
	})

	t.Run("SearchIsEscaped", func(t *testing.T) {
		f := opportunityFilter(domain.OpportunityFilter{Search: "a+b"})
		or, ok := f["$or"].(bson.A)
		require.True(t, ok)
		require.Len(t, or, 3)
		title := or[0].(bson.M)["title"].(primitive.Regex)
		assert.Equal(t, `a\+b`, title.Pattern)
		assert.Equal(t, "i", title.Options)
	})

	t.Run("HourRange", func(t *testing.T) {
		minH := 2.0
		f := opportunityFilter(domain.OpportunityFilter{MinHours: &minH, IncludeInactive: true})
		_, hasActive := f["is_active"]
		assert.False(t, hasActive)
		assert.Equal(t, bson.M{"$gte": 2.0}, f["duration_hours"])
	})
}
