package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"
	"volunteer-hub-backend/internal/service"
)

type reviewFixture struct {
	reviews *MockReviewRepo
	signups *MockSignupRepo
	opps    *MockOpportunityRepo
	vols    *MockVolunteerRepo
	orgs    *MockOrganizationRepo
	svc     service.ReviewService
}

func newReviewFixture() *reviewFixture {
	f := &reviewFixture{
		reviews: new(MockReviewRepo),
		signups: new(MockSignupRepo),
		opps:    new(MockOpportunityRepo),
		vols:    new(MockVolunteerRepo),
		orgs:    new(MockOrganizationRepo),
	}
	f.svc = service.NewReviewService(f.reviews, f.signups, f.opps, f.vols, f.orgs, fixedClock)
	return f
}

func pastOpportunity() *domain.Opportunity {
	opp := openOpportunity(nil)
	opp.EventDate = fixedNow.Add(-24 * time.Hour)
	return opp
}

func TestReviewService_Create(t *testing.T) {
	ctx := context.Background()
	volunteer := &domain.VolunteerProfile{ID: "vol-1", AccountID: "acc-v"}
	comment := "Well organised and friendly."

	t.Run("Success Recomputes Average", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.opps.On("GetByID", ctx, "opp-1").Return(pastOpportunity(), nil)
		f.signups.On("FindOne", ctx, "vol-1", "opp-1", []domain.SignupStatus{domain.SignupAttended}).
			Return(&domain.Signup{ID: "sig-1", Status: domain.SignupAttended}, nil)
		f.reviews.On("GetByVolunteerAndOpportunity", ctx, "vol-1", "opp-1").Return(nil, repository.ErrNotFound)
		f.reviews.On("Create", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
		f.reviews.On("RatingsByOrganization", ctx, "org-1").Return([]int{4, 5, 3}, nil)
		f.orgs.On("UpdateRating", ctx, "org-1", 4.0, 3).Return(nil)

		review, err := f.svc.Create(ctx, volunteerCaller, "opp-1", 4, comment)
		require.NoError(t, err)
		assert.Equal(t, "org-1", review.OrganizationID)
		f.orgs.AssertExpectations(t)
	})

	t.Run("Not Attended", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.opps.On("GetByID", ctx, "opp-1").Return(pastOpportunity(), nil)
		f.signups.On("FindOne", ctx, "vol-1", "opp-1", []domain.SignupStatus{domain.SignupAttended}).Return(nil, repository.ErrNotFound)

		_, err := f.svc.Create(ctx, volunteerCaller, "opp-1", 4, comment)
		assert.ErrorIs(t, err, domain.ErrReviewNotEligible)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("Event Not Past", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.opps.On("GetByID", ctx, "opp-1").Return(openOpportunity(nil), nil)
		f.signups.On("FindOne", ctx, "vol-1", "opp-1", mock.Anything).Return(&domain.Signup{ID: "sig-1"}, nil)

		_, err := f.svc.Create(ctx, volunteerCaller, "opp-1", 4, comment)
		assert.ErrorIs(t, err, domain.ErrEventNotPast)
	})

	t.Run("Already Reviewed", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.opps.On("GetByID", ctx, "opp-1").Return(pastOpportunity(), nil)
		f.signups.On("FindOne", ctx, "vol-1", "opp-1", mock.Anything).Return(&domain.Signup{ID: "sig-1"}, nil)
		f.reviews.On("GetByVolunteerAndOpportunity", ctx, "vol-1", "opp-1").Return(&domain.Review{ID: "rev-0"}, nil)

		_, err := f.svc.Create(ctx, volunteerCaller, "opp-1", 4, comment)
		assert.ErrorIs(t, err, domain.ErrAlreadyReviewed)
		f.reviews.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Invalid Rating And Comment", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)

		_, err := f.svc.Create(ctx, volunteerCaller, "opp-1", 6, "short")
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Len(t, derr.Fields, 2)
	})

	t.Run("Recompute Failure Does Not Fail Create", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.opps.On("GetByID", ctx, "opp-1").Return(pastOpportunity(), nil)
		f.signups.On("FindOne", ctx, "vol-1", "opp-1", mock.Anything).Return(&domain.Signup{ID: "sig-1"}, nil)
		f.reviews.On("GetByVolunteerAndOpportunity", ctx, "vol-1", "opp-1").Return(nil, repository.ErrNotFound)
		f.reviews.On("Create", ctx, mock.Anything).Return(nil)
		f.reviews.On("RatingsByOrganization", ctx, "org-1").Return([]int(nil), errors.New("timeout"))

		_, err := f.svc.Create(ctx, volunteerCaller, "opp-1", 5, comment)
		assert.NoError(t, err)
	})
}

func TestReviewService_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	volunteer := &domain.VolunteerProfile{ID: "vol-1", AccountID: "acc-v"}

	t.Run("Delete Recomputes Remaining", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.reviews.On("GetByID", ctx, "rev-3").Return(&domain.Review{ID: "rev-3", VolunteerID: "vol-1", OrganizationID: "org-1", Rating: 3}, nil)
		f.reviews.On("Delete", ctx, "rev-3").Return(nil)
		f.reviews.On("RatingsByOrganization", ctx, "org-1").Return([]int{4, 5}, nil)
		f.orgs.On("UpdateRating", ctx, "org-1", 4.5, 2).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, volunteerCaller, "rev-3"))
		f.orgs.AssertExpectations(t)
	})

	t.Run("Delete Last Resets To Zero", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.reviews.On("GetByID", ctx, "rev-1").Return(&domain.Review{ID: "rev-1", VolunteerID: "vol-1", OrganizationID: "org-1"}, nil)
		f.reviews.On("Delete", ctx, "rev-1").Return(nil)
		f.reviews.On("RatingsByOrganization", ctx, "org-1").Return([]int{}, nil)
		f.orgs.On("UpdateRating", ctx, "org-1", 0.0, 0).Return(nil)

		require.NoError(t, f.svc.Delete(ctx, volunteerCaller, "rev-1"))
		f.orgs.AssertExpectations(t)
	})

	t.Run("Not Author", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.reviews.On("GetByID", ctx, "rev-9").Return(&domain.Review{ID: "rev-9", VolunteerID: "vol-2"}, nil)

		rating := 1
		_, err := f.svc.Update(ctx, volunteerCaller, "rev-9", &rating, nil)
		assert.ErrorIs(t, err, domain.ErrNotReviewAuthor)
		f.reviews.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("Update", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.reviews.On("GetByID", ctx, "rev-1").Return(&domain.Review{ID: "rev-1", VolunteerID: "vol-1", OrganizationID: "org-1", Rating: 2, Comment: "It was fine overall."}, nil)
		f.reviews.On("Update", ctx, mock.AnythingOfType("*domain.Review")).Return(nil)
		f.reviews.On("RatingsByOrganization", ctx, "org-1").Return([]int{5}, nil)
		f.orgs.On("UpdateRating", ctx, "org-1", 5.0, 1).Return(nil)

		rating := 5
		review, err := f.svc.Update(ctx, volunteerCaller, "rev-1", &rating, nil)
		require.NoError(t, err)
		assert.Equal(t, 5, review.Rating)
	})

	t.Run("Unknown Review", func(t *testing.T) {
		f := newReviewFixture()
		f.vols.On("GetByAccountID", ctx, "acc-v").Return(volunteer, nil)
		f.reviews.On("GetByID", ctx, "nope").Return(nil, repository.ErrNotFound)

		err := f.svc.Delete(ctx, volunteerCaller, "nope")
		assert.ErrorIs(t, err, domain.ErrReviewNotFound)
	})
}

func TestReviewService_ListByOrganization(t *testing.T) {
	ctx := context.Background()
	f := newReviewFixture()
	f.orgs.On("GetByID", ctx, "org-1").Return(&domain.OrganizationProfile{ID: "org-1", AverageRating: 4.5, TotalReviews: 2}, nil)
	f.reviews.On("ListByOrganization", ctx, "org-1", 10, 0).Return([]domain.Review{
		{ID: "r1", VolunteerID: "v1", OpportunityID: "opp-1", Rating: 4},
		{ID: "r2", VolunteerID: "v2", OpportunityID: "opp-1", Rating: 5},
	}, int64(2), nil)
	f.opps.On("ListByIDs", ctx, []string{"opp-1"}).Return([]domain.Opportunity{*pastOpportunity()}, nil)
	f.vols.On("ListByIDs", ctx, []string{"v1", "v2"}).Return([]domain.VolunteerProfile{
		{ID: "v1", DisplayName: "Ann"},
		{ID: "v2", DisplayName: "Bo"},
	}, nil)

	page, err := f.svc.ListByOrganization(ctx, "org-1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 4.5, page.AverageRating)
	assert.Equal(t, 2, page.TotalReviews)
	require.Len(t, page.Reviews, 2)
	assert.Equal(t, "Ann", page.Reviews[0].Volunteer.DisplayName)
	assert.Equal(t, "Beach cleanup", page.Reviews[1].Opportunity.Title)
}
