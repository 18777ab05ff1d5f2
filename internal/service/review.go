package service

import (
	"context"
	"errors"
	"strings"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
)

type reviewService struct {
	reviews       repository.ReviewRepository
	signups       repository.SignupRepository
	opportunities repository.OpportunityRepository
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
	profiles      profileResolver
	now           Clock
}

func NewReviewService(
	reviews repository.ReviewRepository,
	signups repository.SignupRepository,
	opportunities repository.OpportunityRepository,
	volunteers repository.VolunteerRepository,
	organizations repository.OrganizationRepository,
	now Clock,
) ReviewService {
	if now == nil {
		now = systemClock
	}
	return &reviewService{
		reviews:       reviews,
		signups:       signups,
		opportunities: opportunities,
		volunteers:    volunteers,
		organizations: organizations,
		profiles:      profileResolver{volunteers: volunteers, organizations: organizations},
		now:           now,
	}
}

func (s *reviewService) Create(ctx context.Context, caller domain.Caller, opportunityID string, rating int, comment string) (*domain.Review, error) {
	volunteer, err := s.profiles.volunteer(ctx, caller)
	if err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)
	if fields := domain.ValidateReview(rating, comment); len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, notFoundOr(ctx, "get opportunity", err, domain.ErrOpportunityNotFound)
	}

	if _, err := s.signups.FindOne(ctx, volunteer.ID, opp.ID, domain.SignupAttended); err != nil {
		return nil, notFoundOr(ctx, "find attended signup", err, domain.ErrReviewNotEligible)
	}
	if !opp.HasPassed(s.now()) {
		return nil, domain.ErrEventNotPast
	}

	_, err = s.reviews.GetByVolunteerAndOpportunity(ctx, volunteer.ID, opp.ID)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyReviewed
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError(ctx, "find review", err)
	}

	review := &domain.Review{
		VolunteerID:    volunteer.ID,
		OpportunityID:  opp.ID,
		OrganizationID: opp.OrganizationID,
		Rating:         rating,
		Comment:        comment,
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrAlreadyReviewed
		}
		return nil, internalError(ctx, "create review", err)
	}

	s.recompute(ctx, review.OrganizationID)
	return review, nil
}

func (s *reviewService) Update(ctx context.Context, caller domain.Caller, reviewID string, rating *int, comment *string) (*domain.Review, error) {
	review, err := s.authored(ctx, caller, reviewID)
	if err != nil {
		return nil, err
	}
	if rating != nil {
		review.Rating = *rating
	}
	if comment != nil {
		review.Comment = strings.TrimSpace(*comment)
	}
	if fields := domain.ValidateReview(review.Rating, review.Comment); len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, notFoundOr(ctx, "update review", err, domain.ErrReviewNotFound)
	}
	s.recompute(ctx, review.OrganizationID)
	return review, nil
}

func (s *reviewService) Delete(ctx context.Context, caller domain.Caller, reviewID string) error {
	review, err := s.authored(ctx, caller, reviewID)
	if err != nil {
		return err
	}
	if err := s.reviews.Delete(ctx, review.ID); err != nil {
		return notFoundOr(ctx, "delete review", err, domain.ErrReviewNotFound)
	}
	s.recompute(ctx, review.OrganizationID)
	return nil
}

func (s *reviewService) authored(ctx context.Context, caller domain.Caller, reviewID string) (*domain.Review, error) {
	volunteer, err := s.profiles.volunteer(ctx, caller)
	if err != nil {
		return nil, err
	}
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFoundOr(ctx, "get review", err, domain.ErrReviewNotFound)
	}
	if review.VolunteerID != volunteer.ID {
		return nil, domain.ErrNotReviewAuthor
	}
	return review, nil
}

func (s *reviewService) ListMine(ctx context.Context, caller domain.Caller) ([]domain.ReviewWithAuthor, error) {
	volunteer, err := s.profiles.volunteer(ctx, caller)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviews.ListByVolunteer(ctx, volunteer.ID)
	if err != nil {
		return nil, internalError(ctx, "list reviews", err)
	}
	return s.join(ctx, reviews, false)
}

func (s *reviewService) ListByOrganization(ctx context.Context, organizationID string, page, limit int) (*ReviewPage, error) {
	org, err := s.organizations.GetByID(ctx, organizationID)
	if err != nil {
		return nil, notFoundOr(ctx, "get organization", err, domain.ErrProfileNotFound)
	}

	page, limit = domain.NormalizePage(page, limit, domain.DefaultPageSize)
	reviews, total, err := s.reviews.ListByOrganization(ctx, org.ID, limit, (page-1)*limit)
	if err != nil {
		return nil, internalError(ctx, "list reviews", err)
	}
	joined, err := s.join(ctx, reviews, true)
	if err != nil {
		return nil, err
	}
	return &ReviewPage{
		Reviews:       joined,
		AverageRating: org.AverageRating,
		TotalReviews:  org.TotalReviews,
		Pagination:    domain.NewPagination(total, page, limit),
	}, nil
}

func (s *reviewService) ListByOpportunity(ctx context.Context, opportunityID string) ([]domain.ReviewWithAuthor, error) {
	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, notFoundOr(ctx, "get opportunity", err, domain.ErrOpportunityNotFound)
	}
	reviews, err := s.reviews.ListByOpportunity(ctx, opp.ID)
	if err != nil {
		return nil, internalError(ctx, "list reviews", err)
	}
	return s.join(ctx, reviews, true)
}

// join attaches the opportunity brief and, when withAuthor is set, the
// reviewing volunteer to each review.
func (s *reviewService) join(ctx context.Context, reviews []domain.Review, withAuthor bool) ([]domain.ReviewWithAuthor, error) {
	oppIDs := make([]string, 0, len(reviews))
	volIDs := make([]string, 0, len(reviews))
	for _, r := range reviews {
		oppIDs = append(oppIDs, r.OpportunityID)
		volIDs = append(volIDs, r.VolunteerID)
	}

	briefs := make(map[string]*domain.OpportunityBrief, len(oppIDs))
	if len(oppIDs) > 0 {
		opps, err := s.opportunities.ListByIDs(ctx, uniq(oppIDs))
		if err != nil {
			return nil, internalError(ctx, "list opportunities", err)
		}
		for i := range opps {
			briefs[opps[i].ID] = opps[i].Brief()
		}
	}

	authors := map[string]*domain.VolunteerSummary{}
	if withAuthor {
		var err error
		if authors, err = summarizeVolunteers(ctx, s.volunteers, nil, volIDs); err != nil {
			return nil, internalError(ctx, "list volunteers", err)
		}
	}

	out := make([]domain.ReviewWithAuthor, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, domain.ReviewWithAuthor{
			Review:      r,
			Volunteer:   authors[r.VolunteerID],
			Opportunity: briefs[r.OpportunityID],
		})
	}
	return out, nil
}

func (s *reviewService) RecomputeOrganizationRating(ctx context.Context, organizationID string) error {
	ratings, err := s.reviews.RatingsByOrganization(ctx, organizationID)
	if err != nil {
		return err
	}
	avg := domain.AverageRating(ratings)
	if err := s.organizations.UpdateRating(ctx, organizationID, avg, len(ratings)); err != nil {
		return err
	}
	logger.DebugContext(ctx, "Organization rating recomputed", "organization_id", organizationID, "average", avg, "total", len(ratings))
	return nil
}

// recompute runs after a review mutation has committed; a failure leaves a
// stale average and is only logged.
func (s *reviewService) recompute(ctx context.Context, organizationID string) {
	if err := s.RecomputeOrganizationRating(ctx, organizationID); err != nil {
		logger.ErrorContext(ctx, "Failed to recompute organization rating", "organization_id", organizationID, "error", err)
	}
}
