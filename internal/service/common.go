package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
)

// Clock lets tests pin the current time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

// internalError logs an unexpected store failure and hides it from the client.
func internalError(ctx context.Context, op string, err error) error {
	logger.ErrorContext(ctx, "unexpected failure", "operation", op, "error", err)
	return domain.NewInternalError(fmt.Errorf("%s: %w", op, err))
}

// notFoundOr maps repository.ErrNotFound to sentinel and anything else to an internal error.
func notFoundOr(ctx context.Context, op string, err error, sentinel *domain.Error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return internalError(ctx, op, err)
}

// profileResolver finds the profile behind a caller, creating an empty one
// the first time an account needs it.
type profileResolver struct {
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
}

func (r profileResolver) volunteer(ctx context.Context, caller domain.Caller) (*domain.VolunteerProfile, error) {
	if !caller.IsVolunteer() {
		return nil, domain.ErrWrongAccountKind
	}
	p, err := r.volunteers.GetByAccountID(ctx, caller.AccountID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError(ctx, "get volunteer profile", err)
	}

	p = &domain.VolunteerProfile{AccountID: caller.AccountID}
	if err := r.volunteers.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// created concurrently
			p, err = r.volunteers.GetByAccountID(ctx, caller.AccountID)
			if err != nil {
				return nil, internalError(ctx, "get volunteer profile", err)
			}
			return p, nil
		}
		return nil, internalError(ctx, "create volunteer profile", err)
	}
	logger.InfoContext(ctx, "Volunteer profile created", "account_id", caller.AccountID, "profile_id", p.ID)
	return p, nil
}

func (r profileResolver) organization(ctx context.Context, caller domain.Caller) (*domain.OrganizationProfile, error) {
	if !caller.IsOrganization() {
		return nil, domain.ErrWrongAccountKind
	}
	p, err := r.organizations.GetByAccountID(ctx, caller.AccountID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, internalError(ctx, "get organization profile", err)
	}

	p = &domain.OrganizationProfile{AccountID: caller.AccountID}
	if err := r.organizations.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			p, err = r.organizations.GetByAccountID(ctx, caller.AccountID)
			if err != nil {
				return nil, internalError(ctx, "get organization profile", err)
			}
			return p, nil
		}
		return nil, internalError(ctx, "create organization profile", err)
	}
	logger.InfoContext(ctx, "Organization profile created", "account_id", caller.AccountID, "profile_id", p.ID)
	return p, nil
}

// summarizeVolunteers indexes volunteer summaries by profile id. Emails are
// looked up only when accounts is non-nil.
func summarizeVolunteers(ctx context.Context, volunteers repository.VolunteerRepository, accounts repository.AccountRepository, ids []string) (map[string]*domain.VolunteerSummary, error) {
	out := make(map[string]*domain.VolunteerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	profiles, err := volunteers.ListByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		p := &profiles[i]
		s := &domain.VolunteerSummary{
			ID:                p.ID,
			DisplayName:       p.DisplayName,
			ProfilePictureURL: p.ProfilePictureURL,
			TotalHours:        p.TotalHours,
			Level:             p.Level(),
		}
		if accounts != nil {
			acc, err := accounts.GetByID(ctx, p.AccountID)
			switch {
			case err == nil:
				s.Email = acc.Email
			case !errors.Is(err, repository.ErrNotFound):
				return nil, err
			}
		}
		out[p.ID] = s
	}
	return out, nil
}

func organizationSummaries(ctx context.Context, organizations repository.OrganizationRepository, ids []string) (map[string]*domain.OrganizationSummary, error) {
	out := make(map[string]*domain.OrganizationSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	orgs, err := organizations.ListByIDs(ctx, uniq(ids))
	if err != nil {
		return nil, err
	}
	for i := range orgs {
		out[orgs[i].ID] = orgs[i].Summary()
	}
	return out, nil
}

func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
