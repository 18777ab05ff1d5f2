package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/repository"
)

type profileService struct {
	accounts      repository.AccountRepository
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
	profiles      profileResolver
}

func NewProfileService(
	accounts repository.AccountRepository,
	volunteers repository.VolunteerRepository,
	organizations repository.OrganizationRepository,
) ProfileService {
	return &profileService{
		accounts:      accounts,
		volunteers:    volunteers,
		organizations: organizations,
		profiles:      profileResolver{volunteers: volunteers, organizations: organizations},
	}
}

func (s *profileService) GetProfile(ctx context.Context, caller domain.Caller) (*ProfileView, error) {
	account, err := s.accounts.GetByID(ctx, caller.AccountID)
	if err != nil {
		return nil, notFoundOr(ctx, "get account", err, domain.ErrAccountNotFound)
	}
	// the stored kind wins over whatever the token carried
	caller.Kind = account.Kind

	view := &ProfileView{Account: account}
	switch account.Kind {
	case domain.AccountKindVolunteer:
		p, err := s.profiles.volunteer(ctx, caller)
		if err != nil {
			return nil, err
		}
		view.Profile = p
	case domain.AccountKindOrganization:
		p, err := s.profiles.organization(ctx, caller)
		if err != nil {
			return nil, err
		}
		view.Profile = p
	}
	return view, nil
}

func (s *profileService) UpdateVolunteerProfile(ctx context.Context, caller domain.Caller, in VolunteerProfileUpdate) (*domain.VolunteerProfile, error) {
	p, err := s.profiles.volunteer(ctx, caller)
	if err != nil {
		return nil, err
	}
	if in.DisplayName != nil {
		p.DisplayName = strings.TrimSpace(*in.DisplayName)
	}
	if in.AboutMe != nil {
		p.AboutMe = strings.TrimSpace(*in.AboutMe)
	}
	if in.ProfilePictureURL != nil {
		p.ProfilePictureURL = *in.ProfilePictureURL
	}
	if utf8.RuneCountInString(p.AboutMe) > domain.MaxAboutMeLength {
		return nil, domain.NewValidationError([]domain.FieldError{{Field: "aboutMe", Message: "About me must be at most 500 characters"}})
	}

	if err := s.volunteers.Update(ctx, p); err != nil {
		return nil, notFoundOr(ctx, "update volunteer profile", err, domain.ErrProfileNotFound)
	}
	return p, nil
}

func (s *profileService) UpdateOrganizationProfile(ctx context.Context, caller domain.Caller, in OrganizationProfileUpdate) (*domain.OrganizationProfile, error) {
	p, err := s.profiles.organization(ctx, caller)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.OrganizationName, in.OrganizationName)
	set(&p.Mission, in.Mission)
	set(&p.LogoURL, in.LogoURL)
	set(&p.ContactEmail, in.ContactEmail)
	set(&p.ContactPhone, in.ContactPhone)
	set(&p.Website, in.Website)
	set(&p.Address, in.Address)

	if err := s.organizations.Update(ctx, p); err != nil {
		return nil, notFoundOr(ctx, "update organization profile", err, domain.ErrProfileNotFound)
	}
	return p, nil
}

func (s *profileService) SetPicture(ctx context.Context, caller domain.Caller, url string) (*ProfileView, error) {
	switch {
	case caller.IsVolunteer():
		if _, err := s.UpdateVolunteerProfile(ctx, caller, VolunteerProfileUpdate{ProfilePictureURL: &url}); err != nil {
			return nil, err
		}
	case caller.IsOrganization():
		if _, err := s.UpdateOrganizationProfile(ctx, caller, OrganizationProfileUpdate{LogoURL: &url}); err != nil {
			return nil, err
		}
	default:
		return nil, domain.ErrWrongAccountKind
	}
	return s.GetProfile(ctx, caller)
}

func (s *profileService) GetOrganization(ctx context.Context, id string) (*domain.OrganizationProfile, error) {
	org, err := s.organizations.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "get organization", err, domain.ErrProfileNotFound)
	}
	return org, nil
}
