package service

import (
	"context"
	"strings"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
)

type opportunityService struct {
	opportunities repository.OpportunityRepository
	organizations repository.OrganizationRepository
	signups       repository.SignupRepository
	profiles      profileResolver
	now           Clock
}

func NewOpportunityService(
	opportunities repository.OpportunityRepository,
	organizations repository.OrganizationRepository,
	volunteers repository.VolunteerRepository,
	signups repository.SignupRepository,
	now Clock,
) OpportunityService {
	if now == nil {
		now = systemClock
	}
	return &opportunityService{
		opportunities: opportunities,
		organizations: organizations,
		signups:       signups,
		profiles:      profileResolver{volunteers: volunteers, organizations: organizations},
		now:           now,
	}
}

func (s *opportunityService) Create(ctx context.Context, caller domain.Caller, in OpportunityInput) (*domain.Opportunity, error) {
	org, err := s.profiles.organization(ctx, caller)
	if err != nil {
		return nil, err
	}

	opp := &domain.Opportunity{
		OrganizationID: org.ID,
		Title:          strings.TrimSpace(in.Title),
		Description:    strings.TrimSpace(in.Description),
		Tasks:          strings.TrimSpace(in.Tasks),
		Requirements:   strings.TrimSpace(in.Requirements),
		EventDate:      in.EventDate.UTC(),
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		DurationHours:  in.DurationHours,
		Type:           in.Type,
		Cause:          in.Cause,
		Location:       strings.TrimSpace(in.Location),
		MaxVolunteers:  in.MaxVolunteers,
		IsActive:       true,
	}
	if opp.Type == "" {
		opp.Type = domain.OpportunityTypeOnSite
	}
	if opp.Cause == "" {
		opp.Cause = domain.CauseOther
	}

	fields := opp.Validate()
	if !opp.EventDate.After(s.now()) {
		fields = append(fields, domain.FieldError{Field: "eventDate", Message: "Event date must be in the future"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	if err := s.opportunities.Create(ctx, opp); err != nil {
		return nil, internalError(ctx, "create opportunity", err)
	}
	logger.InfoContext(ctx, "Opportunity created", "opportunity_id", opp.ID, "organization_id", org.ID)
	return opp, nil
}

func (s *opportunityService) Get(ctx context.Context, id string) (*domain.OpportunityWithOrganization, error) {
	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "get opportunity", err, domain.ErrOpportunityNotFound)
	}
	out := &domain.OpportunityWithOrganization{Opportunity: *opp}
	org, err := s.organizations.GetByID(ctx, opp.OrganizationID)
	if err != nil {
		logger.WarnContext(ctx, "Opportunity organization unavailable", "opportunity_id", opp.ID, "error", err)
		return out, nil
	}
	out.Organization = org.Summary()
	return out, nil
}

func (s *opportunityService) Update(ctx context.Context, caller domain.Caller, id string, patch OpportunityPatch) (*domain.Opportunity, error) {
	opp, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	applyPatch(opp, patch)
	if fields := opp.Validate(); len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	if opp.MaxVolunteers != nil {
		active, err := s.signups.CountByOpportunity(ctx, opp.ID, domain.ActiveSignupStatuses...)
		if err != nil {
			return nil, internalError(ctx, "count signups", err)
		}
		if *opp.MaxVolunteers < active {
			return nil, domain.ErrCapacityBelowSignups
		}
	}

	if err := s.opportunities.Update(ctx, opp); err != nil {
		return nil, notFoundOr(ctx, "update opportunity", err, domain.ErrOpportunityNotFound)
	}
	return opp, nil
}

func applyPatch(opp *domain.Opportunity, p OpportunityPatch) {
	if p.Title != nil {
		opp.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		opp.Description = strings.TrimSpace(*p.Description)
	}
	if p.Tasks != nil {
		opp.Tasks = strings.TrimSpace(*p.Tasks)
	}
	if p.Requirements != nil {
		opp.Requirements = strings.TrimSpace(*p.Requirements)
	}
	if p.EventDate != nil {
		opp.EventDate = p.EventDate.UTC()
	}
	if p.StartTime != nil {
		opp.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		opp.EndTime = *p.EndTime
	}
	if p.DurationHours != nil {
		opp.DurationHours = *p.DurationHours
	}
	if p.Type != nil {
		opp.Type = *p.Type
	}
	if p.Cause != nil {
		opp.Cause = *p.Cause
	}
	if p.Location != nil {
		opp.Location = strings.TrimSpace(*p.Location)
	}
	switch {
	case p.Unlimited:
		opp.MaxVolunteers = nil
	case p.MaxVolunteers != nil:
		capacity := *p.MaxVolunteers
		opp.MaxVolunteers = &capacity
	}
}

func (s *opportunityService) Delete(ctx context.Context, caller domain.Caller, id string) error {
	opp, err := s.owned(ctx, caller, id)
	if err != nil {
		return err
	}
	if err := s.opportunities.SetActive(ctx, opp.ID, false); err != nil {
		return notFoundOr(ctx, "deactivate opportunity", err, domain.ErrOpportunityNotFound)
	}
	logger.InfoContext(ctx, "Opportunity deactivated", "opportunity_id", opp.ID)
	return nil
}

func (s *opportunityService) List(ctx context.Context, filter domain.OpportunityFilter) (*OpportunityPage, error) {
	if filter.SortBy == "" {
		filter.SortBy = domain.OpportunitySortEventDate
	}
	var fields []domain.FieldError
	if !filter.SortBy.Valid() {
		fields = append(fields, domain.FieldError{Field: "sortBy", Message: "Unknown sort field"})
	}
	if filter.Cause != "" && !filter.Cause.Valid() {
		fields = append(fields, domain.FieldError{Field: "cause", Message: "Unknown cause"})
	}
	if filter.Type != "" && !filter.Type.Valid() {
		fields = append(fields, domain.FieldError{Field: "opportunityType", Message: "Opportunity type must be 'on-site' or 'remote'"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields)
	}

	// the public catalog only ever shows active opportunities
	filter.OrganizationID = ""
	filter.IncludeInactive = false
	return s.page(ctx, filter)
}

func (s *opportunityService) ListMine(ctx context.Context, caller domain.Caller, includeInactive bool, page, limit int) (*OpportunityPage, error) {
	org, err := s.profiles.organization(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, domain.OpportunityFilter{
		OrganizationID:  org.ID,
		IncludeInactive: includeInactive,
		SortBy:          domain.OpportunitySortCreatedAt,
		Descending:      true,
		Page:            page,
		Limit:           limit,
	})
}

func (s *opportunityService) page(ctx context.Context, filter domain.OpportunityFilter) (*OpportunityPage, error) {
	filter.Page, filter.Limit = domain.NormalizePage(filter.Page, filter.Limit, domain.DefaultPageSize)

	opps, total, err := s.opportunities.List(ctx, filter)
	if err != nil {
		return nil, internalError(ctx, "list opportunities", err)
	}

	orgIDs := make([]string, 0, len(opps))
	for _, opp := range opps {
		orgIDs = append(orgIDs, opp.OrganizationID)
	}
	orgs, err := organizationSummaries(ctx, s.organizations, orgIDs)
	if err != nil {
		return nil, internalError(ctx, "list organizations", err)
	}

	out := make([]domain.OpportunityWithOrganization, 0, len(opps))
	for _, opp := range opps {
		out = append(out, domain.OpportunityWithOrganization{Opportunity: opp, Organization: orgs[opp.OrganizationID]})
	}
	return &OpportunityPage{
		Opportunities: out,
		Pagination:    domain.NewPagination(total, filter.Page, filter.Limit),
	}, nil
}

func (s *opportunityService) owned(ctx context.Context, caller domain.Caller, id string) (*domain.Opportunity, error) {
	org, err := s.profiles.organization(ctx, caller)
	if err != nil {
		return nil, err
	}
	opp, err := s.opportunities.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(ctx, "get opportunity", err, domain.ErrOpportunityNotFound)
	}
	if opp.OrganizationID != org.ID {
		return nil, domain.ErrNotOpportunityOwner
	}
	return opp, nil
}
