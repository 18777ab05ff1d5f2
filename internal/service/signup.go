package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"volunteer-hub-backend/internal/domain"
	"volunteer-hub-backend/internal/logger"
	"volunteer-hub-backend/internal/repository"
)

type signupService struct {
	signups       repository.SignupRepository
	opportunities repository.OpportunityRepository
	volunteers    repository.VolunteerRepository
	organizations repository.OrganizationRepository
	accounts      repository.AccountRepository
	notifier      Notifier
	profiles      profileResolver
	now           Clock
}

func NewSignupService(
	signups repository.SignupRepository,
	opportunities repository.OpportunityRepository,
	volunteers repository.VolunteerRepository,
	organizations repository.OrganizationRepository,
	accounts repository.AccountRepository,
	notifier Notifier,
	now Clock,
) SignupService {
	if now == nil {
		now = systemClock
	}
	return &signupService{
		signups:       signups,
		opportunities: opportunities,
		volunteers:    volunteers,
		organizations: organizations,
		accounts:      accounts,
		notifier:      notifier,
		profiles:      profileResolver{volunteers: volunteers, organizations: organizations},
		now:           now,
	}
}

func (s *signupService) SignUp(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.Signup, error) {
	logger.EnterMethod("signupService.SignUp", "account_id", caller.AccountID, "opportunity_id", opportunityID)

	volunteer, err := s.profiles.volunteer(ctx, caller)
	if err != nil {
		return nil, err
	}

	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, notFoundOr(ctx, "get opportunity", err, domain.ErrOpportunityNotFound)
	}
	if !opp.IsActive {
		return nil, domain.ErrOpportunityNotFound
	}

	now := s.now()
	if !opp.OpenAt(now) {
		return nil, domain.ErrSignupClosed
	}

	if opp.MaxVolunteers != nil {
		active, err := s.signups.CountByOpportunity(ctx, opp.ID, domain.ActiveSignupStatuses...)
		if err != nil {
			return nil, internalError(ctx, "count signups", err)
		}
		if active >= *opp.MaxVolunteers {
			return nil, domain.ErrOpportunityFull
		}
	}

	_, err = s.signups.FindOne(ctx, volunteer.ID, opp.ID, domain.NonCancelledSignupStatuses...)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadySignedUp
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError(ctx, "find signup", err)
	}

	signup := &domain.Signup{
		VolunteerID:   volunteer.ID,
		OpportunityID: opp.ID,
		Status:        domain.SignupPending,
		SignedUpAt:    now,
	}
	if err := s.signups.Create(ctx, signup); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.ErrAlreadySignedUp
		}
		return nil, internalError(ctx, "create signup", err)
	}

	s.notifier.Notify(ctx, caller.AccountID, domain.NotificationSignupConfirmation,
		"Signup received",
		fmt.Sprintf("You signed up for %q. The organization will review your request.", opp.Title))

	org, err := s.organizations.GetByID(ctx, opp.OrganizationID)
	if err != nil {
		logger.WarnContext(ctx, "Organization not notified of signup", "organization_id", opp.OrganizationID, "error", err)
	} else {
		s.notifier.Notify(ctx, org.AccountID, domain.NotificationNewSignup,
			"New volunteer signup",
			fmt.Sprintf("%s signed up for %q.", displayName(volunteer), opp.Title))
	}

	logger.ExitMethod("signupService.SignUp", "signup_id", signup.ID)
	return signup, nil
}

func (s *signupService) AcceptOne(ctx context.Context, caller domain.Caller, opportunityID, volunteerID string) (*domain.Signup, error) {
	opp, err := s.ownedOpportunity(ctx, caller, opportunityID)
	if err != nil {
		return nil, err
	}

	signup, err := s.signups.TransitionByPair(ctx, opp.ID, volunteerID, domain.SignupPending, domain.ConfirmTransition(s.now()))
	if err != nil {
		return nil, notFoundOr(ctx, "accept signup", err, domain.ErrPendingSignupNotFound)
	}

	s.notifyVolunteer(ctx, signup.VolunteerID, domain.NotificationSignupAccepted,
		"Signup accepted",
		fmt.Sprintf("Your signup for %q has been accepted. See you there!", opp.Title))
	return signup, nil
}

func (s *signupService) AcceptAll(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.AcceptAllResult, error) {
	opp, err := s.ownedOpportunity(ctx, caller, opportunityID)
	if err != nil {
		return nil, err
	}

	accepted, err := s.signups.TransitionAll(ctx, opp.ID, domain.SignupPending, domain.ConfirmTransition(s.now()))
	if err != nil {
		return nil, internalError(ctx, "accept all signups", err)
	}

	for _, signup := range accepted {
		s.notifyVolunteer(ctx, signup.VolunteerID, domain.NotificationSignupAccepted,
			"Signup accepted",
			fmt.Sprintf("Your signup for %q has been accepted. See you there!", opp.Title))
	}
	logger.InfoContext(ctx, "Accepted all pending signups", "opportunity_id", opp.ID, "count", len(accepted))
	return &domain.AcceptAllResult{ModifiedCount: len(accepted)}, nil
}

func (s *signupService) RejectOne(ctx context.Context, caller domain.Caller, opportunityID, volunteerID string) (*domain.Signup, error) {
	opp, err := s.ownedOpportunity(ctx, caller, opportunityID)
	if err != nil {
		return nil, err
	}

	signup, err := s.signups.TransitionByPair(ctx, opp.ID, volunteerID, domain.SignupPending, domain.RejectTransition(s.now()))
	if err != nil {
		return nil, notFoundOr(ctx, "reject signup", err, domain.ErrPendingSignupNotFound)
	}

	s.notifyVolunteer(ctx, signup.VolunteerID, domain.NotificationSignupRejected,
		"Signup declined",
		fmt.Sprintf("Your signup for %q was not accepted this time.", opp.Title))
	return signup, nil
}

func (s *signupService) MarkAttendance(ctx context.Context, caller domain.Caller, opportunityID string, marks []domain.AttendanceMark) (*domain.AttendanceResult, error) {
	logger.EnterMethod("signupService.MarkAttendance", "opportunity_id", opportunityID, "marks", len(marks))

	org, err := s.profiles.organization(ctx, caller)
	if err != nil {
		return nil, err
	}
	if len(marks) == 0 {
		return nil, domain.ErrEmptyAttendance
	}
	opp, err := s.ownedBy(ctx, org, opportunityID)
	if err != nil {
		return nil, err
	}

	result := &domain.AttendanceResult{}
	for _, mark := range marks {
		if msg := s.markOne(ctx, opp, mark, result); msg != "" {
			result.Errors = append(result.Errors, fmt.Sprintf("signup %s: %s", mark.SignupID, msg))
		}
	}

	logger.ExitMethod("signupService.MarkAttendance", "confirmed", result.Confirmed, "no_shows", result.NoShows, "errors", len(result.Errors))
	return result, nil
}

// markOne applies one attendance mark and returns a non-empty message when
// the mark could not be applied.
func (s *signupService) markOne(ctx context.Context, opp *domain.Opportunity, mark domain.AttendanceMark, result *domain.AttendanceResult) string {
	signup, err := s.signups.GetByID(ctx, mark.SignupID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "not found"
		}
		logger.ErrorContext(ctx, "Failed to load signup", "signup_id", mark.SignupID, "error", err)
		return "could not be loaded"
	}
	if signup.OpportunityID != opp.ID {
		return "does not belong to this opportunity"
	}
	if signup.Status != domain.SignupConfirmed {
		return fmt.Sprintf("status is %s, only confirmed signups can be marked", signup.Status)
	}

	if !mark.Attended {
		if _, err := s.signups.Transition(ctx, signup.ID, domain.SignupConfirmed, domain.NoShowTransition()); err != nil {
			return transitionFailure(ctx, signup.ID, err)
		}
		result.NoShows++
		s.notifyVolunteer(ctx, signup.VolunteerID, domain.NotificationAttendanceNotConfirmed,
			"Attendance not confirmed",
			fmt.Sprintf("Your attendance at %q was not confirmed by the organization.", opp.Title))
		return ""
	}

	hours := opp.DurationHours
	if _, err := s.signups.Transition(ctx, signup.ID, domain.SignupConfirmed, domain.AttendedTransition(s.now(), hours)); err != nil {
		return transitionFailure(ctx, signup.ID, err)
	}

	profile, err := s.volunteers.AddHours(ctx, signup.VolunteerID, hours)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to credit hours, reverting attendance", "signup_id", signup.ID, "volunteer_id", signup.VolunteerID, "error", err)
		if _, rerr := s.signups.Transition(ctx, signup.ID, domain.SignupAttended, domain.RevertAttendedTransition(signup.ConfirmedAt)); rerr != nil {
			logger.ErrorContext(ctx, "Failed to revert attendance", "signup_id", signup.ID, "error", rerr)
		}
		return "hours could not be credited"
	}
	result.Confirmed++

	s.notifier.Notify(ctx, profile.AccountID, domain.NotificationHoursConfirmed,
		"Hours confirmed",
		fmt.Sprintf("%s hours for %q were added to your total.", formatHours(hours), opp.Title))

	before := domain.LevelForHours(profile.TotalHours - hours)
	if after := profile.Level(); after > before {
		s.notifier.Notify(ctx, profile.AccountID, domain.NotificationLevelUp,
			"Level up!",
			fmt.Sprintf("Congratulations, you reached level %d.", after))
	}
	return ""
}

func transitionFailure(ctx context.Context, signupID string, err error) string {
	if errors.Is(err, repository.ErrNotFound) {
		return "is no longer confirmed"
	}
	logger.ErrorContext(ctx, "Failed to update signup", "signup_id", signupID, "error", err)
	return "could not be updated"
}

func (s *signupService) Board(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.SignupBoard, error) {
	opp, err := s.ownedOpportunity(ctx, caller, opportunityID)
	if err != nil {
		return nil, err
	}

	signups, err := s.signups.ListByOpportunity(ctx, opp.ID)
	if err != nil {
		return nil, internalError(ctx, "list signups", err)
	}

	ids := make([]string, 0, len(signups))
	for _, signup := range signups {
		ids = append(ids, signup.VolunteerID)
	}
	summaries, err := summarizeVolunteers(ctx, s.volunteers, s.accounts, ids)
	if err != nil {
		return nil, internalError(ctx, "load volunteers", err)
	}

	board := &domain.SignupBoard{
		Pending:  []domain.BoardEntry{},
		Accepted: []domain.BoardEntry{},
		Declined: []domain.BoardEntry{},
	}
	for _, signup := range signups {
		entry := domain.BoardEntry{Signup: signup, Volunteer: summaries[signup.VolunteerID]}
		switch signup.Status {
		case domain.SignupPending:
			board.Pending = append(board.Pending, entry)
		case domain.SignupConfirmed:
			board.ConfirmedCount++
			board.Accepted = append(board.Accepted, entry)
		case domain.SignupAttended, domain.SignupNoShow:
			board.Accepted = append(board.Accepted, entry)
		case domain.SignupRejected:
			board.Declined = append(board.Declined, entry)
		}
	}
	board.PendingCount = len(board.Pending)
	board.Remaining = opp.RemainingCapacity(board.ConfirmedCount)
	return board, nil
}

func (s *signupService) ListMine(ctx context.Context, caller domain.Caller, status domain.SignupStatus, page, limit int) (*SignupPage, error) {
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError([]domain.FieldError{{Field: "status", Message: "Unknown signup status"}})
	}
	volunteer, err := s.profiles.volunteer(ctx, caller)
	if err != nil {
		return nil, err
	}

	page, limit = domain.NormalizePage(page, limit, domain.DefaultPageSize)
	signups, total, err := s.signups.ListByVolunteer(ctx, volunteer.ID, status, limit, (page-1)*limit)
	if err != nil {
		return nil, internalError(ctx, "list volunteer signups", err)
	}

	oppIDs := make([]string, 0, len(signups))
	for _, signup := range signups {
		oppIDs = append(oppIDs, signup.OpportunityID)
	}
	opps, err := s.opportunities.ListByIDs(ctx, uniq(oppIDs))
	if err != nil {
		return nil, internalError(ctx, "list opportunities", err)
	}
	byID := make(map[string]*domain.Opportunity, len(opps))
	orgIDs := make([]string, 0, len(opps))
	for i := range opps {
		byID[opps[i].ID] = &opps[i]
		orgIDs = append(orgIDs, opps[i].OrganizationID)
	}
	orgs, err := organizationSummaries(ctx, s.organizations, orgIDs)
	if err != nil {
		return nil, internalError(ctx, "list organizations", err)
	}

	out := make([]domain.VolunteerSignup, 0, len(signups))
	for _, signup := range signups {
		entry := domain.VolunteerSignup{Signup: signup}
		if opp, ok := byID[signup.OpportunityID]; ok {
			entry.Opportunity = &domain.OpportunityWithOrganization{Opportunity: *opp, Organization: orgs[opp.OrganizationID]}
		}
		out = append(out, entry)
	}
	return &SignupPage{Signups: out, Pagination: domain.NewPagination(total, page, limit)}, nil
}

// ownedOpportunity loads the opportunity and checks the caller's organization authored it.
func (s *signupService) ownedOpportunity(ctx context.Context, caller domain.Caller, opportunityID string) (*domain.Opportunity, error) {
	org, err := s.profiles.organization(ctx, caller)
	if err != nil {
		return nil, err
	}
	return s.ownedBy(ctx, org, opportunityID)
}

func (s *signupService) ownedBy(ctx context.Context, org *domain.OrganizationProfile, opportunityID string) (*domain.Opportunity, error) {
	opp, err := s.opportunities.GetByID(ctx, opportunityID)
	if err != nil {
		return nil, notFoundOr(ctx, "get opportunity", err, domain.ErrOpportunityNotFound)
	}
	if opp.OrganizationID != org.ID {
		return nil, domain.ErrNotOpportunityOwner
	}
	return opp, nil
}

func (s *signupService) notifyVolunteer(ctx context.Context, volunteerID string, kind domain.NotificationType, title, message string) {
	profile, err := s.volunteers.GetByID(ctx, volunteerID)
	if err != nil {
		logger.WarnContext(ctx, "Volunteer not notified", "volunteer_id", volunteerID, "type", kind, "error", err)
		return
	}
	s.notifier.Notify(ctx, profile.AccountID, kind, title, message)
}

func displayName(p *domain.VolunteerProfile) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return "A volunteer"
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
