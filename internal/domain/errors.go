package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindNotFound     ErrorKind = "not_found"
	KindConflict     ErrorKind = "conflict"
	KindServer       ErrorKind = "server"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed failure returned by services. Two errors match under
// errors.Is when their codes are equal.
type Error struct {
	Kind    ErrorKind
	Code    string
	Message string
	Fields  []FieldError
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

// WithMessage returns a copy of e with a different message.
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

func newError(kind ErrorKind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// NewValidationError wraps field-level validation failures.
func NewValidationError(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Message: "Validation failed", Fields: fields}
}

// NewInternalError hides cause behind a generic message.
func NewInternalError(cause error) *Error {
	return &Error{Kind: KindServer, Code: "internal_error", Message: "Internal server error", Err: cause}
}

// KindOf reports the kind of err, or KindServer for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindServer
}

var (
	ErrValidation   = newError(KindValidation, "validation_failed", "Validation failed")
	ErrInternal     = newError(KindServer, "internal_error", "Internal server error")
	ErrUnauthorized = newError(KindUnauthorized, "unauthorized", "Authentication required")
	ErrInvalidToken = newError(KindUnauthorized, "invalid_token", "Invalid or expired token")

	ErrInvalidCredentials = newError(KindUnauthorized, "invalid_credentials", "Invalid email or password")
	ErrEmailTaken         = newError(KindConflict, "email_taken", "An account with this email already exists")
	ErrAccountInactive    = newError(KindForbidden, "account_inactive", "Account is deactivated")
	ErrAccountNotFound    = newError(KindNotFound, "account_not_found", "Account not found")
	ErrInvalidResetToken  = newError(KindValidation, "invalid_reset_token", "Password reset token is invalid or has expired")
	ErrWeakPassword       = newError(KindValidation, "weak_password", "Password must be at least 6 characters and contain a number")
	ErrOAuthFailed        = newError(KindUnauthorized, "oauth_failed", "Google sign-in failed")

	ErrWrongAccountKind = newError(KindForbidden, "wrong_account_kind", "This action is not available for your account type")
	ErrProfileNotFound  = newError(KindNotFound, "profile_not_found", "Profile not found")

	ErrOpportunityNotFound   = newError(KindNotFound, "opportunity_not_found", "Opportunity not found")
	ErrNotOpportunityOwner   = newError(KindForbidden, "not_opportunity_owner", "You do not own this opportunity")
	ErrCapacityBelowSignups  = newError(KindValidation, "capacity_below_signups", "Maximum volunteers cannot be lower than the number of active signups")
	ErrSignupClosed          = newError(KindConflict, "signup_closed", "Signups for this opportunity are closed")
	ErrOpportunityFull       = newError(KindConflict, "opportunity_full", "This opportunity is full")
	ErrAlreadySignedUp       = newError(KindConflict, "already_signed_up", "You have already signed up for this opportunity")
	ErrPendingSignupNotFound = newError(KindNotFound, "pending_signup_not_found", "No pending signup found for this volunteer")
	ErrEmptyAttendance       = newError(KindValidation, "empty_attendance", "Attendance list must not be empty")

	ErrReviewNotEligible = newError(KindForbidden, "review_not_eligible", "You can only review opportunities you attended")
	ErrEventNotPast      = newError(KindValidation, "event_not_past", "You can only review an opportunity after it has taken place")
	ErrAlreadyReviewed   = newError(KindConflict, "already_reviewed", "You have already reviewed this opportunity")
	ErrReviewNotFound    = newError(KindNotFound, "review_not_found", "Review not found")
	ErrNotReviewAuthor   = newError(KindForbidden, "not_review_author", "You can only modify your own reviews")

	ErrNotificationNotFound = newError(KindNotFound, "notification_not_found", "Notification not found")
	ErrMediaNotFound        = newError(KindNotFound, "media_not_found", "File not found")
	ErrUnsupportedMedia     = newError(KindValidation, "unsupported_media", "Only JPEG, PNG, GIF and WebP images are accepted")
)
