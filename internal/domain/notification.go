package domain

import "time"

type NotificationType string

const (
	NotificationSignupConfirmation     NotificationType = "signup_confirmation"
	NotificationNewSignup              NotificationType = "new_signup"
	NotificationSignupAccepted         NotificationType = "signup_accepted"
	NotificationSignupRejected         NotificationType = "signup_rejected"
	NotificationHoursConfirmed         NotificationType = "hours_confirmed"
	NotificationLevelUp                NotificationType = "level_up"
	NotificationAttendanceNotConfirmed NotificationType = "attendance_not_confirmed"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationSignupConfirmation, NotificationNewSignup, NotificationSignupAccepted,
		NotificationSignupRejected, NotificationHoursConfirmed, NotificationLevelUp,
		NotificationAttendanceNotConfirmed:
		return true
	}
	return false
}

type Notification struct {
	ID        string           `json:"id"`
	AccountID string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	IsRead    bool             `json:"isRead"`
	CreatedOn time.Time        `json:"createdAt"`
}
