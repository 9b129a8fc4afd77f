package store

import "time"

// Email delivery statuses tracked per recipient.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Notification priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

// NotificationType is a seeded, administrator-defined notification category.
// Read-only at dispatch time; Name is the stable join key.
type NotificationType struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Description        string `json:"description"`
	Template           string `json:"template"`
	EmailTemplate      string `json:"emailTemplate,omitempty"`
	SMSTemplate        string `json:"smsTemplate,omitempty"`
	Category           string `json:"category"`
	Icon               string `json:"icon,omitempty"`
	Color              string `json:"color,omitempty"`
	IsUserConfigurable bool   `json:"isUserConfigurable"`
}

// Recipient is the per-user delivery/read state attached to one notification.
// EmailStatus is empty when the email channel was not attempted for this user.
type Recipient struct {
	UserID      string     `json:"userId"`
	IsRead      bool       `json:"isRead"`
	ReadAt      *time.Time `json:"readAt,omitempty"`
	IsEmailed   bool       `json:"isEmailed"`
	EmailedAt   *time.Time `json:"emailedAt,omitempty"`
	EmailStatus string     `json:"emailStatus,omitempty"`
}

// Notification is one persisted fan-out record. Title and Content are
// captured at creation time so later template edits never rewrite history.
type Notification struct {
	ID         string      `json:"id"`
	TypeID     string      `json:"typeId"`
	TypeName   string      `json:"type"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	SourceType string      `json:"sourceType,omitempty"`
	SourceID   string      `json:"sourceId,omitempty"`
	Priority   string      `json:"priority"`
	ExpiresAt  *time.Time  `json:"expiresAt,omitempty"`
	Recipients []Recipient `json:"recipients"`
	CreatedAt  time.Time   `json:"createdAt"`
}

// Preference holds which channels are enabled for one (user, type) pair.
type Preference struct {
	UserID       string `json:"userId"`
	TypeID       string `json:"notificationTypeId"`
	InAppEnabled bool   `json:"inAppEnabled"`
	EmailEnabled bool   `json:"emailEnabled"`
	SMSEnabled   bool   `json:"smsEnabled"`
}

// DefaultPreference is the preference applied when a user has never saved
// one for a type: in-app and email on, SMS off.
func DefaultPreference(userID, typeID string) Preference {
	return Preference{
		UserID:       userID,
		TypeID:       typeID,
		InAppEnabled: true,
		EmailEnabled: true,
		SMSEnabled:   false,
	}
}

// NotificationView is a notification flattened for one recipient: only that
// caller's read state is exposed, never other recipients'.
type NotificationView struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Type       string     `json:"type"`
	SourceType string     `json:"sourceType,omitempty"`
	SourceID   string     `json:"sourceId,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	IsRead     bool       `json:"isRead"`
	ReadAt     *time.Time `json:"readAt,omitempty"`
}

// PreferenceView is one row of the preference settings screen: the type
// metadata joined with the user's effective channel flags.
type PreferenceView struct {
	TypeID       string `json:"id"`
	TypeName     string `json:"name"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	InAppEnabled bool   `json:"inAppEnabled"`
	EmailEnabled bool   `json:"emailEnabled"`
	SMSEnabled   bool   `json:"smsEnabled"`
}

// ListOptions controls per-user inbox pagination.
type ListOptions struct {
	Page  int
	Limit int
	// ReadFilter limits to read (true) or unread (false) rows when set.
	ReadFilter *bool
}
