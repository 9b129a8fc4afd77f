// Package inbox is the per-user query surface over the notification store:
// listings, read-state mutations, unread counts, and preference management.
// Only the caller's own recipient state is ever exposed.
package inbox

import (
	"context"
	"strconv"
	"time"

	"storefront-notifications/internal/common/logger"
	"storefront-notifications/internal/notification/store"

	"github.com/redis/go-redis/v9"
)

const unreadCountTTL = 5 * time.Minute

// Store is the persistence surface the inbox reads and mutates.
type Store interface {
	ListForUser(ctx context.Context, userID string, opts store.ListOptions) ([]store.NotificationView, int, error)
	GetForUser(ctx context.Context, userID, notificationID string) (*store.NotificationView, error)
	MarkRead(ctx context.Context, notificationID, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	PreferencesForUser(ctx context.Context, userID string) ([]store.PreferenceView, error)
	UpsertPreference(ctx context.Context, userID, typeID string, inApp, email, sms *bool) error
}

// Page is one page of a user's inbox.
type Page struct {
	Notifications []store.NotificationView `json:"notifications"`
	Total         int                      `json:"total"`
	Page          int                      `json:"page"`
	Limit         int                      `json:"limit"`
}

// PreferenceUpdate is one row of a preference save: nil flags are left
// unchanged.
type PreferenceUpdate struct {
	TypeID       string `json:"id"`
	InAppEnabled *bool  `json:"inAppEnabled,omitempty"`
	EmailEnabled *bool  `json:"emailEnabled,omitempty"`
	SMSEnabled   *bool  `json:"smsEnabled,omitempty"`
}

// Inbox answers per-user notification queries. The unread count is cached in
// redis because badge polling dwarfs every other read.
type Inbox struct {
	store  Store
	cache  *redis.Client
	logger logger.Logger
}

// New builds an inbox. cache may be nil; counts then always hit the store.
func New(st Store, cache *redis.Client, log logger.Logger) *Inbox {
	return &Inbox{
		store:  st,
		cache:  cache,
		logger: log.WithFields(map[string]interface{}{"component": "inbox"}),
	}
}

// List returns one page of the user's notifications, newest first.
func (i *Inbox) List(ctx context.Context, userID string, opts store.ListOptions) (*Page, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	views, total, err := i.store.ListForUser(ctx, userID, opts)
	if err != nil {
		return nil, err
	}
	return &Page{
		Notifications: views,
		Total:         total,
		Page:          opts.Page,
		Limit:         opts.Limit,
	}, nil
}

// Get fetches one notification and marks it read as a side effect, matching
// the open-the-notification UI flow.
func (i *Inbox) Get(ctx context.Context, userID, notificationID string) (*store.NotificationView, error) {
	view, err := i.store.GetForUser(ctx, userID, notificationID)
	if err != nil {
		return nil, err
	}
	if !view.IsRead {
		updated, err := i.store.MarkRead(ctx, notificationID, userID)
		if err != nil {
			return nil, err
		}
		if updated {
			now := time.Now().UTC()
			view.IsRead = true
			view.ReadAt = &now
			i.invalidateUnread(ctx, userID)
		}
	}
	return view, nil
}

// MarkRead flips one notification's read flag for the caller.
func (i *Inbox) MarkRead(ctx context.Context, userID, notificationID string) (bool, error) {
	updated, err := i.store.MarkRead(ctx, notificationID, userID)
	if err != nil {
		return false, err
	}
	if updated {
		i.invalidateUnread(ctx, userID)
	}
	return updated, nil
}

// MarkAllRead marks every unread notification of the caller as read and
// returns how many rows changed.
func (i *Inbox) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	affected, err := i.store.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		i.invalidateUnread(ctx, userID)
	}
	return affected, nil
}

// UnreadCount returns the caller's unread badge count, served from cache
// when warm.
func (i *Inbox) UnreadCount(ctx context.Context, userID string) (int, error) {
	key := unreadKey(userID)
	if i.cache != nil {
		if cached, err := i.cache.Get(ctx, key).Result(); err == nil {
			if count, convErr := strconv.Atoi(cached); convErr == nil {
				return count, nil
			}
		}
	}

	count, err := i.store.UnreadCount(ctx, userID)
	if err != nil {
		return 0, err
	}
	if i.cache != nil {
		if err := i.cache.Set(ctx, key, strconv.Itoa(count), unreadCountTTL).Err(); err != nil {
			i.logger.Warn("failed to cache unread count", map[string]interface{}{
				"error":  err,
				"userId": userID,
			})
		}
	}
	return count, nil
}

// InvalidateUnread drops the cached badge count. The dispatcher calls this
// after fanning out to new recipients.
func (i *Inbox) InvalidateUnread(ctx context.Context, userIDs ...string) {
	for _, id := range userIDs {
		i.invalidateUnread(ctx, id)
	}
}

// Preferences returns the caller's per-type channel settings, defaults
// substituted for types they never configured.
func (i *Inbox) Preferences(ctx context.Context, userID string) ([]store.PreferenceView, error) {
	return i.store.PreferencesForUser(ctx, userID)
}

// UpdatePreferences applies a batch of partial preference updates. Rows fail
// independently; the first error is returned after all rows are attempted.
func (i *Inbox) UpdatePreferences(ctx context.Context, userID string, updates []PreferenceUpdate) error {
	var firstErr error
	for _, u := range updates {
		if u.TypeID == "" {
			continue
		}
		err := i.store.UpsertPreference(ctx, userID, u.TypeID, u.InAppEnabled, u.EmailEnabled, u.SMSEnabled)
		if err != nil {
			i.logger.Error("preference update failed", map[string]interface{}{
				"error":  err,
				"userId": userID,
				"typeId": u.TypeID,
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (i *Inbox) invalidateUnread(ctx context.Context, userID string) {
	if i.cache == nil {
		return
	}
	if err := i.cache.Del(ctx, unreadKey(userID)).Err(); err != nil {
		i.logger.Warn("failed to invalidate unread count", map[string]interface{}{
			"error":  err,
			"userId": userID,
		})
	}
}

func unreadKey(userID string) string {
	return "notifications:unread:" + userID
}
