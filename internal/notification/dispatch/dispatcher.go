// Package dispatch resolves, persists, and fans out notifications. The
// synchronous path ends once the notification row and its recipients are
// committed; email and SMS delivery happen on background goroutines so a slow
// provider never blocks the caller.
package dispatch

import (
	"context"
	"sync"
	"time"

	"storefront-notifications/internal/common/logger"
	"storefront-notifications/internal/common/metrics"
	"storefront-notifications/internal/models"
	"storefront-notifications/internal/notification/channel"
	"storefront-notifications/internal/notification/store"
	"storefront-notifications/internal/notification/template"
)

// Store is the persistence surface the dispatcher needs.
type Store interface {
	TypeByName(ctx context.Context, name string) (*store.NotificationType, error)
	UsersByIDs(ctx context.Context, ids []string) ([]models.User, error)
	PreferencesFor(ctx context.Context, typeID string, userIDs []string) (map[string]store.Preference, error)
	CreateNotification(ctx context.Context, n *store.Notification) error
	UpdateEmailStatus(ctx context.Context, notificationID, userID, status string) error
}

// Config carries the site identity and send behavior the dispatcher bakes
// into every rendered notification.
type Config struct {
	SiteName    string
	FrontendURL string
	SendTimeout time.Duration
}

// SourceRef links a notification back to the record that caused it.
type SourceRef struct {
	Type string
	ID   string
}

// Dispatcher is the single entry point for creating notifications.
type Dispatcher struct {
	store  Store
	email  channel.EmailSender
	sms    channel.SMSSender
	logger logger.Logger
	config Config

	wg sync.WaitGroup
}

// New builds a dispatcher. Email or SMS senders may be nil when the channel
// is disabled; recipients then keep their preference but nothing is sent.
func New(st Store, email channel.EmailSender, sms channel.SMSSender, cfg Config, log logger.Logger) *Dispatcher {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 30 * time.Second
	}
	return &Dispatcher{
		store:  st,
		email:  email,
		sms:    sms,
		logger: log.WithFields(map[string]interface{}{"component": "dispatcher"}),
		config: cfg,
	}
}

// Option tweaks one dispatch.
type Option func(*dispatchOptions)

type dispatchOptions struct {
	priority     string
	suppressMail bool
	expiresAt    *time.Time
}

// WithPriority overrides the default normal priority.
func WithPriority(priority string) Option {
	return func(o *dispatchOptions) { o.priority = priority }
}

// WithoutEmail suppresses the email channel for this dispatch regardless of
// recipient preferences. Used for noisy mid-transit shipment events.
func WithoutEmail() Option {
	return func(o *dispatchOptions) { o.suppressMail = true }
}

// WithExpiry sets an expiry timestamp after which the notification is
// considered stale.
func WithExpiry(at time.Time) Option {
	return func(o *dispatchOptions) { o.expiresAt = &at }
}

// recipientPlan pairs a resolved user with their effective channel flags.
type recipientPlan struct {
	user  models.User
	email bool
	sms   bool
}

// Create resolves the type, renders content, filters recipients by their
// preferences, persists the notification, and kicks off asynchronous channel
// delivery. Returns (nil, nil) when no recipient remains after filtering.
//
// Users whose IDs match no record are dropped silently. Users who disabled
// the in-app channel for this type receive nothing at all, not even email.
func (d *Dispatcher) Create(ctx context.Context, typeName string, data template.Data, source SourceRef, userIDs []string, opts ...Option) (*store.Notification, error) {
	started := time.Now()
	defer func() {
		metrics.DispatchDuration.WithLabelValues(typeName).Observe(time.Since(started).Seconds())
	}()

	var options dispatchOptions
	for _, opt := range opts {
		opt(&options)
	}

	typ, err := d.store.TypeByName(ctx, typeName)
	if err != nil {
		return nil, err
	}

	data = data.With("siteName", d.config.SiteName).With("frontendUrl", d.config.FrontendURL)

	users, err := d.store.UsersByIDs(ctx, dedupe(userIDs))
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		d.logger.Info("no recipients resolved, skipping notification", map[string]interface{}{
			"type": typeName,
		})
		metrics.NotificationsSkipped.WithLabelValues(typeName).Inc()
		return nil, nil
	}

	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	prefs, err := d.store.PreferencesFor(ctx, typ.ID, ids)
	if err != nil {
		return nil, err
	}

	var plans []recipientPlan
	for _, u := range users {
		pref, ok := prefs[u.ID]
		if !ok {
			pref = store.DefaultPreference(u.ID, typ.ID)
		}
		if !pref.InAppEnabled {
			continue
		}
		plans = append(plans, recipientPlan{
			user:  u,
			email: pref.EmailEnabled && !options.suppressMail && d.email != nil && typ.EmailTemplate != "" && u.Email != "",
			sms:   pref.SMSEnabled && d.sms != nil && typ.SMSTemplate != "" && u.Phone != "",
		})
	}
	if len(plans) == 0 {
		d.logger.Info("all recipients opted out, skipping notification", map[string]interface{}{
			"type": typeName,
		})
		metrics.NotificationsSkipped.WithLabelValues(typeName).Inc()
		return nil, nil
	}

	notification := &store.Notification{
		TypeID:     typ.ID,
		TypeName:   typ.Name,
		Title:      template.Title(typ.Name, d.config.SiteName, data),
		Content:    template.Render(typ.Template, data),
		SourceType: source.Type,
		SourceID:   source.ID,
		Priority:   options.priority,
		ExpiresAt:  options.expiresAt,
	}
	for _, p := range plans {
		r := store.Recipient{UserID: p.user.ID}
		if p.email {
			r.EmailStatus = store.EmailStatusPending
		}
		notification.Recipients = append(notification.Recipients, r)
	}

	// Persist before any channel send so the in-app record exists even when
	// every provider is down.
	if err := d.store.CreateNotification(ctx, notification); err != nil {
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(typeName).Inc()

	for _, p := range plans {
		if p.email {
			d.wg.Add(1)
			go d.deliverEmail(notification, typ, p.user, data)
		}
		if p.sms {
			d.wg.Add(1)
			go d.deliverSMS(notification, typ, p.user, data)
		}
	}

	return notification, nil
}

// statusWriteTimeout bounds the email-status write that follows a send.
const statusWriteTimeout = 5 * time.Second

// deliverEmail renders and sends one recipient's email, then records the
// outcome on that recipient's row. Runs detached from the request context so
// an HTTP caller disconnecting does not abort in-flight sends.
func (d *Dispatcher) deliverEmail(n *store.Notification, typ *store.NotificationType, user models.User, data template.Data) {
	defer d.wg.Done()

	sendCtx, cancelSend := context.WithTimeout(context.Background(), d.config.SendTimeout)
	defer cancelSend()

	personal := data.With("name", user.DisplayName()).With("email", user.Email)
	subject := template.Title(typ.Name, d.config.SiteName, personal)
	body := template.Render(typ.EmailTemplate, personal)

	res := d.email.Send(sendCtx, user.Email, subject, body)
	status := store.EmailStatusSent
	outcome := "sent"
	if !res.Success {
		status = store.EmailStatusFailed
		outcome = "failed"
	}
	metrics.ChannelSends.WithLabelValues("email", outcome).Inc()

	// A hanging provider consumes the whole send deadline, so the status
	// write needs its own context or a timed-out send would stay pending.
	writeCtx, cancelWrite := context.WithTimeout(context.Background(), statusWriteTimeout)
	defer cancelWrite()
	if err := d.store.UpdateEmailStatus(writeCtx, n.ID, user.ID, status); err != nil {
		d.logger.Error("failed to record email status", map[string]interface{}{
			"error":          err,
			"notificationId": n.ID,
			"userId":         user.ID,
		})
	}
}

// deliverSMS sends one recipient's SMS. Fire and forget: the outcome is
// logged and counted but never persisted.
func (d *Dispatcher) deliverSMS(n *store.Notification, typ *store.NotificationType, user models.User, data template.Data) {
	defer d.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), d.config.SendTimeout)
	defer cancel()

	personal := data.With("name", user.DisplayName())
	body := template.Render(typ.SMSTemplate, personal)

	res := d.sms.Send(ctx, user.Phone, n.Title, body)
	outcome := "sent"
	if !res.Success {
		outcome = "failed"
		d.logger.Warn("SMS delivery failed", map[string]interface{}{
			"notificationId": n.ID,
			"userId":         user.ID,
		})
	}
	metrics.ChannelSends.WithLabelValues("sms", outcome).Inc()
}

// Wait blocks until all in-flight channel deliveries finish. Called during
// shutdown so pending sends are not torn down mid-flight.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
