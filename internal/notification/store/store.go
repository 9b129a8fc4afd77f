// Package store persists notifications, recipient state, and delivery
// preferences in PostgreSQL. Recipients live in a child table so that email
// and read state mutate as single-row updates: concurrent completions for
// different recipients of one notification can never clobber each other.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"storefront-notifications/internal/common/errors"
	"storefront-notifications/internal/models"
	"storefront-notifications/pkg/registry"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Postgres is the SQL-backed notification store.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// SeedTypes inserts registry types that do not exist yet. Existing rows are
// left untouched: types are administered records, not code-owned state.
func (s *Postgres) SeedTypes(ctx context.Context, reg *registry.Registry) error {
	const query = `
		INSERT INTO notification_types
			(id, name, description, template, email_template, sms_template, category, icon, color, is_user_configurable)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (name) DO NOTHING`

	for _, t := range reg.Types {
		_, err := s.db.ExecContext(ctx, query,
			uuid.New().String(), t.Name, t.Description, t.Template,
			t.EmailTemplate, t.SMSTemplate, t.Category, t.Icon, t.Color,
			t.IsUserConfigurable,
		)
		if err != nil {
			return errors.NewDatabaseInsertFailedError(err)
		}
	}
	return nil
}

// TypeByName resolves a notification type by its stable name.
func (s *Postgres) TypeByName(ctx context.Context, name string) (*NotificationType, error) {
	const query = `
		SELECT id, name, description, template, email_template, sms_template,
		       category, icon, color, is_user_configurable
		FROM notification_types WHERE name = $1`

	var t NotificationType
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&t.ID, &t.Name, &t.Description, &t.Template, &t.EmailTemplate,
		&t.SMSTemplate, &t.Category, &t.Icon, &t.Color, &t.IsUserConfigurable,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotificationTypeNotFoundError(name)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("TypeByName", err)
	}
	return &t, nil
}

// UsersByIDs resolves recipient user records. IDs that match no user are
// dropped silently: a stale recipient must not abort the whole fan-out.
func (s *Postgres) UsersByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	const query = `
		SELECT id, first_name, last_name, email, COALESCE(phone, ''), role
		FROM users WHERE id = ANY($1)`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("UsersByIDs", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.Phone, &u.Role); err != nil {
			return nil, errors.NewQueryExecutionFailedError("UsersByIDs", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// PreferencesFor batch-fetches all preference rows for one type in a single
// query and returns them keyed by user ID. Callers substitute
// DefaultPreference for users absent from the map.
func (s *Postgres) PreferencesFor(ctx context.Context, typeID string, userIDs []string) (map[string]Preference, error) {
	prefs := make(map[string]Preference, len(userIDs))
	if len(userIDs) == 0 {
		return prefs, nil
	}

	const query = `
		SELECT user_id, in_app_enabled, email_enabled, sms_enabled
		FROM user_notification_preferences
		WHERE notification_type_id = $1 AND user_id = ANY($2)`

	rows, err := s.db.QueryContext(ctx, query, typeID, pq.Array(userIDs))
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("PreferencesFor", err)
	}
	defer rows.Close()

	for rows.Next() {
		p := Preference{TypeID: typeID}
		if err := rows.Scan(&p.UserID, &p.InAppEnabled, &p.EmailEnabled, &p.SMSEnabled); err != nil {
			return nil, errors.NewQueryExecutionFailedError("PreferencesFor", err)
		}
		prefs[p.UserID] = p
	}
	return prefs, rows.Err()
}

// CreateNotification persists a notification with its recipient list in one
// transaction. Zero-recipient notifications are rejected: they would be
// orphaned, undeliverable records.
func (s *Postgres) CreateNotification(ctx context.Context, n *Notification) error {
	if len(n.Recipients) == 0 {
		return errors.NewNoRecipientsError()
	}
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.Priority == "" {
		n.Priority = PriorityNormal
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	defer tx.Rollback()

	const insertNotification = `
		INSERT INTO notifications (id, type_id, title, content, source_type, source_id, priority, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = tx.ExecContext(ctx, insertNotification,
		n.ID, n.TypeID, n.Title, n.Content, n.SourceType, n.SourceID,
		n.Priority, n.ExpiresAt, n.CreatedAt,
	)
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}

	const insertRecipient = `
		INSERT INTO notification_recipients (notification_id, user_id, is_read, is_emailed, email_status)
		VALUES ($1, $2, FALSE, FALSE, $3)`

	for _, r := range n.Recipients {
		var status interface{}
		if r.EmailStatus != "" {
			status = r.EmailStatus
		}
		if _, err := tx.ExecContext(ctx, insertRecipient, n.ID, r.UserID, status); err != nil {
			return errors.NewDatabaseInsertFailedError(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

// UpdateEmailStatus records the outcome of one recipient's email send.
// Targets exactly one row so concurrent completions stay isolated.
func (s *Postgres) UpdateEmailStatus(ctx context.Context, notificationID, userID, status string) error {
	const query = `
		UPDATE notification_recipients
		SET email_status = $3,
		    is_emailed = ($3 = 'sent'),
		    emailed_at = CASE WHEN $3 = 'sent' THEN now() ELSE emailed_at END
		WHERE notification_id = $1 AND user_id = $2`

	_, err := s.db.ExecContext(ctx, query, notificationID, userID, status)
	if err != nil {
		return errors.NewQueryExecutionFailedError("UpdateEmailStatus", err)
	}
	return nil
}

// MarkRead flips one recipient's read flag. Returns false when the caller is
// not a recipient or the row was already read.
func (s *Postgres) MarkRead(ctx context.Context, notificationID, userID string) (bool, error) {
	const query = `
		UPDATE notification_recipients
		SET is_read = TRUE, read_at = now()
		WHERE notification_id = $1 AND user_id = $2 AND NOT is_read`

	res, err := s.db.ExecContext(ctx, query, notificationID, userID)
	if err != nil {
		return false, errors.NewQueryExecutionFailedError("MarkRead", err)
	}
	affected, _ := res.RowsAffected()
	return affected > 0, nil
}

// MarkAllRead marks every unread notification of one user as read.
func (s *Postgres) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	const query = `
		UPDATE notification_recipients
		SET is_read = TRUE, read_at = now()
		WHERE user_id = $1 AND NOT is_read`

	res, err := s.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, errors.NewQueryExecutionFailedError("MarkAllRead", err)
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// ListForUser returns one page of a user's notifications, newest first, with
// only that user's read state flattened in. Returns the page and the total
// row count for the filter.
func (s *Postgres) ListForUser(ctx context.Context, userID string, opts ListOptions) ([]NotificationView, int, error) {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit < 1 {
		opts.Limit = 20
	}

	where := `r.user_id = $1`
	args := []interface{}{userID}
	if opts.ReadFilter != nil {
		where += ` AND r.is_read = $2`
		args = append(args, *opts.ReadFilter)
	}

	countQuery := `
		SELECT COUNT(*)
		FROM notification_recipients r
		JOIN notifications n ON n.id = r.notification_id
		WHERE ` + where

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.NewQueryExecutionFailedError("ListForUser", err)
	}

	listQuery := `
		SELECT n.id, n.title, n.content, t.name, n.source_type, n.source_id,
		       n.created_at, r.is_read, r.read_at
		FROM notification_recipients r
		JOIN notifications n ON n.id = r.notification_id
		JOIN notification_types t ON t.id = n.type_id
		WHERE ` + where + `
		ORDER BY n.created_at DESC
		LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
	args = append(args, opts.Limit, (opts.Page-1)*opts.Limit)

	rows, err := s.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, errors.NewQueryExecutionFailedError("ListForUser", err)
	}
	defer rows.Close()

	var views []NotificationView
	for rows.Next() {
		var v NotificationView
		if err := rows.Scan(&v.ID, &v.Title, &v.Content, &v.Type, &v.SourceType,
			&v.SourceID, &v.CreatedAt, &v.IsRead, &v.ReadAt); err != nil {
			return nil, 0, errors.NewQueryExecutionFailedError("ListForUser", err)
		}
		views = append(views, v)
	}
	return views, total, rows.Err()
}

// GetForUser fetches one notification as seen by one recipient.
func (s *Postgres) GetForUser(ctx context.Context, userID, notificationID string) (*NotificationView, error) {
	const query = `
		SELECT n.id, n.title, n.content, t.name, n.source_type, n.source_id,
		       n.created_at, r.is_read, r.read_at
		FROM notification_recipients r
		JOIN notifications n ON n.id = r.notification_id
		JOIN notification_types t ON t.id = n.type_id
		WHERE r.user_id = $1 AND n.id = $2`

	var v NotificationView
	err := s.db.QueryRowContext(ctx, query, userID, notificationID).Scan(
		&v.ID, &v.Title, &v.Content, &v.Type, &v.SourceType, &v.SourceID,
		&v.CreatedAt, &v.IsRead, &v.ReadAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotificationNotFoundError(notificationID)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("GetForUser", err)
	}
	return &v, nil
}

// UnreadCount returns how many unread notifications a user has.
func (s *Postgres) UnreadCount(ctx context.Context, userID string) (int, error) {
	const query = `
		SELECT COUNT(*) FROM notification_recipients
		WHERE user_id = $1 AND NOT is_read`

	var count int
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, errors.NewQueryExecutionFailedError("UnreadCount", err)
	}
	return count, nil
}

// PreferencesForUser returns every user-configurable type with the user's
// effective channel flags, defaults substituted where no row exists.
func (s *Postgres) PreferencesForUser(ctx context.Context, userID string) ([]PreferenceView, error) {
	const query = `
		SELECT t.id, t.name, t.description, t.category,
		       COALESCE(p.in_app_enabled, TRUE),
		       COALESCE(p.email_enabled, TRUE),
		       COALESCE(p.sms_enabled, FALSE)
		FROM notification_types t
		LEFT JOIN user_notification_preferences p
		  ON p.notification_type_id = t.id AND p.user_id = $1
		WHERE t.is_user_configurable
		ORDER BY t.category, t.name`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("PreferencesForUser", err)
	}
	defer rows.Close()

	var views []PreferenceView
	for rows.Next() {
		var v PreferenceView
		if err := rows.Scan(&v.TypeID, &v.TypeName, &v.Description, &v.Category,
			&v.InAppEnabled, &v.EmailEnabled, &v.SMSEnabled); err != nil {
			return nil, errors.NewQueryExecutionFailedError("PreferencesForUser", err)
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// UpsertPreference lazily creates or updates one (user, type) preference row.
// Nil flags keep the current value (or the default on first write).
func (s *Postgres) UpsertPreference(ctx context.Context, userID, typeID string, inApp, email, sms *bool) error {
	const query = `
		INSERT INTO user_notification_preferences
			(user_id, notification_type_id, in_app_enabled, email_enabled, sms_enabled)
		VALUES ($1, $2, COALESCE($3, TRUE), COALESCE($4, TRUE), COALESCE($5, FALSE))
		ON CONFLICT (user_id, notification_type_id) DO UPDATE SET
			in_app_enabled = COALESCE($3, user_notification_preferences.in_app_enabled),
			email_enabled  = COALESCE($4, user_notification_preferences.email_enabled),
			sms_enabled    = COALESCE($5, user_notification_preferences.sms_enabled)`

	_, err := s.db.ExecContext(ctx, query, userID, typeID, boolArg(inApp), boolArg(email), boolArg(sms))
	if err != nil {
		return errors.NewDatabaseInsertFailedError(err)
	}
	return nil
}

func boolArg(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}

func placeholder(n int) string {
	return fmt.Sprintf("$%d", n)
}
