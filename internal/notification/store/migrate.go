package store

import "context"

// The users table belongs to the account service; this store only reads it.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS notification_types (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		template TEXT NOT NULL,
		email_template TEXT NOT NULL DEFAULT '',
		sms_template TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL,
		icon TEXT NOT NULL DEFAULT '',
		color TEXT NOT NULL DEFAULT '',
		is_user_configurable BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS notifications (
		id UUID PRIMARY KEY,
		type_id UUID NOT NULL REFERENCES notification_types(id),
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		source_type TEXT NOT NULL DEFAULT '',
		source_id TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'normal',
		expires_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS notification_recipients (
		notification_id UUID NOT NULL REFERENCES notifications(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL,
		is_read BOOLEAN NOT NULL DEFAULT FALSE,
		read_at TIMESTAMPTZ,
		is_emailed BOOLEAN NOT NULL DEFAULT FALSE,
		emailed_at TIMESTAMPTZ,
		email_status TEXT,
		PRIMARY KEY (notification_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_notification_recipients_user
		ON notification_recipients (user_id, is_read)`,
	`CREATE TABLE IF NOT EXISTS user_notification_preferences (
		user_id TEXT NOT NULL,
		notification_type_id UUID NOT NULL REFERENCES notification_types(id),
		in_app_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		email_enabled BOOLEAN NOT NULL DEFAULT TRUE,
		sms_enabled BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (user_id, notification_type_id)
	)`,
}

// Migrate creates the notification tables when missing.
func (s *Postgres) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
