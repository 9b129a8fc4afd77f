package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront-notifications/internal/common/errors"
)

func newMockStore(t *testing.T) (*Postgres, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestTypeByName(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "template", "email_template",
		"sms_template", "category", "icon", "color", "is_user_configurable",
	}).AddRow("type-1", "order_confirmation", "desc",
		"Order #{{orderNumber}} confirmed", "<p>Hi {{name}}</p>", "",
		"order", "check-circle", "#16a34a", true)

	mock.ExpectQuery(`SELECT id, name, description, template`).
		WithArgs("order_confirmation").
		WillReturnRows(rows)

	typ, err := s.TypeByName(context.Background(), "order_confirmation")
	require.NoError(t, err)
	assert.Equal(t, "type-1", typ.ID)
	assert.Equal(t, "Order #{{orderNumber}} confirmed", typ.Template)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTypeByNameMissingIsLoud(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT id, name, description, template`).
		WithArgs("nonexistent_type").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.TypeByName(context.Background(), "nonexistent_type")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotificationTypeNotFound, apperrors.CodeOf(err))
}

func TestCreateNotificationRejectsZeroRecipients(t *testing.T) {
	s, mock := newMockStore(t)

	err := s.CreateNotification(context.Background(), &Notification{
		TypeID:  "type-1",
		Title:   "t",
		Content: "c",
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNoRecipients, apperrors.CodeOf(err))
	// Nothing touched the database.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationPersistsRecipients(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notification_recipients`).
		WithArgs(sqlmock.AnyArg(), "user-a", EmailStatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO notification_recipients`).
		WithArgs(sqlmock.AnyArg(), "user-b", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	n := &Notification{
		TypeID:  "type-1",
		Title:   "Order Confirmed #SB-1",
		Content: "Order #SB-1 confirmed",
		Recipients: []Recipient{
			{UserID: "user-a", EmailStatus: EmailStatusPending},
			{UserID: "user-b"},
		},
	}
	require.NoError(t, s.CreateNotification(context.Background(), n))
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, PriorityNormal, n.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateNotificationRollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO notifications`).
		WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := s.CreateNotification(context.Background(), &Notification{
		TypeID:     "type-1",
		Title:      "t",
		Content:    "c",
		Recipients: []Recipient{{UserID: "user-a"}},
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, apperrors.CodeOf(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateEmailStatusTargetsOneRow(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE notification_recipients`).
		WithArgs("notif-1", "user-a", EmailStatusSent).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.UpdateEmailStatus(context.Background(), "notif-1", "user-a", EmailStatusSent))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPreferencesForBatchesOneQuery(t *testing.T) {
	s, mock := newMockStore(t)

	rows := sqlmock.NewRows([]string{"user_id", "in_app_enabled", "email_enabled", "sms_enabled"}).
		AddRow("user-a", true, false, false)

	mock.ExpectQuery(`SELECT user_id, in_app_enabled, email_enabled, sms_enabled`).
		WillReturnRows(rows)

	prefs, err := s.PreferencesFor(context.Background(), "type-1", []string{"user-a", "user-b"})
	require.NoError(t, err)

	// user-a has a stored row, user-b is absent and gets the default.
	require.Contains(t, prefs, "user-a")
	assert.False(t, prefs["user-a"].EmailEnabled)
	_, ok := prefs["user-b"]
	assert.False(t, ok)

	def := DefaultPreference("user-b", "type-1")
	assert.True(t, def.InAppEnabled)
	assert.True(t, def.EmailEnabled)
	assert.False(t, def.SMSEnabled)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkRead(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE notification_recipients`).
		WithArgs("notif-1", "user-a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := s.MarkRead(context.Background(), "notif-1", "user-a")
	require.NoError(t, err)
	assert.True(t, updated)
}

func TestMarkReadTargetsCallersRowOnly(t *testing.T) {
	s, mock := newMockStore(t)

	// The update names both the notification and the calling user, so the
	// other recipients of a shared notification keep their own rows.
	mock.ExpectExec(`UPDATE notification_recipients\s+SET is_read = TRUE, read_at = now\(\)\s+WHERE notification_id = \$1 AND user_id = \$2 AND NOT is_read`).
		WithArgs("notif-1", "user-a").
		WillReturnResult(sqlmock.NewResult(0, 1))

	updated, err := s.MarkRead(context.Background(), "notif-1", "user-a")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkReadAlreadyRead(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`UPDATE notification_recipients`).
		WithArgs("notif-1", "user-a").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := s.MarkRead(context.Background(), "notif-1", "user-a")
	require.NoError(t, err)
	assert.False(t, updated)
}

func TestListForUserFlattensOwnReadState(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	readAt := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	listRows := sqlmock.NewRows([]string{
		"id", "title", "content", "name", "source_type", "source_id",
		"created_at", "is_read", "read_at",
	}).AddRow("notif-1", "Order Confirmed #SB-1", "body", "order_confirmation",
		"order", "order-1", time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC), true, readAt)

	mock.ExpectQuery(`SELECT n.id, n.title, n.content`).
		WithArgs("user-a", 20, 0).
		WillReturnRows(listRows)

	views, total, err := s.ListForUser(context.Background(), "user-a", ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsRead)
	require.NotNil(t, views[0].ReadAt)
	assert.Equal(t, readAt, *views[0].ReadAt)
}

func TestListForUserUnreadFilter(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("user-b", false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT n.id, n.title, n.content`).
		WithArgs("user-b", false, 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "content", "name", "source_type", "source_id",
			"created_at", "is_read", "read_at",
		}))

	unread := false
	views, total, err := s.ListForUser(context.Background(), "user-b", ListOptions{Limit: 10, ReadFilter: &unread})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, views)
}

func TestUnreadCount(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT`).
		WithArgs("user-a").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	count, err := s.UnreadCount(context.Background(), "user-a")
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestUpsertPreferencePartialUpdate(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO user_notification_preferences`).
		WithArgs("user-a", "type-1", false, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	disabled := false
	require.NoError(t, s.UpsertPreference(context.Background(), "user-a", "type-1", &disabled, nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
