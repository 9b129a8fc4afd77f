package inbox

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "storefront-notifications/internal/common/errors"
	"storefront-notifications/internal/common/logger"
	"storefront-notifications/internal/notification/store"
)

type fakeStore struct {
	views       map[string]*store.NotificationView // notificationID -> view
	unread      int
	unreadCalls int
	markedRead  []string
	markAllHits int
	prefs       []store.PreferenceView
	upserts     []string
	upsertErr   error
}

func (f *fakeStore) ListForUser(_ context.Context, _ string, opts store.ListOptions) ([]store.NotificationView, int, error) {
	var out []store.NotificationView
	for _, v := range f.views {
		out = append(out, *v)
	}
	return out, len(out), nil
}

func (f *fakeStore) GetForUser(_ context.Context, _, notificationID string) (*store.NotificationView, error) {
	v, ok := f.views[notificationID]
	if !ok {
		return nil, apperrors.NewNotificationNotFoundError(notificationID)
	}
	copied := *v
	return &copied, nil
}

func (f *fakeStore) MarkRead(_ context.Context, notificationID, _ string) (bool, error) {
	v, ok := f.views[notificationID]
	if !ok || v.IsRead {
		return false, nil
	}
	now := time.Now().UTC()
	v.IsRead = true
	v.ReadAt = &now
	f.markedRead = append(f.markedRead, notificationID)
	if f.unread > 0 {
		f.unread--
	}
	return true, nil
}

func (f *fakeStore) MarkAllRead(_ context.Context, _ string) (int64, error) {
	f.markAllHits++
	n := int64(f.unread)
	f.unread = 0
	return n, nil
}

func (f *fakeStore) UnreadCount(_ context.Context, _ string) (int, error) {
	f.unreadCalls++
	return f.unread, nil
}

func (f *fakeStore) PreferencesForUser(_ context.Context, _ string) ([]store.PreferenceView, error) {
	return f.prefs, nil
}

func (f *fakeStore) UpsertPreference(_ context.Context, _, typeID string, _, _, _ *bool) error {
	f.upserts = append(f.upserts, typeID)
	return f.upsertErr
}

// sharedStore models one notification delivered to several recipients, each
// with their own read row.
type sharedStore struct {
	notificationID string
	readAt         map[string]*time.Time // userID -> read timestamp, nil while unread
}

func newSharedStore(notificationID string, userIDs ...string) *sharedStore {
	s := &sharedStore{notificationID: notificationID, readAt: make(map[string]*time.Time)}
	for _, id := range userIDs {
		s.readAt[id] = nil
	}
	return s
}

func (s *sharedStore) view(userID string) store.NotificationView {
	at := s.readAt[userID]
	return store.NotificationView{ID: s.notificationID, IsRead: at != nil, ReadAt: at}
}

func (s *sharedStore) ListForUser(_ context.Context, userID string, _ store.ListOptions) ([]store.NotificationView, int, error) {
	if _, ok := s.readAt[userID]; !ok {
		return nil, 0, nil
	}
	return []store.NotificationView{s.view(userID)}, 1, nil
}

func (s *sharedStore) GetForUser(_ context.Context, userID, notificationID string) (*store.NotificationView, error) {
	if _, ok := s.readAt[userID]; !ok || notificationID != s.notificationID {
		return nil, apperrors.NewNotificationNotFoundError(notificationID)
	}
	v := s.view(userID)
	return &v, nil
}

func (s *sharedStore) MarkRead(_ context.Context, notificationID, userID string) (bool, error) {
	at, ok := s.readAt[userID]
	if !ok || notificationID != s.notificationID || at != nil {
		return false, nil
	}
	now := time.Now().UTC()
	s.readAt[userID] = &now
	return true, nil
}

func (s *sharedStore) MarkAllRead(_ context.Context, userID string) (int64, error) {
	updated, err := s.MarkRead(context.Background(), s.notificationID, userID)
	if err != nil || !updated {
		return 0, err
	}
	return 1, nil
}

func (s *sharedStore) UnreadCount(_ context.Context, userID string) (int, error) {
	if at, ok := s.readAt[userID]; ok && at == nil {
		return 1, nil
	}
	return 0, nil
}

func (s *sharedStore) PreferencesForUser(context.Context, string) ([]store.PreferenceView, error) {
	return nil, nil
}

func (s *sharedStore) UpsertPreference(_ context.Context, _, _ string, _, _, _ *bool) error {
	return nil
}

func newTestInbox(t *testing.T, f *fakeStore) (*Inbox, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })
	return New(f, cache, logger.NewNoOpLogger()), mr
}

func TestUnreadCountServedFromCache(t *testing.T) {
	f := &fakeStore{unread: 7}
	inbox, _ := newTestInbox(t, f)

	count, err := inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, 1, f.unreadCalls)

	// Second read comes from cache, not the store.
	count, err = inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 7, count)
	assert.Equal(t, 1, f.unreadCalls)
}

func TestMarkReadInvalidatesCachedCount(t *testing.T) {
	f := &fakeStore{
		unread: 1,
		views:  map[string]*store.NotificationView{"n1": {ID: "n1"}},
	}
	inbox, mr := newTestInbox(t, f)

	_, err := inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("notifications:unread:u1"))

	updated, err := inbox.MarkRead(context.Background(), "u1", "n1")
	require.NoError(t, err)
	assert.True(t, updated)
	assert.False(t, mr.Exists("notifications:unread:u1"))

	count, err := inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestReadStateScopedPerRecipient(t *testing.T) {
	s := newSharedStore("n1", "alice", "bob")
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })
	inbox := New(s, cache, logger.NewNoOpLogger())

	// Alice opens the shared notification.
	updated, err := inbox.MarkRead(context.Background(), "alice", "n1")
	require.NoError(t, err)
	assert.True(t, updated)

	// Bob's copy is untouched.
	page, err := inbox.List(context.Background(), "bob", store.ListOptions{})
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.False(t, page.Notifications[0].IsRead)
	assert.Nil(t, page.Notifications[0].ReadAt)

	count, err := inbox.UnreadCount(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = inbox.UnreadCount(context.Background(), "alice")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadAlreadyReadKeepsCache(t *testing.T) {
	readAt := time.Now().UTC()
	f := &fakeStore{
		views: map[string]*store.NotificationView{"n1": {ID: "n1", IsRead: true, ReadAt: &readAt}},
	}
	inbox, mr := newTestInbox(t, f)

	_, err := inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)

	updated, err := inbox.MarkRead(context.Background(), "u1", "n1")
	require.NoError(t, err)
	assert.False(t, updated)
	assert.True(t, mr.Exists("notifications:unread:u1"))
}

func TestGetMarksReadAsSideEffect(t *testing.T) {
	f := &fakeStore{
		unread: 1,
		views:  map[string]*store.NotificationView{"n1": {ID: "n1", Title: "Order Confirmed #SB-1"}},
	}
	inbox, _ := newTestInbox(t, f)

	view, err := inbox.Get(context.Background(), "u1", "n1")
	require.NoError(t, err)
	assert.True(t, view.IsRead)
	assert.NotNil(t, view.ReadAt)
	assert.Equal(t, []string{"n1"}, f.markedRead)
}

func TestGetMissingNotificationIsLoud(t *testing.T) {
	f := &fakeStore{views: map[string]*store.NotificationView{}}
	inbox, _ := newTestInbox(t, f)

	_, err := inbox.Get(context.Background(), "u1", "nope")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeNotificationNotFound, apperrors.CodeOf(err))
}

func TestMarkAllRead(t *testing.T) {
	f := &fakeStore{unread: 3}
	inbox, mr := newTestInbox(t, f)

	_, err := inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)

	affected, err := inbox.MarkAllRead(context.Background(), "u1")
	require.NoError(t, err)
	assert.EqualValues(t, 3, affected)
	assert.False(t, mr.Exists("notifications:unread:u1"))
}

func TestUnreadCountWithoutCache(t *testing.T) {
	f := &fakeStore{unread: 2}
	inbox := New(f, nil, logger.NewNoOpLogger())

	count, err := inbox.UnreadCount(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, f.unreadCalls)
}

func TestUpdatePreferencesSkipsEmptyIDs(t *testing.T) {
	f := &fakeStore{}
	inbox, _ := newTestInbox(t, f)

	enabled := true
	err := inbox.UpdatePreferences(context.Background(), "u1", []PreferenceUpdate{
		{TypeID: "type-1", EmailEnabled: &enabled},
		{TypeID: ""},
		{TypeID: "type-2", InAppEnabled: &enabled},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"type-1", "type-2"}, f.upserts)
}

func TestUpdatePreferencesAttemptsAllRows(t *testing.T) {
	f := &fakeStore{upsertErr: assert.AnError}
	inbox, _ := newTestInbox(t, f)

	err := inbox.UpdatePreferences(context.Background(), "u1", []PreferenceUpdate{
		{TypeID: "type-1"},
		{TypeID: "type-2"},
	})
	require.Error(t, err)
	// Both rows were attempted despite the first failure.
	assert.Equal(t, []string{"type-1", "type-2"}, f.upserts)
}
