package recipients

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockResolver(t *testing.T) (*PostgresResolver, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresResolver(db), mock
}

func TestAdmins(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery(`SELECT id FROM users WHERE role = 'admin'`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("admin-1").AddRow("admin-2"))

	ids, err := r.Admins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-1", "admin-2"}, ids)
}

func TestVendorsForProduct(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery(`SELECT DISTINCT u.id`).
		WithArgs("prod-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("vendor-1"))

	ids, err := r.VendorsForProduct(context.Background(), "prod-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"vendor-1"}, ids)
}

func TestVendorsForOrderEmpty(t *testing.T) {
	r, mock := newMockResolver(t)

	mock.ExpectQuery(`SELECT DISTINCT u.id`).
		WithArgs("order-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	ids, err := r.VendorsForOrder(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
