package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var serviceColumns = []string{
	"id", "service_id", "service_name", "description", "city", "cuisine_type", "rating",
	"pricing", "delivery_times", "menu", "contact", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*GormServiceRepository, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	return NewGormServiceRepository(db), mock
}

func TestGormServiceRepositoryList(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	rows := sqlmock.NewRows(serviceColumns).AddRow(
		"8a1c3c7e-7a39-4b53-9d7c-0d3f3b0a6c11", "1", "Homely Meals", "", "Chennai", "South Indian", 4.8,
		[]byte(`{"monthly":3500,"yearly":38000}`),
		[]byte(`{"morning":"7:00 - 9:00","lunch":"","dinner":""}`),
		[]byte(`{"morning":["Pongal"],"lunch":[],"dinner":[]}`),
		[]byte(`{"phone":"+91-1","email":"a@b.example"}`),
		created, created,
	)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "services" ORDER BY created_at DESC`)).
		WillReturnRows(rows)

	svcs, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, svcs, 1)

	rec := svcs[0].ToRecord()
	assert.Equal(t, "1", rec.ID)
	assert.Equal(t, 3500.0, rec.Pricing.Monthly)
	assert.Equal(t, []string{"Pongal"}, rec.Menu.Morning)
	assert.Equal(t, "a@b.example", rec.Contact.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormServiceRepositoryFindNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT \* FROM "services" WHERE service_id = \$1`).
		WillReturnRows(sqlmock.NewRows(serviceColumns))

	_, err := repo.FindByServiceID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormServiceRepositoryCount(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "services"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
