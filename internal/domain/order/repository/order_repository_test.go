package repository

import (
	"testing"

	"healthcare_booking/internal/domain/order/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewOrderRepository(db), mock
}

func TestUpdateStatusIf_MatchingStatus(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectExec(`UPDATE "orders" SET`).
		WithArgs(model.StatusPaid, sqlmock.AnyArg(), "OD000001", model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rows, err := repo.UpdateStatusIf("OD000001", model.StatusPending, model.StatusPaid)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusIf_StaleStatusAffectsNoRows(t *testing.T) {
	repo, mock := newMockDB(t)

	// 当前状态已不是 pending，条件更新不命中任何行
	mock.ExpectExec(`UPDATE "orders" SET`).
		WithArgs(model.StatusPaid, sqlmock.AnyArg(), "OD000001", model.StatusPending).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rows, err := repo.UpdateStatusIf("OD000001", model.StatusPending, model.StatusPaid)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestMaxOrderID(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(order_id\), ''\) FROM "orders"`).
		WithArgs("OD%").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("OD000042"))

	id, err := repo.MaxOrderID()

	assert.NoError(t, err)
	assert.Equal(t, "OD000042", id)
}

func TestMaxOrderID_EmptyTable(t *testing.T) {
	repo, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(order_id\), ''\) FROM "orders"`).
		WithArgs("OD%").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(""))

	id, err := repo.MaxOrderID()

	assert.NoError(t, err)
	assert.Equal(t, "", id)
}
