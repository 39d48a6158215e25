package audit

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB 创建基于sqlmock的gorm连接
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gdb, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gdb, mock
}

func TestRecord(t *testing.T) {
	gdb, mock := newMockDB(t)
	recorder := NewRecorder(gdb)

	idRows := sqlmock.NewRows([]string{"id"}).AddRow(7)
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).WillReturnRows(idRows)

	targetID := uint(42)
	id, err := recorder.Record(1, "ban_user", "user", &targetID, map[string]interface{}{
		"reason": "spam",
	})

	assert.NoError(t, err)
	assert.Equal(t, uint(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordWithoutTarget(t *testing.T) {
	gdb, mock := newMockDB(t)
	recorder := NewRecorder(gdb)

	idRows := sqlmock.NewRows([]string{"id"}).AddRow(8)
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).WillReturnRows(idRows)

	// target 和 details 都可以为空
	id, err := recorder.Record(1, "bulk_cleanup", "tag", nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, uint(8), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordInsertError(t *testing.T) {
	gdb, mock := newMockDB(t)
	recorder := NewRecorder(gdb)

	mock.ExpectQuery(`INSERT INTO "audit_logs"`).WillReturnError(errors.New("connection refused"))

	_, err := recorder.Record(1, "ban_user", "user", nil, nil)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMustRecordSwallowsError(t *testing.T) {
	gdb, mock := newMockDB(t)
	recorder := NewRecorder(gdb)

	mock.ExpectQuery(`INSERT INTO "audit_logs"`).WillReturnError(errors.New("connection refused"))

	// 写入失败不应panic，也不应影响调用方
	assert.NotPanics(t, func() {
		recorder.MustRecord(1, "ban_user", "user", nil, nil)
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}
