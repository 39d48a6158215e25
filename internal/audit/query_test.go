package audit

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var entryColumns = []string{"id", "admin_id", "action", "target_type", "target_id", "details", "created_at", "username", "avatar_url"}

func TestList(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(2)
	mock.ExpectQuery(`SELECT count(.+) FROM "audit_logs"`).WillReturnRows(countRows)

	now := time.Now()
	logRows := sqlmock.NewRows(entryColumns).
		AddRow(2, 1, "create_tag", "tag", 5, `{"name":"golang"}`, now, "admin", "/avatars/1.png").
		AddRow(1, 1, "ban_user", "user", 9, `{{{not json`, now.Add(-time.Minute), "admin", "/avatars/1.png")
	mock.ExpectQuery(`SELECT (.+) FROM "audit_logs" LEFT JOIN users`).WillReturnRows(logRows)

	entries, total, err := service.List(ListFilters{}, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, entries, 2)

	// 合法JSON解析为map
	details, ok := entries[0].Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "golang", details["name"])
	assert.Equal(t, "admin", entries[0].Username)

	// 非法JSON原样返回，不报错
	assert.Equal(t, `{{{not json`, entries[1].Details)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithFilters(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(`SELECT count(.+) FROM "audit_logs" WHERE audit_logs\.admin_id = \$1 AND audit_logs\.action = \$2`).
		WillReturnRows(countRows)

	logRows := sqlmock.NewRows(entryColumns).
		AddRow(3, 7, "ban_user", "user", 11, "", time.Now(), "mod", "")
	mock.ExpectQuery(`SELECT (.+) FROM "audit_logs" LEFT JOIN users (.+) WHERE audit_logs\.admin_id = \$1 AND audit_logs\.action = \$2`).
		WillReturnRows(logRows)

	adminID := uint(7)
	entries, total, err := service.List(ListFilters{AdminID: &adminID, Action: "ban_user"}, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	require.Len(t, entries, 1)
	assert.Equal(t, uint(7), entries[0].AdminID)
	// 空详情返回nil
	assert.Nil(t, entries[0].Details)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListWithDateRange(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	dateFrom, err := time.Parse("2006-01-02", "2024-01-01")
	require.NoError(t, err)
	dateTo, err := time.Parse("2006-01-02", "2024-01-31")
	require.NoError(t, err)

	// 日期范围含当天：下界为起始日零点，上界为结束日次日零点（不含）
	lowerBound := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	upperBound := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(3)
	mock.ExpectQuery(`SELECT count(.+) FROM "audit_logs" WHERE audit_logs\.admin_id = \$1 AND audit_logs\.created_at >= \$2 AND audit_logs\.created_at < \$3`).
		WithArgs(7, lowerBound, upperBound).
		WillReturnRows(countRows)

	logRows := sqlmock.NewRows(entryColumns).
		AddRow(3, 7, "ban_user", "user", 11, "", time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC), "mod", "").
		AddRow(2, 7, "create_tag", "tag", 4, "", time.Date(2024, 1, 10, 9, 30, 0, 0, time.UTC), "mod", "").
		AddRow(1, 7, "create_tag", "tag", 3, "", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "mod", "")
	mock.ExpectQuery(`SELECT (.+) FROM "audit_logs" LEFT JOIN users (.+) WHERE audit_logs\.admin_id = \$1 AND audit_logs\.created_at >= \$2 AND audit_logs\.created_at < \$3 (.+) LIMIT \$4`).
		WithArgs(7, lowerBound, upperBound, 20).
		WillReturnRows(logRows)

	adminID := uint(7)
	entries, total, err := service.List(ListFilters{
		AdminID:  &adminID,
		DateFrom: &dateFrom,
		DateTo:   &dateTo,
	}, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, int64(3), total)
	assert.Len(t, entries, 3)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSecondPageOffset(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	countRows := sqlmock.NewRows([]string{"count"}).AddRow(25)
	mock.ExpectQuery(`SELECT count(.+) FROM "audit_logs"`).WillReturnRows(countRows)

	logRows := sqlmock.NewRows(entryColumns).
		AddRow(15, 1, "create_tag", "tag", 6, "", time.Now(), "admin", "")
	// 页码从1开始：第2页偏移量为 (2-1)*10
	mock.ExpectQuery(`SELECT (.+) FROM "audit_logs" LEFT JOIN users (.+) LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 10).
		WillReturnRows(logRows)

	_, total, err := service.List(ListFilters{}, 2, 10)
	require.NoError(t, err)

	assert.Equal(t, int64(25), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	mock.ExpectQuery(`SELECT (.+) FROM "audit_logs" LEFT JOIN users`).
		WillReturnRows(sqlmock.NewRows(entryColumns))

	_, err := service.Get(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAuditTrail(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	now := time.Now()
	logRows := sqlmock.NewRows(entryColumns).
		AddRow(5, 1, "update_report_status", "report", 42, `{"new_status":"resolved"}`, now, "admin", "").
		AddRow(4, 2, "update_report_status", "report", 42, `{"new_status":"pending"}`, now.Add(-time.Hour), "mod", "")
	mock.ExpectQuery(`SELECT (.+) FROM "audit_logs" LEFT JOIN users (.+) WHERE audit_logs\.target_type = \$1 AND audit_logs\.target_id = \$2`).
		WillReturnRows(logRows)

	entries, err := service.AuditTrail("report", 42)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, uint(5), entries[0].ID)
	require.NotNil(t, entries[0].TargetID)
	assert.Equal(t, uint(42), *entries[0].TargetID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityStats(t *testing.T) {
	gdb, mock := newMockDB(t)
	service := NewQueryService(gdb)

	mock.ExpectQuery(`SELECT count(.+) FROM "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	mock.ExpectQuery(`SELECT audit_logs\.action AS key, COUNT(.+) FROM "audit_logs" GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("ban_user", 1).
			AddRow("create_tag", 2))

	mock.ExpectQuery(`SELECT audit_logs\.target_type AS key, COUNT(.+) FROM "audit_logs" GROUP BY`).
		WillReturnRows(sqlmock.NewRows([]string{"key", "count"}).
			AddRow("user", 1).
			AddRow("tag", 2))

	mock.ExpectQuery(`SELECT audit_logs\.admin_id, users\.username, COUNT(.+) FROM "audit_logs" LEFT JOIN users`).
		WillReturnRows(sqlmock.NewRows([]string{"admin_id", "username", "count"}).
			AddRow(1, "admin", 3))

	stats, err := service.ActivityStats(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.TotalCount)
	assert.Equal(t, map[string]int64{"ban_user": 1, "create_tag": 2}, stats.ByAction)
	assert.Equal(t, map[string]int64{"user": 1, "tag": 2}, stats.ByTargetType)
	require.Len(t, stats.TopAdmins, 1)
	assert.Equal(t, uint(1), stats.TopAdmins[0].AdminID)
	assert.Equal(t, int64(3), stats.TopAdmins[0].Count)

	// 总数与各分组计数之和一致
	var actionSum, targetSum int64
	for _, v := range stats.ByAction {
		actionSum += v
	}
	for _, v := range stats.ByTargetType {
		targetSum += v
	}
	assert.Equal(t, stats.TotalCount, actionSum)
	assert.Equal(t, stats.TotalCount, targetSum)

	assert.NoError(t, mock.ExpectationsWereMet())
}
