package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/qtr-deagle/trendle-backend/internal/audit"
	"github.com/stretchr/testify/assert"
)

func TestUpdateReportStatusInvalid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, mock := newMockDB(t)

	// 非法状态直接被验证器拒绝，不触发任何查询
	body, _ := json.Marshal(gin.H{"status": "banana"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/v1/admin/reports/3/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Set("userID", uint(1))

	handler := NewReportHandler(gdb, audit.NewRecorder(gdb))
	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveReportRemovesContent(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, mock := newMockDB(t)

	// 查询举报
	reportRows := sqlmock.NewRows([]string{"id", "reporter_id", "target_type", "target_id", "reason", "status"}).
		AddRow(3, 2, "post", 17, "spam", "pending")
	mock.ExpectQuery(`SELECT (.+) FROM "reports"`).WillReturnRows(reportRows)

	// 更新举报状态
	mock.ExpectExec(`UPDATE "reports"`).WillReturnResult(sqlmock.NewResult(0, 1))

	// 记录状态变更
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	// 删除被举报帖子（软删除）
	mock.ExpectExec(`UPDATE "posts"`).WillReturnResult(sqlmock.NewResult(0, 1))

	// 记录内容删除
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	body, _ := json.Marshal(gin.H{"status": "resolved", "remove_content": true, "note": "确认违规"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("PUT", "/api/v1/admin/reports/3/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "3"}}
	c.Set("userID", uint(1))
	c.Set("username", "admin")

	handler := NewReportHandler(gdb, audit.NewRecorder(gdb))
	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
