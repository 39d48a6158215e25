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
	"github.com/qtr-deagle/trendle-backend/internal/db/models"
	"github.com/stretchr/testify/assert"
)

func TestCreateTag(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, mock := newMockDB(t)

	// 标签名称查重
	mock.ExpectQuery(`SELECT count(.+) FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	// 插入标签
	mock.ExpectQuery(`INSERT INTO "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))

	// 写入审计日志
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	body, _ := json.Marshal(gin.H{"name": "Go Programming"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/v1/admin/tags", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(1))
	c.Set("username", "admin")

	handler := NewTagHandler(gdb, audit.NewRecorder(gdb))
	handler.Create(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Code int        `json:"code"`
		Data models.Tag `json:"data"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Go Programming", response.Data.Name)
	assert.Equal(t, "go-programming", response.Data.Slug)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTagAlreadyExists(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, mock := newMockDB(t)

	mock.ExpectQuery(`SELECT count(.+) FROM "tags"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	body, _ := json.Marshal(gin.H{"name": "golang"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/v1/admin/tags", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("userID", uint(1))

	handler := NewTagHandler(gdb, audit.NewRecorder(gdb))
	handler.Create(c)

	// 重名标签返回参数错误，不写入任何记录
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBanUserAuditRecorded(t *testing.T) {
	gin.SetMode(gin.TestMode)

	gdb, mock := newMockDB(t)

	// 查询目标用户
	userRows := sqlmock.NewRows([]string{"id", "username", "is_admin", "status"}).
		AddRow(9, "troll", false, true)
	mock.ExpectQuery(`SELECT (.+) FROM "users"`).WillReturnRows(userRows)

	// 更新封禁状态
	mock.ExpectExec(`UPDATE "users"`).WillReturnResult(sqlmock.NewResult(0, 1))

	// 写入审计日志
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	body, _ := json.Marshal(gin.H{"reason": "垃圾信息"})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest("POST", "/api/v1/admin/users/9/ban", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "9"}}
	c.Set("userID", uint(1))
	c.Set("username", "admin")

	handler := NewUserHandler(gdb, audit.NewRecorder(gdb))
	handler.Ban(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
