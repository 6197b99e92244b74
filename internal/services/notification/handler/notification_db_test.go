package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"labstock-system/config"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	return db, mock
}

func doSolicitacao(t *testing.T, h *NotificationHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/solicitacoes", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Solicitar(c)
	return w
}

func materialRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "nome", "codigo", "fabricante", "unidade", "estoque_atual", "estoque_minimo",
	}).AddRow(1, "Etanol absoluto", "QM-001", "Merck", "L", "2", "5")
}

const solicitacaoBody = `{"email_destino":"fornecedor@acme.com","material_id":1}`

func TestSolicitarFailedSendReleasesCooldown(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, rmock := redismock.NewClientMock()

	h := NewNotificationHandler(db, rdb, config.SMTPConfig{From: "lab@lab.local"})
	h.send = func(destino, assunto, corpo string) error {
		return errors.New("smtp: connection refused")
	}

	mock.ExpectQuery(`SELECT \* FROM "materiais"`).WillReturnRows(materialRows())
	rmock.ExpectSetNX("solicitacao:material:1", "1", time.Hour).SetVal(true)
	rmock.ExpectDel("solicitacao:material:1").SetVal(1)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "emails_log"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	w := doSolicitacao(t, h, solicitacaoBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "falha no envio")
	assert.NoError(t, rmock.ExpectationsWereMet(), "cooldown key must be deleted after a failed send")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitarSuccessKeepsCooldownAndLogs(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, rmock := redismock.NewClientMock()

	h := NewNotificationHandler(db, rdb, config.SMTPConfig{From: "lab@lab.local"})
	h.send = func(destino, assunto, corpo string) error { return nil }

	mock.ExpectQuery(`SELECT \* FROM "materiais"`).WillReturnRows(materialRows())
	rmock.ExpectSetNX("solicitacao:material:1", "1", time.Hour).SetVal(true)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "emails_log"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	w := doSolicitacao(t, h, solicitacaoBody)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.NoError(t, rmock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSolicitarCooldownRejectsRepeat(t *testing.T) {
	db, mock := newMockDB(t)
	rdb, rmock := redismock.NewClientMock()

	h := NewNotificationHandler(db, rdb, config.SMTPConfig{From: "lab@lab.local"})
	h.send = func(destino, assunto, corpo string) error {
		t.Fatal("send must not run while the cooldown holds")
		return nil
	}

	mock.ExpectQuery(`SELECT \* FROM "materiais"`).WillReturnRows(materialRows())
	rmock.ExpectSetNX("solicitacao:material:1", "1", time.Hour).SetVal(false)

	w := doSolicitacao(t, h, solicitacaoBody)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "já enviada recentemente")
	assert.NoError(t, rmock.ExpectationsWereMet())
	assert.NoError(t, mock.ExpectationsWereMet())
}
