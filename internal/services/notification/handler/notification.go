package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"labstock-system/config"
	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

// Duplicate supplier requests for the same material are suppressed for
// this long. Keyed in Redis, so the cooldown survives restarts.
const (
	solicitacaoCooldownPrefix = "solicitacao:material:"
	solicitacaoCooldown       = time.Hour
)

type NotificationHandler struct {
	db    *gorm.DB
	redis *redis.Client
	smtp  config.SMTPConfig
	send  func(destino, assunto, corpo string) error
}

func NewNotificationHandler(db *gorm.DB, rdb *redis.Client, smtp config.SMTPConfig) *NotificationHandler {
	h := &NotificationHandler{db: db, redis: rdb, smtp: smtp}
	h.send = h.smtpSend
	return h
}

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{Success: true, Message: message, Data: data}
}

func errorResponse(message string) APIResponse {
	return APIResponse{Success: false, Message: message}
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), errorResponse(apperr.MessageOf(err)))
}

type SolicitacaoRequest struct {
	EmailDestino string `json:"email_destino" binding:"required,email"`
	MaterialID   *int64 `json:"material_id"`
	Mensagem     string `json:"mensagem"`
}

func buildSolicitacaoBody(m *models.Material, mensagem string) (assunto, corpo string) {
	if m == nil {
		return "Solicitação de material", mensagem
	}
	assunto = fmt.Sprintf("Solicitação de reposição: %s", m.Nome)
	corpo = fmt.Sprintf(
		"Prezado fornecedor,\n\n"+
			"Solicitamos a reposição do material abaixo:\n\n"+
			"Material: %s\n"+
			"Código: %s\n"+
			"Fabricante: %s\n"+
			"Estoque atual: %s %s\n"+
			"Estoque mínimo: %s %s\n",
		m.Nome, m.Codigo, m.Fabricante,
		m.EstoqueAtual.String(), m.Unidade,
		m.EstoqueMinimo.String(), m.Unidade,
	)
	if mensagem != "" {
		corpo += "\n" + mensagem + "\n"
	}
	corpo += "\nAtenciosamente,\nAlmoxarifado do Laboratório\n"
	return assunto, corpo
}

func (h *NotificationHandler) smtpSend(destino, assunto, corpo string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", h.smtp.From)
	msg.SetHeader("To", destino)
	msg.SetHeader("Subject", assunto)
	msg.SetBody("text/plain", corpo)

	d := gomail.NewDialer(h.smtp.Host, h.smtp.Port, h.smtp.User, h.smtp.Password)
	return d.DialAndSend(msg)
}

// Solicitar emails a supplier restock request and logs the attempt.
// Send failures come back as success=false with the error string, not as
// an HTTP error: the log row is the source of truth either way.
func (h *NotificationHandler) Solicitar(c *gin.Context) {
	var req SolicitacaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if req.MaterialID == nil && req.Mensagem == "" {
		respondError(c, apperr.Validation("informe material_id ou mensagem"))
		return
	}

	var material *models.Material
	var cooldownKey string
	if req.MaterialID != nil {
		var m models.Material
		if err := h.db.First(&m, *req.MaterialID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				respondError(c, apperr.NotFound("material não encontrado"))
				return
			}
			respondError(c, apperr.Storage("erro ao buscar material", err))
			return
		}
		material = &m

		// Redis being down must not block the request path.
		cooldownKey = fmt.Sprintf("%s%d", solicitacaoCooldownPrefix, m.ID)
		ok, err := h.redis.SetNX(c.Request.Context(), cooldownKey, "1", solicitacaoCooldown).Result()
		if err == nil && !ok {
			respondError(c, apperr.Validation("solicitação já enviada recentemente para este material"))
			return
		}
	}

	assunto, corpo := buildSolicitacaoBody(material, req.Mensagem)

	entry := models.EmailLog{
		Destinatario: req.EmailDestino,
		Assunto:      assunto,
		Corpo:        corpo,
		MaterialID:   req.MaterialID,
		Status:       models.EmailEnviado,
	}

	sendErr := h.send(req.EmailDestino, assunto, corpo)
	if sendErr != nil {
		entry.Status = models.EmailErro
		entry.Erro = strPtr(sendErr.Error())
		// A failed send must not hold the cooldown against a retry.
		if cooldownKey != "" {
			h.redis.Del(c.Request.Context(), cooldownKey)
		}
	}

	if err := h.db.Create(&entry).Error; err != nil {
		respondError(c, apperr.Storage("erro ao registrar envio", err))
		return
	}

	if sendErr != nil {
		c.JSON(http.StatusOK, APIResponse{
			Success: false,
			Message: "falha no envio: " + sendErr.Error(),
			Data:    entry,
		})
		return
	}

	c.JSON(http.StatusOK, successResponse("Solicitação enviada com sucesso", entry))
}

// ListEmails returns the most recent send attempts, newest first.
func (h *NotificationHandler) ListEmails(c *gin.Context) {
	logs := make([]models.EmailLog, 0)
	err := h.db.Order("created_at DESC").Limit(200).Find(&logs).Error
	if err != nil {
		respondError(c, apperr.Storage("erro ao listar e-mails", err))
		return
	}
	c.JSON(http.StatusOK, successResponse("", logs))
}

func strPtr(s string) *string { return &s }
