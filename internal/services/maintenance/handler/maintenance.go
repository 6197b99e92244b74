package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

type MaintenanceHandler struct {
	db *gorm.DB
}

func NewMaintenanceHandler(db *gorm.DB) *MaintenanceHandler {
	return &MaintenanceHandler{db: db}
}

// --- Helpers ---

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

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation("id inválido")
	}
	return id, nil
}

// --- DTOs ---

type ManutencaoRequest struct {
	EquipamentoID int64               `json:"equipamento_id" binding:"required"`
	Tipo          string              `json:"tipo"`
	Descricao     string              `json:"descricao" binding:"required"`
	DataAgendada  models.Date         `json:"data_agendada" binding:"required"`
	DataRealizada *models.Date        `json:"data_realizada"`
	Status        string              `json:"status"`
	Prioridade    string              `json:"prioridade"`
	Responsavel   string              `json:"responsavel"`
	Fornecedor    string              `json:"fornecedor"`
	Custo         decimal.NullDecimal `json:"custo"`
	Observacoes   string              `json:"observacoes"`
}

func (r *ManutencaoRequest) validate() error {
	if r.Prioridade == "" {
		r.Prioridade = models.PrioridadeMedia
	}
	switch r.Prioridade {
	case models.PrioridadeBaixa, models.PrioridadeMedia, models.PrioridadeAlta:
	default:
		return apperr.Validation("prioridade inválida")
	}
	if r.Status != "" {
		switch r.Status {
		case models.ManutencaoAgendada, models.ManutencaoEmAndamento,
			models.ManutencaoConcluida, models.ManutencaoCancelada:
		default:
			return apperr.Validation("status inválido")
		}
	}
	if r.Custo.Valid && r.Custo.Decimal.IsNegative() {
		return apperr.Validation("custo não pode ser negativo")
	}
	return nil
}

type ConcludeRequest struct {
	DataRealizada *models.Date        `json:"data_realizada"`
	Custo         decimal.NullDecimal `json:"custo"`
	Observacoes   string              `json:"observacoes"`
}

// ManutencaoView joins the owning equipment's name and code for display.
type ManutencaoView struct {
	models.Manutencao `gorm:"embedded"`
	NomeEquipamento   string `json:"nome_equipamento"`
	CodigoEquipamento string `json:"codigo_equipamento"`
}

// normalizeRealizada keeps the invariant: data_realizada is set if and
// only if the order is concluded. Concluding without a date stamps today.
func normalizeRealizada(status string, realizada *models.Date, today models.Date) *models.Date {
	if status != models.ManutencaoConcluida {
		return nil
	}
	if realizada == nil || realizada.IsZero() {
		return &today
	}
	return realizada
}

// --- Handlers ---

// ScheduleMaintenance creates the work order and its creation history
// entry in one transaction: both land or neither does.
func (h *MaintenanceHandler) ScheduleMaintenance(c *gin.Context) {
	var req ManutencaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	tx := h.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var eq models.Equipamento
	if err := tx.First(&eq, req.EquipamentoID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("equipamento não encontrado"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar equipamento", err))
		return
	}

	m := models.Manutencao{
		EquipamentoID: req.EquipamentoID,
		Tipo:          req.Tipo,
		Descricao:     req.Descricao,
		DataAgendada:  req.DataAgendada,
		Status:        models.ManutencaoAgendada,
		Prioridade:    req.Prioridade,
		Responsavel:   req.Responsavel,
		Fornecedor:    req.Fornecedor,
		Custo:         req.Custo,
		Observacoes:   req.Observacoes,
	}
	if err := tx.Create(&m).Error; err != nil {
		tx.Rollback()
		respondError(c, apperr.Storage("erro ao agendar manutenção", err))
		return
	}

	hist := models.HistoricoManutencao{
		EquipamentoID: m.EquipamentoID,
		ManutencaoID:  m.ID,
		Acao:          models.AcaoCriacao,
		Descricao:     fmt.Sprintf("Manutenção agendada para %s", m.DataAgendada.Format(models.DateLayout)),
		Usuario:       c.GetString("user_email"),
	}
	if err := tx.Create(&hist).Error; err != nil {
		tx.Rollback()
		respondError(c, apperr.Storage("erro ao registrar histórico", err))
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, apperr.Storage("erro ao agendar manutenção", err))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Manutenção agendada com sucesso", m))
}

const manutencaoViewQuery = `
	SELECT m.*, COALESCE(e.nome, '') AS nome_equipamento, COALESCE(e.codigo, '') AS codigo_equipamento
	FROM manutencoes m
	LEFT JOIN equipamentos e ON e.id = m.equipamento_id
`

func (h *MaintenanceHandler) ListMaintenance(c *gin.Context) {
	rows := make([]ManutencaoView, 0)
	err := h.db.Raw(manutencaoViewQuery + " ORDER BY m.data_agendada DESC, m.id DESC").Scan(&rows).Error
	if err != nil {
		respondError(c, apperr.Storage("erro ao listar manutenções", err))
		return
	}
	c.JSON(http.StatusOK, successResponse("", rows))
}

func (h *MaintenanceHandler) GetMaintenance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var rows []ManutencaoView
	if err := h.db.Raw(manutencaoViewQuery+" WHERE m.id = ?", id).Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao buscar manutenção", err))
		return
	}
	if len(rows) == 0 {
		respondError(c, apperr.NotFound("manutenção não encontrada"))
		return
	}
	c.JSON(http.StatusOK, successResponse("", rows[0]))
}

func (h *MaintenanceHandler) UpdateMaintenance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ManutencaoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}

	var m models.Manutencao
	if err := h.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("manutenção não encontrada"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar manutenção", err))
		return
	}

	if req.Status == "" {
		req.Status = m.Status
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	m.EquipamentoID = req.EquipamentoID
	m.Tipo = req.Tipo
	m.Descricao = req.Descricao
	m.DataAgendada = req.DataAgendada
	m.Status = req.Status
	m.DataRealizada = normalizeRealizada(req.Status, req.DataRealizada, models.Today())
	m.Prioridade = req.Prioridade
	m.Responsavel = req.Responsavel
	m.Fornecedor = req.Fornecedor
	m.Custo = req.Custo
	m.Observacoes = req.Observacoes

	if err := h.db.Save(&m).Error; err != nil {
		respondError(c, apperr.Storage("erro ao atualizar manutenção", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("Manutenção atualizada com sucesso", m))
}

// ConcludeMaintenance closes the order and flips the owning equipment
// back to "ativo" inside one transaction. When the order carries no
// resolvable equipment the status side effect is skipped.
func (h *MaintenanceHandler) ConcludeMaintenance(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ConcludeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if req.Custo.Valid && req.Custo.Decimal.IsNegative() {
		respondError(c, apperr.Validation("custo não pode ser negativo"))
		return
	}

	tx := h.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var m models.Manutencao
	if err := tx.First(&m, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("manutenção não encontrada"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar manutenção", err))
		return
	}

	m.Status = models.ManutencaoConcluida
	m.DataRealizada = normalizeRealizada(m.Status, req.DataRealizada, models.Today())
	if req.Custo.Valid {
		m.Custo = req.Custo
	}
	if req.Observacoes != "" {
		m.Observacoes = req.Observacoes
	}

	if err := tx.Save(&m).Error; err != nil {
		tx.Rollback()
		respondError(c, apperr.Storage("erro ao concluir manutenção", err))
		return
	}

	if m.EquipamentoID != 0 {
		err := tx.Model(&models.Equipamento{}).
			Where("id = ?", m.EquipamentoID).
			Update("status", models.StatusAtivo).Error
		if err != nil {
			tx.Rollback()
			respondError(c, apperr.Storage("erro ao atualizar status do equipamento", err))
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, apperr.Storage("erro ao concluir manutenção", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("Manutenção concluída com sucesso", m))
}

// ListHistory returns the append-only maintenance log of one equipment.
func (h *MaintenanceHandler) ListHistory(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	hist := make([]models.HistoricoManutencao, 0)
	err = h.db.Where("equipamento_id = ?", id).Order("created_at DESC").Find(&hist).Error
	if err != nil {
		respondError(c, apperr.Storage("erro ao listar histórico", err))
		return
	}
	c.JSON(http.StatusOK, successResponse("", hist))
}
