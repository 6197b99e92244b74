package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

type EquipmentHandler struct {
	db *gorm.DB
}

func NewEquipmentHandler(db *gorm.DB) *EquipmentHandler {
	return &EquipmentHandler{db: db}
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

type EquipamentoRequest struct {
	Codigo                 string          `json:"codigo"`
	Nome                   string          `json:"nome" binding:"required"`
	Modelo                 string          `json:"modelo"`
	Fabricante             string          `json:"fabricante"`
	NumeroSerie            string          `json:"numero_serie"`
	Categoria              string          `json:"categoria"`
	Localizacao            string          `json:"localizacao"`
	Status                 string          `json:"status"`
	DataAquisicao          *models.Date    `json:"data_aquisicao"`
	ValorAquisicao         decimal.Decimal `json:"valor_aquisicao"`
	GarantiaAte            *models.Date    `json:"garantia_ate"`
	EspecificacoesTecnicas string          `json:"especificacoes_tecnicas"`
	Observacoes            string          `json:"observacoes"`
}

func (r *EquipamentoRequest) validate() error {
	if r.Status == "" {
		r.Status = models.StatusAtivo
	}
	switch r.Status {
	case models.StatusAtivo, models.StatusInativo, models.StatusManutencao:
	default:
		return apperr.Validation("status inválido")
	}
	if r.ValorAquisicao.IsNegative() {
		return apperr.Validation("valor_aquisicao não pode ser negativo")
	}
	return nil
}

func (r EquipamentoRequest) apply(e *models.Equipamento) {
	e.Codigo = r.Codigo
	e.Nome = r.Nome
	e.Modelo = r.Modelo
	e.Fabricante = r.Fabricante
	e.NumeroSerie = r.NumeroSerie
	e.Categoria = r.Categoria
	e.Localizacao = r.Localizacao
	e.Status = r.Status
	e.DataAquisicao = r.DataAquisicao
	e.ValorAquisicao = r.ValorAquisicao
	e.GarantiaAte = r.GarantiaAte
	e.EspecificacoesTecnicas = r.EspecificacoesTecnicas
	e.Observacoes = r.Observacoes
}

// EquipamentoView joins the per-equipment maintenance counters into the
// listing, so the front-end table renders without one query per row.
type EquipamentoView struct {
	models.Equipamento   `gorm:"embedded"`
	TotalManutencoes     int64 `json:"total_manutencoes"`
	ManutencoesAgendadas int64 `json:"manutencoes_agendadas"`
}

// --- Handlers ---

func (h *EquipmentHandler) CreateEquipment(c *gin.Context) {
	var req EquipamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	var e models.Equipamento
	req.apply(&e)
	if err := h.db.Create(&e).Error; err != nil {
		respondError(c, apperr.Storage("erro ao cadastrar equipamento", err))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Equipamento cadastrado com sucesso", e))
}

func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	rows := make([]EquipamentoView, 0)
	err := h.db.Raw(`
		SELECT e.*, COALESCE(m.total, 0) AS total_manutencoes, COALESCE(m.agendadas, 0) AS manutencoes_agendadas
		FROM equipamentos e
		LEFT JOIN (
			SELECT equipamento_id,
			       COUNT(*) AS total,
			       COUNT(*) FILTER (WHERE status = ?) AS agendadas
			FROM manutencoes
			GROUP BY equipamento_id
		) m ON m.equipamento_id = e.id
		ORDER BY e.nome ASC
	`, models.ManutencaoAgendada).Scan(&rows).Error
	if err != nil {
		respondError(c, apperr.Storage("erro ao listar equipamentos", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("", rows))
}

func (h *EquipmentHandler) GetEquipment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var e models.Equipamento
	if err := h.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("equipamento não encontrado"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar equipamento", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("", e))
}

func (h *EquipmentHandler) UpdateEquipment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req EquipamentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	var e models.Equipamento
	if err := h.db.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("equipamento não encontrado"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar equipamento", err))
		return
	}

	req.apply(&e)
	if err := h.db.Save(&e).Error; err != nil {
		respondError(c, apperr.Storage("erro ao atualizar equipamento", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("Equipamento atualizado com sucesso", e))
}

func (h *EquipmentHandler) DeleteEquipment(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res := h.db.Delete(&models.Equipamento{}, id)
	if res.Error != nil {
		respondError(c, apperr.Storage("erro ao remover equipamento", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.NotFound("equipamento não encontrado"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Equipamento removido com sucesso", nil))
}
