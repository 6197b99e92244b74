package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

const MAX_DOCUMENT_SIZE = 10 << 20 // upload ceiling for safety data sheets

type MaterialsHandler struct {
	db *gorm.DB
}

func NewMaterialsHandler(db *gorm.DB) *MaterialsHandler {
	return &MaterialsHandler{db: db}
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

type MaterialRequest struct {
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome" binding:"required"`
	Tipo          string          `json:"tipo"`
	Fabricante    string          `json:"fabricante"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	Unidade       string          `json:"unidade"`
	Validade      *models.Date    `json:"validade"`
	Preco         decimal.Decimal `json:"preco"`
	EstoqueAtual  decimal.Decimal `json:"estoque_atual"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
}

func (r MaterialRequest) validate() error {
	switch {
	case r.Quantidade.IsNegative():
		return apperr.Validation("quantidade não pode ser negativa")
	case r.Preco.IsNegative():
		return apperr.Validation("preco não pode ser negativo")
	case r.EstoqueAtual.IsNegative():
		return apperr.Validation("estoque_atual não pode ser negativo")
	case r.EstoqueMinimo.IsNegative():
		return apperr.Validation("estoque_minimo não pode ser negativo")
	}
	return nil
}

func (r MaterialRequest) apply(m *models.Material) {
	m.Codigo = r.Codigo
	m.Nome = r.Nome
	m.Tipo = r.Tipo
	m.Fabricante = r.Fabricante
	m.Quantidade = r.Quantidade
	m.Unidade = r.Unidade
	m.Validade = r.Validade
	m.Preco = r.Preco
	m.EstoqueAtual = r.EstoqueAtual
	m.EstoqueMinimo = r.EstoqueMinimo
}

// MaterialView is what list/get/search return: every Material column
// except the document blob, plus a flag telling whether one exists. The
// bytes themselves only travel through the dedicated document route.
type MaterialView struct {
	ID              int64           `json:"id"`
	Codigo          string          `json:"codigo"`
	Nome            string          `json:"nome"`
	Tipo            string          `json:"tipo"`
	Fabricante      string          `json:"fabricante"`
	Quantidade      decimal.Decimal `json:"quantidade"`
	Unidade         string          `json:"unidade"`
	Validade        *models.Date    `json:"validade"`
	Preco           decimal.Decimal `json:"preco"`
	EstoqueAtual    decimal.Decimal `json:"estoque_atual"`
	EstoqueMinimo   decimal.Decimal `json:"estoque_minimo"`
	PossuiDocumento bool            `json:"possui_documento"`
}

const materialViewColumns = "id, codigo, nome, tipo, fabricante, quantidade, unidade, validade, preco, estoque_atual, estoque_minimo, (documento IS NOT NULL) AS possui_documento"

func (h *MaterialsHandler) materialViewQuery() *gorm.DB {
	return h.db.Table("materiais").Select(materialViewColumns)
}

// --- CRUD ---

func (h *MaterialsHandler) CreateMaterial(c *gin.Context) {
	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	var m models.Material
	req.apply(&m)
	if err := h.db.Create(&m).Error; err != nil {
		respondError(c, apperr.Storage("erro ao inserir material", err))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Material inserido com sucesso", m))
}

func (h *MaterialsHandler) ListMaterials(c *gin.Context) {
	rows := make([]MaterialView, 0)
	if err := h.materialViewQuery().Order("nome ASC").Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao listar materiais", err))
		return
	}
	c.JSON(http.StatusOK, successResponse("", rows))
}

func (h *MaterialsHandler) GetMaterial(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var rows []MaterialView
	if err := h.materialViewQuery().Where("id = ?", id).Limit(1).Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao buscar material", err))
		return
	}
	if len(rows) == 0 {
		respondError(c, apperr.NotFound("material não encontrado"))
		return
	}
	c.JSON(http.StatusOK, successResponse("", rows[0]))
}

func (h *MaterialsHandler) UpdateMaterial(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req MaterialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}
	if err := req.validate(); err != nil {
		respondError(c, err)
		return
	}

	var m models.Material
	if err := h.db.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("material não encontrado"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar material", err))
		return
	}

	// Full replace; the document blob stays untouched unless re-uploaded.
	req.apply(&m)
	if err := h.db.Save(&m).Error; err != nil {
		respondError(c, apperr.Storage("erro ao atualizar material", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("Material atualizado com sucesso", m))
}

func (h *MaterialsHandler) DeleteMaterial(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	res := h.db.Delete(&models.Material{}, id)
	if res.Error != nil {
		respondError(c, apperr.Storage("erro ao remover material", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.NotFound("material não encontrado"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Material removido com sucesso", nil))
}

// --- Lookup ---

type materialFinder func(q string) (*MaterialView, error)

// lookupStrategies is the ordered fallback chain: exact code match,
// then name substring, then manufacturer substring. The order decides
// which record wins on ambiguous input and must not change.
func (h *MaterialsHandler) lookupStrategies() []materialFinder {
	return []materialFinder{h.findByCodigo, h.findByNome, h.findByFabricante}
}

func firstMatch(q string, finders []materialFinder) (*MaterialView, error) {
	for _, find := range finders {
		m, err := find(q)
		if err != nil {
			return nil, err
		}
		if m != nil {
			return m, nil
		}
	}
	return nil, nil
}

func (h *MaterialsHandler) findByCodigo(q string) (*MaterialView, error) {
	return h.findOne(h.materialViewQuery().Where("codigo = ?", q))
}

func (h *MaterialsHandler) findByNome(q string) (*MaterialView, error) {
	return h.findOne(h.materialViewQuery().Where("nome ILIKE ?", "%"+q+"%"))
}

func (h *MaterialsHandler) findByFabricante(q string) (*MaterialView, error) {
	return h.findOne(h.materialViewQuery().Where("fabricante ILIKE ?", "%"+q+"%"))
}

func (h *MaterialsHandler) findOne(query *gorm.DB) (*MaterialView, error) {
	var rows []MaterialView
	if err := query.Order("nome ASC").Limit(1).Scan(&rows).Error; err != nil {
		return nil, apperr.Storage("erro ao buscar material", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (h *MaterialsHandler) SearchMaterial(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		respondError(c, apperr.Validation("parâmetro q é obrigatório"))
		return
	}

	m, err := firstMatch(q, h.lookupStrategies())
	if err != nil {
		respondError(c, err)
		return
	}
	if m == nil {
		respondError(c, apperr.NotFound("material não encontrado"))
		return
	}

	c.JSON(http.StatusOK, successResponse("", m))
}

// --- Document (safety data sheet) ---

func (h *MaterialsHandler) UploadDocument(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	file, err := c.FormFile("arquivo")
	if err != nil {
		respondError(c, apperr.Validation("arquivo é obrigatório"))
		return
	}
	if file.Size == 0 {
		respondError(c, apperr.Validation("arquivo vazio"))
		return
	}
	if file.Size > MAX_DOCUMENT_SIZE {
		respondError(c, apperr.Validation("arquivo excede o limite de 10MB"))
		return
	}
	if !strings.EqualFold(filepath.Ext(file.Filename), ".pdf") {
		respondError(c, apperr.Validation("apenas arquivos PDF são aceitos"))
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, apperr.Internal("erro ao ler arquivo", err))
		return
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		respondError(c, apperr.Internal("erro ao ler arquivo", err))
		return
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		respondError(c, apperr.Validation("apenas arquivos PDF são aceitos"))
		return
	}

	res := h.db.Model(&models.Material{}).Where("id = ?", id).Update("documento", data)
	if res.Error != nil {
		respondError(c, apperr.Storage("erro ao salvar documento", res.Error))
		return
	}
	if res.RowsAffected == 0 {
		respondError(c, apperr.NotFound("material não encontrado"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Documento anexado com sucesso", nil))
}

func (h *MaterialsHandler) DownloadDocument(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var m models.Material
	if err := h.db.Select("id", "documento").First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("material não encontrado"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar documento", err))
		return
	}
	if len(m.Documento) == 0 {
		respondError(c, apperr.NotFound("material não possui documento"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="documento_material_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", m.Documento)
}
