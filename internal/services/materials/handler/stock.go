package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

type BaixaRequest struct {
	Quantidade decimal.Decimal `json:"quantidade"`
}

// applyBaixa validates a stock deduction against the available balance.
// Deducting exactly the remaining stock is allowed and yields zero;
// anything beyond it is rejected before any mutation happens.
func applyBaixa(estoqueAtual, quantidade decimal.Decimal) (decimal.Decimal, error) {
	if !quantidade.IsPositive() {
		return decimal.Decimal{}, apperr.Validation("quantidade deve ser maior que zero")
	}
	if quantidade.GreaterThan(estoqueAtual) {
		return decimal.Decimal{}, apperr.Validation(fmt.Sprintf(
			"estoque insuficiente: disponível %s, solicitado %s", estoqueAtual, quantidade))
	}
	return estoqueAtual.Sub(quantidade), nil
}

// BaixaMaterial is the only mutation path for stock that carries the
// validation guarantee; the general update route can overwrite the
// column but skips these checks.
func (h *MaterialsHandler) BaixaMaterial(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req BaixaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("corpo da requisição inválido: "+err.Error()))
		return
	}

	tx := h.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var m models.Material
	if err := tx.First(&m, id).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, apperr.NotFound("material não encontrado"))
			return
		}
		respondError(c, apperr.Storage("erro ao buscar material", err))
		return
	}

	novoEstoque, err := applyBaixa(m.EstoqueAtual, req.Quantidade)
	if err != nil {
		tx.Rollback()
		respondError(c, err)
		return
	}

	if err := tx.Model(&m).Update("estoque_atual", novoEstoque).Error; err != nil {
		tx.Rollback()
		respondError(c, apperr.Storage("erro ao registrar baixa", err))
		return
	}

	if err := tx.Commit().Error; err != nil {
		respondError(c, apperr.Storage("erro ao registrar baixa", err))
		return
	}

	c.JSON(http.StatusOK, successResponse("Baixa registrada com sucesso", gin.H{
		"id":           m.ID,
		"novo_estoque": novoEstoque,
	}))
}
