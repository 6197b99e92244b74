package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

type ValueReport struct {
	ValorTotal     decimal.Decimal `json:"valor_total"`
	TotalMateriais int64           `json:"total_materiais"`
	PrecoMedio     decimal.Decimal `json:"preco_medio"`
}

type CounterReport struct {
	TotalMateriais     int `json:"total_materiais"`
	Vencidos           int `json:"vencidos"`
	ProximosVencimento int `json:"proximos_vencimento"`
	EstoqueBaixo       int `json:"estoque_baixo"`
}

// buildValueReport aggregates over materials with positive stock only.
// Empty input yields an all-zero report, never an error.
func buildValueReport(rows []MaterialView) ValueReport {
	valorTotal := decimal.Zero
	somaPrecos := decimal.Zero
	var count int64

	for _, m := range rows {
		if !m.EstoqueAtual.IsPositive() {
			continue
		}
		valorTotal = valorTotal.Add(m.EstoqueAtual.Mul(m.Preco))
		somaPrecos = somaPrecos.Add(m.Preco)
		count++
	}

	precoMedio := decimal.Zero
	if count > 0 {
		precoMedio = somaPrecos.DivRound(decimal.NewFromInt(count), 2)
	}

	return ValueReport{
		ValorTotal:     valorTotal.Round(2),
		TotalMateriais: count,
		PrecoMedio:     precoMedio,
	}
}

// buildCounterReport counts over the full material set; each counter is
// independent of the others.
func buildCounterReport(rows []MaterialView, today time.Time) CounterReport {
	report := CounterReport{TotalMateriais: len(rows)}
	for _, m := range rows {
		if isExpired(m, today) {
			report.Vencidos++
		}
		if isExpiringSoon(m, today) {
			report.ProximosVencimento++
		}
		if isLowStock(m) {
			report.EstoqueBaixo++
		}
	}
	return report
}

func (h *MaterialsHandler) ValueReportHandler(c *gin.Context) {
	var rows []MaterialView
	if err := h.materialViewQuery().Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao calcular relatório", err))
		return
	}
	c.JSON(http.StatusOK, successResponse("", buildValueReport(rows)))
}

func (h *MaterialsHandler) CounterReportHandler(c *gin.Context) {
	var rows []MaterialView
	if err := h.materialViewQuery().Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao calcular contadores", err))
		return
	}
	c.JSON(http.StatusOK, successResponse("", buildCounterReport(rows, models.Today().Time)))
}
