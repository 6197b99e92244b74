package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

// EXPIRY_HORIZON_DAYS is the "expiring soon" window, inclusive on both ends.
const EXPIRY_HORIZON_DAYS = 30

func isExpired(m MaterialView, today time.Time) bool {
	if m.Validade == nil || m.Validade.IsZero() {
		return false
	}
	return m.Validade.Time.Before(today)
}

func isExpiringSoon(m MaterialView, today time.Time) bool {
	if m.Validade == nil || m.Validade.IsZero() {
		return false
	}
	v := m.Validade.Time
	return !v.Before(today) && !v.After(today.AddDate(0, 0, EXPIRY_HORIZON_DAYS))
}

func isLowStock(m MaterialView) bool {
	return m.EstoqueAtual.LessThanOrEqual(m.EstoqueMinimo)
}

// ListExpired returns the materials already past their expiration date,
// ordered by name.
func (h *MaterialsHandler) ListExpired(c *gin.Context) {
	var rows []MaterialView
	if err := h.materialViewQuery().Order("nome ASC").Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao listar materiais", err))
		return
	}

	today := models.Today().Time
	expired := make([]MaterialView, 0)
	for _, m := range rows {
		if isExpired(m, today) {
			expired = append(expired, m)
		}
	}

	c.JSON(http.StatusOK, successResponse("", expired))
}
