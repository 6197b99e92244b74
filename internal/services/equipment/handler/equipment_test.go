package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

func TestEquipamentoRequestValidate(t *testing.T) {
	t.Run("defaults status to ativo", func(t *testing.T) {
		req := EquipamentoRequest{Nome: "Centrífuga"}
		require.NoError(t, req.validate())
		assert.Equal(t, models.StatusAtivo, req.Status)
	})

	t.Run("accepts known statuses", func(t *testing.T) {
		for _, status := range []string{
			models.StatusAtivo, models.StatusInativo, models.StatusManutencao,
		} {
			req := EquipamentoRequest{Nome: "Centrífuga", Status: status}
			assert.NoError(t, req.validate(), status)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		req := EquipamentoRequest{Nome: "Centrífuga", Status: "quebrado"}
		err := req.validate()
		require.Error(t, err)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	})

	t.Run("rejects negative valor_aquisicao", func(t *testing.T) {
		req := EquipamentoRequest{Nome: "Centrífuga", ValorAquisicao: decimal.NewFromInt(-1)}
		require.Error(t, req.validate())
	})
}

func TestEquipamentoRequestApply(t *testing.T) {
	req := EquipamentoRequest{
		Codigo:         "EQ-010",
		Nome:           "Autoclave",
		Status:         models.StatusManutencao,
		ValorAquisicao: decimal.NewFromFloat(12500.00),
	}

	var e models.Equipamento
	e.ID = 7
	req.apply(&e)

	assert.Equal(t, int64(7), e.ID, "apply must not touch the primary key")
	assert.Equal(t, "EQ-010", e.Codigo)
	assert.Equal(t, "Autoclave", e.Nome)
	assert.Equal(t, models.StatusManutencao, e.Status)
	assert.True(t, e.ValorAquisicao.Equal(decimal.NewFromFloat(12500.00)))
}
