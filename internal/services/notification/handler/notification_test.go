package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"labstock-system/internal/database/models"
)

func TestBuildSolicitacaoBodyWithMaterial(t *testing.T) {
	m := &models.Material{
		Nome:          "Etanol absoluto",
		Codigo:        "QM-001",
		Fabricante:    "Merck",
		Unidade:       "L",
		EstoqueAtual:  decimal.NewFromInt(2),
		EstoqueMinimo: decimal.NewFromInt(5),
	}

	assunto, corpo := buildSolicitacaoBody(m, "Urgente, aula prática na sexta.")

	assert.Equal(t, "Solicitação de reposição: Etanol absoluto", assunto)
	assert.Contains(t, corpo, "Material: Etanol absoluto")
	assert.Contains(t, corpo, "Código: QM-001")
	assert.Contains(t, corpo, "Estoque atual: 2 L")
	assert.Contains(t, corpo, "Estoque mínimo: 5 L")
	assert.Contains(t, corpo, "Urgente, aula prática na sexta.")
}

func TestBuildSolicitacaoBodyFreeForm(t *testing.T) {
	assunto, corpo := buildSolicitacaoBody(nil, "Precisamos de pipetas novas.")

	assert.Equal(t, "Solicitação de material", assunto)
	assert.Equal(t, "Precisamos de pipetas novas.", corpo)
}
