package handler

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstock-system/internal/apperr"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyBaixa(t *testing.T) {
	tests := []struct {
		name       string
		estoque    string
		quantidade string
		want       string
		wantErr    bool
	}{
		{name: "partial deduction", estoque: "10", quantidade: "3", want: "7"},
		{name: "deduct everything", estoque: "5", quantidade: "5", want: "0"},
		{name: "fractional units", estoque: "2.5", quantidade: "0.75", want: "1.75"},
		{name: "more than available", estoque: "5", quantidade: "5.01", wantErr: true},
		{name: "zero quantity", estoque: "10", quantidade: "0", wantErr: true},
		{name: "negative quantity", estoque: "10", quantidade: "-1", wantErr: true},
		{name: "zero stock zero request", estoque: "0", quantidade: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyBaixa(dec(tt.estoque), dec(tt.quantidade))
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestApplyBaixaInsufficientMessage(t *testing.T) {
	_, err := applyBaixa(dec("3"), dec("10"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "estoque insuficiente")
	assert.Contains(t, err.Error(), "3")
	assert.Contains(t, err.Error(), "10")
}
