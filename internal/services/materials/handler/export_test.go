package handler

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "R$ 0,00"},
		{"1234.5", "R$ 1.234,50"},
		{"1234567.89", "R$ 1.234.567,89"},
		{"999", "R$ 999,00"},
		{"-42.10", "R$ -42,10"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCurrency(dec(tt.in)))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "05/03/2026", formatDate(dateOf("2026-03-05")))
	assert.Equal(t, "", formatDate(nil))
}

func TestBuildCSV(t *testing.T) {
	rows := []MaterialView{
		{
			ID:            1,
			Codigo:        "QM-001",
			Nome:          `Etanol "absoluto"`,
			Fabricante:    "Merck; Brasil",
			Quantidade:    dec("2"),
			Unidade:       "L",
			Validade:      dateOf("2026-12-31"),
			Preco:         dec("45.90"),
			EstoqueAtual:  dec("2"),
			EstoqueMinimo: dec("1"),
		},
		{ID: 2, Nome: "Luvas nitrílicas", Quantidade: dec("100"), Preco: dec("0.80")},
	}

	out := buildCSV(rows)

	require.True(t, strings.HasPrefix(string(out), "\uFEFF"), "missing BOM")

	// The output must round-trip through a standard semicolon reader.
	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(out), "\uFEFF")))
	r.Comma = ';'
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, exportHeader, records[0])
	assert.Equal(t, "1", records[1][0])
	assert.Equal(t, `Etanol "absoluto"`, records[1][2])
	assert.Equal(t, "Merck; Brasil", records[1][4])
	assert.Equal(t, "31/12/2026", records[1][7])
	assert.Equal(t, "R$ 45,90", records[1][8])
	assert.Equal(t, "Luvas nitrílicas", records[2][2])
	assert.Equal(t, "", records[2][7])
}

func TestBuildCSVEmpty(t *testing.T) {
	out := string(buildCSV(nil))
	assert.True(t, strings.HasPrefix(out, "\uFEFF"))
	assert.Equal(t, 1, strings.Count(out, "\r\n"), "header only")
}

func TestCSVQuote(t *testing.T) {
	assert.Equal(t, `"plain"`, csvQuote("plain"))
	assert.Equal(t, `"say ""hi"""`, csvQuote(`say "hi"`))
	assert.Equal(t, `""`, csvQuote(""))
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 3, 5, 14, 30, 9, 0, time.UTC)
	assert.Equal(t, "materiais_20260305_143009.csv", exportFilename(now, "csv"))
	assert.Equal(t, "materiais_20260305_143009.xlsx", exportFilename(now, "xlsx"))
}
