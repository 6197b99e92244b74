package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"labstock-system/internal/apperr"
	"labstock-system/internal/database/models"
)

var exportHeader = []string{
	"id", "codigo", "nome", "tipo", "fabricante", "quantidade",
	"unidade", "validade", "preco", "estoque_atual", "estoque_minimo",
}

// csvQuote quotes unconditionally; the consumer expects every field
// wrapped, not just the ones containing the separator.
func csvQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func groupThousands(intPart string) string {
	n := len(intPart)
	if n <= 3 {
		return intPart
	}
	var b strings.Builder
	rem := n % 3
	if rem > 0 {
		b.WriteString(intPart[:rem])
	}
	for i := rem; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(intPart[i : i+3])
	}
	return b.String()
}

// formatCurrency renders "R$ 1.234,56" (comma decimal separator).
func formatCurrency(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	parts := strings.SplitN(s, ".", 2)
	out := groupThousands(parts[0]) + "," + parts[1]
	if neg {
		out = "-" + out
	}
	return "R$ " + out
}

// formatDate renders day/month/year, empty for absent dates.
func formatDate(d *models.Date) string {
	if d == nil || d.IsZero() {
		return ""
	}
	return d.Format("02/01/2006")
}

func exportFields(m MaterialView) []string {
	return []string{
		fmt.Sprintf("%d", m.ID),
		m.Codigo,
		m.Nome,
		m.Tipo,
		m.Fabricante,
		m.Quantidade.String(),
		m.Unidade,
		formatDate(m.Validade),
		formatCurrency(m.Preco),
		m.EstoqueAtual.String(),
		m.EstoqueMinimo.String(),
	}
}

// buildCSV serializes the material list as semicolon-separated text,
// every field quoted, prefixed with a UTF-8 byte-order mark.
func buildCSV(rows []MaterialView) []byte {
	var b strings.Builder
	b.WriteString("\uFEFF")

	writeRecord := func(fields []string) {
		quoted := make([]string, len(fields))
		for i, f := range fields {
			quoted[i] = csvQuote(f)
		}
		b.WriteString(strings.Join(quoted, ";"))
		b.WriteString("\r\n")
	}

	writeRecord(exportHeader)
	for _, m := range rows {
		writeRecord(exportFields(m))
	}
	return []byte(b.String())
}

func exportFilename(now time.Time, ext string) string {
	return fmt.Sprintf("materiais_%s.%s", now.Format("20060102_150405"), ext)
}

func (h *MaterialsHandler) ExportCSV(c *gin.Context) {
	var rows []MaterialView
	if err := h.materialViewQuery().Order("nome ASC").Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao exportar materiais", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(time.Now(), "csv")))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buildCSV(rows))
}

func (h *MaterialsHandler) ExportXLSX(c *gin.Context) {
	var rows []MaterialView
	if err := h.materialViewQuery().Order("nome ASC").Scan(&rows).Error; err != nil {
		respondError(c, apperr.Storage("erro ao exportar materiais", err))
		return
	}

	const sheet = "Materiais"
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		respondError(c, apperr.Internal("erro ao gerar planilha", err))
		return
	}
	for i, head := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, head)
	}
	for r, m := range rows {
		for col, value := range exportFields(m) {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			_ = f.SetCellValue(sheet, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		respondError(c, apperr.Internal("erro ao gerar planilha", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(time.Now(), "xlsx")))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
