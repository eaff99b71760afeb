package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/moneytext"
)

// Generator produces the printable act summary. This is a convenience
// rendition; the regulated layouts are the spreadsheet forms.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

func (g *Generator) GenerateActSummary(data model.KS2Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1251")

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr("Акт о приемке выполненных работ"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("№ %d от %s", data.Header.ActNumber, moneytext.FormatDate(data.Header.ActDate))), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addHeaderLine(pdf, tr, "Заказчик", data.Header.CustomerName)
	addHeaderLine(pdf, tr, "Подрядчик", data.Header.ContractorName)
	addHeaderLine(pdf, tr, "Договор", data.Header.ContractReference)
	addHeaderLine(pdf, tr, "Объект", data.Header.ObjectName)
	addHeaderLine(pdf, tr, "Смета", data.Header.EstimateName)
	if !data.Header.PeriodFrom.IsZero() || !data.Header.PeriodTo.IsZero() {
		addHeaderLine(pdf, tr, "Период", fmt.Sprintf("с %s по %s",
			moneytext.FormatDate(data.Header.PeriodFrom), moneytext.FormatDate(data.Header.PeriodTo)))
	}
	pdf.Ln(4)

	headers := []string{"№", "Наименование работ", "Ед.", "Кол-во", "Цена, руб.", "Сумма, руб."}
	widths := []float64{10, 80, 15, 20, 27, 28}

	pdf.SetFont("Helvetica", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range data.Lines {
		cells := []string{
			fmt.Sprintf("%d", line.Number),
			line.Name,
			line.Unit,
			moneytext.FormatAmount(line.ActualQty, 2),
			moneytext.FormatAmount(line.UnitPrice, 2),
			moneytext.FormatAmount(line.Total, 2),
		}
		aligns := []string{"C", "L", "C", "R", "R", "R"}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 9)
	labelWidth := widths[0] + widths[1] + widths[2] + widths[3] + widths[4]
	pdf.CellFormat(labelWidth, 7, tr("Всего по акту"), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 7, tr(moneytext.FormatAmount(data.Total, 2)), "1", 1, "R", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr("Сумма прописью: "+moneytext.AmountInWords(data.Total)), "", "L", false)
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	for _, s := range data.Signatories {
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("%s  ________________  %s", s.Position, s.FullName)), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addHeaderLine(pdf *gofpdf.Fpdf, tr func(string) string, label, value string) {
	if value == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(30, 6, tr(label), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, tr(value), "", 1, "L", false, 0, "")
}
