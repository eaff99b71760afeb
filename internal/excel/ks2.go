package excel

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/moneytext"
)

// Completed-works certificate (KS-2 form). Columns:
//
//	A № п/п | B шифр | C наименование работ | D ед. изм.
//	E кол-во по смете | F кол-во выполнено | G цена за ед. | H стоимость
const (
	ks2LastCol        = "H"
	ks2Cols           = 8
	ks2FirstHeaderRow = 12
)

// formGeom locates the rows shared by both certificate layouts below the
// data table: grand total, optional tax rows, amount in words, signatures.
type formGeom struct {
	blocks        []tableBlock
	grandTotalRow int
	vatRow        int // 0 when tax rows are not requested
	vatTotalRow   int
	wordsRow      int
	signLabelRow  int
	signDataRows  int
}

func formGeometry(lineCount, firstHeaderRow int, includeVAT bool) formGeom {
	blocks := tableGeometry(lineCount, firstHeaderRow)
	last := blocks[len(blocks)-1]

	g := formGeom{blocks: blocks, signDataRows: 3}
	row := last.totalRow + 1
	g.grandTotalRow = row
	row++
	if includeVAT {
		g.vatRow = row
		g.vatTotalRow = row + 1
		row += 2
	}
	row++
	g.wordsRow = row
	g.signLabelRow = row + 2
	return g
}

func ks2Grid(lineCount int, includeVAT bool) (gridSpec, formGeom) {
	geom := formGeometry(lineCount, ks2FirstHeaderRow, includeVAT)

	grid := gridSpec{
		cols: []colWidth{
			{"A", "A", 6}, {"B", "B", 13}, {"C", "C", 48}, {"D", "D", 9},
			{"E", "F", 11}, {"G", "G", 13}, {"H", "H", 15},
		},
		rows: []rowHeight{
			{2, 24},
		},
		merges: []string{
			"F1:H1",
			"A2:H2",
			"A3:H3",
			"B5:H5", "B6:H6", "B7:H7", "B8:H8", "B9:H9", "B10:H10",
		},
		labels: []staticCell{
			{"F1", "Унифицированная форма № КС-2", styleFormRef},
			{"A2", "АКТ О ПРИЕМКЕ ВЫПОЛНЕННЫХ РАБОТ", styleTitle},
			{"A5", "Заказчик", styleLabel},
			{"A6", "Подрядчик", styleLabel},
			{"A7", "Договор", styleLabel},
			{"A8", "Объект", styleLabel},
			{"A9", "Смета", styleLabel},
			{"A10", "Отчетный период", styleLabel},
		},
	}

	headers := []string{
		"№ п/п", "Шифр расценки", "Наименование работ", "Ед. изм.",
		"Кол-во по смете", "Кол-во выполнено", "Цена за единицу, руб.", "Стоимость, руб.",
	}
	appendTableBlocks(&grid, geom, ks2Cols, ks2LastCol, headers,
		"Продолжение. Акт о приемке выполненных работ")

	appendFooter(&grid, geom, ks2Cols, ks2LastCol, footerLabels{
		grandTotal:    "Всего по акту",
		grandLabelEnd: "G",
	})
	return grid, geom
}

func ks2Values(data model.KS2Data) ([]cellValue, []rowHeight, formGeom) {
	geom := formGeometry(len(data.Lines), ks2FirstHeaderRow, data.IncludeVAT)

	values := []cellValue{
		{"A3", fmt.Sprintf("№ %d от %s", data.Header.ActNumber, moneytext.FormatDate(data.Header.ActDate)), styleSubtitle},
		{"B5", data.Header.CustomerName, styleLabel},
		{"B6", data.Header.ContractorName, styleLabel},
		{"B7", data.Header.ContractReference, styleLabel},
		{"B8", joinNonEmpty(data.Header.ObjectName, data.Header.ObjectAddress), styleLabel},
		{"B9", data.Header.EstimateName, styleLabel},
		{"B10", periodText(data.Header), styleLabel},
	}

	var heights []rowHeight
	idx := 0
	for _, block := range geom.blocks {
		pageTotal := decimal.Zero
		for r := 0; r < block.dataRows; r++ {
			line := data.Lines[idx]
			row := block.dataStart + r
			values = append(values,
				cellValue{cellName(1, row), line.Number, styleCellCenter},
				cellValue{cellName(2, row), line.Code, styleCellCenter},
				cellValue{cellName(3, row), line.Name, styleCell},
				cellValue{cellName(4, row), line.Unit, styleCellCenter},
				cellValue{cellName(5, row), moneytext.FormatAmount(line.PlannedQty, 2), styleMoney},
				cellValue{cellName(6, row), moneytext.FormatAmount(line.ActualQty, 2), styleMoney},
				cellValue{cellName(7, row), moneytext.FormatAmount(line.UnitPrice, 2), styleMoney},
				cellValue{cellName(8, row), moneytext.FormatAmount(line.Total, 2), styleMoney},
			)
			heights = append(heights, rowHeight{row, nameRowHeight(line.Name)})
			pageTotal = pageTotal.Add(line.Total)
			idx++
		}
		values = append(values, cellValue{
			cellName(ks2Cols, block.totalRow), moneytext.FormatAmount(pageTotal, 2), styleTotalMoney,
		})
	}

	values = append(values, cellValue{
		cellName(ks2Cols, geom.grandTotalRow), moneytext.FormatAmount(data.Total, 2), styleTotalMoney,
	})
	if data.IncludeVAT {
		values = append(values,
			cellValue{cellName(1, geom.vatRow), fmt.Sprintf("В том числе НДС (%s%%)", data.VATRate.String()), styleTotalLabel},
			cellValue{cellName(ks2Cols, geom.vatRow), moneytext.FormatAmount(data.VATAmount, 2), styleTotalMoney},
			cellValue{cellName(ks2Cols, geom.vatTotalRow), moneytext.FormatAmount(data.TotalWithVAT, 2), styleTotalMoney},
		)
	}

	wordsTotal := data.Total
	if data.IncludeVAT {
		wordsTotal = data.TotalWithVAT
	}
	values = append(values, cellValue{
		cellName(1, geom.wordsRow),
		"Сумма прописью: " + moneytext.AmountInWords(wordsTotal),
		styleWords,
	})

	values = append(values, signatureValues(geom, ks2Cols, data.Signatories)...)
	return values, heights, geom
}

type footerLabels struct {
	grandTotal string
	// grandLabelEnd is the last column of the grand-total label merge; the
	// value cells start right after it.
	grandLabelEnd string
}

// appendTableBlocks adds the merges, borders and static labels of every page
// block of the data table.
func appendTableBlocks(grid *gridSpec, geom formGeom, cols int, lastCol string, headers []string, caption string) {
	for _, block := range geom.blocks {
		if block.captionRow > 0 {
			grid.merges = append(grid.merges, fmt.Sprintf("A%d:%s%d", block.captionRow, lastCol, block.captionRow))
			grid.labels = append(grid.labels, staticCell{cellName(1, block.captionRow), caption, styleSubtitle})
		}

		grid.rows = append(grid.rows, rowHeight{block.headerRow, 42})
		for i, h := range headers {
			grid.labels = append(grid.labels, staticCell{cellName(i+1, block.headerRow), h, styleHeader})
		}
		for i := 0; i < cols; i++ {
			grid.labels = append(grid.labels, staticCell{cellName(i+1, block.numberRow), fmt.Sprintf("%d", i+1), styleColNum})
		}

		grid.borders = append(grid.borders, borderBox{
			fmt.Sprintf("A%d:%s%d", block.headerRow, lastCol, block.totalRow),
		})
		grid.merges = append(grid.merges, fmt.Sprintf("A%d:%s%d", block.totalRow, colLetter(cols-2), block.totalRow))
		grid.labels = append(grid.labels, staticCell{cellName(1, block.totalRow), "Итого по странице", styleTotalLabel})
	}
}

// appendFooter adds the grand-total, tax, amount-in-words and signature
// regions below the last page block.
func appendFooter(grid *gridSpec, geom formGeom, cols int, lastCol string, labels footerLabels) {
	beforeLast := colLetter(cols - 2)

	grid.merges = append(grid.merges, fmt.Sprintf("A%d:%s%d", geom.grandTotalRow, labels.grandLabelEnd, geom.grandTotalRow))
	grid.borders = append(grid.borders, borderBox{fmt.Sprintf("A%d:%s%d", geom.grandTotalRow, lastCol, geom.grandTotalRow)})
	grid.labels = append(grid.labels, staticCell{cellName(1, geom.grandTotalRow), labels.grandTotal, styleTotalLabel})

	if geom.vatRow > 0 {
		grid.merges = append(grid.merges,
			fmt.Sprintf("A%d:%s%d", geom.vatRow, beforeLast, geom.vatRow),
			fmt.Sprintf("A%d:%s%d", geom.vatTotalRow, beforeLast, geom.vatTotalRow),
		)
		grid.borders = append(grid.borders,
			borderBox{fmt.Sprintf("A%d:%s%d", geom.vatRow, lastCol, geom.vatRow)},
			borderBox{fmt.Sprintf("A%d:%s%d", geom.vatTotalRow, lastCol, geom.vatTotalRow)},
		)
		grid.labels = append(grid.labels, staticCell{cellName(1, geom.vatTotalRow), "Всего с учетом НДС", styleTotalLabel})
	}

	grid.merges = append(grid.merges, fmt.Sprintf("A%d:%s%d", geom.wordsRow, lastCol, geom.wordsRow))
	grid.rows = append(grid.rows, rowHeight{geom.wordsRow, 28})

	half := cols / 2
	grid.labels = append(grid.labels,
		staticCell{cellName(1, geom.signLabelRow), "Сдал (Подрядчик)", styleLabel},
		staticCell{cellName(half+1, geom.signLabelRow), "Принял (Заказчик)", styleLabel},
	)
	for i := 1; i <= geom.signDataRows; i++ {
		row := geom.signLabelRow + i
		grid.merges = append(grid.merges,
			fmt.Sprintf("A%d:%s%d", row, colLetter(half-1), row),
			fmt.Sprintf("%s%d:%s%d", colLetter(half), row, lastCol, row),
		)
		grid.rows = append(grid.rows, rowHeight{row, 24})
	}
}

// signatureValues binds signatories to the two signature blocks: contractor
// roles on the left, customer-side roles on the right, top to bottom.
func signatureValues(geom formGeom, cols int, signatories []model.Signatory) []cellValue {
	half := cols / 2
	var left, right []model.Signatory
	for _, s := range signatories {
		if s.Role == model.SignatoryContractorChief {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}

	var values []cellValue
	for i, s := range left {
		if i >= geom.signDataRows {
			break
		}
		values = append(values, cellValue{cellName(1, geom.signLabelRow+1+i), signatureLine(s), styleSignature})
	}
	for i, s := range right {
		if i >= geom.signDataRows {
			break
		}
		values = append(values, cellValue{cellName(half+1, geom.signLabelRow+1+i), signatureLine(s), styleSignature})
	}
	return values
}

func signatureLine(s model.Signatory) string {
	line := fmt.Sprintf("%s  ________________  %s", s.Position, s.FullName)
	if s.Basis != nil && *s.Basis != "" {
		line += fmt.Sprintf(" (%s)", *s.Basis)
	}
	return line
}

func periodText(h model.FormHeader) string {
	from := moneytext.FormatDate(h.PeriodFrom)
	to := moneytext.FormatDate(h.PeriodTo)
	if from == "" && to == "" {
		return ""
	}
	return fmt.Sprintf("с %s по %s", from, to)
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += p
	}
	return out
}

// colLetter maps a zero-based column index to its letter; layouts here never
// exceed column Z.
func colLetter(idx int) string {
	return string(rune('A' + idx))
}
