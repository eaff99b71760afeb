package excel

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Nastya870/smetalab-sub001/internal/model"
	"github.com/Nastya870/smetalab-sub001/internal/moneytext"
)

// Cost-of-works certificate (KS-3 form). Columns:
//
//	A № п/п | B шифр | C наименование работ
//	D с начала проведения работ | E с начала года | F за отчетный период
const (
	ks3LastCol        = "F"
	ks3Cols           = 6
	ks3FirstHeaderRow = 12
)

func ks3Grid(lineCount int, includeVAT bool) (gridSpec, formGeom) {
	geom := formGeometry(lineCount, ks3FirstHeaderRow, includeVAT)

	grid := gridSpec{
		cols: []colWidth{
			{"A", "A", 6}, {"B", "B", 13}, {"C", "C", 52}, {"D", "F", 17},
		},
		rows: []rowHeight{
			{2, 24},
		},
		merges: []string{
			"D1:F1",
			"A2:F2",
			"A3:F3",
			"B5:F5", "B6:F6", "B7:F7", "B8:F8", "B9:F9", "B10:F10",
		},
		labels: []staticCell{
			{"D1", "Унифицированная форма № КС-3", styleFormRef},
			{"A2", "СПРАВКА О СТОИМОСТИ ВЫПОЛНЕННЫХ РАБОТ И ЗАТРАТ", styleTitle},
			{"A5", "Заказчик", styleLabel},
			{"A6", "Подрядчик", styleLabel},
			{"A7", "Договор", styleLabel},
			{"A8", "Объект", styleLabel},
			{"A9", "Смета", styleLabel},
			{"A10", "Отчетный период", styleLabel},
		},
	}

	headers := []string{
		"№ п/п", "Шифр расценки", "Наименование работ и затрат",
		"С начала проведения работ, руб.", "С начала года, руб.", "За отчетный период, руб.",
	}
	appendTableBlocks(&grid, geom, ks3Cols, ks3LastCol, headers,
		"Продолжение. Справка о стоимости выполненных работ и затрат")

	appendFooter(&grid, geom, ks3Cols, ks3LastCol, footerLabels{
		grandTotal:    "Всего по справке",
		grandLabelEnd: "C",
	})
	return grid, geom
}

func ks3Values(data model.KS3Data) ([]cellValue, []rowHeight, formGeom) {
	geom := formGeometry(len(data.Lines), ks3FirstHeaderRow, data.IncludeVAT)

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
				cellValue{cellName(4, row), moneytext.FormatAmount(line.SinceStart, 2), styleMoney},
				cellValue{cellName(5, row), moneytext.FormatAmount(line.SinceYear, 2), styleMoney},
				cellValue{cellName(6, row), moneytext.FormatAmount(line.Current, 2), styleMoney},
			)
			heights = append(heights, rowHeight{row, nameRowHeight(line.Name)})
			pageTotal = pageTotal.Add(line.Current)
			idx++
		}
		values = append(values, cellValue{
			cellName(ks3Cols, block.totalRow), moneytext.FormatAmount(pageTotal, 2), styleTotalMoney,
		})
	}

	values = append(values,
		cellValue{cellName(4, geom.grandTotalRow), moneytext.FormatAmount(data.TotalSinceStart, 2), styleTotalMoney},
		cellValue{cellName(5, geom.grandTotalRow), moneytext.FormatAmount(data.TotalSinceYear, 2), styleTotalMoney},
		cellValue{cellName(6, geom.grandTotalRow), moneytext.FormatAmount(data.TotalCurrent, 2), styleTotalMoney},
	)
	if data.IncludeVAT {
		values = append(values,
			cellValue{cellName(1, geom.vatRow), fmt.Sprintf("В том числе НДС (%s%%)", data.VATRate.String()), styleTotalLabel},
			cellValue{cellName(ks3Cols, geom.vatRow), moneytext.FormatAmount(data.VATAmount, 2), styleTotalMoney},
			cellValue{cellName(ks3Cols, geom.vatTotalRow), moneytext.FormatAmount(data.TotalWithVAT, 2), styleTotalMoney},
		)
	}

	wordsTotal := data.TotalCurrent
	if data.IncludeVAT {
		wordsTotal = data.TotalWithVAT
	}
	values = append(values, cellValue{
		cellName(1, geom.wordsRow),
		"Сумма прописью: " + moneytext.AmountInWords(wordsTotal),
		styleWords,
	})

	values = append(values, signatureValues(geom, ks3Cols, data.Signatories)...)
	return values, heights, geom
}
