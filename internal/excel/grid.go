// Package excel renders the two regulated certificate layouts onto fixed
// cell grids. The grid of a document (column widths, merges, borders, static
// labels) depends only on the number of work lines, never on their content;
// data binding changes cell values and the heights of free-text rows only.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type styleKey string

const (
	styleNone       styleKey = ""
	styleFormRef    styleKey = "form_ref"
	styleTitle      styleKey = "title"
	styleSubtitle   styleKey = "subtitle"
	styleLabel      styleKey = "label"
	styleHeader     styleKey = "header"
	styleColNum     styleKey = "col_num"
	styleCell       styleKey = "cell"
	styleCellCenter styleKey = "cell_center"
	styleMoney      styleKey = "money"
	styleTotalLabel styleKey = "total_label"
	styleTotalMoney styleKey = "total_money"
	styleWords      styleKey = "words"
	styleSignature  styleKey = "signature"
)

type colWidth struct {
	from  string
	to    string
	width float64
}

type rowHeight struct {
	row    int
	height float64
}

// borderBox paints the border grid of a cell range: thin edges on every cell,
// so merged regions inside the range keep their outline.
type borderBox struct {
	rng string
}

type staticCell struct {
	cell  string
	text  string
	style styleKey
}

// gridSpec is the declarative description of one document layout.
type gridSpec struct {
	cols    []colWidth
	rows    []rowHeight
	merges  []string
	borders []borderBox
	labels  []staticCell
}

// cellValue is one data binding produced for a concrete document.
type cellValue struct {
	cell  string
	value interface{}
	style styleKey
}

// tableBlock locates one page-worth of the data table inside a layout:
// a header row, a column-numbering row, up to rowsPerPage data rows and a
// page-total row.
type tableBlock struct {
	captionRow int // 0 on the first page, continuation caption otherwise
	headerRow  int
	numberRow  int
	dataStart  int
	dataRows   int
	totalRow   int
}

// rowsPerPage is the fixed data-row capacity of one printed page.
const rowsPerPage = 8

// tableGeometry splits lineCount data rows into page blocks starting at
// firstHeaderRow. The first block sits inside the fixed page-one layout;
// every continuation block carries its own caption row. Each block reserves
// the full rowsPerPage capacity the way the paper form prints unused rows.
func tableGeometry(lineCount, firstHeaderRow int) []tableBlock {
	if lineCount < 1 {
		lineCount = 1
	}
	pages := (lineCount + rowsPerPage - 1) / rowsPerPage

	blocks := make([]tableBlock, 0, pages)
	remaining := lineCount
	row := firstHeaderRow
	for p := 0; p < pages; p++ {
		b := tableBlock{}
		if p > 0 {
			b.captionRow = row
			row++
		}
		b.headerRow = row
		b.numberRow = row + 1
		b.dataStart = row + 2
		b.dataRows = remaining
		if b.dataRows > rowsPerPage {
			b.dataRows = rowsPerPage
		}
		b.totalRow = b.dataStart + rowsPerPage
		remaining -= b.dataRows
		row = b.totalRow + 2 // blank row between page blocks
		blocks = append(blocks, b)
	}
	return blocks
}

const (
	nameCharsPerLine = 50
	nameLineHeight   = 15.0
	nameMinHeight    = 21.0
)

// nameRowHeight expands a free-text row by a fixed characters-per-line
// heuristic, with a minimum floor.
func nameRowHeight(text string) float64 {
	runes := len([]rune(text))
	lines := (runes + nameCharsPerLine - 1) / nameCharsPerLine
	if lines < 1 {
		lines = 1
	}
	h := float64(lines) * nameLineHeight
	if h < nameMinHeight {
		return nameMinHeight
	}
	return h
}

func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		panic(fmt.Sprintf("invalid cell coordinates (%d,%d): %v", col, row, err))
	}
	return name
}

// render materializes a grid and its value bindings into a workbook sheet.
// The document is built fully in memory; any failure surfaces before a single
// byte is returned to the caller.
func render(sheet string, grid gridSpec, values []cellValue, heights []rowHeight) (*excelize.File, error) {
	f := excelize.NewFile()
	f.SetSheetName("Sheet1", sheet)

	styles, err := buildStyles(f)
	if err != nil {
		return nil, fmt.Errorf("register styles: %w", err)
	}

	for _, c := range grid.cols {
		if err := f.SetColWidth(sheet, c.from, c.to, c.width); err != nil {
			return nil, fmt.Errorf("set col width %s:%s: %w", c.from, c.to, err)
		}
	}
	for _, r := range grid.rows {
		if err := f.SetRowHeight(sheet, r.row, r.height); err != nil {
			return nil, fmt.Errorf("set row height %d: %w", r.row, err)
		}
	}
	for _, r := range heights {
		if err := f.SetRowHeight(sheet, r.row, r.height); err != nil {
			return nil, fmt.Errorf("set row height %d: %w", r.row, err)
		}
	}
	for _, m := range grid.merges {
		from, to, err := splitRange(m)
		if err != nil {
			return nil, err
		}
		if err := f.MergeCell(sheet, from, to); err != nil {
			return nil, fmt.Errorf("merge %s: %w", m, err)
		}
	}
	for _, b := range grid.borders {
		from, to, err := splitRange(b.rng)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellStyle(sheet, from, to, styles[styleCell]); err != nil {
			return nil, fmt.Errorf("border %s: %w", b.rng, err)
		}
	}
	for _, l := range grid.labels {
		if err := writeCell(f, sheet, styles, cellValue{cell: l.cell, value: l.text, style: l.style}); err != nil {
			return nil, err
		}
	}
	for _, v := range values {
		if err := writeCell(f, sheet, styles, v); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func writeCell(f *excelize.File, sheet string, styles map[styleKey]int, v cellValue) error {
	if err := f.SetCellValue(sheet, v.cell, v.value); err != nil {
		return fmt.Errorf("set cell %s: %w", v.cell, err)
	}
	if v.style == styleNone {
		return nil
	}
	id, ok := styles[v.style]
	if !ok {
		return fmt.Errorf("unknown style %q for cell %s", v.style, v.cell)
	}
	if err := f.SetCellStyle(sheet, v.cell, v.cell, id); err != nil {
		return fmt.Errorf("style cell %s: %w", v.cell, err)
	}
	return nil
}

func splitRange(rng string) (string, string, error) {
	for i := 0; i < len(rng); i++ {
		if rng[i] == ':' {
			return rng[:i], rng[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("malformed cell range %q", rng)
}

func buildStyles(f *excelize.File) (map[styleKey]int, error) {
	thin := []excelize.Border{
		{Type: "left", Style: 1, Color: "000000"},
		{Type: "right", Style: 1, Color: "000000"},
		{Type: "top", Style: 1, Color: "000000"},
		{Type: "bottom", Style: 1, Color: "000000"},
	}

	specs := map[styleKey]*excelize.Style{
		styleFormRef: {
			Font:      &excelize.Font{Size: 8},
			Alignment: &excelize.Alignment{Horizontal: "right"},
		},
		styleTitle: {
			Font:      &excelize.Font{Bold: true, Size: 12},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		styleSubtitle: {
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		},
		styleLabel: {
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		},
		styleHeader: {
			Font:      &excelize.Font{Bold: true, Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			Border:    thin,
		},
		styleColNum: {
			Font:      &excelize.Font{Size: 8},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thin,
		},
		styleCell: {
			Font:      &excelize.Font{Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
			Border:    thin,
		},
		styleCellCenter: {
			Font:      &excelize.Font{Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
			Border:    thin,
		},
		styleMoney: {
			Font:      &excelize.Font{Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
			Border:    thin,
		},
		styleTotalLabel: {
			Font:      &excelize.Font{Bold: true, Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
			Border:    thin,
		},
		styleTotalMoney: {
			Font:      &excelize.Font{Bold: true, Size: 9},
			Alignment: &excelize.Alignment{Horizontal: "right", Vertical: "center"},
			Border:    thin,
		},
		styleWords: {
			Font:      &excelize.Font{Italic: true, Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center", WrapText: true},
		},
		styleSignature: {
			Font:      &excelize.Font{Size: 10},
			Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "bottom"},
		},
	}

	styles := make(map[styleKey]int, len(specs))
	for key, spec := range specs {
		id, err := f.NewStyle(spec)
		if err != nil {
			return nil, err
		}
		styles[key] = id
	}
	return styles, nil
}
