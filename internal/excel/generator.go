package excel

import (
	"fmt"

	"github.com/Nastya870/smetalab-sub001/internal/model"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateKS2 renders the completed-works certificate workbook.
func (g *Generator) GenerateKS2(data model.KS2Data) ([]byte, error) {
	if len(data.Lines) == 0 {
		return nil, fmt.Errorf("ks2: no work lines")
	}
	grid, _ := ks2Grid(len(data.Lines), data.IncludeVAT)
	values, heights, _ := ks2Values(data)
	return renderToBytes("КС-2", grid, values, heights)
}

// GenerateKS3 renders the cost-of-works certificate workbook.
func (g *Generator) GenerateKS3(data model.KS3Data) ([]byte, error) {
	if len(data.Lines) == 0 {
		return nil, fmt.Errorf("ks3: no work lines")
	}
	grid, _ := ks3Grid(len(data.Lines), data.IncludeVAT)
	values, heights, _ := ks3Values(data)
	return renderToBytes("КС-3", grid, values, heights)
}

func renderToBytes(sheet string, grid gridSpec, values []cellValue, heights []rowHeight) ([]byte, error) {
	file, err := render(sheet, grid, values, heights)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
