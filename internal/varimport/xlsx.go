package varimport

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// LoadXLSX reads a column-oriented spreadsheet from the first sheet: header
// row of variable names, value lists below.
func LoadXLSX(path string) (*model.VariableSet, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "varimport: open xlsx")
	}
	if len(f.Sheets) == 0 {
		return nil, eris.New("varimport: workbook has no sheets")
	}

	sheet := f.Sheets[0]
	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return fromRows(rows)
}
