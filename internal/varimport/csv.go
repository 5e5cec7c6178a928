package varimport

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// LoadCSV reads a column-oriented CSV file: header row of variable names,
// value lists below.
func LoadCSV(path string) (*model.VariableSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrap(err, "varimport: open csv")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // columns may be ragged
	r.TrimLeadingSpace = true

	rows, err := r.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "varimport: parse csv")
	}
	return fromRows(rows)
}
