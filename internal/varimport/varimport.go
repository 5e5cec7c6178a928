// Package varimport loads variable sets from CSV, XLSX and YAML files.
// Tabular formats are column-oriented: the header row names the variables,
// each column below it lists that variable's values. Ragged columns are
// fine; blank cells are skipped.
package varimport

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// Load reads a variable set, dispatching on the file extension.
func Load(path string) (*model.VariableSet, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx":
		return LoadXLSX(path)
	case ".yaml", ".yml":
		return LoadYAML(path)
	default:
		return nil, eris.Errorf("varimport: unsupported file type %q (want .csv, .xlsx, .yaml)", filepath.Ext(path))
	}
}

// LoadYAML reads a mapping of variable name to value list.
func LoadYAML(path string) (*model.VariableSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "varimport: read yaml")
	}

	var values map[string][]string
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, eris.Wrap(err, "varimport: parse yaml")
	}
	return fromValues(values)
}

// fromValues normalizes and validates a parsed mapping: names and values
// are trimmed, blank values dropped, duplicate values collapsed.
func fromValues(raw map[string][]string) (*model.VariableSet, error) {
	set := &model.VariableSet{Values: make(map[string][]string, len(raw))}
	for name, list := range raw {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, eris.New("varimport: blank variable name")
		}
		if _, ok := set.Values[name]; ok {
			return nil, eris.Errorf("varimport: duplicate variable %q", name)
		}

		seen := make(map[string]bool, len(list))
		var values []string
		for _, v := range list {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
		set.Values[name] = values
	}
	if len(set.Values) == 0 {
		return nil, eris.New("varimport: no variables found")
	}
	return set, nil
}

// fromRows converts header-plus-columns tabular data into a variable set.
func fromRows(rows [][]string) (*model.VariableSet, error) {
	if len(rows) == 0 {
		return nil, eris.New("varimport: file has no header row")
	}

	header := rows[0]
	raw := make(map[string][]string, len(header))
	order := make([]string, 0, len(header))
	for col, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, eris.Errorf("varimport: blank header in column %d", col+1)
		}
		if _, ok := raw[name]; ok {
			return nil, eris.Errorf("varimport: duplicate variable %q", name)
		}
		raw[name] = nil
		order = append(order, name)
	}

	for _, row := range rows[1:] {
		for col, cell := range row {
			if col >= len(order) {
				break
			}
			raw[order[col]] = append(raw[order[col]], cell)
		}
	}
	return fromValues(raw)
}
