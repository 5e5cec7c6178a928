// Package varspace computes and iterates the combinatorial space of a
// template's variables in a fixed, restart-stable order.
package varspace

import (
	"fmt"

	"github.com/rotisserie/eris"

	"github.com/sells-group/pagegen-cli/internal/model"
)

// TooLargeError is raised when the combination space exceeds the configured
// ceiling and no explicit subset was requested. Raised before any per-item
// work begins.
type TooLargeError struct {
	Size int64
	Max  int64
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("varspace: combination space of %d exceeds max %d; narrow the selection or raise the ceiling", e.Size, e.Max)
}

// InvalidCombinationError reports a combination whose values do not exist in
// the variable set. Per-item, non-fatal.
type InvalidCombinationError struct {
	Variable string
	Value    string
}

func (e *InvalidCombinationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("varspace: combination is missing variable %q", e.Variable)
	}
	return fmt.Sprintf("varspace: value %q is not in the list for variable %q", e.Value, e.Variable)
}

// Space holds per-variable value lists in template declaration order.
type Space struct {
	vars   []string
	values [][]string
}

// New builds a Space from a template's declared variables and a variable
// set. A variable absent from the set (or bound to an empty list) yields a
// zero-size space, not an error.
func New(tmpl *model.Template, set *model.VariableSet) (*Space, error) {
	if tmpl == nil {
		return nil, eris.New("varspace: template is nil")
	}
	if set == nil {
		return nil, eris.New("varspace: variable set is nil")
	}

	s := &Space{
		vars:   append([]string(nil), tmpl.Variables...),
		values: make([][]string, len(tmpl.Variables)),
	}
	for i, v := range tmpl.Variables {
		s.values[i] = append([]string(nil), set.Values[v]...)
	}
	return s, nil
}

// Variables returns the variable names in declaration order.
func (s *Space) Variables() []string {
	return append([]string(nil), s.vars...)
}

// Size returns the product of per-variable value-list lengths. Zero if any
// list is empty.
func (s *Space) Size() int64 {
	if len(s.vars) == 0 {
		return 0
	}
	size := int64(1)
	for _, list := range s.values {
		n := int64(len(list))
		if n == 0 {
			return 0
		}
		size *= n
	}
	return size
}

// Guard returns a TooLargeError if the full space exceeds maxSpace and no
// explicit subset was requested. Fail fast, before downstream work.
func (s *Space) Guard(maxSpace int64, subsetRequested bool) error {
	if subsetRequested || maxSpace <= 0 {
		return nil
	}
	if size := s.Size(); size > maxSpace {
		return &TooLargeError{Size: size, Max: maxSpace}
	}
	return nil
}

// At returns the combination at position i in lexicographic order: the first
// declared variable is the most significant digit, the last cycles fastest.
func (s *Space) At(i int64) model.Combination {
	c := make(model.Combination, len(s.vars))
	for idx := len(s.vars) - 1; idx >= 0; idx-- {
		list := s.values[idx]
		n := int64(len(list))
		c[s.vars[idx]] = list[i%n]
		i /= n
	}
	return c
}

// Iterate yields up to limit combinations starting at offset, in the fixed
// lexicographic order (variable declaration order, then value-list order).
// Repeated calls with the same offset/limit are stable across restarts.
func (s *Space) Iterate(offset, limit int64) []model.Combination {
	size := s.Size()
	if offset < 0 {
		offset = 0
	}
	if offset >= size {
		return nil
	}
	end := size
	if limit > 0 && offset+limit < size {
		end = offset + limit
	}

	out := make([]model.Combination, 0, end-offset)
	for i := offset; i < end; i++ {
		out = append(out, s.At(i))
	}
	return out
}

// ValidateCombination checks that the combination assigns a known value to
// every declared variable.
func (s *Space) ValidateCombination(c model.Combination) error {
	for i, v := range s.vars {
		val, ok := c[v]
		if !ok {
			return &InvalidCombinationError{Variable: v}
		}
		found := false
		for _, candidate := range s.values[i] {
			if candidate == val {
				found = true
				break
			}
		}
		if !found {
			return &InvalidCombinationError{Variable: v, Value: val}
		}
	}
	return nil
}
