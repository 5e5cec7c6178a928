package model

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"
)

// Combination assigns exactly one value to each template variable.
type Combination map[string]string

// Pair is a single (variable, value) assignment.
type Pair struct {
	Variable string `json:"variable"`
	Value    string `json:"value"`
}

// Pairs returns the assignments sorted by variable name. This is the
// canonical form used for hashing, independent of how the combination was
// constructed or iterated.
func (c Combination) Pairs() []Pair {
	pairs := make([]Pair, 0, len(c))
	for k, v := range c {
		pairs = append(pairs, Pair{Variable: k, Value: v})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Variable < pairs[j].Variable })
	return pairs
}

// Key returns the stable identifier for this combination: FNV-1a over the
// sorted (variable, value) pairs. Identical logical combinations always map
// to the same key regardless of construction order.
func (c Combination) Key() string {
	h := fnv.New64a()
	for _, p := range c.Pairs() {
		h.Write([]byte(p.Variable))
		h.Write([]byte{0x1f})
		h.Write([]byte(p.Value))
		h.Write([]byte{0x1e})
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// String renders the combination as "Var=Value" pairs in canonical order.
func (c Combination) String() string {
	pairs := c.Pairs()
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = p.Variable + "=" + p.Value
	}
	return strings.Join(parts, ", ")
}

// Clone returns a copy of the combination.
func (c Combination) Clone() Combination {
	out := make(Combination, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
