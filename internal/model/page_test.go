package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordCount_AllTextFields(t *testing.T) {
	p := &GeneratedPage{
		Title: "Yoga Studio in Austin",
		H1:    "Open a Yoga Studio",
		Sections: []RenderedSection{
			{Heading: "Market", Body: "Demand is strong here."},
			{Body: "Competition stays moderate."},
		},
	}

	// 4 + 4 + 1 + 4 + 3
	assert.Equal(t, 16, p.WordCount())
}

func TestWordCount_EmptyPage(t *testing.T) {
	p := &GeneratedPage{}
	assert.Equal(t, 0, p.WordCount())
}
