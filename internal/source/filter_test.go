package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonResearchTitle(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Issue Information", true},
		{"issue information - TOC", true},
		{"Table of Contents", true},
		{"Cover Image: Volume 129", true},
		{"Editorial Board", true},
		{"Letter from the Editor", true},
		{"Correction to: Deep circulation in the Weddell Sea", true},
		{"Front Matter", true},
		{"Mesoscale eddies and their role in heat transport", false},
		{"Observations of internal tides in the Tasman Sea", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, NonResearchTitle(tt.title))
		})
	}
}
