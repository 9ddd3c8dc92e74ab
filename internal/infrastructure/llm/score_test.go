package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantScore   int
		wantMatcher string
		wantOK      bool
	}{
		{
			name:        "fraction form",
			input:       "I would rate this 8/10 for your interests.",
			wantScore:   8,
			wantMatcher: "fraction",
			wantOK:      true,
		},
		{
			name:        "fraction wins over later bare digit",
			input:       "Relevance: 7/10. The paper covers 3 regions.",
			wantScore:   7,
			wantMatcher: "fraction",
			wantOK:      true,
		},
		{
			name:        "fraction above range is clamped",
			input:       "An enthusiastic 15/10 from me.",
			wantScore:   10,
			wantMatcher: "fraction",
			wantOK:      true,
		},
		{
			name:        "labeled with colon",
			input:       "Score: 6\nExplanation: moderately relevant.",
			wantScore:   6,
			wantMatcher: "labeled",
			wantOK:      true,
		},
		{
			name:        "labeled with is",
			input:       "The relevance is 9 given the stated interests.",
			wantScore:   9,
			wantMatcher: "labeled",
			wantOK:      true,
		},
		{
			name:        "keyword proximity",
			input:       "Based on the rating criteria, I give it a 4.",
			wantScore:   4,
			wantMatcher: "keyword",
			wantOK:      true,
		},
		{
			name:        "bare digit as last resort",
			input:       "7",
			wantScore:   7,
			wantMatcher: "bare",
			wantOK:      true,
		},
		{
			name:   "no numeric content",
			input:  "This paper seems quite relevant to your interests.",
			wantOK: false,
		},
		{
			name:   "empty response",
			input:  "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, matcher, ok := extractScore(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantScore, score)
				assert.Equal(t, tt.wantMatcher, matcher)
			}
		})
	}
}

func TestExtractExplanation(t *testing.T) {
	got := extractExplanation("Score: 6\nExplanation: the methods overlap with ocean modeling.")
	assert.Equal(t, "the methods overlap with ocean modeling.", got)

	got = extractExplanation("8/10 because it directly addresses sea level variability.")
	assert.Equal(t, "it directly addresses sea level variability.", got)

	assert.Equal(t, "", extractExplanation("8/10"))
}

func TestClampScore(t *testing.T) {
	assert.Equal(t, 0, clampScore(-3))
	assert.Equal(t, 0, clampScore(0))
	assert.Equal(t, 10, clampScore(10))
	assert.Equal(t, 10, clampScore(42))
	assert.Equal(t, 5, clampScore(5))
}
