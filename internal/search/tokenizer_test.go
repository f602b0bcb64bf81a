package search_test

import (
	"testing"

	"gigtune/internal/search"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "lowercases and splits",
			input: "Jazz Quartet",
			want:  []string{"jazz", "quartet"},
		},
		{
			name:  "strips markup",
			input: "<b>Funk</b> band <script>alert(1)</script>",
			want:  []string{"funk", "band", "alert"},
		},
		{
			name:  "punctuation becomes separators",
			input: "rock&roll, soul/funk!",
			want:  []string{"rock", "roll", "soul", "funk"},
		},
		{
			name:  "hyphens survive",
			input: "live-band tribute-act",
			want:  []string{"live-band", "tribute-act"},
		},
		{
			name:  "short tokens dropped",
			input: "a DJ in a bar",
			want:  []string{"dj", "in", "bar"},
		},
		{
			name:  "duplicates removed keeping first position",
			input: "jazz jazz JAZZ trio",
			want:  []string{"jazz", "trio"},
		},
		{
			name:  "empty input",
			input: "   ",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, search.Tokenize(tt.input))
		})
	}
}
