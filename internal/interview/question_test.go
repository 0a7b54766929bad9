package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveAskedQuestion(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		want  string
	}{
		{
			name:  "plain question",
			reply: "What receptors does epinephrine act on?",
			want:  "What receptors does epinephrine act on?",
		},
		{
			name:  "text after the question mark is dropped",
			reply: "Why choose etomidate over propofol? Take your time.",
			want:  "Why choose etomidate over propofol?",
		},
		{
			name:  "no question mark keeps the full reply",
			reply: "Tell me about a difficult shift.",
			want:  "Tell me about a difficult shift.",
		},
		{
			name:  "feedback preamble with a question mark mis-captures",
			reply: "Good, right? Now, what is preload?",
			want:  "Good, right?",
		},
		{
			name:  "leading whitespace trimmed",
			reply: "  What is MAC?",
			want:  "What is MAC?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, deriveAskedQuestion(tt.reply))
		})
	}
}
