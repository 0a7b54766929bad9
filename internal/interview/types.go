// Package interview implements the AI mock-interview conversation engine:
// entitlement gating, per-session prompt composition with an exclusion list
// of previously asked questions, and a bounded turn-taking state machine.
package interview

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Category selects the topical focus of a mock interview. It is fixed for
// the lifetime of a session.
type Category string

const (
	CategoryEmotional Category = "emotional"
	CategoryClinical  Category = "clinical"
	CategoryMixed     Category = "mixed"
	CategoryCustom    Category = "custom"
)

// ParseCategory validates a category string from a request.
func ParseCategory(s string) (Category, error) {
	switch Category(s) {
	case CategoryEmotional, CategoryClinical, CategoryMixed, CategoryCustom:
		return Category(s), nil
	default:
		return "", fmt.Errorf("unknown interview category %q", s)
	}
}

// Role tags a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a session transcript.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ModelClient is the boundary contract with the language-model collaborator.
// The model is stateless between calls, so every request carries a freshly
// composed instruction plus the entire accumulated transcript.
type ModelClient interface {
	Chat(ctx context.Context, instruction string, messages []Message) (string, error)
}

// UsageRecorder persists the per-user interview-usage increment. The write
// happens synchronously before the first model call; a failure is reported to
// the caller but does not block the interview.
type UsageRecorder interface {
	RecordSessionStart(ctx context.Context, userID uuid.UUID) error
}

// Options configures the engine. The zero value is not useful; use
// DefaultOptions. The legacy lighter-weight flow is reachable by lowering
// MaxTurns and disabling StrictExclusion.
type Options struct {
	// MaxTurns is the hard backstop on the number of candidate answers.
	MaxTurns int
	// StrictExclusion injects the full list of previously asked questions
	// into every prompt. When false only a generic no-repeat directive is
	// sent, matching the older flow.
	StrictExclusion bool
}

// DefaultOptions returns the canonical ten-question configuration.
func DefaultOptions() Options {
	return Options{MaxTurns: 10, StrictExclusion: true}
}
