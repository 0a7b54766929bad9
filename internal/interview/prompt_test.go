package interview

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeTurnPositionAndTermination(t *testing.T) {
	c := NewComposer(CategoryClinical, "", "session-a", DefaultOptions())

	got := c.Compose(3, 10, nil)

	assert.Contains(t, got, "This is question 3 of 10.")
	assert.Contains(t, got, "When you reach question 10")
	assert.Contains(t, got, terminationPhrase)
	assert.Contains(t, got, closingSentence)
}

func TestComposeInjectsExclusionListVerbatim(t *testing.T) {
	c := NewComposer(CategoryClinical, "", "session-a", DefaultOptions())
	asked := []string{
		"What receptors does epinephrine act on?",
		"Why would you choose etomidate over propofol?",
		"What is the mechanism of action of rocuronium?",
	}

	got := c.Compose(4, 10, asked)

	for _, q := range asked {
		assert.Contains(t, got, q, "every previously asked question must appear verbatim")
	}
	assert.Contains(t, got, "Do NOT ask any of these questions again")
	assert.Contains(t, got, "close rewordings")
}

func TestComposeNonStrictOmitsExclusionList(t *testing.T) {
	c := NewComposer(CategoryClinical, "", "session-a", Options{MaxTurns: 7, StrictExclusion: false})
	asked := []string{"What is preload?"}

	got := c.Compose(2, 7, asked)

	assert.NotContains(t, got, "What is preload?")
	// The generic no-repeat directive stays even in the legacy mode.
	assert.Contains(t, got, "Do NOT repeat questions")
}

func TestComposeEmptyExclusionListHasNoDirectiveBlock(t *testing.T) {
	c := NewComposer(CategoryEmotional, "", "session-a", DefaultOptions())
	got := c.Compose(1, 10, nil)
	assert.NotContains(t, got, "already asked the following questions")
}

func TestComposeCategoryGuidance(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		topic    string
		contains string
	}{
		{name: "emotional", category: CategoryEmotional, contains: "Emotional Intelligence and behavioral questions"},
		{name: "clinical", category: CategoryClinical, contains: "ONE specific topic at a time"},
		{name: "clinical forbids compounding", category: CategoryClinical, contains: "Do NOT create complex multi-part scenarios"},
		{name: "mixed", category: CategoryMixed, contains: "balanced MIX of Emotional Intelligence and Clinical"},
		{name: "custom folds topic", category: CategoryCustom, topic: "Leadership in the ICU", contains: "Leadership in the ICU"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewComposer(tt.category, tt.topic, "session-a", DefaultOptions())
			assert.Contains(t, c.Compose(1, 10, nil), tt.contains)
		})
	}
}

func TestEmotionalRotationCoversAllTopicsBeforeRepeating(t *testing.T) {
	c := NewComposer(CategoryEmotional, "", "session-rotation", DefaultOptions())

	seen := make(map[string]int)
	for turn := 1; turn <= len(emotionalTopics); turn++ {
		got := c.Compose(turn, 10, nil)
		matched := ""
		for _, topic := range emotionalTopics {
			if strings.Contains(got, topic) {
				matched = topic
				break
			}
		}
		require.NotEmpty(t, matched, "turn %d guidance names no known topic", turn)
		seen[matched]++
	}

	assert.Len(t, seen, len(emotionalTopics), "every topic must be used once before any repeats")
	for topic, n := range seen {
		assert.Equal(t, 1, n, "topic %q repeated before the rotation was exhausted", topic)
	}
}

func TestEmotionalRotationSeededBySession(t *testing.T) {
	order := func(sessionID string) []string {
		c := NewComposer(CategoryEmotional, "", sessionID, DefaultOptions())
		var out []string
		for turn := 1; turn <= len(emotionalTopics); turn++ {
			got := c.Compose(turn, 10, nil)
			for _, topic := range emotionalTopics {
				if strings.Contains(got, topic) {
					out = append(out, topic)
					break
				}
			}
		}
		return out
	}

	// Same session id yields the same rotation.
	assert.Equal(t, order("session-a"), order("session-a"))

	// Distinct sessions should not all share one rotation; with ten topics a
	// collision across several seeds is vanishingly unlikely.
	distinct := false
	base := order("seed-0")
	for i := 1; i <= 5; i++ {
		if fmt.Sprint(order(fmt.Sprintf("seed-%d", i))) != fmt.Sprint(base) {
			distinct = true
			break
		}
	}
	assert.True(t, distinct, "rotation order never varied across session seeds")
}

func TestComposeVariesSeedAcrossCalls(t *testing.T) {
	c := NewComposer(CategoryClinical, "", "session-a", DefaultOptions())
	a := c.Compose(2, 10, nil)
	b := c.Compose(2, 10, nil)
	assert.NotEqual(t, a, b, "repeated composition should mix in a fresh random seed")
}
