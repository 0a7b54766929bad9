package interview

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/asealnassar/crna-prep-hub/internal/observability"
)

// State of a session. No transition leaves StateEnded.
type State int

const (
	StateNotStarted State = iota
	StateInProgress
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Sentinel errors for invalid transitions and entitlement denial. All are
// rejected synchronously with no state mutation and no model call.
var (
	ErrNotEntitled    = errors.New("interview quota exhausted for this tier")
	ErrAlreadyStarted = errors.New("session already started")
	ErrNotStarted     = errors.New("session not started")
	ErrEnded          = errors.New("session has ended")
	ErrEmptyAnswer    = errors.New("answer must not be empty")
	ErrAnswerPending  = errors.New("a model response is still pending")
	ErrMissingTopic   = errors.New("custom topic is required for the custom category")
)

// Fixed messages substituted locally; no failure in this engine is fatal.
const (
	seedUserMessage = "Please start the mock interview with your first question. " +
		"Do not open by asking why I want to become a CRNA."
	fallbackOpening = "Welcome! Let's begin your mock interview. Tell me, why do you want to become a CRNA?"
	fallbackApology = "I apologize, but I encountered an error. Please try again."
	closingMessage  = "This concludes our interview. Thank you for practicing with CRNA Prep Hub! " +
		"Review your responses and keep preparing. Good luck with your CRNA applications! 🎉"
)

// Controller owns one session's state machine: turn counter, transcript,
// asked-question exclusion list and termination detection. Construct a fresh
// controller per session and discard it on reset; instances are never reused
// across sessions.
type Controller struct {
	model    ModelClient
	recorder UsageRecorder
	opts     Options

	mu          sync.Mutex
	state       State
	pending     bool
	generation  int // bumped on reset so in-flight replies are discarded
	sessionID   string
	userID      uuid.UUID
	category    Category
	customTopic string
	turnIndex   int
	maxTurns    int
	transcript  *Transcript
	asked       []string
	composer    *Composer
}

// NewController creates a controller in the NotStarted state.
func NewController(model ModelClient, recorder UsageRecorder, opts Options) *Controller {
	if opts.MaxTurns <= 0 {
		opts = DefaultOptions()
	}
	return &Controller{
		model:      model,
		recorder:   recorder,
		opts:       opts,
		transcript: &Transcript{},
	}
}

// StartParams carries the entitlement inputs alongside the category choice.
// Tier and InterviewCount come from the external profile store.
type StartParams struct {
	UserID         uuid.UUID
	Tier           Tier
	InterviewCount int
	Category       Category
	CustomTopic    string
}

// StartResult reports the opening state of a started session.
type StartResult struct {
	SessionID string
	Message   Message
	TurnIndex int
	MaxTurns  int
}

// Start begins a session. Valid only in NotStarted and only when the
// entitlement gate allows it. The usage increment for non-unlimited tiers is
// attempted synchronously before the first model call; it is a commitment,
// not a completion signal, and reset never refunds it. A model failure on
// start degrades to a fixed opening question rather than failing the session.
func (c *Controller) Start(ctx context.Context, p StartParams) (*StartResult, error) {
	c.mu.Lock()
	if c.state != StateNotStarted {
		c.mu.Unlock()
		return nil, ErrAlreadyStarted
	}
	if !CanStart(p.Tier, p.InterviewCount) {
		c.mu.Unlock()
		return nil, ErrNotEntitled
	}
	if p.Category == CategoryCustom && strings.TrimSpace(p.CustomTopic) == "" {
		c.mu.Unlock()
		return nil, ErrMissingTopic
	}

	log := observability.LoggerFromContext(ctx).With(
		"user_id", p.UserID,
		"category", p.Category,
	)

	if !p.Tier.Unlimited() {
		// Spend the free session before any content is produced so a crash
		// after this point cannot grant an extra session by reload.
		if err := c.recorder.RecordSessionStart(ctx, p.UserID); err != nil {
			log.Error("failed to record interview usage", "error", err)
		}
	}

	c.sessionID = uuid.NewString()
	c.userID = p.UserID
	c.category = p.Category
	c.customTopic = p.CustomTopic
	c.turnIndex = 1
	c.maxTurns = c.opts.MaxTurns
	c.transcript.Clear()
	c.asked = nil
	c.composer = NewComposer(p.Category, p.CustomTopic, c.sessionID, c.opts)

	instruction := c.composer.Compose(c.turnIndex, c.maxTurns, nil)
	seed := []Message{{Role: RoleUser, Content: seedUserMessage}}
	gen := c.generation
	c.pending = true
	c.mu.Unlock()

	reply, err := c.model.Chat(ctx, instruction, seed)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	if gen != c.generation {
		// Reset raced the model call; the session is gone.
		return nil, ErrNotStarted
	}

	var opening Message
	if err != nil {
		log.Error("model call failed on start, using fallback opener", "error", err)
		opening = Message{Role: RoleAssistant, Content: fallbackOpening}
		c.transcript.Append(opening)
	} else {
		opening = Message{Role: RoleAssistant, Content: reply}
		c.transcript.Append(opening)
		c.asked = append(c.asked, deriveAskedQuestion(reply))
	}
	c.state = StateInProgress

	log.Info("interview session started", "session_id", c.sessionID)

	return &StartResult{
		SessionID: c.sessionID,
		Message:   opening,
		TurnIndex: c.turnIndex,
		MaxTurns:  c.maxTurns,
	}, nil
}

// TurnResult reports the assistant reply for one submitted answer.
type TurnResult struct {
	Message   Message
	TurnIndex int
	Ended     bool
}

// SubmitAnswer appends the candidate's answer, advances the turn counter and
// produces the next interviewer message. Once the counter passes MaxTurns the
// fixed closing message is emitted with no model call; otherwise the model may
// end the session early by emitting the termination phrase. A mid-session
// model failure degrades to a fixed apology and the session stays in
// progress so the candidate can retry.
func (c *Controller) SubmitAnswer(ctx context.Context, userText string) (*TurnResult, error) {
	c.mu.Lock()
	switch c.state {
	case StateNotStarted:
		c.mu.Unlock()
		return nil, ErrNotStarted
	case StateEnded:
		c.mu.Unlock()
		return nil, ErrEnded
	}
	if strings.TrimSpace(userText) == "" {
		c.mu.Unlock()
		return nil, ErrEmptyAnswer
	}
	if c.pending {
		c.mu.Unlock()
		return nil, ErrAnswerPending
	}

	c.transcript.Append(Message{Role: RoleUser, Content: userText})
	c.turnIndex++

	if c.turnIndex > c.maxTurns {
		// Hard backstop: the conversation cannot run unbounded regardless
		// of model behavior. No model call for the overflow turn.
		closing := Message{Role: RoleAssistant, Content: closingMessage}
		c.transcript.Append(closing)
		c.state = StateEnded
		turn := c.turnIndex
		c.mu.Unlock()
		return &TurnResult{Message: closing, TurnIndex: turn, Ended: true}, nil
	}

	instruction := c.composer.Compose(c.turnIndex, c.maxTurns, c.asked)
	history := c.transcript.All()
	gen := c.generation
	c.pending = true
	c.mu.Unlock()

	reply, err := c.model.Chat(ctx, instruction, history)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	if gen != c.generation {
		return nil, ErrNotStarted
	}

	if err != nil {
		observability.LoggerFromContext(ctx).Error("model call failed mid-session",
			"session_id", c.sessionID,
			"turn", c.turnIndex,
			"error", err)
		apology := Message{Role: RoleAssistant, Content: fallbackApology}
		c.transcript.Append(apology)
		return &TurnResult{Message: apology, TurnIndex: c.turnIndex, Ended: false}, nil
	}

	msg := Message{Role: RoleAssistant, Content: reply}
	c.transcript.Append(msg)
	c.asked = append(c.asked, deriveAskedQuestion(reply))

	ended := strings.Contains(reply, terminationPhrase)
	if ended {
		c.state = StateEnded
	}

	return &TurnResult{Message: msg, TurnIndex: c.turnIndex, Ended: ended}, nil
}

// Reset clears all session state and returns to NotStarted. Valid in any
// state and idempotent. The usage increment from Start is not refunded. Any
// in-flight model reply is discarded when it arrives.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.pending = false
	c.state = StateNotStarted
	c.sessionID = ""
	c.category = ""
	c.customTopic = ""
	c.turnIndex = 0
	c.maxTurns = 0
	c.transcript.Clear()
	c.asked = nil
	c.composer = nil
}

// Snapshot is a read-only view of the session for the transcript endpoint.
type Snapshot struct {
	SessionID  string    `json:"session_id"`
	Category   Category  `json:"category"`
	State      string    `json:"state"`
	TurnIndex  int       `json:"turn"`
	MaxTurns   int       `json:"max_turns"`
	Transcript []Message `json:"transcript"`
}

// Snapshot returns the current session view.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		SessionID:  c.sessionID,
		Category:   c.category,
		State:      c.state.String(),
		TurnIndex:  c.turnIndex,
		MaxTurns:   c.maxTurns,
		Transcript: c.transcript.All(),
	}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UserID returns the owner of the session.
func (c *Controller) UserID() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userID
}

// AskedQuestions returns a copy of the exclusion list.
func (c *Controller) AskedQuestions() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.asked))
	copy(out, c.asked)
	return out
}
