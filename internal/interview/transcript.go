package interview

// Transcript is the session-scoped ordered log of role-tagged messages.
// It is append-only while a session is live and never persisted; the owning
// controller clears it on reset.
type Transcript struct {
	messages []Message
}

// Append adds a message to the end of the log.
func (t *Transcript) Append(msg Message) {
	t.messages = append(t.messages, msg)
}

// All returns a copy of the log in order.
func (t *Transcript) All() []Message {
	out := make([]Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.messages)
}

// Clear discards all messages.
func (t *Transcript) Clear() {
	t.messages = nil
}
