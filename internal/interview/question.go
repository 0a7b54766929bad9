package interview

import "strings"

// deriveAskedQuestion extracts the question text from an interviewer reply
// for the exclusion list: the substring up to and including the first '?',
// or the full reply when no '?' is present.
//
// This is a heuristic. A reply whose feedback preamble itself contains a
// question mark mis-captures the excluded text; kept for parity with the
// established flow rather than as a guaranteed-correct extraction.
func deriveAskedQuestion(reply string) string {
	if idx := strings.Index(reply, "?"); idx >= 0 {
		return strings.TrimSpace(reply[:idx+1])
	}
	return strings.TrimSpace(reply)
}
