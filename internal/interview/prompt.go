package interview

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

// terminationPhrase is the substring the controller scans for to detect that
// the model ended the interview on its own. The composed instruction tells
// the model to emit it verbatim after the final answer.
const terminationPhrase = "concludes our interview"

// closingSentence is the exact sentence the model is instructed to say when
// the interview reaches its final question.
const closingSentence = "This concludes our interview. Good luck with your CRNA applications!"

// Composer builds the system instruction sent to the model on each turn.
// One composer is created per session; the emotional rotation and the
// per-session shuffle are seeded from the session id so repeated sessions do
// not follow an identical sequence.
type Composer struct {
	strategy categoryStrategy
	strict   bool
	rng      *rand.Rand
	now      func() time.Time
}

// NewComposer creates a composer for one session.
func NewComposer(category Category, customTopic, sessionID string, opts Options) *Composer {
	rng := rand.New(rand.NewSource(seedFromSession(sessionID)))
	return &Composer{
		strategy: newCategoryStrategy(category, customTopic, rng),
		strict:   opts.StrictExclusion,
		rng:      rng,
		now:      time.Now,
	}
}

// Compose produces the instruction for the given turn. askedQuestions is the
// exclusion list accumulated so far; when non-empty and strict exclusion is
// on, each entry is included verbatim with a directive that none of them,
// nor close rewordings, may be asked again.
func (c *Composer) Compose(turnIndex, maxTurns int, askedQuestions []string) string {
	var b strings.Builder

	b.WriteString("You are an experienced CRNA program interviewer conducting a mock interview. ")
	b.WriteString("Be professional but friendly. Ask one question at a time. ")
	b.WriteString("After the candidate answers, provide brief constructive feedback (2-3 sentences) and then ask the next question. ")
	b.WriteString("Keep responses concise and helpful.\n\n")

	// Advisory steering only: the model is a free-text generator, so the
	// seed nudges phrasing without guaranteeing anything.
	seed := strconv.FormatInt(c.rng.Int63()^c.now().UnixNano(), 36)
	fmt.Fprintf(&b, "IMPORTANT: Generate unique, varied questions each time. Do NOT repeat questions. Use this random seed to vary your questions: %s\n\n", seed)

	fmt.Fprintf(&b, "This is question %d of %d. When you reach question %d, after their answer, "+
		"provide final overall feedback summarizing their strengths and areas to improve, then say %q\n",
		turnIndex, maxTurns, maxTurns, closingSentence)

	if c.strict && len(askedQuestions) > 0 {
		b.WriteString("\nYou have already asked the following questions in this interview:\n")
		for i, q := range askedQuestions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
		b.WriteString("Do NOT ask any of these questions again, and do not ask close rewordings of them.\n")
	}

	b.WriteString("\n")
	b.WriteString(c.strategy.buildGuidance(askedQuestions))

	return b.String()
}

func seedFromSession(sessionID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(sessionID))
	return int64(h.Sum64())
}

// categoryStrategy supplies the category-specific portion of the instruction.
type categoryStrategy interface {
	buildGuidance(askedQuestions []string) string
}

func newCategoryStrategy(category Category, customTopic string, rng *rand.Rand) categoryStrategy {
	switch category {
	case CategoryEmotional:
		return newEmotionalStrategy(rng)
	case CategoryClinical:
		return clinicalStrategy{}
	case CategoryMixed:
		return mixedStrategy{}
	case CategoryCustom:
		return customStrategy{topic: customTopic}
	default:
		return mixedStrategy{}
	}
}

// emotionalTopics are the behavioral question groups real CRNA programs draw
// from. The strategy rotates through them so no group repeats until all have
// been used once.
var emotionalTopics = []string{
	"handling stress and pressure in a critical-care setting",
	"conflict resolution with colleagues or supervisors",
	"accountability and owning up to a mistake",
	"receiving and acting on difficult feedback",
	"communicating with patients and their families",
	"motivation and fit for the CRNA profession",
	"work-life balance and the realities of a demanding program",
	"leadership and teamwork in the ICU",
	"ethical dilemmas in patient care",
	"self-awareness of strengths and weaknesses",
}

type emotionalStrategy struct {
	order []string
	next  int
}

func newEmotionalStrategy(rng *rand.Rand) *emotionalStrategy {
	order := make([]string, len(emotionalTopics))
	copy(order, emotionalTopics)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})
	return &emotionalStrategy{order: order}
}

func (s *emotionalStrategy) buildGuidance(_ []string) string {
	topic := s.order[s.next%len(s.order)]
	s.next++

	var b strings.Builder
	b.WriteString("Focus on Emotional Intelligence and behavioral questions that real CRNA programs ask.\n\n")
	fmt.Fprintf(&b, "For this question, draw from the topic: %s.\n\n", topic)
	b.WriteString(`Ask questions in varied formats: "Tell me about a time...", "How would you handle...", "Describe a situation where...", "What would you do if...", "Give an example of..."` + "\n\n")
	b.WriteString("Make each question unique and realistic to what CRNA admissions committees actually ask. Vary the scenarios and contexts.")
	return b.String()
}

type clinicalStrategy struct{}

func (clinicalStrategy) buildGuidance(_ []string) string {
	var b strings.Builder
	b.WriteString("Ask deep, focused clinical knowledge questions that CRNA school admissions committees ask. ")
	b.WriteString("Keep questions simple and direct - NO complex patient scenarios.\n\n")
	b.WriteString("Ask about ONE specific topic at a time such as:\n")
	b.WriteString("- Vasopressors: mechanism of action, receptor activity, when to use phenylephrine vs ephedrine vs norepinephrine\n")
	b.WriteString("- Sedation: differences between propofol, etomidate, ketamine, midazolam\n")
	b.WriteString("- Neuromuscular blockers: depolarizing vs non-depolarizing, succinylcholine contraindications, reversal agents\n")
	b.WriteString("- Opioids: differences between fentanyl, morphine, hydromorphone, remifentanil\n")
	b.WriteString("- Inhalation agents: MAC values, which agent for which situation\n")
	b.WriteString("- Airway: Mallampati classification, predictors of difficult airway\n")
	b.WriteString("- Monitoring: what does each number on the monitor tell you\n")
	b.WriteString("- Physiology: cardiac output, preload, afterload, oxygen delivery\n")
	b.WriteString("- Local anesthetics: amides vs esters, LAST symptoms and treatment\n\n")
	b.WriteString("Question format should be simple and direct like:\n")
	b.WriteString(`"What receptors does epinephrine act on?"` + "\n")
	b.WriteString(`"What is the mechanism of action of rocuronium?"` + "\n")
	b.WriteString(`"Why would you choose etomidate over propofol?"` + "\n\n")
	b.WriteString("Do NOT create complex multi-part scenarios. One clear question at a time.")
	return b.String()
}

type mixedStrategy struct{}

func (mixedStrategy) buildGuidance(_ []string) string {
	var b strings.Builder
	b.WriteString("Ask a balanced MIX of Emotional Intelligence and Clinical questions, alternating between them.\n\n")
	b.WriteString("For Emotional Intelligence: Draw from self-awareness, empathy, stress management, conflict resolution, teamwork, communication, leadership, handling failure, and ethical dilemmas.\n\n")
	b.WriteString("For Clinical: Draw from pharmacology, physiology, airway management, hemodynamics, anesthesia complications, patient assessment, and emergency scenarios.\n\n")
	b.WriteString("Make each question unique and varied. Do not follow a predictable pattern. These should reflect real CRNA program interview questions.")
	return b.String()
}

type customStrategy struct {
	topic string
}

func (s customStrategy) buildGuidance(_ []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Focus the interview on this specific topic: %s\n\n", s.topic)
	b.WriteString("Generate unique, thoughtful questions related to this topic that would help someone prepare for a CRNA program interview. ")
	b.WriteString("Vary the question format and specific scenarios. Ask questions that an admissions committee might realistically ask about this topic.")
	return b.String()
}
