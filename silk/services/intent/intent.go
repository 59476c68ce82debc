// Package intent classifies the conversation stage from the latest user
// message and composes the system prompt that steers the AI gateway.
package intent

import "strings"

type Intent string

const (
	LoanInquiry    Intent = "loan_inquiry"
	EMINegotiation Intent = "emi_negotiation"
	Approval       Intent = "approval"
	NeedsEmpathy   Intent = "needs_empathy"
	General        Intent = "general"
)

// classification order is fixed; the first matching keyword set wins
var intentOrder = []Intent{LoanInquiry, EMINegotiation, Approval, NeedsEmpathy}

var defaultKeywords = map[Intent][]string{
	LoanInquiry:    {"loan", "borrow", "money"},
	EMINegotiation: {"emi", "payment", "interest"},
	Approval:       {"approve", "accept", "yes"},
	NeedsEmpathy:   {"worried", "scared", "anxious"},
}

// Ruleset holds the keyword sets and stage prompts used for a deployment.
// The zero value is not usable; construct via DefaultRuleset or LoadRuleset.
type Ruleset struct {
	keywords map[Intent][]string
	base     string
	stages   map[Intent]string
}

func DefaultRuleset() *Ruleset {
	keywords := make(map[Intent][]string, len(defaultKeywords))
	for it, words := range defaultKeywords {
		keywords[it] = append([]string(nil), words...)
	}
	stages := make(map[Intent]string, len(defaultStagePrompts))
	for it, text := range defaultStagePrompts {
		stages[it] = text
	}
	return &Ruleset{
		keywords: keywords,
		base:     basePrompt,
		stages:   stages,
	}
}

// Classify maps a user utterance to a conversation stage. Matching is
// case-insensitive substring containment in fixed priority order; anything
// that matches no keyword set is General.
func (r *Ruleset) Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, it := range intentOrder {
		for _, kw := range r.keywords[it] {
			if strings.Contains(lower, kw) {
				return it
			}
		}
	}
	return General
}

// ComposePrompt returns the system instruction for an intent: the base
// persona block followed by the stage block. Unknown intents fall back to
// the General stage, so the function is total.
func (r *Ruleset) ComposePrompt(it Intent) string {
	stage, ok := r.stages[it]
	if !ok {
		stage = r.stages[General]
	}
	return r.base + stage
}

var std = DefaultRuleset()

// Classify runs the default ruleset.
func Classify(text string) Intent { return std.Classify(text) }

// ComposePrompt runs the default ruleset.
func ComposePrompt(it Intent) string { return std.ComposePrompt(it) }
