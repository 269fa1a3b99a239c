package services

import "strings"

// DeactivationPolicy decides whether a gateway rejection means the
// recipient is permanently unreachable.
type DeactivationPolicy interface {
	ShouldDeactivate(description string) bool
}

// PhrasePolicy matches gateway error descriptions against a list of
// phrases, case-insensitively, by substring.
type PhrasePolicy struct {
	phrases []string
}

// DefaultDeactivationPhrases cover the Telegram errors for deleted chats,
// blocked bots and deactivated accounts.
var DefaultDeactivationPhrases = []string{"chat not found", "blocked", "user deactivated"}

// NewPhrasePolicy builds a policy from phrases. Blank entries are dropped;
// an empty list falls back to DefaultDeactivationPhrases.
func NewPhrasePolicy(phrases ...string) *PhrasePolicy {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		for _, p := range DefaultDeactivationPhrases {
			out = append(out, p)
		}
	}
	return &PhrasePolicy{phrases: out}
}

// ShouldDeactivate implements DeactivationPolicy.
func (p *PhrasePolicy) ShouldDeactivate(description string) bool {
	d := strings.ToLower(description)
	for _, phrase := range p.phrases {
		if strings.Contains(d, phrase) {
			return true
		}
	}
	return false
}

// Phrases returns a copy of the configured phrases.
func (p *PhrasePolicy) Phrases() []string {
	return append([]string(nil), p.phrases...)
}
