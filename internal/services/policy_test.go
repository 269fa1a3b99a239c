package services

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPhrasePolicy_Defaults(t *testing.T) {
	p := NewPhrasePolicy()
	if !reflect.DeepEqual(p.Phrases(), DefaultDeactivationPhrases) {
		t.Fatalf("phrases = %v", p.Phrases())
	}
	cases := map[string]bool{
		"Bad Request: chat not found":            true,
		"Forbidden: bot was blocked by the user": true,
		"Forbidden: user deactivated":            true,
		"Too Many Requests: retry after 5":       false,
		"":                                       false,
	}
	for desc, want := range cases {
		if got := p.ShouldDeactivate(desc); got != want {
			t.Errorf("ShouldDeactivate(%q) = %v; want %v", desc, got, want)
		}
	}
}

func TestPhrasePolicy_CustomPhrases(t *testing.T) {
	p := NewPhrasePolicy("  Kicked ", "", "bot can't initiate")
	if !reflect.DeepEqual(p.Phrases(), []string{"kicked", "bot can't initiate"}) {
		t.Fatalf("phrases = %v", p.Phrases())
	}
	if !p.ShouldDeactivate("Forbidden: bot was KICKED from the group chat") {
		t.Fatalf("expected match on custom phrase")
	}
	if p.ShouldDeactivate("Forbidden: bot was blocked by the user") {
		t.Fatalf("custom list replaces the defaults")
	}
}

func TestPhrasePolicy_BlankListFallsBack(t *testing.T) {
	p := NewPhrasePolicy(" ", "")
	if len(p.Phrases()) != len(DefaultDeactivationPhrases) {
		t.Fatalf("expected defaults, got %v", p.Phrases())
	}
}

func TestNormalizeProfileFields(t *testing.T) {
	if got := normalizeUsername("  @power bot "); got != "powerbot" {
		t.Fatalf("username = %q", got)
	}
	// "e" + combining acute becomes the precomposed rune.
	if got := normalizeName("Rene\u0301\t\n Dupont"); got != "Ren\u00e9 Dupont" {
		t.Fatalf("name = %q", got)
	}
	long := strings.Repeat("я", 300)
	if got := normalizeName(long); utf8.RuneCountInString(got) != maxProfileRunes {
		t.Fatalf("expected clip to %d runes, got %d", maxProfileRunes, utf8.RuneCountInString(got))
	}
}
