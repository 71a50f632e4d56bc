package moderation

import (
	"strings"
	"testing"

	"glsecurity-bot/internal/settings"
)

type fakeInvites struct {
	own map[string]bool
}

func (f fakeInvites) IsOwnInvite(code string) bool {
	return f.own[code]
}

func TestPrivilegedAuthorExempt(t *testing.T) {
	s := settings.Defaults("g1")
	decision := Evaluate("you fdp http://bad.co/x discord.gg/abc", true, s, []string{"fdp"}, fakeInvites{})
	if decision.Violated() {
		t.Fatalf("expected no violation for privileged author, got %s", decision.Type)
	}
}

func TestProfanityFirstMatchWins(t *testing.T) {
	s := settings.Defaults("g1")
	words := []string{"fdp", "idiota"}

	decision := Evaluate("you FDP idiota", false, s, words, fakeInvites{})
	if decision.Type != TypeProfaneWord {
		t.Fatalf("expected PROFANE_WORD, got %q", decision.Type)
	}
	if !strings.Contains(decision.Reason, "fdp") {
		t.Fatalf("expected reason to cite first matched word, got %q", decision.Reason)
	}
}

func TestProfanityDisabled(t *testing.T) {
	s := settings.Defaults("g1")
	s.BlockProfaneWords = false
	s.BlockLinks = false
	s.BlockInvites = false

	if decision := Evaluate("you fdp", false, s, []string{"fdp"}, fakeInvites{}); decision.Violated() {
		t.Fatalf("expected no violation with all checks disabled, got %s", decision.Type)
	}
}

func TestLinkDetection(t *testing.T) {
	s := settings.Defaults("g1")

	decision := Evaluate("check this out http://evil.example/x", false, s, nil, fakeInvites{})
	if decision.Type != TypeLink {
		t.Fatalf("expected LINK, got %q", decision.Type)
	}

	if decision := Evaluate("no links here, just words", false, s, nil, fakeInvites{}); decision.Violated() {
		t.Fatalf("unexpected violation: %s", decision.Type)
	}
}

func TestLinkReasonNamesHost(t *testing.T) {
	s := settings.Defaults("g1")
	decision := Evaluate("see HTTPS://Example.com/page", false, s, nil, fakeInvites{})
	if decision.Type != TypeLink {
		t.Fatalf("expected LINK, got %q", decision.Type)
	}
	if !strings.Contains(decision.Reason, "example.com") {
		t.Fatalf("expected reason to name the host, got %q", decision.Reason)
	}
}

func TestProfanityBeatsLink(t *testing.T) {
	s := settings.Defaults("g1")
	decision := Evaluate("fdp http://bad.co/x", false, s, []string{"fdp"}, fakeInvites{})
	if decision.Type != TypeProfaneWord {
		t.Fatalf("expected first match to win, got %q", decision.Type)
	}
}

func TestInviteDetection(t *testing.T) {
	s := settings.Defaults("g1")
	s.BlockLinks = false

	decision := Evaluate("join discord.gg/AbC123", false, s, nil, fakeInvites{})
	if decision.Type != TypeInvite {
		t.Fatalf("expected INVITE, got %q", decision.Type)
	}
	if !strings.Contains(decision.Reason, "AbC123") {
		t.Fatalf("expected reason to cite the invite code, got %q", decision.Reason)
	}
}

func TestSelfInviteExempt(t *testing.T) {
	s := settings.Defaults("g1")
	s.BlockLinks = false

	checker := fakeInvites{own: map[string]bool{"AbC123": true}}
	if decision := Evaluate("join discord.gg/AbC123", false, s, nil, checker); decision.Violated() {
		t.Fatalf("expected self-invite to be exempt, got %s", decision.Type)
	}
}

func TestSingleViolationPerMessage(t *testing.T) {
	s := settings.Defaults("g1")
	decision := Evaluate("fdp http://bad.co/x discord.gg/abc", false, s, []string{"fdp"}, fakeInvites{})
	if decision.Type != TypeProfaneWord {
		t.Fatalf("expected exactly the highest-priority violation, got %q", decision.Type)
	}
}
