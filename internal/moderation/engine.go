package moderation

import (
	"regexp"
	"strings"

	"glsecurity-bot/internal/storage"
	"glsecurity-bot/internal/utils"
)

type ViolationType string

const (
	TypeProfaneWord ViolationType = "PROFANE_WORD"
	TypeLink        ViolationType = "LINK"
	TypeInvite      ViolationType = "INVITE"
)

// Decision is the outcome of evaluating one message. The zero value means no
// violation was found.
type Decision struct {
	Type    ViolationType
	Reason  string
	Content string
}

func (d Decision) Violated() bool {
	return d.Type != ""
}

// InviteChecker reports whether an invite code belongs to the server the
// message was posted in. Backed by the live guild invite list; only consulted
// after the invite pattern has matched.
type InviteChecker interface {
	IsOwnInvite(code string) bool
}

var (
	linkRegex   = regexp.MustCompile(`(http|https)://[a-zA-Z0-9\-.]+\.[a-zA-Z]{2,3}(/\S*)?`)
	inviteRegex = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?(?:discord\.(?:gg|io|me|li)|discordapp\.com/invite|discord\.com/invite)/([a-zA-Z0-9]+)`)
)

// Evaluate applies the server's content policy to one message. Checks run in
// fixed priority order and the first match wins, so a message yields at most
// one violation. Privileged authors are exempt from every check. Evaluate is
// pure and safe for concurrent use.
func Evaluate(content string, privileged bool, s storage.ServerSettings, profaneWords []string, invites InviteChecker) Decision {
	if privileged {
		return Decision{}
	}

	lower := strings.ToLower(content)

	if s.BlockProfaneWords {
		for _, word := range profaneWords {
			if word == "" {
				continue
			}
			if strings.Contains(lower, strings.ToLower(word)) {
				return Decision{
					Type:    TypeProfaneWord,
					Reason:  "use of profane word: '" + word + "'",
					Content: content,
				}
			}
		}
	}

	if s.BlockLinks {
		if match := linkRegex.FindString(lower); match != "" {
			reason := "posting links is not allowed"
			if _, host, err := utils.NormalizeURL(match); err == nil && host != "" {
				reason += " (" + host + ")"
			}
			return Decision{Type: TypeLink, Reason: reason, Content: content}
		}
	}

	if s.BlockInvites {
		// Code captured from the raw content: invite codes are case sensitive.
		if groups := inviteRegex.FindStringSubmatch(content); groups != nil {
			code := groups[1]
			if invites == nil || !invites.IsOwnInvite(code) {
				return Decision{
					Type:    TypeInvite,
					Reason:  "posting server invites is not allowed: '" + code + "'",
					Content: content,
				}
			}
		}
	}

	return Decision{}
}
