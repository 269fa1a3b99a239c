package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/power-status-tracker/internal/domain"
)

// NotificationTimeLayout renders LastUpdated in status notifications.
const NotificationTimeLayout = "2006-01-02 15:04:05"

// TestMessageText is sent by SendTestMessage.
const TestMessageText = "🧪 Test Message\n\nThis is a test notification from your Power Status Tracker bot. " +
	"If you receive this message, the bot is working correctly!"

// maxProfileRunes caps stored subscriber usernames and names.
const maxProfileRunes = 255

// FormatStatusMessage renders the notification for st. The output depends
// only on st.IsOn, st.LastUpdated and loc.
func FormatStatusMessage(st domain.PowerStatus, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return fmt.Sprintf("⚡ Power Status: %s %s\nTime: %s\n",
		domain.StatusEmoji(st.IsOn),
		domain.StatusText(st.IsOn),
		st.LastUpdated.In(loc).Format(NotificationTimeLayout),
	)
}

// normalizeName NFC-normalizes s, collapses whitespace and clips it.
func normalizeName(s string) string {
	s = norm.NFC.String(s)
	s = whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
	return clipRunes(s, maxProfileRunes)
}

// normalizeUsername strips a leading '@' and any whitespace.
func normalizeUsername(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	s = whitespaceRE.ReplaceAllString(s, "")
	return clipRunes(norm.NFC.String(s), maxProfileRunes)
}

func clipRunes(s string, max int) string {
	if max > 0 && utf8.RuneCountInString(s) > max {
		return string([]rune(s)[:max])
	}
	return s
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
