package command

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

// capitalize upper-cases the first rune, for timer display names built
// from lowercased utterance fragments.
func capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// speakDuration renders a second count the way it would be spoken:
// "10 minutes", "1 minute and 5 seconds", "45 seconds".
func speakDuration(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "no time"
	}

	minutes := totalSeconds / 60
	seconds := totalSeconds % 60

	switch {
	case minutes == 0:
		return plural(seconds, "second")
	case seconds == 0:
		return plural(minutes, "minute")
	default:
		return plural(minutes, "minute") + " and " + plural(seconds, "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// joinNames joins names into spoken form: "a", "a and b", "a, b, and c".
func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return ""
	case 1:
		return names[0]
	case 2:
		return names[0] + " and " + names[1]
	default:
		return strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
	}
}

// timerStatusLine describes one derived timer for a check reply.
func timerStatusLine(t domain.CookingTimer) string {
	switch {
	case t.IsExpired:
		return fmt.Sprintf("%s is done", t.Name)
	case !t.IsRunning:
		return fmt.Sprintf("%s is paused with %s left", t.Name, speakDuration(t.RemainingSeconds))
	default:
		return fmt.Sprintf("%s has %s left", t.Name, speakDuration(t.RemainingSeconds))
	}
}

// timerNames lists display names for no-match suggestions.
func timerNames(timers []domain.StoredTimer) []string {
	out := make([]string, 0, len(timers))
	for _, t := range timers {
		out = append(out, t.Name)
	}
	return out
}
