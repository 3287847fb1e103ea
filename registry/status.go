package registry

import (
	"strconv"
	"strings"
	"time"
)

// Display statuses produced by DeriveStatus. A scheduled match displays its
// kickoff time instead of a label.
const (
	StatusSoon      = "soon"
	StatusLive      = "live"
	StatusEnded     = "ended"
	StatusPostponed = "postponed"
)

// Window boundaries around kickoff.
const (
	soonWindow = 30 * time.Minute
	liveWindow = 120 * time.Minute
)

// terminal statuses short-circuit time-based derivation. The Arabic
// spellings are what the published dataset stores.
var terminal = map[string]string{
	StatusLive:      StatusLive,
	StatusEnded:     StatusEnded,
	StatusPostponed: StatusPostponed,
	"جاري الآن":     StatusLive,
	"انتهت":         StatusEnded,
	"مؤجلة":         StatusPostponed,
}

// parseKickoff parses a "HH:MM" display time into today's wall-clock
// kickoff in now's location. Returns false for anything it cannot parse,
// including 12-hour forms like "09:00 PM".
func parseKickoff(timeStr string, now time.Time) (time.Time, bool) {
	parts := strings.SplitN(strings.TrimSpace(timeStr), ":", 2)
	if len(parts) != 2 {
		return time.Time{}, false
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return time.Time{}, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return time.Time{}, false
	}

	return time.Date(now.Year(), now.Month(), now.Day(), hours, minutes, 0, 0, now.Location()), true
}

// DeriveStatus computes a match's display status from its kickoff time and
// the current time. Stored terminal labels (live/ended/postponed, in either
// spelling) are authoritative and returned normalized. An unparsable
// kickoff falls back to the stored status unchanged. Otherwise:
//
//	now < T-30m         -> the kickoff time itself
//	T-30m <= now < T    -> "soon"
//	T <= now < T+120m   -> "live"
//	now >= T+120m       -> "ended"
func DeriveStatus(timeStr, stored string, now time.Time) string {
	if label, ok := terminal[strings.TrimSpace(stored)]; ok {
		return label
	}

	kickoff, ok := parseKickoff(timeStr, now)
	if !ok {
		return stored
	}

	switch {
	case now.Before(kickoff.Add(-soonWindow)):
		return timeStr
	case now.Before(kickoff):
		return StatusSoon
	case now.Before(kickoff.Add(liveWindow)):
		return StatusLive
	default:
		return StatusEnded
	}
}
