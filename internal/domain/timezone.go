package domain

import (
	"sort"
	"strings"
	"time"

	// Embeds the timezone database so lookups do not depend on the host.
	_ "time/tzdata"

	"golang.org/x/text/cases"
)

// Zone is a validated timezone.
type Zone struct {
	ID       string         // folded identifier as persisted, e.g. "america/new_york"
	Name     string         // canonical IANA spelling, e.g. "America/New_York"
	Location *time.Location
}

// MemberZone is one member's timezone within a guild.
type MemberZone struct {
	UserID int64
	Zone   Zone
}

var zonesByFolded = indexZones(zoneNames)

// fold case-folds s. A Caser is stateful, so one is made per call.
func fold(s string) string {
	return cases.Fold().String(s)
}

func indexZones(names []string) map[string]string {
	idx := make(map[string]string, len(names))
	for _, n := range names {
		idx[fold(n)] = n
	}
	return idx
}

// NormalizeZoneID folds and trims raw user input the way identifiers are persisted.
func NormalizeZoneID(raw string) string {
	return strings.TrimSpace(fold(raw))
}

// LookupZone resolves raw input (any case, surrounding whitespace allowed) to a Zone.
// Unknown identifiers yield an *InvalidTimezoneError.
func LookupZone(raw string) (Zone, error) {
	id := NormalizeZoneID(raw)
	name, ok := zonesByFolded[id]
	if !ok {
		return Zone{}, &InvalidTimezoneError{Input: raw}
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Zone{}, &InvalidTimezoneError{Input: raw}
	}
	return Zone{ID: id, Name: name, Location: loc}, nil
}

// ValidZone reports whether raw names a zone in the database.
func ValidZone(raw string) bool {
	_, err := LookupZone(raw)
	return err == nil
}

// SuggestZones returns up to limit common zone names containing query,
// compared case-insensitively, sorted alphabetically.
func SuggestZones(query string, limit int) []string {
	q := NormalizeZoneID(query)
	var out []string
	for _, n := range commonZoneNames {
		if strings.Contains(fold(n), q) {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Time layouts used in replies.
const (
	LayoutZoned = "Jan 02, 2006 15:04:05 MST"
	LayoutGroup = "Jan 02, 2006 03:04:05 PM"
)

// FormatNow renders now in the zone with LayoutZoned.
func FormatNow(now time.Time, z Zone) string {
	return strings.TrimSpace(now.In(z.Location).Format(LayoutZoned))
}
