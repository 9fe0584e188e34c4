package domain

import (
	"sort"
	"time"
)

// Group is a set of members whose clocks currently read the same.
type Group struct {
	// Local is the shared wall-clock reading. Its location is UTC and carries
	// no meaning; only the date and time fields matter.
	Local   time.Time
	UserIDs []int64
}

// Grouping is the ordered output of GroupByLocalTime.
type Grouping []Group

// NoneSet reports the "no one has set a timezone" result.
func (g Grouping) NoneSet() bool { return len(g) == 0 }

// GroupByLocalTime buckets members by the naive local date and time (to the
// second) their zone shows at now. Members in different zones with identical
// clock faces share a bucket. Buckets are ordered by local time, then by size.
// Members keep their input order inside a bucket.
func GroupByLocalTime(now time.Time, zones []MemberZone) Grouping {
	if len(zones) == 0 {
		return Grouping{}
	}

	var out Grouping
	index := make(map[time.Time]int, len(zones))
	for _, mz := range zones {
		key := naiveLocal(now, mz.Zone.Location)
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Group{Local: key})
		}
		out[i].UserIDs = append(out[i].UserIDs, mz.UserID)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Local.Equal(out[j].Local) {
			return out[i].Local.Before(out[j].Local)
		}
		return len(out[i].UserIDs) < len(out[j].UserIDs)
	})
	return out
}

func naiveLocal(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	lt := now.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), 0, time.UTC)
}
