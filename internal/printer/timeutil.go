package printer

import (
	"fmt"
	"time"
)

// TimeAgo returns a human-readable relative time in UTC, e.g.
// "5 seconds ago (UTC)" or "2 days ago (UTC)".
func TimeAgo(t time.Time) string {
	diff := time.Now().UTC().Sub(t.UTC())
	if diff < 0 {
		return "in the future (UTC)"
	}

	units := []struct {
		span time.Duration
		n    int
		name string
	}{
		{time.Minute, int(diff.Seconds()), "second"},
		{time.Hour, int(diff.Minutes()), "minute"},
		{24 * time.Hour, int(diff.Hours()), "hour"},
	}
	for _, u := range units {
		if diff < u.span {
			return relative(u.n, u.name)
		}
	}

	return relative(int(diff.Hours()/24), "day")
}

func relative(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago (UTC)", unit)
	}
	return fmt.Sprintf("%d %ss ago (UTC)", n, unit)
}

// FormatTimestamp returns an absolute timestamp in UTC,
// e.g. "2006-01-02 15:04:05 UTC".
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05 UTC")
}
