package timeseries

import (
	"fmt"
	"time"
)

// sourceLayout is the naive timestamp format used by the source dataset.
const sourceLayout = "2006-01-02 15:04:05"

// ParseSourceTimestamp parses a naive source timestamp as if it were UTC.
// The dataset encodes local civil times without a zone; parsing them as UTC
// is step one of the normalization convention shared with the remote
// forecasting service.
func ParseSourceTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(sourceLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid source timestamp %q: %w", s, err)
	}
	return t, nil
}

// NormalizeIn re-bases a UTC-parsed instant into loc, preserving its civil
// fields: the wall-clock reading stays identical, only the zone changes.
// Equivalent to subtracting loc's UTC offset from the instant. The source
// timestamps are naive local times re-interpreted as UTC, so this is the only
// conversion that makes index keys agree with user-entered local times in
// every viewer zone. The remote service indexes on the same convention, so
// this must not be "fixed".
func NormalizeIn(t time.Time, loc *time.Location) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), u.Second(), u.Nanosecond(), loc)
}

// NormalizeLocal applies NormalizeIn with the process-local zone.
func NormalizeLocal(t time.Time) time.Time {
	return NormalizeIn(t, time.Local)
}

// CanonicalKey renders the hour-truncated, zero-padded key used to index and
// match timestamps exactly: "YYYY-MM-DD HH:00:00".
func CanonicalKey(t time.Time) string {
	return fmt.Sprintf("%s %02d:00:00", t.Format("2006-01-02"), t.Hour())
}
