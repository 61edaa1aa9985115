package timeseries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSourceTimestamp(t *testing.T) {
	ts, err := ParseSourceTimestamp("2024-03-15 15:00:00")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 3, 15, 15, 0, 0, 0, time.UTC), ts)

	_, err = ParseSourceTimestamp("2024-03-15T15:00:00")
	assert.Error(t, err)

	_, err = ParseSourceTimestamp("")
	assert.Error(t, err)
}

func TestNormalizeIn_OffsetArithmetic(t *testing.T) {
	// Pin the exact arithmetic in a fixed zone west of UTC: re-basing must
	// keep the civil fields and shift the instant by the zone offset.
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	parsed, err := ParseSourceTimestamp("2024-03-15 15:00:00")
	require.NoError(t, err)

	normalized := NormalizeIn(parsed, bogota)

	// Same wall-clock reading in the target zone.
	assert.Equal(t, "2024-03-15 15:00:00", CanonicalKey(normalized))
	assert.Equal(t, 15, normalized.Hour())

	// Bogota is UTC-5, so the instant moves forward by five hours.
	assert.Equal(t, time.Date(2024, 3, 15, 20, 0, 0, 0, time.UTC), normalized.UTC())
}

func TestNormalizeIn_UTCIsIdentity(t *testing.T) {
	parsed, err := ParseSourceTimestamp("2024-01-01 00:00:00")
	require.NoError(t, err)

	normalized := NormalizeIn(parsed, time.UTC)
	assert.True(t, parsed.Equal(normalized))
}

func TestNormalizeIn_KeysAgreeWithUserInput(t *testing.T) {
	// A user-entered date and hour built in the same zone must produce the
	// same canonical key as a normalized source row. This is the property
	// every downstream index lookup depends on.
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	parsed, err := ParseSourceTimestamp("2024-07-01 09:00:00")
	require.NoError(t, err)
	rowKey := CanonicalKey(NormalizeIn(parsed, bogota))

	userTarget := time.Date(2024, 7, 1, 9, 0, 0, 0, bogota)
	assert.Equal(t, rowKey, CanonicalKey(userTarget))
}

func TestCanonicalKey_TruncatesToHour(t *testing.T) {
	ts := time.Date(2024, 3, 10, 23, 30, 45, 0, time.UTC)
	assert.Equal(t, "2024-03-10 23:00:00", CanonicalKey(ts))

	ts = time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-02 03:00:00", CanonicalKey(ts))
}
