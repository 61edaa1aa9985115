package timeseries

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	return Options{
		Site:            "UPTC_CHI",
		SiteColumns:     []string{"UPTC_CHI", "UPTC_TUN"},
		TargetColumn:    "energia_total_kwh",
		TimestampColumn: "timestamp",
		Location:        time.UTC,
	}
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_FiltersSiteAndDropsIndicatorColumns(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,temperatura,UPTC_CHI,UPTC_TUN\n"+
		"2024-01-01 00:00:00,1.5,18.0,1,0\n"+
		"2024-01-01 00:00:00,9.9,25.0,0,1\n"+
		"2024-01-01 01:00:00,1.7,17.5,1,0\n")

	store, err := Load(path, testOptions())
	require.NoError(t, err)

	assert.Equal(t, 2, store.Len())
	assert.Equal(t, "UPTC_CHI", store.Site())
	assert.Equal(t, []string{"energia_total_kwh", "temperatura"}, store.Columns())

	row := store.Row(0)
	assert.Equal(t, "2024-01-01 00:00:00", row.Key)
	assert.Equal(t, 1.5, row.Values["energia_total_kwh"])
	assert.Equal(t, 18.0, row.Values["temperatura"])
	assert.NotContains(t, row.Values, "UPTC_CHI")
	assert.NotContains(t, row.Values, "UPTC_TUN")
	assert.NotContains(t, row.Values, "timestamp")
}

func TestLoad_SortsAscendingAndIndexes(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,UPTC_CHI,UPTC_TUN\n"+
		"2024-01-01 02:00:00,3.0,1,0\n"+
		"2024-01-01 00:00:00,1.0,1,0\n"+
		"2024-01-01 01:00:00,2.0,1,0\n")

	store, err := Load(path, testOptions())
	require.NoError(t, err)

	require.Equal(t, 3, store.Len())
	for i, want := range []string{"2024-01-01 00:00:00", "2024-01-01 01:00:00", "2024-01-01 02:00:00"} {
		assert.Equal(t, want, store.Row(i).Key)
		pos, ok := store.Position(want)
		require.True(t, ok)
		assert.Equal(t, i, pos)
	}

	_, ok := store.Position("2024-01-01 03:00:00")
	assert.False(t, ok)
}

func TestLoad_DropsRowsWithoutTimestamp(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,UPTC_CHI,UPTC_TUN\n"+
		",1.0,1,0\n"+
		"2024-01-01 00:00:00,2.0,1,0\n")

	store, err := Load(path, testOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
}

func TestLoad_RejectsDuplicateTimestamps(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,UPTC_CHI,UPTC_TUN\n"+
		"2024-01-01 00:00:00,1.0,1,0\n"+
		"2024-01-01 00:00:00,2.0,1,0\n")

	_, err := Load(path, testOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTimestamp)
}

func TestLoad_RejectsNonNumericValues(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,UPTC_CHI,UPTC_TUN\n"+
		"2024-01-01 00:00:00,not-a-number,1,0\n")

	_, err := Load(path, testOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestLoad_MissingRequiredColumn(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,UPTC_TUN\n"+
		"2024-01-01 00:00:00,1.0,0\n")

	_, err := Load(path, testOptions())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_EmptyForSite(t *testing.T) {
	path := writeCSV(t, ""+
		"timestamp,energia_total_kwh,UPTC_CHI,UPTC_TUN\n"+
		"2024-01-01 00:00:00,1.0,0,1\n")

	_, err := Load(path, testOptions())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestFromRows_SortsAndRejectsCollisions(t *testing.T) {
	ts := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		{Timestamp: ts.Add(time.Hour), Key: "2024-01-01 01:00:00", Values: map[string]float64{"kwh": 2}},
		{Timestamp: ts, Key: "2024-01-01 00:00:00", Values: map[string]float64{"kwh": 1}},
	}

	store, err := FromRows("UPTC_CHI", "kwh", []string{"kwh"}, time.UTC, rows)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 00:00:00", store.Row(0).Key)

	rows = append(rows, Row{Timestamp: ts, Key: "2024-01-01 00:00:00", Values: map[string]float64{"kwh": 3}})
	_, err = FromRows("UPTC_CHI", "kwh", []string{"kwh"}, time.UTC, rows)
	assert.ErrorIs(t, err, ErrDuplicateTimestamp)
}
