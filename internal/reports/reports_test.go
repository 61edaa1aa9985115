package reports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplesCSV = "" +
	"timestamp,real_kwh,pred_kwh\n" +
	"2024-03-01 00:00:00,1.10,1.05\n" +
	"2024-03-01 01:00:00,0.95,1.02\n"

const eventsCSV = "" +
	"timestamp,sede,severity_rank,reconstruction_error,occupancy_pct,energia_actual_kwh,kpi_esperado,kpi_real,ineficiencia_detectada\n" +
	"2024-02-10 14:00:00,UPTC_CHI,1,0.82,12.5,3.4,0.9,1.8,1\n" +
	"2024-02-11 09:00:00,UPTC_CHI,2,0.41,55.0,2.1,1.1,1.2,0\n"

func writeReports(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	samplesPath := filepath.Join(dir, "predicciones.csv")
	eventsPath := filepath.Join(dir, "reporte_ineficiencias.csv")
	require.NoError(t, os.WriteFile(samplesPath, []byte(samplesCSV), 0o644))
	require.NoError(t, os.WriteFile(eventsPath, []byte(eventsCSV), 0o644))
	return samplesPath, eventsPath
}

func TestLoad(t *testing.T) {
	samplesPath, eventsPath := writeReports(t)

	store, err := Load(samplesPath, eventsPath)
	require.NoError(t, err)

	samples := store.Samples()
	require.Len(t, samples, 2)
	assert.Equal(t, "2024-03-01 00:00:00", samples[0].Timestamp)
	assert.Equal(t, 1.10, samples[0].RealKWh)
	assert.Equal(t, 1.05, samples[0].PredKWh)

	events := store.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "UPTC_CHI", events[0].Facility)
	assert.Equal(t, 1, events[0].SeverityRank)
	assert.Equal(t, 0.82, events[0].ReconstructionError)
	assert.True(t, events[0].Detected)
	assert.False(t, events[1].Detected)
}

func TestEventByRank(t *testing.T) {
	samplesPath, eventsPath := writeReports(t)
	store, err := Load(samplesPath, eventsPath)
	require.NoError(t, err)

	e, err := store.EventByRank(2)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-11 09:00:00", e.Timestamp)

	_, err = store.EventByRank(99)
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestLoad_MissingColumn(t *testing.T) {
	dir := t.TempDir()
	samplesPath := filepath.Join(dir, "predicciones.csv")
	eventsPath := filepath.Join(dir, "reporte_ineficiencias.csv")
	require.NoError(t, os.WriteFile(samplesPath, []byte("timestamp,real_kwh\n2024,1.0\n"), 0o644))
	require.NoError(t, os.WriteFile(eventsPath, []byte(eventsCSV), 0o644))

	_, err := Load(samplesPath, eventsPath)
	assert.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_InvalidValue(t *testing.T) {
	dir := t.TempDir()
	samplesPath := filepath.Join(dir, "predicciones.csv")
	eventsPath := filepath.Join(dir, "reporte_ineficiencias.csv")
	require.NoError(t, os.WriteFile(samplesPath, []byte("timestamp,real_kwh,pred_kwh\n2024,oops,1.0\n"), 0o644))
	require.NoError(t, os.WriteFile(eventsPath, []byte(eventsCSV), 0o644))

	_, err := Load(samplesPath, eventsPath)
	assert.ErrorIs(t, err, ErrInvalidValue)
}
