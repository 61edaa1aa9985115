package reports

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/pkg/models"
)

var (
	ErrMissingColumn = errors.New("required column missing from report")
	ErrInvalidValue  = errors.New("invalid value in report")
	ErrUnknownEvent  = errors.New("no inefficiency event with that rank")
)

// Store holds the two static report tables: the real-vs-predicted sample for
// the comparison chart and the inefficiency event list. Loaded once at
// startup, never written.
type Store struct {
	samples []models.PredictionSample
	events  []models.InefficiencyEvent
	byRank  map[int]int
}

func Load(predictionsPath, inefficiencyPath string) (*Store, error) {
	samples, err := loadSamples(predictionsPath)
	if err != nil {
		return nil, fmt.Errorf("predictions report: %w", err)
	}

	events, err := loadEvents(inefficiencyPath)
	if err != nil {
		return nil, fmt.Errorf("inefficiency report: %w", err)
	}

	byRank := make(map[int]int, len(events))
	for i, e := range events {
		byRank[e.SeverityRank] = i
	}

	logger.Infof("Reports loaded: %d prediction samples, %d inefficiency events",
		len(samples), len(events))

	return &Store{samples: samples, events: events, byRank: byRank}, nil
}

func (s *Store) Samples() []models.PredictionSample {
	return s.samples
}

func (s *Store) Events() []models.InefficiencyEvent {
	return s.events
}

func (s *Store) EventByRank(rank int) (models.InefficiencyEvent, error) {
	i, ok := s.byRank[rank]
	if !ok {
		return models.InefficiencyEvent{}, fmt.Errorf("%w: %d", ErrUnknownEvent, rank)
	}
	return s.events[i], nil
}

func readTable(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report: %w", err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: empty file", ErrInvalidValue)
	}
	return records[0], records[1:], nil
}

func columnIndex(headers []string, name string) (int, error) {
	for i, h := range headers {
		if h == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrMissingColumn, name)
}

func parseFloat(row []string, idx int, column string) (float64, error) {
	v, err := strconv.ParseFloat(row[idx], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: column %s: %v", ErrInvalidValue, column, err)
	}
	return v, nil
}

func loadSamples(path string) ([]models.PredictionSample, error) {
	headers, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	tsIdx, err := columnIndex(headers, "timestamp")
	if err != nil {
		return nil, err
	}
	realIdx, err := columnIndex(headers, "real_kwh")
	if err != nil {
		return nil, err
	}
	predIdx, err := columnIndex(headers, "pred_kwh")
	if err != nil {
		return nil, err
	}

	samples := make([]models.PredictionSample, 0, len(rows))
	for _, row := range rows {
		real, err := parseFloat(row, realIdx, "real_kwh")
		if err != nil {
			return nil, err
		}
		pred, err := parseFloat(row, predIdx, "pred_kwh")
		if err != nil {
			return nil, err
		}
		samples = append(samples, models.PredictionSample{
			Timestamp: row[tsIdx],
			RealKWh:   real,
			PredKWh:   pred,
		})
	}
	return samples, nil
}

func loadEvents(path string) ([]models.InefficiencyEvent, error) {
	headers, rows, err := readTable(path)
	if err != nil {
		return nil, err
	}

	idx := make(map[string]int, 9)
	for _, name := range []string{
		"timestamp", "sede", "severity_rank", "reconstruction_error",
		"occupancy_pct", "energia_actual_kwh", "kpi_esperado", "kpi_real",
		"ineficiencia_detectada",
	} {
		i, err := columnIndex(headers, name)
		if err != nil {
			return nil, err
		}
		idx[name] = i
	}

	events := make([]models.InefficiencyEvent, 0, len(rows))
	for _, row := range rows {
		rank, err := strconv.Atoi(row[idx["severity_rank"]])
		if err != nil {
			return nil, fmt.Errorf("%w: column severity_rank: %v", ErrInvalidValue, err)
		}

		e := models.InefficiencyEvent{
			Timestamp:    row[idx["timestamp"]],
			Facility:     row[idx["sede"]],
			SeverityRank: rank,
			Detected:     row[idx["ineficiencia_detectada"]] == "1" || row[idx["ineficiencia_detectada"]] == "true",
		}
		if e.ReconstructionError, err = parseFloat(row, idx["reconstruction_error"], "reconstruction_error"); err != nil {
			return nil, err
		}
		if e.OccupancyPct, err = parseFloat(row, idx["occupancy_pct"], "occupancy_pct"); err != nil {
			return nil, err
		}
		if e.ActualEnergyKWh, err = parseFloat(row, idx["energia_actual_kwh"], "energia_actual_kwh"); err != nil {
			return nil, err
		}
		if e.ExpectedKPI, err = parseFloat(row, idx["kpi_esperado"], "kpi_esperado"); err != nil {
			return nil, err
		}
		if e.ActualKPI, err = parseFloat(row, idx["kpi_real"], "kpi_real"); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
