package models

// InefficiencyEvent is one row of the pre-computed inefficiency report.
// Read-only reference data; selecting one makes it the contextual focus for
// later explanation requests in a session.
type InefficiencyEvent struct {
	Timestamp           string  `json:"timestamp"`
	Facility            string  `json:"sede"`
	SeverityRank        int     `json:"severity_rank"`
	ReconstructionError float64 `json:"reconstruction_error"`
	OccupancyPct        float64 `json:"occupancy_pct"`
	ActualEnergyKWh     float64 `json:"energia_actual_kwh"`
	ExpectedKPI         float64 `json:"kpi_esperado"`
	ActualKPI           float64 `json:"kpi_real"`
	Detected            bool    `json:"ineficiencia_detectada"`
}

// PredictionSample is one row of the real-vs-predicted sample table used by
// the comparison chart.
type PredictionSample struct {
	Timestamp string  `json:"timestamp"`
	RealKWh   float64 `json:"real_kwh"`
	PredKWh   float64 `json:"pred_kwh"`
}
