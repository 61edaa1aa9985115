package features

import (
	"errors"
	"fmt"
	"time"

	"github.com/uptc-energy/energy-assistant/internal/logger"
	"github.com/uptc-energy/energy-assistant/internal/timeseries"
)

const (
	// ShortWindowHours and LongWindowHours are the two lookback slices the
	// forecasting model consumes as recent context.
	ShortWindowHours = 48
	LongWindowHours  = 168

	lagShortHours = 24
	lagLongHours  = 168

	// AllowedYear is the only year with a complete, validated dataset.
	AllowedYear = 2024
)

var (
	ErrOutOfRange            = errors.New("target date outside the supported year")
	ErrUnknownTimestamp      = errors.New("no exact row for target timestamp")
	ErrInsufficientHistory   = errors.New("insufficient history before target timestamp")
	ErrNonConsecutiveHistory = errors.New("history before target timestamp is not consecutive")
)

// Window is the feature payload sent to the prediction service. Field names
// follow the service's wire contract.
type Window struct {
	ShortWindow     []Record   `json:"short_window"`
	LongWindow      []Record   `json:"long_window"`
	Lags            [2]float64 `json:"lags"`
	Site            string     `json:"sede"`
	TargetTimestamp string     `json:"target_timestamp"`
}

// Builder assembles feature windows from the time-series store. All failures
// are deterministic given current data; there are no retries here.
type Builder struct {
	store *timeseries.Store
}

func NewBuilder(store *timeseries.Store) *Builder {
	return &Builder{store: store}
}

// Build produces the feature window for the hour at target, or fails with a
// specific, user-actionable reason. The target hour itself is never included
// in the windows: the model predicts it, so it must not leak into features.
func (b *Builder) Build(target time.Time) (*Window, error) {
	if target.Year() != AllowedYear {
		return nil, fmt.Errorf("%w: got %d, only %d is supported", ErrOutOfRange, target.Year(), AllowedYear)
	}

	// Only exact-hour matches are served: no truncation to the nearest hour,
	// no interpolation.
	if target.Minute() != 0 || target.Second() != 0 || target.Nanosecond() != 0 {
		return nil, fmt.Errorf("%w: %s is not hour-aligned", ErrUnknownTimestamp, target.Format("2006-01-02 15:04:05"))
	}

	key := timeseries.CanonicalKey(target)
	pos, ok := b.store.Position(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTimestamp, key)
	}

	if pos < LongWindowHours {
		return nil, fmt.Errorf("%w: need %d hours before %s, have %d", ErrInsufficientHistory, LongWindowHours, key, pos)
	}
	if pos-lagShortHours < 0 || pos-lagLongHours < 0 {
		return nil, fmt.Errorf("%w: lag offsets before start of series", ErrInsufficientHistory)
	}

	// Every consecutive pair inside the full lookback must differ by exactly
	// one hour. A silent gap would desynchronize the positional lag
	// semantics the model was trained on.
	for i := pos - LongWindowHours + 1; i <= pos; i++ {
		prev := b.store.Row(i - 1).Timestamp
		cur := b.store.Row(i).Timestamp
		if cur.Sub(prev) != time.Hour {
			return nil, fmt.Errorf("%w: gap between %s and %s",
				ErrNonConsecutiveHistory, b.store.Row(i-1).Key, b.store.Row(i).Key)
		}
	}

	columns := b.store.Columns()
	target24 := b.store.Row(pos - lagShortHours).Values[b.store.Target()]
	target168 := b.store.Row(pos - lagLongHours).Values[b.store.Target()]

	w := &Window{
		ShortWindow:     b.project(pos-ShortWindowHours, pos, columns),
		LongWindow:      b.project(pos-LongWindowHours, pos, columns),
		Lags:            [2]float64{target24, target168},
		Site:            b.store.Site(),
		TargetTimestamp: key,
	}

	logger.WithSite(b.store.Site()).Debugf(
		"Feature window built for %s: short=%d long=%d lags=%v",
		key, len(w.ShortWindow), len(w.LongWindow), w.Lags)

	return w, nil
}

func (b *Builder) project(from, to int, columns []string) []Record {
	records := make([]Record, 0, to-from)
	for i := from; i < to; i++ {
		records = append(records, newRecord(b.store.Row(i), columns))
	}
	return records
}
