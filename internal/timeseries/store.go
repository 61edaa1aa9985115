package timeseries

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/uptc-energy/energy-assistant/internal/logger"
)

var (
	ErrDuplicateTimestamp = errors.New("duplicate timestamp in dataset")
	ErrMissingColumn      = errors.New("required column missing from dataset")
	ErrInvalidValue       = errors.New("invalid numeric value in dataset")
	ErrEmptyDataset       = errors.New("dataset has no rows for site")
)

// Row is one hourly observation for the selected site. Values holds the
// target and every feature column by name; site-indicator columns and the raw
// timestamp string are already stripped.
type Row struct {
	Timestamp time.Time
	Key       string
	Values    map[string]float64
}

// Store is the in-memory hourly series for one site: rows in strictly
// ascending timestamp order plus an O(1) canonical-key index. It is built
// once at startup and read-only afterwards, so it is shared without locking.
type Store struct {
	site    string
	target  string
	loc     *time.Location
	rows    []Row
	index   map[string]int
	columns []string
}

// Options selects and shapes the site series extracted from the raw table.
type Options struct {
	Site            string
	SiteColumns     []string
	TargetColumn    string
	TimestampColumn string
	// Location is the civil zone rows are normalized into. Defaults to the
	// process-local zone.
	Location *time.Location
}

// Load reads the multi-site CSV at path and builds the store for one site.
func Load(path string, opts Options) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyDataset
	}

	headers := records[0]
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[h] = i
	}

	for _, required := range []string{opts.TimestampColumn, opts.TargetColumn, opts.Site} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	siteCols := make(map[string]bool, len(opts.SiteColumns))
	for _, s := range opts.SiteColumns {
		siteCols[s] = true
	}

	// Fixed column order for the wire contract: target first, then the
	// feature columns in their source order.
	columns := []string{opts.TargetColumn}
	for _, h := range headers {
		if h == opts.TimestampColumn || h == opts.TargetColumn || siteCols[h] {
			continue
		}
		columns = append(columns, h)
	}

	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	siteIdx := col[opts.Site]
	tsIdx := col[opts.TimestampColumn]

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(headers) {
			return nil, fmt.Errorf("%w: row has %d fields, header has %d", ErrInvalidValue, len(rec), len(headers))
		}
		if rec[siteIdx] != "1" {
			continue
		}
		if rec[tsIdx] == "" {
			continue
		}

		parsed, err := ParseSourceTimestamp(rec[tsIdx])
		if err != nil {
			return nil, err
		}
		ts := NormalizeIn(parsed, loc)

		values := make(map[string]float64, len(columns))
		for _, c := range columns {
			v, err := strconv.ParseFloat(rec[col[c]], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: column %s at %s: %v", ErrInvalidValue, c, rec[tsIdx], err)
			}
			values[c] = v
		}

		rows = append(rows, Row{
			Timestamp: ts,
			Key:       CanonicalKey(ts),
			Values:    values,
		})
	}

	store, err := FromRows(opts.Site, opts.TargetColumn, columns, loc, rows)
	if err != nil {
		return nil, err
	}

	logger.WithSite(opts.Site).Infof("Dataset loaded: %d rows, %d columns", store.Len(), len(columns))
	return store, nil
}

// FromRows builds a store from already-shaped rows, sorting them ascending
// and rejecting canonical-key collisions. Exposed for fixtures.
func FromRows(site, target string, columns []string, loc *time.Location, rows []Row) (*Store, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	if loc == nil {
		loc = time.Local
	}

	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	index := make(map[string]int, len(sorted))
	for i, row := range sorted {
		if prev, ok := index[row.Key]; ok {
			return nil, fmt.Errorf("%w: %s (rows %d and %d)", ErrDuplicateTimestamp, row.Key, prev, i)
		}
		index[row.Key] = i
	}

	return &Store{
		site:    site,
		target:  target,
		loc:     loc,
		rows:    sorted,
		index:   index,
		columns: columns,
	}, nil
}

func (s *Store) Site() string {
	return s.site
}

func (s *Store) Target() string {
	return s.target
}

func (s *Store) Location() *time.Location {
	return s.loc
}

// Columns returns the fixed projection order: target first, then features in
// source order.
func (s *Store) Columns() []string {
	return s.columns
}

func (s *Store) Len() int {
	return len(s.rows)
}

func (s *Store) Row(i int) Row {
	return s.rows[i]
}

// Position returns the position of the row with the given canonical key.
func (s *Store) Position(key string) (int, bool) {
	pos, ok := s.index[key]
	return pos, ok
}
