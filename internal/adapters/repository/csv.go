package repository

import (
	"context"
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/maplehall/guildstats/internal/domain/model"
)

// Column names recognized in the CSV header, matching the exported sheet.
const (
	colWeek         = "week"
	colPlayerID     = "player_id"
	colJob          = "job"
	colFlagScore    = "flag_score"
	colWaterScore   = "water_score"
	colCastleScore  = "castle_score"
	colWeeklyStatus = "weekly_status"
	colChangeStatus = "change_status"
	colLevel        = "level"
	colImageRef     = "image_ref"
)

// Date layouts accepted for the week column.
var weekLayouts = []string{"2006-01-02", "2006/01/02", "2006-01-02 15:04:05"}

// FileStore reads weekly records from a CSV file on every All call. Meant
// for small deployments where the sheet export is the source of truth;
// larger installs import into SQLite instead.
type FileStore struct {
	path string
}

// NewFileStore creates a CSV-backed store for the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// All reads and coerces every row in the file.
func (s *FileStore) All(_ context.Context) ([]model.WeeklyRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrOpenStore, s.path, err)
	}
	defer f.Close()
	return ReadRecords(f)
}

// Revision is the SHA-256 of the file contents, so any edit produces a new
// snapshot key.
func (s *FileStore) Revision(_ context.Context) (string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrOpenStore, s.path, err)
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hash %s: %w", s.path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ReadRecords parses a CSV stream with a header line into weekly records.
// Coercion rules: non-numeric scores become 0, text fields are trimmed,
// rows with an empty player id or job are dropped, and rows whose week
// cannot be parsed are dropped since they cannot be grouped into a period.
func ReadRecords(r io.Reader) ([]model.WeeklyRecord, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // trailing optional columns vary per export

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colWeek, colPlayerID, colJob} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("csv header missing column %q", required)
		}
	}

	var out []model.WeeklyRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		rec, ok := coerceRow(idx, row)
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

func coerceRow(idx map[string]int, row []string) (model.WeeklyRecord, bool) {
	field := func(name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	playerID := field(colPlayerID)
	job := field(colJob)
	if playerID == "" || job == "" {
		return model.WeeklyRecord{}, false
	}
	week, ok := parseWeek(field(colWeek))
	if !ok {
		return model.WeeklyRecord{}, false
	}

	return model.WeeklyRecord{
		Week:         week,
		PlayerID:     playerID,
		Job:          job,
		FlagScore:    coerceScore(field(colFlagScore)),
		WaterScore:   coerceScore(field(colWaterScore)),
		CastleScore:  coerceScore(field(colCastleScore)),
		WeeklyStatus: model.ParseWeeklyStatus(field(colWeeklyStatus)),
		ChangeStatus: model.ParseChangeStatus(field(colChangeStatus)),
		Level:        coerceScore(field(colLevel)),
		ImageRef:     field(colImageRef),
	}, true
}

// coerceScore turns malformed or negative numeric input into 0 rather than
// rejecting the row.
func coerceScore(s string) int {
	if s == "" {
		return 0
	}
	// Exports occasionally carry floats ("120.0") or thousands separators.
	s = strings.ReplaceAll(s, ",", "")
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		return int(f)
	}
	return 0
}

func parseWeek(s string) (time.Time, bool) {
	for _, layout := range weekLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
