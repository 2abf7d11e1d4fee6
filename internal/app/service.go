// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/maplehall/guildstats/internal/adapters/lookup"
	"github.com/maplehall/guildstats/internal/adapters/repository"
	"github.com/maplehall/guildstats/internal/domain/aggregate"
	"github.com/maplehall/guildstats/internal/domain/changelog"
	"github.com/maplehall/guildstats/internal/domain/model"
	"github.com/maplehall/guildstats/internal/domain/period"
	"github.com/maplehall/guildstats/internal/domain/ranking"
	"github.com/maplehall/guildstats/pkg/logger"
	"github.com/maplehall/guildstats/pkg/metrics"
)

// Service owns the in-memory record snapshot and answers analytics
// queries over it. Every query is a pure function of (snapshot, params);
// the snapshot is the only cacheable unit and is swapped atomically.
type Service struct {
	mu sync.RWMutex

	store  repository.Store
	lookup *lookup.Client

	// snapshot state
	records  []model.WeeklyRecord
	revision string
	loadedAt time.Time

	// refreshSpec is a cron expression; empty disables scheduled reloads.
	refreshSpec string
	cron        *cron.Cron

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the record source.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLookup sets the character lookup client.
func WithLookup(client *lookup.Client) Option {
	return func(s *Service) {
		if client != nil {
			s.lookup = client
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRefreshSchedule sets the cron expression for scheduled snapshot
// reloads. The source file is re-imported weekly by an operator tool, so
// a coarse schedule is enough.
func WithRefreshSchedule(spec string) Option {
	return func(s *Service) {
		s.refreshSpec = spec
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		lookup: lookup.New(), // disabled until a key is configured
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the initial snapshot and begins scheduled refreshes.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.store == nil {
		return ErrNoStore
	}

	if err := s.reloadLocked(ctx); err != nil {
		return fmt.Errorf("initial snapshot load: %w", err)
	}

	if s.refreshSpec != "" {
		s.cron = cron.New()
		_, err := s.cron.AddFunc(s.refreshSpec, func() {
			if err := s.Refresh(context.Background()); err != nil {
				s.logger.Warn(context.Background(), "scheduled snapshot refresh failed", logger.Error(err))
			}
		})
		if err != nil {
			return fmt.Errorf("invalid refresh schedule %q: %w", s.refreshSpec, err)
		}
		s.cron.Start()
	}

	s.started = true
	s.logger.Info(ctx, "guild stats service started",
		logger.Int("records", len(s.records)),
		logger.String("revision", s.revision),
	)
	return nil
}

// Stop halts scheduled refreshes.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	if s.cron != nil {
		s.cron.Stop()
	}
	s.started = false
	s.logger.Info(context.Background(), "guild stats service stopped")
}

// Refresh reloads the snapshot when the store revision changed. Safe to
// call concurrently with queries; readers keep the old slice.
func (s *Service) Refresh(ctx context.Context) error {
	rev, err := s.store.Revision(ctx)
	if err != nil {
		return fmt.Errorf("read store revision: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev == s.revision {
		return nil
	}
	return s.reloadLocked(ctx)
}

func (s *Service) reloadLocked(ctx context.Context) error {
	start := time.Now()
	records, err := s.store.All(ctx)
	if err != nil {
		return err
	}
	rev, err := s.store.Revision(ctx)
	if err != nil {
		return err
	}
	s.records = records
	s.revision = rev
	s.loadedAt = time.Now()
	metrics.RecordSnapshotLoad(time.Since(start))
	metrics.UpdateSnapshotRows(len(records))
	return nil
}

// snapshot returns the current record slice. The slice is never mutated
// after a swap, so callers may read it without holding the lock.
func (s *Service) snapshot() []model.WeeklyRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// QueryParams scope a recompute call.
type QueryParams struct {
	Range    period.Range
	PlayerID string
	// Category and Mode pick the display mode override for one category;
	// every category is still reported with its conventional mode.
	Category model.Category
	Mode     ranking.Mode
}

// NeighborPair bundles the adjacent entries above and below the target.
type NeighborPair struct {
	Previous ranking.Neighbor `json:"previous"`
	Next     ranking.Neighbor `json:"next"`
}

// CategorySummary is one category's slice of a player report.
type CategorySummary struct {
	Total      int          `json:"total"`
	Rank       int          `json:"rank"`
	Mode       ranking.Mode `json:"mode"`
	Average    int          `json:"average,omitempty"`
	Percentage float64      `json:"percentage,omitempty"`
	Neighbors  NeighborPair `json:"neighbors"`
}

// PlayerReport is the full per-player answer for one period. All values
// are plain and serializable; icons and colors belong elsewhere.
type PlayerReport struct {
	PlayerID  string                              `json:"player_id"`
	Job       string                              `json:"job"`
	Level     int                                 `json:"level,omitempty"`
	ImageRef  string                              `json:"image_ref,omitempty"`
	WeekCount int                                 `json:"week_count"`
	Weeks     []model.WeeklyRecord                `json:"weeks"`
	Summary   map[model.Category]*CategorySummary `json:"summary"`
	// StatusCounts tallies the weekly achievement flag over the period.
	StatusCounts map[string]int    `json:"status_counts"`
	ChangeLog    []changelog.Entry `json:"change_log"`
}

// Recompute is the explicit, idempotent analytics entry point: it
// validates the query, filters the snapshot to the period, aggregates,
// ranks, locates neighbors, and derives the change log. Returns
// period.ErrInvalidRange for a reversed range and ranking.ErrPlayerNotFound
// when the player has no rows in the period; callers render the latter as
// "no data for this selection", never as a zero-score player.
func (s *Service) Recompute(ctx context.Context, params QueryParams) (*PlayerReport, error) {
	start := time.Now()
	defer func() { metrics.RecordRecompute(time.Since(start)) }()

	if err := params.Range.Validate(); err != nil {
		return nil, err
	}

	inRange := period.Filter(s.snapshot(), params.Range)
	stats := aggregate.Aggregate(inRange)

	mine, ok := stats[params.PlayerID]
	if !ok {
		return nil, fmt.Errorf("player %q: %w", params.PlayerID, ranking.ErrPlayerNotFound)
	}

	report := &PlayerReport{
		PlayerID:     params.PlayerID,
		Job:          mine.Job,
		WeekCount:    mine.WeekCount,
		Summary:      make(map[model.Category]*CategorySummary, 3),
		StatusCounts: make(map[string]int),
	}

	myRows := period.ForPlayer(inRange, params.PlayerID)
	report.Weeks = myRows
	report.Level, report.ImageRef = latestProfile(myRows)
	for _, rec := range myRows {
		report.StatusCounts[rec.WeeklyStatus.String()]++
	}
	report.ChangeLog = changelog.Derive(myRows)

	for _, c := range model.Categories() {
		mode := ranking.DefaultMode(c)
		if c == params.Category && params.Mode != "" {
			mode = params.Mode
		}
		summary := &CategorySummary{
			Total: mine.Total(c),
			Rank:  ranking.Rank(stats, c)[params.PlayerID],
			Mode:  mode,
		}
		if mine.WeekCount > 0 {
			switch mode {
			case ranking.ModePercentage:
				summary.Percentage = ranking.TruncPercent(mine.Total(c), mine.WeekCount)
			default:
				summary.Average = mine.Total(c) / mine.WeekCount
			}
		}
		prev, next, err := ranking.Neighbors(stats, params.PlayerID, c, mode)
		if err != nil {
			return nil, err
		}
		summary.Neighbors = NeighborPair{Previous: prev, Next: next}
		report.Summary[c] = summary
	}

	return report, nil
}

// latestProfile walks the player's rows newest-first and surfaces the
// most recent known-valid level and portrait, skipping rows where the
// refresher found nothing.
func latestProfile(rows []model.WeeklyRecord) (level int, imageRef string) {
	sorted := make([]model.WeeklyRecord, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Week.After(sorted[j].Week)
	})
	for _, rec := range sorted {
		if rec.Level > 0 {
			return rec.Level, rec.ImageRef
		}
	}
	return 0, ""
}

// LeaderboardParams scope a leaderboard query.
type LeaderboardParams struct {
	Range    period.Range
	Category model.Category
	Limit    int // 0 means everyone
}

// LeaderboardRow is one board entry, ordered best-first.
type LeaderboardRow struct {
	Rank       int          `json:"rank"`
	PlayerID   string       `json:"player_id"`
	Job        string       `json:"job"`
	Total      int          `json:"total"`
	WeekCount  int          `json:"week_count"`
	Mode       ranking.Mode `json:"mode"`
	Average    int          `json:"average,omitempty"`
	Percentage float64      `json:"percentage,omitempty"`
}

// Leaderboard ranks every player in the period for one category. An empty
// period yields repository.ErrNoData so callers can render it distinctly.
func (s *Service) Leaderboard(ctx context.Context, params LeaderboardParams) ([]LeaderboardRow, error) {
	start := time.Now()
	defer func() { metrics.RecordRecompute(time.Since(start)) }()

	if err := params.Range.Validate(); err != nil {
		return nil, err
	}

	stats := aggregate.Aggregate(period.Filter(s.snapshot(), params.Range))
	if len(stats) == 0 {
		return nil, repository.ErrNoData
	}

	ordered := ranking.Order(stats, params.Category)
	ranks := ranking.Rank(stats, params.Category)
	mode := ranking.DefaultMode(params.Category)

	rows := make([]LeaderboardRow, 0, len(ordered))
	for _, st := range ordered {
		row := LeaderboardRow{
			Rank:      ranks[st.PlayerID],
			PlayerID:  st.PlayerID,
			Job:       st.Job,
			Total:     st.Total(params.Category),
			WeekCount: st.WeekCount,
			Mode:      mode,
		}
		if st.WeekCount > 0 {
			switch mode {
			case ranking.ModePercentage:
				row.Percentage = ranking.TruncPercent(row.Total, st.WeekCount)
			default:
				row.Average = row.Total / st.WeekCount
			}
		}
		rows = append(rows, row)
		if params.Limit > 0 && len(rows) == params.Limit {
			break
		}
	}
	return rows, nil
}

// Players returns the distinct player ids in the snapshot, sorted. Used
// to populate selectors.
func (s *Service) Players(ctx context.Context) []string {
	seen := make(map[string]struct{})
	for _, rec := range s.snapshot() {
		seen[rec.PlayerID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Character resolves a player name via the external lookup. Always
// returns a result; failures surface as a no-data status.
func (s *Service) Character(ctx context.Context, name string) lookup.Result {
	res := s.lookup.Lookup(ctx, name)
	metrics.RecordLookup(string(res.Status))
	return res
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":  s.started,
		"records":  len(s.records),
		"revision": s.revision,
	}
	if !s.loadedAt.IsZero() {
		stats["loadedAt"] = s.loadedAt.UTC().Format(time.RFC3339)
	}
	if s.started {
		players := make(map[string]struct{})
		for _, rec := range s.records {
			players[rec.PlayerID] = struct{}{}
		}
		stats["players"] = len(players)
		stats["lookupEnabled"] = s.lookup.Enabled()
		metrics.UpdateSnapshotPlayers(len(players))
	}
	return stats
}
