// Command guildstats-import ingests the weekly CSV export into the SQLite
// record store. It can optionally refresh each distinct player's level,
// class, and portrait from the Nexon open API (best effort, rate limited)
// and repairs unknown jobs from the previous snapshot so a failed lookup
// never erases known data.
package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/maplehall/guildstats/internal/adapters/lookup"
	"github.com/maplehall/guildstats/internal/adapters/repository"
	"github.com/maplehall/guildstats/internal/domain/model"
	"github.com/maplehall/guildstats/pkg/logger"
)

// unknownJob is the placeholder the refresher writes when the API cannot
// resolve a player (renamed or deleted character).
const unknownJob = "unknown"

// lookupInterval keeps the refresher under the open API's rate limit.
const lookupInterval = 200 * time.Millisecond

func main() {
	var (
		csvPath = flag.String("csv", "guild_data.csv", "weekly CSV export to ingest")
		dbPath  = flag.String("db", "guildstats.db", "SQLite record store")
		refresh = flag.Bool("refresh", false, "refresh level/job/portrait from the Nexon API")
		apiKey  = flag.String("api-key", os.Getenv("GUILDSTATS_NEXON_API_KEY"), "Nexon open API key (required with -refresh)")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.Get()
	ctx := context.Background()

	if err := run(ctx, *csvPath, *dbPath, *refresh, *apiKey); err != nil {
		log.Error(ctx, "import failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, csvPath, dbPath string, refresh bool, apiKey string) error {
	log := logger.Get()

	raw, err := os.ReadFile(csvPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", csvPath, err)
	}
	records, err := repository.ReadRecords(strings.NewReader(string(raw)))
	if err != nil {
		return err
	}
	log.Info(ctx, "parsed weekly records",
		logger.String("csv", csvPath),
		logger.Int("rows", len(records)),
	)

	store, err := repository.OpenSQLite(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	previous, err := store.All(ctx)
	if err != nil {
		return err
	}

	if refresh {
		if apiKey == "" {
			return fmt.Errorf("-refresh requires an API key")
		}
		refreshProfiles(ctx, records, apiKey)
	}
	repaired := repairJobs(records, previous)
	if repaired > 0 {
		log.Info(ctx, "repaired unknown jobs from previous snapshot", logger.Int("players", repaired))
	}

	revision := hex.EncodeToString(func() []byte { h := sha256.Sum256(raw); return h[:] }())
	if err := store.ReplaceAll(ctx, records, revision); err != nil {
		return err
	}
	log.Info(ctx, "snapshot imported",
		logger.String("db", dbPath),
		logger.String("revision", revision[:12]),
		logger.Int("rows", len(records)),
	)
	return nil
}

// refreshProfiles updates every row of each distinct player with the
// API's current level, class, and portrait. Failures leave the row as
// parsed; a slow walk over the roster keeps the API happy.
func refreshProfiles(ctx context.Context, records []model.WeeklyRecord, apiKey string) {
	log := logger.Get()
	client := lookup.New(lookup.WithAPIKey(apiKey))

	profiles := make(map[string]*lookup.Character)
	for _, rec := range records {
		if _, seen := profiles[rec.PlayerID]; seen {
			continue
		}
		res := client.Lookup(ctx, rec.PlayerID)
		if res.Status == lookup.StatusOK {
			profiles[rec.PlayerID] = res.Character
		} else {
			profiles[rec.PlayerID] = nil
			log.Warn(ctx, "character lookup failed",
				logger.String("player", rec.PlayerID),
				logger.String("reason", res.Reason),
			)
		}
		time.Sleep(lookupInterval)
	}

	for i := range records {
		ch := profiles[records[i].PlayerID]
		if ch == nil {
			continue
		}
		records[i].Level = ch.Level
		records[i].ImageRef = ch.ImageRef
		if ch.Job != "" {
			records[i].Job = ch.Job
		}
	}
}

// repairJobs backfills rows whose job is the unknown placeholder with the
// player's last known job from the previous snapshot. Does not consume
// any API quota.
func repairJobs(records, previous []model.WeeklyRecord) int {
	known := make(map[string]string)
	for _, rec := range previous {
		job := strings.TrimSpace(rec.Job)
		if job != "" && !strings.EqualFold(job, unknownJob) {
			known[rec.PlayerID] = job
		}
	}

	repairedPlayers := make(map[string]struct{})
	for i := range records {
		if !strings.EqualFold(strings.TrimSpace(records[i].Job), unknownJob) {
			continue
		}
		if job, ok := known[records[i].PlayerID]; ok {
			records[i].Job = job
			repairedPlayers[records[i].PlayerID] = struct{}{}
		}
	}
	return len(repairedPlayers)
}
