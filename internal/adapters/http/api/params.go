package api

import (
	"fmt"
	"net/url"
	"time"

	"github.com/maplehall/guildstats/internal/domain/model"
	"github.com/maplehall/guildstats/internal/domain/period"
	"github.com/maplehall/guildstats/internal/domain/ranking"
)

// Query parameter names shared across handlers.
const (
	paramStart    = "start"
	paramEnd      = "end"
	paramCategory = "category"
	paramMode     = "mode"
	paramLimit    = "limit"
)

const dateLayout = "2006-01-02"

// parseRange reads the inclusive start/end query parameters. Both are
// required; validity (start <= end) is checked downstream so the core can
// surface its own invalid-range condition.
func parseRange(q url.Values) (period.Range, error) {
	startStr, endStr := q.Get(paramStart), q.Get(paramEnd)
	if startStr == "" || endStr == "" {
		return period.Range{}, fmt.Errorf("missing %s or %s", paramStart, paramEnd)
	}
	start, err := time.Parse(dateLayout, startStr)
	if err != nil {
		return period.Range{}, fmt.Errorf("invalid %s; want YYYY-MM-DD", paramStart)
	}
	end, err := time.Parse(dateLayout, endStr)
	if err != nil {
		return period.Range{}, fmt.Errorf("invalid %s; want YYYY-MM-DD", paramEnd)
	}
	return period.Range{Start: start, End: end}, nil
}

// parseCategory reads the required category query parameter.
func parseCategory(q url.Values) (model.Category, error) {
	c, ok := model.ParseCategory(q.Get(paramCategory))
	if !ok {
		return "", fmt.Errorf("invalid %s; want flag, water, or castle", paramCategory)
	}
	return c, nil
}

// parseMode reads the optional display mode query parameter; empty keeps
// the category's conventional mode.
func parseMode(q url.Values) (ranking.Mode, error) {
	raw := q.Get(paramMode)
	if raw == "" {
		return "", nil
	}
	m, ok := ranking.ParseMode(raw)
	if !ok {
		return "", fmt.Errorf("invalid %s; want average or percentage", paramMode)
	}
	return m, nil
}
