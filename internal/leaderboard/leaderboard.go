// Package leaderboard ranks game scores and attaches player profiles,
// reading both through the repository interface so any backend can serve it.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"math"

	"spacegame/internal/logging"
	"spacegame/internal/model"
	"spacegame/internal/repository"
)

var logger = logging.For("leaderboard")

var ErrInvalidPageSize = errors.New("page size must be positive")

// Filter narrows the leaderboard. Empty fields match everything.
type Filter struct {
	GameMode string
	Region   string
}

func (f Filter) match(s model.Score) bool {
	return (f.GameMode == "" || s.GameMode == f.GameMode) &&
		(f.Region == "" || s.GameRegion == f.Region)
}

// Entry is one ranked score and its player. Profile is zero when the score
// references an unknown profile.
type Entry struct {
	Rank    int           `json:"rank"`
	Score   model.Score   `json:"score"`
	Profile model.Profile `json:"profile"`
}

// Page is one page of the leaderboard. Page is zero-based; Total counts all
// matching scores across pages.
type Page struct {
	Filter   Filter  `json:"-"`
	Page     int     `json:"page"`
	PageSize int     `json:"pageSize"`
	Total    int     `json:"total"`
	Entries  []Entry `json:"entries"`
}

// Pages returns how many pages Total spans.
func (p Page) Pages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

type Service struct {
	scores   repository.Repository[model.Score]
	profiles repository.Repository[model.Profile]
}

func New(scores repository.Repository[model.Score], profiles repository.Repository[model.Profile]) *Service {
	return &Service{scores: scores, profiles: profiles}
}

// Count returns how many scores match f.
func (s *Service) Count(ctx context.Context, f Filter) (int, error) {
	return s.scores.CountItems(ctx, f.match)
}

// Page returns the zero-based page of scores matching f, highest first.
func (s *Service) Page(ctx context.Context, f Filter, page, pageSize int) (Page, error) {
	if pageSize <= 0 {
		return Page{}, fmt.Errorf("%w: %d", ErrInvalidPageSize, pageSize)
	}

	total, err := s.scores.CountItems(ctx, f.match)
	if err != nil {
		return Page{}, fmt.Errorf("counting scores: %w", err)
	}
	scores, err := s.scores.GetItems(ctx, f.match, model.HighScore, page, pageSize)
	if err != nil {
		return Page{}, fmt.Errorf("fetching scores: %w", err)
	}

	profiles, err := s.lookup(ctx, scores)
	if err != nil {
		return Page{}, err
	}

	first := repository.Query[model.Score]{Page: page, PageSize: pageSize}.Skip() + 1
	entries := make([]Entry, len(scores))
	for i, sc := range scores {
		entries[i] = Entry{Rank: first + i, Score: sc}
		p, ok := profiles[sc.ProfileID]
		if !ok {
			logger.Warn("score references unknown profile", "score", sc.ID, "profile", sc.ProfileID)
			continue
		}
		entries[i].Profile = p
	}

	logger.Debug("page built", "mode", f.GameMode, "region", f.Region, "page", page, "entries", len(entries), "total", total)
	return Page{Filter: f, Page: page, PageSize: pageSize, Total: total, Entries: entries}, nil
}

// lookup fetches the profiles referenced by scores in one query. When
// several profiles share an id the first one wins.
func (s *Service) lookup(ctx context.Context, scores []model.Score) (map[string]model.Profile, error) {
	if len(scores) == 0 {
		return nil, nil
	}
	wanted := make(map[string]struct{}, len(scores))
	for _, sc := range scores {
		wanted[sc.ProfileID] = struct{}{}
	}
	found, err := s.profiles.GetItems(ctx, func(p model.Profile) bool {
		_, ok := wanted[p.ID]
		return ok
	}, nil, 0, math.MaxInt)
	if err != nil {
		return nil, fmt.Errorf("fetching profiles: %w", err)
	}
	out := make(map[string]model.Profile, len(wanted))
	for _, p := range found {
		if _, dup := out[p.ID]; !dup {
			out[p.ID] = p
		}
	}
	return out, nil
}
