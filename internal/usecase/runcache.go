package usecase

import (
	"sync"

	"github.com/onetouchfc/one-touch-loader/internal/domain/league"
)

// LeagueMeta is the per-league slice of the run cache.
type LeagueMeta struct {
	Name        string
	ImagePath   string
	SubType     string
	Competition league.CompetitionType
}

// SeasonInfo is the per-season slice of the run cache.
type SeasonInfo struct {
	LeagueID  int64
	Name      string
	StartYear int
}

// RunCache holds entity metadata resolved during one ingestion run so later
// steps never re-fetch it. It is created per run, passed explicitly, and
// safe for concurrent workers.
type RunCache struct {
	mu              sync.RWMutex
	leagues         map[int64]LeagueMeta
	seasonsByLeague map[int64][]int64
	seasons         map[int64]SeasonInfo
}

func NewRunCache() *RunCache {
	return &RunCache{
		leagues:         make(map[int64]LeagueMeta),
		seasonsByLeague: make(map[int64][]int64),
		seasons:         make(map[int64]SeasonInfo),
	}
}

func (c *RunCache) PutLeague(leagueID int64, meta LeagueMeta) {
	if leagueID <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.leagues[leagueID] = meta
}

func (c *RunCache) League(leagueID int64) (LeagueMeta, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	meta, ok := c.leagues[leagueID]
	return meta, ok
}

func (c *RunCache) LeagueIDs() []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]int64, 0, len(c.leagues))
	for id := range c.leagues {
		out = append(out, id)
	}
	return out
}

func (c *RunCache) PutSeason(seasonID int64, info SeasonInfo) {
	if seasonID <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.seasons[seasonID]; !exists {
		c.seasonsByLeague[info.LeagueID] = append(c.seasonsByLeague[info.LeagueID], seasonID)
	}
	c.seasons[seasonID] = info
}

func (c *RunCache) Season(seasonID int64) (SeasonInfo, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	info, ok := c.seasons[seasonID]
	return info, ok
}

func (c *RunCache) SeasonIDsByLeague(leagueID int64) []int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]int64(nil), c.seasonsByLeague[leagueID]...)
}
