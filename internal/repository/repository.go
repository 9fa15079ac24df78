// Package repository provides access to contest data through the backend API.
package repository

import (
	"fmt"
)

// Repositories holds all repository implementations
type Repositories struct {
	Schedule     ScheduleRepository
	Championship ChampionshipRepository
	Rider        RiderRepository
	Bet          BetRepository
	Lineup       LineupRepository
	Cache        *Cache
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(backend Backend, c *Cache, championshipID int64) (*Repositories, error) {
	if backend == nil {
		return nil, fmt.Errorf("backend client is required")
	}
	if championshipID <= 0 {
		return nil, fmt.Errorf("championship id is required")
	}

	return &Repositories{
		Schedule:     NewAPIScheduleRepository(backend, c),
		Championship: NewAPIChampionshipRepository(backend, c, championshipID),
		Rider:        NewAPIRiderRepository(backend, c, championshipID),
		Bet:          NewAPIBetRepository(backend, championshipID),
		Lineup:       NewAPILineupRepository(backend, championshipID),
		Cache:        c,
	}, nil
}
