package engine

import (
	"strings"

	"github.com/yourusername/grid-picks/internal/models"
)

// Part names one independently loaded input of a Snapshot.
type Part uint8

const (
	PartSchedule Part = 1 << iota
	PartLimits
	PartRoster
	PartRaceBets
	PartSeasonBets
	PartLineup
	PartSeasonLineups
)

var partNames = map[Part]string{
	PartSchedule:      "schedule",
	PartLimits:        "limits",
	PartRoster:        "roster",
	PartRaceBets:      "race_bets",
	PartSeasonBets:    "season_bets",
	PartLineup:        "lineup",
	PartSeasonLineups: "season_lineups",
}

func (p Part) String() string {
	var names []string
	for bit := PartSchedule; bit <= PartSeasonLineups; bit <<= 1 {
		if p&bit != 0 {
			names = append(names, partNames[bit])
		}
	}
	return strings.Join(names, ",")
}

// Snapshot is the caller-assembled view of everything the engine evaluates.
// Each setter replaces its part wholesale and marks it loaded; parts are never merged.
type Snapshot struct {
	RaceID          int64
	Schedule        *models.RaceSchedule
	Limits          *models.ChampionshipLimits
	Roster          []models.Rider
	CurrentRaceBets []models.Bet
	SeasonBets      []models.Bet
	Lineup          *models.Lineup
	SeasonLineups   []models.Lineup
	loaded          Part
}

// NewSnapshot creates an empty snapshot for a race.
func NewSnapshot(raceID int64) *Snapshot {
	return &Snapshot{RaceID: raceID}
}

// SetSchedule records the race schedule.
func (s *Snapshot) SetSchedule(schedule *models.RaceSchedule) {
	s.Schedule = schedule
	s.markLoaded(PartSchedule, schedule != nil)
}

// SetLimits records the championship limits.
func (s *Snapshot) SetLimits(l *models.ChampionshipLimits) {
	s.Limits = l
	s.markLoaded(PartLimits, l != nil)
}

// SetRoster records the championship roster.
func (s *Snapshot) SetRoster(roster []models.Rider) {
	s.Roster = roster
	s.loaded |= PartRoster
}

// SetCurrentRaceBets records the user's bets for this race.
func (s *Snapshot) SetCurrentRaceBets(bets []models.Bet) {
	s.CurrentRaceBets = bets
	s.loaded |= PartRaceBets
}

// SetSeasonBets records the user's bets across the calendar.
func (s *Snapshot) SetSeasonBets(bets []models.Bet) {
	s.SeasonBets = bets
	s.loaded |= PartSeasonBets
}

// SetLineup records the user's lineup for this race; nil means none saved yet.
func (s *Snapshot) SetLineup(l *models.Lineup) {
	s.Lineup = l
	s.loaded |= PartLineup
}

// SetSeasonLineups records the user's lineups across the calendar.
func (s *Snapshot) SetSeasonLineups(lineups []models.Lineup) {
	s.SeasonLineups = lineups
	s.loaded |= PartSeasonLineups
}

// AddBet applies a successful create to the race and season collections.
func (s *Snapshot) AddBet(b models.Bet) {
	if s.loaded&PartRaceBets != 0 {
		s.CurrentRaceBets = append(append([]models.Bet(nil), s.CurrentRaceBets...), b)
	}
	if s.loaded&PartSeasonBets != 0 {
		s.SeasonBets = append(append([]models.Bet(nil), s.SeasonBets...), b)
	}
}

// RemoveBet applies a successful delete to the race and season collections.
func (s *Snapshot) RemoveBet(id int64) {
	s.CurrentRaceBets = withoutBet(s.CurrentRaceBets, id)
	s.SeasonBets = withoutBet(s.SeasonBets, id)
}

// Loaded reports whether every part in p has been loaded.
func (s *Snapshot) Loaded(p Part) bool {
	return s.loaded&p == p
}

// Missing returns the parts of p not yet loaded.
func (s *Snapshot) Missing(p Part) Part {
	return p &^ s.loaded
}

func (s *Snapshot) markLoaded(p Part, ok bool) {
	if ok {
		s.loaded |= p
	} else {
		s.loaded &^= p
	}
}

func withoutBet(bets []models.Bet, id int64) []models.Bet {
	if bets == nil {
		return nil
	}
	out := make([]models.Bet, 0, len(bets))
	for _, b := range bets {
		if b.ID != id {
			out = append(out, b)
		}
	}
	return out
}
