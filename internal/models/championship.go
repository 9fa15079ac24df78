package models

// UnlimitedSentinel is the value older backends store for "no sprint limit".
// Only the sprint quotas read it as unlimited; see SprintQuota.
const UnlimitedSentinel = 9999

// ChampionshipLimits holds the per-championship betting quotas.
// Zero or absent values mean unlimited.
type ChampionshipLimits struct {
	ChampionshipID              int64 `json:"championshipId"`
	MaxPointsPerRaceBet         int   `json:"maxPointsPerBet" validate:"gte=0"`
	MaxPointsPerSprintBet       int   `json:"maxPointsPerSprintBet" validate:"gte=0"`
	MaxBetsPerRace              int   `json:"maxBetsPerRace" validate:"gte=0"`
	MaxBetsPerSprintRace        int   `json:"maxBetsPerSprintRace" validate:"gte=0"`
	MaxBetsPerRiderSeason       int   `json:"maxBetsPerPilot" validate:"gte=0"`
	MaxSprintBetsPerRiderSeason int   `json:"maxSprintBetsPerPilot" validate:"gte=0"`
	MaxLineupsPerRider          int   `json:"maxLineupsPerPilot" validate:"gte=0"`
}

// Limit normalises a configured quota: ok is false when the quota is unlimited.
func Limit(v int) (limit int, ok bool) {
	if v <= 0 {
		return 0, false
	}
	return v, true
}

// SprintQuota maps the legacy sprint sentinel onto the zero "unlimited" value.
func SprintQuota(v int) int {
	if v >= UnlimitedSentinel {
		return 0
	}
	return v
}
