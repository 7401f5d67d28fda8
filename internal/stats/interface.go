package stats

// Aggregator maintains per-player aggregate statistics derived from completed
// matches. Completing a match is the only trigger for mutation.
type Aggregator interface {
	// Apply folds one completed match into the player's aggregates. The
	// (matchID, playerID) pair is an idempotency key: reapplying it is a no-op.
	Apply(matchID string, playerID int64, outcome Outcome) error
	Get(playerID int64) (*PlayerStats, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
}
