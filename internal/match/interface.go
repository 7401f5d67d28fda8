package match

// Controller drives matches through their lifecycle: created into the active
// state, then completed exactly once by a recorded result.
type Controller interface {
	// Create starts a match between two disjoint teams of 1-2 players each.
	// Listed players must not already be in an active match; their queue
	// entries, if any, are consumed.
	Create(court string, team1, team2 []int64) (*Match, error)
	// RecordResult consumes 1-3 game scores, computes the result, stamps
	// EndedAt and folds the outcome into every player's stats exactly once.
	// A second call for the same match fails with ErrMatchAlreadyCompleted.
	RecordResult(matchID string, scores []GameScore) (*Match, error)
	Get(matchID string) (*Match, error)
	ListActive() ([]Match, error)
	// ListCompleted returns completed matches ordered by EndedAt descending.
	ListCompleted(limit, offset int) ([]Match, error)
	// History returns a player's matches, newest first, with a won flag.
	History(playerID int64, limit int) ([]HistoryItem, error)
}
