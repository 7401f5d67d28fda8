package queue

import "time"

// QueueStore defines the interface for the shared waiting line.
type QueueStore interface {
	// Join appends a waiting entry for the player. A player can hold at most
	// one active (waiting or called) entry at a time.
	Join(playerID int64) (*Entry, error)
	// Leave closes the player's waiting entry; later entries shift down.
	Leave(playerID int64) error
	// Status reports the waiting total plus, for a known caller, their 1-based
	// position and estimated wait. Pass 0 for an anonymous caller.
	Status(playerID int64) (*Info, error)
	// CallNext marks the n longest-waiting entries as called and returns them
	// in FIFO order, ties broken by insertion order.
	CallNext(n int) ([]Entry, error)
	// Waiting returns the waiting entries in queue order with positions set.
	Waiting() ([]Entry, error)
	// MarkConsumed closes any active entries for the given players, used when
	// they are placed into a match.
	MarkConsumed(playerIDs []int64) error
	// ExpireStale flips called entries older than ttl to expired and reports
	// how many were affected.
	ExpireStale(ttl time.Duration) (int, error)
}
