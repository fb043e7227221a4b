package weekstate

import "time"

// State is per-week metadata owned by the lock controller and the punishment
// boundary. Rows are created lazily on first lock, simulate, or punishment set.
type State struct {
	Week          int
	IsDraftLocked bool
	IsSimulated   bool
	Punishment    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
