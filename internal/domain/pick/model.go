package pick

// Rounds is the number of draft rounds in a week.
const Rounds = 4

// Pick is one drafted team slot for a user in a given week and round. TeamID
// stays nil until a team is chosen. AssignedByID is set only for rounds 3-4,
// where another participant picks on this user's behalf.
type Pick struct {
	ID           int64
	Week         int
	Round        int
	UserID       int64
	TeamID       *int64
	OrderInRound int
	AssignedByID *int64
	Reasoning    string
}

// SelectorID returns the user who actually chooses the team for this pick:
// the pick's owner in rounds 1-2, the assigner in rounds 3-4.
func (p Pick) SelectorID() int64 {
	if p.AssignedByID != nil {
		return *p.AssignedByID
	}
	return p.UserID
}

// HasTeam reports whether a team has been drafted into this slot.
func (p Pick) HasTeam() bool {
	return p.TeamID != nil
}
