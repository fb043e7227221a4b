package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrOrderNotAvailable means the preceding week is not complete yet, so
	// the draft order for the requested week cannot be determined.
	ErrOrderNotAvailable = errors.New("draft order not available")

	// ErrDraftLocked means a real game tied to a drafted team has started and
	// the week's draft no longer accepts changes.
	ErrDraftLocked = errors.New("draft is locked")

	// ErrGameAlreadyStarted rejects picking a team whose game has kicked off.
	ErrGameAlreadyStarted = errors.New("game already started")

	// ErrTeamAlreadyPicked rejects assigning a team twice in the same week.
	ErrTeamAlreadyPicked = errors.New("team already picked this week")

	// ErrDraftAlreadyComplete rejects re-seeding a fully drafted week.
	ErrDraftAlreadyComplete = errors.New("draft already complete")

	// ErrSimulationConflict rejects simulating a week that already has
	// drafted teams.
	ErrSimulationConflict = errors.New("picks already exist for week")
)
