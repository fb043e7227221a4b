package httpapi

import (
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/team"
	"github.com/gridironpool/pickstick/internal/domain/weekstate"
	"github.com/gridironpool/pickstick/internal/usecase"
)

type currentWeekDTO struct {
	Week  int          `json:"week"`
	State weekStateDTO `json:"state"`
}

type weekStateDTO struct {
	Week          int    `json:"week"`
	IsDraftLocked bool   `json:"isDraftLocked"`
	IsSimulated   bool   `json:"isSimulated"`
	Punishment    string `json:"punishment,omitempty"`
}

type draftStateDTO struct {
	Week           int       `json:"week"`
	IsDraftLocked  bool      `json:"isDraftLocked"`
	Picks          []pickDTO `json:"picks"`
	AvailableTeams []teamDTO `json:"availableTeams"`
}

type pickDTO struct {
	ID           int64  `json:"id"`
	Week         int    `json:"week"`
	Round        int    `json:"round"`
	UserID       int64  `json:"userId"`
	TeamID       *int64 `json:"teamId,omitempty"`
	OrderInRound int    `json:"orderInRound"`
	AssignedByID *int64 `json:"assignedById,omitempty"`
	Reasoning    string `json:"reasoning,omitempty"`
}

type teamDTO struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Short    string `json:"short"`
	BadgeURL string `json:"badgeUrl,omitempty"`
}

type leaderboardDTO struct {
	Week    int                   `json:"week"`
	Entries []leaderboardEntryDTO `json:"entries"`
}

type leaderboardEntryDTO struct {
	UserID          int64  `json:"userId"`
	Name            string `json:"name"`
	CurrentPoints   int    `json:"currentPoints"`
	ProjectedPoints int    `json:"projectedPoints"`
	CompletedGames  int    `json:"completedGames"`
	TotalGames      int    `json:"totalGames"`
}

func weekStateToDTO(state weekstate.State) weekStateDTO {
	return weekStateDTO{
		Week:          state.Week,
		IsDraftLocked: state.IsDraftLocked,
		IsSimulated:   state.IsSimulated,
		Punishment:    state.Punishment,
	}
}

func pickToDTO(p pick.Pick) pickDTO {
	return pickDTO{
		ID:           p.ID,
		Week:         p.Week,
		Round:        p.Round,
		UserID:       p.UserID,
		TeamID:       p.TeamID,
		OrderInRound: p.OrderInRound,
		AssignedByID: p.AssignedByID,
		Reasoning:    p.Reasoning,
	}
}

func picksToDTO(picks []pick.Pick) []pickDTO {
	items := make([]pickDTO, 0, len(picks))
	for _, p := range picks {
		items = append(items, pickToDTO(p))
	}
	return items
}

func teamsToDTO(teams []team.Team) []teamDTO {
	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamDTO{
			ID:       t.ID,
			Name:     t.Name,
			Short:    t.Short,
			BadgeURL: t.BadgeURL,
		})
	}
	return items
}

func leaderboardToDTO(week int, entries []usecase.LeaderboardEntry) leaderboardDTO {
	items := make([]leaderboardEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, leaderboardEntryDTO{
			UserID:          e.UserID,
			Name:            e.Name,
			CurrentPoints:   e.CurrentPoints,
			ProjectedPoints: e.ProjectedPoints,
			CompletedGames:  e.CompletedGames,
			TotalGames:      e.TotalGames,
		})
	}
	return leaderboardDTO{Week: week, Entries: items}
}
