package memory

import (
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/team"
	"github.com/gridironpool/pickstick/internal/domain/user"
)

// SeedTeams returns all 32 NFL teams. Names match the scoreboard feed's
// display names so feed events resolve without extra aliasing.
func SeedTeams() []team.Team {
	names := []struct {
		name  string
		short string
	}{
		{"Arizona Cardinals", "ARI"},
		{"Atlanta Falcons", "ATL"},
		{"Baltimore Ravens", "BAL"},
		{"Buffalo Bills", "BUF"},
		{"Carolina Panthers", "CAR"},
		{"Chicago Bears", "CHI"},
		{"Cincinnati Bengals", "CIN"},
		{"Cleveland Browns", "CLE"},
		{"Dallas Cowboys", "DAL"},
		{"Denver Broncos", "DEN"},
		{"Detroit Lions", "DET"},
		{"Green Bay Packers", "GB"},
		{"Houston Texans", "HOU"},
		{"Indianapolis Colts", "IND"},
		{"Jacksonville Jaguars", "JAX"},
		{"Kansas City Chiefs", "KC"},
		{"Las Vegas Raiders", "LV"},
		{"Los Angeles Chargers", "LAC"},
		{"Los Angeles Rams", "LAR"},
		{"Miami Dolphins", "MIA"},
		{"Minnesota Vikings", "MIN"},
		{"New England Patriots", "NE"},
		{"New Orleans Saints", "NO"},
		{"New York Giants", "NYG"},
		{"New York Jets", "NYJ"},
		{"Philadelphia Eagles", "PHI"},
		{"Pittsburgh Steelers", "PIT"},
		{"San Francisco 49ers", "SF"},
		{"Seattle Seahawks", "SEA"},
		{"Tampa Bay Buccaneers", "TB"},
		{"Tennessee Titans", "TEN"},
		{"Washington Commanders", "WSH"},
	}

	teams := make([]team.Team, 0, len(names))
	for i, n := range names {
		teams = append(teams, team.Team{
			ID:    int64(i + 1),
			Name:  n.name,
			Short: n.short,
		})
	}
	return teams
}

func SeedUsers() []user.User {
	return []user.User{
		{ID: 1, Username: "gridiron-gus", FirstName: "Gus", LastName: "Harmon"},
		{ID: 2, Username: "blitzqueen", FirstName: "Dana", LastName: "Ortiz"},
		{ID: 3, Username: "cheese-head", FirstName: "Pete", LastName: "Vogel"},
		{ID: 4, Username: "hailmary", FirstName: "Rae", LastName: "Kimball"},
		{ID: 5, Username: "fourthdown", FirstName: "Marcus", LastName: "Lee"},
	}
}

// SeedWeekGames builds a ten-game slate for a week starting at kickoff,
// pairing teams 1v2, 3v4 and so on. Handy for local runs and tests.
func SeedWeekGames(week int, kickoff time.Time) []game.Game {
	games := make([]game.Game, 0, 10)
	for i := 0; i < 10; i++ {
		games = append(games, game.Game{
			ID:         int64(week*100 + i + 1),
			EventID:    int64(401000000 + week*100 + i),
			Week:       week,
			Kickoff:    kickoff.Add(time.Duration(i) * time.Hour),
			HomeTeamID: int64(i*2 + 1),
			AwayTeamID: int64(i*2 + 2),
		})
	}
	return games
}
