package usecase

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/gridironpool/pickstick/internal/domain/game"
	"github.com/gridironpool/pickstick/internal/domain/livescore"
	"github.com/gridironpool/pickstick/internal/domain/pick"
	"github.com/gridironpool/pickstick/internal/domain/team"
	"github.com/gridironpool/pickstick/internal/domain/weekstate"
	"github.com/gridironpool/pickstick/internal/platform/logging"
)

const (
	simBaseWeight     = 0.1
	simPointsWeight   = 0.75
	simAffinityWeight = 0.25
)

type SimulationService struct {
	orderSvc  *DraftOrderService
	pickRepo  pick.Repository
	gameRepo  game.Repository
	liveRepo  livescore.Repository
	teamRepo  team.Repository
	stateRepo weekstate.Repository
	weekMu    *WeekMutex
	logger    *logging.Logger
	randFloat func() float64
	now       func() time.Time
}

func NewSimulationService(
	orderSvc *DraftOrderService,
	pickRepo pick.Repository,
	gameRepo game.Repository,
	liveRepo livescore.Repository,
	teamRepo team.Repository,
	stateRepo weekstate.Repository,
	weekMu *WeekMutex,
	logger *logging.Logger,
) *SimulationService {
	return &SimulationService{
		orderSvc:  orderSvc,
		pickRepo:  pickRepo,
		gameRepo:  gameRepo,
		liveRepo:  liveRepo,
		teamRepo:  teamRepo,
		stateRepo: stateRepo,
		weekMu:    weekMu,
		logger:    logger,
		randFloat: rand.Float64,
		now:       time.Now,
	}
}

type simCandidate struct {
	teamID   int64
	expected float64
	weight   float64
}

// SimulateWeek fills the whole draft board for week with weighted-random
// picks. It refuses to run over a board that already has any drafted team.
// Candidates are scored from two signals: how many points a team scored on
// average in earlier weeks, and how often the selecting user drafted the
// team before. Early rounds favour strong teams, the stick rounds invert
// the points signal so weak teams get handed out there.
func (s *SimulationService) SimulateWeek(ctx context.Context, week int) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "SimulationService.SimulateWeek")
	defer span.End()

	if !validWeek(week) {
		return nil, fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, FirstWeek, LastWeek)
	}

	unlock := s.weekMu.Lock(week)
	defer unlock()

	existing, err := s.pickRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list picks for week %d: %w", week, err)
	}
	for _, p := range existing {
		if p.HasTeam() {
			return nil, fmt.Errorf("%w: week %d", ErrSimulationConflict, week)
		}
	}

	order, err := s.orderSvc.ComputeOrder(ctx, week)
	if err != nil {
		return nil, err
	}
	plan := s.orderSvc.ExpandSnake(week, order)

	expected, err := s.historicalAverages(ctx, week)
	if err != nil {
		return nil, err
	}
	affinity, err := s.draftCounts(ctx, week)
	if err != nil {
		return nil, err
	}

	games, err := s.gameRepo.ListByWeek(ctx, week)
	if err != nil {
		return nil, fmt.Errorf("list games for week %d: %w", week, err)
	}
	remaining := make(map[int64]bool, len(games)*2)
	for _, g := range games {
		remaining[g.HomeTeamID] = true
		remaining[g.AwayTeamID] = true
	}
	if len(remaining) < len(plan) {
		return nil, fmt.Errorf("%w: only %d teams play in week %d but %d picks are needed",
			ErrInvalidInput, len(remaining), week, len(plan))
	}

	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	teamNames := make(map[int64]string, len(teams))
	for _, t := range teams {
		teamNames[t.ID] = t.Name
	}

	for i := range plan {
		slot := &plan[i]
		selector := slot.SelectorID()
		invert := slot.Round >= 3

		cands := s.scoreCandidates(remaining, expected, affinity[selector], invert)
		chosen := s.sampleWeighted(cands)
		teamID := cands[chosen].teamID

		slot.TeamID = &teamID
		slot.Reasoning = s.reasoning(teamNames[teamID], cands, chosen, affinity[selector][teamID], invert)
		delete(remaining, teamID)
	}

	if len(existing) > 0 {
		if err := s.pickRepo.DeleteByWeek(ctx, week); err != nil {
			return nil, fmt.Errorf("clear picks for week %d: %w", week, err)
		}
	}
	if err := s.pickRepo.InsertMany(ctx, plan); err != nil {
		return nil, fmt.Errorf("insert simulated picks for week %d: %w", week, err)
	}
	if err := s.stateRepo.UpsertSimulated(ctx, week, true); err != nil {
		return nil, fmt.Errorf("mark week %d simulated: %w", week, err)
	}
	if err := s.stateRepo.UpsertLock(ctx, week, true); err != nil {
		return nil, fmt.Errorf("lock simulated week %d: %w", week, err)
	}

	s.logger.InfoContext(ctx, "week simulated", "week", week, "picks", len(plan))
	return plan, nil
}

// historicalAverages computes each team's mean points per completed game
// across all weeks before the given one. Teams with no finished game
// average zero.
func (s *SimulationService) historicalAverages(ctx context.Context, week int) (map[int64]float64, error) {
	totals := make(map[int64]int)
	counts := make(map[int64]int)

	for w := FirstWeek; w < week; w++ {
		games, err := s.gameRepo.ListByWeek(ctx, w)
		if err != nil {
			return nil, fmt.Errorf("list games for week %d: %w", w, err)
		}
		if len(games) == 0 {
			continue
		}
		eventIDs := make([]int64, 0, len(games))
		for _, g := range games {
			eventIDs = append(eventIDs, g.EventID)
		}
		scores, err := s.liveRepo.ListByEventIDs(ctx, eventIDs)
		if err != nil {
			return nil, fmt.Errorf("list live scores for week %d: %w", w, err)
		}
		for _, g := range games {
			sc, ok := scores[g.EventID]
			if !ok || !sc.IsComplete {
				continue
			}
			totals[g.HomeTeamID] += sc.HomeScore
			counts[g.HomeTeamID]++
			totals[g.AwayTeamID] += sc.AwayScore
			counts[g.AwayTeamID]++
		}
	}

	out := make(map[int64]float64, len(totals))
	for teamID, total := range totals {
		out[teamID] = float64(total) / float64(counts[teamID])
	}
	return out, nil
}

// draftCounts builds, per user, how many times they drafted each team in
// earlier weeks.
func (s *SimulationService) draftCounts(ctx context.Context, week int) (map[int64]map[int64]int, error) {
	prior, err := s.pickRepo.ListUpToWeek(ctx, week-1)
	if err != nil {
		return nil, fmt.Errorf("list picks up to week %d: %w", week-1, err)
	}
	out := make(map[int64]map[int64]int)
	for _, p := range prior {
		if !p.HasTeam() {
			continue
		}
		selector := p.SelectorID()
		if out[selector] == nil {
			out[selector] = make(map[int64]int)
		}
		out[selector][*p.TeamID]++
	}
	return out, nil
}

func (s *SimulationService) scoreCandidates(remaining map[int64]bool, expected map[int64]float64, affinity map[int64]int, invert bool) []simCandidate {
	cands := make([]simCandidate, 0, len(remaining))
	minPts, maxPts := 0.0, 0.0
	maxAff := 0
	first := true
	for teamID := range remaining {
		pts := expected[teamID]
		if first {
			minPts, maxPts = pts, pts
			first = false
		} else {
			if pts < minPts {
				minPts = pts
			}
			if pts > maxPts {
				maxPts = pts
			}
		}
		if affinity[teamID] > maxAff {
			maxAff = affinity[teamID]
		}
		cands = append(cands, simCandidate{teamID: teamID, expected: pts})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].teamID < cands[j].teamID })

	for i := range cands {
		pointsScore := 0.5
		if maxPts > minPts {
			pointsScore = (cands[i].expected - minPts) / (maxPts - minPts)
		}
		if invert {
			pointsScore = 1 - pointsScore
		}
		affinityScore := 0.0
		if maxAff > 0 {
			affinityScore = float64(affinity[cands[i].teamID]) / float64(maxAff)
		}
		cands[i].weight = simBaseWeight + simPointsWeight*pointsScore + simAffinityWeight*affinityScore
	}
	return cands
}

// sampleWeighted picks one candidate index with probability proportional to
// its weight.
func (s *SimulationService) sampleWeighted(cands []simCandidate) int {
	total := 0.0
	for _, c := range cands {
		total += c.weight
	}
	target := s.randFloat() * total
	for i, c := range cands {
		target -= c.weight
		if target < 0 {
			return i
		}
	}
	return len(cands) - 1
}

func (s *SimulationService) reasoning(teamName string, cands []simCandidate, chosen int, timesDrafted int, invert bool) string {
	rank := 1
	for i, c := range cands {
		if i == chosen {
			continue
		}
		if c.weight > cands[chosen].weight {
			rank++
		}
	}

	var quality string
	switch {
	case invert && cands[chosen].expected > 0:
		quality = fmt.Sprintf("averaging %.1f pts, a classic stick candidate", cands[chosen].expected)
	case cands[chosen].expected > 0:
		quality = fmt.Sprintf("averaging %.1f pts per game", cands[chosen].expected)
	default:
		quality = "with no scoring history yet"
	}

	if timesDrafted > 0 {
		return fmt.Sprintf("%s %s, drafted %d time(s) before (ranked #%d of %d on the board)",
			teamName, quality, timesDrafted, rank, len(cands))
	}
	return fmt.Sprintf("%s %s (ranked #%d of %d on the board)", teamName, quality, rank, len(cands))
}
