package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/LettersBlue/african-nations-league-sub000/engine"
	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
)

// maxCareerStat — потолок карьерных счётчиков игрока.
const maxCareerStat = 999

// MatchNotifier получает уведомления о завершённых матчах. Реализуется
// websocket-хабом; nil-реализация допустима.
type MatchNotifier interface {
	MatchCompleted(tournamentID string, match *models.Match)
	BracketUpdated(tournamentID string, bracket *models.Bracket)
}

// ResultMailer отправляет письмо об итогах завершённого турнира.
type ResultMailer interface {
	SendTournamentCompleted(ctx context.Context, tournament *models.Tournament, winner, runnerUp *models.Team) error
}

type MatchService interface {
	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string, round *models.Round, status *models.MatchStatus) ([]*models.Match, error)
	Simulate(ctx context.Context, matchID string) (*models.Match, error)
}

type matchService struct {
	db             *sql.DB
	matchRepo      repositories.MatchRepository
	teamRepo       repositories.TeamRepository
	tournamentRepo repositories.TournamentRepository
	notifier       MatchNotifier
	mailer         ResultMailer
	logger         *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	tournamentRepo repositories.TournamentRepository,
	notifier MatchNotifier,
	mailer ResultMailer,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:             db,
		matchRepo:      matchRepo,
		teamRepo:       teamRepo,
		tournamentRepo: tournamentRepo,
		notifier:       notifier,
		mailer:         mailer,
		logger:         logger,
	}
}

func (s *matchService) GetByID(ctx context.Context, id string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %s: %w", id, err)
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID string, round *models.Round, status *models.MatchStatus) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByTournament(ctx, tournamentID, round, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for tournament %s: %w", tournamentID, err)
	}
	return matches, nil
}

// Simulate разыгрывает один запланированный матч: прогоняет движок, сохраняет
// результат и хронологию, продвигает победителя по сетке и создаёт матчи
// следующего раунда, как только их пары известны. Все записи идут в одной
// транзакции.
func (s *matchService) Simulate(ctx context.Context, matchID string) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %s: %w", matchID, err)
	}
	if match.Status == models.MatchStatusCompleted {
		return nil, ErrMatchAlreadyPlayed
	}
	if match.Team1ID == "" || match.Team2ID == "" {
		return nil, ErrMatchTeamsUnknown
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, match.TournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tournament %s: %w", match.TournamentID, err)
	}
	if tournament.Status != models.StatusActive || tournament.Bracket == nil {
		return nil, ErrTournamentNotActive
	}

	teams, err := s.teamRepo.ListByIDs(ctx, []string{match.Team1ID, match.Team2ID})
	if err != nil {
		return nil, fmt.Errorf("failed to load match teams: %w", err)
	}
	team1, team2 := orderTeams(teams, match.Team1ID)
	if team1 == nil || team2 == nil {
		return nil, ErrMatchTeamsUnknown
	}
	for _, team := range []*models.Team{team1, team2} {
		if err := ValidateSquad(team); err != nil {
			return nil, fmt.Errorf("team %s: %w", team.Country, err)
		}
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	result, timeline := runMatchEngine(rng, team1, team2)

	match.Result = &result
	match.Timeline = timeline
	match.Status = models.MatchStatusCompleted

	advanced := engine.AdvanceWinner(*tournament.Bracket, match.ID, result.WinnerID, match.Round)
	if !winnerRecorded(advanced, match.ID, match.Round) {
		s.logger.Warn("bracket slot not found for match, bracket left unchanged",
			slog.String("match_id", match.ID),
			slog.String("round", string(match.Round)))
	}

	existing, err := s.matchRepo.ListByTournament(ctx, match.TournamentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament matches: %w", err)
	}
	existingIDs := make(map[string]bool, len(existing))
	for _, m := range existing {
		existingIDs[m.ID] = true
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if err = s.matchRepo.SaveOutcome(ctx, tx, match); err != nil {
		return nil, fmt.Errorf("failed to save match outcome: %w", err)
	}
	if err = s.createPairedMatches(ctx, tx, match.TournamentID, &advanced, existingIDs); err != nil {
		return nil, err
	}
	if err = s.tournamentRepo.UpdateBracket(ctx, tx, match.TournamentID, &advanced); err != nil {
		return nil, fmt.Errorf("failed to update bracket: %w", err)
	}

	completed := engine.IsComplete(advanced)
	if completed {
		standings := engine.Results(advanced)
		if err = s.tournamentRepo.UpdateStandings(ctx, tx, match.TournamentID, standings.WinnerID, standings.RunnerUpID); err != nil {
			return nil, fmt.Errorf("failed to save standings: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit match result: %w", err)
	}

	s.applyCareerStats(ctx, team1, team2, &result)

	match.Team1 = team1
	match.Team2 = team2
	if s.notifier != nil {
		s.notifier.MatchCompleted(match.TournamentID, match)
		s.notifier.BracketUpdated(match.TournamentID, &advanced)
	}
	if completed {
		s.notifyCompletion(tournament, &advanced, team1, team2)
	}

	s.logger.Info("match simulated",
		slog.String("match_id", match.ID),
		slog.String("round", string(match.Round)),
		slog.Int("team1_score", result.Team1Score),
		slog.Int("team2_score", result.Team2Score),
		slog.Bool("penalties", result.WentToPenalties))

	return match, nil
}

// runMatchEngine прогоняет розыгрыш матча и синтез хронологии на одном
// генераторе случайных чисел.
func runMatchEngine(rng *rand.Rand, team1, team2 *models.Team) (models.MatchResult, []models.MatchEvent) {
	result := engine.Simulate(rng, team1, team2)
	timeline := engine.Synthesize(rng, team1, team2, &result)
	return result, timeline
}

func orderTeams(teams []models.Team, team1ID string) (*models.Team, *models.Team) {
	var team1, team2 *models.Team
	for i := range teams {
		if teams[i].ID == team1ID {
			team1 = &teams[i]
		} else {
			team2 = &teams[i]
		}
	}
	return team1, team2
}

// winnerRecorded проверяет, что продвижение действительно затронуло слот:
// AdvanceWinner молча игнорирует неизвестные идентификаторы.
func winnerRecorded(bracket models.Bracket, matchUID string, round models.Round) bool {
	for _, slot := range bracket.SlotsForRound(round) {
		if slot.MatchUID == matchUID {
			return slot.WinnerID != nil
		}
	}
	return false
}

// createPairedMatches создаёт записи матчей для слотов, в которых после
// продвижения известны обе команды. Идентификатор записи равен идентификатору
// слота, поэтому повторное создание исключено проверкой по existing.
func (s *matchService) createPairedMatches(ctx context.Context, tx *sql.Tx, tournamentID string, bracket *models.Bracket, existing map[string]bool) error {
	create := func(slot models.BracketSlot, round models.Round) error {
		if !slot.Populated() || existing[slot.MatchUID] {
			return nil
		}
		next := &models.Match{
			ID:           slot.MatchUID,
			TournamentID: tournamentID,
			Round:        round,
			Team1ID:      *slot.Team1ID,
			Team2ID:      *slot.Team2ID,
			Status:       models.MatchStatusScheduled,
		}
		if err := s.matchRepo.Create(ctx, tx, next); err != nil {
			return fmt.Errorf("failed to create %s match: %w", round, err)
		}
		return nil
	}

	for _, slot := range bracket.SemiFinals {
		if err := create(slot, models.RoundSemiFinal); err != nil {
			return err
		}
	}
	return create(bracket.Final, models.RoundFinal)
}

// applyCareerStats обновляет карьерные счётчики игроков обеих команд:
// выход в старте идёт в appearances, каждый гол — в goals. Обновление идёт
// вне транзакции матча и при ошибке только логируется.
func (s *matchService) applyCareerStats(ctx context.Context, team1, team2 *models.Team, result *models.MatchResult) {
	goals := make(map[string]int)
	for _, scorer := range result.GoalScorers {
		goals[scorer.PlayerID]++
	}

	for _, team := range []*models.Team{team1, team2} {
		started := make(map[string]bool, len(team.StartingXI))
		for _, id := range team.StartingXI {
			started[id] = true
		}
		for i := range team.Players {
			p := &team.Players[i]
			if started[p.ID] && p.Appearances < maxCareerStat {
				p.Appearances++
			}
			p.Goals += goals[p.ID]
			if p.Goals > maxCareerStat {
				p.Goals = maxCareerStat
			}
		}
		if err := s.teamRepo.UpdateSquad(ctx, team); err != nil {
			s.logger.Warn("failed to update career stats",
				slog.String("team_id", team.ID),
				slog.String("error", err.Error()))
		}
	}
}

// notifyCompletion рассылает итоговое письмо организатору после финала.
func (s *matchService) notifyCompletion(tournament *models.Tournament, bracket *models.Bracket, team1, team2 *models.Team) {
	if s.mailer == nil {
		return
	}
	standings := engine.Results(*bracket)
	if standings == nil {
		return
	}

	winner, runnerUp := team1, team2
	if team2.ID == standings.WinnerID {
		winner, runnerUp = team2, team1
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.mailer.SendTournamentCompleted(ctx, tournament, winner, runnerUp); err != nil {
			s.logger.Warn("failed to send tournament completion email",
				slog.String("tournament_id", tournament.ID),
				slog.String("error", err.Error()))
		}
	}()
}
