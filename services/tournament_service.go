package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/LettersBlue/african-nations-league-sub000/engine"
	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	RegisterTeam(ctx context.Context, tournamentID, teamID string) error
	Start(ctx context.Context, id string) (*models.Tournament, error)
}

type CreateTournamentInput struct {
	Name        string `json:"name"`
	OrganizerID int    `json:"-"`
}

type tournamentService struct {
	db             *sql.DB
	tournamentRepo repositories.TournamentRepository
	teamRepo       repositories.TeamRepository
	matchRepo      repositories.MatchRepository
	rng            *rand.Rand
	logger         *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	teamRepo repositories.TeamRepository,
	matchRepo repositories.MatchRepository,
	rng *rand.Rand,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:             db,
		tournamentRepo: tournamentRepo,
		teamRepo:       teamRepo,
		matchRepo:      matchRepo,
		rng:            rng,
		logger:         logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameMissing
	}

	tournament := &models.Tournament{
		ID:          uuid.NewString(),
		Name:        name,
		Status:      models.StatusRegistration,
		OrganizerID: input.OrganizerID,
	}

	if err := s.tournamentRepo.Create(ctx, tournament); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameConflict
		}
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}
	return tournament, nil
}

// GetByID собирает турнир целиком: сетку, команды и матчи. Команды и матчи
// выбираются параллельно.
func (s *tournamentService) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teamIDs, err := s.tournamentRepo.ListTeamIDs(gctx, id)
		if err != nil {
			return fmt.Errorf("failed to list tournament teams: %w", err)
		}
		if len(teamIDs) == 0 {
			return nil
		}
		teams, err := s.teamRepo.ListByIDs(gctx, teamIDs)
		if err != nil {
			return fmt.Errorf("failed to load tournament teams: %w", err)
		}
		tournament.Teams = teams
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListByTournament(gctx, id, nil, nil)
		if err != nil {
			return fmt.Errorf("failed to load tournament matches: %w", err)
		}
		tournament.Matches = make([]models.Match, 0, len(matches))
		for _, match := range matches {
			tournament.Matches = append(tournament.Matches, *match)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	attachTeams(tournament)
	return tournament, nil
}

// attachTeams подставляет загруженные команды в матчи, чтобы клиенту не
// приходилось собирать их по идентификаторам.
func attachTeams(tournament *models.Tournament) {
	if len(tournament.Teams) == 0 {
		return
	}
	byID := make(map[string]*models.Team, len(tournament.Teams))
	for i := range tournament.Teams {
		byID[tournament.Teams[i].ID] = &tournament.Teams[i]
	}
	for i := range tournament.Matches {
		tournament.Matches[i].Team1 = byID[tournament.Matches[i].Team1ID]
		tournament.Matches[i].Team2 = byID[tournament.Matches[i].Team2ID]
	}
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	tournaments, err := s.tournamentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournaments: %w", err)
	}
	return tournaments, nil
}

func (s *tournamentService) RegisterTeam(ctx context.Context, tournamentID, teamID string) error {
	tournament, err := s.tournamentRepo.GetByID(ctx, tournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return ErrTournamentNotFound
		}
		return fmt.Errorf("failed to get tournament %s: %w", tournamentID, err)
	}
	if tournament.Status != models.StatusRegistration {
		return ErrTournamentStarted
	}

	if _, err := s.teamRepo.GetByID(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %s: %w", teamID, err)
	}

	registered, err := s.tournamentRepo.ListTeamIDs(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("failed to list tournament teams: %w", err)
	}
	if len(registered) >= models.TournamentTeamCount {
		return fmt.Errorf("%w: tournament is full", ErrTournamentStarted)
	}

	if err := s.tournamentRepo.AddTeams(ctx, nil, tournamentID, []string{teamID}); err != nil {
		return fmt.Errorf("failed to register team %s: %w", teamID, err)
	}
	return nil
}

// Start переводит турнир из регистрации в активное состояние: проверяет
// заявки всех восьми команд, строит сетку и создаёт четвертьфинальные матчи.
// Идентификатор записи матча совпадает с идентификатором слота сетки.
func (s *tournamentService) Start(ctx context.Context, id string) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %s: %w", id, err)
	}
	if tournament.Status != models.StatusRegistration {
		return nil, ErrTournamentStarted
	}

	teamIDs, err := s.tournamentRepo.ListTeamIDs(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tournament teams: %w", err)
	}
	if len(teamIDs) != models.TournamentTeamCount {
		return nil, fmt.Errorf("%w: have %d", ErrNotEnoughTeams, len(teamIDs))
	}

	teams, err := s.teamRepo.ListByIDs(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tournament teams: %w", err)
	}
	for i := range teams {
		if err := ValidateSquad(&teams[i]); err != nil {
			return nil, fmt.Errorf("team %s: %w", teams[i].Country, err)
		}
	}

	bracket, err := engine.GenerateBracket(s.rng, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate bracket: %w", err)
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

	for _, slot := range bracket.QuarterFinals {
		match := &models.Match{
			ID:           slot.MatchUID,
			TournamentID: id,
			Round:        models.RoundQuarterFinal,
			Team1ID:      *slot.Team1ID,
			Team2ID:      *slot.Team2ID,
			Status:       models.MatchStatusScheduled,
		}
		if err = s.matchRepo.Create(ctx, tx, match); err != nil {
			return nil, fmt.Errorf("failed to create quarter-final match: %w", err)
		}
	}

	if err = s.tournamentRepo.UpdateBracket(ctx, tx, id, &bracket); err != nil {
		return nil, fmt.Errorf("failed to save bracket: %w", err)
	}
	if err = s.tournamentRepo.UpdateStatus(ctx, tx, id, models.StatusActive); err != nil {
		return nil, fmt.Errorf("failed to activate tournament: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit tournament start: %w", err)
	}

	s.logger.Info("tournament started",
		slog.String("tournament_id", id),
		slog.Int("teams", len(teamIDs)))

	tournament.Status = models.StatusActive
	tournament.Bracket = &bracket
	tournament.Teams = teams
	return tournament, nil
}
