package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

var (
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name conflict")
)

type TournamentRepository interface {
	Create(ctx context.Context, tournament *models.Tournament) error
	GetByID(ctx context.Context, id string) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	AddTeams(ctx context.Context, tx *sql.Tx, id string, teamIDs []string) error
	ListTeamIDs(ctx context.Context, id string) ([]string, error)
	UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status models.TournamentStatus) error
	UpdateBracket(ctx context.Context, tx *sql.Tx, id string, bracket *models.Bracket) error
	UpdateStandings(ctx context.Context, tx *sql.Tx, id string, winnerID, runnerUpID string) error
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) exec(tx *sql.Tx) executor {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *postgresTournamentRepository) Create(ctx context.Context, tournament *models.Tournament) error {
	var bracket []byte
	if tournament.Bracket != nil {
		encoded, err := json.Marshal(tournament.Bracket)
		if err != nil {
			return fmt.Errorf("failed to marshal bracket: %w", err)
		}
		bracket = encoded
	}

	query := `
		INSERT INTO tournaments (id, name, status, organizer_id, bracket)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.QueryRowContext(ctx, query,
		tournament.ID,
		tournament.Name,
		tournament.Status,
		tournament.OrganizerID,
		bracket,
	).Scan(&tournament.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "tournaments_name_key" {
				return ErrTournamentNameConflict
			}
		}
		return err
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id string) (*models.Tournament, error) {
	query := `
		SELECT id, name, status, organizer_id, bracket, winner_id, runner_up_id, created_at
		FROM tournaments
		WHERE id = $1`

	tournament, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, err
	}
	return tournament, nil
}

func scanTournament(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Tournament, error) {
	tournament := &models.Tournament{}
	var bracket []byte
	err := scanner.Scan(
		&tournament.ID,
		&tournament.Name,
		&tournament.Status,
		&tournament.OrganizerID,
		&bracket,
		&tournament.WinnerID,
		&tournament.RunnerUpID,
		&tournament.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(bracket) > 0 {
		tournament.Bracket = &models.Bracket{}
		if err := json.Unmarshal(bracket, tournament.Bracket); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bracket for tournament %s: %w", tournament.ID, err)
		}
	}
	return tournament, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context) ([]models.Tournament, error) {
	query := `
		SELECT id, name, status, organizer_id, bracket, winner_id, runner_up_id, created_at
		FROM tournaments
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tournaments := make([]models.Tournament, 0)
	for rows.Next() {
		tournament, scanErr := scanTournament(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tournaments = append(tournaments, *tournament)
	}
	return tournaments, rows.Err()
}

func (r *postgresTournamentRepository) AddTeams(ctx context.Context, tx *sql.Tx, id string, teamIDs []string) error {
	query := `
		INSERT INTO tournament_teams (tournament_id, team_id)
		SELECT $1, unnest($2::text[])
		ON CONFLICT DO NOTHING`

	_, err := r.exec(tx).ExecContext(ctx, query, id, pq.Array(teamIDs))
	return err
}

func (r *postgresTournamentRepository) ListTeamIDs(ctx context.Context, id string) ([]string, error) {
	query := `
		SELECT team_id
		FROM tournament_teams
		WHERE tournament_id = $1
		ORDER BY team_id ASC`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0, models.TournamentTeamCount)
	for rows.Next() {
		var teamID string
		if scanErr := rows.Scan(&teamID); scanErr != nil {
			return nil, scanErr
		}
		ids = append(ids, teamID)
	}
	return ids, rows.Err()
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, tx *sql.Tx, id string, status models.TournamentStatus) error {
	query := `UPDATE tournaments SET status = $1 WHERE id = $2`

	result, err := r.exec(tx).ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

// UpdateBracket перезаписывает сетку целиком. Вызывается только внутри
// транзакции, применяющей результат одного матча, чтобы продвижение
// победителя оставалось атомарным.
func (r *postgresTournamentRepository) UpdateBracket(ctx context.Context, tx *sql.Tx, id string, bracket *models.Bracket) error {
	encoded, err := json.Marshal(bracket)
	if err != nil {
		return fmt.Errorf("failed to marshal bracket: %w", err)
	}

	query := `UPDATE tournaments SET bracket = $1 WHERE id = $2`

	result, err := r.exec(tx).ExecContext(ctx, query, encoded, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateStandings(ctx context.Context, tx *sql.Tx, id string, winnerID, runnerUpID string) error {
	query := `
		UPDATE tournaments
		SET status = $1, winner_id = $2, runner_up_id = $3
		WHERE id = $4`

	result, err := r.exec(tx).ExecContext(ctx, query,
		models.StatusCompleted, winnerID, runnerUpID, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}
