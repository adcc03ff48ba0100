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
	ErrTeamNotFound        = errors.New("team not found")
	ErrTeamCountryConflict = errors.New("team country conflict")
)

// teamSquad — JSONB-представление заявки команды в колонке squad.
type teamSquad struct {
	Players    []models.Player `json:"players"`
	StartingXI []string        `json:"starting_xi"`
}

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	ListByIDs(ctx context.Context, ids []string) ([]models.Team, error)
	UpdateSquad(ctx context.Context, team *models.Team) error
	UpdateFlagKey(ctx context.Context, id string, flagKey *string) error
	Delete(ctx context.Context, id string) error
}

type postgresTeamRepository struct {
	db *sql.DB
}

func NewPostgresTeamRepository(db *sql.DB) TeamRepository {
	return &postgresTeamRepository{db: db}
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	squad, err := json.Marshal(teamSquad{Players: team.Players, StartingXI: team.StartingXI})
	if err != nil {
		return fmt.Errorf("failed to marshal squad: %w", err)
	}

	query := `
		INSERT INTO teams (id, country, tier, overall_rating, squad, flag_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err = r.db.QueryRowContext(ctx, query,
		team.ID,
		team.Country,
		team.Tier,
		team.OverallRating,
		squad,
		team.FlagKey,
	).Scan(&team.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" && pqErr.Constraint == "teams_country_key" {
				return ErrTeamCountryConflict
			}
		}
		return err
	}
	return nil
}

func scanTeam(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Team, error) {
	team := &models.Team{}
	var squad []byte
	err := scanner.Scan(
		&team.ID,
		&team.Country,
		&team.Tier,
		&team.OverallRating,
		&squad,
		&team.FlagKey,
		&team.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	var decoded teamSquad
	if err := json.Unmarshal(squad, &decoded); err != nil {
		return nil, fmt.Errorf("failed to unmarshal squad for team %s: %w", team.ID, err)
	}
	team.Players = decoded.Players
	team.StartingXI = decoded.StartingXI
	return team, nil
}

const teamColumns = `id, country, tier, overall_rating, squad, flag_key, created_at`

func (r *postgresTeamRepository) GetByID(ctx context.Context, id string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team, err := scanTeam(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams ORDER BY country ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) ListByIDs(ctx context.Context, ids []string) ([]models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]models.Team, 0, len(ids))
	for rows.Next() {
		team, scanErr := scanTeam(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		teams = append(teams, *team)
	}
	return teams, rows.Err()
}

func (r *postgresTeamRepository) UpdateSquad(ctx context.Context, team *models.Team) error {
	squad, err := json.Marshal(teamSquad{Players: team.Players, StartingXI: team.StartingXI})
	if err != nil {
		return fmt.Errorf("failed to marshal squad: %w", err)
	}

	query := `
		UPDATE teams
		SET squad = $1, overall_rating = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, squad, team.OverallRating, team.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) UpdateFlagKey(ctx context.Context, id string, flagKey *string) error {
	query := `UPDATE teams SET flag_key = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, flagKey, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM teams WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}
