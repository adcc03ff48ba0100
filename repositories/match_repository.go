package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchTournamentInvalid = errors.New("match tournament conflict or invalid")
	ErrMatchTeamInvalid       = errors.New("match team conflict or invalid")
)

type MatchRepository interface {
	Create(ctx context.Context, tx *sql.Tx, match *models.Match) error
	GetByID(ctx context.Context, id string) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID string, round *models.Round, status *models.MatchStatus) ([]*models.Match, error)
	SaveOutcome(ctx context.Context, tx *sql.Tx, match *models.Match) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

// executor покрывает *sql.DB и *sql.Tx, чтобы запись матча могла идти в
// транзакции вместе с обновлением сетки.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *postgresMatchRepository) exec(tx *sql.Tx) executor {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	query := `
		INSERT INTO matches (id, tournament_id, round, team1_id, team2_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.exec(tx).QueryRowContext(ctx, query,
		match.ID,
		match.TournamentID,
		match.Round,
		match.Team1ID,
		match.Team2ID,
		match.Status,
	).Scan(&match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id string) (*models.Match, error) {
	query := `
		SELECT id, tournament_id, round, team1_id, team2_id, status, result, timeline, created_at
		FROM matches
		WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func scanMatch(scanner interface {
	Scan(dest ...interface{}) error
}) (*models.Match, error) {
	match := &models.Match{}
	var result, timeline []byte
	err := scanner.Scan(
		&match.ID,
		&match.TournamentID,
		&match.Round,
		&match.Team1ID,
		&match.Team2ID,
		&match.Status,
		&result,
		&timeline,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(result) > 0 {
		match.Result = &models.MatchResult{}
		if err := json.Unmarshal(result, match.Result); err != nil {
			return nil, fmt.Errorf("failed to unmarshal result for match %s: %w", match.ID, err)
		}
	}
	if len(timeline) > 0 {
		if err := json.Unmarshal(timeline, &match.Timeline); err != nil {
			return nil, fmt.Errorf("failed to unmarshal timeline for match %s: %w", match.ID, err)
		}
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, tournamentID string, roundFilter *models.Round, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, tournament_id, round, team1_id, team2_id, status, result, timeline, created_at
		FROM matches
		WHERE tournament_id = $1`)

	args := []interface{}{tournamentID}
	placeholderIndex := 2

	if roundFilter != nil {
		queryBuilder.WriteString(" AND round = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *roundFilter)
		placeholderIndex++
	}
	if statusFilter != nil {
		queryBuilder.WriteString(" AND status = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *statusFilter)
		placeholderIndex++
	}

	queryBuilder.WriteString(" ORDER BY created_at ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// SaveOutcome записывает результат и хронологию завершённого матча.
func (r *postgresMatchRepository) SaveOutcome(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	result, err := json.Marshal(match.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	timeline, err := json.Marshal(match.Timeline)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline: %w", err)
	}

	query := `
		UPDATE matches
		SET status = $1, result = $2, timeline = $3
		WHERE id = $4`

	execResult, err := r.exec(tx).ExecContext(ctx, query,
		models.MatchStatusCompleted, result, timeline, match.ID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(execResult, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" { // foreign_key_violation
			switch pqErr.Constraint {
			case "matches_tournament_id_fkey":
				return ErrMatchTournamentInvalid
			case "matches_team1_id_fkey", "matches_team2_id_fkey":
				return ErrMatchTeamInvalid
			}
		}
	}
	return err
}
