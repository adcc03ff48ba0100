package models

import "time"

// TournamentStatus представляет статусы турнира, соответствующие ENUM в БД.
type TournamentStatus string

const (
	StatusRegistration TournamentStatus = "registration"
	StatusActive       TournamentStatus = "active"
	StatusCompleted    TournamentStatus = "completed"
)

// TournamentTeamCount — формат лиги фиксирован: 8 сборных, single elimination.
const TournamentTeamCount = 8

// Tournament — розыгрыш лиги. Bracket хранится в БД как JSONB и мутируется
// только через engine.AdvanceWinner.
type Tournament struct {
	ID          string           `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Status      TournamentStatus `json:"status" db:"status"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Bracket     *Bracket         `json:"bracket,omitempty" db:"-"`
	WinnerID    *string          `json:"winner_id,omitempty" db:"winner_id"`
	RunnerUpID  *string          `json:"runner_up_id,omitempty" db:"runner_up_id"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`

	Teams   []Team  `json:"teams,omitempty" db:"-"`
	Matches []Match `json:"matches,omitempty" db:"-"`
}
