package models

import "time"

type MatchStatus string

const (
	MatchStatusScheduled  MatchStatus = "scheduled"
	MatchStatusInProgress MatchStatus = "in_progress"
	MatchStatusCompleted  MatchStatus = "completed"
)

// Round — стадия плей-офф, к которой относится матч.
type Round string

const (
	RoundQuarterFinal Round = "quarter_final"
	RoundSemiFinal    Round = "semi_final"
	RoundFinal        Round = "final"
)

func (r Round) Valid() bool {
	switch r {
	case RoundQuarterFinal, RoundSemiFinal, RoundFinal:
		return true
	}
	return false
}

// Match — запись матча турнира. Result и Timeline заполняются после симуляции
// и хранятся в БД как JSONB.
type Match struct {
	ID           string       `json:"id" db:"id"`
	TournamentID string       `json:"tournament_id" db:"tournament_id"`
	Round        Round        `json:"round" db:"round"`
	Team1ID      string       `json:"team1_id" db:"team1_id"`
	Team2ID      string       `json:"team2_id" db:"team2_id"`
	Status       MatchStatus  `json:"status" db:"status"`
	Result       *MatchResult `json:"result,omitempty" db:"-"`
	Timeline     []MatchEvent `json:"timeline,omitempty" db:"-"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`

	Team1 *Team `json:"team1,omitempty" db:"-"`
	Team2 *Team `json:"team2,omitempty" db:"-"`
}

// GoalScorer — одна запись о забитом голе в основное или дополнительное время.
// Голы послематчевой серии пенальти сюда не входят — они учитываются отдельно
// в PenaltyShootout.
type GoalScorer struct {
	PlayerID    string `json:"player_id"`
	PlayerName  string `json:"player_name"`
	TeamID      string `json:"team_id"`
	Minute      int    `json:"minute"`
	IsExtraTime bool   `json:"is_extra_time"`
	IsPenalty   bool   `json:"is_penalty"`
}

// PenaltyKick — один удар послематчевой серии.
type PenaltyKick struct {
	TeamID     string `json:"team_id"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Scored     bool   `json:"scored"`
	Order      int    `json:"order"`
}

// PenaltyShootout — результат серии пенальти. Серия никогда не заканчивается
// вничью: после пяти раундов идут раунды до первого расхождения.
type PenaltyShootout struct {
	Team1Score int           `json:"team1_score"`
	Team2Score int           `json:"team2_score"`
	Kicks      []PenaltyKick `json:"kicks"`
}

// MatchResult — итог симуляции матча.
//
// IsDraw отражает счёт на конец основного времени и не зависит от того, как
// матч разрешился в дополнительное время или серии пенальти. Количество
// записей в GoalScorers по каждой команде равно её итоговому счёту.
type MatchResult struct {
	Team1ID         string           `json:"team1_id"`
	Team2ID         string           `json:"team2_id"`
	Team1Score      int              `json:"team1_score"`
	Team2Score      int              `json:"team2_score"`
	WinnerID        string           `json:"winner_id"`
	LoserID         string           `json:"loser_id"`
	IsDraw          bool             `json:"is_draw"`
	GoalScorers     []GoalScorer     `json:"goal_scorers"`
	WentToExtraTime bool             `json:"went_to_extra_time"`
	WentToPenalties bool             `json:"went_to_penalties"`
	PenaltyShootout *PenaltyShootout `json:"penalty_shootout,omitempty"`
}

// ScoreFor возвращает счёт указанной команды.
func (r *MatchResult) ScoreFor(teamID string) int {
	if teamID == r.Team1ID {
		return r.Team1Score
	}
	return r.Team2Score
}
