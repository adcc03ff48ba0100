package models

import "time"

// EventKind — вид события в хронологии матча.
type EventKind string

const (
	EventKickoff        EventKind = "kickoff"
	EventGoal           EventKind = "goal"
	EventOwnGoal        EventKind = "own_goal"
	EventShotOnTarget   EventKind = "shot_on_target"
	EventShotOffTarget  EventKind = "shot_off_target"
	EventSave           EventKind = "save"
	EventAssist         EventKind = "assist"
	EventOffside        EventKind = "offside"
	EventFoul           EventKind = "foul"
	EventFreeKick       EventKind = "free_kick"
	EventPenaltyKick    EventKind = "penalty_kick"
	EventCornerKick     EventKind = "corner_kick"
	EventGoalKick       EventKind = "goal_kick"
	EventThrowIn        EventKind = "throw_in"
	EventYellowCard     EventKind = "yellow_card"
	EventRedCard        EventKind = "red_card"
	EventSubstitution   EventKind = "substitution"
	EventHalftime       EventKind = "halftime"
	EventFulltime       EventKind = "fulltime"
	EventInjuryStoppage EventKind = "injury_stoppage"
	EventVARReview      EventKind = "var_review"
	EventAddedTime      EventKind = "added_time"
	EventExtraTime      EventKind = "extratime"
	EventPenalties      EventKind = "penalties"
	EventFinal          EventKind = "final"
)

// VARDecision — исход видеопросмотра.
type VARDecision string

const (
	VARGoal      VARDecision = "goal"
	VARNoGoal    VARDecision = "no_goal"
	VARPenalty   VARDecision = "penalty"
	VARNoPenalty VARDecision = "no_penalty"
	VARRedCard   VARDecision = "red_card"
	VARNoRedCard VARDecision = "no_red_card"
)

// ScoreSnapshot — счёт на момент события.
type ScoreSnapshot struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// GoalDetail — нагрузка событий goal/own_goal. Для автогола событие относится
// к обороняющейся команде, но зачёт гола в MatchResult остаётся за атакующей.
type GoalDetail struct {
	OwnGoal        bool   `json:"own_goal"`
	AssistPlayerID string `json:"assist_player_id,omitempty"`
}

// SubstitutionDetail — нагрузка события substitution; два разных игрока
// одной команды.
type SubstitutionDetail struct {
	PlayerOffID   string `json:"player_off_id"`
	PlayerOffName string `json:"player_off_name"`
	PlayerOnID    string `json:"player_on_id"`
	PlayerOnName  string `json:"player_on_name"`
}

// VARDetail — нагрузка события var_review.
type VARDetail struct {
	Decision VARDecision `json:"decision"`
}

// AddedTimeDetail — нагрузка события added_time.
type AddedTimeDetail struct {
	Minutes int `json:"minutes"`
}

// MatchEvent — одно событие хронологии матча: общий конверт (минута, команда,
// игрок, описание, снимок счёта, пейсинг для воспроизведения) плюс опциональная
// нагрузка конкретного вида. Minute допускает дробные значения для
// упорядочивания под-событий внутри одной минуты.
type MatchEvent struct {
	Kind        EventKind     `json:"kind"`
	Minute      float64       `json:"minute"`
	IsExtraTime bool          `json:"is_extra_time"`
	TeamID      string        `json:"team_id,omitempty"`
	PlayerID    string        `json:"player_id,omitempty"`
	PlayerName  string        `json:"player_name,omitempty"`
	Description string        `json:"description"`
	Score       ScoreSnapshot `json:"score"`

	Goal         *GoalDetail         `json:"goal,omitempty"`
	Substitution *SubstitutionDetail `json:"substitution,omitempty"`
	VAR          *VARDetail          `json:"var,omitempty"`
	AddedTime    *AddedTimeDetail    `json:"added_time,omitempty"`
}

// pacingDurations — фиксированная длительность показа события при
// воспроизведении хронологии. На логику симуляции не влияет.
var pacingDurations = map[EventKind]time.Duration{
	EventKickoff:        4 * time.Second,
	EventGoal:           8 * time.Second,
	EventOwnGoal:        8 * time.Second,
	EventShotOnTarget:   4 * time.Second,
	EventShotOffTarget:  3 * time.Second,
	EventSave:           4 * time.Second,
	EventAssist:         3 * time.Second,
	EventOffside:        2 * time.Second,
	EventFoul:           3 * time.Second,
	EventFreeKick:       3 * time.Second,
	EventPenaltyKick:    6 * time.Second,
	EventCornerKick:     3 * time.Second,
	EventGoalKick:       2 * time.Second,
	EventThrowIn:        2 * time.Second,
	EventYellowCard:     4 * time.Second,
	EventRedCard:        6 * time.Second,
	EventSubstitution:   4 * time.Second,
	EventHalftime:       5 * time.Second,
	EventFulltime:       5 * time.Second,
	EventInjuryStoppage: 4 * time.Second,
	EventVARReview:      7 * time.Second,
	EventAddedTime:      3 * time.Second,
	EventExtraTime:      5 * time.Second,
	EventPenalties:      6 * time.Second,
	EventFinal:          6 * time.Second,
}

const defaultPacing = 3 * time.Second

// Pacing возвращает длительность показа события для воспроизведения.
func (e *MatchEvent) Pacing() time.Duration {
	if d, ok := pacingDurations[e.Kind]; ok {
		return d
	}
	return defaultPacing
}
