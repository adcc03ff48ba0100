package models

// Position представляет игровую позицию футболиста.
type Position string

const (
	PositionGoalkeeper Position = "goalkeeper"
	PositionDefender   Position = "defender"
	PositionMidfielder Position = "midfielder"
	PositionAttacker   Position = "attacker"
)

// AllPositions lists every position in a stable order (used for rating
// aggregation and squad generation).
var AllPositions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionAttacker,
}

func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionAttacker:
		return true
	}
	return false
}

// Player — игрок национальной сборной. Каждый игрок несёт рейтинг по каждой
// из четырёх позиций; рейтинг натуральной позиции генерируется из более
// высокого диапазона, чем остальные.
type Player struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	NaturalPosition Position         `json:"natural_position"`
	Ratings         map[Position]int `json:"ratings"`
	Goals           int              `json:"goals"`
	Appearances     int              `json:"appearances"`
	IsCaptain       bool             `json:"is_captain"`
}

// NaturalRating возвращает рейтинг игрока на его натуральной позиции.
func (p *Player) NaturalRating() int {
	return p.Ratings[p.NaturalPosition]
}
