package models

import "time"

// SquadSize — размер заявки национальной сборной.
const SquadSize = 23

// StartingElevenSize — размер стартового состава.
const StartingElevenSize = 11

// Team — национальная сборная: 23 игрока, агрегированный рейтинг и стартовый
// состав (ровно один вратарь).
type Team struct {
	ID            string    `json:"id" db:"id"`
	Country       string    `json:"country" db:"country"`
	Tier          int       `json:"tier" db:"tier"`
	OverallRating float64   `json:"overall_rating" db:"overall_rating"`
	Players       []Player  `json:"players" db:"-"`
	StartingXI    []string  `json:"starting_xi" db:"-"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	FlagKey *string `json:"-" db:"flag_key"`
	FlagURL *string `json:"flag_url,omitempty" db:"-"`
}

// PlayerByID ищет игрока в заявке.
func (t *Team) PlayerByID(id string) *Player {
	for i := range t.Players {
		if t.Players[i].ID == id {
			return &t.Players[i]
		}
	}
	return nil
}

// Captain возвращает капитана команды, либо nil, если он не назначен.
func (t *Team) Captain() *Player {
	for i := range t.Players {
		if t.Players[i].IsCaptain {
			return &t.Players[i]
		}
	}
	return nil
}

// ComputeOverallRating — среднее всех 92 позиционных рейтингов заявки
// (23 игрока × 4 позиции).
func (t *Team) ComputeOverallRating() float64 {
	if len(t.Players) == 0 {
		return 0
	}
	total := 0
	count := 0
	for i := range t.Players {
		for _, pos := range AllPositions {
			total += t.Players[i].Ratings[pos]
			count++
		}
	}
	return float64(total) / float64(count)
}
