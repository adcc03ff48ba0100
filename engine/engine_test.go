package engine

import (
	"fmt"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

// newTestTeam собирает валидную заявку из 23 игроков с одинаковым рейтингом
// на всех позициях, так что OverallRating == rating.
func newTestTeam(id, country string, rating int) *models.Team {
	positions := []models.Position{}
	for i := 0; i < 3; i++ {
		positions = append(positions, models.PositionGoalkeeper)
	}
	for i := 0; i < 8; i++ {
		positions = append(positions, models.PositionDefender)
	}
	for i := 0; i < 7; i++ {
		positions = append(positions, models.PositionMidfielder)
	}
	for i := 0; i < 5; i++ {
		positions = append(positions, models.PositionAttacker)
	}

	team := &models.Team{
		ID:            id,
		Country:       country,
		Tier:          1,
		OverallRating: float64(rating),
	}
	for i, pos := range positions {
		player := models.Player{
			ID:              fmt.Sprintf("%s-p%d", id, i+1),
			Name:            fmt.Sprintf("%s Player %d", country, i+1),
			NaturalPosition: pos,
			Ratings: map[models.Position]int{
				models.PositionGoalkeeper: rating,
				models.PositionDefender:   rating,
				models.PositionMidfielder: rating,
				models.PositionAttacker:   rating,
			},
			IsCaptain: i == 0,
		}
		team.Players = append(team.Players, player)
	}
	// Стартовый состав: первый вратарь плюс десять полевых.
	team.StartingXI = append(team.StartingXI, team.Players[0].ID)
	for i := 3; i < 13; i++ {
		team.StartingXI = append(team.StartingXI, team.Players[i].ID)
	}
	return team
}
