package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

func TestPickPlayerRespectsEligibleRoles(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	team := newTestTeam("t1", "Nigeria", 80)

	for i := 0; i < 200; i++ {
		player := PickPlayer(rng, team, models.PositionGoalkeeper)
		require.NotNil(t, player)
		assert.Equal(t, models.PositionGoalkeeper, player.NaturalPosition)
	}
}

func TestPickPlayerFallsBackToWholeRoster(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	team := newTestTeam("t1", "Nigeria", 80)

	// В тестовой заявке нет игроков без позиции, поэтому фильтр по
	// несуществующей роли пуст и выбор идёт по всей заявке.
	picked := make(map[string]bool)
	for i := 0; i < 500; i++ {
		player := PickPlayer(rng, team, models.Position("libero"))
		require.NotNil(t, player)
		picked[player.ID] = true
	}
	assert.Greater(t, len(picked), 15, "uniform fallback should reach most of the roster")
}

func TestPickPlayerWeightsByNaturalRating(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	team := newTestTeam("t1", "Nigeria", 50)

	// Один нападающий получает подавляющий вес.
	var starID string
	for i := range team.Players {
		if team.Players[i].NaturalPosition == models.PositionAttacker {
			starID = team.Players[i].ID
			team.Players[i].Ratings[models.PositionAttacker] = 5000
			break
		}
	}

	starPicks := 0
	const draws = 1000
	for i := 0; i < draws; i++ {
		player := PickPlayer(rng, team, models.PositionAttacker)
		require.NotNil(t, player)
		if player.ID == starID {
			starPicks++
		}
	}
	assert.Greater(t, starPicks, draws*8/10, "heavily weighted player should dominate draws")
}

func TestPickPlayerZeroRatingStaysSelectable(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	team := newTestTeam("t1", "Nigeria", 0)

	// Все рейтинги нулевые: минимальный вес 1 оставляет выбор равномерным.
	player := PickPlayer(rng, team, models.PositionDefender)
	require.NotNil(t, player)
	assert.Equal(t, models.PositionDefender, player.NaturalPosition)
}

func TestPickPlayerEmptyRoster(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	team := &models.Team{ID: "empty"}
	assert.Nil(t, PickPlayer(rng, team, models.PositionAttacker))
}
