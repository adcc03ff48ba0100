package engine

import (
	"math/rand"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

// PickPlayer выбирает игрока из заявки команды среди указанных натуральных
// позиций. Выбор взвешенный: вес игрока равен его рейтингу на натуральной
// позиции (минимум 1, чтобы игрок с нулевым рейтингом оставался выбираемым).
// Если под фильтр не попал ни один игрок, выбор равномерный по всей заявке.
func PickPlayer(rng *rand.Rand, team *models.Team, eligible ...models.Position) *models.Player {
	if len(team.Players) == 0 {
		return nil
	}

	pool := make([]*models.Player, 0, len(team.Players))
	for i := range team.Players {
		p := &team.Players[i]
		for _, pos := range eligible {
			if p.NaturalPosition == pos {
				pool = append(pool, p)
				break
			}
		}
	}

	if len(pool) == 0 {
		return &team.Players[rng.Intn(len(team.Players))]
	}

	totalWeight := 0
	weights := make([]int, len(pool))
	for i, p := range pool {
		w := p.NaturalRating()
		if w < 1 {
			w = 1
		}
		weights[i] = w
		totalWeight += w
	}

	// Один равномерный розыгрыш против префиксных сумм весов.
	draw := rng.Intn(totalWeight)
	for i, w := range weights {
		if draw < w {
			return pool[i]
		}
		draw -= w
	}

	return pool[len(pool)-1]
}
