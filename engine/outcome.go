package engine

import (
	"math/rand"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

const (
	regulationMinutes = 90
	extraTimeMinutes  = 120
	maxGoals          = 7

	shootoutRounds     = 5
	shootoutConversion = 0.75
	extraTimeGoalProb  = 0.30
)

// Simulate разыгрывает матч между двумя командами и возвращает итог: счёт,
// авторов голов, исход дополнительного времени и серии пенальти.
//
// Обе команды обязаны быть валидными (23 игрока, капитан, вратарь в старте) —
// проверка лежит на вызывающем слое, здесь она не повторяется.
func Simulate(rng *rand.Rand, team1, team2 *models.Team) models.MatchResult {
	result := models.MatchResult{
		Team1ID: team1.ID,
		Team2ID: team2.ID,
	}

	result.Team1Score = rollGoalCount(rng, team1)
	result.Team2Score = rollGoalCount(rng, team2)

	usedMinutes := make(map[int]bool)
	result.GoalScorers = append(result.GoalScorers,
		generateScorers(rng, team1, result.Team1Score, usedMinutes)...)
	result.GoalScorers = append(result.GoalScorers,
		generateScorers(rng, team2, result.Team2Score, usedMinutes)...)

	// Ничья фиксируется по счёту основного времени, независимо от того, как
	// матч разрешится дальше.
	if result.Team1Score == result.Team2Score {
		result.IsDraw = true
		result.WentToExtraTime = true
		playExtraTime(rng, team1, team2, &result, usedMinutes)

		if result.Team1Score == result.Team2Score {
			result.WentToPenalties = true
			result.PenaltyShootout = playShootout(rng, team1, team2)
		}
	}

	assignWinner(&result)
	return result
}

// rollGoalCount разыгрывает количество голов команды за основное время.
// Базовая вероятность — overallRating/100, возмущённая равномерно на ±20% и
// ограниченная отрезком [0,1]; затем один равномерный розыгрыш против
// ступенчатого распределения. Результат не превышает 7.
func rollGoalCount(rng *rand.Rand, team *models.Team) int {
	prob := team.OverallRating / 100.0
	adjusted := prob * (1.0 + (rng.Float64()*0.4 - 0.2))
	if adjusted < 0 {
		adjusted = 0
	}
	if adjusted > 1 {
		adjusted = 1
	}

	draw := rng.Float64()
	switch {
	case draw < 0.80*adjusted:
		return rng.Intn(4) // 0..3
	case draw < 0.95*adjusted:
		return 4 + rng.Intn(2) // 4..5
	case draw < adjusted:
		return 6 + rng.Intn(2) // 6..7
	default:
		return 0
	}
}

// generateScorers создаёт записи об авторах голов. Роли распределяются как
// 70% нападающие, 25% полузащитники, 5% защитники; минута — уникальное целое
// в [1,90] с перевыбором при коллизии.
func generateScorers(rng *rand.Rand, team *models.Team, goals int, usedMinutes map[int]bool) []models.GoalScorer {
	scorers := make([]models.GoalScorer, 0, goals)
	for i := 0; i < goals; i++ {
		player := PickPlayer(rng, team, scorerRole(rng))
		if player == nil {
			continue
		}
		scorers = append(scorers, models.GoalScorer{
			PlayerID:   player.ID,
			PlayerName: player.Name,
			TeamID:     team.ID,
			Minute:     uniqueMinute(rng, usedMinutes, 1, regulationMinutes),
		})
	}
	return scorers
}

func scorerRole(rng *rand.Rand) models.Position {
	draw := rng.Float64()
	switch {
	case draw < 0.70:
		return models.PositionAttacker
	case draw < 0.95:
		return models.PositionMidfielder
	default:
		return models.PositionDefender
	}
}

func uniqueMinute(rng *rand.Rand, used map[int]bool, lo, hi int) int {
	for {
		minute := lo + rng.Intn(hi-lo+1)
		if !used[minute] {
			used[minute] = true
			return minute
		}
	}
}

// playExtraTime даёт каждой команде независимый 30% шанс забить один гол в
// дополнительное время (минуты 91..120, пул нападающие/полузащитники).
func playExtraTime(rng *rand.Rand, team1, team2 *models.Team, result *models.MatchResult, usedMinutes map[int]bool) {
	for _, side := range []struct {
		team  *models.Team
		score *int
	}{
		{team1, &result.Team1Score},
		{team2, &result.Team2Score},
	} {
		if rng.Float64() >= extraTimeGoalProb {
			continue
		}
		player := PickPlayer(rng, side.team, models.PositionAttacker, models.PositionMidfielder)
		if player == nil {
			continue
		}
		*side.score++
		result.GoalScorers = append(result.GoalScorers, models.GoalScorer{
			PlayerID:    player.ID,
			PlayerName:  player.Name,
			TeamID:      side.team.ID,
			Minute:      uniqueMinute(rng, usedMinutes, regulationMinutes+1, extraTimeMinutes),
			IsExtraTime: true,
		})
	}
}

// playShootout разыгрывает серию пенальти: пять раундов по удару на команду,
// затем раунды до первого расхождения. Серия останавливается, как только
// исход решён математически, поэтому число ударов всегда чётное.
func playShootout(rng *rand.Rand, team1, team2 *models.Team) *models.PenaltyShootout {
	shootout := &models.PenaltyShootout{}
	order := 0

	takeKick := func(team *models.Team, score *int) {
		order++
		player := PickPlayer(rng, team,
			models.PositionAttacker, models.PositionMidfielder, models.PositionDefender)
		scored := rng.Float64() < shootoutConversion
		if scored {
			*score++
		}
		kick := models.PenaltyKick{
			TeamID: team.ID,
			Scored: scored,
			Order:  order,
		}
		if player != nil {
			kick.PlayerID = player.ID
			kick.PlayerName = player.Name
		}
		shootout.Kicks = append(shootout.Kicks, kick)
	}

	for round := 1; round <= shootoutRounds; round++ {
		takeKick(team1, &shootout.Team1Score)
		takeKick(team2, &shootout.Team2Score)

		remaining := shootoutRounds - round
		diff := shootout.Team1Score - shootout.Team2Score
		if diff < 0 {
			diff = -diff
		}
		if diff > remaining {
			return shootout
		}
	}

	// Серия до первого расхождения: по удару на команду за раунд.
	for shootout.Team1Score == shootout.Team2Score {
		takeKick(team1, &shootout.Team1Score)
		takeKick(team2, &shootout.Team2Score)
	}

	return shootout
}

// assignWinner определяет победителя: по серии пенальти, если она была, иначе
// по счёту с учётом дополнительного времени.
func assignWinner(result *models.MatchResult) {
	team1Won := result.Team1Score > result.Team2Score
	if result.WentToPenalties {
		team1Won = result.PenaltyShootout.Team1Score > result.PenaltyShootout.Team2Score
	}

	if team1Won {
		result.WinnerID = result.Team1ID
		result.LoserID = result.Team2ID
	} else {
		result.WinnerID = result.Team2ID
		result.LoserID = result.Team1ID
	}
}
