package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

func countScorers(result models.MatchResult, teamID string) int {
	count := 0
	for _, gs := range result.GoalScorers {
		if gs.TeamID == teamID {
			count++
		}
	}
	return count
}

func TestSimulateScorersMatchScore(t *testing.T) {
	rng := rand.New(rand.NewSource(10))
	team1 := newTestTeam("t1", "Nigeria", 85)
	team2 := newTestTeam("t2", "Senegal", 80)

	for i := 0; i < 200; i++ {
		result := Simulate(rng, team1, team2)

		assert.Equal(t, result.Team1Score, countScorers(result, team1.ID))
		assert.Equal(t, result.Team2Score, countScorers(result, team2.ID))
		assert.LessOrEqual(t, result.Team1Score, maxGoals)
		assert.LessOrEqual(t, result.Team2Score, maxGoals)
		assert.GreaterOrEqual(t, result.Team1Score, 0)
		assert.GreaterOrEqual(t, result.Team2Score, 0)
	}
}

func TestSimulateScorerMinutesUniqueAndInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	team1 := newTestTeam("t1", "Nigeria", 90)
	team2 := newTestTeam("t2", "Senegal", 90)

	for i := 0; i < 100; i++ {
		result := Simulate(rng, team1, team2)
		seen := make(map[int]bool)
		for _, gs := range result.GoalScorers {
			assert.False(t, seen[gs.Minute], "scorer minutes must be unique within a match")
			seen[gs.Minute] = true
			if gs.IsExtraTime {
				assert.True(t, gs.Minute >= 91 && gs.Minute <= 120, "minute %d", gs.Minute)
			} else {
				assert.True(t, gs.Minute >= 1 && gs.Minute <= 90, "minute %d", gs.Minute)
			}
		}
	}
}

func TestSimulateDrawSemantics(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	team1 := newTestTeam("t1", "Nigeria", 70)
	team2 := newTestTeam("t2", "Senegal", 70)

	sawDraw := false
	for i := 0; i < 300; i++ {
		result := Simulate(rng, team1, team2)

		regulation1 := 0
		regulation2 := 0
		for _, gs := range result.GoalScorers {
			if gs.IsExtraTime {
				continue
			}
			if gs.TeamID == team1.ID {
				regulation1++
			} else {
				regulation2++
			}
		}
		assert.Equal(t, regulation1 == regulation2, result.IsDraw,
			"IsDraw must reflect the regulation score only")

		if result.IsDraw {
			sawDraw = true
			assert.True(t, result.WentToExtraTime)
		} else {
			assert.False(t, result.WentToExtraTime)
			assert.False(t, result.WentToPenalties)
		}

		// Победитель всегда назначен, даже после серии пенальти.
		require.NotEmpty(t, result.WinnerID)
		require.NotEmpty(t, result.LoserID)
		assert.NotEqual(t, result.WinnerID, result.LoserID)
	}
	assert.True(t, sawDraw, "expected at least one draw in 300 simulations of equal teams")
}

func TestShootoutNeverEndsLevel(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	team1 := newTestTeam("t1", "Nigeria", 75)
	team2 := newTestTeam("t2", "Senegal", 75)

	shootouts := 0
	for i := 0; i < 2000 && shootouts < 50; i++ {
		result := Simulate(rng, team1, team2)
		if !result.WentToPenalties {
			continue
		}
		shootouts++
		so := result.PenaltyShootout
		require.NotNil(t, so)
		assert.NotEqual(t, so.Team1Score, so.Team2Score, "shootout must not end level")

		// Удары идут парами: команды бьют строго по очереди.
		assert.Equal(t, 0, len(so.Kicks)%2, "kick count must be even")
		assert.GreaterOrEqual(t, len(so.Kicks), 6)
		for i, kick := range so.Kicks {
			assert.Equal(t, i+1, kick.Order)
			if i%2 == 0 {
				assert.Equal(t, team1.ID, kick.TeamID)
			} else {
				assert.Equal(t, team2.ID, kick.TeamID)
			}
		}

		winnerByShootout := result.Team1ID
		if so.Team2Score > so.Team1Score {
			winnerByShootout = result.Team2ID
		}
		assert.Equal(t, winnerByShootout, result.WinnerID)
	}
	assert.Greater(t, shootouts, 0, "expected at least one shootout")
}

func TestSimulateStrongerTeamScoresMoreOnAverage(t *testing.T) {
	rng := rand.New(rand.NewSource(14))
	strong := newTestTeam("t1", "Nigeria", 90)
	weak := newTestTeam("t2", "Djibouti", 40)

	totalStrong := 0
	totalWeak := 0
	const runs = 1000
	for i := 0; i < runs; i++ {
		result := Simulate(rng, strong, weak)
		totalStrong += result.Team1Score
		totalWeak += result.Team2Score
	}

	assert.Greater(t, float64(totalStrong)/runs, float64(totalWeak)/runs,
		"team rated 90 must outscore team rated 40 on average")
}

func TestSimulateExtraTimeScorersPool(t *testing.T) {
	rng := rand.New(rand.NewSource(15))
	team1 := newTestTeam("t1", "Nigeria", 65)
	team2 := newTestTeam("t2", "Senegal", 65)

	for i := 0; i < 500; i++ {
		result := Simulate(rng, team1, team2)
		for _, gs := range result.GoalScorers {
			if !gs.IsExtraTime {
				continue
			}
			team := team1
			if gs.TeamID == team2.ID {
				team = team2
			}
			player := team.PlayerByID(gs.PlayerID)
			require.NotNil(t, player)
			assert.Contains(t,
				[]models.Position{models.PositionAttacker, models.PositionMidfielder},
				player.NaturalPosition,
				"extra-time scorers come from the attacker/midfielder pool")
		}
	}
}
