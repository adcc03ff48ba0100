package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

func findEvents(timeline []models.MatchEvent, kind models.EventKind) []models.MatchEvent {
	var found []models.MatchEvent
	for _, e := range timeline {
		if e.Kind == kind {
			found = append(found, e)
		}
	}
	return found
}

func TestSynthesizeAlwaysCarriesMarkers(t *testing.T) {
	rng := rand.New(rand.NewSource(20))
	team1 := newTestTeam("t1", "Nigeria", 85)
	team2 := newTestTeam("t2", "Senegal", 80)

	for i := 0; i < 50; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)
		require.NotEmpty(t, timeline)

		assert.Equal(t, models.EventKickoff, timeline[0].Kind)
		assert.Equal(t, float64(0), timeline[0].Minute)
		assert.Len(t, findEvents(timeline, models.EventHalftime), 1)
		assert.Len(t, findEvents(timeline, models.EventFulltime), 1)

		finals := findEvents(timeline, models.EventFinal)
		require.Len(t, finals, 1)
		expectedEnd := float64(90)
		if result.WentToExtraTime {
			expectedEnd = 120
		}
		assert.Equal(t, expectedEnd, finals[0].Minute)
		assert.Equal(t, models.EventFinal, timeline[len(timeline)-1].Kind)
	}
}

func TestSynthesizeMinuteMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	team1 := newTestTeam("t1", "Nigeria", 85)
	team2 := newTestTeam("t2", "Senegal", 80)

	for i := 0; i < 50; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)
		for j := 1; j < len(timeline); j++ {
			assert.GreaterOrEqual(t, timeline[j].Minute, timeline[j-1].Minute,
				"timeline must be minute-non-decreasing")
		}
	}
}

func TestSynthesizeGoalsMatchResult(t *testing.T) {
	rng := rand.New(rand.NewSource(22))
	team1 := newTestTeam("t1", "Nigeria", 90)
	team2 := newTestTeam("t2", "Senegal", 88)

	for i := 0; i < 100; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		goals := len(findEvents(timeline, models.EventGoal)) +
			len(findEvents(timeline, models.EventOwnGoal))
		assert.Equal(t, len(result.GoalScorers), goals,
			"goal and own-goal events must correspond 1:1 with goalScorers")
	}
}

func TestSynthesizeHalftimeScoreDerivedFromScorers(t *testing.T) {
	rng := rand.New(rand.NewSource(23))
	team1 := newTestTeam("t1", "Nigeria", 90)
	team2 := newTestTeam("t2", "Senegal", 88)

	for i := 0; i < 100; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		halftime := findEvents(timeline, models.EventHalftime)
		require.Len(t, halftime, 1)

		want := models.ScoreSnapshot{}
		for _, gs := range result.GoalScorers {
			if gs.IsExtraTime || gs.Minute > 45 {
				continue
			}
			if gs.TeamID == team1.ID {
				want.Team1++
			} else {
				want.Team2++
			}
		}
		assert.Equal(t, want, halftime[0].Score)
	}
}

func TestSynthesizeSubstitutionRules(t *testing.T) {
	rng := rand.New(rand.NewSource(24))
	team1 := newTestTeam("t1", "Nigeria", 85)
	team2 := newTestTeam("t2", "Senegal", 80)

	for i := 0; i < 100; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		for _, sub := range findEvents(timeline, models.EventSubstitution) {
			require.NotNil(t, sub.Substitution)
			assert.NotEqual(t, sub.Substitution.PlayerOffID, sub.Substitution.PlayerOnID,
				"substitution must involve two distinct players")

			minute := int(sub.Minute)
			if sub.IsExtraTime {
				assert.LessOrEqual(t, minute, 115)
			} else {
				assert.True(t, minute >= 60 && minute <= 85,
					"regulation substitution at minute %d", minute)
			}
		}
	}
}

func TestSynthesizeExtraTimeAndPenaltyMarkers(t *testing.T) {
	rng := rand.New(rand.NewSource(25))
	team1 := newTestTeam("t1", "Nigeria", 80)
	team2 := newTestTeam("t2", "Senegal", 80)

	// Сценарий 2:2 с дополнительным временем и серией пенальти.
	result := models.MatchResult{
		Team1ID:    team1.ID,
		Team2ID:    team2.ID,
		Team1Score: 2,
		Team2Score: 2,
		IsDraw:     true,
		GoalScorers: []models.GoalScorer{
			{PlayerID: team1.Players[20].ID, PlayerName: team1.Players[20].Name, TeamID: team1.ID, Minute: 17},
			{PlayerID: team1.Players[21].ID, PlayerName: team1.Players[21].Name, TeamID: team1.ID, Minute: 55},
			{PlayerID: team2.Players[20].ID, PlayerName: team2.Players[20].Name, TeamID: team2.ID, Minute: 33},
			{PlayerID: team2.Players[21].ID, PlayerName: team2.Players[21].Name, TeamID: team2.ID, Minute: 78},
		},
		WentToExtraTime: true,
		WentToPenalties: true,
		PenaltyShootout: &models.PenaltyShootout{Team1Score: 4, Team2Score: 3},
		WinnerID:        team1.ID,
		LoserID:         team2.ID,
	}

	timeline := Synthesize(rng, team1, team2, &result)

	extraMarkers := findEvents(timeline, models.EventExtraTime)
	require.Len(t, extraMarkers, 1)
	assert.Equal(t, 90.5, extraMarkers[0].Minute)

	penaltyMarkers := findEvents(timeline, models.EventPenalties)
	require.Len(t, penaltyMarkers, 1)

	require.NotNil(t, result.PenaltyShootout)
	assert.NotEqual(t, result.PenaltyShootout.Team1Score, result.PenaltyShootout.Team2Score)

	finals := findEvents(timeline, models.EventFinal)
	require.Len(t, finals, 1)
	assert.Equal(t, float64(120), finals[0].Minute)
}

func TestSynthesizeAddedTimeFollowsLateStoppage(t *testing.T) {
	rng := rand.New(rand.NewSource(28))
	team1 := newTestTeam("t1", "Nigeria", 85)
	team2 := newTestTeam("t2", "Senegal", 80)

	addedTimes := 0
	for i := 0; i < 2000 && addedTimes < 5; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		added := findEvents(timeline, models.EventAddedTime)
		if len(added) == 0 {
			continue
		}
		addedTimes++
		require.Len(t, added, 1)
		require.NotNil(t, added[0].AddedTime)
		assert.Equal(t, float64(90), added[0].Minute)
		assert.GreaterOrEqual(t, added[0].AddedTime.Minutes, 1)
		assert.LessOrEqual(t, added[0].AddedTime.Minutes, 4)

		// Добавленное время объявляется только после поздней паузы на травму.
		lateStoppage := false
		addedIdx, fulltimeIdx := -1, -1
		for j, e := range timeline {
			if e.Kind == models.EventInjuryStoppage && !e.IsExtraTime &&
				e.Minute >= 85 && e.Minute <= 90 {
				lateStoppage = true
			}
			if e.Kind == models.EventAddedTime {
				addedIdx = j
			}
			if e.Kind == models.EventFulltime {
				fulltimeIdx = j
			}
		}
		assert.True(t, lateStoppage, "added time requires a stoppage in minutes 85-90")
		assert.Less(t, addedIdx, fulltimeIdx, "added time is announced before the full-time whistle")
	}
	assert.Greater(t, addedTimes, 0, "expected added-time events across 2000 simulations")
}

func TestSynthesizeQuietZoneAroundScriptedGoals(t *testing.T) {
	rng := rand.New(rand.NewSource(29))
	team1 := newTestTeam("t1", "Nigeria", 95)
	team2 := newTestTeam("t2", "Senegal", 92)

	markers := map[models.EventKind]bool{
		models.EventKickoff:   true,
		models.EventGoal:      true,
		models.EventOwnGoal:   true,
		models.EventAssist:    true,
		models.EventHalftime:  true,
		models.EventFulltime:  true,
		models.EventAddedTime: true,
		models.EventExtraTime: true,
		models.EventPenalties: true,
		models.EventFinal:     true,
	}

	checked := 0
	for i := 0; i < 100; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		for _, gs := range result.GoalScorers {
			checked++
			for _, e := range timeline {
				if markers[e.Kind] {
					continue
				}
				assert.NotEqual(t, float64(gs.Minute-1), e.Minute,
					"no filler event in the minute before a goal (%s at %d)", e.Kind, gs.Minute)
				assert.NotEqual(t, float64(gs.Minute+1), e.Minute,
					"no filler event in the minute after a goal (%s at %d)", e.Kind, gs.Minute)
			}
		}
	}
	assert.Greater(t, checked, 0, "expected goals across 100 simulations")
}

func TestSynthesizeOwnGoalChargedToConcedingSide(t *testing.T) {
	rng := rand.New(rand.NewSource(26))
	team1 := newTestTeam("t1", "Nigeria", 90)
	team2 := newTestTeam("t2", "Senegal", 88)

	ownGoals := 0
	for i := 0; i < 400 && ownGoals < 10; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		for _, og := range findEvents(timeline, models.EventOwnGoal) {
			ownGoals++
			require.NotNil(t, og.Goal)
			assert.True(t, og.Goal.OwnGoal)

			// Событие относится к пропустившей команде, но счёт растёт у
			// атакующей: снимок счёта события уже включает этот гол.
			conceding := team1
			if og.TeamID == team2.ID {
				conceding = team2
			}
			if og.PlayerID != "" {
				player := conceding.PlayerByID(og.PlayerID)
				require.NotNil(t, player)
				assert.Contains(t,
					[]models.Position{models.PositionDefender, models.PositionGoalkeeper},
					player.NaturalPosition)
			}
		}
	}
	assert.Greater(t, ownGoals, 0, "expected own goals across 400 simulations")
}

func TestSynthesizeAssistCrossLink(t *testing.T) {
	rng := rand.New(rand.NewSource(27))
	team1 := newTestTeam("t1", "Nigeria", 90)
	team2 := newTestTeam("t2", "Senegal", 88)

	assists := 0
	for i := 0; i < 200 && assists < 10; i++ {
		result := Simulate(rng, team1, team2)
		timeline := Synthesize(rng, team1, team2, &result)

		for idx, e := range timeline {
			if e.Kind != models.EventAssist {
				continue
			}
			assists++
			// Передача стоит на полминуты раньше гола и связана с ним.
			require.Less(t, idx+1, len(timeline))
			var goal *models.MatchEvent
			for j := idx + 1; j < len(timeline); j++ {
				if timeline[j].Kind == models.EventGoal && timeline[j].Minute == e.Minute+0.5 {
					goal = &timeline[j]
					break
				}
			}
			require.NotNil(t, goal, "assist must precede a goal half a minute later")
			require.NotNil(t, goal.Goal)
			assert.Equal(t, e.PlayerID, goal.Goal.AssistPlayerID)
			assert.NotEqual(t, e.PlayerID, goal.PlayerID)
		}
	}
	assert.Greater(t, assists, 0, "expected assists across 200 simulations")
}
