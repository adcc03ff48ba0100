package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

func bracketTeamIDs() []string {
	return []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t8"}
}

func TestGenerateBracketPairsAllTeamsOnce(t *testing.T) {
	rng := rand.New(rand.NewSource(30))
	bracket, err := GenerateBracket(rng, bracketTeamIDs())
	require.NoError(t, err)

	seen := make(map[string]int)
	for _, slot := range bracket.QuarterFinals {
		require.NotNil(t, slot.Team1ID)
		require.NotNil(t, slot.Team2ID)
		require.NotEmpty(t, slot.MatchUID)
		seen[*slot.Team1ID]++
		seen[*slot.Team2ID]++
		assert.Nil(t, slot.WinnerID)
	}
	require.Len(t, seen, 8)
	for id, count := range seen {
		assert.Equal(t, 1, count, "team %s must appear exactly once", id)
	}

	for _, slot := range bracket.SemiFinals {
		assert.Nil(t, slot.Team1ID)
		assert.Nil(t, slot.Team2ID)
		assert.Nil(t, slot.WinnerID)
		assert.NotEmpty(t, slot.MatchUID)
	}
	assert.Nil(t, bracket.Final.Team1ID)
	assert.Nil(t, bracket.Final.Team2ID)
	assert.Nil(t, bracket.Final.WinnerID)
}

func TestGenerateBracketRejectsBadInput(t *testing.T) {
	rng := rand.New(rand.NewSource(31))

	_, err := GenerateBracket(rng, []string{"t1", "t2", "t3"})
	assert.ErrorIs(t, err, ErrInvalidTeamCount)

	_, err = GenerateBracket(rng, []string{"t1", "t2", "t3", "t4", "t5", "t6", "t7", "t1"})
	assert.ErrorIs(t, err, ErrDuplicateTeamID)
}

func TestAdvanceWinnerQuarterFinalPropagation(t *testing.T) {
	rng := rand.New(rand.NewSource(32))
	bracket, err := GenerateBracket(rng, bracketTeamIDs())
	require.NoError(t, err)

	winner := *bracket.QuarterFinals[0].Team1ID
	updated := AdvanceWinner(bracket, bracket.QuarterFinals[0].MatchUID, winner, models.RoundQuarterFinal)

	require.NotNil(t, updated.QuarterFinals[0].WinnerID)
	assert.Equal(t, winner, *updated.QuarterFinals[0].WinnerID)
	require.NotNil(t, updated.SemiFinals[0].Team1ID)
	assert.Equal(t, winner, *updated.SemiFinals[0].Team1ID)
	assert.Nil(t, updated.SemiFinals[0].Team2ID)

	// Исходная сетка не изменилась: преобразование чистое.
	assert.Nil(t, bracket.QuarterFinals[0].WinnerID)
	assert.Nil(t, bracket.SemiFinals[0].Team1ID)
}

func TestAdvanceWinnerFullMapping(t *testing.T) {
	rng := rand.New(rand.NewSource(33))
	bracket, err := GenerateBracket(rng, bracketTeamIDs())
	require.NoError(t, err)

	// QF 0,1 -> SF0 (слоты 1,2); QF 2,3 -> SF1 (слоты 1,2).
	for i := range bracket.QuarterFinals {
		winner := *bracket.QuarterFinals[i].Team1ID
		bracket = AdvanceWinner(bracket, bracket.QuarterFinals[i].MatchUID, winner, models.RoundQuarterFinal)
	}
	require.NotNil(t, bracket.SemiFinals[0].Team1ID)
	require.NotNil(t, bracket.SemiFinals[0].Team2ID)
	require.NotNil(t, bracket.SemiFinals[1].Team1ID)
	require.NotNil(t, bracket.SemiFinals[1].Team2ID)
	assert.Equal(t, *bracket.QuarterFinals[0].WinnerID, *bracket.SemiFinals[0].Team1ID)
	assert.Equal(t, *bracket.QuarterFinals[1].WinnerID, *bracket.SemiFinals[0].Team2ID)
	assert.Equal(t, *bracket.QuarterFinals[2].WinnerID, *bracket.SemiFinals[1].Team1ID)
	assert.Equal(t, *bracket.QuarterFinals[3].WinnerID, *bracket.SemiFinals[1].Team2ID)

	// SF0 -> Final.Team1, SF1 -> Final.Team2.
	sf0Winner := *bracket.SemiFinals[0].Team1ID
	sf1Winner := *bracket.SemiFinals[1].Team2ID
	bracket = AdvanceWinner(bracket, bracket.SemiFinals[0].MatchUID, sf0Winner, models.RoundSemiFinal)
	bracket = AdvanceWinner(bracket, bracket.SemiFinals[1].MatchUID, sf1Winner, models.RoundSemiFinal)
	require.NotNil(t, bracket.Final.Team1ID)
	require.NotNil(t, bracket.Final.Team2ID)
	assert.Equal(t, sf0Winner, *bracket.Final.Team1ID)
	assert.Equal(t, sf1Winner, *bracket.Final.Team2ID)
	assert.False(t, IsComplete(bracket))
	assert.Nil(t, Results(bracket))

	bracket = AdvanceWinner(bracket, bracket.Final.MatchUID, sf0Winner, models.RoundFinal)
	assert.True(t, IsComplete(bracket))

	standings := Results(bracket)
	require.NotNil(t, standings)
	assert.Equal(t, sf0Winner, standings.WinnerID)
	assert.Equal(t, sf1Winner, standings.RunnerUpID)
}

func TestAdvanceWinnerUnknownMatchIsNoOp(t *testing.T) {
	rng := rand.New(rand.NewSource(34))
	bracket, err := GenerateBracket(rng, bracketTeamIDs())
	require.NoError(t, err)

	updated := AdvanceWinner(bracket, "no-such-match", "t1", models.RoundQuarterFinal)
	assert.Equal(t, bracket, updated, "unmatched match id must leave the bracket unchanged")
}

func TestAdvanceWinnerIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(35))
	bracket, err := GenerateBracket(rng, bracketTeamIDs())
	require.NoError(t, err)

	winner := *bracket.QuarterFinals[2].Team2ID
	once := AdvanceWinner(bracket, bracket.QuarterFinals[2].MatchUID, winner, models.RoundQuarterFinal)
	twice := AdvanceWinner(once, bracket.QuarterFinals[2].MatchUID, winner, models.RoundQuarterFinal)

	assert.Equal(t, once, twice, "repeating the same advancement must be a no-op")
}
