package engine

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

var (
	ErrInvalidTeamCount = errors.New("bracket requires exactly 8 team ids")
	ErrDuplicateTeamID  = errors.New("bracket team ids must be distinct")
)

// StandingsResult — итог завершённого турнира.
type StandingsResult struct {
	WinnerID   string `json:"winner_id"`
	RunnerUpID string `json:"runner_up_id"`
}

// qfToSemi — фиксированная таблица продвижения: четвертьфинал -> слот
// полуфинала. Явная таблица вместо арифметики по индексам, чтобы отображение
// читалось и проверялось напрямую.
var qfToSemi = [4]struct {
	semi int // индекс полуфинального слота
	side int // 1 -> Team1ID, 2 -> Team2ID
}{
	{semi: 0, side: 1},
	{semi: 0, side: 2},
	{semi: 1, side: 1},
	{semi: 1, side: 2},
}

// GenerateBracket строит стартовую сетку на 8 команд: случайно перемешанные
// пары четвертьфиналов и пустые слоты полуфиналов и финала. Каждому слоту
// сразу присваивается идентификатор матча.
func GenerateBracket(rng *rand.Rand, teamIDs []string) (models.Bracket, error) {
	var bracket models.Bracket

	if len(teamIDs) != models.TournamentTeamCount {
		return bracket, fmt.Errorf("%w: got %d", ErrInvalidTeamCount, len(teamIDs))
	}
	seen := make(map[string]bool, len(teamIDs))
	for _, id := range teamIDs {
		if seen[id] {
			return bracket, fmt.Errorf("%w: %q", ErrDuplicateTeamID, id)
		}
		seen[id] = true
	}

	shuffled := make([]string, len(teamIDs))
	copy(shuffled, teamIDs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for i := range bracket.QuarterFinals {
		t1 := shuffled[i*2]
		t2 := shuffled[i*2+1]
		bracket.QuarterFinals[i] = models.BracketSlot{
			MatchUID: uuid.NewString(),
			Team1ID:  &t1,
			Team2ID:  &t2,
		}
	}
	for i := range bracket.SemiFinals {
		bracket.SemiFinals[i] = models.BracketSlot{MatchUID: uuid.NewString()}
	}
	bracket.Final = models.BracketSlot{MatchUID: uuid.NewString()}

	return bracket, nil
}

// AdvanceWinner записывает победителя матча в его слот и продвигает его в
// следующий раунд по фиксированной таблице. Чистое преобразование: исходная
// сетка не меняется, возвращается новая.
//
// Если матч с указанным идентификатором в раунде не найден, сетка возвращается
// без изменений: повторные и устаревшие вызовы не должны портить состояние.
// Вызывающему слою стоит логировать такой случай как предупреждение.
func AdvanceWinner(bracket models.Bracket, matchUID, winnerID string, round models.Round) models.Bracket {
	switch round {
	case models.RoundQuarterFinal:
		for i := range bracket.QuarterFinals {
			if bracket.QuarterFinals[i].MatchUID != matchUID {
				continue
			}
			winner := winnerID
			bracket.QuarterFinals[i].WinnerID = &winner

			target := qfToSemi[i]
			if target.side == 1 {
				bracket.SemiFinals[target.semi].Team1ID = &winner
			} else {
				bracket.SemiFinals[target.semi].Team2ID = &winner
			}
			return bracket
		}

	case models.RoundSemiFinal:
		for i := range bracket.SemiFinals {
			if bracket.SemiFinals[i].MatchUID != matchUID {
				continue
			}
			winner := winnerID
			bracket.SemiFinals[i].WinnerID = &winner

			// Полуфинал 0 кормит первый слот финала, полуфинал 1 — второй.
			if i == 0 {
				bracket.Final.Team1ID = &winner
			} else {
				bracket.Final.Team2ID = &winner
			}
			return bracket
		}

	case models.RoundFinal:
		if bracket.Final.MatchUID == matchUID {
			winner := winnerID
			bracket.Final.WinnerID = &winner
		}
	}

	return bracket
}

// IsComplete: турнир завершён, когда известен победитель финала.
func IsComplete(bracket models.Bracket) bool {
	return bracket.Final.WinnerID != nil
}

// Results возвращает чемпиона и финалиста, либо nil, пока финал не сыгран.
func Results(bracket models.Bracket) *StandingsResult {
	if !IsComplete(bracket) {
		return nil
	}

	result := &StandingsResult{WinnerID: *bracket.Final.WinnerID}
	if bracket.Final.Team1ID != nil && *bracket.Final.Team1ID != result.WinnerID {
		result.RunnerUpID = *bracket.Final.Team1ID
	} else if bracket.Final.Team2ID != nil {
		result.RunnerUpID = *bracket.Final.Team2ID
	}
	return result
}
