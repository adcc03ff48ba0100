package models

// BracketSlot — одна пара раунда: идентификатор матча, до двух команд и
// опциональный победитель.
type BracketSlot struct {
	MatchUID string  `json:"match_uid"`
	Team1ID  *string `json:"team1_id,omitempty"`
	Team2ID  *string `json:"team2_id,omitempty"`
	WinnerID *string `json:"winner_id,omitempty"`
}

// Populated сообщает, известны ли обе команды пары.
func (s *BracketSlot) Populated() bool {
	return s.Team1ID != nil && s.Team2ID != nil
}

// Bracket — сетка плей-офф на 8 команд: 4 четвертьфинала, 2 полуфинала и
// финал. Размеры раундов — константа формата, поэтому массивы фиксированной
// длины, а не срезы.
type Bracket struct {
	QuarterFinals [4]BracketSlot `json:"quarter_finals"`
	SemiFinals    [2]BracketSlot `json:"semi_finals"`
	Final         BracketSlot    `json:"final"`
}

// SlotsForRound возвращает копии слотов указанного раунда.
func (b *Bracket) SlotsForRound(round Round) []BracketSlot {
	switch round {
	case RoundQuarterFinal:
		return b.QuarterFinals[:]
	case RoundSemiFinal:
		return b.SemiFinals[:]
	case RoundFinal:
		return []BracketSlot{b.Final}
	}
	return nil
}
