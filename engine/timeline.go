package engine

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/LettersBlue/african-nations-league-sub000/models"
)

const (
	ownGoalProb      = 0.05
	assistProb       = 0.30
	intenseEventProb = 0.65
	normalEventProb  = 0.45
	stoppageProb     = 0.02
	varReviewProb    = 0.01
)

// kindWeights — фиксированная таблица весов для вторичных событий минуты.
// Остаток массы (8%) уходит на травматическую паузу.
var kindWeights = []struct {
	kind   models.EventKind
	weight int
}{
	{models.EventShotOnTarget, 20},
	{models.EventShotOffTarget, 15},
	{models.EventSave, 10},
	{models.EventCornerKick, 7},
	{models.EventOffside, 6},
	{models.EventFoul, 7},
	{models.EventYellowCard, 5},
	{models.EventFreeKick, 4},
	{models.EventGoalKick, 4},
	{models.EventThrowIn, 4},
	{models.EventPenaltyKick, 3},
	{models.EventRedCard, 3},
	{models.EventSubstitution, 4},
}

var varDecisions = []models.VARDecision{
	models.VARGoal,
	models.VARNoGoal,
	models.VARPenalty,
	models.VARNoPenalty,
	models.VARRedCard,
	models.VARNoRedCard,
}

// kindPriority определяет порядок событий внутри одной минуты: гол и автогол
// раньше всего, затем VAR, карточки и пенальти, остальное — после.
func kindPriority(kind models.EventKind) int {
	switch kind {
	case models.EventGoal, models.EventOwnGoal:
		return 0
	case models.EventVARReview:
		return 1
	case models.EventRedCard:
		return 2
	case models.EventYellowCard:
		return 3
	case models.EventPenaltyKick:
		return 4
	default:
		return 5
	}
}

// synthesizer накапливает состояние одного прохода генерации хронологии.
type synthesizer struct {
	rng    *rand.Rand
	team1  *models.Team
	team2  *models.Team
	result *models.MatchResult

	events   []models.MatchEvent
	score    models.ScoreSnapshot
	scripted map[int]models.GoalScorer

	lateStoppage bool
}

// Synthesize строит минутную хронологию матча, согласованную с его итогом:
// каждый гол из result.GoalScorers появляется в хронологии ровно один раз,
// служебные маркеры (kickoff, halftime, fulltime, extratime, penalties,
// финальный свисток) расставлены по регламенту, а вторичные события
// заполняют остальные минуты. Последовательность неубывает по минуте.
func Synthesize(rng *rand.Rand, team1, team2 *models.Team, result *models.MatchResult) []models.MatchEvent {
	s := &synthesizer{
		rng:      rng,
		team1:    team1,
		team2:    team2,
		result:   result,
		scripted: make(map[int]models.GoalScorer, len(result.GoalScorers)),
	}
	for _, gs := range result.GoalScorers {
		s.scripted[gs.Minute] = gs
	}

	totalMinutes := regulationMinutes
	if result.WentToExtraTime {
		totalMinutes = extraTimeMinutes
	}

	s.push(models.MatchEvent{
		Kind:        models.EventKickoff,
		Minute:      0,
		Description: fmt.Sprintf("%s kick off against %s", team1.Country, team2.Country),
	})

	for minute := 1; minute <= totalMinutes; minute++ {
		s.runMinute(minute)

		switch minute {
		case 45:
			s.pushHalftime()
		case regulationMinutes:
			if s.lateStoppage {
				s.pushAddedTime()
			}
			s.push(models.MatchEvent{
				Kind:        models.EventFulltime,
				Minute:      regulationMinutes,
				Description: "The referee blows for full time",
			})
			if result.WentToExtraTime {
				s.push(models.MatchEvent{
					Kind:        models.EventExtraTime,
					Minute:      90.5,
					Description: "The match goes to extra time",
				})
			}
		}
	}

	if result.WentToPenalties {
		s.push(models.MatchEvent{
			Kind:        models.EventPenalties,
			Minute:      float64(totalMinutes),
			IsExtraTime: true,
			Description: "Still level: the match will be decided from the penalty spot",
		})
	}

	s.push(models.MatchEvent{
		Kind:        models.EventFinal,
		Minute:      float64(totalMinutes),
		IsExtraTime: result.WentToExtraTime,
		Description: s.finalDescription(),
	})

	// Первичный порядок — по минуте, внутри минуты — по приоритету вида;
	// стабильная сортировка сохраняет порядок вставки для равных ключей.
	sort.SliceStable(s.events, func(i, j int) bool {
		if s.events[i].Minute != s.events[j].Minute {
			return s.events[i].Minute < s.events[j].Minute
		}
		return kindPriority(s.events[i].Kind) < kindPriority(s.events[j].Kind)
	})

	return s.events
}

func (s *synthesizer) push(event models.MatchEvent) {
	event.Score = s.score
	s.events = append(s.events, event)
}

// runMinute обрабатывает одну минуту: запланированный гол, либо вторичное
// событие, либо ничего. Минуты, соседние с запланированным голом, вторичных
// событий не получают.
func (s *synthesizer) runMinute(minute int) {
	if gs, ok := s.scripted[minute]; ok {
		s.pushGoal(minute, gs)
		return
	}

	if s.nearScriptedGoal(minute) {
		return
	}

	prob := normalEventProb
	if intenseWindow(minute) {
		prob = intenseEventProb
	}
	if s.rng.Float64() < prob {
		s.pushSecondary(minute)
	}

	if minute > 30 && s.rng.Float64() < stoppageProb {
		s.pushStoppage(minute)
	}
	if minute > 20 && s.rng.Float64() < varReviewProb {
		s.pushVARReview(minute)
	}
}

func (s *synthesizer) nearScriptedGoal(minute int) bool {
	if _, ok := s.scripted[minute-1]; ok {
		return true
	}
	if _, ok := s.scripted[minute+1]; ok {
		return true
	}
	return false
}

func intenseWindow(minute int) bool {
	return (minute >= 15 && minute <= 30) ||
		(minute >= 60 && minute <= 75) ||
		(minute >= 105 && minute <= 115)
}

func (s *synthesizer) teamByID(id string) *models.Team {
	if id == s.team1.ID {
		return s.team1
	}
	return s.team2
}

func (s *synthesizer) concedingTeam(scoringID string) *models.Team {
	if scoringID == s.team1.ID {
		return s.team2
	}
	return s.team1
}

func (s *synthesizer) creditGoal(teamID string) {
	if teamID == s.team1.ID {
		s.score.Team1++
	} else {
		s.score.Team2++
	}
}

// pushGoal превращает запись об авторе гола в событие хронологии. После
// 10-й минуты гол с вероятностью 5% подаётся как автогол игрока обороны
// соперника; зачёт гола в итоге матча при этом остаётся за атакующей
// командой. Обычный гол с вероятностью 30% предваряется голевой передачей
// на полминуты раньше.
func (s *synthesizer) pushGoal(minute int, gs models.GoalScorer) {
	scoringTeam := s.teamByID(gs.TeamID)
	s.creditGoal(gs.TeamID)

	if minute > 10 && s.rng.Float64() < ownGoalProb {
		conceding := s.concedingTeam(gs.TeamID)
		culprit := PickPlayer(s.rng, conceding,
			models.PositionDefender, models.PositionGoalkeeper)
		event := models.MatchEvent{
			Kind:        models.EventOwnGoal,
			Minute:      float64(minute),
			IsExtraTime: gs.IsExtraTime,
			TeamID:      conceding.ID,
			Goal:        &models.GoalDetail{OwnGoal: true},
		}
		if culprit != nil {
			event.PlayerID = culprit.ID
			event.PlayerName = culprit.Name
			event.Description = fmt.Sprintf("Own goal! %s turns the ball into his own net, %s benefit",
				culprit.Name, scoringTeam.Country)
		} else {
			event.Description = fmt.Sprintf("Own goal gifts %s the lead", scoringTeam.Country)
		}
		s.push(event)
		return
	}

	detail := &models.GoalDetail{}
	if s.rng.Float64() < assistProb {
		if provider := s.pickAssistProvider(scoringTeam, gs.PlayerID); provider != nil {
			detail.AssistPlayerID = provider.ID
			s.push(models.MatchEvent{
				Kind:        models.EventAssist,
				Minute:      float64(minute) - 0.5,
				IsExtraTime: gs.IsExtraTime,
				TeamID:      scoringTeam.ID,
				PlayerID:    provider.ID,
				PlayerName:  provider.Name,
				Description: fmt.Sprintf("%s threads the pass through for %s", provider.Name, gs.PlayerName),
			})
		}
	}

	s.push(models.MatchEvent{
		Kind:        models.EventGoal,
		Minute:      float64(minute),
		IsExtraTime: gs.IsExtraTime,
		TeamID:      scoringTeam.ID,
		PlayerID:    gs.PlayerID,
		PlayerName:  gs.PlayerName,
		Description: fmt.Sprintf("GOAL! %s scores for %s", gs.PlayerName, scoringTeam.Country),
		Goal:        detail,
	})
}

func (s *synthesizer) pickAssistProvider(team *models.Team, scorerID string) *models.Player {
	for attempts := 0; attempts < 10; attempts++ {
		provider := PickPlayer(s.rng, team,
			models.PositionAttacker, models.PositionMidfielder)
		if provider != nil && provider.ID != scorerID {
			return provider
		}
	}
	return nil
}

// pushSecondary разыгрывает вторичное событие минуты по таблице весов.
// Замены вне разрешённых окон перевыбираются.
func (s *synthesizer) pushSecondary(minute int) {
	kind := s.rollKind()
	for kind == models.EventSubstitution && !substitutionLegal(minute) {
		kind = s.rollKind()
	}

	actingTeam := s.team1
	if s.rng.Float64() < 0.5 {
		actingTeam = s.team2
	}

	event := models.MatchEvent{
		Kind:        kind,
		Minute:      float64(minute),
		IsExtraTime: minute > regulationMinutes,
		TeamID:      actingTeam.ID,
	}

	switch kind {
	case models.EventSave:
		keeper := PickPlayer(s.rng, actingTeam, models.PositionGoalkeeper)
		if keeper != nil {
			event.PlayerID = keeper.ID
			event.PlayerName = keeper.Name
		}
		event.Description = fmt.Sprintf("Fine save by %s", event.PlayerName)
	case models.EventSubstitution:
		off, on := s.pickSubstitutionPair(actingTeam)
		if off == nil || on == nil {
			return
		}
		event.Substitution = &models.SubstitutionDetail{
			PlayerOffID:   off.ID,
			PlayerOffName: off.Name,
			PlayerOnID:    on.ID,
			PlayerOnName:  on.Name,
		}
		event.Description = fmt.Sprintf("Substitution for %s: %s replaces %s",
			actingTeam.Country, on.Name, off.Name)
	case models.EventGoalKick:
		keeper := PickPlayer(s.rng, actingTeam, models.PositionGoalkeeper)
		if keeper != nil {
			event.PlayerID = keeper.ID
			event.PlayerName = keeper.Name
		}
		event.Description = fmt.Sprintf("Goal kick for %s", actingTeam.Country)
	default:
		player := PickPlayer(s.rng, actingTeam,
			models.PositionAttacker, models.PositionMidfielder, models.PositionDefender)
		if player != nil {
			event.PlayerID = player.ID
			event.PlayerName = player.Name
		}
		event.Description = secondaryDescription(kind, event.PlayerName, actingTeam.Country)
	}

	s.push(event)
}

func (s *synthesizer) rollKind() models.EventKind {
	draw := s.rng.Intn(100)
	for _, kw := range kindWeights {
		if draw < kw.weight {
			return kw.kind
		}
		draw -= kw.weight
	}
	return models.EventInjuryStoppage
}

// substitutionLegal: 60..85 в основное время, до 115 в дополнительное.
func substitutionLegal(minute int) bool {
	if minute <= regulationMinutes {
		return minute >= 60 && minute <= 85
	}
	return minute <= 115
}

func (s *synthesizer) pickSubstitutionPair(team *models.Team) (*models.Player, *models.Player) {
	if len(team.Players) < 2 {
		return nil, nil
	}
	off := &team.Players[s.rng.Intn(len(team.Players))]
	for {
		on := &team.Players[s.rng.Intn(len(team.Players))]
		if on.ID != off.ID {
			return off, on
		}
	}
}

func secondaryDescription(kind models.EventKind, playerName, country string) string {
	switch kind {
	case models.EventShotOnTarget:
		return fmt.Sprintf("%s forces the goalkeeper into action", playerName)
	case models.EventShotOffTarget:
		return fmt.Sprintf("%s drags his shot wide", playerName)
	case models.EventCornerKick:
		return fmt.Sprintf("Corner for %s", country)
	case models.EventOffside:
		return fmt.Sprintf("%s is flagged offside", playerName)
	case models.EventFoul:
		return fmt.Sprintf("Foul by %s", playerName)
	case models.EventYellowCard:
		return fmt.Sprintf("Yellow card shown to %s", playerName)
	case models.EventRedCard:
		return fmt.Sprintf("Red card! %s is sent off", playerName)
	case models.EventFreeKick:
		return fmt.Sprintf("Free kick in a promising position for %s", country)
	case models.EventThrowIn:
		return fmt.Sprintf("Throw-in for %s", country)
	case models.EventPenaltyKick:
		return fmt.Sprintf("%s steps up to the spot", playerName)
	case models.EventInjuryStoppage:
		return fmt.Sprintf("Play is stopped, %s is down injured", playerName)
	default:
		return fmt.Sprintf("Action involving %s", playerName)
	}
}

func (s *synthesizer) pushStoppage(minute int) {
	actingTeam := s.team1
	if s.rng.Float64() < 0.5 {
		actingTeam = s.team2
	}
	player := PickPlayer(s.rng, actingTeam,
		models.PositionAttacker, models.PositionMidfielder, models.PositionDefender,
		models.PositionGoalkeeper)

	event := models.MatchEvent{
		Kind:        models.EventInjuryStoppage,
		Minute:      float64(minute),
		IsExtraTime: minute > regulationMinutes,
		TeamID:      actingTeam.ID,
		Description: "Play is held up for a knock",
	}
	if player != nil {
		event.PlayerID = player.ID
		event.PlayerName = player.Name
		event.Description = fmt.Sprintf("%s needs treatment, play is held up", player.Name)
	}
	s.push(event)

	if minute >= 85 && minute <= regulationMinutes {
		s.lateStoppage = true
	}
}

func (s *synthesizer) pushVARReview(minute int) {
	decision := varDecisions[s.rng.Intn(len(varDecisions))]
	s.push(models.MatchEvent{
		Kind:        models.EventVARReview,
		Minute:      float64(minute),
		IsExtraTime: minute > regulationMinutes,
		Description: fmt.Sprintf("VAR check under way, decision: %s", decision),
		VAR:         &models.VARDetail{Decision: decision},
	})
}

func (s *synthesizer) pushHalftime() {
	ht := models.ScoreSnapshot{}
	for _, gs := range s.result.GoalScorers {
		if gs.IsExtraTime || gs.Minute > 45 {
			continue
		}
		if gs.TeamID == s.team1.ID {
			ht.Team1++
		} else {
			ht.Team2++
		}
	}
	s.events = append(s.events, models.MatchEvent{
		Kind:   models.EventHalftime,
		Minute: 45,
		Score:  ht,
		Description: fmt.Sprintf("Half time: %s %d-%d %s",
			s.team1.Country, ht.Team1, ht.Team2, s.team2.Country),
	})
}

func (s *synthesizer) pushAddedTime() {
	minutes := 1 + s.rng.Intn(4)
	s.push(models.MatchEvent{
		Kind:        models.EventAddedTime,
		Minute:      regulationMinutes,
		Description: fmt.Sprintf("%d minutes added on", minutes),
		AddedTime:   &models.AddedTimeDetail{Minutes: minutes},
	})
}

func (s *synthesizer) finalDescription() string {
	winner := s.teamByID(s.result.WinnerID)
	if s.result.WentToPenalties {
		so := s.result.PenaltyShootout
		winnerScore, loserScore := so.Team1Score, so.Team2Score
		if s.result.WinnerID == s.result.Team2ID {
			winnerScore, loserScore = so.Team2Score, so.Team1Score
		}
		return fmt.Sprintf("%s win %d-%d on penalties", winner.Country, winnerScore, loserScore)
	}
	return fmt.Sprintf("Full time: %s %d-%d %s",
		s.team1.Country, s.result.Team1Score, s.result.Team2Score, s.team2.Country)
}
