package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
	"github.com/LettersBlue/african-nations-league-sub000/storage"
)

// Состав заявки: 3 вратаря, 8 защитников, 7 полузащитников, 5 нападающих.
var squadComposition = []struct {
	position models.Position
	count    int
}{
	{models.PositionGoalkeeper, 3},
	{models.PositionDefender, 8},
	{models.PositionMidfielder, 7},
	{models.PositionAttacker, 5},
}

// ratingBand задаёт диапазон рейтингов для уровня сборной. Рейтинг в
// родной позиции берётся из верхней полосы, в остальных — из нижней.
type ratingBand struct {
	naturalMin, naturalMax int
	offMin, offMax         int
}

var tierBands = map[int]ratingBand{
	1: {naturalMin: 78, naturalMax: 95, offMin: 45, offMax: 65},
	2: {naturalMin: 64, naturalMax: 84, offMin: 35, offMax: 55},
	3: {naturalMin: 50, naturalMax: 72, offMin: 25, offMax: 45},
}

var firstNames = []string{
	"Sadio", "Mohamed", "Riyad", "Achraf", "Victor", "Thomas", "Kalidou",
	"Yassine", "Andre", "Ismaila", "Sebastien", "Franck", "Wilfred",
	"Naby", "Idrissa", "Hakim", "Youssef", "Serge", "Eric", "Amadou",
	"Cheikhou", "Moussa", "Pape", "Edouard", "Taiwo", "Kelechi",
}

var lastNames = []string{
	"Mane", "Salah", "Mahrez", "Hakimi", "Osimhen", "Partey", "Koulibaly",
	"Bounou", "Onana", "Sarr", "Haller", "Kessie", "Ndidi", "Keita",
	"Gueye", "Ziyech", "En-Nesyri", "Aurier", "Bailly", "Diawara",
	"Kouyate", "Diaby", "Gueye", "Mendy", "Awoniyi", "Iheanacho",
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id string) (*models.Team, error)
	List(ctx context.Context) ([]models.Team, error)
	RegenerateSquad(ctx context.Context, id string) (*models.Team, error)
	UploadFlag(ctx context.Context, id string, contentType, filename string, file io.Reader) (*models.Team, error)
	Delete(ctx context.Context, id string) error
}

type CreateTeamInput struct {
	Country string `json:"country"`
	Tier    int    `json:"tier"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	rng      *rand.Rand
}

func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, rng *rand.Rand) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
		rng:      rng,
	}
}

func (s *teamService) Create(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	country := strings.TrimSpace(input.Country)
	if country == "" {
		return nil, ErrCountryRequired
	}
	band, ok := tierBands[input.Tier]
	if !ok {
		return nil, ErrInvalidTier
	}

	team := &models.Team{
		ID:      uuid.NewString(),
		Country: country,
		Tier:    input.Tier,
	}
	s.populateSquad(team, band)

	if err := ValidateSquad(team); err != nil {
		return nil, err
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamCountryConflict) {
			return nil, ErrTeamCountryConflict
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.resolveFlagURL(team)
	return team, nil
}

func (s *teamService) GetByID(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %s: %w", id, err)
	}
	s.resolveFlagURL(team)
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	for i := range teams {
		s.resolveFlagURL(&teams[i])
	}
	return teams, nil
}

// RegenerateSquad полностью пересоздаёт заявку команды, сохраняя страну и
// уровень. Используется до старта турнира, когда представитель хочет
// «перебросить» состав.
func (s *teamService) RegenerateSquad(ctx context.Context, id string) (*models.Team, error) {
	team, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	band, ok := tierBands[team.Tier]
	if !ok {
		return nil, ErrInvalidTier
	}
	s.populateSquad(team, band)

	if err := ValidateSquad(team); err != nil {
		return nil, err
	}

	if err := s.teamRepo.UpdateSquad(ctx, team); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to update squad for team %s: %w", id, err)
	}
	return team, nil
}

func (s *teamService) UploadFlag(ctx context.Context, id string, contentType, filename string, file io.Reader) (*models.Team, error) {
	// Хранилище опционально: без него загрузка недоступна, но не паникует.
	if s.uploader == nil {
		return nil, ErrFlagStorageDisabled
	}

	team, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("flags/%s%s", team.ID, path.Ext(filename))
	result, err := s.uploader.Upload(ctx, key, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload flag for team %s: %w", id, err)
	}

	if err := s.teamRepo.UpdateFlagKey(ctx, id, &result.Key); err != nil {
		return nil, fmt.Errorf("failed to save flag key for team %s: %w", id, err)
	}

	team.FlagKey = &result.Key
	team.FlagURL = &result.Location
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, id string) error {
	if err := s.teamRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %s: %w", id, err)
	}
	return nil
}

func (s *teamService) resolveFlagURL(team *models.Team) {
	if s.uploader == nil || team.FlagKey == nil {
		return
	}
	url := s.uploader.GetPublicURL(*team.FlagKey)
	if url != "" {
		team.FlagURL = &url
	}
}

// populateSquad генерирует 23 игроков: рейтинг в родной позиции из верхней
// полосы уровня, в остальных позициях — из нижней. Капитан — игрок с
// максимальным рейтингом в родной позиции, стартовый состав — лучший вратарь
// плюс десять лучших полевых.
func (s *teamService) populateSquad(team *models.Team, band ratingBand) {
	players := make([]models.Player, 0, models.SquadSize)
	for _, group := range squadComposition {
		for i := 0; i < group.count; i++ {
			players = append(players, s.generatePlayer(group.position, band))
		}
	}

	captainIdx := 0
	for i := range players {
		players[i].IsCaptain = false
		if players[i].NaturalRating() > players[captainIdx].NaturalRating() {
			captainIdx = i
		}
	}
	players[captainIdx].IsCaptain = true

	team.Players = players
	team.StartingXI = pickStartingEleven(players)
	team.OverallRating = team.ComputeOverallRating()
}

func (s *teamService) generatePlayer(natural models.Position, band ratingBand) models.Player {
	ratings := make(map[models.Position]int, len(models.AllPositions))
	for _, pos := range models.AllPositions {
		if pos == natural {
			ratings[pos] = band.naturalMin + s.rng.Intn(band.naturalMax-band.naturalMin+1)
		} else {
			ratings[pos] = band.offMin + s.rng.Intn(band.offMax-band.offMin+1)
		}
	}

	name := fmt.Sprintf("%s %s",
		firstNames[s.rng.Intn(len(firstNames))],
		lastNames[s.rng.Intn(len(lastNames))])

	return models.Player{
		ID:              uuid.NewString(),
		Name:            name,
		NaturalPosition: natural,
		Ratings:         ratings,
	}
}

// pickStartingEleven выбирает лучшего вратаря и десять лучших полевых по
// рейтингу родной позиции.
func pickStartingEleven(players []models.Player) []string {
	bestKeeper := -1
	for i, p := range players {
		if p.NaturalPosition != models.PositionGoalkeeper {
			continue
		}
		if bestKeeper < 0 || p.NaturalRating() > players[bestKeeper].NaturalRating() {
			bestKeeper = i
		}
	}

	type ranked struct {
		idx    int
		rating int
	}
	outfield := make([]ranked, 0, len(players))
	for i, p := range players {
		if p.NaturalPosition == models.PositionGoalkeeper {
			continue
		}
		outfield = append(outfield, ranked{idx: i, rating: p.NaturalRating()})
	}
	for i := 0; i < len(outfield); i++ {
		for j := i + 1; j < len(outfield); j++ {
			if outfield[j].rating > outfield[i].rating {
				outfield[i], outfield[j] = outfield[j], outfield[i]
			}
		}
	}

	starters := make([]string, 0, models.StartingElevenSize)
	if bestKeeper >= 0 {
		starters = append(starters, players[bestKeeper].ID)
	}
	for _, r := range outfield {
		if len(starters) == models.StartingElevenSize {
			break
		}
		starters = append(starters, players[r.idx].ID)
	}
	return starters
}

// ValidateSquad проверяет инварианты заявки перед тем, как команда попадёт в
// симуляцию: ровно 23 игрока, хотя бы один вратарь, ровно один капитан,
// стартовый состав из 11 с ровно одним вратарём.
func ValidateSquad(team *models.Team) error {
	if len(team.Players) != models.SquadSize {
		return fmt.Errorf("%w: expected %d players, got %d", ErrSquadInvalid, models.SquadSize, len(team.Players))
	}

	captains := 0
	keepers := 0
	for _, p := range team.Players {
		if p.IsCaptain {
			captains++
		}
		if p.NaturalPosition == models.PositionGoalkeeper {
			keepers++
		}
	}
	if captains != 1 {
		return fmt.Errorf("%w: expected exactly one captain, got %d", ErrSquadInvalid, captains)
	}
	if keepers == 0 {
		return fmt.Errorf("%w: squad has no goalkeeper", ErrSquadInvalid)
	}

	if len(team.StartingXI) != models.StartingElevenSize {
		return fmt.Errorf("%w: starting eleven has %d players", ErrSquadInvalid, len(team.StartingXI))
	}
	startingKeepers := 0
	for _, id := range team.StartingXI {
		player := team.PlayerByID(id)
		if player == nil {
			return fmt.Errorf("%w: starting eleven references unknown player %s", ErrSquadInvalid, id)
		}
		if player.NaturalPosition == models.PositionGoalkeeper {
			startingKeepers++
		}
	}
	if startingKeepers != 1 {
		return fmt.Errorf("%w: starting eleven must contain exactly one goalkeeper, got %d", ErrSquadInvalid, startingKeepers)
	}
	return nil
}
