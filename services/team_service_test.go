package services

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LettersBlue/african-nations-league-sub000/models"
	"github.com/LettersBlue/african-nations-league-sub000/repositories"
)

// stubTeamRepository держит команды в памяти.
type stubTeamRepository struct {
	teams map[string]*models.Team
}

func newStubTeamRepository() *stubTeamRepository {
	return &stubTeamRepository{teams: make(map[string]*models.Team)}
}

func (r *stubTeamRepository) Create(_ context.Context, team *models.Team) error {
	for _, existing := range r.teams {
		if existing.Country == team.Country {
			return repositories.ErrTeamCountryConflict
		}
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *stubTeamRepository) GetByID(_ context.Context, id string) (*models.Team, error) {
	team, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	copied := *team
	return &copied, nil
}

func (r *stubTeamRepository) List(_ context.Context) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, *team)
	}
	return teams, nil
}

func (r *stubTeamRepository) ListByIDs(_ context.Context, ids []string) ([]models.Team, error) {
	teams := make([]models.Team, 0, len(ids))
	for _, id := range ids {
		if team, ok := r.teams[id]; ok {
			teams = append(teams, *team)
		}
	}
	return teams, nil
}

func (r *stubTeamRepository) UpdateSquad(_ context.Context, team *models.Team) error {
	if _, ok := r.teams[team.ID]; !ok {
		return repositories.ErrTeamNotFound
	}
	copied := *team
	r.teams[team.ID] = &copied
	return nil
}

func (r *stubTeamRepository) UpdateFlagKey(_ context.Context, id string, flagKey *string) error {
	team, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	team.FlagKey = flagKey
	return nil
}

func (r *stubTeamRepository) Delete(_ context.Context, id string) error {
	if _, ok := r.teams[id]; !ok {
		return repositories.ErrTeamNotFound
	}
	delete(r.teams, id)
	return nil
}

func newTestTeamService(seed int64) (TeamService, *stubTeamRepository) {
	repo := newStubTeamRepository()
	return NewTeamService(repo, nil, rand.New(rand.NewSource(seed))), repo
}

func TestCreateTeamGeneratesValidSquad(t *testing.T) {
	svc, _ := newTestTeamService(1)

	team, err := svc.Create(context.Background(), CreateTeamInput{Country: "Senegal", Tier: 1})
	require.NoError(t, err)

	require.Len(t, team.Players, models.SquadSize)
	require.NoError(t, ValidateSquad(team))

	byPosition := make(map[models.Position]int)
	for _, p := range team.Players {
		byPosition[p.NaturalPosition]++
		require.Len(t, p.Ratings, len(models.AllPositions))
	}
	assert.Equal(t, 3, byPosition[models.PositionGoalkeeper])
	assert.Equal(t, 8, byPosition[models.PositionDefender])
	assert.Equal(t, 7, byPosition[models.PositionMidfielder])
	assert.Equal(t, 5, byPosition[models.PositionAttacker])

	require.NotNil(t, team.Captain())
	assert.Greater(t, team.OverallRating, 0.0)
}

func TestCreateTeamNaturalRatingsComeFromHigherBand(t *testing.T) {
	svc, _ := newTestTeamService(2)

	team, err := svc.Create(context.Background(), CreateTeamInput{Country: "Morocco", Tier: 1})
	require.NoError(t, err)

	band := tierBands[1]
	for _, p := range team.Players {
		natural := p.Ratings[p.NaturalPosition]
		assert.GreaterOrEqual(t, natural, band.naturalMin)
		assert.LessOrEqual(t, natural, band.naturalMax)
		for _, pos := range models.AllPositions {
			if pos == p.NaturalPosition {
				continue
			}
			assert.GreaterOrEqual(t, p.Ratings[pos], band.offMin)
			assert.LessOrEqual(t, p.Ratings[pos], band.offMax)
		}
	}
}

func TestCreateTeamStartingElevenHasOneGoalkeeper(t *testing.T) {
	svc, _ := newTestTeamService(3)

	team, err := svc.Create(context.Background(), CreateTeamInput{Country: "Nigeria", Tier: 2})
	require.NoError(t, err)
	require.Len(t, team.StartingXI, models.StartingElevenSize)

	keepers := 0
	for _, id := range team.StartingXI {
		player := team.PlayerByID(id)
		require.NotNil(t, player)
		if player.NaturalPosition == models.PositionGoalkeeper {
			keepers++
		}
	}
	assert.Equal(t, 1, keepers)
}

func TestCreateTeamValidatesInput(t *testing.T) {
	svc, _ := newTestTeamService(4)

	_, err := svc.Create(context.Background(), CreateTeamInput{Country: "  ", Tier: 1})
	assert.ErrorIs(t, err, ErrCountryRequired)

	_, err = svc.Create(context.Background(), CreateTeamInput{Country: "Ghana", Tier: 5})
	assert.ErrorIs(t, err, ErrInvalidTier)
}

func TestCreateTeamCountryConflict(t *testing.T) {
	svc, _ := newTestTeamService(5)

	_, err := svc.Create(context.Background(), CreateTeamInput{Country: "Egypt", Tier: 1})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateTeamInput{Country: "Egypt", Tier: 2})
	assert.ErrorIs(t, err, ErrTeamCountryConflict)
}

func TestRegenerateSquadKeepsCountryAndTier(t *testing.T) {
	svc, _ := newTestTeamService(6)

	team, err := svc.Create(context.Background(), CreateTeamInput{Country: "Cameroon", Tier: 3})
	require.NoError(t, err)
	originalIDs := make([]string, 0, len(team.Players))
	for _, p := range team.Players {
		originalIDs = append(originalIDs, p.ID)
	}

	regenerated, err := svc.RegenerateSquad(context.Background(), team.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cameroon", regenerated.Country)
	assert.Equal(t, 3, regenerated.Tier)
	require.NoError(t, ValidateSquad(regenerated))

	newIDs := make(map[string]bool, len(regenerated.Players))
	for _, p := range regenerated.Players {
		newIDs[p.ID] = true
	}
	for _, id := range originalIDs {
		assert.False(t, newIDs[id], "regenerated squad should not reuse player ids")
	}
}

func TestUploadFlagWithoutStorageConfigured(t *testing.T) {
	svc, _ := newTestTeamService(8)

	team, err := svc.Create(context.Background(), CreateTeamInput{Country: "Mali", Tier: 2})
	require.NoError(t, err)

	// Загрузчик не сконфигурирован: ожидаем ошибку сервиса, а не панику.
	_, err = svc.UploadFlag(context.Background(), team.ID, "image/png", "flag.png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrFlagStorageDisabled)
}

func TestValidateSquadRejectsBrokenSquads(t *testing.T) {
	svc, _ := newTestTeamService(7)

	team, err := svc.Create(context.Background(), CreateTeamInput{Country: "Algeria", Tier: 2})
	require.NoError(t, err)

	short := *team
	short.Players = team.Players[:20]
	assert.ErrorIs(t, ValidateSquad(&short), ErrSquadInvalid)

	twoCaptains := *team
	twoCaptains.Players = append([]models.Player(nil), team.Players...)
	for i := range twoCaptains.Players {
		if !twoCaptains.Players[i].IsCaptain {
			twoCaptains.Players[i].IsCaptain = true
			break
		}
	}
	assert.ErrorIs(t, ValidateSquad(&twoCaptains), ErrSquadInvalid)

	badXI := *team
	badXI.StartingXI = append([]string(nil), team.StartingXI...)
	badXI.StartingXI[0] = "missing-player"
	assert.ErrorIs(t, ValidateSquad(&badXI), ErrSquadInvalid)
}
