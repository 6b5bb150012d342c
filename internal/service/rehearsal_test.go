package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres/repository"
)

type fakeUnitRepo struct {
	units []*entities.Unit
}

func (f *fakeUnitRepo) GetByName(_ context.Context, userID int64, name string) (*entities.Unit, error) {
	for _, u := range f.units {
		if u.UserID == userID && u.Name == name {
			return u, nil
		}
	}
	return nil, repository.ErrUnitNotFound
}

func (f *fakeUnitRepo) ListByUserID(_ context.Context, userID int64) ([]*entities.Unit, error) {
	var units []*entities.Unit
	for _, u := range f.units {
		if u.UserID == userID {
			units = append(units, u)
		}
	}
	return units, nil
}

func (f *fakeUnitRepo) Save(_ context.Context, unit *entities.Unit) (bool, error) {
	f.units = append(f.units, unit)
	return true, nil
}

type fakeRehearsalRepo struct {
	rehearsals map[uuid.UUID]*entities.Rehearsal
}

func newFakeRehearsalRepo() *fakeRehearsalRepo {
	return &fakeRehearsalRepo{rehearsals: make(map[uuid.UUID]*entities.Rehearsal)}
}

func (f *fakeRehearsalRepo) Create(_ context.Context, rehearsal *entities.Rehearsal) error {
	stored := *rehearsal
	f.rehearsals[stored.ID] = &stored
	return nil
}

func (f *fakeRehearsalRepo) GetActiveByUserID(_ context.Context, userID int64) (*entities.Rehearsal, error) {
	for _, r := range f.rehearsals {
		if r.UserID == userID && r.IsActive() {
			loaded := *r
			return &loaded, nil
		}
	}
	return nil, repository.ErrRehearsalNotFound
}

func (f *fakeRehearsalRepo) Update(_ context.Context, rehearsal *entities.Rehearsal) error {
	if _, ok := f.rehearsals[rehearsal.ID]; !ok {
		return repository.ErrRehearsalNotFound
	}
	stored := *rehearsal
	f.rehearsals[stored.ID] = &stored
	return nil
}

func (f *fakeRehearsalRepo) Replace(ctx context.Context, stopped, created *entities.Rehearsal) error {
	if stopped != nil {
		if err := f.Update(ctx, stopped); err != nil {
			return err
		}
	}
	return f.Create(ctx, created)
}

func seedUnit(t *testing.T, repo *fakeUnitRepo, userID int64, name string, words ...string) *entities.Unit {
	t.Helper()

	articles := make([]entities.Article, 0, len(words))
	for _, w := range words {
		articles = append(articles, entities.Article{Word: w, Translation: "translation of " + w})
	}

	unit, err := entities.NewUnit(userID, name, articles)
	require.NoError(t, err)
	repo.units = append(repo.units, unit)
	return unit
}

func TestRehearsalService_Start(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "unidad1", "uno", "dos")

	s := NewRehearsalService(units, rehearsals)

	result, err := s.Start(context.Background(), 7, "unidad1")
	require.NoError(t, err)

	assert.Nil(t, result.Stopped)
	assert.Contains(t, []string{"uno", "dos"}, result.Word)
	assert.Len(t, result.Rehearsal.History, 1)
	assert.True(t, result.Rehearsal.Outstanding())

	active, err := rehearsals.GetActiveByUserID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, result.Rehearsal.ID, active.ID)
}

func TestRehearsalService_Start_NormalizesName(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "unidad1", "uno")

	s := NewRehearsalService(units, rehearsals)

	_, err := s.Start(context.Background(), 7, "  Unidad1 ")
	assert.NoError(t, err)
}

func TestRehearsalService_Start_UnitNotFound(t *testing.T) {
	s := NewRehearsalService(&fakeUnitRepo{}, newFakeRehearsalRepo())

	_, err := s.Start(context.Background(), 7, "missing")
	assert.ErrorIs(t, err, repository.ErrUnitNotFound)
}

func TestRehearsalService_Start_StopsPreviousFirst(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "first", "uno")
	seedUnit(t, units, 7, "second", "dos")

	s := NewRehearsalService(units, rehearsals)

	old, err := s.Start(context.Background(), 7, "first")
	require.NoError(t, err)

	result, err := s.Start(context.Background(), 7, "second")
	require.NoError(t, err)

	require.NotNil(t, result.Stopped)
	assert.Equal(t, "first", result.Stopped.UnitName)
	assert.NotEmpty(t, result.Stopped.Summary)

	stored := rehearsals.rehearsals[old.Rehearsal.ID]
	assert.Equal(t, entities.RehearsalStatusStopped, stored.Status)

	active, err := rehearsals.GetActiveByUserID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "second", active.Unit.Name)
}

func TestRehearsalService_Answer_ChainsNextWord(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "unidad1", "uno", "dos")

	s := NewRehearsalService(units, rehearsals)

	started, err := s.Start(context.Background(), 7, "unidad1")
	require.NoError(t, err)

	mid, err := s.Answer(context.Background(), 7, true)
	require.NoError(t, err)

	assert.False(t, mid.Finished)
	assert.NotEqual(t, started.Word, mid.Word)
	assert.Len(t, mid.Rehearsal.History, 2)

	final, err := s.Answer(context.Background(), 7, false)
	require.NoError(t, err)

	assert.True(t, final.Finished)
	require.NotNil(t, final.Report)
	assert.Equal(
		t,
		"You know only 50% of words here. Maybe, study this unit one more time?",
		final.Report.Summary,
	)

	_, err = rehearsals.GetActiveByUserID(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrRehearsalNotFound)
}

func TestRehearsalService_Answer_NoActiveRehearsal(t *testing.T) {
	s := NewRehearsalService(&fakeUnitRepo{}, newFakeRehearsalRepo())

	_, err := s.Answer(context.Background(), 7, true)
	assert.ErrorIs(t, err, repository.ErrRehearsalNotFound)
}

func TestRehearsalService_Reveal_DoesNotAdvanceHistory(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "unidad1", "uno")

	s := NewRehearsalService(units, rehearsals)

	started, err := s.Start(context.Background(), 7, "unidad1")
	require.NoError(t, err)

	article, err := s.Reveal(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, started.Word, article.Word)
	assert.Equal(t, "translation of "+started.Word, article.Translation)

	active, err := rehearsals.GetActiveByUserID(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, active.History, 1)
	assert.True(t, active.Outstanding())
}

func TestRehearsalService_Stop(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "unidad1", "uno")

	s := NewRehearsalService(units, rehearsals)

	_, err := s.Start(context.Background(), 7, "unidad1")
	require.NoError(t, err)

	report, err := s.Stop(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "unidad1", report.UnitName)
	assert.NotEmpty(t, report.Summary)

	_, err = rehearsals.GetActiveByUserID(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrRehearsalNotFound)

	_, err = s.Stop(context.Background(), 7)
	assert.ErrorIs(t, err, repository.ErrRehearsalNotFound)
}

func TestRehearsalService_TrackQuestionMessage(t *testing.T) {
	units := &fakeUnitRepo{}
	rehearsals := newFakeRehearsalRepo()
	seedUnit(t, units, 7, "unidad1", "uno")

	s := NewRehearsalService(units, rehearsals)

	_, err := s.Start(context.Background(), 7, "unidad1")
	require.NoError(t, err)

	require.NoError(t, s.TrackQuestionMessage(context.Background(), 7, 42))

	active, err := rehearsals.GetActiveByUserID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, active.History[0].MessageID)
	assert.Equal(t, 42, *active.History[0].MessageID)
}
