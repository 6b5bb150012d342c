package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lexibot/vocab-units-bot/internal/domain/entities"
	"github.com/lexibot/vocab-units-bot/internal/infra/postgres/repository"
)

type UnitRepo interface {
	GetByName(ctx context.Context, userID int64, name string) (*entities.Unit, error)
	ListByUserID(ctx context.Context, userID int64) ([]*entities.Unit, error)
	Save(ctx context.Context, unit *entities.Unit) (bool, error)
}

type RehearsalRepo interface {
	Create(ctx context.Context, rehearsal *entities.Rehearsal) error
	GetActiveByUserID(ctx context.Context, userID int64) (*entities.Rehearsal, error)
	Update(ctx context.Context, rehearsal *entities.Rehearsal) error
	Replace(ctx context.Context, stopped, created *entities.Rehearsal) error
}

// StopReport is what the bot tells the user about a rehearsal that just
// ended, whatever the reason.
type StopReport struct {
	UnitName string
	Summary  string
}

// StartResult describes a freshly started rehearsal. Stopped carries the
// report of the previous active rehearsal when starting force-stopped it.
type StartResult struct {
	Stopped   *StopReport
	Rehearsal *entities.Rehearsal
	Word      string
}

// AnswerResult describes the turn after an answer was recorded: either
// the next word to ask or, when the unit is exhausted, the final report.
type AnswerResult struct {
	Finished  bool
	Report    *StopReport
	Rehearsal *entities.Rehearsal
	Word      string
}

// RehearsalService drives rehearsal sessions: starting them, feeding
// answers through the rehearsal state machine, revealing translations and
// stopping. Every operation runs the whole load-mutate-save cycle under a
// per-user lock.
type RehearsalService struct {
	units      UnitRepo
	rehearsals RehearsalRepo
	locks      *userLocks
}

func NewRehearsalService(units UnitRepo, rehearsals RehearsalRepo) *RehearsalService {
	return &RehearsalService{
		units:      units,
		rehearsals: rehearsals,
		locks:      newUserLocks(),
	}
}

// Start begins a rehearsal of the named unit with its first word already
// selected. Any previously active rehearsal of the user is stopped first
// and its report is returned alongside; the stop and the creation are
// persisted atomically.
//
// Returns repository.ErrUnitNotFound when the user has no such unit.
func (s *RehearsalService) Start(ctx context.Context, userID int64, unitName string) (*StartResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	unit, err := s.units.GetByName(ctx, userID, strings.ToLower(strings.TrimSpace(unitName)))
	if err != nil {
		return nil, err
	}

	var (
		report  *StopReport
		stopped *entities.Rehearsal
	)

	active, err := s.rehearsals.GetActiveByUserID(ctx, userID)
	switch {
	case err == nil:
		old := active.Stopped()
		stopped = &old
		report = &StopReport{UnitName: active.Unit.Name, Summary: old.Summary()}
	case errors.Is(err, repository.ErrRehearsalNotFound):
		// Nothing to stop.
	default:
		return nil, err
	}

	rehearsal, err := entities.NewRehearsal(userID, unit).NextWord()
	if err != nil {
		// A unit always holds at least one article, so a fresh
		// rehearsal must have a word to ask.
		return nil, fmt.Errorf("select first word: %w", err)
	}

	if err := s.rehearsals.Replace(ctx, stopped, &rehearsal); err != nil {
		return nil, err
	}

	word, _ := rehearsal.CurrentWord()
	return &StartResult{
		Stopped:   report,
		Rehearsal: &rehearsal,
		Word:      word,
	}, nil
}

// Answer records a yes/no answer on the outstanding question and chains
// straight into selecting the next word. When no unasked words remain the
// rehearsal is stopped and the final report returned instead.
//
// Returns repository.ErrRehearsalNotFound when the user has no active
// rehearsal; the caller decides whether that is worth telling the user.
func (s *RehearsalService) Answer(ctx context.Context, userID int64, isKnown bool) (*AnswerResult, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	rehearsal, err := s.rehearsals.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	answered, err := rehearsal.WithAnswer(isKnown)
	if err != nil {
		return nil, err
	}

	next, err := answered.NextWord()
	if errors.Is(err, entities.ErrNoMoreWords) {
		ended := answered.Stopped()
		if err := s.rehearsals.Update(ctx, &ended); err != nil {
			return nil, err
		}
		return &AnswerResult{
			Finished:  true,
			Report:    &StopReport{UnitName: ended.Unit.Name, Summary: ended.Summary()},
			Rehearsal: &ended,
		}, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.rehearsals.Update(ctx, &next); err != nil {
		return nil, err
	}

	word, _ := next.CurrentWord()
	return &AnswerResult{Rehearsal: &next, Word: word}, nil
}

// Reveal returns the article behind the outstanding question so the
// delivery layer can show its translation. The history is not touched.
func (s *RehearsalService) Reveal(ctx context.Context, userID int64) (entities.Article, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	rehearsal, err := s.rehearsals.GetActiveByUserID(ctx, userID)
	if err != nil {
		return entities.Article{}, err
	}

	return rehearsal.CurrentArticle()
}

// Stop ends the user's active rehearsal on explicit request and returns
// its report.
func (s *RehearsalService) Stop(ctx context.Context, userID int64) (*StopReport, error) {
	unlock := s.locks.lock(userID)
	defer unlock()

	rehearsal, err := s.rehearsals.GetActiveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	stopped := rehearsal.Stopped()
	if err := s.rehearsals.Update(ctx, &stopped); err != nil {
		return nil, err
	}

	return &StopReport{UnitName: stopped.Unit.Name, Summary: stopped.Summary()}, nil
}

// TrackQuestionMessage remembers the Telegram message id of the question
// that was just sent, so the bot can edit it in place later.
func (s *RehearsalService) TrackQuestionMessage(ctx context.Context, userID int64, messageID int) error {
	unlock := s.locks.lock(userID)
	defer unlock()

	rehearsal, err := s.rehearsals.GetActiveByUserID(ctx, userID)
	if err != nil {
		return err
	}

	updated, err := rehearsal.WithMessageID(messageID)
	if err != nil {
		return err
	}

	return s.rehearsals.Update(ctx, &updated)
}
