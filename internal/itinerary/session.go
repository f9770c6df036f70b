package itinerary

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"example.com/ai-trip-planner/backend/internal/models"
)

var (
	ErrDayNotFound      = errors.New("itinerary day not found")
	ErrActivityNotFound = errors.New("activity not found")
)

// DayStore is the persistence collaborator for itinerary days.
type DayStore interface {
	ListDays(ctx context.Context, tripID uuid.UUID) ([]models.ItineraryDay, error)
	SaveDay(ctx context.Context, tripID uuid.UUID, day models.ItineraryDay) error
}

// DayWriteError описывает неудачную запись одного дня при полной замене.
type DayWriteError struct {
	Day int
	Err error
}

// ReplaceError агрегирует частичный сбой веерной записи: часть дней могла
// записаться, часть нет, междневной атомарности нет.
type ReplaceError struct {
	Failures []DayWriteError
}

func (e *ReplaceError) Error() string {
	days := make([]string, 0, len(e.Failures))
	for _, failure := range e.Failures {
		days = append(days, fmt.Sprintf("day %d: %v", failure.Day, failure.Err))
	}

	return "itinerary replace failed: " + strings.Join(days, "; ")
}

// Session владеет копией маршрута одной поездки в памяти. Источник истины —
// хранилище: каждая операция сначала пишет туда и лишь при успехе меняет
// состояние в памяти. Session не рассчитана на конкурентные вызовы.
type Session struct {
	store  DayStore
	tripID uuid.UUID
	days   []models.ItineraryDay
}

// NewSession создает сессию маршрута для поездки.
func NewSession(store DayStore, tripID uuid.UUID) *Session {
	return &Session{store: store, tripID: tripID}
}

// Load загружает дни маршрута из хранилища.
func (s *Session) Load(ctx context.Context) error {
	days, err := s.store.ListDays(ctx, s.tripID)
	if err != nil {
		return err
	}

	s.days = days
	return nil
}

// Days возвращает текущую копию маршрута.
func (s *Session) Days() []models.ItineraryDay {
	return s.days
}

// Replace записывает каждый день отдельным документом независимыми
// конкурентными записями и при полном успехе заменяет состояние в памяти
// одним присваиванием. При частичном сбое возвращается ReplaceError с
// разбивкой по дням, память остается прежней.
func (s *Session) Replace(ctx context.Context, days []models.ItineraryDay) error {
	writeErrs := make([]error, len(days))

	var wg sync.WaitGroup
	for i := range days {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			writeErrs[i] = s.store.SaveDay(ctx, s.tripID, days[i])
		}(i)
	}
	wg.Wait()

	var failures []DayWriteError
	for i, err := range writeErrs {
		if err != nil {
			failures = append(failures, DayWriteError{Day: days[i].Day, Err: err})
		}
	}

	if len(failures) > 0 {
		return &ReplaceError{Failures: failures}
	}

	s.days = days
	return nil
}

// AddActivity добавляет активность в день и пересортировывает его активности
// по возрастанию строки времени. Сортировка стабильная: равные времена
// сохраняют порядок вставки.
func (s *Session) AddActivity(ctx context.Context, dayNumber int, activity models.Activity) (models.ItineraryDay, error) {
	idx, ok := s.findDay(dayNumber)
	if !ok {
		return models.ItineraryDay{}, ErrDayNotFound
	}

	updated := s.days[idx]
	updated.Activities = append(cloneActivities(updated.Activities), activity)
	sort.SliceStable(updated.Activities, func(i, j int) bool {
		return updated.Activities[i].Time < updated.Activities[j].Time
	})

	if err := s.store.SaveDay(ctx, s.tripID, updated); err != nil {
		return models.ItineraryDay{}, err
	}

	s.days[idx] = updated
	return updated, nil
}

// EditActivity заменяет активность на месте. Пересортировки нет даже при
// изменении времени: позиция в списке сохраняется.
func (s *Session) EditActivity(ctx context.Context, dayNumber, activityIndex int, activity models.Activity) (models.ItineraryDay, error) {
	idx, ok := s.findDay(dayNumber)
	if !ok {
		return models.ItineraryDay{}, ErrDayNotFound
	}

	if activityIndex < 0 || activityIndex >= len(s.days[idx].Activities) {
		return models.ItineraryDay{}, ErrActivityNotFound
	}

	updated := s.days[idx]
	updated.Activities = cloneActivities(updated.Activities)
	updated.Activities[activityIndex] = activity

	if err := s.store.SaveDay(ctx, s.tripID, updated); err != nil {
		return models.ItineraryDay{}, err
	}

	s.days[idx] = updated
	return updated, nil
}

// DeleteActivity удаляет активность по индексу, порядок остальных не меняется.
func (s *Session) DeleteActivity(ctx context.Context, dayNumber, activityIndex int) (models.ItineraryDay, error) {
	idx, ok := s.findDay(dayNumber)
	if !ok {
		return models.ItineraryDay{}, ErrDayNotFound
	}

	if activityIndex < 0 || activityIndex >= len(s.days[idx].Activities) {
		return models.ItineraryDay{}, ErrActivityNotFound
	}

	updated := s.days[idx]
	activities := cloneActivities(updated.Activities)
	updated.Activities = append(activities[:activityIndex], activities[activityIndex+1:]...)

	if err := s.store.SaveDay(ctx, s.tripID, updated); err != nil {
		return models.ItineraryDay{}, err
	}

	s.days[idx] = updated
	return updated, nil
}

func (s *Session) findDay(dayNumber int) (int, bool) {
	for i, day := range s.days {
		if day.Day == dayNumber {
			return i, true
		}
	}

	return 0, false
}

func cloneActivities(activities []models.Activity) []models.Activity {
	cloned := make([]models.Activity, len(activities))
	copy(cloned, activities)
	return cloned
}
