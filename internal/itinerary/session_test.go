package itinerary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"example.com/ai-trip-planner/backend/internal/models"
)

type fakeStore struct {
	days     map[int]models.ItineraryDay
	failDays map[int]error
	saves    int
}

func newFakeStore(days ...models.ItineraryDay) *fakeStore {
	store := &fakeStore{days: make(map[int]models.ItineraryDay), failDays: make(map[int]error)}
	for _, day := range days {
		store.days[day.Day] = day
	}
	return store
}

func (s *fakeStore) ListDays(ctx context.Context, tripID uuid.UUID) ([]models.ItineraryDay, error) {
	listed := make([]models.ItineraryDay, 0, len(s.days))
	for i := 1; i <= len(s.days); i++ {
		listed = append(listed, s.days[i])
	}
	return listed, nil
}

func (s *fakeStore) SaveDay(ctx context.Context, tripID uuid.UUID, day models.ItineraryDay) error {
	s.saves++
	if err, ok := s.failDays[day.Day]; ok {
		return err
	}
	s.days[day.Day] = day
	return nil
}

func day(number int, times ...string) models.ItineraryDay {
	activities := make([]models.Activity, 0, len(times))
	for _, at := range times {
		activities = append(activities, models.Activity{Time: at, Title: "activity at " + at})
	}
	return models.ItineraryDay{Day: number, Date: "2026-06-01", Activities: activities}
}

func loadedSession(t *testing.T, store *fakeStore) *Session {
	t.Helper()

	session := NewSession(store, uuid.New())
	if err := session.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	return session
}

// TestAddActivitySorts проверяет пересортировку дня по строке времени при добавлении.
func TestAddActivitySorts(t *testing.T) {
	store := newFakeStore(day(1, "09:00 AM", "07:00 PM"))
	session := loadedSession(t, store)

	updated, err := session.AddActivity(context.Background(), 1, models.Activity{Time: "11:00 AM", Title: "Brunch"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := []string{"07:00 PM", "09:00 AM", "11:00 AM"}
	for i, activity := range updated.Activities {
		if activity.Time != want[i] {
			t.Fatalf("expected %s at index %d, got %s", want[i], i, activity.Time)
		}
	}

	if store.days[1].Activities[0].Time != "07:00 PM" {
		t.Fatal("expected sorted day to be persisted")
	}
}

// TestEditActivityKeepsPosition проверяет, что правка не пересортировывает день.
func TestEditActivityKeepsPosition(t *testing.T) {
	store := newFakeStore(day(1, "09:00 AM", "12:00 PM", "07:00 PM"))
	session := loadedSession(t, store)

	updated, err := session.EditActivity(context.Background(), 1, 0, models.Activity{Time: "10:30 PM", Title: "Late start"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if updated.Activities[0].Time != "10:30 PM" {
		t.Fatalf("expected edited activity to stay at index 0, got %s", updated.Activities[0].Time)
	}
	if updated.Activities[1].Time != "12:00 PM" {
		t.Fatalf("expected remaining order unchanged, got %s", updated.Activities[1].Time)
	}
}

// TestDeleteActivity проверяет удаление по индексу без смены порядка остальных.
func TestDeleteActivity(t *testing.T) {
	store := newFakeStore(day(1, "09:00 AM", "12:00 PM", "07:00 PM"))
	session := loadedSession(t, store)

	updated, err := session.DeleteActivity(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(updated.Activities) != 2 {
		t.Fatalf("expected 2 activities, got %d", len(updated.Activities))
	}
	if updated.Activities[0].Time != "09:00 AM" || updated.Activities[1].Time != "07:00 PM" {
		t.Fatalf("unexpected order after delete: %+v", updated.Activities)
	}
}

// TestMutationsReportMissingTargets проверяет именованные ошибки отсутствия.
func TestMutationsReportMissingTargets(t *testing.T) {
	store := newFakeStore(day(1, "09:00 AM"))
	session := loadedSession(t, store)

	if _, err := session.AddActivity(context.Background(), 7, models.Activity{Time: "10:00 AM"}); !errors.Is(err, ErrDayNotFound) {
		t.Fatalf("expected ErrDayNotFound, got %v", err)
	}

	if _, err := session.EditActivity(context.Background(), 1, 5, models.Activity{}); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}

	if _, err := session.DeleteActivity(context.Background(), 1, -1); !errors.Is(err, ErrActivityNotFound) {
		t.Fatalf("expected ErrActivityNotFound, got %v", err)
	}
}

// TestWriteFailureKeepsMemory проверяет, что память меняется только после записи.
func TestWriteFailureKeepsMemory(t *testing.T) {
	store := newFakeStore(day(1, "09:00 AM"))
	store.failDays[1] = errors.New("write refused")
	session := loadedSession(t, store)

	if _, err := session.AddActivity(context.Background(), 1, models.Activity{Time: "10:00 AM"}); err == nil {
		t.Fatal("expected write error")
	}

	if len(session.Days()[0].Activities) != 1 {
		t.Fatalf("expected in-memory day unchanged, got %d activities", len(session.Days()[0].Activities))
	}
}

// TestReplace проверяет веерную запись и замену состояния одним присваиванием.
func TestReplace(t *testing.T) {
	store := newFakeStore()
	session := NewSession(store, uuid.New())

	days := []models.ItineraryDay{day(1, "09:00 AM"), day(2, "10:00 AM"), day(3, "11:00 AM")}
	if err := session.Replace(context.Background(), days); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if store.saves != 3 {
		t.Fatalf("expected 3 writes, got %d", store.saves)
	}
	if len(session.Days()) != 3 {
		t.Fatalf("expected 3 days in memory, got %d", len(session.Days()))
	}
}

// TestReplacePartialFailure проверяет агрегацию сбоев по дням.
func TestReplacePartialFailure(t *testing.T) {
	store := newFakeStore()
	store.failDays[2] = errors.New("write refused")
	session := NewSession(store, uuid.New())

	err := session.Replace(context.Background(), []models.ItineraryDay{day(1), day(2), day(3)})
	if err == nil {
		t.Fatal("expected partial failure")
	}

	var replaceErr *ReplaceError
	if !errors.As(err, &replaceErr) {
		t.Fatalf("expected ReplaceError, got %T", err)
	}
	if len(replaceErr.Failures) != 1 || replaceErr.Failures[0].Day != 2 {
		t.Fatalf("unexpected failures: %+v", replaceErr.Failures)
	}

	if len(session.Days()) != 0 {
		t.Fatal("expected in-memory state untouched after failure")
	}
}
