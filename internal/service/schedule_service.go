package service

import (
	"time"

	"github.com/fitgrid/fitgrid-backend/internal/models"
)

// ScheduleService turns recurring class definitions into dated
// occurrences. Expansion is pure; only the availability view touches
// the database.
type ScheduleService struct {
	classes  ClassStore
	sessions SessionStore
	bookings BookingStore
	workouts WorkoutStore
}

func NewScheduleService(classes ClassStore, sessions SessionStore, bookings BookingStore, workouts WorkoutStore) *ScheduleService {
	return &ScheduleService{
		classes:  classes,
		sessions: sessions,
		bookings: bookings,
		workouts: workouts,
	}
}

// ExpandWeek maps each weekday in the definition's day set onto a
// concrete date inside the week starting at weekStart. Deterministic
// and re-runnable; persists nothing.
func ExpandWeek(def *models.ClassDefinition, weekStart time.Time) []models.SessionOccurrence {
	weekStart = truncateToDay(weekStart)
	startWeekday := int(weekStart.Weekday())

	occurrences := make([]models.SessionOccurrence, 0, len(def.DaysOfWeek))
	for _, day := range def.DaysOfWeek {
		offset := (day - startWeekday + 7) % 7
		date := weekStart.AddDate(0, 0, offset)
		occurrences = append(occurrences, models.SessionOccurrence{
			ClassID:         def.ID,
			Title:           def.Title,
			Date:            date,
			StartTime:       def.StartTime,
			DurationMinutes: def.DurationMinutes,
			MaxCapacity:     def.MaxCapacity,
			PriceCents:      def.PriceCents,
			SpotsLeft:       def.MaxCapacity,
		})
	}
	return occurrences
}

// WeekSchedule expands every active class over the given week and fills
// in booked counts and assigned workouts from the sessions that have
// been materialized.
func (s *ScheduleService) WeekSchedule(weekStart time.Time) ([]models.SessionOccurrence, error) {
	weekStart = truncateToDay(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 7)

	defs, err := s.classes.GetActive()
	if err != nil {
		return nil, err
	}

	var occurrences []models.SessionOccurrence
	for i := range defs {
		occurrences = append(occurrences, ExpandWeek(&defs[i], weekStart)...)
	}

	sessions, err := s.sessions.GetByDateRange(weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	sessionIDs := make([]uint, 0, len(sessions))
	for _, sess := range sessions {
		sessionIDs = append(sessionIDs, sess.ID)
	}
	counts, err := s.bookings.SumAttendeesBySession(sessionIDs)
	if err != nil {
		return nil, err
	}
	workouts, err := s.workouts.GetBySessionIDs(sessionIDs)
	if err != nil {
		return nil, err
	}
	workoutBySession := make(map[uint]string, len(workouts))
	for _, w := range workouts {
		workoutBySession[w.SessionID] = w.Title
	}

	type key struct {
		classID uint
		date    time.Time
	}
	booked := make(map[key]int, len(sessions))
	workoutTitle := make(map[key]string)
	for _, sess := range sessions {
		k := key{sess.ClassID, truncateToDay(sess.Date)}
		booked[k] = counts[sess.ID]
		if title, ok := workoutBySession[sess.ID]; ok {
			workoutTitle[k] = title
		}
	}

	for i := range occurrences {
		o := &occurrences[i]
		k := key{o.ClassID, o.Date}
		o.BookedCount = booked[k]
		o.SpotsLeft = o.MaxCapacity - o.BookedCount
		o.WorkoutTitle = workoutTitle[k]
	}
	return occurrences, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
