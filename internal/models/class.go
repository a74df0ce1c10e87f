package models

import "time"

// ClassDefinition is the recurring template a trainer publishes:
// "Mon/Wed/Fri at 18:00, 60 minutes, 12 spots". Concrete dated
// occurrences are derived from it week by week.
type ClassDefinition struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	TrainerID uint   `json:"trainer_id" gorm:"index;not null"`
	Title     string `json:"title" gorm:"not null"`
	// DaysOfWeek holds time.Weekday values (0 = Sunday).
	DaysOfWeek      []int     `json:"days_of_week" gorm:"type:json;serializer:json"`
	StartTime       string    `json:"start_time" gorm:"not null"` // "HH:MM", 24h
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	MaxCapacity     int       `json:"max_capacity" gorm:"not null"`
	PriceCents      int64     `json:"price_cents" gorm:"not null"`
	IsActive        bool      `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ClassSession is a materialized occurrence of a ClassDefinition on a
// concrete date. Rows exist only once something attaches to the
// occurrence (a booking or a workout assignment); the schedule view is
// computed from definitions without touching this table.
type ClassSession struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	ClassID     uint            `json:"class_id" gorm:"uniqueIndex:idx_sessions_class_date;not null"`
	Class       ClassDefinition `json:"-"`
	Date        time.Time       `json:"date" gorm:"uniqueIndex:idx_sessions_class_date;not null"` // midnight UTC
	StartTime   string          `json:"start_time" gorm:"not null"`
	MaxCapacity int             `json:"max_capacity" gorm:"not null"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StartsAt resolves the session's wall-clock start from its date and
// "HH:MM" start time, in UTC.
func (s *ClassSession) StartsAt() time.Time {
	t, err := time.Parse("15:04", s.StartTime)
	if err != nil {
		return s.Date
	}
	return s.Date.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

// SessionOccurrence is one expanded, not necessarily materialized,
// occurrence in a weekly schedule view.
type SessionOccurrence struct {
	ClassID         uint      `json:"class_id"`
	Title           string    `json:"title"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	MaxCapacity     int       `json:"max_capacity"`
	PriceCents      int64     `json:"price_cents"`
	BookedCount     int       `json:"booked_count"`
	SpotsLeft       int       `json:"spots_left"`
	WorkoutTitle    string    `json:"workout_title,omitempty"`
}

type CreateClassRequest struct {
	Title           string `json:"title" validate:"required"`
	DaysOfWeek      []int  `json:"days_of_week" validate:"required,min=1,dive,min=0,max=6"`
	StartTime       string `json:"start_time" validate:"required,hhmm"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1"`
	MaxCapacity     int    `json:"max_capacity" validate:"required,min=1"`
	PriceCents      int64  `json:"price_cents" validate:"min=0"`
}

// WorkoutAssignment attaches a planned workout to one dated occurrence
// of a class. Creating one materializes the session row.
type WorkoutAssignment struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	SessionID uint      `json:"session_id" gorm:"uniqueIndex;not null"`
	TrainerID uint      `json:"trainer_id" gorm:"not null"`
	Title     string    `json:"title" gorm:"not null"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type AssignWorkoutRequest struct {
	Title string `json:"title" validate:"required"`
	Notes string `json:"notes"`
}
