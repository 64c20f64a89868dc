package models

import "time"

// Teacher is derived from the distinct teacher names in an uploaded
// Lessons sheet. One upload cycle owns the full roster.
type Teacher struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// StudentGroup is derived from the distinct group names in an uploaded
// Lessons sheet.
type StudentGroup struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Course is derived from the distinct subject names in an uploaded
// Lessons sheet. Code is the upper-snake form of the name.
type Course struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Code      string    `db:"code" json:"code"`
	Duration  int       `db:"duration" json:"duration"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// AvailabilityRecord is the persisted form of a teacher availability
// window. Day is stored in display form ("Monday") like Class.Day.
type AvailabilityRecord struct {
	ID        string    `db:"id" json:"id"`
	Teacher   string    `db:"teacher" json:"teacher"`
	Day       string    `db:"day" json:"day"`
	StartTime string    `db:"start_time" json:"startTime"`
	EndTime   string    `db:"end_time" json:"endTime"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
