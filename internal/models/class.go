package models

import "time"

// Class is a persisted placement: a lesson bound to a specific
// day/time/room. Created only after passing constraint validation.
type Class struct {
	ID             string    `db:"id" json:"id"`
	CourseID       string    `db:"course_id" json:"courseId"`
	TeacherID      string    `db:"teacher_id" json:"teacherId"`
	StudentGroupID string    `db:"student_group_id" json:"studentGroupId"`
	Day            string    `db:"day" json:"day"`
	StartTime      string    `db:"start_time" json:"startTime"`
	EndTime        string    `db:"end_time" json:"endTime"`
	HasConflict    bool      `db:"has_conflict" json:"hasConflict"`
	MeetingLink    *string   `db:"meeting_link" json:"meetingLink,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
}

// EnrichedClass joins a class with the display names of its referenced
// entities for calendar rendering and export.
type EnrichedClass struct {
	ID             string  `db:"id" json:"id"`
	CourseName     string  `db:"course_name" json:"courseName"`
	CourseCode     string  `db:"course_code" json:"courseCode"`
	TeacherName    string  `db:"teacher_name" json:"teacherName"`
	StudentGroup   string  `db:"student_group" json:"studentGroup"`
	Day            string  `db:"day" json:"day"`
	StartTime      string  `db:"start_time" json:"startTime"`
	EndTime        string  `db:"end_time" json:"endTime"`
	HasConflict    bool    `db:"has_conflict" json:"hasConflict"`
	MeetingLink    *string `db:"meeting_link" json:"meetingLink,omitempty"`
	CourseID       string  `db:"course_id" json:"courseId"`
	TeacherID      string  `db:"teacher_id" json:"teacherId"`
	StudentGroupID string  `db:"student_group_id" json:"studentGroupId"`
}
