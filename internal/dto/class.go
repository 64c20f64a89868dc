package dto

// Conflict describes one double-booking against an existing class.
type Conflict struct {
	Type               string `json:"type"`
	Message            string `json:"message"`
	ConflictingClassID string `json:"conflictingClassId"`
}

// ConflictCheck is the outcome of running a candidate placement
// against the persisted schedule.
type ConflictCheck struct {
	HasConflict bool       `json:"hasConflict"`
	Conflicts   []Conflict `json:"conflicts"`
}

// CheckConflictRequest is a candidate placement to validate without
// persisting anything.
type CheckConflictRequest struct {
	TeacherID      string `json:"teacherId" validate:"required"`
	StudentGroupID string `json:"studentGroupId" validate:"required"`
	Day            string `json:"day" validate:"required"`
	StartTime      string `json:"startTime" validate:"required"`
	EndTime        string `json:"endTime" validate:"required"`
	ExcludeClassID string `json:"excludeClassId"`
}

// CreateClassRequest adds a class manually from the planner UI.
type CreateClassRequest struct {
	CourseID       string  `json:"courseId" validate:"required"`
	TeacherID      string  `json:"teacherId" validate:"required"`
	StudentGroupID string  `json:"studentGroupId" validate:"required"`
	Day            string  `json:"day" validate:"required"`
	StartTime      string  `json:"startTime" validate:"required"`
	EndTime        string  `json:"endTime" validate:"required"`
	MeetingLink    *string `json:"meetingLink"`
}

// PatchClassRequest partially updates a class; nil fields are left as-is.
type PatchClassRequest struct {
	CourseID       *string `json:"courseId"`
	TeacherID      *string `json:"teacherId"`
	StudentGroupID *string `json:"studentGroupId"`
	Day            *string `json:"day"`
	StartTime      *string `json:"startTime"`
	EndTime        *string `json:"endTime"`
	MeetingLink    *string `json:"meetingLink"`
}

// SuggestedSlot is one ranked slot from the suggestion grid.
type SuggestedSlot struct {
	Day       string     `json:"day"`
	StartTime string     `json:"startTime"`
	EndTime   string     `json:"endTime"`
	Available bool       `json:"available"`
	Conflicts []Conflict `json:"conflicts"`
}

// SuggestionQuery mirrors the suggestion endpoint's query string.
type SuggestionQuery struct {
	TeacherID      string `form:"teacherId" validate:"required"`
	StudentGroupID string `form:"studentGroupId" validate:"required"`
	ExcludeClassID string `form:"excludeClassId"`
}
