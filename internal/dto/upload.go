package dto

// UploadSummary counts what the workbook contained after normalization.
type UploadSummary struct {
	Timeslots      int `json:"timeslots"`
	Rooms          int `json:"rooms"`
	Lessons        int `json:"lessons"`
	Teachers       int `json:"teachers"`
	StudentGroups  int `json:"studentGroups"`
	Courses        int `json:"courses"`
	Availabilities int `json:"availabilities"`
}

// WindowSlot is a bare day/time triple used in upload validation
// reports.
type WindowSlot struct {
	DayOfWeek string `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// UploadConflict flags a lesson whose teacher has no compatible
// timeslot at all, with up to three of the teacher's declared windows
// as hints.
type UploadConflict struct {
	LessonID    string       `json:"lessonId"`
	Teacher     string       `json:"teacher"`
	Reason      string       `json:"reason"`
	Suggestions []WindowSlot `json:"suggestions"`
}

// UploadValidation carries the non-blocking pre-solve report: row and
// coverage warnings, unschedulable lessons, and per-teacher allowed
// slots (capped at five each).
type UploadValidation struct {
	Warnings    []string                `json:"warnings"`
	Conflicts   []UploadConflict        `json:"conflicts"`
	Suggestions map[string][]WindowSlot `json:"suggestions,omitempty"`
}

// UploadResponse acknowledges an accepted workbook and names the solve
// job to poll.
type UploadResponse struct {
	JobID      string           `json:"jobId"`
	Summary    UploadSummary    `json:"summary"`
	Validation UploadValidation `json:"validation"`
}

// SolveStatusResponse reports the state machine position of a solve job.
type SolveStatusResponse struct {
	JobID        string `json:"jobId"`
	State        string `json:"state"`
	SolverStatus string `json:"solverStatus,omitempty"`
	Error        string `json:"error,omitempty"`
}

// PersistReport summarises a completed persistence pass.
type PersistReport struct {
	Created int               `json:"created"`
	Skipped int               `json:"skipped"`
	Reasons map[string]string `json:"reasons,omitempty"`
}

// SolveResultResponse is the terminal payload for a solve job.
type SolveResultResponse struct {
	JobID   string         `json:"jobId"`
	State   string         `json:"state"`
	Report  *PersistReport `json:"report,omitempty"`
	Message string         `json:"message,omitempty"`
}
