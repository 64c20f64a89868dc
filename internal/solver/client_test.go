package solver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TPNayana/TimeTableSolver-TimeFold-03/internal/models"
	appErrors "github.com/TPNayana/TimeTableSolver-TimeFold-03/pkg/errors"
)

func errCode(t *testing.T, err error) string {
	t.Helper()
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.NotNil(t, appErr)
	return appErr.Code
}

func TestSubmitPlainTextJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/timetables", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var timetable models.Timetable
		require.NoError(t, json.NewDecoder(r.Body).Decode(&timetable))
		assert.Len(t, timetable.Lessons, 1)

		w.Write([]byte("  job-42 \n"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	jobID, err := client.Submit(context.Background(), models.Timetable{
		Lessons: []models.Lesson{{ID: "1", Subject: "Math", Teacher: "Turing", StudentGroup: "G1"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "job-42", jobID)
}

func TestSubmitJSONJobID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"jobId":"json-7"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	jobID, err := client.Submit(context.Background(), models.Timetable{})

	require.NoError(t, err)
	assert.Equal(t, "json-7", jobID)
}

func TestSubmitRejectsEmptyResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"json without jobId", `{"something":"else"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := New(srv.URL, time.Second, nil)
			_, err := client.Submit(context.Background(), models.Timetable{})
			assert.Equal(t, appErrors.ErrSolverFailed.Code, errCode(t, err))
		})
	}
}

func TestSubmitNon2xxIsSolverFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	_, err := client.Submit(context.Background(), models.Timetable{})

	assert.Equal(t, appErrors.ErrSolverFailed.Code, errCode(t, err))
	assert.Contains(t, err.Error(), "500")
}

func TestUnreachableSolverIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := New(srv.URL, time.Second, nil)
	_, err := client.Submit(context.Background(), models.Timetable{})

	assert.Equal(t, appErrors.ErrSolverUnavailable.Code, errCode(t, err))
}

func TestStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timetables/job-1/status", r.URL.Path)
		w.Write([]byte(`{"solverStatus":"SOLVING"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	status, err := client.Status(context.Background(), "job-1")

	require.NoError(t, err)
	assert.Equal(t, StatusSolving, status.SolverStatus)
}

func TestStatusMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	_, err := client.Status(context.Background(), "job-1")

	assert.Equal(t, appErrors.ErrSolverFailed.Code, errCode(t, err))
}

func TestSolution(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/timetables/job-1", r.URL.Path)
		w.Write([]byte(`{
			"timeslots":[{"id":"MONDAY_09:00","dayOfWeek":"MONDAY","startTime":"09:00","endTime":"10:00"}],
			"lessons":[{"id":"1","subject":"Math","teacher":"Turing","studentGroup":"G1","timeslot":"MONDAY_09:00","room":"R1"}]
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	solution, err := client.Solution(context.Background(), "job-1")

	require.NoError(t, err)
	require.Len(t, solution.Lessons, 1)
	assert.Equal(t, "MONDAY_09:00", solution.Lessons[0].Timeslot)
	require.Len(t, solution.Timeslots, 1)
	assert.Equal(t, models.Monday, solution.Timeslots[0].DayOfWeek)
}

func TestJobIDIsPathEscaped(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"solverStatus":"NOT_SOLVING"}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second, nil)
	_, err := client.Status(context.Background(), "job/with spaces")

	require.NoError(t, err)
	assert.Equal(t, "/timetables/job%2Fwith%20spaces/status", gotPath)
}
