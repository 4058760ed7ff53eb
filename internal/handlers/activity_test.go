package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"taskplanner/internal/models"
	"taskplanner/internal/service"
)

func activityServiceWith(activity *mockActivity) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{parseID: 7},
		Activity:      activity,
	}
}

func TestActivityHandler_List(t *testing.T) {
	activity := &mockActivity{resp: []models.TaskEvent{
		{EventID: "e1", OwnerID: 7, Type: "TASK_CREATED"},
		{EventID: "e2", OwnerID: 7, Type: "TASK_UPDATED"},
	}}
	s := activityServiceWith(activity)

	w := doAuthedJSON(t, s, http.MethodGet, "/api/v1/activity?from=2026-08-01&to=2026-08-31&type=task_created", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		Count  int                `json:"count"`
		Events []models.TaskEvent `json:"events"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count: got %d, want 2", resp.Count)
	}

	f := activity.lastFilter
	if f.Type != "TASK_CREATED" {
		t.Fatalf("type should be uppercased: got %q", f.Type)
	}
	wantFrom := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	if !f.From.Equal(wantFrom) {
		t.Fatalf("from: got %v, want %v", f.From, wantFrom)
	}
	// Date-only 'to' is end-of-day inclusive.
	if !f.To.After(time.Date(2026, 8, 31, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("to should cover the whole final day: got %v", f.To)
	}
	if activity.lastOwnerID != 7 {
		t.Fatalf("owner: got %d, want 7", activity.lastOwnerID)
	}
}

func TestActivityHandler_ListTimeFormats(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			query: "from=2026-08-27T15:04:05Z",
			want:  time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "datetime",
			query: "from=2026-08-27+15:04:05",
			want:  time.Date(2026, 8, 27, 15, 4, 5, 0, time.UTC),
		},
		{
			name:  "date only",
			query: "from=2026-08-27",
			want:  time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			activity := &mockActivity{}
			s := activityServiceWith(activity)

			w := doAuthedJSON(t, s, http.MethodGet, "/api/v1/activity?"+tc.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
			}
			if !activity.lastFilter.From.Equal(tc.want) {
				t.Fatalf("from: got %v, want %v", activity.lastFilter.From, tc.want)
			}
		})
	}
}

func TestActivityHandler_ListBadInput(t *testing.T) {
	cases := []struct {
		name  string
		query string
	}{
		{name: "bad from", query: "from=yesterday"},
		{name: "bad to", query: "to=27.08.2026"},
		{name: "from after to", query: "from=2026-08-31&to=2026-08-01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			activity := &mockActivity{}
			s := activityServiceWith(activity)

			w := doAuthedJSON(t, s, http.MethodGet, "/api/v1/activity?"+tc.query, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusBadRequest, w.Body.String())
			}
		})
	}
}

func TestActivityHandler_ListServiceError(t *testing.T) {
	activity := &mockActivity{err: errTestDB}
	s := activityServiceWith(activity)

	w := doAuthedJSON(t, s, http.MethodGet, "/api/v1/activity", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusInternalServerError, w.Body.String())
	}
}
