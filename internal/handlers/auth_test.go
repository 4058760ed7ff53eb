package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskplanner/internal/models"
	"taskplanner/internal/service"
)

func TestAuthHandlers_SignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 42, genTokenToken: "tok123", parseID: 1}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// sign-up success
	body := bytes.NewBufferString(`{"email":"u@example.com","username":"user1","password":"secret1"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if int(m["id"].(float64)) != 42 {
		t.Fatalf("expected id=42, got %v", m["id"])
	}
	if auth.lastSignUp.Username != "user1" || auth.lastSignUp.Email != "u@example.com" {
		t.Fatalf("sign-up params not forwarded: %+v", auth.lastSignUp)
	}

	// sign-in success
	body = bytes.NewBufferString(`{"username":"user1","password":"secret1"}`)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}

	// sign-in invalid body → 400
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in", bytes.NewBufferString(`{"username":1}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_SignUpValidation(t *testing.T) {
	auth := &mockAuth{signUpID: 1}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"username":"user1","password":"secret1"}`},
		{"bad email", `{"email":"nope","username":"user1","password":"secret1"}`},
		{"short username", `{"email":"u@example.com","username":"ab","password":"secret1"}`},
		{"short password", `{"email":"u@example.com","username":"user1","password":"12345"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/sign-up", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (body=%s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestAuthHandlers_SignUpTakenFields(t *testing.T) {
	auth := &mockAuth{signUpErr: service.ErrEmailTaken}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up",
		bytes.NewBufferString(`{"email":"u@example.com","username":"user1","password":"secret1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for taken email, got %d", w.Code)
	}

	var out struct {
		Error string `json:"error"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.Error != service.ErrEmailTaken.Error() {
		t.Fatalf("error message: got %q, want %q", out.Error, service.ErrEmailTaken.Error())
	}
}

func TestAuthHandlers_SignInErrorStatuses(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"unknown user", service.ErrUserNotFound, http.StatusUnauthorized, "invalid credentials"},
		{"wrong password", service.ErrInvalidPassword, http.StatusUnauthorized, "invalid credentials"},
		{"inactive user", service.ErrUserInactive, http.StatusUnauthorized, "invalid credentials"},
		{"storage failure", errTestDB, http.StatusInternalServerError, "failed to sign in"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{genTokenErr: tc.err}
			s := &service.Service{Authorization: auth}
			r := newTestRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
				bytes.NewBufferString(`{"username":"user1","password":"secret1"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantStatus, w.Body.String())
			}

			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.wantError {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.wantError)
			}
		})
	}
}

func TestAuthHandlers_Me(t *testing.T) {
	auth := &mockAuth{
		parseID:     7,
		currentUser: &models.User{ID: 7, Email: "u@example.com", Username: "user1", IsActive: true},
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header = authHeader("good-token")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("me status=%d, body=%s", w.Code, w.Body.String())
	}

	var u models.User
	if err := json.Unmarshal(w.Body.Bytes(), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != 7 || u.Username != "user1" {
		t.Fatalf("unexpected profile: %+v", u)
	}

	// no token → 401
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}
