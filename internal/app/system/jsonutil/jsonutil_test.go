package jsonutil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		data       any
		wantStatus int
		wantBody   string
	}{
		{
			name:       "200 OK with data",
			status:     http.StatusOK,
			data:       map[string]string{"slug": "quiet-amber-heron"},
			wantStatus: http.StatusOK,
			wantBody:   `{"slug":"quiet-amber-heron"}`,
		},
		{
			name:       "nil data",
			status:     http.StatusOK,
			data:       nil,
			wantStatus: http.StatusOK,
			wantBody:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			JSON(rec, tt.status, tt.data)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Content-Type = %q, want application/json", ct)
			}
			if got := strings.TrimSpace(rec.Body.String()); got != tt.wantBody {
				t.Errorf("body = %q, want %q", got, tt.wantBody)
			}
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name       string
		write      func(http.ResponseWriter)
		wantStatus int
		wantMsg    string
	}{
		{"Error", func(w http.ResponseWriter) { Error(w, http.StatusConflict, "conflict") }, http.StatusConflict, "conflict"},
		{"BadRequest", func(w http.ResponseWriter) { BadRequest(w, "bad") }, http.StatusBadRequest, "bad"},
		{"NotFound", func(w http.ResponseWriter) { NotFound(w, "document not found") }, http.StatusNotFound, "document not found"},
		{"InternalError", func(w http.ResponseWriter) { InternalError(w, "oops") }, http.StatusInternalServerError, "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()
	ValidationError(rec, map[string]string{"slug": "cannot be blank"})

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Error != "validation failed" || body.Fields["slug"] != "cannot be blank" {
		t.Errorf("body = %+v", body)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
		empty   bool
	}{
		{"valid", `{"read_only":true}`, false, false},
		{"empty", ``, true, true},
		{"malformed", `{"read_only":`, true, false},
		{"wrong type", `{"read_only":"yes"}`, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/", strings.NewReader(tt.body))
			var v struct {
				ReadOnly bool `json:"read_only"`
			}
			err := Decode(req, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.empty && !errors.Is(err, ErrEmptyBody) {
				t.Errorf("Decode() error = %v, want ErrEmptyBody", err)
			}
			if !tt.wantErr && !v.ReadOnly {
				t.Error("Decode() did not bind read_only")
			}
		})
	}
}

func TestDecode_NoBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/", nil)
	if err := Decode(req, &struct{}{}); !errors.Is(err, ErrEmptyBody) {
		t.Errorf("Decode() error = %v, want ErrEmptyBody", err)
	}
}
