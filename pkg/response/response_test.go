package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"status": "ok"}, "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var res Response
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if res.Status != "OK" || res.StatusCode != http.StatusOK || res.Data == nil {
		t.Errorf("response = %+v", res)
	}
}

func TestErrorWithData(t *testing.T) {
	rec := httptest.NewRecorder()
	ErrorWithData(rec, http.StatusUnprocessableEntity, "no_questions", "nothing to answer", []int{1})

	var res Response
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if rec.Code != http.StatusUnprocessableEntity || res.Code != "no_questions" || res.Message != "nothing to answer" {
		t.Errorf("response = %d %+v", rec.Code, res)
	}
}
