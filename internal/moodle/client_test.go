package moodle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"
	"moodlequiz/internal/log"
	"moodlequiz/internal/model"
)

const attemptDataResponse = `{
  "attempt": {"id": 6, "quiz": 2, "userid": 3, "attempt": 1, "state": "inprogress", "currentpage": 0},
  "messages": [],
  "nextpage": -1,
  "questions": [
    {"slot": 1, "type": "multichoice", "page": 0, "html": "<div class=\"qtext\">Q</div>", "sequencecheck": 2,
     "lastactiontime": 0, "hasautosavedstep": false, "flagged": false, "number": 1, "status": "Not yet answered",
     "blockedbyprevious": false, "maxmark": 1}
  ],
  "warnings": []
}`

// newServer answers every call with the response registered for its wsfunction
// and hands the parsed form to inspect.
func newServer(t *testing.T, responses map[string]string, inspect func(url.Values)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != restPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if inspect != nil {
			inspect(r.PostForm)
		}
		body, ok := responses[r.PostForm.Get("wsfunction")]
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newClient(server *httptest.Server) *Client {
	return New(Config{HostURL: server.URL + "/", Timeout: 5 * time.Second, RateLimit: 100, Burst: 10})
}

func TestGetAttemptData(t *testing.T) {
	log.Logger = zaptest.NewLogger(t)

	var form url.Values
	server := newServer(t, map[string]string{fnGetAttemptData: attemptDataResponse}, func(v url.Values) { form = v })

	data, err := newClient(server).GetAttemptData(context.Background(), "secret", 6, 0)
	if err != nil {
		t.Fatalf("GetAttemptData() unexpected error: %v", err)
	}

	if form.Get("wstoken") != "secret" || form.Get("moodlewsrestformat") != "json" {
		t.Errorf("request form = %v, want token and json format", form)
	}
	if form.Get("attemptid") != "6" || form.Get("page") != "0" {
		t.Errorf("request form = %v, want attemptid=6 page=0", form)
	}
	if data.Attempt.ID != 6 || data.NextPage != -1 || len(data.Questions) != 1 {
		t.Fatalf("GetAttemptData() = %+v", data)
	}
	if q := data.Questions[0]; q.Type != "multichoice" || q.SequenceCheck != 2 || q.HTML == "" {
		t.Errorf("GetAttemptData() question = %+v", q)
	}
}

func TestProcessAttempt(t *testing.T) {
	tests := []struct {
		name     string
		req      model.ProcessAttemptRequest
		expected map[string]string
	}{
		{
			name: "Answer",
			req: model.ProcessAttemptRequest{
				AttemptID: 6,
				Data: []model.SubmissionField{
					{Name: "q3:1_answer", Value: "2"},
					{Name: "q3:1_:sequencecheck", Value: "4"},
				},
			},
			expected: map[string]string{
				"attemptid":      "6",
				"data[0][name]":  "q3:1_answer",
				"data[0][value]": "2",
				"data[1][name]":  "q3:1_:sequencecheck",
				"data[1][value]": "4",
				"finishattempt":  "0",
			},
		},
		{
			name: "Finish",
			req:  model.ProcessAttemptRequest{AttemptID: 6, FinishAttempt: true},
			expected: map[string]string{
				"attemptid":     "6",
				"finishattempt": "1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var form url.Values
			server := newServer(t, map[string]string{fnProcessAttempt: `{"state":"inprogress","warnings":[]}`}, func(v url.Values) { form = v })

			result, err := newClient(server).ProcessAttempt(context.Background(), "secret", tt.req)
			if err != nil {
				t.Fatalf("ProcessAttempt() unexpected error: %v", err)
			}
			if result.State != "inprogress" {
				t.Errorf("ProcessAttempt() state = %q, want inprogress", result.State)
			}
			for k, v := range tt.expected {
				if form.Get(k) != v {
					t.Errorf("form[%s] = %q, want %q", k, form.Get(k), v)
				}
			}
		})
	}
}

func TestStartAndListAttempts(t *testing.T) {
	var forms []url.Values
	server := newServer(t, map[string]string{
		fnStartAttempt:    `{"attempt":{"id":11,"quiz":2,"state":"inprogress"},"warnings":[]}`,
		fnGetUserAttempts: `{"attempts":[{"id":10,"state":"finished"},{"id":11,"state":"inprogress"}],"warnings":[]}`,
	}, func(v url.Values) { forms = append(forms, v) })
	client := newClient(server)

	attempt, err := client.StartAttempt(context.Background(), "secret", 2, true)
	if err != nil {
		t.Fatalf("StartAttempt() unexpected error: %v", err)
	}
	if attempt.ID != 11 || forms[0].Get("forcenew") != "1" || forms[0].Get("quizid") != "2" {
		t.Errorf("StartAttempt() = %+v with form %v", attempt, forms[0])
	}

	attempts, err := client.GetUserAttempts(context.Background(), "secret", 2, "")
	if err != nil {
		t.Fatalf("GetUserAttempts() unexpected error: %v", err)
	}
	if len(attempts) != 2 || forms[1].Get("status") != "all" {
		t.Errorf("GetUserAttempts() = %+v with form %v", attempts, forms[1])
	}
}

func TestGetQuizzesByCourses(t *testing.T) {
	var form url.Values
	server := newServer(t, map[string]string{
		fnGetQuizzesByCourses: `{"quizzes":[{"id":2,"course":1,"coursemodule":9,"name":"Week 1"}],"warnings":[]}`,
	}, func(v url.Values) { form = v })

	quizzes, err := newClient(server).GetQuizzesByCourses(context.Background(), "secret", []int{1, 3})
	if err != nil {
		t.Fatalf("GetQuizzesByCourses() unexpected error: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].Name != "Week 1" {
		t.Errorf("GetQuizzesByCourses() = %+v", quizzes)
	}
	if form.Get("courseids[0]") != "1" || form.Get("courseids[1]") != "3" {
		t.Errorf("form = %v, want courseids[0]=1 courseids[1]=3", form)
	}
}

func TestCallErrors(t *testing.T) {
	log.Logger = zaptest.NewLogger(t)

	t.Run("Moodle exception", func(t *testing.T) {
		server := newServer(t, map[string]string{
			fnGetAttemptData: `{"exception":"moodle_exception","errorcode":"invalidtoken","message":"Invalid token - token not found"}`,
		}, nil)

		_, err := newClient(server).GetAttemptData(context.Background(), "bad", 6, 0)
		var mErr *Error
		if !errors.As(err, &mErr) {
			t.Fatalf("GetAttemptData() error = %v, want *Error", err)
		}
		if mErr.ErrorCode != "invalidtoken" || mErr.Function != fnGetAttemptData {
			t.Errorf("Error = %+v", mErr)
		}
	})

	t.Run("Server error status", func(t *testing.T) {
		server := newServer(t, map[string]string{}, nil)

		_, err := newClient(server).GetAttemptData(context.Background(), "secret", 6, 0)
		if !errors.Is(err, ErrUnexpectedStatus) {
			t.Errorf("GetAttemptData() error = %v, want %v", err, ErrUnexpectedStatus)
		}
	})

	t.Run("Undecodable body", func(t *testing.T) {
		server := newServer(t, map[string]string{fnGetAttemptData: `<html>maintenance</html>`}, nil)

		if _, err := newClient(server).GetAttemptData(context.Background(), "secret", 6, 0); err == nil {
			t.Error("GetAttemptData() expected error but got none")
		}
	})

	t.Run("Cancelled context", func(t *testing.T) {
		server := newServer(t, map[string]string{fnGetAttemptData: attemptDataResponse}, nil)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newClient(server).GetAttemptData(ctx, "secret", 6, 0)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("GetAttemptData() error = %v, want %v", err, context.Canceled)
		}
	})
}
