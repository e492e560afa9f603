package report

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sprachtest/internal/exam"
)

func testResult() Result {
	return Result{
		User: exam.UserInfo{
			Name:           "Anna Schmidt",
			NativeLanguage: "Polish",
			Phone:          "+48 123 456 789",
		},
		Score:     9,
		Total:     12,
		Timestamp: time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC),
	}
}

func TestWebhookReporter_Submit(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{}
		for k := range r.PostForm {
			gotForm[k] = r.PostForm.Get(k)
		}
	}))
	defer server.Close()

	rep := NewWebhookReporter(server.URL)
	rep.Warn = func(msg string) { t.Errorf("unexpected warning: %s", msg) }

	rep.Submit(context.Background(), testResult())

	want := map[string]string{
		"name":           "Anna Schmidt",
		"nativeLanguage": "Polish",
		"phone":          "+48 123 456 789",
		"score":          "9",
		"total":          "12",
		"percentage":     "75%",
	}
	for k, v := range want {
		assert.Equal(t, v, gotForm[k], "form field %s", k)
	}
	assert.NotEmpty(t, gotForm["timestamp"])
}

func TestWebhookReporter_UnsetURL(t *testing.T) {
	rep := NewWebhookReporter("")
	var warned string
	rep.Warn = func(msg string) { warned = msg }

	rep.Submit(context.Background(), testResult())

	require.NotEmpty(t, warned, "expected warning for unset collector URL")
}

func TestWebhookReporter_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	rep := NewWebhookReporter(server.URL)
	var warned string
	rep.Warn = func(msg string) { warned = msg }

	rep.Submit(context.Background(), testResult())

	require.NotEmpty(t, warned, "expected warning on HTTP 500")
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         string
	}{
		{12, 12, "100%"},
		{9, 12, "75%"},
		{10, 12, "83%"}, // 83.33 rounds down
		{1, 3, "33%"},
		{2, 3, "67%"}, // 66.67 rounds up
		{0, 12, "0%"},
		{0, 0, "0%"},
	}
	for _, tt := range tests {
		r := Result{Score: tt.score, Total: tt.total}
		assert.Equal(t, tt.want, r.Percentage(), "Percentage(%d/%d)", tt.score, tt.total)
	}
}
