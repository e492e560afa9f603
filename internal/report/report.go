// Package report delivers finished exam results to an external results
// collector (a Google Apps Script web app backed by a spreadsheet).
package report

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"sprachtest/internal/exam"
)

// Result is one finished exam run.
type Result struct {
	User      exam.UserInfo
	Score     int
	Total     int
	Timestamp time.Time
}

// Percentage renders the score as a rounded percent string, e.g. "75%".
func (r Result) Percentage() string {
	if r.Total == 0 {
		return "0%"
	}
	pct := float64(r.Score) / float64(r.Total) * 100
	return strconv.Itoa(int(pct+0.5)) + "%"
}

// Reporter submits a finished exam result. Submission failures must not
// block exam completion; implementations report them through the warn
// callback instead of an error return.
type Reporter interface {
	Submit(ctx context.Context, result Result)
}

// WebhookReporter posts results to a collector endpoint as an
// url-encoded form. An unset URL disables submission with a warning.
type WebhookReporter struct {
	url    string
	client *http.Client

	// Warn receives user-facing submission problems. Nil means silent.
	Warn func(msg string)
}

// NewWebhookReporter creates a reporter for the given collector URL.
func NewWebhookReporter(rawURL string) *WebhookReporter {
	return &WebhookReporter{
		url:    rawURL,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Submit posts the result. The collector returns an opaque response, so
// anything other than a transport failure counts as delivered.
func (w *WebhookReporter) Submit(ctx context.Context, result Result) {
	if strings.TrimSpace(w.url) == "" {
		w.warn("Results collector is not configured. Result was not saved.")
		return
	}

	form := url.Values{}
	form.Set("timestamp", result.Timestamp.Format("1/2/2006, 3:04:05 PM"))
	form.Set("name", result.User.Name)
	form.Set("nativeLanguage", result.User.NativeLanguage)
	form.Set("phone", result.User.Phone)
	form.Set("score", strconv.Itoa(result.Score))
	form.Set("total", strconv.Itoa(result.Total))
	form.Set("percentage", result.Percentage())

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url,
		strings.NewReader(form.Encode()))
	if err != nil {
		w.warn(fmt.Sprintf("Could not build result submission: %v", err))
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := w.client.Do(req)
	if err != nil {
		w.warn(fmt.Sprintf("Could not save your result: %v", err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		w.warn(fmt.Sprintf("Results collector rejected the submission (HTTP %d).", resp.StatusCode))
	}
}

func (w *WebhookReporter) warn(msg string) {
	if w.Warn != nil {
		w.Warn(msg)
	}
}

// NopReporter discards results. Used when reporting is disabled.
type NopReporter struct{}

func (NopReporter) Submit(context.Context, Result) {}
