package scoreclient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var (
	// ErrIncomplete is returned by Submit when not every question has an
	// answer yet. No request is sent in that case.
	ErrIncomplete = errors.New("form is incomplete")

	// ErrUnknownQuestion is returned by SetAnswer for a question id that is
	// not part of the loaded form
	ErrUnknownQuestion = errors.New("unknown question")

	// ErrScoreOutOfRange is returned by SetAnswer for a score outside 1..5
	ErrScoreOutOfRange = errors.New("score must be between 1 and 5")
)

// Form holds a loaded rating form and the answers entered so far. It is
// safe for concurrent use. A form becomes terminal after one successful
// Submit; further submits return ErrAlreadySubmitted.
type Form struct {
	client *Client
	token  string
	data   *FormData

	questionIDs map[int64]bool

	mu             sync.Mutex
	answers        map[int64]int
	comments       string
	recaptchaToken string
	submitted      bool
	result         *SubmitResult
}

func newForm(client *Client, token string, data *FormData) *Form {
	ids := make(map[int64]bool, len(data.Questions))
	for _, q := range data.Questions {
		ids[q.ID] = true
	}
	return &Form{
		client:      client,
		token:       token,
		data:        data,
		questionIDs: ids,
		answers:     make(map[int64]int, len(data.Questions)),
	}
}

// Data returns the form payload as loaded from the server
func (f *Form) Data() *FormData {
	return f.data
}

// SetAnswer records a score for a question. The question must belong to
// this form and the score must be in 1..5.
func (f *Form) SetAnswer(questionID int64, score int) error {
	if !f.questionIDs[questionID] {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, questionID)
	}
	if score < 1 || score > 5 {
		return ErrScoreOutOfRange
	}

	f.mu.Lock()
	f.answers[questionID] = score
	f.mu.Unlock()
	return nil
}

// SetComments records optional free-text feedback
func (f *Form) SetComments(comments string) {
	f.mu.Lock()
	f.comments = comments
	f.mu.Unlock()
}

// SetRecaptchaToken attaches a reCAPTCHA response for servers that
// require one on submission
func (f *Form) SetRecaptchaToken(token string) {
	f.mu.Lock()
	f.recaptchaToken = token
	f.mu.Unlock()
}

// Complete reports whether every question has an answer
func (f *Form) Complete() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.answers) == len(f.questionIDs)
}

// Progress returns the answered fraction in [0, 1]. A form with no
// questions reports 0.
func (f *Form) Progress() float64 {
	total := len(f.questionIDs)
	if total == 0 {
		return 0
	}

	f.mu.Lock()
	answered := len(f.answers)
	f.mu.Unlock()

	p := float64(answered) / float64(total)
	if p > 1 {
		p = 1
	}
	return p
}

// Expired reports whether the link's expiry has passed
func (f *Form) Expired() bool {
	return !f.data.ExpiresAt.IsZero() && time.Now().After(f.data.ExpiresAt)
}

// Submit sends the completed form. It refuses to send an expired or
// incomplete form, allows only one in-flight submission, and becomes
// terminal after the first success. A conflict from the server means the
// link was consumed elsewhere and maps to ErrAlreadySubmitted.
func (f *Form) Submit(ctx context.Context) (*SubmitResult, error) {
	if f.Expired() {
		return nil, ErrLinkInvalid
	}

	f.mu.Lock()
	if f.submitted {
		f.mu.Unlock()
		return nil, ErrAlreadySubmitted
	}
	if len(f.answers) != len(f.questionIDs) {
		f.mu.Unlock()
		return nil, ErrIncomplete
	}

	answers := make(map[string]int, len(f.answers))
	for id, score := range f.answers {
		answers[strconv.FormatInt(id, 10)] = score
	}
	// Empty comments are dropped from the request entirely.
	comments := strings.TrimSpace(f.comments)
	recaptchaToken := f.recaptchaToken

	// Hold submitted through the request so a concurrent Submit cannot
	// double-send; cleared again on failure.
	f.submitted = true
	f.mu.Unlock()

	result, err := f.client.submitRating(ctx, f.token, answers, comments, recaptchaToken)
	if err != nil {
		f.mu.Lock()
		if !errors.Is(err, ErrAlreadySubmitted) {
			f.submitted = false
		}
		f.mu.Unlock()
		return nil, err
	}

	f.mu.Lock()
	f.result = result
	f.mu.Unlock()
	return result, nil
}

// Result returns the submission outcome, or nil if not yet submitted
func (f *Form) Result() *SubmitResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}
