package prompt

import (
	"context"
	"fmt"
	"sync"
)

// Answer is one scripted prompt response.
type Answer struct {
	Text      string
	Index     int
	Cancelled bool
	Err       error
}

// Cancel is a scripted cancellation.
var Cancel = Answer{Cancelled: true}

// Text returns a scripted text answer.
func Text(s string) Answer { return Answer{Text: s} }

// Choice returns a scripted selection answer.
func Choice(i int) Answer { return Answer{Index: i} }

// Call records a prompt shown by Scripted.
type Call struct {
	Method      string
	Label       string
	Placeholder string
	Options     []string
}

// Scripted is a Prompter test double that replays answers in order and
// records every prompt.
type Scripted struct {
	mu      sync.Mutex
	answers []Answer
	Calls   []Call
	Errors  []string
}

// NewScripted returns a Scripted prompter with the given answers.
func NewScripted(answers ...Answer) *Scripted {
	return &Scripted{answers: answers}
}

func (s *Scripted) next(call Call) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, call)
	if len(s.answers) == 0 {
		return Answer{}, fmt.Errorf("unexpected %s prompt %q", call.Method, call.Label)
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

func (s *Scripted) text(method, label, placeholder string) (string, bool, error) {
	a, err := s.next(Call{Method: method, Label: label, Placeholder: placeholder})
	if err != nil {
		return "", false, err
	}
	if a.Err != nil {
		return "", false, a.Err
	}
	if a.Cancelled {
		return "", false, nil
	}
	return a.Text, true, nil
}

// Input implements Prompter.
func (s *Scripted) Input(_ context.Context, label, placeholder string) (string, bool, error) {
	return s.text("input", label, placeholder)
}

// InputMultiline implements Prompter.
func (s *Scripted) InputMultiline(_ context.Context, label, placeholder string) (string, bool, error) {
	return s.text("multiline", label, placeholder)
}

// Password implements Prompter.
func (s *Scripted) Password(_ context.Context, label, placeholder string) (string, bool, error) {
	return s.text("password", label, placeholder)
}

// Select implements Prompter.
func (s *Scripted) Select(_ context.Context, label string, options []string) (int, bool, error) {
	a, err := s.next(Call{Method: "select", Label: label, Options: append([]string(nil), options...)})
	if err != nil {
		return 0, false, err
	}
	if a.Err != nil {
		return 0, false, a.Err
	}
	if a.Cancelled {
		return 0, false, nil
	}
	if a.Index < 0 || a.Index >= len(options) {
		return 0, false, fmt.Errorf("scripted index %d out of range", a.Index)
	}
	return a.Index, true, nil
}

// Error implements Prompter.
func (s *Scripted) Error(_ context.Context, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Errors = append(s.Errors, message)
	return nil
}

// Remaining returns the number of unused answers.
func (s *Scripted) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.answers)
}

// Notification records a notification sent to RecordingDesktop.
type Notification struct {
	Summary    string
	Body       string
	Actionable bool
}

// RecordingDesktop is a Desktop test double.
type RecordingDesktop struct {
	mu sync.Mutex
	// Activate is returned from actionable notifications.
	Activate      bool
	Notifications []Notification
	Opened        []string
}

// Notify implements Desktop.
func (d *RecordingDesktop) Notify(_ context.Context, summary, body string, actionable bool) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Notifications = append(d.Notifications, Notification{Summary: summary, Body: body, Actionable: actionable})
	return actionable && d.Activate
}

// OpenURL implements Desktop.
func (d *RecordingDesktop) OpenURL(_ context.Context, url string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Opened = append(d.Opened, url)
}
