// internal/wizard/wizard.go
package wizard

import (
	"context"
	"sync"

	apperrors "bizpilot-core/internal/common/errors"
	"bizpilot-core/internal/common/logger"
	"bizpilot-core/internal/idea"
)

// Step enumerates the ordered screens of the idea-creation wizard.
type Step int

const (
	StepBasics Step = iota
	StepDetails
	StepMarket
	StepReview
)

const stepCount = 4

// Label returns the title shown for a step.
func (s Step) Label() string {
	switch s {
	case StepBasics:
		return "Basic Information"
	case StepDetails:
		return "Detailed Description"
	case StepMarket:
		return "Market & Competition"
	case StepReview:
		return "Review & Generate"
	}
	return ""
}

// Description returns the subtitle shown for a step.
func (s Step) Description() string {
	switch s {
	case StepBasics:
		return "Tell us about your business idea"
	case StepDetails:
		return "Provide more context and specifics"
	case StepMarket:
		return "Define your target market and competition"
	case StepReview:
		return "Review your idea and generate business models"
	}
	return ""
}

// Submitter runs the analysis request pipeline on the final step.
type Submitter interface {
	Submit(ctx context.Context, form *idea.WizardForm) (*idea.StoredIdea, error)
}

// Machine holds in-progress form data across the ordered steps. All
// transitions except the final submit are pure pointer moves; there is no
// validation gate, downstream fields may stay empty. The submitting flag
// serializes submissions from one instance.
type Machine struct {
	mu sync.Mutex

	step       Step
	submitting bool
	form       idea.WizardForm
	createdID  string
	lastErr    error

	submitter Submitter
	logger    logger.Logger
}

func NewMachine(submitter Submitter, log logger.Logger) *Machine {
	return &Machine{
		submitter: submitter,
		logger:    log.WithFields(map[string]interface{}{"component": "wizard"}),
	}
}

// Step returns the current step pointer.
func (m *Machine) Step() Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.step
}

// Submitting reports whether the final submission is in flight.
func (m *Machine) Submitting() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitting
}

// Form gives the caller mutable access to the draft. The draft is owned by
// this instance only and is never persisted between sessions.
func (m *Machine) Form() *idea.WizardForm {
	return &m.form
}

// Err returns the error surfaced by the last failed submission.
func (m *Machine) Err() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// CreatedID returns the id of the stored record after a successful
// submission; views navigate to its detail view.
func (m *Machine) CreatedID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createdID
}

// Progress returns wizard completion as a 0-100 percentage.
func (m *Machine) Progress() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.step+1) / float64(stepCount) * 100
}

// Prev moves one step back. It is a no-op on the first step and while a
// submission is in flight.
func (m *Machine) Prev() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.submitting || m.step == 0 {
		return
	}
	m.step--
}

// Next advances the pointer, or on the last step triggers the submit
// pipeline. On success the created record id is exposed and the draft is
// cleared; on failure the pointer stays on the last step so the user can
// retry without re-entering data.
func (m *Machine) Next(ctx context.Context) error {
	m.mu.Lock()
	if m.submitting {
		m.mu.Unlock()
		return nil
	}
	if m.step < stepCount-1 {
		m.step++
		m.mu.Unlock()
		return nil
	}
	m.submitting = true
	m.lastErr = nil
	form := m.form
	m.mu.Unlock()

	stored, err := m.submitter.Submit(ctx, &form)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.submitting = false
	if err != nil {
		m.lastErr = err
		m.logger.Warn("idea submission failed", map[string]interface{}{
			"step":  int(m.step),
			"error": apperrors.UserMessage(err),
		})
		return err
	}

	m.createdID = stored.ID
	m.form = idea.WizardForm{}
	m.step = StepBasics
	m.logger.Info("idea submission succeeded", map[string]interface{}{"id": stored.ID})
	return nil
}
