package panel

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"controlledlists/internal/application"
)

// FeedbackTTL is how long a success message stays visible
const FeedbackTTL = 5 * time.Second

// FeedbackKind distinguishes success from error messages
type FeedbackKind int

const (
	FeedbackSuccess FeedbackKind = iota
	FeedbackError
)

// Feedback is the user-visible outcome of the last operation
type Feedback struct {
	Kind    FeedbackKind
	Message string
	At      time.Time
}

// IsError reports whether the feedback describes a failure
func (f Feedback) IsError() bool {
	return f.Kind == FeedbackError
}

// Feedback returns the current message, or nil once a success message expired.
// Error messages stay until replaced or dismissed.
func (c *Controller) Feedback() *Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.feedback == nil {
		return nil
	}
	if c.feedback.Kind == FeedbackSuccess && c.now().Sub(c.feedback.At) >= FeedbackTTL {
		c.feedback = nil
		return nil
	}
	f := *c.feedback
	return &f
}

// DismissFeedback clears the current message
func (c *Controller) DismissFeedback() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feedback = nil
}

func (c *Controller) succeed(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.feedback = &Feedback{Kind: FeedbackSuccess, Message: msg, At: c.now()}
}

// fail turns err into error feedback. Validation errors are expected and only
// logged at debug.
func (c *Controller) fail(err error) {
	if err == nil {
		return
	}

	var remote *application.RemoteError
	switch {
	case application.IsValidation(err):
		c.log.WithError(err).Debug("validation failed")
	case errors.As(err, &remote):
		c.log.WithFields(logrus.Fields{"op": remote.Op, "path": remote.Path}).WithError(remote.Err).Warn("remote call failed")
	default:
		c.log.WithError(err).Warn("operation failed")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.feedback = &Feedback{Kind: FeedbackError, Message: err.Error(), At: c.now()}
}
