// Package suggest implements the debounced, confidence-gated
// auto-categorization flow for a single transaction draft.
//
// The controller is a pure state machine: input events return commands
// (start a timer, issue a request) that the host event loop executes. Every
// debounce cycle carries a sequence number; timers and responses from an
// older cycle are discarded, which is the only staleness reconciliation.
package suggest

import (
	"strings"
	"time"

	"github.com/finbrains/finbrains/internal/model"
)

// State is the controller's position in the suggestion flow.
type State int

// Controller states.
const (
	StateIdle State = iota
	StatePending
	StateApplied
	StateRejected
	StateExpired
)

// String returns the state's display name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateApplied:
		return "applied"
	case StateRejected:
		return "rejected"
	case StateExpired:
		return "expired"
	default:
		return "idle"
	}
}

// Defaults for the suggestion flow.
const (
	DefaultMinDescriptionLen = 3
	DefaultDebounce          = 350 * time.Millisecond
	DefaultConfidenceGate    = 0.5
)

// Config tunes the controller. Zero values fall back to the defaults.
type Config struct {
	MinDescriptionLen int
	Debounce          time.Duration
	ConfidenceGate    float64
}

func (c Config) withDefaults() Config {
	if c.MinDescriptionLen <= 0 {
		c.MinDescriptionLen = DefaultMinDescriptionLen
	}
	if c.Debounce <= 0 {
		c.Debounce = DefaultDebounce
	}
	if c.ConfidenceGate <= 0 {
		c.ConfidenceGate = DefaultConfidenceGate
	}
	return c
}

// Request is the payload for one inference call.
type Request struct {
	Description string                   `json:"description"`
	Amount      float64                  `json:"amount"`
	Categories  []model.CategoryKeywords `json:"categories"`
}

// Suggestion is the inference service's answer.
type Suggestion struct {
	Name       string  `json:"predictedCategory"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Command instructs the host event loop to perform a side effect.
type Command interface{ isCommand() }

// StartTimer asks the host to deliver TimerFired(Seq) after the delay,
// replacing any earlier timer.
type StartTimer struct {
	Seq   int
	After time.Duration
}

// IssueRequest asks the host to send one inference request and deliver the
// result via HandleResult with the same Seq.
type IssueRequest struct {
	Seq     int
	Request Request
}

func (StartTimer) isCommand()   {}
func (IssueRequest) isCommand() {}

// Outcome describes how a response was handled.
type Outcome int

// Response outcomes.
const (
	// OutcomeDiscarded means the response was stale or errored; nothing changed.
	OutcomeDiscarded Outcome = iota
	// OutcomeApplied means the category was auto-filled into the draft.
	OutcomeApplied
	// OutcomeRejected means the suggestion is shown but not auto-applied.
	OutcomeRejected
)

// Controller drives the suggestion flow for one draft. It is not safe for
// concurrent use; all mutation happens on the host's single event loop.
type Controller struct {
	cfg        Config
	categories []model.Category
	keywords   []model.CategoryKeywords
	suggestion *Suggestion
	state      State
	seq        int
	touched    bool

	// last qualifying input, captured for the debounce fire
	description string
	amount      float64
}

// NewController creates a controller for a fresh draft.
func NewController(cfg Config) *Controller {
	return &Controller{cfg: cfg.withDefaults()}
}

// SetCategories provides the known categories (for resolving a suggested
// name to an ID) and the keyword lists forwarded to the inference service.
func (c *Controller) SetCategories(categories []model.Category, keywords []model.CategoryKeywords) {
	c.categories = categories
	c.keywords = keywords
}

// State returns the current flow state.
func (c *Controller) State() State { return c.state }

// Suggestion returns the suggestion to display, if any.
func (c *Controller) Suggestion() *Suggestion { return c.suggestion }

// Touched reports whether the manual-category lock is set.
func (c *Controller) Touched() bool { return c.touched }

// Touch records that the user picked a category manually. Auto-fill never
// overrides a touched draft; suggestions remain informational.
func (c *Controller) Touch() { c.touched = true }

// Input feeds a description/amount/kind change from the form. A qualifying
// change (re)arms the debounce timer; a disqualifying one returns the
// controller to Idle and invalidates any pending timer or in-flight request.
func (c *Controller) Input(description string, amount float64, kind model.TransactionKind) []Command {
	desc := strings.TrimSpace(description)
	if kind != model.KindExpense || len(desc) < c.cfg.MinDescriptionLen {
		c.seq++
		c.state = StateIdle
		c.suggestion = nil
		return nil
	}

	c.seq++
	c.state = StatePending
	c.suggestion = nil
	c.description = desc
	c.amount = amount
	return []Command{StartTimer{Seq: c.seq, After: c.cfg.Debounce}}
}

// TimerFired handles a debounce timer expiry. Only the timer of the current
// cycle triggers a request; rearmed cycles silently absorb older timers.
func (c *Controller) TimerFired(seq int) []Command {
	if seq != c.seq || c.state != StatePending {
		return nil
	}
	return []Command{IssueRequest{Seq: seq, Request: Request{
		Description: c.description,
		Amount:      c.amount,
		Categories:  c.requestCategories(),
	}}}
}

// HandleResult consumes an inference response. Stale responses (older cycle,
// or a torn-down draft) are discarded unconditionally; errors are swallowed
// and return the controller to Idle.
func (c *Controller) HandleResult(seq int, s Suggestion, err error) Outcome {
	if seq != c.seq {
		// The draft context moved on. A quiet flow records the expiry; an
		// active newer cycle ignores the stale result entirely.
		if c.state == StateIdle {
			c.state = StateExpired
		}
		return OutcomeDiscarded
	}
	if c.state != StatePending {
		return OutcomeDiscarded
	}
	if err != nil {
		c.state = StateIdle
		return OutcomeDiscarded
	}

	c.suggestion = &s
	if s.Confidence >= c.cfg.ConfidenceGate && c.resolve(s.Name) != nil && !c.touched {
		c.state = StateApplied
		return OutcomeApplied
	}
	c.state = StateRejected
	return OutcomeRejected
}

// AppliedCategoryID returns the category ID to write into the draft after an
// OutcomeApplied, or after an explicit user apply action. It resolves the
// current suggestion's name; an unresolvable name yields "".
func (c *Controller) AppliedCategoryID() string {
	if c.suggestion == nil {
		return ""
	}
	if cat := c.resolve(c.suggestion.Name); cat != nil {
		return cat.ID
	}
	return ""
}

// Reset tears the draft context down (modal closed or saved). Any pending
// timer and any in-flight request for this draft are invalidated.
func (c *Controller) Reset() {
	c.seq++
	c.state = StateIdle
	c.suggestion = nil
	c.touched = false
	c.description = ""
	c.amount = 0
}

// requestCategories builds the keyword payload, excluding the protected
// income category.
func (c *Controller) requestCategories() []model.CategoryKeywords {
	out := make([]model.CategoryKeywords, 0, len(c.keywords))
	for _, kw := range c.keywords {
		if strings.EqualFold(kw.Name, model.ProtectedCategoryName) {
			continue
		}
		keywords := kw.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		out = append(out, model.CategoryKeywords{Name: kw.Name, Keywords: keywords})
	}
	return out
}

func (c *Controller) resolve(name string) *model.Category {
	for i := range c.categories {
		if c.categories[i].Name == name {
			return &c.categories[i]
		}
	}
	return nil
}
