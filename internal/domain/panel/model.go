// Package panel tracks which navigation panel is expanded. At most one
// panel is open at a time; opening the account panel over a nav panel
// suspends the nav panel and restores it when the account panel closes.
package panel

// Sink receives open/close side effects. The host's DOM layer implements
// it by toggling the expansion CSS marker and the aria-expanded attribute
// on the panel element; this state machine never touches elements itself.
type Sink interface {
	SetExpanded(id string, expanded bool)
}

// NoopSink discards all side effects. Useful for headless callers.
type NoopSink struct{}

// SetExpanded implements Sink.
func (NoopSink) SetExpanded(string, bool) {}

// Controller is the panel state machine: Closed, or OneOpen(id), with one
// suspended slot for the nav panel displaced by the account panel.
type Controller struct {
	sink           Sink
	accountPanelID string
	open           string
	suspended      string
}

// NewController creates a Controller.
// PRE: sink is non-nil; accountPanelID names the designated account panel
// POST: Controller starts in the Closed state
func NewController(sink Sink, accountPanelID string) *Controller {
	return &Controller{sink: sink, accountPanelID: accountPanelID}
}

// OpenPanelID returns the currently open panel id, or "" when closed.
// INVARIANT: Controller state is not mutated
func (c *Controller) OpenPanelID() string {
	return c.open
}

// SuspendedPanelID returns the nav panel held behind the account panel,
// or "" when nothing is suspended.
// INVARIANT: Controller state is not mutated
func (c *Controller) SuspendedPanelID() string {
	return c.suspended
}

// Toggle opens id if it is closed and closes it if it is open.
// PRE: id is non-empty
// POST: at most one panel is open; closing the account panel restores a
// suspended nav panel; opening the account panel over a nav panel
// suspends that nav panel instead of discarding it
func (c *Controller) Toggle(id string) {
	if id == "" {
		return
	}

	if c.open == id {
		c.close(id)
		c.open = ""
		if id == c.accountPanelID && c.suspended != "" {
			restored := c.suspended
			c.suspended = ""
			c.openPanel(restored)
		}
		return
	}

	if c.open != "" {
		if id == c.accountPanelID {
			c.suspended = c.open
			c.close(c.open)
		} else {
			c.close(c.open)
			c.suspended = ""
		}
		c.open = ""
	}

	c.openPanel(id)
}

// CloseAll forces the Closed state and clears any suspension.
// POST: no panel is open, nothing is suspended
func (c *Controller) CloseAll() {
	if c.open != "" {
		c.close(c.open)
	}
	c.open = ""
	c.suspended = ""
}

func (c *Controller) openPanel(id string) {
	c.open = id
	c.sink.SetExpanded(id, true)
}

func (c *Controller) close(id string) {
	c.sink.SetExpanded(id, false)
}
