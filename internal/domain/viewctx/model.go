// Package viewctx carries the account-switcher state for one render.
// The host page builds a fresh Context per render from its own signals;
// nothing here is read from ambient state or persisted.
package viewctx

import "strings"

// SandboxSuffix is appended to account names by the switcher widget while
// a sandbox session is active.
const SandboxSuffix = " (sandbox)"

// Context is the explicit view state for one sandbox-catalog render.
type Context struct {
	// CurrentAccountName is the account selected in the switcher.
	CurrentAccountName string
	// CurrentOrganizationID is the selected account's organization, or ""
	// for a standalone account.
	CurrentOrganizationID string
	// ViewingAllAccounts is true when the aggregate all-accounts view is
	// selected rather than one sub-account.
	ViewingAllAccounts bool
	// InSandboxMode is true while a sandbox session is active.
	InSandboxMode bool
	// OriginalAccountName and OriginalOrganizationID capture the context
	// at the moment sandbox mode was entered. The catalog stays pinned to
	// them for as long as InSandboxMode holds.
	OriginalAccountName    string
	OriginalOrganizationID string
}

// SwitcherAccountName returns the sub-account name currently selected in
// the switcher, with the sandbox suffix stripped when present.
// INVARIANT: Context fields are not mutated
func (c Context) SwitcherAccountName() string {
	return strings.TrimSuffix(c.CurrentAccountName, SandboxSuffix)
}

// PinnedToOriginal reports whether rendering must use the entry-time
// context instead of the current switcher selection.
func (c Context) PinnedToOriginal() bool {
	return c.InSandboxMode && c.OriginalAccountName != ""
}
