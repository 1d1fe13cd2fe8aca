package projections

import (
	"context"
	"time"

	"switchboard/internal/application/orchestrators"
	"switchboard/internal/domain/directory"
	"switchboard/internal/domain/sandbox"
	"switchboard/internal/domain/viewctx"
)

// VisibleSandboxesDeps holds dependencies for the visible-sandbox
// resolution. Reads go through the ensure orchestrators so that a first
// render for a new account or organization sees its default catalog.
type VisibleSandboxesDeps struct {
	Store     orchestrators.SandboxTableStore
	Directory orchestrators.DirectoryProvider
	Now       func() time.Time
}

// QueryVisibleSandboxes selects the sandbox catalog the switcher should
// display for ctx. Precedence, each branch terminal:
//
//  1. Inside a sandbox session the catalog is pinned to the account that
//     was active at entry. Switching accounts while inside a sandbox must
//     not change what is displayed.
//  2. An account with an organization shows the organization's catalog in
//     the all-accounts view, or the selected sub-account's catalog when a
//     single sub-account is chosen.
//  3. A standalone account shows its own catalog.
func QueryVisibleSandboxes(ctx context.Context, vctx viewctx.Context, deps VisibleSandboxesDeps) ([]sandbox.Record, error) {
	if vctx.PinnedToOriginal() {
		if directory.IsValidOrganizationID(vctx.OriginalOrganizationID) {
			return ensureOrganization(ctx, vctx.OriginalOrganizationID, deps)
		}
		return ensureAccount(ctx, vctx.OriginalAccountName, deps)
	}

	if directory.IsValidOrganizationID(vctx.CurrentOrganizationID) {
		if vctx.ViewingAllAccounts {
			return ensureOrganization(ctx, vctx.CurrentOrganizationID, deps)
		}
		return ensureAccount(ctx, vctx.SwitcherAccountName(), deps)
	}

	return ensureAccount(ctx, vctx.SwitcherAccountName(), deps)
}

func ensureAccount(ctx context.Context, accountName string, deps VisibleSandboxesDeps) ([]sandbox.Record, error) {
	return orchestrators.ExecuteEnsureAccountSandboxes(ctx, accountName, orchestrators.EnsureAccountSandboxesDeps{
		Store: deps.Store,
		Now:   deps.Now,
	})
}

func ensureOrganization(ctx context.Context, organizationID string, deps VisibleSandboxesDeps) ([]sandbox.Record, error) {
	return orchestrators.ExecuteEnsureOrganizationSandboxes(ctx, organizationID, orchestrators.EnsureOrganizationSandboxesDeps{
		Store:     deps.Store,
		Directory: deps.Directory,
		Now:       deps.Now,
	})
}
