package projections

import (
	"context"

	"switchboard/internal/application/orchestrators"
	"switchboard/internal/domain/sandbox"
)

// QueryAccountStats summarizes an account's sandbox catalog: total count,
// how many have ever been entered, and how many were created on today's
// calendar date. First access synthesizes the default catalog, so the
// result reflects what the switcher would show.
func QueryAccountStats(ctx context.Context, accountName string, deps VisibleSandboxesDeps) (sandbox.Stats, error) {
	records, err := orchestrators.ExecuteEnsureAccountSandboxes(ctx, accountName, orchestrators.EnsureAccountSandboxesDeps{
		Store: deps.Store,
		Now:   deps.Now,
	})
	if err != nil {
		return sandbox.Stats{}, err
	}
	return sandbox.ComputeStats(records, deps.Now()), nil
}

// QueryOrganizationStats summarizes an organization's sandbox catalog.
// Invalid organization ids report empty stats.
func QueryOrganizationStats(ctx context.Context, organizationID string, deps VisibleSandboxesDeps) (sandbox.Stats, error) {
	records, err := orchestrators.ExecuteEnsureOrganizationSandboxes(ctx, organizationID, orchestrators.EnsureOrganizationSandboxesDeps{
		Store:     deps.Store,
		Directory: deps.Directory,
		Now:       deps.Now,
	})
	if err != nil {
		return sandbox.Stats{}, err
	}
	return sandbox.ComputeStats(records, deps.Now()), nil
}
