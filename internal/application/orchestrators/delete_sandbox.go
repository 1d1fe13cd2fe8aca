package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"switchboard/internal/domain/directory"
	"switchboard/internal/domain/sandbox"
)

// DeleteSandboxDeps holds dependencies for the delete orchestrators.
type DeleteSandboxDeps struct {
	Store     SandboxTableStore
	Directory DirectoryProvider
	Now       func() time.Time
}

// ExecuteDeleteAccountSandbox removes every record in the account's list
// whose name matches sandboxName exactly. Names are not unique, so a
// duplicated name deletes all of its records together.
// PRE: accountName designates the current account
// POST: No record named sandboxName remains; zero matches is a silent no-op
func ExecuteDeleteAccountSandbox(ctx context.Context, accountName, sandboxName string, deps DeleteSandboxDeps) error {
	if accountName == "" {
		slog.Error("sandbox_event", "event", "delete_refused", "reason", "no current account")
		return sandbox.ErrNoCurrentAccount
	}

	records, err := ExecuteEnsureAccountSandboxes(ctx, accountName, EnsureAccountSandboxesDeps{
		Store: deps.Store,
		Now:   deps.Now,
	})
	if err != nil {
		return err
	}

	kept, removed := filterByName(records, sandboxName)
	if removed == 0 {
		return nil
	}
	if err := deps.Store.SaveAccountList(ctx, accountName, kept); err != nil {
		return err
	}

	slog.Info("sandbox_event", "event", "sandbox_deleted", "scope", "account", "account", accountName, "name", sandboxName, "removed", removed)
	return nil
}

// ExecuteDeleteOrganizationSandbox removes every matching record from the
// organization's list. An invalid organization id is a logged no-op.
// POST: No record named sandboxName remains in the organization's list
func ExecuteDeleteOrganizationSandbox(ctx context.Context, organizationID, sandboxName string, deps DeleteSandboxDeps) error {
	if !directory.IsValidOrganizationID(organizationID) {
		slog.Warn("sandbox_event", "event", "delete_refused", "reason", "invalid organization id", "organization_id", organizationID)
		return nil
	}

	records, err := ExecuteEnsureOrganizationSandboxes(ctx, organizationID, EnsureOrganizationSandboxesDeps{
		Store:     deps.Store,
		Directory: deps.Directory,
		Now:       deps.Now,
	})
	if err != nil {
		return err
	}

	kept, removed := filterByName(records, sandboxName)
	if removed == 0 {
		return nil
	}
	if err := deps.Store.SaveOrganizationList(ctx, organizationID, kept); err != nil {
		return err
	}

	slog.Info("sandbox_event", "event", "sandbox_deleted", "scope", "organization", "organization_id", organizationID, "name", sandboxName, "removed", removed)
	return nil
}

// filterByName drops every record named name, returning the survivors and
// how many were removed.
func filterByName(records []sandbox.Record, name string) ([]sandbox.Record, int) {
	kept := make([]sandbox.Record, 0, len(records))
	removed := 0
	for _, r := range records {
		if r.Name == name {
			removed++
			continue
		}
		kept = append(kept, r)
	}
	return kept, removed
}
