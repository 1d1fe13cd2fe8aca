package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sandboxStore "switchboard/internal/adapters/storage/sandbox"
	"switchboard/internal/domain/directory"
	"switchboard/internal/domain/sandbox"
)

// SandboxTableStore defines the store interface needed by the sandbox
// orchestrators.
type SandboxTableStore interface {
	AccountList(ctx context.Context, accountName string) ([]sandbox.Record, bool, error)
	SaveAccountList(ctx context.Context, accountName string, records []sandbox.Record) error
	OrganizationList(ctx context.Context, organizationID string) ([]sandbox.Record, bool, error)
	SaveOrganizationList(ctx context.Context, organizationID string, records []sandbox.Record) error
}

// DirectoryProvider resolves organization rosters for default synthesis.
type DirectoryProvider interface {
	Lookup(id string) (directory.Organization, error)
}

// EnsureAccountSandboxesDeps holds dependencies for the account ensure path.
type EnsureAccountSandboxesDeps struct {
	Store SandboxTableStore
	Now   func() time.Time
}

// ExecuteEnsureAccountSandboxes returns the account's sandbox list,
// synthesizing and persisting the default catalog on first access.
// PRE: accountName identifies the account whose catalog is wanted
// POST: An entry exists for accountName; the returned list is an owned copy
func ExecuteEnsureAccountSandboxes(ctx context.Context, accountName string, deps EnsureAccountSandboxesDeps) ([]sandbox.Record, error) {
	if accountName == "" {
		slog.Warn("sandbox_event", "event", "ensure_refused", "reason", "empty account name")
		return nil, sandbox.ErrEmptyAccountName
	}

	records, ok, err := deps.Store.AccountList(ctx, accountName)
	if errors.Is(err, sandboxStore.ErrCorruptTable) {
		// Destructive upgrade: a blob that no longer decodes is discarded
		// and the account's catalog regenerated.
		slog.Warn("sandbox_event", "event", "table_corrupt", "scope", "account", "error", err.Error())
		ok = false
	} else if err != nil {
		return nil, err
	}
	if ok {
		return records, nil
	}

	catalog := sandbox.DefaultAccountCatalog(accountName, deps.Now())
	if err := deps.Store.SaveAccountList(ctx, accountName, catalog); err != nil {
		return nil, err
	}
	slog.Info("sandbox_event", "event", "defaults_synthesized", "scope", "account", "account", accountName, "count", len(catalog))
	return catalog, nil
}

// EnsureOrganizationSandboxesDeps holds dependencies for the organization
// ensure path.
type EnsureOrganizationSandboxesDeps struct {
	Store     SandboxTableStore
	Directory DirectoryProvider
	Now       func() time.Time
}

// ExecuteEnsureOrganizationSandboxes returns the organization's sandbox
// list, synthesizing defaults with a member roster snapshot on first
// access. An empty or sentinel organization id yields an empty list and
// writes nothing: invalid ids have leaked in from the host page before,
// and must never mint a table entry.
// POST: Sentinel ids leave the organization table untouched
func ExecuteEnsureOrganizationSandboxes(ctx context.Context, organizationID string, deps EnsureOrganizationSandboxesDeps) ([]sandbox.Record, error) {
	if !directory.IsValidOrganizationID(organizationID) {
		slog.Warn("sandbox_event", "event", "ensure_refused", "scope", "organization", "reason", "invalid organization id", "organization_id", organizationID)
		return []sandbox.Record{}, nil
	}

	records, ok, err := deps.Store.OrganizationList(ctx, organizationID)
	if errors.Is(err, sandboxStore.ErrCorruptTable) {
		slog.Warn("sandbox_event", "event", "table_corrupt", "scope", "organization", "error", err.Error())
		ok = false
	} else if err != nil {
		return nil, err
	}
	if ok {
		return records, nil
	}

	org, err := deps.Directory.Lookup(organizationID)
	if err != nil {
		// Not in the directory: synthesize with an empty roster rather
		// than refusing, the organization may simply predate the file.
		org = directory.Organization{ID: organizationID, Name: organizationID}
	}

	catalog := sandbox.DefaultOrganizationCatalog(org, deps.Now())
	if err := deps.Store.SaveOrganizationList(ctx, organizationID, catalog); err != nil {
		return nil, err
	}
	slog.Info("sandbox_event", "event", "defaults_synthesized", "scope", "organization", "organization_id", organizationID, "count", len(catalog))
	return catalog, nil
}
