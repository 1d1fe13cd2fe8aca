package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"switchboard/internal/domain/directory"
	"switchboard/internal/domain/sandbox"
)

// CreateSandboxDeps holds dependencies for the create orchestrators.
type CreateSandboxDeps struct {
	Store      SandboxTableStore
	Directory  DirectoryProvider
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteCreateAccountSandbox appends a new sandbox to the account's list.
// The display name is composed "<account> - <raw>"; duplicate names are
// legal and not checked here.
// PRE: accountName designates the current account
// POST: The record is persisted at the end of the account's list
func ExecuteCreateAccountSandbox(ctx context.Context, accountName, rawName string, deps CreateSandboxDeps) (sandbox.Record, error) {
	if accountName == "" {
		slog.Error("sandbox_event", "event", "create_refused", "reason", "no current account")
		return sandbox.Record{}, sandbox.ErrNoCurrentAccount
	}

	records, err := ExecuteEnsureAccountSandboxes(ctx, accountName, EnsureAccountSandboxesDeps{
		Store: deps.Store,
		Now:   deps.Now,
	})
	if err != nil {
		return sandbox.Record{}, err
	}

	record := sandbox.Record{
		ID:           deps.GenerateID(),
		Name:         fmt.Sprintf("%s - %s", accountName, rawName),
		Kind:         sandbox.KindAccount,
		CreatedAt:    deps.Now(),
		OwnerAccount: accountName,
	}
	if err := record.Validate(); err != nil {
		return sandbox.Record{}, err
	}

	records = append(records, record)
	if err := deps.Store.SaveAccountList(ctx, accountName, records); err != nil {
		return sandbox.Record{}, err
	}

	slog.Info("sandbox_event", "event", "sandbox_created", "kind", record.Kind, "account", accountName, "name", record.Name)
	return record, nil
}

// ExecuteCreateOrganizationSandbox appends a new sandbox to the
// organization's list, snapshotting the current member roster.
// PRE: organizationID is a valid organization id; an account without an
// organization cannot create one
// POST: The record is persisted at the end of the organization's list
func ExecuteCreateOrganizationSandbox(ctx context.Context, organizationID, rawName string, deps CreateSandboxDeps) (sandbox.Record, error) {
	if !directory.IsValidOrganizationID(organizationID) {
		slog.Error("sandbox_event", "event", "create_refused", "reason", "account has no organization", "organization_id", organizationID)
		return sandbox.Record{}, sandbox.ErrNotOrganizationMember
	}

	records, err := ExecuteEnsureOrganizationSandboxes(ctx, organizationID, EnsureOrganizationSandboxesDeps{
		Store:     deps.Store,
		Directory: deps.Directory,
		Now:       deps.Now,
	})
	if err != nil {
		return sandbox.Record{}, err
	}

	orgName := organizationID
	var members []directory.MemberAccount
	if org, err := deps.Directory.Lookup(organizationID); err == nil {
		orgName = org.Name
		members = org.Members
	}

	record := sandbox.Record{
		ID:             deps.GenerateID(),
		Name:           fmt.Sprintf("%s - %s", orgName, rawName),
		Kind:           sandbox.KindOrganization,
		CreatedAt:      deps.Now(),
		OrganizationID: organizationID,
		MemberAccounts: members,
	}
	if err := record.Validate(); err != nil {
		return sandbox.Record{}, err
	}

	records = append(records, record)
	if err := deps.Store.SaveOrganizationList(ctx, organizationID, records); err != nil {
		return sandbox.Record{}, err
	}

	slog.Info("sandbox_event", "event", "sandbox_created", "kind", record.Kind, "organization_id", organizationID, "name", record.Name)
	return record, nil
}
