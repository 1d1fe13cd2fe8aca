package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"switchboard/internal/domain/sandbox"
)

// ErrSandboxNotFound reports an enter attempt on a record that is no
// longer present in its owning table.
var ErrSandboxNotFound = errors.New("sandbox is not in its owning table")

// EnterSandboxHook is the opaque callback the host page registers for
// sandbox-mode entry. The organization id is empty for account sandboxes
// and the account name empty for organization sandboxes; the return side
// is not interpreted.
type EnterSandboxHook func(name, kind, organizationID, accountName string)

// EnterSandboxDeps holds dependencies for ExecuteEnterSandbox.
type EnterSandboxDeps struct {
	Store          SandboxTableStore
	OnEnterSandbox EnterSandboxHook
	Now            func() time.Time
}

// ExecuteEnterSandbox stamps the record's last-used time, rewrites it in
// its owning table, and invokes the entry hook exactly once.
// PRE: record belongs to a persisted table entry
// POST: LastUsedAt is persisted; the hook observed (name, kind, org, account)
func ExecuteEnterSandbox(ctx context.Context, record sandbox.Record, deps EnterSandboxDeps) (sandbox.Record, error) {
	record.MarkUsed(deps.Now())

	var err error
	switch record.Kind {
	case sandbox.KindOrganization:
		err = rewriteRecord(record,
			func() ([]sandbox.Record, bool, error) {
				return deps.Store.OrganizationList(ctx, record.OrganizationID)
			},
			func(records []sandbox.Record) error {
				return deps.Store.SaveOrganizationList(ctx, record.OrganizationID, records)
			},
		)
	default:
		err = rewriteRecord(record,
			func() ([]sandbox.Record, bool, error) {
				return deps.Store.AccountList(ctx, record.OwnerAccount)
			},
			func(records []sandbox.Record) error {
				return deps.Store.SaveAccountList(ctx, record.OwnerAccount, records)
			},
		)
	}
	if err != nil {
		return sandbox.Record{}, err
	}

	if deps.OnEnterSandbox != nil {
		deps.OnEnterSandbox(record.Name, record.Kind, record.OrganizationID, record.OwnerAccount)
	}

	slog.Info("sandbox_event", "event", "sandbox_entered", "kind", record.Kind, "name", record.Name,
		"organization_id", record.OrganizationID, "account", record.OwnerAccount)
	return record, nil
}

// rewriteRecord overwrites the stored copy of record inside its list.
// Records persisted before ids existed are matched by name.
func rewriteRecord(record sandbox.Record, load func() ([]sandbox.Record, bool, error), save func([]sandbox.Record) error) error {
	records, ok, err := load()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSandboxNotFound
	}

	idx := -1
	for i, r := range records {
		if record.ID != "" && r.ID == record.ID {
			idx = i
			break
		}
		if idx == -1 && r.Name == record.Name {
			idx = i
			if record.ID == "" {
				break
			}
		}
	}
	if idx == -1 {
		return ErrSandboxNotFound
	}

	records[idx] = record
	return save(records)
}
