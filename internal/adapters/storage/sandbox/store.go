package sandbox

import (
	"context"
	"errors"

	domain "switchboard/internal/domain/sandbox"
)

// Persisted storage keys. These match the host page's original key-value
// entries byte for byte, so an existing blob is readable as-is.
const (
	KeyAccountSandboxes      = "accountSandboxes"
	KeyOrganizationSandboxes = "organizationSandboxes"
)

// ErrCorruptTable reports a persisted table blob that no longer decodes.
// Callers recover by regenerating the affected entry; nothing is fatal.
var ErrCorruptTable = errors.New("persisted sandbox table is corrupt")

// Store persists the two sandbox tables. List reads return owned copies;
// every mutation goes through an explicit Save or Delete call.
type Store interface {
	// AccountList returns the sandbox list for accountName and whether an
	// entry exists.
	AccountList(ctx context.Context, accountName string) ([]domain.Record, bool, error)
	// SaveAccountList stores records as accountName's list.
	SaveAccountList(ctx context.Context, accountName string, records []domain.Record) error
	// DeleteAccountList removes accountName's entry entirely.
	DeleteAccountList(ctx context.Context, accountName string) error

	// OrganizationList returns the sandbox list for organizationID and
	// whether an entry exists.
	OrganizationList(ctx context.Context, organizationID string) ([]domain.Record, bool, error)
	// SaveOrganizationList stores records as organizationID's list.
	SaveOrganizationList(ctx context.Context, organizationID string, records []domain.Record) error
	// DeleteOrganizationList removes organizationID's entry entirely.
	DeleteOrganizationList(ctx context.Context, organizationID string) error
	// OrganizationIDs returns every key present in the organization table.
	OrganizationIDs(ctx context.Context) ([]string, error)
}
