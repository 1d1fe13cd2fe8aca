package orchestrators

import (
	"context"
	"log/slog"

	"switchboard/internal/domain/directory"
)

// SweepStore defines the store interface needed by the corruption sweep.
type SweepStore interface {
	OrganizationIDs(ctx context.Context) ([]string, error)
	DeleteOrganizationList(ctx context.Context, organizationID string) error
}

// SweepInvalidKeysDeps holds dependencies for ExecuteSweepInvalidKeys.
type SweepInvalidKeysDeps struct {
	Store SweepStore
}

// ExecuteSweepInvalidKeys deletes organization table entries keyed by an
// invalid sentinel id. Earlier host revisions persisted entries under the
// literal strings "undefined" and "null"; the sweep removes them and
// touches nothing else. Run at startup and on demand.
// POST: Only validly keyed entries remain; returns how many were removed
func ExecuteSweepInvalidKeys(ctx context.Context, deps SweepInvalidKeysDeps) (int, error) {
	ids, err := deps.Store.OrganizationIDs(ctx)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if directory.IsValidOrganizationID(id) {
			continue
		}
		if err := deps.Store.DeleteOrganizationList(ctx, id); err != nil {
			return removed, err
		}
		removed++
		slog.Warn("sandbox_event", "event", "invalid_key_swept", "organization_id", id)
	}

	if removed > 0 {
		slog.Info("sandbox_event", "event", "sweep_complete", "removed", removed)
	}
	return removed, nil
}
