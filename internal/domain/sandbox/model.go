package sandbox

import (
	"errors"
	"time"

	"switchboard/internal/domain/directory"
)

// Sandbox kind constants
const (
	KindAccount      = "account"
	KindOrganization = "organization"
)

// Domain errors
var (
	ErrEmptyName             = errors.New("sandbox name cannot be empty")
	ErrInvalidKind           = errors.New("kind must be account or organization")
	ErrMissingOwner          = errors.New("account sandbox must have an owner account")
	ErrMissingOrg            = errors.New("organization sandbox must have an organization id")
	ErrConflictingScope      = errors.New("sandbox cannot belong to both an account and an organization")
	ErrEmptyAccountName      = errors.New("account name cannot be empty")
	ErrNoCurrentAccount      = errors.New("no current account to operate on")
	ErrNotOrganizationMember = errors.New("account does not belong to an organization")
)

// Record is one sandbox catalog entry. A record belongs to exactly one
// account (Kind=account, OwnerAccount set) or exactly one organization
// (Kind=organization, OrganizationID set, MemberAccounts snapshotted at
// creation time).
type Record struct {
	ID             string                    `json:"id"`
	Name           string                    `json:"name"`
	Kind           string                    `json:"kind"`
	CreatedAt      time.Time                 `json:"createdAt"`
	LastUsedAt     *time.Time                `json:"lastUsedAt"`
	OwnerAccount   string                    `json:"ownerAccount,omitempty"`
	OrganizationID string                    `json:"organizationId,omitempty"`
	MemberAccounts []directory.MemberAccount `json:"memberAccounts,omitempty"`
	Description    string                    `json:"description,omitempty"`
}

// Validate checks if the Record has valid data.
// PRE: Record struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Record) Validate() error {
	if r.Name == "" {
		return ErrEmptyName
	}
	switch r.Kind {
	case KindAccount:
		if r.OwnerAccount == "" {
			return ErrMissingOwner
		}
		if r.OrganizationID != "" {
			return ErrConflictingScope
		}
	case KindOrganization:
		if r.OrganizationID == "" {
			return ErrMissingOrg
		}
		if r.OwnerAccount == "" {
			return nil
		}
		return ErrConflictingScope
	default:
		return ErrInvalidKind
	}
	return nil
}

// MarkUsed records that the sandbox was entered.
// PRE: Record exists
// POST: LastUsedAt is set to now
func (r *Record) MarkUsed(now time.Time) {
	r.LastUsedAt = &now
}

// WasUsed returns true if the sandbox has ever been entered.
// INVARIANT: Record fields are not mutated
func (r *Record) WasUsed() bool {
	return r.LastUsedAt != nil
}

// Stats summarizes a sandbox list for display beside the switcher.
type Stats struct {
	Total        int
	RecentlyUsed int
	CreatedToday int
}

// ComputeStats tallies a sandbox list.
// CreatedToday compares calendar dates in now's location, not a rolling
// 24h window: a record created at 23:59 counts only until midnight.
// Stored timestamps decode as UTC, so they are converted before comparing.
// INVARIANT: records are not mutated
func ComputeStats(records []Record, now time.Time) Stats {
	s := Stats{Total: len(records)}
	ny, nm, nd := now.Date()
	for _, r := range records {
		if r.WasUsed() {
			s.RecentlyUsed++
		}
		cy, cm, cd := r.CreatedAt.In(now.Location()).Date()
		if cy == ny && cm == nm && cd == nd {
			s.CreatedToday++
		}
	}
	return s
}
