package sandbox

import (
	"fmt"
	"time"

	"switchboard/internal/domain/directory"
)

// defaultPurpose describes one entry of a default catalog.
type defaultPurpose struct {
	idSuffix    string
	displayName string
	description string
}

// Account catalogs get three environments; organization catalogs get four
// shared workspaces. As new default environments are agreed, append here.
var (
	accountDefaults = []defaultPurpose{
		{"development", "Development", "Day-to-day development workspace."},
		{"staging", "Staging", "Pre-production verification against staging data."},
		{"qa", "QA", "Manual and automated QA runs."},
	}

	organizationDefaults = []defaultPurpose{
		{"multi-dev", "Multi-Account Development", "Shared development across all member accounts."},
		{"integration", "Cross-Account Integration", "Integration testing between member accounts."},
		{"rollout", "Production Rollout", "Staged rollout rehearsal for the whole organization."},
		{"compliance", "Security & Compliance", "Security review and compliance audit workspace."},
	}
)

// DefaultAccountCatalog synthesizes the default sandbox list for an account
// that has none yet.
// PRE: accountName is non-empty
// POST: Returns exactly 3 records, ownerAccount set, never used
func DefaultAccountCatalog(accountName string, now time.Time) []Record {
	slug := AccountSlug(accountName)
	out := make([]Record, 0, len(accountDefaults))
	for _, p := range accountDefaults {
		out = append(out, Record{
			ID:           DefaultID(slug, p.idSuffix, now),
			Name:         fmt.Sprintf("%s %s", accountName, p.displayName),
			Kind:         KindAccount,
			CreatedAt:    now,
			OwnerAccount: accountName,
			Description:  p.description,
		})
	}
	return out
}

// DefaultOrganizationCatalog synthesizes the default sandbox list for an
// organization, snapshotting its current member roster into each record.
// PRE: org has a valid ID
// POST: Returns exactly 4 records, each owning an independent member copy
func DefaultOrganizationCatalog(org directory.Organization, now time.Time) []Record {
	slug := OrganizationSlug(org.ID, org.Name)
	out := make([]Record, 0, len(organizationDefaults))
	for _, p := range organizationDefaults {
		members := make([]directory.MemberAccount, len(org.Members))
		copy(members, org.Members)
		out = append(out, Record{
			ID:             DefaultID(slug, p.idSuffix, now),
			Name:           fmt.Sprintf("%s %s", org.Name, p.displayName),
			Kind:           KindOrganization,
			CreatedAt:      now,
			OrganizationID: org.ID,
			MemberAccounts: members,
			Description:    p.description,
		})
	}
	return out
}
