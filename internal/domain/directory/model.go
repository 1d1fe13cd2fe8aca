package directory

import "errors"

// Domain errors
var (
	ErrEmptyOrganizationID = errors.New("organization id cannot be empty")
	ErrUnknownOrganization = errors.New("organization is not in the directory")
)

// Invalid organization id sentinels. The host page has historically leaked
// the literal strings "undefined" and "null" into persisted keys, so these
// are rejected everywhere an organization id is accepted.
const (
	SentinelUndefined = "undefined"
	SentinelNull      = "null"
)

// MemberAccount describes one account belonging to an organization, as
// shown in the account switcher.
type MemberAccount struct {
	Name     string `json:"name" yaml:"name"`
	Initials string `json:"initials" yaml:"initials"`
	ColorTag string `json:"colorTag" yaml:"colorTag"`
}

// Organization is one directory entry: a display name plus the ordered
// member accounts that belong to it.
type Organization struct {
	ID      string
	Name    string
	Members []MemberAccount
}

// Directory maps organization ids to their member rosters. It is seeded at
// startup from configuration and replaced wholesale on reload; it is never
// mutated in place.
type Directory struct {
	orgs map[string]Organization
}

// IsValidOrganizationID reports whether id is a usable organization key.
// Empty strings and the known leaked sentinels are rejected.
func IsValidOrganizationID(id string) bool {
	return id != "" && id != SentinelUndefined && id != SentinelNull
}

// New builds a Directory from the given organizations.
// PRE: orgs may be empty
// POST: Returns a Directory owning a copy of the provided entries
func New(orgs []Organization) *Directory {
	m := make(map[string]Organization, len(orgs))
	for _, o := range orgs {
		o.Members = cloneMembers(o.Members)
		m[o.ID] = o
	}
	return &Directory{orgs: m}
}

// Lookup returns the organization for id.
// PRE: none
// POST: Returns a copy; mutating the result does not affect the directory
// INVARIANT: Directory state is not mutated
func (d *Directory) Lookup(id string) (Organization, error) {
	if !IsValidOrganizationID(id) {
		return Organization{}, ErrEmptyOrganizationID
	}
	o, ok := d.orgs[id]
	if !ok {
		return Organization{}, ErrUnknownOrganization
	}
	o.Members = cloneMembers(o.Members)
	return o, nil
}

// Members returns the member roster for id, or an empty roster when the
// organization is unknown or the id is invalid.
// INVARIANT: Directory state is not mutated
func (d *Directory) Members(id string) []MemberAccount {
	o, err := d.Lookup(id)
	if err != nil {
		return []MemberAccount{}
	}
	return o.Members
}

// Len returns the number of organizations in the directory.
func (d *Directory) Len() int {
	return len(d.orgs)
}

func cloneMembers(in []MemberAccount) []MemberAccount {
	out := make([]MemberAccount, len(in))
	copy(out, in)
	return out
}
