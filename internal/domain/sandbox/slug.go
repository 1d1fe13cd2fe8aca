package sandbox

import (
	"fmt"
	"strings"
	"time"
)

// Slug length limits. Organization slugs are shorter because they are
// prefixed onto longer purpose suffixes in default catalog ids.
const (
	maxAccountSlugLen      = 20
	maxOrganizationSlugLen = 15
)

// AccountSlug derives a storage-safe slug from an account display name.
// Lower-cases, collapses every run of non-alphanumeric characters to a
// single hyphen, strips leading/trailing hyphens, then truncates.
// Falls back to "account" when nothing survives.
func AccountSlug(name string) string {
	s := slugify(name, maxAccountSlugLen)
	if s == "" {
		return "account"
	}
	return s
}

// OrganizationSlug derives a slug for an organization. An id that is
// already in slug form is used verbatim; otherwise the display name is
// slugified. Falls back to the id itself when nothing survives.
func OrganizationSlug(id, displayName string) string {
	if isSlugForm(id) {
		return id
	}
	s := slugify(displayName, maxOrganizationSlugLen)
	if s == "" {
		return id
	}
	return s
}

// DefaultID builds the id for a synthesized default record:
// slug, purpose, and creation timestamp, hyphen-joined.
func DefaultID(slug, purpose string, createdAt time.Time) string {
	return fmt.Sprintf("%s-%s-%d", slug, purpose, createdAt.Unix())
}

func slugify(name string, maxLen int) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		} else {
			pendingHyphen = true
		}
	}
	s := b.String()
	if len(s) > maxLen {
		s = strings.Trim(s[:maxLen], "-")
	}
	return s
}

func isSlugForm(id string) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '-' {
			return false
		}
	}
	return true
}
