// Package config loads the organization directory from YAML and keeps it
// fresh while the file changes on disk.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"switchboard/internal/domain/directory"
)

// DefaultDirectoryEnv names the environment variable holding the
// directory file path.
const DefaultDirectoryEnv = "SWITCHBOARD_DIRECTORY"

// directoryFile is the on-disk YAML shape:
//
//	organizations:
//	  acme-inc:
//	    name: Acme Inc
//	    members:
//	      - {name: Sub A, initials: SA, colorTag: color-1}
type directoryFile struct {
	Organizations map[string]organizationEntry `yaml:"organizations"`
}

type organizationEntry struct {
	Name    string                    `yaml:"name"`
	Members []directory.MemberAccount `yaml:"members"`
}

// LoadDirectory reads and parses the directory file at path.
// PRE: path is non-empty
// POST: Returns a Directory with one entry per configured organization
func LoadDirectory(path string) (*directory.Directory, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read directory file: %w", err)
	}
	return ParseDirectory(raw)
}

// ParseDirectory parses YAML directory content.
// POST: Organization ids failing validation are rejected, not skipped
func ParseDirectory(raw []byte) (*directory.Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse directory file: %w", err)
	}

	ids := make([]string, 0, len(file.Organizations))
	for id := range file.Organizations {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	orgs := make([]directory.Organization, 0, len(ids))
	for _, id := range ids {
		if !directory.IsValidOrganizationID(id) {
			return nil, fmt.Errorf("invalid organization id %q in directory file", id)
		}
		entry := file.Organizations[id]
		name := entry.Name
		if name == "" {
			name = id
		}
		orgs = append(orgs, directory.Organization{
			ID:      id,
			Name:    name,
			Members: entry.Members,
		})
	}
	return directory.New(orgs), nil
}
