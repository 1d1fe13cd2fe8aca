package sandbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"switchboard/internal/adapters/storage"
	domain "switchboard/internal/domain/sandbox"
)

// KVStore implements Store over a key-value blob per table, matching the
// host's original storage layout: one JSON object under each key, mapping
// account name (or organization id) to its record list.
type KVStore struct {
	kv storage.KVDB
}

// Compile-time check that *KVStore satisfies Store.
var _ Store = (*KVStore)(nil)

// NewKVStore creates a sandbox store over kv.
func NewKVStore(kv storage.KVDB) *KVStore {
	return &KVStore{kv: kv}
}

// AccountList retrieves the sandbox list for one account.
// POST: Returns an owned copy; mutating it does not affect storage
// INVARIANT: Store state is not mutated
func (s *KVStore) AccountList(ctx context.Context, accountName string) ([]domain.Record, bool, error) {
	return s.list(ctx, KeyAccountSandboxes, accountName)
}

// SaveAccountList stores records as the account's list.
// POST: The account table blob is re-persisted
func (s *KVStore) SaveAccountList(ctx context.Context, accountName string, records []domain.Record) error {
	return s.save(ctx, KeyAccountSandboxes, accountName, records)
}

// DeleteAccountList removes the account's entry.
// POST: A subsequent AccountList reports no entry
func (s *KVStore) DeleteAccountList(ctx context.Context, accountName string) error {
	return s.deleteEntry(ctx, KeyAccountSandboxes, accountName)
}

// OrganizationList retrieves the sandbox list for one organization.
// POST: Returns an owned copy; mutating it does not affect storage
// INVARIANT: Store state is not mutated
func (s *KVStore) OrganizationList(ctx context.Context, organizationID string) ([]domain.Record, bool, error) {
	return s.list(ctx, KeyOrganizationSandboxes, organizationID)
}

// SaveOrganizationList stores records as the organization's list.
// POST: The organization table blob is re-persisted
func (s *KVStore) SaveOrganizationList(ctx context.Context, organizationID string, records []domain.Record) error {
	return s.save(ctx, KeyOrganizationSandboxes, organizationID, records)
}

// DeleteOrganizationList removes the organization's entry.
// POST: A subsequent OrganizationList reports no entry
func (s *KVStore) DeleteOrganizationList(ctx context.Context, organizationID string) error {
	return s.deleteEntry(ctx, KeyOrganizationSandboxes, organizationID)
}

// OrganizationIDs lists every key in the organization table, sorted.
// INVARIANT: Store state is not mutated
func (s *KVStore) OrganizationIDs(ctx context.Context) ([]string, error) {
	table, err := s.loadTable(ctx, KeyOrganizationSandboxes)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(table))
	for id := range table {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *KVStore) list(ctx context.Context, key, entry string) ([]domain.Record, bool, error) {
	table, err := s.loadTable(ctx, key)
	if err != nil {
		return nil, false, err
	}
	records, ok := table[entry]
	if !ok {
		return nil, false, nil
	}
	if records == nil {
		records = []domain.Record{}
	}
	return records, true, nil
}

func (s *KVStore) save(ctx context.Context, key, entry string, records []domain.Record) error {
	table, err := s.loadTable(ctx, key)
	if errors.Is(err, ErrCorruptTable) {
		// A blob that no longer decodes is discarded on the next write.
		table = map[string][]domain.Record{}
	} else if err != nil {
		return err
	}
	if records == nil {
		records = []domain.Record{}
	}
	table[entry] = records
	return s.storeTable(ctx, key, table)
}

func (s *KVStore) deleteEntry(ctx context.Context, key, entry string) error {
	table, err := s.loadTable(ctx, key)
	if err != nil {
		return err
	}
	if _, ok := table[entry]; !ok {
		return nil
	}
	delete(table, entry)
	return s.storeTable(ctx, key, table)
}

// loadTable decodes one table blob. A missing key is an empty table.
func (s *KVStore) loadTable(ctx context.Context, key string) (map[string][]domain.Record, error) {
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok || raw == "" {
		return map[string][]domain.Record{}, nil
	}
	var table map[string][]domain.Record
	if err := json.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptTable, key, err)
	}
	if table == nil {
		table = map[string][]domain.Record{}
	}
	return table, nil
}

func (s *KVStore) storeTable(ctx context.Context, key string, table map[string][]domain.Record) error {
	raw, err := json.Marshal(table)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.kv.Set(ctx, key, string(raw))
}
