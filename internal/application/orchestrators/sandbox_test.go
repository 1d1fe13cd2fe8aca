package orchestrators

import (
	"context"
	"sort"
	"testing"
	"time"

	"switchboard/internal/domain/directory"
	"switchboard/internal/domain/sandbox"
)

// mockSandboxStore implements SandboxTableStore and SweepStore in memory.
type mockSandboxStore struct {
	accounts map[string][]sandbox.Record
	orgs     map[string][]sandbox.Record
	saves    int
}

func newMockSandboxStore() *mockSandboxStore {
	return &mockSandboxStore{
		accounts: make(map[string][]sandbox.Record),
		orgs:     make(map[string][]sandbox.Record),
	}
}

// AccountList implements SandboxTableStore.
func (m *mockSandboxStore) AccountList(_ context.Context, name string) ([]sandbox.Record, bool, error) {
	records, ok := m.accounts[name]
	return append([]sandbox.Record(nil), records...), ok, nil
}

// SaveAccountList implements SandboxTableStore.
func (m *mockSandboxStore) SaveAccountList(_ context.Context, name string, records []sandbox.Record) error {
	m.accounts[name] = append([]sandbox.Record(nil), records...)
	m.saves++
	return nil
}

// OrganizationList implements SandboxTableStore.
func (m *mockSandboxStore) OrganizationList(_ context.Context, id string) ([]sandbox.Record, bool, error) {
	records, ok := m.orgs[id]
	return append([]sandbox.Record(nil), records...), ok, nil
}

// SaveOrganizationList implements SandboxTableStore.
func (m *mockSandboxStore) SaveOrganizationList(_ context.Context, id string, records []sandbox.Record) error {
	m.orgs[id] = append([]sandbox.Record(nil), records...)
	m.saves++
	return nil
}

// OrganizationIDs implements SweepStore.
func (m *mockSandboxStore) OrganizationIDs(_ context.Context) ([]string, error) {
	ids := make([]string, 0, len(m.orgs))
	for id := range m.orgs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// DeleteOrganizationList implements SweepStore.
func (m *mockSandboxStore) DeleteOrganizationList(_ context.Context, id string) error {
	delete(m.orgs, id)
	return nil
}

// mockDirectory implements DirectoryProvider.
type mockDirectory struct {
	orgs map[string]directory.Organization
}

// Lookup implements DirectoryProvider.
func (m *mockDirectory) Lookup(id string) (directory.Organization, error) {
	org, ok := m.orgs[id]
	if !ok {
		return directory.Organization{}, directory.ErrUnknownOrganization
	}
	return org, nil
}

func acmeDirectory() *mockDirectory {
	return &mockDirectory{orgs: map[string]directory.Organization{
		"acme-inc": {
			ID:   "acme-inc",
			Name: "Acme Inc",
			Members: []directory.MemberAccount{
				{Name: "Sub A", Initials: "SA", ColorTag: "color-1"},
				{Name: "Sub B", Initials: "SB", ColorTag: "color-2"},
			},
		},
	}}
}

var fixedTime = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// --- ExecuteEnsureAccountSandboxes tests ---

// TestExecuteEnsureAccountSandboxes_EmptyName tests the refused path.
func TestExecuteEnsureAccountSandboxes_EmptyName(t *testing.T) {
	store := newMockSandboxStore()
	_, err := ExecuteEnsureAccountSandboxes(context.Background(), "", EnsureAccountSandboxesDeps{Store: store, Now: fixedNow})
	if err != sandbox.ErrEmptyAccountName {
		t.Errorf("expected ErrEmptyAccountName, got %v", err)
	}
	if store.saves != 0 {
		t.Error("nothing should be persisted for an empty name")
	}
}

// TestExecuteEnsureAccountSandboxes_SynthesizesDefaults tests first-access
// synthesis and idempotent re-reads.
func TestExecuteEnsureAccountSandboxes_SynthesizesDefaults(t *testing.T) {
	store := newMockSandboxStore()
	deps := EnsureAccountSandboxesDeps{Store: store, Now: fixedNow}
	ctx := context.Background()

	first, err := ExecuteEnsureAccountSandboxes(ctx, "Acme Corp", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("expected 3 defaults, got %d", len(first))
	}
	if store.saves != 1 {
		t.Errorf("expected defaults persisted once, saves = %d", store.saves)
	}

	second, err := ExecuteEnsureAccountSandboxes(ctx, "Acme Corp", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(second) != len(first) {
		t.Errorf("second read length = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if second[i].ID != first[i].ID || second[i].Name != first[i].Name {
			t.Errorf("read is not idempotent at %d: %+v vs %+v", i, second[i], first[i])
		}
	}
	if store.saves != 1 {
		t.Errorf("second read must not persist, saves = %d", store.saves)
	}
}

// TestExecuteEnsureOrganizationSandboxes_Sentinels tests the soft-fail
// guard for invalid organization ids.
func TestExecuteEnsureOrganizationSandboxes_Sentinels(t *testing.T) {
	store := newMockSandboxStore()
	deps := EnsureOrganizationSandboxesDeps{Store: store, Directory: acmeDirectory(), Now: fixedNow}

	for _, id := range []string{"", "undefined", "null"} {
		t.Run("id="+id, func(t *testing.T) {
			records, err := ExecuteEnsureOrganizationSandboxes(context.Background(), id, deps)
			if err != nil {
				t.Fatalf("sentinel must fail soft, got error: %v", err)
			}
			if len(records) != 0 {
				t.Errorf("expected empty list, got %d records", len(records))
			}
			if _, ok := store.orgs[id]; ok {
				t.Error("sentinel id must not mint a table entry")
			}
		})
	}
}

// TestExecuteEnsureOrganizationSandboxes_SynthesizesDefaults tests the
// four-record catalog with a roster snapshot.
func TestExecuteEnsureOrganizationSandboxes_SynthesizesDefaults(t *testing.T) {
	store := newMockSandboxStore()
	deps := EnsureOrganizationSandboxesDeps{Store: store, Directory: acmeDirectory(), Now: fixedNow}

	records, err := ExecuteEnsureOrganizationSandboxes(context.Background(), "acme-inc", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 defaults, got %d", len(records))
	}
	for i, r := range records {
		if r.OrganizationID != "acme-inc" {
			t.Errorf("record %d OrganizationID = %q", i, r.OrganizationID)
		}
		if len(r.MemberAccounts) != 2 {
			t.Errorf("record %d roster size = %d, want 2", i, len(r.MemberAccounts))
		}
	}
}

// TestExecuteEnsureOrganizationSandboxes_UnknownOrg tests synthesis for an
// organization missing from the directory.
func TestExecuteEnsureOrganizationSandboxes_UnknownOrg(t *testing.T) {
	store := newMockSandboxStore()
	deps := EnsureOrganizationSandboxesDeps{Store: store, Directory: acmeDirectory(), Now: fixedNow}

	records, err := ExecuteEnsureOrganizationSandboxes(context.Background(), "ghost-org", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected 4 defaults, got %d", len(records))
	}
	if len(records[0].MemberAccounts) != 0 {
		t.Errorf("expected empty roster for unknown organization")
	}
}

// --- create tests ---

// TestExecuteCreateAccountSandbox tests the append path and name
// composition.
func TestExecuteCreateAccountSandbox(t *testing.T) {
	store := newMockSandboxStore()
	deps := CreateSandboxDeps{Store: store, Directory: acmeDirectory(), GenerateID: fixedID, Now: fixedNow}
	ctx := context.Background()

	before, _ := ExecuteEnsureAccountSandboxes(ctx, "Acme Corp", EnsureAccountSandboxesDeps{Store: store, Now: fixedNow})

	record, err := ExecuteCreateAccountSandbox(ctx, "Acme Corp", "feature-x", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name != "Acme Corp - feature-x" {
		t.Errorf("Name = %q, want composed display name", record.Name)
	}
	if record.ID != "test-id-001" {
		t.Errorf("ID = %q, want generated id", record.ID)
	}

	after, _ := ExecuteEnsureAccountSandboxes(ctx, "Acme Corp", EnsureAccountSandboxesDeps{Store: store, Now: fixedNow})
	if len(after) != len(before)+1 {
		t.Errorf("list length = %d, want %d", len(after), len(before)+1)
	}
}

// TestExecuteCreateAccountSandbox_NoAccount tests the precondition.
func TestExecuteCreateAccountSandbox_NoAccount(t *testing.T) {
	deps := CreateSandboxDeps{Store: newMockSandboxStore(), GenerateID: fixedID, Now: fixedNow}
	if _, err := ExecuteCreateAccountSandbox(context.Background(), "", "x", deps); err != sandbox.ErrNoCurrentAccount {
		t.Errorf("expected ErrNoCurrentAccount, got %v", err)
	}
}

// TestExecuteCreateOrganizationSandbox tests roster snapshot and naming.
func TestExecuteCreateOrganizationSandbox(t *testing.T) {
	store := newMockSandboxStore()
	deps := CreateSandboxDeps{Store: store, Directory: acmeDirectory(), GenerateID: fixedID, Now: fixedNow}

	record, err := ExecuteCreateOrganizationSandbox(context.Background(), "acme-inc", "integration-2", deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Name != "Acme Inc - integration-2" {
		t.Errorf("Name = %q, want org display name composition", record.Name)
	}
	if len(record.MemberAccounts) != 2 {
		t.Errorf("roster size = %d, want snapshot of 2", len(record.MemberAccounts))
	}
	if len(store.orgs["acme-inc"]) != 5 {
		t.Errorf("stored list length = %d, want 4 defaults + 1", len(store.orgs["acme-inc"]))
	}
}

// TestExecuteCreateOrganizationSandbox_NoOrganization tests the
// precondition for standalone accounts.
func TestExecuteCreateOrganizationSandbox_NoOrganization(t *testing.T) {
	deps := CreateSandboxDeps{Store: newMockSandboxStore(), Directory: acmeDirectory(), GenerateID: fixedID, Now: fixedNow}
	for _, id := range []string{"", "undefined", "null"} {
		if _, err := ExecuteCreateOrganizationSandbox(context.Background(), id, "x", deps); err != sandbox.ErrNotOrganizationMember {
			t.Errorf("id %q: expected ErrNotOrganizationMember, got %v", id, err)
		}
	}
}

// --- delete tests ---

// TestExecuteDeleteAccountSandbox_NoMatch tests the silent no-op.
func TestExecuteDeleteAccountSandbox_NoMatch(t *testing.T) {
	store := newMockSandboxStore()
	deps := DeleteSandboxDeps{Store: store, Now: fixedNow}
	ctx := context.Background()

	before, _ := ExecuteEnsureAccountSandboxes(ctx, "Acme Corp", EnsureAccountSandboxesDeps{Store: store, Now: fixedNow})
	if err := ExecuteDeleteAccountSandbox(ctx, "Acme Corp", "does not exist", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.accounts["Acme Corp"]) != len(before) {
		t.Errorf("list length changed on a zero-match delete")
	}
}

// TestExecuteDeleteAccountSandbox_Duplicates tests filter semantics:
// duplicate names are removed together.
func TestExecuteDeleteAccountSandbox_Duplicates(t *testing.T) {
	store := newMockSandboxStore()
	store.accounts["Acme Corp"] = []sandbox.Record{
		{ID: "1", Name: "Twin", Kind: sandbox.KindAccount, OwnerAccount: "Acme Corp", CreatedAt: fixedTime},
		{ID: "2", Name: "Keeper", Kind: sandbox.KindAccount, OwnerAccount: "Acme Corp", CreatedAt: fixedTime},
		{ID: "3", Name: "Twin", Kind: sandbox.KindAccount, OwnerAccount: "Acme Corp", CreatedAt: fixedTime},
	}
	deps := DeleteSandboxDeps{Store: store, Now: fixedNow}

	if err := ExecuteDeleteAccountSandbox(context.Background(), "Acme Corp", "Twin", deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	remaining := store.accounts["Acme Corp"]
	if len(remaining) != 1 || remaining[0].Name != "Keeper" {
		t.Errorf("remaining = %v, want only Keeper", remaining)
	}
}

// --- enter tests ---

// TestExecuteEnterSandbox tests usage stamping, persistence, and the hook
// contract.
func TestExecuteEnterSandbox(t *testing.T) {
	store := newMockSandboxStore()
	ctx := context.Background()
	records, _ := ExecuteEnsureAccountSandboxes(ctx, "Acme Corp", EnsureAccountSandboxesDeps{Store: store, Now: fixedNow})

	type hookCall struct{ name, kind, orgID, account string }
	var calls []hookCall
	deps := EnterSandboxDeps{
		Store: store,
		Now:   fixedNow,
		OnEnterSandbox: func(name, kind, orgID, account string) {
			calls = append(calls, hookCall{name, kind, orgID, account})
		},
	}

	entered, err := ExecuteEnterSandbox(ctx, records[0], deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !entered.WasUsed() {
		t.Error("expected LastUsedAt stamped")
	}

	stored := store.accounts["Acme Corp"]
	if stored[0].LastUsedAt == nil || !stored[0].LastUsedAt.Equal(fixedTime) {
		t.Errorf("stored LastUsedAt = %v, want %v", stored[0].LastUsedAt, fixedTime)
	}

	if len(calls) != 1 {
		t.Fatalf("hook fired %d times, want exactly 1", len(calls))
	}
	want := hookCall{records[0].Name, sandbox.KindAccount, "", "Acme Corp"}
	if calls[0] != want {
		t.Errorf("hook observed %+v, want %+v", calls[0], want)
	}
}

// TestExecuteEnterSandbox_NotFound tests that a vanished record neither
// persists nor fires the hook.
func TestExecuteEnterSandbox_NotFound(t *testing.T) {
	fired := false
	deps := EnterSandboxDeps{
		Store:          newMockSandboxStore(),
		Now:            fixedNow,
		OnEnterSandbox: func(string, string, string, string) { fired = true },
	}
	ghost := sandbox.Record{ID: "ghost", Name: "Ghost", Kind: sandbox.KindAccount, OwnerAccount: "Acme Corp"}

	if _, err := ExecuteEnterSandbox(context.Background(), ghost, deps); err != ErrSandboxNotFound {
		t.Errorf("expected ErrSandboxNotFound, got %v", err)
	}
	if fired {
		t.Error("hook must not fire for a failed enter")
	}
}

// --- sweep tests ---

// TestExecuteSweepInvalidKeys tests sentinel-only removal.
func TestExecuteSweepInvalidKeys(t *testing.T) {
	store := newMockSandboxStore()
	store.orgs["acme-inc"] = []sandbox.Record{}
	store.orgs["undefined"] = []sandbox.Record{}
	store.orgs["null"] = []sandbox.Record{}

	removed, err := ExecuteSweepInvalidKeys(context.Background(), SweepInvalidKeysDeps{Store: store})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, ok := store.orgs["acme-inc"]; !ok {
		t.Error("valid entry must survive the sweep")
	}
	if _, ok := store.orgs["undefined"]; ok {
		t.Error("sentinel entry survived the sweep")
	}
}
