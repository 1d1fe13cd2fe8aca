package panel

// ItemSink receives nav-item highlight side effects, implemented by the
// DOM layer as the "active" class on the item element.
type ItemSink interface {
	SetActive(id string, active bool)
}

// ItemTracker keeps at most one nav item highlighted.
type ItemTracker struct {
	sink   ItemSink
	active string
}

// NewItemTracker creates an ItemTracker with nothing selected.
func NewItemTracker(sink ItemSink) *ItemTracker {
	return &ItemTracker{sink: sink}
}

// ActiveItemID returns the selected item id, or "" when none is selected.
// INVARIANT: ItemTracker state is not mutated
func (t *ItemTracker) ActiveItemID() string {
	return t.active
}

// Select highlights id, dropping the highlight from the previous item.
// PRE: id is non-empty
// POST: id is the only active item
func (t *ItemTracker) Select(id string) {
	if id == "" || id == t.active {
		return
	}
	if t.active != "" {
		t.sink.SetActive(t.active, false)
	}
	t.active = id
	t.sink.SetActive(id, true)
}
