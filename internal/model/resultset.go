package model

// ResultSet is an ordered collection of items, unique by ID.
// Insertion order is preserved; the first occurrence of an ID wins.
type ResultSet struct {
	items []Item
	index map[string]int
}

// NewResultSet creates a ResultSet holding the deduplicated items.
func NewResultSet(items []Item) *ResultSet {
	rs := &ResultSet{}
	rs.Replace(items)
	return rs
}

// Replace discards the current contents and loads items, dropping duplicates.
func (rs *ResultSet) Replace(items []Item) {
	rs.items = make([]Item, 0, len(items))
	rs.index = make(map[string]int, len(items))
	rs.Append(items)
}

// Append adds items whose ID is not already present and returns how many were added.
func (rs *ResultSet) Append(items []Item) int {
	if rs.index == nil {
		rs.index = make(map[string]int, len(items))
	}

	added := 0
	for _, item := range items {
		if _, ok := rs.index[item.ID]; ok {
			continue
		}
		rs.index[item.ID] = len(rs.items)
		rs.items = append(rs.items, item)
		added++
	}
	return added
}

// Add inserts a single item and reports whether it was new.
func (rs *ResultSet) Add(item Item) bool {
	return rs.Append([]Item{item}) == 1
}

// Clear removes all items.
func (rs *ResultSet) Clear() {
	rs.items = nil
	rs.index = nil
}

// Contains reports whether an item with the given ID is present.
func (rs *ResultSet) Contains(id string) bool {
	_, ok := rs.index[id]
	return ok
}

// Get returns the item with the given ID, or nil if not present.
func (rs *ResultSet) Get(id string) *Item {
	idx, ok := rs.index[id]
	if !ok {
		return nil
	}
	item := rs.items[idx]
	return &item
}

// Len returns the number of items.
func (rs *ResultSet) Len() int {
	return len(rs.items)
}

// Items returns a copy of the items in insertion order.
func (rs *ResultSet) Items() []Item {
	if len(rs.items) == 0 {
		return nil
	}
	out := make([]Item, len(rs.items))
	copy(out, rs.items)
	return out
}
