package domain

// ChangeTracker records which fields of an aggregate have been modified
// since it was loaded. Repositories use it to build partial update
// mutations instead of rewriting whole rows.
type ChangeTracker struct {
	dirtyFields map[string]bool
}

// NewChangeTracker creates an empty ChangeTracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{dirtyFields: make(map[string]bool)}
}

// MarkDirty flags a field as modified.
func (ct *ChangeTracker) MarkDirty(fields ...string) {
	for _, f := range fields {
		ct.dirtyFields[f] = true
	}
}

// Dirty reports whether a field has been modified.
func (ct *ChangeTracker) Dirty(field string) bool {
	return ct.dirtyFields[field]
}

// HasChanges reports whether any field has been modified.
func (ct *ChangeTracker) HasChanges() bool {
	return len(ct.dirtyFields) > 0
}

// DirtyFields returns the names of all modified fields.
func (ct *ChangeTracker) DirtyFields() []string {
	fields := make([]string, 0, len(ct.dirtyFields))
	for f := range ct.dirtyFields {
		fields = append(fields, f)
	}
	return fields
}

// Clear resets all markers, typically after a successful commit.
func (ct *ChangeTracker) Clear() {
	ct.dirtyFields = make(map[string]bool)
}
