package domain

// Tags are user-assigned classification fields on a Project. Empty string
// means "unset", never null. Tags persist across discovery cycles.
type Tags struct {
	Category string
	Status   string
	Priority string
	Group    string
	Custom   []string
}

// TagPatch is a partial tag update. Nil fields are left untouched; a
// non-nil Custom fully replaces the previous label list.
type TagPatch struct {
	Category *string
	Status   *string
	Priority *string
	Group    *string
	Custom   []string
}

// IsZero reports whether the patch carries no changes at all.
func (p TagPatch) IsZero() bool {
	return p.Category == nil && p.Status == nil && p.Priority == nil &&
		p.Group == nil && p.Custom == nil
}

// Apply merges the patch into the tag set, returning the merged result.
// Only supplied fields change; Custom, if supplied, replaces the array.
func (t Tags) Apply(patch TagPatch) Tags {
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Group != nil {
		t.Group = *patch.Group
	}
	if patch.Custom != nil {
		t.Custom = append([]string(nil), patch.Custom...)
	}
	return t
}
