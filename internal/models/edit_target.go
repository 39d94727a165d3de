package models

import "strings"

// EditKind classifies what a submitted view row maps to in the store.
type EditKind string

const (
	// EditKindNew marks a row with no backing record yet.
	EditKindNew EditKind = "NEW"
	// EditKindSingle references exactly one backing record.
	EditKindSingle EditKind = "SINGLE"
	// EditKindGrouped references an ordered list of backing records that
	// the UI presents as one multi-day row.
	EditKindGrouped EditKind = "GROUPED"
)

const (
	newRowPrefix    = "new:"
	groupedPrefix   = "grouped:"
	viewIDSeparator = ":"
)

// EditTarget is the decoded form of a view row identifier.
//
// Grouped targets carry their backing ids in order; the order is
// significant because the reconciler pairs backing records with edited
// weekday codes by position.
type EditTarget struct {
	Kind       EditKind
	ID         string
	BackingIDs []string
}

// ParseViewID decodes a view row identifier into an EditTarget.
// Identifiers prefixed "new:" have no backing records; identifiers of the
// form "grouped:<discriminant>:<id>:<id>..." carry ordered backing ids;
// anything else is a direct reference to one record.
func ParseViewID(viewID string) EditTarget {
	if strings.HasPrefix(viewID, newRowPrefix) {
		return EditTarget{Kind: EditKindNew}
	}
	if strings.HasPrefix(viewID, groupedPrefix) {
		parts := strings.Split(strings.TrimPrefix(viewID, groupedPrefix), viewIDSeparator)
		var ids []string
		// parts[0] is the group discriminant, not a record id.
		for _, p := range parts[1:] {
			if p != "" {
				ids = append(ids, p)
			}
		}
		return EditTarget{Kind: EditKindGrouped, BackingIDs: ids}
	}
	return EditTarget{Kind: EditKindSingle, ID: viewID, BackingIDs: []string{viewID}}
}

// GroupedViewID encodes a grouped row identifier from a discriminant and
// the ordered backing record ids.
func GroupedViewID(discriminant string, backingIDs []string) string {
	return groupedPrefix + discriminant + viewIDSeparator + strings.Join(backingIDs, viewIDSeparator)
}

// NewRowViewID encodes an identifier for a row that does not exist yet.
func NewRowViewID(token string) string {
	return newRowPrefix + token
}
