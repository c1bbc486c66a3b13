// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package hierarchy

// Relationship describes how one canvas relates to another.
type Relationship uint8

// Relationships, from the point of view of the first canvas: Relationship(a, b)
// == RelationParent means b is a's parent.
const (
	RelationNone Relationship = iota
	RelationParent
	RelationChild
	RelationSibling
	RelationAncestor
	RelationDescendant
)

// String returns a human-readable name for the relationship.
func (r Relationship) String() string {
	switch r {
	case RelationNone:
		return "None"
	case RelationParent:
		return "Parent"
	case RelationChild:
		return "Child"
	case RelationSibling:
		return "Sibling"
	case RelationAncestor:
		return "Ancestor"
	case RelationDescendant:
		return "Descendant"
	default:
		return "Unknown"
	}
}
