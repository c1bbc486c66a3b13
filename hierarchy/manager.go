// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package hierarchy tracks the parent/child tree of canvases: depth,
// ancestry, relationships, common ancestors and the offset transforms
// between each canvas and its parent and the world.
//
// Nodes are addressed by id. A child refers to its parent by id only, so
// the parent owns its children and there are no pointer cycles.
package hierarchy

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/composite"
	"github.com/gogpu/composite/coord"
)

// Errors returned by AddChild.
var (
	// ErrUnknownCanvas is returned when an id is not registered.
	ErrUnknownCanvas = errors.New("hierarchy: unknown canvas")

	// ErrCycle is returned when attaching a canvas below itself or one of
	// its descendants.
	ErrCycle = errors.New("hierarchy: attachment would create a cycle")
)

type node struct {
	id        string
	bounds    composite.Bounds
	parent    string
	hasParent bool
	children  []string
	depth     int
	transform coord.Transform
}

type worldOffset struct {
	generation uint64
	dx, dy     int
}

// Manager is a registry of canvas nodes and their tree structure.
//
// Each node's bounds are expressed in its parent's coordinate space; a root
// node's local space is world space.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	nodes map[string]*node

	// generation increments on every change to tree shape or bounds and
	// keys the world offset cache.
	generation uint64
	world      map[string]worldOffset
}

// NewManager creates an empty hierarchy.
func NewManager() *Manager {
	return &Manager{
		nodes: make(map[string]*node),
		world: make(map[string]worldOffset),
	}
}

// Register adds a root node with the given bounds.
// Returns false if the id is already registered.
func (m *Manager) Register(id string, bounds composite.Bounds) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.nodes[id]; exists {
		return false
	}
	m.nodes[id] = &node{id: id, bounds: bounds, transform: coord.Identity(bounds)}
	m.generation++
	return true
}

// Unregister removes a node and its whole subtree, children first.
// Returns false if the id is unknown.
func (m *Manager) Unregister(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return false
	}
	m.remove(n)
	if n.hasParent {
		m.detach(n)
	}
	delete(m.nodes, id)
	delete(m.world, id)
	m.generation++
	return true
}

// Contains reports whether id is registered.
func (m *Manager) Contains(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.nodes[id]
	return ok
}

// Len returns the number of registered nodes.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.nodes)
}

// AddChild attaches child below parent, detaching it from any previous
// parent first. The child's transform and the depth of its whole subtree
// are recomputed.
func (m *Manager) AddChild(parentID, childID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	parent, ok := m.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCanvas, parentID)
	}
	child, ok := m.nodes[childID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCanvas, childID)
	}
	if m.isSelfOrAncestor(child, parent) {
		composite.Logger().Warn("hierarchy: rejected reparenting", "parent", parentID, "child", childID)
		return fmt.Errorf("%w: %q below %q", ErrCycle, childID, parentID)
	}

	if child.hasParent {
		m.detach(child)
	}
	parent.children = append(parent.children, childID)
	child.parent = parentID
	child.hasParent = true
	child.transform = coord.NewTransform(parent.bounds, child.bounds)
	m.setDepth(child, parent.depth+1)
	m.generation++

	composite.Logger().Debug("hierarchy: attached", "parent", parentID, "child", childID, "depth", child.depth)
	return nil
}

// RemoveChild detaches child from parent, making it a root.
// Returns false if child is not a direct child of parent.
func (m *Manager) RemoveChild(parentID, childID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	child, ok := m.nodes[childID]
	if !ok || !child.hasParent || child.parent != parentID {
		return false
	}
	m.detach(child)
	m.generation++
	return true
}

// SetBounds changes a node's bounds in its parent's space and rebuilds the
// transforms that depend on them. Returns false if the id is unknown.
func (m *Manager) SetBounds(id string, b composite.Bounds) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return false
	}
	n.bounds = b
	if n.hasParent {
		n.transform = coord.NewTransform(m.nodes[n.parent].bounds, b)
	} else {
		n.transform = coord.Identity(b)
	}
	for _, cid := range n.children {
		c := m.nodes[cid]
		c.transform = coord.NewTransform(b, c.bounds)
	}
	m.generation++
	return true
}

// Bounds returns a node's bounds in its parent's space.
func (m *Manager) Bounds(id string) (composite.Bounds, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return composite.Bounds{}, false
	}
	return n.bounds, true
}

// Parent returns the id of a node's parent. The second result is false for
// roots and unknown ids.
func (m *Manager) Parent(id string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok || !n.hasParent {
		return "", false
	}
	return n.parent, true
}

// Children returns a node's children in attachment order.
func (m *Manager) Children(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// Depth returns a node's distance from its root.
func (m *Manager) Depth(id string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return 0, false
	}
	return n.depth, true
}

// Ancestors returns a node's ancestors, nearest first.
func (m *Manager) Ancestors(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	return m.ancestors(n)
}

// Descendants returns a node's descendants in depth-first pre-order.
func (m *Manager) Descendants(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	var out []string
	m.walk(n, func(d *node) bool {
		if d != n {
			out = append(out, d.id)
		}
		return true
	})
	return out
}

// Siblings returns the other children of a node's parent.
func (m *Manager) Siblings(id string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok || !n.hasParent {
		return nil
	}
	return m.siblings(n)
}

// Roots returns the ids of every node without a parent, sorted.
func (m *Manager) Roots() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	for id, n := range m.nodes {
		if !n.hasParent {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Walk visits id and its descendants depth-first, parents before children.
// Returning false from fn skips that node's children.
// Returns false if the id is unknown.
//
// fn runs with the manager locked and must not call back into it.
func (m *Manager) Walk(id string, fn func(id string, depth int) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return false
	}
	m.walk(n, func(d *node) bool { return fn(d.id, d.depth) })
	return true
}

// Relationship classifies other relative to id, checking in order: direct
// parent, direct child, sibling, ancestor, descendant.
func (m *Manager) Relationship(id, other string) Relationship {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	o, ok2 := m.nodes[other]
	if !ok || !ok2 || n == o {
		return RelationNone
	}

	switch {
	case n.hasParent && n.parent == other:
		return RelationParent
	case o.hasParent && o.parent == id:
		return RelationChild
	case n.hasParent && slices.Contains(m.siblings(n), other):
		return RelationSibling
	case m.isSelfOrAncestor(o, n):
		return RelationAncestor
	case m.isSelfOrAncestor(n, o):
		return RelationDescendant
	default:
		return RelationNone
	}
}

// CommonAncestor returns the deepest node that is a or an ancestor of a and
// also b or an ancestor of b. Returns false if the nodes share no tree.
func (m *Manager) CommonAncestor(a, b string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	na, ok := m.nodes[a]
	nb, ok2 := m.nodes[b]
	if !ok || !ok2 {
		return "", false
	}

	lineage := make(map[string]struct{})
	lineage[a] = struct{}{}
	for _, id := range m.ancestors(na) {
		lineage[id] = struct{}{}
	}

	best, found := "", false
	bestDepth := -1
	for _, id := range append([]string{b}, m.ancestors(nb)...) {
		if _, shared := lineage[id]; shared && m.nodes[id].depth > bestDepth {
			best, bestDepth, found = id, m.nodes[id].depth, true
		}
	}
	return best, found
}

// Transform returns the transform between a node and its parent.
// Roots have the identity transform.
func (m *Manager) Transform(id string) (coord.Transform, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return coord.Transform{}, false
	}
	return n.transform, true
}

// TransformToWorld converts a point from a node's local space to world
// space by applying each ancestor-level transform from the node up to the
// root.
func (m *Manager) TransformToWorld(id string, x, y int) (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return 0, 0, false
	}
	dx, dy := m.worldOffset(n)
	return x + dx, y + dy, true
}

// TransformFromWorld converts a world-space point into a node's local space
// by applying each level's inverse transform from the root down to the node.
func (m *Manager) TransformFromWorld(id string, x, y int) (int, int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return 0, 0, false
	}
	dx, dy := m.worldOffset(n)
	return x - dx, y - dy, true
}

// WorldBounds returns a node's rectangle in world space.
func (m *Manager) WorldBounds(id string) (composite.Bounds, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.nodes[id]
	if !ok {
		return composite.Bounds{}, false
	}
	dx, dy := m.worldOffset(n)
	return composite.Bounds{X: dx, Y: dy, Width: n.bounds.Width, Height: n.bounds.Height}, true
}

// Generation returns a counter that changes with every tree or bounds
// mutation.
func (m *Manager) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.generation
}

// worldOffset returns the translation from a node's local space to world
// space, cached per generation. Caller must hold m.mu.
func (m *Manager) worldOffset(n *node) (int, int) {
	if c, ok := m.world[n.id]; ok && c.generation == m.generation {
		return c.dx, c.dy
	}

	x, y := 0, 0
	for cur := n; cur.hasParent; cur = m.nodes[cur.parent] {
		x, y = cur.transform.ChildToParent(x, y)
	}
	m.world[n.id] = worldOffset{generation: m.generation, dx: x, dy: y}
	return x, y
}

// detach unlinks n from its parent and makes it a root.
// Caller must hold m.mu.
func (m *Manager) detach(n *node) {
	if p, ok := m.nodes[n.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(id string) bool { return id == n.id })
	}
	n.parent = ""
	n.hasParent = false
	n.transform = coord.Identity(n.bounds)
	delete(m.world, n.id)
	m.setDepth(n, 0)
}

// remove deletes every descendant of n, deepest first.
// Caller must hold m.mu.
func (m *Manager) remove(n *node) {
	for _, cid := range n.children {
		c := m.nodes[cid]
		m.remove(c)
		delete(m.nodes, cid)
		delete(m.world, cid)
	}
	n.children = nil
}

// setDepth assigns depth to n and fixes its subtree.
// Caller must hold m.mu.
func (m *Manager) setDepth(n *node, depth int) {
	n.depth = depth
	for _, cid := range n.children {
		m.setDepth(m.nodes[cid], depth+1)
	}
}

// ancestors returns n's ancestors, nearest first. Caller must hold m.mu.
func (m *Manager) ancestors(n *node) []string {
	var out []string
	for cur := n; cur.hasParent; cur = m.nodes[cur.parent] {
		out = append(out, cur.parent)
	}
	return out
}

// siblings returns the other children of n's parent. Caller must hold m.mu.
func (m *Manager) siblings(n *node) []string {
	p := m.nodes[n.parent]
	out := make([]string, 0, len(p.children))
	for _, id := range p.children {
		if id != n.id {
			out = append(out, id)
		}
	}
	return out
}

// isSelfOrAncestor reports whether candidate is n or one of n's ancestors.
// Caller must hold m.mu.
func (m *Manager) isSelfOrAncestor(candidate, n *node) bool {
	for cur := n; ; cur = m.nodes[cur.parent] {
		if cur == candidate {
			return true
		}
		if !cur.hasParent {
			return false
		}
	}
}

// walk visits n and its subtree in pre-order. Caller must hold m.mu.
func (m *Manager) walk(n *node, fn func(*node) bool) {
	if !fn(n) {
		return
	}
	for _, cid := range n.children {
		m.walk(m.nodes[cid], fn)
	}
}
