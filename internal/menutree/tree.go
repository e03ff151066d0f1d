// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package menutree holds the shape logic for menu item forests stored as
// adjacency lists: building nested trees from flat rows, flattening them back,
// and validating or computing parent/order changes before they are persisted.
//
// Nothing in this package touches the database. Callers load the flat item
// list for one menu, run the functions here, and write the resulting
// placements in a single transaction.
package menutree

import (
	"sort"
)

// Item is one menu entry as stored in the flat table.
// ParentID 0 means the item is top-level.
type Item struct {
	ID            int64  `json:"id"`
	MenuID        int64  `json:"menu_id"`
	ParentID      int64  `json:"parent_id"`
	SortOrder     int    `json:"sort_order"`
	Label         string `json:"label"`
	URL           string `json:"url"`
	ImagePath     string `json:"image_path,omitempty"`
	BadgeText     string `json:"badge_text,omitempty"`
	CustomClasses string `json:"custom_classes,omitempty"`
}

// Node is an item with its nested children.
type Node struct {
	Item
	Children []*Node `json:"children"`

	pos int
}

// Placement is the parent/order pair for one item.
type Placement struct {
	SortOrder int   `json:"sort_order"`
	ParentID  int64 `json:"parent_id"`
}

// Build converts a flat list of one menu's items into a forest.
//
// The input is expected to be sorted by sort order; children lists keep the
// relative order of the input. Items whose parent is not part of the batch,
// or that sit on a parent cycle, are returned as top-level nodes so that no
// item is ever dropped.
func Build(items []Item) []*Node {
	index := make(map[int64]*Node, len(items))
	nodes := make([]*Node, len(items))
	for i, it := range items {
		n := &Node{Item: it, Children: []*Node{}, pos: i}
		nodes[i] = n
		if _, dup := index[it.ID]; !dup {
			index[it.ID] = n
		}
	}

	parentOf := make(map[*Node]*Node, len(items))
	var roots []*Node
	for _, n := range nodes {
		parent, ok := index[n.ParentID]
		if n.ParentID == 0 || !ok || parent == n {
			roots = append(roots, n)
			continue
		}
		parent.Children = append(parent.Children, n)
		parentOf[n] = parent
	}

	// Anything not reachable from a root sits on a cycle. Detach it from its
	// parent and promote it, which breaks the cycle at that point.
	reached := make(map[*Node]bool, len(items))
	for _, r := range roots {
		markReached(r, reached)
	}
	for _, n := range nodes {
		if reached[n] {
			continue
		}
		if p := parentOf[n]; p != nil {
			p.Children = removeNode(p.Children, n)
			delete(parentOf, n)
		}
		roots = append(roots, n)
		markReached(n, reached)
	}

	sort.SliceStable(roots, func(i, j int) bool { return roots[i].pos < roots[j].pos })
	return roots
}

func markReached(n *Node, reached map[*Node]bool) {
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if reached[cur] {
			continue
		}
		reached[cur] = true
		stack = append(stack, cur.Children...)
	}
}

func removeNode(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Flatten walks the forest depth-first and returns the items in pre-order.
// ParentID is rewritten from the tree structure and SortOrder becomes the
// index among siblings, so Build(Flatten(t)) reproduces t.
func Flatten(roots []*Node) []Item {
	var out []Item
	var walk func(nodes []*Node, parentID int64)
	walk = func(nodes []*Node, parentID int64) {
		for i, n := range nodes {
			it := n.Item
			it.ParentID = parentID
			it.SortOrder = i
			out = append(out, it)
			walk(n.Children, n.ID)
		}
	}
	walk(roots, 0)
	return out
}

// Count returns the number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, n := range roots {
		total += 1 + Count(n.Children)
	}
	return total
}

// SortItems orders items by sort order, breaking ties by id.
func SortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
}
