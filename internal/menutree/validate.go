// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package menutree

import (
	"fmt"
)

// CycleError reports a parent assignment that would make an item its own ancestor.
type CycleError struct {
	ItemID   int64
	ParentID int64
}

func (e *CycleError) Error() string {
	if e.ItemID == e.ParentID {
		return fmt.Sprintf("item %d cannot be its own parent", e.ItemID)
	}
	return fmt.Sprintf("item %d cannot be placed under %d: would create a cycle", e.ItemID, e.ParentID)
}

// MissingParentError reports a parent id that is not an item of the same menu.
type MissingParentError struct {
	ItemID   int64
	ParentID int64
}

func (e *MissingParentError) Error() string {
	return fmt.Sprintf("parent %d of item %d is not in this menu", e.ParentID, e.ItemID)
}

// UnknownItemError reports an item id that is not part of the menu being edited.
type UnknownItemError struct {
	ItemID int64
}

func (e *UnknownItemError) Error() string {
	return fmt.Sprintf("item %d is not in this menu", e.ItemID)
}

// Apply overlays placements on the current items of one menu and validates
// the resulting shape. It returns the merged items sorted by sort order.
//
// Every updated id must belong to items, every non-zero parent named in an
// update must belong to items, and the merged parent graph must be acyclic.
// Existing rows outside the update set are taken as they are.
func Apply(items []Item, updates map[int64]Placement) ([]Item, error) {
	byID := make(map[int64]int, len(items))
	for i, it := range items {
		byID[it.ID] = i
	}

	merged := make([]Item, len(items))
	copy(merged, items)

	for id, p := range updates {
		i, ok := byID[id]
		if !ok {
			return nil, &UnknownItemError{ItemID: id}
		}
		if p.ParentID == id {
			return nil, &CycleError{ItemID: id, ParentID: id}
		}
		if p.ParentID != 0 {
			if _, ok := byID[p.ParentID]; !ok {
				return nil, &MissingParentError{ItemID: id, ParentID: p.ParentID}
			}
		}
		merged[i].ParentID = p.ParentID
		merged[i].SortOrder = p.SortOrder
	}

	if err := Validate(merged); err != nil {
		return nil, err
	}

	SortItems(merged)
	return merged, nil
}

// Validate checks that the parent graph of items has no cycles.
// Parents that do not resolve within items are treated as top-level, the
// same way Build treats them.
func Validate(items []Item) error {
	parent := make(map[int64]int64, len(items))
	for _, it := range items {
		parent[it.ID] = it.ParentID
	}

	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[int64]int, len(items))

	for _, it := range items {
		if state[it.ID] == done {
			continue
		}
		var path []int64
		cur := it.ID
	walk:
		for {
			switch state[cur] {
			case done:
				break walk
			case onPath:
				return &CycleError{ItemID: cur, ParentID: parent[cur]}
			}
			state[cur] = onPath
			path = append(path, cur)

			next := parent[cur]
			if _, known := parent[next]; next == 0 || !known {
				break walk
			}
			cur = next
		}
		for _, id := range path {
			state[id] = done
		}
	}
	return nil
}

// IsDescendant reports whether candidate sits somewhere below ancestor.
func IsDescendant(items []Item, ancestor, candidate int64) bool {
	parent := make(map[int64]int64, len(items))
	for _, it := range items {
		parent[it.ID] = it.ParentID
	}
	seen := make(map[int64]bool)
	for cur := parent[candidate]; cur != 0 && !seen[cur]; cur = parent[cur] {
		if cur == ancestor {
			return true
		}
		seen[cur] = true
	}
	return false
}

// Siblings returns the items whose parent is parentID, ordered by sort order.
func Siblings(items []Item, parentID int64) []Item {
	var out []Item
	for _, it := range items {
		if it.ParentID == parentID {
			out = append(out, it)
		}
	}
	SortItems(out)
	return out
}

// Move computes the placements needed to put itemID under newParentID at
// position index among its new siblings. Index is clamped to the sibling
// range. The old and new sibling lists are renumbered from zero.
func Move(items []Item, itemID, newParentID int64, index int) (map[int64]Placement, error) {
	var moving *Item
	known := make(map[int64]bool, len(items))
	for i := range items {
		known[items[i].ID] = true
		if items[i].ID == itemID {
			moving = &items[i]
		}
	}
	if moving == nil {
		return nil, &UnknownItemError{ItemID: itemID}
	}
	if newParentID != 0 {
		if !known[newParentID] {
			return nil, &MissingParentError{ItemID: itemID, ParentID: newParentID}
		}
		if newParentID == itemID || IsDescendant(items, itemID, newParentID) {
			return nil, &CycleError{ItemID: itemID, ParentID: newParentID}
		}
	}

	out := make(map[int64]Placement)

	if moving.ParentID != newParentID {
		oldSiblings := withoutItem(Siblings(items, moving.ParentID), itemID)
		for i, s := range oldSiblings {
			out[s.ID] = Placement{SortOrder: i, ParentID: moving.ParentID}
		}
	}

	dest := withoutItem(Siblings(items, newParentID), itemID)
	if index < 0 {
		index = 0
	}
	if index > len(dest) {
		index = len(dest)
	}
	ordered := make([]int64, 0, len(dest)+1)
	for _, s := range dest[:index] {
		ordered = append(ordered, s.ID)
	}
	ordered = append(ordered, itemID)
	for _, s := range dest[index:] {
		ordered = append(ordered, s.ID)
	}
	for i, id := range ordered {
		out[id] = Placement{SortOrder: i, ParentID: newParentID}
	}

	return out, nil
}

// SpliceOut computes placements that lift the children of itemID into the
// slot itemID occupies among its siblings, keeping their relative order.
// The placement for itemID itself is not included.
func SpliceOut(items []Item, itemID int64) (map[int64]Placement, error) {
	var target *Item
	for i := range items {
		if items[i].ID == itemID {
			target = &items[i]
			break
		}
	}
	if target == nil {
		return nil, &UnknownItemError{ItemID: itemID}
	}

	children := Siblings(items, itemID)
	out := make(map[int64]Placement)
	if len(children) == 0 {
		return out, nil
	}

	pos := 0
	for _, s := range Siblings(items, target.ParentID) {
		if s.ID == itemID {
			for _, c := range children {
				out[c.ID] = Placement{SortOrder: pos, ParentID: target.ParentID}
				pos++
			}
			continue
		}
		out[s.ID] = Placement{SortOrder: pos, ParentID: target.ParentID}
		pos++
	}
	return out, nil
}

func withoutItem(list []Item, id int64) []Item {
	out := make([]Item, 0, len(list))
	for _, it := range list {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
