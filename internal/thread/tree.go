// Package thread assembles flat reply collections into nested trees and
// computes deletion closures. It is pure: no storage access, no side
// effects, and the same input always yields the same output.
package thread

import "ayubo/internal/models"

// Node is a reply with its nested children, ordered as encountered in
// the input collection.
type Node struct {
	*models.Reply
	Children []*Node `json:"children"`
}

// BuildTree converts a flat reply collection into a rooted forest.
// Replies with a nil ParentID become roots in input order; every other
// reply is appended to its parent's child list in input order. A reply
// whose parent is absent from the input (orphaned by a cross-post
// parent or a partially completed cascade) is dropped from the result.
// That drop is deliberate: the storage layer cannot promise referential
// integrity for parent pointers, and promoting orphans to roots would
// present them as top-level replies they never were.
//
// Callers that want newest-first ordering must sort the flat slice
// before calling; BuildTree never reorders.
func BuildTree(flat []*models.Reply) []*Node {
	index := make(map[uint]*Node, len(flat))
	for _, r := range flat {
		index[r.ID] = &Node{Reply: r}
	}

	var forest []*Node
	for _, r := range flat {
		node := index[r.ID]
		if r.ParentID == nil {
			forest = append(forest, node)
			continue
		}
		parent, ok := index[*r.ParentID]
		if !ok {
			continue // orphan
		}
		parent.Children = append(parent.Children, node)
	}
	return forest
}

// Flatten is the inverse of BuildTree: it walks the forest depth-first
// and returns the replies in pre-order. Flatten(BuildTree(x)) preserves
// every reachable reply, so round-tripping is a cheap structural check.
func Flatten(forest []*Node) []*models.Reply {
	var flat []*models.Reply
	stack := make([]*Node, 0, len(forest))
	for i := len(forest) - 1; i >= 0; i-- {
		stack = append(stack, forest[i])
	}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		flat = append(flat, node.Reply)
		for i := len(node.Children) - 1; i >= 0; i-- {
			stack = append(stack, node.Children[i])
		}
	}
	return flat
}

// CollectSubtreeIDs returns the ids of every reply transitively nested
// under rootID, rootID included, each exactly once. It traverses a
// children index built from parent pointers and keeps a visited set so
// corrupted data containing a cycle still terminates. The result order
// is breadth-first but callers must not rely on it.
func CollectSubtreeIDs(rootID uint, flat []*models.Reply) []uint {
	children := make(map[uint][]uint, len(flat))
	for _, r := range flat {
		if r.ParentID != nil {
			children[*r.ParentID] = append(children[*r.ParentID], r.ID)
		}
	}

	visited := map[uint]bool{rootID: true}
	ids := []uint{rootID}
	queue := []uint{rootID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, child := range children[id] {
			if visited[child] {
				continue
			}
			visited[child] = true
			ids = append(ids, child)
			queue = append(queue, child)
		}
	}
	return ids
}
