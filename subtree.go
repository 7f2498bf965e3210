package libnioev

import "strings"

// RemoveOutcome reports what a Tree.Remove call actually did, since a
// caller tracking a topic's subscriber count needs to know whether the
// filter node itself disappeared, not just whether the removal
// succeeded.
type RemoveOutcome int

const (
	RemoveDefault RemoveOutcome = iota
	RemoveNotFound
	RemoveDeletedLastSubscriberFromFilter
)

type treeNode[S comparable] struct {
	children    map[string]*treeNode[S]
	subscribers map[S]struct{}
}

func newTreeNode[S comparable]() *treeNode[S] {
	return &treeNode[S]{children: make(map[string]*treeNode[S]), subscribers: make(map[S]struct{})}
}

// Tree is a topic-filter indexed set of subscriber handles, matching
// MQTT's '+'/'#' wildcard semantics without any per-message string
// comparison against every filter: a PUBLISH walks the tree once,
// descending into '+' and '#' children alongside the literal one.
type Tree[S comparable] struct {
	root *treeNode[S]
}

// NewTree returns an empty subscription tree.
func NewTree[S comparable]() *Tree[S] {
	return &Tree[S]{root: newTreeNode[S]()}
}

// Add inserts subscriber into the node reached by topicFilter,
// creating any missing intermediate nodes.
func (t *Tree[S]) Add(topicFilter string, subscriber S) {
	node := t.root
	for _, part := range strings.Split(topicFilter, "/") {
		child, ok := node.children[part]
		if !ok {
			child = newTreeNode[S]()
			node.children[part] = child
		}
		node = child
	}
	node.subscribers[subscriber] = struct{}{}
}

// Remove drops subscriber from the node reached by topicFilter. If
// that node ends up with no subscribers and no children, it is pruned
// from its parent and RemoveDeletedLastSubscriberFromFilter is
// reported so a caller can react (e.g. drop a retained-message
// reference count).
func (t *Tree[S]) Remove(topicFilter string, subscriber S) RemoveOutcome {
	var parent *treeNode[S]
	var lastPart string
	node := t.root
	for _, part := range strings.Split(topicFilter, "/") {
		child, ok := node.children[part]
		if !ok {
			return RemoveNotFound
		}
		parent, lastPart = node, part
		node = child
	}

	delete(node.subscribers, subscriber)
	if len(node.subscribers) == 0 && len(node.children) == 0 && parent != nil {
		delete(parent.children, lastPart)
		return RemoveDeletedLastSubscriberFromFilter
	}
	return RemoveDefault
}

// RemoveAll drops subscriber from every filter it is subscribed under
// and returns the topic filters that had their last subscriber
// removed as a result, so a caller can release any per-filter state
// they keep alongside the tree.
func (t *Tree[S]) RemoveAll(subscriber S) []string {
	var deleted []string
	removeAllRec(t.root, subscriber, "", &deleted)
	return deleted
}

func removeAllRec[S comparable](node *treeNode[S], subscriber S, path string, deleted *[]string) bool {
	_, had := node.subscribers[subscriber]
	delete(node.subscribers, subscriber)
	for part, child := range node.children {
		if removeAllRec(child, subscriber, path+part+"/", deleted) {
			delete(node.children, part)
		}
	}
	if len(node.subscribers) == 0 && len(node.children) == 0 && path != "" {
		if had {
			*deleted = append(*deleted, strings.TrimSuffix(path, "/"))
		}
		return true
	}
	return false
}

// ForEveryMatch calls fn once for every (filter, subscriber)
// registration whose topic filter matches topic, so a subscriber held
// under several matching filters is reported once per filter. It
// honors '+' (single level) and '#' (remaining levels, including none,
// so "a/#" matches "a"; matched at the '#' node itself without
// descending further).
func (t *Tree[S]) ForEveryMatch(topic string, fn func(S)) {
	current := []*treeNode[S]{t.root}
	for _, part := range strings.Split(topic, "/") {
		var next []*treeNode[S]
		for _, node := range current {
			if hash, ok := node.children["#"]; ok {
				for s := range hash.subscribers {
					fn(s)
				}
			}
			if literal, ok := node.children[part]; ok {
				next = append(next, literal)
			}
			if plus, ok := node.children["+"]; ok {
				next = append(next, plus)
			}
		}
		current = next
	}
	for _, node := range current {
		for s := range node.subscribers {
			fn(s)
		}
		if hash, ok := node.children["#"]; ok {
			for s := range hash.subscribers {
				fn(s)
			}
		}
	}
}
