package libnioev

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func matches(t *Tree[int], topic string) []int {
	var got []int
	t.ForEveryMatch(topic, func(id int) { got = append(got, id) })
	sort.Ints(got)
	return got
}

func TestTreeAddAndMatch(t *testing.T) {
	tree := NewTree[int]()
	tree.Add("a/b/c", 1)
	tree.Add("a/+/c", 2)
	tree.Add("a/#", 3)
	tree.Add("x/y", 4)

	assert.Equal(t, []int{1, 2, 3}, matches(tree, "a/b/c"))
	assert.Equal(t, []int{3}, matches(tree, "a/b/c/d"))
	assert.Equal(t, []int{4}, matches(tree, "x/y"))
	assert.Empty(t, matches(tree, "z"))
}

func TestTreeHashMatchesAtOwnNode(t *testing.T) {
	tree := NewTree[int]()
	tree.Add("sport/#", 1)

	assert.Equal(t, []int{1}, matches(tree, "sport"))
	assert.Equal(t, []int{1}, matches(tree, "sport/tennis/player1"))
}

func TestTreeRemove(t *testing.T) {
	tree := NewTree[int]()
	tree.Add("a/b", 1)
	tree.Add("a/b", 2)

	assert.Equal(t, RemoveDefault, tree.Remove("a/b", 1))
	assert.Equal(t, []int{2}, matches(tree, "a/b"))

	assert.Equal(t, RemoveDeletedLastSubscriberFromFilter, tree.Remove("a/b", 2))
	assert.Empty(t, matches(tree, "a/b"))

	assert.Equal(t, RemoveNotFound, tree.Remove("a/b", 2))
	assert.Equal(t, RemoveNotFound, tree.Remove("never/seen", 1))
}

func TestTreeRemoveAll(t *testing.T) {
	tree := NewTree[int]()
	tree.Add("a/b", 1)
	tree.Add("a/c", 1)
	tree.Add("a/c", 2)

	deleted := tree.RemoveAll(1)
	sort.Strings(deleted)
	assert.Equal(t, []string{"a/b"}, deleted)

	assert.Empty(t, matches(tree, "a/b"))
	assert.Equal(t, []int{2}, matches(tree, "a/c"))
}
