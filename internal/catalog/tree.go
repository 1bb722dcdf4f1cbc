// Package catalog turns flat category records into a parent/child tree for pickers and listings.
package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/sagar-developer08/admin-ecom-sub000/internal/domain/entities"
)

// DefaultIndent prefixes option labels once per level of depth
const DefaultIndent = "— "

// SkipChildren can be returned from a WalkFunc to skip the current node's subtree
var SkipChildren = errors.New("skip children")

// Node is a category with its children
type Node struct {
	Category *entities.Category
	Parent   *Node
	Children []*Node
	Depth    int
}

// ID returns the category ID
func (n *Node) ID() string {
	return n.Category.ID
}

// Tree is a forest of categories
type Tree struct {
	Roots []*Node
	index map[string]*Node
}

// Option is one entry of an indented parent picker
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Depth int    `json:"depth"`
}

// WalkFunc is called for each node in depth-first order
type WalkFunc func(n *Node) error

// Build groups categories by their parent reference.
// Records whose parent is missing, self-referencing, or part of a cycle become roots.
// Siblings are ordered by SortOrder, then name; input order breaks remaining ties.
func Build(categories []entities.Category) *Tree {
	t := &Tree{index: make(map[string]*Node, len(categories))}

	// First pass: create all nodes; duplicate IDs keep the first record
	nodes := make([]*Node, 0, len(categories))
	for i := range categories {
		cat := categories[i]
		if cat.ID == "" {
			continue
		}
		if _, exists := t.index[cat.ID]; exists {
			continue
		}
		node := &Node{Category: &cat}
		t.index[cat.ID] = node
		nodes = append(nodes, node)
	}

	// Second pass: link parents
	for _, node := range nodes {
		parentID := parentOf(node.Category)
		if parentID == "" || parentID == node.ID() {
			continue
		}
		if parent, ok := t.index[parentID]; ok {
			node.Parent = parent
		}
	}

	// Break cycles: the first node found on a loop is promoted to root
	for _, node := range nodes {
		if onCycle(node) {
			node.Parent = nil
		}
	}

	for _, node := range nodes {
		if node.Parent == nil {
			t.Roots = append(t.Roots, node)
		} else {
			node.Parent.Children = append(node.Parent.Children, node)
		}
	}

	sortNodes(t.Roots)
	_ = t.Walk(func(n *Node) error {
		if n.Parent != nil {
			n.Depth = n.Parent.Depth + 1
		}
		sortNodes(n.Children)
		return nil
	})
	return t
}

func parentOf(c *entities.Category) string {
	if c.ParentID == nil {
		return ""
	}
	return strings.TrimSpace(*c.ParentID)
}

// onCycle reports whether following parents from n leads back to n
func onCycle(n *Node) bool {
	seen := map[*Node]bool{}
	for p := n.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
		if seen[p] {
			// Loop above n; it gets broken when its own members are visited
			return false
		}
		seen[p] = true
	}
	return false
}

func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i].Category, nodes[j].Category
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// Len returns the number of categories in the tree
func (t *Tree) Len() int {
	return len(t.index)
}

// Find returns the node for a category ID, or nil
func (t *Tree) Find(id string) *Node {
	return t.index[id]
}

// Walk visits every node depth-first, parents before children
func (t *Tree) Walk(fn WalkFunc) error {
	for _, root := range t.Roots {
		if err := walk(root, fn); err != nil {
			return err
		}
	}
	return nil
}

func walk(n *Node, fn WalkFunc) error {
	if err := fn(n); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range n.Children {
		if err := walk(child, fn); err != nil {
			return err
		}
	}
	return nil
}

// Path returns the chain of nodes from a root down to id, or nil if id is unknown
func (t *Tree) Path(id string) []*Node {
	n := t.index[id]
	if n == nil {
		return nil
	}
	var path []*Node
	for ; n != nil; n = n.Parent {
		path = append(path, n)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Breadcrumb renders the path to id as "Root / Child / Leaf"
func (t *Tree) Breadcrumb(id string) string {
	path := t.Path(id)
	names := make([]string, len(path))
	for i, n := range path {
		names[i] = n.Category.Name
	}
	return strings.Join(names, " / ")
}

// FlattenOptions controls Flatten
type FlattenOptions struct {
	// Indent is repeated once per level; DefaultIndent when empty
	Indent string
	// Exclude drops a category and its whole subtree, so an edited category cannot become its own ancestor
	Exclude string
}

// Flatten renders the tree as an indented option list in depth-first order
func (t *Tree) Flatten(opts FlattenOptions) []Option {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	options := make([]Option, 0, t.Len())
	_ = t.Walk(func(n *Node) error {
		if opts.Exclude != "" && n.ID() == opts.Exclude {
			return SkipChildren
		}
		options = append(options, Option{
			Value: n.ID(),
			Label: strings.Repeat(indent, n.Depth) + n.Category.Name,
			Depth: n.Depth,
		})
		return nil
	})
	return options
}
