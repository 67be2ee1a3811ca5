// Package tree builds and renders a descriptive directory tree for the
// transcribed candidate set. The tree is rebuilt fresh each invocation and
// never mutated in place.
package tree

import (
	"sort"
	"strings"
)

// Node is one entry in the directory tree. The Dir tag distinguishes
// branches from leaves instead of a recursive untyped mapping.
type Node struct {
	Name     string
	Dir      bool
	RelPath  string  // Forward-slash path relative to the root; "" for the root itself.
	Children []*Node // Populated only for directories.
}

// Build assembles a tree from relative slash-separated file paths.
// The root node carries the provided label.
func Build(rootLabel string, relPaths []string) *Node {
	root := &Node{Name: rootLabel, Dir: true}

	for _, relPath := range relPaths {
		parts := strings.Split(relPath, "/")
		current := root
		for i, part := range parts {
			isLeaf := i == len(parts)-1
			childPath := strings.Join(parts[:i+1], "/")
			child := current.child(part)
			if child == nil {
				child = &Node{Name: part, Dir: !isLeaf, RelPath: childPath}
				current.Children = append(current.Children, child)
			}
			current = child
		}
	}

	root.sortRecursive()
	return root
}

// child returns the direct child with the given name, or nil.
func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// sortRecursive orders children directories-first, then case-insensitive
// alphabetical, at every level.
func (n *Node) sortRecursive() {
	sort.Slice(n.Children, func(i, j int) bool {
		if n.Children[i].Dir != n.Children[j].Dir {
			return n.Children[i].Dir
		}
		return strings.ToLower(n.Children[i].Name) < strings.ToLower(n.Children[j].Name)
	})
	for _, c := range n.Children {
		if c.Dir {
			c.sortRecursive()
		}
	}
}

// Render returns the tree as text lines with box-drawing connectors.
func Render(root *Node) []string {
	lines := []string{root.Name + "/"}
	renderChildren(root, "", &lines)
	return lines
}

func renderChildren(n *Node, prefix string, lines *[]string) {
	for i, child := range n.Children {
		connector := "├── "
		extension := "│   "
		if i == len(n.Children)-1 {
			connector = "└── "
			extension = "    "
		}

		name := child.Name
		if child.Dir {
			name += "/"
		}
		*lines = append(*lines, prefix+connector+name)

		if child.Dir {
			renderChildren(child, prefix+extension, lines)
		}
	}
}
