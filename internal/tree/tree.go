package tree

import (
	"fmt"
	"sync"

	"github.com/migramap/migramap/internal/model"
)

// Node is one position in the site hierarchy. The tree owns its nodes;
// Parent is a non-owning back-reference used only to walk titles upward.
type Node struct {
	// Title is the section title, unique among siblings.
	Title string

	// URL is the page address attached to this node, empty for structural
	// nodes created only as menu ancestors.
	URL string

	// Parent is the owning node, nil for the root.
	Parent *Node

	// Children maps title to child node.
	Children map[string]*Node

	// Record is the page attached to this node, nil for structural nodes.
	Record *model.PageRecord

	// Seq is the discovery order, starting at 1.
	Seq int
}

func newNode(title string, parent *Node) *Node {
	return &Node{Title: title, Parent: parent, Children: make(map[string]*Node)}
}

// Tree reconciles menu- and breadcrumb-derived hierarchies into one
// structure and recomputes each record's hierarchy from its tree position.
// Methods are safe for concurrent use; discovery tasks register pages from
// many goroutines.
type Tree struct {
	mu      sync.Mutex
	root    *Node
	byURL   map[string]*Node
	nextSeq int
}

// New creates a tree rooted at the given label.
func New(rootLabel string) *Tree {
	return &Tree{
		root:    newNode(rootLabel, nil),
		byURL:   make(map[string]*Node),
		nextSeq: 1,
	}
}

// Reset replaces the root with a new label and drops all registered nodes.
// Called once when the real site name is discovered from the homepage,
// before any pages have been registered.
func (t *Tree) Reset(rootLabel string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = newNode(rootLabel, nil)
	t.byURL = make(map[string]*Node)
	t.nextSeq = 1
}

// RootLabel returns the current root title.
func (t *Tree) RootLabel() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root.Title
}

// AddMenuPage walks (creating as needed) the nodes along hierarchy,
// skipping the root label, and attaches the URL and record to the terminal
// node.
func (t *Tree) AddMenuPage(hierarchy []string, pageURL string, rec *model.PageRecord) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()

	current := t.root
	for _, title := range skipRoot(hierarchy) {
		child, ok := current.Children[title]
		if !ok {
			child = newNode(title, current)
			current.Children[title] = child
		}
		current = child
	}

	current.URL = pageURL
	current.Record = rec
	current.Seq = t.nextSeq
	t.nextSeq++
	t.byURL[pageURL] = current
	return current
}

// AddContentPage creates a leaf for the final breadcrumb segment. The
// parent is found by walking from the root along the middle breadcrumb
// segments, descending only where a child with that title already exists;
// the walk never creates intermediate nodes, so a missing segment leaves
// the page parented higher up (at worst directly under the root). Sibling
// title collisions are resolved by suffixing "(n)".
func (t *Tree) AddContentPage(pageURL string, rec *model.PageRecord, breadcrumb []string) *Node {
	if len(breadcrumb) == 0 {
		breadcrumb = rec.Hierarchy
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	parent := t.root
	if len(breadcrumb) > 2 {
		for _, crumb := range breadcrumb[1 : len(breadcrumb)-1] {
			if child, ok := parent.Children[crumb]; ok {
				parent = child
			}
		}
	}

	title := t.root.Title
	if len(breadcrumb) > 0 {
		title = breadcrumb[len(breadcrumb)-1]
	}

	node := newNode(title, parent)
	node.URL = pageURL
	node.Record = rec
	node.Seq = t.nextSeq
	t.nextSeq++

	key := title
	for n := 1; ; n++ {
		if _, taken := parent.Children[key]; !taken {
			break
		}
		key = fmt.Sprintf("%s (%d)", title, n)
	}
	node.Title = key
	parent.Children[key] = node
	t.byURL[pageURL] = node
	return node
}

// Lookup returns the node attached to a URL, or nil.
func (t *Tree) Lookup(pageURL string) *Node {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byURL[pageURL]
}

// Len returns the number of URL-attached nodes.
func (t *Tree) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.byURL)
}

// UpdateHierarchies recomputes every attached record's hierarchy by walking
// parent links up to the root and collecting titles root-to-leaf. Menu-
// derived placeholder hierarchies get corrected here once all discovery
// phases have completed. Running it again is a no-op.
func (t *Tree) UpdateHierarchies() {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, node := range t.byURL {
		if node.Record == nil {
			continue
		}
		var titles []string
		for cur := node; cur != nil; cur = cur.Parent {
			titles = append([]string{cur.Title}, titles...)
		}
		node.Record.Hierarchy = titles
	}
}

// skipRoot drops the leading root-label segment of a hierarchy path.
func skipRoot(hierarchy []string) []string {
	if len(hierarchy) == 0 {
		return nil
	}
	return hierarchy[1:]
}
