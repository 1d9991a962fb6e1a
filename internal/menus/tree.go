package menus

import (
	"cmp"
	"slices"
)

// Media is a resolved icon or video file.
type Media struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Node is one storefront menu entry. Catalog nodes carry ids prefixed with
// "catalog_" and arrive with their Children already filled.
type Node struct {
	ID              string  `json:"id"`
	ParentID        string  `json:"parent_id,omitempty"`
	Title           string  `json:"title"`
	URL             string  `json:"url"`
	Type            string  `json:"type"`
	Description     string  `json:"description,omitempty"`
	DescriptionHTML string  `json:"description_html,omitempty"`
	CustomClass     string  `json:"custom_class,omitempty"`
	OpenInNewTab    bool    `json:"open_in_new_tab"`
	IsFeatured      bool    `json:"is_featured"`
	Position        int     `json:"position"`
	Icon            *Media  `json:"icon"`
	Video           *Media  `json:"video"`
	VideoURL        string  `json:"video_url,omitempty"`
	Children        []*Node `json:"children"`
}

// BuildTree nests a flat node list by ParentID. Siblings are ordered by
// position and a node's existing children (catalog expansion) follow its
// manual children. Every input node appears exactly once: nodes whose parent
// is missing and members of parent cycles are promoted to the top level.
func BuildTree(nodes []*Node) []*Node {
	byID := make(map[string]*Node, len(nodes))
	for _, node := range nodes {
		if node.ID != "" {
			if _, dup := byID[node.ID]; !dup {
				byID[node.ID] = node
			}
		}
	}

	children := map[string][]*Node{}
	roots := []*Node{}
	for _, node := range nodes {
		parent, ok := byID[node.ParentID]
		if node.ParentID == "" || !ok || parent == node {
			roots = append(roots, node)
			continue
		}
		children[node.ParentID] = append(children[node.ParentID], node)
	}
	for key := range children {
		sortByPosition(children[key])
	}
	sortByPosition(roots)

	placed := map[*Node]bool{}
	var attach func(node *Node) *Node
	attach = func(node *Node) *Node {
		placed[node] = true
		out := *node
		out.Children = []*Node{}
		for _, child := range children[node.ID] {
			if placed[child] {
				continue
			}
			out.Children = append(out.Children, attach(child))
		}
		out.Children = append(out.Children, node.Children...)
		return &out
	}

	tree := make([]*Node, 0, len(roots))
	for _, root := range roots {
		if !placed[root] {
			tree = append(tree, attach(root))
		}
	}
	for _, node := range nodes {
		if !placed[node] {
			tree = append(tree, attach(node))
		}
	}
	return tree
}

func sortByPosition(nodes []*Node) {
	slices.SortStableFunc(nodes, func(a, b *Node) int { return cmp.Compare(a.Position, b.Position) })
}

// Breadcrumb is one step of the path to the current page.
type Breadcrumb struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	IsCurrent bool   `json:"is_current"`
}

// Breadcrumbs returns the first depth-first path through tree that ends at a
// node whose URL equals currentURL, or nil when there is none.
func Breadcrumbs(currentURL string, tree []*Node) []Breadcrumb {
	path := findPath(tree, currentURL, nil)
	if path == nil {
		return nil
	}
	crumbs := make([]Breadcrumb, 0, len(path))
	for _, node := range path {
		crumbs = append(crumbs, Breadcrumb{Title: node.Title, URL: node.URL, IsCurrent: node.URL == currentURL})
	}
	return crumbs
}

func findPath(nodes []*Node, target string, prefix []*Node) []*Node {
	for _, node := range nodes {
		path := append(slices.Clone(prefix), node)
		if node.URL == target {
			return path
		}
		if found := findPath(node.Children, target, path); found != nil {
			return found
		}
	}
	return nil
}
