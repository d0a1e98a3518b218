package model

// Document is an indexed flow export.
// It is built once from the decoded nodes and is read-only afterwards.
type Document struct {
	// nodes holds every node in input order.
	nodes []Node

	// byType groups nodes by their type, preserving input order within each group.
	byType map[string][]Node

	// types lists type names in the order they were first seen.
	types []string

	// pages maps ui-page ids to their nodes.
	pages map[string]Node

	// groups maps ui-group ids to their nodes.
	groups map[string]Node
}

// NewDocument indexes nodes in a single pass.
// Pages and groups without an id are listed but cannot be joined against.
// When two pages (or groups) share an id, the later one wins.
func NewDocument(nodes []Node) *Document {
	d := &Document{
		nodes:  nodes,
		byType: make(map[string][]Node),
		pages:  make(map[string]Node),
		groups: make(map[string]Node),
	}

	for _, n := range nodes {
		typ := n.Type()
		if _, seen := d.byType[typ]; !seen {
			d.types = append(d.types, typ)
		}
		d.byType[typ] = append(d.byType[typ], n)

		id := n.ID()
		if id == "" {
			continue
		}
		switch typ {
		case TypeUIPage:
			d.pages[id] = n
		case TypeUIGroup:
			d.groups[id] = n
		}
	}

	return d
}

// Len returns the total number of nodes.
func (d *Document) Len() int {
	return len(d.nodes)
}

// TypeCount returns the number of distinct node types.
func (d *Document) TypeCount() int {
	return len(d.types)
}

// Types returns the distinct node types in first-seen order.
func (d *Document) Types() []string {
	return d.types
}

// NodesOf returns the nodes of the given type in input order.
func (d *Document) NodesOf(typ string) []Node {
	return d.byType[typ]
}

// CountOf returns the number of nodes of the given type.
func (d *Document) CountOf(typ string) int {
	return len(d.byType[typ])
}

// Page looks up a ui-page by id.
func (d *Document) Page(id string) (Node, bool) {
	n, ok := d.pages[id]
	return n, ok
}

// Group looks up a ui-group by id.
func (d *Document) Group(id string) (Node, bool) {
	n, ok := d.groups[id]
	return n, ok
}

// PageName resolves a page id to the page's name, or Unknown.
func (d *Document) PageName(id string) string {
	page, ok := d.Page(id)
	if !ok {
		return Unknown
	}
	return page.String("name", Unknown)
}

// GroupName resolves a group id to the group's name, or Unknown.
func (d *Document) GroupName(id string) string {
	group, ok := d.Group(id)
	if !ok {
		return Unknown
	}
	return group.String("name", Unknown)
}

// Placement resolves the page and group names of a UI component
// through its group reference and the group's page reference.
func (d *Document) Placement(component Node) (page, group string) {
	g, ok := d.Group(component.String("group", ""))
	if !ok {
		return Unknown, Unknown
	}
	return d.PageName(g.String("page", "")), g.String("name", Unknown)
}

// FunctionsByCategory classifies every function node.
// Each category maps to its nodes in input order; empty categories are absent.
func (d *Document) FunctionsByCategory(c *Classifier) map[Category][]Node {
	result := make(map[Category][]Node)
	for _, fn := range d.NodesOf(TypeFunction) {
		category := c.ClassifyNode(fn)
		result[category] = append(result[category], fn)
	}
	return result
}
