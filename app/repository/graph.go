package repository

import "github.com/ManuelReschke/ReviewDesk/app/models"

type relation uint8

const (
	relInspectors relation = iota // report -> assigned users
	relOwned                      // user -> owned reports
	relInspected                  // user -> reports under inspection
)

type edge struct {
	parent uint
	rel    relation
	child  uint
}

// graph folds join rows into one node per parent identity. Nodes keep
// first-seen order; edges are recorded per (parent, relation, child) so a
// child is attached to a parent at most once per relation.
type graph[T any] struct {
	order []uint
	nodes map[uint]*T
	edges map[edge]struct{}
}

func newGraph[T any]() *graph[T] {
	return &graph[T]{
		nodes: make(map[uint]*T),
		edges: make(map[edge]struct{}),
	}
}

// node returns the node for id. v is stored only the first time id is seen;
// later decodes of the same parent are discarded.
func (g *graph[T]) node(id uint, v T) *T {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &v
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// link records the edge and reports whether it was new.
func (g *graph[T]) link(parent uint, rel relation, child uint) bool {
	e := edge{parent: parent, rel: rel, child: child}
	if _, ok := g.edges[e]; ok {
		return false
	}
	g.edges[e] = struct{}{}
	return true
}

func (g *graph[T]) values() []T {
	out := make([]T, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, *g.nodes[id])
	}
	return out
}

// reportGraph assembles reports with their inspectors from rows of
// reports LEFT JOIN report_inspectors LEFT JOIN users.
type reportGraph struct {
	g *graph[models.Report]
}

func newReportGraph() *reportGraph {
	return &reportGraph{g: newGraph[models.Report]()}
}

func (rg *reportGraph) add(row *joinRow) error {
	report, ok, err := row.Report.decode()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	node := rg.g.node(report.ID, report)

	inspector, ok, err := row.User.decode()
	if err != nil {
		return err
	}
	if !ok || !row.assigned() {
		return nil
	}
	if rg.g.link(node.ID, relInspectors, inspector.ID) {
		node.Inspectors = append(node.Inspectors, inspector)
	}
	return nil
}

func (rg *reportGraph) reports() []models.Report {
	return rg.g.values()
}

// userGraph assembles users with owned and inspected reports from rows of
// users LEFT JOIN report_inspectors LEFT JOIN reports ON (owner OR assignment).
// The report columns of a row may belong to either relation, so each one is
// checked against the row's foreign keys before attaching.
type userGraph struct {
	g *graph[models.User]
}

func newUserGraph() *userGraph {
	return &userGraph{g: newGraph[models.User]()}
}

func (ug *userGraph) add(row *joinRow) error {
	user, ok, err := row.User.decode()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	node := ug.g.node(user.ID, user)

	report, ok, err := row.Report.decode()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if row.assigned() && ug.g.link(node.ID, relInspected, report.ID) {
		node.ReportsInspected = append(node.ReportsInspected, report)
	}
	if row.owned() && ug.g.link(node.ID, relOwned, report.ID) {
		node.ReportsOwned = append(node.ReportsOwned, report)
	}
	return nil
}

func (ug *userGraph) users() []models.User {
	return ug.g.values()
}
