// Package credit groups the writing, producer, creative and crew credits of
// a material or production into ordered, named credit records.
package credit

import (
	"context"
	"sort"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

// Family is one kind of credit together with its defaults.
type Family struct {
	Name    string
	Types   []store.RelType
	Model   document.Model
	Default string
	// Members reports whether company credits of this family carry member
	// edges.
	Members bool
}

var (
	Writing = Family{
		Name:    "writing",
		Types:   []store.RelType{store.RelWritingCredit, store.RelUsesSourceMaterial},
		Model:   document.ModelWritingCredit,
		Default: "by",
	}
	Producer = Family{
		Name:    "producer",
		Types:   []store.RelType{store.RelProducerCredit},
		Model:   document.ModelProducerCredit,
		Default: "produced by",
		Members: true,
	}
	Creative = Family{
		Name:    "creative",
		Types:   []store.RelType{store.RelCreativeCredit},
		Model:   document.ModelCreativeCredit,
		Default: "creative team",
		Members: true,
	}
	Crew = Family{
		Name:    "crew",
		Types:   []store.RelType{store.RelCrewCredit},
		Model:   document.ModelCrewCredit,
		Default: "crew",
		Members: true,
	}
)

// Families lists every credit family.
var Families = []Family{Writing, Producer, Creative, Crew}

// Credit types carried by writing credits.
const (
	TypeSpecific          = "specific"
	TypeNonSpecificSource = "non-specific-source"
	TypeRightsGrantor     = "rights-grantor"
)

// Edge property keys.
const (
	keyCreditName    = "creditName"
	keyCreditType    = "creditType"
	keyCreditPos     = "creditPosition"
	keyEntityPos     = "entityPosition"
	keyMemberPos     = "memberPosition"
	keyCreditedCoUID = "creditedCompanyUuid"
)

// Entry is one credited entity.
type Entry struct {
	Node store.Node
	Edge store.Edge
	// Members are the people credited for this company, by memberPosition.
	Members []store.Node
}

// Group is one credit: every entity sharing a creditPosition.
type Group struct {
	Name       string
	Position   *int
	CreditType string
	Entries    []Entry
}

// Load reads the credit edges of one family leaving source and groups them.
func Load(ctx context.Context, r store.Reader, source string, f Family) ([]Group, error) {
	steps, err := traverse.Edges(ctx, r, source, store.Outgoing, f.Types...)
	if err != nil {
		return nil, err
	}
	return Build(f, steps), nil
}

type row struct {
	node store.Node
	edge store.Edge
}

type groupKey struct {
	position int
	hasPos   bool
	name     string
}

// Build groups credit edges by creditPosition. Rows without a creditPosition
// group by their label and sort after positioned groups. Within a group,
// entities are ordered by entityPosition and appear once each. Member edges,
// those naming a creditedCompanyUuid, are attached to their company and never
// surface as entities. Groups left with no entities are dropped.
func Build(f Family, steps []traverse.Step) []Group {
	label := func(e store.Edge) string {
		if name := e.Props.String(keyCreditName); name != "" {
			return name
		}
		return f.Default
	}
	keyOf := func(e store.Edge) groupKey {
		if pos, ok := e.Props.Int(keyCreditPos); ok {
			return groupKey{position: pos, hasPos: true}
		}
		return groupKey{name: label(e)}
	}

	entities := make(map[groupKey][]row)
	members := make(map[groupKey]map[string][]row)
	order := make([]groupKey, 0)
	seen := make(map[groupKey]bool)
	for _, step := range steps {
		edge := step.Edge()
		key := keyOf(edge)
		if !seen[key] {
			seen[key] = true
			order = append(order, key)
		}
		if company := edge.Props.String(keyCreditedCoUID); f.Members && company != "" {
			if members[key] == nil {
				members[key] = make(map[string][]row)
			}
			members[key][company] = append(members[key][company], row{node: step.Node, edge: edge})
			continue
		}
		entities[key] = append(entities[key], row{node: step.Node, edge: edge})
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		rows := entities[key]
		if len(rows) == 0 {
			continue
		}
		sortRows(rows, keyEntityPos)

		group := Group{Name: label(rows[0].edge)}
		if key.hasPos {
			pos := key.position
			group.Position = &pos
		}
		done := make(map[string]bool, len(rows))
		for _, row := range rows {
			if group.CreditType == "" {
				group.CreditType = row.edge.Props.String(keyCreditType)
			}
			if done[row.node.UUID] {
				continue
			}
			done[row.node.UUID] = true
			entry := Entry{Node: row.node, Edge: row.edge}
			if row.node.Label == store.LabelCompany && f.Members {
				entry.Members = memberNodes(members[key][row.node.UUID])
			}
			group.Entries = append(group.Entries, entry)
		}
		groups = append(groups, group)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch {
		case a.Position != nil && b.Position != nil:
			return *a.Position < *b.Position
		case a.Position != nil:
			return true
		case b.Position != nil:
			return false
		}
		return a.Name < b.Name
	})
	return groups
}

func memberNodes(rows []row) []store.Node {
	sortRows(rows, keyMemberPos)
	nodes := make([]store.Node, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.node.UUID] {
			continue
		}
		seen[row.node.UUID] = true
		nodes = append(nodes, row.node)
	}
	return nodes
}

// sortRows orders rows by an ordinal edge property (absent last), then node
// name and uuid.
func sortRows(rows []row, key string) {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := traverse.ComparePositions(rows[i].edge.Props, rows[j].edge.Props, key); c != 0 {
			return c < 0
		}
		if rows[i].node.Name != rows[j].node.Name {
			return rows[i].node.Name < rows[j].node.Name
		}
		return rows[i].node.UUID < rows[j].node.UUID
	})
}

// Filter keeps the groups whose credit type satisfies keep. An empty credit
// type reads as specific.
func Filter(groups []Group, keep func(creditType string) bool) []Group {
	kept := make([]Group, 0, len(groups))
	for _, g := range groups {
		t := g.CreditType
		if t == "" {
			t = TypeSpecific
		}
		if keep(t) {
			kept = append(kept, g)
		}
	}
	return kept
}

// Holds reports whether subject is credited in any group, as an entity or
// as a company member.
func Holds(groups []Group, subject string) bool {
	for _, g := range groups {
		for _, e := range g.Entries {
			if e.Node.UUID == subject {
				return true
			}
			for _, m := range e.Members {
				if m.UUID == subject {
					return true
				}
			}
		}
	}
	return false
}
