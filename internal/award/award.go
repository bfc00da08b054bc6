// Package award aggregates NOMINEE relationships into nominations and
// arranges them into award, ceremony and category trees.
package award

import (
	"context"
	"sort"

	"playbill/internal/store"
	"playbill/internal/traverse"
)

// Defaults for nomination properties absent from the graph.
const (
	DefaultIsWinner = false
	TypeWinner      = "Winner"
	TypeNomination  = "Nomination"
)

// TypeOf derives the displayed nomination type.
func TypeOf(customType string, isWinner bool) string {
	switch {
	case customType != "":
		return customType
	case isWinner:
		return TypeWinner
	default:
		return TypeNomination
	}
}

const (
	keyNominationPos = "nominationPosition"
	keyEntityPos     = "entityPosition"
	keyMaterialPos   = "materialPosition"
	keyProductionPos = "productionPosition"
	keyMemberPos     = "memberPosition"
	keyIsWinner      = "isWinner"
	keyCustomType    = "customType"
	keyNominatedCo   = "nominatedCompanyUuid"
	keyPosition      = "position"
)

// Key identifies a nomination: the category and the position within it.
type Key struct {
	Category string
	Position int
	// Unpositioned is set for nominee edges without a nominationPosition.
	Unpositioned bool
}

// Nominee is a nominated person or company.
type Nominee struct {
	Node store.Node
	// Members are the people nominated for this company, by memberPosition.
	Members []store.Node
}

// Nomination is one entry within a category.
type Nomination struct {
	Key         Key
	IsWinner    bool
	CustomType  string
	Entities    []Nominee
	Productions []store.Node
	Materials   []store.Node
}

func (n Nomination) Type() string {
	return TypeOf(n.CustomType, n.IsWinner)
}

// Involves reports whether id is nominated in any capacity: as an entity,
// a company member, a material or a production.
func (n Nomination) Involves(id string) bool {
	for _, e := range n.Entities {
		if e.Node.UUID == id {
			return true
		}
		for _, m := range e.Members {
			if m.UUID == id {
				return true
			}
		}
	}
	for _, p := range n.Productions {
		if p.UUID == id {
			return true
		}
	}
	for _, m := range n.Materials {
		if m.UUID == id {
			return true
		}
	}
	return false
}

// Placement is where a category sits in its award tree.
type Placement struct {
	Category store.Node
	Position *int
	Ceremony store.Node
	Award    store.Node
}

// Loader reads nominations and their placements once per category within a
// single view build.
type Loader struct {
	r           store.Reader
	placements  map[string]Placement
	nominations map[string][]Nomination
}

func NewLoader(r store.Reader) *Loader {
	return &Loader{
		r:           r,
		placements:  make(map[string]Placement),
		nominations: make(map[string][]Nomination),
	}
}

// Place resolves the ceremony and award a category belongs to.
func (l *Loader) Place(ctx context.Context, category string) (Placement, error) {
	if p, ok := l.placements[category]; ok {
		return p, nil
	}
	node, err := l.r.GetNode(ctx, category)
	if err != nil {
		return Placement{}, err
	}
	steps, err := traverse.Walk(ctx, l.r, category, traverse.Spec{
		Types:     []store.RelType{store.RelPresentsCategory, store.RelPresentedAt},
		Direction: store.Incoming,
		MinHops:   1,
		MaxHops:   2,
	})
	if err != nil {
		return Placement{}, err
	}

	p := Placement{Category: node}
	for _, step := range steps {
		switch {
		case step.Depth() == 1 && step.Node.Label == store.LabelAwardCeremony && p.Ceremony.UUID == "":
			p.Ceremony = step.Node
			p.Position = step.Edge().Props.OptInt(keyPosition)
		case step.Depth() == 2 && step.Node.Label == store.LabelAward && p.Award.UUID == "":
			p.Award = step.Node
		}
	}
	l.placements[category] = p
	return p, nil
}

// Category returns every nomination of a category in position order.
func (l *Loader) Category(ctx context.Context, category string) ([]Nomination, error) {
	if noms, ok := l.nominations[category]; ok {
		return noms, nil
	}
	steps, err := traverse.Edges(ctx, l.r, category, store.Outgoing, store.RelNominee)
	if err != nil {
		return nil, err
	}
	noms := group(category, steps)
	l.nominations[category] = noms
	return noms, nil
}

// Involving returns the nominations in which any of ids is nominated, each
// once, ordered by category then position.
func (l *Loader) Involving(ctx context.Context, ids ...string) ([]Nomination, error) {
	wanted := make(map[string]bool, len(ids))
	categories := make([]string, 0)
	seenCategory := make(map[string]bool)
	for _, id := range ids {
		wanted[id] = true
		steps, err := traverse.Edges(ctx, l.r, id, store.Incoming, store.RelNominee)
		if err != nil {
			return nil, err
		}
		for _, step := range steps {
			if step.Node.Label != store.LabelAwardCeremonyCategory || seenCategory[step.Node.UUID] {
				continue
			}
			seenCategory[step.Node.UUID] = true
			categories = append(categories, step.Node.UUID)
		}
	}
	sort.Strings(categories)

	found := make([]Nomination, 0)
	for _, category := range categories {
		noms, err := l.Category(ctx, category)
		if err != nil {
			return nil, err
		}
		for _, nom := range noms {
			for id := range wanted {
				if nom.Involves(id) {
					found = append(found, nom)
					break
				}
			}
		}
	}
	return found, nil
}

type nomineeRow struct {
	node store.Node
	edge store.Edge
}

// group splits the NOMINEE edges of one category into nominations.
func group(category string, steps []traverse.Step) []Nomination {
	rows := make(map[Key][]nomineeRow)
	keys := make([]Key, 0)
	for _, step := range steps {
		edge := step.Edge()
		key := Key{Category: category}
		if pos, ok := edge.Props.Int(keyNominationPos); ok {
			key.Position = pos
		} else {
			key.Unpositioned = true
		}
		if _, ok := rows[key]; !ok {
			keys = append(keys, key)
		}
		rows[key] = append(rows[key], nomineeRow{node: step.Node, edge: edge})
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Unpositioned != keys[j].Unpositioned {
			return !keys[i].Unpositioned
		}
		return keys[i].Position < keys[j].Position
	})

	noms := make([]Nomination, 0, len(keys))
	for _, key := range keys {
		noms = append(noms, build(key, rows[key]))
	}
	return noms
}

func build(key Key, rows []nomineeRow) Nomination {
	nom := Nomination{
		Key:         key,
		IsWinner:    DefaultIsWinner,
		Entities:    make([]Nominee, 0),
		Productions: make([]store.Node, 0),
		Materials:   make([]store.Node, 0),
	}

	var entities, productions, materials []nomineeRow
	members := make(map[string][]nomineeRow)
	for _, row := range rows {
		if row.edge.Props.Bool(keyIsWinner) {
			nom.IsWinner = true
		}
		if t := row.edge.Props.String(keyCustomType); t != "" && nom.CustomType == "" {
			nom.CustomType = t
		}
		switch row.node.Label {
		case store.LabelPerson, store.LabelCompany:
			if company := row.edge.Props.String(keyNominatedCo); company != "" {
				members[company] = append(members[company], row)
				continue
			}
			entities = append(entities, row)
		case store.LabelProduction:
			productions = append(productions, row)
		case store.LabelMaterial:
			materials = append(materials, row)
		}
	}

	for _, row := range distinct(entities, keyEntityPos) {
		nominee := Nominee{Node: row.node}
		if row.node.Label == store.LabelCompany {
			nominee.Members = nodes(distinct(members[row.node.UUID], keyMemberPos))
		}
		nom.Entities = append(nom.Entities, nominee)
	}
	nom.Productions = nodes(distinct(productions, keyProductionPos))
	nom.Materials = nodes(distinct(materials, keyMaterialPos))
	return nom
}

// distinct orders rows by an ordinal (absent last), name and uuid, keeping
// the first row per node.
func distinct(rows []nomineeRow, key string) []nomineeRow {
	sort.SliceStable(rows, func(i, j int) bool {
		if c := traverse.ComparePositions(rows[i].edge.Props, rows[j].edge.Props, key); c != 0 {
			return c < 0
		}
		if rows[i].node.Name != rows[j].node.Name {
			return rows[i].node.Name < rows[j].node.Name
		}
		return rows[i].node.UUID < rows[j].node.UUID
	})
	out := make([]nomineeRow, 0, len(rows))
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seen[row.node.UUID] {
			continue
		}
		seen[row.node.UUID] = true
		out = append(out, row)
	}
	return out
}

func nodes(rows []nomineeRow) []store.Node {
	out := make([]store.Node, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.node)
	}
	return out
}
