package view

import (
	"context"

	"github.com/cockroachdb/errors"

	"playbill/internal/award"
	"playbill/internal/credit"
	"playbill/internal/document"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

// builder holds everything read while assembling one document. Summaries are
// cached by uuid so a node reached along several paths is read and projected
// once, and the output holds copies rather than shared handles.
type builder struct {
	r           store.Reader
	awards      *award.Loader
	nodes       map[string]store.Node
	materials   map[string]document.MaterialSummary
	entities    map[string]document.Entity
	productions map[string]document.ProductionSummary
	credits     map[creditKey][]credit.Group
}

type creditKey struct {
	family string
	source string
}

func newBuilder(r store.Reader) *builder {
	return &builder{
		r:           r,
		awards:      award.NewLoader(r),
		nodes:       make(map[string]store.Node),
		materials:   make(map[string]document.MaterialSummary),
		entities:    make(map[string]document.Entity),
		productions: make(map[string]document.ProductionSummary),
		credits:     make(map[creditKey][]credit.Group),
	}
}

func (b *builder) build(ctx context.Context, kind Kind, n store.Node) (any, error) {
	switch kind {
	case KindMaterial:
		return b.material(ctx, n)
	case KindPerson:
		return b.person(ctx, n)
	case KindCompany:
		return b.company(ctx, n)
	case KindProduction:
		return b.production(ctx, n)
	case KindVenue:
		return b.venue(ctx, n)
	case KindCharacter:
		return b.character(ctx, n)
	case KindAward:
		return b.award(ctx, n)
	case KindAwardCeremony:
		return b.ceremony(ctx, n)
	case KindFestival:
		return b.festival(ctx, n)
	case KindFestivalSeries:
		return b.festivalSeries(ctx, n)
	case KindSeason:
		return b.season(ctx, n)
	default:
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
}

func (b *builder) node(ctx context.Context, id string) (store.Node, error) {
	if n, ok := b.nodes[id]; ok {
		return n, nil
	}
	n, err := b.r.GetNode(ctx, id)
	if err != nil {
		return store.Node{}, err
	}
	b.nodes[id] = n
	return n, nil
}

// neighbours returns the distinct nodes of a label joined to id by rel, in
// uuid order.
func (b *builder) neighbours(ctx context.Context, id string, dir store.Direction, rel store.RelType, label store.Label) ([]store.Node, error) {
	steps, err := traverse.Edges(ctx, b.r, id, dir, rel)
	if err != nil {
		return nil, err
	}
	out := make([]store.Node, 0, len(steps))
	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if step.Node.Label != label || seen[step.Node.UUID] {
			continue
		}
		seen[step.Node.UUID] = true
		b.nodes[step.Node.UUID] = step.Node
		out = append(out, step.Node)
	}
	return out, nil
}

// neighbour returns the first node neighbours finds, or nil.
func (b *builder) neighbour(ctx context.Context, id string, dir store.Direction, rel store.RelType, label store.Label) (*store.Node, error) {
	nodes, err := b.neighbours(ctx, id, dir, rel, label)
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return &nodes[0], nil
}

func (b *builder) creditGroups(ctx context.Context, source string, f credit.Family) ([]credit.Group, error) {
	key := creditKey{family: f.Name, source: source}
	if groups, ok := b.credits[key]; ok {
		return groups, nil
	}
	groups, err := credit.Load(ctx, b.r, source, f)
	if err != nil {
		return nil, err
	}
	b.credits[key] = groups
	return groups, nil
}

// writingCredits renders a material's writing credits. Credited materials
// carry their own credits one level down.
func (b *builder) writingCredits(ctx context.Context, material string) ([]document.Credit, error) {
	groups, err := b.creditGroups(ctx, material, credit.Writing)
	if err != nil {
		return nil, err
	}
	return credit.Render(ctx, credit.Writing, groups, b.materialEntity)
}

// materialEntity renders a material credited as a source.
func (b *builder) materialEntity(ctx context.Context, n store.Node) (document.Entity, error) {
	if e, ok := b.entities[n.UUID]; ok {
		return e, nil
	}
	summary := document.EntityOf(n).(document.Material).MaterialSummary
	sur, err := b.surMaterial(ctx, n.UUID)
	if err != nil {
		return nil, err
	}
	summary.SurMaterial = sur
	groups, err := b.creditGroups(ctx, n.UUID, credit.Writing)
	if err != nil {
		return nil, err
	}
	if summary.WritingCredits, err = credit.Render(ctx, credit.Writing, groups, nil); err != nil {
		return nil, err
	}
	e := document.Material{MaterialSummary: summary}
	b.entities[n.UUID] = e
	return e, nil
}

func (b *builder) surMaterial(ctx context.Context, id string) (*document.SurMaterial, error) {
	link, err := hierarchy.Ancestors(ctx, b.r, hierarchy.Materials, id)
	if err != nil || link == nil {
		return nil, err
	}
	sur := &document.SurMaterial{Ref: document.RefOf(link.Self)}
	if link.Ancestor != nil {
		ref := document.RefOf(link.Ancestor.Self)
		sur.SurMaterial = &ref
	}
	return sur, nil
}

func (b *builder) surProduction(ctx context.Context, id string) (*document.SurProduction, error) {
	link, err := hierarchy.Ancestors(ctx, b.r, hierarchy.Productions, id)
	if err != nil || link == nil {
		return nil, err
	}
	sur := &document.SurProduction{Ref: productionRef(link.Self)}
	if link.Ancestor != nil {
		ref := productionRef(link.Ancestor.Self)
		sur.SurProduction = &ref
	}
	return sur, nil
}

func (b *builder) venueSummary(ctx context.Context, n store.Node) (*document.VenueSummary, error) {
	link, err := hierarchy.Ancestors(ctx, b.r, hierarchy.Venues, n.UUID)
	if err != nil {
		return nil, err
	}
	v := &document.VenueSummary{Ref: document.RefOf(n)}
	if link != nil {
		ref := document.RefOf(link.Self)
		v.SurVenue = &ref
	}
	return v, nil
}

// Material returns the summary projection of a material.
func (b *builder) Material(ctx context.Context, id string) (document.MaterialSummary, error) {
	if m, ok := b.materials[id]; ok {
		return m, nil
	}
	n, err := b.node(ctx, id)
	if err != nil {
		return document.MaterialSummary{}, err
	}
	m := document.MaterialSummary{
		Ref:    document.RefOf(n),
		Format: n.Props.OptString(propFormat),
		Year:   n.Props.OptInt(propYear),
	}
	if m.SurMaterial, err = b.surMaterial(ctx, id); err != nil {
		return m, err
	}
	if m.WritingCredits, err = b.writingCredits(ctx, id); err != nil {
		return m, err
	}
	b.materials[id] = m
	return m, nil
}

// Production returns the summary projection of a production.
func (b *builder) Production(ctx context.Context, id string) (document.ProductionSummary, error) {
	if p, ok := b.productions[id]; ok {
		return p, nil
	}
	n, err := b.node(ctx, id)
	if err != nil {
		return document.ProductionSummary{}, err
	}
	p := document.ProductionSummary{
		Model:     document.ModelProduction,
		UUID:      n.UUID,
		Name:      n.Name,
		Subtitle:  n.Props.OptString(propSubtitle),
		StartDate: n.Props.OptString(propStartDate),
		EndDate:   n.Props.OptString(propEndDate),
	}
	venue, err := b.neighbour(ctx, id, store.Outgoing, store.RelPlaysAt, store.LabelVenue)
	if err != nil {
		return p, err
	}
	if venue != nil {
		if p.Venue, err = b.venueSummary(ctx, *venue); err != nil {
			return p, err
		}
	}
	if p.SurProduction, err = b.surProduction(ctx, id); err != nil {
		return p, err
	}
	b.productions[id] = p
	return p, nil
}

func (b *builder) materialSummaries(ctx context.Context, nodes []store.Node) ([]document.MaterialSummary, error) {
	out := make([]document.MaterialSummary, 0, len(nodes))
	for _, n := range nodes {
		m, err := b.Material(ctx, n.UUID)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sortMaterials(out)
	return out, nil
}

func (b *builder) productionSummaries(ctx context.Context, ids []string) ([]document.ProductionSummary, error) {
	out := make([]document.ProductionSummary, 0, len(ids))
	for _, id := range ids {
		p, err := b.Production(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	sortProductions(out)
	return out, nil
}

// productionsOf lists the productions of the given materials. A container
// production is dropped when one of its sub-productions is also listed.
func (b *builder) productionsOf(ctx context.Context, materials []string) ([]document.ProductionSummary, error) {
	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range materials {
		prods, err := b.neighbours(ctx, m, store.Incoming, store.RelProductionOf, store.LabelProduction)
		if err != nil {
			return nil, err
		}
		for _, p := range prods {
			if !seen[p.UUID] {
				seen[p.UUID] = true
				ids = append(ids, p.UUID)
			}
		}
	}
	ids, err := hierarchy.ExcludeContainers(ctx, b.r, hierarchy.Productions, ids)
	if err != nil {
		return nil, err
	}
	return b.productionSummaries(ctx, ids)
}

// sourcing lists the materials that use any of the given materials as a
// source, through a source-material relationship or a writing credit.
func (b *builder) sourcing(ctx context.Context, materials []string) ([]store.Node, error) {
	out := make([]store.Node, 0)
	seen := make(map[string]bool)
	for _, m := range materials {
		for _, rel := range []store.RelType{store.RelUsesSourceMaterial, store.RelWritingCredit} {
			nodes, err := b.neighbours(ctx, m, store.Incoming, rel, store.LabelMaterial)
			if err != nil {
				return nil, err
			}
			for _, n := range nodes {
				if !seen[n.UUID] {
					seen[n.UUID] = true
					out = append(out, n)
				}
			}
		}
	}
	return out, nil
}

// subsequentVersions lists the materials declared later versions of any of
// the given materials.
func (b *builder) subsequentVersions(ctx context.Context, materials []string) ([]store.Node, error) {
	out := make([]store.Node, 0)
	seen := make(map[string]bool)
	for _, m := range materials {
		nodes, err := b.neighbours(ctx, m, store.Incoming, store.RelSubsequentVersionOf, store.LabelMaterial)
		if err != nil {
			return nil, err
		}
		for _, n := range nodes {
			if !seen[n.UUID] {
				seen[n.UUID] = true
				out = append(out, n)
			}
		}
	}
	return out, nil
}

func productionRef(n store.Node) document.Ref {
	ref := document.RefOf(n)
	ref.Differentiator = nil
	return ref
}

func uuids(nodes []store.Node) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.UUID)
	}
	return out
}

func set(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}

func without(nodes []store.Node, drop map[string]bool) []store.Node {
	out := make([]store.Node, 0, len(nodes))
	for _, n := range nodes {
		if !drop[n.UUID] {
			out = append(out, n)
		}
	}
	return out
}
