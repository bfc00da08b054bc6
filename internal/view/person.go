package view

import (
	"context"
	"sort"

	"playbill/internal/award"
	"playbill/internal/character"
	"playbill/internal/credit"
	"playbill/internal/document"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

// authorship is what a person or company wrote, split by credit type.
type authorship struct {
	materials     []store.Node
	nonSpecific   []store.Node
	rightsGrantor []store.Node
	subsequent    []store.Node
	sourcing      []store.Node
}

func (b *builder) authorship(ctx context.Context, subject string) (authorship, error) {
	var a authorship
	written, err := b.neighbours(ctx, subject, store.Incoming, store.RelWritingCredit, store.LabelMaterial)
	if err != nil {
		return a, err
	}
	for _, m := range written {
		groups, err := b.creditGroups(ctx, m.UUID, credit.Writing)
		if err != nil {
			return a, err
		}
		if credit.Holds(credit.Filter(groups, isSpecific), subject) {
			a.materials = append(a.materials, m)
		}
	}
	if a.rightsGrantor, err = b.creditedAs(ctx, subject, credit.TypeRightsGrantor); err != nil {
		return a, err
	}
	if a.nonSpecific, err = b.creditedAs(ctx, subject, credit.TypeNonSpecificSource); err != nil {
		return a, err
	}

	own := set(uuids(a.materials))
	subsequent, err := b.subsequentVersions(ctx, uuids(a.materials))
	if err != nil {
		return a, err
	}
	a.subsequent = without(subsequent, own)

	sourcing, err := b.sourcing(ctx, uuids(a.materials))
	if err != nil {
		return a, err
	}
	sourcing = append(sourcing, a.nonSpecific...)
	a.sourcing = without(distinctNodes(sourcing), own)
	return a, nil
}

func isSpecific(creditType string) bool {
	return creditType == credit.TypeSpecific
}

// creditedAs lists the materials crediting subject with the given credit
// type, in uuid order.
func (b *builder) creditedAs(ctx context.Context, subject, creditType string) ([]store.Node, error) {
	steps, err := traverse.Walk(ctx, b.r, subject, traverse.Spec{
		Types:     []store.RelType{store.RelWritingCredit},
		Direction: store.Incoming,
		MinHops:   1,
		MaxHops:   1,
		Labels:    []store.Label{store.LabelMaterial},
		Filter:    map[string]any{"creditType": creditType},
	})
	if err != nil {
		return nil, err
	}
	nodes := make([]store.Node, 0, len(steps))
	for _, step := range steps {
		b.nodes[step.Node.UUID] = step.Node
		nodes = append(nodes, step.Node)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].UUID < nodes[j].UUID })
	return nodes, nil
}

// writtenWorks fills the material and material-production lists shared by
// person and company views.
type writtenWorks struct {
	Materials                        []document.MaterialSummary
	SubsequentVersionMaterials       []document.MaterialSummary
	SourcingMaterials                []document.MaterialSummary
	RightsGrantorMaterials           []document.MaterialSummary
	MaterialProductions              []document.ProductionSummary
	SourcingMaterialProductions      []document.ProductionSummary
	RightsGrantorMaterialProductions []document.ProductionSummary
}

func (b *builder) writtenWorks(ctx context.Context, a authorship) (writtenWorks, error) {
	var w writtenWorks
	var err error
	if w.Materials, err = b.materialSummaries(ctx, a.materials); err != nil {
		return w, err
	}
	if w.SubsequentVersionMaterials, err = b.materialSummaries(ctx, a.subsequent); err != nil {
		return w, err
	}
	if w.SourcingMaterials, err = b.materialSummaries(ctx, a.sourcing); err != nil {
		return w, err
	}
	if w.RightsGrantorMaterials, err = b.materialSummaries(ctx, a.rightsGrantor); err != nil {
		return w, err
	}
	if w.MaterialProductions, err = b.productionsOf(ctx, uuids(a.materials)); err != nil {
		return w, err
	}
	if w.SourcingMaterialProductions, err = b.productionsOf(ctx, uuids(a.sourcing)); err != nil {
		return w, err
	}
	if w.RightsGrantorMaterialProductions, err = b.productionsOf(ctx, uuids(a.rightsGrantor)); err != nil {
		return w, err
	}
	return w, nil
}

type productionCredits[C any] struct {
	production document.ProductionSummary
	credits    []C
}

// creditedProductions lists the productions on which subject holds a credit
// of family f, with the credits projected for subject.
func creditedProductions[C any](ctx context.Context, b *builder, subject string, f credit.Family, project func(credit.Family, []credit.Group, string) []C) ([]productionCredits[C], error) {
	ids := make([]string, 0)
	for _, rel := range f.Types {
		prods, err := b.neighbours(ctx, subject, store.Incoming, rel, store.LabelProduction)
		if err != nil {
			return nil, err
		}
		ids = append(ids, uuids(prods)...)
	}
	summaries, err := b.productionSummaries(ctx, distinctStrings(ids))
	if err != nil {
		return nil, err
	}

	out := make([]productionCredits[C], 0, len(summaries))
	for _, p := range summaries {
		groups, err := b.creditGroups(ctx, p.UUID, f)
		if err != nil {
			return nil, err
		}
		credits := project(f, groups, subject)
		if len(credits) == 0 {
			continue
		}
		out = append(out, productionCredits[C]{production: p, credits: credits})
	}
	return out, nil
}

func (b *builder) person(ctx context.Context, n store.Node) (*document.PersonView, error) {
	a, err := b.authorship(ctx, n.UUID)
	if err != nil {
		return nil, err
	}
	works, err := b.writtenWorks(ctx, a)
	if err != nil {
		return nil, err
	}
	doc := &document.PersonView{
		Ref:                              document.RefOf(n),
		Materials:                        works.Materials,
		SubsequentVersionMaterials:       works.SubsequentVersionMaterials,
		SourcingMaterials:                works.SourcingMaterials,
		RightsGrantorMaterials:           works.RightsGrantorMaterials,
		MaterialProductions:              works.MaterialProductions,
		SourcingMaterialProductions:      works.SourcingMaterialProductions,
		RightsGrantorMaterialProductions: works.RightsGrantorMaterialProductions,
	}

	producer, err := creditedProductions(ctx, b, n.UUID, credit.Producer, credit.ForPerson)
	if err != nil {
		return nil, err
	}
	doc.ProducerProductions = make([]document.ProducerProduction[document.PersonCredit], 0, len(producer))
	for _, pc := range producer {
		doc.ProducerProductions = append(doc.ProducerProductions, document.ProducerProduction[document.PersonCredit]{ProductionSummary: pc.production, ProducerCredits: pc.credits})
	}

	if doc.CastMemberProductions, err = b.castMemberProductions(ctx, n.UUID); err != nil {
		return nil, err
	}

	creative, err := creditedProductions(ctx, b, n.UUID, credit.Creative, credit.ForPerson)
	if err != nil {
		return nil, err
	}
	doc.CreativeProductions = make([]document.CreativeProduction[document.PersonCredit], 0, len(creative))
	for _, pc := range creative {
		doc.CreativeProductions = append(doc.CreativeProductions, document.CreativeProduction[document.PersonCredit]{ProductionSummary: pc.production, CreativeCredits: pc.credits})
	}

	crew, err := creditedProductions(ctx, b, n.UUID, credit.Crew, credit.ForPerson)
	if err != nil {
		return nil, err
	}
	doc.CrewProductions = make([]document.CrewProduction[document.PersonCredit], 0, len(crew))
	for _, pc := range crew {
		doc.CrewProductions = append(doc.CrewProductions, document.CrewProduction[document.PersonCredit]{ProductionSummary: pc.production, CrewCredits: pc.credits})
	}

	direct, err := b.awards.Involving(ctx, n.UUID)
	if err != nil {
		return nil, err
	}
	if doc.Awards, err = award.Collect(ctx, b.awards, direct, award.ForPerson(b, n.UUID, nil)); err != nil {
		return nil, err
	}
	indirect := func(via award.Via, recipients []store.Node) ([]document.Award[document.PersonNomination], error) {
		ids := uuids(recipients)
		noms, err := b.awards.Involving(ctx, ids...)
		if err != nil {
			return nil, err
		}
		return award.Collect(ctx, b.awards, noms, award.ForPerson(b, n.UUID, &award.Indirect{Via: via, Recipients: set(ids)}))
	}
	if doc.SubsequentVersionMaterialAwards, err = indirect(award.ViaSubsequentVersion, a.subsequent); err != nil {
		return nil, err
	}
	if doc.SourcingMaterialAwards, err = indirect(award.ViaSourcing, a.sourcing); err != nil {
		return nil, err
	}
	if doc.RightsGrantorMaterialAwards, err = indirect(award.ViaRightsGrantor, a.rightsGrantor); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *builder) company(ctx context.Context, n store.Node) (*document.CompanyView, error) {
	a, err := b.authorship(ctx, n.UUID)
	if err != nil {
		return nil, err
	}
	works, err := b.writtenWorks(ctx, a)
	if err != nil {
		return nil, err
	}
	doc := &document.CompanyView{
		Ref:                              document.RefOf(n),
		Materials:                        works.Materials,
		SubsequentVersionMaterials:       works.SubsequentVersionMaterials,
		SourcingMaterials:                works.SourcingMaterials,
		RightsGrantorMaterials:           works.RightsGrantorMaterials,
		MaterialProductions:              works.MaterialProductions,
		SourcingMaterialProductions:      works.SourcingMaterialProductions,
		RightsGrantorMaterialProductions: works.RightsGrantorMaterialProductions,
	}

	producer, err := creditedProductions(ctx, b, n.UUID, credit.Producer, credit.ForCompany)
	if err != nil {
		return nil, err
	}
	doc.ProducerProductions = make([]document.ProducerProduction[document.CompanyCredit], 0, len(producer))
	for _, pc := range producer {
		doc.ProducerProductions = append(doc.ProducerProductions, document.ProducerProduction[document.CompanyCredit]{ProductionSummary: pc.production, ProducerCredits: pc.credits})
	}

	creative, err := creditedProductions(ctx, b, n.UUID, credit.Creative, credit.ForCompany)
	if err != nil {
		return nil, err
	}
	doc.CreativeProductions = make([]document.CreativeProduction[document.CompanyCredit], 0, len(creative))
	for _, pc := range creative {
		doc.CreativeProductions = append(doc.CreativeProductions, document.CreativeProduction[document.CompanyCredit]{ProductionSummary: pc.production, CreativeCredits: pc.credits})
	}

	crew, err := creditedProductions(ctx, b, n.UUID, credit.Crew, credit.ForCompany)
	if err != nil {
		return nil, err
	}
	doc.CrewProductions = make([]document.CrewProduction[document.CompanyCredit], 0, len(crew))
	for _, pc := range crew {
		doc.CrewProductions = append(doc.CrewProductions, document.CrewProduction[document.CompanyCredit]{ProductionSummary: pc.production, CrewCredits: pc.credits})
	}

	direct, err := b.awards.Involving(ctx, n.UUID)
	if err != nil {
		return nil, err
	}
	if doc.Awards, err = award.Collect(ctx, b.awards, direct, award.ForCompany(b, n.UUID, nil)); err != nil {
		return nil, err
	}
	indirect := func(via award.Via, recipients []store.Node) ([]document.Award[document.CompanyNomination], error) {
		ids := uuids(recipients)
		noms, err := b.awards.Involving(ctx, ids...)
		if err != nil {
			return nil, err
		}
		return award.Collect(ctx, b.awards, noms, award.ForCompany(b, n.UUID, &award.Indirect{Via: via, Recipients: set(ids)}))
	}
	if doc.SubsequentVersionMaterialAwards, err = indirect(award.ViaSubsequentVersion, a.subsequent); err != nil {
		return nil, err
	}
	if doc.SourcingMaterialAwards, err = indirect(award.ViaSourcing, a.sourcing); err != nil {
		return nil, err
	}
	if doc.RightsGrantorMaterialAwards, err = indirect(award.ViaRightsGrantor, a.rightsGrantor); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *builder) castMemberProductions(ctx context.Context, person string) ([]document.CastMemberProduction, error) {
	prods, err := b.neighbours(ctx, person, store.Incoming, store.RelCastRole, store.LabelProduction)
	if err != nil {
		return nil, err
	}
	summaries, err := b.productionSummaries(ctx, uuids(prods))
	if err != nil {
		return nil, err
	}
	out := make([]document.CastMemberProduction, 0, len(summaries))
	for _, p := range summaries {
		members, err := b.cast(ctx, p.UUID)
		if err != nil {
			return nil, err
		}
		for _, m := range members {
			if m.Person.UUID == person {
				out = append(out, document.CastMemberProduction{ProductionSummary: p, Roles: character.RenderRoles(m.Roles)})
				break
			}
		}
	}
	return out, nil
}

// cast matches a production's cast against the characters depicted by its
// material and that material's sub-materials.
func (b *builder) cast(ctx context.Context, production string) ([]character.Member, error) {
	material, err := b.neighbour(ctx, production, store.Outgoing, store.RelProductionOf, store.LabelMaterial)
	if err != nil {
		return nil, err
	}
	depictions := make([]character.Depiction, 0)
	if material != nil {
		ids := []string{material.UUID}
		subs, err := hierarchy.Descendants(ctx, b.r, hierarchy.Materials, material.UUID)
		if err != nil {
			return nil, err
		}
		for _, sub := range subs {
			ids = append(ids, sub.Self.UUID)
			for _, subsub := range sub.Descendants {
				ids = append(ids, subsub.Self.UUID)
			}
		}
		for _, id := range ids {
			d, err := character.Depicted(ctx, b.r, id)
			if err != nil {
				return nil, err
			}
			depictions = append(depictions, d...)
		}
	}
	return character.Cast(ctx, b.r, production, depictions)
}

func distinctNodes(nodes []store.Node) []store.Node {
	out := make([]store.Node, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if !seen[n.UUID] {
			seen[n.UUID] = true
			out = append(out, n)
		}
	}
	return out
}

func distinctStrings(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
