package view

import (
	"context"

	"playbill/internal/character"
	"playbill/internal/document"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
)

func (b *builder) character(ctx context.Context, n store.Node) (*document.CharacterView, error) {
	depictions, err := character.Depictions(ctx, b.r, n.UUID)
	if err != nil {
		return nil, err
	}
	doc := &document.CharacterView{
		Ref:                    document.RefOf(n),
		Materials:              make([]document.CharacterMaterial, 0),
		VariantNamedDepictions: character.VariantDepictionNames(n, depictions),
	}

	index := make(map[string]int)
	materials := make([]string, 0)
	for _, d := range depictions {
		i, ok := index[d.Material.UUID]
		if !ok {
			summary, err := b.Material(ctx, d.Material.UUID)
			if err != nil {
				return nil, err
			}
			i = len(doc.Materials)
			index[d.Material.UUID] = i
			materials = append(materials, d.Material.UUID)
			doc.Materials = append(doc.Materials, document.CharacterMaterial{
				MaterialSummary: summary,
				Depictions:      make([]document.Depiction, 0),
			})
		}
		doc.Materials[i].Depictions = append(doc.Materials[i].Depictions, document.Depiction{
			DisplayName: d.Edge.Props.OptString("displayName"),
			Qualifier:   d.Edge.Props.OptString("qualifier"),
			Group:       d.Edge.Props.OptString("groupName"),
		})
	}

	// A production of a sur-material stages the characters of its
	// sub-materials too.
	candidates := make([]string, 0, len(materials))
	for _, m := range materials {
		candidates = append(candidates, m)
		link, err := hierarchy.Ancestors(ctx, b.r, hierarchy.Materials, m)
		if err != nil {
			return nil, err
		}
		for ; link != nil; link = link.Ancestor {
			candidates = append(candidates, link.Self.UUID)
		}
	}

	ids := make([]string, 0)
	seen := make(map[string]bool)
	for _, m := range distinctStrings(candidates) {
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
	summaries := make([]document.ProductionSummary, 0, len(ids))
	for _, id := range ids {
		p, err := b.Production(ctx, id)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, p)
	}
	sortProductionsChronologically(summaries)

	doc.Productions = make([]document.CharacterProduction, 0)
	all := make([]character.Portrayal, 0)
	for _, p := range summaries {
		members, err := b.cast(ctx, p.UUID)
		if err != nil {
			return nil, err
		}
		portrayals := character.Portrayals(members, n.UUID)
		if len(portrayals) == 0 {
			continue
		}
		all = append(all, portrayals...)
		doc.Productions = append(doc.Productions, document.CharacterProduction{
			ProductionSummary: p,
			Performers:        character.RenderPerformers(portrayals),
		})
	}
	doc.VariantNamedPortrayals = character.VariantPortrayalNames(all)
	return doc, nil
}
