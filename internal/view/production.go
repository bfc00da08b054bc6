package view

import (
	"context"

	"playbill/internal/award"
	"playbill/internal/character"
	"playbill/internal/credit"
	"playbill/internal/document"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
)

func (b *builder) production(ctx context.Context, n store.Node) (*document.ProductionView, error) {
	doc := &document.ProductionView{
		Model:     document.ModelProduction,
		UUID:      n.UUID,
		Name:      n.Name,
		Subtitle:  n.Props.OptString(propSubtitle),
		StartDate: n.Props.OptString(propStartDate),
		PressDate: n.Props.OptString(propPressDate),
		EndDate:   n.Props.OptString(propEndDate),
	}

	material, err := b.neighbour(ctx, n.UUID, store.Outgoing, store.RelProductionOf, store.LabelMaterial)
	if err != nil {
		return nil, err
	}
	if material != nil {
		m, err := b.Material(ctx, material.UUID)
		if err != nil {
			return nil, err
		}
		doc.Material = &m
	}

	venue, err := b.neighbour(ctx, n.UUID, store.Outgoing, store.RelPlaysAt, store.LabelVenue)
	if err != nil {
		return nil, err
	}
	if venue != nil {
		if doc.Venue, err = b.venueSummary(ctx, *venue); err != nil {
			return nil, err
		}
	}

	season, err := b.neighbour(ctx, n.UUID, store.Outgoing, store.RelPartOfSeason, store.LabelSeason)
	if err != nil {
		return nil, err
	}
	doc.Season = document.OptRef(season)

	festival, err := b.neighbour(ctx, n.UUID, store.Outgoing, store.RelPartOfFestival, store.LabelFestival)
	if err != nil {
		return nil, err
	}
	if festival != nil {
		series, err := b.neighbour(ctx, festival.UUID, store.Outgoing, store.RelPartOfFestivalSeries, store.LabelFestivalSeries)
		if err != nil {
			return nil, err
		}
		doc.Festival = &document.FestivalSummary{Ref: document.RefOf(*festival), FestivalSeries: document.OptRef(series)}
	}

	if doc.SurProduction, err = b.surProduction(ctx, n.UUID); err != nil {
		return nil, err
	}
	tree, err := hierarchy.Resolve(ctx, b.r, hierarchy.Productions, n.UUID)
	if err != nil {
		return nil, err
	}
	family := []string{n.UUID}
	doc.SubProductions = make([]document.ProductionSummary, 0, len(tree.Descendants))
	for _, child := range tree.Descendants {
		sub, err := b.Production(ctx, child.Self.UUID)
		if err != nil {
			return nil, err
		}
		family = append(family, child.Self.UUID)
		sub.SubProductions = make([]document.ProductionSummary, 0, len(child.Descendants))
		for _, grandchild := range child.Descendants {
			gs, err := b.Production(ctx, grandchild.Self.UUID)
			if err != nil {
				return nil, err
			}
			family = append(family, grandchild.Self.UUID)
			sub.SubProductions = append(sub.SubProductions, gs)
		}
		doc.SubProductions = append(doc.SubProductions, sub)
	}

	credits := func(f credit.Family) ([]document.Credit, error) {
		groups, err := b.creditGroups(ctx, n.UUID, f)
		if err != nil {
			return nil, err
		}
		return credit.Render(ctx, f, groups, nil)
	}
	if doc.ProducerCredits, err = credits(credit.Producer); err != nil {
		return nil, err
	}
	members, err := b.cast(ctx, n.UUID)
	if err != nil {
		return nil, err
	}
	doc.Cast = character.RenderCast(members)
	if doc.CreativeCredits, err = credits(credit.Creative); err != nil {
		return nil, err
	}
	if doc.CrewCredits, err = credits(credit.Crew); err != nil {
		return nil, err
	}

	related, err := hierarchy.Related(ctx, b.r, hierarchy.Productions, n.UUID)
	if err != nil {
		return nil, err
	}
	noms, err := b.awards.Involving(ctx, family...)
	if err != nil {
		return nil, err
	}
	if doc.Awards, err = award.Collect(ctx, b.awards, noms, award.Direct(b, n, related)); err != nil {
		return nil, err
	}
	return doc, nil
}
