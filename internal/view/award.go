package view

import (
	"context"

	"playbill/internal/award"
	"playbill/internal/document"
	"playbill/internal/store"
)

func (b *builder) award(ctx context.Context, n store.Node) (*document.AwardView, error) {
	ceremonies, err := award.Ceremonies(ctx, b.r, n.UUID)
	if err != nil {
		return nil, err
	}
	doc := &document.AwardView{
		Ref:        document.RefOf(n),
		Ceremonies: make([]document.Ceremony[document.Nomination], 0, len(ceremonies)),
	}
	for _, c := range ceremonies {
		categories, err := award.Ceremony(ctx, b.awards, c.UUID, award.Full(b))
		if err != nil {
			return nil, err
		}
		doc.Ceremonies = append(doc.Ceremonies, document.Ceremony[document.Nomination]{
			Model:      document.ModelAwardCeremony,
			UUID:       c.UUID,
			Name:       c.Name,
			Categories: categories,
		})
	}
	return doc, nil
}

func (b *builder) ceremony(ctx context.Context, n store.Node) (*document.AwardCeremonyView, error) {
	doc := &document.AwardCeremonyView{
		Model: document.ModelAwardCeremony,
		UUID:  n.UUID,
		Name:  n.Name,
	}
	parent, err := b.neighbour(ctx, n.UUID, store.Incoming, store.RelPresentedAt, store.LabelAward)
	if err != nil {
		return nil, err
	}
	doc.Award = document.OptRef(parent)
	if doc.Categories, err = award.Ceremony(ctx, b.awards, n.UUID, award.Full(b)); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *builder) festival(ctx context.Context, n store.Node) (*document.FestivalView, error) {
	series, err := b.neighbour(ctx, n.UUID, store.Outgoing, store.RelPartOfFestivalSeries, store.LabelFestivalSeries)
	if err != nil {
		return nil, err
	}
	prods, err := b.neighbours(ctx, n.UUID, store.Incoming, store.RelPartOfFestival, store.LabelProduction)
	if err != nil {
		return nil, err
	}
	summaries, err := b.productionSummaries(ctx, uuids(prods))
	if err != nil {
		return nil, err
	}
	return &document.FestivalView{
		Ref:            document.RefOf(n),
		FestivalSeries: document.OptRef(series),
		Productions:    summaries,
	}, nil
}

func (b *builder) festivalSeries(ctx context.Context, n store.Node) (*document.FestivalSeriesView, error) {
	festivals, err := b.neighbours(ctx, n.UUID, store.Incoming, store.RelPartOfFestivalSeries, store.LabelFestival)
	if err != nil {
		return nil, err
	}
	refs := make([]document.Ref, 0, len(festivals))
	for _, f := range festivals {
		refs = append(refs, document.RefOf(f))
	}
	sortRefs(refs)
	return &document.FestivalSeriesView{Ref: document.RefOf(n), Festivals: refs}, nil
}

func (b *builder) season(ctx context.Context, n store.Node) (*document.SeasonView, error) {
	prods, err := b.neighbours(ctx, n.UUID, store.Incoming, store.RelPartOfSeason, store.LabelProduction)
	if err != nil {
		return nil, err
	}
	summaries, err := b.productionSummaries(ctx, uuids(prods))
	if err != nil {
		return nil, err
	}
	return &document.SeasonView{Ref: document.RefOf(n), Productions: summaries}, nil
}
