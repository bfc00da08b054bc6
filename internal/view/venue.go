package view

import (
	"context"
	"sort"

	"playbill/internal/document"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
)

func (b *builder) venue(ctx context.Context, n store.Node) (*document.VenueView, error) {
	tree, err := hierarchy.Resolve(ctx, b.r, hierarchy.Venues, n.UUID)
	if err != nil {
		return nil, err
	}
	doc := &document.VenueView{
		Ref:       document.RefOf(n),
		SubVenues: make([]document.SubVenue, 0, len(tree.Descendants)),
	}
	if tree.Ancestor != nil {
		doc.SurVenue = &document.VenueSummary{Ref: document.RefOf(tree.Ancestor.Self)}
		if tree.Ancestor.Ancestor != nil {
			ref := document.RefOf(tree.Ancestor.Ancestor.Self)
			doc.SurVenue.SurVenue = &ref
		}
	}

	// Productions at the venue itself come first in the search so that a
	// production listed at several levels is shown at the outermost one.
	type stop struct {
		venue    store.Node
		subVenue *document.Ref
	}
	stops := []stop{{venue: n}}
	for _, child := range tree.Descendants {
		sub := document.SubVenue{Ref: document.RefOf(child.Self), SubVenues: make([]document.Ref, 0, len(child.Descendants))}
		childRef := document.RefOf(child.Self)
		stops = append(stops, stop{venue: child.Self, subVenue: &childRef})
		for _, grandchild := range child.Descendants {
			sub.SubVenues = append(sub.SubVenues, document.RefOf(grandchild.Self))
			grandchildRef := document.RefOf(grandchild.Self)
			stops = append(stops, stop{venue: grandchild.Self, subVenue: &grandchildRef})
		}
		doc.SubVenues = append(doc.SubVenues, sub)
	}

	doc.Productions = make([]document.VenueProduction, 0)
	seen := make(map[string]bool)
	for _, s := range stops {
		prods, err := b.neighbours(ctx, s.venue.UUID, store.Incoming, store.RelPlaysAt, store.LabelProduction)
		if err != nil {
			return nil, err
		}
		for _, p := range prods {
			if seen[p.UUID] {
				continue
			}
			seen[p.UUID] = true
			doc.Productions = append(doc.Productions, document.VenueProduction{
				Model:     document.ModelProduction,
				UUID:      p.UUID,
				Name:      p.Name,
				Subtitle:  p.Props.OptString(propSubtitle),
				StartDate: p.Props.OptString(propStartDate),
				EndDate:   p.Props.OptString(propEndDate),
				SubVenue:  s.subVenue,
			})
		}
	}
	sort.SliceStable(doc.Productions, func(i, j int) bool {
		a, b := doc.Productions[i], doc.Productions[j]
		if c := compareDates(a.StartDate, b.StartDate, true); c != 0 {
			return c < 0
		}
		return compareNames(a.Name, a.UUID, b.Name, b.UUID) < 0
	})
	return doc, nil
}
