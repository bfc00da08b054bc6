package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbill/internal/credit"
	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/store/memory"
)

type grantedWorks struct {
	author, own, granted, sourced, container, part string
}

// grantedPlay builds an author who wrote one play, granted the rights to a
// second and whose first play is the source of a third. The granted play
// has a container production and one sub-production.
func grantedPlay(b *memory.Builder) grantedWorks {
	w := grantedWorks{
		author:    b.Node(store.LabelPerson, "Author"),
		own:       b.Node(store.LabelMaterial, "Own Play", "year", 1990),
		granted:   b.Node(store.LabelMaterial, "Granted Play", "year", 2000),
		sourced:   b.Node(store.LabelMaterial, "Sourced Play", "year", 2005),
		container: b.Node(store.LabelProduction, "Granted Play", "startDate", "2010-01-01"),
		part:      b.Node(store.LabelProduction, "Granted Play: Part One", "startDate", "2010-01-01"),
	}
	b.Edge(store.RelWritingCredit, w.own, w.author, "creditPosition", 0)
	b.Edge(store.RelWritingCredit, w.granted, w.author, "creditName", "by special arrangement with", "creditPosition", 0, "creditType", credit.TypeRightsGrantor)
	b.Edge(store.RelUsesSourceMaterial, w.sourced, w.own, "creditName", "based on", "creditPosition", 0)
	b.Edge(store.RelProductionOf, w.container, w.granted)
	b.Edge(store.RelProductionOf, w.part, w.granted)
	b.Edge(store.RelHasSubProduction, w.container, w.part, "position", 0)

	award := b.Node(store.LabelAward, "Critics' Circle")
	ceremony := b.Node(store.LabelAwardCeremony, "2011")
	category := b.Node(store.LabelAwardCeremonyCategory, "Best New Play")
	b.Edge(store.RelPresentedAt, award, ceremony)
	b.Edge(store.RelPresentsCategory, ceremony, category, "position", 0)
	b.Edge(store.RelNominee, category, w.granted, "nominationPosition", 0, "isWinner", true, "customType", "Special Award")
	b.Edge(store.RelNominee, category, w.sourced, "nominationPosition", 1)
	return w
}

func TestPersonViewRightsGrantorMaterials(t *testing.T) {
	b := memory.NewBuilder()
	w := grantedPlay(b)
	svc := newService(t, b)

	doc, err := svc.GetView(context.Background(), KindPerson, w.author)
	require.NoError(t, err)
	p := doc.(*document.PersonView)

	require.Len(t, p.Materials, 1)
	assert.Equal(t, w.own, p.Materials[0].UUID)
	require.Len(t, p.RightsGrantorMaterials, 1)
	assert.Equal(t, w.granted, p.RightsGrantorMaterials[0].UUID)
	assert.Empty(t, p.MaterialProductions)

	require.Len(t, p.RightsGrantorMaterialProductions, 1)
	prod := p.RightsGrantorMaterialProductions[0]
	assert.Equal(t, w.part, prod.UUID)
	require.NotNil(t, prod.SurProduction)
	assert.Equal(t, w.container, prod.SurProduction.UUID)

	assert.Empty(t, p.Awards)
	require.Len(t, p.RightsGrantorMaterialAwards, 1)
	noms := p.RightsGrantorMaterialAwards[0].Ceremonies[0].Categories[0].Nominations
	require.Len(t, noms, 1)
	assert.True(t, noms[0].IsWinner)
	assert.Equal(t, "Special Award", noms[0].Type)
	require.Len(t, noms[0].RecipientRightsGrantorMaterials, 1)
	assert.Equal(t, w.granted, noms[0].RecipientRightsGrantorMaterials[0].UUID)
	assert.Empty(t, noms[0].RecipientSourcingMaterials)
	assert.Empty(t, noms[0].Materials)
}

func TestPersonViewSourcingMaterials(t *testing.T) {
	b := memory.NewBuilder()
	w := grantedPlay(b)
	svc := newService(t, b)

	doc, err := svc.GetView(context.Background(), KindPerson, w.author)
	require.NoError(t, err)
	p := doc.(*document.PersonView)

	require.Len(t, p.SourcingMaterials, 1)
	assert.Equal(t, w.sourced, p.SourcingMaterials[0].UUID)
	require.Len(t, p.SourcingMaterialAwards, 1)
	assert.Equal(t, "Critics' Circle", p.SourcingMaterialAwards[0].Name)
	noms := p.SourcingMaterialAwards[0].Ceremonies[0].Categories[0].Nominations
	require.Len(t, noms, 1)
	assert.False(t, noms[0].IsWinner)
	assert.Equal(t, "Nomination", noms[0].Type)
	require.Len(t, noms[0].RecipientSourcingMaterials, 1)
	assert.Equal(t, w.sourced, noms[0].RecipientSourcingMaterials[0].UUID)
	assert.Empty(t, noms[0].RecipientRightsGrantorMaterials)

	data, err := Encode(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"recipientSourcingMaterials"`)
	assert.Contains(t, string(data), `"recipientRightsGrantorMaterials"`)
}

func TestProductionViewNamesRecipientSubProduction(t *testing.T) {
	b := memory.NewBuilder()
	container := b.Node(store.LabelProduction, "The Norman Conquests", "startDate", "2008-09-27")
	part := b.Node(store.LabelProduction, "Table Manners", "startDate", "2008-09-27")
	director := b.Node(store.LabelPerson, "Matthew Warchus")
	b.Edge(store.RelHasSubProduction, container, part, "position", 0)

	award := b.Node(store.LabelAward, "Drama Desk Awards")
	ceremony := b.Node(store.LabelAwardCeremony, "2009")
	category := b.Node(store.LabelAwardCeremonyCategory, "Outstanding Director")
	b.Edge(store.RelPresentedAt, award, ceremony)
	b.Edge(store.RelPresentsCategory, ceremony, category, "position", 0)
	b.Edge(store.RelNominee, category, director, "nominationPosition", 0, "entityPosition", 0, "isWinner", true)
	b.Edge(store.RelNominee, category, part, "nominationPosition", 0, "productionPosition", 0)
	svc := newService(t, b)
	ctx := context.Background()

	doc, err := svc.GetView(ctx, KindProduction, container)
	require.NoError(t, err)
	outer := doc.(*document.ProductionView)
	require.Len(t, outer.Awards, 1)
	nom := outer.Awards[0].Ceremonies[0].Categories[0].Nominations[0]
	assert.Equal(t, "Winner", nom.Type)
	require.NotNil(t, nom.RecipientProduction)
	assert.Equal(t, part, nom.RecipientProduction.UUID)
	assert.Empty(t, nom.Productions)
	require.Len(t, nom.Entities, 1)
	assert.Equal(t, director, nom.Entities[0].Summary().UUID)

	doc, err = svc.GetView(ctx, KindProduction, part)
	require.NoError(t, err)
	inner := doc.(*document.ProductionView)
	require.Len(t, inner.Awards, 1)
	nom = inner.Awards[0].Ceremonies[0].Categories[0].Nominations[0]
	assert.Nil(t, nom.RecipientProduction)
	require.Len(t, nom.Productions, 1)
	assert.Equal(t, part, nom.Productions[0].UUID)
}

func TestVenueView(t *testing.T) {
	b := memory.NewBuilder()
	national := b.Node(store.LabelVenue, "National Theatre")
	olivier := b.Node(store.LabelVenue, "Olivier Theatre")
	lyttelton := b.Node(store.LabelVenue, "Lyttelton Theatre")
	b.Edge(store.RelHasSubVenue, national, lyttelton, "position", 1)
	b.Edge(store.RelHasSubVenue, national, olivier, "position", 0)
	onSubVenue := b.Node(store.LabelProduction, "Hamlet", "startDate", "2010-09-30")
	onComplex := b.Node(store.LabelProduction, "Platform Talk", "startDate", "2011-01-10")
	b.Edge(store.RelPlaysAt, onSubVenue, olivier)
	b.Edge(store.RelPlaysAt, onComplex, national)
	svc := newService(t, b)
	ctx := context.Background()

	doc, err := svc.GetView(ctx, KindVenue, national)
	require.NoError(t, err)
	v := doc.(*document.VenueView)
	assert.Nil(t, v.SurVenue)
	require.Len(t, v.SubVenues, 2)
	assert.Equal(t, "Olivier Theatre", v.SubVenues[0].Name)
	assert.Equal(t, "Lyttelton Theatre", v.SubVenues[1].Name)
	require.Len(t, v.Productions, 2)
	assert.Equal(t, onComplex, v.Productions[0].UUID)
	assert.Nil(t, v.Productions[0].SubVenue)
	assert.Equal(t, onSubVenue, v.Productions[1].UUID)
	require.NotNil(t, v.Productions[1].SubVenue)
	assert.Equal(t, olivier, v.Productions[1].SubVenue.UUID)

	doc, err = svc.GetView(ctx, KindVenue, olivier)
	require.NoError(t, err)
	sub := doc.(*document.VenueView)
	require.NotNil(t, sub.SurVenue)
	assert.Equal(t, national, sub.SurVenue.UUID)
	assert.Empty(t, sub.SubVenues)
	require.Len(t, sub.Productions, 1)
	assert.Nil(t, sub.Productions[0].SubVenue)
}

func TestAwardAndCeremonyViews(t *testing.T) {
	b := memory.NewBuilder()
	award := b.Node(store.LabelAward, "Laurence Olivier Awards")
	earlier := b.Node(store.LabelAwardCeremony, "2019")
	later := b.Node(store.LabelAwardCeremony, "2020")
	b.Edge(store.RelPresentedAt, award, earlier)
	b.Edge(store.RelPresentedAt, award, later)
	play := b.Node(store.LabelAwardCeremonyCategory, "Best New Play")
	director := b.Node(store.LabelAwardCeremonyCategory, "Best Director")
	b.Edge(store.RelPresentsCategory, later, director, "position", 1)
	b.Edge(store.RelPresentsCategory, later, play, "position", 0)
	b.Edge(store.RelPresentsCategory, earlier, b.Node(store.LabelAwardCeremonyCategory, "Best Revival"), "position", 0)

	material := b.Node(store.LabelMaterial, "Leopoldstadt")
	person := b.Node(store.LabelPerson, "Marianne Elliott")
	b.Edge(store.RelNominee, play, person, "nominationPosition", 1)
	b.Edge(store.RelNominee, play, material, "nominationPosition", 0, "isWinner", true)
	svc := newService(t, b)
	ctx := context.Background()

	doc, err := svc.GetView(ctx, KindAward, award)
	require.NoError(t, err)
	a := doc.(*document.AwardView)
	require.Len(t, a.Ceremonies, 2)
	assert.Equal(t, "2020", a.Ceremonies[0].Name)
	assert.Equal(t, "2019", a.Ceremonies[1].Name)

	doc, err = svc.GetView(ctx, KindAwardCeremony, later)
	require.NoError(t, err)
	c := doc.(*document.AwardCeremonyView)
	require.NotNil(t, c.Award)
	assert.Equal(t, award, c.Award.UUID)
	require.Len(t, c.Categories, 2)
	assert.Equal(t, "Best New Play", c.Categories[0].Name)
	assert.Equal(t, "Best Director", c.Categories[1].Name)

	noms := c.Categories[0].Nominations
	require.Len(t, noms, 2)
	assert.True(t, noms[0].IsWinner)
	require.Len(t, noms[0].Materials, 1)
	assert.Equal(t, material, noms[0].Materials[0].UUID)
	assert.False(t, noms[1].IsWinner)
	require.Len(t, noms[1].Entities, 1)
	assert.Equal(t, person, noms[1].Entities[0].Summary().UUID)
}

func TestFestivalAndSeasonViews(t *testing.T) {
	b := memory.NewBuilder()
	series := b.Node(store.LabelFestivalSeries, "Edinburgh International Festival")
	current := b.Node(store.LabelFestival, "2019")
	previous := b.Node(store.LabelFestival, "2018")
	b.Edge(store.RelPartOfFestivalSeries, current, series)
	b.Edge(store.RelPartOfFestivalSeries, previous, series)
	season := b.Node(store.LabelSeason, "Not Black and White")

	first := b.Node(store.LabelProduction, "Eventide", "startDate", "2019-08-03")
	second := b.Node(store.LabelProduction, "Medea", "startDate", "2019-08-20")
	b.Edge(store.RelPartOfFestival, first, current)
	b.Edge(store.RelPartOfFestival, second, current)
	b.Edge(store.RelPartOfSeason, first, season)
	svc := newService(t, b)
	ctx := context.Background()

	doc, err := svc.GetView(ctx, KindFestival, current)
	require.NoError(t, err)
	f := doc.(*document.FestivalView)
	require.NotNil(t, f.FestivalSeries)
	assert.Equal(t, series, f.FestivalSeries.UUID)
	require.Len(t, f.Productions, 2)
	assert.Equal(t, second, f.Productions[0].UUID)
	assert.Equal(t, first, f.Productions[1].UUID)

	doc, err = svc.GetView(ctx, KindFestivalSeries, series)
	require.NoError(t, err)
	fs := doc.(*document.FestivalSeriesView)
	require.Len(t, fs.Festivals, 2)
	assert.Equal(t, []string{previous, current}, []string{fs.Festivals[0].UUID, fs.Festivals[1].UUID})

	doc, err = svc.GetView(ctx, KindSeason, season)
	require.NoError(t, err)
	s := doc.(*document.SeasonView)
	require.Len(t, s.Productions, 1)
	assert.Equal(t, first, s.Productions[0].UUID)

	doc, err = svc.GetView(ctx, KindProduction, first)
	require.NoError(t, err)
	p := doc.(*document.ProductionView)
	require.NotNil(t, p.Season)
	assert.Equal(t, season, p.Season.UUID)
	require.NotNil(t, p.Festival)
	require.NotNil(t, p.Festival.FestivalSeries)
	assert.Equal(t, series, p.Festival.FestivalSeries.UUID)
}

func TestGetViewStoreUnavailable(t *testing.T) {
	b := memory.NewBuilder()
	v := versionedPlay(b)
	svc := newService(t, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	doc, err := svc.GetView(ctx, KindMaterial, v.v1)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.NotErrorIs(t, err, store.ErrNotFound)
}
