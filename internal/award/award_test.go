package award

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/store/memory"
)

// stubSummaries renders bare refs from the node names seen by the builder.
type stubSummaries struct {
	names map[string]string
}

func (s stubSummaries) Material(_ context.Context, id string) (document.MaterialSummary, error) {
	return document.MaterialSummary{Ref: document.Ref{Model: document.ModelMaterial, UUID: id, Name: s.names[id]}}, nil
}

func (s stubSummaries) Production(_ context.Context, id string) (document.ProductionSummary, error) {
	return document.ProductionSummary{Model: document.ModelProduction, UUID: id, Name: s.names[id]}, nil
}

type fixture struct {
	b     *memory.Builder
	names map[string]string
}

func newFixture() *fixture {
	return &fixture{b: memory.NewBuilder(), names: make(map[string]string)}
}

func (f *fixture) node(label store.Label, name string) string {
	id := f.b.Node(label, name)
	f.names[id] = name
	return id
}

func (f *fixture) read(t *testing.T, fn func(r store.Reader)) {
	t.Helper()
	s, err := f.b.Store()
	require.NoError(t, err)
	require.NoError(t, s.Read(context.Background(), func(r store.Reader) error {
		fn(r)
		return nil
	}))
}

func TestTypeOf(t *testing.T) {
	assert.Equal(t, TypeNomination, TypeOf("", false))
	assert.Equal(t, TypeWinner, TypeOf("", true))
	assert.Equal(t, "Shortlisted", TypeOf("Shortlisted", false))
	assert.Equal(t, "Joint Winner", TypeOf("Joint Winner", true))
}

func TestCategoryGroupsNominees(t *testing.T) {
	f := newFixture()
	category := f.node(store.LabelAwardCeremonyCategory, "Best Actor")
	actor := f.node(store.LabelPerson, "Actor")
	company := f.node(store.LabelCompany, "Producers Ltd")
	member := f.node(store.LabelPerson, "Member")
	prod := f.node(store.LabelProduction, "Hamlet")
	loose := f.node(store.LabelPerson, "Unpositioned")

	f.b.Edge(store.RelNominee, category, prod, "nominationPosition", 1, "productionPosition", 0)
	f.b.Edge(store.RelNominee, category, company, "nominationPosition", 1, "entityPosition", 1, "isWinner", true)
	f.b.Edge(store.RelNominee, category, actor, "nominationPosition", 1, "entityPosition", 0)
	f.b.Edge(store.RelNominee, category, member, "nominationPosition", 1, "memberPosition", 0, "nominatedCompanyUuid", company)
	f.b.Edge(store.RelNominee, category, actor, "nominationPosition", 0, "customType", "Shortlisted")
	f.b.Edge(store.RelNominee, category, loose)

	f.read(t, func(r store.Reader) {
		noms, err := NewLoader(r).Category(context.Background(), category)
		require.NoError(t, err)
		require.Len(t, noms, 3)

		assert.Equal(t, 0, noms[0].Key.Position)
		assert.Equal(t, "Shortlisted", noms[0].Type())
		assert.False(t, noms[0].IsWinner)

		second := noms[1]
		assert.True(t, second.IsWinner)
		assert.Equal(t, TypeWinner, second.Type())
		require.Len(t, second.Entities, 2)
		assert.Equal(t, "Actor", second.Entities[0].Node.Name)
		assert.Equal(t, "Producers Ltd", second.Entities[1].Node.Name)
		require.Len(t, second.Entities[1].Members, 1)
		assert.Equal(t, member, second.Entities[1].Members[0].UUID)
		require.Len(t, second.Productions, 1)
		assert.True(t, second.Involves(member))
		assert.True(t, second.Involves(prod))

		assert.True(t, noms[2].Key.Unpositioned)
		assert.Equal(t, TypeNomination, noms[2].Type())
	})
}

type ceremonyTree struct {
	olivier, standard      string
	oliviers19, oliviers20 string
	best, supporting       string
	standard20, design     string
	actor                  string
}

func awardTrees(f *fixture) ceremonyTree {
	c := ceremonyTree{
		olivier:    f.node(store.LabelAward, "Laurence Olivier Awards"),
		standard:   f.node(store.LabelAward, "Evening Standard Theatre Awards"),
		oliviers19: f.node(store.LabelAwardCeremony, "2019"),
		oliviers20: f.node(store.LabelAwardCeremony, "2020"),
		standard20: f.node(store.LabelAwardCeremony, "2020"),
		best:       f.node(store.LabelAwardCeremonyCategory, "Best Actor"),
		supporting: f.node(store.LabelAwardCeremonyCategory, "Best Supporting Actor"),
		design:     f.node(store.LabelAwardCeremonyCategory, "Best Design"),
		actor:      f.node(store.LabelPerson, "Actor"),
	}
	f.b.Edge(store.RelPresentedAt, c.olivier, c.oliviers19)
	f.b.Edge(store.RelPresentedAt, c.olivier, c.oliviers20)
	f.b.Edge(store.RelPresentedAt, c.standard, c.standard20)

	// The 2020 Oliviers list supporting actor before best actor.
	supporting19 := f.node(store.LabelAwardCeremonyCategory, "Best Supporting Actor")
	f.b.Edge(store.RelPresentsCategory, c.oliviers19, supporting19, "position", 0)
	f.b.Edge(store.RelPresentsCategory, c.oliviers20, c.best, "position", 1)
	f.b.Edge(store.RelPresentsCategory, c.oliviers20, c.supporting, "position", 0)
	f.b.Edge(store.RelPresentsCategory, c.standard20, c.design)

	f.b.Edge(store.RelNominee, supporting19, c.actor, "nominationPosition", 0)
	f.b.Edge(store.RelNominee, c.best, c.actor, "nominationPosition", 2, "isWinner", true)
	f.b.Edge(store.RelNominee, c.supporting, c.actor, "nominationPosition", 0)
	f.b.Edge(store.RelNominee, c.design, c.actor, "nominationPosition", 0)
	return c
}

func TestCollectOrdersTree(t *testing.T) {
	f := newFixture()
	c := awardTrees(f)

	f.read(t, func(r store.Reader) {
		ctx := context.Background()
		l := NewLoader(r)
		noms, err := l.Involving(ctx, c.actor)
		require.NoError(t, err)
		require.Len(t, noms, 4)

		awards, err := Collect(ctx, l, noms, ForPerson(stubSummaries{f.names}, c.actor, nil))
		require.NoError(t, err)
		require.Len(t, awards, 2)

		assert.Equal(t, "Evening Standard Theatre Awards", awards[0].Name)
		assert.Equal(t, "Laurence Olivier Awards", awards[1].Name)

		oliviers := awards[1].Ceremonies
		require.Len(t, oliviers, 2)
		assert.Equal(t, c.oliviers20, oliviers[0].UUID)
		assert.Equal(t, c.oliviers19, oliviers[1].UUID)

		categories := oliviers[0].Categories
		require.Len(t, categories, 2)
		assert.Equal(t, c.supporting, categories[0].UUID)
		assert.Equal(t, c.best, categories[1].UUID)
		require.Len(t, categories[1].Nominations, 1)
		assert.True(t, categories[1].Nominations[0].IsWinner)
		assert.Nil(t, categories[1].Nominations[0].EmployerCompany)
		assert.Empty(t, categories[1].Nominations[0].CoEntities)
	})
}

func TestCeremonyListsCategoriesByPosition(t *testing.T) {
	f := newFixture()
	c := awardTrees(f)

	f.read(t, func(r store.Reader) {
		ctx := context.Background()
		ceremonies, err := Ceremonies(ctx, r, c.olivier)
		require.NoError(t, err)
		require.Len(t, ceremonies, 2)
		assert.Equal(t, "2020", ceremonies[0].Name)

		categories, err := Ceremony(ctx, NewLoader(r), c.oliviers20, Full(stubSummaries{f.names}))
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Best Supporting Actor", categories[0].Name)
		require.Len(t, categories[1].Nominations, 1)
		assert.Equal(t, TypeWinner, categories[1].Nominations[0].Type)
	})
}

func TestPlaceResolvesCeremonyAndAward(t *testing.T) {
	f := newFixture()
	c := awardTrees(f)

	f.read(t, func(r store.Reader) {
		p, err := NewLoader(r).Place(context.Background(), c.best)
		require.NoError(t, err)
		assert.Equal(t, c.oliviers20, p.Ceremony.UUID)
		assert.Equal(t, c.olivier, p.Award.UUID)
		require.NotNil(t, p.Position)
		assert.Equal(t, 1, *p.Position)
	})
}

func TestPersonNominatedAsCompanyMember(t *testing.T) {
	f := newFixture()
	award := f.node(store.LabelAward, "Award")
	ceremony := f.node(store.LabelAwardCeremony, "2021")
	category := f.node(store.LabelAwardCeremonyCategory, "Best Design")
	company := f.node(store.LabelCompany, "Design Co")
	designer := f.node(store.LabelPerson, "Designer")
	colleague := f.node(store.LabelPerson, "Colleague")
	f.b.Edge(store.RelPresentedAt, award, ceremony)
	f.b.Edge(store.RelPresentsCategory, ceremony, category)
	f.b.Edge(store.RelNominee, category, company, "nominationPosition", 0)
	f.b.Edge(store.RelNominee, category, designer, "nominationPosition", 0, "memberPosition", 0, "nominatedCompanyUuid", company)
	f.b.Edge(store.RelNominee, category, colleague, "nominationPosition", 0, "memberPosition", 1, "nominatedCompanyUuid", company)

	f.read(t, func(r store.Reader) {
		ctx := context.Background()
		l := NewLoader(r)
		noms, err := l.Involving(ctx, designer)
		require.NoError(t, err)

		awards, err := Collect(ctx, l, noms, ForPerson(stubSummaries{f.names}, designer, nil))
		require.NoError(t, err)
		require.Len(t, awards, 1)
		nom := awards[0].Ceremonies[0].Categories[0].Nominations[0]
		require.NotNil(t, nom.EmployerCompany)
		assert.Equal(t, company, nom.EmployerCompany.UUID)
		require.Len(t, nom.EmployerCompany.CoMembers, 1)
		assert.Equal(t, colleague, nom.EmployerCompany.CoMembers[0].UUID)
		assert.Empty(t, nom.CoEntities)

		companies, err := Collect(ctx, l, noms, ForCompany(stubSummaries{f.names}, company, nil))
		require.NoError(t, err)
		members := companies[0].Ceremonies[0].Categories[0].Nominations[0].Members
		require.Len(t, members, 2)
		assert.Equal(t, designer, members[0].UUID)
	})
}

func TestRelatedNominationNamesRecipient(t *testing.T) {
	f := newFixture()
	award := f.node(store.LabelAward, "Award W")
	ceremony := f.node(store.LabelAwardCeremony, "2022")
	category := f.node(store.LabelAwardCeremonyCategory, "Best Play")
	v1 := f.node(store.LabelMaterial, "M")
	v2 := f.node(store.LabelMaterial, "M")
	f.b.Edge(store.RelPresentedAt, award, ceremony)
	f.b.Edge(store.RelPresentsCategory, ceremony, category)
	f.b.Edge(store.RelSubsequentVersionOf, v2, v1)
	f.b.Edge(store.RelNominee, category, v2, "nominationPosition", 0)

	f.read(t, func(r store.Reader) {
		ctx := context.Background()
		l := NewLoader(r)
		noms, err := l.Involving(ctx, v2)
		require.NoError(t, err)

		s := stubSummaries{f.names}
		ind := Indirect{Via: ViaSubsequentVersion, Recipients: map[string]bool{v2: true}}
		indirect, err := Collect(ctx, l, noms, Related(s, v1, ind))
		require.NoError(t, err)
		require.Len(t, indirect, 1)
		nom := indirect[0].Ceremonies[0].Categories[0].Nominations[0]
		assert.Empty(t, nom.Materials)
		require.Len(t, nom.RecipientSubsequentVersionMaterials, 1)
		assert.Equal(t, v2, nom.RecipientSubsequentVersionMaterials[0].UUID)

		v2Node, err := r.GetNode(ctx, v2)
		require.NoError(t, err)
		direct, err := Collect(ctx, l, noms, Direct(s, v2Node, nil))
		require.NoError(t, err)
		require.Len(t, direct, 1)
		nom = direct[0].Ceremonies[0].Categories[0].Nominations[0]
		require.Len(t, nom.Materials, 1)
		assert.Equal(t, v2, nom.Materials[0].UUID)
		assert.Nil(t, nom.RecipientMaterial)
		assert.Empty(t, nom.RecipientSubsequentVersionMaterials)
	})
}

func TestCollectSkipsUnplacedCategory(t *testing.T) {
	f := newFixture()
	category := f.node(store.LabelAwardCeremonyCategory, "Orphan")
	actor := f.node(store.LabelPerson, "Actor")
	f.b.Edge(store.RelNominee, category, actor, "nominationPosition", 0)

	f.read(t, func(r store.Reader) {
		ctx := context.Background()
		l := NewLoader(r)
		noms, err := l.Involving(ctx, actor)
		require.NoError(t, err)
		require.Len(t, noms, 1)
		awards, err := Collect(ctx, l, noms, Full(stubSummaries{f.names}))
		require.NoError(t, err)
		assert.Empty(t, awards)
	})
}
