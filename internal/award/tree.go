package award

import (
	"context"
	"sort"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

// RenderFunc projects a nomination into the document shape of one view. It
// returns false to leave the nomination out.
type RenderFunc[N any] func(ctx context.Context, nom Nomination) (N, bool, error)

type placed[N any] struct {
	key       Key
	placement Placement
	doc       N
}

// Collect renders nominations and arranges them as awards by name
// ascending, ceremonies by name descending, categories by position and
// nominations by position. A nomination listed twice is rendered once.
func Collect[N any](ctx context.Context, l *Loader, noms []Nomination, render RenderFunc[N]) ([]document.Award[N], error) {
	items := make([]placed[N], 0, len(noms))
	seen := make(map[Key]bool, len(noms))
	for _, nom := range noms {
		if seen[nom.Key] {
			continue
		}
		seen[nom.Key] = true

		placement, err := l.Place(ctx, nom.Key.Category)
		if err != nil {
			return nil, err
		}
		if placement.Award.UUID == "" || placement.Ceremony.UUID == "" {
			continue
		}
		doc, ok, err := render(ctx, nom)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		items = append(items, placed[N]{key: nom.Key, placement: placement, doc: doc})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := compareNodes(a.placement.Award, b.placement.Award); c != 0 {
			return c < 0
		}
		if c := compareNodes(a.placement.Ceremony, b.placement.Ceremony); c != 0 {
			return c > 0
		}
		if c := comparePositioned(a.placement.Position, b.placement.Position, a.placement.Category, b.placement.Category); c != 0 {
			return c < 0
		}
		return lessKey(a.key, b.key)
	})

	awards := make([]document.Award[N], 0)
	for _, item := range items {
		p := item.placement
		if n := len(awards); n == 0 || awards[n-1].UUID != p.Award.UUID {
			awards = append(awards, document.Award[N]{
				Ref:        document.RefOf(p.Award),
				Ceremonies: make([]document.Ceremony[N], 0),
			})
		}
		award := &awards[len(awards)-1]
		if n := len(award.Ceremonies); n == 0 || award.Ceremonies[n-1].UUID != p.Ceremony.UUID {
			award.Ceremonies = append(award.Ceremonies, ceremonyOf[N](p.Ceremony))
		}
		ceremony := &award.Ceremonies[len(award.Ceremonies)-1]
		if n := len(ceremony.Categories); n == 0 || ceremony.Categories[n-1].UUID != p.Category.UUID {
			ceremony.Categories = append(ceremony.Categories, categoryOf[N](p.Category))
		}
		category := &ceremony.Categories[len(ceremony.Categories)-1]
		category.Nominations = append(category.Nominations, item.doc)
	}
	return awards, nil
}

// Ceremony renders every nomination of a ceremony, by category position.
func Ceremony[N any](ctx context.Context, l *Loader, ceremony string, render RenderFunc[N]) ([]document.Category[N], error) {
	categories, err := Categories(ctx, l.r, ceremony)
	if err != nil {
		return nil, err
	}
	out := make([]document.Category[N], 0, len(categories))
	for _, category := range categories {
		noms, err := l.Category(ctx, category.UUID)
		if err != nil {
			return nil, err
		}
		doc := categoryOf[N](category)
		for _, nom := range noms {
			n, ok, err := render(ctx, nom)
			if err != nil {
				return nil, err
			}
			if ok {
				doc.Nominations = append(doc.Nominations, n)
			}
		}
		out = append(out, doc)
	}
	return out, nil
}

// Categories lists a ceremony's categories by position (absent last), then
// name and uuid.
func Categories(ctx context.Context, r store.Reader, ceremony string) ([]store.Node, error) {
	return ordered(ctx, r, ceremony, store.RelPresentsCategory, store.LabelAwardCeremonyCategory, false)
}

// Ceremonies lists an award's ceremonies by name descending.
func Ceremonies(ctx context.Context, r store.Reader, award string) ([]store.Node, error) {
	return ordered(ctx, r, award, store.RelPresentedAt, store.LabelAwardCeremony, true)
}

func ordered(ctx context.Context, r store.Reader, from string, rel store.RelType, label store.Label, byNameDesc bool) ([]store.Node, error) {
	steps, err := edgesTo(ctx, r, from, rel, label)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(steps, func(i, j int) bool {
		a, b := steps[i], steps[j]
		if byNameDesc {
			return compareNodes(a.node, b.node) > 0
		}
		return comparePositioned(a.position, b.position, a.node, b.node) < 0
	})
	out := make([]store.Node, 0, len(steps))
	for _, s := range steps {
		out = append(out, s.node)
	}
	return out, nil
}

func ceremonyOf[N any](n store.Node) document.Ceremony[N] {
	return document.Ceremony[N]{
		Model:      document.ModelAwardCeremony,
		UUID:       n.UUID,
		Name:       n.Name,
		Categories: make([]document.Category[N], 0),
	}
}

func categoryOf[N any](n store.Node) document.Category[N] {
	return document.Category[N]{
		Model:       document.ModelAwardCeremonyCategory,
		UUID:        n.UUID,
		Name:        n.Name,
		Nominations: make([]N, 0),
	}
}

func compareNodes(a, b store.Node) int {
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	case a.UUID < b.UUID:
		return -1
	case a.UUID > b.UUID:
		return 1
	default:
		return 0
	}
}

func comparePositioned(pa, pb *int, a, b store.Node) int {
	switch {
	case pa != nil && pb != nil && *pa != *pb:
		if *pa < *pb {
			return -1
		}
		return 1
	case pa != nil && pb == nil:
		return -1
	case pa == nil && pb != nil:
		return 1
	}
	return compareNodes(a, b)
}

func lessKey(a, b Key) bool {
	if a.Unpositioned != b.Unpositioned {
		return !a.Unpositioned
	}
	return a.Position < b.Position
}

type positioned struct {
	node     store.Node
	position *int
}

func edgesTo(ctx context.Context, r store.Reader, from string, rel store.RelType, label store.Label) ([]positioned, error) {
	steps, err := traverse.Edges(ctx, r, from, store.Outgoing, rel)
	if err != nil {
		return nil, err
	}
	out := make([]positioned, 0, len(steps))
	seen := make(map[string]bool, len(steps))
	for _, step := range steps {
		if step.Node.Label != label || seen[step.Node.UUID] {
			continue
		}
		seen[step.Node.UUID] = true
		out = append(out, positioned{node: step.Node, position: step.Edge().Props.OptInt(keyPosition)})
	}
	return out, nil
}
