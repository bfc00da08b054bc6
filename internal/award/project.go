package award

import (
	"context"

	"playbill/internal/document"
	"playbill/internal/store"
)

// Summaries renders the material and production projections embedded in
// nominations.
type Summaries interface {
	Material(ctx context.Context, id string) (document.MaterialSummary, error)
	Production(ctx context.Context, id string) (document.ProductionSummary, error)
}

// Via names the relationship through which a nomination of another work is
// shown against a subject.
type Via int

const (
	ViaSubsequentVersion Via = iota + 1
	ViaSourcing
	ViaRightsGrantor
)

// Indirect describes an indirect nomination view: the related works whose
// nominations are shown.
type Indirect struct {
	Via        Via
	Recipients map[string]bool
}

// Full renders complete nominations, as listed by award and ceremony views.
func Full(s Summaries) RenderFunc[document.Nomination] {
	return func(ctx context.Context, nom Nomination) (document.Nomination, bool, error) {
		doc := document.Nomination{
			Model:    document.ModelNomination,
			IsWinner: nom.IsWinner,
			Type:     nom.Type(),
			Entities: entities(nom, nil),
		}
		var err error
		if doc.Productions, err = productions(ctx, s, nom.Productions, nil); err != nil {
			return doc, false, err
		}
		if doc.Materials, err = materials(ctx, s, nom.Materials, nil); err != nil {
			return doc, false, err
		}
		return doc, true, nil
	}
}

// Direct renders the nominations of subject, a material or a production, or
// of a work related to it within its hierarchy. A nomination that reached
// the subject through a related work names that work as its recipient, and
// related works are not repeated among the nominated materials or
// productions.
func Direct(s Summaries, subject store.Node, related map[string]struct{}) RenderFunc[document.Nomination] {
	return func(ctx context.Context, nom Nomination) (document.Nomination, bool, error) {
		doc := document.Nomination{
			Model:    document.ModelNomination,
			IsWinner: nom.IsWinner,
			Type:     nom.Type(),
			Entities: entities(nom, nil),
		}

		skip := make(map[string]bool, len(related))
		for id := range related {
			if id != subject.UUID {
				skip[id] = true
			}
		}

		var pool []store.Node
		if subject.Label == store.LabelProduction {
			pool = nom.Productions
		} else {
			pool = nom.Materials
		}
		if !containsNode(pool, subject.UUID) {
			recipient, ok := firstIn(pool, skip)
			if !ok {
				return doc, false, nil
			}
			if subject.Label == store.LabelProduction {
				p, err := s.Production(ctx, recipient.UUID)
				if err != nil {
					return doc, false, err
				}
				doc.RecipientProduction = &p
			} else {
				m, err := s.Material(ctx, recipient.UUID)
				if err != nil {
					return doc, false, err
				}
				doc.RecipientMaterial = &m
			}
		}

		prodSkip, matSkip := map[string]bool(nil), skip
		if subject.Label == store.LabelProduction {
			prodSkip, matSkip = skip, nil
		}
		var err error
		if doc.Productions, err = productions(ctx, s, nom.Productions, prodSkip); err != nil {
			return doc, false, err
		}
		if doc.Materials, err = materials(ctx, s, nom.Materials, matSkip); err != nil {
			return doc, false, err
		}
		return doc, true, nil
	}
}

// Related renders the nominations of works related to a material. The
// subject's own nominations are left out.
func Related(s Summaries, subject string, ind Indirect) RenderFunc[document.Nomination] {
	return func(ctx context.Context, nom Nomination) (document.Nomination, bool, error) {
		doc := document.Nomination{
			Model:    document.ModelNomination,
			IsWinner: nom.IsWinner,
			Type:     nom.Type(),
			Entities: entities(nom, nil),
		}
		if nom.Involves(subject) {
			return doc, false, nil
		}
		recipients, ok, err := recipientsOf(ctx, s, nom, ind)
		if err != nil || !ok {
			return doc, false, err
		}
		doc.Recipients = recipients
		if doc.Productions, err = productions(ctx, s, nom.Productions, nil); err != nil {
			return doc, false, err
		}
		if doc.Materials, err = materials(ctx, s, nom.Materials, ind.Recipients); err != nil {
			return doc, false, err
		}
		return doc, true, nil
	}
}

// ForPerson renders nominations seen from person. With a nil ind they are
// the person's own nominations; otherwise nominations of related works in
// which the person is not nominated.
func ForPerson(s Summaries, person string, ind *Indirect) RenderFunc[document.PersonNomination] {
	return func(ctx context.Context, nom Nomination) (document.PersonNomination, bool, error) {
		doc := document.PersonNomination{
			Model:    document.ModelNomination,
			IsWinner: nom.IsWinner,
			Type:     nom.Type(),
		}
		exclude := map[string]bool{person: true}
		var skip map[string]bool

		if ind == nil {
			if !nom.Involves(person) {
				return doc, false, nil
			}
			if employer, ok := employerOf(nom, person); ok {
				doc.EmployerCompany = &document.Employer{
					Ref:       document.RefOf(employer.Node),
					CoMembers: refs(employer.Members, person),
				}
				exclude[employer.Node.UUID] = true
			}
		} else {
			if nom.Involves(person) {
				return doc, false, nil
			}
			recipients, ok, err := recipientsOf(ctx, s, nom, *ind)
			if err != nil || !ok {
				return doc, false, err
			}
			doc.Recipients = recipients
			skip = ind.Recipients
		}

		doc.CoEntities = entities(nom, exclude)
		var err error
		if doc.Productions, err = productions(ctx, s, nom.Productions, nil); err != nil {
			return doc, false, err
		}
		if doc.Materials, err = materials(ctx, s, nom.Materials, skip); err != nil {
			return doc, false, err
		}
		return doc, true, nil
	}
}

// ForCompany renders nominations seen from company, directly when ind is
// nil and through related works otherwise.
func ForCompany(s Summaries, company string, ind *Indirect) RenderFunc[document.CompanyNomination] {
	return func(ctx context.Context, nom Nomination) (document.CompanyNomination, bool, error) {
		doc := document.CompanyNomination{
			Model:    document.ModelNomination,
			IsWinner: nom.IsWinner,
			Type:     nom.Type(),
			Members:  make([]document.Ref, 0),
		}
		var skip map[string]bool

		if ind == nil {
			found := false
			for _, e := range nom.Entities {
				if e.Node.UUID == company {
					doc.Members = refs(e.Members, "")
					found = true
					break
				}
			}
			if !found {
				return doc, false, nil
			}
		} else {
			if nom.Involves(company) {
				return doc, false, nil
			}
			recipients, ok, err := recipientsOf(ctx, s, nom, *ind)
			if err != nil || !ok {
				return doc, false, err
			}
			doc.Recipients = recipients
			skip = ind.Recipients
		}

		doc.CoEntities = entities(nom, map[string]bool{company: true})
		var err error
		if doc.Productions, err = productions(ctx, s, nom.Productions, nil); err != nil {
			return doc, false, err
		}
		if doc.Materials, err = materials(ctx, s, nom.Materials, skip); err != nil {
			return doc, false, err
		}
		return doc, true, nil
	}
}

// recipientsOf picks the nominated materials that are recipients of an
// indirect view. It reports false when the nomination names none.
func recipientsOf(ctx context.Context, s Summaries, nom Nomination, ind Indirect) (document.Recipients, bool, error) {
	var out document.Recipients
	list := make([]document.MaterialSummary, 0)
	for _, m := range nom.Materials {
		if !ind.Recipients[m.UUID] {
			continue
		}
		summary, err := s.Material(ctx, m.UUID)
		if err != nil {
			return out, false, err
		}
		list = append(list, summary)
	}
	if len(list) == 0 {
		return out, false, nil
	}
	switch ind.Via {
	case ViaSubsequentVersion:
		out.RecipientSubsequentVersionMaterials = list
	case ViaSourcing:
		out.RecipientSourcingMaterials = list
	case ViaRightsGrantor:
		out.RecipientRightsGrantorMaterials = list
	}
	return out, true, nil
}

func entities(nom Nomination, exclude map[string]bool) []document.Entity {
	out := make([]document.Entity, 0, len(nom.Entities))
	for _, e := range nom.Entities {
		if exclude[e.Node.UUID] {
			continue
		}
		if e.Node.Label == store.LabelCompany {
			out = append(out, document.CreditedCompany{Ref: document.RefOf(e.Node), Members: refs(e.Members, "")})
			continue
		}
		out = append(out, document.Person{Ref: document.RefOf(e.Node)})
	}
	return out
}

func productions(ctx context.Context, s Summaries, nodes []store.Node, skip map[string]bool) ([]document.ProductionSummary, error) {
	out := make([]document.ProductionSummary, 0, len(nodes))
	for _, n := range nodes {
		if skip[n.UUID] {
			continue
		}
		p, err := s.Production(ctx, n.UUID)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func materials(ctx context.Context, s Summaries, nodes []store.Node, skip map[string]bool) ([]document.MaterialSummary, error) {
	out := make([]document.MaterialSummary, 0, len(nodes))
	for _, n := range nodes {
		if skip[n.UUID] {
			continue
		}
		m, err := s.Material(ctx, n.UUID)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func refs(nodes []store.Node, skip string) []document.Ref {
	out := make([]document.Ref, 0, len(nodes))
	for _, n := range nodes {
		if n.UUID != skip {
			out = append(out, document.RefOf(n))
		}
	}
	return out
}

func containsNode(nodes []store.Node, id string) bool {
	for _, n := range nodes {
		if n.UUID == id {
			return true
		}
	}
	return false
}

// employerOf finds the company person was nominated for. A person also
// nominated in their own right has no employer.
func employerOf(nom Nomination, person string) (Nominee, bool) {
	var employer *Nominee
	for i, e := range nom.Entities {
		if e.Node.UUID == person {
			return Nominee{}, false
		}
		if employer == nil && containsNode(e.Members, person) {
			employer = &nom.Entities[i]
		}
	}
	if employer == nil {
		return Nominee{}, false
	}
	return *employer, true
}

func firstIn(nodes []store.Node, set map[string]bool) (store.Node, bool) {
	for _, n := range nodes {
		if set[n.UUID] {
			return n, true
		}
	}
	return store.Node{}, false
}
