package credit

import (
	"context"

	"playbill/internal/document"
	"playbill/internal/store"
)

// MaterialFunc renders a material credited as a source. Callers supply it to
// embed the material's ancestor and its own writing credits.
type MaterialFunc func(ctx context.Context, n store.Node) (document.Entity, error)

// Render turns groups into credit documents. A nil material renders material
// entities without ancestors or credits.
func Render(ctx context.Context, f Family, groups []Group, material MaterialFunc) ([]document.Credit, error) {
	credits := make([]document.Credit, 0, len(groups))
	for _, g := range groups {
		credit := document.Credit{
			Model:    f.Model,
			Name:     g.Name,
			Entities: make([]document.Entity, 0, len(g.Entries)),
		}
		if f.Model == document.ModelWritingCredit && g.CreditType != "" && g.CreditType != TypeSpecific {
			t := g.CreditType
			credit.CreditType = &t
		}
		for _, e := range g.Entries {
			entity, err := renderEntry(ctx, f, e, material)
			if err != nil {
				return nil, err
			}
			credit.Entities = append(credit.Entities, entity)
		}
		credits = append(credits, credit)
	}
	return credits, nil
}

func renderEntry(ctx context.Context, f Family, e Entry, material MaterialFunc) (document.Entity, error) {
	switch {
	case e.Node.Label == store.LabelMaterial && material != nil:
		return material(ctx, e.Node)
	case e.Node.Label == store.LabelCompany && f.Members:
		return document.CreditedCompany{Ref: document.RefOf(e.Node), Members: refs(e.Members, "")}, nil
	default:
		return document.EntityOf(e.Node), nil
	}
}

// ForPerson projects the groups holding person into credits seen from that
// person. When the person was credited as a company member the company
// becomes the employer and the other members its coMembers.
func ForPerson(f Family, groups []Group, person string) []document.PersonCredit {
	credits := make([]document.PersonCredit, 0)
	for _, g := range groups {
		var employer *document.Employer
		direct := false
		for _, e := range g.Entries {
			if e.Node.UUID == person {
				direct = true
				continue
			}
			if employer == nil && containsNode(e.Members, person) {
				employer = &document.Employer{Ref: document.RefOf(e.Node), CoMembers: refs(e.Members, person)}
			}
		}
		if !direct && employer == nil {
			continue
		}
		if direct {
			employer = nil
		}
		exclude := map[string]bool{person: true}
		if employer != nil {
			exclude[employer.UUID] = true
		}
		credits = append(credits, document.PersonCredit{
			Model:           f.Model,
			Name:            g.Name,
			EmployerCompany: employer,
			CoEntities:      coEntities(f, g, exclude),
		})
	}
	return credits
}

// ForCompany projects the groups crediting company into credits seen from
// that company.
func ForCompany(f Family, groups []Group, company string) []document.CompanyCredit {
	credits := make([]document.CompanyCredit, 0)
	for _, g := range groups {
		var self *Entry
		for i := range g.Entries {
			if g.Entries[i].Node.UUID == company {
				self = &g.Entries[i]
				break
			}
		}
		if self == nil {
			continue
		}
		credits = append(credits, document.CompanyCredit{
			Model:      f.Model,
			Name:       g.Name,
			Members:    refs(self.Members, ""),
			CoEntities: coEntities(f, g, map[string]bool{company: true}),
		})
	}
	return credits
}

func coEntities(f Family, g Group, exclude map[string]bool) []document.Entity {
	entities := make([]document.Entity, 0, len(g.Entries))
	for _, e := range g.Entries {
		if exclude[e.Node.UUID] {
			continue
		}
		if e.Node.Label == store.LabelCompany && f.Members {
			entities = append(entities, document.CreditedCompany{Ref: document.RefOf(e.Node), Members: refs(e.Members, "")})
			continue
		}
		entities = append(entities, document.EntityOf(e.Node))
	}
	return entities
}

func refs(nodes []store.Node, skip string) []document.Ref {
	out := make([]document.Ref, 0, len(nodes))
	for _, n := range nodes {
		if n.UUID == skip {
			continue
		}
		out = append(out, document.RefOf(n))
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
