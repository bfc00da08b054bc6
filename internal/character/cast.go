package character

import (
	"context"
	"sort"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

// Defaults for cast role properties absent from the graph.
const (
	DefaultRoleName    = "Performer"
	DefaultIsAlternate = false
)

// Role is one cast role after matching.
type Role struct {
	Name        string
	Qualifier   string
	IsAlternate bool
	// Character is nil when no depicted character matched.
	Character *Depiction
}

// Member is one cast member and their roles in role order.
type Member struct {
	Person store.Node
	Roles  []Role
}

// Match finds the depiction a role refers to. The role's name is its
// characterName when given, else its roleName; it must equal a depicted
// character's canonical name or its in-material display name. A given
// differentiator must equal the character's. Without one, a character
// without a differentiator is preferred, then a sole candidate. Anything
// else is ambiguous and matches nothing.
func Match(depictions []Depiction, name, differentiator string) (Depiction, bool) {
	if name == "" {
		return Depiction{}, false
	}
	candidates := make([]Depiction, 0)
	seen := make(map[string]bool)
	for _, d := range depictions {
		if d.Character.Name != name && d.Name() != name {
			continue
		}
		if seen[d.Character.UUID] {
			continue
		}
		seen[d.Character.UUID] = true
		candidates = append(candidates, d)
	}

	if differentiator != "" {
		for _, c := range candidates {
			if c.Character.Differentiator == differentiator {
				return c, true
			}
		}
		return Depiction{}, false
	}
	for _, c := range candidates {
		if c.Character.Differentiator == "" {
			return c, true
		}
	}
	if len(candidates) == 1 {
		return candidates[0], true
	}
	return Depiction{}, false
}

// Cast reads a production's CAST_ROLE relationships and matches each role
// against depictions. Members are ordered by castMemberPosition, roles by
// rolePosition. A member with no named role gets a single placeholder role.
func Cast(ctx context.Context, r store.Reader, production string, depictions []Depiction) ([]Member, error) {
	steps, err := traverse.Edges(ctx, r, production, store.Outgoing, store.RelCastRole)
	if err != nil {
		return nil, err
	}

	type row struct {
		node store.Node
		edge store.Edge
	}
	rows := make([]row, 0, len(steps))
	for _, step := range steps {
		if step.Node.Label == store.LabelPerson {
			rows = append(rows, row{node: step.Node, edge: step.Edge()})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := traverse.ComparePositions(a.edge.Props, b.edge.Props, keyCastMemberPos); c != 0 {
			return c < 0
		}
		if a.node.Name != b.node.Name {
			return a.node.Name < b.node.Name
		}
		if a.node.UUID != b.node.UUID {
			return a.node.UUID < b.node.UUID
		}
		return traverse.ComparePositions(a.edge.Props, b.edge.Props, keyRolePos) < 0
	})

	members := make([]Member, 0)
	index := make(map[string]int)
	for _, row := range rows {
		i, ok := index[row.node.UUID]
		if !ok {
			i = len(members)
			index[row.node.UUID] = i
			members = append(members, Member{Person: row.node, Roles: make([]Role, 0)})
		}
		roleName := row.edge.Props.String(keyRoleName)
		if roleName == "" {
			continue
		}
		role := Role{
			Name:        roleName,
			Qualifier:   row.edge.Props.String(keyQualifier),
			IsAlternate: DefaultIsAlternate,
		}
		if row.edge.Props.Has(keyIsAlternate) {
			role.IsAlternate = row.edge.Props.Bool(keyIsAlternate)
		}
		name := row.edge.Props.String(keyCharacterName)
		if name == "" {
			name = roleName
		}
		if d, ok := Match(depictions, name, row.edge.Props.String(keyCharacterDiff)); ok {
			role.Character = &d
		}
		members[i].Roles = append(members[i].Roles, role)
	}

	for i := range members {
		if len(members[i].Roles) == 0 {
			members[i].Roles = append(members[i].Roles, Role{Name: DefaultRoleName, IsAlternate: DefaultIsAlternate})
		}
	}
	return members, nil
}

// RenderRoles projects matched roles into documents.
func RenderRoles(roles []Role) []document.Role {
	out := make([]document.Role, 0, len(roles))
	for _, role := range roles {
		doc := document.Role{
			Model:       document.ModelCharacter,
			Name:        role.Name,
			IsAlternate: role.IsAlternate,
		}
		if role.Qualifier != "" {
			q := role.Qualifier
			doc.Qualifier = &q
		}
		if role.Character != nil {
			id := role.Character.Character.UUID
			doc.UUID = &id
		}
		out = append(out, doc)
	}
	return out
}

// RenderCast projects a matched cast into documents.
func RenderCast(members []Member) []document.CastMember {
	out := make([]document.CastMember, 0, len(members))
	for _, m := range members {
		out = append(out, document.CastMember{
			Ref:   document.RefOf(m.Person),
			Roles: RenderRoles(m.Roles),
		})
	}
	return out
}

// Portrayal is a cast member's role matched to one character.
type Portrayal struct {
	Performer  store.Node
	Role       Role
	OtherRoles []Role
}

// Portrayals picks from a matched cast the roles played as character.
func Portrayals(members []Member, character string) []Portrayal {
	out := make([]Portrayal, 0)
	for _, m := range members {
		for i, role := range m.Roles {
			if role.Character == nil || role.Character.Character.UUID != character {
				continue
			}
			others := make([]Role, 0, len(m.Roles)-1)
			for j, other := range m.Roles {
				if j != i {
					others = append(others, other)
				}
			}
			out = append(out, Portrayal{Performer: m.Person, Role: role, OtherRoles: others})
		}
	}
	return out
}

// VariantPortrayalNames lists the role names used for a character that
// differ from its name within the material, once each, in order of first
// occurrence.
func VariantPortrayalNames(portrayals []Portrayal) []string {
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, p := range portrayals {
		if p.Role.Character == nil {
			continue
		}
		name := p.Role.Name
		if name == p.Role.Character.Name() || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// RenderPerformers projects portrayals into performer documents.
func RenderPerformers(portrayals []Portrayal) []document.Performer {
	out := make([]document.Performer, 0, len(portrayals))
	for _, p := range portrayals {
		performer := document.Performer{
			Ref:         document.RefOf(p.Performer),
			RoleName:    p.Role.Name,
			IsAlternate: p.Role.IsAlternate,
			OtherRoles:  RenderRoles(p.OtherRoles),
		}
		if p.Role.Qualifier != "" {
			q := p.Role.Qualifier
			performer.Qualifier = &q
		}
		out = append(out, performer)
	}
	return out
}
