// Package character reads how materials depict characters and matches
// production cast roles back to those characters.
package character

import (
	"context"
	"sort"

	"playbill/internal/document"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

const (
	keyGroupName     = "groupName"
	keyGroupPos      = "groupPosition"
	keyCharacterPos  = "characterPosition"
	keyDisplayName   = "displayName"
	keyQualifier     = "qualifier"
	keyCastMemberPos = "castMemberPosition"
	keyRolePos       = "rolePosition"
	keyRoleName      = "roleName"
	keyCharacterName = "characterName"
	keyCharacterDiff = "characterDifferentiator"
	keyIsAlternate   = "isAlternate"
)

// Depiction is one DEPICTS relationship.
type Depiction struct {
	Material  store.Node
	Character store.Node
	Edge      store.Edge
}

// Name is the character's name within the material.
func (d Depiction) Name() string {
	if name := d.Edge.Props.String(keyDisplayName); name != "" {
		return name
	}
	return d.Character.Name
}

// Depicted returns the characters a material depicts, by group position,
// then character position.
func Depicted(ctx context.Context, r store.Reader, material string) ([]Depiction, error) {
	steps, err := traverse.Edges(ctx, r, material, store.Outgoing, store.RelDepicts)
	if err != nil {
		return nil, err
	}
	origin, err := r.GetNode(ctx, material)
	if err != nil {
		return nil, err
	}
	out := make([]Depiction, 0, len(steps))
	for _, step := range steps {
		if step.Node.Label != store.LabelCharacter {
			continue
		}
		out = append(out, Depiction{Material: origin, Character: step.Node, Edge: step.Edge()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Edge.Props, out[j].Edge.Props
		if c := traverse.ComparePositions(a, b, keyGroupPos); c != 0 {
			return c < 0
		}
		if c := traverse.ComparePositions(a, b, keyCharacterPos); c != 0 {
			return c < 0
		}
		if out[i].Name() != out[j].Name() {
			return out[i].Name() < out[j].Name()
		}
		return out[i].Character.UUID < out[j].Character.UUID
	})
	return out, nil
}

// Groups arranges depictions into character groups. Depictions sharing a
// groupPosition form one group; unpositioned ones group by name after the
// positioned groups. A character appears once per group.
func Groups(depictions []Depiction) []document.CharacterGroup {
	type key struct {
		position int
		hasPos   bool
		name     string
	}
	groups := make([]document.CharacterGroup, 0)
	index := make(map[key]int)
	seen := make(map[key]map[string]bool)
	for _, d := range depictions {
		k := key{name: d.Edge.Props.String(keyGroupName)}
		if pos, ok := d.Edge.Props.Int(keyGroupPos); ok {
			k = key{position: pos, hasPos: true}
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			seen[k] = make(map[string]bool)
			groups = append(groups, document.CharacterGroup{
				Model:      document.ModelCharacterGroup,
				Name:       d.Edge.Props.OptString(keyGroupName),
				Position:   d.Edge.Props.OptInt(keyGroupPos),
				Characters: make([]document.DepictedCharacter, 0),
			})
		}
		if seen[k][d.Character.UUID] {
			continue
		}
		seen[k][d.Character.UUID] = true

		ref := document.RefOf(d.Character)
		ref.Name = d.Name()
		groups[i].Characters = append(groups[i].Characters, document.DepictedCharacter{
			Ref:       ref,
			Qualifier: d.Edge.Props.OptString(keyQualifier),
		})
	}

	sort.SliceStable(groups, func(i, j int) bool {
		a, b := groups[i], groups[j]
		switch {
		case a.Position != nil && b.Position != nil:
			return *a.Position < *b.Position
		case a.Position != nil:
			return true
		case b.Position != nil:
			return false
		}
		return deref(a.Name) < deref(b.Name)
	})
	return groups
}

// Depictions returns every DEPICTS relationship into a character, ordered by
// material name then uuid.
func Depictions(ctx context.Context, r store.Reader, character string) ([]Depiction, error) {
	origin, err := r.GetNode(ctx, character)
	if err != nil {
		return nil, err
	}
	steps, err := traverse.Edges(ctx, r, character, store.Incoming, store.RelDepicts)
	if err != nil {
		return nil, err
	}
	out := make([]Depiction, 0, len(steps))
	for _, step := range steps {
		if step.Node.Label != store.LabelMaterial {
			continue
		}
		out = append(out, Depiction{Material: step.Node, Character: origin, Edge: step.Edge()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Material.Name != out[j].Material.Name {
			return out[i].Material.Name < out[j].Material.Name
		}
		if out[i].Material.UUID != out[j].Material.UUID {
			return out[i].Material.UUID < out[j].Material.UUID
		}
		return traverse.ComparePositions(out[i].Edge.Props, out[j].Edge.Props, keyCharacterPos) < 0
	})
	return out, nil
}

// VariantDepictionNames lists the in-material names that differ from the
// character's own name, once each, in order of first occurrence.
func VariantDepictionNames(character store.Node, depictions []Depiction) []string {
	names := make([]string, 0)
	seen := make(map[string]bool)
	for _, d := range depictions {
		name := d.Name()
		if name == character.Name || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
