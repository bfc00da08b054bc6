package view

import (
	"context"

	"playbill/internal/award"
	"playbill/internal/character"
	"playbill/internal/document"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
)

func (b *builder) material(ctx context.Context, n store.Node) (*document.MaterialView, error) {
	tree, err := hierarchy.Resolve(ctx, b.r, hierarchy.Materials, n.UUID)
	if err != nil {
		return nil, err
	}

	doc := &document.MaterialView{
		Ref:    document.RefOf(n),
		Format: n.Props.OptString(propFormat),
		Year:   n.Props.OptInt(propYear),
	}
	if doc.SurMaterial, err = b.surMaterial(ctx, n.UUID); err != nil {
		return nil, err
	}

	doc.SubMaterials = make([]document.SubMaterial, 0, len(tree.Descendants))
	family := []string{n.UUID}
	for _, child := range tree.Descendants {
		summary, err := b.Material(ctx, child.Self.UUID)
		if err != nil {
			return nil, err
		}
		sub := document.SubMaterial{MaterialSummary: summary, SubMaterials: make([]document.MaterialSummary, 0)}
		family = append(family, child.Self.UUID)
		for _, grandchild := range child.Descendants {
			gs, err := b.Material(ctx, grandchild.Self.UUID)
			if err != nil {
				return nil, err
			}
			sub.SubMaterials = append(sub.SubMaterials, gs)
			family = append(family, grandchild.Self.UUID)
		}
		doc.SubMaterials = append(doc.SubMaterials, sub)
	}

	original, err := b.neighbour(ctx, n.UUID, store.Outgoing, store.RelSubsequentVersionOf, store.LabelMaterial)
	if err != nil {
		return nil, err
	}
	if original != nil {
		m, err := b.Material(ctx, original.UUID)
		if err != nil {
			return nil, err
		}
		doc.OriginalVersionMaterial = &m
	}

	if doc.WritingCredits, err = b.writingCredits(ctx, n.UUID); err != nil {
		return nil, err
	}

	subsequent, err := b.subsequentVersions(ctx, []string{n.UUID})
	if err != nil {
		return nil, err
	}
	if doc.SubsequentVersionMaterials, err = b.materialSummaries(ctx, subsequent); err != nil {
		return nil, err
	}
	sourcing, err := b.sourcing(ctx, []string{n.UUID})
	if err != nil {
		return nil, err
	}
	if doc.SourcingMaterials, err = b.materialSummaries(ctx, sourcing); err != nil {
		return nil, err
	}

	depictions, err := character.Depicted(ctx, b.r, n.UUID)
	if err != nil {
		return nil, err
	}
	doc.CharacterGroups = character.Groups(depictions)

	if doc.Productions, err = b.productionsOf(ctx, family); err != nil {
		return nil, err
	}
	if doc.SourcingMaterialProductions, err = b.productionsOf(ctx, uuids(sourcing)); err != nil {
		return nil, err
	}

	related, err := hierarchy.Related(ctx, b.r, hierarchy.Materials, n.UUID)
	if err != nil {
		return nil, err
	}
	direct, err := b.awards.Involving(ctx, family...)
	if err != nil {
		return nil, err
	}
	if doc.Awards, err = award.Collect(ctx, b.awards, direct, award.Direct(b, n, related)); err != nil {
		return nil, err
	}
	if doc.SubsequentVersionMaterialAwards, err = b.relatedAwards(ctx, n.UUID, award.ViaSubsequentVersion, subsequent); err != nil {
		return nil, err
	}
	if doc.SourcingMaterialAwards, err = b.relatedAwards(ctx, n.UUID, award.ViaSourcing, sourcing); err != nil {
		return nil, err
	}
	return doc, nil
}

func (b *builder) relatedAwards(ctx context.Context, subject string, via award.Via, recipients []store.Node) ([]document.Award[document.Nomination], error) {
	ids := uuids(recipients)
	noms, err := b.awards.Involving(ctx, ids...)
	if err != nil {
		return nil, err
	}
	ind := award.Indirect{Via: via, Recipients: set(ids)}
	return award.Collect(ctx, b.awards, noms, award.Related(b, subject, ind))
}
