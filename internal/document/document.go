// Package document defines the JSON documents returned by detail and list
// views. Field order is output order.
package document

import (
	"playbill/internal/store"
)

type Model string

const (
	ModelPerson                Model = "PERSON"
	ModelCompany               Model = "COMPANY"
	ModelMaterial              Model = "MATERIAL"
	ModelProduction            Model = "PRODUCTION"
	ModelVenue                 Model = "VENUE"
	ModelCharacter             Model = "CHARACTER"
	ModelAward                 Model = "AWARD"
	ModelAwardCeremony         Model = "AWARD_CEREMONY"
	ModelAwardCeremonyCategory Model = "AWARD_CEREMONY_CATEGORY"
	ModelFestival              Model = "FESTIVAL"
	ModelFestivalSeries        Model = "FESTIVAL_SERIES"
	ModelSeason                Model = "SEASON"
	ModelCharacterGroup        Model = "CHARACTER_GROUP"
	ModelNomination            Model = "NOMINATION"
	ModelWritingCredit         Model = "WRITING_CREDIT"
	ModelProducerCredit        Model = "PRODUCER_CREDIT"
	ModelCreativeCredit        Model = "CREATIVE_CREDIT"
	ModelCrewCredit            Model = "CREW_CREDIT"
)

var labelModels = map[store.Label]Model{
	store.LabelPerson:                ModelPerson,
	store.LabelCompany:               ModelCompany,
	store.LabelMaterial:              ModelMaterial,
	store.LabelProduction:            ModelProduction,
	store.LabelVenue:                 ModelVenue,
	store.LabelCharacter:             ModelCharacter,
	store.LabelAward:                 ModelAward,
	store.LabelAwardCeremony:         ModelAwardCeremony,
	store.LabelAwardCeremonyCategory: ModelAwardCeremonyCategory,
	store.LabelFestival:              ModelFestival,
	store.LabelFestivalSeries:        ModelFestivalSeries,
	store.LabelSeason:                ModelSeason,
}

// ModelOf maps a node label to its document discriminator.
func ModelOf(label store.Label) Model {
	return labelModels[label]
}

// Ref is the summary projection shared by every node kind.
type Ref struct {
	Model          Model   `json:"model"`
	UUID           string  `json:"uuid"`
	Name           string  `json:"name"`
	Differentiator *string `json:"differentiator"`
}

// RefOf projects a node to its summary.
func RefOf(n store.Node) Ref {
	var diff *string
	if n.Differentiator != "" {
		d := n.Differentiator
		diff = &d
	}
	return Ref{
		Model:          ModelOf(n.Label),
		UUID:           n.UUID,
		Name:           n.Name,
		Differentiator: diff,
	}
}

// OptRef returns nil for a nil node.
func OptRef(n *store.Node) *Ref {
	if n == nil {
		return nil
	}
	ref := RefOf(*n)
	return &ref
}

// Entity is a credited or nominated entity. The concrete types are Person,
// Company, CreditedCompany and Material.
type Entity interface {
	Summary() Ref
	entity()
}

type Person struct {
	Ref
}

func (p Person) Summary() Ref { return p.Ref }
func (Person) entity()        {}

// Company is a company credited without members, as on a writing credit.
type Company struct {
	Ref
}

func (c Company) Summary() Ref { return c.Ref }
func (Company) entity()        {}

// CreditedCompany is a company credited or nominated together with the
// members that acted for it.
type CreditedCompany struct {
	Ref
	Members []Ref `json:"members"`
}

func (c CreditedCompany) Summary() Ref { return c.Ref }
func (CreditedCompany) entity()        {}

// Material is a material credited as a source, with its own writing credits
// one level deep.
type Material struct {
	MaterialSummary
}

func (m Material) Summary() Ref { return m.Ref }
func (Material) entity()        {}

// EntityOf builds the plain variant for a node.
func EntityOf(n store.Node) Entity {
	switch n.Label {
	case store.LabelCompany:
		return Company{Ref: RefOf(n)}
	case store.LabelMaterial:
		return Material{MaterialSummary: MaterialSummary{
			Ref:            RefOf(n),
			Format:         n.Props.OptString("format"),
			Year:           n.Props.OptInt("year"),
			WritingCredits: make([]Credit, 0),
		}}
	default:
		return Person{Ref: RefOf(n)}
	}
}

type SurMaterial struct {
	Ref
	SurMaterial *Ref `json:"surMaterial"`
}

type SurProduction struct {
	Ref
	SurProduction *Ref `json:"surProduction"`
}

type MaterialSummary struct {
	Ref
	Format         *string      `json:"format"`
	Year           *int         `json:"year"`
	SurMaterial    *SurMaterial `json:"surMaterial"`
	WritingCredits []Credit     `json:"writingCredits"`
}

type VenueSummary struct {
	Ref
	SurVenue *Ref `json:"surVenue"`
}

type ProductionSummary struct {
	Model          Model               `json:"model"`
	UUID           string              `json:"uuid"`
	Name           string              `json:"name"`
	Subtitle       *string             `json:"subtitle"`
	StartDate      *string             `json:"startDate"`
	EndDate        *string             `json:"endDate"`
	Venue          *VenueSummary       `json:"venue"`
	SurProduction  *SurProduction      `json:"surProduction"`
	SubProductions []ProductionSummary `json:"subProductions,omitempty"`
}

// Credit is one named, ordered group of entities on a material or
// production. CreditType is only set on writing credits that are not
// specific.
type Credit struct {
	Model      Model    `json:"model"`
	Name       string   `json:"name"`
	CreditType *string  `json:"creditType,omitempty"`
	Entities   []Entity `json:"entities"`
}

// Employer is the company a person acted for, with the other members
// credited alongside them.
type Employer struct {
	Ref
	CoMembers []Ref `json:"coMembers"`
}

// PersonCredit is a credit seen from one of its credited people.
type PersonCredit struct {
	Model           Model     `json:"model"`
	Name            string    `json:"name"`
	EmployerCompany *Employer `json:"employerCompany"`
	CoEntities      []Entity  `json:"coEntities"`
}

// CompanyCredit is a credit seen from one of its credited companies.
type CompanyCredit struct {
	Model      Model    `json:"model"`
	Name       string   `json:"name"`
	Members    []Ref    `json:"members"`
	CoEntities []Entity `json:"coEntities"`
}

// Role is one part played by a cast member. UUID is null when the role
// could not be matched to a character of the production's material.
type Role struct {
	Model       Model   `json:"model"`
	UUID        *string `json:"uuid"`
	Name        string  `json:"name"`
	Qualifier   *string `json:"qualifier"`
	IsAlternate bool    `json:"isAlternate"`
}

type CastMember struct {
	Ref
	Roles []Role `json:"roles"`
}

type DepictedCharacter struct {
	Ref
	Qualifier *string `json:"qualifier"`
}

type CharacterGroup struct {
	Model      Model               `json:"model"`
	Name       *string             `json:"name"`
	Position   *int                `json:"position"`
	Characters []DepictedCharacter `json:"characters"`
}

type FestivalSummary struct {
	Ref
	FestivalSeries *Ref `json:"festivalSeries"`
}

// ListItem is the shallow projection served by list views.
type ListItem struct {
	Ref
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
}
