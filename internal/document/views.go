package document

type MaterialView struct {
	Ref
	Format                          *string             `json:"format"`
	Year                            *int                `json:"year"`
	SurMaterial                     *SurMaterial        `json:"surMaterial"`
	SubMaterials                    []SubMaterial       `json:"subMaterials"`
	OriginalVersionMaterial         *MaterialSummary    `json:"originalVersionMaterial"`
	WritingCredits                  []Credit            `json:"writingCredits"`
	SubsequentVersionMaterials      []MaterialSummary   `json:"subsequentVersionMaterials"`
	SourcingMaterials               []MaterialSummary   `json:"sourcingMaterials"`
	CharacterGroups                 []CharacterGroup    `json:"characterGroups"`
	Productions                     []ProductionSummary `json:"productions"`
	SourcingMaterialProductions     []ProductionSummary `json:"sourcingMaterialProductions"`
	Awards                          []Award[Nomination] `json:"awards"`
	SubsequentVersionMaterialAwards []Award[Nomination] `json:"subsequentVersionMaterialAwards"`
	SourcingMaterialAwards          []Award[Nomination] `json:"sourcingMaterialAwards"`
}

// SubMaterial is a contained material with its own contained materials.
type SubMaterial struct {
	MaterialSummary
	SubMaterials []MaterialSummary `json:"subMaterials"`
}

// ProducerProduction, CreativeProduction and CrewProduction pair a
// production with the credits a person or company holds on it. C is
// PersonCredit or CompanyCredit.
type ProducerProduction[C any] struct {
	ProductionSummary
	ProducerCredits []C `json:"producerCredits"`
}

type CreativeProduction[C any] struct {
	ProductionSummary
	CreativeCredits []C `json:"creativeCredits"`
}

type CrewProduction[C any] struct {
	ProductionSummary
	CrewCredits []C `json:"crewCredits"`
}

type CastMemberProduction struct {
	ProductionSummary
	Roles []Role `json:"roles"`
}

type PersonView struct {
	Ref
	Materials                        []MaterialSummary                  `json:"materials"`
	SubsequentVersionMaterials       []MaterialSummary                  `json:"subsequentVersionMaterials"`
	SourcingMaterials                []MaterialSummary                  `json:"sourcingMaterials"`
	RightsGrantorMaterials           []MaterialSummary                  `json:"rightsGrantorMaterials"`
	MaterialProductions              []ProductionSummary                `json:"materialProductions"`
	SourcingMaterialProductions      []ProductionSummary                `json:"sourcingMaterialProductions"`
	RightsGrantorMaterialProductions []ProductionSummary                `json:"rightsGrantorMaterialProductions"`
	ProducerProductions              []ProducerProduction[PersonCredit] `json:"producerProductions"`
	CastMemberProductions            []CastMemberProduction             `json:"castMemberProductions"`
	CreativeProductions              []CreativeProduction[PersonCredit] `json:"creativeProductions"`
	CrewProductions                  []CrewProduction[PersonCredit]     `json:"crewProductions"`
	Awards                           []Award[PersonNomination]          `json:"awards"`
	SubsequentVersionMaterialAwards  []Award[PersonNomination]          `json:"subsequentVersionMaterialAwards"`
	SourcingMaterialAwards           []Award[PersonNomination]          `json:"sourcingMaterialAwards"`
	RightsGrantorMaterialAwards      []Award[PersonNomination]          `json:"rightsGrantorMaterialAwards"`
}

type CompanyView struct {
	Ref
	Materials                        []MaterialSummary                   `json:"materials"`
	SubsequentVersionMaterials       []MaterialSummary                   `json:"subsequentVersionMaterials"`
	SourcingMaterials                []MaterialSummary                   `json:"sourcingMaterials"`
	RightsGrantorMaterials           []MaterialSummary                   `json:"rightsGrantorMaterials"`
	MaterialProductions              []ProductionSummary                 `json:"materialProductions"`
	SourcingMaterialProductions      []ProductionSummary                 `json:"sourcingMaterialProductions"`
	RightsGrantorMaterialProductions []ProductionSummary                 `json:"rightsGrantorMaterialProductions"`
	ProducerProductions              []ProducerProduction[CompanyCredit] `json:"producerProductions"`
	CreativeProductions              []CreativeProduction[CompanyCredit] `json:"creativeProductions"`
	CrewProductions                  []CrewProduction[CompanyCredit]     `json:"crewProductions"`
	Awards                           []Award[CompanyNomination]          `json:"awards"`
	SubsequentVersionMaterialAwards  []Award[CompanyNomination]          `json:"subsequentVersionMaterialAwards"`
	SourcingMaterialAwards           []Award[CompanyNomination]          `json:"sourcingMaterialAwards"`
	RightsGrantorMaterialAwards      []Award[CompanyNomination]          `json:"rightsGrantorMaterialAwards"`
}

type ProductionView struct {
	Model           Model               `json:"model"`
	UUID            string              `json:"uuid"`
	Name            string              `json:"name"`
	Subtitle        *string             `json:"subtitle"`
	StartDate       *string             `json:"startDate"`
	PressDate       *string             `json:"pressDate"`
	EndDate         *string             `json:"endDate"`
	Material        *MaterialSummary    `json:"material"`
	Venue           *VenueSummary       `json:"venue"`
	Season          *Ref                `json:"season"`
	Festival        *FestivalSummary    `json:"festival"`
	SurProduction   *SurProduction      `json:"surProduction"`
	SubProductions  []ProductionSummary `json:"subProductions"`
	ProducerCredits []Credit            `json:"producerCredits"`
	Cast            []CastMember        `json:"cast"`
	CreativeCredits []Credit            `json:"creativeCredits"`
	CrewCredits     []Credit            `json:"crewCredits"`
	Awards          []Award[Nomination] `json:"awards"`
}

type VenueView struct {
	Ref
	SurVenue    *VenueSummary     `json:"surVenue"`
	SubVenues   []SubVenue        `json:"subVenues"`
	Productions []VenueProduction `json:"productions"`
}

type SubVenue struct {
	Ref
	SubVenues []Ref `json:"subVenues"`
}

// VenueProduction is a production at a venue. SubVenue is set when it
// played at a venue contained in the one being viewed.
type VenueProduction struct {
	Model     Model   `json:"model"`
	UUID      string  `json:"uuid"`
	Name      string  `json:"name"`
	Subtitle  *string `json:"subtitle"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
	SubVenue  *Ref    `json:"subVenue"`
}

type CharacterView struct {
	Ref
	Materials              []CharacterMaterial   `json:"materials"`
	VariantNamedDepictions []string              `json:"variantNamedDepictions"`
	Productions            []CharacterProduction `json:"productions"`
	VariantNamedPortrayals []string              `json:"variantNamedPortrayals"`
}

// Depiction is one DEPICTS relationship from a material to the character.
type Depiction struct {
	DisplayName *string `json:"displayName"`
	Qualifier   *string `json:"qualifier"`
	Group       *string `json:"group"`
}

type CharacterMaterial struct {
	MaterialSummary
	Depictions []Depiction `json:"depictions"`
}

// Performer is a cast member who played the character, under RoleName.
type Performer struct {
	Ref
	RoleName    string  `json:"roleName"`
	Qualifier   *string `json:"qualifier"`
	IsAlternate bool    `json:"isAlternate"`
	OtherRoles  []Role  `json:"otherRoles"`
}

type CharacterProduction struct {
	ProductionSummary
	Performers []Performer `json:"performers"`
}

type AwardView struct {
	Ref
	Ceremonies []Ceremony[Nomination] `json:"ceremonies"`
}

type AwardCeremonyView struct {
	Model      Model                  `json:"model"`
	UUID       string                 `json:"uuid"`
	Name       string                 `json:"name"`
	Award      *Ref                   `json:"award"`
	Categories []Category[Nomination] `json:"categories"`
}

type FestivalView struct {
	Ref
	FestivalSeries *Ref                `json:"festivalSeries"`
	Productions    []ProductionSummary `json:"productions"`
}

type FestivalSeriesView struct {
	Ref
	Festivals []Ref `json:"festivals"`
}

type SeasonView struct {
	Ref
	Productions []ProductionSummary `json:"productions"`
}
