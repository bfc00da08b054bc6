package document

// Award groups nominations of type N by ceremony and category.
type Award[N any] struct {
	Ref
	Ceremonies []Ceremony[N] `json:"ceremonies"`
}

type Ceremony[N any] struct {
	Model      Model         `json:"model"`
	UUID       string        `json:"uuid"`
	Name       string        `json:"name"`
	Categories []Category[N] `json:"categories"`
}

type Category[N any] struct {
	Model       Model  `json:"model"`
	UUID        string `json:"uuid"`
	Name        string `json:"name"`
	Nominations []N    `json:"nominations"`
}

// Recipients names the related works a nomination actually went to when it
// is shown against an entity indirectly. Only one list is set per view.
type Recipients struct {
	RecipientSubsequentVersionMaterials []MaterialSummary `json:"recipientSubsequentVersionMaterials,omitempty"`
	RecipientSourcingMaterials          []MaterialSummary `json:"recipientSourcingMaterials,omitempty"`
	RecipientRightsGrantorMaterials     []MaterialSummary `json:"recipientRightsGrantorMaterials,omitempty"`
}

// Nomination is the full nomination record, used by award, ceremony,
// material and production views.
type Nomination struct {
	Model               Model              `json:"model"`
	IsWinner            bool               `json:"isWinner"`
	Type                string             `json:"type"`
	RecipientMaterial   *MaterialSummary   `json:"recipientMaterial,omitempty"`
	RecipientProduction *ProductionSummary `json:"recipientProduction,omitempty"`
	Recipients
	Entities    []Entity            `json:"entities"`
	Productions []ProductionSummary `json:"productions"`
	Materials   []MaterialSummary   `json:"materials"`
}

// PersonNomination is a nomination seen from a nominated person.
type PersonNomination struct {
	Model    Model  `json:"model"`
	IsWinner bool   `json:"isWinner"`
	Type     string `json:"type"`
	Recipients
	EmployerCompany *Employer           `json:"employerCompany"`
	CoEntities      []Entity            `json:"coEntities"`
	Productions     []ProductionSummary `json:"productions"`
	Materials       []MaterialSummary   `json:"materials"`
}

// CompanyNomination is a nomination seen from a nominated company.
type CompanyNomination struct {
	Model    Model  `json:"model"`
	IsWinner bool   `json:"isWinner"`
	Type     string `json:"type"`
	Recipients
	Members     []Ref               `json:"members"`
	CoEntities  []Entity            `json:"coEntities"`
	Productions []ProductionSummary `json:"productions"`
	Materials   []MaterialSummary   `json:"materials"`
}
