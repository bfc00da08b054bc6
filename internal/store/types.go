package store

import (
	"fmt"
	"math"
	"regexp"
	"slices"

	"github.com/goccy/go-json"
)

type Label string

const (
	LabelPerson                Label = "Person"
	LabelCompany               Label = "Company"
	LabelMaterial              Label = "Material"
	LabelProduction            Label = "Production"
	LabelVenue                 Label = "Venue"
	LabelCharacter             Label = "Character"
	LabelAward                 Label = "Award"
	LabelAwardCeremony         Label = "AwardCeremony"
	LabelAwardCeremonyCategory Label = "AwardCeremonyCategory"
	LabelFestival              Label = "Festival"
	LabelFestivalSeries        Label = "FestivalSeries"
	LabelSeason                Label = "Season"
)

var Labels = []Label{
	LabelPerson,
	LabelCompany,
	LabelMaterial,
	LabelProduction,
	LabelVenue,
	LabelCharacter,
	LabelAward,
	LabelAwardCeremony,
	LabelAwardCeremonyCategory,
	LabelFestival,
	LabelFestivalSeries,
	LabelSeason,
}

func (l Label) Valid() bool {
	return slices.Contains(Labels, l)
}

type RelType string

const (
	RelWritingCredit        RelType = "WRITING_CREDIT"
	RelUsesSourceMaterial   RelType = "USES_SOURCE_MATERIAL"
	RelSubsequentVersionOf  RelType = "SUBSEQUENT_VERSION_OF"
	RelHasSubMaterial       RelType = "HAS_SUB_MATERIAL"
	RelDepicts              RelType = "DEPICTS"
	RelCastRole             RelType = "CAST_ROLE"
	RelProducerCredit       RelType = "PRODUCER_CREDIT"
	RelCreativeCredit       RelType = "CREATIVE_CREDIT"
	RelCrewCredit           RelType = "CREW_CREDIT"
	RelPlaysAt              RelType = "PLAYS_AT"
	RelHasSubVenue          RelType = "HAS_SUB_VENUE"
	RelHasSubProduction     RelType = "HAS_SUB_PRODUCTION"
	RelProductionOf         RelType = "PRODUCTION_OF"
	RelPartOfSeason         RelType = "PART_OF_SEASON"
	RelPartOfFestival       RelType = "PART_OF_FESTIVAL"
	RelPartOfFestivalSeries RelType = "PART_OF_FESTIVAL_SERIES"
	RelPresentedAt          RelType = "PRESENTED_AT"
	RelPresentsCategory     RelType = "PRESENTS_CATEGORY"
	RelNominee              RelType = "NOMINEE"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s may be interpolated into a query as a
// label or relationship type.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

type Direction int

const (
	Outgoing Direction = iota
	Incoming
)

func (d Direction) String() string {
	if d == Incoming {
		return "incoming"
	}
	return "outgoing"
}

type Node struct {
	UUID           string
	Label          Label
	Name           string
	Differentiator string
	Props          Props
}

type Edge struct {
	Type  RelType
	From  string
	To    string
	Props Props
}

// Key identifies an edge by type, endpoints and properties. Two edges with
// the same key are the same fact.
func (e Edge) Key() string {
	props := []byte("{}")
	if len(e.Props) > 0 {
		raw, err := json.Marshal(e.Props)
		if err != nil {
			raw = []byte(fmt.Sprint(e.Props))
		}
		props = raw
	}
	return string(e.Type) + "|" + e.From + "|" + e.To + "|" + string(props)
}

// Path is a walk from Nodes[0]. Edges[i] joins Nodes[i] and Nodes[i+1] and
// keeps the stored direction of the relationship.
type Path struct {
	Nodes []Node
	Edges []Edge
}

func (p Path) Len() int {
	return len(p.Edges)
}

func (p Path) End() Node {
	if len(p.Nodes) == 0 {
		return Node{}
	}
	return p.Nodes[len(p.Nodes)-1]
}

// Visits reports whether the path passes through the node.
func (p Path) Visits(id string) bool {
	for _, n := range p.Nodes {
		if n.UUID == id {
			return true
		}
	}
	return false
}

// LastEdge is the edge touching End. It is the zero Edge for an empty path.
func (p Path) LastEdge() Edge {
	if len(p.Edges) == 0 {
		return Edge{}
	}
	return p.Edges[len(p.Edges)-1]
}

type Pattern struct {
	Types     []RelType
	Direction Direction
	MinHops   int
	MaxHops   int
	// Labels restricts the terminal node. Empty means any label.
	Labels []Label
	// Filter is property equality applied to every edge in the path.
	Filter map[string]any
}

// AcceptsLabel reports whether the terminal label filter admits l.
func (p Pattern) AcceptsLabel(l Label) bool {
	return len(p.Labels) == 0 || slices.Contains(p.Labels, l)
}

// AcceptsType reports whether the relationship type filter admits t.
func (p Pattern) AcceptsType(t RelType) bool {
	return len(p.Types) == 0 || slices.Contains(p.Types, t)
}

// MatchesFilter applies Filter to one edge.
func (p Pattern) MatchesFilter(e Edge) bool {
	for key, want := range p.Filter {
		got, ok := e.Props[key]
		if !ok || !ValuesEqual(got, want) {
			return false
		}
	}
	return true
}

// Props holds node or relationship properties. Backends decode numbers as
// int, int64 or float64; accessors normalise them.
type Props map[string]any

func (p Props) String(key string) string {
	if s, ok := p[key].(string); ok {
		return s
	}
	return ""
}

// OptString returns nil for an absent or empty string property.
func (p Props) OptString(key string) *string {
	s := p.String(key)
	if s == "" {
		return nil
	}
	return &s
}

func (p Props) Int(key string) (int, bool) {
	return toInt(p[key])
}

func (p Props) OptInt(key string) *int {
	v, ok := p.Int(key)
	if !ok {
		return nil
	}
	return &v
}

func (p Props) Bool(key string) bool {
	b, _ := p[key].(bool)
	return b
}

func (p Props) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case float32:
		return toInt(float64(v))
	default:
		return 0, false
	}
}

// ValuesEqual compares property values, treating numeric kinds as equal when
// they hold the same integer.
func ValuesEqual(a, b any) bool {
	if ai, ok := toInt(a); ok {
		bi, ok := toInt(b)
		return ok && ai == bi
	}
	return a == b
}
