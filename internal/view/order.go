package view

import (
	"sort"

	"playbill/internal/document"
)

const (
	propFormat    = "format"
	propYear      = "year"
	propSubtitle  = "subtitle"
	propStartDate = "startDate"
	propPressDate = "pressDate"
	propEndDate   = "endDate"
)

// compareDates orders ISO dates, absent dates last in either direction.
func compareDates(a, b *string, desc bool) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a == *b:
		return 0
	case (*a < *b) != desc:
		return -1
	default:
		return 1
	}
}

func compareNames(aName, aUUID, bName, bUUID string) int {
	switch {
	case aName < bName:
		return -1
	case aName > bName:
		return 1
	case aUUID < bUUID:
		return -1
	case aUUID > bUUID:
		return 1
	}
	return 0
}

// sortMaterials orders materials by year descending (absent last), then
// name and uuid.
func sortMaterials(ms []document.MaterialSummary) {
	sort.SliceStable(ms, func(i, j int) bool {
		a, b := ms[i], ms[j]
		switch {
		case a.Year != nil && b.Year != nil && *a.Year != *b.Year:
			return *a.Year > *b.Year
		case a.Year != nil && b.Year == nil:
			return true
		case a.Year == nil && b.Year != nil:
			return false
		}
		return compareNames(a.Name, a.UUID, b.Name, b.UUID) < 0
	})
}

// sortProductions orders productions by start date, latest first, then name
// and uuid.
func sortProductions(ps []document.ProductionSummary) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if c := compareDates(a.StartDate, b.StartDate, true); c != 0 {
			return c < 0
		}
		return compareNames(a.Name, a.UUID, b.Name, b.UUID) < 0
	})
}

// sortProductionsChronologically orders productions by start date, earliest
// first, then name and uuid.
func sortProductionsChronologically(ps []document.ProductionSummary) {
	sort.SliceStable(ps, func(i, j int) bool {
		a, b := ps[i], ps[j]
		if c := compareDates(a.StartDate, b.StartDate, false); c != 0 {
			return c < 0
		}
		return compareNames(a.Name, a.UUID, b.Name, b.UUID) < 0
	})
}

func sortRefs(refs []document.Ref) {
	sort.SliceStable(refs, func(i, j int) bool {
		return compareNames(refs[i].Name, refs[i].UUID, refs[j].Name, refs[j].UUID) < 0
	})
}
