// Package validate reports catalogue inconsistencies that make views
// ambiguous: duplicate identities, clashing sibling positions and partially
// positioned credits.
package validate

import (
	"context"
	"fmt"
	"sort"

	"github.com/cockroachdb/errors"

	"playbill/internal/credit"
	"playbill/internal/hierarchy"
	"playbill/internal/store"
	"playbill/internal/traverse"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeDuplicateIdentity = "duplicate_identity"
	codeDuplicatePosition = "duplicate_sibling_position"
	codePartialCredit     = "partial_credit_position"
)

type Issue struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Label    string   `json:"label"`
	UUID     string   `json:"uuid"`
	Name     string   `json:"name"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

// Errors counts issues of error severity.
func (r *Report) Errors() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// creditSources pairs each credit family with the label its edges leave.
var creditSources = []struct {
	family credit.Family
	label  store.Label
}{
	{credit.Writing, store.LabelMaterial},
	{credit.Producer, store.LabelProduction},
	{credit.Creative, store.LabelProduction},
	{credit.Crew, store.LabelProduction},
}

// Run checks the whole catalogue inside one read snapshot.
func Run(ctx context.Context, s store.Store) (*Report, error) {
	if s == nil {
		return nil, errors.New("store is required")
	}

	issues := make([]Issue, 0)
	err := s.Read(ctx, func(r store.Reader) error {
		nodes := make(map[store.Label][]store.Node, len(store.Labels))
		for _, label := range store.Labels {
			list, err := r.Nodes(ctx, label, 0)
			if err != nil {
				return errors.Wrapf(err, "list %s nodes", label)
			}
			nodes[label] = list
			issues = append(issues, duplicateIdentities(list)...)
		}

		for _, f := range []hierarchy.Family{hierarchy.Materials, hierarchy.Productions, hierarchy.Venues} {
			for _, n := range nodes[f.Label] {
				steps, err := traverse.Edges(ctx, r, n.UUID, store.Outgoing, f.Rel)
				if err != nil {
					return errors.Wrapf(err, "sub-nodes of %s", n.UUID)
				}
				issues = append(issues, duplicatePositions(n, steps)...)
			}
		}

		for _, source := range creditSources {
			for _, n := range nodes[source.label] {
				steps, err := traverse.Edges(ctx, r, n.UUID, store.Outgoing, source.family.Types...)
				if err != nil {
					return errors.Wrapf(err, "%s credits of %s", source.family.Name, n.UUID)
				}
				if issue, ok := partialCredits(n, source.family, steps); ok {
					issues = append(issues, issue)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Report{Issues: issues}, nil
}

func duplicateIdentities(nodes []store.Node) []Issue {
	type identity struct{ name, differentiator string }
	seen := make(map[identity]string)
	var issues []Issue
	for _, n := range nodes {
		key := identity{n.Name, n.Differentiator}
		first, ok := seen[key]
		if !ok {
			seen[key] = n.UUID
			continue
		}
		issues = append(issues, Issue{
			Severity: SeverityError,
			Code:     codeDuplicateIdentity,
			Message:  fmt.Sprintf("same name and differentiator as %s", first),
			Label:    string(n.Label),
			UUID:     n.UUID,
			Name:     n.Name,
		})
	}
	return issues
}

func duplicatePositions(parent store.Node, steps []traverse.Step) []Issue {
	byPosition := make(map[int][]string)
	for _, step := range steps {
		if pos, ok := step.Edge().Props.Int("position"); ok {
			byPosition[pos] = append(byPosition[pos], step.Node.UUID)
		}
	}
	positions := make([]int, 0, len(byPosition))
	for pos, ids := range byPosition {
		if len(ids) > 1 {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)

	var issues []Issue
	for _, pos := range positions {
		issues = append(issues, Issue{
			Severity: SeverityWarn,
			Code:     codeDuplicatePosition,
			Message:  fmt.Sprintf("position %d shared by %v", pos, byPosition[pos]),
			Label:    string(parent.Label),
			UUID:     parent.UUID,
			Name:     parent.Name,
		})
	}
	return issues
}

// partialCredits flags a source whose credit edges are positioned only in
// part. Company member edges take their position from the company credit
// and are ignored.
func partialCredits(source store.Node, f credit.Family, steps []traverse.Step) (Issue, bool) {
	positioned, unpositioned := 0, 0
	for _, step := range steps {
		props := step.Edge().Props
		if props.Has("creditedCompanyUuid") {
			continue
		}
		if props.Has("creditPosition") {
			positioned++
		} else {
			unpositioned++
		}
	}
	if positioned == 0 || unpositioned == 0 {
		return Issue{}, false
	}
	return Issue{
		Severity: SeverityWarn,
		Code:     codePartialCredit,
		Message:  fmt.Sprintf("%d of %d %s credit edges lack creditPosition", unpositioned, positioned+unpositioned, f.Name),
		Label:    string(source.Label),
		UUID:     source.UUID,
		Name:     source.Name,
	}, true
}
