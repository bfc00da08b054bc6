// Package view assembles detail and list documents for every entity kind.
package view

import (
	"context"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"playbill/internal/document"
	"playbill/internal/store"
)

// Kind is an entity kind served by a view.
type Kind string

const (
	KindMaterial       Kind = "material"
	KindPerson         Kind = "person"
	KindCompany        Kind = "company"
	KindProduction     Kind = "production"
	KindVenue          Kind = "venue"
	KindCharacter      Kind = "character"
	KindAward          Kind = "award"
	KindAwardCeremony  Kind = "award-ceremony"
	KindFestival       Kind = "festival"
	KindFestivalSeries Kind = "festival-series"
	KindSeason         Kind = "season"
)

var kindLabels = map[Kind]store.Label{
	KindMaterial:       store.LabelMaterial,
	KindPerson:         store.LabelPerson,
	KindCompany:        store.LabelCompany,
	KindProduction:     store.LabelProduction,
	KindVenue:          store.LabelVenue,
	KindCharacter:      store.LabelCharacter,
	KindAward:          store.LabelAward,
	KindAwardCeremony:  store.LabelAwardCeremony,
	KindFestival:       store.LabelFestival,
	KindFestivalSeries: store.LabelFestivalSeries,
	KindSeason:         store.LabelSeason,
}

// Kinds lists every kind in a stable order.
var Kinds = []Kind{
	KindMaterial,
	KindPerson,
	KindCompany,
	KindProduction,
	KindVenue,
	KindCharacter,
	KindAward,
	KindAwardCeremony,
	KindFestival,
	KindFestivalSeries,
	KindSeason,
}

// ErrUnknownKind is returned for a kind no view serves.
var ErrUnknownKind = errors.New("unknown view kind")

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindLabels[k]; !ok {
		return "", errors.Wrapf(ErrUnknownKind, "%q", s)
	}
	return k, nil
}

func (k Kind) Label() store.Label {
	return kindLabels[k]
}

// DefaultListLimit caps list views when no limit is configured.
const DefaultListLimit = 500

type Service struct {
	store     store.Store
	logger    *zap.SugaredLogger
	listLimit int
}

type Option func(*Service)

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:     st,
		logger:    zap.NewNop().Sugar(),
		listLimit: DefaultListLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetView builds the detail document for one entity. The whole document is
// read from one store snapshot; any failed traversal fails the build.
func (s *Service) GetView(ctx context.Context, kind Kind, id string) (any, error) {
	label := kind.Label()
	if label == "" {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.NotFound(string(label), id)
	}

	start := time.Now()
	var doc any
	err := s.store.Read(ctx, func(r store.Reader) error {
		node, err := r.GetNode(ctx, id)
		if err != nil {
			return err
		}
		if node.Label != label {
			return store.NotFound(string(label), id)
		}
		b := newBuilder(r)
		doc, err = b.build(ctx, kind, node)
		return err
	})
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Errorw("View build failed", "kind", kind, "uuid", id, "error", err)
		}
		return nil, errors.Wrapf(err, "building %s view", kind)
	}
	s.logger.Debugw("View built", "kind", kind, "uuid", id, "duration", time.Since(start))
	return doc, nil
}

// Encode renders a document as JSON.
func Encode(doc any) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return data, nil
}

// EncodeIndent renders a document as indented JSON.
func EncodeIndent(doc any) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "encoding document")
	}
	return data, nil
}

// List orderings.
const (
	OrderName          = "name"
	OrderNameDesc      = "-name"
	OrderStartDate     = "startDate"
	OrderStartDateDesc = "-startDate"
)

// ErrUnknownOrder is returned for an ordering a list view does not support.
var ErrUnknownOrder = errors.New("unknown list order")

// GetListView returns the shallow projection of every entity of a kind. It
// does not run the aggregation pipeline.
func (s *Service) GetListView(ctx context.Context, kind Kind, order string) ([]document.ListItem, error) {
	label := kind.Label()
	if label == "" {
		return nil, errors.Wrapf(ErrUnknownKind, "%q", kind)
	}
	if order == "" {
		order = OrderName
	}
	switch order {
	case OrderName, OrderNameDesc:
	case OrderStartDate, OrderStartDateDesc:
		if kind != KindProduction {
			return nil, errors.Wrapf(ErrUnknownOrder, "%q for %s", order, kind)
		}
	default:
		return nil, errors.Wrapf(ErrUnknownOrder, "%q", order)
	}

	var items []document.ListItem
	err := s.store.Read(ctx, func(r store.Reader) error {
		nodes, err := r.Nodes(ctx, label, 0)
		if err != nil {
			return err
		}
		items = make([]document.ListItem, 0, len(nodes))
		for _, n := range nodes {
			item := document.ListItem{Ref: document.RefOf(n)}
			if kind == KindProduction {
				item.StartDate = n.Props.OptString(propStartDate)
				item.EndDate = n.Props.OptString(propEndDate)
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", kind)
	}

	sortList(items, order)
	if len(items) > s.listLimit {
		items = items[:s.listLimit]
	}
	return items, nil
}

func sortList(items []document.ListItem, order string) {
	byName := func(a, b document.ListItem) int {
		switch {
		case a.Name < b.Name:
			return -1
		case a.Name > b.Name:
			return 1
		case a.UUID < b.UUID:
			return -1
		case a.UUID > b.UUID:
			return 1
		}
		return 0
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case OrderNameDesc:
			return byName(a, b) > 0
		case OrderStartDate, OrderStartDateDesc:
			if c := compareDates(a.StartDate, b.StartDate, order == OrderStartDateDesc); c != 0 {
				return c < 0
			}
		}
		return byName(a, b) < 0
	})
}
