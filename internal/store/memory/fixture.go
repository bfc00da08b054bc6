package memory

import (
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"playbill/internal/store"
)

type Fixture struct {
	Nodes []FixtureNode `yaml:"nodes"`
	Edges []FixtureEdge `yaml:"edges"`
}

type FixtureNode struct {
	UUID           string         `yaml:"uuid"`
	Label          string         `yaml:"label"`
	Name           string         `yaml:"name"`
	Differentiator string         `yaml:"differentiator"`
	Props          map[string]any `yaml:"props"`
}

type FixtureEdge struct {
	Type  string         `yaml:"type"`
	From  string         `yaml:"from"`
	To    string         `yaml:"to"`
	Props map[string]any `yaml:"props"`
}

// Node converts the fixture entry, copying uuid, name and differentiator
// into the properties the way graph backends store them.
func (n FixtureNode) Node() store.Node {
	props := store.Props{}
	for key, value := range n.Props {
		props[key] = value
	}
	props["uuid"] = n.UUID
	props["name"] = n.Name
	if n.Differentiator != "" {
		props["differentiator"] = n.Differentiator
	}
	return store.Node{
		UUID:           n.UUID,
		Label:          store.Label(n.Label),
		Name:           n.Name,
		Differentiator: n.Differentiator,
		Props:          props,
	}
}

func (e FixtureEdge) Edge() store.Edge {
	return store.Edge{
		Type:  store.RelType(e.Type),
		From:  e.From,
		To:    e.To,
		Props: store.Props(e.Props),
	}
}

// ReadFixture reads and decodes a YAML fixture file.
func ReadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading fixture")
	}
	fixture, err := DecodeFixture(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading fixture %s", path)
	}
	return fixture, nil
}

func DecodeFixture(data []byte) (*Fixture, error) {
	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Wrap(err, "decoding fixture")
	}
	return &fixture, nil
}

// LoadFile reads a YAML fixture into a new Store.
func LoadFile(path string) (*Store, error) {
	fixture, err := ReadFixture(path)
	if err != nil {
		return nil, err
	}
	return FromFixture(fixture)
}

func Load(data []byte) (*Store, error) {
	fixture, err := DecodeFixture(data)
	if err != nil {
		return nil, err
	}
	return FromFixture(fixture)
}

func FromFixture(fixture *Fixture) (*Store, error) {
	s := New()
	for i, n := range fixture.Nodes {
		if err := s.AddNode(n.Node()); err != nil {
			return nil, errors.Wrapf(err, "node %d", i)
		}
	}
	for i, e := range fixture.Edges {
		if err := s.AddEdge(e.Edge()); err != nil {
			return nil, errors.Wrapf(err, "edge %d", i)
		}
	}
	return s, nil
}
