package sprites

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Variants are the four orientations a version can publish. The catalog
// sends null for the ones it does not have.
type Variants struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
	BackDefault  *string `json:"back_default"`
	BackShiny    *string `json:"back_shiny"`
}

// Get returns the URL stored under one of the four catalog keys.
func (v Variants) Get(key string) (string, bool) {
	var p *string
	switch key {
	case KeyFrontDefault:
		p = v.FrontDefault
	case KeyFrontShiny:
		p = v.FrontShiny
	case KeyBackDefault:
		p = v.BackDefault
	case KeyBackShiny:
		p = v.BackShiny
	}
	if p == nil || *p == "" {
		return "", false
	}
	return *p, true
}

type Version struct {
	Name     string
	Variants Variants
}

type Generation struct {
	Name     string
	Versions []Version
}

// Tree is the generation -> version -> variants tree found under
// sprites.versions. Key order follows the catalog document.
type Tree struct {
	generations []Generation
}

// NewTree builds a tree from already ordered generations.
func NewTree(generations ...Generation) *Tree {
	return &Tree{generations: generations}
}

// Generations lists generation names in catalog order.
func (t *Tree) Generations() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.generations))
	for _, g := range t.generations {
		names = append(names, g.Name)
	}
	return names
}

// Versions lists the versions of one generation in catalog order.
func (t *Tree) Versions(generation string) []string {
	g, ok := t.generation(generation)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(g.Versions))
	for _, v := range g.Versions {
		names = append(names, v.Name)
	}
	return names
}

// Node returns the variants of a generation/version pair.
func (t *Tree) Node(generation, version string) (Variants, bool) {
	g, ok := t.generation(generation)
	if !ok {
		return Variants{}, false
	}
	for _, v := range g.Versions {
		if v.Name == version {
			return v.Variants, true
		}
	}
	return Variants{}, false
}

// Map flattens the tree into plain maps; order is only kept by Generations
// and Versions.
func (t *Tree) Map() map[string]map[string]Variants {
	if t == nil {
		return nil
	}
	out := make(map[string]map[string]Variants, len(t.generations))
	for _, g := range t.generations {
		versions := make(map[string]Variants, len(g.Versions))
		for _, v := range g.Versions {
			versions[v.Name] = v.Variants
		}
		out[g.Name] = versions
	}
	return out
}

func (t *Tree) generation(name string) (Generation, bool) {
	if t == nil {
		return Generation{}, false
	}
	for _, g := range t.generations {
		if g.Name == name {
			return g, true
		}
	}
	return Generation{}, false
}

func (t *Tree) UnmarshalJSON(data []byte) error {
	t.generations = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}
	genKeys, genValues, err := orderedObject(data)
	if err != nil {
		return fmt.Errorf("sprite versions: %w", err)
	}
	for i, genName := range genKeys {
		verKeys, verValues, err := orderedObject(genValues[i])
		if err != nil {
			return fmt.Errorf("sprite generation %q: %w", genName, err)
		}
		gen := Generation{Name: genName, Versions: make([]Version, 0, len(verKeys))}
		for j, verName := range verKeys {
			var variants Variants
			if err := json.Unmarshal(verValues[j], &variants); err != nil {
				return fmt.Errorf("sprite version %q/%q: %w", genName, verName, err)
			}
			gen.Versions = append(gen.Versions, Version{Name: verName, Variants: variants})
		}
		t.generations = append(t.generations, gen)
	}
	return nil
}

func (t Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range t.generations {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeKey(&buf, g.Name); err != nil {
			return nil, err
		}
		buf.WriteByte('{')
		for j, v := range g.Versions {
			if j > 0 {
				buf.WriteByte(',')
			}
			if err := writeKey(&buf, v.Name); err != nil {
				return nil, err
			}
			b, err := json.Marshal(v.Variants)
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, key string) error {
	b, err := json.Marshal(key)
	if err != nil {
		return err
	}
	buf.Write(b)
	buf.WriteByte(':')
	return nil
}

// orderedObject splits a JSON object into its keys and raw values, keeping
// document order.
func orderedObject(data []byte) ([]string, []json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}
	var keys []string
	var values []json.RawMessage
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, nil, err
		}
		keys = append(keys, key)
		values = append(values, raw)
	}
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	return keys, values, nil
}
