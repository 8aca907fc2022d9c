package pokeapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/nerdwave-nick/pokeview/internal/sprites"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrorName is the name carried by the sentinel record of a failed fetch.
const ErrorName = "Error"

const (
	artworkSource = "official-artwork"
	cryLatest     = "latest"
	cryLegacy     = "legacy"
)

var titleCaser = cases.Title(language.English)

// MoveRef is the lightweight move reference listed on a record.
type MoveRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DisplayName turns "thunder-punch" into "Thunder Punch".
func (m MoveRef) DisplayName() string {
	return titleCaser.String(strings.ReplaceAll(m.Name, "-", " "))
}

// Record is the projection of one catalog document the viewers work with.
// On a failed fetch it is the sentinel: Name is ErrorName, every optional
// field is nil and Cause holds the reason.
type Record struct {
	ID         int               `json:"id"`
	Name       string            `json:"name"`
	Height     *float64          `json:"height,omitempty"`
	Weight     *float64          `json:"weight,omitempty"`
	MoveCount  *int              `json:"move_count,omitempty"`
	Types      []string          `json:"types,omitempty"`
	ArtworkURL *string           `json:"artwork_url,omitempty"`
	Cries      map[string]string `json:"cries,omitempty"`
	Sprites    *sprites.Tree     `json:"sprites,omitempty"`
	Moves      []MoveRef         `json:"moves,omitempty"`
	Cause      error             `json:"-"`
}

func errorRecord(id int, cause error) *Record {
	return &Record{ID: id, Name: ErrorName, Cause: cause}
}

// Failed reports whether r is the sentinel of a failed fetch.
func (r *Record) Failed() bool {
	return r.Cause != nil
}

// DisplayName is the name in title case, "charmander" becomes "Charmander".
func (r *Record) DisplayName() string {
	return titleCaser.String(r.Name)
}

// FirstType is the primary type tag, empty when there is none.
func (r *Record) FirstType() string {
	if len(r.Types) == 0 {
		return ""
	}
	return r.Types[0]
}

// CryLabels lists the available cries, latest first.
func (r *Record) CryLabels() []string {
	labels := make([]string, 0, len(r.Cries))
	for label := range r.Cries {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i] == cryLatest || labels[j] == cryLatest {
			return labels[i] == cryLatest
		}
		return labels[i] < labels[j]
	})
	return labels
}

// HasCryChoice is true when there is a legacy cry to pick besides the
// default one.
func (r *Record) HasCryChoice() bool {
	_, ok := r.Cries[cryLegacy]
	return ok
}

// DefaultCry is the label played when nothing was picked.
func (r *Record) DefaultCry() string {
	labels := r.CryLabels()
	if len(labels) == 0 {
		return ""
	}
	return labels[0]
}

// Cry returns the audio url of a cry label.
func (r *Record) Cry(label string) (string, bool) {
	url, ok := r.Cries[label]
	return url, ok
}

// Fetcher turns catalog documents into records and never lets a catalog
// failure escape as an error.
type Fetcher struct {
	client *Client
	maxID  int
}

func NewFetcher(client *Client, maxID int) *Fetcher {
	return &Fetcher{client: client, maxID: maxID}
}

func (f *Fetcher) MaxID() int {
	return f.maxID
}

// Client exposes the underlying catalog client, which also resolves moves.
func (f *Fetcher) Client() *Client {
	return f.client
}

// ValidateID rejects ids outside [1, MaxID].
func (f *Fetcher) ValidateID(id int) error {
	if id < 1 || id > f.maxID {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrIDOutOfRange, id, f.maxID)
	}
	return nil
}

// Fetch returns the record for id. The only error is ErrIDOutOfRange; any
// catalog failure yields the sentinel record instead.
func (f *Fetcher) Fetch(ctx context.Context, id int) (*Record, error) {
	if err := f.ValidateID(id); err != nil {
		return nil, err
	}
	p, err := f.client.Pokemon(ctx, id)
	if err != nil {
		slog.Warn("fetching record", slog.Int("id", id), slog.Any("error", err))
		return errorRecord(id, err), nil
	}
	rec, err := project(id, p)
	if err != nil {
		slog.Warn("projecting record", slog.Int("id", id), slog.Any("error", err))
		return errorRecord(id, err), nil
	}
	return rec, nil
}

var errMissingField = errors.New("missing field")

func project(id int, p *Pokemon) (*Record, error) {
	switch {
	case p.Name == "":
		return nil, fmt.Errorf("%w: name", errMissingField)
	case p.Height == nil:
		return nil, fmt.Errorf("%w: height", errMissingField)
	case p.Weight == nil:
		return nil, fmt.Errorf("%w: weight", errMissingField)
	case p.Moves == nil:
		return nil, fmt.Errorf("%w: moves", errMissingField)
	case p.Types == nil:
		return nil, fmt.Errorf("%w: types", errMissingField)
	case p.Cries == nil:
		return nil, fmt.Errorf("%w: cries", errMissingField)
	case p.Sprites.Versions == nil:
		return nil, fmt.Errorf("%w: sprites.versions", errMissingField)
	}
	artwork, ok := p.Sprites.Other[artworkSource]
	if !ok {
		return nil, fmt.Errorf("%w: sprites.other.%s", errMissingField, artworkSource)
	}

	types := make([]string, 0, len(p.Types))
	sort.SliceStable(p.Types, func(i, j int) bool { return p.Types[i].Slot < p.Types[j].Slot })
	for _, t := range p.Types {
		types = append(types, t.Type.Name)
	}

	cries := make(map[string]string, len(p.Cries))
	for label, url := range p.Cries {
		if url != nil && *url != "" {
			cries[label] = *url
		}
	}

	moves := make([]MoveRef, 0, len(p.Moves))
	for _, m := range p.Moves {
		moves = append(moves, MoveRef{Name: m.Move.Name, URL: m.Move.URL})
	}
	moveCount := len(moves)
	height, weight := *p.Height, *p.Weight

	return &Record{
		ID:         id,
		Name:       p.Name,
		Height:     &height,
		Weight:     &weight,
		MoveCount:  &moveCount,
		Types:      types,
		ArtworkURL: artwork.FrontDefault,
		Cries:      cries,
		Sprites:    p.Sprites.Versions,
		Moves:      moves,
	}, nil
}
