package intapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nerdwave-nick/pokeview/internal/api/common"
	"github.com/nerdwave-nick/pokeview/internal/compare"
	"github.com/nerdwave-nick/pokeview/internal/moves"
	"github.com/nerdwave-nick/pokeview/internal/pokeapi"
	"github.com/nerdwave-nick/pokeview/internal/sprites"
)

type RecordInput struct {
	ID int `path:"id" doc:"Catalog id of the record"`
}

type TypeTag struct {
	Name  string        `json:"name"`
	Style compare.Style `json:"style"`
}

type RecordBody struct {
	ID          int                                    `json:"id"`
	Name        string                                 `json:"name"`
	DisplayName string                                 `json:"display_name"`
	Height      *float64                               `json:"height,omitempty"`
	Weight      *float64                               `json:"weight,omitempty"`
	MoveCount   *int                                   `json:"move_count,omitempty"`
	Types       []TypeTag                              `json:"types,omitempty"`
	ArtworkURL  *string                                `json:"artwork_url,omitempty"`
	Cries       map[string]string                      `json:"cries,omitempty"`
	DefaultCry  string                                 `json:"default_cry,omitempty"`
	CryChoice   bool                                   `json:"cry_choice"`
	Generations []string                               `json:"generations,omitempty"`
	Sprites     map[string]map[string]sprites.Variants `json:"sprites,omitempty"`
	Moves       []pokeapi.MoveRef                      `json:"moves,omitempty"`
	Error       string                                 `json:"error,omitempty"`
}

type RecordOutput struct {
	Status int
	Body   RecordBody
}

type SpriteInput struct {
	ID         int    `path:"id"`
	Generation string `query:"generation" doc:"Generation name, defaults to the first one"`
	Version    string `query:"version" doc:"Version name, defaults to the first one of the generation"`
	Back       bool   `query:"back"`
	Shiny      bool   `query:"shiny"`
}

type SpriteOutput struct {
	Body struct {
		sprites.Resolved
		Generations []string `json:"generations"`
		Versions    []string `json:"versions"`
	}
}

type ComparisonOutput struct {
	Body struct {
		Height compare.Series `json:"height"`
		Weight compare.Series `json:"weight"`
	}
}

type MovesOutput struct {
	Body struct {
		moves.Snapshot
		Batch *moves.BatchResult `json:"batch,omitempty"`
	}
}

type Controller struct {
	fetcher *pokeapi.Fetcher
	pages   *moves.Store
}

func (c *Controller) RegisterRoutes(rctx common.RouteCreationContext) {
	defaultTags := []string{"Pokemon"}
	common.AddHumaRoute(rctx, c.Record, huma.Operation{
		OperationID: "get-record",
		Method:      http.MethodGet,
		Path:        "/api/pokemon/{id}",
		Summary:     "Record summary",
		Tags:        defaultTags,
	})
	common.AddHumaRoute(rctx, c.Sprite, huma.Operation{
		OperationID: "get-sprite",
		Method:      http.MethodGet,
		Path:        "/api/pokemon/{id}/sprite",
		Summary:     "Resolve a sprite variant",
		Tags:        defaultTags,
	})
	common.AddHumaRoute(rctx, c.Comparison, huma.Operation{
		OperationID: "get-comparison",
		Method:      http.MethodGet,
		Path:        "/api/pokemon/{id}/comparison",
		Summary:     "Height and weight comparison series",
		Tags:        defaultTags,
	})
	common.AddHumaRoute(rctx, c.Moves, huma.Operation{
		OperationID: "get-moves",
		Method:      http.MethodGet,
		Path:        "/api/pokemon/{id}/moves",
		Summary:     "Moves resolved so far",
		Tags:        defaultTags,
	})
	common.AddHumaRoute(rctx, c.NextMoves, huma.Operation{
		OperationID: "next-moves",
		Method:      http.MethodPost,
		Path:        "/api/pokemon/{id}/moves/next",
		Summary:     "Resolve the next batch of moves",
		Tags:        defaultTags,
	})
	common.AddHumaRoute(rctx, c.ResetMoves, huma.Operation{
		OperationID:   "reset-moves",
		Method:        http.MethodDelete,
		Path:          "/api/pokemon/{id}/moves",
		Summary:       "Forget the resolved moves",
		Tags:          defaultTags,
		DefaultStatus: http.StatusNoContent,
	})
}

func (c *Controller) fetch(ctx context.Context, id int) (*pokeapi.Record, huma.StatusError) {
	rec, err := c.fetcher.Fetch(ctx, id)
	if errors.Is(err, pokeapi.ErrIDOutOfRange) {
		return nil, huma.Error400BadRequest(err.Error())
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("fetching record", err)
	}
	return rec, nil
}

func (c *Controller) fetchOK(ctx context.Context, id int) (*pokeapi.Record, huma.StatusError) {
	rec, herr := c.fetch(ctx, id)
	if herr != nil {
		return nil, herr
	}
	if rec.Failed() {
		return nil, huma.Error502BadGateway("catalog unavailable for this record", rec.Cause)
	}
	return rec, nil
}

// Record returns the summary; a catalog failure answers 502 with the
// sentinel record.
func (c *Controller) Record(ctx context.Context, in *RecordInput) (*RecordOutput, huma.StatusError) {
	rec, herr := c.fetch(ctx, in.ID)
	if herr != nil {
		return nil, herr
	}
	out := &RecordOutput{Status: http.StatusOK, Body: recordBody(rec)}
	if rec.Failed() {
		out.Status = http.StatusBadGateway
	}
	return out, nil
}

func recordBody(rec *pokeapi.Record) RecordBody {
	body := RecordBody{
		ID:          rec.ID,
		Name:        rec.Name,
		DisplayName: rec.DisplayName(),
		Height:      rec.Height,
		Weight:      rec.Weight,
		MoveCount:   rec.MoveCount,
		ArtworkURL:  rec.ArtworkURL,
		Cries:       rec.Cries,
		DefaultCry:  rec.DefaultCry(),
		CryChoice:   rec.HasCryChoice(),
		Generations: rec.Sprites.Generations(),
		Sprites:     rec.Sprites.Map(),
		Moves:       rec.Moves,
	}
	for _, t := range rec.Types {
		body.Types = append(body.Types, TypeTag{Name: t, Style: compare.TagStyle(t)})
	}
	if rec.Failed() {
		body.Error = rec.Cause.Error()
	}
	return body
}

func (c *Controller) Sprite(ctx context.Context, in *SpriteInput) (*SpriteOutput, huma.StatusError) {
	rec, herr := c.fetchOK(ctx, in.ID)
	if herr != nil {
		return nil, herr
	}
	sel := sprites.Selection{Generation: in.Generation, Version: in.Version, Back: in.Back, Shiny: in.Shiny}
	if sel.Generation == "" {
		first, _ := sprites.First(rec.Sprites)
		sel.Generation = first.Generation
	}
	if sel.Version == "" {
		if versions := rec.Sprites.Versions(sel.Generation); len(versions) > 0 {
			sel.Version = versions[0]
		}
	}
	out := &SpriteOutput{}
	out.Body.Resolved = sprites.Resolve(rec.Sprites, sel)
	out.Body.Generations = rec.Sprites.Generations()
	out.Body.Versions = rec.Sprites.Versions(sel.Generation)
	return out, nil
}

func (c *Controller) Comparison(ctx context.Context, in *RecordInput) (*ComparisonOutput, huma.StatusError) {
	rec, herr := c.fetch(ctx, in.ID)
	if herr != nil {
		return nil, herr
	}
	out := &ComparisonOutput{}
	out.Body.Height = compare.Heights(rec)
	out.Body.Weight = compare.Weights(rec)
	return out, nil
}

func (c *Controller) page(ctx context.Context, id int) (*moves.Page, huma.StatusError) {
	if p, ok := c.pages.Lookup(id); ok {
		return p, nil
	}
	rec, herr := c.fetchOK(ctx, id)
	if herr != nil {
		return nil, herr
	}
	return c.pages.Open(id, rec.Moves), nil
}

func (c *Controller) Moves(ctx context.Context, in *RecordInput) (*MovesOutput, huma.StatusError) {
	p, herr := c.page(ctx, in.ID)
	if herr != nil {
		return nil, herr
	}
	out := &MovesOutput{}
	out.Body.Snapshot = p.Snapshot()
	return out, nil
}

func (c *Controller) NextMoves(ctx context.Context, in *RecordInput) (*MovesOutput, huma.StatusError) {
	p, herr := c.page(ctx, in.ID)
	if herr != nil {
		return nil, herr
	}
	batch, err := p.Advance(ctx, in.ID, c.fetcher.Client())
	if err != nil {
		slog.Error("advancing move page", slog.Int("id", in.ID), slog.Any("error", err))
		return nil, huma.Error500InternalServerError("advancing move page", err)
	}
	out := &MovesOutput{}
	out.Body.Snapshot = p.Snapshot()
	out.Body.Batch = &batch
	return out, nil
}

func (c *Controller) ResetMoves(_ context.Context, in *RecordInput) (*struct{}, huma.StatusError) {
	c.pages.Drop(in.ID)
	return nil, nil
}

func MakeController(fetcher *pokeapi.Fetcher, pages *moves.Store) *Controller {
	return &Controller{fetcher: fetcher, pages: pages}
}
