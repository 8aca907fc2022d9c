package common

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

// RouteCreationContext is what a controller needs to register its routes.
type RouteCreationContext struct {
	API huma.API
}

// AddHumaRoute registers a handler that reports failures as huma status
// errors.
func AddHumaRoute[I, O any](rctx RouteCreationContext, handler func(context.Context, *I) (*O, huma.StatusError), op huma.Operation) {
	huma.Register(rctx.API, op, func(ctx context.Context, input *I) (*O, error) {
		out, err := handler(ctx, input)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}
