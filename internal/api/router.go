package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/nerdwave-nick/pokeview/internal/api/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

type Controller interface {
	RegisterRoutes(rctx common.RouteCreationContext)
}

// MakeRouter mounts the huma API and the metrics endpoint on mux and wraps
// the result in the CORS policy.
func MakeRouter(mux *http.ServeMux, origins []string, registry *prometheus.Registry, controllers []Controller) http.Handler {
	config := huma.DefaultConfig("pokeview", "1.0.0")
	config.Info.Description = "Creature records, sprites, comparisons and paginated moves from the PokeAPI catalog."
	humaAPI := humago.New(mux, config)

	rctx := common.RouteCreationContext{API: humaAPI}
	for _, c := range controllers {
		c.RegisterRoutes(rctx)
	}

	if registry != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
	}).Handler(mux)
}
