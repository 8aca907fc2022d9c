package health

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/nerdwave-nick/pokeview/internal/api/common"
)

type LiveBody struct {
	Body struct {
		Status string `json:"status" example:"ok"`
	}
}

type Controller struct{}

func (c *Controller) RegisterRoutes(rctx common.RouteCreationContext) {
	common.AddHumaRoute(rctx, c.Live, huma.Operation{
		OperationID: "health-live",
		Method:      http.MethodGet,
		Path:        "/api/health/live",
		Tags:        []string{"Health"},
	})
}

// Live reports that the server is up and serving requests.
func (c *Controller) Live(_ context.Context, _ *struct{}) (*LiveBody, huma.StatusError) {
	out := &LiveBody{}
	out.Body.Status = "ok"
	return out, nil
}

func MakeController() *Controller {
	return &Controller{}
}
