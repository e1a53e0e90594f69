// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

/*
Package brand also provides the HTTP delivery layer for the public brand
catalogue.

This layer is strictly responsible for transport concerns; the registry itself
carries no HTTP knowledge.
*/
package brand

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/superdwayne/brandgate/internal/platform/apperr"
	requestutil "github.com/superdwayne/brandgate/internal/platform/request"
	"github.com/superdwayne/brandgate/internal/platform/respond"
)

// Handler implements brand catalogue HTTP endpoints.
type Handler struct {
	registry *Registry
}

// NewHandler constructs a new [Handler] over the validated registry.
func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// Routes returns a [chi.Router] configured with brand catalogue routes.
//
// # Endpoints
//   - GET /        : Lists all registered brands (public identity fields only).
//   - GET /{brand} : Returns a single brand's public identity.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{brand}", handler.get)

	return router
}

/*
list returns every registered brand in stable registration order.

GET /api/v1/brands

Response:
  - 200: []BrandConfig: Public fields only (endpoint and keys are never exposed)
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.registry.List())
}

/*
get returns a single brand's public identity.

GET /api/v1/brands/{brand}

Response:
  - 200: BrandConfig
  - 404: Unknown brand id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	id := requestutil.Param(request, "brand")

	cfg, err := handler.registry.Get(id)
	if err != nil {
		// Unknown ids from the public API surface as 404, not config errors.
		respond.Error(writer, request, apperr.NotFound("Brand"))
		return
	}

	respond.OK(writer, cfg)
}
