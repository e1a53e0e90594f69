// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/superdwayne/brandgate/internal/platform/middleware"
	requestutil "github.com/superdwayne/brandgate/internal/platform/request"
	"github.com/superdwayne/brandgate/internal/platform/respond"
)

// Handler implements brand-settings HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns a [chi.Router] configured with settings routes. The router
// is mounted under /brands/{brand}/settings.
//
// # Endpoints
//   - GET    /       : Lists a brand's settings.
//   - GET    /{key}  : Returns one setting.
//   - PUT    /{key}  : Creates or replaces a setting (requires bearer token).
//   - DELETE /{key}  : Removes a setting (requires bearer token).
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{key}", handler.get)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireSession)
		protected.Put("/{key}", handler.upsert)
		protected.Delete("/{key}", handler.remove)
	})

	return router
}

type upsertInput struct {
	Value string `json:"value"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	items, err := handler.service.ListSettings(request.Context(), requestutil.Param(request, "brand"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, items)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	setting, err := handler.service.GetSetting(
		request.Context(),
		requestutil.Param(request, "brand"),
		requestutil.Param(request, "key"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, setting)
}

func (handler *Handler) upsert(writer http.ResponseWriter, request *http.Request) {

	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := upsertInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	setting, err := handler.service.UpsertSetting(
		request.Context(),
		requestutil.Param(request, "brand"),
		requestutil.Param(request, "key"),
		input.Value,
		session.Claims.Email,
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, setting)
}

func (handler *Handler) remove(writer http.ResponseWriter, request *http.Request) {
	err := handler.service.DeleteSetting(
		request.Context(),
		requestutil.Param(request, "brand"),
		requestutil.Param(request, "key"),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.NoContent(writer)
}
