// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/superdwayne/brandgate/internal/platform/middleware"
	requestutil "github.com/superdwayne/brandgate/internal/platform/request"
	"github.com/superdwayne/brandgate/internal/platform/respond"
)

// Handler implements authentication HTTP endpoints over the session
// controller.
type Handler struct {
	controller *SessionController
}

// NewHandler constructs a new [Handler].
func NewHandler(controller *SessionController) *Handler {
	return &Handler{controller: controller}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /signup          : Registers a new account on the brand owning the email domain.
//   - POST /signin          : Authenticates email+password.
//   - POST /signout         : Revokes the current session (requires bearer token).
//   - POST /reset-password  : Dispatches a password-reset email.
//   - PUT  /password        : Replaces the current password (requires bearer token).
//   - GET  /session         : Returns the controller's current state snapshot.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/signup", handler.signUp)
	router.Post("/signin", handler.signIn)
	router.Post("/reset-password", handler.resetPassword)
	router.Get("/session", handler.session)

	router.Group(func(protected chi.Router) {
		protected.Use(middleware.RequireSession)
		protected.Post("/signout", handler.signOut)
		protected.Put("/password", handler.updatePassword)
	})

	return router
}

// # Inputs

type signUpInput struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Metadata map[string]any `json:"metadata"`
}

type signInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type resetPasswordInput struct {
	Email string `json:"email"`
}

type updatePasswordInput struct {
	Password string `json:"password"`
}

// # Handlers

/*
signUp registers a new account.

POST /api/v1/auth/signup

Request body: {"email", "password", "metadata"?}

Response:
  - 201: Session (tokens present only when the backend auto-confirms)
  - 400: INVALID_EMAIL_DOMAIN or VALIDATION_ERROR
  - 4xx/5xx: Forwarded backend errors
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {

	input := signUpInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.controller.SignUp(request.Context(), input.Email, input.Password, input.Metadata)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
signIn authenticates an email+password pair.

POST /api/v1/auth/signin

Request body: {"email", "password"}

Response:
  - 200: Session
  - 400: VALIDATION_ERROR
  - 4xx/5xx: Forwarded backend errors (wrong credentials surface verbatim)
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {

	input := signInInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.controller.SignIn(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
signOut revokes the caller's session.

POST /api/v1/auth/signout

Response:
  - 204: Session revoked (local state is cleared even on backend failure)
  - 401: Missing bearer token
*/
func (handler *Handler) signOut(writer http.ResponseWriter, request *http.Request) {

	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.controller.SignOut(request.Context(), session.Token); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
resetPassword triggers the password-reset email flow.

POST /api/v1/auth/reset-password

Request body: {"email"}

Response:
  - 200: {"message": "Password reset email sent"}
  - 400: VALIDATION_ERROR (empty email)
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {

	input := resetPasswordInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.controller.ResetPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]string{FieldMessage: "Password reset email sent"})
}

/*
updatePassword replaces the caller's password.

PUT /api/v1/auth/password

Request body: {"password"}

Response:
  - 200: AuthUser
  - 400: VALIDATION_ERROR (policy re-applied locally)
  - 401: Missing bearer token
*/
func (handler *Handler) updatePassword(writer http.ResponseWriter, request *http.Request) {

	session, err := requestutil.RequiredSession(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	input := updatePasswordInput{}
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.controller.UpdatePassword(request.Context(), session.Token, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

/*
session returns the controller's observable state snapshot.

GET /api/v1/auth/session

Response:
  - 200: State ({"user", "loading", "brand"})
*/
func (handler *Handler) session(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, handler.controller.Current())
}
