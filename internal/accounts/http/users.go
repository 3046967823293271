package http

import (
	"errors"
	"net/http"

	"github.com/chirpdev/accounts/internal/accounts/service"
	"github.com/chirpdev/accounts/internal/accounts/store"
	"github.com/chirpdev/accounts/pkg/accountsdk"
	"github.com/chirpdev/accounts/pkg/httpx"
	"github.com/chirpdev/accounts/pkg/slogx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleList godoc
//
//	@Summary		List Users Endpoint
//	@Description	Returns all registered users, newest first. Requires a valid session token.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	accountsdk.UsersResponse	"users"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"invalid or missing session token"
//	@Failure		500	{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users [get].
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.ListUsers(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	out := make([]accountsdk.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.UsersResponse{Users: out})
}

// HandleGet godoc
//
//	@Summary		Get User Endpoint
//	@Description	Returns a single user by id. Requires a valid session token.
//	@Tags			Users
//	@Security		BearerAuth
//	@Produce		json
//	@Param			id	path		string						true	"User ID"
//	@Success		200	{object}	accountsdk.UserResponse		"id, username, email, profile_picture"
//	@Failure		401	{object}	accountsdk.ErrorResponse	"invalid or missing session token"
//	@Failure		404	{object}	accountsdk.ErrorResponse	"user not found"
//	@Failure		500	{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users/{id} [get].
func (h *UsersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("id")
	if userID == "" {
		accountsdk.ErrInvalidRequest.WriteError(w)
		return
	}

	user, err := h.UserService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			accountsdk.ErrUserNotFound.WriteError(w)
			return
		}
		log.Error("failed to load user", "user_id", userID, "err", err)
		accountsdk.ErrServerError.WriteError(w)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, userResponse(user))
}
