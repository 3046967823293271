package http

import (
	"errors"
	"net/http"

	"github.com/chirpdev/accounts/internal/accounts/service"
	"github.com/chirpdev/accounts/pkg/accountsdk"
	"github.com/chirpdev/accounts/pkg/httpx"
	"github.com/chirpdev/accounts/pkg/slogx"
)

type SignUpHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Register Endpoint
//	@Description	Create a new user account. Registration signs the account in immediately,
//	@Description	so the response carries both the created user and a session token.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.SignUpRequest	true	"username, email, password"
//	@Success		201		{object}	accountsdk.SignUpResponse	"user, token"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		409		{object}	accountsdk.ErrorResponse	"username already taken"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users/signup [post].
func (h *SignUpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.SignUpRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	user, token, err := h.AccountService.SignUp(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameAlreadyTaken):
			accountsdk.ErrUsernameTaken.WriteError(w)
		default:
			log.Error("signup failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, accountsdk.SignUpResponse{
		User:  userResponse(user),
		Token: token,
	})
}
