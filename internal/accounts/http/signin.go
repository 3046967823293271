package http

import (
	"errors"
	"net/http"

	"github.com/chirpdev/accounts/internal/accounts/service"
	"github.com/chirpdev/accounts/pkg/accountsdk"
	"github.com/chirpdev/accounts/pkg/httpx"
	"github.com/chirpdev/accounts/pkg/slogx"
)

type SignInHandler struct {
	AccountService *service.AccountService
}

// ServeHTTP godoc
//
//	@Summary		Sign In Endpoint
//	@Description	Exchange username and password for a session token. Unknown usernames
//	@Description	and wrong passwords produce the same 401 response.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.SignInRequest	true	"username, password"
//	@Success		200		{object}	accountsdk.SignInResponse	"token"
//	@Failure		400		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Failure		401		{object}	accountsdk.ErrorResponse	"invalid credentials"
//	@Failure		500		{object}	accountsdk.ErrorResponse	"error, error_description"
//	@Router			/v1/users/signin [post].
func (h *SignInHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.SignInRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	token, err := h.AccountService.SignIn(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			accountsdk.ErrInvalidCredentials.WriteError(w)
		default:
			log.Error("signin failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.SignInResponse{Token: token})
}
