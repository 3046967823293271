package http

import (
	"errors"
	"net/http"

	"github.com/chirpdev/accounts/internal/accounts/service"
	"github.com/chirpdev/accounts/pkg/accountsdk"
	"github.com/chirpdev/accounts/pkg/httpx"
	"github.com/chirpdev/accounts/pkg/slogx"
)

type ForgotPasswordHandler struct {
	PasswordService *service.PasswordService
}

// ServeHTTP godoc
//
//	@Summary		Forgot Password Endpoint
//	@Description	Issue a single-use reset token and deliver it to the account's registered
//	@Description	email. The token itself never appears in the response.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ForgotPasswordRequest	true	"email"
//	@Success		200		{object}	accountsdk.MessageResponse			"message"
//	@Failure		400		{object}	accountsdk.ErrorResponse			"error, error_description"
//	@Failure		404		{object}	accountsdk.ErrorResponse			"no account with that email"
//	@Failure		500		{object}	accountsdk.ErrorResponse			"error, error_description"
//	@Router			/v1/users/forgot-password [post].
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.ForgotPasswordRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	if err := h.PasswordService.RequestReset(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotFound):
			accountsdk.ErrEmailNotFound.WriteError(w)
		default:
			log.Error("forgot-password failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "reset token sent to registered email",
	})
}

type ResetPasswordHandler struct {
	PasswordService *service.PasswordService
}

// ServeHTTP godoc
//
//	@Summary		Reset Password Endpoint
//	@Description	Consume a reset token and install a new password. Tokens are single-use:
//	@Description	unknown, expired, and already-spent tokens are all rejected with the same
//	@Description	response.
//	@Tags			Users
//	@Accept			json
//	@Produce		json
//	@Param			request	body		accountsdk.ResetPasswordRequest	true	"token, password"
//	@Success		200		{object}	accountsdk.MessageResponse		"message"
//	@Failure		400		{object}	accountsdk.ErrorResponse		"invalid or expired token"
//	@Failure		500		{object}	accountsdk.ErrorResponse		"error, error_description"
//	@Router			/v1/users/reset-password [post].
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req accountsdk.ResetPasswordRequest
	if apiErr := decodeAndValidate(r, &req); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	_, err := h.PasswordService.Reset(ctx, req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrResetTokenNotFound),
			errors.Is(err, service.ErrResetTokenExpiredOrUsed):
			// One response for every rejection; don't reveal which case hit.
			accountsdk.ErrResetTokenInvalid.WriteError(w)
		default:
			log.Error("reset-password failed", "err", err)
			accountsdk.ErrServerError.WriteError(w)
		}
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, accountsdk.MessageResponse{
		Message: "password updated",
	})
}
