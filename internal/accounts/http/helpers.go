package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/chirpdev/accounts/internal/accounts/domain"
	"github.com/chirpdev/accounts/pkg/accountsdk"
)

// validate is shared by all handlers; the validator instance caches struct
// metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// decodeAndValidate decodes the JSON request body into dst and runs tag
// validation. Returns a ready-to-write APIError on failure.
func decodeAndValidate(r *http.Request, dst any) *accountsdk.APIError {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return accountsdk.ErrInvalidRequest
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return accountsdk.NewValidationError(validationMessage(verrs))
		}
		return accountsdk.ErrInvalidRequest
	}

	return nil
}

// validationMessage flattens validator errors into a single human-readable
// description naming each failed field and rule.
func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		if fe.Tag() == "required" {
			parts = append(parts, fmt.Sprintf("%s is required", field))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// userResponse maps a domain user to its public wire form. The password
// hash stays out.
func userResponse(u domain.User) accountsdk.UserResponse {
	return accountsdk.UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      u.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
