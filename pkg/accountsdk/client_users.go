package accountsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// SignUp registers a new account. A successful signup is also a sign-in:
// the returned Session is ready for authenticated calls.
func (c *SDKClient) SignUp(ctx context.Context, req SignUpRequest) (*Session, *UserResponse, error) {
	resp, err := c.postJSON(ctx, "/v1/users/signup", req)
	if err != nil {
		return nil, nil, err
	}

	var out SignUpResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, nil, err
	}

	return &Session{client: c, token: out.Token}, &out.User, nil
}

// SignIn exchanges credentials for an authenticated Session.
func (c *SDKClient) SignIn(ctx context.Context, username, password string) (*Session, error) {
	resp, err := c.postJSON(ctx, "/v1/users/signin", SignInRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	var out SignInResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &Session{client: c, token: out.Token}, nil
}

// ForgotPassword asks the service to email a single-use reset token to the
// account registered under email.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.postJSON(ctx, "/v1/users/forgot-password", ForgotPasswordRequest{
		Email: email,
	})
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// ResetPassword trades a reset token for a new password. The token is
// consumed on success; a second call with the same token fails.
func (c *SDKClient) ResetPassword(ctx context.Context, token, newPassword string) error {
	resp, err := c.postJSON(ctx, "/v1/users/reset-password", ResetPasswordRequest{
		Token:    token,
		Password: newPassword,
	})
	if err != nil {
		return err
	}

	var out MessageResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// ListUsers returns all registered users, newest first.
func (s *Session) ListUsers(ctx context.Context) ([]UserResponse, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/users", nil)
	if err != nil {
		return nil, err
	}

	var out UsersResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return out.Users, nil
}

// GetUser fetches a single user by id.
func (s *Session) GetUser(ctx context.Context, userID string) (*UserResponse, error) {
	path := fmt.Sprintf("/v1/users/%s", url.PathEscape(userID))

	resp, err := s.doAuthRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var out UserResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}

	return &out, nil
}
