/*
Package accountsdk provides a client SDK for interacting with the accounts service.

# Overview

The package is organized around two main types:

  - SDKClient: Provides unauthenticated operations and creates authenticated sessions
  - Session: Provides authenticated operations using a bearer session token

Create an SDKClient to interact with public endpoints and sign in:

	client := accountsdk.NewSDKClient("https://accounts.example.com")

	// Check service health
	health, err := client.GetLiveness(ctx)

	// Register a new account; registration signs you in immediately
	session, user, err := client.SignUp(ctx, accountsdk.SignUpRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "correct horse battery staple",
	})

	// Or sign in with existing credentials
	session, err = client.SignIn(ctx, "alice", "correct horse battery staple")

Use a Session for authenticated operations:

	users, err := session.ListUsers(ctx)
	user, err := session.GetUser(ctx, userID)

Session tokens are short-lived and there is no refresh flow: when a token
expires, sign in again.

# Password Reset

The reset flow is two requests. The first emails a single-use token to the
account's registered address, the second trades that token for a new password:

	err := client.ForgotPassword(ctx, "alice@example.com")
	err = client.ResetPassword(ctx, token, "new password")

Reset tokens expire and are consumed on first successful use. A spent,
expired, or unknown token is rejected with the same error either way.

# Error Handling

API failures are returned as *APIError, which carries the HTTP status code
and a machine-readable error code:

	session, err := client.SignIn(ctx, username, password)
	if err != nil {
		var apiErr *accountsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == accountsdk.ErrorCodeInvalidCredentials {
			// wrong username or password
		}
	}
*/
package accountsdk
