// Package avatar resolves the profile picture assigned to a new account.
package avatar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/chirpdev/accounts/pkg/slogx"
)

// PlaceholderURL is used whenever a user-specific picture cannot be resolved.
const PlaceholderURL = "https://placehold.co/512x512"

// Resolver picks a profile picture URL for a username. Implementations must
// degrade to a placeholder rather than fail; signup never aborts over an
// avatar.
type Resolver interface {
	Resolve(ctx context.Context, username string) string
}

// Static always returns the same URL. Useful in tests and as a fallback.
type Static struct {
	URL string
}

func (s Static) Resolve(ctx context.Context, username string) string {
	if s.URL == "" {
		return PlaceholderURL
	}
	return s.URL
}

// GitHub probes github.com for an avatar matching the username and falls
// back to the placeholder when none exists or the probe fails.
type GitHub struct {
	Client *http.Client
}

func NewGitHub() *GitHub {
	return &GitHub{
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *GitHub) Resolve(ctx context.Context, username string) string {
	log := slogx.FromContext(ctx)
	url := fmt.Sprintf("https://github.com/%s.png", username)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return PlaceholderURL
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		log.Warn("avatar probe failed", "username", username, "err", err)
		return PlaceholderURL
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PlaceholderURL
	}
	return url
}
