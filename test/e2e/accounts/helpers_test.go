package accounts_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"regexp"
	"testing"
	"time"

	"github.com/chirpdev/accounts/pkg/accountsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * Common constants and helper functions for accounts service end-to-end tests.
 * This includes container setup, service operations, and assertions.
 */

const (
	testImageName = "accounts-test:latest"

	testJWTSecret = "e2e-test-secret-0123456789abcdefghij"
)

// resetTokenPattern matches the reset token the stand-in notifier writes to
// the service log.
var resetTokenPattern = regexp.MustCompile(`"reset_token":"([A-Za-z0-9]{30})"`)

// TestMain manages the test lifecycle, builds the Docker image once before
// all tests and cleans it up after all tests complete.
func TestMain(m *testing.M) {
	fmt.Fprintf(os.Stdout, "Building Accounts Service Docker image...")

	if err := buildDockerImage(); err != nil {
		fmt.Fprintf(os.Stderr, "\nFailed to build Docker image: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, " done\n")

	exitCode := m.Run()

	fmt.Fprintf(os.Stdout, "Cleaning up Accounts Service Docker image...")
	cleanupDockerImage()
	fmt.Fprintf(os.Stdout, " done\n")

	os.Exit(exitCode)
}

// buildDockerImage builds the test Docker image if it doesn't exist.
func buildDockerImage() error {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "build",
		"-t", testImageName,
		"-f", "../../../cmd/accounts/Dockerfile",
		"../../../")
	cmd.Dir = "."
	cmd.Stdout = os.Stdout
	cmd.Stderr = nil

	return cmd.Run()
}

// cleanupDockerImage removes the test Docker image.
func cleanupDockerImage() {
	ctx := context.Background()
	cmd := exec.CommandContext(ctx, "docker", "rmi", "-f", testImageName)
	_ = cmd.Run() // Ignore errors - image might not exist
}

// setupAccountsContainer starts the accounts service in a container and
// returns the base URL plus the container handle for log scraping.
func setupAccountsContainer(t *testing.T) (string, testcontainers.Container, func()) {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        testImageName,
		ExposedPorts: []string{"8080/tcp"},
		Env: map[string]string{
			"ACCOUNTS_JWT_SECRET":      testJWTSecret,
			"ACCOUNTS_DATABASE_FILE":   "/accounts.db",
			"ACCOUNTS_ISSUER":          "accounts-e2e",
			"ACCOUNTS_AVATAR_PROVIDER": "static", // no outbound probes from tests
			"ENV":                      "test",
			"LOG_LEVEL":                "info",
			"LOG_FORMAT":               "json",
		},
		WaitingFor: wait.ForHTTP("/livez").
			WithPort("8080/tcp").
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	mappedPort, err := container.MappedPort(ctx, "8080")
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	baseURL := fmt.Sprintf("http://%s:%s", host, mappedPort.Port())

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return baseURL, container, cleanup
}

// lastResetToken scrapes the most recent reset token from the container log.
// The service delivers reset tokens via its log notifier, so this is the e2e
// stand-in for reading the email.
func lastResetToken(t *testing.T, container testcontainers.Container) string {
	t.Helper()
	ctx := context.Background()

	var token string
	require.Eventually(t, func() bool {
		reader, err := container.Logs(ctx)
		if err != nil {
			return false
		}
		defer reader.Close()

		logs, err := io.ReadAll(reader)
		if err != nil {
			return false
		}

		matches := resetTokenPattern.FindAllStringSubmatch(string(logs), -1)
		if len(matches) == 0 {
			return false
		}
		token = matches[len(matches)-1][1]
		return true
	}, 10*time.Second, 250*time.Millisecond, "reset token should appear in service log")

	return token
}

// assertHealthy verifies a health check response is OK.
func assertHealthy(t *testing.T, health *accountsdk.HealthResponse, err error) {
	t.Helper()
	require.NoError(t, err)
	require.NotNil(t, health)
	require.Equal(t, "ok", health.Status)
}

// assertUnauthorized verifies an error carries a 401 status. The bearer gate
// responds with a WWW-Authenticate header and no body, so only the status is
// meaningful here.
func assertUnauthorized(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)

	var apiErr *accountsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

// assertAPIError verifies an error is an APIError with the given status and code.
func assertAPIError(t *testing.T, err error, statusCode int, code string) {
	t.Helper()
	require.Error(t, err)

	var apiErr *accountsdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, statusCode, apiErr.StatusCode)
	require.Equal(t, code, apiErr.Code)
}
