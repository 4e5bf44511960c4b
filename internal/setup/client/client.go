package client

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jaxron/axonet/middleware/circuitbreaker"
	"github.com/jaxron/axonet/middleware/retry"
	"github.com/jaxron/axonet/middleware/singleflight"
	"github.com/jaxron/axonet/pkg/client"
	"github.com/jaxron/axonet/pkg/client/middleware"
	"github.com/ladleapp/ladle/internal/setup/config"
	"go.uber.org/zap"
)

// NewHTTPClient constructs an HTTP client with a middleware chain for
// reliability. All community API traffic goes through this client.
func NewHTTPClient(
	cfg *config.Config, zapLogger *zap.Logger, requestTimeout time.Duration,
) *client.Client {
	// Build middleware chain - order matters!
	middlewares := []middleware.Middleware{
		circuitbreaker.New(
			cfg.CircuitBreaker.MaxRequests,
			time.Duration(cfg.CircuitBreaker.Interval)*time.Millisecond,
			time.Duration(cfg.CircuitBreaker.Timeout)*time.Millisecond,
		),
		retry.New(
			cfg.Retry.MaxRetries,
			time.Duration(cfg.Retry.Delay)*time.Millisecond,
			time.Duration(cfg.Retry.MaxDelay)*time.Millisecond,
		),
		singleflight.New(),
	}

	return client.NewClient(
		client.WithMarshalFunc(sonic.Marshal),
		client.WithUnmarshalFunc(sonic.Unmarshal),
		client.WithLogger(NewLogger(zapLogger)),
		client.WithTimeout(requestTimeout),
		client.WithMiddleware(middlewares...),
	)
}

// Credentials holds the authenticated identity for the community API.
// Both fields are empty when the client runs anonymously.
type Credentials struct {
	// Bearer token attached to mutating calls.
	Token string
	// User id the service knows the token holder by.
	UserID string
}

// ReadCredentials loads the bearer token and user id from the credentials
// directory, one value per file. Absent files mean the client runs
// anonymously; that is not an error.
func ReadCredentials(configDir string) (Credentials, error) {
	token, err := readCredentialFile(configDir + "/credentials/token")
	if err != nil {
		return Credentials{}, err
	}

	userID, err := readCredentialFile(configDir + "/credentials/user_id")
	if err != nil {
		return Credentials{}, err
	}

	return Credentials{Token: token, UserID: userID}, nil
}

// readCredentialFile returns the first non-empty line of the file, or an
// empty string if the file does not exist.
func readCredentialFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", fmt.Errorf("failed to open credential file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		value := strings.TrimSpace(scanner.Text())
		if value != "" {
			return value, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("error reading credential file: %w", err)
	}

	return "", nil
}
