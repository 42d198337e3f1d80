package github

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// AuthManager handles GitHub authentication and token validation
type AuthManager struct {
	token string
}

// NewAuthManager creates an AuthManager from an explicit token, falling back
// to the GITHUB_TOKEN environment variable.
func NewAuthManager(token string) *AuthManager {
	if token == "" {
		token = os.Getenv("GITHUB_TOKEN")
	}
	return &AuthManager{token: token}
}

// GetToken returns the resolved token, or an auth error when none is set.
func (a *AuthManager) GetToken() (string, error) {
	if a.token == "" {
		return "", &APIError{
			Type:    ErrorTypeAuth,
			Message: "no GitHub token found, set GITHUB_TOKEN or add one to the tool configuration",
		}
	}
	return a.token, nil
}

// ValidateToken verifies the token against the API and checks that it carries
// the repo scope needed for reconciliation. Fine-grained tokens report no
// scopes; those are accepted and fail later with a clear permission error.
func (a *AuthManager) ValidateToken() error {
	token, err := a.GetToken()
	if err != nil {
		return err
	}

	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(ctx, ts))

	user, resp, err := client.Users.Get(ctx, "")
	if err != nil {
		return WrapAPIError(err, "token validation")
	}

	scopes := resp.Header.Get("X-OAuth-Scopes")
	if scopes != "" && !hasScope(scopes, "repo") {
		return &APIError{
			Type:     ErrorTypeAuth,
			Message:  fmt.Sprintf("token for %s is missing the 'repo' scope (has: %s)", user.GetLogin(), scopes),
			Resource: "token validation",
		}
	}

	return nil
}

// hasScope checks the comma-separated scope header for an exact scope name.
func hasScope(header, scope string) bool {
	for _, s := range strings.Split(header, ",") {
		if strings.TrimSpace(s) == scope {
			return true
		}
	}
	return false
}

// GetAuthInstructions returns help text shown when authentication fails.
func GetAuthInstructions() string {
	return `To authenticate with GitHub:

1. Create a personal access token at https://github.com/settings/tokens
   with the 'repo' scope (and 'admin:org' for team access management).
2. Export it:

   export GITHUB_TOKEN=<your-token>

   or store it in the tool configuration file.`
}
