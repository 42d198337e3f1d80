package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"
)

// Client implements the APIClient interface using the GitHub REST API
type Client struct {
	client *github.Client
	ctx    context.Context
	// repoIDs caches owner/name -> numeric repository ID; the environment
	// secret endpoints address repositories by ID, not by name.
	repoIDs map[string]int
}

// NewClient creates a new GitHub API client with the provided token
func NewClient(token string) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		client:  github.NewClient(tc),
		ctx:     ctx,
		repoIDs: make(map[string]int),
	}
}

// GetRepository retrieves a repository by owner and name
func (c *Client) GetRepository(owner, name string) (*Repository, error) {
	var repo *github.Repository

	err := WithRetry(func() error {
		var err error
		repo, _, err = c.client.Repositories.Get(c.ctx, owner, name)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("repository %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	c.repoIDs[owner+"/"+name] = int(repo.GetID())
	return convertRepository(repo), nil
}

// CreateRepository creates a new repository under the given owner. The
// repository is auto-initialized so that a default branch exists for file
// and branch protection operations.
func (c *Client) CreateRepository(owner string, settings RepositorySettings) (*Repository, error) {
	repo := &github.Repository{
		Name:        github.String(settings.Name),
		Description: github.String(settings.Description),
		AutoInit:    github.Bool(true),
	}
	if settings.Visibility != "" {
		repo.Visibility = github.String(settings.Visibility)
		repo.Private = github.Bool(settings.Visibility != "public")
	}

	// The create endpoint takes an organization name, or "" for the
	// authenticated user's own account.
	org := owner
	isOrg, err := c.IsOrganization(owner)
	if err == nil && !isOrg {
		org = ""
	}

	var createdRepo *github.Repository

	err = WithRetry(func() error {
		var err error
		createdRepo, _, err = c.client.Repositories.Create(c.ctx, org, repo)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("repository %s", settings.Name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	c.repoIDs[owner+"/"+settings.Name] = int(createdRepo.GetID())
	return convertRepository(createdRepo), nil
}

// IsOrganization reports whether the owner is an organization account
func (c *Client) IsOrganization(owner string) (bool, error) {
	_, _, err := c.client.Organizations.Get(c.ctx, owner)
	if err != nil {
		wrapped := WrapAPIError(err, fmt.Sprintf("organization %s", owner))
		if wrapped.Type == ErrorTypeNotFound {
			return false, nil
		}
		return false, wrapped
	}
	return true, nil
}

// HasPropertiesSchema probes whether the organization defines a custom
// properties schema. User-owned repositories never do.
func (c *Client) HasPropertiesSchema(org string) (bool, error) {
	isOrg, err := c.IsOrganization(org)
	if err != nil {
		return false, err
	}
	if !isOrg {
		return false, nil
	}

	properties, _, err := c.client.Organizations.GetAllCustomProperties(c.ctx, org)
	if err != nil {
		wrapped := WrapAPIError(err, fmt.Sprintf("properties schema for %s", org))
		if wrapped.Type == ErrorTypeNotFound {
			return false, nil
		}
		return false, wrapped
	}
	return len(properties) > 0, nil
}

// GetCustomProperties returns the repository's current custom property values
func (c *Client) GetCustomProperties(owner, name string) (map[string]string, error) {
	var values []*github.CustomPropertyValue

	err := WithRetry(func() error {
		var err error
		values, _, err = c.client.Repositories.GetAllCustomPropertyValues(c.ctx, owner, name)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("custom properties for %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		if IsNotFound(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}

	properties := make(map[string]string, len(values))
	for _, value := range values {
		if s, ok := value.Value.(string); ok {
			properties[value.PropertyName] = s
		}
	}
	return properties, nil
}

// UpdateCustomProperties patches the given property values onto the
// repository in a single call
func (c *Client) UpdateCustomProperties(owner, name string, values map[string]string) error {
	payload := make([]*github.CustomPropertyValue, 0, len(values))
	for property, value := range values {
		payload = append(payload, &github.CustomPropertyValue{
			PropertyName: property,
			Value:        value,
		})
	}

	return WithRetry(func() error {
		_, err := c.client.Repositories.CreateOrUpdateCustomProperties(c.ctx, owner, name, payload)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("custom properties for %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListTopics returns the repository's current topics
func (c *Client) ListTopics(owner, name string) ([]string, error) {
	var topics []string

	err := WithRetry(func() error {
		var err error
		topics, _, err = c.client.Repositories.ListAllTopics(c.ctx, owner, name)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("topics for %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	return topics, err
}

// ReplaceTopics replaces the repository's topic list
func (c *Client) ReplaceTopics(owner, name string, topics []string) error {
	return WithRetry(func() error {
		_, _, err := c.client.Repositories.ReplaceAllTopics(c.ctx, owner, name, topics)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("topics for %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// GetFile retrieves a file through the contents API
func (c *Client) GetFile(owner, name, path string) (*RepoFile, error) {
	var file *github.RepositoryContent

	err := WithRetry(func() error {
		var err error
		file, _, _, err = c.client.Repositories.GetContents(c.ctx, owner, name, path, nil)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("file %s in %s/%s", path, owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, &APIError{Type: ErrorTypeNotFound, Message: "path is a directory", Resource: path}
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, WrapAPIError(err, fmt.Sprintf("file %s in %s/%s", path, owner, name))
	}

	return &RepoFile{
		Path:    path,
		Content: content,
		SHA:     file.GetSHA(),
	}, nil
}

// CreateFile creates a file through the contents API
func (c *Client) CreateFile(owner, name, path, message, content string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.CreateFile(c.ctx, owner, name, path, opts)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("file %s in %s/%s", path, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// UpdateFile replaces a file's content through the contents API
func (c *Client) UpdateFile(owner, name, path, message, content, sha string) error {
	opts := &github.RepositoryContentFileOptions{
		Message: github.String(message),
		Content: []byte(content),
		SHA:     github.String(sha),
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.UpdateFile(c.ctx, owner, name, path, opts)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("file %s in %s/%s", path, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// BranchExists reports whether the branch exists in the repository
func (c *Client) BranchExists(owner, name, branch string) (bool, error) {
	_, _, err := c.client.Repositories.GetBranch(c.ctx, owner, name, branch, 0)
	if err != nil {
		wrapped := WrapAPIError(err, fmt.Sprintf("branch %s in %s/%s", branch, owner, name))
		if wrapped.Type == ErrorTypeNotFound {
			return false, nil
		}
		return false, wrapped
	}
	return true, nil
}

// CreateBranch creates a branch from the head of the default branch
func (c *Client) CreateBranch(owner, name, branch string) error {
	repo, _, err := c.client.Repositories.Get(c.ctx, owner, name)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("repository %s/%s", owner, name))
	}

	base, _, err := c.client.Repositories.GetBranch(c.ctx, owner, name, repo.GetDefaultBranch(), 0)
	if err != nil {
		return WrapAPIError(err, fmt.Sprintf("default branch of %s/%s", owner, name))
	}

	ref := &github.Reference{
		Ref: github.String("refs/heads/" + branch),
		Object: &github.GitObject{
			SHA: base.Commit.SHA,
		},
	}

	return WithRetry(func() error {
		_, _, err := c.client.Git.CreateRef(c.ctx, owner, name, ref)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("branch %s in %s/%s", branch, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// GetBranchProtection retrieves branch protection rules for a specific branch
func (c *Client) GetBranchProtection(owner, name, branch string) (*BranchProtection, error) {
	var protection *github.Protection

	err := WithRetry(func() error {
		var err error
		protection, _, err = c.client.Repositories.GetBranchProtection(c.ctx, owner, name, branch)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("branch protection %s/%s:%s", owner, name, branch))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}

	return convertBranchProtection(protection), nil
}

// UpdateBranchProtection applies the complete desired protection record to a
// branch. The endpoint replaces the whole record, so creates and updates are
// the same call.
func (c *Client) UpdateBranchProtection(owner, name, branch string, rule BranchProtection) error {
	request := &github.ProtectionRequest{
		EnforceAdmins: rule.EnforceAdmins,
	}

	if rule.RequiredReviews > 0 {
		request.RequiredPullRequestReviews = &github.PullRequestReviewsEnforcementRequest{
			RequiredApprovingReviewCount: rule.RequiredReviews,
			DismissStaleReviews:          rule.DismissStaleReviews,
			RequireCodeOwnerReviews:      rule.RequireCodeOwnerReviews,
		}
	}

	if rule.RequireStatusChecks {
		checks := rule.StatusChecks
		request.RequiredStatusChecks = &github.RequiredStatusChecks{
			Strict:   true,
			Contexts: &checks,
		}
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.UpdateBranchProtection(c.ctx, owner, name, branch, request)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("branch protection %s/%s:%s", owner, name, branch))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListEnvironments returns the repository's environments with their
// protection settings. Custom deployment branch lists are fetched separately
// for environments that restrict to custom branches.
func (c *Client) ListEnvironments(owner, name string) (map[string]EnvironmentSettings, error) {
	opts := &github.EnvironmentListOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	environments := make(map[string]EnvironmentSettings)

	err := WithRetry(func() error {
		environments = make(map[string]EnvironmentSettings)
		opts.Page = 0

		for {
			envs, resp, err := c.client.Repositories.ListEnvironments(c.ctx, owner, name, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("environments for %s/%s", owner, name))
			}

			for _, env := range envs.Environments {
				environments[env.GetName()] = convertEnvironment(env)
			}

			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		if IsNotFound(err) {
			return map[string]EnvironmentSettings{}, nil
		}
		return nil, err
	}

	for envName, settings := range environments {
		if !settings.CustomBranchPolicies {
			continue
		}
		policies, err := c.ListDeploymentBranches(owner, name, envName)
		if err != nil {
			return nil, err
		}
		for branch := range policies {
			settings.CustomBranches = append(settings.CustomBranches, branch)
		}
		environments[envName] = settings
	}

	return environments, nil
}

// CreateUpdateEnvironment applies the complete desired environment settings.
// Custom deployment branch lists are replaced through the branch policy
// endpoints afterwards.
func (c *Client) CreateUpdateEnvironment(owner, name, env string, settings EnvironmentSettings) error {
	if settings.ProtectedBranches && settings.CustomBranchPolicies {
		return NewConfigConflictError(fmt.Sprintf("environment %s", env),
			"protected_branches and custom_branch_policies are mutually exclusive")
	}

	request := &github.CreateUpdateEnvironment{
		WaitTimer:         github.Int(settings.WaitTimer),
		PreventSelfReview: github.Bool(settings.PreventSelfReview),
	}

	for _, reviewer := range settings.Reviewers {
		request.Reviewers = append(request.Reviewers, &github.EnvReviewers{
			Type: github.String(reviewer.Type),
			ID:   github.Int64(reviewer.ID),
		})
	}

	if settings.ProtectedBranches || settings.CustomBranchPolicies {
		request.DeploymentBranchPolicy = &github.BranchPolicy{
			ProtectedBranches:    github.Bool(settings.ProtectedBranches),
			CustomBranchPolicies: github.Bool(settings.CustomBranchPolicies),
		}
	}

	err := WithRetry(func() error {
		_, _, err := c.client.Repositories.CreateUpdateEnvironment(c.ctx, owner, name, env, request)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("environment %s in %s/%s", env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
	if err != nil {
		return err
	}

	if settings.CustomBranchPolicies {
		return c.replaceDeploymentBranches(owner, name, env, settings.CustomBranches)
	}
	return nil
}

// replaceDeploymentBranches deletes the existing custom branch policies and
// recreates the desired list
func (c *Client) replaceDeploymentBranches(owner, name, env string, branches []string) error {
	existing, err := c.ListDeploymentBranches(owner, name, env)
	if err != nil {
		return err
	}

	desired := make(map[string]bool, len(branches))
	for _, branch := range branches {
		desired[branch] = true
	}

	for branch, policyID := range existing {
		if desired[branch] {
			continue
		}
		if err := c.DeleteDeploymentBranch(owner, name, env, policyID); err != nil {
			return err
		}
	}

	for _, branch := range branches {
		if _, ok := existing[branch]; ok {
			continue
		}
		if err := c.CreateDeploymentBranch(owner, name, env, branch); err != nil {
			return err
		}
	}
	return nil
}

// ListDeploymentBranches returns the environment's custom deployment branch
// policies keyed by branch name
func (c *Client) ListDeploymentBranches(owner, name, env string) (map[string]int64, error) {
	var response *github.DeploymentBranchPolicyResponse

	err := WithRetry(func() error {
		var err error
		response, _, err = c.client.Repositories.ListDeploymentBranchPolicies(c.ctx, owner, name, env)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("deployment branch policies for %s in %s/%s", env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		if IsNotFound(err) {
			return map[string]int64{}, nil
		}
		return nil, err
	}

	policies := make(map[string]int64, len(response.BranchPolicies))
	for _, policy := range response.BranchPolicies {
		policies[policy.GetName()] = policy.GetID()
	}
	return policies, nil
}

// CreateDeploymentBranch adds one custom deployment branch policy
func (c *Client) CreateDeploymentBranch(owner, name, env, branch string) error {
	request := &github.DeploymentBranchPolicyRequest{
		Name: github.String(branch),
		Type: github.String("branch"),
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.CreateDeploymentBranchPolicy(c.ctx, owner, name, env, request)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("deployment branch %s for %s in %s/%s", branch, env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// DeleteDeploymentBranch removes one custom deployment branch policy
func (c *Client) DeleteDeploymentBranch(owner, name, env string, policyID int64) error {
	return WithRetry(func() error {
		_, err := c.client.Repositories.DeleteDeploymentBranchPolicy(c.ctx, owner, name, env, policyID)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("deployment branch policy %d for %s in %s/%s", policyID, env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ResolveUserID resolves a login to the numeric ID required by the
// environment reviewers endpoint
func (c *Client) ResolveUserID(login string) (int64, error) {
	user, _, err := c.client.Users.Get(c.ctx, login)
	if err != nil {
		return 0, WrapAPIError(err, fmt.Sprintf("user %s", login))
	}
	return user.GetID(), nil
}

// ResolveTeamID resolves an organization team slug to its numeric ID
func (c *Client) ResolveTeamID(org, slug string) (int64, error) {
	team, _, err := c.client.Teams.GetTeamBySlug(c.ctx, org, slug)
	if err != nil {
		return 0, WrapAPIError(err, fmt.Sprintf("team %s in %s", slug, org))
	}
	return team.GetID(), nil
}

// ListRepoVariables returns the repository's Actions variables
func (c *Client) ListRepoVariables(owner, name string) (map[string]string, error) {
	variables := make(map[string]string)

	err := WithRetry(func() error {
		variables = make(map[string]string)
		opts := &github.ListOptions{PerPage: 100}

		for {
			result, resp, err := c.client.Actions.ListRepoVariables(c.ctx, owner, name, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("variables for %s/%s", owner, name))
			}
			for _, variable := range result.Variables {
				variables[variable.Name] = variable.Value
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil && IsNotFound(err) {
		return map[string]string{}, nil
	}
	return variables, err
}

// CreateRepoVariable creates an Actions variable on the repository
func (c *Client) CreateRepoVariable(owner, name, key, value string) error {
	return WithRetry(func() error {
		_, err := c.client.Actions.CreateRepoVariable(c.ctx, owner, name, &github.ActionsVariable{Name: key, Value: value})
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("variable %s for %s/%s", key, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// UpdateRepoVariable updates an Actions variable on the repository
func (c *Client) UpdateRepoVariable(owner, name, key, value string) error {
	return WithRetry(func() error {
		_, err := c.client.Actions.UpdateRepoVariable(c.ctx, owner, name, &github.ActionsVariable{Name: key, Value: value})
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("variable %s for %s/%s", key, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListEnvVariables returns the environment's Actions variables
func (c *Client) ListEnvVariables(owner, name, env string) (map[string]string, error) {
	variables := make(map[string]string)

	err := WithRetry(func() error {
		variables = make(map[string]string)
		opts := &github.ListOptions{PerPage: 100}

		for {
			result, resp, err := c.client.Actions.ListEnvVariables(c.ctx, owner, name, env, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("variables for %s in %s/%s", env, owner, name))
			}
			for _, variable := range result.Variables {
				variables[variable.Name] = variable.Value
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil && IsNotFound(err) {
		return map[string]string{}, nil
	}
	return variables, err
}

// CreateEnvVariable creates an Actions variable on an environment
func (c *Client) CreateEnvVariable(owner, name, env, key, value string) error {
	return WithRetry(func() error {
		_, err := c.client.Actions.CreateEnvVariable(c.ctx, owner, name, env, &github.ActionsVariable{Name: key, Value: value})
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("variable %s for %s in %s/%s", key, env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// UpdateEnvVariable updates an Actions variable on an environment
func (c *Client) UpdateEnvVariable(owner, name, env, key, value string) error {
	return WithRetry(func() error {
		_, err := c.client.Actions.UpdateEnvVariable(c.ctx, owner, name, env, &github.ActionsVariable{Name: key, Value: value})
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("variable %s for %s in %s/%s", key, env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListRepoSecretNames returns the names of the repository's Actions secrets.
// Values are never readable through the API.
func (c *Client) ListRepoSecretNames(owner, name string) ([]string, error) {
	var names []string

	err := WithRetry(func() error {
		names = nil
		opts := &github.ListOptions{PerPage: 100}

		for {
			result, resp, err := c.client.Actions.ListRepoSecrets(c.ctx, owner, name, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("secrets for %s/%s", owner, name))
			}
			for _, secret := range result.Secrets {
				names = append(names, secret.Name)
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil && IsNotFound(err) {
		return nil, nil
	}
	return names, err
}

// GetRepoPublicKey fetches the repository's secret encryption key
func (c *Client) GetRepoPublicKey(owner, name string) (*PublicKey, error) {
	var key *github.PublicKey

	err := WithRetry(func() error {
		var err error
		key, _, err = c.client.Actions.GetRepoPublicKey(c.ctx, owner, name)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("public key for %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}
	return &PublicKey{KeyID: key.GetKeyID(), Key: key.GetKey()}, nil
}

// PutRepoSecret creates or updates a repository secret with a sealed value
func (c *Client) PutRepoSecret(owner, name, secretName string, value EncryptedValue) error {
	secret := &github.EncryptedSecret{
		Name:           secretName,
		KeyID:          value.KeyID,
		EncryptedValue: value.Data,
	}

	return WithRetry(func() error {
		_, err := c.client.Actions.CreateOrUpdateRepoSecret(c.ctx, owner, name, secret)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("secret %s for %s/%s", secretName, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// repoID resolves and caches the numeric repository ID the environment
// secret endpoints require
func (c *Client) repoID(owner, name string) (int, error) {
	key := owner + "/" + name
	if id, ok := c.repoIDs[key]; ok {
		return id, nil
	}

	var repo *github.Repository
	err := WithRetry(func() error {
		var err error
		repo, _, err = c.client.Repositories.Get(c.ctx, owner, name)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("repository %s/%s", owner, name))
		}
		return nil
	}, DefaultRetryConfig())
	if err != nil {
		return 0, err
	}

	id := int(repo.GetID())
	c.repoIDs[key] = id
	return id, nil
}

// ListEnvSecretNames returns the names of an environment's Actions secrets
func (c *Client) ListEnvSecretNames(owner, name, env string) ([]string, error) {
	repoID, err := c.repoID(owner, name)
	if err != nil {
		return nil, err
	}

	var names []string

	err = WithRetry(func() error {
		names = nil
		opts := &github.ListOptions{PerPage: 100}

		for {
			result, resp, err := c.client.Actions.ListEnvSecrets(c.ctx, repoID, env, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("secrets for %s in %s/%s", env, owner, name))
			}
			for _, secret := range result.Secrets {
				names = append(names, secret.Name)
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil && IsNotFound(err) {
		return nil, nil
	}
	return names, err
}

// GetEnvPublicKey fetches an environment's secret encryption key
func (c *Client) GetEnvPublicKey(owner, name, env string) (*PublicKey, error) {
	repoID, err := c.repoID(owner, name)
	if err != nil {
		return nil, err
	}

	var key *github.PublicKey

	err = WithRetry(func() error {
		var err error
		key, _, err = c.client.Actions.GetEnvPublicKey(c.ctx, repoID, env)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("public key for %s in %s/%s", env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())

	if err != nil {
		return nil, err
	}
	return &PublicKey{KeyID: key.GetKeyID(), Key: key.GetKey()}, nil
}

// PutEnvSecret creates or updates an environment secret with a sealed value
func (c *Client) PutEnvSecret(owner, name, env, secretName string, value EncryptedValue) error {
	repoID, err := c.repoID(owner, name)
	if err != nil {
		return err
	}

	secret := &github.EncryptedSecret{
		Name:           secretName,
		KeyID:          value.KeyID,
		EncryptedValue: value.Data,
	}

	return WithRetry(func() error {
		_, err := c.client.Actions.CreateOrUpdateEnvSecret(c.ctx, repoID, env, secret)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("secret %s for %s in %s/%s", secretName, env, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListTeamPermissions returns the permission level currently granted per
// team slug
func (c *Client) ListTeamPermissions(owner, name string) (map[string]string, error) {
	permissions := make(map[string]string)

	err := WithRetry(func() error {
		permissions = make(map[string]string)
		opts := &github.ListOptions{PerPage: 100}

		for {
			teams, resp, err := c.client.Repositories.ListTeams(c.ctx, owner, name, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("teams for %s/%s", owner, name))
			}
			for _, team := range teams {
				permissions[team.GetSlug()] = normalizePermission(team.GetPermission())
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return permissions, err
}

// SetTeamPermission grants or updates a team's permission on the repository.
// The add endpoint updates in place when the team already has access.
func (c *Client) SetTeamPermission(owner, name, slug, permission string) error {
	opts := &github.TeamAddTeamRepoOptions{
		Permission: permission,
	}

	return WithRetry(func() error {
		_, err := c.client.Teams.AddTeamRepoBySlug(c.ctx, owner, slug, owner, name, opts)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("team %s for %s/%s", slug, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// ListUserPermissions returns the permission level currently granted per
// collaborator login
func (c *Client) ListUserPermissions(owner, name string) (map[string]string, error) {
	permissions := make(map[string]string)

	err := WithRetry(func() error {
		permissions = make(map[string]string)
		opts := &github.ListCollaboratorsOptions{
			ListOptions: github.ListOptions{PerPage: 100},
		}

		for {
			collaborators, resp, err := c.client.Repositories.ListCollaborators(c.ctx, owner, name, opts)
			if err != nil {
				return WrapAPIError(err, fmt.Sprintf("collaborators for %s/%s", owner, name))
			}
			for _, collaborator := range collaborators {
				permissions[collaborator.GetLogin()] = normalizePermission(collaborator.GetRoleName())
			}
			if resp.NextPage == 0 {
				break
			}
			opts.Page = resp.NextPage
		}
		return nil
	}, DefaultRetryConfig())

	return permissions, err
}

// SetUserPermission grants or updates a collaborator's permission. The add
// endpoint updates in place when the user already has access.
func (c *Client) SetUserPermission(owner, name, login, permission string) error {
	opts := &github.RepositoryAddCollaboratorOptions{
		Permission: permission,
	}

	return WithRetry(func() error {
		_, _, err := c.client.Repositories.AddCollaborator(c.ctx, owner, name, login, opts)
		if err != nil {
			return WrapAPIError(err, fmt.Sprintf("collaborator %s for %s/%s", login, owner, name))
		}
		return nil
	}, DefaultRetryConfig())
}

// normalizePermission maps the role names the list endpoints return onto the
// permission vocabulary the write endpoints accept
func normalizePermission(role string) string {
	switch strings.ToLower(role) {
	case "read":
		return "pull"
	case "write":
		return "push"
	default:
		return strings.ToLower(role)
	}
}

// convertRepository converts a GitHub API repository to our internal type
func convertRepository(repo *github.Repository) *Repository {
	return &Repository{
		ID:            repo.GetID(),
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Description:   repo.GetDescription(),
		Visibility:    repo.GetVisibility(),
		DefaultBranch: repo.GetDefaultBranch(),
		HTMLURL:       repo.GetHTMLURL(),
		Topics:        repo.Topics,
	}
}

// convertBranchProtection converts GitHub API branch protection to our
// internal type
func convertBranchProtection(protection *github.Protection) *BranchProtection {
	bp := &BranchProtection{}

	if protection.RequiredStatusChecks != nil {
		bp.RequireStatusChecks = true
		if protection.RequiredStatusChecks.Contexts != nil {
			bp.StatusChecks = *protection.RequiredStatusChecks.Contexts
		}
	}

	if protection.RequiredPullRequestReviews != nil {
		bp.RequiredReviews = protection.RequiredPullRequestReviews.RequiredApprovingReviewCount
		bp.DismissStaleReviews = protection.RequiredPullRequestReviews.DismissStaleReviews
		bp.RequireCodeOwnerReviews = protection.RequiredPullRequestReviews.RequireCodeOwnerReviews
	}

	if protection.EnforceAdmins != nil {
		bp.EnforceAdmins = protection.EnforceAdmins.Enabled
	}

	return bp
}

// convertEnvironment extracts protection settings from an API environment
func convertEnvironment(env *github.Environment) EnvironmentSettings {
	settings := EnvironmentSettings{}

	for _, rule := range env.ProtectionRules {
		switch rule.GetType() {
		case "wait_timer":
			settings.WaitTimer = rule.GetWaitTimer()
		case "required_reviewers":
			settings.PreventSelfReview = rule.GetPreventSelfReview()
			for _, reviewer := range rule.Reviewers {
				switch entity := reviewer.Reviewer.(type) {
				case *github.User:
					settings.Reviewers = append(settings.Reviewers, Reviewer{Type: "User", ID: entity.GetID()})
				case *github.Team:
					settings.Reviewers = append(settings.Reviewers, Reviewer{Type: "Team", ID: entity.GetID()})
				}
			}
		}
	}

	if policy := env.DeploymentBranchPolicy; policy != nil {
		settings.ProtectedBranches = policy.GetProtectedBranches()
		settings.CustomBranchPolicies = policy.GetCustomBranchPolicies()
	}

	return settings
}
