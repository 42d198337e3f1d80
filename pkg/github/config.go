package github

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RepoConfig is the desired state of a single repository. Loaded and
// validated once per invocation, never mutated during reconciliation.
type RepoConfig struct {
	Repository           RepositorySettings           `yaml:"repository" validate:"required"`
	CustomProperties     CustomProperties             `yaml:"custom_properties,omitempty"`
	Files                FilesConfig                  `yaml:"files,omitempty"`
	BranchProtection     BranchProtectionConfig       `yaml:"branch_protection,omitempty"`
	Environments         []string                     `yaml:"environments,omitempty"`
	EnvironmentProtection map[string]EnvProtectionRule `yaml:"environment_protection,omitempty"`
	Secrets              map[string]string            `yaml:"secrets,omitempty"`
	Variables            map[string]string            `yaml:"variables,omitempty"`
	EnvironmentSecrets   map[string]map[string]string `yaml:"environment_secrets,omitempty"`
	EnvironmentVariables map[string]map[string]string `yaml:"environment_variables,omitempty"`
	TeamAccess           map[string]string            `yaml:"team_access,omitempty"`
	UserAccess           map[string]string            `yaml:"user_access,omitempty"`
}

// RepositorySettings identifies the target repository and its base metadata.
type RepositorySettings struct {
	Name        string `yaml:"name" validate:"required,min=1,max=100"`
	Owner       string `yaml:"owner" validate:"required"`
	Description string `yaml:"description,omitempty" validate:"max=350"`
	Visibility  string `yaml:"visibility,omitempty"` // public, private, internal
}

// CustomProperties holds the schema-defined metadata fields tracked on every
// repository. Empty values are not reconciled.
type CustomProperties struct {
	Application            string `yaml:"application,omitempty"`
	ComplianceAuditToReview string `yaml:"compliance_audit_to_review,omitempty"`
	DeployedToProd         string `yaml:"deployed_to_prod,omitempty"`
	ImpactOnProdApp        string `yaml:"impact_on_prod_app,omitempty"`
	POC                    string `yaml:"poc,omitempty"`
	Owner                  string `yaml:"owner,omitempty"`
	ProdDeploymentMethod   string `yaml:"prod_deployment_method,omitempty"`
	Team                   string `yaml:"team,omitempty"`
}

// Map returns the non-empty properties keyed by their schema property names.
func (p CustomProperties) Map() map[string]string {
	all := map[string]string{
		"Application":             p.Application,
		"ComplianceAuditToReview": p.ComplianceAuditToReview,
		"DeployedToProd":          p.DeployedToProd,
		"ImpactOnProdApp":         p.ImpactOnProdApp,
		"poc":                     p.POC,
		"owner":                   p.Owner,
		"ProdDeploymentMethod":    p.ProdDeploymentMethod,
		"Team":                    p.Team,
	}
	out := make(map[string]string)
	for name, value := range all {
		if value != "" {
			out[name] = value
		}
	}
	return out
}

// Topics renders the properties as repository topic slugs, the degraded
// representation used when the organization has no properties schema.
func (p CustomProperties) Topics() []string {
	var topics []string
	if p.Application != "" {
		topics = append(topics, "app-"+topicSlug(p.Application))
	}
	if p.Team != "" {
		topics = append(topics, "team-"+topicSlug(p.Team))
	}
	if p.POC != "" {
		// Drop the mail domain, keep the local part only.
		name := strings.SplitN(p.POC, "@", 2)[0]
		topics = append(topics, "poc-"+topicSlug(name))
	}
	if strings.EqualFold(p.DeployedToProd, "yes") || strings.EqualFold(p.DeployedToProd, "true") {
		topics = append(topics, "production-deployed")
	}
	if strings.EqualFold(p.ComplianceAuditToReview, "yes") || strings.EqualFold(p.ComplianceAuditToReview, "true") {
		topics = append(topics, "compliance-required")
	}
	return topics
}

func topicSlug(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, ".", "-")
	return s
}

// FilesConfig holds the boilerplate files managed through the contents API.
type FilesConfig struct {
	ReadmeContent     string `yaml:"readme_content,omitempty"`
	GitignoreTemplate string `yaml:"gitignore_template,omitempty"`
}

// BranchProtectionConfig holds per-branch protection rules.
type BranchProtectionConfig struct {
	// AutoCreateBranches creates missing protected branches from the default
	// branch before applying protection. Defaults to true.
	AutoCreateBranches *bool                 `yaml:"auto_create_branches,omitempty"`
	Branches           map[string]BranchRule `yaml:"branches,omitempty"`
}

// BranchRule defines branch protection settings in configuration. Boolean
// pointers distinguish "omitted" from "explicitly false" so defaults apply
// only where the document is silent.
type BranchRule struct {
	Enable                  bool     `yaml:"enable"`
	RequireReviews          *bool    `yaml:"require_reviews,omitempty"`
	RequiredReviews         *int     `yaml:"required_reviews,omitempty" validate:"min=0,max=6"`
	DismissStaleReviews     *bool    `yaml:"dismiss_stale_reviews,omitempty"`
	RequireCodeOwnerReviews *bool    `yaml:"require_code_owner_reviews,omitempty"`
	EnforceAdmins           *bool    `yaml:"enforce_admins,omitempty"`
	RequireStatusChecks     bool     `yaml:"require_status_checks"`
	StatusChecks            []string `yaml:"status_checks,omitempty"`
}

// Protection renders the rule into the full desired record, applying config
// defaults for omitted sub-fields. Observed values are never folded in: the
// desired record is computed entirely from configuration so that reconciling
// twice with the same document is a no-op.
func (r BranchRule) Protection() BranchProtection {
	p := BranchProtection{
		RequiredReviews:         2,
		DismissStaleReviews:     true,
		RequireCodeOwnerReviews: true,
		EnforceAdmins:           true,
		RequireStatusChecks:     r.RequireStatusChecks,
		StatusChecks:            r.StatusChecks,
	}
	if r.RequireReviews != nil && !*r.RequireReviews {
		p.RequiredReviews = 0
	}
	if r.RequiredReviews != nil {
		p.RequiredReviews = *r.RequiredReviews
	}
	if r.DismissStaleReviews != nil {
		p.DismissStaleReviews = *r.DismissStaleReviews
	}
	if r.RequireCodeOwnerReviews != nil {
		p.RequireCodeOwnerReviews = *r.RequireCodeOwnerReviews
	}
	if r.EnforceAdmins != nil {
		p.EnforceAdmins = *r.EnforceAdmins
	}
	// With reviews disabled the write omits the review block entirely, so
	// the review sub-flags carry no meaning; zero them so the rendered record
	// matches what a readback of our own write reports. Same for status
	// check contexts when checks are off.
	if p.RequiredReviews == 0 {
		p.DismissStaleReviews = false
		p.RequireCodeOwnerReviews = false
	}
	if !p.RequireStatusChecks {
		p.StatusChecks = nil
	}
	return p
}

// DeploymentBranchPolicy restricts which branches may deploy to an
// environment. ProtectedBranches and CustomBranchPolicies are mutually
// exclusive; both false means unrestricted.
type DeploymentBranchPolicy struct {
	ProtectedBranches    bool     `yaml:"protected_branches"`
	CustomBranchPolicies bool     `yaml:"custom_branch_policies"`
	CustomBranches       []string `yaml:"custom_branches,omitempty"`
}

// ReviewerRef names a required reviewer by login or team slug, resolved to a
// numeric ID at write time.
type ReviewerRef struct {
	Type string `yaml:"type"` // user or team
	ID   string `yaml:"id"`
}

// EnvProtectionRule defines protection settings for one environment.
type EnvProtectionRule struct {
	WaitTimer              int                    `yaml:"wait_timer,omitempty"`
	PreventSelfReview      bool                   `yaml:"prevent_self_review,omitempty"`
	DeploymentBranchPolicy DeploymentBranchPolicy `yaml:"deployment_branch_policy,omitempty"`
	Reviewers              []ReviewerRef          `yaml:"reviewers,omitempty"`
}

// Validate validates the repository configuration
func (c *RepoConfig) Validate() error {
	var validationErrors ValidationErrors

	if err := validateRepoName(c.Repository.Name); err != nil {
		validationErrors.Add("repository.name", c.Repository.Name, err.Error())
	}
	if c.Repository.Owner == "" {
		validationErrors.Add("repository.owner", "", "repository owner is required")
	}
	if len(c.Repository.Description) > 350 {
		validationErrors.Add("repository.description", "", "repository description must be 350 characters or less")
	}
	if v := c.Repository.Visibility; v != "" && v != "public" && v != "private" && v != "internal" {
		validationErrors.Add("repository.visibility", v, "visibility must be one of: public, private, internal")
	}

	for branch, rule := range c.BranchProtection.Branches {
		if branch == "" {
			validationErrors.Add("branch_protection.branches", "", "branch name cannot be empty")
		}
		if rule.RequiredReviews != nil && (*rule.RequiredReviews < 0 || *rule.RequiredReviews > 6) {
			validationErrors.Add("branch_protection.branches."+branch, fmt.Sprintf("%d", *rule.RequiredReviews),
				"required reviews must be between 0 and 6")
		}
	}

	configured := make(map[string]bool, len(c.Environments))
	for _, env := range c.Environments {
		if env == "" {
			validationErrors.Add("environments", "", "environment name cannot be empty")
			continue
		}
		configured[env] = true
	}

	for env, rule := range c.EnvironmentProtection {
		policy := rule.DeploymentBranchPolicy
		if policy.ProtectedBranches && policy.CustomBranchPolicies {
			validationErrors.Add("environment_protection."+env+".deployment_branch_policy", "",
				"protected_branches and custom_branch_policies are mutually exclusive")
		}
		if len(policy.CustomBranches) > 0 && !policy.CustomBranchPolicies {
			validationErrors.Add("environment_protection."+env+".deployment_branch_policy", "",
				"custom_branches requires custom_branch_policies: true")
		}
		for i, reviewer := range rule.Reviewers {
			if reviewer.Type != "user" && reviewer.Type != "team" {
				validationErrors.Add(fmt.Sprintf("environment_protection.%s.reviewers[%d].type", env, i),
					reviewer.Type, "reviewer type must be user or team")
			}
			if reviewer.ID == "" {
				validationErrors.Add(fmt.Sprintf("environment_protection.%s.reviewers[%d].id", env, i),
					"", "reviewer id is required")
			}
		}
	}

	for slug, permission := range c.TeamAccess {
		if err := validateTeamSlug(slug); err != nil {
			validationErrors.Add("team_access", slug, err.Error())
		}
		if !isValidPermission(permission) {
			validationErrors.Add("team_access."+slug, permission,
				"permission must be one of: pull, triage, push, maintain, admin")
		}
	}

	for login, permission := range c.UserAccess {
		if err := validateUsername(login); err != nil {
			validationErrors.Add("user_access", login, err.Error())
		}
		if !isValidPermission(permission) {
			validationErrors.Add("user_access."+login, permission,
				"permission must be one of: pull, triage, push, maintain, admin")
		}
	}

	if validationErrors.HasErrors() {
		// Mutual-exclusion violations surface as config conflicts so callers
		// can distinguish them from malformed documents.
		errType := ErrorTypeValidation
		for _, ve := range validationErrors {
			if strings.Contains(ve.Message, "mutually exclusive") {
				errType = ErrorTypeConfigConflict
				break
			}
		}
		return &APIError{
			Type:    errType,
			Message: validationErrors.Error(),
			Cause:   validationErrors,
		}
	}

	return nil
}

// AutoCreateBranches reports whether missing protected branches should be
// created, defaulting to true.
func (c *RepoConfig) AutoCreateBranches() bool {
	if c.BranchProtection.AutoCreateBranches == nil {
		return true
	}
	return *c.BranchProtection.AutoCreateBranches
}

// HasEnvironment reports whether env is in the configured environments list.
func (c *RepoConfig) HasEnvironment(env string) bool {
	for _, name := range c.Environments {
		if name == env {
			return true
		}
	}
	return false
}

// validateRepoName validates a repository name according to GitHub rules
func validateRepoName(name string) error {
	if name == "" {
		return fmt.Errorf("repository name is required")
	}

	if len(name) > 100 {
		return fmt.Errorf("repository name must be 100 characters or less")
	}

	validName := regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	if !validName.MatchString(name) {
		return fmt.Errorf("repository name can only contain alphanumeric characters, periods, hyphens, and underscores")
	}

	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("repository name cannot start or end with a period")
	}

	return nil
}

// isValidPermission checks if the permission level is valid
func isValidPermission(permission string) bool {
	validPermissions := map[string]bool{
		"pull":     true,
		"triage":   true,
		"push":     true,
		"maintain": true,
		"admin":    true,
	}
	return validPermissions[permission]
}

// validateUsername validates a GitHub username according to GitHub's rules
func validateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if len(username) > 39 {
		return fmt.Errorf("username must be 39 characters or less")
	}

	// May only contain alphanumeric characters or single hyphens, and cannot
	// begin or end with a hyphen.
	validUsername := regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?$`)
	if !validUsername.MatchString(username) {
		return fmt.Errorf("username '%s' is invalid: must contain only alphanumeric characters and single hyphens, cannot start or end with hyphen", username)
	}

	if strings.Contains(username, "--") {
		return fmt.Errorf("username '%s' is invalid: cannot contain consecutive hyphens", username)
	}

	return nil
}

// validateTeamSlug validates a GitHub team slug according to GitHub's rules
func validateTeamSlug(teamSlug string) error {
	if teamSlug == "" {
		return fmt.Errorf("team slug cannot be empty")
	}

	if len(teamSlug) > 100 {
		return fmt.Errorf("team slug must be 100 characters or less")
	}

	validTeamSlug := regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)
	if !validTeamSlug.MatchString(teamSlug) {
		return fmt.Errorf("team slug '%s' is invalid: must contain only lowercase alphanumeric characters, hyphens, and underscores, and start with alphanumeric character", teamSlug)
	}

	return nil
}

// LoadRepoConfig loads a repository configuration from YAML data
func LoadRepoConfig(data []byte) (*RepoConfig, error) {
	var config RepoConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadRepoConfigFromFile loads a repository configuration from a file
func LoadRepoConfigFromFile(filename string) (*RepoConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return LoadRepoConfig(data)
}
