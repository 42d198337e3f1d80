package github

// APIClient defines the interface for GitHub API operations. Readers return
// the observed state normalized into name-keyed maps; a missing resource kind
// (not configured remotely yet) is an empty map, not an error. Writers issue
// a single create or update call per item.
type APIClient interface {
	// Repository operations
	GetRepository(owner, name string) (*Repository, error)
	CreateRepository(owner string, settings RepositorySettings) (*Repository, error)
	IsOrganization(owner string) (bool, error)

	// Custom property operations
	HasPropertiesSchema(org string) (bool, error)
	GetCustomProperties(owner, name string) (map[string]string, error)
	UpdateCustomProperties(owner, name string, values map[string]string) error

	// Topic operations (degraded representation of custom properties)
	ListTopics(owner, name string) ([]string, error)
	ReplaceTopics(owner, name string, topics []string) error

	// Content operations
	GetFile(owner, name, path string) (*RepoFile, error)
	CreateFile(owner, name, path, message, content string) error
	UpdateFile(owner, name, path, message, content, sha string) error

	// Branch and branch protection operations
	BranchExists(owner, name, branch string) (bool, error)
	CreateBranch(owner, name, branch string) error
	GetBranchProtection(owner, name, branch string) (*BranchProtection, error)
	UpdateBranchProtection(owner, name, branch string, rule BranchProtection) error

	// Environment operations
	ListEnvironments(owner, name string) (map[string]EnvironmentSettings, error)
	CreateUpdateEnvironment(owner, name, env string, settings EnvironmentSettings) error
	ListDeploymentBranches(owner, name, env string) (map[string]int64, error)
	CreateDeploymentBranch(owner, name, env, branch string) error
	DeleteDeploymentBranch(owner, name, env string, policyID int64) error

	// Reviewer resolution
	ResolveUserID(login string) (int64, error)
	ResolveTeamID(org, slug string) (int64, error)

	// Actions variable operations
	ListRepoVariables(owner, name string) (map[string]string, error)
	CreateRepoVariable(owner, name, key, value string) error
	UpdateRepoVariable(owner, name, key, value string) error
	ListEnvVariables(owner, name, env string) (map[string]string, error)
	CreateEnvVariable(owner, name, env, key, value string) error
	UpdateEnvVariable(owner, name, env, key, value string) error

	// Actions secret operations. Values are write-only: listings expose
	// names, never values.
	ListRepoSecretNames(owner, name string) ([]string, error)
	GetRepoPublicKey(owner, name string) (*PublicKey, error)
	PutRepoSecret(owner, name, secretName string, value EncryptedValue) error
	ListEnvSecretNames(owner, name, env string) ([]string, error)
	GetEnvPublicKey(owner, name, env string) (*PublicKey, error)
	PutEnvSecret(owner, name, env, secretName string, value EncryptedValue) error

	// Access operations
	ListTeamPermissions(owner, name string) (map[string]string, error)
	SetTeamPermission(owner, name, slug, permission string) error
	ListUserPermissions(owner, name string) (map[string]string, error)
	SetUserPermission(owner, name, login, permission string) error
}
