package github

import (
	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of the APIClient interface
type MockAPIClient struct {
	mock.Mock
}

func (m *MockAPIClient) GetRepository(owner, name string) (*Repository, error) {
	args := m.Called(owner, name)
	if repo := args.Get(0); repo != nil {
		return repo.(*Repository), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) CreateRepository(owner string, settings RepositorySettings) (*Repository, error) {
	args := m.Called(owner, settings)
	if repo := args.Get(0); repo != nil {
		return repo.(*Repository), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) IsOrganization(owner string) (bool, error) {
	args := m.Called(owner)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIClient) HasPropertiesSchema(org string) (bool, error) {
	args := m.Called(org)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIClient) GetCustomProperties(owner, name string) (map[string]string, error) {
	args := m.Called(owner, name)
	if values := args.Get(0); values != nil {
		return values.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) UpdateCustomProperties(owner, name string, values map[string]string) error {
	args := m.Called(owner, name, values)
	return args.Error(0)
}

func (m *MockAPIClient) ListTopics(owner, name string) ([]string, error) {
	args := m.Called(owner, name)
	if topics := args.Get(0); topics != nil {
		return topics.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) ReplaceTopics(owner, name string, topics []string) error {
	args := m.Called(owner, name, topics)
	return args.Error(0)
}

func (m *MockAPIClient) GetFile(owner, name, path string) (*RepoFile, error) {
	args := m.Called(owner, name, path)
	if file := args.Get(0); file != nil {
		return file.(*RepoFile), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) CreateFile(owner, name, path, message, content string) error {
	args := m.Called(owner, name, path, message, content)
	return args.Error(0)
}

func (m *MockAPIClient) UpdateFile(owner, name, path, message, content, sha string) error {
	args := m.Called(owner, name, path, message, content, sha)
	return args.Error(0)
}

func (m *MockAPIClient) BranchExists(owner, name, branch string) (bool, error) {
	args := m.Called(owner, name, branch)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPIClient) CreateBranch(owner, name, branch string) error {
	args := m.Called(owner, name, branch)
	return args.Error(0)
}

func (m *MockAPIClient) GetBranchProtection(owner, name, branch string) (*BranchProtection, error) {
	args := m.Called(owner, name, branch)
	if protection := args.Get(0); protection != nil {
		return protection.(*BranchProtection), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) UpdateBranchProtection(owner, name, branch string, rule BranchProtection) error {
	args := m.Called(owner, name, branch, rule)
	return args.Error(0)
}

func (m *MockAPIClient) ListEnvironments(owner, name string) (map[string]EnvironmentSettings, error) {
	args := m.Called(owner, name)
	if envs := args.Get(0); envs != nil {
		return envs.(map[string]EnvironmentSettings), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) CreateUpdateEnvironment(owner, name, env string, settings EnvironmentSettings) error {
	args := m.Called(owner, name, env, settings)
	return args.Error(0)
}

func (m *MockAPIClient) ListDeploymentBranches(owner, name, env string) (map[string]int64, error) {
	args := m.Called(owner, name, env)
	if branches := args.Get(0); branches != nil {
		return branches.(map[string]int64), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) CreateDeploymentBranch(owner, name, env, branch string) error {
	args := m.Called(owner, name, env, branch)
	return args.Error(0)
}

func (m *MockAPIClient) DeleteDeploymentBranch(owner, name, env string, policyID int64) error {
	args := m.Called(owner, name, env, policyID)
	return args.Error(0)
}

func (m *MockAPIClient) ResolveUserID(login string) (int64, error) {
	args := m.Called(login)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAPIClient) ResolveTeamID(org, slug string) (int64, error) {
	args := m.Called(org, slug)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAPIClient) ListRepoVariables(owner, name string) (map[string]string, error) {
	args := m.Called(owner, name)
	if variables := args.Get(0); variables != nil {
		return variables.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) CreateRepoVariable(owner, name, key, value string) error {
	args := m.Called(owner, name, key, value)
	return args.Error(0)
}

func (m *MockAPIClient) UpdateRepoVariable(owner, name, key, value string) error {
	args := m.Called(owner, name, key, value)
	return args.Error(0)
}

func (m *MockAPIClient) ListEnvVariables(owner, name, env string) (map[string]string, error) {
	args := m.Called(owner, name, env)
	if variables := args.Get(0); variables != nil {
		return variables.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) CreateEnvVariable(owner, name, env, key, value string) error {
	args := m.Called(owner, name, env, key, value)
	return args.Error(0)
}

func (m *MockAPIClient) UpdateEnvVariable(owner, name, env, key, value string) error {
	args := m.Called(owner, name, env, key, value)
	return args.Error(0)
}

func (m *MockAPIClient) ListRepoSecretNames(owner, name string) ([]string, error) {
	args := m.Called(owner, name)
	if names := args.Get(0); names != nil {
		return names.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) GetRepoPublicKey(owner, name string) (*PublicKey, error) {
	args := m.Called(owner, name)
	if key := args.Get(0); key != nil {
		return key.(*PublicKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) PutRepoSecret(owner, name, secretName string, value EncryptedValue) error {
	args := m.Called(owner, name, secretName, value)
	return args.Error(0)
}

func (m *MockAPIClient) ListEnvSecretNames(owner, name, env string) ([]string, error) {
	args := m.Called(owner, name, env)
	if names := args.Get(0); names != nil {
		return names.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) GetEnvPublicKey(owner, name, env string) (*PublicKey, error) {
	args := m.Called(owner, name, env)
	if key := args.Get(0); key != nil {
		return key.(*PublicKey), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) PutEnvSecret(owner, name, env, secretName string, value EncryptedValue) error {
	args := m.Called(owner, name, env, secretName, value)
	return args.Error(0)
}

func (m *MockAPIClient) ListTeamPermissions(owner, name string) (map[string]string, error) {
	args := m.Called(owner, name)
	if permissions := args.Get(0); permissions != nil {
		return permissions.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) SetTeamPermission(owner, name, slug, permission string) error {
	args := m.Called(owner, name, slug, permission)
	return args.Error(0)
}

func (m *MockAPIClient) ListUserPermissions(owner, name string) (map[string]string, error) {
	args := m.Called(owner, name)
	if permissions := args.Get(0); permissions != nil {
		return permissions.(map[string]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAPIClient) SetUserPermission(owner, name, login, permission string) error {
	args := m.Called(owner, name, login, permission)
	return args.Error(0)
}
