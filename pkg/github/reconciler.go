package github

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Reconciler drives a repository toward the desired state described by a
// RepoConfig. Resource kinds are processed in a fixed order, one item at a
// time; a failed item never aborts the remaining items or kinds.
type Reconciler struct {
	client APIClient
	config *RepoConfig

	// DryRun reports what would change without issuing any writes.
	DryRun bool
	// Out receives progress output. Defaults to stdout.
	Out io.Writer

	owner string
	name  string
	// fresh marks a repository with no observed state to read: it was just
	// created, or it is absent during a dry run. Reads are skipped and every
	// desired item diffs as to-create.
	fresh         bool
	defaultBranch string
}

// NewReconciler creates a reconciler for the given desired state.
func NewReconciler(client APIClient, config *RepoConfig) *Reconciler {
	return &Reconciler{
		client: client,
		config: config,
		Out:    os.Stdout,
	}
}

// resourceKind pairs a kind name with its reconcile function. The table order
// is the processing order: metadata and files first, then protection, then
// environment-scoped values, then access.
type resourceKind struct {
	name      string
	reconcile func(*Reconciler) KindResult
}

var resourceKinds = []resourceKind{
	{"custom properties", (*Reconciler).reconcileProperties},
	{"files", (*Reconciler).reconcileFiles},
	{"branch protection", (*Reconciler).reconcileBranchProtection},
	{"environments", (*Reconciler).reconcileEnvironments},
	{"environment variables", (*Reconciler).reconcileEnvVariables},
	{"environment secrets", (*Reconciler).reconcileEnvSecrets},
	{"repository variables", (*Reconciler).reconcileRepoVariables},
	{"repository secrets", (*Reconciler).reconcileRepoSecrets},
	{"team access", (*Reconciler).reconcileTeamAccess},
	{"user access", (*Reconciler).reconcileUserAccess},
}

// Reconcile runs the full reconciliation and returns a report. The returned
// error is non-nil only for setup failures (invalid configuration, fatal auth
// errors, repository creation failure); per-item failures are carried in the
// report instead.
func (r *Reconciler) Reconcile() (*RunReport, error) {
	if r.Out == nil {
		r.Out = os.Stdout
	}
	if err := r.config.Validate(); err != nil {
		return nil, err
	}

	r.owner = r.config.Repository.Owner
	r.name = r.config.Repository.Name

	report := &RunReport{
		Owner:      r.owner,
		Repository: r.name,
		DryRun:     r.DryRun,
	}

	fmt.Fprintf(r.Out, "🔄 Reconciling %s/%s\n", r.owner, r.name)

	repo, err := r.ensureRepository(report)
	if err != nil {
		return nil, err
	}
	if repo != nil {
		report.URL = repo.HTMLURL
		r.defaultBranch = repo.DefaultBranch
	}
	if r.defaultBranch == "" {
		r.defaultBranch = "main"
	}

	for _, kind := range resourceKinds {
		result := kind.reconcile(r)
		result.Kind = kind.name
		report.Kinds = append(report.Kinds, result)
	}

	return report, nil
}

// ensureRepository checks existence and creates the repository when missing.
// During a dry run an absent repository is reported, not created, and the
// rest of the run proceeds against empty observed state.
func (r *Reconciler) ensureRepository(report *RunReport) (*Repository, error) {
	repo, err := r.client.GetRepository(r.owner, r.name)
	if err == nil {
		fmt.Fprintf(r.Out, "✓ Repository exists\n")
		return repo, nil
	}
	if !IsNotFound(err) {
		return nil, err
	}

	r.fresh = true
	report.RepoCreated = true

	if r.DryRun {
		fmt.Fprintf(r.Out, "+ Repository would be created\n")
		return nil, nil
	}

	fmt.Fprintf(r.Out, "+ Creating repository\n")
	created, err := r.client.CreateRepository(r.owner, r.config.Repository)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// reconcileProperties applies custom property values, falling back to topic
// slugs when the organization has no properties schema.
func (r *Reconciler) reconcileProperties() KindResult {
	desired := r.config.CustomProperties.Map()
	if len(desired) == 0 {
		return KindResult{}
	}

	supported, err := r.client.HasPropertiesSchema(r.owner)
	if err != nil && !IsUnsupported(err) {
		// Probe failures degrade to the fallback path rather than failing
		// the kind.
		supported = false
	}
	if !supported {
		return r.reconcileTopics()
	}

	var observed map[string]string
	if r.fresh {
		observed = map[string]string{}
	} else {
		observed, err = r.client.GetCustomProperties(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	diff := Compare(desired, observed, stringEquals)
	result := KindResult{}

	for _, name := range diff.Unchanged {
		result.Items = append(result.Items, ItemResult{Name: name, Outcome: OutcomeSkipped})
	}
	if !diff.HasChanges() {
		return result
	}

	// Changed values are patched in one call; the per-item outcomes share
	// the batch result.
	changes := make(map[string]string, len(diff.ToCreate)+len(diff.ToUpdate))
	for name, value := range diff.ToCreate {
		changes[name] = value
	}
	for name, change := range diff.ToUpdate {
		changes[name] = change.New
	}

	var writeErr error
	if !r.DryRun {
		writeErr = r.client.UpdateCustomProperties(r.owner, r.name, changes)
	}

	for _, name := range diff.CreateNames() {
		result.Items = append(result.Items, itemOutcome(name, OutcomeCreated, nil, writeErr))
	}
	for _, name := range diff.UpdateNames() {
		result.Items = append(result.Items, itemOutcome(name, OutcomeUpdated, []string{"value"}, writeErr))
	}
	return result
}

// reconcileTopics is the degraded properties path: each property renders as a
// topic slug, and missing slugs are added without disturbing unrelated topics.
func (r *Reconciler) reconcileTopics() KindResult {
	desired := r.config.CustomProperties.Topics()
	if len(desired) == 0 {
		return KindResult{}
	}

	var observed []string
	if !r.fresh {
		var err error
		observed, err = r.client.ListTopics(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	existing := make(map[string]bool, len(observed))
	for _, topic := range observed {
		existing[topic] = true
	}

	result := KindResult{}
	var missing []string
	for _, topic := range desired {
		if existing[topic] {
			result.Items = append(result.Items, ItemResult{Name: topic, Outcome: OutcomeSkipped, Detail: "topic"})
		} else {
			missing = append(missing, topic)
		}
	}
	if len(missing) == 0 {
		return result
	}

	// Replace with the union so topics outside the managed set survive.
	union := append(append([]string{}, observed...), missing...)
	var writeErr error
	if !r.DryRun {
		writeErr = r.client.ReplaceTopics(r.owner, r.name, union)
	}
	for _, topic := range missing {
		item := itemOutcome(topic, OutcomeCreated, nil, writeErr)
		item.Detail = "topic"
		result.Items = append(result.Items, item)
	}
	return result
}

// reconcileFiles manages boilerplate files through the contents API.
func (r *Reconciler) reconcileFiles() KindResult {
	desired := desiredFiles(r.config.Files, r.name)
	if len(desired) == 0 {
		return KindResult{}
	}

	result := KindResult{}
	paths := sortedKeys(desired)

	for _, path := range paths {
		content := desired[path]

		var observed *RepoFile
		if !r.fresh {
			file, err := r.client.GetFile(r.owner, r.name, path)
			switch {
			case err == nil:
				observed = file
			case IsNotFound(err):
				// absent, will be created
			default:
				result.Items = append(result.Items, ItemResult{Name: path, Outcome: OutcomeFailed, Err: err})
				continue
			}
		}

		switch {
		case observed == nil:
			var err error
			if !r.DryRun {
				err = r.client.CreateFile(r.owner, r.name, path, "Add "+path, content)
			}
			result.Items = append(result.Items, itemOutcome(path, OutcomeCreated, nil, err))
		case observed.Content == content:
			result.Items = append(result.Items, ItemResult{Name: path, Outcome: OutcomeSkipped})
		default:
			var err error
			if !r.DryRun {
				err = r.client.UpdateFile(r.owner, r.name, path, "Update "+path, content, observed.SHA)
			}
			result.Items = append(result.Items, itemOutcome(path, OutcomeUpdated, []string{"content"}, err))
		}
	}
	return result
}

// reconcileBranchProtection applies protection rules per branch, creating
// missing branches from the default branch head when configured to.
func (r *Reconciler) reconcileBranchProtection() KindResult {
	desired := make(map[string]BranchProtection)
	for branch, rule := range r.config.BranchProtection.Branches {
		if rule.Enable {
			desired[branch] = rule.Protection()
		}
	}
	if len(desired) == 0 {
		return KindResult{}
	}

	result := KindResult{}
	autoCreate := r.config.AutoCreateBranches()

	for _, branch := range sortedKeys(desired) {
		want := desired[branch]

		exists := branch == r.defaultBranch
		if !r.fresh && !exists {
			var err error
			exists, err = r.client.BranchExists(r.owner, r.name, branch)
			if err != nil {
				result.Items = append(result.Items, ItemResult{Name: branch, Outcome: OutcomeFailed, Err: err})
				continue
			}
		}

		if !exists {
			if !autoCreate {
				result.Items = append(result.Items, ItemResult{
					Name:    branch,
					Outcome: OutcomeFailed,
					Err:     &APIError{Type: ErrorTypeNotFound, Message: "branch does not exist and auto_create_branches is disabled", Resource: branch},
				})
				continue
			}
			if !r.DryRun {
				if err := r.client.CreateBranch(r.owner, r.name, branch); err != nil {
					result.Items = append(result.Items, ItemResult{Name: branch, Outcome: OutcomeFailed, Err: err})
					continue
				}
			}
		}

		var observed *BranchProtection
		if !r.fresh && exists {
			protection, err := r.client.GetBranchProtection(r.owner, r.name, branch)
			switch {
			case err == nil:
				observed = protection
			case IsNotFound(err):
				// unprotected branch
			default:
				result.Items = append(result.Items, ItemResult{Name: branch, Outcome: OutcomeFailed, Err: err})
				continue
			}
		}

		switch {
		case observed == nil:
			var err error
			if !r.DryRun {
				err = r.client.UpdateBranchProtection(r.owner, r.name, branch, want)
			}
			result.Items = append(result.Items, itemOutcome(branch, OutcomeCreated, nil, err))
		case observed.Equal(want):
			result.Items = append(result.Items, ItemResult{Name: branch, Outcome: OutcomeSkipped})
		default:
			// The endpoint replaces the whole record, so the complete desired
			// record is resent even for a single changed sub-field.
			var err error
			if !r.DryRun {
				err = r.client.UpdateBranchProtection(r.owner, r.name, branch, want)
			}
			result.Items = append(result.Items, itemOutcome(branch, OutcomeUpdated, observed.ChangedFields(want), err))
		}
	}
	return result
}

// desiredEnvironments renders the environments list plus protection rules
// into name-keyed settings. Reviewer references are resolved to numeric IDs
// here; a resolution failure fails that environment only.
func (r *Reconciler) desiredEnvironments() (map[string]EnvironmentSettings, map[string]error) {
	names := make(map[string]bool)
	for _, env := range r.config.Environments {
		names[env] = true
	}
	for env := range r.config.EnvironmentProtection {
		names[env] = true
	}
	if len(names) == 0 {
		return nil, nil
	}

	desired := make(map[string]EnvironmentSettings, len(names))
	failures := make(map[string]error)

	for env := range names {
		rule, ok := r.config.EnvironmentProtection[env]
		if !ok {
			desired[env] = EnvironmentSettings{}
			continue
		}

		settings := EnvironmentSettings{
			WaitTimer:            rule.WaitTimer,
			PreventSelfReview:    rule.PreventSelfReview,
			ProtectedBranches:    rule.DeploymentBranchPolicy.ProtectedBranches,
			CustomBranchPolicies: rule.DeploymentBranchPolicy.CustomBranchPolicies,
			CustomBranches:       rule.DeploymentBranchPolicy.CustomBranches,
		}

		resolved := true
		for _, ref := range rule.Reviewers {
			reviewer, err := r.resolveReviewer(ref)
			if err != nil {
				failures[env] = err
				resolved = false
				break
			}
			settings.Reviewers = append(settings.Reviewers, reviewer)
		}
		if resolved {
			desired[env] = settings
		}
	}
	return desired, failures
}

func (r *Reconciler) resolveReviewer(ref ReviewerRef) (Reviewer, error) {
	switch ref.Type {
	case "user":
		id, err := r.client.ResolveUserID(ref.ID)
		if err != nil {
			return Reviewer{}, err
		}
		return Reviewer{Type: "User", ID: id}, nil
	case "team":
		id, err := r.client.ResolveTeamID(r.owner, ref.ID)
		if err != nil {
			return Reviewer{}, err
		}
		return Reviewer{Type: "Team", ID: id}, nil
	default:
		return Reviewer{}, NewConfigConflictError(ref.ID, fmt.Sprintf("unknown reviewer type %q", ref.Type))
	}
}

// reconcileEnvironments creates and updates deployment environments with
// their protection settings.
func (r *Reconciler) reconcileEnvironments() KindResult {
	desired, failures := r.desiredEnvironments()
	if len(desired) == 0 && len(failures) == 0 {
		return KindResult{}
	}

	var observed map[string]EnvironmentSettings
	if r.fresh {
		observed = map[string]EnvironmentSettings{}
	} else {
		var err error
		observed, err = r.client.ListEnvironments(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	diff := Compare(desired, observed, EnvironmentSettings.Equal)
	result := KindResult{}

	for _, env := range sortedKeys(failures) {
		result.Items = append(result.Items, ItemResult{Name: env, Outcome: OutcomeFailed, Err: failures[env]})
	}
	for _, env := range diff.Unchanged {
		result.Items = append(result.Items, ItemResult{Name: env, Outcome: OutcomeSkipped})
	}
	for _, env := range diff.CreateNames() {
		var err error
		if !r.DryRun {
			err = r.client.CreateUpdateEnvironment(r.owner, r.name, env, diff.ToCreate[env])
		}
		result.Items = append(result.Items, itemOutcome(env, OutcomeCreated, nil, err))
	}
	for _, env := range diff.UpdateNames() {
		change := diff.ToUpdate[env]
		var err error
		if !r.DryRun {
			err = r.client.CreateUpdateEnvironment(r.owner, r.name, env, change.New)
		}
		result.Items = append(result.Items, itemOutcome(env, OutcomeUpdated, change.Old.ChangedFields(change.New), err))
	}
	return result
}

// reconcileEnvVariables applies per-environment Actions variables.
func (r *Reconciler) reconcileEnvVariables() KindResult {
	if len(r.config.EnvironmentVariables) == 0 {
		return KindResult{}
	}

	result := KindResult{}
	for _, env := range sortedKeys(r.config.EnvironmentVariables) {
		desired := r.config.EnvironmentVariables[env]
		if len(desired) == 0 {
			continue
		}

		var observed map[string]string
		if r.fresh {
			observed = map[string]string{}
		} else {
			var err error
			observed, err = r.client.ListEnvVariables(r.owner, r.name, env)
			if err != nil {
				result.Items = append(result.Items, ItemResult{Name: env, Outcome: OutcomeFailed, Err: err})
				continue
			}
		}

		diff := Compare(desired, observed, stringEquals)
		for _, key := range diff.Unchanged {
			result.Items = append(result.Items, ItemResult{Name: env + "/" + key, Outcome: OutcomeSkipped})
		}
		for _, key := range diff.CreateNames() {
			var err error
			if !r.DryRun {
				err = r.client.CreateEnvVariable(r.owner, r.name, env, key, diff.ToCreate[key])
			}
			result.Items = append(result.Items, itemOutcome(env+"/"+key, OutcomeCreated, nil, err))
		}
		for _, key := range diff.UpdateNames() {
			var err error
			if !r.DryRun {
				err = r.client.UpdateEnvVariable(r.owner, r.name, env, key, diff.ToUpdate[key].New)
			}
			result.Items = append(result.Items, itemOutcome(env+"/"+key, OutcomeUpdated, []string{"value"}, err))
		}
	}
	return result
}

// reconcileEnvSecrets writes per-environment secrets. Secret values are not
// readable remotely, so every configured secret is sealed and written: absent
// names count as created, present names as updated. Values never appear in
// results.
func (r *Reconciler) reconcileEnvSecrets() KindResult {
	if len(r.config.EnvironmentSecrets) == 0 {
		return KindResult{}
	}

	result := KindResult{}
	for _, env := range sortedKeys(r.config.EnvironmentSecrets) {
		desired := r.config.EnvironmentSecrets[env]
		if len(desired) == 0 {
			continue
		}

		existing := make(map[string]bool)
		if !r.fresh {
			names, err := r.client.ListEnvSecretNames(r.owner, r.name, env)
			if err != nil {
				result.Items = append(result.Items, ItemResult{Name: env, Outcome: OutcomeFailed, Err: err})
				continue
			}
			for _, name := range names {
				existing[name] = true
			}
		}

		// The sealing key is fetched just-in-time, once per environment.
		var key *PublicKey
		if !r.DryRun {
			var err error
			key, err = r.client.GetEnvPublicKey(r.owner, r.name, env)
			if err != nil {
				result.Items = append(result.Items, ItemResult{Name: env, Outcome: OutcomeFailed, Err: err})
				continue
			}
		}

		for _, name := range sortedKeys(desired) {
			outcome := OutcomeCreated
			if existing[name] {
				outcome = OutcomeUpdated
			}

			var err error
			if !r.DryRun {
				var sealed EncryptedValue
				sealed, err = EncryptSecret(key, desired[name])
				if err == nil {
					err = r.client.PutEnvSecret(r.owner, r.name, env, name, sealed)
				}
			}
			item := itemOutcome(env+"/"+name, outcome, nil, err)
			if item.Outcome == OutcomeUpdated {
				item.Detail = "value rewritten"
			}
			result.Items = append(result.Items, item)
		}
	}
	return result
}

// reconcileRepoVariables applies repository-level Actions variables.
func (r *Reconciler) reconcileRepoVariables() KindResult {
	desired := r.config.Variables
	if len(desired) == 0 {
		return KindResult{}
	}

	var observed map[string]string
	if r.fresh {
		observed = map[string]string{}
	} else {
		var err error
		observed, err = r.client.ListRepoVariables(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	diff := Compare(desired, observed, stringEquals)
	result := KindResult{}

	for _, key := range diff.Unchanged {
		result.Items = append(result.Items, ItemResult{Name: key, Outcome: OutcomeSkipped})
	}
	for _, key := range diff.CreateNames() {
		var err error
		if !r.DryRun {
			err = r.client.CreateRepoVariable(r.owner, r.name, key, diff.ToCreate[key])
		}
		result.Items = append(result.Items, itemOutcome(key, OutcomeCreated, nil, err))
	}
	for _, key := range diff.UpdateNames() {
		var err error
		if !r.DryRun {
			err = r.client.UpdateRepoVariable(r.owner, r.name, key, diff.ToUpdate[key].New)
		}
		result.Items = append(result.Items, itemOutcome(key, OutcomeUpdated, []string{"value"}, err))
	}
	return result
}

// reconcileRepoSecrets writes repository-level secrets, same write-only
// semantics as environment secrets.
func (r *Reconciler) reconcileRepoSecrets() KindResult {
	desired := r.config.Secrets
	if len(desired) == 0 {
		return KindResult{}
	}

	existing := make(map[string]bool)
	if !r.fresh {
		names, err := r.client.ListRepoSecretNames(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
		for _, name := range names {
			existing[name] = true
		}
	}

	var key *PublicKey
	if !r.DryRun {
		var err error
		key, err = r.client.GetRepoPublicKey(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	result := KindResult{}
	for _, name := range sortedKeys(desired) {
		outcome := OutcomeCreated
		if existing[name] {
			outcome = OutcomeUpdated
		}

		var err error
		if !r.DryRun {
			var sealed EncryptedValue
			sealed, err = EncryptSecret(key, desired[name])
			if err == nil {
				err = r.client.PutRepoSecret(r.owner, r.name, name, sealed)
			}
		}
		item := itemOutcome(name, outcome, nil, err)
		if item.Outcome == OutcomeUpdated {
			item.Detail = "value rewritten"
		}
		result.Items = append(result.Items, item)
	}
	return result
}

// reconcileTeamAccess grants or adjusts team permissions on the repository.
func (r *Reconciler) reconcileTeamAccess() KindResult {
	desired := r.config.TeamAccess
	if len(desired) == 0 {
		return KindResult{}
	}

	var observed map[string]string
	if r.fresh {
		observed = map[string]string{}
	} else {
		var err error
		observed, err = r.client.ListTeamPermissions(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	diff := Compare(desired, observed, stringEquals)
	result := KindResult{}

	for _, slug := range diff.Unchanged {
		result.Items = append(result.Items, ItemResult{Name: slug, Outcome: OutcomeSkipped})
	}
	for _, slug := range diff.CreateNames() {
		var err error
		if !r.DryRun {
			err = r.client.SetTeamPermission(r.owner, r.name, slug, diff.ToCreate[slug])
		}
		result.Items = append(result.Items, itemOutcome(slug, OutcomeCreated, nil, err))
	}
	for _, slug := range diff.UpdateNames() {
		change := diff.ToUpdate[slug]
		var err error
		if !r.DryRun {
			err = r.client.SetTeamPermission(r.owner, r.name, slug, change.New)
		}
		item := itemOutcome(slug, OutcomeUpdated, []string{"permission"}, err)
		item.Detail = fmt.Sprintf("%s -> %s", change.Old, change.New)
		result.Items = append(result.Items, item)
	}
	return result
}

// reconcileUserAccess grants or adjusts collaborator permissions.
func (r *Reconciler) reconcileUserAccess() KindResult {
	desired := r.config.UserAccess
	if len(desired) == 0 {
		return KindResult{}
	}

	var observed map[string]string
	if r.fresh {
		observed = map[string]string{}
	} else {
		var err error
		observed, err = r.client.ListUserPermissions(r.owner, r.name)
		if err != nil {
			return KindResult{Err: err}
		}
	}

	diff := Compare(desired, observed, stringEquals)
	result := KindResult{}

	for _, login := range diff.Unchanged {
		result.Items = append(result.Items, ItemResult{Name: login, Outcome: OutcomeSkipped})
	}
	for _, login := range diff.CreateNames() {
		var err error
		if !r.DryRun {
			err = r.client.SetUserPermission(r.owner, r.name, login, diff.ToCreate[login])
		}
		result.Items = append(result.Items, itemOutcome(login, OutcomeCreated, nil, err))
	}
	for _, login := range diff.UpdateNames() {
		change := diff.ToUpdate[login]
		var err error
		if !r.DryRun {
			err = r.client.SetUserPermission(r.owner, r.name, login, change.New)
		}
		item := itemOutcome(login, OutcomeUpdated, []string{"permission"}, err)
		item.Detail = fmt.Sprintf("%s -> %s", change.Old, change.New)
		result.Items = append(result.Items, item)
	}
	return result
}

// itemOutcome builds an item result, downgrading to failed when the write
// returned an error.
func itemOutcome(name string, outcome Outcome, changed []string, err error) ItemResult {
	if err != nil {
		return ItemResult{Name: name, Outcome: OutcomeFailed, Err: err}
	}
	return ItemResult{Name: name, Outcome: outcome, Changed: changed}
}

// sortedKeys returns the map's keys in sorted order for deterministic
// processing.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
