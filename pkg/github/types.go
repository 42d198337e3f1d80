package github

// Repository represents a GitHub repository
type Repository struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	FullName      string   `json:"full_name"`
	Description   string   `json:"description"`
	Visibility    string   `json:"visibility"` // public, private, internal
	DefaultBranch string   `json:"default_branch"`
	HTMLURL       string   `json:"html_url"`
	Topics        []string `json:"topics"`
}

// RepoFile represents a file tracked in a repository, as returned by the
// contents API. SHA is required for updates.
type RepoFile struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	SHA     string `json:"sha"`
}

// BranchProtection represents the protection settings of a single branch.
// The same shape is used for the desired record (rendered from configuration)
// and the observed record (read from the API).
type BranchProtection struct {
	RequiredReviews         int      `json:"required_reviews"`
	DismissStaleReviews     bool     `json:"dismiss_stale_reviews"`
	RequireCodeOwnerReviews bool     `json:"require_code_owner_reviews"`
	EnforceAdmins           bool     `json:"enforce_admins"`
	RequireStatusChecks     bool     `json:"require_status_checks"`
	StatusChecks            []string `json:"status_checks,omitempty"`
}

// Equal reports whether two protection records match field-wise.
func (b BranchProtection) Equal(other BranchProtection) bool {
	return len(b.ChangedFields(other)) == 0
}

// ChangedFields returns the names of the sub-fields that differ between the
// two records, for report readability. Updates always resend the whole record.
func (b BranchProtection) ChangedFields(other BranchProtection) []string {
	var changed []string
	if b.RequiredReviews != other.RequiredReviews {
		changed = append(changed, "required_reviews")
	}
	if b.DismissStaleReviews != other.DismissStaleReviews {
		changed = append(changed, "dismiss_stale_reviews")
	}
	if b.RequireCodeOwnerReviews != other.RequireCodeOwnerReviews {
		changed = append(changed, "require_code_owner_reviews")
	}
	if b.EnforceAdmins != other.EnforceAdmins {
		changed = append(changed, "enforce_admins")
	}
	if b.RequireStatusChecks != other.RequireStatusChecks {
		changed = append(changed, "require_status_checks")
	}
	// Contexts only matter while checks are required on either side;
	// leftovers on a record with checks disabled are not a difference.
	if (b.RequireStatusChecks || other.RequireStatusChecks) &&
		!stringSetsEqual(b.StatusChecks, other.StatusChecks) {
		changed = append(changed, "status_checks")
	}
	return changed
}

// Reviewer identifies a required deployment reviewer by numeric GitHub ID.
type Reviewer struct {
	Type string `json:"type"` // User or Team
	ID   int64  `json:"id"`
}

// EnvironmentSettings represents the protection settings of a deployment
// environment. Exactly one of ProtectedBranches and CustomBranchPolicies may
// be true; both false means deployments are unrestricted.
type EnvironmentSettings struct {
	WaitTimer            int        `json:"wait_timer"`
	PreventSelfReview    bool       `json:"prevent_self_review"`
	ProtectedBranches    bool       `json:"protected_branches"`
	CustomBranchPolicies bool       `json:"custom_branch_policies"`
	CustomBranches       []string   `json:"custom_branches,omitempty"`
	Reviewers            []Reviewer `json:"reviewers,omitempty"`
}

// Equal reports whether two environment settings match field-wise.
func (e EnvironmentSettings) Equal(other EnvironmentSettings) bool {
	return len(e.ChangedFields(other)) == 0
}

// ChangedFields returns the names of the sub-fields that differ.
func (e EnvironmentSettings) ChangedFields(other EnvironmentSettings) []string {
	var changed []string
	if e.WaitTimer != other.WaitTimer {
		changed = append(changed, "wait_timer")
	}
	if e.PreventSelfReview != other.PreventSelfReview {
		changed = append(changed, "prevent_self_review")
	}
	if e.ProtectedBranches != other.ProtectedBranches {
		changed = append(changed, "protected_branches")
	}
	if e.CustomBranchPolicies != other.CustomBranchPolicies {
		changed = append(changed, "custom_branch_policies")
	}
	if !stringSetsEqual(e.CustomBranches, other.CustomBranches) {
		changed = append(changed, "custom_branches")
	}
	if !reviewerSetsEqual(e.Reviewers, other.Reviewers) {
		changed = append(changed, "reviewers")
	}
	return changed
}

// PublicKey is a remote-published key used to seal secret values before
// transmission. Fetched just-in-time, never cached across invocations.
type PublicKey struct {
	KeyID string `json:"key_id"`
	Key   string `json:"key"` // base64-encoded 32-byte public key
}

// EncryptedValue is a sealed secret value ready for transmission.
type EncryptedValue struct {
	KeyID string `json:"key_id"`
	Data  string `json:"encrypted_value"` // base64-encoded ciphertext
}

// stringSetsEqual compares two string slices ignoring order and duplicates.
func stringSetsEqual(a, b []string) bool {
	setA := make(map[string]bool, len(a))
	for _, s := range a {
		setA[s] = true
	}
	setB := make(map[string]bool, len(b))
	for _, s := range b {
		setB[s] = true
	}
	if len(setA) != len(setB) {
		return false
	}
	for s := range setA {
		if !setB[s] {
			return false
		}
	}
	return true
}

// reviewerSetsEqual compares two reviewer lists ignoring order.
func reviewerSetsEqual(a, b []Reviewer) bool {
	if len(a) != len(b) {
		return false
	}
	setA := make(map[Reviewer]bool, len(a))
	for _, r := range a {
		setA[r] = true
	}
	for _, r := range b {
		if !setA[r] {
			return false
		}
	}
	return true
}
