// Package github provides declarative GitHub repository provisioning for
// reposync. A repository configuration loaded from YAML is reconciled against
// the live state of the repository: missing resources are created, divergent
// ones are updated, and matching ones are left untouched.
//
// The package includes:
// - APIClient interface for GitHub API operations
// - Compare, the generic desired-vs-observed state comparator
// - Reconciler, the per-kind reconciliation orchestrator
// - Configuration models for repository settings
// - Sealed-box encryption for Actions secrets
package github
