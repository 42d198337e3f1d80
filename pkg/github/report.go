package github

import (
	"fmt"
	"io"
	"strings"
)

// Outcome classifies what happened to one reconciled item.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeUpdated Outcome = "updated"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// ItemResult records the outcome of one item within a resource kind.
type ItemResult struct {
	Name    string   `json:"name"`
	Outcome Outcome  `json:"outcome"`
	Changed []string `json:"changed,omitempty"`
	Detail  string   `json:"detail,omitempty"`
	Err     error    `json:"-"`
}

// KindResult records the outcomes of one resource kind.
type KindResult struct {
	Kind  string       `json:"kind"`
	Items []ItemResult `json:"items,omitempty"`
	// Err is set when the whole kind failed before any item could be
	// processed, e.g. the observed-state read failed.
	Err error `json:"-"`
}

// Counts returns the number of created, updated, skipped and failed items.
func (k KindResult) Counts() (created, updated, skipped, failed int) {
	for _, item := range k.Items {
		switch item.Outcome {
		case OutcomeCreated:
			created++
		case OutcomeUpdated:
			updated++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	return
}

// RunReport is the full result of one reconciliation run.
type RunReport struct {
	Owner       string       `json:"owner"`
	Repository  string       `json:"repository"`
	URL         string       `json:"url,omitempty"`
	RepoCreated bool         `json:"repo_created"`
	DryRun      bool         `json:"dry_run"`
	Kinds       []KindResult `json:"kinds"`
}

// HasFailures reports whether any kind or item failed.
func (r RunReport) HasFailures() bool {
	for _, kind := range r.Kinds {
		if kind.Err != nil {
			return true
		}
		for _, item := range kind.Items {
			if item.Outcome == OutcomeFailed {
				return true
			}
		}
	}
	return false
}

// Print writes a human-readable summary of the run.
func (r RunReport) Print(w io.Writer) {
	fmt.Fprintf(w, "\n📋 Reconciliation summary for %s/%s\n", r.Owner, r.Repository)
	if r.DryRun {
		fmt.Fprintf(w, "   (dry-run, no changes applied)\n")
	}
	if r.RepoCreated {
		fmt.Fprintf(w, "+ repository created\n")
	}

	totalCreated, totalUpdated, totalFailed := 0, 0, 0
	for _, kind := range r.Kinds {
		if kind.Err != nil {
			fmt.Fprintf(w, "⚠️  %s: %v\n", kind.Kind, kind.Err)
			totalFailed++
			continue
		}
		if len(kind.Items) == 0 {
			continue
		}

		created, updated, skipped, failed := kind.Counts()
		totalCreated += created
		totalUpdated += updated
		totalFailed += failed
		fmt.Fprintf(w, "%s: %d created, %d updated, %d unchanged, %d failed\n",
			kind.Kind, created, updated, skipped, failed)

		for _, item := range kind.Items {
			switch item.Outcome {
			case OutcomeCreated:
				fmt.Fprintf(w, "  + %s\n", item.Name)
			case OutcomeUpdated:
				if len(item.Changed) > 0 {
					fmt.Fprintf(w, "  ~ %s (%s)\n", item.Name, strings.Join(item.Changed, ", "))
				} else {
					fmt.Fprintf(w, "  ~ %s\n", item.Name)
				}
			case OutcomeFailed:
				fmt.Fprintf(w, "  ⚠️  %s: %v\n", item.Name, item.Err)
			}
		}
	}

	if totalCreated == 0 && totalUpdated == 0 && totalFailed == 0 && !r.RepoCreated {
		fmt.Fprintf(w, "✓ Everything up to date\n")
	} else if totalFailed == 0 {
		fmt.Fprintf(w, "✓ Done\n")
	} else {
		fmt.Fprintf(w, "⚠️  Completed with %d failure(s)\n", totalFailed)
	}
	if r.URL != "" {
		fmt.Fprintf(w, "🔗 %s\n", r.URL)
	}
}
