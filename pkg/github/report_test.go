package github

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunReportPrintUpToDate(t *testing.T) {
	report := RunReport{
		Owner:      "acme",
		Repository: "billing",
		Kinds: []KindResult{
			{Kind: "repository variables", Items: []ItemResult{
				{Name: "REGION", Outcome: OutcomeSkipped},
			}},
		},
	}

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "acme/billing")
	assert.Contains(t, out, "Everything up to date")
	assert.False(t, report.HasFailures())
}

func TestRunReportPrintChanges(t *testing.T) {
	report := RunReport{
		Owner:       "acme",
		Repository:  "billing",
		URL:         "https://github.com/acme/billing",
		RepoCreated: true,
		Kinds: []KindResult{
			{Kind: "branch protection", Items: []ItemResult{
				{Name: "main", Outcome: OutcomeUpdated, Changed: []string{"required_reviews"}},
				{Name: "develop", Outcome: OutcomeCreated},
			}},
		},
	}

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "repository created")
	assert.Contains(t, out, "+ develop")
	assert.Contains(t, out, "~ main (required_reviews)")
	assert.Contains(t, out, "https://github.com/acme/billing")
}

func TestRunReportPrintFailures(t *testing.T) {
	report := RunReport{
		Owner:      "acme",
		Repository: "billing",
		Kinds: []KindResult{
			{Kind: "team access", Items: []ItemResult{
				{Name: "ghosts", Outcome: OutcomeFailed, Err: errors.New("team not found")},
				{Name: "platform", Outcome: OutcomeCreated},
			}},
			{Kind: "user access", Err: errors.New("read failed")},
		},
	}

	var buf bytes.Buffer
	report.Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "ghosts: team not found")
	assert.Contains(t, out, "user access: read failed")
	assert.Contains(t, out, "failure")
	assert.True(t, report.HasFailures())
}

func TestRunReportDryRunBanner(t *testing.T) {
	report := RunReport{Owner: "acme", Repository: "billing", DryRun: true}

	var buf bytes.Buffer
	report.Print(&buf)
	assert.Contains(t, buf.String(), "dry-run")
}

func TestKindResultCounts(t *testing.T) {
	kind := KindResult{Items: []ItemResult{
		{Outcome: OutcomeCreated},
		{Outcome: OutcomeCreated},
		{Outcome: OutcomeUpdated},
		{Outcome: OutcomeSkipped},
		{Outcome: OutcomeFailed},
	}}

	created, updated, skipped, failed := kind.Counts()
	assert.Equal(t, 2, created)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 1, failed)
}
