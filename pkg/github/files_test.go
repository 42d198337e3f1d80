package github

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGitignoreContentTemplates(t *testing.T) {
	assert.Contains(t, GitignoreContent("Python"), "__pycache__/")
	assert.Contains(t, GitignoreContent("Go"), "vendor/")
	assert.Contains(t, GitignoreContent("Node"), "node_modules/")

	// Unknown values pass through as literal content.
	literal := "*.log\ntmp/\n"
	assert.Equal(t, literal, GitignoreContent(literal))
}

func TestDesiredFilesReadmeHeading(t *testing.T) {
	files := desiredFiles(FilesConfig{ReadmeContent: "Billing service."}, "billing")
	readme := files["README.md"]

	assert.True(t, strings.HasPrefix(readme, "# billing\n"))
	assert.Contains(t, readme, "Billing service.")
	assert.True(t, strings.HasSuffix(readme, "\n"))
}

func TestDesiredFilesKeepsExplicitHeading(t *testing.T) {
	files := desiredFiles(FilesConfig{ReadmeContent: "# Custom Title\n\nBody.\n"}, "billing")
	assert.Equal(t, "# Custom Title\n\nBody.\n", files["README.md"])
}

func TestDesiredFilesEmptyConfig(t *testing.T) {
	assert.Empty(t, desiredFiles(FilesConfig{}, "billing"))
}
