package github

import (
	"fmt"
	"strings"
)

// gitignoreTemplates holds the builtin .gitignore bodies selectable by
// template name in configuration. Any other value is written verbatim.
var gitignoreTemplates = map[string]string{
	"Python": `__pycache__/
*.py[cod]
*$py.class
*.egg-info/
.eggs/
build/
dist/
.venv/
venv/
.env
.pytest_cache/
.mypy_cache/
.coverage
htmlcov/
`,
	"Go": `*.exe
*.exe~
*.dll
*.so
*.dylib
*.test
*.out
vendor/
.idea/
`,
	"Node": `node_modules/
npm-debug.log*
yarn-debug.log*
yarn-error.log*
.pnpm-debug.log*
dist/
coverage/
.env
.env.local
`,
}

// GitignoreContent resolves the configured gitignore value: a known template
// name expands to the builtin body, anything else passes through as literal
// file content.
func GitignoreContent(value string) string {
	if body, ok := gitignoreTemplates[value]; ok {
		return body
	}
	return value
}

// desiredFiles renders the files section into path-keyed desired content.
func desiredFiles(cfg FilesConfig, repoName string) map[string]string {
	files := make(map[string]string)
	if cfg.ReadmeContent != "" {
		content := cfg.ReadmeContent
		if !strings.HasPrefix(content, "#") {
			content = fmt.Sprintf("# %s\n\n%s", repoName, content)
		}
		if !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		files["README.md"] = content
	}
	if cfg.GitignoreTemplate != "" {
		files[".gitignore"] = GitignoreContent(cfg.GitignoreTemplate)
	}
	return files
}
