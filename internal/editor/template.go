// Package editor edits task templates in the user's editor as TOML
// frontmatter followed by a free-text description.
package editor

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/daybook/info"
	"github.com/amonks/daybook/internal/errs"
	internalstrings "github.com/amonks/daybook/internal/strings"
	"github.com/amonks/daybook/task"
	"github.com/amonks/daybook/tracker"
	"golang.org/x/term"
)

// IsInteractive reports whether stdin is a terminal, so an editor can run.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// editorCommand returns the command line that edits path: $VISUAL, then
// $EDITOR, then vi. The variables may carry arguments, as in "code --wait".
func editorCommand(path string) []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return append(fields, path)
		}
	}
	return []string{"vi", path}
}

func runEditor(path string) error {
	argv := editorCommand(path)
	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%s exited with status %d, template not saved", argv[0], exitErr.ExitCode())
		}
		return fmt.Errorf("run editor %s: %w", argv[0], err)
	}
	return nil
}

// TemplateData represents the data used to render the TOML frontmatter.
type TemplateData struct {
	// IsUpdate is true when editing an existing template.
	IsUpdate bool
	// ID is the template ID (only for updates).
	ID string
	// Name is the template name.
	Name string
	// Category is the category name, empty for none.
	Category string
	// OneTime marks templates retired on first promotion.
	OneTime bool
	// Description is the template description.
	Description string
}

// DataFromTemplate creates TemplateData from an existing template.
// categoryName is the resolved name of its category.
func DataFromTemplate(tmpl task.Template, categoryName string) TemplateData {
	return TemplateData{
		IsUpdate:    true,
		ID:          tmpl.ID(),
		Name:        tmpl.Info.Name,
		Category:    categoryName,
		OneTime:     tmpl.OneTime,
		Description: tmpl.Info.Description,
	}
}

var templateTemplate = template.Must(template.New("template").Parse(`name = {{ printf "%q" .Name }}
category = {{ printf "%q" .Category }} # category name, empty for none
one-time = {{ .OneTime }} # retire after the first promotion
{{- if .IsUpdate }}
# id: {{ .ID }}
{{- end }}
---
{{ .Description }}
`))

// RenderTemplateTOML renders the template data for editing.
func RenderTemplateTOML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := templateTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedTemplate represents the parsed result from the editor.
type ParsedTemplate struct {
	Name        string `toml:"name"`
	Category    string `toml:"category"`
	OneTime     bool   `toml:"one-time"`
	Description string `toml:"-"`
}

// ParseTemplateTOML parses the frontmatter and body written by the editor.
func ParseTemplateTOML(content string) (*ParsedTemplate, error) {
	frontmatter, body := splitFrontmatter(internalstrings.NormalizeNewlines(content))

	var parsed ParsedTemplate
	meta, err := toml.Decode(frontmatter, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("parse TOML: unknown key %s", undecoded[0])
	}
	parsed.Category = strings.TrimSpace(parsed.Category)

	if parsed.Name, err = info.ValidateName(parsed.Name); err != nil {
		return nil, err
	}
	if parsed.Description, err = info.ValidateDescription(internalstrings.NormalizeWhitespace(body)); err != nil {
		return nil, err
	}

	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

func createTempFile() (*os.File, error) {
	return os.CreateTemp("", "daybook-template-*.md")
}

// EditTemplateWithData opens the editor with pre-populated data and returns
// the parsed result. Saving an empty file cancels the edit.
func EditTemplateWithData(data TemplateData) (*ParsedTemplate, error) {
	content, err := RenderTemplateTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := createTempFile()
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := runEditor(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	if strings.TrimSpace(string(edited)) == "" {
		return nil, errs.Validation("template", "editor saved an empty file, nothing changed")
	}

	return ParseTemplateTOML(string(edited))
}

// ToInput converts a ParsedTemplate to a tracker.TemplateInput.
func (p *ParsedTemplate) ToInput() tracker.TemplateInput {
	return tracker.TemplateInput{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		OneTime:     p.OneTime,
	}
}

// ToEdit converts a ParsedTemplate to a tracker.TemplateEdit that sets
// every field.
func (p *ParsedTemplate) ToEdit() tracker.TemplateEdit {
	return tracker.TemplateEdit{
		Name:        &p.Name,
		Description: &p.Description,
		Category:    &p.Category,
		OneTime:     &p.OneTime,
	}
}
