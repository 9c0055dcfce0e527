package oracle

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// templateFuncs provides utility functions for prompt templates.
var templateFuncs = sprig.TxtFuncMap()

const (
	systemPrompt = "You are a creative game AI, describing fantastical, whimsical rooms or scenarios. Be imaginative."

	DefaultDescribeTemplate = `Describe the room at coordinates ({{ .X }}, {{ .Y }}) of an endless dungeon in at most two sentences. ` +
		`It is {{ .Width }} paces wide and {{ .Height }} paces deep.` +
		`{{ with .Items }} Somewhere inside lies {{ join ", " . | lower }}.{{ end }}`

	DefaultRiddleTemplate = `Invent a short riddle guarding the room at ({{ .X }}, {{ .Y }}) of an endless dungeon. ` +
		`The answer must be a single common English word. ` +
		`Reply with JSON only, in the form {"question": "...", "answer": "..."}.`
)

type prompts struct {
	describe *template.Template
	riddle   *template.Template
}

func parsePrompts(describe, riddle string) (*prompts, error) {
	d, err := template.New("describe").Funcs(templateFuncs).Parse(describe)
	if err != nil {
		return nil, fmt.Errorf("parsing describe template: %w", err)
	}
	r, err := template.New("riddle").Funcs(templateFuncs).Parse(riddle)
	if err != nil {
		return nil, fmt.Errorf("parsing riddle template: %w", err)
	}
	return &prompts{describe: d, riddle: r}, nil
}

func expand(tmpl *template.Template, req Request) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, req)
	if err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}
