package prompt

import (
	"bytes"
	"embed"
	"fmt"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

const translateTemplateFile = "templates/translate.yaml"

type translateTemplates struct {
	System     string `yaml:"system"`
	User       string `yaml:"user"`
	Correction string `yaml:"correction"`
}

// SystemVars fills the system instructions.
type SystemVars struct {
	AppName        string
	AppDescription string
	BrandVoice     string
	TargetLanguage string
}

// UserVars fills the first request turn. CharLimit <= 0 omits the limit
// directive.
type UserVars struct {
	TextType       string
	TargetLanguage string
	SourceText     string
	CharLimit      int
}

// CorrectionVars fills the corrective turn after an over-limit reply.
type CorrectionVars struct {
	Length int
	Limit  int
}

type PromptBuilder struct {
	once       sync.Once
	loadErr    error
	system     *template.Template
	user       *template.Template
	correction *template.Template
}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

func (pb *PromptBuilder) load() error {
	pb.once.Do(func() {
		content, err := templateFS.ReadFile(translateTemplateFile)
		if err != nil {
			pb.loadErr = fmt.Errorf("load prompt template %s: %w", translateTemplateFile, err)
			return
		}

		var raw translateTemplates
		if err := yaml.Unmarshal(content, &raw); err != nil {
			pb.loadErr = fmt.Errorf("parse prompt template %s: %w", translateTemplateFile, err)
			return
		}

		parse := func(name, text string) *template.Template {
			if pb.loadErr != nil {
				return nil
			}
			tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
			if err != nil {
				pb.loadErr = fmt.Errorf("parse prompt %s: %w", name, err)
			}
			return tmpl
		}

		pb.system = parse("system", raw.System)
		pb.user = parse("user", raw.User)
		pb.correction = parse("correction", raw.Correction)
	})
	return pb.loadErr
}

func (pb *PromptBuilder) System(vars SystemVars) (string, error) {
	if err := pb.load(); err != nil {
		return "", err
	}
	return render(pb.system, vars)
}

func (pb *PromptBuilder) User(vars UserVars) (string, error) {
	if err := pb.load(); err != nil {
		return "", err
	}
	return render(pb.user, vars)
}

func (pb *PromptBuilder) Correction(vars CorrectionVars) (string, error) {
	if err := pb.load(); err != nil {
		return "", err
	}
	return render(pb.correction, vars)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
