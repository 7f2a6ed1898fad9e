// Package outreach drives the one-time application campaign against
// enriched records.
package outreach

import (
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
	"github.com/Taiyaki-maker/Apply-Automation/pkg/mailer"
)

// defaultBody is the application cover letter. {{.Name}} is the business
// display name as returned by the provider.
const defaultBody = `<html>
<body>
    <p>Dear Hiring Manager,</p>

    <p>I am excited to apply for a position at {{.Name}}. I bring two years
    of hands-on experience along with strong customer service skills, and my
    previous roles have prepared me to excel in fast-paced, customer-focused
    environments.</p>

    <p>Please find my resume attached. I look forward to the opportunity to
    contribute my skills and enthusiasm to {{.Name}}.</p>

    <p>Thank you for your time and consideration.</p>

    <p>Warm regards</p>
</body>
</html>`

// Template renders the outbound message for one place record.
type Template struct {
	subject string
	body    *template.Template
	attach  string
}

// TemplateConfig configures message rendering.
type TemplateConfig struct {
	Subject    string
	BodyPath   string // optional template file overriding the default body
	ResumePath string // attachment, resolved against BaseDir when relative
	BaseDir    string
}

// NewTemplate builds a Template from config.
func NewTemplate(cfg TemplateConfig) (*Template, error) {
	body := defaultBody
	if cfg.BodyPath != "" {
		raw, err := os.ReadFile(resolve(cfg.BaseDir, cfg.BodyPath))
		if err != nil {
			return nil, eris.Wrap(err, "outreach: read body template")
		}
		body = string(raw)
	}

	tmpl, err := template.New("body").Parse(body)
	if err != nil {
		return nil, eris.Wrap(err, "outreach: parse body template")
	}

	return &Template{
		subject: cfg.Subject,
		body:    tmpl,
		attach:  resolve(cfg.BaseDir, cfg.ResumePath),
	}, nil
}

// Render produces the message for one record.
func (t *Template) Render(rec model.Place) (mailer.Message, error) {
	var sb strings.Builder
	if err := t.body.Execute(&sb, rec); err != nil {
		return mailer.Message{}, eris.Wrapf(err, "outreach: render body for %s", rec.Name)
	}
	return mailer.Message{
		To:             rec.Email,
		Subject:        t.subject,
		HTMLBody:       sb.String(),
		AttachmentPath: t.attach,
	}, nil
}

// resolve joins a relative path onto the base dir; absolute paths and an
// empty base pass through.
func resolve(base, path string) string {
	if path == "" || base == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
