package outreach

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Taiyaki-maker/Apply-Automation/internal/model"
)

func TestRenderDefaultBody(t *testing.T) {
	tmpl, err := NewTemplate(TemplateConfig{
		Subject:    "Application for Barista Position",
		ResumePath: "/docs/resume.pdf",
	})
	require.NoError(t, err)

	msg, err := tmpl.Render(model.Place{Name: "Cafe Luna", Email: "jobs@cafeluna.com"})
	require.NoError(t, err)

	assert.Equal(t, "jobs@cafeluna.com", msg.To)
	assert.Equal(t, "Application for Barista Position", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "Cafe Luna")
	assert.Contains(t, msg.HTMLBody, "Dear Hiring Manager")
	assert.Equal(t, "/docs/resume.pdf", msg.AttachmentPath)
}

func TestRenderEscapesName(t *testing.T) {
	tmpl, err := NewTemplate(TemplateConfig{Subject: "s"})
	require.NoError(t, err)

	msg, err := tmpl.Render(model.Place{Name: "Bread & Butter <Bakery>", Email: "x@y.com"})
	require.NoError(t, err)

	assert.Contains(t, msg.HTMLBody, "Bread &amp; Butter &lt;Bakery&gt;")
}

func TestRenderCustomBodyFile(t *testing.T) {
	dir := t.TempDir()
	bodyPath := filepath.Join(dir, "body.html")
	require.NoError(t, os.WriteFile(bodyPath, []byte("<p>Hi {{.Name}}</p>"), 0o644))

	tmpl, err := NewTemplate(TemplateConfig{Subject: "s", BodyPath: bodyPath})
	require.NoError(t, err)

	msg, err := tmpl.Render(model.Place{Name: "Cafe A", Email: "a@a.com"})
	require.NoError(t, err)
	assert.Equal(t, "<p>Hi Cafe A</p>", msg.HTMLBody)
}

func TestRenderMissingBodyFile(t *testing.T) {
	_, err := NewTemplate(TemplateConfig{Subject: "s", BodyPath: filepath.Join(t.TempDir(), "nope.html")})
	require.Error(t, err)
}

func TestResolveAttachmentAgainstBaseDir(t *testing.T) {
	tmpl, err := NewTemplate(TemplateConfig{
		Subject:    "s",
		ResumePath: "resume.pdf",
		BaseDir:    "documents",
	})
	require.NoError(t, err)

	msg, err := tmpl.Render(model.Place{Name: "Cafe A", Email: "a@a.com"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("documents", "resume.pdf"), msg.AttachmentPath)
}

func TestResolveAbsolutePathIgnoresBaseDir(t *testing.T) {
	tmpl, err := NewTemplate(TemplateConfig{
		Subject:    "s",
		ResumePath: "/abs/resume.pdf",
		BaseDir:    "documents",
	})
	require.NoError(t, err)

	msg, err := tmpl.Render(model.Place{Name: "Cafe A", Email: "a@a.com"})
	require.NoError(t, err)
	assert.Equal(t, "/abs/resume.pdf", msg.AttachmentPath)
}
