package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/smtp"
	"os"
	"path/filepath"
	"strings"

	"github.com/icaliwag/pasokit/internal/config"
)

// ErrNotConfigured is returned by sends when no SMTP transport was
// configured. Callers treat it as a soft failure.
var ErrNotConfigured = errors.New("smtp transport is not configured")

type templateMap map[string]*template.Template

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
}

// SMTPMailer sends templated HTML mail over SMTP. A nil SMTPConfig builds a
// mailer whose sends fail softly with ErrNotConfigured.
type SMTPMailer struct {
	from      string
	pass      string
	host      string
	port      int
	sender    string
	templates templateMap
}

var _ Mailer = (*SMTPMailer)(nil)

func NewSMTPMailer(cfg *SMTPConfig, opts *config.Email) (*SMTPMailer, error) {
	path := opts.Templates
	layoutFile := filepath.Join(path, opts.Layout)
	tmplMap, err := parsePages(path, layoutFile)
	if err != nil {
		return nil, err
	}

	mailer := &SMTPMailer{
		sender:    opts.Sender,
		templates: tmplMap,
	}

	if cfg == nil {
		slog.Warn("SMTP transport not configured. Outbound email is disabled.")
		return mailer, nil
	}

	mailer.from = cfg.User
	mailer.pass = cfg.Password
	mailer.host = cfg.Host
	mailer.port = cfg.Port
	return mailer, nil
}

func (e *SMTPMailer) send(to []string, subject, body, contentType string) error {
	if e.host == "" {
		return ErrNotConfigured
	}

	auth := smtp.PlainAuth("", e.from, e.pass, e.host)

	recipients := strings.Join(to, ", ")
	headers := "From: " + e.sender + "\r\n" +
		"To: " + recipients + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0\r\n" +
		"Content-Type: " + contentType + "; charset=\"UTF-8\"\r\n\r\n"

	message := headers + body
	addr := fmt.Sprintf("%s:%d", e.host, e.port)

	if err := smtp.SendMail(addr, auth, e.from, to, []byte(message)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	slog.Info("Email sent.")
	return nil
}

func (e *SMTPMailer) SendHTML(to []string, subject, tmplName string, data map[string]string) error {
	tmpl, ok := e.templates[tmplName]
	if !ok {
		return fmt.Errorf("template does not exist: %s", tmplName)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("execute template %s: %w", tmplName, err)
	}

	return e.send(to, subject, buf.String(), "text/html")
}

func (e *SMTPMailer) SendPlain(to []string, subject, body string) error {
	return e.send(to, subject, body, "text/plain")
}

func parsePages(templateDir, layoutFile string) (templateMap, error) {
	tmplMap := make(templateMap)
	layoutTmpl, err := template.New("layout").ParseFiles(layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout %s: %w", layoutFile, err)
	}

	layoutName := filepath.Base(layoutFile)
	err = fs.WalkDir(os.DirFS(templateDir), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		const suffix = ".html"
		if d.IsDir() || !strings.HasSuffix(path, suffix) || path == layoutName {
			return nil
		}

		name := strings.TrimSuffix(path, suffix)
		page, err := layoutTmpl.Clone()
		if err != nil {
			return fmt.Errorf("clone layout: %w", err)
		}
		if _, err := page.ParseFiles(filepath.Join(templateDir, path)); err != nil {
			return fmt.Errorf("parse page %s: %w", path, err)
		}
		tmplMap[name] = page
		slog.Debug("parsed page", "path", path, "name", name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load page templates: %w", err)
	}

	return tmplMap, nil
}
