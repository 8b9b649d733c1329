package email

// Mailer sends outbound mail. Failure is non-fatal to callers: the auth
// workflow logs and moves on.
type Mailer interface {
	SendPlain(to []string, subject, body string) error
	SendHTML(to []string, subject, tmplName string, data map[string]string) error
}
