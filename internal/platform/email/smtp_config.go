package email

import (
	"fmt"
	"os"
	"strconv"
)

const (
	envSMTPHost = "SMTP_HOST"
	envSMTPPort = "SMTP_PORT"
	envSMTPUser = "SMTP_USER"
	envSMTPPass = "SMTP_PASS"
)

// NewSMTPConfigFromEnv builds an SMTPConfig from the environment. A missing
// SMTP_HOST means no transport: it returns nil without an error so the app
// can run with outbound email disabled.
func NewSMTPConfigFromEnv() (*SMTPConfig, error) {
	smtpHost, ok := os.LookupEnv(envSMTPHost)
	if !ok || smtpHost == "" {
		return nil, nil
	}

	smtpPortStr := os.Getenv(envSMTPPort)
	smtpPort, err := strconv.Atoi(smtpPortStr)
	if err != nil {
		return nil, fmt.Errorf("convert smtp port %q to int: %w", smtpPortStr, err)
	}

	return &SMTPConfig{
		Host:     smtpHost,
		Port:     smtpPort,
		User:     os.Getenv(envSMTPUser),
		Password: os.Getenv(envSMTPPass),
	}, nil
}
