// Package mail provides the SMTP notification sink for welcome and OTP emails.
package mail

import (
	"os"
	"strconv"
)

// Config holds SMTP configuration for the notification sink.
type Config struct {
	Host     string // SMTP server host
	Port     int    // SMTP server port (defaults to 587)
	Username string // SMTP auth username
	Password string // SMTP auth password
	From     string // sender address placed in the From header
}

// LoadConfig loads SMTP configuration from environment variables.
func LoadConfig() Config {
	port := 587
	if p, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil && p > 0 {
		port = p
	}
	return Config{
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     os.Getenv("SMTP_FROM"),
	}
}
