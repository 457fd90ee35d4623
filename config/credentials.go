package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Credentials hold the broker terminal login. They live in the
// environment (or a local .env) rather than the config file so the
// file can be committed.
type Credentials struct {
	Server   string `envconfig:"BROKER_SERVER"`
	Login    string `envconfig:"BROKER_LOGIN"`
	Password string `envconfig:"BROKER_PASSWORD"`
}

// LoadCredentials reads broker credentials from the environment,
// seeding it from .env first when one exists. A missing .env is not
// an error; the simulated terminal needs no credentials at all.
func LoadCredentials() (Credentials, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Credentials{}, fmt.Errorf("load .env: %w", err)
	}

	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return Credentials{}, fmt.Errorf("read credentials: %w", err)
	}
	return creds, nil
}
