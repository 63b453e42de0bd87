package argo

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv loads KEY=VALUE pairs from the given .env files (".env" when none
// are given) without overriding variables already set. Missing files are not
// an error.
func LoadEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				Debugf("env file %s not found; skipping", p)
				continue
			}
			return err
		}
		Debugf("loaded env file %s", p)
	}
	return nil
}

// InfluxConfig addresses the InfluxDB bucket profiles are exported to.
type InfluxConfig struct {
	URL         string
	Token       string
	Org         string
	Bucket      string
	Measurement string
	BatchSize   int
}

// DefaultMeasurement is the InfluxDB measurement name used when none is configured.
const DefaultMeasurement = "argo_profile"

// InfluxConfigFromEnv reads ARGO_INFLUX_* variables.
func InfluxConfigFromEnv() InfluxConfig {
	c := InfluxConfig{
		URL:         strings.TrimSpace(os.Getenv("ARGO_INFLUX_URL")),
		Token:       strings.TrimSpace(os.Getenv("ARGO_INFLUX_TOKEN")),
		Org:         strings.TrimSpace(os.Getenv("ARGO_INFLUX_ORG")),
		Bucket:      strings.TrimSpace(os.Getenv("ARGO_INFLUX_BUCKET")),
		Measurement: strings.TrimSpace(os.Getenv("ARGO_INFLUX_MEASUREMENT")),
		BatchSize:   500,
	}
	if c.Measurement == "" {
		c.Measurement = DefaultMeasurement
	}
	return c
}

// Validate reports the first missing setting needed for an export.
func (c InfluxConfig) Validate() error {
	switch {
	case c.URL == "":
		return errors.New("influx: URL not set (ARGO_INFLUX_URL)")
	case c.Org == "":
		return errors.New("influx: org not set (ARGO_INFLUX_ORG)")
	case c.Bucket == "":
		return errors.New("influx: bucket not set (ARGO_INFLUX_BUCKET)")
	}
	return nil
}
