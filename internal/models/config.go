package models

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Defaults shared by the CLI flags and the environment config.
const (
	DefaultTrailNamePrefix = "cloudtrail-"
	DefaultAssumeRoleName  = "OrganizationAccountAccessRole"
	DefaultLogLevel        = "info"
)

// Config holds the process-wide options the Lambda entry point reads
// from its environment. The CLI carries the same contract through flag
// EnvVars, so both entry points honor identical variables.
type Config struct {
	TrailNamePrefix string
	AssumeRoleName  string
	DryRun          bool
	ErrorNotFound   bool
	LogLevel        string
}

// ConfigFromEnv builds a Config from the environment:
//
//	CLOUDTRAIL_NAME_PREFIX  trail name prefix to match (default "cloudtrail-")
//	ASSUME_ROLE_NAME        role to assume in the target account
//	DRY_RUN                 "true" simulates deletions (default true)
//	ERROR_NOT_FOUND         "true" makes a missing trail fatal (default true)
//	LOG_LEVEL               error|warning|info|debug (default info)
func ConfigFromEnv() Config {
	return Config{
		TrailNamePrefix: getenv("CLOUDTRAIL_NAME_PREFIX", DefaultTrailNamePrefix),
		AssumeRoleName:  getenv("ASSUME_ROLE_NAME", DefaultAssumeRoleName),
		DryRun:          envBool("DRY_RUN"),
		ErrorNotFound:   envBool("ERROR_NOT_FOUND"),
		LogLevel:        getenv("LOG_LEVEL", DefaultLogLevel),
	}
}

// Level translates the configured log level into a logrus level,
// falling back to info on anything unrecognized.
func (c Config) Level() logrus.Level {
	return ParseLogLevel(c.LogLevel)
}

// ParseLogLevel maps error|warning|info|debug onto logrus levels.
// Unknown values degrade to info rather than failing the invocation.
func ParseLogLevel(s string) logrus.Level {
	level, err := logrus.ParseLevel(strings.ToLower(s))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envBool defaults to true; anything other than "true" (any case)
// disables the flag, matching the DRY_RUN/ERROR_NOT_FOUND contract.
func envBool(key string) bool {
	return strings.ToLower(getenv(key, "true")) == "true"
}
