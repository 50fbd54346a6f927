package models

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"CLOUDTRAIL_NAME_PREFIX", "ASSUME_ROLE_NAME", "DRY_RUN", "ERROR_NOT_FOUND", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := ConfigFromEnv()
	if cfg.TrailNamePrefix != DefaultTrailNamePrefix {
		t.Errorf("unexpected prefix: %s", cfg.TrailNamePrefix)
	}
	if cfg.AssumeRoleName != DefaultAssumeRoleName {
		t.Errorf("unexpected role name: %s", cfg.AssumeRoleName)
	}
	if !cfg.DryRun {
		t.Error("dry run must default to true")
	}
	if !cfg.ErrorNotFound {
		t.Error("error-not-found must default to true")
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("unexpected log level: %s", cfg.LogLevel)
	}
}

func TestConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("CLOUDTRAIL_NAME_PREFIX", "audit-")
	t.Setenv("ASSUME_ROLE_NAME", "CleanupRole")
	t.Setenv("DRY_RUN", "false")
	t.Setenv("ERROR_NOT_FOUND", "False")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := ConfigFromEnv()
	if cfg.TrailNamePrefix != "audit-" {
		t.Errorf("unexpected prefix: %s", cfg.TrailNamePrefix)
	}
	if cfg.AssumeRoleName != "CleanupRole" {
		t.Errorf("unexpected role name: %s", cfg.AssumeRoleName)
	}
	if cfg.DryRun {
		t.Error("DRY_RUN=false must disarm dry run")
	}
	if cfg.ErrorNotFound {
		t.Error("ERROR_NOT_FOUND is case insensitive")
	}
	if cfg.Level() != logrus.DebugLevel {
		t.Errorf("unexpected level: %s", cfg.Level())
	}
}

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want logrus.Level
	}{
		{"error", logrus.ErrorLevel},
		{"warning", logrus.WarnLevel},
		{"INFO", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"bogus", logrus.InfoLevel},
		{"", logrus.InfoLevel},
	}
	for _, tc := range cases {
		if got := ParseLogLevel(tc.in); got != tc.want {
			t.Errorf("ParseLogLevel(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
