package config

import (
	"strings"
	"testing"
)

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/therapy")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL_HOURS", "2")
	t.Setenv("CLOUDINARY_FOLDER", "pim")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DatabaseURL != "postgres://localhost/therapy" {
		t.Fatalf("unexpected database url %q", cfg.DatabaseURL)
	}
	if cfg.JWT.Secret != "s3cret" || cfg.JWT.TTLHours != 2 {
		t.Fatalf("unexpected jwt config %+v", cfg.JWT)
	}
	if cfg.Cloudinary.Folder != "pim" {
		t.Fatalf("unexpected folder %q", cfg.Cloudinary.Folder)
	}
	if cfg.Port != "8000" {
		t.Fatalf("expected default port 8000, got %q", cfg.Port)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidate_ReportsMissingSettings(t *testing.T) {
	err := (&Config{}).Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"DATABASE_URL", "JWT_SECRET"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %s in %q", want, err.Error())
		}
	}
}
