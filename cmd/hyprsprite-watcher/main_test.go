package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/genricoloni/hyprsprite/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// TestAppGraphValidity verifies that the dependency graph is resolvable.
// This test will fail if you forget an fx.Provide for a required interface.
func TestAppGraphValidity(t *testing.T) {
	// fx.ValidateApp checks that there are no missing or cyclic dependencies
	if err := fx.ValidateApp(AppOptions); err != nil {
		t.Errorf("Dependency graph is not valid: %v", err)
	}
}

// TestNewLogger specifically verifies the logger configuration
func TestNewLogger(t *testing.T) {
	logger, err := newLogger()
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if logger == nil {
		t.Fatal("Logger should not be nil")
	}
	logger.Info("Test logger initialization")
}

func TestVerifyEntryPoint(t *testing.T) {
	home := t.TempDir()
	cfg := config.WatcherConfig{Home: home, EntryPoint: "hyprsprite"}

	if err := verifyEntryPoint(zap.NewNop(), cfg); err == nil {
		t.Fatal("expected an error for a missing entry point")
	}

	if err := os.WriteFile(filepath.Join(home, "hyprsprite"), []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := verifyEntryPoint(zap.NewNop(), cfg); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
