package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() failed validation: %v", err)
	}
}

func TestLoadWithEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") returned error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("Load(\"\") = %+v, want Default()", cfg)
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	cfg := Default()
	cfg.Condenser.Strategy = "bogus"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for an unknown condenser strategy")
	}
}

func TestValidateRejectsEmptyServerAddr(t *testing.T) {
	cfg := Default()
	cfg.Server.Addr = ""
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected an error for an empty server address")
	}
}

func TestMergeOverridesLeavesUnsetFieldsAtDefault(t *testing.T) {
	base := Default()
	override := Config{Server: ServerConfig{Addr: "0.0.0.0:9000"}}
	merged := mergeOverrides(base, override)
	if merged.Server.Addr != "0.0.0.0:9000" {
		t.Fatalf("expected server addr overridden, got %q", merged.Server.Addr)
	}
	if merged.Condenser.Strategy != base.Condenser.Strategy {
		t.Fatalf("expected condenser strategy left at default, got %q", merged.Condenser.Strategy)
	}
}
