package internal

import (
	"strings"
	"testing"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLiteratureConfig_RequiresPlaceholder(t *testing.T) {
	cfg := LiteratureConfig{PathTemplate: "_notes/literature/fixed.md"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("template without {id} should fail")
	}
	cfg.PathTemplate = "_notes/lit/{id}.md"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}
}

func TestSiteConfig_Permalink(t *testing.T) {
	for _, p := range []string{"{slug}/", "/notes/"} {
		cfg := SiteConfig{NotePermalink: p}
		if err := cfg.Validate(); err == nil {
			t.Errorf("permalink %q should fail", p)
		}
	}
}

func TestRenderConfig_EngineDefaultsToPandoc(t *testing.T) {
	cfg := RenderConfig{}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty engine should default: %v", err)
	}
	if cfg.Engine != EnginePandoc {
		t.Errorf("engine = %q", cfg.Engine)
	}
	cfg.Engine = "markdown-it"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown engine should fail")
	}
}

func TestVaultConfig_OutputPath(t *testing.T) {
	cfg := VaultConfig{Path: "/data/vault", OutputDir: "_site"}
	if got := cfg.OutputPath(); got != "/data/vault/_site" {
		t.Errorf("output = %q", got)
	}
	cfg.OutputDir = "/srv/www"
	if got := cfg.OutputPath(); got != "/srv/www" {
		t.Errorf("absolute output = %q", got)
	}
}
