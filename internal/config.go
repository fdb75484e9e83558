package internal

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/laguz/internal/litnote"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Render engines.
const (
	EnginePandoc   = "pandoc"
	EngineGoldmark = "goldmark"
)

// Config represents the application configuration.
type Config struct {
	App          ApplicationConfig  `yaml:"app" toml:"app"`
	Vault        VaultConfig        `yaml:"vault" toml:"vault"`
	Bibliography BibliographyConfig `yaml:"bibliography" toml:"bibliography"`
	Literature   LiteratureConfig   `yaml:"literature" toml:"literature"`
	Site         SiteConfig         `yaml:"site" toml:"site"`
	Render       RenderConfig       `yaml:"render" toml:"render"`
	SQLite       SQLiteConfig       `yaml:"sqlite" toml:"sqlite"`
	Auth         AuthConfig         `yaml:"auth" toml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validators := []interface{ Validate() error }{
		&c.App, &c.Vault, &c.Literature, &c.Site, &c.Render, &c.SQLite, &c.Auth,
	}
	for _, v := range validators {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level" toml:"log_level"`
	HTTP     HTTPConfig `yaml:"http" toml:"http"`
	// BuildConcurrency bounds parallel document conversions; 0 means one per CPU.
	BuildConcurrency int `yaml:"build_concurrency" toml:"build_concurrency"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BuildConcurrency, validation.Min(0)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port" toml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// VaultConfig describes the Markdown vault and where output goes.
type VaultConfig struct {
	Path      string `yaml:"path" toml:"path"`
	NotesDir  string `yaml:"notes_dir" toml:"notes_dir"`
	OutputDir string `yaml:"output_dir" toml:"output_dir"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.NotesDir, validation.Required),
		validation.Field(&c.OutputDir, validation.Required),
	)
}

// OutputPath resolves OutputDir against the vault path.
func (c *VaultConfig) OutputPath() string {
	if filepath.IsAbs(c.OutputDir) {
		return c.OutputDir
	}
	return filepath.Join(c.Path, c.OutputDir)
}

// BibliographyConfig points at the CSL-JSON bibliography and citation style.
// An empty path disables bibliography processing.
type BibliographyConfig struct {
	Path string `yaml:"path" toml:"path"`
	CSL  string `yaml:"csl" toml:"csl"`
}

// LiteratureConfig controls synthesized literature notes.
type LiteratureConfig struct {
	PathTemplate string `yaml:"path_template" toml:"path_template"`
}

// Validate validates the literature configuration.
func (c *LiteratureConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PathTemplate,
			validation.Required,
			validation.By(func(any) error {
				if !strings.Contains(c.PathTemplate, litnote.Placeholder) {
					return fmt.Errorf("must contain %s", litnote.Placeholder)
				}
				if !strings.HasSuffix(c.PathTemplate, ".md") {
					return errors.New("must end with .md")
				}
				return nil
			}),
		),
	)
}

// SiteConfig controls published URLs.
type SiteConfig struct {
	BaseURL       string `yaml:"base_url" toml:"base_url"`
	NotePermalink string `yaml:"note_permalink" toml:"note_permalink"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.NotePermalink,
			validation.Required,
			validation.By(func(any) error {
				if !strings.HasPrefix(c.NotePermalink, "/") {
					return errors.New("must start with /")
				}
				if !strings.Contains(c.NotePermalink, "{slug}") {
					return errors.New("must contain {slug}")
				}
				return nil
			}),
		),
	)
}

// RenderConfig selects the Markdown converter and external binaries.
type RenderConfig struct {
	Engine      string `yaml:"engine" toml:"engine"`
	PandocBin   string `yaml:"pandoc_bin" toml:"pandoc_bin"`
	CiteprocBin string `yaml:"citeproc_bin" toml:"citeproc_bin"`
	Katex       bool   `yaml:"katex" toml:"katex"`
}

// Validate validates the render configuration.
func (c *RenderConfig) Validate() error {
	if c.Engine == "" {
		c.Engine = EnginePandoc
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Engine, validation.Required, validation.In(EnginePandoc, EngineGoldmark)),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path" toml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode" toml:"mode"`
	Token string `yaml:"token" toml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Vault: VaultConfig{
			Path:      "./vault",
			NotesDir:  "_notes",
			OutputDir: "_site",
		},
		Literature: LiteratureConfig{
			PathTemplate: litnote.DefaultPathTemplate,
		},
		Site: SiteConfig{
			NotePermalink: "/{slug}/",
		},
		Render: RenderConfig{
			Engine:      EnginePandoc,
			PandocBin:   "pandoc",
			CiteprocBin: "citeproc",
		},
		SQLite: SQLiteConfig{
			Path: "./laguz.db",
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
