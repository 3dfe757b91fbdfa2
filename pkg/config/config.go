package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/AliZainoul/pg-bdd-project/pkg/identifier"
	"github.com/AliZainoul/pg-bdd-project/pkg/secret"
)

const (
	DefaultConfigPath = "/etc/pgbdd"
	ConfigFileName    = "pgbdd.yml"
)

// Config holds every input of a provisioning run.
type Config struct {
	// Role is the login role to converge.
	Role string `yaml:"role"`

	// Database is the database to converge, owned by Role.
	Database string `yaml:"database"`

	// Tablespace is the tablespace to converge.
	Tablespace string `yaml:"tablespace"`

	// TablespaceRoot is the managed directory under which tablespace
	// locations are created. Must be absolute.
	TablespaceRoot string `yaml:"tablespace_root"`

	// Superuser is the database identity the run connects as.
	Superuser string `yaml:"superuser"`

	// SystemUser is the OS account that should own tablespace directories.
	SystemUser string `yaml:"system_user"`

	// DSN is the connection string for the maintenance database.
	DSN string `yaml:"dsn"`

	// VaultDir holds the per-identity encrypted credential files.
	VaultDir string `yaml:"vault_dir"`

	// KeyringDir holds the recipient key pairs.
	KeyringDir string `yaml:"keyring_dir"`

	// Password is the optional plaintext secret for the role. When empty
	// the run falls back to the vault and then to interactive prompting.
	Password string `yaml:"password"`

	// LogLevel controls console verbosity.
	LogLevel string `yaml:"log_level"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// newDefault returns a config with default values
func newDefault() *Config {
	return &Config{
		Role:           "app_role",
		Database:       "app_db",
		Tablespace:     "app_tablespace",
		TablespaceRoot: "/var/lib/pgbdd/tablespaces",
		Superuser:      "postgres",
		SystemUser:     "postgres",
		DSN:            "host=/var/run/postgresql dbname=postgres sslmode=disable",
		VaultDir:       filepath.Join(defaultDataDir(), "credentials"),
		KeyringDir:     filepath.Join(defaultDataDir(), "keyring"),
		LogLevel:       "info",
		sources:        make(map[string]string),
	}
}

// defaultDataDir resolves the XDG data directory for vault and keyring
// defaults.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "pgbdd")
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	// Initialize all sources as "default"
	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	// Determine config file path
	configPath := os.Getenv("PGBDD_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	// Try to load from config file
	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	// Override with environment variables
	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"role", "database", "tablespace", "tablespace_root",
		"superuser", "system_user", "dsn", "vault_dir", "keyring_dir",
		"password", "log_level",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	apply := func(name string, dst *string, val string) {
		if val != "" {
			*dst = val
			c.sources[name] = "file"
		}
	}
	apply("role", &c.Role, file.Role)
	apply("database", &c.Database, file.Database)
	apply("tablespace", &c.Tablespace, file.Tablespace)
	apply("tablespace_root", &c.TablespaceRoot, file.TablespaceRoot)
	apply("superuser", &c.Superuser, file.Superuser)
	apply("system_user", &c.SystemUser, file.SystemUser)
	apply("dsn", &c.DSN, file.DSN)
	apply("vault_dir", &c.VaultDir, file.VaultDir)
	apply("keyring_dir", &c.KeyringDir, file.KeyringDir)
	apply("password", &c.Password, file.Password)
	apply("log_level", &c.LogLevel, file.LogLevel)
}

func (c *Config) applyEnvConfig() {
	apply := func(name, envVar string, dst *string) {
		if val := os.Getenv(envVar); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	apply("role", "PGBDD_ROLE", &c.Role)
	apply("database", "PGBDD_DATABASE", &c.Database)
	apply("tablespace", "PGBDD_TABLESPACE", &c.Tablespace)
	apply("tablespace_root", "PGBDD_TABLESPACE_ROOT", &c.TablespaceRoot)
	apply("superuser", "PGBDD_SUPERUSER", &c.Superuser)
	apply("system_user", "PGBDD_SYSTEM_USER", &c.SystemUser)
	apply("dsn", "PGBDD_DSN", &c.DSN)
	apply("vault_dir", "PGBDD_VAULT_DIR", &c.VaultDir)
	apply("keyring_dir", "PGBDD_KEYRING_DIR", &c.KeyringDir)
	apply("password", "PGBDD_PASSWORD", &c.Password)
	apply("log_level", "PGBDD_LOG_LEVEL", &c.LogLevel)
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// Validate rejects configurations that cannot possibly provision. Object
// names must pass identifier validation before they come anywhere near a
// statement or a filesystem path.
func (c *Config) Validate() error {
	names := []struct {
		attr  string
		value string
	}{
		{"role", c.Role},
		{"database", c.Database},
		{"tablespace", c.Tablespace},
		{"superuser", c.Superuser},
	}
	for _, n := range names {
		if _, err := identifier.Validate(n.value); err != nil {
			return fmt.Errorf("%s: %w", n.attr, err)
		}
	}

	if !filepath.IsAbs(c.TablespaceRoot) {
		return fmt.Errorf("tablespace_root must be an absolute path, got %q", c.TablespaceRoot)
	}
	if strings.TrimSpace(c.SystemUser) == "" {
		return fmt.Errorf("system_user must not be empty")
	}
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("dsn must not be empty")
	}
	return nil
}

// SuperuserDSN returns the DSN with the superuser applied, unless the DSN
// already pins a user explicitly.
func (c *Config) SuperuserDSN() string {
	if strings.Contains(c.DSN, "user=") {
		return c.DSN
	}
	return c.DSN + " user=" + c.Superuser
}

// RoleDSN returns a DSN for connecting to the given database as the given
// role. Keyword connection strings resolve duplicate keywords to the last
// occurrence, so the appended values win over whatever the base DSN pins.
func (c *Config) RoleDSN(role, database identifier.Identifier, password secret.Secret) string {
	dsn := c.DSN + " user=" + role.String() + " dbname=" + database.String()
	if !password.IsZero() {
		dsn += " password=" + quoteConnValue(password.Reveal())
	}
	return dsn
}

// quoteConnValue quotes a keyword connection-string value when it contains
// characters the bare form cannot carry.
func quoteConnValue(v string) string {
	if v != "" && !strings.ContainsAny(v, ` '\`) {
		return v
	}
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(v) + "'"
}

// TablespacePath returns the directory for a tablespace under the managed
// root. The name must already be validated.
func (c *Config) TablespacePath(name identifier.Identifier) string {
	return filepath.Join(c.TablespaceRoot, name.String())
}

// Secret wraps the configured password, which may be empty.
func (c *Config) Secret() secret.Secret {
	return secret.New(c.Password)
}

// Attributes returns all configuration attributes with their values and
// sources. The password value is always masked.
func (c *Config) Attributes() []Attribute {
	passwordValue := ""
	if c.Password != "" {
		passwordValue = secret.Mask
	}
	return []Attribute{
		{Name: "role", Value: c.Role, Source: c.Source("role")},
		{Name: "database", Value: c.Database, Source: c.Source("database")},
		{Name: "tablespace", Value: c.Tablespace, Source: c.Source("tablespace")},
		{Name: "tablespace_root", Value: c.TablespaceRoot, Source: c.Source("tablespace_root")},
		{Name: "superuser", Value: c.Superuser, Source: c.Source("superuser")},
		{Name: "system_user", Value: c.SystemUser, Source: c.Source("system_user")},
		{Name: "dsn", Value: c.DSN, Source: c.Source("dsn")},
		{Name: "vault_dir", Value: c.VaultDir, Source: c.Source("vault_dir")},
		{Name: "keyring_dir", Value: c.KeyringDir, Source: c.Source("keyring_dir")},
		{Name: "password", Value: passwordValue, Source: c.Source("password")},
		{Name: "log_level", Value: c.LogLevel, Source: c.Source("log_level")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-18s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-18s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-18s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}
