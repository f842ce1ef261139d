// Package config loads the persistence configuration from a Java style
// properties file, environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// FileName is looked up in the home directory when no file is given.
	FileName  = "taskanaPerformanceTest.properties"
	EnvPrefix = "TESTDATAGEN"

	StoreMemory    = "memory"
	StorePostgres  = "postgres"
	StoreSurrealDB = "surrealdb"

	DefaultExportDomain     = "C"
	DefaultSurrealNamespace = "taskana"
	DefaultSurrealDatabase  = "testdata"
)

// Property keys. Viper matches them case-insensitively.
const (
	KeyStore            = "store"
	KeyPostgresDSN      = "postgresDsn"
	KeySurrealURL       = "surrealUrl"
	KeySurrealNamespace = "surrealNamespace"
	KeySurrealDatabase  = "surrealDatabase"
	KeyDBUserName       = "dbUserName"
	KeyDBPassword       = "dbPassword"
	KeyExportDomain     = "exportDomain"
	KeySeed             = "seed"
)

type Config struct {
	// Store is a comma separated list of store kinds written in order.
	Store            string `mapstructure:"store"`
	PostgresDSN      string `mapstructure:"postgresdsn"`
	SurrealURL       string `mapstructure:"surrealurl"`
	SurrealNamespace string `mapstructure:"surrealnamespace"`
	SurrealDatabase  string `mapstructure:"surrealdatabase"`
	DBUserName       string `mapstructure:"dbusername"`
	DBPassword       string `mapstructure:"dbpassword"`
	ExportDomain     string `mapstructure:"exportdomain"`
	Seed             uint64 `mapstructure:"seed"`

	// File is the properties file that was read, empty if none.
	File string `mapstructure:"-"`
}

// Default returns the configuration used without any file.
func Default() *Config {
	return &Config{
		Store:            StoreMemory,
		SurrealNamespace: DefaultSurrealNamespace,
		SurrealDatabase:  DefaultSurrealDatabase,
		ExportDomain:     DefaultExportDomain,
	}
}

// DefaultFile is $HOME/taskanaPerformanceTest.properties.
func DefaultFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(home, FileName)
}

// Load reads path, or the default file when path is empty. A missing default
// file is not an error; a missing explicit one is. Environment variables
// prefixed TESTDATAGEN_ override the file, and changed flags of flags named
// like a key override both.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetConfigType("properties")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := Default()
	v.SetDefault(KeyStore, defaults.Store)
	v.SetDefault(KeyPostgresDSN, "")
	v.SetDefault(KeySurrealURL, "")
	v.SetDefault(KeySurrealNamespace, defaults.SurrealNamespace)
	v.SetDefault(KeySurrealDatabase, defaults.SurrealDatabase)
	v.SetDefault(KeyDBUserName, "")
	v.SetDefault(KeyDBPassword, "")
	v.SetDefault(KeyExportDomain, defaults.ExportDomain)
	v.SetDefault(KeySeed, 0)

	explicit := path != ""
	if !explicit {
		path = DefaultFile()
	}
	file := ""
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{File: path, Err: err}
		}
	} else {
		file = path
	}

	if flags != nil {
		for _, key := range []string{KeyStore, KeySeed} {
			if f := flags.Lookup(key); f != nil && f.Changed {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, &ConfigurationError{File: file, Err: err}
				}
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, &ConfigurationError{File: file, Err: err}
	}
	cfg.File = file
	return cfg, nil
}

// Stores returns the configured store kinds in order, without duplicates.
func (c *Config) Stores() []string {
	var kinds []string
	for _, k := range strings.Split(c.Store, ",") {
		k = strings.ToLower(strings.TrimSpace(k))
		if k != "" && !slices.Contains(kinds, k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Validate reports every key the selected stores need but which is empty.
func (c *Config) Validate() error {
	var missing []string
	need := func(key, value string) {
		if value == "" && !slices.Contains(missing, key) {
			missing = append(missing, key)
		}
	}

	kinds := c.Stores()
	if len(kinds) == 0 {
		need(KeyStore, "")
	}
	for _, kind := range kinds {
		switch kind {
		case StoreMemory:
		case StorePostgres:
			need(KeyPostgresDSN, c.PostgresDSN)
		case StoreSurrealDB:
			need(KeySurrealURL, c.SurrealURL)
			need(KeySurrealNamespace, c.SurrealNamespace)
			need(KeySurrealDatabase, c.SurrealDatabase)
			need(KeyDBUserName, c.DBUserName)
			need(KeyDBPassword, c.DBPassword)
		default:
			return &ConfigurationError{File: c.File, Err: fmt.Errorf("unknown store %q", kind)}
		}
	}
	if len(missing) > 0 {
		return &ConfigurationError{File: c.File, Missing: missing}
	}
	return nil
}
