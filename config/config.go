package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Default source locations. Missing default files are ignored.
const (
	DefaultFile    = "asciiplay.yaml"
	DefaultEnvFile = ".env"
	DefaultPrefix  = "ASCIIPLAY"
)

var (
	// ErrConfig indicates a configuration source could not be read.
	ErrConfig = errors.New("load config")
	// ErrInvalid indicates a configuration value was rejected.
	ErrInvalid = errors.New("invalid config")
)

// Flags holds CLI flag names for configuration sources.
type Flags struct {
	File    string
	EnvFile string
}

// Config holds CLI flag values for configuration sources.
//
// Create instances with [NewConfig], register the source flags with
// [Config.RegisterFlags], and apply the sources to a parsed flag set with
// [Config.Load].
type Config struct {
	// LookupEnv reads environment variables. Defaults to [os.LookupEnv].
	LookupEnv func(key string) (string, bool)
	enums     map[string][]string
	Flags     Flags
	File      string
	EnvFile   string
	// Known lists every configurable flag of the program. Config files are
	// validated against it, so a key belonging to another command is not
	// rejected. Defaults to the flag set passed to [Config.Load].
	Known *pflag.FlagSet
	// Prefix is prepended to environment variable names.
	Prefix string
}

// NewConfig returns a [Config] with default flag names and the
// [DefaultPrefix] environment prefix.
func NewConfig() *Config {
	return &Config{
		Flags: Flags{
			File:    "config",
			EnvFile: "env-file",
		},
		Prefix:    DefaultPrefix,
		LookupEnv: os.LookupEnv,
		enums:     make(map[string][]string),
	}
}

// RegisterFlags adds the source flags to flags.
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.StringVar(&c.File, c.Flags.File, DefaultFile,
		"YAML config file; ignored when the default file is missing")
	flags.StringVar(&c.EnvFile, c.Flags.EnvFile, DefaultEnvFile,
		"dotenv file with environment overrides; ignored when the default file is missing")
}

// RegisterCompletions registers shell completions for the source flags on cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.File,
		cobra.FixedCompletions([]string{"yaml", "yml"}, cobra.ShellCompDirectiveFilterFileExt))
	if err != nil {
		return fmt.Errorf("registering %s completion: %w", c.Flags.File, err)
	}

	return nil
}

// Enum restricts the config file values of the named flag to values.
func (c *Config) Enum(name string, values ...string) {
	c.enums[name] = values
}

// EnvName returns the environment variable that sets the named flag.
func (c *Config) EnvName(name string) string {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	if c.Prefix == "" {
		return key
	}

	return c.Prefix + "_" + key
}

// Load applies the environment and the config file to every flag of flags
// that was not set on the command line. flags must already be parsed.
func (c *Config) Load(flags *pflag.FlagSet) error {
	env, err := c.readEnvFile(flags)
	if err != nil {
		return err
	}

	err = c.applyEnv(flags, env)
	if err != nil {
		return err
	}

	return c.applyFile(flags)
}

// readEnvFile returns the variables of the env file, or nil when the default
// file does not exist.
func (c *Config) readEnvFile(flags *pflag.FlagSet) (map[string]string, error) {
	if c.EnvFile == "" {
		return nil, nil
	}

	env, err := godotenv.Read(c.EnvFile)
	if errors.Is(err, fs.ErrNotExist) && !explicit(flags, c.Flags.EnvFile) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfig, c.EnvFile, err)
	}

	return env, nil
}

// applyEnv sets unchanged flags from the process environment, falling back
// to env for variables the process does not define.
func (c *Config) applyEnv(flags *pflag.FlagSet, env map[string]string) error {
	var errs []error

	flags.VisitAll(func(f *pflag.Flag) {
		if f.Changed || c.skip(f.Name) {
			return
		}

		key := c.EnvName(f.Name)

		v, ok := c.LookupEnv(key)
		if !ok {
			v, ok = env[key]
		}

		if !ok || v == "" {
			return
		}

		err := flags.Set(f.Name, v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalid, key, err))
		}
	})

	return errors.Join(errs...)
}

// applyFile validates the config file and sets the unchanged flags it names.
func (c *Config) applyFile(flags *pflag.FlagSet) error {
	if c.File == "" {
		return nil
	}

	b, err := os.ReadFile(c.File)
	if errors.Is(err, fs.ErrNotExist) && !explicit(flags, c.Flags.File) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfig, err)
	}

	values, err := Decode(b)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrConfig, c.File, err)
	}

	known := c.Known
	if known == nil {
		known = flags
	}

	err = c.Validate(known, values)
	if err != nil {
		return fmt.Errorf("%s: %w", c.File, err)
	}

	var errs []error

	for _, name := range sortedKeys(values) {
		f := flags.Lookup(name)
		if f == nil || f.Changed {
			continue
		}

		err = flags.Set(name, formatValue(values[name]))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %s: %w", ErrInvalid, c.File, name, err))
		}
	}

	return errors.Join(errs...)
}

// Validate checks decoded config file values against the schema for flags.
func (c *Config) Validate(flags *pflag.FlagSet, values map[string]any) error {
	resolved, err := c.Schema(flags).Resolve(nil)
	if err != nil {
		return fmt.Errorf("resolve schema: %w", err)
	}

	if values == nil {
		values = map[string]any{}
	}

	err = resolved.Validate(values)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return nil
}

// skip reports whether the named flag is excluded from environment and file
// configuration.
func (c *Config) skip(name string) bool {
	return name == "help" || name == c.Flags.File || name == c.Flags.EnvFile
}

// Decode parses a YAML document into JSON-compatible values. An empty
// document decodes to nil.
func Decode(b []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, nil
	}

	j, err := yaml.YAMLToJSON(b)
	if err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}

	if len(bytes.TrimSpace(j)) == 0 {
		return nil, nil
	}

	var values map[string]any

	err = json.Unmarshal(j, &values)
	if err != nil {
		return nil, fmt.Errorf("config must be a mapping: %w", err)
	}

	return values, nil
}

func explicit(flags *pflag.FlagSet, name string) bool {
	f := flags.Lookup(name)

	return f != nil && f.Changed
}

func formatValue(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	return fmt.Sprint(v)
}

func sortedKeys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}
