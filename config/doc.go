// Package config layers configuration sources onto a [pflag.FlagSet].
//
// Values are resolved with the precedence flag > environment > config file >
// default. Flags set on the command line are never touched. Every other flag
// may be set by an environment variable named after it (for example
// ASCIIPLAY_LOG_LEVEL for --log-level), optionally read from a .env file, and
// then by a key of the same name in a YAML config file:
//
//	log-level: debug
//	audio-backend: portaudio
//	skew: 500ms
//
// The config file is validated against a JSON Schema derived from the flag
// set, so unknown keys and values of the wrong type are rejected before
// anything is applied. [Config.Schema] returns that schema for editors and
// the "schema" command.
//
// [pflag.FlagSet]: https://pkg.go.dev/github.com/spf13/pflag#FlagSet
package config
