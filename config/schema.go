package config

import (
	"encoding/json"
	"strconv"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/pflag"
)

const (
	schemaDialect = "https://json-schema.org/draft/2020-12/schema"

	typeBoolean = "boolean"
	typeInteger = "integer"
	typeNumber  = "number"
	typeObject  = "object"
	typeString  = "string"

	durationPattern = `^(0|-?([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+)$`
)

// Schema returns the JSON Schema of config files for flags. Each
// configurable flag becomes an optional property named after the flag, and
// any other key is rejected.
func (c *Config) Schema(flags *pflag.FlagSet) *jsonschema.Schema {
	schema := &jsonschema.Schema{
		Schema:               schemaDialect,
		Title:                "asciiplay configuration",
		Type:                 typeObject,
		Properties:           make(map[string]*jsonschema.Schema),
		AdditionalProperties: falseSchema(),
	}

	flags.VisitAll(func(f *pflag.Flag) {
		if c.skip(f.Name) {
			return
		}

		schema.Properties[f.Name] = c.flagSchema(f)
		schema.PropertyOrder = append(schema.PropertyOrder, f.Name)
	})

	return schema
}

// flagSchema describes the values accepted for f.
func (c *Config) flagSchema(f *pflag.Flag) *jsonschema.Schema {
	s := &jsonschema.Schema{
		Description: f.Usage,
	}

	var def any = f.DefValue

	switch f.Value.Type() {
	case "bool":
		s.Type = typeBoolean

		b, err := strconv.ParseBool(f.DefValue)
		if err == nil {
			def = b
		}

	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "count":
		s.Type = typeInteger

		n, err := strconv.ParseInt(f.DefValue, 10, 64)
		if err == nil {
			def = n
		}

	case "float32", "float64":
		s.Type = typeNumber

		n, err := strconv.ParseFloat(f.DefValue, 64)
		if err == nil {
			def = n
		}

	case "duration":
		s.Type = typeString
		s.Pattern = durationPattern

	default:
		s.Type = typeString
	}

	if values, ok := c.enums[f.Name]; ok {
		for _, v := range values {
			s.Enum = append(s.Enum, v)
		}
	}

	s.Default = defaultValue(def)

	return s
}

// defaultValue converts v to a [json.RawMessage] for use as a schema
// default. Returns nil if marshaling fails.
func defaultValue(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}

	return b
}

// falseSchema returns a schema that validates nothing.
func falseSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Not: &jsonschema.Schema{}}
}
