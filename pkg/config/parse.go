package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// decodeFile decodes the TOML file at path into v.
func decodeFile(path string, v any) error {
	if _, err := toml.DecodeFile(path, v); err != nil {
		log.Warnf("TOML parsing error in config file %s: %v. Attempting partial recovery...", path, err)
		return err
	}
	return nil
}

// decodeLoose parses path into untyped tables so that valid keys survive a
// type error elsewhere in the file.
func decodeLoose(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw := make(map[string]any)
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func section(raw map[string]any, name string) (map[string]any, bool) {
	s, ok := raw[name].(map[string]any)
	return s, ok
}

// setString copies s[key] into dst when it is a string.
func setString(s map[string]any, key string, dst *string) {
	if v, ok := s[key].(string); ok {
		*dst = v
	}
}

// setInt copies s[key] into dst when it is an integer.
func setInt(s map[string]any, key string, dst *int) {
	if v, ok := s[key].(int64); ok {
		*dst = int(v)
	}
}

// saveTOML writes v to path, reporting a failed close as well.
func saveTOML(v any, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return toml.NewEncoder(f).Encode(v)
}
