package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Hub holds the settings file contents: the primary account and the
// organizations whose repositories are listed after it.
type Hub struct {
	Name  string
	Email string
	Orgs  []string
}

// LoadHub reads the hub settings file. The format follows the file
// extension and defaults to TOML.
func LoadHub(path string) (*Hub, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("toml")
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, &ConfigError{Field: path, Message: fmt.Sprintf("unable to read settings: %v", err)}
	}

	return hubFromSettings(v)
}

func hubFromSettings(v *viper.Viper) (*Hub, error) {
	name, err := requireString(v, "name")
	if err != nil {
		return nil, err
	}
	email, err := requireString(v, "email")
	if err != nil {
		return nil, err
	}

	if !v.IsSet("orgs") {
		return nil, &ConfigError{Field: "orgs", Message: "not found in settings"}
	}
	raw, ok := v.Get("orgs").([]interface{})
	if !ok {
		return nil, &ConfigError{Field: "orgs", Message: "is not an array"}
	}
	orgs := make([]string, 0, len(raw))
	for i, item := range raw {
		org, ok := item.(string)
		if !ok {
			return nil, &ConfigError{Field: fmt.Sprintf("orgs[%d]", i), Message: "is not a string"}
		}
		orgs = append(orgs, org)
	}

	return &Hub{
		Name:  name,
		Email: email,
		Orgs:  orgs,
	}, nil
}

// requireString returns a string key without viper's type coercion
func requireString(v *viper.Viper, key string) (string, error) {
	if !v.IsSet(key) {
		return "", &ConfigError{Field: key, Message: "not found in settings"}
	}
	s, ok := v.Get(key).(string)
	if !ok {
		return "", &ConfigError{Field: key, Message: "is not a string"}
	}
	return s, nil
}
