package config

import (
	"os"

	"link_auditor/internal/domain/models"
	"link_auditor/internal/pkg/errors"

	"gopkg.in/yaml.v3"
)

// LoadRules returns the default rules with any fields set in the YAML file at path applied on top.
// An empty path yields the defaults.
func LoadRules(path string) (*models.Rules, error) {
	rules := models.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, `failed to read rules file`)
	}

	var override models.Rules
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, errors.Wrap(err, `failed to parse rules file`)
	}

	merge(&rules.EntryMarkers, override.EntryMarkers)
	merge(&rules.PrivatePrefixes, override.PrivatePrefixes)
	merge(&rules.SkipDirs, override.SkipDirs)
	merge(&rules.SpecialPages, override.SpecialPages)
	merge(&rules.DeniedPrefixes, override.DeniedPrefixes)
	merge(&rules.AllowedQueryKeys, override.AllowedQueryKeys)
	merge(&rules.Extensions, override.Extensions)
	if override.MaxFileBytes > 0 {
		rules.MaxFileBytes = override.MaxFileBytes
	}

	if len(rules.EntryMarkers) == 0 {
		return nil, errors.New(`rules must name at least one entry marker`)
	}
	return rules, nil
}

func merge(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}
