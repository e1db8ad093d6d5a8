package main

import (
	"fmt"
	"os"
	"regexp"

	"github.com/fwojciec/docbind"
	"gopkg.in/yaml.v3"
)

// rulesFile is the YAML shape of an external rules file:
//
//	rules:
//	  - pattern: "(^|/)sdk-api-"
//	    band: api-reference
type rulesFile struct {
	Rules []struct {
		Pattern string `yaml:"pattern"`
		Band    string `yaml:"band"`
	} `yaml:"rules"`
}

// LoadRules reads chapter classification rules from a YAML file.
// Rule order in the file is classification precedence.
func LoadRules(path string) (docbind.Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file rulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Rules) == 0 {
		return nil, fmt.Errorf("no rules defined")
	}

	rules := make(docbind.Rules, 0, len(file.Rules))
	for i, r := range file.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %d: invalid pattern %q: %w", i+1, r.Pattern, err)
		}
		band, err := parseBand(r.Band)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i+1, err)
		}
		rules = append(rules, docbind.Rule{Pattern: re, Band: band})
	}
	return rules, nil
}

func parseBand(name string) (docbind.Band, error) {
	switch name {
	case "default":
		return docbind.BandDefault, nil
	case "feature":
		return docbind.BandFeature, nil
	case "template":
		return docbind.BandTemplate, nil
	case "api-reference":
		return docbind.BandAPIReference, nil
	}
	return 0, fmt.Errorf("unknown band %q", name)
}
