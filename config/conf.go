package config

import (
	"log"
	"os"

	"github.com/go-yaml/yaml"
)

type displayConfig struct {
	Currency        string  `yaml:"currency"`
	FxRateGBPPerUSD float64 `yaml:"fx_rate_gbp_per_usd"`
}

type MasterConfig struct {
	Display            displayConfig     `yaml:"display"`
	ExcludedCategories []string          `yaml:"excluded_categories"`
	LabelOverrides     map[string]string `yaml:"label_overrides"`
}

func InitConfig(file string) *MasterConfig {
	init := MasterConfig{}
	init.getConf(file)
	return &init
}

func (c *MasterConfig) getConf(file string) *MasterConfig {

	yamlFile, err := os.ReadFile(file)
	if err != nil {
		log.Printf("yamlFile.Get err   #%v ", err)
	}
	err = yaml.Unmarshal(yamlFile, c)
	if err != nil {
		log.Fatalf("Unmarshal: %v", err)
	}

	return c
}

// ExclusionSet returns the configured excluded categories as a lookup set,
// or nil when none are configured so the engine falls back to its defaults.
func (c *MasterConfig) ExclusionSet() map[string]bool {
	if len(c.ExcludedCategories) == 0 {
		return nil
	}
	set := make(map[string]bool, len(c.ExcludedCategories))
	for _, cat := range c.ExcludedCategories {
		set[cat] = true
	}
	return set
}
