package app

import (
	"fmt"
	"os"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the single-file YAML configuration schema. The company
// table has no flag equivalent, so a config file is effectively required
// for a real run; everything else mirrors a flag and overrides it when set.
type FileConfig struct {
	Companies []struct {
		Name string `yaml:"name"`
		CIK  string `yaml:"cik"`
	} `yaml:"companies"`

	Form       string `yaml:"form"`
	MaxFilings int    `yaml:"maxFilings"`
	Output     string `yaml:"output"`
	Contact    string `yaml:"contact"`

	Pacing struct {
		MinInterval duration `yaml:"minInterval"`
		Timeout     duration `yaml:"timeout"`
		MaxAttempts int      `yaml:"maxAttempts"`
	} `yaml:"pacing"`

	Thresholds struct {
		MinTextChars int `yaml:"minTextChars"`
		MinScore     int `yaml:"minScore"`
	} `yaml:"thresholds"`

	Verbose bool `yaml:"verbose"`
}

// duration accepts either a Go duration string ("500ms", "30s") or a raw
// nanosecond count.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return fmt.Errorf("parse duration %q: %w", s, err)
		}
		*d = duration(v)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("parse duration: %w", err)
	}
	*d = duration(n)
	return nil
}

// LoadConfigFile reads YAML into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fc, fmt.Errorf("parse yaml: %w", err)
	}
	return fc, nil
}

// Apply overlays the file's set fields onto cfg. Zero values leave the
// existing (flag or default) value alone.
func (fc FileConfig) Apply(cfg *Config) {
	for _, c := range fc.Companies {
		cfg.Companies = append(cfg.Companies, Company{Name: c.Name, CIK: c.CIK})
	}
	if fc.Form != "" {
		cfg.FormType = fc.Form
	}
	if fc.MaxFilings > 0 {
		cfg.MaxFilingsPerCompany = fc.MaxFilings
	}
	if fc.Output != "" {
		cfg.OutputPath = fc.Output
	}
	if fc.Contact != "" {
		cfg.Contact = fc.Contact
	}
	if fc.Pacing.MinInterval > 0 {
		cfg.MinInterval = time.Duration(fc.Pacing.MinInterval)
	}
	if fc.Pacing.Timeout > 0 {
		cfg.RequestTimeout = time.Duration(fc.Pacing.Timeout)
	}
	if fc.Pacing.MaxAttempts > 0 {
		cfg.MaxAttempts = fc.Pacing.MaxAttempts
	}
	if fc.Thresholds.MinTextChars > 0 {
		cfg.MinTextChars = fc.Thresholds.MinTextChars
	}
	if fc.Thresholds.MinScore > 0 {
		cfg.MinScore = fc.Thresholds.MinScore
	}
	if fc.Verbose {
		cfg.Verbose = true
	}
}
