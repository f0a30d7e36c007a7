package configflags

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	v1 "github.com/openshift/ci-hud/pkg/apis/config/v1"
)

// ConfigFlags holds the location of the configuration file.
type ConfigFlags struct {
	Path string
}

func NewConfigFlags() *ConfigFlags {
	return &ConfigFlags{}
}

func (f *ConfigFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path,
		"config",
		f.Path,
		"Configuration file; built-in defaults are used when empty")
}

func (f *ConfigFlags) GetConfig() (*v1.HudConfig, error) {
	if f.Path == "" {
		return v1.Default(), nil
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.WithMessage(err, "could not load config")
	}
	return Parse(data)
}

// Parse decodes a YAML configuration, fills in defaults and checks it.
func Parse(data []byte) (*v1.HudConfig, error) {
	var hudConfig v1.HudConfig
	if err := yaml.Unmarshal(data, &hudConfig); err != nil {
		return nil, errors.WithMessage(err, "couldn't unmarshal config")
	}
	hudConfig.ApplyDefaults()

	if _, err := hudConfig.GroupDefinitions(); err != nil {
		return nil, err
	}
	if hudConfig.WindowSize < 0 {
		return nil, errors.Errorf("windowSize must not be negative, got %d", hudConfig.WindowSize)
	}
	if hudConfig.FetchConcurrency < 1 {
		return nil, errors.Errorf("fetchConcurrency must be at least 1, got %d", hudConfig.FetchConcurrency)
	}
	return &hudConfig, nil
}
