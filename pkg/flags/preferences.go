package flags

import (
	"github.com/spf13/pflag"

	"github.com/openshift/ci-hud/pkg/apis/cache"
	"github.com/openshift/ci-hud/pkg/prefs"
)

// PreferencesFlags select where user preferences are kept. A redis cache takes precedence
// over the file.
type PreferencesFlags struct {
	Path string
}

func NewPreferencesFlags() *PreferencesFlags {
	return &PreferencesFlags{Path: "ci-hud-preferences.yaml"}
}

func (f *PreferencesFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Path, "preferences-file", f.Path, "File to store preferences in when no redis URL is given")
}

func (f *PreferencesFlags) GetStore(c cache.Cache) prefs.Store {
	if c != nil {
		return prefs.NewCacheStore(c)
	}
	return prefs.NewFileStore(f.Path)
}
