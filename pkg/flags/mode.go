package flags

import (
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

// SessionFlags select the family and mode displayed at startup.
type SessionFlags struct {
	Family string
	Mode   string
}

func NewSessionFlags() *SessionFlags {
	return &SessionFlags{
		Mode: string(v1.ModeDefault),
	}
}

func (f *SessionFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Family, "family", f.Family, "Job family to display, e.g. pytorch-master (default: first configured family)")
	fs.StringVar(&f.Mode, "mode", f.Mode, "Mode to use: {default,nightly}")
}

func (f *SessionFlags) Validate() error {
	switch v1.Mode(f.Mode) {
	case v1.ModeDefault, v1.ModeNightly:
		return nil
	}
	return errors.Errorf("invalid mode %q, must be one of default or nightly", f.Mode)
}

func (f *SessionFlags) GetMode() v1.Mode {
	return v1.ParseMode(f.Mode)
}
