package flags

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/openshift/ci-hud/pkg/sev"
)

// GitHubFlags hold GitHub App settings for the SEV reporter. Without an app, GITHUB_TOKEN
// or the token in git config is used.
type GitHubFlags struct {
	AppID          int64
	InstallationID int64
	// PrivateKey is read from GITHUB_APP_CLIENT_KEY.
	PrivateKey string
}

func NewGitHubFlags() *GitHubFlags {
	return &GitHubFlags{PrivateKey: os.Getenv("GITHUB_APP_CLIENT_KEY")}
}

func (f *GitHubFlags) BindFlags(fs *pflag.FlagSet) {
	fs.Int64Var(&f.AppID, "github-app-id", f.AppID, "GitHub App ID used to search for SEV issues")
	fs.Int64Var(&f.InstallationID, "github-app-installation-id", f.InstallationID, "Installation ID of the GitHub App")
}

func (f *GitHubFlags) GetCredentials() sev.Credentials {
	creds := sev.CredentialsFromEnvironment()
	if f.AppID != 0 && f.PrivateKey != "" {
		creds.AppID = f.AppID
		creds.InstallationID = f.InstallationID
		creds.AppPrivateKey = []byte(f.PrivateKey)
	}
	return creds
}
