package sev

import (
	"context"
	"net/http"
	"os"

	ghauth "github.com/jferrl/go-githubauth"
	log "github.com/sirupsen/logrus"
	"github.com/tcnksm/go-gitconfig"
	"golang.org/x/oauth2"
)

// Credentials select how GitHub is accessed. A GitHub App is preferred over a token.
type Credentials struct {
	Token          string
	AppID          int64
	InstallationID int64
	AppPrivateKey  []byte
}

// CredentialsFromEnvironment reads GITHUB_TOKEN, falling back to the token in git config.
func CredentialsFromEnvironment() Credentials {
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		log.Debug("no GitHub token environment variable, checking git config")
		var err error
		token, err = gitconfig.GithubToken()
		if err != nil {
			log.WithError(err).Debug("unable to retrieve GitHub token from git config")
		}
	}
	return Credentials{Token: token}
}

// httpClient returns an authenticated client, or nil when no credentials are available.
func (c Credentials) httpClient(ctx context.Context) *http.Client {
	if c.AppID != 0 && c.InstallationID != 0 && len(c.AppPrivateKey) > 0 {
		appTokenSource, err := ghauth.NewApplicationTokenSource(c.AppID, c.AppPrivateKey)
		if err != nil {
			log.WithError(err).Error("error creating application token source")
		} else {
			log.Infof("using GitHub App %d credentials", c.AppID)
			return oauth2.NewClient(ctx, ghauth.NewInstallationTokenSource(c.InstallationID, appTokenSource, ghauth.WithContext(ctx)))
		}
	}
	if c.Token != "" {
		log.Info("using GitHub access token")
		return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.Token}))
	}
	return nil
}
