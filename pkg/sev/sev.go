package sev

import (
	"context"
	"strings"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// baseQuery finds open issues, most recently updated first.
const baseQuery = "is:issue is:open sort:updated-desc"

// SEV is an open incident report about the CI system.
type SEV struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	URL    string `json:"url"`
}

type Reporter struct {
	query  string
	search func(ctx context.Context, query string) ([]*gh.Issue, error)
}

// NewReporter searches GitHub for open SEV issues matching qualifier. Without
// credentials the reporter is disabled.
func NewReporter(ctx context.Context, creds Credentials, qualifier string) *Reporter {
	r := &Reporter{query: strings.TrimSpace(baseQuery + " " + qualifier)}

	client := creds.httpClient(ctx)
	if client == nil {
		log.Warning("no GitHub credentials, SEV reporting disabled")
		return r
	}
	ghc := gh.NewClient(client)
	r.search = func(ctx context.Context, query string) ([]*gh.Issue, error) {
		result, _, err := ghc.Search.Issues(ctx, query, &gh.SearchOptions{ListOptions: gh.ListOptions{PerPage: 100}})
		if err != nil {
			return nil, err
		}
		return result.Issues, nil
	}
	return r
}

func (r *Reporter) Enabled() bool {
	return r.search != nil
}

// Current returns the most recently updated open SEV, if any.
func (r *Reporter) Current(ctx context.Context) ([]SEV, error) {
	if !r.Enabled() {
		return []SEV{}, nil
	}
	issues, err := r.search(ctx, r.query)
	if err != nil {
		return nil, errors.Wrap(err, "could not search for SEV issues")
	}
	if len(issues) == 0 || issues[0] == nil {
		return []SEV{}, nil
	}
	newest := issues[0]
	return []SEV{{
		Number: newest.GetNumber(),
		Title:  newest.GetTitle(),
		URL:    newest.GetHTMLURL(),
	}}, nil
}
