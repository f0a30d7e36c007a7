package commitmsg

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var (
	squashedPRNumber = regexp.MustCompile(`\(#([0-9]+)\)`)
	pullRequestURL   = regexp.MustCompile(`https://github\.com/[^/\s]+/[^/\s]+/pull/([0-9]+)`)
)

// PullRequestNumber extracts the pull request a commit came from. The "(#123)" suffix
// added by squash merges is preferred over a pull request URL in the body.
func PullRequestNumber(message string) (int, bool) {
	for _, re := range []*regexp.Regexp{squashedPRNumber, pullRequestURL} {
		m := re.FindStringSubmatch(message)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// DropPullRequestNumber removes the first "(#123)" from message.
func DropPullRequestNumber(message string) string {
	loc := squashedPRNumber.FindStringIndex(message)
	if loc == nil {
		return message
	}
	return message[:loc[0]] + message[loc[1]:]
}

func FirstLine(message string) string {
	line, _, _ := strings.Cut(message, "\n")
	return line
}

// ShortSHA returns the first seven characters of a commit id.
func ShortSHA(id string) string {
	if len(id) <= 7 {
		return id
	}
	return id[:7]
}

// SummarizeDate describes ts relative to now, e.g. "3 hours ago".
func SummarizeDate(ts, now time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return humanize.RelTime(ts, now, "ago", "from now")
}
