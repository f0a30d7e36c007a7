package notify

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// SlackNotifier posts notifications to a channel.
type SlackNotifier struct {
	client  slackClient
	channel string
}

func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{client: slack.New(token), channel: channel}
}

func (s *SlackNotifier) Notify(ctx context.Context, msg Message) error {
	text := fmt.Sprintf("%s: %s", msg.Title, msg.Body)
	if _, _, err := s.client.PostMessageContext(ctx, s.channel, slack.MsgOptionText(text, false)); err != nil {
		return errors.Wrapf(err, "failed to post to slack channel %s", s.channel)
	}
	return nil
}
