package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSlackClient struct {
	channel string
	text    string
	err     error
}

func (f *fakeSlackClient) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.channel = channelID
	_, values, err := slack.UnsafeApplyMsgOptions("token", channelID, "https://slack.com/api/", options...)
	if err != nil {
		return "", "", err
	}
	f.text = values.Get("text")
	return channelID, "1234.5678", f.err
}

func TestSlackNotifier(t *testing.T) {
	client := &fakeSlackClient{}
	n := &SlackNotifier{client: client, channel: "#pytorch-ci"}

	require.NoError(t, n.Notify(context.TODO(), Message{Title: "❌ pytorch-master", Body: "pytorch_linux_build"}))
	assert.Equal(t, "#pytorch-ci", client.channel)
	assert.Equal(t, "❌ pytorch-master: pytorch_linux_build", client.text)

	client.err = fmt.Errorf("channel_not_found")
	err := n.Notify(context.TODO(), Message{Title: "t", Body: "b"})
	assert.EqualError(t, err, "failed to post to slack channel #pytorch-ci: channel_not_found")
}
