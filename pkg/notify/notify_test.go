package notify

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift/ci-hud/pkg/apis/hud/v1"
)

type recordingNotifier struct {
	messages []Message
	err      error
}

func (r *recordingNotifier) Notify(_ context.Context, msg Message) error {
	r.messages = append(r.messages, msg)
	return r.err
}

func TestFormat(t *testing.T) {
	assert.Equal(t, Message{Title: "❌ pytorch-master", Body: "pytorch_linux_build"},
		Format("pytorch-master", v1.NotificationEvent{Job: "ci/circleci: pytorch_linux_build", Kind: v1.EventBroken}))
	assert.Equal(t, Message{Title: "✅ pytorch-master", Body: "__dr.ci"},
		Format("pytorch-master", v1.NotificationEvent{Job: "__dr.ci", Kind: v1.EventFixed}))
}

func TestDispatch(t *testing.T) {
	r := &recordingNotifier{err: fmt.Errorf("delivery failed")}
	Dispatch(context.TODO(), r, "pytorch-master", []v1.NotificationEvent{
		{Job: "A", Kind: v1.EventFixed},
		{Job: "B", Kind: v1.EventBroken},
	})

	assert.Equal(t, []Message{
		{Title: "✅ pytorch-master", Body: "A"},
		{Title: "❌ pytorch-master", Body: "B"},
	}, r.messages)
}

func TestMulti(t *testing.T) {
	ok := &recordingNotifier{}
	bad := &recordingNotifier{err: fmt.Errorf("smtp down")}
	alsoOK := &recordingNotifier{}

	err := Multi{bad, ok, alsoOK}.Notify(context.TODO(), Message{Title: "t", Body: "b"})
	require.Error(t, err)
	assert.EqualError(t, err, "smtp down")
	assert.Len(t, ok.messages, 1)
	assert.Len(t, alsoOK.messages, 1)

	assert.NoError(t, Multi{ok}.Notify(context.TODO(), Message{}))
	assert.NoError(t, Multi{}.Notify(context.TODO(), Message{}))
}

func TestLogNotifier(t *testing.T) {
	assert.NoError(t, LogNotifier{}.Notify(context.TODO(), Message{Title: "✅ pytorch-master", Body: "A"}))
}

func TestPermission(t *testing.T) {
	assert.Equal(t, PermissionGranted, ParsePermission("granted"))
	assert.Equal(t, PermissionDenied, ParsePermission("denied"))
	assert.Equal(t, PermissionDefault, ParsePermission("whatever"))

	assert.True(t, PermissionDenied.Warn(true))
	assert.False(t, PermissionDenied.Warn(false))
	assert.False(t, PermissionGranted.Warn(true))
	assert.False(t, PermissionDefault.Warn(true))
}
