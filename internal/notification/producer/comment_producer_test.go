package producer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/consensuslabs/pavilion-comments/internal/comment"
	"github.com/consensuslabs/pavilion-comments/internal/notification/types"
	"github.com/consensuslabs/pavilion-comments/testhelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg *pulsar.ProducerMessage) (pulsar.MessageID, error) {
	args := m.Called(ctx, msg)
	return nil, args.Error(1)
}

func (m *mockSender) Close() {
	m.Called()
}

func newTestProducer(sender Sender) (*CommentProducer, *testhelper.TestLogger) {
	log := testhelper.NewTestLogger(false)
	return &CommentProducer{BaseProducer: newBaseProducer(sender, "comment-events", log)}, log
}

func sampleComment() *comment.Comment {
	return &comment.Comment{
		ID:        uuid.New(),
		Content:   "first!",
		VideoID:   uuid.New(),
		OwnerID:   uuid.New(),
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func decodeEvent(t *testing.T, msg *pulsar.ProducerMessage) types.CommentEvent {
	t.Helper()
	var event types.CommentEvent
	require.NoError(t, json.Unmarshal(msg.Payload, &event))
	return event
}

func TestPublishCommentCreated(t *testing.T) {
	sender := new(mockSender)
	p, log := newTestProducer(sender)
	c := sampleComment()

	var sent *pulsar.ProducerMessage
	sender.On("Send", mock.Anything, mock.AnythingOfType("*pulsar.ProducerMessage")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*pulsar.ProducerMessage) }).
		Return(nil, nil).Once()

	require.NoError(t, p.PublishCommentCreated(context.Background(), c))
	sender.AssertExpectations(t)

	require.NotNil(t, sent)
	assert.Equal(t, c.ID.String(), sent.Key)
	assert.Equal(t, string(types.CommentCreated), sent.Properties["event_type"])
	assert.Equal(t, c.VideoID.String(), sent.Properties["video_id"])
	assert.Equal(t, c.OwnerID.String(), sent.Properties["user_id"])
	assert.NotContains(t, sent.Properties, "parent_id")

	event := decodeEvent(t, sent)
	assert.Equal(t, types.CommentCreated, event.Type)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "first!", event.Content)
	assert.Nil(t, event.ParentID)

	infos := log.GetInfoMessages()
	require.Len(t, infos, 1)
	assert.Equal(t, "Published comment event", infos[0].Message)
	assert.Equal(t, "comment-events", infos[0].Fields["topic"])
}

func TestPublishCommentReplied(t *testing.T) {
	sender := new(mockSender)
	p, _ := newTestProducer(sender)

	parent := sampleComment()
	parentID := parent.ID
	reply := sampleComment()
	reply.VideoID = uuid.Nil
	reply.ParentID = &parentID

	var sent *pulsar.ProducerMessage
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*pulsar.ProducerMessage) }).
		Return(nil, nil).Once()

	require.NoError(t, p.PublishCommentReplied(context.Background(), reply, parent))

	assert.Equal(t, parent.ID.String(), sent.Properties["parent_id"])
	assert.Equal(t, parent.VideoID.String(), sent.Properties["video_id"])

	event := decodeEvent(t, sent)
	assert.Equal(t, types.CommentReplied, event.Type)
	require.NotNil(t, event.ParentOwnerID)
	assert.Equal(t, parent.OwnerID, *event.ParentOwnerID)
}

func TestPublishCommentDeletedCarriesReplyCount(t *testing.T) {
	sender := new(mockSender)
	p, _ := newTestProducer(sender)

	var sent *pulsar.ProducerMessage
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*pulsar.ProducerMessage) }).
		Return(nil, nil).Once()

	require.NoError(t, p.PublishCommentDeleted(context.Background(), sampleComment(), 4))

	event := decodeEvent(t, sent)
	assert.Equal(t, types.CommentDeleted, event.Type)
	assert.Empty(t, event.Content)
	assert.Equal(t, 4, event.RepliesRemoved)
}

func TestPublishTruncatesContent(t *testing.T) {
	sender := new(mockSender)
	p, _ := newTestProducer(sender)
	c := sampleComment()
	c.Content = strings.Repeat("a", 500)

	var sent *pulsar.ProducerMessage
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(1).(*pulsar.ProducerMessage) }).
		Return(nil, nil).Once()

	require.NoError(t, p.PublishCommentUpdated(context.Background(), c))

	event := decodeEvent(t, sent)
	assert.Equal(t, types.CommentUpdated, event.Type)
	assert.Len(t, event.Content, maxEventContentLength)
	assert.True(t, strings.HasSuffix(event.Content, "..."))
}

func TestPublishSendFailure(t *testing.T) {
	sender := new(mockSender)
	p, log := newTestProducer(sender)

	sender.On("Send", mock.Anything, mock.Anything).Return(nil, errors.New("broker down")).Once()

	err := p.PublishCommentCreated(context.Background(), sampleComment())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	assert.Empty(t, log.GetInfoMessages())
}

func TestCloseClosesSender(t *testing.T) {
	sender := new(mockSender)
	p, _ := newTestProducer(sender)
	sender.On("Close").Once()

	require.NoError(t, p.Close())
	sender.AssertExpectations(t)
}
