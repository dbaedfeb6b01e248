package event

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/utafrali/sellerhub/internal/domain"
	pkgkafka "github.com/utafrali/sellerhub/pkg/kafka"
	"github.com/utafrali/sellerhub/pkg/logger"
)

// --- Mock Publisher ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, event *pkgkafka.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func strPtr(s string) *string { return &s }

func TestPublishCommentCreated(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, newTestLogger())

	c := &domain.Comment{ID: "c-1", SellerID: "s-1", AuthorID: strPtr("a-1"), Message: "Great seller"}

	var got *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicCommentCreated, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { got = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	require.NoError(t, p.PublishCommentCreated(context.Background(), c))
	pub.AssertExpectations(t)

	require.NotNil(t, got)
	assert.Equal(t, "c-1", got.AggregateID)
	assert.Equal(t, AggregateTypeComment, got.AggregateType)
	assert.Equal(t, SourceSellerHub, got.Source)

	var data CommentData
	require.NoError(t, json.Unmarshal(got.Data, &data))
	assert.Equal(t, "s-1", data.SellerID)
	assert.Equal(t, "a-1", *data.AuthorID)
	assert.Equal(t, "Great seller", data.Message)
}

func TestPublishCommentModerated_OmitsMessage(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, newTestLogger())

	var got *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicCommentModerated, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	c := &domain.Comment{ID: "c-1", SellerID: "s-1", Message: "text", Approved: true}
	require.NoError(t, p.PublishCommentModerated(context.Background(), c))

	var data CommentData
	require.NoError(t, json.Unmarshal(got.Data, &data))
	assert.True(t, data.Approved)
	assert.Empty(t, data.Message)
}

func TestPublishRatingSubmitted_KeyedBySeller(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, newTestLogger())

	var got *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicRatingSubmitted, mock.Anything).
		Run(func(args mock.Arguments) { got = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	r := &domain.Rating{ID: "r-1", Mark: 8, AuthorID: "a-1", SellerID: "s-1"}
	require.NoError(t, p.PublishRatingSubmitted(context.Background(), r, 6))

	assert.Equal(t, "s-1", got.AggregateID)
	var data RatingSubmittedData
	require.NoError(t, json.Unmarshal(got.Data, &data))
	assert.Equal(t, 8, data.Mark)
	assert.Equal(t, 6, data.Aggregate)
}

func TestPublishSellerEvents(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, newTestLogger())
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	ctx := context.Background()
	s := &domain.SellerProfile{ID: "s-1", Username: "corner-shop"}
	require.NoError(t, p.PublishSellerCreated(ctx, s))
	require.NoError(t, p.PublishSellerUpdated(ctx, s))
	require.NoError(t, p.PublishSellerModerated(ctx, "s-1", true))
	require.NoError(t, p.PublishSellerDeleted(ctx, "s-1"))

	pub.AssertNumberOfCalls(t, "Publish", 4)
	pub.AssertCalled(t, "Publish", mock.Anything, TopicSellerModerated, mock.Anything)
	pub.AssertCalled(t, "Publish", mock.Anything, TopicSellerDeleted, mock.Anything)
}

func TestPublish_Error(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, newTestLogger())
	pub.On("Publish", mock.Anything, TopicCommentDeleted, mock.Anything).Return(errors.New("broker down"))

	err := p.PublishCommentDeleted(context.Background(), &domain.Comment{ID: "c-1", SellerID: "s-1"})
	assert.ErrorContains(t, err, "publish feedback.comment.deleted event")
}

func TestPublish_TagsActorKind(t *testing.T) {
	pub := new(mockPublisher)
	p := NewProducer(pub, newTestLogger())

	var got *pkgkafka.Event
	pub.On("Publish", mock.Anything, TopicSellerDeleted, mock.AnythingOfType("*kafka.Event")).
		Run(func(args mock.Arguments) { got = args.Get(2).(*pkgkafka.Event) }).
		Return(nil)

	ctx := logger.WithActorKind(context.Background(), "registered")
	require.NoError(t, p.PublishSellerDeleted(ctx, "s-1"))

	require.NotNil(t, got)
	assert.Equal(t, "registered", got.Metadata["actor_kind"])
}
