package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/sellerhub/internal/domain"
	pkgkafka "github.com/utafrali/sellerhub/pkg/kafka"
	"github.com/utafrali/sellerhub/pkg/logger"
)

// Kafka topic constants for feedback domain events.
const (
	TopicCommentCreated   = "feedback.comment.created"
	TopicCommentUpdated   = "feedback.comment.updated"
	TopicCommentModerated = "feedback.comment.moderated"
	TopicCommentDeleted   = "feedback.comment.deleted"
	TopicSellerCreated    = "feedback.seller.created"
	TopicSellerUpdated    = "feedback.seller.updated"
	TopicSellerModerated  = "feedback.seller.moderated"
	TopicSellerDeleted    = "feedback.seller.deleted"
	TopicRatingSubmitted  = "feedback.rating.submitted"
)

// Aggregate type constants.
const (
	AggregateTypeComment = "comment"
	AggregateTypeSeller  = "seller"
)

// SourceSellerHub identifies events originating from this service.
const SourceSellerHub = "sellerhub"

// CommentData is the payload of comment events. Anonymous tokens are never
// published, only author ids.
type CommentData struct {
	CommentID string  `json:"comment_id"`
	SellerID  string  `json:"seller_id"`
	AuthorID  *string `json:"author_id,omitempty"`
	Message   string  `json:"message,omitempty"`
	Approved  bool    `json:"approved"`
}

// SellerData is the payload of seller events.
type SellerData struct {
	SellerID         string `json:"seller_id"`
	Username         string `json:"username,omitempty"`
	ConfirmedByAdmin bool   `json:"confirmed_by_admin"`
	Rating           int    `json:"rating"`
}

// RatingSubmittedData is the payload of a rating.submitted event.
type RatingSubmittedData struct {
	SellerID  string `json:"seller_id"`
	AuthorID  string `json:"author_id"`
	Mark      int    `json:"mark"`
	Aggregate int    `json:"aggregate"`
}

// Publisher is the part of pkg/kafka.Producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes feedback domain events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCommentCreated publishes a comment.created event.
func (p *Producer) PublishCommentCreated(ctx context.Context, c *domain.Comment) error {
	return p.publish(ctx, TopicCommentCreated, c.ID, AggregateTypeComment, commentData(c))
}

// PublishCommentUpdated publishes a comment.updated event.
func (p *Producer) PublishCommentUpdated(ctx context.Context, c *domain.Comment) error {
	return p.publish(ctx, TopicCommentUpdated, c.ID, AggregateTypeComment, commentData(c))
}

// PublishCommentModerated publishes a comment.moderated event carrying the
// new approval state.
func (p *Producer) PublishCommentModerated(ctx context.Context, c *domain.Comment) error {
	data := commentData(c)
	data.Message = ""
	return p.publish(ctx, TopicCommentModerated, c.ID, AggregateTypeComment, data)
}

// PublishCommentDeleted publishes a comment.deleted event.
func (p *Producer) PublishCommentDeleted(ctx context.Context, c *domain.Comment) error {
	return p.publish(ctx, TopicCommentDeleted, c.ID, AggregateTypeComment, CommentData{
		CommentID: c.ID,
		SellerID:  c.SellerID,
		AuthorID:  c.AuthorID,
		Approved:  c.Approved,
	})
}

// PublishSellerCreated publishes a seller.created event.
func (p *Producer) PublishSellerCreated(ctx context.Context, s *domain.SellerProfile) error {
	return p.publish(ctx, TopicSellerCreated, s.ID, AggregateTypeSeller, sellerData(s))
}

// PublishSellerUpdated publishes a seller.updated event.
func (p *Producer) PublishSellerUpdated(ctx context.Context, s *domain.SellerProfile) error {
	return p.publish(ctx, TopicSellerUpdated, s.ID, AggregateTypeSeller, sellerData(s))
}

// PublishSellerModerated publishes a seller.moderated event.
func (p *Producer) PublishSellerModerated(ctx context.Context, sellerID string, confirmed bool) error {
	return p.publish(ctx, TopicSellerModerated, sellerID, AggregateTypeSeller, SellerData{
		SellerID:         sellerID,
		ConfirmedByAdmin: confirmed,
	})
}

// PublishSellerDeleted publishes a seller.deleted event.
func (p *Producer) PublishSellerDeleted(ctx context.Context, sellerID string) error {
	return p.publish(ctx, TopicSellerDeleted, sellerID, AggregateTypeSeller, SellerData{SellerID: sellerID})
}

// PublishRatingSubmitted publishes a rating.submitted event keyed by seller.
func (p *Producer) PublishRatingSubmitted(ctx context.Context, r *domain.Rating, aggregate int) error {
	return p.publish(ctx, TopicRatingSubmitted, r.SellerID, AggregateTypeSeller, RatingSubmittedData{
		SellerID:  r.SellerID,
		AuthorID:  r.AuthorID,
		Mark:      r.Mark,
		Aggregate: aggregate,
	})
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, SourceSellerHub, pkgkafka.Aggregate{ID: aggregateID, Type: aggregateType}, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if kind := logger.ActorKindFromContext(ctx); kind != "" {
		event.WithMetadata("actor_kind", kind)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

func commentData(c *domain.Comment) CommentData {
	return CommentData{
		CommentID: c.ID,
		SellerID:  c.SellerID,
		AuthorID:  c.AuthorID,
		Message:   c.Message,
		Approved:  c.Approved,
	}
}

func sellerData(s *domain.SellerProfile) SellerData {
	return SellerData{
		SellerID:         s.ID,
		Username:         s.Username,
		ConfirmedByAdmin: s.ConfirmedByAdmin,
		Rating:           s.Rating,
	}
}
