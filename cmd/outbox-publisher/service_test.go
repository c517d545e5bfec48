package main

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"

	"github.com/zubairqazi/bazaarline-backend/pkg/config"
	"github.com/zubairqazi/bazaarline-backend/pkg/db/models"
	"github.com/zubairqazi/bazaarline-backend/pkg/enums"
	"github.com/zubairqazi/bazaarline-backend/pkg/logger"
)

type fakeRepo struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	dlq       []models.OutboxEvent
}

func (f *fakeRepo) FetchUnpublished(limit int) ([]models.OutboxEvent, error) {
	events := f.events
	f.events = nil
	return events, nil
}

func (f *fakeRepo) MarkPublished(id uuid.UUID) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailed(id uuid.UUID, err error) error {
	f.failed = append(f.failed, id)
	return nil
}

func (f *fakeRepo) MoveToDLQ(event models.OutboxEvent, reason enums.OutboxDLQErrorReason, cause error) error {
	f.dlq = append(f.dlq, event)
	return nil
}

type fakePubSub struct{}

func (fakePubSub) Ping(context.Context) error            { return nil }
func (fakePubSub) Publisher(string) *gcppubsub.Publisher { return nil }

type fakePublisher struct {
	err error
}

func (f *fakePublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	return fakeResult{err: f.err}
}

type fakeResult struct {
	err error
}

func (f fakeResult) Get(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "server-id", nil
}

func newTestService(t *testing.T, repo *fakeRepo, pub *fakePublisher, topics *[]string) *Service {
	t.Helper()

	cfg := &config.Config{}
	cfg.PubSub.NotificationTopic = "bl-notification-events"
	cfg.PubSub.SettlementTopic = "bl-settlement-events"
	cfg.Outbox.BatchSize = 10
	cfg.Outbox.MaxAttempts = 3
	cfg.Outbox.PollIntervalMS = 10

	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		Repository: repo,
		PubSub:     fakePubSub{},
		PublisherFactory: func(topic string) publisher {
			if topics != nil {
				*topics = append(*topics, topic)
			}
			return pub
		},
	})
	if err != nil {
		t.Fatalf("unexpected error building service: %v", err)
	}
	return svc
}

func newOutboxEvent(eventType enums.OutboxEventType, attempts int) models.OutboxEvent {
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     eventType,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"k":"v"}`),
		CreatedAt:     time.Now(),
		AttemptCount:  attempts,
	}
}

func TestProcessBatchPublishesAndRoutes(t *testing.T) {
	settlement := newOutboxEvent(enums.EventOrderDelivered, 0)
	notification := newOutboxEvent(enums.EventNotificationRequested, 0)
	repo := &fakeRepo{events: []models.OutboxEvent{settlement, notification}}
	var topics []string
	svc := newTestService(t, repo, &fakePublisher{}, &topics)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to report work")
	}
	if len(repo.published) != 2 {
		t.Fatalf("expected two published events, got %d", len(repo.published))
	}
	if len(topics) != 2 || topics[0] != "bl-settlement-events" || topics[1] != "bl-notification-events" {
		t.Fatalf("unexpected topic routing %v", topics)
	}
}

func TestProcessBatchEmpty(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakePublisher{}, nil)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if processed {
		t.Fatal("expected idle batch")
	}
}

func TestProcessBatchMarksFailure(t *testing.T) {
	event := newOutboxEvent(enums.EventOrderCreated, 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	svc := newTestService(t, repo, &fakePublisher{err: errors.New("deadline exceeded")}, nil)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to report work")
	}
	if len(repo.failed) != 1 || repo.failed[0] != event.ID {
		t.Fatalf("expected failure mark for event, got %v", repo.failed)
	}
	if len(repo.dlq) != 0 {
		t.Fatalf("expected no dlq moves, got %d", len(repo.dlq))
	}
}

func TestProcessBatchMovesToDLQAtMaxAttempts(t *testing.T) {
	// MaxAttempts is 3 in the fixture, so the third failure is terminal.
	event := newOutboxEvent(enums.EventOrderCreated, 2)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	svc := newTestService(t, repo, &fakePublisher{err: errors.New("deadline exceeded")}, nil)

	processed, err := svc.processBatch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !processed {
		t.Fatal("expected batch to report work")
	}
	if len(repo.dlq) != 1 || repo.dlq[0].ID != event.ID {
		t.Fatalf("expected dlq move for event, got %v", repo.dlq)
	}
	if len(repo.failed) != 0 {
		t.Fatalf("expected no retry mark, got %v", repo.failed)
	}
}
