package logger

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturePublisher struct {
	mu      sync.Mutex
	delay   time.Duration
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	time.Sleep(p.delay)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func TestCollectorAggregatesDuplicatesAndFlushesOnClose(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})

	fields := map[string]interface{}{"component": "scheduler"}
	c.AddLog("error", "refresh failed", fields, "usecase/scheduler.go:10")
	c.AddLog("error", "refresh failed", fields, "usecase/scheduler.go:10")
	c.AddLog("error", "write failed", nil, "repository/file_snapshot_store.go:20")
	c.Close()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if pub.topic != "logs" {
		t.Fatalf("topic %q", pub.topic)
	}
	if len(pub.batches) != 1 || len(pub.batches[0]) != 2 {
		t.Fatalf("unexpected batches %+v", pub.batches)
	}
	for _, e := range pub.batches[0] {
		if e.Message == "refresh failed" && e.Count != 2 {
			t.Fatalf("expected count 2, got %d", e.Count)
		}
	}
}

func TestCollectorCloseWaitsForThresholdFlush(t *testing.T) {
	pub := &capturePublisher{delay: 50 * time.Millisecond}
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 1,
		Topic:          "logs",
		Publisher:      pub,
	})

	c.AddLog("error", "publish failed", nil, "repository/kafka_publisher.go:30")
	c.Close()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.batches) != 1 || pub.batches[0][0].Message != "publish failed" {
		t.Fatalf("threshold batch not published before Close returned: %+v", pub.batches)
	}
}

func TestLoggerWithKeepsCollector(t *testing.T) {
	pub := &capturePublisher{}
	l := Nop()
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, Publisher: pub, Topic: "logs"})
	child := l.With(String("component", "store"))
	child.Error("boom", String("path", "data.json"))
	l.RemoveCollector()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.batches) != 1 || pub.batches[0][0].Message != "boom" {
		t.Fatalf("child error log was not collected: %+v", pub.batches)
	}
}
