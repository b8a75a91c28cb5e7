package broker

import (
	"context"
	"errors"
	"testing"
	"time"

	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/loganalysis"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("channel closed")
		}
		return msg
	case <-time.After(time.Second):
		t.Fatal("Timeout waiting for message")
	}
	return Message{}
}

func TestInMemoryBroker_PublishSubscribe(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	msgChan, err := broker.Subscribe(ctx, "test-topic", "test-group")
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}

	if err := broker.Publish(ctx, "test-topic", "test-key", []byte("test message")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	msg := receive(t, msgChan)
	if msg.Topic != "test-topic" || msg.Key != "test-key" || string(msg.Value) != "test message" {
		t.Errorf("unexpected message: %+v", msg)
	}
	if msg.Offset != 0 {
		t.Errorf("Offset = %d, want 0", msg.Offset)
	}
}

func TestInMemoryBroker_MultipleSubscribers(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	sub1, _ := broker.Subscribe(ctx, "topic", "group1")
	sub2, _ := broker.Subscribe(ctx, "topic", "group2")
	other, _ := broker.Subscribe(ctx, "other", "group1")

	broker.Publish(ctx, "topic", "", []byte("a"))
	broker.Publish(ctx, "topic", "", []byte("b"))

	for _, sub := range []<-chan Message{sub1, sub2} {
		if got := string(receive(t, sub).Value); got != "a" {
			t.Errorf("first = %q, want a", got)
		}
		second := receive(t, sub)
		if string(second.Value) != "b" || second.Offset != 1 {
			t.Errorf("second = %+v", second)
		}
	}

	select {
	case msg := <-other:
		t.Errorf("unexpected message on other topic: %+v", msg)
	default:
	}
}

func TestInMemoryBroker_Close(t *testing.T) {
	broker := NewInMemoryBroker()
	ctx := context.Background()
	sub, _ := broker.Subscribe(ctx, "topic", "g")

	if err := broker.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := <-sub; ok {
		t.Error("subscriber channel should be closed")
	}
	if err := broker.Publish(ctx, "topic", "", nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Publish after close = %v, want ErrClosed", err)
	}
	if _, err := broker.Subscribe(ctx, "topic", "g"); !errors.Is(err, ErrClosed) {
		t.Errorf("Subscribe after close = %v, want ErrClosed", err)
	}
	if err := broker.Close(); err != nil {
		t.Errorf("second Close = %v", err)
	}
}

func TestPublisher_RoundTrip(t *testing.T) {
	broker := NewInMemoryBroker()
	defer broker.Close()

	ctx := context.Background()
	pub := NewPublisher(broker, "")
	if pub.Topic() != contracts.TopicLogAnalyses {
		t.Fatalf("Topic = %q", pub.Topic())
	}
	sub, _ := broker.Subscribe(ctx, pub.Topic(), "test")

	record := contracts.AnalysisRecord{
		ID:    "id-1",
		Owner: "octo",
		Repo:  "demo",
		RunID: 7,
		Result: loganalysis.Result{
			Success:      false,
			ErrorSummary: loganalysis.SummaryBuildErrors,
			ErrorDetails: "ERROR: boom",
		},
	}
	if err := pub.PublishAnalysis(ctx, record); err != nil {
		t.Fatalf("PublishAnalysis failed: %v", err)
	}

	msg := receive(t, sub)
	if msg.Key != "octo/demo" {
		t.Errorf("Key = %q, want octo/demo", msg.Key)
	}
	got, err := DecodeAnalysis(msg)
	if err != nil {
		t.Fatalf("DecodeAnalysis failed: %v", err)
	}
	if got.ID != "id-1" || got.RunID != 7 || got.Result.ErrorDetails != "ERROR: boom" {
		t.Errorf("decoded = %+v", got)
	}
}

func TestInMemoryBroker_CloseReleasesBlockedPublisher(t *testing.T) {
	broker := NewInMemoryBroker()
	ctx := context.Background()
	sub, _ := broker.Subscribe(ctx, "topic", "g")

	for i := 0; i < subscriberBuffer; i++ {
		if err := broker.Publish(ctx, "topic", "", []byte("x")); err != nil {
			t.Fatalf("Publish %d failed: %v", i, err)
		}
	}

	published := make(chan error, 1)
	go func() {
		published <- broker.Publish(ctx, "topic", "", []byte("overflow"))
	}()

	closed := make(chan error, 1)
	go func() {
		time.Sleep(20 * time.Millisecond)
		closed <- broker.Close()
	}()

	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Close blocked behind a publisher")
	}
	if err := <-published; !errors.Is(err, ErrClosed) {
		t.Errorf("blocked Publish = %v, want ErrClosed", err)
	}

	n := 0
	for range sub {
		n++
	}
	if n != subscriberBuffer {
		t.Errorf("drained %d messages, want %d", n, subscriberBuffer)
	}
}

func TestWatch(t *testing.T) {
	broker := NewInMemoryBroker()
	ctx := context.Background()
	pub := NewPublisher(broker, "")

	var (
		got    []contracts.AnalysisRecord
		errs   []error
		result = make(chan error, 1)
	)
	ready := make(chan struct{})
	go func() {
		// Subscribe happens inside Watch; signal once it is registered.
		sub := &signalBroker{Broker: broker, subscribed: ready}
		result <- Watch(ctx, sub, "", "log", func(r contracts.AnalysisRecord) {
			got = append(got, r)
		}, func(err error) {
			errs = append(errs, err)
		})
	}()
	<-ready

	if err := pub.PublishAnalysis(ctx, contracts.AnalysisRecord{ID: "a", Owner: "o", Repo: "r"}); err != nil {
		t.Fatalf("PublishAnalysis failed: %v", err)
	}
	if err := broker.Publish(ctx, contracts.TopicLogAnalyses, "", []byte("not json")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := pub.PublishAnalysis(ctx, contracts.AnalysisRecord{ID: "b"}); err != nil {
		t.Fatalf("PublishAnalysis failed: %v", err)
	}
	broker.Close()

	select {
	case err := <-result:
		if err != nil {
			t.Fatalf("Watch = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after Close")
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("records = %+v", got)
	}
	if len(errs) != 1 {
		t.Errorf("decode errors = %v, want 1", errs)
	}
}

func TestWatch_SubscribeError(t *testing.T) {
	broker := NewInMemoryBroker()
	broker.Close()

	err := Watch(context.Background(), broker, "", "log", func(contracts.AnalysisRecord) {}, nil)
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Watch = %v, want ErrClosed", err)
	}
}

// signalBroker closes subscribed after the first successful Subscribe.
type signalBroker struct {
	Broker
	subscribed chan struct{}
}

func (b *signalBroker) Subscribe(ctx context.Context, topic, groupID string) (<-chan Message, error) {
	ch, err := b.Broker.Subscribe(ctx, topic, groupID)
	close(b.subscribed)
	return ch, err
}

func TestNewRedpandaBroker_RequiresAddress(t *testing.T) {
	if _, err := NewRedpandaBroker(nil, nil); err == nil {
		t.Error("expected error for empty broker list")
	}
}
