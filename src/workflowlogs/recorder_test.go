package workflowlogs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gh-triage-mcp/src/broker"
	"gh-triage-mcp/src/contracts"
	"gh-triage-mcp/src/history"
)

func TestStoreAndPublisherRecorders(t *testing.T) {
	ctx := context.Background()
	store := history.NewMemoryStore()
	b := broker.NewInMemoryBroker()
	defer b.Close()
	pub := broker.NewPublisher(b, "")
	sub, err := b.Subscribe(ctx, pub.Topic(), "test")
	require.NoError(t, err)

	rec := Recorders{StoreRecorder(store), PublisherRecorder(pub)}
	record := contracts.AnalysisRecord{ID: "r1", Owner: "o", Repo: "r", StartedAt: time.Now()}
	require.NoError(t, rec.Record(ctx, record))

	saved, err := store.Recent(ctx, "o", "r", 0)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "r1", saved[0].ID)

	select {
	case msg := <-sub:
		got, err := broker.DecodeAnalysis(msg)
		require.NoError(t, err)
		assert.Equal(t, "r1", got.ID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for published record")
	}
}
