package logger

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	mu   sync.Mutex
	docs []LogDocument
}

func (f *fakeWriter) WriteBatch(_ context.Context, docs []interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range docs {
		f.docs = append(f.docs, d.(LogDocument))
	}
	return nil
}

func (f *fakeWriter) snapshot() []LogDocument {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]LogDocument(nil), f.docs...)
}

func TestSetup_ProductionUsesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := setup(&buf, "production")
	log.Debug("hidden")
	log.Info("shown", "order_id", 3)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"order_id":3`)
}

func TestWithCtx(t *testing.T) {
	var buf bytes.Buffer
	base := setup(&buf, "local")

	assert.Same(t, base, WithCtx(context.Background()))

	reqLog := base.With("request_id", "abc")
	ctx := InjectLogger(context.Background(), reqLog)
	WithCtx(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=abc")
}

func TestMongoHandler_BatchesAndFlushesOnClose(t *testing.T) {
	w := &fakeWriter{}
	h := newBatchHandler(w, slog.LevelInfo, time.Hour)

	log := slog.New(h).With("request_id", "r-1").WithGroup("order")
	log.Debug("dropped by level")
	log.Info("created", "id", 12)
	log.Warn("slow", "ms", 250)

	require.NoError(t, h.Close(context.Background()))
	require.NoError(t, h.Close(context.Background()))

	docs := w.snapshot()
	require.Len(t, docs, 2)
	assert.Equal(t, "created", docs[0].Msg)
	assert.Equal(t, "r-1", docs[0].RequestID)
	assert.EqualValues(t, 12, docs[0].Attrs["order.id"])
	assert.Equal(t, "WARN", docs[1].Level)
}

func TestMultiHandler_FansOut(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(
		slog.NewTextHandler(&a, nil),
		slog.NewJSONHandler(&b, nil),
	)
	slog.New(h).Info("both")
	assert.Contains(t, a.String(), "msg=both")
	assert.Contains(t, b.String(), `"msg":"both"`)
}
