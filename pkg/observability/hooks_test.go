package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	parseStarts  int
	layoutStarts int
	renders      []string
}

func (h *recordingPipelineHooks) OnParseStart(context.Context, int)  { h.parseStarts++ }
func (h *recordingPipelineHooks) OnLayoutStart(context.Context, int) { h.layoutStarts++ }
func (h *recordingPipelineHooks) OnRenderComplete(_ context.Context, format string, _ int, _ time.Duration, _ error) {
	h.renders = append(h.renders, format)
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits, misses int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)  { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string) { h.misses++ }

func TestDefaultHooksAreNoop(t *testing.T) {
	Reset()

	// Must not panic.
	ctx := context.Background()
	Pipeline().OnParseStart(ctx, 100)
	Pipeline().OnRenderComplete(ctx, "svg", 1024, time.Millisecond, nil)
	Cache().OnCacheHit(ctx, "layout")
	HTTP().OnResponse(ctx, "POST", "/api/parse", 200, time.Millisecond)
}

func TestSetPipelineHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)

	ctx := context.Background()
	Pipeline().OnParseStart(ctx, 42)
	Pipeline().OnLayoutStart(ctx, 5)
	Pipeline().OnRenderComplete(ctx, "pdf", 2048, time.Millisecond, nil)

	if h.parseStarts != 1 || h.layoutStarts != 1 {
		t.Errorf("events = %d parse, %d layout, want 1/1", h.parseStarts, h.layoutStarts)
	}
	if len(h.renders) != 1 || h.renders[0] != "pdf" {
		t.Errorf("renders = %v, want [pdf]", h.renders)
	}
}

func TestSetCacheHooks(t *testing.T) {
	t.Cleanup(Reset)

	h := &recordingCacheHooks{}
	SetCacheHooks(h)

	ctx := context.Background()
	Cache().OnCacheHit(ctx, "model")
	Cache().OnCacheMiss(ctx, "layout")
	Cache().OnCacheMiss(ctx, "artifact")

	if h.hits != 1 || h.misses != 2 {
		t.Errorf("hits = %d, misses = %d, want 1/2", h.hits, h.misses)
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	t.Cleanup(Reset)

	SetPipelineHooks(nil)
	SetCacheHooks(nil)
	SetHTTPHooks(nil)

	// Registry must stay usable.
	Pipeline().OnParseStart(context.Background(), 0)
}

func TestReset(t *testing.T) {
	h := &recordingPipelineHooks{}
	SetPipelineHooks(h)
	Reset()

	Pipeline().OnParseStart(context.Background(), 1)
	if h.parseStarts != 0 {
		t.Error("Reset() must restore the no-op hooks")
	}
}
