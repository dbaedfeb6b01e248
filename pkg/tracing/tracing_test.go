package tracing

import (
	"context"
	"strings"
	"testing"
)

func TestInitTracer_Disabled(t *testing.T) {
	shutdown, err := InitTracer(context.Background(), DefaultConfig("sellerhub"))
	if err != nil {
		t.Fatalf("InitTracer(disabled) returned error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown(disabled) returned error: %v", err)
	}
}

func TestSamplerFor(t *testing.T) {
	cases := map[float64]string{
		1.0:  "AlwaysOnSampler",
		2.0:  "AlwaysOnSampler",
		0:    "AlwaysOffSampler",
		-1:   "AlwaysOffSampler",
		0.25: "TraceIDRatioBased{0.25}",
	}
	for rate, want := range cases {
		desc := samplerFor(rate).Description()
		if !strings.HasPrefix(desc, "ParentBased{root:") || !strings.Contains(desc, want) {
			t.Errorf("samplerFor(%v) = %q, want ParentBased root %q", rate, desc, want)
		}
	}
}

func TestTracer_NotNil(t *testing.T) {
	if Tracer("sellerhub/test") == nil {
		t.Fatal("Tracer returned nil")
	}
}
