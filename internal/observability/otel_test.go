package observability

import "testing"

func TestOtelSampleRatioClamps(t *testing.T) {
	cases := map[string]float64{"": 1, "0.25": 0.25, "-1": 0, "7": 1, "abc": 1}
	for in, want := range cases {
		t.Setenv("OTEL_SAMPLER_RATIO", in)
		if got := otelSampleRatio(); got != want {
			t.Fatalf("ratio(%q): want=%v got=%v", in, want, got)
		}
	}
}

func TestOtelHeaders(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-api-key=abc, bad, =v,k=")
	h := otelHeaders()
	if len(h) != 1 || h["x-api-key"] != "abc" {
		t.Fatalf("headers: got=%v", h)
	}
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
	if otelHeaders() != nil {
		t.Fatalf("empty headers: want nil")
	}
}
