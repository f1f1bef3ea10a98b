package tracing

import (
	"fmt"
	"strings"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Sampler strategies accepted in telemetry.tracing.sampler.
const (
	SamplerAlways = "always"
	SamplerNever  = "never"
	SamplerRatio  = "ratio"
)

// createSampler maps a configured strategy to an SDK sampler. Ratios of 0
// and 1 collapse to the never and always samplers.
//
// The result is always ParentBased: an editor request that arrives with a
// sampled traceparent is traced whatever the local strategy says.
func createSampler(strategy string, ratio float64) (sdktrace.Sampler, error) {
	var root sdktrace.Sampler

	switch strings.ToLower(strategy) {
	case SamplerAlways:
		root = sdktrace.AlwaysSample()
	case SamplerNever:
		root = sdktrace.NeverSample()
	case SamplerRatio:
		switch {
		case ratio < 0 || ratio > 1:
			return nil, fmt.Errorf("sample ratio must be between 0.0 and 1.0, got %g", ratio)
		case ratio == 0:
			root = sdktrace.NeverSample()
		case ratio == 1:
			root = sdktrace.AlwaysSample()
		default:
			root = sdktrace.TraceIDRatioBased(ratio)
		}
	default:
		return nil, fmt.Errorf("unknown sampler strategy %q (valid: always, never, ratio)", strategy)
	}

	return sdktrace.ParentBased(root), nil
}
