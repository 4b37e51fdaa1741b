package observability

import (
	"resumelens/internal/config"
)

// GetObservabilityConfig resolves the observability settings. version fills
// in the service version when the config leaves it empty.
func GetObservabilityConfig(cfg *config.Config, version string) ObservabilityConfig {
	if cfg == nil {
		return ObservabilityConfig{
			ServiceName:    "resumelens",
			ServiceVersion: version,
			Enabled:        true,
			TracingEnabled: true,
			MetricsEnabled: true,
			ConsoleOutput:  true,
			PrettyPrint:    true,
			SampleRate:     1.0,
			Prometheus:     GetPrometheusConfig(nil),
		}
	}

	obs := cfg.Observability
	serviceVersion := obs.ServiceVersion
	if serviceVersion == "" {
		serviceVersion = version
	}
	sampleRate := obs.Tracing.SampleRate
	if sampleRate <= 0 {
		sampleRate = obs.SampleRate
	}

	return ObservabilityConfig{
		ServiceName:     obs.ServiceName,
		ServiceVersion:  serviceVersion,
		ServiceInstance: obs.ServiceInstance,
		Enabled:         obs.Enabled,
		TracingEnabled:  obs.Tracing.Enabled,
		MetricsEnabled:  obs.Metrics.Enabled,
		ConsoleOutput:   obs.ConsoleOutput || obs.Console.Enabled,
		PrettyPrint:     obs.Console.PrettyPrint,
		SampleRate:      sampleRate,
		Interval:        obs.Metrics.CollectionInterval,
		OTLP:            obs.OTLP,
		Prometheus:      GetPrometheusConfig(cfg),
	}
}
