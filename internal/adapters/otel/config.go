package otel

// Config holds OTEL exporter configuration. Nested under the OTEL prefix,
// e.g. ADPULSE_OTEL_ENDPOINT.
type Config struct {
	Endpoint string `envconfig:"ENDPOINT"`
	Enabled  bool   `envconfig:"ENABLED" default:"false"`
	Insecure bool   `envconfig:"INSECURE" default:"false"`
}
