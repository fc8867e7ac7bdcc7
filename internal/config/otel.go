package config

// Otel configures trace export. Tracing is off when CollectorURL is empty.
type Otel struct {
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"stock-ledger"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION"`
	Environment    string `env:"DEPLOY_ENVIRONMENT"`

	CollectorURL  string  `env:"OTEL_COLLECTOR_URL"`
	Insecure      bool    `env:"OTEL_INSECURE"`
	CollectorAuth string  `env:"OTEL_COLLECTOR_AUTH"`
	TraceIDRatio  float64 `env:"OTEL_TRACE_ID_RATIO" envDefault:"0.1"`

	K8sPodName   string `env:"K8S_POD_NAME"`
	K8sNamespace string `env:"K8S_NAMESPACE"`
}
