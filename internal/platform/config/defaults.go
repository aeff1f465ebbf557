package config

// Built-in defaults, used as-is by `go run ./cmd/service` with no YAML.
const (
	DefaultServerPort                = 8080
	DefaultMaxRequestSize            = 12 << 20 // a 10 MiB upload plus multipart framing
	DefaultWorkspaceSubscriberBuffer = 8
)

func defaults() map[string]any {
	return map[string]any{
		"app": map[string]any{
			"name":        "invoice-builder",
			"version":     "dev",
			"environment": "local",
		},
		"server": map[string]any{
			"host":             "0.0.0.0",
			"port":             DefaultServerPort,
			"read_timeout":     "30s",
			"write_timeout":    "60s",
			"idle_timeout":     "2m",
			"shutdown_timeout": "10s",
			"max_request_size": DefaultMaxRequestSize,
		},
		"log": map[string]any{
			"level":  "info",
			"format": "json",
			"file": map[string]any{
				"enabled":     false,
				"path":        "./logs/invoice-builder.log",
				"max_size":    50,
				"max_backups": 5,
				"max_age":     30,
				"compress":    true,
			},
		},
		"telemetry": map[string]any{
			"enabled":       false,
			"endpoint":      "",
			"insecure":      true,
			"service_name":  "invoice-builder",
			"sampling_rate": 1.0,
		},
		"client": map[string]any{
			"timeout": "10s",
			"retry": map[string]any{
				"max_attempts":     3,
				"initial_interval": "200ms",
				"max_interval":     "3s",
				"multiplier":       2.0,
				"jitter_factor":    0.25,
			},
			"circuit_breaker": map[string]any{
				"max_failures":    5,
				"timeout":         "30s",
				"half_open_limit": 1,
			},
			"transport": map[string]any{
				"max_idle_conns":          16,
				"max_idle_conns_per_host": 4,
				"idle_conn_timeout":       "90s",
			},
		},
		"invoice": map[string]any{
			"document_type": "INVOICE",
			"currency":      "IDR",
			"tax_rate":      0.0,
			"discount":      0.0,
			"notes":         "",
			"company": map[string]any{
				"tagline": "REAL ESTATE DEVELOPER",
			},
			"payment": map[string]any{
				"bank_name":      "",
				"account_number": "",
			},
		},
		"workspace": map[string]any{
			"seed_sample_items": true,
			"subscriber_buffer": DefaultWorkspaceSubscriberBuffer,
		},
		"logo": map[string]any{
			"enabled":   true,
			"location":  "images/logo.png",
			"timeout":   "10s",
			"s3_region": "",
		},
		"export": map[string]any{
			"compress": true,
		},
	}
}
