package config

type HTTP struct {
	Port      uint32 `env:"HTTP_PORT" envDefault:"8000"`
	Swagger   bool   `env:"HTTP_SWAGGER" envDefault:"true"`
	RateLimit int    `env:"HTTP_RATE_LIMIT" envDefault:"300"`
	// AllowedOrigins is passed to the CORS middleware.
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	IsDevelopment  bool     `env:"HTTP_DEVELOPMENT" envDefault:"false"`
}
