package config

type Stock struct {
	LowStockThreshold int64 `env:"STOCK_LOW_THRESHOLD" envDefault:"5"`
}
