package config

import "time"

type Kafka struct {
	Addresses []string `env:"KAFKA_ADDRESSES,required" envSeparator:","`
	Group     string   `env:"KAFKA_GROUP" envDefault:"stock-ledger"`
	ClientID  string   `env:"KAFKA_CLIENT_ID" envDefault:"stock-ledger"`
	// ProduceTimeout bounds how long the relay waits for a broker ack per
	// outbox message before counting the attempt as failed.
	ProduceTimeout time.Duration `env:"KAFKA_PRODUCE_TIMEOUT" envDefault:"10s"`
}
