package bybit

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	APIKey    string `envconfig:"BYBIT_API_KEY"`
	APISecret string `envconfig:"BYBIT_API_SECRET"`
	BaseURL   string `envconfig:"BYBIT_BASE_URL" default:"https://api-demo.bybit.com"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
