package trade

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Coin             string  `envconfig:"TRADE_COIN" default:"BTC"`
	Side             string  `envconfig:"TRADE_SIDE" default:"Buy"`
	PercentOfBalance float64 `envconfig:"TRADE_PERCENT_OF_BALANCE" default:"10"`
	TakeProfitPct    float64 `envconfig:"TRADE_TAKE_PROFIT_PCT" default:"0"`
	StopLossPct      float64 `envconfig:"TRADE_STOP_LOSS_PCT" default:"0"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
