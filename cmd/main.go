package main

import (
	"fmt"
	"os"
	"strings"

	"bybitmanager/cmd/serve"
	"bybitmanager/cmd/trade"

	"github.com/joho/godotenv"
	logger "github.com/sirupsen/logrus"
	"github.com/urfave/cli"
)

var Version string

func SetupLogger() {
	levelStr := strings.ToLower(os.Getenv("LOG_LEVEL"))

	level, err := logger.ParseLevel(levelStr)
	if err != nil {
		level = logger.InfoLevel
	}

	logger.SetLevel(level)
	logger.SetFormatter(&logger.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	_ = godotenv.Load()
	SetupLogger()

	app := cli.NewApp()
	app.Name = "bybit-manager"
	app.Usage = "The Bybit spot order manager command line interface"
	app.Version = Version

	app.Commands = []cli.Command{
		newTradeCMD(),
		serveCMD,
	}

	if err := app.Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newTradeCMD is built after godotenv has loaded, so .env values feed the
// flag defaults.
func newTradeCMD() cli.Command {
	defaults := trade.GetConfig()

	return cli.Command{
		Name:      "trade",
		Usage:     "place a spot market order with optional TP/SL legs",
		Action:    tradeAction,
		ArgsUsage: "",
		Flags: []cli.Flag{
			cli.StringFlag{
				Name:  "coin",
				Usage: "base coin to trade, symbol becomes <coin>USDT",
				Value: defaults.Coin,
			},
			cli.StringFlag{
				Name:  "side",
				Usage: "order side, Buy or Sell",
				Value: defaults.Side,
			},
			cli.Float64Flag{
				Name:  "percent",
				Usage: "percentage of the available USDT balance to spend",
				Value: defaults.PercentOfBalance,
			},
			cli.Float64Flag{
				Name:  "tp",
				Usage: "take-profit percentage above the average fill price, 0 disables",
				Value: defaults.TakeProfitPct,
			},
			cli.Float64Flag{
				Name:  "sl",
				Usage: "stop-loss percentage below the average fill price, 0 disables",
				Value: defaults.StopLossPct,
			},
		},
		Description: `Place a spot market order sized as a percentage of the available USDT balance and attach TP/SL sell legs`,
	}
}

var (
	serveCMD = cli.Command{
		Name:        "serve",
		Usage:       "run the HTTP order API",
		Action:      serveAction,
		ArgsUsage:   "",
		Flags:       []cli.Flag{},
		Description: `Run the HTTP server exposing the order flow`,
	}
)

func tradeAction(c *cli.Context) error {

	logger.Info("Starting trade CMD")
	logger.WithField("cmd", "trade")

	t := &trade.Trade{
		Coin:             c.String("coin"),
		Side:             c.String("side"),
		PercentOfBalance: c.Float64("percent"),
		TakeProfitPct:    c.Float64("tp"),
		StopLossPct:      c.Float64("sl"),
	}
	err := t.Start()
	if err != nil {
		logger.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}

func serveAction(_ *cli.Context) error {

	logger.Info("Starting serve CMD")
	logger.WithField("cmd", "serve")

	s := &serve.Serve{}
	err := s.Start()
	if err != nil {
		logger.WithError(err).Error("Starting cmd")
		return err
	}

	return nil
}
