package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/cc0ffee/greenhouse-sim/cmd/app"
	httpctrl "github.com/cc0ffee/greenhouse-sim/internal/controllers/http"
	modbusctrl "github.com/cc0ffee/greenhouse-sim/internal/controllers/modbus"
	mqttctrl "github.com/cc0ffee/greenhouse-sim/internal/controllers/mqtt"
	"github.com/cc0ffee/greenhouse-sim/internal/simulation"
)

func main() {
	var (
		configPath  string
		interactive bool
		csvPath     string
	)
	flag.StringVar(&configPath, "config", "config.yaml", "path to config file (.yaml/.yml/.json)")
	flag.BoolVar(&interactive, "interactive", false, "prompt for a city and dates instead of serving controllers")
	flag.StringVar(&csvPath, "csv", "", "with -interactive, also write each trajectory to this CSV file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	app.ApplyEnvOverrides(&cfg)

	presets, err := cfg.Presets()
	if err != nil {
		log.Fatal(err)
	}
	simCfg, err := cfg.Simulation(presets)
	if err != nil {
		log.Fatal(err)
	}
	source, err := cfg.WeatherSource()
	if err != nil {
		log.Fatal(err)
	}
	svc, err := simulation.New(simCfg, source)
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if interactive {
		if err := runInteractive(ctx, svc, csvPath); err != nil {
			log.Fatal(err)
		}
		return
	}

	g, gctx := errgroup.WithContext(ctx)

	if c := cfg.Controllers.HTTP; c.Enabled {
		srv := httpctrl.New(svc, c.Addr, cfg.SiteID, c.AllowedOrigins)
		log.Printf("greenhouse-sim http listening on %s", c.Addr)
		g.Go(func() error { return srv.Run(gctx) })
	}

	if c := cfg.Controllers.MQTT; c.Enabled {
		ctrl, err := mqttctrl.New(svc, mqttctrl.Config{
			SiteID:          cfg.SiteID,
			BrokerURL:       c.BrokerURL,
			ClientID:        c.ClientID,
			BaseTopic:       c.BaseTopic,
			QoS:             c.QoS,
			RetainLatest:    c.RetainLatest,
			PublishInterval: c.PublishInterval,
			RequestTimeout:  c.RequestTimeout,
			Username:        c.Username,
			Password:        c.Password,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("greenhouse-sim mqtt connecting to %s", c.BrokerURL)
		g.Go(func() error { return ctrl.Run(gctx) })
	}

	if c := cfg.Controllers.Modbus; c.Enabled {
		ctrl, err := modbusctrl.New(svc, modbusctrl.Config{
			SiteID: cfg.SiteID,
			Addr:   c.Addr,
			UnitID: c.UnitID,
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("greenhouse-sim modbus listening on %s", c.Addr)
		g.Go(func() error { return ctrl.Run(gctx) })
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("controllers exited: %v", err)
	}
}
