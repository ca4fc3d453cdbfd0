package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Uranury/sensornode/collector"
	"github.com/Uranury/sensornode/config"
	"github.com/Uranury/sensornode/forecast"
	"github.com/Uranury/sensornode/internal/log"
	"github.com/Uranury/sensornode/node"
	"github.com/Uranury/sensornode/sensors"
	"github.com/Uranury/sensornode/server"
	"github.com/Uranury/sensornode/threshold"
)

// Sensor ids on this node. Devices reporting several kinds register each kind
// under the same id.
const (
	dhtID   uint8 = 1
	bmpID   uint8 = 2
	lightID uint8 = 3

	// All sensors belong to one radio child group.
	groupID uint8 = 0
)

type registration struct {
	id     uint8
	device sensors.Sensor
	kinds  []threshold.Kind
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet.
		_ = log.Init(false)
		log.Fatalf("config: %v", err)
	}
	if err := log.Init(cfg.Debug); err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	board := sensors.NewBoard(cfg.PollInterval)
	regs := []registration{
		{bmpID, sensors.NewBMP280(0x76), []threshold.Kind{threshold.Pressure}},
		{lightID, &sensors.GY32{Address: 0x23}, []threshold.Kind{threshold.LightLevel}},
	}
	if cfg.DHTPin != "" {
		dht, err := sensors.NewDHT22(cfg.DHTPin)
		if err != nil {
			log.Warnw("DHT22 unavailable, continuing without it", "pin", cfg.DHTPin, "error", err)
		} else {
			regs = append(regs, registration{dhtID, dht, []threshold.Kind{threshold.Temperature, threshold.Humidity}})
		}
	}

	registry := threshold.NewRegistry(threshold.SystemClock())
	var infos []server.SensorInfo
	for _, r := range regs {
		board.Attach(r.id, r.device)
		for _, kind := range r.kinds {
			rep := cfg.Reporting[kind]
			sc := threshold.SensorConfig{
				GroupID:         groupID,
				SensorID:        r.id,
				Kind:            kind,
				Threshold:       rep.Threshold,
				ReadingInterval: rep.ReadingInterval,
				ForcedInterval:  rep.ForcedInterval,
			}
			if err := registry.Register(sc); err != nil {
				log.Fatalf("register %s: %v", r.device.Name(), err)
			}
			infos = append(infos, server.SensorInfo{
				GroupID:         sc.GroupID,
				SensorID:        sc.SensorID,
				Kind:            kind.String(),
				Device:          r.device.Name(),
				Threshold:       sc.Threshold,
				ReadingInterval: sc.ReadingInterval,
				ForcedInterval:  sc.ForcedInterval,
			})
			log.Infow("sensor registered", "device", r.device.Name(), "id", r.id, "kind", kind)
		}
	}

	latest := collector.NewLatest()
	hub := collector.NewHub()
	sinks := collector.Fanout{latest, hub}
	var influx *collector.Influx
	if cfg.Influx.Enabled() {
		influx = collector.NewInflux(cfg.Influx.URL, cfg.Influx.Token, cfg.Influx.Org, cfg.Influx.Bucket)
		sinks = append(sinks, influx)
	}

	n := &node.Node{
		Registry:  registry,
		Provider:  board,
		Sink:      sinks,
		Estimator: forecast.New(),
		Pressure: func() (float64, error) {
			return board.Value(bmpID, threshold.Pressure)
		},
		PollInterval:     cfg.PollInterval,
		PressureInterval: cfg.PressureInterval,
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(latest, hub, infos),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Infof("Server starting on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Run(ctx); err != nil {
		log.Errorw("node stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("http shutdown", "error", err)
	}
	if influx != nil {
		if err := influx.Close(); err != nil {
			log.Errorw("influx writes failed", "error", err)
		}
	}
}
