/*************************************************************************
 * Copyright 2026 Botad Authors. All rights reserved.
 *
 * This software may be modified and distributed under the terms of the
 * BSD 2-clause license. See the LICENSE file for details.
 **************************************************************************/

// Command botad runs the botnet flow-record detection pipeline: it
// loads the CNC and Tor models named in its configuration, tails the
// configured flow interfaces (or replays a local fixture with
// -replay), and appends detail/IDEA reports as windows close.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/danielpoliakov/bota/internal/adapter"
	"github.com/danielpoliakov/bota/internal/classifier"
	"github.com/danielpoliakov/bota/internal/config"
	"github.com/danielpoliakov/bota/internal/endpoint"
	"github.com/danielpoliakov/bota/internal/filter"
	"github.com/danielpoliakov/bota/internal/ioutil"
	"github.com/danielpoliakov/bota/internal/log"
	"github.com/danielpoliakov/bota/internal/monitor"
	"github.com/danielpoliakov/bota/internal/predictor"
	"github.com/danielpoliakov/bota/internal/report"
	"github.com/danielpoliakov/bota/internal/version"
)

var (
	confPath = flag.String("config", "", "Path to the botad configuration file")
	replay   = flag.String("replay", "", "Replay a newline-delimited JSON fixture instead of live interfaces")
	ver      = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()
	if *ver {
		version.PrintVersion(os.Stdout)
		log.PrintOSInfo(os.Stdout)
		os.Exit(0)
	}
	if *confPath == "" {
		fmt.Fprintln(os.Stderr, "missing required -config flag")
		os.Exit(1)
	}

	cfg, err := config.Load(*confPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	lg, err := newLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open logger: %v\n", err)
		os.Exit(1)
	}
	defer lg.Close()
	lg.Info("botad starting", log.KV("version", version.GetVersion()))

	model, err := predictor.LoadLogisticModel(cfg.Model.CNC)
	if err != nil {
		lg.Critical("failed to load CNC model", log.KVErr(err))
		os.Exit(1)
	}

	relays, err := classifier.NewRelaySet(cfg.Model.Tor)
	if err != nil {
		lg.Critical("failed to load Tor relay list", log.KVErr(err))
		os.Exit(1)
	}
	if cfg.Model.TorReload {
		w, err := relays.Watch(cfg.Model.Tor, lg)
		if err != nil {
			lg.Warn("tor relay hot reload disabled", log.KVErr(err))
		} else {
			defer w.Close()
		}
	}

	f, err := cfg.BuildFilter()
	if err != nil {
		lg.Critical("invalid filter configuration", log.KVErr(err))
		os.Exit(1)
	}

	epCfg := endpointConfig(cfg, model)
	factory := func(id string) *endpoint.Endpoint {
		if f.FilterBy() == filter.ByMAC {
			return endpoint.NewMACEndpoint(id, epCfg, relays)
		}
		return endpoint.NewIPEndpoint(id, epCfg, relays)
	}

	writer := report.NewWriter(cfg.Output.Detail, cfg.Output.IDEA, f.FilterBy())

	decoders, err := buildDecoders(cfg, *replay)
	if err != nil {
		lg.Critical("failed to open input interfaces", log.KVErr(err))
		os.Exit(1)
	}

	mon := monitor.New(f, factory, writer, lg, len(decoders))
	coll := adapter.NewCollector(mon, lg)
	coll.Start(decoders)

	if *replay != "" {
		coll.Wait()
		lg.Info("replay complete")
		return
	}

	quit := ioutil.GetQuitChannel()
	sig := <-quit
	lg.Info("shutting down", log.KV("signal", sig.String()))
	coll.Wait()
}

func newLogger(cfg config.LogConfig) (*log.Logger, error) {
	var lg *log.Logger
	if cfg.File != "" {
		fout, err := log.NewFile(cfg.File)
		if err != nil {
			return nil, err
		}
		lg = fout
		if err := lg.AddWriter(os.Stdout); err != nil {
			return nil, err
		}
	} else {
		lg = log.New(os.Stdout)
	}
	if cfg.Remote != "" {
		relay, err := log.NewUdpRelay(cfg.Remote)
		if err != nil {
			return nil, err
		}
		if err := lg.AddWriter(relay); err != nil {
			return nil, err
		}
	}
	if cfg.Level != "" {
		if err := lg.SetLevelString(cfg.Level); err != nil {
			return nil, err
		}
	}
	return lg, nil
}

func endpointConfig(cfg *config.Config, model predictor.Predictor) endpoint.Config {
	ec := endpoint.Config{
		Anomaly: endpoint.AnomalyThresholds{
			Bytes:   cfg.Model.Anomaly.Bytes,
			Packets: cfg.Model.Anomaly.Packets,
			DstIP:   cfg.Model.Anomaly.DstIP,
			DstPort: cfg.Model.Anomaly.DstPort,
		},
		Model: model,
		Rand:  rand.NewSource(time.Now().UnixNano()),
	}
	if cfg.Model.Prior != nil {
		ec.Prior = &endpoint.PriorConfig{
			Bytes:   cfg.Model.Prior.Bytes,
			Packets: cfg.Model.Prior.Packets,
			DstIP:   cfg.Model.Prior.DstIP,
			DstPort: cfg.Model.Prior.DstPort,
		}
	}
	return ec
}

func buildDecoders(cfg *config.Config, replayPath string) ([]adapter.Decoder, error) {
	if replayPath != "" {
		f, err := os.Open(replayPath)
		if err != nil {
			return nil, err
		}
		return []adapter.Decoder{adapter.NewJSONLinesDecoder(f, "")}, nil
	}

	decoders := make([]adapter.Decoder, 0, len(cfg.Interfaces))
	for _, iface := range cfg.Interfaces {
		f, err := os.Open(iface.Interface)
		if err != nil {
			return nil, err
		}
		decoders = append(decoders, adapter.NewJSONLinesDecoder(f, adapter.Type(iface.Type)))
	}
	return decoders, nil
}
