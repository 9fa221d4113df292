/*
 * Copyright 2025 SREDiag Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command atomicstress runs the atomic facade under contention and reports
// whether any update was lost.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/srediag/hwatomic/internal/health"
	"github.com/srediag/hwatomic/internal/log"
	"github.com/srediag/hwatomic/internal/stress"
	"github.com/srediag/hwatomic/pkg/shm"
)

var logger = log.New("atomicstress", os.Stderr)

type flags struct {
	config     string
	workers    int
	iterations int
	pool       int
	scenarios  string
	widths     string
	shmName    string
	shmDir     string
	serve      string
	logLevel   int
}

func parseFlags(args []string) (*flags, error) {
	f := &flags{}
	fs := flag.NewFlagSet("atomicstress", flag.ContinueOnError)
	fs.StringVar(&f.config, "config", "", "YAML config file")
	fs.IntVar(&f.workers, "workers", 0, "goroutines per scenario (overrides config)")
	fs.IntVar(&f.iterations, "iterations", 0, "operations per goroutine (overrides config)")
	fs.IntVar(&f.pool, "pool", 0, "shared worker pool size (overrides config)")
	fs.StringVar(&f.scenarios, "scenarios", "", "comma separated: "+strings.Join(stress.AllScenarios, ","))
	fs.StringVar(&f.widths, "widths", "", "comma separated: "+strings.Join(stress.AllWidths, ","))
	fs.StringVar(&f.shmName, "shm", "", "allocate cells in a new shared memory region with this name")
	fs.StringVar(&f.shmDir, "shm-dir", "", "directory of the shared memory region (default /dev/shm)")
	fs.StringVar(&f.serve, "serve", "", "serve /metrics, /live and /ready on this address until interrupted")
	fs.IntVar(&f.logLevel, "log-level", -1, "0 trace ... 5 silent (default from "+log.EnvLevel+")")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *flags) apply(cfg *stress.Config) {
	if f.workers > 0 {
		cfg.Workers = f.workers
	}
	if f.iterations > 0 {
		cfg.Iterations = f.iterations
	}
	if f.pool > 0 {
		cfg.PoolSize = f.pool
	}
	if f.scenarios != "" {
		cfg.Scenarios = strings.Split(f.scenarios, ",")
	}
	if f.widths != "" {
		cfg.Widths = strings.Split(f.widths, ",")
	}
}

func run(ctx context.Context, args []string) error {
	f, err := parseFlags(args)
	if err != nil {
		return err
	}
	if f.logLevel >= 0 {
		log.SetLevel(f.logLevel)
	}

	cfg := stress.DefaultConfig()
	if f.config != "" {
		if cfg, err = stress.LoadConfig(f.config); err != nil {
			return err
		}
	}
	f.apply(cfg)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	opts := stress.Options{Registerer: reg}
	if f.shmName != "" {
		region, err := shm.Open(ctx, shm.OpenOptions{Name: f.shmName, Size: cfg.RegionSize, Create: true, Dir: f.shmDir})
		if err != nil {
			return err
		}
		defer func() {
			if err := region.Close(); err != nil {
				logger.Warnf("close region: %v", err)
			}
		}()
		opts.Region = region
	}

	runner, err := stress.NewRunner(cfg, opts)
	if err != nil {
		return err
	}
	defer runner.Close()

	var srv *http.Server
	if f.serve != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		hc := health.NewHandler(runner.Region())
		mux.HandleFunc("/live", hc.LiveEndpoint)
		mux.HandleFunc("/ready", hc.ReadyEndpoint)
		srv = &http.Server{Addr: f.serve, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Errorf("serve %s: %v", f.serve, err)
			}
		}()
		logger.Infof("serving metrics and probes on %s", f.serve)
	}

	if err := health.SelfCheck(); err != nil {
		return err
	}
	rep, runErr := runner.Run(ctx)
	if rep != nil {
		if _, err := rep.WriteTo(os.Stdout); err != nil {
			return err
		}
	}

	if srv != nil {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("shutdown: %v", err)
		}
	}
	return runErr
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "atomicstress:", err)
		stop()
		os.Exit(1)
	}
}
