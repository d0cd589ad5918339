package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/odvcencio/chooser/pkg/config"
	"github.com/odvcencio/chooser/pkg/logging"
	"github.com/odvcencio/chooser/pkg/selector"
	"github.com/odvcencio/chooser/pkg/telemetry"
)

// sessionTelemetry collects metrics and events for one pick or rank run.
// Events are copied to the debug log; metrics are written to the
// configured textfile when the run ends.
type sessionTelemetry struct {
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
	hub      *telemetry.Hub
	path     string
	drained  chan struct{}
}

func newSessionTelemetry(cfg *config.Config, logger *logging.Logger) *sessionTelemetry {
	reg := prometheus.NewRegistry()
	st := &sessionTelemetry{
		registry: reg,
		metrics:  telemetry.NewMetrics(reg),
		hub:      telemetry.NewHub(logger.SessionID()),
		path:     cfg.Telemetry.MetricsFile,
		drained:  make(chan struct{}),
	}
	events, _ := st.hub.Subscribe()
	go func() {
		defer close(st.drained)
		for ev := range events {
			logger.Debug(logging.CategorySelector, string(ev.Type), "selector activity", ev.Data)
		}
	}()
	return st
}

// observer feeds the selector's activity to both metrics and the hub.
func (st *sessionTelemetry) observer() selector.Observer {
	return telemetry.Fanout(st.metrics, telemetry.HubObserver{Hub: st.hub})
}

// finish stops event forwarding and writes the metrics snapshot.
func (st *sessionTelemetry) finish() error {
	st.hub.Close()
	<-st.drained
	if st.path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(st.path, st.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
