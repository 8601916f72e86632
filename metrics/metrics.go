// Package metrics exports stream statistics to Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/airspyrx/consumer"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is the part of a receiver session the collectors read.
type Source interface {
	PacketCounter() uint64
	AverageReceiveRate() float64
	Receiving() bool
	Converted() uint64
	Dropped() uint64
}

type Collectors struct {
	Packets   prometheus.CounterFunc
	Converted prometheus.CounterFunc
	Dropped   prometheus.CounterFunc
	Rate      prometheus.GaugeFunc
	Receiving prometheus.GaugeFunc
	Consumed  prometheus.CounterFunc
	LevelDBFS prometheus.GaugeFunc
}

// New builds collectors over src and mon. mon may be nil.
func New(src Source, mon *consumer.Monitor) *Collectors {
	c := &Collectors{
		Packets: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "airspyrx_packets_received_total",
			Help: "Bulk transfers received since the stream started.",
		}, func() float64 { return float64(src.PacketCounter()) }),
		Converted: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "airspyrx_buffers_converted_total",
			Help: "Converted sample buffers delivered to the consumer.",
		}, func() float64 { return float64(src.Converted()) }),
		Dropped: prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "airspyrx_buffers_dropped_total",
			Help: "Converted buffers dropped on a full output queue.",
		}, func() float64 { return float64(src.Dropped()) }),
		Rate: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "airspyrx_receive_rate_bytes",
			Help: "Average receive rate in bytes per second.",
		}, src.AverageReceiveRate),
		Receiving: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "airspyrx_receiving",
			Help: "1 while the receiver is streaming.",
		}, func() float64 {
			if src.Receiving() {
				return 1
			}
			return 0
		}),
	}
	if mon != nil {
		c.Consumed = prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "airspyrx_buffers_consumed_total",
			Help: "Buffers drained by the consumer.",
		}, func() float64 { return float64(mon.Stats().Buffers) })
		c.LevelDBFS = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "airspyrx_signal_level_dbfs",
			Help: "RMS level of the last consumed buffer.",
		}, func() float64 { return mon.Stats().Level.DBFS() })
	}
	return c
}

func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{c.Packets, c.Converted, c.Dropped, c.Rate, c.Receiving} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	if c.Consumed != nil {
		if err := reg.Register(c.Consumed); err != nil {
			return err
		}
		if err := reg.Register(c.LevelDBFS); err != nil {
			return err
		}
	}
	return nil
}

// Serve exposes reg on addr under /metrics until ctx is cancelled.
func Serve(ctx context.Context, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Infof("[metrics] serving on http://%s/metrics", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
