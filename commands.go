package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/jrwynneiii/airspyrx/config"
	"github.com/jrwynneiii/airspyrx/consumer"
	"github.com/jrwynneiii/airspyrx/demod"
	"github.com/jrwynneiii/airspyrx/metrics"
	"github.com/jrwynneiii/airspyrx/radio"
	"github.com/jrwynneiii/airspyrx/tui"
	"github.com/jrwynneiii/airspyrx/usbfs"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func probe(all bool) error {
	var devices []usbfs.DeviceInfo
	var err error
	if all {
		devices, err = usbfs.List()
	} else {
		devices, err = usbfs.Find(radio.VendorID, radio.ProductID)
	}
	if err != nil {
		return err
	}
	if len(devices) == 0 {
		log.Info("No devices found")
		return nil
	}
	for _, d := range devices {
		log.Infof("Found %v", d)
	}
	return nil
}

func info(conf config.Conf) error {
	a, err := radio.Open(conf.Airspy.Device, conf.Stream)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.BoardID()
	if err != nil {
		return err
	}
	version, err := a.VersionString()
	if err != nil {
		return err
	}
	part, err := a.PartIDSerialNo()
	if err != nil {
		return err
	}
	rates, err := a.SampleRates()
	if err != nil {
		return err
	}

	log.Infof("Board ID: %d (%s)", id, radio.BoardName(id))
	log.Infof("Firmware: %s", version)
	log.Infof("Part ID: 0x%08X 0x%08X", part.PartID[0], part.PartID[1])
	log.Infof("Serial: 0x%s", part.Serial())
	for i, r := range rates {
		v, prefix := humanize.ComputeSI(float64(r))
		log.Infof("Sample rate %d: %g %sSPS", i, v, prefix)
	}
	return nil
}

// configure applies the airspy section to a stopped session and returns the
// selected sample rate in Hz.
func configure(a *radio.Airspy, conf config.AirspyConf) (uint32, error) {
	rates, err := a.SampleRates()
	if err != nil {
		return 0, err
	}
	if conf.SampleRateIndex >= len(rates) {
		return 0, fmt.Errorf("sample rate index %d out of range, device supports %d rates", conf.SampleRateIndex, len(rates))
	}
	st, err := demod.ParseSampleType(conf.SampleType)
	if err != nil {
		return 0, err
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"sample rate", func() error { return a.SetSampleRate(conf.SampleRateIndex) }},
		{"frequency", func() error { return a.SetFrequency(conf.Frequency) }},
		{"lna agc", func() error { return a.SetLNAAGC(conf.LNAAGC) }},
		{"mixer agc", func() error { return a.SetMixerAGC(conf.MixerAGC) }},
		{"lna gain", func() error { return a.SetLNAGain(conf.LNAGain) }},
		{"mixer gain", func() error { return a.SetMixerGain(conf.MixerGain) }},
		{"vga gain", func() error { return a.SetVGAGain(conf.VGAGain) }},
		{"rf bias", func() error { return a.SetRFBias(conf.RFBias) }},
		{"packing", func() error { return a.SetPacking(conf.Packing) }},
		{"sample type", func() error { return a.SetSampleType(st) }},
		{"raw mode", func() error { return a.SetRawMode(conf.RawMode) }},
	}
	for _, s := range steps {
		log.Debugf("Configuring %s", s.name)
		if err := s.fn(); err != nil {
			return 0, err
		}
	}
	return rates[conf.SampleRateIndex], nil
}

// expectedRate is what AverageReceiveRate reports for a healthy stream.
// The ADC runs at twice the I/Q rate with 2 octets per real sample.
func expectedRate(sampleRate uint32, packing, raw bool) float64 {
	r := float64(sampleRate) * 4
	if packing && raw {
		r = r * 3 / 4
	}
	return r
}

// consume drains whichever queue the session exposes into mon.
func consume(ctx context.Context, a *radio.Airspy, mon *consumer.Monitor) error {
	var err error
	switch {
	case a.RawMode():
		q, qerr := a.RawQueue()
		p, perr := a.RawReturnPool()
		if err = errors.Join(qerr, perr); err == nil {
			err = consumer.Drain(ctx, a.Done(), q, p, mon.Raw)
		}
	case a.SampleType().IsFloat():
		q, qerr := a.FloatQueue()
		p, perr := a.FloatReturnPool()
		if err = errors.Join(qerr, perr); err == nil {
			err = consumer.Drain(ctx, a.Done(), q, p, mon.Float)
		}
	default:
		q, qerr := a.Int16Queue()
		p, perr := a.Int16ReturnPool()
		if err = errors.Join(qerr, perr); err == nil {
			err = consumer.Drain(ctx, a.Done(), q, p, mon.Int16)
		}
	}
	if errors.Is(err, consumer.ErrStreamEnded) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// session opens and configures the receiver, starts streaming and runs the
// consumer plus the watcher that stops the stream when ctx ends.
type session struct {
	a    *radio.Airspy
	mon  *consumer.Monitor
	rate uint32
	g    *errgroup.Group
	ctx  context.Context
}

func startSession(ctx context.Context, cancel context.CancelFunc, conf config.Conf, spectrum *consumer.Spectrum) (*session, error) {
	a, err := radio.Open(conf.Airspy.Device, conf.Stream)
	if err != nil {
		return nil, err
	}
	rate, err := configure(a, conf.Airspy)
	if err != nil {
		a.Close()
		return nil, err
	}
	if err := a.StartRX(); err != nil {
		a.Close()
		return nil, err
	}

	mon := consumer.NewMonitor(a.SampleType().IsIQ() && !a.RawMode(), spectrum)
	g, gctx := errgroup.WithContext(ctx)
	s := &session{a: a, mon: mon, rate: rate, g: g, ctx: gctx}

	g.Go(func() error { return consume(gctx, a, mon) })
	g.Go(func() error {
		defer cancel()
		select {
		case <-gctx.Done():
			if err := a.Stop(); err != nil {
				log.Errorf("%v", err)
			}
			<-a.Done()
			return nil
		case <-a.Done():
			return a.Err()
		}
	})
	return s, nil
}

func (s *session) wait() error {
	err := s.g.Wait()
	st := s.mon.Stats()
	log.Infof("Received %s packets in %v, consumed %s buffers (%s)",
		humanize.Comma(int64(s.a.PacketCounter())), s.a.ReceivingTime().Truncate(time.Millisecond),
		humanize.Comma(int64(st.Buffers)), humanize.Bytes(st.Octets))
	if cerr := s.a.Close(); cerr != nil {
		log.Errorf("closing device: %v", cerr)
	}
	return err
}

func signalContext(duration time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	var (
		cctx   context.Context
		cancel context.CancelFunc
	)
	if duration > 0 {
		cctx, cancel = context.WithTimeout(ctx, duration)
	} else {
		cctx, cancel = context.WithCancel(ctx)
	}
	return cctx, func() {
		cancel()
		stop()
	}
}

func rx(conf config.Conf, duration time.Duration) error {
	ctx, cancel := signalContext(duration)
	defer cancel()

	s, err := startSession(ctx, cancel, conf, nil)
	if err != nil {
		return err
	}

	if conf.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		if err := metrics.New(s.a, s.mon).Register(reg); err != nil {
			cancel()
			s.wait()
			return err
		}
		s.g.Go(func() error { return metrics.Serve(s.ctx, conf.Metrics.Listen, reg) })
	}

	s.g.Go(func() error {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-s.ctx.Done():
				return nil
			case <-s.a.Done():
				return nil
			case <-ticker.C:
				st := s.mon.Stats()
				log.Infof("%s packets, %s/s, %.1f dBFS, %d dropped",
					humanize.Comma(int64(s.a.PacketCounter())), humanize.Bytes(uint64(s.a.AverageReceiveRate())),
					st.Level.DBFS(), s.a.Dropped())
			}
		}
	})

	return s.wait()
}

func monitor(conf config.Conf) error {
	ctx, cancel := signalContext(0)
	defer cancel()

	spectrum := consumer.NewSpectrum(conf.Tui.FFTSize, conf.Tui.FFTBins)
	s, err := startSession(ctx, cancel, conf, spectrum)
	if err != nil {
		return err
	}

	devInfo := tui.DeviceInfo{
		Frequency:  conf.Airspy.Frequency,
		SampleRate: s.rate,
		SampleType: s.a.SampleType().String(),
		Packing:    s.a.Packing(),
		RawMode:    s.a.RawMode(),
	}
	if id, err := s.a.BoardID(); err == nil {
		devInfo.Board = radio.BoardName(id)
	}
	if v, err := s.a.VersionString(); err == nil {
		devInfo.Version = v
	}
	if p, err := s.a.PartIDSerialNo(); err == nil {
		devInfo.Serial = p.Serial()
	}

	uiErr := tui.StartUI(s.ctx, s.a, s.mon, devInfo, expectedRate(s.rate, s.a.Packing(), s.a.RawMode()), conf.Tui)
	cancel()
	log.SetOutput(os.Stderr)
	return errors.Join(uiErr, s.wait())
}
