package config

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalid = errors.New("invalid configuration")

type AirspyConf struct {
	// Device is a usbfs node such as /dev/bus/usb/001/004. Empty picks the
	// first Airspy found in sysfs.
	Device          string `koanf:"device"`
	Frequency       uint32 `koanf:"frequency"`
	SampleRateIndex int    `koanf:"sample_rate_index"`
	SampleType      string `koanf:"sample_type"`
	Packing         bool   `koanf:"packing"`
	RawMode         bool   `koanf:"raw_mode"`
	LNAGain         int    `koanf:"lna_gain"`
	MixerGain       int    `koanf:"mixer_gain"`
	VGAGain         int    `koanf:"vga_gain"`
	LNAAGC          bool   `koanf:"lna_agc"`
	MixerAGC        bool   `koanf:"mixer_agc"`
	RFBias          bool   `koanf:"rf_bias"`
}

type StreamConf struct {
	// PacketSize is the unpacked size of one bulk transfer in octets.
	PacketSize         int           `koanf:"packet_size"`
	Transfers          int           `koanf:"transfers"`
	RawQueueSize       int           `koanf:"raw_queue_size"`
	ConvertedQueueSize int           `koanf:"converted_queue_size"`
	PoolAcquireTimeout time.Duration `koanf:"pool_acquire_timeout"`
	QueueOfferTimeout  time.Duration `koanf:"queue_offer_timeout"`
	PoolRefillTimeout  time.Duration `koanf:"pool_refill_timeout"`
	ConverterTimeout   time.Duration `koanf:"converter_timeout"`
	ControlTimeout     time.Duration `koanf:"control_timeout"`
}

type TuiConf struct {
	RefreshMs       int  `koanf:"refresh_ms"`
	FFTSize         int  `koanf:"fft_size"`
	FFTBins         int  `koanf:"fft_bins"`
	EnableLogOutput bool `koanf:"enable_log_output"`
}

type MetricsConf struct {
	Listen string `koanf:"listen"`
}

type Conf struct {
	Airspy  AirspyConf  `koanf:"airspy"`
	Stream  StreamConf  `koanf:"stream"`
	Tui     TuiConf     `koanf:"tui"`
	Metrics MetricsConf `koanf:"metrics"`
}

func DefaultStream() StreamConf {
	return StreamConf{
		PacketSize:         16384,
		Transfers:          16,
		RawQueueSize:       16,
		ConvertedQueueSize: 20,
		PoolAcquireTimeout: time.Second,
		QueueOfferTimeout:  time.Second,
		PoolRefillTimeout:  10 * time.Second,
		ConverterTimeout:   time.Second,
		ControlTimeout:     time.Second,
	}
}

func Default() Conf {
	return Conf{
		Airspy: AirspyConf{
			Frequency:  100000000,
			SampleType: "int16_iq",
			LNAGain:    8,
			MixerGain:  8,
			VGAGain:    8,
		},
		Stream: DefaultStream(),
		Tui: TuiConf{
			RefreshMs:       500,
			FFTSize:         1024,
			FFTBins:         128,
			EnableLogOutput: true,
		},
	}
}

func (s StreamConf) Validate() error {
	switch {
	case s.PacketSize <= 0 || s.PacketSize%2048 != 0:
		// Packed transfers are 3/4 of this and must stay a whole number of
		// 512 octet USB packets and 12 octet packing blocks.
		return fmt.Errorf("%w: stream.packet_size %d is not a positive multiple of 2048", ErrInvalid, s.PacketSize)
	case s.Transfers <= 0:
		return fmt.Errorf("%w: stream.transfers must be positive", ErrInvalid)
	case s.RawQueueSize <= 0 || s.ConvertedQueueSize <= 0:
		return fmt.Errorf("%w: queue sizes must be positive", ErrInvalid)
	case s.PoolAcquireTimeout <= 0 || s.QueueOfferTimeout <= 0 || s.PoolRefillTimeout <= 0 || s.ConverterTimeout <= 0 || s.ControlTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalid)
	}
	return nil
}

func (a AirspyConf) Validate() error {
	switch {
	case a.LNAGain < 0 || a.LNAGain > 14:
		return fmt.Errorf("%w: airspy.lna_gain %d outside 0-14", ErrInvalid, a.LNAGain)
	case a.MixerGain < 0 || a.MixerGain > 15:
		return fmt.Errorf("%w: airspy.mixer_gain %d outside 0-15", ErrInvalid, a.MixerGain)
	case a.VGAGain < 0 || a.VGAGain > 15:
		return fmt.Errorf("%w: airspy.vga_gain %d outside 0-15", ErrInvalid, a.VGAGain)
	case a.SampleRateIndex < 0:
		return fmt.Errorf("%w: airspy.sample_rate_index must not be negative", ErrInvalid)
	}
	return nil
}

func (c Conf) Validate() error {
	if err := c.Airspy.Validate(); err != nil {
		return err
	}
	if err := c.Stream.Validate(); err != nil {
		return err
	}
	if c.Tui.RefreshMs <= 0 || c.Tui.FFTSize <= 0 || c.Tui.FFTBins <= 0 {
		return fmt.Errorf("%w: tui values must be positive", ErrInvalid)
	}
	return nil
}
