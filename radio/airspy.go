package radio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/airspyrx/config"
	"github.com/jrwynneiii/airspyrx/demod"
	"github.com/jrwynneiii/airspyrx/pool"
	"github.com/jrwynneiii/airspyrx/usbfs"
)

const (
	VendorID  = 0x1d50
	ProductID = 0x60a1

	endpointIn = 0x81
)

// Vendor requests understood by the Airspy firmware.
const (
	reqReceiverMode      = 1
	reqSI5351CWrite      = 2
	reqSI5351CRead       = 3
	reqR820TWrite        = 4
	reqR820TRead         = 5
	reqSPIFlashErase     = 6
	reqSPIFlashWrite     = 7
	reqSPIFlashRead      = 8
	reqBoardIDRead       = 9
	reqVersionStringRead = 10
	reqPartIDSerialRead  = 11
	reqSetSampleRate     = 12
	reqSetFreq           = 13
	reqSetLNAGain        = 14
	reqSetMixerGain      = 15
	reqSetVGAGain        = 16
	reqSetLNAAGC         = 17
	reqSetMixerAGC       = 18
	reqMSVendorCmd       = 19
	reqSetRFBiasCmd      = 20
	reqGPIOWrite         = 21
	reqGPIORead          = 22
	reqGPIODirWrite      = 23
	reqGPIODirRead       = 24
	reqGetSampleRates    = 25
	reqSetPacking        = 26
)

type ReceiverMode int32

const (
	ModeOff ReceiverMode = iota
	ModeReceive
)

func (m ReceiverMode) String() string {
	switch m {
	case ModeOff:
		return "off"
	case ModeReceive:
		return "receive"
	}
	return fmt.Sprintf("ReceiverMode(%d)", int32(m))
}

var (
	// ErrValidation marks values rejected before anything reaches the device.
	ErrValidation   = errors.New("validation failed")
	ErrInvalidValue = fmt.Errorf("%w: value out of range", ErrValidation)
	ErrReceiving    = fmt.Errorf("%w: not allowed while receiving", ErrValidation)

	ErrTransport     = errors.New("usb transport error")
	ErrRejected      = errors.New("device rejected request")
	ErrUnavailable   = errors.New("stream unavailable")
	ErrPoolExhausted = errors.New("buffer pool exhausted")
	ErrQueueFull     = errors.New("sample queue full")
	ErrNotFound      = errors.New("no airspy found")
)

type worker interface {
	Run()
	Stop()
	Done() <-chan struct{}
	Converted() uint64
	Dropped() uint64
}

// Airspy is an open device session. Control calls may come from any
// goroutine. Sample type, packing and raw mode only change while the
// receiver is off.
type Airspy struct {
	conn Conn
	conf config.StreamConf

	mu         sync.Mutex
	mode       atomic.Int32
	sampleType demod.SampleType
	packing    bool
	rawMode    bool

	packetCounter atomic.Uint64
	startTime     atomic.Int64

	// Set by StartRX and kept until the next start.
	streamRaw  bool
	rawQueue   *pool.Queue[[]byte]
	rawPool    *pool.Queue[[]byte]
	int16Queue *pool.Queue[[]int16]
	int16Pool  *pool.Queue[[]int16]
	floatQueue *pool.Queue[[]float32]
	floatPool  *pool.Queue[[]float32]
	converter  worker
	done       chan struct{}

	// active is the stream the receive loop is reading, nil once it exits.
	activeMu sync.Mutex
	active   BulkStream

	errMu sync.Mutex
	err   error
}

// New wraps an open connection. The session starts with the receiver off,
// int16 I/Q samples and packing disabled.
func New(conn Conn, conf config.StreamConf) (*Airspy, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Airspy{
		conn:       conn,
		conf:       conf,
		sampleType: demod.Int16IQ,
	}, nil
}

// Open opens path, or the first Airspy in sysfs when path is empty.
func Open(path string, conf config.StreamConf) (*Airspy, error) {
	if path == "" {
		devices, err := usbfs.Find(VendorID, ProductID)
		if err != nil {
			return nil, fmt.Errorf("scan usb devices: %w", err)
		}
		if len(devices) == 0 {
			return nil, ErrNotFound
		}
		path = devices[0].Path
		log.Debugf("[radio] using %v", devices[0])
	}

	dev, err := usbfs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	a, err := New(usbConn{dev}, conf)
	if err != nil {
		dev.Close()
		return nil, err
	}
	return a, nil
}

// Close stops the receiver if needed and releases the device.
func (a *Airspy) Close() error {
	if a.Mode() == ModeReceive {
		if err := a.Stop(); err != nil {
			log.Errorf("[radio] stop on close: %v", err)
		}
	}
	a.mu.Lock()
	done := a.done
	a.mu.Unlock()
	if done != nil {
		<-done
	}
	return a.conn.Close()
}

func (a *Airspy) Mode() ReceiverMode {
	return ReceiverMode(a.mode.Load())
}

func (a *Airspy) Receiving() bool {
	return a.Mode() == ModeReceive
}

// busy reports whether the receiver is on or a receive loop is still
// shutting down. Callers hold mu.
func (a *Airspy) busy() bool {
	if a.Mode() != ModeOff {
		return true
	}
	if a.done == nil {
		return false
	}
	select {
	case <-a.done:
		return false
	default:
		return true
	}
}

func (a *Airspy) SampleType() demod.SampleType {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sampleType
}

func (a *Airspy) SetSampleType(st demod.SampleType) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy() {
		return fmt.Errorf("set sample type: %w", ErrReceiving)
	}
	if !st.Valid() {
		return fmt.Errorf("set sample type %v: %w", st, ErrInvalidValue)
	}
	a.sampleType = st
	return nil
}

func (a *Airspy) RawMode() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.rawMode
}

// SetRawMode makes the raw queue the consumer interface and skips conversion.
func (a *Airspy) SetRawMode(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy() {
		return fmt.Errorf("set raw mode: %w", ErrReceiving)
	}
	a.rawMode = enabled
	return nil
}

func (a *Airspy) Packing() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.packing
}

// SetPacking switches the device wire format between 16 and 12 bits per sample.
func (a *Airspy) SetPacking(enabled bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy() {
		return fmt.Errorf("set packing: %w", ErrReceiving)
	}
	if err := a.setParam("set packing", reqSetPacking, boolIndex(enabled)); err != nil {
		return err
	}
	a.packing = enabled
	return nil
}

// SetReceiverMode records mode and sends it to the device. Switching off
// also cancels the transfers of a running stream so the receive loop ends.
func (a *Airspy) SetReceiverMode(mode ReceiverMode) error {
	if mode != ModeOff && mode != ModeReceive {
		return fmt.Errorf("set receiver mode %v: %w", mode, ErrInvalidValue)
	}
	a.mode.Store(int32(mode))
	n, err := a.conn.Control(usbfs.DirOut|usbfs.TypeVendor|usbfs.RecipientDevice, reqReceiverMode, uint16(mode), 0, nil, a.conf.ControlTimeout)
	if mode == ModeOff {
		a.activeMu.Lock()
		if a.active != nil {
			a.active.Cancel()
		}
		a.activeMu.Unlock()
	}
	if err != nil {
		return fmt.Errorf("set receiver mode: %w: %w", ErrTransport, err)
	}
	if n != 0 {
		return fmt.Errorf("set receiver mode: %w: unexpected %d octet reply", ErrTransport, n)
	}
	return nil
}

func (a *Airspy) BoardID() (uint8, error) {
	buf := make([]byte, 1)
	if err := a.readExact("read board id", reqBoardIDRead, 0, buf); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func BoardName(id uint8) string {
	if id == 0 {
		return "AIRSPY"
	}
	return "INVALID BOARD ID"
}

func (a *Airspy) VersionString() (string, error) {
	buf := make([]byte, 255)
	n, err := a.controlIn(reqVersionStringRead, 0, buf)
	if err != nil {
		return "", fmt.Errorf("read version: %w", err)
	}
	if n < 1 {
		return "", fmt.Errorf("read version: %w: empty reply", ErrTransport)
	}
	buf = buf[:n]
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}

type PartIDSerial struct {
	PartID   [2]uint32
	SerialNo [4]uint32
}

// Serial formats the 64-bit serial number the way the Airspy tools print it.
func (p PartIDSerial) Serial() string {
	return fmt.Sprintf("%08X%08X", p.SerialNo[2], p.SerialNo[3])
}

func (a *Airspy) PartIDSerialNo() (PartIDSerial, error) {
	var p PartIDSerial
	buf := make([]byte, 8+16)
	if err := a.readExact("read part id and serial", reqPartIDSerialRead, 0, buf); err != nil {
		return p, err
	}
	for i := range p.PartID {
		p.PartID[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	for i := range p.SerialNo {
		p.SerialNo[i] = binary.LittleEndian.Uint32(buf[8+4*i:])
	}
	return p, nil
}

// SampleRates returns the supported rates in Hz. Their positions are the
// indices accepted by SetSampleRate.
func (a *Airspy) SampleRates() ([]uint32, error) {
	buf := make([]byte, 4)
	if err := a.readExact("read sample rate count", reqGetSampleRates, 0, buf); err != nil {
		return nil, err
	}
	count := binary.LittleEndian.Uint32(buf)
	if count == 0 || count > 0xFFFF/4 {
		return nil, fmt.Errorf("read sample rates: %w: device reports %d rates", ErrTransport, count)
	}
	log.Debugf("[radio] device supports %d sample rates", count)

	buf = make([]byte, 4*count)
	if err := a.readExact("read sample rates", reqGetSampleRates, uint16(count), buf); err != nil {
		return nil, err
	}
	rates := make([]uint32, count)
	for i := range rates {
		rates[i] = binary.LittleEndian.Uint32(buf[4*i:])
	}
	return rates, nil
}

func (a *Airspy) SetSampleRate(index int) error {
	if index < 0 || index > 0xFFFF {
		return fmt.Errorf("set sample rate index %d: %w", index, ErrInvalidValue)
	}
	return a.setParam("set sample rate", reqSetSampleRate, uint16(index))
}

// SetFrequency tunes the receiver to hz.
func (a *Airspy) SetFrequency(hz uint32) error {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, hz)
	log.Debugf("[radio] tuning to %d Hz", hz)
	n, err := a.conn.Control(usbfs.DirOut|usbfs.TypeVendor|usbfs.RecipientDevice, reqSetFreq, 0, 0, buf, a.conf.ControlTimeout)
	if err != nil {
		return fmt.Errorf("set frequency: %w: %w", ErrTransport, err)
	}
	if n != len(buf) {
		return fmt.Errorf("set frequency: %w: short transfer (%d of %d octets)", ErrTransport, n, len(buf))
	}
	return nil
}

func (a *Airspy) SetLNAGain(gain int) error {
	if gain < 0 || gain > 14 {
		return fmt.Errorf("set lna gain %d: %w (0-14)", gain, ErrInvalidValue)
	}
	return a.setParam("set lna gain", reqSetLNAGain, uint16(gain))
}

func (a *Airspy) SetMixerGain(gain int) error {
	if gain < 0 || gain > 15 {
		return fmt.Errorf("set mixer gain %d: %w (0-15)", gain, ErrInvalidValue)
	}
	return a.setParam("set mixer gain", reqSetMixerGain, uint16(gain))
}

func (a *Airspy) SetVGAGain(gain int) error {
	if gain < 0 || gain > 15 {
		return fmt.Errorf("set vga gain %d: %w (0-15)", gain, ErrInvalidValue)
	}
	return a.setParam("set vga gain", reqSetVGAGain, uint16(gain))
}

func (a *Airspy) SetLNAAGC(enabled bool) error {
	return a.setParam("set lna agc", reqSetLNAAGC, boolIndex(enabled))
}

func (a *Airspy) SetMixerAGC(enabled bool) error {
	return a.setParam("set mixer agc", reqSetMixerAGC, boolIndex(enabled))
}

// SetRFBias powers the antenna port bias tee.
func (a *Airspy) SetRFBias(enabled bool) error {
	return a.setParam("set rf bias", reqSetRFBiasCmd, boolIndex(enabled))
}

func boolIndex(b bool) uint16 {
	if b {
		return 1
	}
	return 0
}

func (a *Airspy) controlIn(req uint8, index uint16, buf []byte) (int, error) {
	n, err := a.conn.Control(usbfs.DirIn|usbfs.TypeVendor|usbfs.RecipientDevice, req, 0, index, buf, a.conf.ControlTimeout)
	if err != nil {
		return n, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	return n, nil
}

func (a *Airspy) readExact(op string, req uint8, index uint16, buf []byte) error {
	n, err := a.controlIn(req, index, buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n != len(buf) {
		return fmt.Errorf("%s: %w: short transfer (%d of %d octets)", op, ErrTransport, n, len(buf))
	}
	return nil
}

// setParam sends a one-octet status request. A negative status octet means
// the firmware refused the value.
func (a *Airspy) setParam(op string, req uint8, index uint16) error {
	status := make([]byte, 1)
	if err := a.readExact(op, req, index, status); err != nil {
		return err
	}
	if int8(status[0]) < 0 {
		return fmt.Errorf("%s: %w (status %d)", op, ErrRejected, int8(status[0]))
	}
	return nil
}
