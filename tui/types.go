package tui

import (
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/airspyrx/consumer"
	"github.com/rivo/tview"
)

// Receiver is the part of a receiver session the monitor displays.
type Receiver interface {
	PacketCounter() uint64
	PacketSize() int
	AverageReceiveRate() float64
	ReceivingTime() time.Duration
	Receiving() bool
	Converted() uint64
	Dropped() uint64
}

// DeviceInfo is read once before streaming starts.
type DeviceInfo struct {
	Board      string
	Version    string
	Serial     string
	Frequency  uint32
	SampleRate uint32
	SampleType string
	Packing    bool
	RawMode    bool
}

type StreamStats struct {
	Receiving     bool
	Packets       uint64
	PacketSize    int
	Rate          float64
	ReceivingTime time.Duration
	Converted     uint64
	Dropped       uint64
	Consumed      uint64
	Level         consumer.Level
}

func snapshot(rx Receiver, mon *consumer.Monitor) StreamStats {
	s := StreamStats{
		Receiving:     rx.Receiving(),
		Packets:       rx.PacketCounter(),
		PacketSize:    rx.PacketSize(),
		Rate:          rx.AverageReceiveRate(),
		ReceivingTime: rx.ReceivingTime(),
		Converted:     rx.Converted(),
		Dropped:       rx.Dropped(),
	}
	if mon != nil {
		ms := mon.Stats()
		s.Consumed = ms.Buffers
		s.Level = ms.Level
	}
	return s
}

type StreamTableData struct {
	tview.TableContentReadOnly

	mu    sync.RWMutex
	stats StreamStats
}

func (d *StreamTableData) Set(s StreamStats) {
	d.mu.Lock()
	d.stats = s
	d.mu.Unlock()
}

func (d *StreamTableData) GetRowCount() int {
	return 8
}

func (d *StreamTableData) GetColumnCount() int {
	return 2
}

func (d *StreamTableData) GetCell(row, column int) *tview.TableCell {
	d.mu.RLock()
	s := d.stats
	d.mu.RUnlock()

	labels := []string{
		"Receiving:",
		"Packets Rx'd:",
		"Packet Size:",
		"Receive Rate:",
		"Receiving Time:",
		"Buffers Converted:",
		"Buffers Dropped:",
		"Buffers Consumed:",
	}
	if row < 0 || row >= len(labels) {
		return tview.NewTableCell("ERROR")
	}
	if column == 0 {
		return tview.NewTableCell("[lightskyblue]" + labels[row])
	}

	switch row {
	case 0:
		color := tcell.ColorGreen
		if !s.Receiving {
			color = tcell.ColorRed
		}
		return tview.NewTableCell(fmt.Sprintf("%v", s.Receiving)).SetTextColor(color)
	case 1:
		return tview.NewTableCell(humanize.Comma(int64(s.Packets)))
	case 2:
		return tview.NewTableCell(humanize.IBytes(uint64(s.PacketSize)))
	case 3:
		return tview.NewTableCell(humanize.Bytes(uint64(s.Rate)) + "/s")
	case 4:
		return tview.NewTableCell(s.ReceivingTime.Truncate(time.Second).String())
	case 5:
		return tview.NewTableCell(humanize.Comma(int64(s.Converted)))
	case 6:
		if s.Dropped == 0 {
			return tview.NewTableCell("[green]0")
		}
		return tview.NewTableCell(fmt.Sprintf("[red]%s", humanize.Comma(int64(s.Dropped))))
	case 7:
		return tview.NewTableCell(humanize.Comma(int64(s.Consumed)))
	}
	return tview.NewTableCell("ERROR")
}

type DeviceTableData struct {
	tview.TableContentReadOnly
	Info DeviceInfo
}

func (d *DeviceTableData) GetRowCount() int {
	return 6
}

func (d *DeviceTableData) GetColumnCount() int {
	return 2
}

func (d *DeviceTableData) GetCell(row, column int) *tview.TableCell {
	if column == 0 {
		switch row {
		case 0:
			return tview.NewTableCell("[lightskyblue]Board:")
		case 1:
			return tview.NewTableCell("[lightskyblue]Firmware:")
		case 2:
			return tview.NewTableCell("[lightskyblue]Serial:")
		case 3:
			return tview.NewTableCell("[lightskyblue]Frequency:")
		case 4:
			return tview.NewTableCell("[lightskyblue]Sample Rate:")
		case 5:
			return tview.NewTableCell("[lightskyblue]Format:")
		}
		return tview.NewTableCell("ERROR")
	}

	switch row {
	case 0:
		return tview.NewTableCell(d.Info.Board)
	case 1:
		return tview.NewTableCell(d.Info.Version)
	case 2:
		return tview.NewTableCell(d.Info.Serial)
	case 3:
		return tview.NewTableCell(formatHz(float64(d.Info.Frequency)))
	case 4:
		return tview.NewTableCell(formatHz(float64(d.Info.SampleRate)))
	case 5:
		format := d.Info.SampleType
		if d.Info.RawMode {
			format = "raw"
		}
		if d.Info.Packing {
			format += ", packed"
		}
		return tview.NewTableCell(format)
	}
	return tview.NewTableCell("ERROR")
}

func formatHz(hz float64) string {
	v, prefix := humanize.ComputeSI(hz)
	return fmt.Sprintf("%g %sHz", v, prefix)
}

// levelPercent maps a dBFS level onto 0-100 for the gauges, -100 dBFS and
// below being empty.
func levelPercent(dbfs float64) float64 {
	return min(100, max(0, dbfs+100))
}
