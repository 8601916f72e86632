package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/jrwynneiii/airspyrx/config"
	"github.com/jrwynneiii/airspyrx/consumer"
	"github.com/navidys/tvxwidgets"
	"github.com/rivo/tview"
)

var LogOut *tview.TextView

func newGauge(label string, warn, crit float64) *tvxwidgets.UtilModeGauge {
	g := tvxwidgets.NewUtilModeGauge()
	g.SetLabel(label)
	g.SetLabelColor(tcell.ColorLightSkyBlue)
	g.SetWarnPercentage(warn)
	g.SetCritPercentage(crit)
	g.SetEmptyColor(tcell.ColorBlack)
	g.SetBorder(false)
	return g
}

// StartUI runs the monitor until ctx is cancelled or the user quits.
// expectedRate is the device output in bytes per second, used to scale the
// throughput gauge.
func StartUI(ctx context.Context, rx Receiver, mon *consumer.Monitor, info DeviceInfo, expectedRate float64, tuiConf config.TuiConf) error {
	app := tview.NewApplication()

	LogOut = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWordWrap(true)

	streamData := &StreamTableData{}
	deviceData := &DeviceTableData{Info: info}
	streamTable := tview.NewTable().SetContent(streamData)
	deviceTable := tview.NewTable().SetContent(deviceData)

	spectrumPlot := tvxwidgets.NewPlot()
	spectrumPlot.SetLineColor([]tcell.Color{tcell.ColorLightSkyBlue})
	spectrumPlot.SetMarker(tvxwidgets.PlotMarkerBraille)

	rateGauge := newGauge("Throughput:        ", 101, 102)
	levelGauge := newGauge("Signal Level:      ", 95, 99)
	peakGauge := newGauge("Peak Level:        ", 90, 99)

	gaugeBox := tview.NewFlex()
	gaugeBox.SetDirection(tview.FlexRow)
	gaugeBox.AddItem(rateGauge, 0, 1, false)
	gaugeBox.AddItem(levelGauge, 0, 1, false)
	gaugeBox.AddItem(peakGauge, 0, 1, false)
	gaugeBox.SetTitle("Signal Stats")
	gaugeBox.SetBorder(true)

	LogOut.SetChangedFunc(func() {
		LogOut.ScrollToEnd()
		app.Draw()
	})

	LogOut.SetBorder(true).SetTitle("Log Output")
	if tuiConf.EnableLogOutput {
		log.SetOutput(LogOut)
	}
	streamTable.SetSelectable(false, false).SetBorder(true).SetTitle("Stream")
	deviceTable.SetSelectable(false, false).SetBorder(true).SetTitle("Device")

	spectrumPlot.SetBorder(true)
	spectrumPlot.SetTitle("Spectrum (dB)")

	page := tview.NewFlex().SetDirection(tview.FlexColumn)

	leftCol := tview.NewFlex().SetDirection(tview.FlexRow)
	leftCol.AddItem(deviceTable, 0, 1, false)
	leftCol.AddItem(streamTable, 0, 2, false)

	rightCol := tview.NewFlex().SetDirection(tview.FlexRow)
	rightCol.AddItem(gaugeBox, 0, 1, false)
	if mon != nil && mon.Spectrum != nil {
		rightCol.AddItem(spectrumPlot, 0, 3, false)
	}
	if tuiConf.EnableLogOutput {
		rightCol.AddItem(LogOut, 0, 2, false)
	}

	page.AddItem(leftCol, 0, 2, false)
	page.AddItem(rightCol, 0, 5, false)

	go func() {
		<-ctx.Done()
		app.Stop()
	}()

	go func() {
		refresh := time.Duration(tuiConf.RefreshMs) * time.Millisecond
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(refresh):
			}

			s := snapshot(rx, mon)
			streamData.Set(s)

			if expectedRate > 0 {
				rateGauge.SetValue(min(100, 100*s.Rate/expectedRate))
			}
			levelGauge.SetValue(levelPercent(s.Level.DBFS()))
			if s.Level.Peak > 0 {
				peakGauge.SetValue(levelPercent(20 * math.Log10(s.Level.Peak)))
			}

			if mon != nil && mon.Spectrum != nil {
				if bins := mon.Spectrum.Current(); len(bins) > 0 {
					spectrumPlot.SetData([][]float64{bins})
				}
			}

			app.Draw()
		}
	}()

	if err := app.SetRoot(page, true).EnableMouse(true).Run(); err != nil {
		return fmt.Errorf("could not start UI: %w", err)
	}
	return nil
}
