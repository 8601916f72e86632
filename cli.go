package main

import "time"

var cli struct {
	Verbose bool   `help:"Prints debug output by default"`
	Profile bool   `help:"Output a pprof profile"`
	Config  string `help:"Config file to use instead of the default search path" type:"path"`

	Probe struct {
		All bool `help:"List every USB device, not only Airspy receivers"`
	} `cmd:"" help:"List the Airspy receivers attached to this machine"`
	Info struct {
	} `cmd:"" help:"Print board id, firmware version, serial number and sample rates"`
	Rx struct {
		Duration    time.Duration `help:"Stop after this long (0 runs until interrupted)"`
		MetricsAddr string        `help:"Serve Prometheus metrics on this address (overrides metrics.listen)"`
	} `cmd:"" help:"Stream samples and log throughput once per second"`
	Monitor struct {
	} `cmd:"" help:"Stream samples and show the live monitor"`
}
