package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/jrwynneiii/airspyrx/config"

	"github.com/knadh/koanf/parsers/hcl"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var configFile = koanf.New(".")

func getConfigPath() string {
	if cli.Config != "" {
		return cli.Config
	}
	paths := []string{"/etc/airspyrx/config.hcl", "~/.config/airspyrx/config.hcl", "./config.hcl"}
	for _, path := range paths {
		if strings.HasPrefix(path, "~/") {
			home, err := os.UserHomeDir()
			if err != nil {
				continue
			}
			path = filepath.Join(home, path[2:])
		}
		if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
			log.Infof("Found config file: %s", path)
			return path
		}
	}
	log.Info("Config file not found, using defaults")
	return ""
}

func loadConfig() (config.Conf, error) {
	conf := config.Default()

	if path := getConfigPath(); path != "" {
		if err := configFile.Load(file.Provider(path), hcl.Parser(true)); err != nil {
			return conf, fmt.Errorf("could not read config file %s: %w", path, err)
		}
	}

	err := configFile.Load(env.Provider(".", env.Opt{
		Prefix: "AIRSPYRX_",
		TransformFunc: func(k, v string) (string, any) {
			key := strings.ToLower(strings.TrimPrefix(k, "AIRSPYRX_"))
			k = strings.Replace(key, "_", ".", 1)
			log.Debugf("Found config env var: %s=%v", k, v)
			return k, v
		},
	}), nil)
	if err != nil {
		return conf, fmt.Errorf("could not read environment: %w", err)
	}

	if err := configFile.Unmarshal("", &conf); err != nil {
		return conf, fmt.Errorf("could not decode config: %w", err)
	}
	return conf, conf.Validate()
}

func main() {
	flags := kong.Parse(&cli)
	if cli.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	log.Info("Starting airspyrx")

	if cli.Profile {
		prof, err := os.Create("./cpu.pprof")
		if err != nil {
			log.Fatalf("Could not create profile: %v", err)
		}
		pprof.StartCPUProfile(prof)
		defer pprof.StopCPUProfile()
	}

	conf, err := loadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Debugf("Loaded config: %+v", conf)

	switch flags.Command() {
	case "probe":
		err = probe(cli.Probe.All)
	case "info":
		err = info(conf)
	case "rx":
		if cli.Rx.MetricsAddr != "" {
			conf.Metrics.Listen = cli.Rx.MetricsAddr
		}
		err = rx(conf, cli.Rx.Duration)
	case "monitor":
		err = monitor(conf)
	default:
		log.Info("Command not recognized")
	}
	if err != nil {
		log.Errorf("%s: %v", flags.Command(), err)
		pprof.StopCPUProfile()
		os.Exit(1)
	}
}
