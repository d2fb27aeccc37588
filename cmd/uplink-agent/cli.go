package main

import (
	"flag"
	"time"
)

// Options holds CLI options for the agent.
type Options struct {
	ConfigPath string
	Interval   time.Duration
	Payload    string
}

// ParseFlags parses CLI flags from args and returns Options.
func ParseFlags(args []string) Options {
	fs := flag.NewFlagSet("uplink-agent", flag.ExitOnError)
	var opts Options
	fs.StringVar(&opts.ConfigPath, "config", "", "Path to YAML config file")
	fs.DurationVar(&opts.Interval, "interval", 3*time.Second, "Delay between send cycles")
	fs.StringVar(&opts.Payload, "payload", "[data]", "Payload sent every cycle")
	_ = fs.Parse(args)
	return opts
}
