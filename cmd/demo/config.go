package main

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

type DemoConfig struct {
	// DEMO_COLOURS enables colorized output for better readability
	Colours bool `envconfig:"DEMO_COLOURS" default:"true"`
	// DEMO_STEP_DELAY paces the scripted walkthrough so logs stay readable
	StepDelay time.Duration `envconfig:"DEMO_STEP_DELAY" default:"100ms"`
}

func LoadDemoConfig() (DemoConfig, error) {
	var cfg DemoConfig
	err := envconfig.Process("", &cfg)
	return cfg, err
}
