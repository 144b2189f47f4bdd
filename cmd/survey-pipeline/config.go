package main

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/theimaginaryfoundation/pulse-lens/survey"
)

type Config struct {
	ResponsesPath string
	BaseDir       string
	ConfigPath    string

	Model  string
	Period string

	FromStage string
	OnlyStage string

	SkipNarrate bool
	Pretty      bool
	Overwrite   bool
}

func (c Config) Validate() error {
	if c.ResponsesPath == "" {
		return errors.New("missing -responses")
	}
	if c.BaseDir == "" {
		return errors.New("missing -base-dir")
	}
	if c.Model == "" && !c.SkipNarrate {
		return errors.New("missing -model (or pass -skip-narrate)")
	}
	if c.Period != "" {
		if _, err := survey.ParsePeriod(c.Period); err != nil {
			return err
		}
	}
	if c.OnlyStage != "" && c.FromStage != "" {
		return errors.New("use only one of -only-stage or -from-stage")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		ResponsesPath: filepath.FromSlash("exports/responses.csv"),
		BaseDir:       filepath.FromSlash("artifacts"),
		Model:         "gpt-5-mini",
		Period:        survey.CurrentPeriod(time.Now()).String(),
	}
}
