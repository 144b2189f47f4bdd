package main

import (
	"errors"
	"path/filepath"
	"strings"
)

type Config struct {
	InPath      string
	OutPath     string
	ConfigPath  string
	Pretty      bool
	Overwrite   bool
	ShowColumns bool
}

func (c Config) Validate() error {
	if c.InPath == "" {
		return errors.New("missing -in")
	}
	ext := strings.ToLower(filepath.Ext(c.InPath))
	if ext != ".csv" && ext != ".jsonl" {
		return errors.New("-in must be a .csv or .jsonl file")
	}
	if c.OutPath == "" {
		return errors.New("missing -out")
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		InPath:  filepath.FromSlash("exports/responses.csv"),
		OutPath: filepath.FromSlash("artifacts/aggregate.json"),
	}
}
