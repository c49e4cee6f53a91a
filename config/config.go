package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrUsage is returned for invalid command line arguments.
var ErrUsage = errors.New("usage: payledger [--config file.yaml] [--log-level level] [--no-header] [--no-trim] [--summary] [transactions.csv]")

const defaultLogLevel = "warn"

type Config struct {
	// Input is the transactions file; empty means standard input.
	Input    string
	LogLevel string
	Header   bool
	Trim     bool
	Summary  bool
}

type ConfigTmp struct {
	LogLevel string `yaml:"log_level,omitempty"`
	Header   *bool  `yaml:"header,omitempty"`
	Trim     *bool  `yaml:"trim,omitempty"`
	Summary  *bool  `yaml:"summary,omitempty"`
}

// Get builds the configuration from command line arguments (without the
// program name). Flags override values read from --config.
func Get(args []string) (Config, error) {
	fs := flag.NewFlagSet("payledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	configPath := fs.String("config", "", "path to yaml config")
	logLevel := fs.String("log-level", defaultLogLevel, "log level: debug, info, warn or error")
	noHeader := fs.Bool("no-header", false, "input has no header row")
	noTrim := fs.Bool("no-trim", false, "keep whitespace around input fields")
	summary := fs.Bool("summary", false, "print a run summary to stderr")

	if err := fs.Parse(args); err != nil {
		return Config{}, errors.Wrap(ErrUsage, err.Error())
	}
	if fs.NArg() > 1 {
		return Config{}, errors.Wrapf(ErrUsage, "expected at most one input file, got %d", fs.NArg())
	}

	conf := Config{
		Input:    fs.Arg(0),
		LogLevel: defaultLogLevel,
		Header:   true,
		Trim:     true,
	}

	if *configPath != "" {
		if err := getYaml(*configPath, &conf); err != nil {
			return Config{}, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-level":
			conf.LogLevel = *logLevel
		case "no-header":
			conf.Header = !*noHeader
		case "no-trim":
			conf.Trim = !*noTrim
		case "summary":
			conf.Summary = *summary
		}
	})

	conf.LogLevel = strings.ToLower(conf.LogLevel)
	if !isValidLogLevel(conf.LogLevel) {
		return Config{}, fmt.Errorf("invalid log level %q, must be one of debug, info, warn, error", conf.LogLevel)
	}

	return conf, nil
}

func getYaml(path string, conf *Config) error {
	var tmp ConfigTmp

	f, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read yaml config")
	}
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return errors.Wrapf(err, "incorrect yaml config %s", path)
	}

	if tmp.LogLevel != "" {
		conf.LogLevel = tmp.LogLevel
	}
	if tmp.Header != nil {
		conf.Header = *tmp.Header
	}
	if tmp.Trim != nil {
		conf.Trim = *tmp.Trim
	}
	if tmp.Summary != nil {
		conf.Summary = *tmp.Summary
	}

	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
