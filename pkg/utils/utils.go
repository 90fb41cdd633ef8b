package utils

import (
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	glog "github.com/labstack/gommon/log"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/platypusllc/analytics/pkg/conversions"
)

const (
	EnvProcs       = "PLATYPUS_PROCS"
	EnvTolerance   = "PLATYPUS_OUTLIER_TOLERANCE"
	EnvLogLevel    = "PLATYPUS_LOG_LEVEL"
	EnvECThreshold = "PLATYPUS_EC_THRESHOLD"
)

// Settings are the options shared by the command line tools.
type Settings struct {
	Procs       int
	Tolerance   float64
	LogLevel    string
	ECThreshold float64 // zero disables trimming
}

func DefaultSettings() Settings {
	return Settings{
		Procs:     runtime.NumCPU(),
		Tolerance: conversions.DefaultOutlierTolerance,
		LogLevel:  "info",
	}
}

// LoadEnv loads variables from a .env file without overriding the ones
// already set. A missing file is not an error.
func LoadEnv(envFilePath string) {
	if envFilePath == "" {
		envFilePath = ".env"
	}
	if _, err := os.Stat(envFilePath); err != nil {
		log.Debugf("no .env file at %s", envFilePath)
		return
	}
	log.Infof("Loading .env file from %s", envFilePath)
	if err := godotenv.Load(envFilePath); err != nil {
		log.Warnf("Error loading .env file %s: %v", envFilePath, err)
	}
}

// SettingsFromEnv returns DefaultSettings overridden by any PLATYPUS_
// variables in the environment.
func SettingsFromEnv() (Settings, error) {
	s := DefaultSettings()
	if v, ok := os.LookupEnv(EnvProcs); ok {
		procs, err := strconv.Atoi(v)
		if err != nil || procs < 1 {
			return s, errors.Errorf("%s must be a positive integer, got %q", EnvProcs, v)
		}
		s.Procs = procs
	}
	if v, ok := os.LookupEnv(EnvTolerance); ok {
		tolerance, err := strconv.ParseFloat(v, 64)
		if err != nil || tolerance <= 0 {
			return s, errors.Errorf("%s must be a positive number of meters, got %q", EnvTolerance, v)
		}
		s.Tolerance = tolerance
	}
	if v, ok := os.LookupEnv(EnvECThreshold); ok {
		threshold, err := strconv.ParseFloat(v, 64)
		if err != nil || threshold < 0 {
			return s, errors.Errorf("%s must be a non-negative number, got %q", EnvECThreshold, v)
		}
		s.ECThreshold = threshold
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		s.LogLevel = v
	}
	return s, nil
}

var gommonLevels = map[log.Level]glog.Lvl{
	log.TraceLevel: glog.DEBUG,
	log.DebugLevel: glog.DEBUG,
	log.InfoLevel:  glog.INFO,
	log.WarnLevel:  glog.WARN,
	log.ErrorLevel: glog.ERROR,
	log.FatalLevel: glog.ERROR,
	log.PanicLevel: glog.ERROR,
}

// ConfigureLogging sets the level of both loggers used by the packages and
// sends gommon's output where logrus writes, stderr unless changed.
func ConfigureLogging(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	log.SetLevel(lvl)
	glog.SetLevel(gommonLevels[lvl])
	glog.SetOutput(log.StandardLogger().Out)
	return nil
}
