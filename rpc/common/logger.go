package common

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/lni/dragonboat/v4/logger"
)

// Names of the loggers used throughout dWire
var loggerNames = []string{"openwire", "transport", "server", "client"}

var installFactory sync.Once

// --------------------------------------------------------------------------
// Custom Logger (implements dragonboats logger.ILogger)
// --------------------------------------------------------------------------

// dWireLogger implements the ILogger interface with custom formatting
type dWireLogger struct {
	name   string
	level  logger.LogLevel
	logger *log.Logger
}

func (l *dWireLogger) SetLevel(level logger.LogLevel) {
	l.level = level
}

func (l *dWireLogger) Debugf(format string, args ...interface{}) {
	if l.level >= logger.DEBUG {
		l.log("DEBUG", format, args...)
	}
}

func (l *dWireLogger) Infof(format string, args ...interface{}) {
	if l.level >= logger.INFO {
		l.log("INFO", format, args...)
	}
}

func (l *dWireLogger) Warningf(format string, args ...interface{}) {
	if l.level >= logger.WARNING {
		l.log("WARN", format, args...)
	}
}

func (l *dWireLogger) Errorf(format string, args ...interface{}) {
	if l.level >= logger.ERROR {
		l.log("ERROR", format, args...)
	}
}

func (l *dWireLogger) Panicf(format string, args ...interface{}) {
	if l.level >= logger.CRITICAL {
		panic(fmt.Sprintf(format, args...))
	}
}

func (l *dWireLogger) log(levelStr string, format string, args ...interface{}) {
	l.logger.Printf("%-5s | %-10s | %s", levelStr, l.name, fmt.Sprintf(format, args...))
}

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger implements dragonboats logger.Factory
func CreateLogger(pkgName string) logger.ILogger {
	return &dWireLogger{
		name:   pkgName,
		level:  logger.INFO,
		logger: log.New(os.Stderr, "", log.Ldate|log.Ltime),
	}
}

// ParseLogLevel converts a string level to logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers installs the custom factory and sets the level of all dWire loggers
func InitLoggers(level string) error {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return err
	}
	installFactory.Do(func() { logger.SetLoggerFactory(CreateLogger) })
	for _, name := range loggerNames {
		logger.GetLogger(name).SetLevel(lvl)
	}
	return nil
}
