// Package logflags configures per-component logrus loggers.
package logflags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var (
	loader  = false
	listing = false
	icache  = false
	cli     = false
)

var logOut io.Writer = os.Stderr

var errLogstrWithoutLog = errors.New("--log-output specified without --log")

func makeLogger(flag bool, fields logrus.Fields) *logrus.Entry {
	logger := logrus.New()
	logger.Out = logOut
	logger.Formatter = &logrus.TextFormatter{DisableTimestamp: true}
	logger.Level = logrus.DebugLevel
	if !flag {
		logger.Level = logrus.PanicLevel
	}
	return logger.WithFields(fields)
}

// Loader returns true if the loader package should log.
func Loader() bool {
	return loader
}

// LoaderLogger returns a logger for the loader package.
func LoaderLogger() *logrus.Entry {
	return makeLogger(loader, logrus.Fields{"layer": "loader"})
}

// Listing returns true if region disassembly should log.
func Listing() bool {
	return listing
}

// ListingLogger returns a logger for the listing package.
func ListingLogger() *logrus.Entry {
	return makeLogger(listing, logrus.Fields{"layer": "listing"})
}

// Cache returns true if instruction cache statistics should be logged.
func Cache() bool {
	return icache
}

// CacheLogger returns a logger for the instruction cache.
func CacheLogger() *logrus.Entry {
	return makeLogger(icache, logrus.Fields{"layer": "icache"})
}

// CLI returns true if the command line front end should log.
func CLI() bool {
	return cli
}

// CLILogger returns a logger for the command line front end.
func CLILogger() *logrus.Entry {
	return makeLogger(cli, logrus.Fields{"layer": "cli"})
}

// Setup enables the components named in the comma separated logstr. If
// logFlag is false nothing is enabled and logstr must be empty. A nil dest
// keeps logging on standard error.
func Setup(logFlag bool, logstr string, dest io.Writer) error {
	if dest != nil {
		logOut = dest
	}
	if !logFlag {
		if logstr != "" {
			return errLogstrWithoutLog
		}
		return nil
	}
	if logstr == "" {
		logstr = "cli"
	}
	for _, logcmd := range strings.Split(logstr, ",") {
		switch strings.TrimSpace(logcmd) {
		case "loader":
			loader = true
		case "listing":
			listing = true
		case "icache":
			icache = true
		case "cli":
			cli = true
		default:
			return fmt.Errorf("unknown log component %q", logcmd)
		}
	}
	return nil
}

// Reset disables every component and restores standard error as output.
func Reset() {
	loader = false
	listing = false
	icache = false
	cli = false
	logOut = os.Stderr
}
