// Copyright (C) 2024, Galactic Council. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path"
	"sync"

	"github.com/ava-labs/avalanchego/utils/logging"
	"gopkg.in/natefinch/lumberjack.v2"
)

// logFactory writes every logger to a rotated file and, unless display is
// disabled, to stderr. Stdout is left to step responses.
type logFactory struct {
	config logging.Config
	lock   sync.Mutex

	loggers map[string]logging.Logger
}

func newLogFactory(config logging.Config) *logFactory {
	return &logFactory{
		config:  config,
		loggers: make(map[string]logging.Logger),
	}
}

func (f *logFactory) Make(name string) (logging.Logger, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if _, ok := f.loggers[name]; ok {
		return nil, fmt.Errorf("logger with name %q already exists", name)
	}
	config := f.config
	config.LoggerName = name

	var consoleWriter io.WriteCloser = os.Stderr
	if config.DisableWriterDisplaying {
		consoleWriter = discardWriteCloser{io.Discard}
	}
	consoleCore := logging.NewWrappedCore(config.DisplayLevel, consoleWriter, logging.Colors.ConsoleEncoder())
	consoleCore.WriterDisabled = config.DisableWriterDisplaying

	rw := &lumberjack.Logger{
		Filename:   path.Join(config.Directory, name+".log"),
		MaxSize:    config.MaxSize,  // megabytes
		MaxAge:     config.MaxAge,   // days
		MaxBackups: config.MaxFiles, // files
		Compress:   config.Compress,
	}
	fileCore := logging.NewWrappedCore(config.LogLevel, rw, config.LogFormat.FileEncoder())

	l := logging.NewLogger(config.LogFormat.WrapPrefix(config.MsgPrefix), consoleCore, fileCore)
	f.loggers[name] = l
	return l, nil
}

func (f *logFactory) Close() {
	f.lock.Lock()
	defer f.lock.Unlock()

	for _, l := range f.loggers {
		l.Stop()
	}
	f.loggers = nil
}

type discardWriteCloser struct {
	io.Writer
}

func (discardWriteCloser) Close() error {
	return nil
}
