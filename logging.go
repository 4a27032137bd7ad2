package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SetupLogging initializes the logging module. In production all logs
// go to the configured file as json. In development the same logs are
// printed to standard output as well. Stacktraces are kept for fatal
// level only and every entry carries the commit & tag values.
func SetupLogging(config *Config, logFile *os.File) (*zap.Logger, func()) {
	encConfig := zap.NewProductionEncoderConfig()
	encConfig.TimeKey = "ts"
	encConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encConfig.LevelKey = "lvl"
	encConfig.MessageKey = "msg"
	encConfig.CallerKey = "caller"
	encConfig.StacktraceKey = "skt"
	fileEncoder := zapcore.NewJSONEncoder(encConfig)

	var core zapcore.Core
	if config.IsProduction {
		core = zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), config.LogLevel)
	} else {
		consoleEncoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
		core = zapcore.NewTee(
			zapcore.NewCore(fileEncoder, zapcore.AddSync(logFile), config.LogLevel),
			zapcore.NewCore(consoleEncoder, zapcore.Lock(os.Stdout), config.LogLevel),
		)
	}

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel))
	logger = logger.With(
		zap.String("app.commit", config.GitCommit),
		zap.String("app.tag", config.GitTag),
		zap.String("app.built", config.BuildTime),
	)

	flusher := func() {
		if err := logger.Sync(); err != nil {
			fmt.Println("error during flushing of logs: ", err)
		}
	}
	return logger, flusher
}
