package log

import (
	"fmt"
	"os"

	"github.com/AMD-AGI/Primus-Bench/pkg/logger/conf"
	"github.com/sirupsen/logrus"
)

type Fields map[string]interface{}

var globalLogger *logrus.Logger
var ErrorLoggerNotInitialize = fmt.Errorf("Logger not initialized")

func init() {
	_ = InitGlobalLogger(conf.DefaultConfig())
}

func InitGlobalLogger(cfg *conf.LogConfig) error {
	cfg.Normalize()

	l := logrus.New()
	l.SetOutput(os.Stderr)

	level, err := logrus.ParseLevel(string(cfg.Level))
	if err != nil {
		return err
	}
	l.SetLevel(level)

	switch cfg.Formatter {
	case conf.JSONFormater:
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	globalLogger = l
	return nil
}

func GlobalLogger() *logrus.Logger {
	if globalLogger == nil {
		panic(ErrorLoggerNotInitialize)
	}
	return globalLogger
}

func WithFields(fields Fields) *logrus.Entry {
	return GlobalLogger().WithFields(logrus.Fields(fields))
}

func Info(args ...interface{}) {
	GlobalLogger().Info(args...)
}

func Infof(template string, args ...interface{}) {
	GlobalLogger().Infof(template, args...)
}

func Debug(args ...interface{}) {
	GlobalLogger().Debug(args...)
}

func Debugf(template string, args ...interface{}) {
	GlobalLogger().Debugf(template, args...)
}

func Warn(args ...interface{}) {
	GlobalLogger().Warn(args...)
}

func Warnf(template string, args ...interface{}) {
	GlobalLogger().Warnf(template, args...)
}

func Error(args ...interface{}) {
	GlobalLogger().Error(args...)
}

func Errorf(template string, args ...interface{}) {
	GlobalLogger().Errorf(template, args...)
}

func Fatal(args ...interface{}) {
	GlobalLogger().Fatal(args...)
}

func Fatalf(template string, args ...interface{}) {
	GlobalLogger().Fatalf(template, args...)
}
