package logger

import "sync"

type LoggerArg struct {
	Key   string
	Value string
}

type GlobalLoggerConfig struct {
	Args []LoggerArg
}

var (
	defaultLogger *Logger
	onceLogger    sync.Once
)

func InitDefaultLogger(config GlobalLoggerConfig) {
	onceLogger.Do(func() {
		instance := New()
		ctx := instance.With()
		for _, arg := range config.Args {
			ctx = ctx.Str(arg.Key, arg.Value)
		}
		instance.zl = ctx.Logger()
		defaultLogger = instance
	})
}

// Default returns the process logger. Initializes a plain logger when
// InitDefaultLogger was never called, so library code and tests can log
// without bootstrap.
func Default() *Logger {
	if defaultLogger == nil {
		onceLogger.Do(func() {
			defaultLogger = New()
		})
	}
	return defaultLogger
}
