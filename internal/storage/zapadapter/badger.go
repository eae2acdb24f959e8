package zapadapter

import "go.uber.org/zap"

// BadgerLogger satisfies badger.Logger. badger is chatty at info level
// (compactions, value log GC) so its info messages are logged at debug.
type BadgerLogger struct {
	logger *zap.SugaredLogger
}

func NewBadgerLogger(logger *zap.SugaredLogger) *BadgerLogger {
	return &BadgerLogger{logger: logger.Named("badger").WithOptions(zap.AddCallerSkip(1))}
}

func (bl *BadgerLogger) Errorf(format string, args ...interface{}) {
	bl.logger.Errorf(format, args...)
}

func (bl *BadgerLogger) Warningf(format string, args ...interface{}) {
	bl.logger.Warnf(format, args...)
}

func (bl *BadgerLogger) Infof(format string, args ...interface{}) {
	bl.logger.Debugf(format, args...)
}

func (bl *BadgerLogger) Debugf(format string, args ...interface{}) {
	bl.logger.Debugf(format, args...)
}
