package log

import (
	"go.uber.org/zap"
)

var Logger *zap.Logger = zap.NewNop()

// InitLogger swaps the no-op logger for a development or production one.
func InitLogger(dev bool) {
	var (
		l   *zap.Logger
		err error
	)
	if dev {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	Logger = l.Named("moodlequiz")
}

func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}
