package logger

import (
	"go.uber.org/zap"
)

func New(env string) *zap.SugaredLogger {
	if env == "development" {
		l, _ := zap.NewDevelopment()
		return l.Sugar()
	}
	l, _ := zap.NewProduction()
	return l.Sugar()
}
