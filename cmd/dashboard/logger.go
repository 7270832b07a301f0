package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"trading-dashboard-client/internal/config"
)

// newLogger 创建 JSON 日志，输出到 stderr；配置了 log_file 时同时写入滚动文件
func newLogger(app config.AppConfig) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(app.LogLevel); err != nil {
		lvl = zapcore.InfoLevel
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	enc := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(enc, zapcore.Lock(os.Stderr), lvl),
	}
	if app.LogFile != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   app.LogFile,
			MaxSize:    app.LogMaxSizeMB,
			MaxBackups: app.LogMaxBackups,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(enc.Clone(), sink, lvl))
	}

	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named(app.Name)
}
