// Package logging builds the process logger; the terminal owns stdout so logs only ever go to a file
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultDir  = "logs"
	FileName    = "stagefx.log"
	MaxFileSize = 10 * 1024 * 1024
)

// Setup returns a no-op logger unless debug is set, in which case it logs JSON at debug level to dir/FileName
// An existing file over MaxFileSize is rotated aside with a timestamp suffix
// The returned close func syncs and closes the file and is never nil
func Setup(debug bool, dir string) (*zap.Logger, func() error, error) {
	if !debug {
		return zap.NewNop(), func() error { return nil }, nil
	}
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	if err := rotate(path); err != nil {
		return nil, nil, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), zap.NewAtomicLevelAt(zapcore.DebugLevel))
	logger := zap.New(core, zap.AddCaller())

	closeFn := func() error {
		_ = logger.Sync()
		return f.Close()
	}
	return logger, closeFn, nil
}

func rotate(path string) error {
	info, err := os.Stat(path)
	if err != nil || info.Size() <= MaxFileSize {
		return nil
	}
	stamp := time.Now().Format("20060102-150405")
	rotated := fmt.Sprintf("%s.%s.log", path[:len(path)-len(filepath.Ext(path))], stamp)
	if err := os.Rename(path, rotated); err != nil {
		return fmt.Errorf("rotate log file: %w", err)
	}
	return nil
}
