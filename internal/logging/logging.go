package logging

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// NewConsole builds the console logger used for operator diagnostics.
// Debug mode switches to the development config with debug level enabled.
func NewConsole(debug bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// NewRunLog builds a JSON logger that appends run events to the given
// file, one event per line. The run log is an audit trail of what each
// invocation read and wrote; it is separate from console diagnostics.
func NewRunLog(path string) (*zap.SugaredLogger, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
