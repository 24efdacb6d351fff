// Package logging builds the process logger and adapts it to the scoring
// trace so decisions can be shipped as structured records.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/forkscope/forkscope/pkg/scoring"
)

// New builds a logger writing to stderr. Verbose lowers the level to debug
// and switches to the console encoder.
func New(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		config.Encoding = "console"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// TraceSink returns a scoring.Sink that writes each event to logger at
// info level. Row markers are logged at debug.
func TraceSink(logger *zap.Logger) scoring.Sink {
	return &traceSink{logger: logger.Named("trace")}
}

type traceSink struct {
	logger *zap.Logger
}

func (s *traceSink) Emit(e scoring.Event) {
	fields := []zap.Field{
		zap.String("kind", string(e.Kind)),
		zap.Int("row", e.Row),
		zap.Int("forks", e.Forks),
	}
	if e.Column != "" {
		fields = append(fields, zap.String("column", e.Column))
	}
	if e.Feature != "" {
		fields = append(fields, zap.String("feature", e.Feature))
	}
	if e.Value != "" {
		fields = append(fields, zap.String("value", e.Value))
	}
	if e.Label != "" {
		fields = append(fields, zap.String("label", e.Label))
	}

	switch e.Kind {
	case scoring.EventRow:
		s.logger.Debug("row", fields...)
	case scoring.EventRowSkipped:
		s.logger.Info(e.Note, fields...)
	case scoring.EventScore:
		fields = append(fields, zap.Int("delta", e.Delta))
		s.logger.Info(e.Note, fields...)
	default:
		s.logger.Debug(e.Note, fields...)
	}
}
