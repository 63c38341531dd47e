package cli

import (
	"go.uber.org/zap"

	"github.com/temirov/summarize/internal/types"
)

const (
	logFieldPath = "path"
	logFieldKind = "kind"
)

// loggingWarningSink reports core warnings through the application logger.
type loggingWarningSink struct {
	logger *zap.Logger
}

func (sink loggingWarningSink) Warn(warning types.Warning) {
	sink.logger.Warn(warning.Message,
		zap.String(logFieldPath, warning.Path),
		zap.String(logFieldKind, string(warning.Kind)),
	)
}

var _ types.WarningSink = loggingWarningSink{}
