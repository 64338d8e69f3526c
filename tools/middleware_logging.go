package tools

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// WithLogging creates middleware that logs tool calls.
func WithLogging(logger *slog.Logger) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			toolName := contextToolName(ctx)

			logger.Debug("tool call start", "tool", toolName)
			start := time.Now()

			result, err := next(ctx, args)

			duration := time.Since(start)
			if err != nil {
				logger.Warn("tool call error",
					"tool", toolName,
					"duration", duration,
					"error", err,
				)
			} else {
				logger.Debug("tool call success",
					"tool", toolName,
					"duration", duration,
				)
			}

			return result, err
		}
	}
}

// WithDetailedLogging creates middleware that logs tool calls with arguments
// and results.
// WARNING: May log sensitive data. Use only in development.
func WithDetailedLogging(logger *slog.Logger) Middleware {
	return func(next ToolCallFunc) ToolCallFunc {
		return func(ctx context.Context, args json.RawMessage) (any, error) {
			toolName := contextToolName(ctx)

			logger.Debug("tool call", "tool", toolName, "args", string(args))
			start := time.Now()

			result, err := next(ctx, args)

			duration := time.Since(start)
			if err != nil {
				logger.Warn("tool error",
					"tool", toolName,
					"duration", duration,
					"error", err,
				)
			} else {
				resultJSON, _ := json.Marshal(result)
				logger.Debug("tool result",
					"tool", toolName,
					"duration", duration,
					"result", string(resultJSON),
				)
			}

			return result, err
		}
	}
}

func contextToolName(ctx context.Context) string {
	if tc := ToolContextFromContext(ctx); tc != nil {
		return tc.ToolName
	}
	return "unknown"
}
