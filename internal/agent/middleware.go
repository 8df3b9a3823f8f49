package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/unitwise/unitwise/internal/conversion"
	"github.com/unitwise/unitwise/pkg/Logger"
	"github.com/unitwise/unitwise/pkg/assistant/adapters"
)

// ToolRequest carries one tool call through the middleware chain.
type ToolRequest struct {
	Call adapters.ContractToolCall
}

// ToolHandlerFunc runs a tool call and renders its outcome as the tool
// message fed back to the model.
type ToolHandlerFunc func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error)

type ToolMiddleware func(next ToolHandlerFunc) ToolHandlerFunc

// Chain wraps h so the first middleware listed is the outermost.
func Chain(h ToolHandlerFunc, mws ...ToolMiddleware) ToolHandlerFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// ErrorInterceptor converts a failed tool run into a readable tool message
// instead of aborting the turn. The model sees "Error: <description>" and
// can rephrase or pick another tool; the tracker records the failure.
func ErrorInterceptor(tracker *Tracker, logger *Logger.Logger) ToolMiddleware {
	return func(next ToolHandlerFunc) ToolHandlerFunc {
		return func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
			msg, err := next(ctx, req)
			if err == nil {
				return msg, nil
			}
			desc := err.Error()
			logger.Warnf("tool %s failed: %s", req.Call.ToolName, desc)
			tracker.RecordError(desc)
			return &adapters.ContractMessage{
				Role:       adapters.TOOL,
				Content:    fmt.Sprintf("Error: %s", desc),
				CreatedAt:  time.Now(),
				ToolCallID: req.Call.ID,
				ToolName:   req.Call.ToolName,
			}, nil
		}
	}
}

// ToolRetry re-runs a failed tool up to maxRetries extra attempts.
// Validation failures are deterministic so they surface immediately.
func ToolRetry(maxRetries int, logger *Logger.Logger) ToolMiddleware {
	return func(next ToolHandlerFunc) ToolHandlerFunc {
		return func(ctx context.Context, req ToolRequest) (*adapters.ContractMessage, error) {
			var msg *adapters.ContractMessage
			var err error
			for attempt := 0; attempt <= maxRetries; attempt++ {
				msg, err = next(ctx, req)
				if err == nil {
					return msg, nil
				}
				if conversion.IsMissingRequiredField(err) {
					return msg, err
				}
				if ctx.Err() != nil {
					return msg, err
				}
				if attempt < maxRetries {
					logger.Warnf("tool %s attempt %d failed, retrying: %v", req.Call.ToolName, attempt+1, err)
				}
			}
			return msg, err
		}
	}
}

// BeforeModelHook runs on the full message list before each model call.
type BeforeModelHook func(ctx context.Context, msgs []adapters.ContractMessage)

// LogMessages reports what is about to reach the model.
func LogMessages(logger *Logger.Logger) BeforeModelHook {
	return func(ctx context.Context, msgs []adapters.ContractMessage) {
		roles := make([]string, 0, len(msgs))
		for _, m := range msgs {
			roles = append(roles, string(m.Role))
		}
		logger.Infof("model call with %d messages: %v", len(msgs), roles)
	}
}
