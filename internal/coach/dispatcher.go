package coach

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/skillbridge/internal/ai"
	"github.com/spigell/skillbridge/internal/utils"
)

const maxLogLength = 200

// dispatcher performs one request against the reasoning service.
type dispatcher struct {
	assistant ai.Assistant
	timeout   time.Duration
	logger    *zap.Logger
}

// send asks the assistant and returns the normalized content.
// Every failure, a timeout included, is returned as an error and never retried.
func (d *dispatcher) send(ctx context.Context, text string, sc SessionContext) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	req := ai.NewRequest(text, sc.ResumeText, sc.TargetRole)

	d.logger.Debug("sending request",
		zap.String("message_preview", utils.TruncateForLog(req.Message, maxLogLength)),
		zap.Int("context_length", utf8.RuneCountInString(req.Context)),
	)

	reply, err := d.assistant.Ask(ctx, req)
	if err != nil {
		return "", err
	}
	if reply == nil {
		return "", fmt.Errorf("%w: no reply", ai.ErrUnexpectedReply)
	}

	content := Normalize(reply)

	d.logger.Debug("got reply",
		zap.Bool("structured", reply.Structured),
		zap.Int("plan_entries", len(reply.Plan)),
		zap.String("content_preview", utils.TruncateForLog(content, maxLogLength)),
	)

	return content, nil
}
