package digest

import (
	"context"
	"encoding/json"
	"fmt"

	"tldw/pkg/messenger"
)

// Target is the messenger context name the orchestrator listens on.
const Target = "background"

// SummarizeRequest is the messenger payload for a summarization call.
type SummarizeRequest struct {
	VideoID string `json:"video_id"`
	Title   string `json:"title,omitempty"`
}

// SummarizeResponse is the messenger payload for a completed call.
type SummarizeResponse struct {
	Result *Result `json:"result,omitempty"`
	Detail string  `json:"detail,omitempty"`
}

// Register exposes the orchestrator on a messenger router, mirroring how a
// foreground surface would reach the summarizing context.
func (o *Orchestrator) Register(r *messenger.Router) {
	r.Handle(Target, "summarize", func(ctx context.Context, msg messenger.Message) (json.RawMessage, error) {
		var req SummarizeRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode summarize request: %w", err)
		}

		result, err := o.Summarize(ctx, req.VideoID, req.Title)
		if err != nil {
			return nil, fmt.Errorf("%s", Describe(err))
		}

		return json.Marshal(SummarizeResponse{Result: result})
	})

	r.Handle(Target, "status", func(_ context.Context, msg messenger.Message) (json.RawMessage, error) {
		var req SummarizeRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return nil, fmt.Errorf("decode status request: %w", err)
		}
		return json.Marshal(map[string]string{"state": o.State(req.VideoID).String()})
	})
}
