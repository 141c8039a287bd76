package client

import (
	"context"
	"io"
	"net/http"

	"github.com/apitestkit/apitestkit/pkg/sse"
)

// ClarifyRequest asks the assistant to refine a case description.
type ClarifyRequest struct {
	CaseID  int64  `json:"case_id,omitempty"`
	Content string `json:"content"`
	Prompt  string `json:"prompt"`
}

// Clarify streams the assistant's response. onEvent is called once per
// decoded frame; returning an error aborts the stream.
func (c *Client) Clarify(ctx context.Context, req ClarifyRequest, onEvent func(sse.Event) error) error {
	return c.stream(ctx, http.MethodPost, "/api/assistant/clarify", req, func(body io.Reader) error {
		return sse.Stream(body, onEvent)
	})
}
