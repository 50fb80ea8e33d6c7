package backend

import (
	"context"
	"net/http"
	"strings"

	"annunciator/internal/services"
)

// Info is the backend's self-description.
type Info struct {
	Message string `json:"message"`
	Version string `json:"version"`
	Docs    string `json:"docs"`
}

// Ping reads the backend root document. It verifies reachability and that a
// credential is configured.
func (c *Client) Ping(ctx context.Context) (Info, error) {
	const op = "ping backend"
	resp, err := c.do(ctx, call{
		op:     op,
		method: http.MethodGet,
		target: "/",
		kind:   services.KindTransport,
	})
	if err != nil {
		return Info{}, err
	}
	var info Info
	if err := decodeJSON(op, services.KindTransport, resp.body, &info); err != nil {
		return Info{}, err
	}
	info.Message = strings.TrimSpace(info.Message)
	return info, nil
}
