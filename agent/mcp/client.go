// Package mcp speaks the MCP server's JSON-RPC tools/call protocol over a
// single HTTP POST endpoint and normalizes every failure into a
// customer-facing sentence.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	contractx "github.com/techmart/support-chat/agent/contract"
)

// Customer-facing failure strings. The streaming layer sends these
// verbatim, so wording changes are user-visible.
const (
	msgTimeout         = "Request timed out. Please try again with a shorter query."
	msgConnectFailed   = "Unable to connect to product database. Please check your connection and try again."
	msgUnexpected      = "An unexpected error occurred. Please try again or contact support if this continues."
	msgNotFound        = "Service not found. Please contact support if this continues."
	msgServerError     = "Service temporarily unavailable. Please try again in a few moments."
	msgBusy            = "Service is busy. Please wait a moment and try again."
	msgOtherStatus     = "Unable to connect to product database. Please try again later."
	msgDecodeFailed    = "Service temporarily unavailable. Please try again later."
	msgUnexpectedShape = "Unable to process your request at this time. Please try again."
)

var errDecodeBody = errors.New("decode mcp response body")

type Config struct {
	URL     string        `envconfig:"URL" split_words:"true" required:"true"`
	Timeout time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

type Client struct {
	serverURL  string
	httpClient *http.Client
}

var _ contractx.ToolGateway = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	serverURL := strings.TrimSpace(cfg.URL)
	if serverURL == "" {
		return nil, errors.New("mcp server url is required")
	}
	if _, err := url.ParseRequestURI(serverURL); err != nil {
		return nil, fmt.Errorf("invalid mcp server url: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		serverURL: serverURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type rpcRequest struct {
	Jsonrpc string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int       `json:"id"`
}

type rpcParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Invoke posts a single tools/call request and returns the raw envelope.
// Non-200 statuses are not errors: the envelope carries the status and an
// empty result so callers can apply their own wording. The returned error
// covers transport and body-decoding failures only.
func (c *Client) Invoke(ctx context.Context, req contractx.ToolRequest) (*contractx.ToolEnvelope, error) {
	payload, err := json.Marshal(rpcRequest{
		Jsonrpc: "2.0",
		Method:  "tools/call",
		Params: rpcParams{
			Name:      req.Tool,
			Arguments: req.Args,
		},
		ID: req.CorrelationID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal tool request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build tool request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	log.Debug().Str("tool", req.Tool).Int("id", req.CorrelationID).Msg("sending mcp request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug().Str("tool", req.Tool).Int("status", resp.StatusCode).Msg("mcp response")

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &contractx.ToolEnvelope{Status: resp.StatusCode}, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errDecodeBody, err)
	}

	var env contractx.ToolEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errDecodeBody, err)
	}
	env.Status = resp.StatusCode
	return &env, nil
}

// CallTool executes the request and maps every failure mode to its
// customer-facing sentence.
func (c *Client) CallTool(ctx context.Context, req contractx.ToolRequest) contractx.ToolOutcome {
	env, err := c.Invoke(ctx, req)
	if err != nil {
		if errors.Is(err, errDecodeBody) {
			log.Warn().Err(err).Str("tool", req.Tool).Msg("invalid mcp response body")
			return contractx.ToolOutcome{Failure: msgDecodeFailed}
		}
		failure := transportFailure(err)
		log.Warn().Err(err).Str("tool", req.Tool).Msg("mcp call failed")
		return contractx.ToolOutcome{Failure: failure}
	}

	if env.Status != http.StatusOK {
		return contractx.ToolOutcome{Failure: statusFailure(env.Status)}
	}

	if env.HasResult() {
		text, ok := ExtractText(env.Result)
		if !ok {
			return contractx.ToolOutcome{Failure: msgUnexpectedShape}
		}
		return contractx.ToolOutcome{Content: text}
	}

	if env.Error != nil {
		message := env.Error.Message
		if message == "" {
			message = "Unknown MCP error"
		}
		log.Warn().Str("tool", req.Tool).Str("error", message).Msg("mcp returned error")
		return contractx.ToolOutcome{Failure: fmt.Sprintf("Service temporarily unavailable: %s. Please try again later.", message)}
	}

	log.Warn().Str("tool", req.Tool).Msg("unexpected mcp response structure")
	return contractx.ToolOutcome{Failure: msgUnexpectedShape}
}

func transportFailure(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return msgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return msgTimeout
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return msgConnectFailed
	}
	return msgUnexpected
}

func statusFailure(status int) string {
	switch {
	case status == http.StatusNotFound:
		return msgNotFound
	case status >= http.StatusInternalServerError:
		return msgServerError
	case status == http.StatusTooManyRequests:
		return msgBusy
	default:
		return msgOtherStatus
	}
}
