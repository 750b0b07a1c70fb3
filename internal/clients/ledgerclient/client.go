package ledgerclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"

	"github.com/tao-colosseum/colosseum-validator/internal/config"
	"github.com/tao-colosseum/colosseum-validator/internal/types"
)

const (
	blockEndpoint   = "/v1/block"
	weightsEndpoint = "/v1/weights"
)

type Client struct {
	httpClient *http.Client
	cfg        *config.LedgerConfig
}

func NewClient(cfg *config.LedgerConfig) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
	}
}

type blockResponse struct {
	Block uint64 `json:"block"`
}

func (c *Client) CurrentBlock(ctx context.Context) (uint64, error) {
	callForBlock := func() (*blockResponse, error) {
		var resp blockResponse
		if err := c.get(ctx, blockEndpoint, &resp); err != nil {
			return nil, err
		}
		return &resp, nil
	}

	resp, err := clientCallWithRetry(callForBlock, c.cfg)
	if err != nil {
		return 0, fmt.Errorf("failed to get current ledger block: %w", err)
	}
	return resp.Block, nil
}

type submitRequest struct {
	Weights []Weight `json:"weights"`
}

type submitResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// SubmitWeights posts the score vector. A 429 from the ledger means the
// minimum commit interval has not elapsed on its side; that is returned as
// a RateLimited error without retrying, everything else retries per config.
func (c *Client) SubmitWeights(ctx context.Context, weights []Weight) error {
	callForSubmit := func() (*submitResponse, error) {
		var resp submitResponse
		if err := c.post(ctx, weightsEndpoint, submitRequest{Weights: weights}, &resp); err != nil {
			return nil, err
		}
		if !resp.Accepted {
			return nil, fmt.Errorf("ledger rejected the weight vector: %s", resp.Reason)
		}
		return &resp, nil
	}

	_, err := clientCallWithRetry(callForSubmit, c.cfg)
	if err != nil {
		if types.IsRateLimited(err) {
			return err
		}
		return fmt.Errorf("failed to submit weights: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	u, err := c.endpoint(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	u, err := c.endpoint(path)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return types.NewErrorWithMsg(
			resp.StatusCode,
			types.RateLimited,
			"ledger rejected the submission as too soon after the previous one",
		)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("ledger returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) endpoint(path string) (string, error) {
	u, err := url.JoinPath(c.cfg.Endpoint, path)
	if err != nil {
		return "", fmt.Errorf("invalid ledger endpoint %q: %w", c.cfg.Endpoint, err)
	}
	return u, nil
}

func clientCallWithRetry[T any](
	call retry.RetryableFuncWithData[*T], cfg *config.LedgerConfig,
) (*T, error) {
	result, err := retry.DoWithData(call, retry.Attempts(cfg.MaxRetryTimes), retry.Delay(cfg.RetryInterval), retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// rate-limit rejections are deferrals, not transient failures
			return !types.IsRateLimited(err)
		}),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Uint("attempt", n+1).
				Uint("max_attempts", cfg.MaxRetryTimes).
				Err(err).
				Msg("failed to call the ledger client")
		}))
	if err != nil {
		return nil, err
	}
	return result, nil
}
