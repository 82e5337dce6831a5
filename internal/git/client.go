package git

import (
	"git.home.luguber.info/inful/blogkit/internal/metrics"
	"git.home.luguber.info/inful/blogkit/internal/retry"
)

// Client performs remote git operations with retries.
type Client struct {
	workspaceDir string
	policy       retry.Policy
	recorder     metrics.Recorder
	depth        int
}

// NewClient creates a client that checks repositories out under workspaceDir.
func NewClient(workspaceDir string) *Client {
	return &Client{workspaceDir: workspaceDir, policy: retry.DefaultPolicy(), recorder: metrics.NoopRecorder{}, depth: 1}
}

// WithRetryPolicy replaces the retry policy used for network operations.
func (c *Client) WithRetryPolicy(p retry.Policy) *Client { c.policy = p; return c }

// WithRecorder attaches a metrics recorder.
func (c *Client) WithRecorder(r metrics.Recorder) *Client { c.recorder = metrics.OrNoop(r); return c }

// WithDepth sets the clone depth; 0 fetches full history.
func (c *Client) WithDepth(depth int) *Client { c.depth = max(depth, 0); return c }
