package apiclient

import (
	"context"

	"github.com/marmos91/dittokv/internal/bytesize"
)

// Liveness is the payload of GET /health.
type Liveness struct {
	Service string `json:"service"`
}

// Readiness is the payload of GET /health/ready.
type Readiness struct {
	State  string `json:"state"`
	Tier   string `json:"tier,omitempty"`
	Stores int    `json:"stores"`
}

// Resource is one entry of GET /health/resources.
type Resource struct {
	Type        string            `json:"type"`
	Used        bytesize.ByteSize `json:"used"`
	Reserved    bytesize.ByteSize `json:"reserved"`
	Total       bytesize.ByteSize `json:"total"`
	Utilization float64           `json:"utilization"`
}

// Liveness checks that the server answers.
func (c *Client) Liveness(ctx context.Context) (*Liveness, error) {
	var live Liveness
	if err := c.get(ctx, "/health", &live); err != nil {
		return nil, err
	}
	return &live, nil
}

// Readiness returns the registry readiness. A registry that has not started
// yields the readiness together with an error for which IsUnavailable is true.
func (c *Client) Readiness(ctx context.Context) (*Readiness, error) {
	var ready Readiness
	err := c.get(ctx, "/health/ready", &ready)
	if err != nil && !IsUnavailable(err) {
		return nil, err
	}
	return &ready, err
}

// Resources returns the resources the storage tier reports.
func (c *Client) Resources(ctx context.Context) ([]Resource, error) {
	var resp struct {
		Resources []Resource `json:"resources"`
	}
	if err := c.get(ctx, "/health/resources", &resp); err != nil {
		return nil, err
	}
	return resp.Resources, nil
}
