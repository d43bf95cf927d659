package apiclient

import (
	"context"
	"net/url"

	"github.com/marmos91/dittokv/pkg/registry"
)

// Stores lists the registered stores.
func (c *Client) Stores(ctx context.Context) ([]registry.StoreInfo, error) {
	var stores []registry.StoreInfo
	if err := c.get(ctx, "/api/v1/stores", &stores); err != nil {
		return nil, err
	}
	return stores, nil
}

// Store describes the store registered under alias.
func (c *Client) Store(ctx context.Context, alias string) (*registry.StoreInfo, error) {
	var info registry.StoreInfo
	if err := c.get(ctx, "/api/v1/stores/"+url.PathEscape(alias), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Properties returns the storage properties.
func (c *Client) Properties(ctx context.Context) (map[string]string, error) {
	props := make(map[string]string)
	if err := c.get(ctx, "/api/v1/properties", &props); err != nil {
		return nil, err
	}
	return props, nil
}
