package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/roosthq/roost-cli/pkg/models"
)

// CreateRecord creates a record in the given collection.
func (c *Client) CreateRecord(ctx context.Context, collection string, fields map[string]any) (models.Record, error) {
	var record models.Record
	err := c.DoJSON(ctx, RequestOptions{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/api/collections/%s/records", collection),
		Body:   fields,
	}, &record)
	if err != nil {
		return models.Record{}, err
	}
	return record, nil
}

// UpdateRecord applies a partial update to a record.
func (c *Client) UpdateRecord(ctx context.Context, collection, id string, fields map[string]any) (models.Record, error) {
	var record models.Record
	err := c.DoJSON(ctx, RequestOptions{
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/api/collections/%s/records/%s", collection, id),
		Body:   fields,
	}, &record)
	if err != nil {
		return models.Record{}, err
	}
	return record, nil
}

// DeleteRecord removes a record.
func (c *Client) DeleteRecord(ctx context.Context, collection, id string) error {
	return c.DoJSON(ctx, RequestOptions{
		Method: http.MethodDelete,
		Path:   fmt.Sprintf("/api/collections/%s/records/%s", collection, id),
	}, nil)
}
