package ai

import (
	"context"
	"fmt"
	"net/http"
)

// CheckAvailability asks the endpoint for its model list and reports whether
// it answered. A disabled client is never available.
func (c *Client) CheckAvailability(ctx context.Context) error {
	if !c.settings.Enabled {
		return &UnavailableError{Reason: "disabled in settings", Err: ErrDisabled}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.settings.BaseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("building availability request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return c.classify(err)
	}
	resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &RejectedError{StatusCode: resp.StatusCode, Body: http.StatusText(resp.StatusCode)}
	}
	return nil
}
