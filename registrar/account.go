package registrar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// GetAccount returns the account bound to the authenticated wallet.
func (c *Client) GetAccount(ctx context.Context) (*Account, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/account", nil, nil, true)
	if err != nil {
		return nil, err
	}

	var account Account
	if err := json.Unmarshal(body, &account); err != nil {
		return nil, fmt.Errorf("failed to parse account response: %w", err)
	}

	return &account, nil
}
