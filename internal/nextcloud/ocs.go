package nextcloud

import (
	"context"
	"net/http"
)

// ocsStatus returns the numeric ocs.meta.statuscode from a decoded body, or 0
// when it is missing or not a JSON number.
func ocsStatus(content map[string]any) int {
	code, ok := lookup(content, "ocs", "meta", "statuscode").(float64)
	if !ok {
		return 0
	}
	return int(code)
}

// lookup walks nested JSON objects along keys.
func lookup(content map[string]any, keys ...string) any {
	var cur any = content
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[k]
	}
	return cur
}

// envelope checks that a successful response carries an OCS envelope. A
// body without one, such as a proxy page served with 200, becomes an
// APIError so the caller sees what the server actually returned.
func envelope(res *Result) error {
	if lookup(res.Content, "ocs", "meta") == nil {
		return &APIError{
			StatusCode: res.StatusCode,
			Message:    errorMessage(res.contentType, res.Raw),
		}
	}
	return nil
}

// TestConnection reports whether the server answers GET /capabilities with
// OCS status 100 and a non-empty version string.
func (c *Client) TestConnection(ctx context.Context) (bool, error) {
	res, err := c.Call(ctx, http.MethodGet, "/capabilities", nil)
	if err != nil {
		return false, err
	}
	if err := envelope(res); err != nil {
		return false, err
	}

	version, _ := lookup(res.Content, "ocs", "data", "version", "string").(string)
	return ocsStatus(res.Content) == ocsStatusOK && version != "", nil
}

// TestAuthentication reports whether GET /users succeeds with OCS status
// 100, i.e. the configured credentials may list users.
func (c *Client) TestAuthentication(ctx context.Context) (bool, error) {
	res, err := c.Call(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return false, err
	}
	if err := envelope(res); err != nil {
		return false, err
	}
	return ocsStatus(res.Content) == ocsStatusOK, nil
}
