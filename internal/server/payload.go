package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// readPayload returns the submitted fields as strings, from either a form
// body or a flat JSON object. Form keys keep their first value.
func readPayload(c echo.Context) (map[string]string, error) {
	req := c.Request()
	if strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(req.Body).Decode(&raw); err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid JSON body")
		}
		out := make(map[string]string, len(raw))
		for k, v := range raw {
			s, err := jsonScalar(v)
			if err != nil {
				return nil, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("field %q: %v", k, err))
			}
			out[k] = s
		}
		return out, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid form body")
	}
	out := make(map[string]string, len(form))
	for k, vs := range form {
		if len(vs) > 0 {
			out[k] = vs[0]
		}
	}
	return out, nil
}

// jsonScalar renders a JSON string, number or bool the way a form would send it.
// null becomes the empty string.
func jsonScalar(v json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		return n.String(), nil
	}
	var b bool
	if err := json.Unmarshal(v, &b); err == nil {
		return fmt.Sprint(b), nil
	}
	return "", fmt.Errorf("expected a string, number or boolean")
}
