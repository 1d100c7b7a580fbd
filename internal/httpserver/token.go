package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"
)

const maxTokenPeek = 64 << 10

// ExtractToken returns the session token carried by the request: the cookie
// first, then the X-Session-Token header, then a sessionToken field in a JSON body.
func ExtractToken(c echo.Context) string {
	if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	if v := strings.TrimSpace(c.Request().Header.Get(SessionHeader)); v != "" {
		return v
	}
	return tokenFromBody(c)
}

func tokenFromBody(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || req.ContentLength == 0 {
		return ""
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}

	orig := req.Body
	b, err := io.ReadAll(io.LimitReader(orig, maxTokenPeek))
	req.Body = peekedBody{Reader: io.MultiReader(bytes.NewReader(b), orig), Closer: orig}
	if err != nil || len(b) == 0 {
		return ""
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(b, &body); err != nil {
		return ""
	}
	raw, ok := body[sessionBodyField]
	if !ok {
		return ""
	}
	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return ""
	}
	return token
}

// peekedBody replays the bytes read while looking for a token, then the rest of the original body.
type peekedBody struct {
	io.Reader
	io.Closer
}
