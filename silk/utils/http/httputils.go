// silk/utils/http/httputils.go
package httputils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// PostJSON posts a JSON body and decodes a JSON response. token may be
// empty for unauthenticated endpoints.
func PostJSON(ctx context.Context, url, token string, body interface{}, resp interface{}) error {
	r, err := post(ctx, url, token, body)
	if err != nil {
		return err
	}
	defer r.Body.Close()
	if r.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %d", r.StatusCode)
	}
	if resp != nil {
		return json.NewDecoder(r.Body).Decode(resp)
	}
	return nil
}

// PostStream posts a JSON body and hands the raw response body back to the
// caller for incremental consumption.
func PostStream(ctx context.Context, url, token string, body interface{}) (io.ReadCloser, int, error) {
	r, err := post(ctx, url, token, body)
	if err != nil {
		return nil, 0, err
	}
	if r.StatusCode != http.StatusOK {
		defer r.Body.Close()
		b, _ := io.ReadAll(r.Body)
		return nil, r.StatusCode, fmt.Errorf("bad status: %d - %s", r.StatusCode, string(b))
	}
	return r.Body, r.StatusCode, nil
}

func post(ctx context.Context, url, token string, body interface{}) (*http.Response, error) {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}
