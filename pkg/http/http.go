package http

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mchmarny/termpulse/pkg/net"
	"github.com/pkg/errors"
)

// GetJSON retrieves the URL content and decodes it into the passed target.
func GetJSON[T any](u string, target *T) error {
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return errors.Wrap(err, "error creating HTTP GET request")
	}
	req.Header.Set("Accept", "application/json")

	return do(req, target)
}

// PostFormJSON posts form values and decodes the JSON response into target.
func PostFormJSON[T any](u string, form url.Values, target *T) error {
	req, err := http.NewRequest(http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "error creating HTTP POST request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	return do(req, target)
}

func do[T any](req *http.Request, target *T) error {
	resp, err := net.GetHTTPClient().Do(req)
	if err != nil {
		return errors.Wrapf(err, "error sending request to: %s", req.URL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body := ""
		if b, readErr := io.ReadAll(resp.Body); readErr == nil {
			body = string(b)
		}
		return errors.Errorf("request to %s failed: %s - %s", req.URL, resp.Status, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return errors.Wrap(err, "error decoding content")
	}
	return nil
}
