package auth

import (
	"net/url"
	"time"

	"github.com/mchmarny/termpulse/pkg/http"
	"github.com/pkg/errors"
)

const (
	deviceCodeURL = "https://github.com/login/device/code"
	accessCodeURL = "https://github.com/login/oauth/access_token"
	deviceScopes  = "" // no scopes requested (read-only public access)
	grantType     = "urn:ietf:params:oauth:grant-type:device_code"

	errAuthorizationPending = "authorization_pending"
	errSlowDown             = "slow_down"
)

// DeviceCode is the GitHub device flow challenge: the user enters UserCode
// at VerificationURL while the CLI polls with DeviceCode.
type DeviceCode struct {
	DeviceCode      string `json:"device_code,omitempty"`
	UserCode        string `json:"user_code,omitempty"`
	VerificationURL string `json:"verification_uri,omitempty"`
	// seconds before the device_code and user_code expire
	ExpiresInSec int `json:"expires_in,omitempty"`
	// minimum seconds between access token requests
	Interval int `json:"interval,omitempty"`
}

type AccessTokenResponse struct {
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	Scope       string `json:"scope,omitempty"`
	Error       string `json:"error,omitempty"`
}

// GetDeviceCode starts the GitHub device authorization flow.
func GetDeviceCode(clientID string) (*DeviceCode, error) {
	if clientID == "" {
		return nil, errors.New("clientID is required")
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("scope", deviceScopes)

	var dc DeviceCode
	if err := http.PostFormJSON(deviceCodeURL, form, &dc); err != nil {
		return nil, errors.Wrap(err, "failed to get device code")
	}
	if dc.DeviceCode == "" {
		return nil, errors.New("empty device code response")
	}

	return &dc, nil
}

// GetToken requests an access token for a previously issued device code.
// While the user has not yet approved the device, the returned response
// carries the authorization_pending error and an empty token.
func GetToken(clientID string, code *DeviceCode) (*AccessTokenResponse, error) {
	if clientID == "" {
		return nil, errors.New("clientID is required")
	}
	if code == nil {
		return nil, errors.New("device code is nil")
	}

	form := url.Values{}
	form.Set("client_id", clientID)
	form.Set("device_code", code.DeviceCode)
	form.Set("grant_type", grantType)

	var t AccessTokenResponse
	if err := http.PostFormJSON(accessCodeURL, form, &t); err != nil {
		return nil, errors.Wrap(err, "failed to get access token")
	}

	return &t, nil
}

// WaitForToken polls GetToken until the user approves the device, the code
// expires, or GitHub returns a terminal error.
func WaitForToken(clientID string, code *DeviceCode) (string, error) {
	if code == nil {
		return "", errors.New("device code is nil")
	}

	interval := time.Duration(code.Interval) * time.Second
	if interval < time.Second {
		interval = 5 * time.Second
	}
	expiresAt := time.Now().Add(time.Duration(code.ExpiresInSec) * time.Second)

	for time.Now().Before(expiresAt) {
		time.Sleep(interval)

		t, err := GetToken(clientID, code)
		if err != nil {
			return "", err
		}

		switch t.Error {
		case "":
			if t.AccessToken == "" {
				return "", errors.New("access token is empty")
			}
			return t.AccessToken, nil
		case errAuthorizationPending:
			continue
		case errSlowDown:
			interval += 5 * time.Second
		default:
			return "", errors.Errorf("device flow failed: %s", t.Error)
		}
	}

	return "", errors.New("device code expired before authorization")
}
