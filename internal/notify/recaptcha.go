package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const recaptchaEndpoint = "https://www.google.com/recaptcha/api/siteverify"

// Reasons reported when a token is rejected without a provider error code.
const (
	ReasonMissingSecret = "missing_secret"
	ReasonMissingToken  = "missing_token"
	ReasonFailed        = "verification_failed"
)

type RecaptchaVerifier struct {
	Secret     string
	HTTPClient *http.Client
	Endpoint   string
}

type siteverifyResponse struct {
	Success     bool     `json:"success"`
	ChallengeTS string   `json:"challenge_ts"`
	Hostname    string   `json:"hostname"`
	ErrorCodes  []string `json:"error-codes"`
}

func NewRecaptchaVerifier(secret string) *RecaptchaVerifier {
	return &RecaptchaVerifier{
		Secret:     strings.TrimSpace(secret),
		Endpoint:   recaptchaEndpoint,
		HTTPClient: &http.Client{Timeout: 8 * time.Second},
	}
}

// Enabled reports whether submissions must carry a token.
func (v *RecaptchaVerifier) Enabled() bool {
	return v != nil && v.Secret != ""
}

// Verify asks the provider about token. A rejected token is (false, reason,
// nil); only transport and decoding failures return an error.
func (v *RecaptchaVerifier) Verify(ctx context.Context, token string, remoteIP string) (bool, string, error) {
	if !v.Enabled() {
		return false, ReasonMissingSecret, nil
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return false, ReasonMissingToken, nil
	}

	form := url.Values{"secret": {v.Secret}, "response": {token}}
	if ip := strings.TrimSpace(remoteIP); ip != "" {
		form.Set("remoteip", ip)
	}

	out, err := v.siteverify(ctx, form)
	if err != nil {
		return false, "", err
	}
	switch {
	case out.Success:
		return true, "", nil
	case len(out.ErrorCodes) > 0:
		return false, strings.Join(out.ErrorCodes, ","), nil
	default:
		return false, ReasonFailed, nil
	}
}

func (v *RecaptchaVerifier) siteverify(ctx context.Context, form url.Values) (*siteverifyResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	client := v.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recaptcha request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recaptcha siteverify: http %d", resp.StatusCode)
	}
	var out siteverifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode recaptcha response: %w", err)
	}
	return &out, nil
}
