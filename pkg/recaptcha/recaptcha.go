package recaptcha

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const verifyURL = "https://www.google.com/recaptcha/api/siteverify"

// Defaults for the verification call.
const (
	defaultTimeout  = 15 * time.Second
	defaultAttempts = 3
	backoffStep     = time.Second
)

// Verifier checks a client-supplied reCAPTCHA token. Services depend on this
// interface so tests can mock it.
type Verifier interface {
	Verify(token, remoteIP string) error
}

// HTTPVerifier verifies tokens against the hosted siteverify endpoint with a
// bounded retry loop and linear backoff.
type HTTPVerifier struct {
	secret   string
	client   *http.Client
	endpoint string
	attempts int
	backoff  time.Duration
}

// NewHTTPVerifier creates a new HTTPVerifier. An empty secret disables
// verification, which keeps local development working without a site key.
func NewHTTPVerifier(secret string) *HTTPVerifier {
	return &HTTPVerifier{
		secret:   secret,
		client:   &http.Client{Timeout: defaultTimeout},
		endpoint: verifyURL,
		attempts: defaultAttempts,
		backoff:  backoffStep,
	}
}

type verifyResponse struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error-codes"`
}

// Verify posts the token to the verifier, retrying transport failures up to
// three times before propagating. A definitive "not a human" answer from the
// service is returned immediately, not retried.
func (v *HTTPVerifier) Verify(token, remoteIP string) error {
	if v.secret == "" {
		return nil
	}
	if token == "" {
		return fmt.Errorf("recaptcha token is required")
	}

	form := url.Values{}
	form.Set("secret", v.secret)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	var lastErr error
	for attempt := 1; attempt <= v.attempts; attempt++ {
		resp, err := v.client.PostForm(v.endpoint, form)
		if err != nil {
			lastErr = fmt.Errorf("recaptcha request failed: %w", err)
			log.Printf("reCAPTCHA attempt %d/%d failed: %v", attempt, v.attempts, err)
			v.wait(attempt)
			continue
		}

		var result verifyResponse
		err = json.NewDecoder(resp.Body).Decode(&result)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("failed to decode recaptcha response: %w", err)
			v.wait(attempt)
			continue
		}

		if !result.Success {
			return fmt.Errorf("recaptcha verification rejected: %v", result.ErrorCodes)
		}
		return nil
	}

	return lastErr
}

// wait sleeps between retries with linear backoff. The last attempt gets no
// sleep; there is nothing left to wait for.
func (v *HTTPVerifier) wait(attempt int) {
	if attempt >= v.attempts {
		return
	}
	time.Sleep(time.Duration(attempt) * v.backoff)
}
