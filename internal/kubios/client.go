package kubios

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/diabalance/server/internal/logger"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	userInfoPath     = "/user/self"
	resultsPath      = "/result/self"
	resultsFrom      = "2022-01-01T00:00:00+00:00"
	defaultExpiresIn = 3600
)

// shared HTTP client for Kubios Cloud calls. Redirects are not followed:
// the login handshake signals its outcome through the Location header.
var kubiosHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	},
	CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// rate limiter for outbound Kubios calls (10 requests/second, burst of 5)
var kubiosRateLimiter = rate.NewLimiter(10, 5)

// token fields embedded in the post-login redirect target
var tokenPattern = regexp.MustCompile(`id_token=(.*)&access_token=(.*)&expires_in=(.*)`)

var (
	// wrong username or password against the Kubios login endpoint
	ErrInvalidCredentials = errors.New("kubios: invalid credentials")
	// the provider answered but not in the expected shape
	ErrUnexpectedResponse = errors.New("kubios: unexpected provider response")
)

// calls the Kubios Cloud API
type Client struct {
	cfg        Config
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: kubiosHTTPClient,
		limiter:    kubiosRateLimiter,
	}
}

// performs the browser-style password-grant handshake and extracts the id
// token from the redirect target
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	// per-attempt anti-forgery token, sent both as cookie and form field
	csrf := uuid.NewString()

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("redirect_uri", c.cfg.RedirectURI)
	form.Set("response_type", "token")
	form.Set("scope", "openid")
	form.Set("_csrf", csrf)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build login request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Cookie", "XSRF-TOKEN="+csrf)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kubios login request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // response body is not used

	// the handshake always answers with a redirect; anything else means the
	// provider itself is broken, not that the credentials were wrong
	location := resp.Header.Get("Location")
	if location == "" {
		logger.Error("kubios login gave no redirect", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: no redirect, status %d", ErrUnexpectedResponse, resp.StatusCode)
	}

	// a rejected login redirects back to the login page
	if strings.Contains(location, "login?null") {
		logger.Debug("kubios login rejected", "location", location)
		return nil, ErrInvalidCredentials
	}

	match := tokenPattern.FindStringSubmatch(location)
	if match == nil || match[1] == "" {
		logger.Error("could not extract token from kubios redirect", "location", location)
		return nil, fmt.Errorf("%w: no token in redirect target", ErrUnexpectedResponse)
	}

	expiresIn := defaultExpiresIn
	if parsed, err := strconv.Atoi(match[3]); err == nil && parsed > 0 {
		expiresIn = parsed
	}

	logger.Info("kubios login successful", "expires_in", expiresIn)

	return &LoginResult{
		IDToken:   match[1],
		ExpiresIn: expiresIn,
	}, nil
}

// fetches the remote profile for the given id token
func (c *Client) UserInfo(ctx context.Context, idToken string) (*UserProfile, error) {
	body, err := c.get(ctx, userInfoPath, idToken)
	if err != nil {
		return nil, err
	}

	var response userInfoResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("%w: malformed user info payload: %v", ErrUnexpectedResponse, err)
	}

	if response.Status != "ok" {
		return nil, fmt.Errorf("%w: user info status %q (%s)", ErrUnexpectedResponse, response.Status, response.Message)
	}

	return &response.User, nil
}

// fetches the full measurement history since the fixed epoch and returns it
// unparsed, so callers can proxy or filter it as needed
func (c *Client) Results(ctx context.Context, idToken string) (json.RawMessage, error) {
	endpoint := resultsPath + "?from=" + url.QueryEscape(resultsFrom)

	body, err := c.get(ctx, endpoint, idToken)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(body), nil
}

func (c *Client) get(ctx context.Context, endpoint, idToken string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.APIBaseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build kubios request: %w", err)
	}

	// Kubios expects the raw id token, not a Bearer prefix
	req.Header.Set("Authorization", idToken)
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kubios request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // body already fully read

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read kubios response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d from %s", ErrUnexpectedResponse, resp.StatusCode, endpoint)
	}

	return body, nil
}

// parses a raw results payload
func ParseResults(raw json.RawMessage) (*ResultsResponse, error) {
	var response ResultsResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil, fmt.Errorf("%w: malformed results payload: %v", ErrUnexpectedResponse, err)
	}

	return &response, nil
}

// reduces the measurement list to the simplified per-day values for one date
func FilterByDate(results *ResultsResponse, date string) []DailySummary {
	var summaries []DailySummary

	for _, m := range results.Results {
		day := m.DailyResult
		if day == "" {
			day, _, _ = strings.Cut(m.MeasuredTimestamp, "T")
		}

		if day != date {
			continue
		}

		summaries = append(summaries, DailySummary{
			Date:             day,
			StressIndex:      m.Result.StressIndex,
			Readiness:        m.Result.Readiness,
			PhysiologicalAge: m.Result.PhysiologicalAge,
			MeanHRBPM:        m.Result.MeanHRBPM,
			SDNNMS:           m.Result.SDNNMS,
		})
	}

	return summaries
}
