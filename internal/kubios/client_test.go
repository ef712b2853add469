package kubios

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(loginURL, apiURL string) Config {
	return Config{
		LoginURL:    loginURL,
		APIBaseURL:  apiURL,
		ClientID:    "test-client",
		RedirectURI: "https://analysis.example.com/login_complete",
		UserAgent:   "Diabalance/1.0",
	}
}

func TestLogin_Success(t *testing.T) {
	var gotForm map[string]string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"username":      r.PostFormValue("username"),
			"password":      r.PostFormValue("password"),
			"client_id":     r.PostFormValue("client_id"),
			"response_type": r.PostFormValue("response_type"),
			"scope":         r.PostFormValue("scope"),
			"_csrf":         r.PostFormValue("_csrf"),
		}

		w.Header().Set("Location", "https://analysis.example.com/login_complete?id_token=ABC&access_token=XYZ&expires_in=3600")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	result, err := client.Login(context.Background(), "alice@x.com", "Secret123")

	require.NoError(t, err)
	assert.Equal(t, "ABC", result.IDToken)
	assert.Equal(t, 3600, result.ExpiresIn)

	assert.Equal(t, "alice@x.com", gotForm["username"])
	assert.Equal(t, "Secret123", gotForm["password"])
	assert.Equal(t, "test-client", gotForm["client_id"])
	assert.Equal(t, "token", gotForm["response_type"])
	assert.Equal(t, "openid", gotForm["scope"])
	assert.NotEmpty(t, gotForm["_csrf"], "each attempt must carry an anti-forgery token")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://analysis.example.com/login?null")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.Login(context.Background(), "alice@x.com", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_NoRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.Login(context.Background(), "alice@x.com", "Secret123")

	// provider breakage is not a credential failure
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_TokenMissingFromRedirect(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://analysis.example.com/login_complete?error=server_error")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.Login(context.Background(), "alice@x.com", "Secret123")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestLogin_DefaultExpiry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Location", "https://analysis.example.com/login_complete?id_token=ABC&access_token=XYZ&expires_in=")
		w.WriteHeader(http.StatusFound)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	result, err := client.Login(context.Background(), "alice@x.com", "Secret123")

	require.NoError(t, err)
	assert.Equal(t, defaultExpiresIn, result.ExpiresIn)
}

func TestUserInfo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/self", r.URL.Path)
		assert.Equal(t, "id-token-123", r.Header.Get("Authorization"), "id token is sent raw, without Bearer prefix")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok","user":{"email":"alice@x.com","given_name":"Alice","family_name":"Example"}}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	profile, err := client.UserInfo(context.Background(), "id-token-123")

	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", profile.Email)
	assert.Equal(t, "Alice", profile.GivenName)
}

func TestUserInfo_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"error","message":"token expired"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.UserInfo(context.Background(), "id-token-123")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestUserInfo_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	_, err := client.UserInfo(context.Background(), "bad-token")

	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestResults_FetchAndFilter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/result/self", r.URL.Path)
		assert.Equal(t, "2022-01-01T00:00:00+00:00", r.URL.Query().Get("from"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"daily_result":"2025-03-01","result":{"stress_index":8.5,"readiness":62.1,"mean_hr_bpm":57.3,"sdnn_ms":48.2}},
			{"daily_result":"2025-03-02","result":{"stress_index":12.0}},
			{"measured_timestamp":"2025-03-01T07:15:00+02:00","result":{"readiness":70.0}}
		]}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL, server.URL))

	raw, err := client.Results(context.Background(), "id-token-123")
	require.NoError(t, err)

	results, err := ParseResults(raw)
	require.NoError(t, err)
	require.Len(t, results.Results, 3)

	summaries := FilterByDate(results, "2025-03-01")
	require.Len(t, summaries, 2, "both daily_result and measured_timestamp matches count")

	assert.Equal(t, "2025-03-01", summaries[0].Date)
	require.NotNil(t, summaries[0].StressIndex)
	assert.InDelta(t, 8.5, *summaries[0].StressIndex, 0.001)
	require.NotNil(t, summaries[0].SDNNMS)
	assert.InDelta(t, 48.2, *summaries[0].SDNNMS, 0.001)

	assert.Empty(t, FilterByDate(results, "2025-03-05"))
}

func TestParseResults_Malformed(t *testing.T) {
	_, err := ParseResults([]byte(`not json`))
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}
