package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/SantaTabla/Shop-Backend/internal/config"
)

// GithubProfile is the slice of the GitHub user payload the federated
// strategy consumes. Email is empty when the profile has no public email.
type GithubProfile struct {
	ID    string
	Email string
	Name  string
}

// GithubClient drives the OAuth web flow against GitHub.
type GithubClient struct {
	Config config.GithubConfig
	HTTP   *http.Client
}

func NewGithubClient(cfg config.GithubConfig) *GithubClient {
	return &GithubClient{
		Config: cfg,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthorizeURL is where the login page sends the browser. The user:email
// scope asks for the profile email used in the federated branches.
func (g *GithubClient) AuthorizeURL() string {
	q := url.Values{}
	q.Set("client_id", g.Config.ClientID)
	q.Set("redirect_uri", g.Config.CallbackURL)
	q.Set("scope", "user:email")
	return "https://github.com/login/oauth/authorize?" + q.Encode()
}

// Exchange trades the callback code for an access token.
func (g *GithubClient) Exchange(code string) (string, error) {
	form := url.Values{}
	form.Set("client_id", g.Config.ClientID)
	form.Set("client_secret", g.Config.ClientSecret)
	form.Set("code", code)

	req, err := http.NewRequest(http.MethodPost,
		"https://github.com/login/oauth/access_token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var payload struct {
		AccessToken string `json:"access_token"`
		Error       string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if payload.AccessToken == "" {
		return "", fmt.Errorf("github token exchange failed: %s", payload.Error)
	}
	return payload.AccessToken, nil
}

// FetchProfile loads the authenticated user's profile.
func (g *GithubClient) FetchProfile(accessToken string) (GithubProfile, error) {
	req, err := http.NewRequest(http.MethodGet, "https://api.github.com/user", nil)
	if err != nil {
		return GithubProfile{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return GithubProfile{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GithubProfile{}, fmt.Errorf("github profile fetch failed: %s", resp.Status)
	}

	var payload struct {
		ID    int64   `json:"id"`
		Email *string `json:"email"`
		Name  string  `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return GithubProfile{}, err
	}

	profile := GithubProfile{
		ID:   strconv.FormatInt(payload.ID, 10),
		Name: payload.Name,
	}
	if payload.Email != nil {
		profile.Email = *payload.Email
	}
	return profile, nil
}
