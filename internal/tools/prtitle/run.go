package prtitle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/roguedex/gamedata/internal/platform/config"
)

const (
	pullRequestEvent = "pull_request"
	defaultAPIURL    = "https://api.github.com"
	requestTimeout   = 30 * time.Second
)

// Config holds the GitHub Actions settings.
type Config struct {
	Token      string `env:"GITHUB_TOKEN"`
	InputToken string `env:"INPUT_GITHUB_TOKEN"`
	EventName  string `env:"GITHUB_EVENT_NAME"`
	EventPath  string `env:"GITHUB_EVENT_PATH"`
	APIURL     string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	HTTPClient *http.Client
}

// LoadConfig reads the GitHub Actions environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) token() string {
	if token := strings.TrimSpace(c.InputToken); token != "" {
		return token
	}
	return strings.TrimSpace(c.Token)
}

type eventPayload struct {
	PullRequest *struct {
		Number int `json:"number"`
		Base   struct {
			User struct {
				Login string `json:"login"`
			} `json:"user"`
			Repo struct {
				Name string `json:"name"`
			} `json:"repo"`
		} `json:"base"`
	} `json:"pull_request"`
}

// PullRequestRef identifies a pull request.
type PullRequestRef struct {
	Owner  string
	Repo   string
	Number int
}

// ReadEvent reads the pull request reference from an event payload file.
func ReadEvent(path string) (PullRequestRef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return PullRequestRef{}, fmt.Errorf("read event payload: %w", err)
	}
	var payload eventPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return PullRequestRef{}, fmt.Errorf("decode event payload: %w", err)
	}
	if payload.PullRequest == nil {
		return PullRequestRef{}, errors.New("event payload has no pull_request")
	}
	ref := PullRequestRef{
		Owner:  payload.PullRequest.Base.User.Login,
		Repo:   payload.PullRequest.Base.Repo.Name,
		Number: payload.PullRequest.Number,
	}
	if ref.Owner == "" || ref.Repo == "" || ref.Number <= 0 {
		return PullRequestRef{}, errors.New("event payload pull_request is incomplete")
	}
	return ref, nil
}

// Client fetches pull requests from the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewClient creates a REST client. A nil http client uses a client with a
// request timeout.
func NewClient(baseURL, token string, client *http.Client) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultAPIURL
	}
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  client,
	}
}

// PullRequestTitle returns the current title of the pull request.
func (c *Client) PullRequestTitle(ctx context.Context, ref PullRequestRef) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls/%d", c.baseURL, ref.Owner, ref.Repo, ref.Number)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build pull request request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("pull request request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("pull request request returned %s", resp.Status)
	}

	var result struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode pull request response: %w", err)
	}
	return result.Title, nil
}

const terminology = `Terminology: feat(ui): Add new feature
             ^    ^    ^
             |    |    |__ Subject
             |    |_______ Scope
             |____________ Prefix`

// Run checks the title of the pull request that triggered the workflow. The
// title is fetched from the API because the event payload can be stale. On
// failure an ::error:: annotation is written to out and the error returned.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	err := run(ctx, cfg, out)
	if err != nil {
		fmt.Fprintf(out, "::error::%s\n", annotationEscape(err.Error()))
	}
	return err
}

func run(ctx context.Context, cfg Config, out io.Writer) error {
	token := cfg.token()
	if err := config.Required("GITHUB_TOKEN", token); err != nil {
		return err
	}
	fmt.Fprintf(out, "Event name: %s\n", cfg.EventName)
	if cfg.EventName != pullRequestEvent {
		return fmt.Errorf("invalid event: %s", cfg.EventName)
	}
	if err := config.Required("GITHUB_EVENT_PATH", cfg.EventPath); err != nil {
		return err
	}

	ref, err := ReadEvent(cfg.EventPath)
	if err != nil {
		return err
	}
	title, err := NewClient(cfg.APIURL, token, cfg.HTTPClient).PullRequestTitle(ctx, ref)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Pull Request title: %q\n\n%s\n\n", title, terminology)
	fmt.Fprintf(out, "Allowed prefixes: %s\n", strings.Join(Prefixes, ","))

	if err := CheckTitle(title); err != nil {
		return fmt.Errorf("pull request title %q: %w", title, err)
	}
	fmt.Fprintln(out, "Pull Request title is valid")
	return nil
}

func annotationEscape(message string) string {
	replacer := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")
	return replacer.Replace(message)
}
