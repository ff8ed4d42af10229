// Package publisher uploads a finished artifact to durable storage and
// returns shareable links. The core pipeline only depends on the
// Publisher interface; publish failures never fail a job.
package publisher

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"clipforge/config"
)

// Links are the shareable locations of a published artifact
type Links struct {
	ViewLink     string `json:"view_link"`
	DownloadLink string `json:"download_link"`
}

// Publisher is the asset storage boundary
type Publisher interface {
	Publish(ctx context.Context, mediaLocator, suggestedName string) (Links, error)
}

// Drive publishes artifacts to Google Drive with anyone-can-view
// permissions
type Drive struct {
	cfg        config.PublishConfig
	httpClient *http.Client
}

// NewDrive creates a Drive publisher. Credentials are resolved from
// env at publish time so a misconfigured environment degrades a job
// instead of failing startup.
func NewDrive(cfg config.PublishConfig) *Drive {
	return &Drive{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
	}
}

// Publish uploads the media behind locator and returns view/download
// links
func (d *Drive) Publish(ctx context.Context, mediaLocator, suggestedName string) (Links, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.TimeoutSec)*time.Second)
	defer cancel()

	log.Println("[publish] Authenticating with Drive API...")
	client, err := d.oauthClient(ctx)
	if err != nil {
		return Links{}, fmt.Errorf("drive auth: %w", err)
	}

	svc, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return Links{}, fmt.Errorf("drive service: %w", err)
	}

	body, cleanup, err := d.openMedia(ctx, mediaLocator)
	if err != nil {
		return Links{}, fmt.Errorf("open media: %w", err)
	}
	defer cleanup()

	name := sanitizeName(suggestedName)
	log.Printf("[publish] Uploading %q...", name)

	created, err := svc.Files.Create(&drive.File{Name: name}).Media(body).Context(ctx).Do()
	if err != nil {
		return Links{}, fmt.Errorf("drive upload: %w", err)
	}

	_, err = svc.Permissions.Create(created.Id, &drive.Permission{
		Type: "anyone",
		Role: "reader",
	}).Context(ctx).Do()
	if err != nil {
		return Links{}, fmt.Errorf("drive share: %w", err)
	}

	got, err := svc.Files.Get(created.Id).Fields("webViewLink", "webContentLink").Context(ctx).Do()
	if err != nil {
		return Links{}, fmt.Errorf("drive links: %w", err)
	}

	log.Printf("[publish] ✅ Published: %s", got.WebViewLink)
	return Links{ViewLink: got.WebViewLink, DownloadLink: got.WebContentLink}, nil
}

// openMedia resolves a locator to a readable stream: http(s) URLs are
// fetched, anything else is treated as a local path
func (d *Drive) openMedia(ctx context.Context, locator string) (io.Reader, func(), error) {
	if strings.HasPrefix(locator, "http://") || strings.HasPrefix(locator, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return nil, nil, err
		}
		resp, err := d.httpClient.Do(req)
		if err != nil {
			return nil, nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, nil, fmt.Errorf("HTTP %d fetching media", resp.StatusCode)
		}
		return resp.Body, func() { resp.Body.Close() }, nil
	}

	f, err := os.Open(locator)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}

// oauthClient builds an OAuth2 HTTP client from env credentials
func (d *Drive) oauthClient(ctx context.Context) (*http.Client, error) {
	clientID := os.Getenv("DRIVE_CLIENT_ID")
	clientSecret := os.Getenv("DRIVE_CLIENT_SECRET")
	refreshToken := os.Getenv("DRIVE_REFRESH_TOKEN")

	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("DRIVE_CLIENT_ID, DRIVE_CLIENT_SECRET, or DRIVE_REFRESH_TOKEN not set")
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}

	token := &oauth2.Token{
		RefreshToken: refreshToken,
		Expiry:       time.Now().Add(-time.Hour), // force refresh
	}

	transport := &oauth2.Transport{
		Source: conf.TokenSource(ctx, token),
	}
	return &http.Client{Transport: transport}, nil
}

// sanitizeName keeps filenames safe for the storage backend
func sanitizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "clipforge_video"
	}
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "\x00", "")
	name = replacer.Replace(name)
	if !strings.Contains(name, ".") {
		name += ".mp4"
	}
	return name
}
