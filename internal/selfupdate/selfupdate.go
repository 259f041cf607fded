// Package selfupdate replaces the running pathwise binary with the newest
// GitHub release.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	releaseRepo = "abhisek/pathwise"
	devVersion  = "(devel)"
)

var (
	ErrDevBuild    = errors.New("cannot update a development build")
	ErrUpToDate    = errors.New("already running the latest version")
	ErrChecksum    = errors.New("checksum mismatch")
	ErrUnsupported = errors.New("no release build for this platform")
)

// Updater talks to the GitHub releases API and its download host.
type Updater struct {
	client      *http.Client
	apiURL      string
	downloadURL string
	goos        string
	goarch      string
	executable  func() (string, error)
}

type Option func(*Updater)

func WithTimeout(d time.Duration) Option {
	return func(u *Updater) { u.client.Timeout = d }
}

func New(opts ...Option) *Updater {
	u := &Updater{
		client:      &http.Client{Timeout: 30 * time.Second},
		apiURL:      "https://api.github.com",
		downloadURL: "https://github.com",
		goos:        runtime.GOOS,
		goarch:      runtime.GOARCH,
		executable:  os.Executable,
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Latest returns the tag of the newest published release.
func (u *Updater) Latest(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimRight(u.apiURL, "/"), releaseRepo)
	body, err := u.get(ctx, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(body).Decode(&release); err != nil {
		return "", fmt.Errorf("decode release: %w", err)
	}
	if !semver.IsValid(canonical(release.TagName)) {
		return "", fmt.Errorf("release tag %q is not a version", release.TagName)
	}
	return release.TagName, nil
}

// Update installs the latest release over the running executable when it
// is newer than current, and returns the installed tag. Each stage is
// reported through say.
func (u *Updater) Update(ctx context.Context, current string, say func(string)) (string, error) {
	if current == devVersion || !semver.IsValid(canonical(current)) {
		return "", ErrDevBuild
	}
	asset, err := assetName(u.goos, u.goarch)
	if err != nil {
		return "", err
	}

	say("Checking for the latest release...")
	tag, err := u.Latest(ctx)
	if err != nil {
		return "", fmt.Errorf("check for updates: %w", err)
	}
	if semver.Compare(canonical(tag), canonical(current)) <= 0 {
		return "", ErrUpToDate
	}

	base := fmt.Sprintf("%s/%s/releases/download/%s", strings.TrimRight(u.downloadURL, "/"), releaseRepo, tag)

	say("Downloading " + tag + "...")
	sums, err := u.fetch(ctx, base+"/checksums.txt")
	if err != nil {
		return "", fmt.Errorf("download checksums: %w", err)
	}
	want, err := checksumFor(sums, asset)
	if err != nil {
		return "", err
	}
	archive, err := u.fetch(ctx, base+"/"+asset)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", asset, err)
	}
	if err := verify(archive, want); err != nil {
		return "", err
	}

	say("Installing...")
	binary, err := extract(archive)
	if err != nil {
		return "", fmt.Errorf("extract %s: %w", asset, err)
	}
	target, err := u.executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	if err := install(binary, target); err != nil {
		return "", err
	}

	say("Updated to " + tag)
	return tag, nil
}

func (u *Updater) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := u.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}
	return resp.Body, nil
}

func (u *Updater) fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := u.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// canonical adds the leading v that semver requires.
func canonical(v string) string {
	if v == "" || strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
