package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const timeout = 5 * time.Second

type versionResponse struct {
	Version  string            `json:"version"`
	Download map[string]string `json:"download"`
}

// UpdateInfo contains information about an available update.
type UpdateInfo struct {
	Latest      string // latest version (e.g. "0.2.0")
	DownloadURL string // platform-specific binary URL, may be empty
}

// CheckForUpdate asks checkURL for the latest release and compares it with
// the current version. Returns nil if up-to-date, if checkURL is empty, or
// on any error.
func CheckForUpdate(ctx context.Context, checkURL, currentVersion string, logger hclog.Logger) *UpdateInfo {
	if checkURL == "" {
		return nil
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, checkURL, nil)
	if err != nil {
		logger.Debug("update check skipped", "error", err)
		return nil
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Debug("update check failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Debug("update check failed", "status", resp.StatusCode)
		return nil
	}

	var v versionResponse
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		logger.Debug("update check failed", "error", err)
		return nil
	}

	if !isNewer(v.Version, currentVersion) {
		return nil
	}

	return &UpdateInfo{
		Latest:      strings.TrimPrefix(v.Version, "v"),
		DownloadURL: v.Download[runtime.GOOS+"-"+runtime.GOARCH],
	}
}

// isNewer returns true if remote is strictly newer than local.
// Versions are expected as "major.minor.patch" (e.g. "1.6.2").
func isNewer(remote, local string) bool {
	r, rErr := parseSemver(remote)
	l, lErr := parseSemver(local)
	if rErr != nil || lErr != nil {
		return remote != "" && remote != local
	}
	for i := range r {
		if r[i] != l[i] {
			return r[i] > l[i]
		}
	}
	return false
}

func parseSemver(s string) ([3]int, error) {
	parts := strings.SplitN(strings.TrimPrefix(s, "v"), ".", 3)
	if len(parts) != 3 {
		return [3]int{}, fmt.Errorf("invalid semver: %s", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return [3]int{}, err
		}
		v[i] = n
	}
	return v, nil
}
