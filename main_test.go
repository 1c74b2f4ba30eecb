package main

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"update-release/config"
	"update-release/gh"

	"github.com/stretchr/testify/assert"
)

type recordedUpload struct {
	Name        string
	ContentType string
	Body        []byte
}

// fakeGitHub serves the two API calls the tool makes: release lookup by tag
// and asset upload.
type fakeGitHub struct {
	srv      *httptest.Server
	tag      string
	apiCalls int
	uploads  []recordedUpload
}

func newFakeGitHub(t *testing.T, tag string) *fakeGitHub {
	t.Helper()

	f := &fakeGitHub{tag: tag}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && strings.Contains(r.URL.Path, "/releases/tags/"):
			f.apiCalls++
			requested := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
			if requested != f.tag {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
				return
			}
			fmt.Fprintf(w, `{
				"id": 1,
				"tag_name": %q,
				"upload_url": %q,
				"html_url": "https://example.com/release"
			}`, f.tag, f.srv.URL+"/uploads/releases/1/assets{?name,label}")

		case r.Method == http.MethodPost && r.URL.Path == "/uploads/releases/1/assets":
			body, err := io.ReadAll(r.Body)
			assert.NoError(t, err)
			f.uploads = append(f.uploads, recordedUpload{
				Name:        r.URL.Query().Get("name"),
				ContentType: r.Header.Get("Content-Type"),
				Body:        body,
			})
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"id": %d, "name": %q, "size": %d, "state": "uploaded"}`,
				len(f.uploads), r.URL.Query().Get("name"), len(body))

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(f.srv.Close)

	return f
}

func (f *fakeGitHub) uploadNames() []string {
	names := make([]string, 0, len(f.uploads))
	for _, u := range f.uploads {
		names = append(names, u.Name)
	}
	return names
}

// setupRun prepares the environment, checkout dir and output dir for a full
// run against the fake server.
func setupRun(t *testing.T, f *fakeGitHub, version string) (repoDir, binDir string) {
	t.Helper()

	repoDir = t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(repoDir, "VERSION"), []byte(version+"\n"), 0o644))

	binDir = t.TempDir()
	for _, bin := range outputBinaries {
		path := filepath.Join(binDir, bin.Path, bin.Name)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		assert.NoError(t, os.WriteFile(path, []byte("payload of "+bin.Name), 0o755))
	}

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	t.Setenv("HOME", configHome)
	t.Setenv(config.EnvRepoOwnerAndName, "gardener/gardenctl")
	t.Setenv(config.EnvRepoDir, repoDir)
	t.Setenv(config.EnvBinaryDir, binDir)
	t.Setenv(config.EnvGithubToken, "test-token")
	t.Setenv(config.EnvAPIBaseURL, f.srv.URL)

	return repoDir, binDir
}

func TestRunUploadsAllBinaries(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	setupRun(t, f, "v2.1.0")

	assert.NoError(t, run())

	assert.Equal(t, []string{
		"gardenctl_v2_darwin_amd64-v2.1.0",
		"gardenctl_v2_linux_amd64-v2.1.0",
	}, f.uploadNames())
	for _, u := range f.uploads {
		assert.Equal(t, "application/octet-stream", u.ContentType)
		assert.NotEmpty(t, u.Body)
	}
}

func TestRunTrimsVersionFile(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	repoDir, _ := setupRun(t, f, "v2.1.0")
	assert.NoError(t, os.WriteFile(filepath.Join(repoDir, "VERSION"), []byte("  v2.1.0\n\n"), 0o644))

	assert.NoError(t, run())
	assert.Len(t, f.uploads, 2)
}

func TestRunMissingEnvFailsBeforeAnyAccess(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	setupRun(t, f, "v2.1.0")
	t.Setenv(config.EnvBinaryDir, "")

	err := run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), config.EnvBinaryDir)
	assert.Zero(t, f.apiCalls)
	assert.Empty(t, f.uploads)
}

func TestRunMissingVersionFileFailsBeforeLookup(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	repoDir, _ := setupRun(t, f, "v2.1.0")
	assert.NoError(t, os.Remove(filepath.Join(repoDir, "VERSION")))

	err := run()
	assert.Error(t, err)
	assert.Zero(t, f.apiCalls)
}

func TestRunReleaseNotFound(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	repoDir, _ := setupRun(t, f, "v2.1.0")
	assert.NoError(t, os.WriteFile(filepath.Join(repoDir, "VERSION"), []byte("v9.9.9\n"), 0o644))

	err := run()
	assert.True(t, errors.Is(err, gh.ErrReleaseNotFound))
	assert.Empty(t, f.uploads)
}

func TestRunFailsFastWhenFirstBinaryMissing(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	_, binDir := setupRun(t, f, "v2.1.0")

	missing := filepath.Join(binDir, outputBinaries[0].Path, outputBinaries[0].Name)
	assert.NoError(t, os.Remove(missing))

	err := run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.Empty(t, f.uploads)
}

func TestRunFailsFastWhenSecondBinaryMissing(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	_, binDir := setupRun(t, f, "v2.1.0")

	missing := filepath.Join(binDir, outputBinaries[1].Path, outputBinaries[1].Name)
	assert.NoError(t, os.Remove(missing))

	err := run()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), missing)
	assert.Equal(t, []string{"gardenctl_v2_darwin_amd64-v2.1.0"}, f.uploadNames())
}

func TestRunUploadsChecksumsWhenEnabled(t *testing.T) {
	f := newFakeGitHub(t, "v2.1.0")
	_, binDir := setupRun(t, f, "v2.1.0")

	assert.NoError(t, config.SaveSettings(config.Settings{UploadChecksums: true}))

	assert.NoError(t, run())

	assert.Equal(t, []string{
		"gardenctl_v2_darwin_amd64-v2.1.0",
		"gardenctl_v2_darwin_amd64-v2.1.0.sha256",
		"gardenctl_v2_linux_amd64-v2.1.0",
		"gardenctl_v2_linux_amd64-v2.1.0.sha256",
	}, f.uploadNames())

	raw, err := os.ReadFile(filepath.Join(binDir, outputBinaries[0].Path, outputBinaries[0].Name))
	assert.NoError(t, err)
	sum := sha256.Sum256(raw)
	assert.Contains(t, string(f.uploads[1].Body), hex.EncodeToString(sum[:]))
	assert.Equal(t, "text/plain", f.uploads[1].ContentType)
}
