package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"update-release/config"
	"update-release/gh"
	"update-release/helpers"
	"update-release/model"

	"github.com/cheggaaa/pb/v3"
)

// versionFileName is the marker file inside the repository checkout whose
// trimmed contents name the release tag to publish to.
const versionFileName = "VERSION"

// outputBinaries is the static table of artifacts to publish. Adding a
// platform is a data change here, not a code change.
var outputBinaries = []model.Binary{
	{Path: "darwin-amd64", Name: "gardenctl_v2_darwin_amd64"},
	{Path: "linux-amd64", Name: "gardenctl_v2_linux_amd64"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	repo, err := helpers.SplitOwnerRepo(cfg.RepoOwnerAndName)
	if err != nil {
		return err
	}

	version, err := helpers.ReadVersionFile(filepath.Join(cfg.RepoDir, versionFileName))
	if err != nil {
		return err
	}

	ctx := context.Background()
	client := gh.NewClient(cfg.Token, cfg.APIBaseURL)

	helpers.Statusf("Repository: %s", repo)
	helpers.Statusf("Release tag: %s", version)

	release, err := client.ReleaseByTag(ctx, repo, version)
	if err != nil {
		return err
	}

	helpers.Statusf("Uploading %d assets", len(outputBinaries))

	// Sequential and fail-fast: the first error aborts the run and binaries
	// declared after it are not attempted.
	for _, binary := range outputBinaries {
		if err := publishBinary(ctx, client, cfg, release, binary, version); err != nil {
			return err
		}
	}

	helpers.Successf("Published %d assets to release %s", len(outputBinaries), release.TagName)
	return nil
}

// publishBinary uploads one built binary, and its checksum when enabled, to
// the release. The file handle is scoped to this call and closed whether or
// not the upload succeeds.
func publishBinary(
	ctx context.Context,
	client *gh.Client,
	cfg config.Config,
	release *gh.Release,
	binary model.Binary,
	version string,
) error {
	path := helpers.BinaryPath(cfg.BinaryDir, binary)

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening binary %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	assetName := binary.AssetName(version)

	bar := pb.Full.Start64(info.Size())
	bar.Set(pb.Bytes, true)
	reader := bar.NewProxyReader(f)

	asset, err := client.UploadAsset(ctx, release, assetName, "application/octet-stream", reader, info.Size())
	bar.Finish()
	if err != nil {
		return err
	}
	helpers.Successf("Uploaded %s (%s)", asset.Name, helpers.FormatBytes(info.Size()))

	if !cfg.UploadChecksums {
		return nil
	}
	return publishChecksum(ctx, client, release, path, assetName)
}

// publishChecksum uploads a .sha256 sidecar asset for an already uploaded
// binary.
func publishChecksum(ctx context.Context, client *gh.Client, release *gh.Release, path, assetName string) error {
	sum, err := helpers.ComputeFileSHA(path)
	if err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	content := fmt.Sprintf("%s  %s\n", sum, assetName)
	_, err = client.UploadAsset(
		ctx,
		release,
		assetName+".sha256",
		"text/plain",
		strings.NewReader(content),
		int64(len(content)),
	)
	return err
}
