package functional

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/portalis/dist/internal/config"
	"github.com/portalis/dist/internal/install"
	"github.com/portalis/dist/internal/platform"
	"github.com/portalis/dist/internal/release"
)

// fakeBinary is the script installed in place of the real portalis
// binary. It echoes its arguments and exits 42 when told to fail, which
// is enough to observe argument passing and exit code propagation.
const fakeBinary = `#!/bin/sh
if [ "$1" = "fail" ]; then exit 42; fi
echo "args: $@"
`

// deadHost is a loopback port nothing listens on. Scenarios without a
// release server point downloads here so they can never reach the real
// host.
const deadHost = "http://127.0.0.1:9"

// releaseServer is a fake release host serving assets for the platform
// the suite runs on.
type releaseServer struct {
	*httptest.Server
}

func startReleaseServer(state *testState, withSums, corruptSums, noAssets bool) error {
	key := platform.Current()
	asset, err := release.AssetName(key)
	if err != nil {
		return fmt.Errorf("this suite needs a supported host platform: %w", err)
	}

	mux := http.NewServeMux()
	if !noAssets {
		prefix := fmt.Sprintf("/%s/%s/releases/download/v%s/", release.Owner, release.Repo, release.Version)
		binary := []byte(fakeBinary)

		mux.HandleFunc(prefix+asset, func(w http.ResponseWriter, r *http.Request) {
			w.Write(binary)
		})

		if withSums {
			digest := sha256.Sum256(binary)
			if corruptSums {
				digest[0] ^= 0xff
			}
			manifest := fmt.Sprintf("%s  %s\n", hex.EncodeToString(digest[:]), asset)
			mux.HandleFunc(prefix+release.ChecksumsAsset, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, manifest)
			})
		}
	}

	state.server = &releaseServer{httptest.NewServer(mux)}
	return nil
}

func aReleaseServerPublishing(ctx context.Context) (context.Context, error) {
	state, err := requireState(ctx)
	if err != nil {
		return ctx, err
	}
	return ctx, startReleaseServer(state, false, false, false)
}

func aReleaseServerWithChecksums(ctx context.Context) (context.Context, error) {
	state, err := requireState(ctx)
	if err != nil {
		return ctx, err
	}
	return ctx, startReleaseServer(state, true, false, false)
}

func aReleaseServerWithCorruptChecksums(ctx context.Context) (context.Context, error) {
	state, err := requireState(ctx)
	if err != nil {
		return ctx, err
	}
	return ctx, startReleaseServer(state, true, true, false)
}

func aReleaseServerWithNoAssets(ctx context.Context) (context.Context, error) {
	state, err := requireState(ctx)
	if err != nil {
		return ctx, err
	}
	return ctx, startReleaseServer(state, false, false, true)
}

// noReleaseServer leaves state.server nil, which points downloads at a
// closed loopback port.
func noReleaseServer(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// portalisIsInstalled installs the fake binary by actually running the
// installer against the fixture server, the same path users take.
func portalisIsInstalled(ctx context.Context) (context.Context, error) {
	state, err := requireState(ctx)
	if err != nil {
		return ctx, err
	}
	if state.server == nil {
		if err := startReleaseServer(state, false, false, false); err != nil {
			return ctx, err
		}
	}
	if err := runCommand(state, state.installer); err != nil {
		return ctx, err
	}
	if state.exitCode != 0 {
		return ctx, fmt.Errorf("install fixture failed with exit code %d\nstderr: %s", state.exitCode, state.stderr)
	}
	if _, err := os.Stat(managedBinaryPath(state)); err != nil {
		return ctx, fmt.Errorf("install fixture left no binary: %w", err)
	}
	return ctx, nil
}

func portalisIsNotInstalled(ctx context.Context) (context.Context, error) {
	return ctx, nil
}

// iRun executes a command string, replacing a leading "portalis" or
// "portalis-install" with the built test binary.
func iRun(ctx context.Context, command string) (context.Context, error) {
	state, err := requireState(ctx)
	if err != nil {
		return ctx, err
	}

	args := strings.Fields(command)
	if len(args) == 0 {
		return ctx, fmt.Errorf("empty command")
	}
	switch args[0] {
	case "portalis":
		args[0] = state.launcher
	case "portalis-install":
		args[0] = state.installer
	}

	return ctx, runCommand(state, args[0], args[1:]...)
}

func runCommand(state *testState, name string, args ...string) error {
	host := deadHost
	if state.server != nil {
		host = state.server.URL
	}

	cmd := exec.Command(name, args...)
	cmd.Dir = state.rootDir
	cmd.Env = append(os.Environ(),
		config.EnvRoot+"="+state.rootDir,
		config.EnvDownloadHost+"="+host,
		config.EnvDownloadTimeout+"=30s",
	)

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	state.stdout = stdout.String()
	state.stderr = stderr.String()

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			state.exitCode = exitErr.ExitCode()
		} else {
			return fmt.Errorf("command execution failed: %w", err)
		}
	} else {
		state.exitCode = 0
	}
	return nil
}

func managedBinaryPath(state *testState) string {
	return filepath.Join(state.rootDir, "bin", release.InstalledName(platform.Current()))
}

func theExitCodeIs(ctx context.Context, expected int) error {
	state := getState(ctx)
	if state.exitCode != expected {
		return fmt.Errorf("expected exit code %d, got %d\nstdout: %s\nstderr: %s",
			expected, state.exitCode, state.stdout, state.stderr)
	}
	return nil
}

func theExitCodeIsNot(ctx context.Context, notExpected int) error {
	state := getState(ctx)
	if state.exitCode == notExpected {
		return fmt.Errorf("expected exit code to not be %d\nstdout: %s\nstderr: %s",
			notExpected, state.stdout, state.stderr)
	}
	return nil
}

func theOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stdout, text) {
		return fmt.Errorf("expected stdout to contain %q, got:\n%s", text, state.stdout)
	}
	return nil
}

func theErrorOutputContains(ctx context.Context, text string) error {
	state := getState(ctx)
	if !strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theErrorOutputDoesNotContain(ctx context.Context, text string) error {
	state := getState(ctx)
	if strings.Contains(state.stderr, text) {
		return fmt.Errorf("expected stderr not to contain %q, got:\n%s", text, state.stderr)
	}
	return nil
}

func theManagedBinaryExists(ctx context.Context) error {
	state := getState(ctx)
	if _, err := os.Stat(managedBinaryPath(state)); err != nil {
		return fmt.Errorf("expected managed binary at %s: %w", managedBinaryPath(state), err)
	}
	return nil
}

func theManagedBinaryDoesNotExist(ctx context.Context) error {
	state := getState(ctx)
	if _, err := os.Stat(managedBinaryPath(state)); err == nil {
		return fmt.Errorf("expected no managed binary at %s", managedBinaryPath(state))
	}
	return nil
}

func theReceiptRecordsPinnedVersion(ctx context.Context) error {
	state := getState(ctx)
	receipt, err := install.ReadReceipt(filepath.Join(state.rootDir, config.ReceiptName))
	if err != nil {
		return fmt.Errorf("reading receipt: %w", err)
	}
	if receipt.Version != release.Version {
		return fmt.Errorf("receipt records v%s, want v%s", receipt.Version, release.Version)
	}
	return nil
}
