package release

import (
	"errors"
	"strings"
	"testing"

	"github.com/portalis/dist/internal/platform"
)

func TestAssetName(t *testing.T) {
	tests := []struct {
		name    string
		key     platform.Key
		want    string
		wantErr bool
	}{
		{
			name: "linux amd64",
			key:  platform.Key{OS: "linux", Arch: "amd64"},
			want: "portalis-linux-x86_64",
		},
		{
			name: "darwin arm64",
			key:  platform.Key{OS: "darwin", Arch: "arm64"},
			want: "portalis-macos-aarch64",
		},
		{
			name: "windows carries exe",
			key:  platform.Key{OS: "windows", Arch: "amd64"},
			want: "portalis-windows-x86_64.exe",
		},
		{
			name:    "unsupported platform",
			key:     platform.Key{OS: "plan9", Arch: "amd64"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AssetName(tt.key)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("AssetName(%v) succeeded, want error", tt.key)
				}
				var unsupported *UnsupportedPlatformError
				if !errors.As(err, &unsupported) {
					t.Errorf("error = %T, want *UnsupportedPlatformError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("AssetName(%v) error: %v", tt.key, err)
			}
			if got != tt.want {
				t.Errorf("AssetName(%v) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestDownloadURL(t *testing.T) {
	tests := []struct {
		name    string
		version string
		key     platform.Key
		want    string
	}{
		{
			name:    "bare version",
			version: "1.0.0",
			key:     platform.Key{OS: "darwin", Arch: "arm64"},
			want:    "https://github.com/portalis/portalis/releases/download/v1.0.0/portalis-macos-aarch64",
		},
		{
			name:    "v prefix not doubled",
			version: "v1.0.0",
			key:     platform.Key{OS: "darwin", Arch: "arm64"},
			want:    "https://github.com/portalis/portalis/releases/download/v1.0.0/portalis-macos-aarch64",
		},
		{
			name:    "windows asset keeps exe",
			version: "2.1.3",
			key:     platform.Key{OS: "windows", Arch: "amd64"},
			want:    "https://github.com/portalis/portalis/releases/download/v2.1.3/portalis-windows-x86_64.exe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DownloadURL("https://github.com", tt.version, tt.key)
			if err != nil {
				t.Fatalf("DownloadURL() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DownloadURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDownloadURLEveryPlatform(t *testing.T) {
	for _, k := range platform.SupportedKeys() {
		url, err := DownloadURL("https://github.com", Version, k)
		if err != nil {
			t.Errorf("DownloadURL(%v) error: %v", k, err)
			continue
		}
		suffix, _ := platform.Suffix(k)
		if !strings.Contains(url, suffix) {
			t.Errorf("DownloadURL(%v) = %q, missing suffix %q", k, url, suffix)
		}
		if k.OS == "windows" && !strings.HasSuffix(url, ".exe") {
			t.Errorf("DownloadURL(%v) = %q, missing .exe", k, url)
		}
		if k.OS != "windows" && strings.HasSuffix(url, ".exe") {
			t.Errorf("DownloadURL(%v) = %q, unexpected .exe", k, url)
		}
	}
}

func TestDownloadURLUnsupported(t *testing.T) {
	_, err := DownloadURL("https://github.com", "1.0.0", platform.Key{OS: "freebsd", Arch: "arm64"})
	if err == nil {
		t.Fatal("DownloadURL() succeeded for unsupported platform")
	}
}

func TestChecksumsURLs(t *testing.T) {
	if got, want := ChecksumsURL("https://github.com", "1.0.0"),
		"https://github.com/portalis/portalis/releases/download/v1.0.0/SHA256SUMS"; got != want {
		t.Errorf("ChecksumsURL() = %q, want %q", got, want)
	}
	if got, want := SignatureURL("https://github.com", "1.0.0"),
		"https://github.com/portalis/portalis/releases/download/v1.0.0/SHA256SUMS.asc"; got != want {
		t.Errorf("SignatureURL() = %q, want %q", got, want)
	}
}

func TestInstalledName(t *testing.T) {
	if got := InstalledName(platform.Key{OS: "linux", Arch: "amd64"}); got != "portalis" {
		t.Errorf("InstalledName(linux) = %q, want portalis", got)
	}
	if got := InstalledName(platform.Key{OS: "windows", Arch: "amd64"}); got != "portalis.exe" {
		t.Errorf("InstalledName(windows) = %q, want portalis.exe", got)
	}
}

func TestValidateVersion(t *testing.T) {
	for _, v := range []string{"1.0.0", "v1.0.0", "0.9.1-rc.1"} {
		if err := ValidateVersion(v); err != nil {
			t.Errorf("ValidateVersion(%q) error: %v", v, err)
		}
	}
	for _, v := range []string{"", "not-a-version", "1.x"} {
		if err := ValidateVersion(v); err == nil {
			t.Errorf("ValidateVersion(%q) succeeded, want error", v)
		}
	}
}

func TestIsNewer(t *testing.T) {
	tests := []struct {
		current   string
		candidate string
		want      bool
	}{
		{"1.0.0", "1.1.0", true},
		{"1.0.0", "v2.0.0", true},
		{"1.0.0", "1.0.0", false},
		{"1.1.0", "1.0.9", false},
	}

	for _, tt := range tests {
		got, err := IsNewer(tt.current, tt.candidate)
		if err != nil {
			t.Errorf("IsNewer(%q, %q) error: %v", tt.current, tt.candidate, err)
			continue
		}
		if got != tt.want {
			t.Errorf("IsNewer(%q, %q) = %v, want %v", tt.current, tt.candidate, got, tt.want)
		}
	}

	if _, err := IsNewer("garbage", "1.0.0"); err == nil {
		t.Error("IsNewer() accepted a malformed current version")
	}
}
