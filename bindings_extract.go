// Package adbc provides Go bindings for the ADBC (Arrow Database
// Connectivity) driver manager, loaded at runtime over purego.
//
// This file implements library embedding and extraction at runtime, a pattern
// used by several Go projects that distribute native binaries (notably
// github.com/kluctl/go-embed-python and its embed_util implementation).
// Release tooling drops per-platform driver manager builds under libs/; the
// one matching the running platform is extracted once into a user-specific
// cache directory and loaded from there. When no embedded build matches, the
// loader falls back to searching the system paths.
package adbc

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

//go:embed libs/*
var embeddedLibs embed.FS

//go:embed VERSION
var embeddedVersion string

// isMuslLibc detects if the system is using musl libc (Alpine Linux, Void Linux, etc.)
func isMuslLibc() bool {
	if _, err := os.Stat("/etc/alpine-release"); err == nil {
		return true
	}

	// ldd output is a more reliable probe for non-Alpine musl systems
	cmd := exec.Command("ldd", "--version")
	if output, err := cmd.CombinedOutput(); err == nil {
		if strings.Contains(strings.ToLower(string(output)), "musl") {
			return true
		}
	}

	return false
}

// extractEmbeddedLibrary extracts the library for the current platform to a
// cache directory and returns the path to the extracted library.
func extractEmbeddedLibrary(name string) (string, error) {
	var libName string

	switch runtime.GOOS {
	case "darwin":
		libName = fmt.Sprintf("lib%v.dylib", name)
	case "linux":
		libName = fmt.Sprintf("lib%v.so", name)
	case "windows":
		libName = fmt.Sprintf("%v.dll", name)
	default:
		return "", fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}

	var archSuffix string
	switch runtime.GOARCH {
	case "amd64":
		archSuffix = "amd64"
	case "arm64":
		archSuffix = "arm64"
	case "386":
		archSuffix = "386"
	default:
		return "", fmt.Errorf("unsupported architecture: %s", runtime.GOARCH)
	}

	libcVariant := ""
	if runtime.GOOS == "linux" && isMuslLibc() {
		libcVariant = "_musl"
	}

	platformDir := fmt.Sprintf("%s%s_%s", runtime.GOOS, libcVariant, archSuffix)

	// Try the detected platform first; on musl Linux fall back to the glibc
	// build if no musl build was shipped.
	embedPath := path.Join("libs", platformDir, libName)
	fallbackPaths := []string{embedPath}
	if runtime.GOOS == "linux" && libcVariant == "_musl" {
		glibcPlatform := fmt.Sprintf("%s_%s", runtime.GOOS, archSuffix)
		fallbackPaths = append(fallbackPaths, path.Join("libs", glibcPlatform, libName))
	}

	cacheRoot := os.Getenv("ADBC_GO_CACHE_DIR")
	if cacheRoot == "" {
		if d, err := os.UserCacheDir(); err == nil {
			cacheRoot = d
		} else {
			cacheRoot = os.TempDir()
		}
	}
	destDir := filepath.Join(cacheRoot, name, strings.TrimSpace(embeddedVersion), platformDir)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", destDir, err)
	}
	extractedPath := filepath.Join(destDir, libName)

	if fi, err := os.Stat(extractedPath); err == nil && fi.Size() > 0 {
		return extractedPath, nil
	}

	var in fs.File
	var err error
	foundPath := ""
	for _, tryPath := range fallbackPaths {
		in, err = embeddedLibs.Open(tryPath)
		if err == nil {
			foundPath = tryPath
			break
		}
	}
	if foundPath == "" {
		return "", fmt.Errorf("open embedded library (tried %v): %w", fallbackPaths, err)
	}
	defer in.Close()

	out, err := os.Create(extractedPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", extractedPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}
	if runtime.GOOS != "windows" {
		_ = os.Chmod(extractedPath, 0o755)
	}
	return extractedPath, nil
}
