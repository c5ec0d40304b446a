package middleware

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"io"
	"log"
	"os"
	"sync"
)

var (
	cssVersion        string
	appJSVersion      string
	logoVersion       string
	assetVersionsOnce sync.Once
)

// InitAssetVersions computes file hashes for cache busting at startup
func InitAssetVersions() {
	assetVersionsOnce.Do(func() {
		cssVersion = versionOrDefault("static/css/style.css")
		log.Printf("[INFO] CSS version initialized: %s", cssVersion)

		appJSVersion = versionOrDefault("static/js/app.js")
		log.Printf("[INFO] App JS version initialized: %s", appJSVersion)

		logoVersion = versionOrDefault("static/images/logo.svg")
		log.Printf("[INFO] Logo version initialized: %s", logoVersion)
	})
}

func versionOrDefault(path string) string {
	if v := computeFileHash(path); v != "" {
		return v
	}
	return "1"
}

// computeFileHash returns the first 8 characters of the MD5 hash of a file
func computeFileHash(path string) string {
	file, err := os.Open(path)
	if err != nil {
		log.Printf("[WARNING] Failed to open file for hashing %s: %v", path, err)
		return ""
	}
	defer file.Close()

	hash := md5.New()
	if _, err := io.Copy(hash, file); err != nil {
		log.Printf("[WARNING] Failed to hash file %s: %v", path, err)
		return ""
	}

	return hex.EncodeToString(hash.Sum(nil))[:8]
}

// GetCSSVersion returns the CSS file version hash for cache busting.
// ctx is unused; versions are computed once at startup.
func GetCSSVersion(ctx context.Context) string {
	if cssVersion == "" {
		return "1"
	}
	return cssVersion
}

// GetAppJSVersion returns the app.js file version hash for cache busting
func GetAppJSVersion(ctx context.Context) string {
	if appJSVersion == "" {
		return "1"
	}
	return appJSVersion
}

// GetLogoVersion returns the logo version hash for cache busting
func GetLogoVersion(ctx context.Context) string {
	if logoVersion == "" {
		return "1"
	}
	return logoVersion
}
