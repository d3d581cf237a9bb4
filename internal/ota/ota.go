// Package ota applies over-the-air firmware updates by swapping the
// running binary for the latest tagged release.
package ota

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/creativeprojects/go-selfupdate"
)

const defaultRepoSlug = "paneld/paneld"

var (
	// ErrDevBuild refuses to update binaries built outside the release
	// pipeline; there is no version to compare against.
	ErrDevBuild  = errors.New("cannot self-update a development version")
	ErrNoRelease = errors.New("no release found for this platform")
	ErrUpdate    = errors.New("update failed")
)

// Updater checks the release repository and replaces the executable.
type Updater struct {
	version string
	slug    string
}

func New(version string) *Updater {
	return &Updater{version: version, slug: defaultRepoSlug}
}

// Version reports the running build.
func (u *Updater) Version() string {
	return u.version
}

func (u *Updater) releasable() bool {
	return u.version != "" && u.version != "dev"
}

// Check reports the latest published version and whether it is newer than
// the running build.
func (u *Updater) Check(ctx context.Context) (string, bool, error) {
	if !u.releasable() {
		return "", false, ErrDevBuild
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(u.slug))
	if err != nil {
		return "", false, errors.Join(err, ErrUpdate)
	}
	if !found {
		return "", false, ErrNoRelease
	}

	return latest.Version(), !latest.LessOrEqual(u.version), nil
}

// Apply downloads and installs the newest release over the running binary.
// Returns the installed version; the caller decides when to restart.
func (u *Updater) Apply(ctx context.Context) (string, error) {
	if !u.releasable() {
		return "", ErrDevBuild
	}

	latest, found, err := selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(u.slug))
	if err != nil {
		return "", errors.Join(err, ErrUpdate)
	}
	if !found {
		return "", ErrNoRelease
	}

	if latest.LessOrEqual(u.version) {
		slog.Info("Already on the latest version", slog.String("version", u.version))

		return u.version, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", errors.Join(fmt.Errorf("locate executable: %w", err), ErrUpdate)
	}

	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return "", errors.Join(err, ErrUpdate)
	}

	slog.Info("Updated firmware",
		slog.String("from", u.version),
		slog.String("to", latest.Version()))

	return latest.Version(), nil
}
