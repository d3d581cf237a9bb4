package ota_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"paneld/internal/ota"
)

func TestApplyRefusesDevBuilds(t *testing.T) {
	for _, version := range []string{"", "dev"} {
		updater := ota.New(version)

		_, err := updater.Apply(context.Background())
		require.ErrorIs(t, err, ota.ErrDevBuild)

		_, _, err = updater.Check(context.Background())
		require.ErrorIs(t, err, ota.ErrDevBuild)
	}
}
