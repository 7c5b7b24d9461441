package version_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"

	"go.jacobcolvin.com/asciiplay/version"
)

func TestGet(t *testing.T) {
	t.Parallel()

	info := version.Get()

	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Revision)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestInfoString(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		info version.Info
		want string
	}{
		"full": {
			info: version.Info{
				Version:   "v1.0.0",
				Revision:  "abc123",
				Branch:    "main",
				GoVersion: "go1.25.0",
				Platform:  "linux/amd64",
			},
			want: "version:    v1.0.0\n" +
				"revision:   abc123\n" +
				"branch:     main\n" +
				"go version: go1.25.0\n" +
				"platform:   linux/amd64\n",
		},
		"empty fields skipped": {
			info: version.Info{Version: "dev"},
			want: "version:    dev\n",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.info.String())
		})
	}
}
