package lazeerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModuleNotAvailableMessage(t *testing.T) {
	err := &ModuleNotAvailable{Context: "native", Requester: "core", Missing: "netowrk"}
	assert.Contains(t, err.Error(), `core in native depends on unavailable module "netowrk"`)

	err.Suggestion = "network"
	assert.Contains(t, err.Error(), `did you mean "network"?`)
}

func TestParseErrorUnwrap(t *testing.T) {
	cause := errors.New("file not found")
	err := NewParseError("laze: error: cannot find foo.yml", cause)

	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "cannot find foo.yml")
}

func TestDownloadErrorUnwrap(t *testing.T) {
	cause := errors.New("exit status 128")
	err := NewDownloadError("https://example.com/repo.git", ".laze/imports/repo/latest", cause)

	assert.True(t, errors.Is(err, cause))
}
