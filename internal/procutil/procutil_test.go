package procutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrentPIDMatchesOS(t *testing.T) {
	assert.Equal(t, os.Getpid(), CurrentPID())
}

func TestIsAliveForSelf(t *testing.T) {
	assert.True(t, IsAlive(os.Getpid()))
}

func TestIsAliveForBogusPID(t *testing.T) {
	assert.False(t, IsAlive(1<<30))
}

func TestUIDByNameUnknownUser(t *testing.T) {
	_, ok := UIDByName("pkgcore-test-user-does-not-exist")
	assert.False(t, ok)
}

func TestCurrentUsername(t *testing.T) {
	name, err := CurrentUsername()
	assert.NoError(t, err)
	assert.NotEmpty(t, name)
}
