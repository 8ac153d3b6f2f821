package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func swapSystemUsername(t *testing.T, name string) {
	t.Helper()
	old := SystemUsername
	SystemUsername = func() string { return name }
	t.Cleanup(func() { SystemUsername = old })
}

func TestSystemUsernameActualImplementation(t *testing.T) {
	// whatever the platform reports, it must be a plain string without a
	// domain qualifier
	name := SystemUsername()
	assert.NotContains(t, name, "\\")
}

func TestDefaultUsernameSimple(t *testing.T) {
	swapSystemUsername(t, "joe")
	assert.Equal(t, "joe", DefaultUsername(nil))
}

func TestDefaultUsernameExisting(t *testing.T) {
	swapSystemUsername(t, "joe")

	taken := func(username string) bool { return username == "joe" }
	assert.Equal(t, "", DefaultUsername(taken))

	// without a database check the suggestion comes back regardless
	assert.Equal(t, "joe", DefaultUsername(nil))
}

func TestDefaultUsernameI18N(t *testing.T) {
	// 'Julia' with accented 'u'
	swapSystemUsername(t, "Júlia")
	assert.Equal(t, "julia", DefaultUsername(nil))
}

func TestDefaultUsernameInvalid(t *testing.T) {
	swapSystemUsername(t, "joe smith!")
	assert.Equal(t, "", DefaultUsername(nil))
}

func TestValidUsername(t *testing.T) {
	assert.True(t, ValidUsername("joe"))
	assert.True(t, ValidUsername("joe+admin@somewhere.org"))
	assert.True(t, ValidUsername("j.o-e_1"))
	assert.False(t, ValidUsername(""))
	assert.False(t, ValidUsername("joe smith"))
	assert.False(t, ValidUsername("joe#1"))
}
