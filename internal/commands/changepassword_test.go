package commands

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/axonops/authadm/internal/auth"
	apperrors "github.com/axonops/authadm/pkg/errors"
)

func TestChangepasswordChangesPassword(t *testing.T) {
	rt := newTestRuntime(t)
	seedUser(t, rt, "joe", "qwerty")
	rt.Prompt = newScriptedPrompter("not qwerty", "not qwerty")

	stdout, _, err := runCommand(t, rt, "changepassword", "joe")
	require.NoError(t, err)

	assert.Equal(t,
		"Changing password for user 'joe'\nPassword changed successfully for user 'joe'",
		strings.TrimSpace(stdout))

	found, err := rt.Store.GetUserByUsername(t.Context(), "joe")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("not qwerty", found.Password))
	assert.False(t, auth.CheckPassword("qwerty", found.Password))
}

func TestChangepasswordMaxTriesAborts(t *testing.T) {
	rt := newTestRuntime(t)
	seedUser(t, rt, "joe", "qwerty")
	rt.Prompt = newScriptedPrompter("foo", "bar", "foo", "bar", "foo", "bar")

	_, stderr, err := runCommand(t, rt, "changepassword", "joe")
	require.Error(t, err)

	var cmdErr *apperrors.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "Aborting password change for user 'joe' after 3 attempts", err.Error())
	assert.Equal(t, 3, strings.Count(stderr, "Passwords do not match. Please try again."))

	// password must be untouched
	found, err := rt.Store.GetUserByUsername(t.Context(), "joe")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("qwerty", found.Password))
}

func TestChangepasswordNonASCIIUsername(t *testing.T) {
	// 'Julia' with accented 'u'
	rt := newTestRuntime(t)
	seedUser(t, rt, "Júlia", "qwerty")
	rt.Prompt = newScriptedPrompter("not qwerty", "not qwerty")

	stdout, _, err := runCommand(t, rt, "changepassword", "Júlia")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Password changed successfully for user 'Júlia'")
}

func TestChangepasswordNonASCIIUppercaseUsername(t *testing.T) {
	// the accented letter is uppercase here, which sqlite's lower() does
	// not fold; the exact name must still resolve
	rt := newTestRuntime(t)
	seedUser(t, rt, "JÚLIA", "qwerty")
	rt.Prompt = newScriptedPrompter("not qwerty", "not qwerty")

	stdout, _, err := runCommand(t, rt, "changepassword", "JÚLIA")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Password changed successfully for user 'JÚLIA'")
}

func TestChangepasswordUnknownUser(t *testing.T) {
	rt := newTestRuntime(t)
	rt.Prompt = newScriptedPrompter()

	_, _, err := runCommand(t, rt, "changepassword", "nobody")
	require.Error(t, err)
	assert.Equal(t, "user 'nobody' does not exist", err.Error())
}

func TestChangepasswordDefaultsToSystemUser(t *testing.T) {
	rt := newTestRuntime(t)
	seedUser(t, rt, "joe", "qwerty")
	swapSystemUsername(t, "joe")
	rt.Prompt = newScriptedPrompter("not qwerty", "not qwerty")

	stdout, _, err := runCommand(t, rt, "changepassword")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Changing password for user 'joe'")
}

func TestChangepasswordEmptyPasswordRetries(t *testing.T) {
	rt := newTestRuntime(t)
	seedUser(t, rt, "joe", "qwerty")
	rt.Prompt = newScriptedPrompter("", "", "fresh pass", "fresh pass")

	_, stderr, err := runCommand(t, rt, "changepassword", "joe")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Password cannot be empty.")

	found, err := rt.Store.GetUserByUsername(t.Context(), "joe")
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("fresh pass", found.Password))
}

func TestChangepasswordEnforcesMinLength(t *testing.T) {
	rt := newTestRuntime(t)
	rt.Config.Password.MinLength = 8
	seedUser(t, rt, "joe", "qwerty")
	rt.Prompt = newScriptedPrompter("short", "short", "long enough pass", "long enough pass")

	_, stderr, err := runCommand(t, rt, "changepassword", "joe")
	require.NoError(t, err)
	assert.Contains(t, stderr, "This password is too short. It must contain at least 8 characters.")
}
