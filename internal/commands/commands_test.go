package commands

import (
	"bytes"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/axonops/authadm/internal/auth"
	"github.com/axonops/authadm/internal/config"
	"github.com/axonops/authadm/internal/store"
)

// scriptedPrompter feeds canned responses to commands under test. Both
// plain and password prompts consume from the same script, in order.
type scriptedPrompter struct {
	responses []string
	prompts   []string
	next      int
}

func newScriptedPrompter(responses ...string) *scriptedPrompter {
	return &scriptedPrompter{responses: responses}
}

func (p *scriptedPrompter) read(prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.next >= len(p.responses) {
		return "", io.EOF
	}
	response := p.responses[p.next]
	p.next++
	return response, nil
}

func (p *scriptedPrompter) ReadString(prompt string) (string, error) {
	return p.read(prompt)
}

func (p *scriptedPrompter) ReadPassword(prompt string) (string, error) {
	return p.read(prompt)
}

// newTestRuntime wires a runtime against an in-memory store. The low
// bcrypt cost keeps the password tests fast.
func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.DSN = ":memory:"
	cfg.Password.BcryptCost = 4

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	st := store.New(db, logger)
	require.NoError(t, st.Migrate())

	return &Runtime{
		Version: "test",
		Config:  cfg,
		Logger:  logger,
		Store:   st,
	}
}

// runCommand executes the CLI with the given arguments, capturing output
func runCommand(t *testing.T, rt *Runtime, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCommand(rt)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// seedUser creates a user with a usable password
func seedUser(t *testing.T, rt *Runtime, username, password string) *store.User {
	t.Helper()

	hash, err := auth.HashPassword(password, rt.Config.Password.BcryptCost)
	require.NoError(t, err)

	user := &store.User{Username: username, Password: hash}
	require.NoError(t, rt.Store.CreateUser(t.Context(), user))
	return user
}

// swapSystemUsername substitutes the system account lookup for a test
func swapSystemUsername(t *testing.T, name string) {
	t.Helper()
	old := auth.SystemUsername
	auth.SystemUsername = func() string { return name }
	t.Cleanup(func() { auth.SystemUsername = old })
}
