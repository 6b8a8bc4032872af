package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandFlags(t *testing.T) {
	cmd := newRootCommand()

	for name, want := range map[string]string{
		"users":    "10",
		"posts":    "50",
		"comments": "3",
		"clean":    "false",
		"dry-run":  "false",
	} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, want, flag.DefValue, name)
	}

	require.NoError(t, cmd.ParseFlags([]string{"--users", "2", "--posts=7", "--clean"}))
	users, err := cmd.Flags().GetInt("users")
	require.NoError(t, err)
	assert.Equal(t, 2, users)
	clean, err := cmd.Flags().GetBool("clean")
	require.NoError(t, err)
	assert.True(t, clean)
}
