package command_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pocketvault/wallet-core/internal/util/command"
)

func TestNewSubcommandGroup(t *testing.T) {
	child := &cobra.Command{Use: "child"}
	group := command.NewSubcommandGroup("group", child)

	assert.Equal(t, "group", group.Use)
	require.Len(t, group.Commands(), 1)
	assert.Same(t, child, group.Commands()[0])

	// a bare group invocation prints help instead of failing
	group.SetArgs([]string{})
	assert.NoError(t, group.Execute())
}
