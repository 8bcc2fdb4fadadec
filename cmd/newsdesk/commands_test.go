package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDueWithMemoryStore(t *testing.T) {
	t.Setenv("NEWSDESK_CONFIG", "")
	t.Setenv("DATABASE_DRIVER", "")
	t.Setenv("REDIS_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"publish-due", "--driver", "memory"})

	require.NoError(t, cmd.ExecuteContext(context.Background()))
	assert.Equal(t, "due=0 published=0 failed=0\n", out.String())
}

func TestMigrateRejectsMemoryStore(t *testing.T) {
	t.Setenv("NEWSDESK_CONFIG", "")
	t.Setenv("REDIS_URL", "")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"migrate", "--driver", "memory"})
	require.Error(t, cmd.ExecuteContext(context.Background()))
}

func TestRootListsCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range newRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "migrate", "publish-due"} {
		assert.True(t, names[want], want)
	}
}
