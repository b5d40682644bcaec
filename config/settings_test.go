package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadSettingsDefault(t *testing.T) {
	t.Setenv("INQUIRY_REPLY_REOPEN", "")
	assert.True(t, LoadSettings().ReplyReopens, "permissive reopening is the default")
}

func TestLoadSettingsOverride(t *testing.T) {
	t.Setenv("INQUIRY_REPLY_REOPEN", "false")
	assert.False(t, LoadSettings().ReplyReopens)

	t.Setenv("INQUIRY_REPLY_REOPEN", "true")
	assert.True(t, LoadSettings().ReplyReopens)

	t.Setenv("INQUIRY_REPLY_REOPEN", "garbage")
	assert.True(t, LoadSettings().ReplyReopens, "unparseable values keep the default")
}
