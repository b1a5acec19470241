package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loomworks/scout/pkg/config"
)

func TestBuildMessagePrefixesSubject(t *testing.T) {
	msg := string(buildMessage([]string{"ops@example.com", "oncall@example.com"}, "identity lookup circuit opened", "details"))

	assert.Contains(t, msg, "Subject: [scout] identity lookup circuit opened\r\n")
	assert.Contains(t, msg, "To: ops@example.com,oncall@example.com\r\n")
	assert.Contains(t, msg, "details\r\n")

	// Already-prefixed subjects are not prefixed twice.
	again := string(buildMessage(nil, "[scout] resent", "x"))
	assert.Contains(t, again, "Subject: [scout] resent\r\n")
}

func TestEmailAlerterDisabledIsNoOp(t *testing.T) {
	a := NewEmailAlerter(config.AlertConfig{Enabled: false}, nil)
	require.NoError(t, a.Alert("anything", "nothing should be sent"))
}

func TestNoOpAlerter(t *testing.T) {
	var a Alerter = &NoOpAlerter{}
	assert.NoError(t, a.Alert("s", "m"))
}
