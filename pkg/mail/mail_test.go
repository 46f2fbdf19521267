package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureDeliver(t *testing.T) (*SMTP, *[]string, *[]byte) {
	t.Helper()
	var (
		gotCfg  SMTP
		gotRcpt []string
		gotRaw  []byte
	)
	orig := Deliver
	Deliver = func(cfg SMTP, recipients []string, raw []byte) error {
		gotCfg, gotRcpt, gotRaw = cfg, recipients, raw
		return nil
	}
	t.Cleanup(func() { Deliver = orig })
	return &gotCfg, &gotRcpt, &gotRaw
}

func testCfg() SMTP {
	return SMTP{
		Host: "smtp.test", Port: "587",
		Username: "u", Password: "p",
		From: "orders@vastra.shop", FromName: "Vastra",
	}
}

func TestSendBuildsHTMLMessage(t *testing.T) {
	_, rcpt, raw := captureDeliver(t)

	err := To("buyer@example.com").
		UseConfig(testCfg()).
		Subject("Your order is confirmed").
		Body("<h1>Thanks!</h1>").
		Send()
	require.NoError(t, err)

	assert.Equal(t, []string{"buyer@example.com"}, *rcpt)
	msg := string(*raw)
	assert.Contains(t, msg, "From: Vastra <orders@vastra.shop>\r\n")
	assert.Contains(t, msg, "Subject: Your order is confirmed\r\n")
	assert.Contains(t, msg, "Content-Type: text/html")
	assert.Contains(t, msg, "<h1>Thanks!</h1>")
}

func TestSendIncludesCCAndBCCRecipients(t *testing.T) {
	_, rcpt, raw := captureDeliver(t)

	err := To("a@example.com").
		UseConfig(testCfg()).
		CC("b@example.com").
		BCC("c@example.com").
		Text("plain").
		Send()
	require.NoError(t, err)

	assert.Equal(t, []string{"a@example.com", "b@example.com", "c@example.com"}, *rcpt)

	msg := string(*raw)
	assert.Contains(t, msg, "Cc: b@example.com\r\n")
	assert.NotContains(t, msg, "c@example.com", "bcc must not appear in the message")
	assert.Contains(t, msg, "Content-Type: text/plain")
}

func TestSendRequiresCredentialsAndRecipients(t *testing.T) {
	captureDeliver(t)

	err := To("x@example.com").UseConfig(SMTP{}).Subject("s").Body("b").Send()
	assert.Error(t, err)

	err = To().UseConfig(testCfg()).Subject("s").Body("b").Send()
	assert.Error(t, err)
}
