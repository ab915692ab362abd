package mailer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/secureweb/auth-service/pkg/mailer"
)

func TestPasswordResetBody(t *testing.T) {
	body := mailer.PasswordResetBody("xK3jf9Qw2Lms")
	assert.Contains(t, body, "Here is your new password: xK3jf9Qw2Lms")
	assert.Contains(t, body, "If you did not request this")
}

func TestWelcomeJob(t *testing.T) {
	job := mailer.WelcomeJob("alice@example.com", "alice")
	assert.Equal(t, "alice@example.com", job.To)
	assert.Equal(t, "Welcome", job.Subject)
	assert.True(t, strings.HasPrefix(job.Text, "Hi alice,"))
	assert.Empty(t, job.HTML)
}
