package email

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTemplates(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	for _, name := range []string{
		"welcome.html",
		"usage_warning.html",
		"subscription_started.html",
		"subscription_cancelled.html",
		"referral_bonus.html",
		"password_reset.html",
	} {
		assert.NotNil(t, templates.Lookup(name), "missing template %s", name)
	}
}

func TestUsageWarningTemplateRenders(t *testing.T) {
	templates, err := loadTemplates()
	require.NoError(t, err)

	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "usage_warning.html", UsageWarningData{
		Name:      "Dana",
		PlanName:  "STARTER",
		Remaining: 3,
		Limit:     30,
		ResetDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "3 of 30")
	assert.Contains(t, buf.String(), "July 1, 2025")

	buf.Reset()
	err = templates.ExecuteTemplate(&buf, "usage_warning.html", UsageWarningData{
		Name: "Dana", PlanName: "STARTER", Remaining: 0, Limit: 30,
		ResetDate: time.Now(), AtLimit: true,
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "used all your enhancements")
}

func TestNewEmailServiceRequiresAPIKey(t *testing.T) {
	_, err := NewEmailService("")
	assert.Error(t, err)
}
