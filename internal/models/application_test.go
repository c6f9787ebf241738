package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplication_Accept(t *testing.T) {
	t.Parallel()

	app := &Application{Status: ApplicationStatusPending}
	app.Accept()

	assert.Equal(t, ApplicationStatusAccepted, app.Status)
	assert.NotNil(t, app.RespondedAt)
	assert.NotNil(t, app.AcceptedAt)
}

func TestApplication_Reject(t *testing.T) {
	t.Parallel()

	app := &Application{Status: ApplicationStatusPending}
	app.Reject("budget too high")

	assert.Equal(t, ApplicationStatusRejected, app.Status)
	assert.NotNil(t, app.RespondedAt)
	assert.Nil(t, app.AcceptedAt)
	if assert.NotNil(t, app.RejectionReason) {
		assert.Equal(t, "budget too high", *app.RejectionReason)
	}
}

func TestApplication_CanBeModified(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Application{Status: ApplicationStatusPending}).CanBeModified())
	assert.False(t, (&Application{Status: ApplicationStatusShortlisted}).CanBeModified())
	assert.False(t, (&Application{Status: ApplicationStatusAccepted}).CanBeModified())
	assert.False(t, (&Application{Status: ApplicationStatusRejected}).CanBeModified())
	assert.False(t, (&Application{Status: ApplicationStatusWithdrawn}).CanBeModified())
}

func TestApplication_CanBeWithdrawn(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Application{Status: ApplicationStatusPending}).CanBeWithdrawn())
	assert.True(t, (&Application{Status: ApplicationStatusShortlisted}).CanBeWithdrawn())
	assert.False(t, (&Application{Status: ApplicationStatusAccepted}).CanBeWithdrawn())
	assert.False(t, (&Application{Status: ApplicationStatusRejected}).CanBeWithdrawn())
	assert.False(t, (&Application{Status: ApplicationStatusWithdrawn}).CanBeWithdrawn())
}
