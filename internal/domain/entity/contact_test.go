package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTherapistContactPrefersProfile(t *testing.T) {
	th := &Therapist{FullName: "שם ישן", Email: "old@example.com", Phone: "050"}
	assert.Equal(t, "שם ישן", th.DisplayName())

	th.Profile = &Profile{FullName: "רינה לוי", Email: "rina@example.com"}
	assert.Equal(t, "רינה לוי", th.DisplayName())
	assert.Equal(t, "rina@example.com", th.ContactEmail())
	// Empty profile fields fall back to the row.
	assert.Equal(t, "050", th.ContactPhone())
}

func TestPatientContactPrefersProfile(t *testing.T) {
	p := &Patient{FullName: "דנה", Email: "dana@example.com"}
	assert.Equal(t, "dana@example.com", p.ContactEmail())

	p.Profile = &Profile{FullName: "דנה כהן", Phone: "0521111111"}
	assert.Equal(t, "דנה כהן", p.DisplayName())
	assert.Equal(t, "dana@example.com", p.ContactEmail())
	assert.Equal(t, "0521111111", p.ContactPhone())
}
