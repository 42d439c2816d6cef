package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Shivanand-hulikatti/ngo-events/internal/apperr"
	"github.com/Shivanand-hulikatti/ngo-events/internal/model"
)

func TestIdentity_Kind(t *testing.T) {
	assert.Equal(t, model.IdentityRegistered, model.Registered("u1").Kind())
	assert.Equal(t, model.IdentityGuest, model.Guest("a@example.org", "A", "").Kind())
	assert.Equal(t, model.IdentityNone, model.Identity{}.Kind())
	assert.Equal(t, model.IdentityNone, model.Identity{
		UserID: "u1",
		Guest:  &model.GuestInfo{Email: "a@example.org"},
	}.Kind())
}

func TestIdentity_Equals(t *testing.T) {
	tests := []struct {
		name string
		a, b model.Identity
		want bool
	}{
		{"same user", model.Registered("u1"), model.Registered("u1"), true},
		{"different user", model.Registered("u1"), model.Registered("u2"), false},
		{"guest email case-insensitive", model.Guest("Ann@Example.org", "Ann", ""), model.Guest("ann@example.org", "Annie", "555"), true},
		{"different guests", model.Guest("a@example.org", "A", ""), model.Guest("b@example.org", "B", ""), false},
		{"member vs guest", model.Registered("a@example.org"), model.Guest("a@example.org", "A", ""), false},
		{"empty never equal", model.Identity{}, model.Identity{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equals(tt.b))
			assert.Equal(t, tt.want, tt.b.Equals(tt.a))
		})
	}
}

func TestIdentity_Key(t *testing.T) {
	assert.Equal(t, "user:u1", model.Registered(" u1 ").Key())
	assert.Equal(t, "guest:ann@example.org", model.Guest(" ANN@example.org ", "Ann", "").Key())
	assert.Empty(t, model.Identity{}.Key())
}

func TestValidateIdentity(t *testing.T) {
	assert.NoError(t, model.ValidateIdentity(model.Registered("u1")))
	assert.NoError(t, model.ValidateIdentity(model.Guest("ann@example.org", "Ann", "")))

	err := model.ValidateIdentity(model.Guest("not-an-email", "Ann", ""))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = model.ValidateIdentity(model.Guest("ann@example.org", "", ""))
	assert.ErrorIs(t, err, apperr.ErrValidation)

	err = model.ValidateIdentity(model.Identity{})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
