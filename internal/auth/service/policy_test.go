package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	autherror "github.com/opspulse/leadfunnel/internal/errors"
)

func TestValidatePasswordStrength(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "CorrectHorse7battery", wantErr: false},
		{name: "exactly 12 chars", password: "Abcdefghijk1", wantErr: false},
		{name: "too short", password: "Abc1short", wantErr: true},
		{name: "no uppercase", password: "abcdefghijkl1", wantErr: true},
		{name: "no lowercase", password: "ABCDEFGHIJKL1", wantErr: true},
		{name: "no digit", password: "Abcdefghijklm", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePasswordStrength(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, autherror.ErrWeakPassword)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLockoutRemainingMinutes(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name        string
		lockedUntil time.Time
		want        int
	}{
		{name: "whole minutes", lockedUntil: now.Add(15 * time.Minute), want: 15},
		{name: "partial minute rounds up", lockedUntil: now.Add(14*time.Minute + 30*time.Second), want: 15},
		{name: "under a minute never reports zero", lockedUntil: now.Add(10 * time.Second), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lockoutRemainingMinutes(tt.lockedUntil, now))
		})
	}
}
