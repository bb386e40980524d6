package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidUUID(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidUUID("018f2b3c-9a1d-7c4e-8b2a-3f4d5e6a7b8c"))
	assert.True(t, IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
	assert.False(t, IsValidUUID("not-a-uuid"))
	assert.False(t, IsValidUUID(""))
	assert.False(t, IsValidUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c"))
}

func TestIsValidDate(t *testing.T) {
	t.Parallel()
	_, ok := IsValidDate("2025-04-01")
	assert.True(t, ok)
	_, ok = IsValidDate("2025-13-01")
	assert.False(t, ok)
	_, ok = IsValidDate("01/04/2025")
	assert.False(t, ok)
}

func TestIsValidTimeOfDay(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidTimeOfDay("04:00"))
	assert.True(t, IsValidTimeOfDay("04:00:00"))
	assert.True(t, IsValidTimeOfDay("23:59:59"))
	assert.False(t, IsValidTimeOfDay("24:00"))
	assert.False(t, IsValidTimeOfDay("9:00am"))
	assert.False(t, IsValidTimeOfDay(""))
}

func TestIsValidIPv4(t *testing.T) {
	t.Parallel()
	assert.True(t, IsValidIPv4("192.168.1.1"))
	assert.True(t, IsValidIPv4("0.0.0.0"))
	assert.False(t, IsValidIPv4("256.1.1.1"))
	assert.False(t, IsValidIPv4("::1"))
	assert.False(t, IsValidIPv4("10.0.0"))
}
