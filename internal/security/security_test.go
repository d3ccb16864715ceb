package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDetectPII(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		types []string
	}{
		{"email", "contact me at john.doe@example.com please", []string{"email"}},
		{"phone", "call 555-123-4567 tomorrow", []string{"phone"}},
		{"ssn", "my ssn is 123-45-6789", []string{"ssn"}},
		{"passport", "passport number A12345678", []string{"passport"}},
		{"clean", "what are the h-1b visa requirements", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, types := DetectPII(tt.text)
			assert.Equal(t, len(tt.types) > 0, found)
			assert.Equal(t, tt.types, types)
		})
	}
}

func TestMaskPII(t *testing.T) {
	masked := MaskPII("email john@example.com phone 555-123-4567")
	assert.Contains(t, masked, "[MASKED_EMAIL]")
	assert.Contains(t, masked, "[MASKED_PHONE]")
	assert.NotContains(t, masked, "john@example.com")
	assert.NotContains(t, masked, "555-123-4567")
}

func TestMaskPII_NoChangeWithoutMatches(t *testing.T) {
	text := "what is the f-1 visa"
	assert.Equal(t, text, MaskPII(text))
}

func TestRateLimiter_AllowsUpToLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	assert.True(t, rl.Allow("client-a"))
	assert.True(t, rl.Allow("client-a"))
	assert.True(t, rl.Allow("client-a"))
	assert.False(t, rl.Allow("client-a"))

	// Other keys have independent quotas.
	assert.True(t, rl.Allow("client-b"))
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	current := time.Now()
	rl.now = func() time.Time { return current }

	assert.True(t, rl.Allow("client"))
	assert.True(t, rl.Allow("client"))
	assert.False(t, rl.Allow("client"))

	current = current.Add(61 * time.Second)
	assert.True(t, rl.Allow("client"))
}

func TestRateLimiter_PrunesIdleKeys(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	current := time.Now()
	rl.now = func() time.Time { return current }

	assert.True(t, rl.Allow("idle"))

	current = current.Add(61 * time.Second)
	assert.True(t, rl.Allow("active"))

	_, ok := rl.requests["idle"]
	assert.False(t, ok)
	_, ok = rl.requests["active"]
	assert.True(t, ok)
}
