package idgen

import (
	"strings"
	"testing"
	"time"
)

func TestGenerateSecureID(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		length int
	}{
		{name: "agent id", prefix: PrefixAgent, length: 16},
		{name: "room id", prefix: PrefixRoom, length: 16},
		{name: "short id", prefix: "test", length: 4},
		{name: "long id", prefix: "test", length: 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GenerateSecureID(tt.prefix, tt.length)
			if err != nil {
				t.Fatalf("GenerateSecureID() error = %v", err)
			}
			if !HasPrefix(got, tt.prefix) {
				t.Errorf("GenerateSecureID() = %v, want prefix %v_", got, tt.prefix)
			}
			if want := len(tt.prefix) + 1 + tt.length; len(got) != want {
				t.Errorf("GenerateSecureID() length = %v, want %v", len(got), want)
			}
			for _, char := range got[len(tt.prefix)+1:] {
				if !strings.ContainsRune(charset, char) {
					t.Errorf("GenerateSecureID() contains invalid character: %c", char)
				}
			}
		})
	}
}

func TestNewSessionIDSortsByTime(t *testing.T) {
	earlier := NewSessionID(time.Unix(1700000000, 0))
	later := NewSessionID(time.Unix(1700000100, 0))

	if !HasPrefix(earlier, PrefixSession) {
		t.Fatalf("NewSessionID() = %v, want prefix %v_", earlier, PrefixSession)
	}
	if earlier >= later {
		t.Errorf("expected %s < %s", earlier, later)
	}
}
