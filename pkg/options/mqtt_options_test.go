package options

import (
	"testing"
	"time"
)

func TestMqttOptionsValidateKeepAlive(t *testing.T) {
	tests := []struct {
		name      string
		keepAlive time.Duration
		wantErrs  int
	}{
		{"default", 60 * time.Second, 0},
		{"max", 65535 * time.Second, 0},
		{"over wire limit", 65536 * time.Second, 1},
		{"negative", -time.Second, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := NewMqttOptions()
			o.KeepAlive = tc.keepAlive
			if errs := o.Validate(); len(errs) != tc.wantErrs {
				t.Fatalf("Validate() = %v, want %d error(s)", errs, tc.wantErrs)
			}
		})
	}
}
