package core

import "testing"

func TestPlatformFromWidth(t *testing.T) {
	tests := []struct {
		width int
		want  string
	}{
		{0, PlatformUnknown},
		{-1, PlatformUnknown},
		{375, PlatformMobile},
		{767, PlatformMobile},
		{768, PlatformTablet},
		{1023, PlatformTablet},
		{1024, PlatformDesktop},
		{1920, PlatformDesktop},
	}
	for _, tt := range tests {
		if got := PlatformFromWidth(tt.width); got != tt.want {
			t.Errorf("PlatformFromWidth(%d) = %q, want %q", tt.width, got, tt.want)
		}
	}
}

func TestPlatformFromUserAgent(t *testing.T) {
	tests := []struct {
		name string
		ua   string
		want string
	}{
		{"empty", "", PlatformUnknown},
		{"iphone", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Mobile/15E148", PlatformMobile},
		{"android phone", "Mozilla/5.0 (Linux; Android 14; Pixel 8) Mobile Safari/537.36", PlatformMobile},
		{"android tablet", "Mozilla/5.0 (Linux; Android 13; SM-X700) Safari/537.36", PlatformTablet},
		{"ipad", "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X)", PlatformTablet},
		{"windows", "Mozilla/5.0 (Windows NT 10.0; Win64; x64)", PlatformDesktop},
		{"mac", "Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)", PlatformDesktop},
		{"curl", "curl/8.4.0", PlatformUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlatformFromUserAgent(tt.ua); got != tt.want {
				t.Errorf("PlatformFromUserAgent() = %q, want %q", got, tt.want)
			}
		})
	}
}
