package build

import "testing"

func TestRemoteFilename(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"plain", "https://example.com/builds/app-4.2.1-linux.tar.xz", "app-4.2.1-linux.tar.xz"},
		{"with_query", "https://example.com/d/app.zip?token=abc", "app.zip"},
		{"trailing_slash", "https://example.com/builds/", ""},
		{"unparseable", "://nope", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Remote{URL: tt.url}
			if got := r.Filename(); got != tt.want {
				t.Errorf("Filename() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVariantLabel(t *testing.T) {
	v := Variant{OS: "linux", Arch: "x86_64", Kind: "release"}
	if got := v.Label(); got != "linux-x86_64 (release)" {
		t.Errorf("Label() = %q", got)
	}
}
