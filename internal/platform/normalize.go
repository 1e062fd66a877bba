package platform

import "strings"

// NormalizeOS maps the OS spellings seen in repository catalogs to Go's
// GOOS names. Unknown spellings are returned lowercased so an exact match
// is still possible.
func NormalizeOS(os string) string {
	switch strings.ToLower(strings.TrimSpace(os)) {
	case "linux":
		return "linux"
	case "darwin", "macos", "macosx", "osx", "mac":
		return "darwin"
	case "windows", "win", "win64", "win32":
		return "windows"
	default:
		return strings.ToLower(strings.TrimSpace(os))
	}
}

// NormalizeArch maps architecture spellings to Go's GOARCH names.
func NormalizeArch(arch string) string {
	switch strings.ToLower(strings.TrimSpace(arch)) {
	case "amd64", "x86_64", "x86-64", "x64":
		return "amd64"
	case "arm64", "aarch64":
		return "arm64"
	case "386", "i386", "i686", "x86":
		return "386"
	case "arm", "armv7", "armv7l":
		return "arm"
	default:
		return strings.ToLower(strings.TrimSpace(arch))
	}
}
