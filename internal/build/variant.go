package build

import (
	"fmt"
	"net/url"
	"path"
)

// Remote describes the downloadable payload of one variant.
type Remote struct {
	URL           string `json:"url"`
	FileExtension string `json:"file_extension,omitempty"`
	Size          int64  `json:"size,omitempty"`
}

// Filename returns the basename of the download URL, or "" when the URL has
// no usable path component (callers fall back to a generated name).
func (r Remote) Filename() string {
	u, err := url.Parse(r.URL)
	if err != nil {
		return ""
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return ""
	}
	return name
}

// Variant is one platform/packaging-specific artifact of a build.
type Variant struct {
	OS     string `json:"os"`
	Arch   string `json:"arch"`
	Kind   string `json:"kind,omitempty"` // e.g. "archive", "installer"
	Remote Remote `json:"remote"`
}

// Label is the human-readable variant description used in choice menus.
func (v Variant) Label() string {
	if v.Kind == "" {
		return fmt.Sprintf("%s-%s", v.OS, v.Arch)
	}
	return fmt.Sprintf("%s-%s (%s)", v.OS, v.Arch, v.Kind)
}

// VariantSet holds every known variant of a single build identity.
// Invariant: all variants belong to Info.
type VariantSet struct {
	Info     Info      `json:"info"`
	Variants []Variant `json:"variants"`
}

// Clone returns a deep copy; the variant slice is never shared.
func (s VariantSet) Clone() VariantSet {
	out := VariantSet{Info: s.Info}
	out.Variants = append([]Variant(nil), s.Variants...)
	return out
}
