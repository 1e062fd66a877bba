package catalog

import (
	"github.com/ZebulonRouseFrantzich/buildpull/internal/build"
	"github.com/ZebulonRouseFrantzich/buildpull/internal/platform"
)

// FilterVariants narrows a variant list to those matching the target
// platform. When no variant matches, the full unfiltered list comes back:
// a build with only foreign variants is still offered rather than silently
// hidden, so the operator can pick one deliberately.
func FilterVariants(variants []build.Variant, target platform.Target) []build.Variant {
	var matched []build.Variant
	for _, v := range variants {
		if target.Matches(v.OS, v.Arch) {
			matched = append(matched, v)
		}
	}
	if len(matched) == 0 {
		return variants
	}
	return matched
}
