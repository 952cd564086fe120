package clips

// UntaggedTag marks a clip nobody has tagged yet
const UntaggedTag = "Untagged"

// MergeTags drops the placeholder tag from existing, appends returned and
// removes duplicates keeping the first occurrence. Comparison is exact.
func MergeTags(existing, returned []string) []string {
	seen := make(map[string]struct{}, len(existing)+len(returned))
	out := make([]string, 0, len(existing)+len(returned))

	add := func(tag string) {
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	for _, tag := range existing {
		if tag != UntaggedTag {
			add(tag)
		}
	}
	for _, tag := range returned {
		add(tag)
	}
	return out
}
