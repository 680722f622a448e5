package kinship

import (
	"fmt"

	"github.com/tysonmwilliams-source/lineageweaver-sub002/pkg/kin"
)

// gendered picks the label variant matching the target person's gender.
// Unknown and other genders take the neutral form.
func gendered(target kin.Person, male, female, neutral string) string {
	switch target.Gender {
	case kin.GenderMale:
		return male
	case kin.GenderFemale:
		return female
	default:
		return neutral
	}
}

// ancestorLabel names a lineal ancestor at the given hop distance
// (2 = grandparent). Depths past 4 take a multiplier prefix, so a deep tree
// with a raised cap still gets "3x Great-Grandfather" rather than nothing.
func ancestorLabel(target kin.Person, depth int) string {
	base := gendered(target, "Grandfather", "Grandmother", "Grandparent")
	return greatPrefix(depth) + base
}

// descendantLabel names a lineal descendant at the given hop distance.
func descendantLabel(target kin.Person, depth int) string {
	base := gendered(target, "Grandson", "Granddaughter", "Grandchild")
	return greatPrefix(depth) + base
}

// greatPrefix builds the ancestor-distance prefix for a depth ≥ 2:
// "" for grandparents, "Great-" for depth 3, "2x Great-" for depth 4, and
// so on.
func greatPrefix(depth int) string {
	switch {
	case depth <= 2:
		return ""
	case depth == 3:
		return "Great-"
	default:
		return fmt.Sprintf("%dx Great-", depth-2)
	}
}

// cousinLabel names a cousin relationship from its degree and removal,
// e.g. (2, 0) → "2nd Cousin", (2, 1) → "2nd Cousin Once Removed",
// (1, 3) → "1st Cousin 3x Removed". Cousin labels are not gendered.
func cousinLabel(degree, removal int) string {
	label := ordinal(degree) + " Cousin"
	switch removal {
	case 0:
	case 1:
		label += " Once Removed"
	case 2:
		label += " Twice Removed"
	default:
		label += fmt.Sprintf(" %dx Removed", removal)
	}
	return label
}

// ordinal formats a small positive integer as an English ordinal.
func ordinal(n int) string {
	switch n % 10 {
	case 1:
		if n%100 != 11 {
			return fmt.Sprintf("%dst", n)
		}
	case 2:
		if n%100 != 12 {
			return fmt.Sprintf("%dnd", n)
		}
	case 3:
		if n%100 != 13 {
			return fmt.Sprintf("%drd", n)
		}
	}
	return fmt.Sprintf("%dth", n)
}
