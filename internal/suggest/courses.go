package suggest

import (
	"sort"
	"strings"

	"resumelens/internal/keywords"
	"resumelens/internal/types"
)

// MaxCourses caps how many courses one analysis recommends.
const MaxCourses = 6

// Courses picks learning resources from the role's catalog entry. Courses
// whose title names a missing skill come first; catalog order is kept
// otherwise.
func Courses(role *types.RoleDescriptor, match types.KeywordMatchResult) []types.Course {
	if role == nil || len(role.Courses) == 0 {
		return nil
	}

	ranked := append([]types.Course(nil), role.Courses...)
	gap := make([]bool, len(ranked))
	for i, c := range ranked {
		gap[i] = coversAny(strings.ToLower(c.Title), match.Missing)
	}
	idx := make([]int, len(ranked))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return gap[idx[a]] && !gap[idx[b]] })

	out := make([]types.Course, 0, min(len(idx), MaxCourses))
	for _, i := range idx[:min(len(idx), MaxCourses)] {
		out = append(out, ranked[i])
	}
	return out
}

func coversAny(title string, skills []string) bool {
	for _, skill := range skills {
		for _, v := range keywords.Variants(skill) {
			if keywords.ContainsTerm(title, v) {
				return true
			}
		}
	}
	return false
}
