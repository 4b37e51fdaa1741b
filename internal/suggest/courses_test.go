package suggest

import (
	"fmt"
	"testing"

	"resumelens/internal/types"
)

func courseTitles(cs []types.Course) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.Title)
	}
	return out
}

func TestCoursesGapsFirst(t *testing.T) {
	role := &types.RoleDescriptor{
		Name: "Backend Developer",
		Courses: []types.Course{
			{Title: "A Tour of Go", URL: "https://go.dev/tour/"},
			{Title: "Google Cloud Fundamentals", URL: "https://example.com/gcp"},
			{Title: "Kubernetes Basics", URL: "https://example.com/k8s"},
			{Title: "PostgreSQL Tutorial", URL: "https://example.com/pg"},
		},
	}
	match := types.KeywordMatchResult{Matched: []string{"go"}, Missing: []string{"kubernetes", "postgresql"}}

	got := courseTitles(Courses(role, match))
	want := []string{"Kubernetes Basics", "PostgreSQL Tutorial", "A Tour of Go", "Google Cloud Fundamentals"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Courses = %q, want %q", got, want)
	}
}

func TestCoursesMatchesSkillVariants(t *testing.T) {
	role := &types.RoleDescriptor{Courses: []types.Course{
		{Title: "Intro to Python", URL: "https://example.com/py"},
		{Title: "K8s the Hard Way", URL: "https://example.com/k8s"},
	}}
	got := Courses(role, types.KeywordMatchResult{Missing: []string{"kubernetes"}})
	if len(got) != 2 || got[0].Title != "K8s the Hard Way" {
		t.Errorf("Courses = %q, want the k8s course first", courseTitles(got))
	}
}

func TestCoursesCapped(t *testing.T) {
	role := &types.RoleDescriptor{}
	for i := range MaxCourses + 3 {
		role.Courses = append(role.Courses, types.Course{Title: fmt.Sprintf("Course %d", i), URL: "https://example.com"})
	}
	got := Courses(role, types.KeywordMatchResult{})
	if len(got) != MaxCourses {
		t.Fatalf("len = %d, want %d", len(got), MaxCourses)
	}
	if got[0].Title != "Course 0" {
		t.Errorf("catalog order not kept: %q", courseTitles(got))
	}
}

func TestCoursesWithoutRole(t *testing.T) {
	if got := Courses(nil, types.KeywordMatchResult{Missing: []string{"go"}}); got != nil {
		t.Errorf("Courses(nil) = %v", got)
	}
	if got := Courses(&types.RoleDescriptor{Name: "Designer"}, types.KeywordMatchResult{}); got != nil {
		t.Errorf("Courses without catalog entries = %v", got)
	}
}
