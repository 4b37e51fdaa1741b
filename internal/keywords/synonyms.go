package keywords

// synonymGroups lists spellings that count as the same skill. The first
// entry is the canonical form.
var synonymGroups = [][]string{
	{"go", "golang"},
	{"javascript", "js", "ecmascript"},
	{"typescript", "ts"},
	{"kubernetes", "k8s"},
	{"postgresql", "postgres", "psql"},
	{"node.js", "nodejs", "node"},
	{"react", "reactjs", "react.js"},
	{"vue", "vuejs", "vue.js"},
	{"angular", "angularjs"},
	{"next.js", "nextjs"},
	{"c++", "cpp"},
	{"c#", "csharp"},
	{".net", "dotnet"},
	{"python", "python3"},
	{"machine learning", "ml"},
	{"artificial intelligence", "ai"},
	{"natural language processing", "nlp"},
	{"deep learning", "dnn"},
	{"aws", "amazon web services"},
	{"gcp", "google cloud", "google cloud platform"},
	{"azure", "microsoft azure"},
	{"ci/cd", "cicd", "continuous integration"},
	{"mongodb", "mongo"},
	{"mysql", "my sql"},
	{"sql server", "mssql"},
	{"rest", "rest api", "restful", "rest apis"},
	{"graphql", "gql"},
	{"ui/ux", "ux/ui", "ui ux"},
	{"html", "html5"},
	{"css", "css3"},
	{"scikit-learn", "sklearn"},
	{"power bi", "powerbi"},
	{"objective-c", "objc"},
	{"elasticsearch", "elastic search"},
}

// canonicalIndex maps every spelling to its group.
var canonicalIndex = buildIndex(synonymGroups)

func buildIndex(groups [][]string) map[string][]string {
	idx := make(map[string][]string)
	for _, g := range groups {
		for _, form := range g {
			idx[form] = g
		}
	}
	return idx
}

// Variants returns every spelling accepted for skill, canonical first.
// skill must already be normalized.
func Variants(skill string) []string {
	if g, ok := canonicalIndex[skill]; ok {
		return g
	}
	return []string{skill}
}

// Canonical returns the canonical spelling of a normalized skill.
func Canonical(skill string) string {
	return Variants(skill)[0]
}
