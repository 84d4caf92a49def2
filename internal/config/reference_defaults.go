package config

// DefaultReference returns the built-in reference tables. Callers get a fresh
// copy so overlays never touch the package-level literals.
func DefaultReference() *Reference {
	return &Reference{
		Version:    "builtin-1",
		Synonyms:   defaultSynonyms(),
		VerbTiers:  defaultVerbTiers(),
		Roles:      defaultRoles(),
		Levels:     defaultLevels(),
		Categories: defaultCategories(),
	}
}

// defaultSynonyms maps a canonical term to its equivalence class. Lookups are
// bidirectional: a match on any variant counts for the canonical term.
func defaultSynonyms() map[string][]string {
	return map[string][]string{
		"javascript":     {"js", "ecmascript"},
		"typescript":     {"ts"},
		"python":         {"py"},
		"golang":         {"go"},
		"kubernetes":     {"k8s", "kube"},
		"postgresql":     {"postgres", "psql"},
		"mysql":          {"my sql"},
		"mongodb":        {"mongo"},
		"elasticsearch":  {"elastic search", "es"},
		"amazon web services": {"aws"},
		"google cloud":   {"gcp", "google cloud platform"},
		"microsoft azure": {"azure"},
		"continuous integration": {"ci", "ci/cd", "cicd"},
		"machine learning": {"ml"},
		"artificial intelligence": {"ai"},
		"natural language processing": {"nlp"},
		"rest api":       {"restful api", "rest apis", "restful"},
		"graphql":        {"graph ql"},
		"node.js":        {"nodejs", "node js", "node"},
		"react":          {"reactjs", "react.js"},
		"vue":            {"vuejs", "vue.js"},
		"angular":        {"angularjs", "angular.js"},
		"c sharp":        {"c#", "csharp"},
		"c plus plus":    {"c++", "cpp"},
		"objective-c":    {"objective c", "objc"},
		"user experience": {"ux"},
		"user interface": {"ui"},
		"test driven development": {"tdd", "test-driven development"},
		"infrastructure as code": {"iac"},
		"devops":         {"dev ops"},
		"microservices":  {"micro services", "micro-services"},
		"docker":         {"containerization", "containers"},
		"terraform":      {"tf"},
		"scikit-learn":   {"sklearn", "scikit learn"},
		"tensorflow":     {"tensor flow", "tf2"},
		"pytorch":        {"py torch"},
		"sql":            {"structured query language"},
		"html":           {"html5"},
		"css":            {"css3"},
		"project management": {"pm"},
		"quality assurance": {"qa"},
	}
}

// defaultVerbTiers maps achievement-line leading verbs to impact tiers.
// 0 = vague, 1 = passive participation, 2 = execution, 3 = leadership/impact,
// 4 = strategic/transformational. Verbs absent from the table default to
// tier 1 so vocabulary gaps are not over-penalized.
func defaultVerbTiers() map[string]int {
	return map[string]int{
		// tier 0: vague or weak
		"helped": 0, "worked": 0, "assisted": 0, "tried": 0, "attempted": 0,
		"participated": 0, "involved": 0, "familiar": 0, "exposed": 0,

		// tier 1: passive contribution
		"supported": 1, "contributed": 1, "maintained": 1, "handled": 1,
		"used": 1, "followed": 1, "performed": 1, "updated": 1, "monitored": 1,
		"documented": 1, "tested": 1, "reviewed": 1, "collaborated": 1,

		// tier 2: solid execution
		"developed": 2, "built": 2, "implemented": 2, "created": 2,
		"designed": 2, "wrote": 2, "configured": 2, "integrated": 2,
		"automated": 2, "deployed": 2, "migrated": 2, "refactored": 2,
		"debugged": 2, "resolved": 2, "delivered": 2, "analyzed": 2,
		"engineered": 2, "programmed": 2, "constructed": 2,

		// tier 3: leadership and measurable impact
		"led": 3, "managed": 3, "improved": 3, "optimized": 3, "reduced": 3,
		"increased": 3, "accelerated": 3, "streamlined": 3, "mentored": 3,
		"coordinated": 3, "launched": 3, "scaled": 3, "modernized": 3,
		"consolidated": 3, "strengthened": 3, "drove": 3, "owned": 3,

		// tier 4: strategic and transformational
		"architected": 4, "transformed": 4, "pioneered": 4, "spearheaded": 4,
		"founded": 4, "established": 4, "revolutionized": 4, "invented": 4,
		"championed": 4, "orchestrated": 4, "redefined": 4, "directed": 4,
	}
}

func defaultRoles() map[string]RoleProfile {
	return map[string]RoleProfile{
		"backend": {
			Name:     "Backend Engineer",
			Required: []string{"python", "sql", "rest api", "docker", "git"},
			Preferred: []string{
				"kubernetes", "postgresql", "redis", "microservices",
				"amazon web services", "continuous integration", "grpc",
			},
		},
		"frontend": {
			Name:     "Frontend Engineer",
			Required: []string{"javascript", "html", "css", "react", "git"},
			Preferred: []string{
				"typescript", "webpack", "user experience", "graphql",
				"accessibility", "responsive design", "node.js",
			},
		},
		"fullstack": {
			Name:     "Full-Stack Engineer",
			Required: []string{"javascript", "python", "sql", "rest api", "git"},
			Preferred: []string{
				"react", "node.js", "docker", "kubernetes", "typescript",
				"postgresql", "continuous integration",
			},
		},
		"data": {
			Name:     "Data Engineer",
			Required: []string{"python", "sql", "etl", "data modeling", "git"},
			Preferred: []string{
				"spark", "airflow", "kafka", "snowflake", "machine learning",
				"amazon web services", "dbt",
			},
			Weights: map[string]float64{
				"keywords": 1.1,
			},
		},
		"devops": {
			Name:     "DevOps Engineer",
			Required: []string{"linux", "docker", "kubernetes", "continuous integration", "terraform"},
			Preferred: []string{
				"amazon web services", "ansible", "prometheus", "helm",
				"infrastructure as code", "python", "bash",
			},
			Weights: map[string]float64{
				"experience": 1.1,
			},
		},
	}
}

// defaultLevels returns the experience bands. Adjacent bands overlap at their
// boundary so a candidate near a boundary scores well against either level.
func defaultLevels() map[string]LevelBand {
	return map[string]LevelBand{
		"entry":  {Name: "Entry Level", MinYears: 0, MaxYears: 3},
		"mid":    {Name: "Mid Level", MinYears: 2, MaxYears: 6},
		"senior": {Name: "Senior Level", MinYears: 5, MaxYears: 12},
		"lead":   {Name: "Lead / Principal", MinYears: 8, MaxYears: 25},
	}
}

// defaultCategories returns the per-category ceilings. Standard maxima sum to
// 110; the grand total is capped at 100 after summation, which lets excellence
// in one category compensate for adequacy in another.
func defaultCategories() map[string]CategoryLimits {
	return map[string]CategoryLimits{
		"keywords":   {Max: 35, BonusMax: 40},
		"content":    {Max: 18, BonusMax: 20},
		"experience": {Max: 22, BonusMax: 25},
		"structure":  {Max: 22, BonusMax: 25},
		"polish":     {Max: 13, BonusMax: 15},
	}
}
