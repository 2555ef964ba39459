package roles

var frontendProfile = Profile{
	Title:      "Frontend Developer",
	Slug:       "frontend",
	Label:      "Frontend",
	Expertise:  "web technologies, modern frameworks, and UI/UX implementation",
	Discipline: "frontend development",
	Closing:    "Focus specifically on frontend frameworks, UI implementation, responsive design, code quality, and performance.",
	EvaluationAreas: []string{
		"Technical skills (frameworks, languages, tools)",
		"Project experience and complexity",
		"UI/UX sensibility and implementation skills",
		"Code quality indicators and best practices",
		"Responsive design and cross-browser expertise",
		"Performance optimization knowledge",
		"Testing experience and approaches",
		"Collaboration with designers and backend developers",
	},
	Guidance: Guidance{
		Junior: "Focus on fundamentals, learning potential, and basic projects",
		Mid:    "Look for framework proficiency, state management, and component design",
		Senior: "Evaluate architecture decisions, scalability approaches, and technical leadership",
	},
	Categories: []Category{
		{Name: "Technical Skills", Focus: "frontend technical skills"},
		{Name: "Frontend Projects", Focus: "project experience"},
		{Name: "Code Quality & Best Practices", Focus: "code quality indicators"},
		{Name: "Responsive Design & Compatibility", Focus: "responsive design experience"},
		{Name: "Overall Presentation", Focus: "resume presentation"},
	},
	Levels: map[string]Requirements{
		LevelJunior: {
			CoreSkills: []string{
				"HTML5", "CSS3", "JavaScript", "Responsive Design",
				"Basic React/Angular/Vue", "Version Control (Git)",
				"Browser Dev Tools", "CSS Frameworks (Bootstrap/Tailwind)",
			},
			PreferredSkills: []string{
				"TypeScript", "SASS/LESS", "Basic Testing", "Figma/Design Tools",
				"Accessibility Knowledge", "Basic Performance Optimization",
			},
			Responsibilities: []string{
				"Implement UI components following designs",
				"Fix bugs and improve UI performance",
				"Write clean, maintainable code",
				"Collaborate with designers and backend developers",
				"Test and debug across browsers",
			},
		},
		LevelMid: {
			CoreSkills: []string{
				"Advanced JavaScript", "React/Angular/Vue Proficiency",
				"State Management", "REST/GraphQL APIs", "Jest/Testing Library",
				"Performance Optimization", "Responsive/Mobile Design",
				"Webpack/Build Tools", "TypeScript",
			},
			PreferredSkills: []string{
				"CI/CD", "SSR/SSG", "Advanced CSS", "Animation",
				"Design Systems", "Cross-browser Compatibility",
				"Web Accessibility (WCAG)", "SEO Fundamentals",
			},
			Responsibilities: []string{
				"Architect frontend applications",
				"Build reusable component libraries",
				"Implement complex UI interactions",
				"Optimize application performance",
				"Mentor junior developers",
				"Work closely with UX/UI designers",
				"Integrate with backend APIs",
			},
		},
		LevelSenior: {
			CoreSkills: []string{
				"Frontend Architecture", "Advanced Framework Knowledge",
				"Performance Optimization", "Scalable Applications",
				"Testing Strategies", "Technical Leadership",
				"CI/CD", "Security Best Practices",
			},
			PreferredSkills: []string{
				"Microfrontends", "Design Systems", "Advanced TypeScript",
				"WebGL/Canvas", "PWAs", "Internationalization",
				"Accessibility Expertise", "Cross-platform Development",
			},
			Responsibilities: []string{
				"Design complex frontend architectures",
				"Establish coding standards and best practices",
				"Lead technical implementation of major features",
				"Mentor and grow engineering teams",
				"Evaluate and select technologies",
				"Drive performance and scalability improvements",
				"Collaborate with product and design teams",
				"Make high-level technical decisions",
			},
		},
	},
	Technologies: frontendTechnologies,
	Related: []RelatedTechnologies{
		{Key: "backend_technologies", Technologies: backendTechnologies},
	},
	Catalogs: []Catalog{
		{
			Key:    "frameworks",
			HasKey: "framework",
			Entries: []CatalogEntry{
				{Name: "react", Keywords: []string{"react", "react.js", "reactjs", "next.js", "nextjs"}},
				{Name: "angular", Keywords: []string{"angular", "angularjs"}},
				{Name: "vue", Keywords: []string{"vue", "vue.js", "vuejs", "nuxt"}},
				{Name: "svelte", Keywords: []string{"svelte", "sveltekit"}},
				{Name: "jquery", Keywords: []string{"jquery"}},
			},
		},
		{
			Key: "styling",
			Entries: []CatalogEntry{
				{Name: "css", Keywords: []string{"css", "css3"}},
				{Name: "sass", Keywords: []string{"sass", "scss", "less"}},
				{Name: "tailwind", Keywords: []string{"tailwind", "tailwindcss"}},
				{Name: "bootstrap", Keywords: []string{"bootstrap"}},
				{Name: "css_in_js", Keywords: []string{"styled components", "styled-components", "emotion"}},
				{Name: "component_libraries", Keywords: []string{"material ui", "material-ui", "mui", "chakra ui"}},
			},
		},
		{
			Key:    "state_management",
			HasKey: "state_management",
			Entries: []CatalogEntry{
				{Name: "redux", Keywords: []string{"redux", "redux toolkit"}},
				{Name: "mobx", Keywords: []string{"mobx"}},
				{Name: "vuex", Keywords: []string{"vuex", "pinia"}},
				{Name: "ngrx", Keywords: []string{"ngrx"}},
				{Name: "react_query", Keywords: []string{"react query", "tanstack query"}},
			},
		},
		{
			Key:    "testing_tools",
			HasKey: "testing",
			Entries: []CatalogEntry{
				{Name: "jest", Keywords: []string{"jest"}},
				{Name: "testing_library", Keywords: []string{"testing library", "react testing library"}},
				{Name: "cypress", Keywords: []string{"cypress"}},
				{Name: "playwright", Keywords: []string{"playwright"}},
				{Name: "vitest", Keywords: []string{"vitest"}},
				{Name: "storybook", Keywords: []string{"storybook"}},
			},
		},
		{
			Key: "build_tools",
			Entries: []CatalogEntry{
				{Name: "webpack", Keywords: []string{"webpack"}},
				{Name: "vite", Keywords: []string{"vite"}},
				{Name: "babel", Keywords: []string{"babel"}},
				{Name: "rollup", Keywords: []string{"rollup"}},
				{Name: "parcel", Keywords: []string{"parcel"}},
				{Name: "esbuild", Keywords: []string{"esbuild"}},
			},
		},
	},
	Experience: []ExperienceGroup{
		{
			Key:   "ui",
			Label: "UI/UX EXPERIENCE",
			Noun:  "UI/UX",
			Keywords: []string{"ui/ux", "user interface", "user experience", "design system",
				"figma", "component", "accessibility", "wcag", "animation"},
		},
		{
			Key:   "responsive",
			Label: "RESPONSIVE DESIGN EXPERIENCE",
			Noun:  "responsive design",
			Keywords: []string{"responsive", "mobile", "cross-browser", "browser compatibility",
				"media queries", "mobile-first", "pwa"},
		},
		{
			Key:   "performance",
			Label: "PERFORMANCE EXPERIENCE",
			Noun:  "performance",
			Keywords: []string{"performance", "lighthouse", "core web vitals", "lazy loading",
				"code splitting", "bundle size", "ssr", "server-side rendering", "caching"},
		},
	},
	Signals: []Signal{
		{Key: "accessibility", Keywords: []string{"accessibility", "a11y", "wcag", "aria"}},
		{Key: "typescript", Keywords: []string{"typescript"}},
	},
}

var frontendTechnologies = setOf(
	"html", "html5", "css", "css3", "javascript", "typescript",
	"react", "angular", "vue", "svelte", "jquery", "next.js", "redux",
	"sass", "less", "bootstrap", "tailwind", "material-ui", "material ui",
	"chakra ui", "styled components", "d3.js", "webgl", "three.js",
	"webpack", "babel", "rollup", "vite", "parcel", "eslint", "prettier",
	"jest", "cypress", "playwright", "selenium", "puppeteer", "storybook",
)
