package roles

var backendProfile = Profile{
	Title:      "Backend Developer",
	Slug:       "backend",
	Label:      "Backend",
	Expertise:  "server-side technologies, APIs, databases, and system architecture",
	Discipline: "backend development",
	Closing:    "Focus specifically on backend development skills, API design, database knowledge, system architecture, and scalability experience.",
	EvaluationAreas: []string{
		"Programming language proficiency and backend frameworks",
		"Database knowledge and experience",
		"API design and implementation expertise",
		"System architecture and scalability understanding",
		"DevOps and deployment knowledge",
		"Security practices and implementation",
		"Performance optimization experience",
		"Testing and quality assurance approach",
	},
	Guidance: Guidance{
		Junior: "Focus on fundamentals, basic API implementation, and database skills",
		Mid:    "Look for architecture decisions, complex implementations, and performance considerations",
		Senior: "Evaluate system design, scalability solutions, and technical leadership",
	},
	Categories: []Category{
		{Name: "Programming & Frameworks", Focus: "backend programming skills"},
		{Name: "Database & Data Management", Focus: "database experience"},
		{Name: "API Design & Implementation", Focus: "API experience"},
		{Name: "Architecture & Scalability", Focus: "architecture experience"},
		{Name: "DevOps & Deployment", Focus: "DevOps experience"},
	},
	Levels: map[string]Requirements{
		LevelJunior: {
			CoreSkills: []string{
				"Python/JavaScript/Java/.NET", "Basic API Development",
				"SQL Fundamentals", "Git Version Control",
				"Basic Authentication", "Data Validation",
				"Basic Testing", "HTTP/REST",
			},
			PreferredSkills: []string{
				"Node.js/Django/Spring/Express", "NoSQL Databases",
				"Docker Basics", "CI/CD Fundamentals",
				"Basic Cloud (AWS/Azure/GCP)", "Agile Methodologies",
			},
			Responsibilities: []string{
				"Develop basic API endpoints",
				"Implement database queries and operations",
				"Debug and fix issues in code",
				"Write unit tests for code",
				"Document code and functionalities",
				"Collaborate with frontend and other developers",
			},
		},
		LevelMid: {
			CoreSkills: []string{
				"Advanced Language Proficiency", "Database Design",
				"API Architecture", "Authentication/Authorization",
				"Caching Strategies", "Error Handling",
				"Performance Optimization", "Message Queues",
				"Containerization", "CI/CD",
			},
			PreferredSkills: []string{
				"Microservices", "Cloud Services",
				"Infrastructure as Code", "Event-Driven Architecture",
				"GraphQL", "Monitoring Tools",
				"Security Best Practices", "Agile/Scrum",
			},
			Responsibilities: []string{
				"Design and implement complex APIs",
				"Optimize database performance",
				"Develop scalable backend services",
				"Implement security best practices",
				"Create comprehensive test suites",
				"Review code and mentor junior developers",
				"Deploy and monitor applications",
				"Collaborate with cross-functional teams",
			},
		},
		LevelSenior: {
			CoreSkills: []string{
				"System Architecture", "Scalability Patterns",
				"Distributed Systems", "Advanced Database Design",
				"Performance Tuning", "Security Architecture",
				"Technical Leadership", "DevOps Integration",
				"API Gateway/Service Mesh",
			},
			PreferredSkills: []string{
				"Multiple Programming Paradigms", "Cloud-Native Development",
				"Serverless Architecture", "Data Engineering",
				"Chaos Engineering", "SRE Practices",
				"Technical Mentorship", "System Design",
			},
			Responsibilities: []string{
				"Architect complex backend systems",
				"Lead technical implementation of major features",
				"Establish coding standards and best practices",
				"Make key technology decisions",
				"Design for performance, scalability, and reliability",
				"Mentor and grow engineering teams",
				"Collaborate with product and business stakeholders",
				"Drive technical vision and innovation",
			},
		},
	},
	Technologies: backendTechnologies,
	Related: []RelatedTechnologies{
		{Key: "frontend_technologies", Technologies: frontendTechnologies},
	},
	Catalogs: []Catalog{
		{
			Key: "programming_languages",
			Entries: []CatalogEntry{
				{Name: "python", Keywords: []string{"python"}},
				{Name: "java", Keywords: []string{"java"}},
				{Name: "javascript", Keywords: []string{"javascript"}},
				{Name: "typescript", Keywords: []string{"typescript"}},
				{Name: "c#", Keywords: []string{"c#"}},
				{Name: "c++", Keywords: []string{"c++"}},
				{Name: "go", Keywords: []string{"go", "golang"}},
				{Name: "rust", Keywords: []string{"rust"}},
				{Name: "php", Keywords: []string{"php"}},
				{Name: "ruby", Keywords: []string{"ruby"}},
				{Name: "kotlin", Keywords: []string{"kotlin"}},
				{Name: "scala", Keywords: []string{"scala"}},
				{Name: "elixir", Keywords: []string{"elixir"}},
			},
		},
		{
			Key: "frameworks",
			Entries: []CatalogEntry{
				{Name: "django", Keywords: []string{"django", "drf", "django rest framework"}},
				{Name: "flask", Keywords: []string{"flask", "flask-restful"}},
				{Name: "fastapi", Keywords: []string{"fastapi", "fast api"}},
				{Name: "spring", Keywords: []string{"spring", "spring boot", "spring framework", "spring mvc", "spring cloud"}},
				{Name: "express", Keywords: []string{"express", "express.js", "expressjs"}},
				{Name: "asp.net", Keywords: []string{"asp.net", "asp.net core", "asp.net mvc", ".net core"}},
				{Name: "laravel", Keywords: []string{"laravel"}},
				{Name: "rails", Keywords: []string{"rails", "ruby on rails", "ror"}},
				{Name: "nestjs", Keywords: []string{"nestjs", "nest.js"}},
				{Name: "phoenix", Keywords: []string{"phoenix", "phoenix framework"}},
				{Name: "nodejs", Keywords: []string{"node.js", "nodejs", "node"}},
				{Name: "dotnet", Keywords: []string{".net", "dotnet", ".net framework"}},
				{Name: "gin", Keywords: []string{"gin", "gin-gonic"}},
			},
		},
		{
			Key:    "databases",
			HasKey: "database",
			Entries: []CatalogEntry{
				{Name: "postgresql", Keywords: []string{"postgresql", "postgres"}},
				{Name: "mysql", Keywords: []string{"mysql", "mariadb"}},
				{Name: "sql_server", Keywords: []string{"sql server", "mssql", "ms sql server"}},
				{Name: "oracle", Keywords: []string{"oracle database", "oracle db", "pl/sql"}},
				{Name: "sqlite", Keywords: []string{"sqlite"}},
				{Name: "mongodb", Keywords: []string{"mongodb", "mongo"}},
				{Name: "redis", Keywords: []string{"redis"}},
				{Name: "cassandra", Keywords: []string{"cassandra"}},
				{Name: "dynamodb", Keywords: []string{"dynamodb"}},
				{Name: "elasticsearch", Keywords: []string{"elasticsearch", "opensearch"}},
				{Name: "neo4j", Keywords: []string{"neo4j"}},
			},
			Generic:         "sql_generic",
			GenericKeywords: []string{"sql", "database", "rdbms"},
		},
	},
	Experience: []ExperienceGroup{
		{
			Key:   "database",
			Label: "DATABASE EXPERIENCE",
			Noun:  "database",
			Keywords: []string{"database", "sql", "postgresql", "postgres", "mysql", "mongodb", "redis",
				"query", "queries", "schema", "index", "migration", "orm", "data model", "nosql", "dynamodb"},
		},
		{
			Key:   "architecture",
			Label: "ARCHITECTURE EXPERIENCE",
			Noun:  "architecture",
			Keywords: []string{"architecture", "architected", "microservice", "distributed", "scalab",
				"event-driven", "message queue", "kafka", "rabbitmq", "high availability",
				"load balancing", "system design", "domain-driven", "serverless"},
		},
	},
	Signals: []Signal{
		{Key: "api", Keywords: []string{"api", "rest", "graphql", "grpc", "endpoint", "soap", "openapi", "swagger"}},
		{Key: "cloud", Keywords: []string{"aws", "azure", "gcp", "google cloud", "cloud", "lambda", "ec2", "s3"}},
		{Key: "microservices", Keywords: []string{"microservice", "micro-service", "service mesh", "distributed system"}},
		{Key: "security", Keywords: []string{"security", "oauth", "jwt", "authentication", "authorization", "encryption", "owasp"}},
	},
}

var backendTechnologies = setOf(
	"python", "java", "c#", "go", "rust", "php", "ruby", "node.js",
	"django", "flask", "fastapi", "spring", "spring boot", ".net", "express",
	"asp.net", "laravel", "ruby on rails", "rails", "nestjs",
	"sql", "mysql", "postgresql", "oracle", "sql server", "ms sql server", "sqlite", "mariadb",
	"mongodb", "cassandra", "dynamodb", "redis", "couchdb", "neo4j",
	"api", "rest", "graphql", "grpc", "soap", "microservices", "websockets",
	"docker", "kubernetes", "aws", "azure", "gcp", "heroku", "digitalocean",
	"ci/cd", "jenkins", "github actions", "gitlab ci", "circleci",
	"rabbitmq", "kafka", "activemq", "sqs", "pubsub",
	"nginx", "apache", "iis", "load balancing", "caching",
	"elasticsearch", "solr", "serverless", "lambda", "authentication",
	"oauth", "jwt", "cors", "security", "hashing", "encryption", "api gateway",
)
