package roles

var devopsProfile = Profile{
	Title:      "DevOps Engineer",
	Slug:       "devops",
	Label:      "DevOps",
	Expertise:  "infrastructure, CI/CD, cloud services, containerization, and automation",
	Discipline: "DevOps",
	Closing:    "Focus specifically on infrastructure, cloud platforms, CI/CD, containerization, automation, and monitoring experience.",
	EvaluationAreas: []string{
		"Infrastructure and cloud platform experience",
		"CI/CD pipeline design and implementation",
		"Containerization and orchestration knowledge",
		"Automation and scripting abilities",
		"Monitoring and observability expertise",
		"Security practices and implementation",
		"Performance optimization experience",
		"Collaboration and communication skills",
	},
	Guidance: Guidance{
		Junior: "Focus on fundamentals, Linux skills, basic cloud knowledge, and willingness to learn",
		Mid:    "Look for automation experience, CI/CD pipeline implementation, and container orchestration",
		Senior: "Evaluate architecture decisions, scalability solutions, and technical leadership in DevOps practices",
	},
	Categories: []Category{
		{Name: "Infrastructure & Cloud", Focus: "infrastructure & cloud experience"},
		{Name: "CI/CD & Deployment", Focus: "CI/CD experience"},
		{Name: "Containerization & Orchestration", Focus: "container experience"},
		{Name: "Automation & Scripting", Focus: "automation experience"},
		{Name: "Monitoring & Observability", Focus: "monitoring experience"},
	},
	Levels: map[string]Requirements{
		LevelJunior: {
			CoreSkills: []string{
				"Linux/Unix", "Basic Scripting (Bash/Python)",
				"Git & Version Control", "Basic CI/CD Concepts",
				"Docker Basics", "Cloud Basics (AWS/Azure/GCP)",
				"Basic Monitoring", "Infrastructure Basics",
			},
			PreferredSkills: []string{
				"Configuration Management Tools", "Basic Kubernetes",
				"Infrastructure as Code", "Networking Fundamentals",
				"Security Basics", "Log Management",
			},
			Responsibilities: []string{
				"Assist with deployment processes",
				"Help maintain CI/CD pipelines",
				"Perform basic server administration tasks",
				"Monitor system performance and availability",
				"Document infrastructure and processes",
				"Support development and operations teams",
			},
		},
		LevelMid: {
			CoreSkills: []string{
				"Advanced Linux/Unix", "Scripting & Automation",
				"Container Orchestration (Kubernetes)",
				"CI/CD Pipeline Design", "Infrastructure as Code",
				"Cloud Services & Architecture", "Monitoring & Logging",
				"Networking & Security",
			},
			PreferredSkills: []string{
				"Multi-cloud Deployments", "Configuration Management",
				"Database Administration", "Performance Tuning",
				"High Availability Design", "Disaster Recovery",
				"Cost Optimization",
			},
			Responsibilities: []string{
				"Design and implement CI/CD pipelines",
				"Build and maintain containerized environments",
				"Automate infrastructure provisioning",
				"Implement monitoring and alerting solutions",
				"Troubleshoot complex system issues",
				"Improve system reliability and performance",
				"Collaborate with development teams on best practices",
			},
		},
		LevelSenior: {
			CoreSkills: []string{
				"DevOps Architecture", "Platform Engineering",
				"Advanced Kubernetes & Container Orchestration",
				"Advanced CI/CD & GitOps", "Cloud-Native Architecture",
				"SRE Practices", "Security & Compliance",
				"Performance Engineering",
			},
			PreferredSkills: []string{
				"Multi-cloud Strategy", "Service Mesh",
				"Serverless Architecture", "Chaos Engineering",
				"Advanced Monitoring & Observability",
				"Mentorship & Leadership", "Cost Management",
			},
			Responsibilities: []string{
				"Design resilient and scalable infrastructure",
				"Establish DevOps best practices and standards",
				"Lead implementation of complex DevOps solutions",
				"Design disaster recovery and high availability solutions",
				"Optimize cloud infrastructure and costs",
				"Mentor junior engineers and collaborate with leadership",
				"Drive automation and continuous improvement",
				"Ensure security and compliance throughout the pipeline",
			},
		},
	},
	Technologies: devopsTechnologies,
	Catalogs: []Catalog{
		{
			Key:    "cloud_platforms",
			HasKey: "cloud",
			Entries: []CatalogEntry{
				{Name: "aws", Keywords: []string{"aws", "amazon web services", "amazon cloud", "ec2", "s3", "rds", "lambda",
					"cloudformation", "cloudfront", "cloudwatch", "iam", "vpc", "ecs", "eks"}},
				{Name: "azure", Keywords: []string{"azure", "microsoft azure", "azure devops", "app service", "azure functions",
					"azure vm", "azure storage", "azure sql", "arm template"}},
				{Name: "gcp", Keywords: []string{"gcp", "google cloud", "google cloud platform", "compute engine", "cloud storage",
					"cloud sql", "cloud functions", "gke", "app engine", "bigquery"}},
				{Name: "alibaba", Keywords: []string{"alibaba cloud", "aliyun"}},
				{Name: "ibm", Keywords: []string{"ibm cloud", "bluemix"}},
				{Name: "oracle", Keywords: []string{"oracle cloud", "oci", "oracle cloud infrastructure"}},
				{Name: "digital_ocean", Keywords: []string{"digital ocean", "digitalocean"}},
				{Name: "heroku", Keywords: []string{"heroku"}},
			},
		},
		{
			Key:    "ci_cd_tools",
			HasKey: "cicd",
			Entries: []CatalogEntry{
				{Name: "jenkins", Keywords: []string{"jenkins", "jenkins pipeline", "jenkinsfile"}},
				{Name: "github_actions", Keywords: []string{"github actions", "github workflow"}},
				{Name: "gitlab_ci", Keywords: []string{"gitlab ci", "gitlab-ci", "gitlab pipeline", ".gitlab-ci.yml"}},
				{Name: "circleci", Keywords: []string{"circleci", "circle ci"}},
				{Name: "travis_ci", Keywords: []string{"travis ci", "travis-ci", ".travis.yml"}},
				{Name: "azure_devops", Keywords: []string{"azure devops", "azure pipeline", "azure pipelines", "vsts", "tfs"}},
				{Name: "teamcity", Keywords: []string{"teamcity", "team city"}},
				{Name: "bamboo", Keywords: []string{"bamboo", "atlassian bamboo"}},
				{Name: "codebuild", Keywords: []string{"codebuild", "aws codebuild", "code build"}},
				{Name: "codepipeline", Keywords: []string{"codepipeline", "aws codepipeline", "code pipeline"}},
				{Name: "argocd", Keywords: []string{"argocd", "argo cd", "gitops"}},
				{Name: "fluxcd", Keywords: []string{"fluxcd", "flux cd", "flux"}},
				{Name: "spinnaker", Keywords: []string{"spinnaker"}},
				{Name: "tekton", Keywords: []string{"tekton", "tekton pipeline"}},
				{Name: "concourse", Keywords: []string{"concourse", "concourse ci"}},
			},
			Generic:         "ci_cd_generic",
			GenericKeywords: []string{"ci/cd", "ci / cd", "continuous integration", "continuous delivery"},
		},
		{
			Key:    "container_technologies",
			HasKey: "container",
			Entries: []CatalogEntry{
				{Name: "docker", Keywords: []string{"docker", "dockerfile", "docker-compose", "docker swarm"}},
				{Name: "kubernetes", Keywords: []string{"kubernetes", "k8s", "kubectl", "aks", "eks", "gke", "kube"}},
				{Name: "openshift", Keywords: []string{"openshift", "okd"}},
				{Name: "rancher", Keywords: []string{"rancher"}},
				{Name: "nomad", Keywords: []string{"nomad", "hashicorp nomad"}},
				{Name: "containerd", Keywords: []string{"containerd"}},
				{Name: "cri-o", Keywords: []string{"cri-o", "crio"}},
				{Name: "podman", Keywords: []string{"podman"}},
				{Name: "helm", Keywords: []string{"helm", "helm chart"}},
				{Name: "istio", Keywords: []string{"istio", "service mesh"}},
				{Name: "linkerd", Keywords: []string{"linkerd"}},
				{Name: "consul", Keywords: []string{"consul", "hashicorp consul"}},
			},
		},
		{
			Key: "config_management",
			Entries: []CatalogEntry{
				{Name: "ansible", Keywords: []string{"ansible", "ansible playbook", "ansible tower"}},
				{Name: "puppet", Keywords: []string{"puppet", "puppet enterprise"}},
				{Name: "chef", Keywords: []string{"chef", "chef cookbook"}},
				{Name: "salt", Keywords: []string{"saltstack", "salt"}},
				{Name: "terraform", Keywords: []string{"terraform", "hashicorp terraform"}},
				{Name: "cloudformation", Keywords: []string{"cloudformation", "aws cloudformation", "cloud formation"}},
				{Name: "pulumi", Keywords: []string{"pulumi"}},
				{Name: "cdktf", Keywords: []string{"cdktf", "cdk for terraform", "terraform cdk"}},
			},
		},
		{
			Key: "monitoring_tools",
			Entries: []CatalogEntry{
				{Name: "prometheus", Keywords: []string{"prometheus", "alertmanager"}},
				{Name: "grafana", Keywords: []string{"grafana"}},
				{Name: "nagios", Keywords: []string{"nagios"}},
				{Name: "zabbix", Keywords: []string{"zabbix"}},
				{Name: "datadog", Keywords: []string{"datadog", "data dog"}},
				{Name: "new_relic", Keywords: []string{"new relic", "newrelic"}},
				{Name: "splunk", Keywords: []string{"splunk"}},
				{Name: "elk", Keywords: []string{"elk", "elasticsearch", "logstash", "kibana", "elastic stack"}},
				{Name: "cloudwatch", Keywords: []string{"cloudwatch", "aws cloudwatch", "cloud watch"}},
				{Name: "dynatrace", Keywords: []string{"dynatrace"}},
				{Name: "appdynamics", Keywords: []string{"appdynamics", "app dynamics"}},
				{Name: "sumologic", Keywords: []string{"sumologic", "sumo logic"}},
				{Name: "sentry", Keywords: []string{"sentry"}},
				{Name: "fluentd", Keywords: []string{"fluentd"}},
				{Name: "telegraf", Keywords: []string{"telegraf"}},
				{Name: "influxdb", Keywords: []string{"influxdb", "influx"}},
			},
		},
	},
	Experience: []ExperienceGroup{
		{
			Key:   "cloud",
			Label: "CLOUD EXPERIENCE",
			Noun:  "cloud",
			Keywords: []string{"aws", "amazon web services", "ec2", "s3", "rds", "lambda", "azure",
				"microsoft azure", "app service", "azure functions", "gcp", "google cloud",
				"compute engine", "cloud", "iaas", "paas", "saas", "vpc", "subnet",
				"security group", "cloud formation", "terraform", "load balancer"},
		},
		{
			Key:   "cicd",
			Label: "CI/CD EXPERIENCE",
			Noun:  "CI/CD",
			Keywords: []string{"ci/cd", "continuous integration", "continuous delivery", "continuous deployment",
				"jenkins", "gitlab ci", "github actions", "azure devops", "pipeline", "build",
				"release", "travis", "circleci", "codebuild", "argocd", "flux"},
		},
		{
			Key:   "container",
			Label: "CONTAINER EXPERIENCE",
			Noun:  "container",
			Keywords: []string{"docker", "container", "kubernetes", "k8s", "pod", "deployment",
				"cluster", "helm", "openshift", "rancher", "containerization",
				"microservice", "service mesh", "istio", "linkerd", "docker-compose"},
		},
	},
	Signals: []Signal{
		{Key: "iac", Keywords: []string{"terraform", "cloudformation", "infrastructure as code", "iac",
			"pulumi", "arm template", "bicep", "cdk", "serverless framework"}},
		{Key: "automation", Keywords: []string{"automat", "script", "pipeline", "ci/cd", "continuous integration",
			"ansible", "puppet", "chef", "salt", "cron", "shell script", "python script"}},
	},
}

var devopsTechnologies = setOf(
	"docker", "kubernetes", "k8s", "jenkins", "gitlab ci", "github actions",
	"circleci", "travis ci", "terraform", "cloudformation", "ansible", "puppet",
	"chef", "salt", "aws", "azure", "gcp", "google cloud", "cloud", "devops",
	"ci/cd", "continuous integration", "continuous delivery", "continuous deployment",
	"prometheus", "grafana", "nagios", "zabbix", "elk", "elasticsearch", "logstash",
	"kibana", "datadog", "splunk", "new relic", "linux", "bash", "shell", "shell script",
	"powershell", "python", "automation", "git", "vagrant", "packer", "istio",
	"consul", "vault", "argocd", "fluxcd", "helm", "microservices", "serverless",
	"lambda", "vpc", "security group", "iam", "load balancer", "load balancing", "nginx", "apache",
	"iis", "s3", "ec2", "rds", "eks", "ecs", "sqs", "sns", "route53", "cloudfront", "cloudwatch",
	"networking", "virtual machine", "vm", "high availability", "ha", "disaster recovery",
	"dr", "infrastructure", "infrastructure as code", "iac", "service mesh", "monitoring", "logging",
)
