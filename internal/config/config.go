// Package config holds every tunable value of the ByteBracket infrastructure
// and loads overrides from a YAML file.
package config

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the YAML file to load when no CDK context key is set.
const EnvConfigPath = "BYTEBRACKET_CONFIG"

// Config is the full infrastructure configuration.
type Config struct {
	// Offseason drops the backend (ECS, Redis, backend pipeline) and keeps
	// only the static frontend.
	Offseason   bool           `yaml:"offseason"`
	ServiceName string         `yaml:"serviceName"`
	Account     string         `yaml:"account"`
	Region      string         `yaml:"region"`
	Domain      DomainConfig   `yaml:"domain"`
	GitHub      GitHubConfig   `yaml:"github"`
	Redis       RedisConfig    `yaml:"redis"`
	Service     ServiceConfig  `yaml:"service"`
	Pipeline    PipelineConfig `yaml:"pipeline"`
}

type DomainConfig struct {
	Name       string `yaml:"name"`
	RecordName string `yaml:"recordName"`
	// HostedZoneID skips the Route53 context lookup when set.
	HostedZoneID   string   `yaml:"hostedZoneId"`
	CertificateArn string   `yaml:"certificateArn"`
	Aliases        []string `yaml:"aliases"`
}

type GitHubConfig struct {
	Owner          string `yaml:"owner"`
	TokenSecretArn string `yaml:"tokenSecretArn"`
	Branch         string `yaml:"branch"`
	FrontendRepo   string `yaml:"frontendRepo"`
	BackendRepo    string `yaml:"backendRepo"`
	CdkRepo        string `yaml:"cdkRepo"`
}

type RedisConfig struct {
	NodeType             string  `yaml:"nodeType"`
	Port                 float64 `yaml:"port"`
	NumNodes             float64 `yaml:"numNodes"`
	Subdomain            string  `yaml:"subdomain"`
	ParameterGroupFamily string  `yaml:"parameterGroupFamily"`
}

type ServiceConfig struct {
	TaskPort              float64 `yaml:"taskPort"`
	HealthCheckPath       string  `yaml:"healthCheckPath"`
	DesiredCount          float64 `yaml:"desiredCount"`
	Cpu                   float64 `yaml:"cpu"`
	MemoryMiB             float64 `yaml:"memoryMiB"`
	MaxCapacityMultiplier float64 `yaml:"maxCapacityMultiplier"`
	TargetCpuUtilization  float64 `yaml:"targetCpuUtilization"`
	AlbSubdomain          string  `yaml:"albSubdomain"`
	ImageTag              string  `yaml:"imageTag"`
	LogRetentionDays      float64 `yaml:"logRetentionDays"`
	// Roles are imported when an ARN is given and created otherwise.
	ExecutionRoleArn string `yaml:"executionRoleArn"`
	TaskRoleArn      string `yaml:"taskRoleArn"`
}

type PipelineConfig struct {
	BuildSpec     string   `yaml:"buildSpec"`
	SynthCommands []string `yaml:"synthCommands"`
}

// LogRetentionDays lists the retention periods CloudWatch Logs accepts for
// service.logRetentionDays.
var LogRetentionDays = []float64{1, 3, 5, 7, 14, 30, 60, 90, 120, 150, 180, 365}

// Default returns the production configuration.
func Default() Config {
	return Config{
		Offseason:   false,
		ServiceName: "ByteBracket",
		Account:     "312042277619",
		Region:      "us-east-1",
		Domain: DomainConfig{
			Name:           "bytebracket.io",
			RecordName:     "bytebracket.io.",
			CertificateArn: "arn:aws:acm:us-east-1:312042277619:certificate/9cf55acf-3454-4428-83ee-4286c7655ff2",
			Aliases:        []string{"bytebracket.io"},
		},
		GitHub: GitHubConfig{
			Owner:          "jharring9",
			TokenSecretArn: "arn:aws:secretsmanager:us-east-1:312042277619:secret:Github/PAT-zO8Xmx",
			Branch:         "main",
			FrontendRepo:   "ByteBracket",
			BackendRepo:    "ByteBracket-Backend",
			CdkRepo:        "ByteBracket-CDK",
		},
		Redis: RedisConfig{
			NodeType:             "cache.t2.micro",
			Port:                 6379,
			NumNodes:             1,
			Subdomain:            "redis",
			ParameterGroupFamily: "redis7",
		},
		Service: ServiceConfig{
			TaskPort:              80,
			HealthCheckPath:       "/health",
			DesiredCount:          1,
			Cpu:                   2048,
			MemoryMiB:             4096,
			MaxCapacityMultiplier: 10,
			TargetCpuUtilization:  50,
			AlbSubdomain:          "backend-alb",
			ImageTag:              "latest",
			LogRetentionDays:      7,
		},
		Pipeline: PipelineConfig{
			BuildSpec: "buildspec.yml",
			SynthCommands: []string{
				"npm install -g aws-cdk",
				"cdk synth",
			},
		},
	}
}

// Load reads a YAML file on top of Default. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate reports the first value that cannot produce a deployable template.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"serviceName", c.ServiceName},
		{"account", c.Account},
		{"region", c.Region},
		{"domain.name", c.Domain.Name},
		{"domain.recordName", c.Domain.RecordName},
		{"domain.certificateArn", c.Domain.CertificateArn},
		{"github.owner", c.GitHub.Owner},
		{"github.tokenSecretArn", c.GitHub.TokenSecretArn},
		{"github.branch", c.GitHub.Branch},
		{"github.frontendRepo", c.GitHub.FrontendRepo},
		{"github.backendRepo", c.GitHub.BackendRepo},
		{"github.cdkRepo", c.GitHub.CdkRepo},
		{"pipeline.buildSpec", c.Pipeline.BuildSpec},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s is required", r.name)
		}
	}

	positive := []struct {
		name  string
		value float64
	}{
		{"redis.port", c.Redis.Port},
		{"redis.numNodes", c.Redis.NumNodes},
		{"service.taskPort", c.Service.TaskPort},
		{"service.desiredCount", c.Service.DesiredCount},
		{"service.cpu", c.Service.Cpu},
		{"service.memoryMiB", c.Service.MemoryMiB},
		{"service.maxCapacityMultiplier", c.Service.MaxCapacityMultiplier},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return fmt.Errorf("%s must be positive, got %v", p.name, p.value)
		}
	}

	if c.Service.TargetCpuUtilization <= 0 || c.Service.TargetCpuUtilization > 100 {
		return fmt.Errorf("service.targetCpuUtilization must be in (0, 100], got %v", c.Service.TargetCpuUtilization)
	}
	if !slices.Contains(LogRetentionDays, c.Service.LogRetentionDays) {
		return fmt.Errorf("service.logRetentionDays must be one of %v, got %v", LogRetentionDays, c.Service.LogRetentionDays)
	}
	if len(c.Domain.Aliases) == 0 {
		return fmt.Errorf("at least one domain alias is required")
	}
	if len(c.Pipeline.SynthCommands) == 0 {
		return fmt.Errorf("at least one pipeline synth command is required")
	}

	return nil
}

// MaxCapacity is the upper bound of the Fargate service auto scaling.
func (c Config) MaxCapacity() float64 {
	return c.Service.DesiredCount * c.Service.MaxCapacityMultiplier
}

// EcrRepositoryName is the backend image repository name.
func (c Config) EcrRepositoryName() string {
	return strings.ToLower("Backend-EcrRepo")
}

// CdkRepository is the owner/repo slug the CDK pipeline synthesizes from.
func (c Config) CdkRepository() string {
	return c.GitHub.Owner + "/" + c.GitHub.CdkRepo
}

// Season is used as a resource tag value.
func (c Config) Season() string {
	if c.Offseason {
		return "offseason"
	}
	return "inseason"
}
