package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daniacca/qssa/internal/qssa"
)

// RunConfig holds the runtime options of the run command. The kinetic
// parameters come from the parameter file; everything here controls how
// the run is executed and where its results go.
type RunConfig struct {
	LogLevel string

	Seed         uint64
	Seeded       bool
	Workers      int
	Policy       qssa.DegeneratePolicy
	Trajectories int // overrides Nc when > 0
	Shape        int // overrides shape when > 0

	OutCSV   string
	OutJSON  string
	OutChart string

	SQLitePath  string
	PostgresDSN string

	S3Bucket    string
	S3Prefix    string
	S3Region    string
	S3Endpoint  string
	S3PathStyle bool

	WebhookURL string
	Listen     string
}

// configResolver defines how to resolve a single configuration value
type configResolver struct {
	flagName    string
	envVarName  string
	defaultVal  string
	description string
	setter      func(*RunConfig, string) error
}

func runResolvers() []configResolver {
	return []configResolver{
		{
			flagName:    "log-level",
			envVarName:  "QSSA_LOG_LEVEL",
			defaultVal:  "info",
			description: "Log level: debug, info, warn, error",
			setter:      func(c *RunConfig, v string) error { c.LogLevel = v; return nil },
		},
		{
			flagName:    "seed",
			envVarName:  "QSSA_SEED",
			description: "base random seed (default: drawn from the OS)",
			setter: func(c *RunConfig, v string) error {
				if v == "" {
					return nil
				}
				seed, err := strconv.ParseUint(v, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid seed %q: %w", v, err)
				}
				c.Seed, c.Seeded = seed, true
				return nil
			},
		},
		{
			flagName:    "workers",
			envVarName:  "QSSA_WORKERS",
			defaultVal:  "1",
			description: "number of trajectories simulated concurrently",
			setter:      intSetter("workers", func(c *RunConfig, n int) { c.Workers = n }),
		},
		{
			flagName:    "policy",
			envVarName:  "QSSA_POLICY",
			defaultVal:  "hold",
			description: "what to do when no reaction can fire: hold or abort",
			setter: func(c *RunConfig, v string) error {
				p, err := qssa.ParseDegeneratePolicy(v)
				c.Policy = p
				return err
			},
		},
		{
			flagName:    "trajectories",
			envVarName:  "QSSA_TRAJECTORIES",
			description: "override Nc from the parameter file",
			setter:      intSetter("trajectories", func(c *RunConfig, n int) { c.Trajectories = n }),
		},
		{
			flagName:    "shape",
			envVarName:  "QSSA_SHAPE",
			description: "override shape from the parameter file",
			setter:      intSetter("shape", func(c *RunConfig, n int) { c.Shape = n }),
		},
		{
			flagName:    "out-csv",
			envVarName:  "QSSA_OUT_CSV",
			description: "write the long-format CSV to this path",
			setter:      func(c *RunConfig, v string) error { c.OutCSV = v; return nil },
		},
		{
			flagName:    "out-json",
			envVarName:  "QSSA_OUT_JSON",
			description: "write the dataset JSON to this path",
			setter:      func(c *RunConfig, v string) error { c.OutJSON = v; return nil },
		},
		{
			flagName:    "out-chart",
			envVarName:  "QSSA_OUT_CHART",
			description: "write a PNG chart of the ensemble means to this path",
			setter:      func(c *RunConfig, v string) error { c.OutChart = v; return nil },
		},
		{
			flagName:    "sqlite",
			envVarName:  "QSSA_SQLITE",
			description: "store the dataset in this SQLite database",
			setter:      func(c *RunConfig, v string) error { c.SQLitePath = v; return nil },
		},
		{
			flagName:    "postgres",
			envVarName:  "QSSA_POSTGRES_DSN",
			description: "store the dataset in this Postgres database",
			setter:      func(c *RunConfig, v string) error { c.PostgresDSN = v; return nil },
		},
		{
			flagName:    "s3-bucket",
			envVarName:  "QSSA_S3_BUCKET",
			description: "upload written artifacts to this S3 bucket",
			setter:      func(c *RunConfig, v string) error { c.S3Bucket = v; return nil },
		},
		{
			flagName:    "s3-prefix",
			envVarName:  "QSSA_S3_PREFIX",
			defaultVal:  "qssa",
			description: "key prefix for uploaded artifacts",
			setter:      func(c *RunConfig, v string) error { c.S3Prefix = v; return nil },
		},
		{
			flagName:    "s3-region",
			envVarName:  "QSSA_S3_REGION",
			defaultVal:  "us-east-1",
			description: "S3 region",
			setter:      func(c *RunConfig, v string) error { c.S3Region = v; return nil },
		},
		{
			flagName:    "s3-endpoint",
			envVarName:  "QSSA_S3_ENDPOINT",
			description: "custom S3 endpoint (e.g. MinIO)",
			setter:      func(c *RunConfig, v string) error { c.S3Endpoint = v; return nil },
		},
		{
			flagName:    "s3-path-style",
			envVarName:  "QSSA_S3_PATH_STYLE",
			defaultVal:  "false",
			description: "use path-style S3 addressing",
			setter: func(c *RunConfig, v string) error {
				b, err := strconv.ParseBool(v)
				if err != nil {
					return fmt.Errorf("invalid s3-path-style %q: %w", v, err)
				}
				c.S3PathStyle = b
				return nil
			},
		},
		{
			flagName:    "webhook",
			envVarName:  "QSSA_WEBHOOK_URL",
			description: "POST a progress event per finished trajectory to this URL",
			setter:      func(c *RunConfig, v string) error { c.WebhookURL = v; return nil },
		},
		{
			flagName:    "listen",
			envVarName:  "QSSA_LISTEN",
			description: "serve /healthz, /metrics and the /progress websocket on this address during the run",
			setter:      func(c *RunConfig, v string) error { c.Listen = v; return nil },
		},
	}
}

func intSetter(name string, set func(*RunConfig, int)) func(*RunConfig, string) error {
	return func(c *RunConfig, v string) error {
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		if n < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", name, n)
		}
		set(c, n)
		return nil
	}
}

// registerConfigFlags adds one string flag per resolver. Flags carry no
// default of their own so that an unset flag falls through to the
// environment.
func registerConfigFlags(cmd *cobra.Command, resolvers []configResolver) {
	for _, r := range resolvers {
		desc := r.description
		if r.defaultVal != "" {
			desc = fmt.Sprintf("%s (default %q)", desc, r.defaultVal)
		}
		cmd.Flags().String(r.flagName, "", fmt.Sprintf("%s [$%s]", desc, r.envVarName))
	}
}

// resolveConfig applies flag, then environment variable, then default for
// every resolver. All invalid values are reported together.
func resolveConfig(cmd *cobra.Command, resolvers []configResolver) (RunConfig, error) {
	var cfg RunConfig
	var errs []error
	for _, r := range resolvers {
		value := r.defaultVal
		if f := cmd.Flags().Lookup(r.flagName); f != nil && f.Changed {
			value = f.Value.String()
		} else if env, ok := os.LookupEnv(r.envVarName); ok && strings.TrimSpace(env) != "" {
			value = strings.TrimSpace(env)
		}
		if err := r.setter(&cfg, value); err != nil {
			errs = append(errs, err)
		}
	}
	return cfg, errors.Join(errs...)
}
