package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jharring9/ByteBracket-CDK/internal/config"
	"github.com/jharring9/ByteBracket-CDK/internal/outputs"
	"github.com/jharring9/ByteBracket-CDK/internal/preflight"
	"github.com/jharring9/ByteBracket-CDK/pkg/bootstrap"
)

const figlet string = ` ____        _       ____                 _        _
| __ ) _   _| |_ ___| __ ) _ __ __ _  ___| | _____| |_
|  _ \| | | | __/ _ \  _ \| '__/ _` + "`" + ` |/ __| |/ / _ \ __|
| |_) | |_| | ||  __/ |_) | | | (_| | (__|   <  __/ |_
|____/ \__, |\__\___|____/|_|  \__,_|\___|_|\_\___|\__|
       |___/
`

type flags struct {
	offseason bool
	// offseasonSet is true when --offseason was given, so the config file
	// decides the season otherwise.
	offseasonSet bool
	configPath   string
}

// contextArgs forwards the CLI flags to the CDK app as context values.
func (f flags) contextArgs() []string {
	var args []string
	if f.offseasonSet {
		args = append(args, "-c", fmt.Sprintf("%s=%s", bootstrap.ContextOffseason, strconv.FormatBool(f.offseason)))
	}
	if f.configPath != "" {
		args = append(args, "-c", fmt.Sprintf("%s=%s", bootstrap.ContextConfig, f.configPath))
	}
	return args
}

func cdkArgs(action string, f flags) []string {
	args := []string{action, "--all"}

	switch action {
	case "deploy":
		args = append(args, "--require-approval", "never", "--concurrency", "100")
	case "destroy":
		args = append(args, "--force", "--concurrency", "100")
	}

	return append(args, f.contextArgs()...)
}

func runCdk(logger *zap.Logger, action string, f flags) error {
	args := cdkArgs(action, f)
	logger.Info("running cdk", zap.Strings("args", args))

	execCmd := exec.Command("cdk", args...)
	execCmd.Stdout = os.Stdout
	execCmd.Stderr = os.Stderr
	if err := execCmd.Run(); err != nil {
		return fmt.Errorf("cdk %s: %w", action, err)
	}
	return nil
}

// loadConfig resolves the config the same way the CDK app does.
func loadConfig(f flags) (config.Config, error) {
	path := f.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if f.offseasonSet {
		cfg.Offseason = f.offseason
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func cdkCommand(logger *zap.Logger, f *flags, action, short string) *cobra.Command {
	return &cobra.Command{
		Use:   action,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Print(figlet)
			return runCdk(logger, action, *f)
		},
	}
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	f := &flags{}

	rootCmd := &cobra.Command{
		Use:           "bytebracket",
		Short:         "ByteBracket infrastructure entry point",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			f.offseasonSet = cmd.Flags().Changed("offseason")
		},
	}
	rootCmd.PersistentFlags().BoolVar(&f.offseason, "offseason", false, "deploy only the static frontend")
	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "", "path to a YAML config file")

	outputsCmd := &cobra.Command{
		Use:   "outputs",
		Short: "Show the outputs of the deployed stacks",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*f)
			if err != nil {
				return err
			}

			reader, err := outputs.NewReader(cmd.Context(), cfg.Region, outputs.WithLogger(logger))
			if err != nil {
				return err
			}

			result, err := reader.Read(cmd.Context(), outputs.StageStacks(cfg))
			if err != nil {
				return err
			}

			bytes, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding outputs: %w", err)
			}

			fmt.Println(string(bytes))
			return nil
		},
	}

	preflightCmd := &cobra.Command{
		Use:   "preflight",
		Short: "Check the account prerequisites of a deployment",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*f)
			if err != nil {
				return err
			}

			checker, err := preflight.NewChecker(cmd.Context(), cfg.Region, preflight.WithLogger(logger))
			if err != nil {
				return err
			}
			return checker.Check(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(
		cdkCommand(logger, f, "synth", "Synthesize the CDK application"),
		cdkCommand(logger, f, "diff", "Compare the CDK application with the deployed stacks"),
		cdkCommand(logger, f, "deploy", "Deploy the CDK application"),
		cdkCommand(logger, f, "destroy", "Destroy the CDK application"),
		outputsCmd,
		preflightCmd,
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logger.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
