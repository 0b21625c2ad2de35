package handlers

import (
	"context"
	"fmt"

	"github.com/kubestrap/kubestrap/internal/config/wizard"
)

// Factory function variables for init - can be replaced in tests.
var (
	// fileExists checks if a file exists.
	fileExists = wizard.FileExists

	// confirmOverwrite asks before replacing an existing file.
	confirmOverwrite = wizard.ConfirmOverwrite

	// runWizard runs the interactive wizard.
	runWizard = wizard.RunWizard

	// writeConfigFile writes the config to a file.
	writeConfigFile = wizard.WriteConfig
)

// Init runs the configuration wizard and writes the result to a file.
func Init(ctx context.Context, outputPath string) error {
	if fileExists(outputPath) {
		ok, err := confirmOverwrite(outputPath)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	printWelcome()

	result, err := runWizard(ctx)
	if err != nil {
		return fmt.Errorf("wizard canceled: %w", err)
	}

	cfg := wizard.BuildConfig(result)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("wizard produced invalid configuration: %w", err)
	}

	if err := writeConfigFile(cfg, outputPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	printInitSuccess(outputPath, result)
	return nil
}

// printWelcome prints the welcome message.
func printWelcome() {
	fmt.Println()
	fmt.Println("kubestrap - Kubernetes on your own machines")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("This wizard creates a cluster configuration with sensible defaults.")
	fmt.Println()
}

// printInitSuccess prints the success message with summary and next steps.
func printInitSuccess(outputPath string, result *wizard.WizardResult) {
	fmt.Println()
	fmt.Println("Configuration saved!")
	fmt.Println()
	fmt.Printf("  File: %s\n", outputPath)
	fmt.Println()

	fmt.Println("Cluster Summary")
	fmt.Println("---------------")
	fmt.Printf("  Name:        %s\n", result.ClusterName)
	fmt.Printf("  Coordinator: %s\n", result.CoordinatorAddress)
	fmt.Printf("  Workers:     %d\n", result.WorkerCount)
	fmt.Printf("  Plugin:      %s\n", result.NetworkPlugin)
	fmt.Printf("  Machines:    %s, %d MB, %d CPUs\n", result.Box, result.MemoryMB, result.CPUs)
	fmt.Println()

	fmt.Println("Next Steps")
	fmt.Println("----------")
	fmt.Printf("  1. Review %s if needed\n", outputPath)
	fmt.Println()
	fmt.Println("  2. Bootstrap your cluster:")
	fmt.Println("     kubestrap up")
	fmt.Println()
}
