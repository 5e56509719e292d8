// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"govscheme-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) < 1 {
		help(out)
		return fmt.Errorf("no command given")
	}

	switch args[0] {
	case "add":
		fs := flag.NewFlagSet("add", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID (e.g., explore-catalog)")
		displayName := fs.String("displayName", "", "Display Name (e.g., Explore Catalog)")
		description := fs.String("description", "", "Description")
		category := fs.String("category", "", "Category (e.g., reference)")
		taskType := fs.String("taskType", "", "Zeebe Task Type (e.g., reference-explore)")
		version := fs.String("version", "1.0.0", "Version")
		status := fs.String("status", registry.StatusPlanned, "Implementation Status (planned, in-progress, completed, verified)")
		timeout := fs.String("timeout", "10s", "Job timeout")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			return fmt.Errorf("id, displayName, description, category, and taskType are required for add")
		}

		reg, err := registry.LoadOrCreate(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		err = reg.Add(registry.Activity{
			ID:                   *id,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *status,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              *timeout,
			Tags:                 []string{},
		})
		if err != nil {
			return err
		}
		if err := reg.Validate(); err != nil {
			return err
		}
		if err := reg.Save(*path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Added activity: %s\n", *id)

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		id := fs.String("id", "", "Activity ID to update")
		field := fs.String("field", "", "Field to update (status, version, timeout, retries, ...)")
		value := fs.String("value", "", "New value for the field")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" || *field == "" || *value == "" {
			return fmt.Errorf("id, field, and value are required for update")
		}

		reg, err := registry.LoadRegistry(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Update(*id, *field, *value); err != nil {
			return err
		}
		if err := reg.Save(*path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Updated activity %s, field %s to %s\n", *id, *field, *value)

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		reg, err := registry.LoadRegistry(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if err := reg.Validate(); err != nil {
			return fmt.Errorf("registry validation failed: %w", err)
		}
		fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))

	case "list":
		fs := flag.NewFlagSet("list", flag.ContinueOnError)
		path := fs.String("path", defaultRegistryPath, "Path to registry file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		reg, err := registry.LoadRegistry(*path)
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		for _, a := range reg.Activities {
			fmt.Fprintf(out, "%-32s %-12s %s\n", a.TaskType, a.ImplementationStatus, a.DisplayName)
		}

	default:
		help(out)
	}
	return nil
}

func help(out io.Writer) {
	fmt.Fprintln(out, `
Usage: registry-updater <command> [flags]

Commands:
  add       Add a new activity to the registry
  update    Update an existing activity's field
  validate  Validate the registry file
  list      List task types and their status
  help      Show this help message

Examples:
  registry-updater add -id explore-catalog -displayName "Explore Catalog" -description "Lists reference data" -category reference -taskType reference-explore
  registry-updater update -id explore-catalog -field status -value verified
  registry-updater validate -path configs/activity-registry.json

Use 'registry-updater <command> -h' for more information about a command.`)
}
