package main

import (
	"encoding/json"
	"fmt"

	"github.com/arbor-cli/arbor/internal/output"
)

// printJSON writes v as indented JSON to the primary output stream.
func printJSON(out *output.Printer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	out.Println(string(data))
	return nil
}

// resolveStartDir picks the explicit --base-dir when given, the process
// working directory otherwise.
func resolveStartDir(baseDir string) string {
	if baseDir != "" {
		return baseDir
	}
	return workDir
}
