package appconfig

import (
	"fmt"
	"io"
)

// ShowConfig prints the current configuration summary.
func ShowConfig(out io.Writer, file string, cfg *Config, fallback Config) {
	if file == "" {
		fmt.Fprintln(out, "No config file loaded (using defaults).")
	} else {
		fmt.Fprintf(out, "Config file: %s\n\n", file)
	}

	fmt.Fprintln(out, "Current configuration:")
	if cfg == nil {
		fmt.Fprintf(out, "  Debug:            %v\n", fallback.Debug)
		fmt.Fprintf(out, "  Embedding Host:   %s\n", fallback.EmbeddingHost)
		fmt.Fprintf(out, "  Embedding Model:  %s\n", fallback.EmbeddingModel)
		fmt.Fprintf(out, "  Generation Host:  %s\n", fallback.GenerationHost)
		fmt.Fprintf(out, "  Generation Model: %s\n", fallback.GenerationModel)
		return
	}

	fmt.Fprintf(out, "  Debug:            %v\n", cfg.Debug)
	fmt.Fprintf(out, "  Embedding Host:   %s\n", cfg.EmbeddingHost)
	fmt.Fprintf(out, "  Embedding Model:  %s\n", cfg.EmbeddingModel)
	fmt.Fprintf(out, "  Generation Host:  %s\n", cfg.GenerationHost)
	fmt.Fprintf(out, "  Generation Model: %s\n", cfg.GenerationModel)
	fmt.Fprintf(out, "  Top K:            %d\n", cfg.EvidenceTopK())
	fmt.Fprintf(out, "  Max Clause Chars: %d\n", cfg.ClauseCharLimit())
	fmt.Fprintf(out, "  Repair Attempts:  %d\n", cfg.RepairLimit())
	fmt.Fprintf(out, "  Transient Retries: %d\n", cfg.TransientRetryLimit())
	fmt.Fprintf(out, "  Request Timeout:  %s\n", cfg.RequestTimeout())
	fmt.Fprintf(out, "  Index Path:       %s\n", cfg.IndexFilePath())
	fmt.Fprintf(out, "  Log File:         %s\n", cfg.LogFilePath())
}
