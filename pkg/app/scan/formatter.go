package scan

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// FormatOutput formats scan results according to output format
func FormatOutput(w io.Writer, response *Response, format string) error {
	switch format {
	case "json":
		return formatJSON(w, response)
	case "yaml":
		return formatYAML(w, response)
	case "table":
		return formatTable(w, response)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// formatTable formats results as a table
func formatTable(w io.Writer, response *Response) error {
	if response.TotalBlobs == 0 {
		fmt.Fprintln(w, "No key blobs found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	// Header
	fmt.Fprintf(tw, "PATH\tOFFSET\tLENGTH\tTYPE\tALGORITHM\tKEY\tKEY ID\n")
	fmt.Fprintf(tw, "----\t------\t------\t----\t---------\t---\t------\n")

	// Data rows
	for _, file := range response.Files {
		for _, blob := range file.Blobs {
			fmt.Fprintf(tw, "%s\t0x%08x\t%d\t%s\t%s\t%s\t%s\n",
				file.Path, blob.Offset, blob.Length, blob.BlobType, blob.Algorithm, blob.Label, blob.KeyID)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	// Summary
	fmt.Fprintf(w, "\nFound %d key blob(s) in %d file(s)", response.TotalBlobs, len(response.Files))
	if response.Failed > 0 {
		fmt.Fprintf(w, " (%d failed)", response.Failed)
	}
	fmt.Fprintf(w, " in %v\n", response.ScanTime)

	return nil
}

// formatJSON formats results as JSON
func formatJSON(w io.Writer, response *Response) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(response)
}

// formatYAML formats results as YAML
func formatYAML(w io.Writer, response *Response) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(response)
}
