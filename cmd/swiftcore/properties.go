package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"swiftcore/internal/propcheck"
)

var propertiesFormat string

func init() {
	propertiesCmd.Flags().StringVar(&propertiesFormat, "format", "pretty", "output format (pretty|json)")
}

var propertiesCmd = &cobra.Command{
	Use:   "properties",
	Short: "List the registered properties",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		props := propcheck.All()
		switch strings.ToLower(propertiesFormat) {
		case "pretty":
			renderPropertiesPretty(cmd.OutOrStdout(), props)
			return nil
		case "json":
			return renderPropertiesJSON(cmd.OutOrStdout(), props)
		default:
			return fmt.Errorf("unsupported format %q (must be pretty or json)", propertiesFormat)
		}
	},
}

func renderPropertiesPretty(out io.Writer, props []propcheck.Property) {
	width := 0
	for _, p := range props {
		width = max(width, runewidth.StringWidth(p.Name))
	}
	name := color.New(color.Bold)
	for _, p := range props {
		fmt.Fprintf(out, "%s  %s\n", name.Sprint(runewidth.FillRight(p.Name, width)), p.Summary)
	}
}

type propertyPayload struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
}

func renderPropertiesJSON(out io.Writer, props []propcheck.Property) error {
	payload := make([]propertyPayload, len(props))
	for i, p := range props {
		payload[i] = propertyPayload{Name: p.Name, Summary: p.Summary}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
