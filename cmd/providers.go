package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/enrich-cli/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "Show provider configuration status and capabilities",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg := buildRegistry(cfg)
		formatProviders(os.Stdout, reg.List())
		return nil
	},
}

// -- providers credits --

var providersCreditsCmd = &cobra.Command{
	Use:   "credits",
	Short: "Show remaining credit balances for providers that report them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		reg := buildRegistry(cfg)

		wiza, ok := reg.Get("wiza").(*provider.WizaAdapter)
		if !ok || !wiza.Configured() {
			return eris.New("wiza is not configured")
		}
		credits, err := wiza.Credits(ctx)
		if err != nil {
			return eris.Wrap(err, "providers credits")
		}
		fmt.Printf("wiza: %d credits remaining\n", credits)
		return nil
	},
}

func init() {
	providersCmd.AddCommand(providersCreditsCmd)
	rootCmd.AddCommand(providersCmd)
}

// formatProviders writes one row per registered adapter.
func formatProviders(out io.Writer, adapters []provider.Adapter) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROVIDER\tCONFIGURED\tCAPABILITIES")
	for _, a := range adapters {
		caps := make([]string, 0, len(a.Capabilities()))
		for _, c := range a.Capabilities() {
			caps = append(caps, string(c))
		}
		_, _ = fmt.Fprintf(w, "%s\t%t\t%s\n", a.Name(), a.Configured(), strings.Join(caps, ", "))
	}
	_ = w.Flush()
}
