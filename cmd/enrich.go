package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/enrich-cli/internal/enrich"
	"github.com/sells-group/enrich-cli/internal/model"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich a person or company across all configured providers",
}

var (
	enrichOutput string
	enrichSave   bool
)

// -- enrich person --

var personRef model.PersonRef

var enrichPersonCmd = &cobra.Command{
	Use:   "person",
	Short: "Enrich a person by email, LinkedIn URL, name, or CPF",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireValidConfig(enrichModes()...); err != nil {
			return err
		}
		ctx := cmd.Context()

		reg := buildRegistry(cfg)
		orch, err := buildOrchestrator(cfg, reg)
		if err != nil {
			return err
		}

		result := orch.EnrichPerson(ctx, personRef)
		if err := emitResult(os.Stdout, result, enrichOutput); err != nil {
			return err
		}
		if enrichSave {
			return saveRun(cmd, personRef, result)
		}
		return nil
	},
}

// -- enrich company --

var companyRef model.CompanyRef

var enrichCompanyCmd = &cobra.Command{
	Use:   "company",
	Short: "Enrich a company by domain, name, CNPJ, or ticker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := requireValidConfig(enrichModes()...); err != nil {
			return err
		}
		ctx := cmd.Context()

		reg := buildRegistry(cfg)
		orch, err := buildOrchestrator(cfg, reg)
		if err != nil {
			return err
		}

		result := orch.EnrichCompany(ctx, companyRef)
		if err := emitResult(os.Stdout, result, enrichOutput); err != nil {
			return err
		}
		if enrichSave {
			return saveRun(cmd, companyRef, result)
		}
		return nil
	},
}

func init() {
	enrichCmd.PersistentFlags().StringVarP(&enrichOutput, "output", "o", "json", "output format (json, table)")
	enrichCmd.PersistentFlags().BoolVar(&enrichSave, "save", false, "persist the run to the store")

	f := enrichPersonCmd.Flags()
	f.StringVar(&personRef.Email, "email", "", "email address")
	f.StringVar(&personRef.LinkedInURL, "linkedin", "", "LinkedIn profile URL")
	f.StringVar(&personRef.FirstName, "first-name", "", "first name")
	f.StringVar(&personRef.LastName, "last-name", "", "last name")
	f.StringVar(&personRef.FullName, "name", "", "full name")
	f.StringVar(&personRef.Phone, "phone", "", "phone number")
	f.StringVar(&personRef.TaxID, "tax-id", "", "Brazilian CPF")
	f.StringVar(&personRef.CompanyDomain, "company-domain", "", "employer domain")
	f.StringVar(&personRef.CompanyName, "company-name", "", "employer name")

	g := enrichCompanyCmd.Flags()
	g.StringVar(&companyRef.Domain, "domain", "", "company domain")
	g.StringVar(&companyRef.Name, "name", "", "company name")
	g.StringVar(&companyRef.LinkedInURL, "linkedin", "", "LinkedIn company URL")
	g.StringVar(&companyRef.TaxID, "tax-id", "", "Brazilian CNPJ")
	g.StringVar(&companyRef.Ticker, "ticker", "", "stock ticker")

	enrichCmd.AddCommand(enrichPersonCmd)
	enrichCmd.AddCommand(enrichCompanyCmd)
	rootCmd.AddCommand(enrichCmd)
}

// enrichModes returns the config modes an enrich command exercises; the
// store is only touched when the run is being persisted.
func enrichModes() []string {
	modes := []string{"enrich"}
	if enrichSave {
		modes = append(modes, "runs")
	}
	return modes
}

// saveRun persists the subject and result as a run record.
func saveRun(cmd *cobra.Command, subject any, result *enrich.Result) error {
	ctx := cmd.Context()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	subjectJSON, err := json.Marshal(subject)
	if err != nil {
		return eris.Wrap(err, "enrich: marshal subject")
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "enrich: marshal result")
	}

	status := model.RunStatusComplete
	if result.Error != "" {
		status = model.RunStatusFailed
	}
	run := &model.Run{
		Kind:    result.Kind,
		Subject: subjectJSON,
		Result:  resultJSON,
		Score:   result.Score,
		Status:  status,
	}
	if err := st.SaveRun(ctx, run); err != nil {
		return eris.Wrap(err, "enrich: save run")
	}
	zap.L().Info("run saved", zap.String("run_id", run.ID))
	fmt.Fprintf(os.Stderr, "Saved run %s\n", run.ID)
	return nil
}

// emitResult writes the result in the requested format.
func emitResult(out io.Writer, result *enrich.Result, format string) error {
	switch format {
	case "table":
		formatResultTable(out, result)
		return nil
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "enrich: encode result")
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

// formatResultTable writes a field/value/providers table for human use.
func formatResultTable(out io.Writer, result *enrich.Result) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FIELD\tVALUE\tCONFIDENCE\tPROVIDERS")

	keys := make([]string, 0, len(result.Provenance))
	for key := range result.Provenance {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		prov := result.Provenance[key]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%.0f\t%s\n",
			key, fieldValue(result, key), prov.Confidence, strings.Join(prov.Providers, ","))
	}

	if result.Person != nil {
		for _, e := range result.Person.Emails {
			_, _ = fmt.Fprintf(w, "email\t%s\t%.0f\t%s\n", e.Address, e.Confidence, strings.Join(e.Providers, ","))
		}
		for _, ph := range result.Person.Phones {
			_, _ = fmt.Fprintf(w, "phone\t%s\t%.0f\t%s\n", ph.Number, ph.Confidence, strings.Join(ph.Providers, ","))
		}
		if len(result.Person.Skills) > 0 {
			_, _ = fmt.Fprintf(w, "skills\t%s\t\t\n", strings.Join(result.Person.Skills, ", "))
		}
	}
	if result.Company != nil {
		for _, kp := range result.Company.KeyPeople {
			_, _ = fmt.Fprintf(w, "key_person\t%s (%s)\t\t\n", kp.Name, kp.Title)
		}
	}

	_, _ = fmt.Fprintf(w, "\nScore:\t%d\n", result.Score)
	if len(result.ContributingProviders) > 0 {
		_, _ = fmt.Fprintf(w, "Providers:\t%s\n", strings.Join(result.ContributingProviders, ", "))
	}
	for name, kind := range result.ProviderErrors {
		_, _ = fmt.Fprintf(w, "Failed:\t%s (%s)\n", name, kind)
	}
	if result.Error != "" {
		_, _ = fmt.Fprintf(w, "Error:\t%s\n", result.Error)
	}
	_ = w.Flush()
}

// fieldValue renders the merged value behind a provenance key.
func fieldValue(result *enrich.Result, key string) string {
	if p := result.Person; p != nil {
		switch key {
		case model.FieldFullName:
			return p.FullName
		case model.FieldJobTitle:
			return p.JobTitle
		case model.FieldCompanyName:
			return p.CompanyName
		case model.FieldCompanyDomain:
			return p.CompanyDomain
		case model.FieldLocation:
			return p.Location
		case model.FieldLinkedInURL:
			return p.LinkedInURL
		}
	}
	if c := result.Company; c != nil {
		switch key {
		case model.FieldName:
			return c.Name
		case model.FieldDomain:
			return c.Domain
		case model.FieldIndustry:
			return c.Industry
		case model.FieldEmployeeCount:
			return fmt.Sprintf("%d", c.EmployeeCount)
		case model.FieldSizeRange:
			return c.SizeRange
		case model.FieldRevenue:
			return c.Revenue
		case model.FieldLocation:
			return c.Location
		case model.FieldFoundedYear:
			return fmt.Sprintf("%d", c.FoundedYear)
		case model.FieldLinkedInURL:
			return c.LinkedInURL
		}
	}
	return ""
}
