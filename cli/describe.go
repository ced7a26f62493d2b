package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/finder/core/metadata"
	"github.com/goto/salt/printer"
	"github.com/goto/salt/term"
	"github.com/spf13/cobra"
)

func describeCommand(cfg *Config) *cobra.Command {
	var (
		required bool
		output   string
	)
	cmd := &cobra.Command{
		Use:   "describe <object>",
		Short: "Show the fields of an object type",
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: cobra.ExactArgs(1),
		Example: heredoc.Doc(`
			$ finder describe Account
			$ finder describe Account --required -o json
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := initMetadataService(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			var fields []metadata.Field
			if required {
				fields, err = svc.RequiredFields(cmd.Context(), args[0])
			} else {
				fields, err = svc.Fields(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			if output == "json" {
				fmt.Fprintln(cmd.OutOrStdout(), prettyPrint(fields))
				return nil
			}

			report := [][]string{{"NAME", "TYPE", "NILLABLE"}}
			for _, f := range fields {
				report = append(report, []string{term.Bluef(f.Name), f.Type, strconv.FormatBool(f.Nillable)})
			}
			printer.Table(os.Stdout, report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&required, "required", false, "only show fields that cannot be empty")
	cmd.Flags().StringVarP(&output, "out", "o", "table", "flag to control output viewing, for json `-o json`")
	return cmd
}

func orgCommand(cfg *Config) *cobra.Command {
	var namespace string
	cmd := &cobra.Command{
		Use:   "org",
		Short: "Show the organization and user searches run as",
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: cobra.NoArgs,
		Example: heredoc.Doc(`
			$ finder org
			$ finder org --namespace crm
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeFn, err := initMetadataService(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeFn()

			org, err := svc.Organization(cmd.Context())
			if err != nil {
				return err
			}
			user, err := svc.CurrentUser(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Organization:\t", term.Greenf(org.Name), "("+org.ID+")")
			fmt.Fprintln(cmd.OutOrStdout(), "User:\t\t", term.Greenf(user))

			if namespace != "" {
				installed, err := svc.IsInstalled(cmd.Context(), namespace)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Namespace:\t", namespace, "installed:", installed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "check whether a namespace is installed")
	return cmd
}

func initMetadataService(cmd *cobra.Command, cfg *Config) (*metadata.Service, func(), error) {
	if err := overrideConfig(cmd, cfg); err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	bknd, err := initBackend(cfg)
	if err != nil {
		return nil, nil, err
	}
	if bknd.describer == nil {
		bknd.Close()
		return nil, nil, errDescribeUnsupported
	}
	return metadata.NewService(bknd.logger, bknd.describer), bknd.Close, nil
}
