package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/goto/finder/core/search"
	"github.com/goto/salt/printer"
	"github.com/spf13/cobra"
)

type searchOptions struct {
	scope   string
	objects []string
	fields  []string
	where   []string
	limits  []string
	dryRun  bool
}

type searchOutput struct {
	Query   string         `json:"query"`
	Results search.Results `json:"results,omitempty"`
}

func searchCommand(cfg *Config) *cobra.Command {
	var opts searchOptions
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search records of several object types at once",
		Annotations: map[string]string{
			"group:core": "true",
		},
		Args: cobra.ExactArgs(1),
		Example: heredoc.Doc(`
			$ finder search acme --object Account --object Contact
			$ finder search acme -o Account --fields Account=Name,BillingCity --limit Account=25
			$ finder search acme -o Account --where "Account=CreatedDate <= TODAY" --scope NAME_FIELDS
			$ finder search acme -o Account --dry-run
		`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := overrideConfig(cmd, cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if opts.scope == "" {
				opts.scope = cfg.Search.Scope
			}

			if opts.dryRun {
				b := search.NewQueryBuilder(nil)
				return runSearch(cmd.Context(), cmd.OutOrStdout(), b, args[0], opts)
			}

			bknd, err := initBackend(cfg)
			if err != nil {
				return err
			}
			defer bknd.Close()

			builderOpts := []search.Option{
				search.WithLogger(bknd.logger),
				search.WithStatsDReporter(bknd.statsd),
			}
			if cfg.Search.ValidateFields && bknd.describer != nil {
				builderOpts = append(builderOpts, search.WithDescriber(bknd.describer))
			}
			b := search.NewQueryBuilder(bknd.executor, builderOpts...)

			ctx, end := bknd.monitor.StartTransaction(cmd.Context(), "finder.search")
			defer end()

			spinner := printer.Spin("")
			defer spinner.Stop()

			return runSearch(ctx, cmd.OutOrStdout(), b, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scope, "scope", "s", "", "ALL_FIELDS, NAME_FIELDS, EMAIL_FIELDS, PHONE_FIELDS or SIDEBAR_FIELDS")
	cmd.Flags().StringArrayVarP(&opts.objects, "object", "o", nil, "object type to search, repeatable")
	cmd.Flags().StringArrayVarP(&opts.fields, "fields", "f", nil, "--fields=Account=Name,BillingCity fields returned for an object")
	cmd.Flags().StringArrayVarP(&opts.where, "where", "w", nil, "--where=\"Account=Type = 'Customer'\" condition for an object")
	cmd.Flags().StringArrayVarP(&opts.limits, "limit", "l", nil, "--limit=Account=25 maximum records for an object")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the composed query without running it")
	_ = cmd.MarkFlagRequired("object")

	return cmd
}

func runSearch(ctx context.Context, out io.Writer, b *search.QueryBuilder, term string, opts searchOptions) error {
	if err := configureBuilder(ctx, b, opts); err != nil {
		return err
	}

	query, err := b.Query(term)
	if err != nil {
		return err
	}
	if opts.dryRun {
		_, err := fmt.Fprintln(out, prettyPrint(searchOutput{Query: query}))
		return err
	}

	ok, err := b.Find(ctx, term)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("search failed: %s", b.LastError())
	}

	_, err = fmt.Fprintln(out, prettyPrint(searchOutput{Query: query, Results: b.Results()}))
	return err
}

func configureBuilder(ctx context.Context, b *search.QueryBuilder, opts searchOptions) error {
	scope, err := search.ParseScope(opts.scope)
	if err != nil {
		return err
	}
	if err := b.SetSearchScope(scope); err != nil {
		return err
	}
	if err := b.SetSearchObjects(opts.objects...); err != nil {
		return err
	}

	for _, s := range opts.fields {
		object, value, err := splitObjectValue(s)
		if err != nil {
			return fmt.Errorf("--fields: %w", err)
		}
		if err := b.SetFieldsForObject(ctx, object, strings.Split(value, ",")...); err != nil {
			return err
		}
	}
	for _, s := range opts.where {
		object, value, err := splitObjectValue(s)
		if err != nil {
			return fmt.Errorf("--where: %w", err)
		}
		if err := b.SetConditionForObject(object, value); err != nil {
			return err
		}
	}
	for _, s := range opts.limits {
		object, value, err := splitObjectValue(s)
		if err != nil {
			return fmt.Errorf("--limit: %w", err)
		}
		limit, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("--limit: %q is not a number", value)
		}
		if err := b.SetLimitForObject(object, limit); err != nil {
			return err
		}
	}
	return nil
}
