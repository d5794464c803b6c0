package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	bsale "github.com/stockflow/go-bsale"
)

// listFlags are shared by every list command.
type listFlags struct {
	limit  int
	offset int
	all    bool
	where  string
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.limit, "limit", 25, "page size (max 50)")
	cmd.Flags().IntVar(&f.offset, "offset", 0, "items to skip")
	cmd.Flags().BoolVar(&f.all, "all", false, "fetch every page")
	cmd.Flags().StringVar(&f.where, "where", "", `filter expression, e.g. 'state == 0 && name contains "té"'`)
}

// runList fetches one page, or every page with --all, filters the items and
// prints them.
func runList[T any](ctx context.Context, a *app, f *listFlags, fetch bsale.PageFetcher[T]) error {
	filter, err := CompileFilter(f.where)
	if err != nil {
		return err
	}

	var items []T
	if f.all {
		items, err = bsale.ListAll(ctx, fetch)
		if err != nil {
			return err
		}
	} else {
		if f.limit < 1 || f.limit > bsale.MaxPageSize {
			return errors.Newf("--limit must be between 1 and %d", bsale.MaxPageSize)
		}
		page, err := fetch(ctx, f.limit, f.offset)
		if err != nil {
			return err
		}
		items = page.Items
	}

	items, err = Apply(filter, items)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}

	a.logger.Debug().Int("items", len(items)).Bool("all", f.all).Msg("list complete")

	return a.print(items)
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, errors.Newf("invalid id %q", arg)
	}
	return id, nil
}

// optionalState returns nil when the --state flag was not given.
func optionalState(cmd *cobra.Command, state int) *int {
	if !cmd.Flags().Changed("state") {
		return nil
	}
	return bsale.Ptr(state)
}

type credentialsReport struct {
	AccessTokenSet  bool      `json:"accessTokenSet"`
	RefreshTokenSet bool      `json:"refreshTokenSet"`
	ExpiresAt       time.Time `json:"expiresAt"`
	Expired         bool      `json:"expired"`
	ExpiresIn       string    `json:"expiresIn,omitempty"`
}

func newCredentialsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "credentials",
		Short: "Show the configured credentials and whether they have expired",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			creds := a.cfg.Credentials()
			now := a.env.Now()

			report := credentialsReport{
				AccessTokenSet:  creds.AccessToken != "",
				RefreshTokenSet: creds.RefreshToken != "",
				ExpiresAt:       creds.ExpiresAt,
				Expired:         creds.Expired(now),
			}
			if !report.Expired {
				report.ExpiresIn = creds.ExpiresAt.Sub(now).Truncate(time.Second).String()
			}

			return a.print(report)
		},
	}
}

func newProductsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "products", Short: "Products catalogue"}

	var (
		lf    listFlags
		name  string
		state int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			st := optionalState(cmd, state)
			return runList(cmd.Context(), a, &lf, func(ctx context.Context, limit, offset int) (*bsale.Page[bsale.Product], error) {
				return client.Products.List(ctx, &bsale.ListProductsParams{
					Pagination: bsale.Pagination{Limit: limit, Offset: offset},
					Name:       name,
					State:      st,
				})
			})
		},
	}
	lf.register(list)
	list.Flags().StringVar(&name, "name", "", "filter by name")
	list.Flags().IntVar(&state, "state", 0, "0 active, 1 inactive")

	var expand []string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			product, err := client.Products.Get(cmd.Context(), id, expand...)
			if err != nil {
				return err
			}
			return a.print(product)
		},
	}
	get.Flags().StringSliceVar(&expand, "expand", nil, "related resources to embed, e.g. variants,product_type")

	var countState int
	count := &cobra.Command{
		Use:   "count",
		Short: "Count products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			n, err := client.Products.Count(cmd.Context(), optionalState(cmd, countState))
			if err != nil {
				return err
			}
			return a.print(map[string]int{"count": n})
		},
	}
	count.Flags().IntVar(&countState, "state", 0, "0 active, 1 inactive")

	cmd.AddCommand(list, get, count)
	return cmd
}

func newVariantsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "variants", Short: "Product variants"}

	var (
		lf        listFlags
		productID int
		code      string
		barcode   string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List variants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			return runList(cmd.Context(), a, &lf, func(ctx context.Context, limit, offset int) (*bsale.Page[bsale.Variant], error) {
				return client.Variants.List(ctx, &bsale.ListVariantsParams{
					Pagination: bsale.Pagination{Limit: limit, Offset: offset},
					ProductID:  productID,
					Code:       code,
					BarCode:    barcode,
				})
			})
		},
	}
	lf.register(list)
	list.Flags().IntVar(&productID, "product", 0, "only variants of this product")
	list.Flags().StringVar(&code, "code", "", "filter by SKU")
	list.Flags().StringVar(&barcode, "barcode", "", "filter by barcode")

	var expand []string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one variant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			variant, err := client.Variants.Get(cmd.Context(), id, expand...)
			if err != nil {
				return err
			}
			return a.print(variant)
		},
	}
	get.Flags().StringSliceVar(&expand, "expand", nil, "related resources to embed")

	cmd.AddCommand(list, get)
	return cmd
}

func newStocksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "stocks", Short: "Stock levels"}

	var (
		lf        listFlags
		officeID  int
		variantID int
		code      string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List stock levels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			return runList(cmd.Context(), a, &lf, func(ctx context.Context, limit, offset int) (*bsale.Page[bsale.Stock], error) {
				return client.Stocks.List(ctx, &bsale.ListStocksParams{
					Pagination: bsale.Pagination{Limit: limit, Offset: offset},
					OfficeID:   officeID,
					VariantID:  variantID,
					Code:       code,
				})
			})
		},
	}
	lf.register(list)
	list.Flags().IntVar(&officeID, "office", 0, "only this office")
	list.Flags().IntVar(&variantID, "variant", 0, "only this variant")
	list.Flags().StringVar(&code, "code", "", "filter by variant SKU")

	cmd.AddCommand(list)
	return cmd
}

func newDocumentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "documents", Short: "Sales documents"}

	var (
		lf             listFlags
		officeID       int
		clientID       int
		documentTypeID int
		state          int
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			st := optionalState(cmd, state)
			return runList(cmd.Context(), a, &lf, func(ctx context.Context, limit, offset int) (*bsale.Page[bsale.Document], error) {
				return client.Documents.List(ctx, &bsale.ListDocumentsParams{
					Pagination:     bsale.Pagination{Limit: limit, Offset: offset},
					OfficeID:       officeID,
					ClientID:       clientID,
					DocumentTypeID: documentTypeID,
					State:          st,
				})
			})
		},
	}
	lf.register(list)
	list.Flags().IntVar(&officeID, "office", 0, "only documents issued at this office")
	list.Flags().IntVar(&clientID, "client", 0, "only documents of this client")
	list.Flags().IntVar(&documentTypeID, "type", 0, "only this document type")
	list.Flags().IntVar(&state, "state", 0, "0 active, 1 inactive")

	var expand []string
	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			document, err := client.Documents.Get(cmd.Context(), id, expand...)
			if err != nil {
				return err
			}
			return a.print(document)
		},
	}
	get.Flags().StringSliceVar(&expand, "expand", nil, "related resources to embed, e.g. details,client")

	cmd.AddCommand(list, get)
	return cmd
}

func newWebhooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "webhooks", Short: "Webhook subscriptions"}

	var lf listFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List webhooks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			// The webhooks collection is not paginated.
			return runList(cmd.Context(), a, &lf, func(ctx context.Context, _, _ int) (*bsale.Page[bsale.Webhook], error) {
				return client.Webhooks.List(ctx)
			})
		},
	}
	lf.register(list)

	var (
		url      string
		topic    string
		inactive bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a webhook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			reg := bsale.WebhookRegistration{URL: url, Topic: topic, Active: 1}
			if inactive {
				reg.Active = 0
			}
			hook, err := client.Webhooks.Create(cmd.Context(), reg)
			if err != nil {
				return err
			}
			a.logger.Info().Int("id", hook.ID).Str("topic", hook.Topic).Msg("webhook registered")
			return a.print(hook)
		},
	}
	create.Flags().StringVar(&url, "url", "", "HTTPS endpoint receiving notifications")
	create.Flags().StringVar(&topic, "topic", "", "stock, document, product, variant, price, payment or client")
	create.Flags().BoolVar(&inactive, "inactive", false, "register without activating")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			client, err := a.apiClient()
			if err != nil {
				return err
			}
			if err := client.Webhooks.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return a.print(map[string]any{"deleted": id})
		},
	}

	cmd.AddCommand(list, create, del)
	return cmd
}
