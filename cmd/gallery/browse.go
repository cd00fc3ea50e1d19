package main

import (
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"gallery-be/internal/catalog"
	"gallery-be/internal/filterquery"
	"gallery-be/internal/gallery"
	"gallery-be/internal/logger"

	"github.com/mattn/go-runewidth"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
)

const (
	titleWidth   = 32
	creatorWidth = 20
	priceWidth   = 10
)

type browseOptions struct {
	url      string
	timeout  time.Duration
	query    string
	keyword  string
	pricing  string
	sort     string
	min      string
	max      string
	more     int
	pageSize int
	locale   string
}

func newBrowseCmd() *cobra.Command {
	opts := &browseOptions{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Fetch the catalog once and print the visible window",
		Long: `Fetches the catalog, applies the filter flags the same way the gallery
API does, requests --more additional pages and prints the exposed items.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.url, "url", catalog.DefaultCatalogURL, "catalog endpoint")
	f.DurationVar(&opts.timeout, "timeout", 15*time.Second, "catalog request timeout")
	f.StringVar(&opts.query, "query", "", `saved view as a query string, e.g. "keyword=hat&sort=priceLow"`)
	f.StringVar(&opts.keyword, "keyword", "", "match creator or title, case-insensitive")
	f.StringVar(&opts.pricing, "pricing", "", "comma-separated tier codes (0=paid, 1=free, 2=view only)")
	f.StringVar(&opts.sort, "sort", "", "name, priceHigh or priceLow")
	f.StringVar(&opts.min, "min", "", "minimum price for paid items")
	f.StringVar(&opts.max, "max", "", "maximum price for paid items")
	f.IntVar(&opts.more, "more", 0, "number of load-more requests after the first page")
	f.IntVar(&opts.pageSize, "page-size", gallery.DefaultPageSize, "items per page")
	f.StringVar(&opts.locale, "locale", "en", "collation locale for name sorting")

	return cmd
}

// criteria builds the starting criteria: the saved query first, then the
// individual flags on top.
func (o *browseOptions) criteria() (gallery.Criteria, error) {
	c, err := filterquery.DecodeString(o.query, gallery.DefaultCriteria())
	if err != nil {
		return c, fmt.Errorf("invalid --query: %w", err)
	}

	values := url.Values{}
	if o.keyword != "" {
		values.Set(filterquery.KeyKeyword, o.keyword)
	}
	if o.pricing != "" {
		values.Set(filterquery.KeyPricing, o.pricing)
	}
	if o.sort != "" {
		values.Set(filterquery.KeySort, o.sort)
	}
	c = filterquery.Decode(values, c)

	min, max := c.Range.Min, c.Range.Max
	if o.min != "" {
		if min, err = decimal.NewFromString(o.min); err != nil {
			return c, fmt.Errorf("invalid --min: %w", err)
		}
	}
	if o.max != "" {
		if max, err = decimal.NewFromString(o.max); err != nil {
			return c, fmt.Errorf("invalid --max: %w", err)
		}
	}
	c.Range = gallery.NewPriceRange(min, max)
	return c, nil
}

func runBrowse(cmd *cobra.Command, opts *browseOptions) error {
	criteria, err := opts.criteria()
	if err != nil {
		return err
	}

	tag, err := language.Parse(opts.locale)
	if err != nil {
		return fmt.Errorf("invalid --locale: %w", err)
	}

	ctx := cmd.Context()
	engine := gallery.NewEngine(
		gallery.WithPageSize(opts.pageSize),
		gallery.WithLocale(tag),
		gallery.WithCriteria(criteria),
		gallery.WithLogger(logger.FromCtx(ctx)),
	)

	if err := engine.Dispatch(gallery.FetchStartedAction{}); err != nil {
		return err
	}
	generation := engine.Generation()

	source := catalog.NewHTTPSource(opts.url, opts.timeout)
	items, err := source.Fetch(ctx)
	if err != nil {
		_ = engine.Dispatch(gallery.FetchFailedAction{Generation: generation, Message: catalog.FailureMessage(err)})
	} else {
		_ = engine.Dispatch(gallery.FetchSucceededAction{Generation: generation, Items: items})
	}

	for i := 0; i < opts.more && engine.HasMore(); i++ {
		if err := engine.Dispatch(gallery.LoadMoreAction{}); err != nil {
			return err
		}
	}

	snap := engine.Snapshot()
	printSnapshot(cmd.OutOrStdout(), snap)
	if snap.Error != "" {
		return fmt.Errorf("%s", snap.Error)
	}
	return nil
}

func printSnapshot(w io.Writer, snap gallery.Snapshot) {
	if snap.Error != "" {
		fmt.Fprintln(w, snap.Error)
		return
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(w, "No items match the current filters.")
		return
	}

	fmt.Fprintf(w, "%4s  %s  %s  %s\n",
		"#",
		cell("TITLE", titleWidth),
		cell("CREATOR", creatorWidth),
		runewidth.FillLeft("PRICE", priceWidth),
	)
	fmt.Fprintln(w, strings.Repeat("-", 4+2+titleWidth+2+creatorWidth+2+priceWidth))

	for i, item := range snap.Items {
		fmt.Fprintf(w, "%4d  %s  %s  %s\n",
			i+1,
			cell(item.Title, titleWidth),
			cell(item.Creator, creatorWidth),
			runewidth.FillLeft(item.PriceLabel(), priceWidth),
		)
	}

	fmt.Fprintf(w, "\nshowing %d of %d (page %d)", len(snap.Items), snap.Total, snap.Page)
	switch {
	case snap.EndOfList:
		fmt.Fprintln(w, ", end of list")
	case snap.HasMore:
		fmt.Fprintln(w, ", more available")
	default:
		fmt.Fprintln(w)
	}

	if q := filterquery.EncodeString(snap.Criteria); q != "" {
		fmt.Fprintf(w, "query: %s\n", q)
	}
}

// cell truncates s to width display columns and pads it to exactly width.
func cell(s string, width int) string {
	return runewidth.FillRight(runewidth.Truncate(s, width, "…"), width)
}
