package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/Additional-Code/purchasehub/internal/form"
)

type column struct {
	header string
	key    string
	format func(any) string
}

func col(header, key string) column { return column{header: header, key: key, format: text} }

func money(header, key string) column { return column{header: header, key: key, format: brl} }

func percent(header, key string) column {
	return column{header: header, key: key, format: func(v any) string {
		if v == nil {
			return "-"
		}
		return number(v) + "%"
	}}
}

func labelled(header, key string, opts []form.Option) column {
	return column{header: header, key: key, format: func(v any) string {
		return form.OptionLabel(opts, text(v))
	}}
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		if val == "" {
			return "-"
		}
		return val
	case float64:
		return number(val)
	default:
		return fmt.Sprint(val)
	}
}

func number(v any) string {
	f, ok := v.(float64)
	if !ok {
		return text(v)
	}
	return decimal.NewFromFloat(f).String()
}

// brl renders a price or total with two decimal places.
func brl(v any) string {
	f, ok := v.(float64)
	if !ok {
		return text(v)
	}
	return "R$ " + decimal.NewFromFloat(f).StringFixed(2)
}

func renderTable(w io.Writer, cols []column, rows []map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.header
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = c.format(row[c.key])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if len(rows) == 0 {
		fmt.Fprintln(tw, "(vazio)")
	}
	return tw.Flush()
}

func renderRecord(w io.Writer, cols []column, row map[string]any) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range cols {
		fmt.Fprintf(tw, "%s:\t%s\n", c.header, c.format(row[c.key]))
	}
	return tw.Flush()
}
