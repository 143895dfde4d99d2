package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Additional-Code/purchasehub/internal/client"
	"github.com/Additional-Code/purchasehub/internal/form"
)

// notice is a failure already phrased for the operator.
type notice string

func (n notice) Error() string { return string(n) }

// failure prefers the server's message and falls back to a generic one.
func failure(err error, fallback string) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return notice(apiErr.Message)
	}
	return notice(fallback)
}

func newResourceCmd(p page, opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   p.name,
		Short: "Manage " + p.name + " records",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List " + p.name + " records",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				return showList(cmd.Context(), cmd.OutOrStdout(), p, p.backend(c))
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one " + p.name + " by id",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				row, err := p.backend(c).Get(cmd.Context(), args[0])
				if err != nil {
					return failure(err, "Erro ao carregar "+p.lower())
				}
				return renderRecord(cmd.OutOrStdout(), p.columns, row)
			},
		},
		&cobra.Command{
			Use:   "find <name>",
			Short: "Find the first " + p.name + " with the given name",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				c, err := opts.client()
				if err != nil {
					return err
				}
				row, err := p.backend(c).FindByName(cmd.Context(), args[0])
				if err != nil {
					return failure(err, "Erro ao carregar "+p.lower())
				}
				return renderRecord(cmd.OutOrStdout(), p.columns, row)
			},
		},
		newCreateCmd(p, opts),
		newUpdateCmd(p, opts),
		newDeleteCmd(p, opts),
	)
	return cmd
}

func newCreateCmd(p page, opts *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a " + p.name,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.client()
			if err != nil {
				return err
			}
			f, err := p.form(ctx, c)
			if err != nil {
				return failure(err, "Erro ao carregar "+strings.ToLower(p.plural))
			}
			f.Open(nil)

			b := p.backend(c)
			if err := submit(f, sets, "Erro ao salvar "+p.lower(), func(doc map[string]any) error {
				return b.Create(ctx, doc)
			}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p.done("criad"))
			return showList(ctx, cmd.OutOrStdout(), p, b)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as key=value (repeatable)")
	return cmd
}

func newUpdateCmd(p page, opts *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a " + p.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := opts.client()
			if err != nil {
				return err
			}
			b := p.backend(c)

			current, err := b.Get(ctx, args[0])
			if err != nil {
				return failure(err, "Erro ao carregar "+p.lower())
			}
			f, err := p.form(ctx, c)
			if err != nil {
				return failure(err, "Erro ao carregar "+strings.ToLower(p.plural))
			}
			f.Open(current)

			if err := submit(f, sets, "Erro ao salvar "+p.lower(), func(doc map[string]any) error {
				return b.Update(ctx, args[0], doc)
			}); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), p.done("atualizad"))
			return showList(ctx, cmd.OutOrStdout(), p, b)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Field value as key=value (repeatable)")
	return cmd
}

func newDeleteCmd(p page, opts *options) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a " + p.name,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if !yes && !confirm(cmd.InOrStdin(), out, p.confirmPrompt()) {
				fmt.Fprintln(out, "Operação cancelada.")
				return nil
			}

			c, err := opts.client()
			if err != nil {
				return err
			}
			b := p.backend(c)
			if err := b.Delete(ctx, args[0]); err != nil {
				return failure(err, "Erro ao deletar "+p.lower())
			}

			fmt.Fprintln(out, p.done("deletad"))
			return showList(ctx, out, p, b)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

func showList(ctx context.Context, w io.Writer, p page, b backend) error {
	rows, err := b.List(ctx)
	if err != nil {
		return notice("Erro ao carregar " + strings.ToLower(p.plural))
	}
	fmt.Fprintln(w, p.loaded())
	return renderTable(w, p.columns, rows)
}

// submit applies the --set flags and hands the form to send. Form problems are
// reported as-is; send failures go through failure with fallback.
func submit(f *form.Form, sets []string, fallback string, send func(map[string]any) error) error {
	for _, kv := range sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return notice(fmt.Sprintf("invalid --set %q: expected key=value", kv))
		}
		if err := f.Set(strings.TrimSpace(name), value); err != nil {
			return notice(err.Error())
		}
	}

	var sendErr error
	err := f.Submit(func(doc map[string]any) error {
		sendErr = send(doc)
		return sendErr
	})
	if sendErr != nil {
		return failure(sendErr, fallback)
	}
	if err != nil {
		return notice(err.Error())
	}
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [s/N] ", prompt)
	answer, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "s", "sim", "y", "yes":
		return true
	default:
		return false
	}
}
