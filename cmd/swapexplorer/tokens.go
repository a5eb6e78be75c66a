package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	tokensDI "github.com/fd1az/swap-explorer/business/tokens/di"
	tokens "github.com/fd1az/swap-explorer/business/tokens/domain"
)

func newTokensCmd(flags *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "Inspect the Jupiter token directory",
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return validateFormat(format)
		},
	}
	cmd.PersistentFlags().StringVarP(&format, "output", "o", formatTable, "output format: table or json")

	show := &cobra.Command{
		Use:   "show <mint>",
		Short: "Show the token registered under a mint address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), flags.boot(false), func(ctx context.Context, e *env) error {
				info, err := tokensDI.GetDirectory(e.services).Resolve(ctx, args[0])
				if err != nil {
					return err
				}
				return printTokens(cmd.OutOrStdout(), format, []tokens.TokenInfo{info})
			})
		},
	}

	find := &cobra.Command{
		Use:   "find <symbol>",
		Short: "List tokens with a symbol, case-insensitively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), flags.boot(false), func(ctx context.Context, e *env) error {
				found, err := tokensDI.GetDirectory(e.services).FindBySymbol(ctx, args[0])
				if err != nil {
					return err
				}
				return printTokens(cmd.OutOrStdout(), format, found)
			})
		},
	}

	refresh := &cobra.Command{
		Use:   "refresh",
		Short: "Download the token list again and replace the cached copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), flags.boot(false), func(ctx context.Context, e *env) error {
				n, err := tokensDI.GetDirectory(e.services).Refresh(ctx)
				if err != nil {
					return err
				}
				if format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), map[string]int{"tokens": n})
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "token list refreshed: %d tokens\n", n)
				return err
			})
		},
	}

	cmd.AddCommand(show, find, refresh)
	return cmd
}

func printTokens(w io.Writer, format string, list []tokens.TokenInfo) error {
	if format == formatJSON {
		return writeJSON(w, list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no tokens found")
		return err
	}

	rows := make([][]string, len(list))
	for i, t := range list {
		rows[i] = []string{t.Symbol, t.Name, t.Address, strconv.Itoa(int(t.Decimals))}
	}
	return writeTable(w, []string{"Symbol", "Name", "Mint", "Decimals"}, rows)
}
