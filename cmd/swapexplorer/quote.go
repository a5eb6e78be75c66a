package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/fd1az/swap-explorer/business/explorer/app"
	explorerDI "github.com/fd1az/swap-explorer/business/explorer/di"
	"github.com/fd1az/swap-explorer/business/explorer/domain"
	quoting "github.com/fd1az/swap-explorer/business/quoting/domain"
)

type quoteFlags struct {
	mode      string
	mint      string
	amount    string
	threshold string
	format    string
}

func newQuoteCmd(flags *rootFlags) *cobra.Command {
	qf := &quoteFlags{}

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Fetch and rank swap routes once",
		Example: `  swapexplorer quote --mint DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263
  swapexplorer quote --mode reference_to_token --mint DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263 --amount 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := domain.ParseSwapMode(qf.mode)
			if err != nil {
				return err
			}
			if err := validateFormat(qf.format); err != nil {
				return err
			}

			return withApp(cmd.Context(), flags.boot(false), func(ctx context.Context, e *env) error {
				threshold := e.cfg.Explorer.DefaultThresholdDecimal()
				if qf.threshold != "" {
					if threshold, err = domain.ParseThreshold(qf.threshold); err != nil {
						return err
					}
				}

				amount := qf.amount
				if amount == "" {
					amount = mode.DefaultAmount()
				}

				out, err := explorerDI.GetExplorer(e.services).Run(ctx, app.QueryInput{
					Mode:      mode,
					TokenMint: qf.mint,
					Amount:    amount,
					Threshold: threshold,
				})
				if err != nil {
					return err
				}

				if qf.format == formatJSON {
					return writeJSON(cmd.OutOrStdout(), quoteView(mode, amount, out))
				}
				return printQuote(cmd.OutOrStdout(), mode, amount, out)
			})
		},
	}

	cmd.Flags().StringVar(&qf.mode, "mode", domain.TokenToReference.String(), "swap direction: token_to_reference or reference_to_token")
	cmd.Flags().StringVar(&qf.mint, "mint", "", "mint address of the non-SOL token")
	cmd.Flags().StringVar(&qf.amount, "amount", "", "input amount in human units (default 1000 tokens or 1 SOL)")
	cmd.Flags().StringVar(&qf.threshold, "threshold", "", "profit threshold in percent (default explorer.default_threshold)")
	cmd.Flags().StringVarP(&qf.format, "output", "o", formatTable, "output format: table or json")
	_ = cmd.MarkFlagRequired("mint")
	return cmd
}

type quoteOutput struct {
	Mode           string               `json:"mode"`
	Input          string               `json:"input"`
	Output         string               `json:"output"`
	Amount         string               `json:"amount"`
	AmountRaw      string               `json:"amountRaw"`
	AlarmTriggered bool                 `json:"alarmTriggered"`
	BestRate       string               `json:"bestRate,omitempty"`
	Routes         []quoting.DisplayRow `json:"routes"`
}

func quoteView(mode domain.SwapMode, amount string, out *app.Outcome) quoteOutput {
	v := quoteOutput{
		Mode:           mode.String(),
		Input:          out.InputToken.Symbol,
		Output:         out.OutputToken.Symbol,
		Amount:         amount,
		AmountRaw:      out.Request.Amount.String(),
		AlarmTriggered: out.Evaluation.AlarmTriggered,
		Routes:         out.Rows,
	}
	if !out.BestRate.IsZero() {
		v.BestRate = out.BestRate.String()
	}
	return v
}

func printQuote(w io.Writer, mode domain.SwapMode, amount string, out *app.Outcome) error {
	v := quoteView(mode, amount, out)

	fmt.Fprintf(w, "%s → %s  amount %s %s (%s base units, slippage %d%%)\n",
		v.Input, v.Output, v.Amount, v.Input, v.AmountRaw, out.Request.Slippage)
	if v.BestRate != "" {
		fmt.Fprintf(w, "Best rate: %s\n", v.BestRate)
	}
	if v.AlarmTriggered {
		fmt.Fprintln(w, "🚨 Profitable swap route found!")
	}

	rows := make([][]string, len(out.Rows))
	for i, r := range out.Rows {
		rows[i] = []string{r.DexLabels, r.OutputAmountHuman, r.PriceImpactText, r.PathText}
	}
	return writeTable(w, []string{"DEX", "Output (" + v.Output + ")", "Price Impact", "Path"}, rows)
}
