package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/routecost/internal/domain"
)

// NewRoutingCmd создаёт группу команд для текущего маршрута.
func NewRoutingCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routing",
		Short: "Build the routing and compute its labor cost",
	}

	cmd.AddCommand(
		newRoutingShowCmd(clientFn, outputFn),
		newRoutingAddCmd(clientFn, outputFn),
		newRoutingRemoveCmd(clientFn, outputFn),
		newRoutingParamsCmd(clientFn, outputFn),
		newRoutingResetCmd(clientFn, outputFn),
		newRoutingAssociateCmd(clientFn, outputFn),
	)

	return cmd
}

func newRoutingShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the routing with time and cost totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			routing, err := client.GetRouting()
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(routing)
				return nil
			}

			printRouting(out, routing.Session.Parameters, routing.Result)
			return nil
		},
	}
}

func printRouting(out *Output, params domain.RunParameters, result *domain.RoutingResult) {
	size := "-"
	if params.HasSize() {
		size = num(params.Size)
	}
	out.Line("Size: %s  Mounting: %s", size, params.Mounting)
	out.Line("")

	if result == nil {
		return
	}

	rows := make([][]string, len(result.Lines))
	for i, l := range result.Lines {
		setup := num(l.CountedSetupMinutes)
		if l.CountedSetupMinutes != l.SetupMinutes {
			setup += " (" + num(l.SetupMinutes) + ")"
		}
		if !l.TierResolved {
			setup += " *"
		}
		rows[i] = []string{
			strconv.Itoa(i), l.StepID, l.StepName, l.Sector, l.WorkerName, l.MachineName,
			setup, num(l.OperationMinutes), num(l.TotalMinutes),
		}
	}
	out.Table([]string{"#", "STEP", "NAME", "SECTOR", "WORKER", "MACHINE", "SETUP", "OPERATION", "TOTAL"}, rows)
	out.Line("")

	workers := make([][]string, len(result.Workers))
	for i, w := range result.Workers {
		workers[i] = []string{w.Name, num(w.HourlyRate), num(w.TimeMinutes), num(w.Cost)}
	}
	out.Table([]string{"WORKER", "HOURLY RATE", "MINUTES", "COST"}, workers)
	out.Line("")

	out.Line("Setup: %s min  Operation: %s min  Total: %s min",
		num(result.TotalSetupMinutes), num(result.TotalOperationMinutes), num(result.TotalTimeMinutes))
	out.Line("Labor cost: %s", num(result.TotalCost))
}

func newRoutingAddCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "add STEP_ID",
		Short: "Append a step (and the steps it implies) to the routing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			resp, err := client.AddRoutingStep(args[0])
			if err != nil {
				return err
			}

			for i, e := range resp.Added {
				if i > 0 {
					out.Success(fmt.Sprintf("Implied step added: %s", e.StepID))
				}
			}
			out.Print(entryHeaders, entryRows(resp.Session.Entries), resp)
			return nil
		},
	}
}

var entryHeaders = []string{"#", "STEP", "INSTANCE"}

func entryRows(entries []domain.RoutingEntry) [][]string {
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{strconv.Itoa(i), e.StepID, e.InstanceID}
	}
	return rows
}

func newRoutingRemoveCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "remove INDEX",
		Short: "Remove the routing entry at INDEX",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid index: %s", args[0])
			}

			entry, err := client.RemoveRoutingStep(index)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Removed %s at position %d", entry.StepID, index))
			return nil
		},
	}
}

func newRoutingParamsCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var size float64
	var mounting string

	cmd := &cobra.Command{
		Use:   "params",
		Short: "Set the part size and mounting type",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var sizeArg *float64
			if cmd.Flags().Changed("size") {
				sizeArg = &size
			}

			params, err := client.SetRoutingParams(sizeArg, mounting)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"SIZE", "MOUNTING"},
				[][]string{{num(params.Size), string(params.Mounting)}},
				params,
			)
			return nil
		},
	}

	cmd.Flags().Float64Var(&size, "size", 0, "Part size (0 clears it, omitted keeps the current one)")
	cmd.Flags().StringVar(&mounting, "mounting", "", "Mounting type: flanged or embedded")

	return cmd
}

func newRoutingResetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := client.ResetRouting(); err != nil {
				return err
			}

			out.Success("Routing cleared")
			return nil
		},
	}
}

func newRoutingAssociateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var laborCost float64

	cmd := &cobra.Command{
		Use:   "associate PRODUCT_ID",
		Short: "Write the routing labor cost into a product",
		Long: `Computes the current routing and stores its labor cost on the product.
With --labor-cost the given value is stored instead. A repeated association
replaces the previous labor cost.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			var override *float64
			if cmd.Flags().Changed("labor-cost") {
				override = &laborCost
			}

			resp, err := client.Associate(args[0], override)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Labor cost associated with %s", resp.Product.Name))
			out.Print(productHeaders, [][]string{productRow(*resp.Product)}, resp)
			return nil
		},
	}

	cmd.Flags().Float64Var(&laborCost, "labor-cost", 0, "Labor cost to store instead of the computed one")

	return cmd
}
