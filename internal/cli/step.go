package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/shaiso/routecost/internal/catalog"
	"github.com/shaiso/routecost/internal/domain"
)

// NewStepCmd создаёт группу команд для каталога шагов.
func NewStepCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step",
		Short: "Manage the step catalog",
	}

	cmd.AddCommand(
		newStepListCmd(clientFn, outputFn),
		newStepShowCmd(clientFn, outputFn),
		newStepApplyCmd(clientFn, outputFn),
		newDeleteCmd("step", "Step", clientFn, outputFn, (*Client).DeleteStep),
	)

	return cmd
}

var stepHeaders = []string{"ID", "NAME", "SECTOR", "PROFILE", "JOINT", "WORKER", "MACHINE"}

func stepRow(s domain.StepDefinition) []string {
	return []string{
		s.ID, s.Name, s.Sector, string(s.Profile.Kind),
		strconv.FormatBool(s.JointOperation), s.AssignedWorkerID, s.AssignedMachineID,
	}
}

func newStepListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog steps",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			steps, err := client.ListSteps()
			if err != nil {
				return err
			}

			rows := make([][]string, len(steps))
			for i, s := range steps {
				rows[i] = stepRow(s)
			}

			out.Print(stepHeaders, rows, steps)
			return nil
		},
	}
}

func newStepShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show step details with its time table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			step, err := client.GetStep(args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(step)
				return nil
			}

			out.Table(stepHeaders, [][]string{stepRow(*step)})
			out.Line("")
			out.Table([]string{"TABLE", "MIN", "MAX", "SETUP", "OPERATION"}, profileRows(step.Profile))
			return nil
		},
	}
}

func profileRows(p domain.TimeProfile) [][]string {
	var rows [][]string
	if p.Fixed != nil {
		rows = append(rows, []string{"fixed", "-", "-", num(p.Fixed.SetupMinutes), num(p.Fixed.OperationMinutes)})
	}

	add := func(name string, tiers []domain.Tier) {
		for _, t := range tiers {
			rows = append(rows, []string{name, num(t.MinSize), num(t.MaxSize), num(t.SetupMinutes), num(t.OperationMinutes)})
		}
	}
	add("size", p.Tiers)
	add(string(domain.MountingFlanged), p.Flanged)
	add(string(domain.MountingEmbedded), p.Embedded)
	return rows
}

func newStepApplyCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Create or update steps from a catalog YAML file",
		Long: `Reads a catalog file in the seed format (steps and rules) and upserts
every step it declares. Steps the server rejects are reported and skipped.
Rules are validated but not sent: expansion rules are part of the server
configuration.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			seed, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}

			existing, err := client.ListSteps()
			if err != nil {
				return err
			}
			known := make(map[string]bool, len(existing))
			for _, s := range existing {
				known[s.ID] = true
			}

			applied := make([]domain.StepDefinition, 0, len(seed.Steps))
			failed := 0
			for _, step := range seed.Steps {
				var saved *domain.StepDefinition
				if known[step.ID] {
					saved, err = client.UpdateStep(step)
				} else {
					saved, err = client.CreateStep(step)
				}
				if err != nil {
					out.Error(fmt.Sprintf("step %s: %v", step.ID, err))
					failed++
					continue
				}
				applied = append(applied, *saved)
			}

			out.Success(fmt.Sprintf("Applied %d step(s) from %s", len(applied), file))
			rows := make([][]string, len(applied))
			for i, s := range applied {
				rows[i] = stepRow(s)
			}
			out.Print(stepHeaders, rows, applied)

			if failed > 0 {
				return fmt.Errorf("%d step(s) failed", failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog YAML file (required)")
	cmd.MarkFlagRequired("file")

	return cmd
}
