package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shaiso/routecost/internal/domain"
)

// NewWorkerCmd создаёт группу команд для сотрудников.
func NewWorkerCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Manage workers",
	}

	cmd.AddCommand(
		newWorkerListCmd(clientFn, outputFn),
		newWorkerCreateCmd(clientFn, outputFn),
		newDeleteCmd("worker", "Worker", clientFn, outputFn, (*Client).DeleteWorker),
	)

	return cmd
}

var workerHeaders = []string{"ID", "NAME", "SALARY", "HOURLY RATE"}

func workerRow(w domain.Worker) []string {
	return []string{w.ID, w.Name, num(w.MonthlySalary), num(w.HourlyRate)}
}

func newWorkerListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			workers, err := client.ListWorkers()
			if err != nil {
				return err
			}

			rows := make([][]string, len(workers))
			for i, w := range workers {
				rows[i] = workerRow(w)
			}

			out.Print(workerHeaders, rows, workers)
			return nil
		},
	}
}

func newWorkerCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var salary float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a worker",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			worker, err := client.CreateWorker(name, salary)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Worker created: %s", worker.ID))
			out.Print(workerHeaders, [][]string{workerRow(*worker)}, worker)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Worker name (required)")
	cmd.Flags().Float64Var(&salary, "salary", 0, "Monthly salary (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("salary")

	return cmd
}

// NewMachineCmd создаёт группу команд для оборудования.
func NewMachineCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machine",
		Short: "Manage machines",
	}

	cmd.AddCommand(
		newMachineListCmd(clientFn, outputFn),
		newMachineCreateCmd(clientFn, outputFn),
		newDeleteCmd("machine", "Machine", clientFn, outputFn, (*Client).DeleteMachine),
	)

	return cmd
}

var machineHeaders = []string{"ID", "NAME", "SECTOR", "WORKER"}

func machineRow(m domain.Machine) []string {
	return []string{m.ID, m.Name, m.Sector, m.AssignedWorkerID}
}

func newMachineListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List machines",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			machines, err := client.ListMachines()
			if err != nil {
				return err
			}

			rows := make([][]string, len(machines))
			for i, m := range machines {
				rows[i] = machineRow(m)
			}

			out.Print(machineHeaders, rows, machines)
			return nil
		},
	}
}

func newMachineCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name, sector, workerID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			machine, err := client.CreateMachine(name, sector, workerID)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Machine created: %s", machine.ID))
			out.Print(machineHeaders, [][]string{machineRow(*machine)}, machine)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Machine name (required)")
	cmd.Flags().StringVar(&sector, "sector", "", "Sector")
	cmd.Flags().StringVar(&workerID, "worker", "", "Assigned worker ID")
	cmd.MarkFlagRequired("name")

	return cmd
}

// newDeleteCmd строит команду удаления по ID.
func newDeleteCmd(
	resource, title string,
	clientFn func() *Client,
	outputFn func() *Output,
	del func(*Client, string) error,
) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: fmt.Sprintf("Delete a %s", resource),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			if err := del(client, args[0]); err != nil {
				return err
			}

			out.Success(fmt.Sprintf("%s deleted: %s", title, args[0]))
			return nil
		},
	}
}
