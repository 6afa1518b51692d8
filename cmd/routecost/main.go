// routecost — инструмент командной строки для каталога шагов,
// справочников и расчёта маршрутов через HTTP API.
//
// Использование:
//
//	routecost [--api-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	step      Каталог шагов
//	worker    Сотрудники
//	machine   Оборудование
//	material  Материалы
//	product   Изделия
//	routing   Построение маршрута и расчёт стоимости
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/routecost/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	var apiURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "routecost",
		Short:         "routecost CLI — production routing labor cost",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "http://localhost:8080", "API server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(apiURL) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewStepCmd(clientFn, outputFn),
		cli.NewWorkerCmd(clientFn, outputFn),
		cli.NewMachineCmd(clientFn, outputFn),
		cli.NewMaterialCmd(clientFn, outputFn),
		cli.NewProductCmd(clientFn, outputFn),
		cli.NewRoutingCmd(clientFn, outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
