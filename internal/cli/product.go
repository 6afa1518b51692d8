package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shaiso/routecost/internal/domain"
)

// NewMaterialCmd создаёт группу команд для справочника материалов.
func NewMaterialCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "material",
		Short: "Manage materials",
	}

	cmd.AddCommand(
		newMaterialListCmd(clientFn, outputFn),
		newMaterialSetCmd(clientFn, outputFn),
		newDeleteCmd("material", "Material", clientFn, outputFn, (*Client).DeleteMaterial),
	)

	return cmd
}

var materialHeaders = []string{"ID", "NAME", "UNIT COST"}

func materialRow(m domain.Material) []string {
	return []string{m.ID, m.Name, num(m.UnitCost)}
}

func newMaterialListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List materials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			materials, err := client.ListMaterials()
			if err != nil {
				return err
			}

			rows := make([][]string, len(materials))
			for i, m := range materials {
				rows[i] = materialRow(m)
			}

			out.Print(materialHeaders, rows, materials)
			return nil
		},
	}
}

func newMaterialSetCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var name string
	var unitCost float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create a material or update its unit cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			material, err := client.SetMaterial(name, unitCost)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Material saved: %s", material.ID))
			out.Print(materialHeaders, [][]string{materialRow(*material)}, material)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Material name (required)")
	cmd.Flags().Float64Var(&unitCost, "unit-cost", 0, "Unit cost (required)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("unit-cost")

	return cmd
}

// NewProductCmd создаёт группу команд для изделий.
func NewProductCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Manage products",
	}

	cmd.AddCommand(
		newProductListCmd(clientFn, outputFn),
		newProductShowCmd(clientFn, outputFn),
		newProductCreateCmd(clientFn, outputFn),
		newDeleteCmd("product", "Product", clientFn, outputFn, (*Client).DeleteProduct),
	)

	return cmd
}

var productHeaders = []string{"ID", "NAME", "SKU", "MATERIAL", "LABOR", "TOTAL", "SALE PRICE"}

func productRow(p domain.Product) []string {
	labor := "-"
	if p.LaborCostFromRouting != nil {
		labor = num(*p.LaborCostFromRouting)
	}
	return []string{p.ID, p.Name, p.SKU, num(p.MaterialCost), labor, num(p.DisplayCost()), num(p.SalePrice)}
}

func newProductListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List products",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			products, err := client.ListProducts()
			if err != nil {
				return err
			}

			rows := make([][]string, len(products))
			for i, p := range products {
				rows[i] = productRow(p)
			}

			out.Print(productHeaders, rows, products)
			return nil
		},
	}
}

func newProductShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show product cost breakdown and composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			product, err := client.GetProduct(args[0])
			if err != nil {
				return err
			}

			if out.JSONMode() {
				out.JSON(product)
				return nil
			}

			out.Table(productHeaders, [][]string{productRow(*product)})
			out.Line("")

			rows := make([][]string, len(product.Materials))
			for i, m := range product.Materials {
				rows[i] = []string{m.MaterialID, num(m.Quantity)}
			}
			out.Table([]string{"MATERIAL", "QUANTITY"}, rows)
			return nil
		},
	}
}

func newProductCreateCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var req CreateProductRequest
	var materials []string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a product from its material composition",
		Example: `  routecost product create --name "Poste Reto" --sku PR-6 --price 900 \
    --material tubo=2.5 --material tinta=0.5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			usages, err := parseMaterialUsages(materials)
			if err != nil {
				return err
			}
			req.Materials = usages

			product, err := client.CreateProduct(req)
			if err != nil {
				return err
			}

			out.Success(fmt.Sprintf("Product created: %s", product.ID))
			out.Print(productHeaders, [][]string{productRow(*product)}, product)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Product name (required)")
	cmd.Flags().StringVar(&req.SKU, "sku", "", "SKU")
	cmd.Flags().Float64Var(&req.SalePrice, "price", 0, "Sale price")
	cmd.Flags().StringArrayVar(&materials, "material", nil, "Material usage as MATERIAL_ID=QUANTITY (repeatable)")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("material")

	return cmd
}

// parseMaterialUsages разбирает значения вида "id=quantity".
func parseMaterialUsages(values []string) ([]domain.MaterialUsage, error) {
	usages := make([]domain.MaterialUsage, 0, len(values))
	for _, v := range values {
		id, qty, ok := strings.Cut(v, "=")
		if !ok || strings.TrimSpace(id) == "" {
			return nil, fmt.Errorf("invalid --material %q: expected MATERIAL_ID=QUANTITY", v)
		}
		quantity, err := strconv.ParseFloat(strings.TrimSpace(qty), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid quantity in --material %q", v)
		}
		usages = append(usages, domain.MaterialUsage{MaterialID: strings.TrimSpace(id), Quantity: quantity})
	}
	return usages, nil
}
