package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"led-inspect/internal/domain/entity"
)

func productsCommand(rt *Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse products",
	}
	cmd.AddCommand(productsListCommand(rt), productsGetCommand(rt))
	return cmd
}

func productsListCommand(rt *Runtime) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			services, err := rt.services(nil)
			if err != nil {
				return err
			}

			list := services.CatalogService.Products
			if activeOnly {
				list = services.CatalogService.ActiveProducts
			}
			products, err := list(cmd.Context())
			if err != nil {
				return err
			}

			return printProducts(cmd.OutOrStdout(), products)
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "Show only active products")
	return cmd
}

func productsGetCommand(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show a product with its reference images and inspection history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			productID, err := parseID("product id", args[0])
			if err != nil {
				return err
			}

			services, err := rt.services(nil)
			if err != nil {
				return err
			}

			product, err := services.CatalogService.Product(cmd.Context(), productID)
			if err != nil {
				return err
			}

			return printProduct(cmd.OutOrStdout(), product)
		},
	}
}

func printProducts(out io.Writer, products []entity.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(out, "No products found.")
		return err
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tNAME\tACTIVE")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", p.ID, p.Code, p.Name, p.Active)
	}
	return w.Flush()
}

func printProduct(out io.Writer, p *entity.Product) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Product:\t%s\n", p.Title())
	if p.Description != "" {
		fmt.Fprintf(w, "Description:\t%s\n", p.Description)
	}
	fmt.Fprintf(w, "Active:\t%t\n", p.Active)

	fmt.Fprintf(w, "\nReference images:\t%d\n", len(p.Images))
	for _, img := range p.Images {
		primary := ""
		if img.IsPrimary {
			primary = "primary"
		}
		fmt.Fprintf(w, "  #%d\t%s\t%s\n", img.ID, img.Path, primary)
	}

	fmt.Fprintf(w, "\nInspections:\t%d\n", len(p.Inspections))
	for _, insp := range p.Inspections {
		verdict := "rejected"
		if insp.Approved {
			verdict = "approved"
		}
		fmt.Fprintf(w, "  #%d\t%s\t%d defect(s)\n", insp.ID, verdict, insp.DefectsCount)
	}

	return w.Flush()
}
