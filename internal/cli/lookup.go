package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCustomerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Customer lookups",
	}
	cmd.AddCommand(newCustomerFindCmd(a))
	return cmd
}

func newCustomerFindCmd(a *app) *cobra.Command {
	var email, first, last string
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find customers by email address or name",
		Example: "  mart customer find --email tyler.cadena@revature.net\n" +
			"  mart customer find --first Tyler --last Cadena",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" && first == "" && last == "" {
				return userError("customer find: one of --email, --first or --last is required")
			}
			if email != "" && (first != "" || last != "") {
				return userError("customer find: --email cannot be combined with name flags")
			}

			db, closeDB, err := a.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			ctx := cmd.Context()
			repo := db.Customers

			if email != "" {
				c, found, err := repo.GetByEmailAddress(ctx, email)
				if err != nil {
					return systemError(fmt.Errorf("customer find: %w", err))
				}
				if !found {
					return userError("no customer with email %q", email)
				}
				return writeJSON(cmd.OutOrStdout(), c)
			}

			var found any
			switch {
			case first != "" && last != "":
				found, err = repo.FindByWholeName(ctx, first, last)
			case first != "":
				found, err = repo.FindByFirstName(ctx, first)
			default:
				found, err = repo.FindByLastName(ctx, last)
			}
			if err != nil {
				return systemError(fmt.Errorf("customer find: %w", err))
			}
			return writeJSON(cmd.OutOrStdout(), found)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "exact email address")
	cmd.Flags().StringVar(&first, "first", "", "exact first name")
	cmd.Flags().StringVar(&last, "last", "", "exact last name")
	return cmd
}

func newProductsCmd(a *app) *cobra.Command {
	var orderID, locationID int64
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List the products of an order or a location's inventory",
		Example: "  mart products --order 1\n" +
			"  mart products --location 2",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (orderID > 0) == (locationID > 0) {
				return userError("products: exactly one of --order or --location is required")
			}

			db, closeDB, err := a.openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()
			ctx := cmd.Context()

			if orderID > 0 {
				order, found, err := db.Orders.Get(ctx, orderID)
				if err != nil {
					return systemError(fmt.Errorf("products: %w", err))
				}
				if !found {
					return userError("order %d not found", orderID)
				}
				products, err := db.Products.FindFromOrder(ctx, order)
				if err != nil {
					return systemError(fmt.Errorf("products: %w", err))
				}
				return writeJSON(cmd.OutOrStdout(), products)
			}

			location, found, err := db.Locations.Get(ctx, locationID)
			if err != nil {
				return systemError(fmt.Errorf("products: %w", err))
			}
			if !found {
				return userError("location %d not found", locationID)
			}
			products, err := db.Products.FindFromLocation(ctx, location)
			if err != nil {
				return systemError(fmt.Errorf("products: %w", err))
			}
			return writeJSON(cmd.OutOrStdout(), products)
		},
	}
	cmd.Flags().Int64Var(&orderID, "order", 0, "order ID")
	cmd.Flags().Int64Var(&locationID, "location", 0, "location ID")
	return cmd
}
