package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mart/pkg/types"
)

// withTable opens the store, resolves the named table and runs fn.
func (a *app) withTable(cmd *cobra.Command, name string, fn func(t table) error) error {
	db, closeDB, err := a.openDatabase(cmd.Context())
	if err != nil {
		return err
	}
	defer closeDB()
	t, err := lookupTable(db, name)
	if err != nil {
		return err
	}
	return fn(t)
}

// mutationResult turns the outcome of a write into command output.
func mutationResult(cmd *cobra.Command, verb string, entity types.Model, ok bool, err error) error {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return userError("%s: entity not found", verb)
	case errors.Is(err, types.ErrInvalidData):
		return userError("%s: %v", verb, err)
	case err != nil:
		return systemError(fmt.Errorf("%s: %w", verb, err))
	case !ok:
		return userError("%s rejected by the store", verb)
	}
	if entity == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "%sd\n", verb)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), entity)
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list <table>",
		Short:   "List every entity in a table",
		Example: "  mart list customers",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTable(cmd, args[0], func(t table) error {
				all, err := t.all(cmd.Context())
				if err != nil {
					return systemError(fmt.Errorf("list %s: %w", args[0], err))
				}
				return writeJSON(cmd.OutOrStdout(), all)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "get <table> <id>",
		Short:   "Get an entity by ID",
		Example: "  mart get products 1",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t table) error {
				entity, found, err := t.get(cmd.Context(), id)
				if err != nil {
					return systemError(fmt.Errorf("get %s %d: %w", args[0], id, err))
				}
				if !found {
					return userError("%s %d not found", args[0], id)
				}
				return writeJSON(cmd.OutOrStdout(), entity)
			})
		},
	}
}

func newCreateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "create <table> <json>",
		Short:   "Create an entity from JSON",
		Example: `  mart create locations '{"name":"Ohio"}'`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withTable(cmd, args[0], func(t table) error {
				entity, ok, err := t.create(cmd.Context(), []byte(args[1]))
				return mutationResult(cmd, "create", entity, ok, err)
			})
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "update <table> <id> <json>",
		Short: "Merge a JSON patch onto an entity",
		Long: "Update merges the non-zero fields of the JSON patch onto the stored entity\n" +
			"and persists the result. Fields absent from the patch keep their values.",
		Example: `  mart update products 1 '{"price":"1.05"}'`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t table) error {
				entity, ok, err := t.update(cmd.Context(), id, []byte(args[2]))
				return mutationResult(cmd, "update", entity, ok, err)
			})
		},
	}
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <table> <id>",
		Short:   "Delete an entity by ID",
		Example: "  mart delete locations 2",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[1])
			if err != nil {
				return err
			}
			return a.withTable(cmd, args[0], func(t table) error {
				ok, err := t.remove(cmd.Context(), id)
				return mutationResult(cmd, "delete", nil, ok, err)
			})
		},
	}
}
