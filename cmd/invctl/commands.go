package main

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rl1809/stockpile/internal/adapter/storage"
	"github.com/rl1809/stockpile/internal/core/service"
)

var (
	lowThreshold int
	seedCount    int
	seedMaxQty   int
)

var addCmd = &cobra.Command{
	Use:   "add <name> <qty>",
	Short: "Add stock for an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQty(args[1])
		if err != nil {
			return err
		}

		inventory, err := openInventory(cmd)
		if err != nil {
			return err
		}

		newQty, err := inventory.AddItem(cmd.Context(), args[0], qty)
		if err != nil {
			return err
		}
		if err := inventory.Save(cmd.Context()); err != nil {
			return err
		}

		cmd.Printf("%s: %d\n", args[0], newQty)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name> <qty>",
	Short: "Remove stock for an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQty(args[1])
		if err != nil {
			return err
		}

		inventory, err := openInventory(cmd)
		if err != nil {
			return err
		}

		newQty, err := inventory.RemoveItem(cmd.Context(), args[0], qty)
		if err != nil {
			return err
		}
		if err := inventory.Save(cmd.Context()); err != nil {
			return err
		}

		cmd.Printf("%s: %d\n", args[0], newQty)
		return nil
	},
}

var qtyCmd = &cobra.Command{
	Use:   "qty <name>",
	Short: "Print the current stock for an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inventory, err := openInventory(cmd)
		if err != nil {
			return err
		}

		cmd.Printf("%d\n", inventory.GetQty(args[0]))
		return nil
	},
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print all items and quantities",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inventory, err := openInventory(cmd)
		if err != nil {
			return err
		}

		items := inventory.Items()
		if len(items) == 0 {
			cmd.Println("inventory is empty")
			return nil
		}

		names := make([]string, 0, len(items))
		for name := range items {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			cmd.Printf("%-20s %5d\n", name, items[name])
		}
		return nil
	},
}

var lowCmd = &cobra.Command{
	Use:   "low",
	Short: "List items with stock below a threshold",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		inventory, err := openInventory(cmd)
		if err != nil {
			return err
		}

		low, err := inventory.LowStock(lowThreshold)
		if err != nil {
			return err
		}
		for _, name := range low {
			cmd.Println(name)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the snapshot with random items",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCount <= 0 || seedMaxQty <= 0 {
			return errors.New("count and max-qty must be positive")
		}

		inventory, err := openInventory(cmd)
		if err != nil {
			return err
		}

		for i := 0; i < seedCount; i++ {
			name := "item-" + uuid.NewString()
			if _, err := inventory.AddItem(cmd.Context(), name, 1+i%seedMaxQty); err != nil {
				return err
			}
		}
		if err := inventory.Save(cmd.Context()); err != nil {
			return err
		}

		cmd.Printf("seeded %d items into %s\n", seedCount, snapshotPath)
		return nil
	},
}

func init() {
	lowCmd.Flags().IntVarP(&lowThreshold, "threshold", "t", 5, "low stock threshold")
	seedCmd.Flags().IntVarP(&seedCount, "count", "n", 100, "number of items to generate")
	seedCmd.Flags().IntVar(&seedMaxQty, "max-qty", 50, "maximum quantity per item")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(qtyCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(lowCmd)
	rootCmd.AddCommand(seedCmd)
}

func parseQty(arg string) (int, error) {
	qty, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("quantity must be an integer, got %q", arg)
	}
	return qty, nil
}

// openInventory builds a store over the snapshot file and loads it. A
// missing file means an empty inventory; anything else propagates.
func openInventory(cmd *cobra.Command) (*service.InventoryService, error) {
	inventory := service.NewInventoryService(storage.NewFileAdapter(snapshotPath), nil, nil)

	if err := inventory.Load(cmd.Context()); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return inventory, nil
		}
		return nil, err
	}
	return inventory, nil
}
