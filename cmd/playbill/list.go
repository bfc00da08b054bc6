package main

import (
	"context"

	"github.com/spf13/cobra"

	"playbill/internal/view"
)

func listCmd() *cobra.Command {
	var order string
	var compact bool
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List every entity of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(args[0], order, compact)
		},
	}
	cmd.Flags().StringVar(&order, "order", view.OrderName, "name, -name, startDate or -startDate")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on one line")
	return cmd
}

func runList(kindName, order string, compact bool) error {
	ctx := context.Background()

	kind, err := view.ParseKind(kindName)
	if err != nil {
		return err
	}

	e, err := loadEnv(ctx)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	svc := view.NewService(e.db, view.WithLogger(e.logger), view.WithListLimit(e.cfg.Views.ListLimit))
	items, err := svc.GetListView(ctx, kind, order)
	if err != nil {
		return err
	}
	return printJSON(items, compact)
}
