package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"playbill/internal/view"
)

func viewCmd() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "view <kind> <uuid>",
		Short: "Print the detail document of one entity",
		Long:  "Print the detail document of one entity. Kinds: " + kindList() + ".",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(args[0], args[1], compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on one line")
	return cmd
}

func runView(kindName, id string, compact bool) error {
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
	doc, err := svc.GetView(ctx, kind, id)
	if err != nil {
		return err
	}
	return printJSON(doc, compact)
}

func printJSON(doc any, compact bool) error {
	encode := view.EncodeIndent
	if compact {
		encode = view.Encode
	}
	payload, err := encode(doc)
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(payload))
	return nil
}

func kindList() string {
	names := make([]string, 0, len(view.Kinds))
	for _, k := range view.Kinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
