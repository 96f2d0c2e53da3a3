package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/NexusOS/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

func newTreeCmd(opts *options) *cobra.Command {
	var (
		owner   string
		display bool
	)

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print an owner's file system as a tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := utils.ValidateID(owner, "owner", true); err != nil {
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := opts.logger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			s, err := opts.openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			nodes, err := s.List(cmd.Context(), owner)
			if err != nil {
				return err
			}

			projection := vfs.ProjectDetailed(nodes)
			if display {
				vfs.SortChildren(projection.Roots)
			}
			printTree(cmd.OutOrStdout(), projection)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner id (required)")
	cmd.Flags().BoolVar(&display, "sort", false, "Folders first, then by name")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

// printTree writes one line per node, indented by depth
func printTree(w io.Writer, p vfs.Projection) {
	vfs.Walk(p.Roots, func(node *types.TreeNode, depth int) bool {
		name := node.Name
		if node.IsFolder() {
			name += "/"
		}
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), name)
		return true
	})
	if len(p.Omitted) > 0 {
		fmt.Fprintf(w, "(%d unreachable nodes omitted)\n", len(p.Omitted))
	}
}
