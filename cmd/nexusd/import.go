package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NexusOS/backend/internal/providers/filesystem"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/types"
	"github.com/GriffinCanCode/NexusOS/backend/internal/shared/utils"
)

func newImportCmd(opts *options) *cobra.Command {
	var (
		owner   string
		exclude []string
	)

	cmd := &cobra.Command{
		Use:   "import DIR|ARCHIVE",
		Short: "Import a host directory or archive into an owner's file system",
		Args:  cobra.ExactArgs(1),
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

			importer, err := filesystem.NewImporter(exclude, logger.Component("import"))
			if err != nil {
				return err
			}
			var nodes []types.Node
			if filesystem.IsArchive(args[0]) {
				nodes, err = importer.ImportArchive(cmd.Context(), args[0])
			} else {
				nodes, err = importer.Import(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}

			s, err := opts.openStore(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.PutMany(cmd.Context(), owner, nodes); err != nil {
				return err
			}

			logger.Info("Import complete",
				zap.String("owner", owner),
				zap.String("source", args[0]),
				zap.Int("nodes", len(nodes)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d nodes for %s\n", len(nodes), owner)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner id (required)")
	cmd.Flags().StringArrayVar(&exclude, "exclude", nil, "Glob of paths to skip, relative to the import root (repeatable)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
