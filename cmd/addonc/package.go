package addonc

import (
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/spf13/cobra"
)

func newPackageCmd(opts *globalOptions) *cobra.Command {
	var dialect string

	cmd := &cobra.Command{
		Use:   "package",
		Short: MsgPackageShort,
		Long:  MsgPackageLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			e, err := newEngine(opts.projectDir, types.TargetPackaged, dialect)
			if err != nil {
				return err
			}

			result, err := e.sync.Build(cmd.Context(), e.trees())
			if err != nil {
				return err
			}
			return r.Build(result)
		},
	}

	cmd.Flags().StringVarP(&dialect, "target", "t", "", MsgFlagTarget)
	return cmd
}
