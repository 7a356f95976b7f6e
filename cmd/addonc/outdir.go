package addonc

import (
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/arthur-debert/addonc/pkg/ui"
	"github.com/spf13/cobra"
)

func newOutdirCmd(opts *globalOptions) *cobra.Command {
	var (
		preview  bool
		packaged bool
	)

	cmd := &cobra.Command{
		Use:   "outdir",
		Short: MsgOutdirShort,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			target := types.TargetFor(preview)
			if packaged {
				target = types.TargetPackaged
			}
			e, err := newEngine(opts.projectDir, target, "")
			if err != nil {
				return err
			}

			var roots []ui.TreeRoot
			for _, kind := range e.trees() {
				root, err := e.resolver.Resolve(target, kind, e.cfg.PackName)
				if err != nil {
					return err
				}
				roots = append(roots, ui.TreeRoot{Kind: kind, Tree: kind.Abbrev(), Path: root})
			}
			return r.Roots(roots)
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, MsgFlagPreview)
	cmd.Flags().BoolVar(&packaged, "packaged", false, MsgFlagPackaged)
	cmd.MarkFlagsMutuallyExclusive("preview", "packaged")
	return cmd
}
