package addonc

import (
	"context"
	stderrors "errors"

	"github.com/arthur-debert/addonc/pkg/logging"
	"github.com/arthur-debert/addonc/pkg/types"
	"github.com/arthur-debert/addonc/pkg/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		preview bool
		dialect string
	)

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   MsgWatchShort,
		Long:    MsgWatchLong,
		Example: MsgWatchExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.GetLogger("cmd.watch")
			ctx := cmd.Context()

			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}
			e, err := newEngine(opts.projectDir, types.TargetFor(preview), dialect)
			if err != nil {
				return err
			}

			result, err := e.sync.Build(ctx, e.trees())
			if err != nil {
				if stderrors.Is(err, context.Canceled) {
					return nil
				}
				return err
			}
			if err := r.Build(result); err != nil {
				return err
			}

			var roots []string
			for _, kind := range e.trees() {
				roots = append(roots, e.sources[kind])
			}
			w, err := watch.NewWatcher(roots...)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()

			go func() {
				for err := range w.Errors() {
					logger.Error().Err(err).Msg("Watch error")
				}
			}()

			logger.Info().Strs("roots", roots).Str("target", e.session.Target.String()).Msg("Watching for changes")

			err = e.router().Run(ctx, w.Events(), func(report watch.Report, err error) {
				if err != nil {
					_ = r.Error(err)
					return
				}
				_ = r.Event(report)
			})
			if err != nil && !stderrors.Is(err, context.Canceled) {
				return err
			}
			logger.Info().Msg(MsgStopped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&preview, "preview", false, MsgFlagPreview)
	cmd.Flags().StringVarP(&dialect, "target", "t", "", MsgFlagTarget)
	return cmd
}
