package addonc

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/addonc/pkg/scaffold"
	"github.com/arthur-debert/addonc/pkg/ui"
	"github.com/spf13/cobra"
)

func newScaffoldCmd(opts *globalOptions, prompt ui.Prompter) *cobra.Command {
	var (
		name  string
		noGit bool
	)

	cmd := &cobra.Command{
		Use:   "scaffold",
		Short: MsgScaffoldShort,
		Long:  MsgScaffoldLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := opts.renderer(cmd)
			if err != nil {
				return err
			}

			dir, err := filepath.Abs(opts.projectDir)
			if err != nil {
				return err
			}

			if name == "" {
				name, err = prompt(MsgScaffoldPrompt, filepath.Base(dir))
				if err != nil {
					return err
				}
			}

			git := scaffold.GitRunner(scaffold.GitInit)
			if noGit {
				git = nil
			}

			result, err := scaffold.Init(cmd.Context(), scaffold.Options{
				ProjectDir: dir,
				PackName:   name,
				Git:        git,
			})
			if err != nil {
				return err
			}

			if err := r.Message(fmt.Sprintf(MsgScaffoldDone, name, dir)); err != nil {
				return err
			}
			for _, p := range result.Created {
				rel, err := filepath.Rel(dir, p)
				if err != nil {
					rel = p
				}
				if err := r.Message(fmt.Sprintf(MsgScaffoldCreated, rel)); err != nil {
					return err
				}
			}
			if git != nil && !result.GitReady {
				return r.Message(MsgGitSkipped)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", MsgFlagName)
	cmd.Flags().BoolVar(&noGit, "no-git", false, MsgFlagNoGit)
	return cmd
}
