package mirror

import (
	"context"
	"time"

	"github.com/arthur-debert/addonc/pkg/types"
)

// Build runs a full synchronization of every given tree from its root and
// sums the results. The first I/O error aborts the build.
func (s *Synchronizer) Build(ctx context.Context, kinds []types.TreeKind) (Result, error) {
	start := time.Now()
	var total Result

	s.logger.Info().
		Str("target", s.session.Target.String()).
		Str("project", s.session.ProjectName).
		Int("trees", len(kinds)).
		Msg("Starting build")

	for _, kind := range kinds {
		r, err := s.Sync(ctx, kind, "")
		total.Files += r.Files
		total.Failures = append(total.Failures, r.Failures...)
		if err != nil {
			total.Elapsed = time.Since(start)
			return total, err
		}
	}

	total.Elapsed = time.Since(start)
	return total, nil
}
