package types

import (
	"fmt"
	"strings"
)

// DeploymentTarget selects which destination root family a build writes into
type DeploymentTarget int

const (
	// TargetPackaged stages output under the local output directory
	TargetPackaged DeploymentTarget = iota

	// TargetStable writes into the stable installed application's development folders
	TargetStable

	// TargetPreview writes into the preview installed application's development folders
	TargetPreview
)

// String returns the lowercase name of the target
func (t DeploymentTarget) String() string {
	switch t {
	case TargetPackaged:
		return "packaged"
	case TargetStable:
		return "stable"
	case TargetPreview:
		return "preview"
	default:
		return fmt.Sprintf("DeploymentTarget(%d)", int(t))
	}
}

// Valid reports whether t is one of the declared targets
func (t DeploymentTarget) Valid() bool {
	return t >= TargetPackaged && t <= TargetPreview
}

// TargetFor returns the installed-application target for a watch or outdir session
func TargetFor(preview bool) DeploymentTarget {
	if preview {
		return TargetPreview
	}
	return TargetStable
}

// ParseDeploymentTarget parses a target name case-insensitively
func ParseDeploymentTarget(s string) (DeploymentTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "packaged":
		return TargetPackaged, nil
	case "stable":
		return TargetStable, nil
	case "preview":
		return TargetPreview, nil
	default:
		return 0, fmt.Errorf("unknown deployment target %q", s)
	}
}
