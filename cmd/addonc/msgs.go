package addonc

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort       = "Build and live-sync add-on packs"
	MsgWatchShort      = "Build into the game and keep it in sync"
	MsgPackageShort    = "Build both packs into the output directory"
	MsgOutdirShort     = "Print the destination folder of each pack"
	MsgScaffoldShort   = "Create a new add-on project"
	MsgCompletionShort = "Generate shell completion script"

	// Flags
	MsgFlagVerbose  = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagDir      = "Project directory"
	MsgFlagFormat   = "Output format (auto, term, text, json)"
	MsgFlagPreview  = "Use the preview game instead of the stable one"
	MsgFlagTarget   = "Language level of the emitted JavaScript"
	MsgFlagPackaged = "Print the packaged output folders instead"
	MsgFlagName     = "Pack name (prompted for when omitted)"
	MsgFlagNoGit    = "Do not create a git repository"

	// Status messages
	MsgWatching        = "Watching %s for changes"
	MsgStopped         = "Stopped watching"
	MsgScaffoldPrompt  = "Pack name"
	MsgScaffoldDone    = "Created project %q in %s"
	MsgScaffoldCreated = "  %s"
	MsgGitSkipped      = "git init failed; the project was created without a repository"
	MsgBuildFailed     = "build failed"

	// Error messages
	MsgErrNoCommand = "no command specified"
	MsgErrDialect   = "unknown target %q (expected one of %s)"
)

// Embedded message files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/watch-long.txt
	msgWatchLongRaw string
	MsgWatchLong    = strings.TrimSpace(msgWatchLongRaw)

	//go:embed msgs/watch-example.txt
	msgWatchExampleRaw string
	MsgWatchExample    = strings.TrimRight(msgWatchExampleRaw, "\n")

	//go:embed msgs/package-long.txt
	msgPackageLongRaw string
	MsgPackageLong    = strings.TrimSpace(msgPackageLongRaw)

	//go:embed msgs/scaffold-long.txt
	msgScaffoldLongRaw string
	MsgScaffoldLong    = strings.TrimSpace(msgScaffoldLongRaw)

	//go:embed msgs/usage.txt
	msgUsageTemplateRaw string
	MsgUsageTemplate    = strings.TrimSpace(msgUsageTemplateRaw)
)
