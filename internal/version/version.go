package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/addonc/internal/version.Version=<tag>
	Commit  = "unknown" // -X github.com/arthur-debert/addonc/internal/version.Commit=<sha>
	Date    = "unknown" // -X github.com/arthur-debert/addonc/internal/version.Date=<date>
)
