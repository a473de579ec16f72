// Package version holds build information about the running binary.
package version

// Version is the application version. It is overridden at build time with
//
//	-ldflags "-X github.com/ndewijer/Investment-Portfolio-Importer/internal/version.Version=v1.2.3"
var Version = "dev"

// Features lists the optional capabilities compiled into this build.
var Features = map[string]bool{
	"position_import":       true,
	"dividend_import":       true,
	"dividend_feed":         true,
	"price_refresh":         true,
	"scheduled_maintenance": true,
}
