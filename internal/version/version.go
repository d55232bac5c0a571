// Package version holds the application version, set at build time with
//
//	go build -ldflags "-X github.com/ndewijer/Investment-Wallet-Tracker-Backend/internal/version.Version=1.2.3"
package version

// Version is the application version. "dev" for local builds.
var Version = "dev"
