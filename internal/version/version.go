// Package version records the goreads release version.
package version

// Version is the current goreads release. The release commands rewrite
// this file through the external version bumper; nothing else in the
// codebase touches it.
const Version = "0.2.5"
