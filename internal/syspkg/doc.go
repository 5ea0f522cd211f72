// Package syspkg queries the OS package system.
//
// It provides two narrow collaborators for the pipeline:
//   - Lister: enumerates all installable package names
//   - Locator: lists the manual pages owned by one package
//
// Both shell out to the package manager. The lister treats a failed query
// as fatal because downstream work has nothing to iterate without a
// listing; the locator never fails, because a missing or manifest-less
// package simply means "fall back to direct lookup by name".
//
// The subprocess call is injectable so tests can run without a package
// manager installed.
package syspkg
