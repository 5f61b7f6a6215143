// Package preflight provides readiness checks for the filesystem paths,
// host database and remote catalog that logograb depends on.
//
// These checks run in two contexts:
//   - The plugin calls CheckDirectoryAccess on the logo directory before a
//     pass that downloads logo files. A failure skips the pass.
//   - The CLI "logograb status" command uses RunAll to display health.
package preflight
