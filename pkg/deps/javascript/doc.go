// Package javascript reads package.json manifests.
//
// [PackageJSON] implements [deps.ManifestParser]. Dependency sections are
// decoded in file order so that resolution, and therefore the lock record,
// follows the order the author wrote:
//
//	m, err := deps.LoadManifest("package.json", javascript.PackageJSON{})
//	for _, d := range m.Direct(deps.Prod) {
//	    fmt.Println(d.Name, d.Range)
//	}
//
// The whole document is kept in [deps.Manifest.Raw] so catalogs, overrides
// and resolutions can be read from it.
package javascript
