// Package npm provides an HTTP client for the npm registry API.
//
// # Overview
//
// The client speaks the public registry protocol served by
// https://registry.npmjs.org and by npm-compatible mirrors: packuments
// (GET /{name}), single version documents (GET /{name}/{version}), search
// (GET /-/v1/search) and publish (PUT /{name} with a base64 attachment).
//
// # Usage
//
//	client := npm.NewClient(integrations.Options{}, "")
//
//	doc, err := client.Packument(ctx, "express")
//	if err != nil {
//	    return err
//	}
//	latest := doc.Versions[doc.DistTags["latest"]]
//	fmt.Println(latest.Version, latest.Dist.Tarball)
//
// # Documents
//
// [Packument] and [VersionDoc] keep the registry's shape. Fields whose type
// varies between packages (license, repository, author) are decoded as any
// and read with [VersionDoc.LicenseName] and [VersionDoc.RepositoryURL].
// Normalizing into a registry-independent form happens one layer up.
package npm
