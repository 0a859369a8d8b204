// Package github provides an HTTP client for the parts of the GitHub REST API
// a package manager needs: repository metadata, tags as versions, source
// tarballs and repository search.
//
// # Usage
//
//	client := github.NewClient(integrations.Options{}, "")
//	tags, err := client.Tags(ctx, "owner", "repo")
//	if err != nil {
//	    return err
//	}
//
// # Authentication
//
// Unauthenticated requests are limited to 60 per hour. Pass an
// [integrations.Options].Authorize hook that sets a token to raise the limit
// and reach private repositories.
//
// [integrations.Options]: github.com/home-lang/pantry-sub014/pkg/integrations.Options
package github
