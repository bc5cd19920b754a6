package flow

// Release of this module. GitCommit is filled in at build time through
// -ldflags "-X github.com/iov-one/flow.GitCommit=<sha>".
var (
	release   = "v0.1.0-dev"
	GitCommit = ""
)

// Version is the release, followed by the commit it was built from when
// known.
func Version() string {
	if GitCommit == "" {
		return release
	}
	return release + " " + GitCommit
}
