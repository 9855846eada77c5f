package treasury

import "fmt"

// Release of the wallet, reported by abci Info and `treasuryd version`.
const (
	Maj    = 0
	Min    = 1
	Fix    = 0
	Suffix = "-dev"
)

// GitCommit is set at build time with
//   -ldflags "-X github.com/iov-one/treasury.GitCommit=<hash>"
var GitCommit = ""

// Version returns the release, followed by the commit it was built from
// when known.
func Version() string {
	v := fmt.Sprintf("v%d.%d.%d%s", Maj, Min, Fix, Suffix)
	if GitCommit != "" {
		v += " " + GitCommit
	}
	return v
}
