// Package testutils provides test infrastructure for mailtop integration tests.
package testutils

import (
	"path/filepath"
	"runtime"

	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/agar/pkg/agar"
)

// Maillog is a small postfix log covering every extracted field.
const Maillog = `Oct 18 10:00:01 mx postfix/qmgr[100]: 1A2B: from=<alice@example.org>, size=4200, nrcpt=1 (queue active)
Oct 18 10:00:02 mx postfix/smtp[101]: 1A2B: to=<bob@example.net>, relay=mx.example.net[192.0.2.1]:25, delay=3, status=sent (250 ok)
Oct 18 10:00:03 mx postfix/smtp[101]: 1A2B: to=<bob@example.net>, relay=mx.example.net[192.0.2.1]:25, delay=3, status=sent (250 ok)
Oct 18 10:00:04 mx postfix/qmgr[100]: 3C4D: from=<carol@example.org>, size=900, nrcpt=1 (queue active)
Oct 18 10:00:05 mx postfix/smtp[102]: 3C4D: to=<dave@example.com>, relay=none, delay=7, status=deferred (host mx.example.com said: 450 mailbox busy)
`

// Setup creates a test case configured to run the mailtop binary.
func Setup() *test.Case {
	return agar.Setup(binary("mailtop"))
}

// SetupReport creates a test case configured to run the mailtop-report binary.
func SetupReport() *test.Case {
	return agar.Setup(binary("mailtop-report"))
}

func binary(name string) string {
	_, thisFile, _, _ := runtime.Caller(0) //nolint:dogsled // runtime.Caller returns 4 values, only file is needed
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))

	return filepath.Join(projectRoot, "bin", name)
}
