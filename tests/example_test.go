package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/mailtop/tests/testutils"
)

func TestExampleCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "example without arguments fails",
			Command:     test.Command("example"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "example of an empty file fails",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("file", data.Temp().Save("", "empty.log"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("example", data.Labels().Get("file"))
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "example splits the first line and shows extracted fields",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("example", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("0:\tOct\n"),
						expectContains("mail-from:\talice@example.org\n"),
						expectContains("mail-size:\t4200\n"),
						expectNotContains("bob@example.net"),
					),
				}
			},
		},
	}

	testCase.Run(t)
}
