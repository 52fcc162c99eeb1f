package tests_test

import (
	"testing"

	"github.com/containerd/nerdctl/mod/tigron/expect"
	"github.com/containerd/nerdctl/mod/tigron/test"

	"github.com/farcloser/mailtop/tests/testutils"
)

func saveMaillog(data test.Data, _ test.Helpers) {
	data.Labels().Set("file", data.Temp().Save(testutils.Maillog, "maillog"))
}

func TestAnalyzeCLI(t *testing.T) {
	testCase := testutils.Setup()

	testCase.SubTests = []*test.Case{
		{
			Description: "analyze without arguments fails",
			Command:     test.Command("analyze"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze nonexistent file fails",
			Command:     test.Command("analyze", "/nonexistent/path/maillog"),
			Expected:    test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze with a zero top count fails",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--top", "0", data.Labels().Get("file"))
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze with an unknown format fails",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--format", "hieroglyphs", data.Labels().Get("file"))
			},
			Expected: test.Expects(expect.ExitCodeGenericFail, nil, nil),
		},
		{
			Description: "analyze prints every report in plain text",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--no-progress", "--format", "plain", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("Total unique mail_from:\t2\n"),
						expectContains("Total unique mail_to:\t2\n"),
						expectContains("Total unique errors:\t1\n"),
						expectContains("TOP 10 Mail From"),
						expectContains("TOP 10 Mail To"),
						expectContains("TOP 10 SMTP error codes"),
						expectContains("TOP 10 Biggest mails"),
						expectContains("TOP 10 Mail deferred"),
						expectContains("TOP 10 Mail delays"),
						expectRow(2, "bob@example.net"),
						expectRow(4200, "alice@example.org"),
						expectRow(900, "carol@example.org"),
						expectRow(1, "450 (Requested mail action not taken: mailbox unavailable)"),
						expectRow(1, "host mx.example.com said: 450 mailbox busy"),
						expectRow(2, "3"),
					),
				}
			},
		},
		{
			Description: "analyze honors --top",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--no-progress", "-f", "plain", "-t", "1", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("TOP 1 Mail To"),
						expectRow(2, "bob@example.net"),
						expectNotContains("dave@example.com"),
					),
				}
			},
		},
		{
			Description: "analyze reads MAILTOP_TOP from the environment",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "--no-progress", "-f", "plain", data.Labels().Get("file"))
				cmd.Setenv("MAILTOP_TOP", "3")

				return cmd
			},
			Expected: test.Expects(expect.ExitCodeSuccess, nil, expectContains("TOP 3 Mail From")),
		},
		{
			Description: "analyze lets --top override an invalid MAILTOP_TOP",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				cmd := helpers.Command("analyze", "--no-progress", "-f", "plain", "--top", "5", data.Labels().Get("file"))
				cmd.Setenv("MAILTOP_TOP", "0")

				return cmd
			},
			Expected: test.Expects(expect.ExitCodeSuccess, nil, expectContains("TOP 5 Mail From")),
		},
		{
			Description: "analyze renders json",
			Setup:       saveMaillog,
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--no-progress", "--format", "json", data.Labels().Get("file"))
			},
			Expected: func(_ test.Data, _ test.Helpers) *test.Expected {
				return &test.Expected{
					ExitCode: expect.ExitCodeSuccess,
					Output: expect.All(
						expectContains("distinct_senders"),
						expectContains("smtp-codes"),
						expectContains("bob@example.net"),
					),
				}
			},
		},
		{
			Description: "analyze of an empty file prints empty reports",
			Setup: func(data test.Data, _ test.Helpers) {
				data.Labels().Set("file", data.Temp().Save("", "empty.log"))
			},
			Command: func(data test.Data, helpers test.Helpers) test.TestableCommand {
				return helpers.Command("analyze", "--no-progress", "-f", "plain", data.Labels().Get("file"))
			},
			Expected: test.Expects(expect.ExitCodeSuccess, nil, expectContains("Total unique mail_from:\t0\n")),
		},
	}

	testCase.Run(t)
}
