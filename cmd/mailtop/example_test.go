package main

import (
	"strings"
	"testing"
)

func TestPrintExample(t *testing.T) {
	t.Parallel()

	var out strings.Builder

	line := "Oct 18 10:00:01 mx postfix/qmgr[811]: A1: from=<a@x>, size=10, nrcpt=1"
	if err := printExample(&out, line); err != nil {
		t.Fatalf("printExample: %v", err)
	}

	for _, want := range []string{
		"col:\tvalue:\n\n0:\tOct\n1:\t18\n",
		"6:\tfrom=<a@x>,\n",
		"field:\tvalue:\n\nmail-from:\ta@x\nmail-size:\t10\n",
	} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestPrintExampleWithoutFields(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	if err := printExample(&out, "kernel: link up"); err != nil {
		t.Fatal(err)
	}

	if strings.Contains(out.String(), "field:") {
		t.Errorf("unexpected field section:\n%s", out.String())
	}
}
