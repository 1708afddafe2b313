package main

import (
	"bytes"
	"strings"
	"testing"

	"quota-service/internal/biz"

	"github.com/stretchr/testify/assert"
)

func TestPrompt_ConfirmOnlyOnYes(t *testing.T) {
	in := strings.NewReader("y\nno\n\nYES\n")
	var out bytes.Buffer
	confirm := newPrompt(in, &out)

	assert.True(t, confirm(biz.SweepPassUnregistered, 3, "estimates of unregistered scope types"))
	assert.False(t, confirm(biz.SweepPassOrphaned, 2, "estimates without scope"))
	assert.False(t, confirm(biz.SweepPassIncomplete, 1, "incomplete months"))
	assert.True(t, confirm(biz.SweepPassIncomplete, 1, "incomplete months"))
	assert.Contains(t, out.String(), "3 price estimates will be deleted.")
}

func TestPrompt_EOFDeclines(t *testing.T) {
	var out bytes.Buffer
	confirm := newPrompt(strings.NewReader(""), &out)
	assert.False(t, confirm(biz.SweepPassUnregistered, 5, "estimates of unregistered scope types"))
}

func TestPrintReports(t *testing.T) {
	var out bytes.Buffer
	printReports(&out, []*biz.SweepReport{
		{Pass: biz.SweepPassUnregistered, Found: 0},
		{Pass: biz.SweepPassOrphaned, Found: 2, Deleted: 2, Confirmed: true},
		{Pass: biz.SweepPassIncomplete, Found: 4},
	})
	s := out.String()
	assert.Contains(t, s, "nothing to delete")
	assert.Contains(t, s, "deleted 2 of 2")
	assert.Contains(t, s, "skipped, 4 estimates kept")
}
