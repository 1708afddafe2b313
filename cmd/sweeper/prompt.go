package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"quota-service/internal/biz"

	"github.com/fatih/color"
)

// newPrompt 逐轮询问是否删除，只有输入 y/yes 才确认
func newPrompt(in io.Reader, out io.Writer) biz.ConfirmFunc {
	reader := bufio.NewReader(in)
	return func(pass string, count int, description string) bool {
		fmt.Fprintf(out, "%s %s\n", color.CyanString("[%s]", pass), description)
		fmt.Fprintf(out, "%s %s ",
			color.YellowString("%d price estimates will be deleted.", count),
			"Continue? [y/N]:")

		answer, err := reader.ReadString('\n')
		if err != nil && answer == "" {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "y", "yes":
			return true
		}
		return false
	}
}

func printReports(out io.Writer, reports []*biz.SweepReport) {
	for _, r := range reports {
		switch {
		case r.Found == 0:
			fmt.Fprintf(out, "%s %s\n", color.GreenString("✔"), r.Pass+": nothing to delete")
		case r.Confirmed:
			fmt.Fprintf(out, "%s %s: deleted %d of %d\n", color.GreenString("✔"), r.Pass, r.Deleted, r.Found)
		default:
			fmt.Fprintf(out, "%s %s: skipped, %d estimates kept\n", color.YellowString("-"), r.Pass, r.Found)
		}
	}
}
