/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/ssargent/beemap/pkg/beemap"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive prompt against an in-process map",
	Long: `Open an interactive prompt on a fresh in-process map.

Commands:
  put <key> <value>      stage a write
  get <key>              look up a key
  before <key>           predecessor lookup (strictly less)
  before! <key>          inclusive predecessor lookup
  len                    upper-bound key count
  help                   show this list
  exit                   leave the prompt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		line := liner.NewLiner()
		defer line.Close()
		line.SetCtrlCAborts(true)

		historyFile := filepath.Join(os.TempDir(), ".beemap_history")
		if f, err := os.Open(historyFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(historyFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()

		m := beemap.New[string, string]()
		fmt.Println("beemap interactive prompt; type 'help' for commands")

		for {
			input, err := line.Prompt("beemap> ")
			if err != nil {
				break
			}
			input = strings.TrimSpace(input)
			if input == "" {
				continue
			}
			line.AppendHistory(input)

			if input == "exit" || input == "quit" {
				break
			}
			evalLine(m, input)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func evalLine(m *beemap.Map[string, string], input string) {
	fields := strings.Fields(input)
	switch fields[0] {
	case "put":
		if len(fields) < 3 {
			fmt.Println("usage: put <key> <value>")
			return
		}
		m.Insert(fields[1], strings.Join(fields[2:], " "))
		fmt.Println("ok")
	case "get":
		if len(fields) != 2 {
			fmt.Println("usage: get <key>")
			return
		}
		if v, ok := m.Get(fields[1]); ok {
			fmt.Println(*v)
		} else {
			fmt.Println("(not found)")
		}
	case "before", "before!":
		if len(fields) != 2 {
			fmt.Printf("usage: %s <key>\n", fields[0])
			return
		}
		var (
			k  string
			v  *string
			ok bool
		)
		if fields[0] == "before!" {
			k, v, ok = m.GetKeyValueBeforeInc(fields[1])
		} else {
			k, v, ok = m.GetKeyValueBefore(fields[1])
		}
		if ok {
			fmt.Printf("%s = %s\n", k, *v)
		} else {
			fmt.Println("(no predecessor)")
		}
	case "len":
		fmt.Println(m.Len())
	case "help":
		fmt.Println("commands: put <k> <v> | get <k> | before <k> | before! <k> | len | exit")
	default:
		fmt.Printf("unknown command %q; type 'help'\n", fields[0])
	}
}
