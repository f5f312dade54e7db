/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ssargent/beemap/pkg/beemap"
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Run benchmark workloads against the map",
	Long: `Run the workloads the buffered design targets: sorted bulk
loading, random bulk loading, and an alternating insert/read pattern
that forces a flush on nearly every read.

Example:
  beemap bench --workload sorted -n 1000000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workload, _ := cmd.Flags().GetString("workload")
		n, _ := cmd.Flags().GetInt("n")
		seed, _ := cmd.Flags().GetInt64("seed")

		switch workload {
		case "sorted":
			benchSorted(n)
		case "random":
			benchRandom(n, seed)
		case "alternating":
			benchAlternating(n, seed)
		case "all":
			benchSorted(n)
			benchRandom(n, seed)
			benchAlternating(n, seed)
		default:
			return fmt.Errorf("unknown workload %q (want sorted, random, alternating or all)", workload)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)
	benchCmd.Flags().String("workload", "all", "Workload to run: sorted, random, alternating or all")
	benchCmd.Flags().IntP("n", "n", 1_000_000, "Number of inserts per workload")
	benchCmd.Flags().Int64("seed", 1, "Seed for the random workloads")
}

func report(name string, n int, elapsed time.Duration) {
	perOp := elapsed / time.Duration(n)
	log.Info("workload finished", "name", name, "n", n, "elapsed", elapsed, "per_op", perOp)
}

func benchSorted(n int) {
	m := beemap.New[int, int]()
	m.Insert(int(^uint(0)>>1), 0) // one key far to the right, as a non-trivial front

	start := time.Now()
	for i := 0; i < n; i++ {
		m.Insert(i, i)
	}
	if _, ok := m.Get(2); !ok {
		log.Fatal("sorted workload lost a key")
	}
	report("sorted", n, time.Since(start))
}

func benchRandom(n int, seed int64) {
	m := beemap.New[uint64, int]()
	r := rand.New(rand.NewSource(seed))

	start := time.Now()
	for i := 0; i < n; i++ {
		m.Insert(r.Uint64(), i)
	}
	m.Get(2)
	report("random", n, time.Since(start))
}

func benchAlternating(n int, seed int64) {
	m := beemap.New[uint64, int]()
	r := rand.New(rand.NewSource(seed))

	start := time.Now()
	var previous uint64
	havePrevious := false
	for i := 0; i < n; i++ {
		if havePrevious {
			if _, ok := m.Get(previous); !ok {
				log.Fatal("alternating workload lost a key", "key", previous)
			}
		}
		previous = r.Uint64()
		havePrevious = true
		m.Insert(previous, i)
	}
	report("alternating", n, time.Since(start))
}
