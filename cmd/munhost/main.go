// Command munhost is a small host process for the Mun runtime: it loads
// one or more compiled assemblies, can invoke a linked function by name,
// and can sit in a watch loop that reloads on every on-disk change.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mun-lang/mun/internal/logx"
	"github.com/mun-lang/mun/muntime"
)

var verbose bool

func newFacade() *muntime.Facade {
	logger := logx.Default()
	if verbose {
		logger = logx.NewHelper(logx.NewFilter(logx.NewStdLogger(os.Stderr), logx.LevelDebug))
	}
	return muntime.New(muntime.WithLogger(logger))
}

func runLoad(cmd *cobra.Command, args []string) error {
	f := newFacade()
	defer f.Close()

	if err := f.Load(args...); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	stats := f.Stats()
	fmt.Printf("loaded %d assembly path(s); heap: %d live, %d allocated, %d freed\n",
		len(args), stats.Live, stats.Allocated, stats.Freed)
	return nil
}

func runInvoke(cmd *cobra.Command, args []string) error {
	fnName := args[0]
	assemblyPaths, _ := cmd.Flags().GetStringSlice("assembly")

	f := newFacade()
	defer f.Close()

	if len(assemblyPaths) > 0 {
		if err := f.Load(assemblyPaths...); err != nil {
			return fmt.Errorf("load: %w", err)
		}
	}

	callArgs := make([]interface{}, 0, len(args)-1)
	for _, raw := range args[1:] {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return fmt.Errorf("argument %q: only 32-bit integer arguments are supported by this CLI: %w", raw, err)
		}
		callArgs = append(callArgs, int32(v))
	}

	results, err := f.Invoke(fnName, callArgs...)
	if err != nil {
		return fmt.Errorf("invoke %q: %w", fnName, err)
	}
	fmt.Println(results)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	f := muntime.New(muntime.WithLogger(logx.Default()), muntime.WithWatcher())
	defer f.Close()

	if err := f.Load(args...); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	fmt.Println("watching for changes, press Ctrl-C to stop")
	for {
		select {
		case <-sigCh:
			return nil
		case <-ticker.C:
			reloaded, err := f.Update()
			if err != nil {
				fmt.Fprintf(os.Stderr, "reload failed: %v\n", err)
				continue
			}
			if reloaded {
				fmt.Println("reloaded")
			}
		}
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "munhost",
		Short: "A host process for the Mun hot-reload runtime",
		Long:  "munhost loads compiled Mun assemblies, invokes their functions, and can watch for live reloads.",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	loadCmd := &cobra.Command{
		Use:   "load <assembly> [deps...]",
		Short: "Load one or more assemblies and report heap stats",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runLoad,
	}

	invokeCmd := &cobra.Command{
		Use:   "invoke <fn> [args...]",
		Short: "Invoke a linked function by name with integer arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runInvoke,
	}
	invokeCmd.Flags().StringSlice("assembly", nil, "assembly path(s) to load before invoking")

	watchCmd := &cobra.Command{
		Use:   "watch <assembly> [deps...]",
		Short: "Load assemblies and reload automatically on file changes",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runWatch,
	}

	rootCmd.AddCommand(loadCmd, invokeCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
