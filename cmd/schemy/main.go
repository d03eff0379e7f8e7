// Command schemy is Schemy's CLI: given a file argument, it evaluates
// the file and prints its final value; otherwise it runs a REPL on
// stdin/stdout. Either way, unless schemy.yaml sets dot_init_lookup to
// false, it first looks for a .init.ss in the current directory and
// evaluates it.
package main

import (
	"fmt"
	"os"

	"github.com/lontivero/Schemy/internal/config"
	"github.com/lontivero/Schemy/internal/interp"
	"github.com/lontivero/Schemy/internal/value"
)

const configFile = "schemy.yaml"
const dotInit = ".init.ss"

// extensionRegistry maps the names a schemy.yaml may list under
// `extensions:` to the Extension a host built into this binary. Empty
// for the stock binary; an embedder linking in extra builtins adds to
// it before calling run.
var extensionRegistry = map[string]interp.Extension{}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	var exts []interp.Extension
	for _, name := range cfg.Extensions {
		ext, ok := extensionRegistry[name]
		if !ok {
			fmt.Fprintf(stderr, "schemy: unknown extension %q in %s\n", name, configFile)
			return 1
		}
		exts = append(exts, ext)
	}

	ip, err := interp.NewInterpreter(exts...)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	ip.SetOutput(stdout)

	if cfg.DotInitLookup {
		if err := loadDotInit(ip, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}

	if len(args) >= 1 {
		return runFile(ip, args[0], stdout, stderr)
	}
	ip.REPL(os.Stdin, stdout, cfg.Prompt, cfg.Banner)
	return 0
}

// loadDotInit evaluates .init.ss in the current directory if present,
// printing a confirmation line. A missing file is not an error.
func loadDotInit(ip *interp.Interpreter, stdout *os.File) error {
	file, err := os.Open(dotInit)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("schemy: %w", err)
	}
	defer file.Close()

	res := ip.Evaluate(file)
	if res.Err != nil {
		return fmt.Errorf("schemy: %s: %w", dotInit, res.Err)
	}
	fmt.Fprintf(stdout, "; loaded %s\n", dotInit)
	return nil
}

// runFile evaluates path and prints its final value.
func runFile(ip *interp.Interpreter, path string, stdout, stderr *os.File) int {
	file, err := os.Open(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer file.Close()

	res := ip.Evaluate(file)
	if res.Err != nil {
		fmt.Fprintln(stderr, res.Err)
		return 1
	}
	fmt.Fprintln(stdout, value.Print(res.LastValue))
	return 0
}
