// ovb - inspect and exercise host override hierarchies from the command
// line: load a declaration file, print the API manifest, or attach a host
// program and invoke virtual methods through it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/chazu/overbridge/bridge"
	"github.com/chazu/overbridge/hostproc"
	"github.com/chazu/overbridge/manifest"
)

func main() {
	declPath := flag.String("hierarchy", "", "Hierarchy declaration file (TOML)")
	printManifest := flag.Bool("manifest", false, "Print the API manifest as JSON")
	hostCmd := flag.String("host", "", "Host program to attach (command line)")
	call := flag.String("call", "", "Create an instance and invoke a method (Class.method)")
	handle := flag.String("handle", "obj1", "Host override handle for -call")
	verbose := flag.Bool("v", false, "Verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: ovb -hierarchy <file> [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  ovb -hierarchy shapes.toml -manifest\n")
		fmt.Fprintf(os.Stderr, "  ovb -hierarchy shapes.toml -host './host.py' -call Circle.area\n")
	}
	flag.Parse()

	verbosity := 0
	if *verbose {
		verbosity = 2
	}
	commonlog.Configure(verbosity, nil)

	if *declPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	decl, err := manifest.Load(*declPath)
	if err != nil {
		fatal(err)
	}

	var host bridge.HostRuntime
	if *hostCmd != "" {
		fields := strings.Fields(*hostCmd)
		proc := hostproc.New(fields[0], fields[1:]...)
		defer proc.Close()
		host = proc
	}

	b := bridge.New(host)
	if err := decl.Register(b, printingDefaults(decl)); err != nil {
		fatal(err)
	}

	if *printManifest {
		out, err := manifest.Describe(b).ToJSON()
		if err != nil {
			fatal(err)
		}
		fmt.Println(out)
	}

	if *call != "" {
		className, method, ok := strings.Cut(*call, ".")
		if !ok {
			fatal(fmt.Errorf("-call wants Class.method, got %q", *call))
		}

		inst, err := b.Create(className, *handle)
		if err != nil {
			fatal(err)
		}
		defer inst.Close()

		result, err := inst.Invoke(method, toValues(flag.Args()))
		if err != nil {
			fatal(err)
		}
		fmt.Println(result.ToJSON())
	}
}

// printingDefaults builds a native default for every overridable method
// that announces itself and returns nil, so declaration files can be
// exercised without writing Go.
func printingDefaults(decl *manifest.Declaration) map[string]bridge.DefaultFunc {
	defaults := make(map[string]bridge.DefaultFunc)
	for _, c := range decl.Classes {
		for _, m := range c.Methods {
			if !m.Overridable {
				continue
			}
			name := c.Name + "." + m.Name
			defaults[name] = func(self *bridge.Trampoline, args []bridge.Value) (bridge.Value, error) {
				fmt.Printf("native default %s\n", name)
				return bridge.NilValue(), nil
			}
		}
	}
	return defaults
}

func toValues(args []string) []bridge.Value {
	values := make([]bridge.Value, len(args))
	for i, a := range args {
		if v, err := bridge.ValueFromJSON(a); err == nil {
			values[i] = v
		} else {
			values[i] = bridge.StringValue(a)
		}
	}
	return values
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "ovb: %v\n", err)
	os.Exit(1)
}
