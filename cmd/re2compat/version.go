package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sys/cpu"
)

// versionCmd prints build and CPU feature information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and the CPU features used by the engine",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printVersion(cmd.OutOrStdout())
		return nil
	},
}

// engineModule is the module providing the regex engine
const engineModule = "github.com/coregx/coregex"

func printVersion(w io.Writer) {
	version, engine := "(devel)", "unknown"
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" {
			version = v
		}
		for _, dep := range info.Deps {
			if dep.Path == engineModule {
				engine = dep.Version
			}
		}
	}

	fmt.Fprintf(w, "re2compat %s\n", version)
	fmt.Fprintf(w, "engine    %s %s\n", engineModule, engine)
	fmt.Fprintf(w, "go        %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "cpu       %s\n", cpuFeatures())
}

// cpuFeatures lists the SIMD features the engine's search paths check for
func cpuFeatures() string {
	var features []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasSSSE3 {
			features = append(features, "ssse3")
		}
		if cpu.X86.HasSSE42 {
			features = append(features, "sse4.2")
		}
		if cpu.X86.HasAVX2 {
			features = append(features, "avx2")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			features = append(features, "asimd")
		}
	}
	if len(features) == 0 {
		return "none"
	}
	return strings.Join(features, " ")
}
