// Package cmds builds the ladisasm command tree.
package cmds

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/sarchlab/ladisasm/config"
	"github.com/sarchlab/ladisasm/insts"
	"github.com/sarchlab/ladisasm/listing"
	"github.com/sarchlab/ladisasm/loader"
	"github.com/sarchlab/ladisasm/logflags"
)

// Version is the ladisasm release.
const Version = "0.3.0"

var (
	// configPath is the YAML settings file; empty means defaults.
	configPath string
	// log is whether to log debug statements.
	log bool
	// logOutput is a comma separated list of components that should produce
	// debug output.
	logOutput string
	// logDest is the file path where logs should go.
	logDest string
	// pc is the address of the first word for the word subcommand.
	pc uint64

	dump       bool
	base       uint64
	checkTable bool
	pattern    string

	conf    *config.Config
	logFile *os.File
)

const longDesc = `ladisasm decodes LoongArch instruction words into assembly text.

Words can be given on the command line, read from a flat binary, or taken
from the executable segments of a LoongArch ELF64 file.`

// New returns an initialized command tree.
func New() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "ladisasm",
		Short:         "ladisasm is a LoongArch disassembler.",
		Long:          longDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return teardown()
		},
	}

	rootCommand.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML configuration file.")
	rootCommand.PersistentFlags().BoolVarP(&log, "log", "", false, "Enable logging.")
	rootCommand.PersistentFlags().StringVarP(&logOutput, "log-output", "", "", "Comma separated list of components that should produce debug output (loader, listing, icache, cli).")
	rootCommand.PersistentFlags().StringVarP(&logDest, "log-dest", "", "", "Writes logs to the specified file.")
	rootCommand.PersistentFlags().Uint64Var(&pc, "pc", 0, "Address of the first instruction word.")

	wordCommand := &cobra.Command{
		Use:   "word <hex>...",
		Short: "Decode instruction words given in hex.",
		Args:  cobra.MinimumNArgs(1),
		RunE:  wordCmd,
	}
	wordCommand.Flags().BoolVar(&dump, "dump", false, "Dump the decoded record of each word.")
	rootCommand.AddCommand(wordCommand)

	rawCommand := &cobra.Command{
		Use:   "raw <file>",
		Short: "Disassemble a flat binary.",
		Args:  cobra.ExactArgs(1),
		RunE:  rawCmd,
	}
	rawCommand.Flags().Uint64Var(&base, "base", 0, "Load address of the first byte.")
	rootCommand.AddCommand(rawCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "elf <file>",
		Short: "Disassemble the executable segments of a LoongArch ELF64 file.",
		Args:  cobra.ExactArgs(1),
		RunE:  elfCmd,
	})

	tableCommand := &cobra.Command{
		Use:   "table",
		Short: "Print the instruction table.",
		Args:  cobra.NoArgs,
		RunE:  tableCmd,
	}
	tableCommand.Flags().BoolVar(&checkTable, "check", false, "Validate the table instead of printing it.")
	tableCommand.Flags().StringVar(&pattern, "pattern", "", "Derive an entry from a bit pattern line.")
	rootCommand.AddCommand(tableCommand)

	rootCommand.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Prints version.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ladisasm version: %s\n", Version)
		},
	})

	return rootCommand
}

func setup(cmd *cobra.Command) error {
	var dest io.Writer = cmd.ErrOrStderr()
	if logDest != "" {
		f, err := os.Create(logDest)
		if err != nil {
			return fmt.Errorf("could not create log file: %w", err)
		}
		logFile = f
		dest = f
	}
	if err := logflags.Setup(log, logOutput, dest); err != nil {
		return err
	}

	conf = config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		conf = c
	}
	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logflags.CLILogger().Debugf("command %s, config %q", cmd.Name(), configPath)
	return nil
}

func teardown() error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

func parseWord(arg string) (uint32, error) {
	digits := strings.TrimPrefix(strings.ToLower(arg), "0x")
	w, err := strconv.ParseUint(digits, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid instruction word %q: %w", arg, err)
	}
	return uint32(w), nil
}

func wordCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	decoder := insts.NewDecoder()
	buf := make([]byte, conf.BufferSize)

	addr := pc
	for _, arg := range args {
		w, err := parseWord(arg)
		if err != nil {
			return err
		}

		inst := decoder.Decode(w)
		n := insts.RenderTo(buf, inst, addr)
		fmt.Fprintf(out, "%#x: %08x %s\n", addr, w, buf[:n])
		if dump {
			spew.Fdump(out, inst)
		}
		addr += insts.InsnLength
	}
	return nil
}

func rawCmd(cmd *cobra.Command, args []string) error {
	prog, err := loader.LoadRaw(args[0], base)
	if err != nil {
		return err
	}
	return printProgram(cmd, prog)
}

func elfCmd(cmd *cobra.Command, args []string) error {
	prog, err := loader.Load(args[0])
	if err != nil {
		return err
	}
	return printProgram(cmd, prog)
}

func printProgram(cmd *cobra.Command, prog *loader.Program) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := listing.OptionsFromConfig(conf)
	regions, err := listing.DisassembleSegments(ctx, prog, opts)
	if err != nil {
		return err
	}
	return listing.PrintRegions(cmd.OutOrStdout(), regions, opts)
}

func tableCmd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if checkTable {
		if err := insts.Validate(); err != nil {
			return fmt.Errorf("instruction table: %w", err)
		}
		fmt.Fprintf(out, "instruction table OK: %d entries\n", len(insts.Table())-1)
		return nil
	}

	entries := insts.Table()
	if pattern != "" {
		e, err := insts.ParsePattern(pattern)
		if err != nil {
			return err
		}
		entries = []insts.Entry{e}
	}

	tw := tabwriter.NewWriter(out, 1, 8, 1, ' ', 0)
	fmt.Fprintln(tw, "MNEMONIC\tFORMAT\tMATCH\tMASK\tFLAGS")
	for _, e := range entries {
		if e.IsSentinel() {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%08x\t%08x\t%s\n", e.Mnemonic, e.Format, e.Match, e.Mask, e.Flags)
	}
	return tw.Flush()
}
