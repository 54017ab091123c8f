package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/oscimu/osciemu/internal/config"
	"github.com/oscimu/osciemu/internal/oscilog"
	"github.com/oscimu/osciemu/internal/osci"
	"github.com/oscimu/osciemu/internal/script"
	"github.com/oscimu/osciemu/internal/tui"
	"github.com/oscimu/osciemu/internal/ui/style"
)

const version = "0.1.0"

var (
	biosPath   string
	imagePath  string
	configPath string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "osciemu",
		Short:   "Run and inspect programs on the osci one-instruction CPU",
		Version: version,
		Long: `osciemu loads a BIOS image and a RAM image, wires them into the osci
address space, and executes the subtract-and-branch-if-non-positive
instruction loop until the CPU halts.`,
		RunE: runRun,
	}

	rootCmd.PersistentFlags().StringVarP(&biosPath, "bios", "b", "", "path to the BIOS image (required)")
	rootCmd.PersistentFlags().StringVarP(&imagePath, "image", "i", "", "path to the RAM image (required)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML layout config (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.MarkPersistentFlagRequired("bios")
	rootCmd.MarkPersistentFlagRequired("image")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the program until the CPU halts",
		RunE:  runRun,
	}
	stepCmd := &cobra.Command{
		Use:   "step",
		Short: "Step through the program interactively",
		RunE:  runStep,
	}
	infoCmd := &cobra.Command{
		Use:   "info",
		Short: "Print the computed address-space layout",
		RunE:  runInfo,
	}

	rootCmd.AddCommand(runCmd, stepCmd, infoCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

func newEmulator(cfg *config.Config) (*osci.Emulator, error) {
	bios, err := config.LoadFileAsMemory(biosPath)
	if err != nil {
		return nil, err
	}
	ram, err := config.LoadFileAsMemory(imagePath)
	if err != nil {
		return nil, err
	}
	return osci.New(ram, bios, cfg.Layout())
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	layout := cfg.Layout()

	fmt.Printf("registers: %d\n", cfg.NumRegisters)
	fmt.Printf("ivt:       %d\n", cfg.NumIVT)
	fmt.Printf("flags:     %d\n", cfg.NumFlags)
	fmt.Printf("word:      %d\n", cfg.Word)
	fmt.Println()
	fmt.Printf("flag_bound: 0x%08x\n", layout.FlagBound)
	fmt.Printf("ivt_bound:  0x%08x\n", layout.IVTBound)
	fmt.Printf("reg_bound:  0x%08x\n", layout.RegBound)
	fmt.Printf("max_addr:   0x%08x\n", layout.MaxAddr)
	fmt.Printf("bios_bound: 0x%08x\n", layout.BiosBound)
	return nil
}

func runRun(cmd *cobra.Command, args []string) error {
	oscilog.Init(verbose)
	log := oscilog.L.With(zap.String("session", uuid.NewString()))

	cfg, err := loadConfig()
	if err != nil {
		log.Error("config load failed", zap.Error(err))
		return err
	}

	em, err := newEmulator(cfg)
	if err != nil {
		log.Error("load failed", zap.Error(err))
		return err
	}
	em.SetLogger(log)

	const (
		saveCursor    = "\x1b[s"
		restoreCursor = "\x1b[u"
	)

	for {
		halted, err := em.IsHalted()
		if err != nil {
			return err
		}
		snap, err := em.RegisterSnapshot()
		if err != nil {
			return err
		}

		fmt.Print(saveCursor)
		fmt.Println(style.Field("ip", fmt.Sprintf("0x%08x", snap.IP)))
		for i, r := range snap.Registers {
			fmt.Println(style.Field(fmt.Sprintf("r%d", i), fmt.Sprintf("0x%08x", r)))
		}
		fmt.Println(style.RunState(halted))
		fmt.Print(restoreCursor)

		if halted {
			log.Info("halted", oscilog.Addr("ip", snap.IP))
			return nil
		}
		if err := em.Step(); err != nil {
			log.Error("step failed", oscilog.Addr("ip", em.IP()), zap.Error(err))
			return err
		}
	}
}

func runStep(cmd *cobra.Command, args []string) error {
	oscilog.Init(verbose)
	log := oscilog.L.With(zap.String("session", uuid.NewString()))

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	em, err := newEmulator(cfg)
	if err != nil {
		return err
	}
	em.SetLogger(log)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		p := tea.NewProgram(tui.New(em, log))
		_, err := p.Run()
		return err
	}
	return runStepLineOriented(em, log)
}

// runStepLineOriented implements spec.md's line-oriented step mode for
// non-TTY (piped/scripted) use: "step" executes one instruction and
// prints the CPU state, "exit" quits, "break <expr>" installs a
// breakpoint expression.
func runStepLineOriented(em *osci.Emulator, log *oscilog.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	var bp *script.Breakpoint

	for scanner.Scan() {
		cmd := strings.TrimSpace(scanner.Text())
		switch {
		case cmd == "exit":
			return nil
		case cmd == "step":
			if err := em.Step(); err != nil {
				fmt.Fprintf(os.Stdout, "fault: %v\n", err)
				continue
			}
			printStepState(em)

			halted, err := em.IsHalted()
			if err != nil {
				return err
			}
			if halted {
				log.Halt(em.IP())
			}
			if bp != nil {
				snap, err := em.RegisterSnapshot()
				if err == nil {
					if hit, _ := bp.Eval(snap, halted); hit {
						fmt.Printf("breakpoint hit: %s\n", bp)
					}
				}
			}
		case strings.HasPrefix(cmd, "break "):
			expr := strings.TrimSpace(strings.TrimPrefix(cmd, "break "))
			compiled, err := script.Compile(expr)
			if err != nil {
				fmt.Fprintf(os.Stdout, "breakpoint error: %v\n", err)
				continue
			}
			bp = compiled
			fmt.Printf("breakpoint set: %s\n", expr)
		default:
			fmt.Fprintf(os.Stdout, "unknown command %q (step|break <expr>|exit)\n", cmd)
		}
	}
	return scanner.Err()
}

func printStepState(em *osci.Emulator) {
	snap, err := em.RegisterSnapshot()
	if err != nil {
		fmt.Printf("snapshot error: %v\n", err)
		return
	}
	fmt.Printf("ip=0x%08x", snap.IP)
	for i, r := range snap.Registers {
		fmt.Printf(" r%s=0x%08x", strconv.Itoa(i), r)
	}
	fmt.Println()
}
