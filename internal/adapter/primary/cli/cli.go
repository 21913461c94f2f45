package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"micmon/internal/adapter/secondary/wasapi"
	"micmon/internal/config"
	"micmon/internal/domain"
	"micmon/internal/logging"
	"micmon/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
)

// newDeviceSystem builds the OS-backed device system. Overridable in tests.
var newDeviceSystem = func() (domain.DeviceSystem, error) {
	sys, err := wasapi.New()
	if err != nil {
		return nil, err
	}
	return sys, nil
}

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "micmon",
		Short:         "Toggle Windows \"Listen to this device\" for a microphone",
		Long:          "micmon flips the \"Listen to this device\" checkbox and the\n\"Playback through this device\" dropdown of a recording endpoint.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the config JSON file")
	cmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log output (-v, -vv, ... up to 4)")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.SetVerbosity(verbosity)
	}

	cmd.AddCommand(
		newListCmd(),
		newApplyCmd("on", "Enable listening for the microphone", domain.DesiredOn),
		newApplyCmd("off", "Disable listening for the microphone", domain.DesiredOff),
		newApplyCmd("toggle", "Flip the current listen state", domain.DesiredToggle),
		newConfigCmd(),
		newShellCmd(),
	)

	return cmd
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List active input and output devices",
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := newDeviceSystem()
			if err != nil {
				return err
			}
			defer sys.Close()

			uc, err := usecase.NewListenUseCase(sys)
			if err != nil {
				return err
			}
			devices, err := uc.ListDevices()
			if err != nil {
				return err
			}

			printDevices(cmd.OutOrStdout(), "Input devices (recording):", devices.Inputs)
			fmt.Fprintln(cmd.OutOrStdout())
			printDevices(cmd.OutOrStdout(), "Output devices (playback):", devices.Outputs)
			return nil
		},
	}
}

func printDevices(w io.Writer, heading string, devices []domain.DeviceDescriptor) {
	fmt.Fprintln(w, heading)
	if len(devices) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, d := range devices {
		fmt.Fprintf(w, "  - %s\n", d.Name)
	}
}

func newApplyCmd(use, short string, desired domain.DesiredState) *cobra.Command {
	var (
		micFlag         string
		playbackFlag    string
		defaultPlayback bool
		notify          bool
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewFileStore(cfgPath)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			mic := micFlag
			if mic == "" {
				mic = cfg.Microphone
			}
			if mic == "" {
				return errors.New("microphone not set; pass --microphone or run: micmon config set --microphone NAME")
			}

			// Playback precedence: --default-playback beats --playback beats
			// the config file; unset everywhere means the default device.
			playback := cfg.Playback()
			if cmd.Flags().Changed("playback") {
				playback = playbackFlag
			}
			if defaultPlayback {
				playback = ""
			}

			sys, err := newDeviceSystem()
			if err != nil {
				return err
			}
			defer sys.Close()

			uc, err := usecase.NewListenUseCase(sys)
			if err != nil {
				return err
			}
			state, err := uc.Apply(usecase.ApplyRequest{
				Microphone: mic,
				Desired:    desired,
				Playback:   playback,
			})
			if err != nil {
				return err
			}

			status := "OFF"
			if state.Enabled {
				status = "ON"
			}
			target := playback
			if target == "" {
				target = "Default playback device"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[micmon] Listen to this device: %s\n", status)
			fmt.Fprintf(cmd.OutOrStdout(), "[micmon] Playback through this device: %s\n", target)

			if notify {
				notifyApplied(state, playback)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&micFlag, "microphone", "m", "", "recording device name (defaults to the config file)")
	cmd.Flags().StringVarP(&playbackFlag, "playback", "p", "", "playback device name for this run")
	cmd.Flags().BoolVar(&defaultPlayback, "default-playback", false, "route through the default playback device, ignoring the config")
	cmd.Flags().BoolVar(&notify, "notify", false, "post a desktop notification with the final state")
	return cmd
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and update the persisted preferences",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd(), newConfigInitCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Print the current config as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewFileStore(cfgPath)
			if err != nil {
				return err
			}
			if !store.Exists() {
				return fmt.Errorf("config not found: %s (run: micmon config init)", store.Path())
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}
			out, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "config path: %s\n%s\n", store.Path(), out)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		micFlag         string
		playbackFlag    string
		defaultPlayback bool
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the config, validating device names against live endpoints",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("microphone") && !cmd.Flags().Changed("playback") && !defaultPlayback {
				return errors.New("nothing to set; pass --microphone, --playback or --default-playback")
			}
			store, err := config.NewFileStore(cfgPath)
			if err != nil {
				return err
			}
			cfg, err := store.Load()
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("microphone") || cmd.Flags().Changed("playback") {
				devices, err := listLiveDevices()
				if err != nil {
					return err
				}
				if cmd.Flags().Changed("microphone") {
					if !nameListed(devices.Inputs, micFlag) {
						return &domain.DeviceNotFoundError{Name: micFlag, Direction: domain.DirectionInput}
					}
					cfg.Microphone = micFlag
				}
				if cmd.Flags().Changed("playback") {
					if !nameListed(devices.Outputs, playbackFlag) {
						return &domain.DeviceNotFoundError{Name: playbackFlag, Direction: domain.DirectionOutput}
					}
					playback := playbackFlag
					cfg.PlaybackDevice = &playback
				}
			}
			if defaultPlayback {
				cfg.PlaybackDevice = nil
			}

			if err := store.Save(cfg); err != nil {
				return err
			}
			out, _ := json.MarshalIndent(cfg, "", "  ")
			fmt.Fprintf(cmd.OutOrStdout(), "updated config: %s\n%s\n", store.Path(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&micFlag, "microphone", "m", "", "recording device name to persist")
	cmd.Flags().StringVarP(&playbackFlag, "playback", "p", "", "playback device name to persist")
	cmd.Flags().BoolVar(&defaultPlayback, "default-playback", false, "persist null playback (default device)")
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file if none exists",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := config.NewFileStore(cfgPath)
			if err != nil {
				return err
			}
			if store.Exists() {
				fmt.Fprintf(cmd.OutOrStdout(), "config already exists: %s\n", store.Path())
				return nil
			}
			if err := store.Save(config.Template()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote config template: %s\n", store.Path())
			return nil
		},
	}
}

func listLiveDevices() (domain.DeviceList, error) {
	sys, err := newDeviceSystem()
	if err != nil {
		return domain.DeviceList{}, err
	}
	defer sys.Close()

	uc, err := usecase.NewListenUseCase(sys)
	if err != nil {
		return domain.DeviceList{}, err
	}
	return uc.ListDevices()
}

func nameListed(devices []domain.DeviceDescriptor, name string) bool {
	for _, d := range devices {
		if d.Name == name {
			return true
		}
	}
	return false
}

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell over the micmon commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "micmon> ", "shell prompt string")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "micmon-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	sessionVerbosity := verbosity
	fmt.Println("Interactive shell. Type 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch line {
		case "exit", "quit":
			fmt.Println("Bye!")
			return nil
		case "help":
			printShellHelp()
			continue
		}
		tokens, err := shlex.Split(line)
		if err != nil {
			fmt.Printf("parse error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}
		if tokens[0] == "log" {
			if err := handleShellLog(tokens[1:], &sessionVerbosity); err != nil {
				fmt.Printf("log: %v\n", err)
			}
			continue
		}
		if tokens[0] == "shell" {
			fmt.Println("already inside the shell; run another command or 'exit'.")
			continue
		}

		verbosity = sessionVerbosity
		if err := executeArgs(tokens); err != nil {
			fmt.Printf("command error: %v\n", err)
		}
		sessionVerbosity = verbosity
	}
}

func executeArgs(args []string) error {
	if len(args) == 0 {
		return nil
	}
	root := NewRootCmd()
	root.SetArgs(args)
	return root.Execute()
}

func handleShellLog(args []string, sessionVerbosity *int) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "set a level by name (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		*sessionVerbosity = count
	case vcount > 0:
		*sessionVerbosity = vcount
	default:
		fmt.Printf("log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	verbosity = *sessionVerbosity
	logging.SetVerbosity(*sessionVerbosity)
	fmt.Printf("log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp() {
	fmt.Println(`examples:
  list                                  # show active devices
  toggle -m "Microphone (USB Audio)"   # flip listening for a mic
  on -p "Speakers (Realtek)"           # listen through specific speakers
  off                                   # stop listening (config microphone)
  config get                            # show the persisted preferences
  config set --microphone "NAME"       # persist the microphone
  log -vv                               # raise log verbosity
  log --show                            # show the current log level
  exit / quit                           # leave the shell`)
}
