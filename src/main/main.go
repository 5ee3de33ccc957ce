package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"

	"screen-annotate/src/annotate"
	"screen-annotate/src/clipboard"
	"screen-annotate/src/config"
	"screen-annotate/src/eventloop"
	"screen-annotate/src/gui"
	"screen-annotate/src/logutil"
	"screen-annotate/src/notification"
	"screen-annotate/src/runtimeinit"
	"screen-annotate/src/schedule"
	"screen-annotate/src/screenshot"
	"screen-annotate/src/session"
	"screen-annotate/src/singleinstance"
	"screen-annotate/src/storage"
	"screen-annotate/src/tray"
)

const appID = "com.screenannotate.app"

type mainOptions struct {
	capture  string
	show     bool
	saveDir  string
	drawMode string
	envFile  string
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return runWithArgs(normalizeLegacyArgs(os.Args))
}

func runWithArgs(args []string) error {
	if len(args) == 0 {
		args = []string{"screen-annotate"}
	}

	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "screen-annotate",
		Short:         "Tray screenshot tool with line and arrow annotation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts)
		},
	}

	cmd.Flags().StringVar(&opts.capture, "capture", "", "Capture right away: full or region")
	cmd.Flags().BoolVar(&opts.show, "show", false, "Show the launcher on start")
	cmd.Flags().StringVar(&opts.saveDir, "save-dir", "", "Folder for saved screenshots (overrides SAVE_DIR)")
	cmd.Flags().StringVar(&opts.drawMode, "draw-mode", "", "Initial drawing tool: line or arrow")
	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Read settings from this .env file")

	return cmd
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		for _, name := range []string{"capture", "show", "save-dir", "draw-mode", "env-file"} {
			arg := normalized[i]
			switch {
			case arg == "-"+name:
				normalized[i] = "--" + name
			case strings.HasPrefix(arg, "-"+name+"="):
				normalized[i] = "-" + arg
			}
		}
	}

	return normalized
}

// startupCommand maps the flags to the command a running resident should
// execute. explicit is false when no flag asked for anything, in which case
// a second launch just brings the launcher up.
func startupCommand(opts mainOptions) (cmd singleinstance.Command, explicit bool, err error) {
	switch strings.ToLower(strings.TrimSpace(opts.capture)) {
	case "full", "fullscreen":
		return singleinstance.CommandFull, true, nil
	case "region":
		return singleinstance.CommandRegion, true, nil
	case "":
		return singleinstance.CommandShow, opts.show, nil
	default:
		return "", false, fmt.Errorf("invalid --capture %q, want full or region", opts.capture)
	}
}

// delegationClient is the part of singleinstance.Client used before
// deciding to become the resident.
type delegationClient interface {
	Send(ctx context.Context, cmd singleinstance.Command) (bool, error)
}

// handleDelegation forwards cmd to a running resident. When there is none,
// or it cannot be reached, startResident runs instead.
func handleDelegation(ctx context.Context, client delegationClient, cmd singleinstance.Command, startResident func() error) error {
	delegated, err := client.Send(ctx, cmd)
	switch {
	case delegated && err != nil:
		log.Printf("Resident refused %s: %v", cmd, err)
		return fmt.Errorf("running instance refused %s: %w", strings.ToLower(string(cmd)), err)
	case delegated:
		log.Printf("Delegated %s to resident", cmd)
		return nil
	case err != nil:
		log.Printf("Delegation error: %v; starting resident", err)
	default:
		log.Printf("No resident detected, starting resident")
	}
	return startResident()
}

func runWithOptions(opts mainOptions) error {
	cmd, explicit, err := startupCommand(opts)
	if err != nil {
		return err
	}

	cfg, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions: config.LoadOptions{
			SaveDirOverride:  opts.saveDir,
			DrawModeOverride: opts.drawMode,
			EnvFile:          opts.envFile,
		},
		SetupLogging:       setupLogging,
		RequireDisplay:     true,
		ShowBlockingErrors: true,
	})
	if err != nil {
		return err
	}

	ports := singleinstance.PortRange{Start: cfg.PortStart, End: cfg.PortEnd}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return handleDelegation(ctx, singleinstance.NewClient(ports), cmd, func() error {
		if !explicit {
			cmd = ""
		}
		return runResident(cfg, ports, cmd)
	})
}

func runResident(cfg *config.Config, ports singleinstance.PortRange, initial singleinstance.Command) error {
	enableDPIAwareness()
	logMonitorConfiguration()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv := singleinstance.NewServer(ports)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to claim port %d, is another instance starting? %w", ports.Start, err)
	}
	defer srv.Close()
	log.Printf("Resident listening on port %d", srv.Port())

	a := app.NewWithID(appID)
	sched := schedule.New(fyne.Do)
	notifier := notification.New(a)
	mode, err := annotate.ParseMode(cfg.DrawMode)
	if err != nil {
		log.Printf("%v, using %s", err, mode)
	}
	views := gui.New(a, sched, gui.Options{
		Pen:      annotate.Pen{Color: cfg.PenColor, Width: cfg.PenWidth},
		Mode:     mode,
		Notifier: notifier,
	})

	var copyToClipboard func([]byte) error
	if cfg.CopyToClipboard {
		copyToClipboard = clipboard.WriteImage
	}

	var trayCtl *tray.Controller
	sess := session.New(
		views,
		screenshot.NewDisplayGrabber(screenshot.ParseScope(cfg.CaptureScope)),
		sched,
		storage.New(cfg.SaveDir),
		session.Options{
			CaptureDelay:    cfg.CaptureDelay,
			ToastDuration:   cfg.ToastDuration,
			CopyToClipboard: copyToClipboard,
			OnPhase: func(p session.Phase) {
				if trayCtl != nil {
					trayCtl.SetTooltip(tooltipFor(p, cfg))
				}
			},
			OnQuit: func() {
				cancel()
				views.Close()
				a.Quit()
			},
		},
	)
	views.Bind(gui.LauncherActions{
		CaptureFull:   sess.CaptureFull,
		CaptureRegion: sess.CaptureRegion,
		Hide:          sess.HideLauncher,
	})

	trayCtl = tray.New(tray.NewBackend(a), fyne.Do, tray.Options{
		Tooltip: tooltipFor(session.PhaseTray, cfg),
		OnShow: func() {
			if err := sess.ShowLauncher(); err != nil {
				log.Printf("Show launcher: %v", err)
			}
		},
		OnQuit: sess.Quit,
	})
	if err := trayCtl.Start(); err != nil {
		log.Printf("Tray unavailable: %v", err)
	}

	loop := eventloop.New(sess, fyne.Do)
	stopHotkeys, err := loop.StartHotkeys(cfg.HotkeyFull, cfg.HotkeyRegion)
	if err != nil {
		log.Printf("Global hotkeys unavailable: %v", err)
		stopHotkeys = func() {}
	}
	defer stopHotkeys()

	go func() {
		if err := loop.Run(ctx, srv); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Event loop stopped: %v", err)
		}
	}()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case sig := <-ch:
			log.Printf("Received %s, quitting", sig)
			fyne.Do(trayCtl.Quit)
		case <-ctx.Done():
		}
	}()

	a.Lifecycle().SetOnStarted(func() {
		notifier.Startup()
		if initial != "" {
			loop.Trigger(initial)
		}
	})

	log.Printf("Screen Annotate running; full=%s region=%s", cfg.HotkeyFull, cfg.HotkeyRegion)
	a.Run()
	log.Printf("Screen Annotate exited")
	return nil
}

func tooltipFor(p session.Phase, cfg *config.Config) string {
	switch p {
	case session.PhaseCapturing, session.PhaseSelecting, session.PhaseEditing:
		return fmt.Sprintf("%s - %s", notification.AppTitle, p)
	}
	var keys []string
	if config.HotkeyEnabled(cfg.HotkeyFull) {
		keys = append(keys, cfg.HotkeyFull+" full screen")
	}
	if config.HotkeyEnabled(cfg.HotkeyRegion) {
		keys = append(keys, cfg.HotkeyRegion+" region")
	}
	if len(keys) == 0 {
		return notification.AppTitle
	}
	return fmt.Sprintf("%s - %s", notification.AppTitle, strings.Join(keys, ", "))
}

func setupLogging(cfg *config.Config) {
	logutil.Setup(logutil.Options{Enabled: cfg.EnableFileLogging, Dir: cfg.LogDir})
}
