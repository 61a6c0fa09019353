// KiwiCook is a hands-free kitchen timer and recipe reader.
//
// Usage:
//
//	kiwicook [--debug] [--voice]
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/RobMcd12/kiwicook/internal/command"
	"github.com/RobMcd12/kiwicook/internal/config"
	"github.com/RobMcd12/kiwicook/internal/domain"
	"github.com/RobMcd12/kiwicook/internal/expiry"
	"github.com/RobMcd12/kiwicook/internal/kvstore"
	"github.com/RobMcd12/kiwicook/internal/logging"
	"github.com/RobMcd12/kiwicook/internal/notify"
	"github.com/RobMcd12/kiwicook/internal/recipe"
	"github.com/RobMcd12/kiwicook/internal/scheduler"
	"github.com/RobMcd12/kiwicook/internal/speech"
	"github.com/RobMcd12/kiwicook/internal/surface"
	"github.com/RobMcd12/kiwicook/internal/timerstore"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:          "kiwicook",
		Short:        "Hands-free kitchen timers and recipe reading",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("kiwicook", version)
		},
	})

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, closeLog, err := logging.New(cfg.LogFile, cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Wire dependencies.
	kv := kvstore.NewFileStore(cfg.DataDir)
	store := timerstore.New(ctx, kv, log, timerstore.WithMaxTimers(cfg.MaxTimers))
	sched := scheduler.New(store, log, scheduler.WithTickInterval(cfg.TickInterval))
	recipes := recipe.NewMemorySource(log)
	ui := surface.NewUI(store)

	term := notify.NewTerminal(log, ui.Printf)
	if chime, err := speech.NewChime(log); err != nil {
		log.Warnf("audio unavailable, notifications will be silent: %v", err)
	} else {
		term.SetChime(chime)
	}

	notifier := expiry.New(store, term, kv, log)
	announcer := expiry.NewAnnouncer(func(text string) {
		ui.PrintUrgent(text)
	}, log, expiry.WithAnnounceInterval(cfg.AnnounceInterval))
	defer announcer.Close()

	coord := speech.NewCoordinator(
		speech.NewNoOpRecognizer(log),
		speech.NewNoOpSynthesizer(log),
		log,
	)
	coord.OnListeningState(ui.SetListening)

	parser := command.NewParser(log)
	router := command.NewRouter(store, notifier, log,
		command.WithDefaultMinutes(cfg.DefaultTimerMinutes))

	// The scheduler wakes whenever the timer set changes, and every
	// tick drives expiry detection, alarm announcements, and the bar.
	store.Subscribe(sched.Reevaluate)
	sched.AddListener(func(uint64) {
		notifier.Check(ctx)
		announcer.Sync(ctx, notifier.Expired(ctx))
		ui.Refresh()
	})
	sched.Start(ctx)
	defer sched.Stop()

	app := &cliApp{
		parser:   parser,
		router:   router,
		notifier: notifier,
		coord:    coord,
		recipes:  recipes,
		voice:    cfg.Voice,
		ui:       ui,
	}

	fmt.Println(surface.RenderBanner())
	fmt.Println(surface.BannerStyle.Render("  Type 'recipes' to browse, 'help' for commands, 'quit' to exit."))
	fmt.Println()

	// Run app logic in a background goroutine.
	go func() {
		ui.WaitReady()
		app.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal. Blocks until quit.
	if err := ui.Run(); err != nil {
		log.Errorf("surface: %v", err)
		return err
	}
	return nil
}

type cliApp struct {
	parser   *command.Parser
	router   *command.Router
	notifier *expiry.Notifier
	coord    *speech.Coordinator
	recipes  *recipe.MemorySource
	voice    bool
	ui       *surface.UI
}

func (a *cliApp) run(ctx context.Context) {
	a.notifier.EnsurePermission(ctx)
	a.openDefaultRecipe(ctx)

	// Voice utterances and typed lines feed the same handler.
	a.coord.OnUtterance(func(text string) {
		a.ui.PrintVoice(text)
		a.handle(ctx, text)
	})
	if a.voice {
		if err := a.coord.StartListening(); err != nil {
			if errors.Is(err, domain.ErrUnsupported) {
				a.ui.PrintHint("Voice input isn't available here. Type your commands instead.")
			} else {
				a.ui.PrintHint("Couldn't open the microphone: " + err.Error())
			}
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-a.ui.InputChan():
			if !ok {
				return
			}
			if a.handleBuiltin(ctx, line) {
				continue
			}
			if strings.EqualFold(strings.TrimSpace(line), "quit") {
				return
			}
			a.handle(ctx, line)
		}
	}
}

// handleBuiltin covers the non-spoken commands: browsing and opening
// recipes, help. Returns true when the line was consumed.
func (a *cliApp) handleBuiltin(ctx context.Context, line string) bool {
	trimmed := strings.TrimSpace(line)
	lower := strings.ToLower(trimmed)

	switch {
	case lower == "help":
		a.ui.PrintHint("Try: \"set a timer for 10 minutes\", \"set a timer for the chicken\",")
		a.ui.PrintHint("\"how much time is left\", \"stop the pasta timer\", \"read step 3\",")
		a.ui.PrintHint("\"next step\", \"read the ingredients\".")
		a.ui.PrintHint("Also: recipes, open <name>, quit.")
		return true

	case lower == "recipes":
		for _, r := range a.recipes.List(ctx) {
			a.ui.PrintStep(r.Name)
		}
		a.ui.PrintHint("Open one with: open <name>")
		return true

	case strings.HasPrefix(lower, "open "):
		query := strings.TrimSpace(trimmed[len("open "):])
		r, err := a.recipes.Find(ctx, query)
		if err != nil {
			a.ui.PrintHint(fmt.Sprintf("No recipe matching %q.", query))
			return true
		}
		a.router.SetRecipe(r)
		a.ui.PrintReply(fmt.Sprintf("Opened %s.", r.Name))
		return true
	}
	return false
}

func (a *cliApp) handle(ctx context.Context, utterance string) {
	cmd := a.parser.Parse(utterance)

	reply, handled := a.router.Route(ctx, cmd)
	if !handled {
		// No assistant is wired in this build, so unrecognized input
		// gets a gentle pointer instead of silence.
		a.ui.PrintHint("I only know timers and recipes. Type 'help' for examples.")
		return
	}

	a.say(ctx, reply)
	a.ui.Refresh()
}

// say prints a reply and speaks it when a synthesizer is available.
func (a *cliApp) say(ctx context.Context, text string) {
	a.ui.PrintReply(text)
	if err := a.coord.Say(ctx, text); err != nil {
		a.ui.PrintHint("(voice unavailable)")
	}
}

func (a *cliApp) openDefaultRecipe(ctx context.Context) {
	all := a.recipes.List(ctx)
	if len(all) == 0 {
		return
	}
	first := all[0]
	a.router.SetRecipe(&first)
	a.ui.PrintHint(fmt.Sprintf("Cooking %s. Say \"read the recipe\" to hear it.", first.Name))
}
