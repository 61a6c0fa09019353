package command

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
	"github.com/RobMcd12/kiwicook/internal/expiry"
	"github.com/RobMcd12/kiwicook/internal/recipetext"
	"github.com/RobMcd12/kiwicook/internal/timemath"
	"github.com/RobMcd12/kiwicook/internal/timerstore"
)

// DefaultTimerMinutes is used for a bare "start a timer" with no stated
// duration, step, or item.
const DefaultTimerMinutes = 10

// defaultTimerName labels timers the user didn't name.
const defaultTimerName = "Cooking timer"

// RouterOption configures the router.
type RouterOption func(*Router)

// WithDefaultMinutes sets the duration for bare start commands.
func WithDefaultMinutes(m int) RouterOption {
	return func(r *Router) {
		r.defaultMinutes = m
	}
}

// WithRouterClock sets the time source used for derived replies.
func WithRouterClock(clock func() time.Time) RouterOption {
	return func(r *Router) {
		r.clock = clock
	}
}

// Router executes parsed commands against the live cooking context: the
// active recipe, the current step index, and the timer set. Every
// routing outcome is a reply string — failures included — so the user is
// never left without a response.
type Router struct {
	store          *timerstore.Store
	expiry         *expiry.Notifier
	log            *zap.SugaredLogger
	clock          func() time.Time
	defaultMinutes int

	mu        sync.Mutex
	recipe    *domain.Recipe
	steps     []string
	stepIndex int
}

// NewRouter creates a command router.
func NewRouter(store *timerstore.Store, notifier *expiry.Notifier, log *zap.SugaredLogger, opts ...RouterOption) *Router {
	r := &Router{
		store:          store,
		expiry:         notifier,
		log:            log,
		clock:          time.Now,
		defaultMinutes: DefaultTimerMinutes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// SetRecipe switches the active recipe and resets the step position.
// Pass nil to close the recipe.
func (r *Router) SetRecipe(recipe *domain.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recipe = recipe
	r.stepIndex = 0
	if recipe == nil {
		r.steps = nil
		return
	}
	r.steps = recipetext.SplitSteps(recipe.Instructions)
}

// StepIndex returns the current zero-based step position.
func (r *Router) StepIndex() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stepIndex
}

// Route executes a command. handled is false only for CommandNone, whose
// raw utterance should go to the conversational assistant instead.
func (r *Router) Route(ctx context.Context, cmd domain.ParsedCommand) (reply string, handled bool) {
	switch cmd.Type {
	case domain.CommandStartTimer:
		return r.routeStart(ctx, cmd), true
	case domain.CommandStopTimer:
		return r.routeStop(ctx, cmd), true
	case domain.CommandCheckTimer:
		return r.routeCheck(ctx, cmd), true
	case domain.CommandReadRecipe:
		return r.routeRead(cmd), true
	default:
		return "", false
	}
}

// ── Start ────────────────────────────────────────────────────────

func (r *Router) routeStart(ctx context.Context, cmd domain.ParsedCommand) string {
	minutes := 0
	name := ""

	switch {
	case cmd.Minutes > 0:
		minutes = cmd.Minutes
		name = capitalize(cmd.Name)
		if name == "" {
			name = defaultTimerName
		}

	case cmd.StepNumber > 0:
		recipe, steps := r.activeRecipe()
		if recipe == nil {
			return "There's no recipe open, so I can't look up that step. Tell me a duration instead."
		}
		if cmd.StepNumber > len(steps) {
			return fmt.Sprintf("This recipe only has %d steps.", len(steps))
		}
		m, ok := recipetext.ExtractDuration(steps[cmd.StepNumber-1])
		if !ok {
			return fmt.Sprintf("Step %d doesn't mention a time. How many minutes should I set?", cmd.StepNumber)
		}
		minutes = m
		name = fmt.Sprintf("Step %d", cmd.StepNumber)

	case cmd.ItemName != "":
		recipe, _ := r.activeRecipe()
		if recipe == nil {
			return fmt.Sprintf("I don't have a recipe open to look up the %s. How many minutes should I set?", cmd.ItemName)
		}
		m, ok := recipetext.FindItemDuration(*recipe, cmd.ItemName)
		if !ok {
			return fmt.Sprintf("I couldn't find a cook time for the %s in this recipe. How many minutes should I set?", cmd.ItemName)
		}
		minutes = m
		name = capitalize(cmd.ItemName)

	default:
		minutes = r.defaultMinutes
		name = defaultTimerName
	}

	recipeID, recipeName := r.recipeRef()
	timer, err := r.store.Create(ctx, name, minutes*60, recipeID, recipeName)
	if err != nil {
		if errors.Is(err, domain.ErrTimerCapReached) {
			return "You've hit the timer limit. Dismiss or stop one before adding another."
		}
		r.log.Errorf("router: creating timer: %v", err)
		return "Sorry, I couldn't set that timer."
	}

	return fmt.Sprintf("%s timer started: %s.", timer.Name, speakDuration(minutes*60))
}

// ── Stop ─────────────────────────────────────────────────────────

func (r *Router) routeStop(ctx context.Context, cmd domain.ParsedCommand) string {
	// An alarm still sounding is more urgent than a running countdown:
	// any expired-undismissed timers are dismissed first, regardless of
	// the name asked for.
	if n := r.expiry.DismissAll(ctx); n > 0 {
		if n == 1 {
			return "Timer dismissed."
		}
		return fmt.Sprintf("Dismissed %d finished timers.", n)
	}

	timers := r.store.List(ctx)
	if len(timers) == 0 {
		return "You don't have any active timers."
	}

	if cmd.Name != "" {
		timer, ok := r.store.FindByName(ctx, cmd.Name)
		if !ok {
			return fmt.Sprintf("I couldn't find a %s timer. You have: %s.", cmd.Name, joinNames(timerNames(timers)))
		}
		if err := r.store.Remove(ctx, timer.ID); err != nil {
			r.log.Errorf("router: removing timer %s: %v", timer.ID, err)
		}
		return fmt.Sprintf("Stopped the %s timer.", timer.Name)
	}

	// No name given: stop the first running timer.
	for _, t := range timers {
		if t.IsRunning {
			if err := r.store.Remove(ctx, t.ID); err != nil {
				r.log.Errorf("router: removing timer %s: %v", t.ID, err)
			}
			return fmt.Sprintf("Stopped the %s timer.", t.Name)
		}
	}
	return "No timer is running right now."
}

// ── Check ────────────────────────────────────────────────────────

func (r *Router) routeCheck(ctx context.Context, cmd domain.ParsedCommand) string {
	derived := r.store.Derived(ctx, r.clock())
	if len(derived) == 0 {
		return "You don't have any timers running."
	}

	if cmd.Name != "" {
		timer, ok := r.store.FindByName(ctx, cmd.Name)
		if !ok {
			return fmt.Sprintf("I couldn't find a %s timer. You have: %s.", cmd.Name, joinNames(timerNames(r.store.List(ctx))))
		}
		return timerStatusLine(timemath.Derive(timer, r.clock())) + "."
	}

	lines := make([]string, 0, len(derived))
	for _, t := range derived {
		lines = append(lines, timerStatusLine(t))
	}
	return strings.Join(lines, ". ") + "."
}

// ── Read ─────────────────────────────────────────────────────────

func (r *Router) routeRead(cmd domain.ParsedCommand) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.recipe == nil {
		return "There's no recipe open right now."
	}

	switch cmd.Mode {
	case domain.ReadFull:
		return fmt.Sprintf("%s. %s", r.recipe.Name, r.recipe.Instructions)

	case domain.ReadIngredients:
		if len(r.recipe.Ingredients) == 0 {
			return "This recipe doesn't list any ingredients."
		}
		return "You'll need: " + joinNames(r.recipe.Ingredients) + "."

	case domain.ReadStep:
		if cmd.StepNumber < 1 || cmd.StepNumber > len(r.steps) {
			return fmt.Sprintf("This recipe has %d steps.", len(r.steps))
		}
		r.stepIndex = cmd.StepNumber - 1
		return r.currentStepLocked()

	case domain.ReadNext:
		if r.stepIndex >= len(r.steps)-1 {
			return "You're on the last step."
		}
		r.stepIndex++
		return r.currentStepLocked()

	case domain.ReadPrevious:
		if r.stepIndex <= 0 {
			return "You're already on the first step."
		}
		r.stepIndex--
		return r.currentStepLocked()
	}

	return "I didn't catch which part to read."
}

// currentStepLocked renders the current step. Must be called with r.mu held.
func (r *Router) currentStepLocked() string {
	if len(r.steps) == 0 {
		return "This recipe has no steps."
	}
	return fmt.Sprintf("Step %d: %s", r.stepIndex+1, r.steps[r.stepIndex])
}

func (r *Router) activeRecipe() (*domain.Recipe, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recipe, r.steps
}

func (r *Router) recipeRef() (id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recipe == nil {
		return "", ""
	}
	return r.recipe.ID, r.recipe.Name
}
