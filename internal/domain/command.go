package domain

// CommandType classifies what the user asked for.
type CommandType int

const (
	CommandNone CommandType = iota
	CommandStartTimer
	CommandStopTimer
	CommandCheckTimer
	CommandReadRecipe
)

// String returns a human-readable command type.
func (c CommandType) String() string {
	switch c {
	case CommandStartTimer:
		return "start_timer"
	case CommandStopTimer:
		return "stop_timer"
	case CommandCheckTimer:
		return "check_timer"
	case CommandReadRecipe:
		return "read_recipe"
	default:
		return "none"
	}
}

// ReadMode selects what part of the recipe a read command targets.
type ReadMode int

const (
	ReadFull ReadMode = iota
	ReadIngredients
	ReadStep
	ReadNext
	ReadPrevious
)

// String returns a human-readable read mode.
func (m ReadMode) String() string {
	switch m {
	case ReadFull:
		return "full"
	case ReadIngredients:
		return "ingredients"
	case ReadStep:
		return "step"
	case ReadNext:
		return "next"
	case ReadPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// ParsedCommand is the result of classifying a single utterance. It is
// produced fresh per utterance and never persisted. Fields beyond Type
// are populated only where the variant uses them.
type ParsedCommand struct {
	Type CommandType

	// Start: at most one of Minutes / StepNumber / ItemName is the
	// duration source; Name labels the timer when stated.
	// Stop/Check: Name identifies the target timer, empty means "any".
	Name       string
	Minutes    int // explicit duration, 0 = unstated
	StepNumber int // 1-based step reference, 0 = unstated
	ItemName   string

	// Read only.
	Mode ReadMode

	// Raw is the original utterance, carried for CommandNone so it can
	// be handed to the conversational assistant.
	Raw string
}
