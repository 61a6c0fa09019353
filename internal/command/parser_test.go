package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/RobMcd12/kiwicook/internal/domain"
)

func TestParserClassification(t *testing.T) {
	p := NewParser(zap.NewNop().Sugar())

	tests := []struct {
		input string
		want  domain.ParsedCommand
	}{
		// Start: explicit minutes beats everything else.
		{"set a timer for 10 minutes", domain.ParsedCommand{Type: domain.CommandStartTimer, Minutes: 10}},
		{"set a 5 minute timer", domain.ParsedCommand{Type: domain.CommandStartTimer, Minutes: 5}},
		{"start a timer for 1 hour", domain.ParsedCommand{Type: domain.CommandStartTimer, Minutes: 60}},
		{"set a timer for the chicken for 12 minutes", domain.ParsedCommand{Type: domain.CommandStartTimer, Minutes: 12, Name: "chicken"}},

		// Start: step reference.
		{"set a timer for step 3", domain.ParsedCommand{Type: domain.CommandStartTimer, StepNumber: 3}},

		// Start: named item, duration to be inferred from the recipe.
		{"set a timer for the chicken", domain.ParsedCommand{Type: domain.CommandStartTimer, ItemName: "chicken", Name: "chicken"}},
		{"start the pasta timer", domain.ParsedCommand{Type: domain.CommandStartTimer, ItemName: "pasta", Name: "pasta"}},

		// Start: bare, router fills in the default duration.
		{"start a timer", domain.ParsedCommand{Type: domain.CommandStartTimer}},

		// Stop.
		{"stop the pasta timer", domain.ParsedCommand{Type: domain.CommandStopTimer, Name: "pasta"}},
		{"cancel the rice timer", domain.ParsedCommand{Type: domain.CommandStopTimer, Name: "rice"}},
		{"stop", domain.ParsedCommand{Type: domain.CommandStopTimer}},
		{"stop the timer", domain.ParsedCommand{Type: domain.CommandStopTimer}},

		// Check.
		{"how much time is left", domain.ParsedCommand{Type: domain.CommandCheckTimer}},
		{"how much time is left on the chicken timer", domain.ParsedCommand{Type: domain.CommandCheckTimer, Name: "chicken"}},
		{"how much time is left on step 3", domain.ParsedCommand{Type: domain.CommandCheckTimer, Name: "step 3"}},
		{"check the pasta timer", domain.ParsedCommand{Type: domain.CommandCheckTimer, Name: "pasta"}},

		// Read.
		{"read the recipe", domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadFull}},
		{"what are the ingredients", domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadIngredients}},
		{"read step 3", domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadStep, StepNumber: 3}},
		{"next step", domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadNext}},
		{"previous step", domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadPrevious}},
		{"go back", domain.ParsedCommand{Type: domain.CommandReadRecipe, Mode: domain.ReadPrevious}},

		// Unrecognized input is handed to the assistant.
		{"what wine goes with this", domain.ParsedCommand{Type: domain.CommandNone, Raw: "what wine goes with this"}},
		{"", domain.ParsedCommand{Type: domain.CommandNone}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Parse(tt.input))
		})
	}
}

func TestParserTimerBeatsRead(t *testing.T) {
	p := NewParser(zap.NewNop().Sugar())

	// An alarm still sounding matters more than narration: when timer
	// and read keywords collide, the timer command wins.
	got := p.Parse("read the recipe and set a timer for 2 minutes")
	assert.Equal(t, domain.CommandStartTimer, got.Type)
	assert.Equal(t, 2, got.Minutes)

	got = p.Parse("stop the step 3 timer")
	assert.Equal(t, domain.CommandStopTimer, got.Type)
	assert.Equal(t, "step 3", got.Name)
}

func TestParserStartPrecedenceWithinVariant(t *testing.T) {
	p := NewParser(zap.NewNop().Sugar())

	// Explicit minutes outrank a step reference in the same utterance.
	got := p.Parse("set a timer for step 2 for 7 minutes")
	assert.Equal(t, domain.CommandStartTimer, got.Type)
	assert.Equal(t, 7, got.Minutes)
	assert.Zero(t, got.StepNumber)
}
