package llm

import (
	"context"
	"fmt"

	"github.com/2beens/fitlog/internal/fitlog/entry"
)

const extractPrompt = `Eres un asistente que convierte registros de salud en JSON.
You turn one free-text health log (spanish or english) into strict JSON.

Return ONLY one JSON object with these optional keys:
  weight (kg), waist (cm), body_fat (%),
  calories, protein, carbs, fat (grams), nutrition_mode,
  steps, steps_mode,
  burned_calories (kcal burned exercising), training_mode,
  sleep (hours), training (short label), notes (text).

Rules:
- Omit every key the text does not mention. Never write 0 for something not said.
- *_mode is "set" only when the user corrects or states a total for the day
  ("en total", "corrige", "actually it was"); otherwise "add".
- Numbers are plain JSON numbers, no units.`

type completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type Extractor struct {
	llm completer
}

func NewExtractor(llm completer) *Extractor {
	return &Extractor{
		llm: llm,
	}
}

func (e *Extractor) Extract(ctx context.Context, text string) (entry.Guess, error) {
	raw, err := e.llm.Complete(ctx, extractPrompt, text)
	if err != nil {
		return entry.Guess{}, err
	}
	guess, err := ParseGuess(raw)
	if err != nil {
		return entry.Guess{}, fmt.Errorf("parse extraction: %w", err)
	}
	return guess, nil
}
