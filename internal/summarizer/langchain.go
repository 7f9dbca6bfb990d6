package summarizer

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/nguyentantai21042004/speech-notes/internal/logger"
)

// chatGenerator drives any langchaingo chat model with a system and a
// user message.
type chatGenerator struct {
	name         string
	model        string
	systemPrompt string
	llm          llms.Model
	// buildErr is returned from Generate when the client could not be built.
	buildErr error
	logger   logger.Logger
}

func (g *chatGenerator) Name() string {
	return g.name
}

func (g *chatGenerator) Generate(ctx context.Context, prompt, sourceText string) (string, error) {
	if g.buildErr != nil {
		return "", classify(g.name, g.buildErr)
	}

	content := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, g.systemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage(prompt, sourceText)),
	}

	g.logger.Info(ctx, "Generating notes with %s (%s), %d chars of input", g.name, g.model, len(sourceText))
	resp, err := g.llm.GenerateContent(ctx, content)
	if err != nil {
		return "", classify(g.name, fmt.Errorf("generate content: %w", err))
	}
	if resp == nil || len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return "", classify(g.name, ErrNoChoices)
	}

	return resp.Choices[0].Content, nil
}
