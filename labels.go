package main

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/finwatch/recurring-detector/prom"
	"github.com/finwatch/recurring-detector/recurring"
	"github.com/forPelevin/gomoji"
	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// ApplyDisplayLabels post-processes the display names of detected payments.
// Config overrides win outright; the remaining names are optionally tidied
// by OpenAI, turning cryptic bank descriptors ("NETFLX*8822 LON") into human
// merchant names. Labels are presentation only and never feed back into
// classification or grouping.
func (a *App) ApplyDisplayLabels(payments []recurring.Payment) []recurring.Payment {
	var needsCleanup []recurring.Payment
	for i := range payments {
		if label, ok := a.config.LabelOverrides[payments[i].PatternKey]; ok {
			payments[i].DisplayName = label
			continue
		}
		needsCleanup = append(needsCleanup, payments[i])
	}

	// If no OpenAI client is configured, raw feed names stand as-is
	if a.oai == nil || len(needsCleanup) == 0 {
		return payments
	}

	labels := a.cleanLabels(needsCleanup)
	if len(labels) == 0 {
		return payments
	}
	for i := range payments {
		if label, ok := labels[payments[i].PatternKey]; ok && label != "" {
			payments[i].DisplayName = label
		}
	}
	return payments
}

// cleanLabels asks OpenAI for a tidy merchant name per pattern key. Any
// failure degrades to the raw feed names rather than blocking the snapshot.
func (a *App) cleanLabels(payments []recurring.Payment) map[string]string {
	var prompt strings.Builder
	prompt.WriteString("I want to show my bank's recurring payment descriptors as readable merchant names. Given the following descriptors, one \"key: descriptor\" pair per line:\n")
	for _, p := range payments {
		prompt.WriteString(p.PatternKey)
		prompt.WriteString(": ")
		prompt.WriteString(p.DisplayName)
		prompt.WriteString("\n")
	}
	prompt.WriteString("\nRespond with JSON of the form {\"Labels\": {\"key\": \"Merchant Name\"}} using the same keys. When a payment was made via a payment service like PayPal only show the merchant name, not the payment service used. Please respond only in JSON, do not respond in anything other than JSON, No English unless in JSON format.")

	var modifiedResp string
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prom.OpenAICalls++

	// GPT3Dot5TurboInstruct
	if cli.OpenAIModel == openai.GPT3Dot5TurboInstruct {
		req := openai.CompletionRequest{
			Model:     cli.OpenAIModel,
			Prompt:    prompt.String(),
			MaxTokens: 512,
		}
		resp, err := a.oai.CreateCompletion(ctx, req)
		if err != nil {
			log.Error().Err(err).Msgf("Error with ChatGPT/OpenAI : %v", err)
			return nil
		}

		modifiedResp = resp.Choices[0].Text
	} else {
		resp, err := a.oai.CreateChatCompletion(
			ctx,
			openai.ChatCompletionRequest{
				Model: cli.OpenAIModel,
				Messages: []openai.ChatCompletionMessage{
					{
						Role:    openai.ChatMessageRoleAssistant,
						Content: prompt.String(),
					},
				},
			},
		)

		if err != nil {
			log.Error().Err(err).Msgf("Error with ChatGPT/OpenAI chat request")
			return nil
		}

		if len(resp.Choices) != 1 {
			log.Error().Msgf("Unexpected number of choices %v", resp.Choices)
			return nil
		}

		modifiedResp = resp.Choices[0].Message.Content
	}

	// Some ChatGPT models send us ```JSON {}``` instead of just JSON, so we have to parse it.
	if strings.Contains(modifiedResp, "```") {
		modifiedResp = strings.TrimPrefix(modifiedResp, "```json")
		modifiedResp = strings.TrimPrefix(modifiedResp, "```")
		modifiedResp = strings.TrimSuffix(modifiedResp, "```")
		modifiedResp = strings.TrimSpace(modifiedResp)
	}

	var rsp OpenAILabelResponse
	err := json.Unmarshal([]byte(modifiedResp), &rsp)
	if err != nil {
		log.Warn().Err(err).Msgf("ChatGPT responded with invalid JSON response.")
		return nil
	}

	// Unmarshal was successful, ChatGPT returned a valid response
	labels := make(map[string]string, len(rsp.Labels))
	for key, label := range rsp.Labels {
		labels[key] = strings.TrimLeft(gomoji.RemoveEmojis(label), " ")
	}
	log.Info().Msgf("🤖 [ChatGPT] Successfully cleaned %d display labels.", len(labels))
	return labels
}
