package usecase

import (
	"sort"
	"strings"

	"github.com/xavierca1/autoseller/internal/entity"
)

// BuildSystemInstruction preenche o template do vendedor com o estado do lead.
func BuildSystemInstruction(settings *entity.Settings, lead *entity.Lead) string {
	name := lead.Name
	if name == "" {
		name = "Cliente"
	}

	prompt := settings.SalesPrompt
	if strings.TrimSpace(prompt) == "" {
		prompt = entity.DefaultSalesPrompt
	}

	prompt = strings.Replace(prompt, "{stage}", string(lead.SalesStage), 1)
	prompt = strings.Replace(prompt, "{name}", name, 1)
	prompt = strings.Replace(prompt, "{objective}", lead.SalesStage.Objective(), 1)

	var b strings.Builder
	b.WriteString(strings.TrimSpace(prompt))

	if len(settings.ObjectionScripts) > 0 {
		keys := make([]string, 0, len(settings.ObjectionScripts))
		for k := range settings.ObjectionScripts {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n\nSCRIPTS DE OBJEÇÃO:")
		for _, k := range keys {
			b.WriteString("\n- \"" + k + "\": " + settings.ObjectionScripts[k])
		}
	}

	if settings.PaymentLink != "" {
		b.WriteString("\n\nLINK DE PAGAMENTO: " + settings.PaymentLink)
	}

	b.WriteString("\n\nResponda obrigatoriamente no formato JSON estruturado.")
	return b.String()
}

// FormatHistory gera uma linha por mensagem, em ordem.
func FormatHistory(messages []*entity.Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		who := "Vendedor"
		if m.Direction == entity.DirectionInbound {
			who = "Cliente"
		}
		lines = append(lines, who+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
