package gemini

import "github.com/google/generative-ai-go/genai"

var responseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"reply": {
			Type:        genai.TypeString,
			Description: "Sua resposta curta e persuasiva para o WhatsApp",
		},
		"reasoning": {
			Type:        genai.TypeString,
			Description: "Breve explicação do porquê desta resposta",
		},
		"next_stage": {
			Type:        genai.TypeString,
			Description: "O próximo estágio do funil sugerido (inicio, qualificacao, diagnostico, apresentacao, objecao, oferta, fechamento, pos_venda)",
		},
		"customer_name": {
			Type:        genai.TypeString,
			Description: "Nome do cliente se descoberto agora, senão mantenha nulo",
			Nullable:    true,
		},
	},
	Required: []string{"reply", "next_stage"},
}
