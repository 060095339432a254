package gemini

// GenerateInput é o que o motor de vendas entrega ao modelo.
type GenerateInput struct {
	SystemInstruction string
	History           string
	Message           string
}

// GenerateOutput espelha o JSON estruturado pedido no responseSchema.
type GenerateOutput struct {
	Reply        string `json:"reply"`
	Reasoning    string `json:"reasoning"`
	NextStage    string `json:"next_stage"`
	CustomerName string `json:"customer_name"`
}
