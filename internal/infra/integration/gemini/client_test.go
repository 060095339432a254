package gemini

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutput(t *testing.T) {
	out, err := ParseOutput(`{"reply":" Oi, Ana! Qual o seu negócio? ","reasoning":"saudação","next_stage":"qualificacao","customer_name":"Ana"}`)
	require.NoError(t, err)

	assert.Equal(t, "Oi, Ana! Qual o seu negócio?", out.Reply)
	assert.Equal(t, "qualificacao", out.NextStage)
	assert.Equal(t, "Ana", out.CustomerName)
}

func TestParseOutputWithSurroundingText(t *testing.T) {
	out, err := ParseOutput("```json\n{\"reply\":\"ok\",\"next_stage\":\"oferta\",\"customer_name\":null}\n```")
	require.NoError(t, err)

	assert.Equal(t, "ok", out.Reply)
	assert.Equal(t, "oferta", out.NextStage)
	assert.Empty(t, out.CustomerName)
}

func TestParseOutputInvalid(t *testing.T) {
	_, err := ParseOutput("sem json aqui")
	assert.Error(t, err)

	_, err = ParseOutput("{quebrado")
	assert.Error(t, err)

	_, err = ParseOutput(`{"reply": 1}`)
	assert.Error(t, err)
}

func TestBuildContents(t *testing.T) {
	got := BuildContents("Cliente: oi\nVendedor: olá", "quanto custa?")

	assert.Equal(t, "HISTÓRICO DA CONVERSA:\nCliente: oi\nVendedor: olá\n\nNOVA MENSAGEM DO CLIENTE:\nquanto custa?", got)
}

func TestResponseSchemaRequiresReplyAndStage(t *testing.T) {
	assert.ElementsMatch(t, []string{"reply", "next_stage"}, responseSchema.Required)
	assert.Contains(t, responseSchema.Properties, "customer_name")
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	text := strings.Repeat("ção", 40)

	got := truncate(text, 80)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 83, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, "olá", truncate("olá", 80))
}
