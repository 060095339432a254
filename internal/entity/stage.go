package entity

import "strings"

type SalesStage string

const (
	StageInicio       SalesStage = "inicio"
	StageQualificacao SalesStage = "qualificacao"
	StageDiagnostico  SalesStage = "diagnostico"
	StageApresentacao SalesStage = "apresentacao"
	StageObjecao      SalesStage = "objecao"
	StageOferta       SalesStage = "oferta"
	StageFechamento   SalesStage = "fechamento"
	StagePosVenda     SalesStage = "pos_venda"
)

// SalesStages na ordem do funil (usada no dashboard)
var SalesStages = []SalesStage{
	StageInicio,
	StageQualificacao,
	StageDiagnostico,
	StageApresentacao,
	StageObjecao,
	StageOferta,
	StageFechamento,
	StagePosVenda,
}

var stageObjectives = map[SalesStage]string{
	StageInicio:       "Cumprimentar, descobrir o nome e entender o negócio do cliente.",
	StageQualificacao: "Identificar a dor principal, o orçamento e a urgência.",
	StageDiagnostico:  "Aprofundar no problema e mostrar que você entende o cenário dele.",
	StageApresentacao: "Apresentar a solução focada nos benefícios específicos para a dor dele.",
	StageObjecao:      "Quebrar resistências sobre preço, tempo ou confiança.",
	StageOferta:       "Apresentar a oferta irresistível com bônus e escassez.",
	StageFechamento:   "Finalizar os detalhes e enviar o link de pagamento.",
	StagePosVenda:     "Confirmar recebimento e iniciar o onboarding.",
}

// ParseSalesStage normaliza o valor vindo do gerador ou da API.
func ParseSalesStage(s string) (SalesStage, bool) {
	stage := SalesStage(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := stageObjectives[stage]; !ok {
		return "", false
	}
	return stage, true
}

func (s SalesStage) Valid() bool {
	_, ok := stageObjectives[s]
	return ok
}

func (s SalesStage) Objective() string {
	return stageObjectives[s]
}

// IsClosing indica os estágios em que o lead vira "quente".
func (s SalesStage) IsClosing() bool {
	return s == StageOferta || s == StageFechamento
}
