package services

// User-facing copy, in Portuguese as shown by the form.
const (
	HeadlineHighRisk = "ALTO RISCO DE DEFASAGEM IDENTIFICADO"
	HeadlineLowRisk  = "ALUNO NO CAMINHO CERTO (BAIXO RISCO)"

	RecommendationHighRisk = "Necessário acompanhamento pedagógico e psicossocial intensificado."
	RecommendationLowRisk  = "Manter acompanhamento padrão para garantir o engajamento."

	MessageModelUnavailable = "O modelo não foi carregado corretamente."
	MessageTechnicalError   = "Ocorreu um erro técnico ao realizar a predição"
	MessageExplanationError = "Erro ao gerar explicabilidade SHAP."

	NoticeLinearModel = "O gráfico detalhado de explicabilidade (SHAP) é exclusivo para modelos baseados em " +
		"Árvores de Decisão. O modelo atual em uso é uma Regressão Logística."
)
