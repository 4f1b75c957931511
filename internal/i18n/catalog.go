package i18n

// Key identifies a localized string.
type Key string

// Catalog keys. Achievement and module labels are keyed by their
// identifiers (see LabelKey) so callers never build keys by hand.
const (
	AppTitle Key = "app_title"
	Level    Key = "level"
	XP       Key = "xp"

	ErrAPINotConfigured Key = "err_api_not_configured"
	ErrResponseFailed   Key = "err_response_failed"
	ErrConnection       Key = "err_connection"
	ErrNoResponse       Key = "err_no_response"

	TutorTitle       Key = "tutor_title"
	ChatPlaceholder  Key = "chat_placeholder"
	ClearChat        Key = "clear_chat"
	Thinking         Key = "thinking"
	ModeSocratic     Key = "mode_socratic"
	ModeTeacher      Key = "mode_teacher"
	ModeVoice        Key = "mode_voice"
	ModeCurriculum   Key = "mode_curriculum"
	SocraticDesc     Key = "socratic_desc"
	TeacherDesc      Key = "teacher_desc"
	VoiceDesc        Key = "voice_desc"
	CurriculumDesc   Key = "curriculum_desc"
	CurrentTopic     Key = "current_topic"
	BudgetBalanced   Key = "budget_balanced"
	BudgetOver       Key = "budget_over"
	BudgetUnder      Key = "budget_under"
	QuizCorrect      Key = "correct"
	QuizIncorrect    Key = "incorrect"
	QuizComplete     Key = "quiz_complete"
	TxSuccess        Key = "transaction_success"
	TxInsufficient   Key = "transaction_insufficient"
	FeeLightning     Key = "fee_lightning"
	FeePriority      Key = "fee_priority"
	FeeEconomy       Key = "fee_economy"
	CategoryFood     Key = "food"
	CategoryHousing  Key = "housing"
	CategoryTransp   Key = "transport"
	CategorySavings  Key = "savings"
	CategoryLeisure  Key = "entertainment"
	XPEarned         Key = "xp_earned"
	AchievementsWord Key = "achievements"
)

// LabelKey returns the catalog key for an identifier-labelled entry such
// as an achievement ("ach_first_lesson") or a module ("basics").
func LabelKey(prefix, id string) Key {
	if prefix == "" {
		return Key(id)
	}
	return Key(prefix + id)
}

var catalog = map[Language]map[Key]string{
	English: {
		AppTitle: "Bitcoin Literacy El Salvador",
		Level:    "Level",
		XP:       "XP",

		ErrAPINotConfigured: "API not configured",
		ErrResponseFailed:   "Failed to get response",
		ErrConnection:       "Error connecting to AI",
		ErrNoResponse:       "No response",

		TutorTitle:      "AI Bitcoin Tutor",
		ChatPlaceholder: "Ask anything about Bitcoin...",
		ClearChat:       "Clear",
		Thinking:        "Thinking...",
		ModeSocratic:    "Socratic",
		ModeTeacher:     "Teach Me",
		ModeVoice:       "Simple",
		ModeCurriculum:  "Curriculum",
		SocraticDesc:    "I'll guide you with questions",
		TeacherDesc:     "Explain to me, I'll ask questions",
		VoiceDesc:       "Simple, conversational answers",
		CurriculumDesc:  "Follow the Bitcoin curriculum",
		CurrentTopic:    "Current topic",
		BudgetBalanced:  "Budget balanced! Great job!",
		BudgetOver:      "Over budget! Reduce expenses.",
		BudgetUnder:     "Under budget! Consider saving more in Bitcoin.",
		QuizCorrect:     "Correct! +10 XP",
		QuizIncorrect:   "Incorrect. The correct answer is:",
		QuizComplete:    "Quiz Complete!",
		TxSuccess:       "Transaction sent successfully!",
		TxInsufficient:  "Insufficient balance for this transaction",
		FeeLightning:    "Lightning",
		FeePriority:     "Priority",
		FeeEconomy:      "Economy",
		CategoryFood:    "Food",
		CategoryHousing: "Housing",
		CategoryTransp:  "Transportation",
		CategorySavings: "Savings (Bitcoin)",
		CategoryLeisure: "Entertainment",
		XPEarned:        "+XP earned!",

		AchievementsWord: "Achievements",

		"ach_first_lesson":    "First Lesson Complete",
		"ach_security_master": "Security Master",
		"ach_quiz_champion":   "Quiz Champion",
		"ach_budget_pro":      "Budget Pro",
		"ach_story_reader":    "Story Reader",

		"module_basics":    "Bitcoin Basics",
		"module_wallet":    "Wallet Security",
		"module_history":   "History of Money",
		"module_budget":    "Budgeting Game",
		"module_simulator": "Transaction Simulator",
		"module_quiz":      "Bitcoin Quiz",
		"module_stories":   "Bitcoin Stories",
		"module_tutor":     "AI Tutor",
	},
	Spanish: {
		AppTitle: "Educacion Bitcoin El Salvador",
		Level:    "Nivel",
		XP:       "XP",

		ErrAPINotConfigured: "API no configurada",
		ErrResponseFailed:   "No se pudo obtener respuesta",
		ErrConnection:       "Error al conectar con la IA",
		ErrNoResponse:       "Sin respuesta",

		TutorTitle:      "Tutor IA de Bitcoin",
		ChatPlaceholder: "Pregunta lo que quieras sobre Bitcoin...",
		ClearChat:       "Limpiar",
		Thinking:        "Pensando...",
		ModeSocratic:    "Socratico",
		ModeTeacher:     "Ensename",
		ModeVoice:       "Simple",
		ModeCurriculum:  "Curriculo",
		SocraticDesc:    "Te guio con preguntas",
		TeacherDesc:     "Explicame, te hare preguntas",
		VoiceDesc:       "Respuestas simples y conversacionales",
		CurriculumDesc:  "Sigue el curriculo de Bitcoin",
		CurrentTopic:    "Tema actual",
		BudgetBalanced:  "Presupuesto balanceado! Excelente!",
		BudgetOver:      "Sobre presupuesto! Reduce gastos.",
		BudgetUnder:     "Bajo presupuesto! Considera ahorrar mas en Bitcoin.",
		QuizCorrect:     "Correcto! +10 XP",
		QuizIncorrect:   "Incorrecto. La respuesta correcta es:",
		QuizComplete:    "Quiz Completado!",
		TxSuccess:       "Transaccion enviada exitosamente!",
		TxInsufficient:  "Saldo insuficiente para esta transaccion",
		FeeLightning:    "Lightning",
		FeePriority:     "Prioritaria",
		FeeEconomy:      "Economica",
		CategoryFood:    "Comida",
		CategoryHousing: "Vivienda",
		CategoryTransp:  "Transporte",
		CategorySavings: "Ahorros (Bitcoin)",
		CategoryLeisure: "Entretenimiento",
		XPEarned:        "+XP ganado!",

		AchievementsWord: "Logros",

		"ach_first_lesson":    "Primera Leccion Completada",
		"ach_security_master": "Maestro de Seguridad",
		"ach_quiz_champion":   "Campeon del Quiz",
		"ach_budget_pro":      "Profesional del Presupuesto",
		"ach_story_reader":    "Lector de Historias",

		"module_basics":    "Conceptos de Bitcoin",
		"module_wallet":    "Seguridad de Billetera",
		"module_history":   "Historia del Dinero",
		"module_budget":    "Juego de Presupuesto",
		"module_simulator": "Simulador de Transacciones",
		"module_quiz":      "Quiz de Bitcoin",
		"module_stories":   "Historias de Bitcoin",
		"module_tutor":     "Tutor IA",
	},
}

// T returns the string for key in lang. Lookup order is the requested
// language, then Default, then the raw key, so a missing entry is visible
// instead of blank.
func T(lang Language, key Key) string {
	if s, ok := catalog[lang][key]; ok && s != "" {
		return s
	}
	if s, ok := catalog[Default][key]; ok && s != "" {
		return s
	}
	return string(key)
}

// Has reports whether lang has its own entry for key.
func Has(lang Language, key Key) bool {
	_, ok := catalog[lang][key]
	return ok
}
