package games

import "github.com/abhisek/bitlit/internal/i18n"

// Question is a single multiple-choice quiz question.
type Question struct {
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"-"`
	Explanation string   `json:"-"`
}

// The question sets are parallel: index i is the same question in every
// language and shares its correct option.
var questionBank = map[i18n.Language][]Question{
	i18n.English: {
		{
			Prompt:      "How many Bitcoin will ever exist?",
			Options:     []string{"Unlimited", "21 million", "100 million", "1 billion"},
			Correct:     1,
			Explanation: "Bitcoin has a fixed supply cap of 21 million coins, making it scarce like gold.",
		},
		{
			Prompt:      "What year did El Salvador make Bitcoin legal tender?",
			Options:     []string{"2019", "2020", "2021", "2022"},
			Correct:     2,
			Explanation: "El Salvador became the first country to adopt Bitcoin as legal tender in September 2021.",
		},
		{
			Prompt:      "What is a satoshi?",
			Options:     []string{"A Bitcoin wallet", "The smallest unit of Bitcoin", "A type of transaction", "The founder of Bitcoin"},
			Correct:     1,
			Explanation: "A satoshi is the smallest unit of Bitcoin. 1 BTC = 100,000,000 satoshis.",
		},
		{
			Prompt:      "What should you NEVER share?",
			Options:     []string{"Your Bitcoin address", "Your seed phrase", "Your transaction history", "Your wallet app name"},
			Correct:     1,
			Explanation: "Your seed phrase gives complete access to your Bitcoin. Never share it with anyone!",
		},
		{
			Prompt:      "What is Lightning Network used for?",
			Options:     []string{"Mining Bitcoin", "Fast, cheap transactions", "Creating new Bitcoin", "Storing passwords"},
			Correct:     1,
			Explanation: "Lightning Network enables instant, low-cost Bitcoin transactions - perfect for everyday payments.",
		},
	},
	i18n.Spanish: {
		{
			Prompt:      "Cuantos Bitcoin existiran en total?",
			Options:     []string{"Ilimitados", "21 millones", "100 millones", "1 billon"},
			Correct:     1,
			Explanation: "Bitcoin tiene un limite fijo de 21 millones de monedas, haciendolo escaso como el oro.",
		},
		{
			Prompt:      "En que ano El Salvador hizo a Bitcoin moneda legal?",
			Options:     []string{"2019", "2020", "2021", "2022"},
			Correct:     2,
			Explanation: "El Salvador se convirtio en el primer pais en adoptar Bitcoin como moneda legal en septiembre 2021.",
		},
		{
			Prompt:      "Que es un satoshi?",
			Options:     []string{"Una billetera Bitcoin", "La unidad mas pequena de Bitcoin", "Un tipo de transaccion", "El fundador de Bitcoin"},
			Correct:     1,
			Explanation: "Un satoshi es la unidad mas pequena de Bitcoin. 1 BTC = 100,000,000 satoshis.",
		},
		{
			Prompt:      "Que NUNCA debes compartir?",
			Options:     []string{"Tu direccion Bitcoin", "Tu frase semilla", "Tu historial de transacciones", "El nombre de tu app"},
			Correct:     1,
			Explanation: "Tu frase semilla da acceso completo a tu Bitcoin. Nunca la compartas con nadie!",
		},
		{
			Prompt:      "Para que se usa Lightning Network?",
			Options:     []string{"Minar Bitcoin", "Transacciones rapidas y baratas", "Crear nuevo Bitcoin", "Guardar contrasenas"},
			Correct:     1,
			Explanation: "Lightning Network permite transacciones instantaneas y de bajo costo - perfecto para pagos diarios.",
		},
	},
}

// Questions returns the question set for lang, falling back to the
// default language.
func Questions(lang i18n.Language) []Question {
	if qs, ok := questionBank[lang]; ok {
		return qs
	}
	return questionBank[i18n.Default]
}

// QuestionCount is the number of questions in every language's set.
func QuestionCount() int {
	return len(questionBank[i18n.Default])
}
