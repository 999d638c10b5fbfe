package cli

import "business-english-quiz/internal/domain"

// sampleCatalog keeps the server usable without a catalog file; import a real one with `catalog import`.
func sampleCatalog() []domain.QuizItem {
	return []domain.QuizItem{
		{
			ID:         1,
			Sentence:   "We need to __ the budget before the end of the quarter.",
			SentencePl: "Musimy zatwierdzić budżet przed końcem kwartału.",
			Options: []domain.Option{
				{Word: "approve", WordPl: "zatwierdzić", IsCorrect: true},
				{Word: "borrow", WordPl: "pożyczyć"},
				{Word: "deliver", WordPl: "dostarczyć"},
			},
			CorrectWord: "approve",
		},
		{
			ID:         2,
			Sentence:   "Please send me the __ for the new project by Friday.",
			SentencePl: "Proszę przesłać mi wycenę nowego projektu do piątku.",
			Options: []domain.Option{
				{Word: "quote", WordPl: "wycena", IsCorrect: true},
				{Word: "refund", WordPl: "zwrot"},
				{Word: "invoice", WordPl: "faktura"},
			},
			CorrectWord: "quote",
		},
		{
			ID:         3,
			Sentence:   "The meeting has been __ until next Monday.",
			SentencePl: "Spotkanie zostało przełożone na przyszły poniedziałek.",
			Options: []domain.Option{
				{Word: "postponed", WordPl: "przełożone", IsCorrect: true},
				{Word: "cancelled", WordPl: "odwołane"},
				{Word: "attended", WordPl: "obecne"},
			},
			CorrectWord: "postponed",
		},
	}
}
