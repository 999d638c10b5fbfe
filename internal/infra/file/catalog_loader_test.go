package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"business-english-quiz/internal/domain"
	"github.com/xuri/excelize/v2"
)

const jsonCatalog = `[
  {
    "id": 1,
    "sentence": "Let's __ the meeting to Friday.",
    "sentence_pl": "Przełóżmy spotkanie na piątek.",
    "options": [
      {"word": "cancel", "word_pl": "odwołać", "isCorrect": false},
      {"word": "postpone", "word_pl": "przełożyć", "isCorrect": true}
    ],
    "correctWord": "postpone"
  }
]`

const yamlCatalog = `items:
  - id: 1
    sentence: "Let's __ the meeting to Friday."
    sentence_pl: "Przełóżmy spotkanie na piątek."
    correctWord: postpone
    options:
      - word: cancel
        word_pl: odwołać
      - word: postpone
        word_pl: przełożyć
        isCorrect: true
`

const csvCatalog = `id,sentence,sentence_pl,option,option
1,Let's __ the meeting to Friday.,Przełóżmy spotkanie na piątek.,cancel=odwołać,*postpone=przełożyć
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func assertSample(t *testing.T, items []domain.QuizItem) {
	t.Helper()
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	got := items[0]
	if got.ID != 1 || got.CorrectWord != "postpone" || len(got.Options) != 2 {
		t.Fatalf("unexpected item %+v", got)
	}
	if got.Options[0].Word != "cancel" || got.Options[0].IsCorrect || !got.Options[1].IsCorrect {
		t.Fatalf("option order or flags lost: %+v", got.Options)
	}
	if got.Options[1].WordPl != "przełożyć" || got.SentencePl != "Przełóżmy spotkanie na piątek." {
		t.Fatalf("translations lost: %+v", got)
	}
}

func TestLoadJSONCatalog(t *testing.T) {
	items, err := NewCatalogLoader(writeFile(t, "catalog.json", jsonCatalog)).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSample(t, items)

	wrapped := `{"items": ` + jsonCatalog + `}`
	items, err = NewCatalogLoader(writeFile(t, "wrapped.json", wrapped)).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load wrapped: %v", err)
	}
	assertSample(t, items)
}

func TestLoadYAMLCatalog(t *testing.T) {
	items, err := NewCatalogLoader(writeFile(t, "catalog.yaml", yamlCatalog)).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSample(t, items)
}

func TestLoadCSVCatalog(t *testing.T) {
	items, err := NewCatalogLoader(writeFile(t, "catalog.csv", csvCatalog)).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSample(t, items)
}

func TestLoadXLSXCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"id", "sentence", "sentence_pl", "option", "option"},
		{1, "Let's __ the meeting to Friday.", "Przełóżmy spotkanie na piątek.", "cancel=odwołać", "*postpone=przełożyć"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	_ = f.Close()

	items, err := NewCatalogLoader(path).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	assertSample(t, items)
}

func TestLoadRejectsBadCatalogs(t *testing.T) {
	_, err := NewCatalogLoader(writeFile(t, "catalog.txt", "")).LoadCatalog(context.Background())
	if !errors.Is(err, domain.ErrUnsupportedCatalogFormat) {
		t.Fatalf("expected ErrUnsupportedCatalogFormat, got %v", err)
	}

	noCorrect := "1,Let's __ it.,Zrób to.,cancel=odwołać,postpone=przełożyć\n"
	_, err = NewCatalogLoader(writeFile(t, "bad.csv", noCorrect)).LoadCatalog(context.Background())
	if !errors.Is(err, domain.ErrInvalidQuizItem) {
		t.Fatalf("expected ErrInvalidQuizItem, got %v", err)
	}

	_, err = NewCatalogLoader(writeFile(t, "empty.json", "[]")).LoadCatalog(context.Background())
	if !errors.Is(err, domain.ErrCatalogEmpty) {
		t.Fatalf("expected ErrCatalogEmpty, got %v", err)
	}
}
