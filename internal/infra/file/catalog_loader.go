package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"business-english-quiz/internal/domain"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"
)

// CatalogLoader reads the quiz catalog from a .json, .yaml/.yml, .csv or .xlsx file.
type CatalogLoader struct {
	path  string
	sheet string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

// WithSheet picks the spreadsheet tab for .xlsx catalogs (the first tab by default).
func (l *CatalogLoader) WithSheet(sheet string) *CatalogLoader {
	l.sheet = sheet
	return l
}

func (l *CatalogLoader) LoadCatalog(_ context.Context) ([]domain.QuizItem, error) {
	var (
		items []domain.QuizItem
		err   error
	)
	switch strings.ToLower(filepath.Ext(l.path)) {
	case ".json":
		items, err = l.loadJSON()
	case ".yaml", ".yml":
		items, err = l.loadYAML()
	case ".csv":
		items, err = l.loadCSV()
	case ".xlsx":
		items, err = l.loadXLSX()
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedCatalogFormat, l.path)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", l.path, err)
	}
	if err := domain.ValidateCatalog(items); err != nil {
		return nil, err
	}
	return items, nil
}

// catalogFile accepts either a bare list or an object with an "items" list.
type catalogFile struct {
	Items []domain.QuizItem `json:"items" yaml:"items"`
}

func (l *CatalogLoader) loadJSON() ([]domain.QuizItem, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var items []domain.QuizItem
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, fmt.Errorf("unmarshal catalog: %w", err)
		}
		return items, nil
	}
	var wrapper catalogFile
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	return wrapper.Items, nil
}

func (l *CatalogLoader) loadYAML() ([]domain.QuizItem, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		var items []domain.QuizItem
		if err := node.Decode(&items); err != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		return items, nil
	}
	var wrapper catalogFile
	if err := node.Decode(&wrapper); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return wrapper.Items, nil
}

func (l *CatalogLoader) loadCSV() ([]domain.QuizItem, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // options vary per row
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return ParseRows(rows)
}

func (l *CatalogLoader) loadXLSX() ([]domain.QuizItem, error) {
	f, err := excelize.OpenFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := l.sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return ParseRows(rows)
}

// ParseRows converts spreadsheet rows into quiz items. Columns are
// id, sentence, sentence_pl, then one option per cell as "word=translation";
// the correct option is prefixed with "*". A leading header row starting with "id" is skipped.
func ParseRows(rows [][]string) ([]domain.QuizItem, error) {
	items := make([]domain.QuizItem, 0, len(rows))
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if i == 0 && strings.EqualFold(strings.TrimSpace(row[0]), "id") {
			continue
		}
		item, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func parseRow(row []string) (domain.QuizItem, error) {
	if len(row) < 5 {
		return domain.QuizItem{}, fmt.Errorf("%w: expected at least 5 columns, got %d", domain.ErrInvalidQuizItem, len(row))
	}
	id, err := strconv.Atoi(strings.TrimSpace(row[0]))
	if err != nil {
		return domain.QuizItem{}, fmt.Errorf("%w: bad id %q", domain.ErrInvalidQuizItem, row[0])
	}

	item := domain.QuizItem{
		ID:         id,
		Sentence:   strings.TrimSpace(row[1]),
		SentencePl: strings.TrimSpace(row[2]),
	}
	for _, cell := range row[3:] {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			continue
		}
		opt := domain.Option{}
		if strings.HasPrefix(cell, "*") {
			opt.IsCorrect = true
			cell = cell[1:]
		}
		word, translation, _ := strings.Cut(cell, "=")
		opt.Word = strings.TrimSpace(word)
		opt.WordPl = strings.TrimSpace(translation)
		if opt.IsCorrect {
			item.CorrectWord = opt.Word
		}
		item.Options = append(item.Options, opt)
	}
	return item, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
