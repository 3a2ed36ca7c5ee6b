package h5p

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mind-engage/h5pimporter/internal/rowset"
)

// Columns every question row is expected to carry.
const (
	ColQuestion      = "question"
	ColAnswers       = "answers"
	ColCorrectAnswer = "correct_answer"
	ColFeedback      = "feedback"
)

var requiredColumns = []string{ColQuestion, ColAnswers, ColCorrectAnswer, ColFeedback}

// answerSeparator splits the answers cell into options.
const answerSeparator = "|"

// Warning flags input the builder tolerated. Row is 1-based.
type Warning struct {
	Row     int    `json:"row"`
	Column  string `json:"column,omitempty"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	if w.Column == "" {
		return fmt.Sprintf("row %d: %s", w.Row, w.Message)
	}
	return fmt.Sprintf("row %d, %s: %s", w.Row, w.Column, w.Message)
}

// MetadataProvider supplies the metadata block of each question.
type MetadataProvider interface {
	QuestionMetadata(row rowset.Row, questionHTML string) Metadata
}

// MetadataFunc adapts a function to MetadataProvider.
type MetadataFunc func(row rowset.Row, questionHTML string) Metadata

func (f MetadataFunc) QuestionMetadata(row rowset.Row, questionHTML string) Metadata {
	return f(row, questionHTML)
}

// DefaultMetadata titles each question with its HTML text.
var DefaultMetadata MetadataProvider = MetadataFunc(func(_ rowset.Row, questionHTML string) Metadata {
	return Metadata{
		ContentType: "Multiple Choice",
		License:     "U",
		Title:       questionHTML,
		Authors:     []Author{},
		Changes:     []Change{},
		ExtraTitle:  "",
	}
})

// QuestionSetBuilder turns question rows into a QuestionSet.
type QuestionSetBuilder struct {
	newID    func() string
	log      *zap.Logger
	metadata MetadataProvider
}

type Option func(*QuestionSetBuilder)

// WithIDGenerator replaces uuid.NewString as the subContentId source.
func WithIDGenerator(gen func() string) Option {
	return func(b *QuestionSetBuilder) {
		if gen != nil {
			b.newID = gen
		}
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(b *QuestionSetBuilder) {
		if log != nil {
			b.log = log
		}
	}
}

func WithMetadataProvider(p MetadataProvider) Option {
	return func(b *QuestionSetBuilder) {
		if p != nil {
			b.metadata = p
		}
	}
}

func NewQuestionSetBuilder(opts ...Option) *QuestionSetBuilder {
	b := &QuestionSetBuilder{
		newID:    uuid.NewString,
		log:      zap.NewNop(),
		metadata: DefaultMetadata,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Library implements ContentType.
func (b *QuestionSetBuilder) Library() string { return LibraryQuestionSet }

// BuildContent implements ContentType.
func (b *QuestionSetBuilder) BuildContent(rows rowset.RowSet) (Result, error) {
	doc, warnings := b.BuildWithReport(rows)
	return Result{Document: doc, Questions: len(doc.Questions), Warnings: warnings}, nil
}

// Build is BuildWithReport without the warnings.
func (b *QuestionSetBuilder) Build(rows rowset.RowSet) QuestionSet {
	doc, _ := b.BuildWithReport(rows)
	return doc
}

// BuildWithReport produces one question per row, in row order. Missing
// columns read as "" and a malformed correct_answer marks no option
// correct; both are reported as warnings and never change the output shape.
func (b *QuestionSetBuilder) BuildWithReport(rows rowset.RowSet) (QuestionSet, []Warning) {
	doc := NewQuestionSet()
	var warnings []Warning

	for i, row := range rows.Rows {
		n := i + 1
		for _, col := range requiredColumns {
			if !row.Has(col) {
				warnings = append(warnings, Warning{Row: n, Column: col, Message: "column missing, using empty value"})
			}
		}

		q, w := b.question(n, row)
		warnings = append(warnings, w...)
		doc.Questions = append(doc.Questions, q)
	}

	for _, w := range warnings {
		b.log.Debug("question row tolerated", zap.Int("row", w.Row), zap.String("column", w.Column), zap.String("warning", w.Message))
	}
	return doc, warnings
}

func (b *QuestionSetBuilder) question(n int, row rowset.Row) (Question, []Warning) {
	var warnings []Warning

	rawCorrect := row.Value(ColCorrectAnswer)
	correct, clean := leadingInt(rawCorrect)
	if row.Has(ColCorrectAnswer) && !clean {
		warnings = append(warnings, Warning{Row: n, Column: ColCorrectAnswer,
			Message: fmt.Sprintf("%q is not a plain integer, read as %d", rawCorrect, correct)})
	}

	feedback := row.Value(ColFeedback)
	texts := strings.Split(row.Value(ColAnswers), answerSeparator)
	answers := make([]Answer, 0, len(texts))
	for i, text := range texts {
		answers = append(answers, Answer{
			Correct: correct == i+1,
			TipsAndFeedback: TipsAndFeedback{
				Tip:               "",
				ChosenFeedback:    feedback,
				NotChosenFeedback: "",
			},
			Text: "<div>" + strings.TrimSpace(text) + "</div>\n",
		})
	}
	if clean && (correct < 1 || correct > len(answers)) {
		warnings = append(warnings, Warning{Row: n, Column: ColCorrectAnswer,
			Message: fmt.Sprintf("%d is outside 1..%d, no option marked correct", correct, len(answers))})
	}

	questionHTML := "<p>" + row.Value(ColQuestion) + "</p>\n"
	return Question{
		Params: QuestionParams{
			Media:           Media{DisableImageZooming: false},
			Answers:         answers,
			OverallFeedback: fullRange(),
			Behaviour:       defaultBehaviour(),
			UI:              defaultUI(),
			ConfirmCheck:    confirmCheck(),
			ConfirmRetry:    confirmRetry(),
			Question:        questionHTML,
		},
		Library:      LibraryMultiChoice,
		Metadata:     b.metadata.QuestionMetadata(row, questionHTML),
		SubContentID: b.newID(),
	}, warnings
}
