package ai

import (
	"fmt"
	"strings"

	"github.com/jbrukh/bayesian"

	"financas-bot/internal/model"
)

// Suggester é o plano B da resolução de categoria: um classificador
// bayesiano TF-IDF treinado no histórico do próprio usuário, usado
// quando o modelo de linguagem está fora do ar.
type Suggester struct {
	classes []bayesian.Class
	cl      *bayesian.Classifier
}

// NewSuggester treina o classificador com as transações já
// categorizadas do usuário. Precisa de pelo menos duas categorias
// distintas com histórico.
func NewSuggester(txns []model.Transaction) (*Suggester, error) {
	seen := make(map[string]bool)
	for _, t := range txns {
		if t.Category != "" {
			seen[strings.ToLower(t.Category)] = true
		}
	}
	if len(seen) < 2 {
		return nil, fmt.Errorf("suggester: need at least two categories with history, got %d", len(seen))
	}

	s := &Suggester{classes: make([]bayesian.Class, 0, len(seen))}
	for name := range seen {
		s.classes = append(s.classes, bayesian.Class(name))
	}
	s.cl = bayesian.NewClassifierTfIdf(s.classes...)

	for _, t := range txns {
		terms := descriptionTerms(t.Description)
		if t.Category == "" || len(terms) == 0 {
			continue
		}
		s.cl.Learn(terms, bayesian.Class(strings.ToLower(t.Category)))
	}
	s.cl.ConvertTermsFreqToTfIdf()
	return s, nil
}

// Suggest devolve a categoria mais provável para a descrição.
func (s *Suggester) Suggest(description string) (string, bool) {
	terms := descriptionTerms(description)
	if len(terms) == 0 {
		return "", false
	}
	scores, best, _ := s.cl.LogScores(terms)
	if len(scores) == 0 || best < 0 || best >= len(s.classes) {
		return "", false
	}
	return string(s.classes[best]), true
}

func descriptionTerms(description string) []string {
	return strings.Fields(strings.ToLower(description))
}
